package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/koushik24k/AgentFlow/viewer"
)

// runViewer serves previously generated run artifacts over HTTP until the
// context is cancelled.
func runViewer(ctx context.Context, args []string) int {
	flags, _ := parseFlags(args)
	host := flags.str("host", "127.0.0.1")
	port := flags.num("port", 5050)
	directory, err := filepath.Abs(flags.str("directory", "."))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to resolve directory: %v\n", err)
		return 1
	}
	if info, err := os.Stat(directory); err != nil || !info.IsDir() {
		fmt.Fprintf(os.Stderr, "Directory not found: %s\n", directory)
		return 1
	}

	server, err := viewer.NewServer(viewer.Config{
		Addr:      fmt.Sprintf("%s:%d", host, port),
		Directory: directory,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	if err := server.ListenAndServe(ctx); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "viewer failed: %v\n", err)
		return 1
	}
	return 0
}

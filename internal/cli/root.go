// Package cli implements the agentflow command surface: single prompt runs,
// the adaptive workflow loop, and the artifact viewer.
package cli

import (
	"context"
	"strings"
)

// Run dispatches the CLI and returns the process exit code. Bare arguments
// are treated as a free-form prompt for a single pipeline run.
func Run(ctx context.Context, args []string) int {
	if len(args) < 1 {
		printUsage()
		return 1
	}

	switch strings.TrimSpace(args[0]) {
	case "workflow":
		return runWorkflow(ctx, args[1:])
	case "view":
		return runViewer(ctx, args[1:])
	case "help", "-h", "--help":
		printUsage()
		return 0
	default:
		return runPrompt(ctx, args)
	}
}

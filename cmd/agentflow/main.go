package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/koushik24k/AgentFlow/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	code := cli.Run(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}

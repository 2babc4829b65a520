package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/koushik24k/AgentFlow/internal/config"
	"github.com/koushik24k/AgentFlow/pipeline"
	"github.com/koushik24k/AgentFlow/workflow"
)

const defaultWorkflowCycles = 3

// runWorkflow drives the adaptive multi-cycle loop.
func runWorkflow(ctx context.Context, args []string) int {
	flags, positional := parseFlags(args)
	basePrompt := normalizeInput(positional)
	if basePrompt == "" {
		fmt.Fprintln(os.Stderr, "Prompt text is required for workflow execution.")
		printUsage()
		return 1
	}

	cycles := flags.num("cycles", defaultWorkflowCycles)
	if cycles < 1 {
		fmt.Fprintln(os.Stderr, "--cycles must be a positive integer.")
		return 1
	}
	output := flags.str("output", "yaml")
	if output != "yaml" && output != "afl" {
		fmt.Fprintf(os.Stderr, "--output must be yaml or afl, got %q.\n", output)
		return 1
	}

	settings, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	historyRoot, err := filepath.Abs(flags.str("history-root", settings.HistoryRoot))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to resolve history root: %v\n", err)
		return 1
	}

	adapter, err := buildAdapter()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	p, err := pipeline.New(adapter)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	loop, err := workflow.NewLoop(p, historyRoot)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}

	outcome, err := loop.Run(ctx, workflow.Options{
		BasePrompt:       basePrompt,
		Cycles:           cycles,
		WorkflowID:       flags.str("workflow-id", ""),
		RequestRendering: output == "afl",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "workflow failed: %v\n", err)
		return 1
	}

	fmt.Printf("Workflow history written to: %s\n", outcome.HistoryPath)
	if outcome.FailedCycle != 0 {
		fmt.Printf("Workflow halted after cycle %d; inspect per-cycle artifacts for details.\n", outcome.FailedCycle)
		return 1
	}
	return 0
}

package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/koushik24k/AgentFlow/artifact"
	"github.com/koushik24k/AgentFlow/gateway"
	"github.com/koushik24k/AgentFlow/internal/config"
	"github.com/koushik24k/AgentFlow/pipeline"
	"github.com/koushik24k/AgentFlow/types"
)

// runPrompt executes one pipeline run and persists the artifact in the
// current directory. It always writes the artifact, even for failed runs.
func runPrompt(ctx context.Context, args []string) int {
	prompt := normalizeInput(args)
	if prompt == "" {
		printUsage()
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

	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to resolve working directory: %v\n", err)
		return 1
	}

	// The plan id is derived from the artifact file name, so resolve the
	// target path first.
	path, planID := artifact.ResolveRunPath(cwd, time.Now().UTC())
	result := p.Execute(ctx, pipeline.Request{Prompt: prompt, PlanID: planID})
	record := result.Record
	if err := artifact.WriteYAML(path, record); err != nil {
		log.Printf("failed to persist run artifact: %v", err)
		return 1
	}

	fmt.Printf("Wrote plan artifact: %s\n", path)
	if result.Evaluation != nil && result.Evaluation.Score != nil {
		fmt.Printf("Self-evaluation score: %.3f\n", *result.Evaluation.Score)
	}
	if record.Status == types.RunFailed {
		fmt.Fprintln(os.Stderr, "Execution failed; inspect the YAML artifact for details.")
		return 1
	}
	return 0
}

func buildAdapter() (gateway.Adapter, error) {
	settings, err := config.FromEnv()
	if err != nil {
		return nil, err
	}
	return gateway.New(settings.Adapter, gateway.Config{
		CodexBinary:  settings.CodexBinary,
		ClaudeBinary: settings.ClaudeBinary,
	})
}

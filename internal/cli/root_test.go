package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/koushik24k/AgentFlow/artifact"
	"github.com/koushik24k/AgentFlow/types"
	"github.com/koushik24k/AgentFlow/workflow"
)

func useMockAdapter(t *testing.T) {
	t.Helper()
	t.Setenv("AGENTFLOW_ADAPTER", "mock")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "")
}

func TestRunWithoutArgsPrintsUsage(t *testing.T) {
	if code := Run(context.Background(), nil); code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
}

func TestRunHelp(t *testing.T) {
	if code := Run(context.Background(), []string{"help"}); code != 0 {
		t.Errorf("exit code = %d, want 0", code)
	}
}

func TestRunPromptWritesArtifact(t *testing.T) {
	useMockAdapter(t)
	origDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { os.Chdir(origDir) })

	if code := Run(context.Background(), []string{"Summarize", "the", "design"}); code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}

	matches, err := filepath.Glob("agentflow-*.yaml")
	if err != nil || len(matches) != 1 {
		t.Fatalf("artifact files = %v (err %v), want exactly one", matches, err)
	}
	var record types.RunRecord
	if err := artifact.ReadYAML(matches[0], &record); err != nil {
		t.Fatalf("reading artifact: %v", err)
	}
	if record.Status != types.RunCompleted {
		t.Errorf("run status = %q", record.Status)
	}
	if record.Description != "Summarize the design" {
		t.Errorf("prompt persisted as %q", record.Description)
	}
}

func TestRunWorkflowCommand(t *testing.T) {
	useMockAdapter(t)
	historyRoot := t.TempDir()

	code := Run(context.Background(), []string{
		"workflow",
		"--cycles=2",
		"--workflow-id=cli-test",
		"--history-root=" + historyRoot,
		"--",
		"Plan a rollout",
	})
	if code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}

	history := workflow.LoadHistory(filepath.Join(historyRoot, "cli-test"))
	if len(history.Runs) != 2 {
		t.Fatalf("history has %d runs, want 2", len(history.Runs))
	}
	if history.BasePrompt != "Plan a rollout" {
		t.Errorf("base prompt = %q", history.BasePrompt)
	}
}

func TestRunWorkflowRejectsBadFlags(t *testing.T) {
	useMockAdapter(t)
	if code := Run(context.Background(), []string{"workflow", "--cycles=0", "--", "p"}); code != 1 {
		t.Errorf("zero cycles exit code = %d, want 1", code)
	}
	if code := Run(context.Background(), []string{"workflow", "--output=pdf", "--", "p"}); code != 1 {
		t.Errorf("bad output exit code = %d, want 1", code)
	}
	if code := Run(context.Background(), []string{"workflow"}); code != 1 {
		t.Errorf("missing prompt exit code = %d, want 1", code)
	}
}

func TestRunViewRejectsMissingDirectory(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent")
	if code := Run(context.Background(), []string{"view", "--directory=" + missing}); code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if _, err := os.Stat(missing); err == nil {
		t.Error("view command should not create the directory")
	}
}

func TestParseFlags(t *testing.T) {
	flags, positional := parseFlags([]string{"--cycles=4", "--workflow-id=demo", "--", "build", "a", "plan"})
	if flags.num("cycles", 0) != 4 {
		t.Errorf("cycles = %d", flags.num("cycles", 0))
	}
	if flags.str("workflow-id", "") != "demo" {
		t.Errorf("workflow-id = %q", flags.str("workflow-id", ""))
	}
	if got := normalizeInput(positional); got != "build a plan" {
		t.Errorf("normalized input = %q", got)
	}
	if !strings.Contains(flags.str("missing", "fallback"), "fallback") {
		t.Error("fallback lookup broken")
	}
}

package workflow

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/koushik24k/AgentFlow/types"
)

func TestHistoryRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "wf-history")
	score := 0.75
	original := History{
		WorkflowID:  "wf-history",
		BasePrompt:  "Design a queue",
		CreatedAt:   time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC),
		LastUpdated: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
		Runs: []HistoryEntry{{
			Cycle:            1,
			Prompt:           "Design a queue",
			PromptAdjustment: "Initial cycle prompt with no adjustments.",
			PlanPath:         "/tmp/plan.yaml",
			Evaluation:       &types.Evaluation{Score: &score, Justification: "solid"},
			PlanStatus:       types.RunCompleted,
			CreatedAt:        time.Date(2025, 6, 1, 8, 30, 0, 0, time.UTC),
		}},
	}

	path, err := SaveHistory(dir, original)
	if err != nil {
		t.Fatalf("SaveHistory() error = %v", err)
	}
	if filepath.Base(path) != "history.yaml" {
		t.Errorf("history file = %q", filepath.Base(path))
	}

	loaded := LoadHistory(dir)
	if loaded.WorkflowID != original.WorkflowID {
		t.Errorf("workflow id = %q", loaded.WorkflowID)
	}
	if len(loaded.Runs) != 1 {
		t.Fatalf("loaded %d runs, want 1", len(loaded.Runs))
	}
	entry := loaded.Runs[0]
	if entry.Evaluation == nil || entry.Evaluation.Score == nil || *entry.Evaluation.Score != 0.75 {
		t.Errorf("evaluation lost in round trip: %+v", entry.Evaluation)
	}
	if entry.PlanStatus != types.RunCompleted {
		t.Errorf("plan status = %q", entry.PlanStatus)
	}
	if entry.RenderingPath != "" {
		t.Errorf("rendering path should stay empty, got %q", entry.RenderingPath)
	}
}

func TestLoadHistoryMissingDir(t *testing.T) {
	history := LoadHistory(filepath.Join(t.TempDir(), "never-created"))
	if history.WorkflowID != "" || len(history.Runs) != 0 {
		t.Errorf("missing history should load as zero value, got %+v", history)
	}
}

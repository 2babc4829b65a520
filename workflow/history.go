package workflow

import (
	"os"
	"path/filepath"
	"time"

	"github.com/koushik24k/AgentFlow/artifact"
	"github.com/koushik24k/AgentFlow/flowspec"
	"github.com/koushik24k/AgentFlow/types"
)

const historyFileName = "history.yaml"

// History is the append-only cross-cycle ledger for one workflow id. It is
// loaded once at loop start and rewritten after every cycle, so a crash
// mid-cycle loses at most the in-flight entry.
type History struct {
	WorkflowID  string         `yaml:"workflow_id" json:"workflow_id"`
	BasePrompt  string         `yaml:"base_prompt" json:"base_prompt"`
	CreatedAt   time.Time      `yaml:"created_at" json:"created_at"`
	LastUpdated time.Time      `yaml:"last_updated" json:"last_updated"`
	Runs        []HistoryEntry `yaml:"runs" json:"runs"`
}

// HistoryEntry captures one cycle: the prompt that ran, why it was adjusted,
// where the artifacts live, and how the run scored.
type HistoryEntry struct {
	Cycle            int               `yaml:"cycle" json:"cycle"`
	Prompt           string            `yaml:"prompt" json:"prompt"`
	PromptAdjustment string            `yaml:"prompt_adjustment" json:"prompt_adjustment"`
	PlanPath         string            `yaml:"plan_path" json:"plan_path"`
	RenderingPath    string            `yaml:"afl_path,omitempty" json:"afl_path,omitempty"`
	Evaluation       *types.Evaluation `yaml:"evaluation,omitempty" json:"evaluation,omitempty"`
	FlowSummary      *flowspec.Summary `yaml:"flow_summary,omitempty" json:"flow_summary,omitempty"`
	PlanStatus       types.RunStatus   `yaml:"plan_status" json:"plan_status"`
	CreatedAt        time.Time         `yaml:"created_at" json:"created_at"`
}

// LoadHistory reads the ledger from dir. A missing or unreadable file is
// treated as an empty history.
func LoadHistory(dir string) History {
	var history History
	path := filepath.Join(dir, historyFileName)
	if _, err := os.Stat(path); err != nil {
		return History{}
	}
	if err := artifact.ReadYAML(path, &history); err != nil {
		return History{}
	}
	return history
}

// SaveHistory rewrites the whole ledger and returns its path.
func SaveHistory(dir string, history History) (string, error) {
	path := filepath.Join(dir, historyFileName)
	if err := artifact.WriteYAML(path, history); err != nil {
		return "", err
	}
	return path, nil
}

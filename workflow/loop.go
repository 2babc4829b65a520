// Package workflow runs the adaptive multi-cycle loop: execute the run
// pipeline N times under one workflow id, feed prior-cycle evaluation
// feedback into each subsequent prompt, and persist the cross-cycle history
// ledger after every cycle.
package workflow

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/koushik24k/AgentFlow/artifact"
	"github.com/koushik24k/AgentFlow/observe"
	"github.com/koushik24k/AgentFlow/pipeline"
	"github.com/koushik24k/AgentFlow/types"
)

// Runner executes one pipeline run. Satisfied by *pipeline.Pipeline.
type Runner interface {
	Execute(ctx context.Context, req pipeline.Request) pipeline.Result
}

type Loop struct {
	runner      Runner
	historyRoot string
	sink        observe.Sink
	now         func() time.Time
}

type LoopOption func(*Loop)

func WithSink(sink observe.Sink) LoopOption {
	return func(l *Loop) {
		if sink != nil {
			l.sink = sink
		}
	}
}

func WithClock(now func() time.Time) LoopOption {
	return func(l *Loop) {
		if now != nil {
			l.now = now
		}
	}
}

func NewLoop(runner Runner, historyRoot string, opts ...LoopOption) (*Loop, error) {
	if runner == nil {
		return nil, fmt.Errorf("pipeline runner is required")
	}
	if strings.TrimSpace(historyRoot) == "" {
		return nil, fmt.Errorf("history root directory is required")
	}
	l := &Loop{
		runner:      runner,
		historyRoot: historyRoot,
		sink:        observe.NoopSink{},
		now:         func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

type Options struct {
	BasePrompt       string
	Cycles           int
	WorkflowID       string
	RequestRendering bool
}

// Outcome summarizes one loop invocation. FailedCycle is zero when every
// cycle completed.
type Outcome struct {
	WorkflowID  string
	HistoryPath string
	Runs        []HistoryEntry
	FailedCycle int
}

// Run executes up to opts.Cycles pipeline runs, halting early the first
// cycle whose run status is failed. Cycle k+1 never starts before cycle k's
// history entry is durably written.
func (l *Loop) Run(ctx context.Context, opts Options) (Outcome, error) {
	if strings.TrimSpace(opts.BasePrompt) == "" {
		return Outcome{}, fmt.Errorf("base prompt is required")
	}
	if opts.Cycles < 1 {
		return Outcome{}, fmt.Errorf("cycles must be at least 1")
	}

	workflowID := DetermineWorkflowID(opts.WorkflowID, l.now())
	historyDir := filepath.Join(l.historyRoot, workflowID)

	history := LoadHistory(historyDir)
	if history.WorkflowID == "" {
		now := l.now()
		history = History{
			WorkflowID:  workflowID,
			BasePrompt:  opts.BasePrompt,
			CreatedAt:   now,
			LastUpdated: now,
			Runs:        []HistoryEntry{},
		}
	}

	outcome := Outcome{WorkflowID: workflowID, HistoryPath: filepath.Join(historyDir, historyFileName)}
	runs := history.Runs
	startingCycle := len(runs) + 1
	baseSummary := types.SummaryFromPrompt(opts.BasePrompt, "Workflow cycle")

	for offset := 0; offset < opts.Cycles; offset++ {
		cycle := startingCycle + offset
		prompt, adjustment := BuildCyclePrompt(opts.BasePrompt, runs)

		planBase := fmt.Sprintf("%s-cycle%02d", workflowID, cycle)
		planPath, planID := artifact.ResolveArtifactPath(historyDir, planBase)

		result := l.runner.Execute(ctx, pipeline.Request{
			Prompt:           prompt,
			Summary:          fmt.Sprintf("%s (cycle %d)", baseSummary, cycle),
			PlanID:           planID,
			RequestRendering: opts.RequestRendering,
		})
		record := result.Record
		if err := artifact.WriteYAML(planPath, record); err != nil {
			return outcome, err
		}

		renderingPath := ""
		if opts.RequestRendering && result.Rendering != "" {
			path, err := artifact.WriteRendering(planPath, result.Rendering)
			if err != nil {
				return outcome, err
			}
			renderingPath = path
		}

		// Append the reflection node post-hoc and rewrite the artifact so
		// the persisted record includes it.
		now := l.now()
		reflection := BuildReflectionNode(cycle, record, adjustment, result.Evaluation, result.FlowSummary, now)
		record.Nodes = append(record.Nodes, reflection)
		record.Rollup.Counts.Succeeded++
		record.LastUpdated = now
		if err := artifact.WriteYAML(planPath, record); err != nil {
			return outcome, err
		}

		entry := HistoryEntry{
			Cycle:            cycle,
			Prompt:           prompt,
			PromptAdjustment: adjustment.Summary,
			PlanPath:         planPath,
			RenderingPath:    renderingPath,
			Evaluation:       result.Evaluation,
			FlowSummary:      result.FlowSummary,
			PlanStatus:       record.Status,
			CreatedAt:        now,
		}
		runs = append(runs, entry)
		history.Runs = runs
		history.LastUpdated = l.now()

		historyPath, err := SaveHistory(historyDir, history)
		if err != nil {
			return outcome, err
		}
		outcome.HistoryPath = historyPath
		outcome.Runs = runs

		l.emitCycleEvent(ctx, workflowID, cycle, record, planPath)
		if record.Status == types.RunFailed {
			outcome.FailedCycle = cycle
			break
		}
	}

	return outcome, nil
}

func (l *Loop) emitCycleEvent(ctx context.Context, workflowID string, cycle int, record *types.RunRecord, planPath string) {
	event := observe.Event{
		WorkflowID: workflowID,
		RunID:      record.PlanID,
		Cycle:      cycle,
		Status:     observe.StatusCompleted,
		Message:    planPath,
		Timestamp:  l.now(),
	}
	if record.Status == types.RunFailed {
		event.Status = observe.StatusFailed
		if record.Error != nil {
			event.Error = record.Error.Message
		}
	}
	_ = l.sink.Emit(ctx, event)
}

var workflowIDSanitizer = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// DetermineWorkflowID sanitizes a caller-supplied id, or derives one from
// the timestamp when none is given.
func DetermineWorkflowID(candidate string, at time.Time) string {
	fallback := "workflow-" + at.UTC().Format("20060102150405")
	if strings.TrimSpace(candidate) == "" {
		return fallback
	}
	sanitized := strings.Trim(workflowIDSanitizer.ReplaceAllString(candidate, "-"), "-")
	if sanitized == "" {
		return fallback
	}
	return sanitized
}

package pipeline

import (
	"testing"
	"time"

	"github.com/koushik24k/AgentFlow/flowspec"
	"github.com/koushik24k/AgentFlow/types"
)

func TestApplyNeverRegressesFields(t *testing.T) {
	first := &flowspec.Spec{Nodes: []flowspec.SpecNode{{ID: "original"}}}
	second := &flowspec.Spec{Nodes: []flowspec.SpecNode{{ID: "intruder"}}}

	state := runState{}
	state = state.apply(patch{spec: first})
	state = state.apply(patch{spec: second})
	if state.spec != first {
		t.Fatal("a later stage must not replace an already-extracted spec")
	}

	rendering := "flow a {}"
	other := "flow b {}"
	state = state.apply(patch{rendering: &rendering})
	state = state.apply(patch{rendering: &other})
	if state.rendering != rendering {
		t.Fatalf("rendering regressed to %q", state.rendering)
	}
}

func TestApplyFinishTimeOnlyAdvances(t *testing.T) {
	t1 := time.Date(2025, 1, 1, 0, 0, 10, 0, time.UTC)
	earlier := t1.Add(-5 * time.Second)
	later := t1.Add(5 * time.Second)

	state := runState{}
	state = state.apply(patch{finishedAt: &t1})
	state = state.apply(patch{finishedAt: &earlier})
	if !state.finishedAt.Equal(t1) {
		t.Fatalf("finish time moved backward to %v", state.finishedAt)
	}
	state = state.apply(patch{finishedAt: &later})
	if !state.finishedAt.Equal(later) {
		t.Fatalf("finish time failed to advance, still %v", state.finishedAt)
	}
}

func TestApplyRefinalizationKeepsStatus(t *testing.T) {
	t1 := time.Date(2025, 1, 1, 0, 0, 10, 0, time.UTC)
	finalized := &types.RunRecord{Status: types.RunCompleted, LastUpdated: t1}

	state := runState{}
	state = state.apply(patch{record: finalized})

	// Re-running finalize with an earlier clock must change nothing.
	stale := &types.RunRecord{Status: types.RunFailed, LastUpdated: t1.Add(-time.Minute)}
	state = state.apply(patch{record: stale})
	if state.record.Status != types.RunCompleted {
		t.Fatalf("status changed to %s", state.record.Status)
	}
	if !state.record.LastUpdated.Equal(t1) {
		t.Fatalf("finish time moved backward to %v", state.record.LastUpdated)
	}

	// A later re-finalization only advances the timestamps.
	fresh := &types.RunRecord{Status: types.RunFailed, LastUpdated: t1.Add(time.Minute), DurationSeconds: 70}
	state = state.apply(patch{record: fresh})
	if state.record.Status != types.RunCompleted {
		t.Fatalf("status changed to %s", state.record.Status)
	}
	if !state.record.LastUpdated.Equal(t1.Add(time.Minute)) {
		t.Fatalf("finish time did not advance: %v", state.record.LastUpdated)
	}
	if state.record.DurationSeconds != 70 {
		t.Fatalf("duration not updated: %v", state.record.DurationSeconds)
	}
}

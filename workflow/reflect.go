package workflow

import (
	"fmt"
	"time"

	"github.com/koushik24k/AgentFlow/flowspec"
	"github.com/koushik24k/AgentFlow/types"
)

// BuildReflectionNode synthesizes the per-cycle reflection record appended
// to a run artifact after the cycle finishes. It depends only on the primary
// agent node and always succeeds.
func BuildReflectionNode(cycle int, record *types.RunRecord, adjustment Adjustment, evaluation *types.Evaluation, summary *flowspec.Summary, at time.Time) types.Node {
	primaryID := types.PrimaryNodeID
	if primary := record.PrimaryNode(); primary != nil {
		primaryID = primary.ID
	}

	outputs := map[string]any{
		"adjustment_summary": adjustment.Summary,
		"reflection":         adjustment,
	}
	if evaluation != nil {
		outputs["evaluation_score"] = evaluation.Score
		outputs["evaluation_justification"] = evaluation.Feedback()
	}
	if summary != nil {
		outputs["flow_summary"] = summary
	}

	return types.Node{
		ID:        fmt.Sprintf("workflow_reflection_cycle_%d", cycle),
		Type:      types.NodeTypeReflection,
		Summary:   fmt.Sprintf("Workflow reflection for cycle %d", cycle),
		DependsOn: []string{primaryID},
		Status:    types.NodeSucceeded,
		Attempt:   1,
		Inputs:    map[string]any{},
		Outputs:   outputs,
		Artifacts: []string{},
		Metrics:   map[string]any{},
		Timeline:  types.Timeline{EndedAt: &at},
		History:   []types.Attempt{},
	}
}

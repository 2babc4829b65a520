package pipeline

import (
	"github.com/koushik24k/AgentFlow/flowspec"
	"github.com/koushik24k/AgentFlow/types"
)

// FlowNodeID returns the run-record node id for a flow specification node.
func FlowNodeID(specNodeID string) string {
	return "flow::" + specNodeID
}

// synthesizeNodes converts a validated flow specification into one record
// node per declared flow node. Dependencies come from the edge list: each
// node depends on the primary agent node first, then on its flow-graph
// predecessors, with duplicates removed in first-seen order. Edges missing
// an endpoint or naming an undeclared node are dropped. Synthesis never
// fails an individual node.
func synthesizeNodes(spec *flowspec.Spec, primaryID string, window types.Timeline) []types.Node {
	if spec == nil || len(spec.Nodes) == 0 {
		return nil
	}

	declared := make(map[string]bool, len(spec.Nodes))
	for _, node := range spec.Nodes {
		declared[node.ID] = true
	}

	predecessors := map[string][]string{}
	for _, edge := range spec.Edges {
		if edge.Source == "" || edge.Target == "" {
			continue
		}
		if !declared[edge.Source] || !declared[edge.Target] {
			continue
		}
		predecessors[edge.Target] = append(predecessors[edge.Target], edge.Source)
	}

	endedAt := window.EndedAt
	nodes := make([]types.Node, 0, len(spec.Nodes))
	for _, specNode := range spec.Nodes {
		deps := []string{primaryID}
		for _, source := range predecessors[specNode.ID] {
			deps = append(deps, FlowNodeID(source))
		}
		deps = dedupe(deps)

		kind := specNode.Type
		if kind == "" {
			kind = "task"
		}
		summary := specNode.Label
		if summary == "" {
			summary = specNode.ID
		}

		inputs := map[string]any{
			"label": specNode.Label,
			"type":  kind,
		}
		if specNode.OnTrue != "" {
			inputs["on_true"] = specNode.OnTrue
		}
		if specNode.OnFalse != "" {
			inputs["on_false"] = specNode.OnFalse
		}

		node := types.Node{
			ID:        FlowNodeID(specNode.ID),
			Type:      types.NodeType(kind),
			Summary:   summary,
			DependsOn: deps,
			Status:    types.NodeSucceeded,
			Attempt:   1,
			Inputs:    inputs,
			Outputs:   map[string]any{},
			Artifacts: []string{},
			Metrics:   map[string]any{},
			Timeline:  window,
			History:   []types.Attempt{},
		}
		if endedAt != nil {
			node.History = append(node.History, types.Attempt{
				AttemptID: 1,
				Timestamp: *endedAt,
				Status:    types.NodeSucceeded,
				Notes:     "Synthesized from flow specification.",
			})
		}
		nodes = append(nodes, node)
	}
	return nodes
}

func dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}

package flowspec

import "testing"

func TestValidateAcceptsWellFormedSpec(t *testing.T) {
	spec := &Spec{
		Nodes: []SpecNode{
			{ID: "start", Type: "action"},
			{ID: "check", Type: "branch", OnTrue: "done", OnFalse: "start"},
			{ID: "done"},
		},
		Edges: []SpecEdge{
			{Source: "start", Target: "check"},
			{Source: "check", Target: "ghost"}, // undeclared target is tolerated
		},
	}
	if err := Validate(spec); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
}

func TestValidateRejectsBadSpecs(t *testing.T) {
	tests := []struct {
		name string
		spec *Spec
	}{
		{name: "nil spec", spec: nil},
		{name: "no nodes", spec: &Spec{}},
		{name: "empty node id", spec: &Spec{Nodes: []SpecNode{{ID: ""}}}},
		{name: "duplicate node id", spec: &Spec{Nodes: []SpecNode{{ID: "a"}, {ID: "a"}}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := Validate(tc.spec); err == nil {
				t.Fatal("expected validation error, got nil")
			}
		})
	}
}

func TestSummarizeCountsShapes(t *testing.T) {
	spec := &Spec{
		Nodes: []SpecNode{
			{ID: "a", Type: "action"},
			{ID: "b", Type: "loop"},
			{ID: "c", Type: "evaluation"},
			{ID: "d", OnTrue: "a"},
			{ID: "e", OnFalse: "b"},
		},
		Edges: []SpecEdge{{Source: "a", Target: "b"}},
	}
	summary := Summarize(spec)
	if summary.NodeCount != 5 || summary.EdgeCount != 1 {
		t.Fatalf("unexpected counts: %+v", summary)
	}
	if summary.BranchNodes != 2 {
		t.Fatalf("expected 2 branch nodes, got %d", summary.BranchNodes)
	}
	if summary.LoopNodes != 1 || summary.EvaluationNodes != 1 {
		t.Fatalf("unexpected loop/evaluation counts: %+v", summary)
	}

	if Summarize(nil) != nil {
		t.Fatal("expected nil summary for nil spec")
	}
}

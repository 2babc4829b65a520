package flowspec

import "testing"

func TestExtractWrappedSpec(t *testing.T) {
	text := "Here is the plan.\n```json flow_spec\n" +
		`{"flow_spec": {"nodes": [{"id": "a"}, {"id": "b", "type": "loop"}], "edges": [{"source": "a", "target": "b"}]}, "agent_flow_language": "flow demo { a -> b }"}` +
		"\n```\nDone."

	spec, rendering := ExtractWithRendering(text)
	if spec == nil {
		t.Fatal("expected a spec, got nil")
	}
	if len(spec.Nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(spec.Nodes))
	}
	if len(spec.Edges) != 1 {
		t.Fatalf("expected 1 edge, got %d", len(spec.Edges))
	}
	if rendering != "flow demo { a -> b }" {
		t.Fatalf("unexpected rendering %q", rendering)
	}
}

func TestExtractBareSpec(t *testing.T) {
	text := "```JSON\n{\"nodes\": [{\"id\": \"only\"}]}\n```"
	spec := Extract(text)
	if spec == nil {
		t.Fatal("expected a spec, got nil")
	}
	if spec.Nodes[0].ID != "only" {
		t.Fatalf("unexpected node id %q", spec.Nodes[0].ID)
	}
}

func TestExtractSkipsEarlierUnusableBlocks(t *testing.T) {
	text := "```json\nnot valid json\n```\n" +
		"```json\n{\"nodes\": []}\n```\n" +
		"```json\n{\"nodes\": [{\"id\": \"late\"}]}\n```"
	spec := Extract(text)
	if spec == nil {
		t.Fatal("expected the last block to produce a spec")
	}
	if spec.Nodes[0].ID != "late" {
		t.Fatalf("unexpected node id %q", spec.Nodes[0].ID)
	}
}

func TestExtractReturnsNil(t *testing.T) {
	cases := map[string]string{
		"no fences":       `{"nodes": [{"id": "a"}]}`,
		"untagged fence":  "```\n{\"nodes\": [{\"id\": \"a\"}]}\n```",
		"malformed json":  "```json\n{nodes: [}\n```",
		"missing nodes":   "```json\n{\"edges\": []}\n```",
		"empty nodes":     "```json\n{\"nodes\": []}\n```",
		"non-object body": "```json\n[1, 2, 3]\n```",
		"plain prose":     "The model declined to produce a plan.",
	}
	for name, text := range cases {
		if spec := Extract(text); spec != nil {
			t.Errorf("%s: expected nil, got %+v", name, spec)
		}
	}
}

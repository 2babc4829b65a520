package flowspec

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Matches fenced code blocks whose info string names JSON, with an optional
// flow_spec hint after the tag (e.g. ```json flow_spec).
var fencedJSONRe = regexp.MustCompile("(?s)```[ \t]*(?i:json)[^\n]*\n(.*?)```")

// Extract scans free-form agent output for a fenced JSON block carrying a
// flow specification. It accepts either a wrapper object with a "flow_spec"
// key or the spec object itself, and returns nil unless the candidate is an
// object with a non-empty nodes list. Malformed JSON is treated as "no spec
// found", never as an error.
func Extract(text string) *Spec {
	spec, _ := ExtractWithRendering(text)
	return spec
}

// ExtractWithRendering additionally returns the textual AgentFlowLanguage
// rendering when the wrapper object carries one alongside the spec.
func ExtractWithRendering(text string) (*Spec, string) {
	for _, match := range fencedJSONRe.FindAllStringSubmatch(text, -1) {
		body := strings.TrimSpace(match[1])
		if body == "" {
			continue
		}
		var payload map[string]any
		if err := json.Unmarshal([]byte(body), &payload); err != nil {
			continue
		}

		candidate := payload
		rendering := ""
		if wrapped, ok := payload["flow_spec"].(map[string]any); ok {
			candidate = wrapped
			rendering, _ = payload["agent_flow_language"].(string)
		}

		spec := decodeCandidate(candidate)
		if spec == nil {
			continue
		}
		return spec, strings.TrimSpace(rendering)
	}
	return nil, ""
}

func decodeCandidate(candidate map[string]any) *Spec {
	nodes, ok := candidate["nodes"].([]any)
	if !ok || len(nodes) == 0 {
		return nil
	}
	raw, err := json.Marshal(candidate)
	if err != nil {
		return nil
	}
	var spec Spec
	if err := json.Unmarshal(raw, &spec); err != nil {
		return nil
	}
	if len(spec.Nodes) == 0 {
		return nil
	}
	return &spec
}

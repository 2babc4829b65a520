// Package flowspec models the small control-flow graph description the agent
// is asked to emit, and recovers it from free-form model output.
package flowspec

import (
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// Spec is a flow specification: declared nodes plus directed edges. Edges
// that reference undeclared node ids are tolerated here and dropped later
// when dependencies are derived.
type Spec struct {
	Nodes []SpecNode `json:"nodes" yaml:"nodes"`
	Edges []SpecEdge `json:"edges,omitempty" yaml:"edges,omitempty"`
}

type SpecNode struct {
	ID      string `json:"id" yaml:"id"`
	Label   string `json:"label,omitempty" yaml:"label,omitempty"`
	Type    string `json:"type,omitempty" yaml:"type,omitempty"`
	OnTrue  string `json:"on_true,omitempty" yaml:"on_true,omitempty"`
	OnFalse string `json:"on_false,omitempty" yaml:"on_false,omitempty"`
}

type SpecEdge struct {
	Source string `json:"source,omitempty" yaml:"source,omitempty"`
	Target string `json:"target,omitempty" yaml:"target,omitempty"`
	Label  string `json:"label,omitempty" yaml:"label,omitempty"`
}

const specSchema = `{
  "type": "object",
  "required": ["nodes"],
  "properties": {
    "nodes": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["id"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "label": {"type": "string"},
          "type": {"type": "string"},
          "on_true": {"type": "string"},
          "on_false": {"type": "string"}
        }
      }
    },
    "edges": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "source": {"type": "string"},
          "target": {"type": "string"},
          "label": {"type": "string"}
        }
      }
    }
  }
}`

var compiledSchema = gojsonschema.NewStringLoader(specSchema)

// Validate checks the structural shape of the spec: the JSON schema above
// plus node id uniqueness. Content-level correctness is out of scope.
func Validate(spec *Spec) error {
	if spec == nil {
		return fmt.Errorf("flow spec is nil")
	}
	raw, err := json.Marshal(spec)
	if err != nil {
		return fmt.Errorf("failed to encode flow spec: %w", err)
	}
	result, err := gojsonschema.Validate(compiledSchema, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("flow spec schema check failed: %w", err)
	}
	if !result.Valid() {
		errs := result.Errors()
		if len(errs) > 0 {
			return fmt.Errorf("flow spec is not structurally valid: %s", errs[0].String())
		}
		return fmt.Errorf("flow spec is not structurally valid")
	}

	seen := map[string]struct{}{}
	for _, node := range spec.Nodes {
		if _, dup := seen[node.ID]; dup {
			return fmt.Errorf("flow spec declares node id %q more than once", node.ID)
		}
		seen[node.ID] = struct{}{}
	}
	return nil
}

// Summary aggregates structural counts for history entries and prompts.
type Summary struct {
	NodeCount       int `yaml:"node_count" json:"node_count"`
	EdgeCount       int `yaml:"edge_count" json:"edge_count"`
	BranchNodes     int `yaml:"branch_nodes" json:"branch_nodes"`
	LoopNodes       int `yaml:"loop_nodes" json:"loop_nodes"`
	EvaluationNodes int `yaml:"evaluation_nodes" json:"evaluation_nodes"`
}

// Summarize counts nodes, edges, and the branch/loop/evaluation node shapes.
func Summarize(spec *Spec) *Summary {
	if spec == nil {
		return nil
	}
	summary := &Summary{
		NodeCount: len(spec.Nodes),
		EdgeCount: len(spec.Edges),
	}
	for _, node := range spec.Nodes {
		if node.OnTrue != "" || node.OnFalse != "" {
			summary.BranchNodes++
		}
		switch node.Type {
		case "loop":
			summary.LoopNodes++
		case "evaluation":
			summary.EvaluationNodes++
		}
	}
	return summary
}

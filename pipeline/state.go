package pipeline

import (
	"time"

	"github.com/koushik24k/AgentFlow/flowspec"
	"github.com/koushik24k/AgentFlow/types"
)

// runState is the explicit state threaded through the pipeline stages. Each
// stage reads it and returns a patch; stages never mutate it directly.
type runState struct {
	planID           string
	prompt           string
	summary          string
	requestRendering bool
	startedAt        time.Time
	finishedAt       time.Time

	invocation   *invocationOutcome
	spec         *flowspec.Spec
	specError    string
	rendering    string
	compile      *compileOutcome
	evaluation   *types.Evaluation
	synthesized  []types.Node
	record       *types.RunRecord
}

// invocationOutcome is the tagged result of the primary agent call: either a
// usable result or a captured gateway error, never both.
type invocationOutcome struct {
	result    types.AgentResult
	err       string
	startedAt time.Time
	endedAt   time.Time
}

func (o *invocationOutcome) failed() bool {
	return o == nil || o.err != ""
}

// compileOutcome is the structured result of the fallback compilation step.
// It lands in the primary node's outputs, so its fields carry artifact tags.
type compileOutcome struct {
	Message   string         `yaml:"message" json:"message"`
	Usage     map[string]any `yaml:"usage" json:"usage"`
	Spec      *flowspec.Spec `yaml:"flow_spec,omitempty" json:"flow_spec,omitempty"`
	Rendering string         `yaml:"agent_flow_language,omitempty" json:"agent_flow_language,omitempty"`
	Err       string         `yaml:"error,omitempty" json:"error,omitempty"`
}

// patch is a typed partial update produced by one stage. Nil fields leave
// the state untouched.
type patch struct {
	invocation  *invocationOutcome
	spec        *flowspec.Spec
	specError   *string
	rendering   *string
	compile     *compileOutcome
	evaluation  *types.Evaluation
	synthesized []types.Node
	finishedAt  *time.Time
	record      *types.RunRecord
}

// apply merges a patch into the state. Fields already set by an earlier
// stage are never regressed: set-once semantics everywhere, except the
// finish time, which only ever advances.
func (s runState) apply(p patch) runState {
	if p.invocation != nil && s.invocation == nil {
		s.invocation = p.invocation
	}
	if p.spec != nil && s.spec == nil {
		s.spec = p.spec
	}
	if p.specError != nil && s.specError == "" {
		s.specError = *p.specError
	}
	if p.rendering != nil && s.rendering == "" {
		s.rendering = *p.rendering
	}
	if p.compile != nil && s.compile == nil {
		s.compile = p.compile
	}
	if p.evaluation != nil && s.evaluation == nil {
		s.evaluation = p.evaluation
	}
	if p.synthesized != nil && s.synthesized == nil {
		s.synthesized = p.synthesized
	}
	if p.finishedAt != nil && p.finishedAt.After(s.finishedAt) {
		s.finishedAt = *p.finishedAt
	}
	if p.record != nil {
		if s.record == nil {
			s.record = p.record
		} else if p.record.LastUpdated.After(s.record.LastUpdated) {
			// Re-finalization only advances timestamps, never status.
			s.record.LastUpdated = p.record.LastUpdated
			s.record.DurationSeconds = p.record.DurationSeconds
		}
	}
	return s
}

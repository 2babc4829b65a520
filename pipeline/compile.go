package pipeline

import (
	"context"
	"fmt"

	"github.com/koushik24k/AgentFlow/flowspec"
)

const compileInstruction = `Compile the task below into a flow specification.
Respond with exactly one fenced JSON block containing an object with two keys:
"flow_spec", shaped as {"nodes": [{"id", "label", "type", "on_true", "on_false"}], "edges": [{"source", "target", "label"}]},
and "agent_flow_language", an equivalent textual AgentFlowLanguage rendering of the same flow.`

// compileFlowSpec re-prompts the gateway with a dedicated compile
// instruction and runs the extractor against the response. A failed gateway
// call or a still-missing spec is captured in the outcome's error field, not
// propagated: the pipeline must finish and record partial results either way.
func (p *Pipeline) compileFlowSpec(ctx context.Context, prompt string) *compileOutcome {
	compilePrompt := fmt.Sprintf("%s\n\n### Task\n%s", compileInstruction, prompt)
	result, err := p.adapter.Invoke(ctx, compilePrompt)
	if err != nil {
		return &compileOutcome{Err: "compile invocation failed: " + err.Error()}
	}

	outcome := &compileOutcome{
		Message: result.Message,
		Usage:   result.Usage,
	}
	outcome.Spec, outcome.Rendering = flowspec.ExtractWithRendering(result.Message)
	if outcome.Spec == nil {
		outcome.Err = "compile response contained no usable flow specification"
	}
	return outcome
}

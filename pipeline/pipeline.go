// Package pipeline sequences one agent run: invoke the gateway, extract a
// flow specification, fall back to a dedicated compile step, self-evaluate
// the answer, synthesize dependent nodes, and assemble a versioned run
// record. Stage-local problems degrade to error fields; only a gateway
// failure on the primary invocation fails the whole run.
package pipeline

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/koushik24k/AgentFlow/flowspec"
	"github.com/koushik24k/AgentFlow/gateway"
	"github.com/koushik24k/AgentFlow/observe"
	"github.com/koushik24k/AgentFlow/types"
)

// DefaultCreatedBy identifies the local writer in run artifacts.
const DefaultCreatedBy = "agentflow-cli@local"

// Stage names, in execution order.
const (
	StageInvokeAgent     = "invoke_agent"
	StageExtractFlowSpec = "extract_flow_spec"
	StageMaybeCompile    = "maybe_compile"
	StageSelfEvaluate    = "self_evaluate"
	StageSynthesizeNodes = "synthesize_nodes"
	StageFinalize        = "finalize"
)

type Pipeline struct {
	adapter   gateway.Adapter
	sink      observe.Sink
	now       func() time.Time
	createdBy string
}

type Option func(*Pipeline)

func WithSink(sink observe.Sink) Option {
	return func(p *Pipeline) {
		if sink != nil {
			p.sink = sink
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		if now != nil {
			p.now = now
		}
	}
}

func WithCreatedBy(createdBy string) Option {
	return func(p *Pipeline) {
		if createdBy != "" {
			p.createdBy = createdBy
		}
	}
}

func New(adapter gateway.Adapter, opts ...Option) (*Pipeline, error) {
	if adapter == nil {
		return nil, fmt.Errorf("gateway adapter is required")
	}
	p := &Pipeline{
		adapter:   adapter,
		sink:      observe.NoopSink{},
		now:       func() time.Time { return time.Now().UTC() },
		createdBy: DefaultCreatedBy,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Request describes one run.
type Request struct {
	Prompt string
	// Summary overrides the derived one-line record summary.
	Summary string
	// PlanID overrides the generated record id.
	PlanID string
	// RequestRendering asks for a textual AgentFlowLanguage rendering; its
	// absence after extraction triggers the compile fallback.
	RequestRendering bool
}

// Result is the outcome of one run. Record is never nil.
type Result struct {
	Record      *types.RunRecord
	Evaluation  *types.Evaluation
	FlowSpec    *flowspec.Spec
	FlowSummary *flowspec.Summary
	Rendering   string
}

type stage struct {
	name string
	run  func(context.Context, runState) patch
}

// Execute runs the full state machine. It never returns an error and never
// panics past its boundary: any unexpected failure is converted into a
// failed run record so an artifact can always be written.
func (p *Pipeline) Execute(ctx context.Context, req Request) (result Result) {
	state := p.initialize(req)
	defer func() {
		if r := recover(); r != nil {
			result = p.recoveredResult(state, r)
		}
	}()

	stages := []stage{
		{StageInvokeAgent, p.invokeAgent},
		{StageExtractFlowSpec, p.extractFlowSpec},
		{StageMaybeCompile, p.maybeCompile},
		{StageSelfEvaluate, p.selfEvaluate},
		{StageSynthesizeNodes, p.synthesizeNodesStage},
	}
	for _, st := range stages {
		state = p.runStage(ctx, st, state)
		if st.name == StageInvokeAgent && state.invocation.failed() {
			// Downstream stages are no-ops without a primary response.
			break
		}
	}
	state = p.runStage(ctx, stage{StageFinalize, p.finalize}, state)

	return Result{
		Record:      state.record,
		Evaluation:  state.evaluation,
		FlowSpec:    state.spec,
		FlowSummary: flowspec.Summarize(state.spec),
		Rendering:   state.rendering,
	}
}

func (p *Pipeline) runStage(ctx context.Context, st stage, state runState) runState {
	started := p.now()
	p.emit(ctx, observe.Event{
		RunID: state.planID, Stage: st.name, Status: observe.StatusStarted, Timestamp: started,
	})

	state = state.apply(st.run(ctx, state))

	event := observe.Event{
		RunID:      state.planID,
		Stage:      st.name,
		Status:     observe.StatusCompleted,
		Timestamp:  started,
		DurationMs: p.now().Sub(started).Milliseconds(),
	}
	if st.name == StageInvokeAgent && state.invocation.failed() {
		event.Status = observe.StatusFailed
		if state.invocation != nil {
			event.Error = state.invocation.err
		}
	}
	p.emit(ctx, event)
	return state
}

func (p *Pipeline) emit(ctx context.Context, event observe.Event) {
	// Observability is best effort; sink errors never affect the run.
	_ = p.sink.Emit(ctx, event)
}

func (p *Pipeline) initialize(req Request) runState {
	planID := req.PlanID
	if planID == "" {
		planID = "plan-" + uuid.NewString()
	}
	return runState{
		planID:           planID,
		prompt:           req.Prompt,
		summary:          types.SummaryFromPrompt(coalesce(req.Summary, req.Prompt), "Ad-hoc agent execution"),
		requestRendering: req.RequestRendering,
		startedAt:        p.now(),
	}
}

func (p *Pipeline) invokeAgent(ctx context.Context, state runState) patch {
	started := p.now()
	result, err := p.adapter.Invoke(ctx, state.prompt)
	outcome := &invocationOutcome{
		result:    result,
		startedAt: started,
		endedAt:   p.now(),
	}
	if err != nil {
		outcome.err = err.Error()
	}
	return patch{invocation: outcome}
}

func (p *Pipeline) extractFlowSpec(_ context.Context, state runState) patch {
	if state.invocation.failed() {
		return patch{}
	}
	spec, rendering := flowspec.ExtractWithRendering(state.invocation.result.Message)
	out := patch{spec: spec}
	if rendering != "" {
		out.rendering = &rendering
	}
	return out
}

func (p *Pipeline) maybeCompile(ctx context.Context, state runState) patch {
	needSpec := state.spec == nil
	needRendering := state.requestRendering && state.rendering == ""
	if !needSpec && !needRendering {
		return patch{}
	}

	outcome := p.compileFlowSpec(ctx, state.prompt)
	out := patch{compile: outcome}
	if outcome.Spec != nil {
		out.spec = outcome.Spec
	}
	if outcome.Rendering != "" {
		out.rendering = &outcome.Rendering
	}
	return out
}

func (p *Pipeline) selfEvaluate(ctx context.Context, state runState) patch {
	if state.invocation.failed() {
		return patch{}
	}
	return patch{evaluation: p.evaluate(ctx, state.prompt, state.invocation.result.Message)}
}

func (p *Pipeline) synthesizeNodesStage(_ context.Context, state runState) patch {
	if state.spec == nil {
		return patch{}
	}
	if err := flowspec.Validate(state.spec); err != nil {
		message := err.Error()
		return patch{specError: &message}
	}

	window := types.Timeline{}
	if state.invocation != nil {
		window.QueuedAt = &state.invocation.startedAt
		window.StartedAt = &state.invocation.startedAt
		window.EndedAt = &state.invocation.endedAt
		window.DurationSeconds = roundSeconds(state.invocation.endedAt.Sub(state.invocation.startedAt))
	}
	return patch{synthesized: synthesizeNodes(state.spec, types.PrimaryNodeID, window)}
}

func (p *Pipeline) finalize(_ context.Context, state runState) patch {
	finishedAt := p.now()

	primary := p.buildPrimaryNode(state)
	nodes := append([]types.Node{primary}, state.synthesized...)
	if state.specError != "" {
		// A spec that failed the structural check yields no synthesized
		// nodes; keep the reason on the primary node for the viewer.
		primaryMetrics := nodes[0].Metrics
		primaryMetrics["flow_spec_error"] = state.specError
	}

	status := types.RunFailed
	if primary.Status == types.NodeSucceeded {
		status = types.RunCompleted
	}

	counts := types.NodeCounts{}
	for _, node := range nodes {
		if node.Status == types.NodeSucceeded {
			counts.Succeeded++
		} else {
			counts.Failed++
		}
	}
	completion := 0
	if status == types.RunCompleted {
		completion = 100
	}

	record := &types.RunRecord{
		SchemaVersion:   types.SchemaVersion,
		PlanID:          state.planID,
		Name:            state.summary,
		Description:     state.prompt,
		CreatedAt:       state.startedAt,
		LastUpdated:     finishedAt,
		CreatedBy:       p.createdBy,
		Version:         1,
		Status:          status,
		DurationSeconds: roundSeconds(finishedAt.Sub(state.startedAt)),
		Tags:            []string{},
		Context:         map[string]any{},
		Nodes:           nodes,
		Rollup: types.Rollup{
			CompletionPercentage: completion,
			Counts:               counts,
			LastWriter:           p.createdBy,
		},
	}
	if state.invocation != nil && state.invocation.failed() {
		record.Error = &types.ErrorPayload{Message: state.invocation.err}
	}
	if state.invocation != nil && len(state.invocation.result.Events) > 0 {
		record.Metadata = map[string]any{"gateway_events_count": len(state.invocation.result.Events)}
	}

	return patch{record: record, finishedAt: &finishedAt}
}

func (p *Pipeline) buildPrimaryNode(state runState) types.Node {
	node := types.Node{
		ID:        types.PrimaryNodeID,
		Type:      types.NodeTypeAgent,
		Summary:   state.summary,
		DependsOn: []string{},
		Status:    types.NodeSucceeded,
		Attempt:   1,
		Inputs:    map[string]any{"prompt": state.prompt},
		Outputs:   map[string]any{},
		Artifacts: []string{},
		Metrics:   map[string]any{},
	}

	notes := "Agent invocation succeeded."
	if state.invocation != nil {
		inv := state.invocation
		node.Timeline = types.Timeline{
			QueuedAt:        &state.startedAt,
			StartedAt:       &inv.startedAt,
			EndedAt:         &inv.endedAt,
			DurationSeconds: roundSeconds(inv.endedAt.Sub(inv.startedAt)),
		}
		node.Outputs["message"] = inv.result.Message
		node.Outputs["events"] = inv.result.Events
		node.Metrics["usage"] = inv.result.Usage
		if inv.err != "" {
			node.Status = types.NodeFailed
			node.Error = &types.ErrorPayload{Message: inv.err}
			notes = "Agent invocation failed: " + inv.err
		}
	} else {
		node.Status = types.NodeFailed
		node.Error = &types.ErrorPayload{Message: "agent was never invoked"}
		notes = "Agent was never invoked."
	}

	if state.spec != nil {
		node.Outputs["flow_spec"] = state.spec
	}
	if state.rendering != "" {
		node.Outputs["agent_flow_language"] = state.rendering
	}
	if state.compile != nil {
		node.Outputs["compiler"] = state.compile
	}
	if state.evaluation != nil {
		node.Outputs["evaluation"] = state.evaluation
		if state.evaluation.Score != nil {
			node.Metrics["evaluation_score"] = *state.evaluation.Score
		}
		if state.evaluation.Error != "" {
			node.Metrics["evaluation_error"] = state.evaluation.Error
		}
	}

	timestamp := state.startedAt
	if state.invocation != nil {
		timestamp = state.invocation.endedAt
	}
	node.History = []types.Attempt{{
		AttemptID: 1,
		Timestamp: timestamp,
		Status:    node.Status,
		Notes:     notes,
	}}
	return node
}

func (p *Pipeline) recoveredResult(state runState, cause any) Result {
	finishedAt := p.now()
	message := fmt.Sprintf("unexpected error during pipeline execution: %v", cause)

	record := state.record
	if record == nil {
		record = &types.RunRecord{
			SchemaVersion: types.SchemaVersion,
			PlanID:        state.planID,
			Name:          state.summary,
			Description:   state.prompt,
			CreatedAt:     state.startedAt,
			CreatedBy:     p.createdBy,
			Version:       1,
			Tags:          []string{},
			Context:       map[string]any{},
			Nodes:         []types.Node{},
			Rollup:        types.Rollup{LastWriter: p.createdBy},
		}
	}
	record.Status = types.RunFailed
	record.LastUpdated = finishedAt
	record.DurationSeconds = roundSeconds(finishedAt.Sub(record.CreatedAt))
	record.Error = &types.ErrorPayload{Message: message}
	record.Rollup.CompletionPercentage = 0

	return Result{Record: record, Evaluation: state.evaluation, FlowSpec: state.spec}
}

func roundSeconds(d time.Duration) float64 {
	return math.Round(d.Seconds()*1000) / 1000
}

func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

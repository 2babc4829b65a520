package gateway

import (
	"context"
	"strings"
	"sync"

	"github.com/koushik24k/AgentFlow/types"
)

// Mock is an offline adapter for local development and the test suite. When
// a scripted queue is set, invocations pop results in order; otherwise a
// heuristic default answers flow-spec and judge prompts plausibly.
type Mock struct {
	mu      sync.Mutex
	scripts []types.AgentResult
	errs    []error
	calls   []string
}

func init() {
	MustRegister("mock", func(Config) (Adapter, error) {
		return NewMock(), nil
	})
}

func NewMock() *Mock { return &Mock{} }

func (m *Mock) Name() string { return "mock" }

// Enqueue appends a scripted result; a nil err means the result is returned
// as-is, otherwise the call fails with err.
func (m *Mock) Enqueue(result types.AgentResult, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scripts = append(m.scripts, result)
	m.errs = append(m.errs, err)
}

// Calls returns every prompt received so far.
func (m *Mock) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *Mock) Invoke(_ context.Context, prompt string) (types.AgentResult, error) {
	m.mu.Lock()
	m.calls = append(m.calls, prompt)
	if len(m.scripts) > 0 {
		result := m.scripts[0]
		err := m.errs[0]
		m.scripts = m.scripts[1:]
		m.errs = m.errs[1:]
		m.mu.Unlock()
		if err != nil {
			return types.AgentResult{}, err
		}
		return result, nil
	}
	m.mu.Unlock()
	return defaultMockResult(prompt), nil
}

func defaultMockResult(prompt string) types.AgentResult {
	lower := strings.ToLower(prompt)
	message := ""
	switch {
	case strings.Contains(lower, `"score"`):
		message = `{"score": 0.85, "justification": "Mock evaluation: structure and coverage look reasonable."}`
	default:
		message = "Here is a generated plan.\n" +
			"```json\n" +
			`{"flow_spec": {"nodes": [{"id": "gather", "label": "Gather context", "type": "action"}, {"id": "answer", "label": "Produce answer", "type": "action"}], "edges": [{"source": "gather", "target": "answer"}]}, "agent_flow_language": "flow mock { gather -> answer }"}` +
			"\n```"
	}
	return types.AgentResult{
		Message: message,
		Events: []types.AgentEvent{
			{"type": "item.completed", "item": map[string]any{"type": "agent_message", "text": message}},
		},
		Usage: map[string]any{"output_tokens": len(message) / 4},
	}
}

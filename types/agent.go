package types

// AgentEvent is one structured record from an adapter's event stream. The
// shape varies per CLI, so entries are preserved as decoded JSON objects.
type AgentEvent map[string]any

// Type returns the event's "type" field when present.
func (e AgentEvent) Type() string {
	v, _ := e["type"].(string)
	return v
}

// AgentResult is the outcome of one successful Agent Gateway invocation.
type AgentResult struct {
	Message string         `yaml:"message" json:"message"`
	Events  []AgentEvent   `yaml:"events" json:"events"`
	Usage   map[string]any `yaml:"usage" json:"usage"`
}

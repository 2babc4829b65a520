package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"os/exec"
	"strings"

	"github.com/koushik24k/AgentFlow/types"
)

const defaultClaudeBinary = "claude"

// ClaudeCLI shells out to the Claude CLI in print mode and decodes its
// single JSON result document.
type ClaudeCLI struct {
	binary string
}

func init() {
	MustRegister("claude", func(cfg Config) (Adapter, error) {
		return NewClaudeCLI(cfg.ClaudeBinary), nil
	})
}

func NewClaudeCLI(binary string) *ClaudeCLI {
	if strings.TrimSpace(binary) == "" {
		binary = defaultClaudeBinary
	}
	return &ClaudeCLI{binary: binary}
}

func (c *ClaudeCLI) Name() string { return "claude" }

func (c *ClaudeCLI) Invoke(ctx context.Context, prompt string) (types.AgentResult, error) {
	cmd := exec.CommandContext(ctx, c.binary, "-p", "--output-format", "json", prompt)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return types.AgentResult{}, &InvocationError{
			Adapter: "claude",
			Message: commandFailureMessage(err, stderr.String()),
			Err:     err,
		}
	}

	result, err := parseClaudeOutput(stdout.Bytes())
	if err != nil {
		return types.AgentResult{}, &InvocationError{Adapter: "claude", Message: err.Error(), Err: err}
	}
	return result, nil
}

func parseClaudeOutput(raw []byte) (types.AgentResult, error) {
	var event types.AgentEvent
	if err := json.Unmarshal(bytes.TrimSpace(raw), &event); err != nil {
		return types.AgentResult{}, &jsonDecodeError{err: err}
	}
	result := types.AgentResult{
		Events: []types.AgentEvent{event},
		Usage:  map[string]any{},
	}
	if usage, ok := event["usage"].(map[string]any); ok {
		result.Usage = usage
	}
	result.Message, _ = event["result"].(string)

	if isError, _ := event["is_error"].(bool); isError {
		return types.AgentResult{}, &cliResultError{message: result.Message}
	}
	return result, nil
}

type jsonDecodeError struct{ err error }

func (e *jsonDecodeError) Error() string { return "malformed claude JSON output: " + e.err.Error() }
func (e *jsonDecodeError) Unwrap() error { return e.err }

type cliResultError struct{ message string }

func (e *cliResultError) Error() string {
	if e.message == "" {
		return "claude reported an error result"
	}
	return "claude reported an error result: " + e.message
}

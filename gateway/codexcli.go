package gateway

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	"github.com/koushik24k/AgentFlow/types"
)

const defaultCodexBinary = "codex"

// CodexCLI shells out to the Codex CLI in non-interactive JSON mode and
// reads its JSONL event stream from stdout.
type CodexCLI struct {
	binary string
}

func init() {
	MustRegister("codex", func(cfg Config) (Adapter, error) {
		return NewCodexCLI(cfg.CodexBinary), nil
	})
}

func NewCodexCLI(binary string) *CodexCLI {
	if strings.TrimSpace(binary) == "" {
		binary = defaultCodexBinary
	}
	return &CodexCLI{binary: binary}
}

func (c *CodexCLI) Name() string { return "codex" }

func (c *CodexCLI) Invoke(ctx context.Context, prompt string) (types.AgentResult, error) {
	cmd := exec.CommandContext(ctx, c.binary, "exec", "--json", prompt)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return types.AgentResult{}, &InvocationError{
			Adapter: "codex",
			Message: commandFailureMessage(err, stderr.String()),
			Err:     err,
		}
	}

	result := parseCodexStream(&stdout)
	if result.Message == "" && len(result.Events) == 0 {
		return types.AgentResult{}, &InvocationError{
			Adapter: "codex",
			Message: "no events decoded from codex output",
		}
	}
	return result, nil
}

// parseCodexStream decodes one JSON object per line. The final agent message
// comes from the last item.completed event carrying an agent_message item;
// usage comes from the turn.completed event. Non-JSON lines are skipped.
func parseCodexStream(r *bytes.Buffer) types.AgentResult {
	result := types.AgentResult{Usage: map[string]any{}}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || !strings.HasPrefix(line, "{") {
			continue
		}
		var event types.AgentEvent
		if err := json.Unmarshal([]byte(line), &event); err != nil {
			continue
		}
		result.Events = append(result.Events, event)

		switch event.Type() {
		case "item.completed":
			if text := agentMessageText(event); text != "" {
				result.Message = text
			}
		case "turn.completed":
			if usage, ok := event["usage"].(map[string]any); ok {
				result.Usage = usage
			}
		}
	}
	return result
}

func agentMessageText(event types.AgentEvent) string {
	item, ok := event["item"].(map[string]any)
	if !ok {
		return ""
	}
	if kind, _ := item["type"].(string); kind != "agent_message" {
		return ""
	}
	text, _ := item["text"].(string)
	return text
}

func commandFailureMessage(err error, stderr string) string {
	stderr = strings.TrimSpace(stderr)
	if stderr != "" {
		if len(stderr) > 500 {
			stderr = stderr[len(stderr)-500:]
		}
		return fmt.Sprintf("%v: %s", err, stderr)
	}
	return err.Error()
}

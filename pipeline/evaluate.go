package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/koushik24k/AgentFlow/types"
)

const judgeInstruction = `You are a strict evaluation judge. Score how well the answer below satisfies the original prompt.
Respond with a single line of JSON shaped exactly as {"score": <float between 0.0 and 1.0>, "justification": "<short reason>"} and nothing else.`

// evaluate re-prompts the gateway to judge the original answer. Gateway
// failure and unparseable judge output are both captured as evaluation-level
// errors; neither aborts the pipeline.
func (p *Pipeline) evaluate(ctx context.Context, prompt, answer string) *types.Evaluation {
	judgePrompt := fmt.Sprintf("%s\n\n### Original Prompt\n%s\n\n### Answer\n%s", judgeInstruction, prompt, answer)
	result, err := p.adapter.Invoke(ctx, judgePrompt)
	if err != nil {
		return &types.Evaluation{Error: "evaluation invocation failed: " + err.Error()}
	}

	eval := ParseEvaluation(result.Message)
	if eval == nil {
		return &types.Evaluation{
			Error:      "no score or justification recovered from evaluation response",
			RawMessage: result.Message,
		}
	}
	eval.RawMessage = result.Message
	if eval.Score == nil && eval.Error == "" {
		eval.Error = "no numeric score recovered from evaluation response"
	}
	return eval
}

// ParseEvaluation normalizes raw judge output. Policy, in order: strip
// surrounding code fences; attempt a strict JSON parse, coercing the score
// to a float in [0, 1] and nulling it on invalid coercion while keeping any
// justification or reasoning field; on JSON failure, fall back to a
// plaintext scanner. Returns nil when neither path recovers anything.
func ParseEvaluation(raw string) *types.Evaluation {
	body := stripFences(raw)
	if body == "" {
		return nil
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(body), &payload); err == nil && payload != nil {
		eval := &types.Evaluation{Score: coerceScore(payload["score"])}
		if text, ok := payload["justification"].(string); ok {
			eval.Justification = strings.TrimSpace(text)
		}
		if eval.Justification == "" {
			if text, ok := payload["reasoning"].(string); ok {
				eval.Justification = strings.TrimSpace(text)
			}
		}
		if eval.Score == nil && eval.Justification == "" {
			return nil
		}
		return eval
	}

	return scanPlaintextEvaluation(body)
}

var numberRe = regexp.MustCompile(`-?\d+(?:\.\d+)?`)

// scanPlaintextEvaluation is a narrowly scoped heuristic for judges that
// ignore the JSON instruction: it extracts one float and one text span.
// Recognized lines: "score ..." (first numeric token wins), a purely numeric
// line, and "reason"/"justification"/"rationale" lines whose text plus all
// immediately following non-empty lines form the justification. A nil
// return means it gave up.
func scanPlaintextEvaluation(text string) *types.Evaluation {
	var score *float64
	var justification []string
	collecting := false

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			collecting = false
			continue
		}
		lower := strings.ToLower(trimmed)
		switch {
		case strings.HasPrefix(lower, "score"):
			collecting = false
			if score == nil {
				if token := numberRe.FindString(trimmed); token != "" {
					score = parseScoreToken(token)
				}
			}
		case numberRe.FindString(trimmed) == trimmed:
			collecting = false
			if score == nil {
				score = parseScoreToken(trimmed)
			}
		case strings.HasPrefix(lower, "reason") || strings.HasPrefix(lower, "justification") || strings.HasPrefix(lower, "rationale"):
			collecting = true
			if idx := strings.Index(trimmed, ":"); idx >= 0 {
				if rest := strings.TrimSpace(trimmed[idx+1:]); rest != "" {
					justification = append(justification, rest)
				}
			}
		default:
			if collecting {
				justification = append(justification, trimmed)
			}
		}
	}

	if score == nil {
		return nil
	}
	return &types.Evaluation{Score: score, Justification: strings.Join(justification, " ")}
}

func parseScoreToken(token string) *float64 {
	value, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return nil
	}
	return validScore(value)
}

func coerceScore(v any) *float64 {
	switch value := v.(type) {
	case float64:
		return validScore(value)
	case string:
		return parseScoreToken(strings.TrimSpace(value))
	case json.Number:
		f, err := value.Float64()
		if err != nil {
			return nil
		}
		return validScore(f)
	default:
		return nil
	}
}

func validScore(value float64) *float64 {
	if math.IsNaN(value) || value < 0 || value > 1 {
		return nil
	}
	return &value
}

func stripFences(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	lines := strings.Split(trimmed, "\n")
	if len(lines) < 2 {
		return ""
	}
	lines = lines[1:]
	if strings.HasPrefix(strings.TrimSpace(lines[len(lines)-1]), "```") {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

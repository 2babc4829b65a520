package workflow

import (
	"fmt"
	"strings"
)

// Adjustment records how and why a cycle's prompt differs from the base
// prompt. It is persisted verbatim inside the cycle's reflection node.
type Adjustment struct {
	Summary       string   `yaml:"summary" json:"summary"`
	ReflectionLog []string `yaml:"reflection_log" json:"reflection_log"`
	Directives    []string `yaml:"directives" json:"directives"`
}

// BuildCyclePrompt constructs the prompt for the next cycle. The first cycle
// uses the base prompt verbatim; later cycles append a reflection log built
// from the last three entries plus improvement directives keyed off the most
// recent feedback.
func BuildCyclePrompt(basePrompt string, runs []HistoryEntry) (string, Adjustment) {
	if len(runs) == 0 {
		return basePrompt, Adjustment{Summary: "Initial cycle prompt with no adjustments."}
	}

	recent := runs
	if len(recent) > 3 {
		recent = recent[len(recent)-3:]
	}
	reflectionLog := make([]string, 0, len(recent))
	for _, entry := range recent {
		parts := []string{fmt.Sprintf("Cycle %d", entry.Cycle)}
		if entry.Evaluation != nil && entry.Evaluation.Score != nil {
			parts = append(parts, fmt.Sprintf("score=%.3f", *entry.Evaluation.Score))
		} else {
			parts = append(parts, "score=n/a")
		}
		if feedback := entry.Evaluation.Feedback(); feedback != "" {
			parts = append(parts, "feedback="+feedback)
		}
		if entry.FlowSummary != nil {
			parts = append(parts, fmt.Sprintf("nodes=%d", entry.FlowSummary.NodeCount))
		}
		reflectionLog = append(reflectionLog, strings.Join(parts, " | "))
	}

	lastFeedback := ""
	if last := runs[len(runs)-1].Evaluation; last != nil {
		lastFeedback = last.Justification
	}
	directives := DeriveDirectives(lastFeedback)

	var b strings.Builder
	b.WriteString(basePrompt)
	b.WriteString("\n\n### Reflection Log\n")
	for _, line := range reflectionLog {
		b.WriteString("- ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n### Improvement Directives\n")
	for _, directive := range directives {
		b.WriteString("- ")
		b.WriteString(directive)
		b.WriteString("\n")
	}
	b.WriteString("\nUsing the reflections above, regenerate or refine the flow plan. ")
	b.WriteString("Be explicit about how this cycle differs from earlier attempts and ")
	b.WriteString("explain the adjustments inside the self-evaluation justification.")

	adjustment := Adjustment{
		Summary:       "Injected reflective context from previous cycles and targeted improvements.",
		ReflectionLog: reflectionLog,
		Directives:    directives,
	}
	return b.String(), adjustment
}

// DeriveDirectives maps feedback keywords to targeted improvement
// directives. Without a keyword match the critique is addressed generically;
// a directive demanding documented concrete changes is always appended.
func DeriveDirectives(feedback string) []string {
	normalized := strings.ToLower(feedback)
	var directives []string

	if strings.Contains(normalized, "branch") || strings.Contains(normalized, "condition") {
		directives = append(directives, "Strengthen branching coverage to handle the missing conditions noted above.")
	}
	if strings.Contains(normalized, "loop") || strings.Contains(normalized, "iteration") {
		directives = append(directives, "Refine loop nodes with clearer exit criteria and tracking of iterations.")
	}
	if strings.Contains(normalized, "evaluation") || strings.Contains(normalized, "self") {
		directives = append(directives, "Improve the evaluation node to report precise pass/fail signals.")
	}
	if strings.Contains(normalized, "prompt") || strings.Contains(normalized, "clarity") {
		directives = append(directives, "Clarify each node's prompt so tool calls and outputs are unambiguous.")
	}

	if len(directives) == 0 {
		directives = append(directives, "Address the critique directly and document how the flow changes resolve it.")
	}
	directives = append(directives, "Track concrete changes in the evaluation justification for this cycle.")
	return directives
}

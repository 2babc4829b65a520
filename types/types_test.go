package types

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSummaryFromPrompt(t *testing.T) {
	cases := []struct {
		name   string
		prompt string
		want   string
	}{
		{"short", "Build a plan", "Build a plan"},
		{"newlines collapsed", "line one\nline two", "line one line two"},
		{"blank falls back", "   \n  ", "fallback label"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := SummaryFromPrompt(tc.prompt, "fallback label"); got != tc.want {
				t.Errorf("SummaryFromPrompt(%q) = %q, want %q", tc.prompt, got, tc.want)
			}
		})
	}
}

func TestSummaryFromPromptTruncatesOnRunes(t *testing.T) {
	prompt := strings.Repeat("é", 100)
	got := SummaryFromPrompt(prompt, "fallback")
	if count := utf8.RuneCountInString(got); count != 80 {
		t.Errorf("truncated to %d runes, want 80", count)
	}
	if !utf8.ValidString(got) {
		t.Error("truncation split a rune")
	}
}

func TestPrimaryNodeFallsBackToFirst(t *testing.T) {
	record := &RunRecord{Nodes: []Node{
		{ID: "flow::a"},
		{ID: PrimaryNodeID},
	}}
	if got := record.PrimaryNode(); got == nil || got.ID != PrimaryNodeID {
		t.Errorf("PrimaryNode() = %+v, want the well-known id", got)
	}

	record.Nodes = []Node{{ID: "flow::a"}}
	if got := record.PrimaryNode(); got == nil || got.ID != "flow::a" {
		t.Errorf("PrimaryNode() fallback = %+v, want first node", got)
	}

	var empty *RunRecord
	if empty.PrimaryNode() != nil {
		t.Error("nil record should yield nil primary")
	}
}

func TestEvaluationFeedback(t *testing.T) {
	score := 0.4
	cases := []struct {
		name string
		eval *Evaluation
		want string
	}{
		{"justification wins", &Evaluation{Score: &score, Justification: "thin coverage", Error: "ignored"}, "thin coverage"},
		{"error when blank", &Evaluation{Justification: "  ", Error: "parse failed"}, "parse failed"},
		{"nil is empty", nil, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.eval.Feedback(); got != tc.want {
				t.Errorf("Feedback() = %q, want %q", got, tc.want)
			}
		})
	}
}

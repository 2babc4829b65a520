package config

import (
	"errors"
	"testing"
)

func TestFromEnvDefaultsToCodex(t *testing.T) {
	t.Setenv("AGENTFLOW_ADAPTER", "")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("AGENTFLOW_HISTORY_ROOT", "")

	settings, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv() error = %v", err)
	}
	if settings.Adapter != "codex" {
		t.Errorf("Adapter = %q, want codex", settings.Adapter)
	}
	if settings.HistoryRoot != "sandbox/workflows" {
		t.Errorf("HistoryRoot = %q", settings.HistoryRoot)
	}
}

func TestFromEnvRequiresCredentialForSelectedAdapter(t *testing.T) {
	t.Setenv("AGENTFLOW_ADAPTER", "claude")
	t.Setenv("ANTHROPIC_API_KEY", "")

	_, err := FromEnv()
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("FromEnv() error = %v, want ConfigurationError", err)
	}
	if cfgErr.Setting != "ANTHROPIC_API_KEY" {
		t.Errorf("Setting = %q", cfgErr.Setting)
	}
}

func TestFromEnvMockNeedsNoCredentials(t *testing.T) {
	t.Setenv("AGENTFLOW_ADAPTER", "Mock")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "")

	settings, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv() error = %v", err)
	}
	if settings.Adapter != "mock" {
		t.Errorf("Adapter = %q, want lowercased mock", settings.Adapter)
	}
}

func TestFromEnvRejectsUnknownAdapter(t *testing.T) {
	t.Setenv("AGENTFLOW_ADAPTER", "copilot")
	if _, err := FromEnv(); err == nil {
		t.Error("expected error for unknown adapter")
	}
}

func TestParseBoolString(t *testing.T) {
	cases := []struct {
		raw      string
		fallback bool
		want     bool
	}{
		{"1", false, true},
		{"off", true, false},
		{"YES", false, true},
		{"maybe", true, true},
		{"", false, false},
	}
	for _, tc := range cases {
		if got := ParseBoolString(tc.raw, tc.fallback); got != tc.want {
			t.Errorf("ParseBoolString(%q, %v) = %v, want %v", tc.raw, tc.fallback, got, tc.want)
		}
	}
}

func TestParseIntEnv(t *testing.T) {
	t.Setenv("AGENTFLOW_TEST_INT", "42")
	if got := ParseIntEnv("AGENTFLOW_TEST_INT", 7); got != 42 {
		t.Errorf("ParseIntEnv = %d, want 42", got)
	}
	t.Setenv("AGENTFLOW_TEST_INT", "not a number")
	if got := ParseIntEnv("AGENTFLOW_TEST_INT", 7); got != 7 {
		t.Errorf("ParseIntEnv fallback = %d, want 7", got)
	}
}

// Package config resolves runtime settings from the process environment,
// with an optional .env file loaded first.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// ConfigurationError reports a missing or invalid setting. The CLI turns it
// into a non-zero exit without a stack trace.
type ConfigurationError struct {
	Setting string
	Reason  string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Setting, e.Reason)
}

// Settings is everything the CLI needs to build a gateway adapter and place
// artifacts.
type Settings struct {
	Adapter      string
	CodexBinary  string
	ClaudeBinary string
	HistoryRoot  string
}

const (
	defaultAdapter     = "codex"
	defaultHistoryRoot = "sandbox/workflows"
)

// FromEnv loads .env when present, then resolves settings. Credentials are
// validated only for the adapter actually selected.
func FromEnv() (Settings, error) {
	_ = godotenv.Load()

	settings := Settings{
		Adapter:      ParseStringEnv("AGENTFLOW_ADAPTER", defaultAdapter),
		CodexBinary:  ParseStringEnv("AGENTFLOW_CODEX_BINARY", ""),
		ClaudeBinary: ParseStringEnv("AGENTFLOW_CLAUDE_BINARY", ""),
		HistoryRoot:  ParseStringEnv("AGENTFLOW_HISTORY_ROOT", defaultHistoryRoot),
	}
	settings.Adapter = strings.ToLower(settings.Adapter)

	switch settings.Adapter {
	case "codex":
		if ParseStringEnv("OPENAI_API_KEY", "") == "" {
			return Settings{}, &ConfigurationError{Setting: "OPENAI_API_KEY", Reason: "required for the codex adapter"}
		}
	case "claude":
		if ParseStringEnv("ANTHROPIC_API_KEY", "") == "" {
			return Settings{}, &ConfigurationError{Setting: "ANTHROPIC_API_KEY", Reason: "required for the claude adapter"}
		}
	case "mock":
	default:
		return Settings{}, &ConfigurationError{
			Setting: "AGENTFLOW_ADAPTER",
			Reason:  fmt.Sprintf("unknown adapter %q, use codex, claude, or mock", settings.Adapter),
		}
	}
	return settings, nil
}

func ParseStringEnv(key, fallback string) string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	return raw
}

func ParseIntEnv(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func ParseBoolString(raw string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

// Package artifact persists run records and workflow history as YAML files.
// All writes are whole-file overwrites; no partial write is ever exposed.
package artifact

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
)

const runFilePrefix = "agentflow-"

// WriteYAML serializes payload and overwrites path, creating parent
// directories as needed.
func WriteYAML(path string, payload any) error {
	raw, err := yaml.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(path), err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create artifact directory: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// ReadYAML decodes the file at path into out.
func ReadYAML(path string, out any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
	}
	return nil
}

// ResolveRunPath picks a non-colliding artifact path for a run started at
// the given time and derives the record's plan id from the final file name.
func ResolveRunPath(dir string, startedAt time.Time) (string, string) {
	base := runFilePrefix + startedAt.UTC().Format("20060102150405")
	return ResolveArtifactPath(dir, base)
}

// ResolveArtifactPath appends -1, -2, ... to base until the candidate file
// does not exist yet.
func ResolveArtifactPath(dir, base string) (string, string) {
	candidate := filepath.Join(dir, base+".yaml")
	for suffix := 1; fileExists(candidate); suffix++ {
		candidate = filepath.Join(dir, fmt.Sprintf("%s-%d.yaml", base, suffix))
	}
	stem := strings.TrimSuffix(filepath.Base(candidate), filepath.Ext(candidate))
	return candidate, "plan-" + strings.TrimPrefix(stem, runFilePrefix)
}

// RenderingPath is the AgentFlowLanguage sidecar for a run artifact.
func RenderingPath(runPath string) string {
	return strings.TrimSuffix(runPath, filepath.Ext(runPath)) + ".afl"
}

// WriteRendering stores the textual AgentFlowLanguage next to the artifact.
func WriteRendering(runPath, rendering string) (string, error) {
	path := RenderingPath(runPath)
	if err := os.WriteFile(path, []byte(strings.TrimSpace(rendering)+"\n"), 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

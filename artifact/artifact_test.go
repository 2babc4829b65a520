package artifact

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/koushik24k/AgentFlow/types"
)

func TestResolveRunPathCollisionSuffix(t *testing.T) {
	dir := t.TempDir()
	at := time.Date(2025, 4, 2, 9, 30, 0, 0, time.UTC)

	path, planID := ResolveRunPath(dir, at)
	if filepath.Base(path) != "agentflow-20250402093000.yaml" {
		t.Fatalf("unexpected path %s", path)
	}
	if planID != "plan-20250402093000" {
		t.Fatalf("unexpected plan id %s", planID)
	}

	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	next, nextID := ResolveRunPath(dir, at)
	if filepath.Base(next) != "agentflow-20250402093000-1.yaml" {
		t.Fatalf("expected suffixed path, got %s", next)
	}
	if nextID != "plan-20250402093000-1" {
		t.Fatalf("unexpected plan id %s", nextID)
	}
}

func TestWriteAndReadRecordRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "run.yaml")

	score := 0.75
	record := types.RunRecord{
		SchemaVersion: types.SchemaVersion,
		PlanID:        "plan-roundtrip",
		Name:          "roundtrip",
		Status:        types.RunCompleted,
		CreatedAt:     time.Date(2025, 4, 2, 9, 30, 0, 0, time.UTC),
		Nodes: []types.Node{{
			ID:        types.PrimaryNodeID,
			Type:      types.NodeTypeAgent,
			DependsOn: []string{},
			Status:    types.NodeSucceeded,
			Outputs: map[string]any{
				"message":    "hello",
				"evaluation": &types.Evaluation{Score: &score, Justification: "fine"},
			},
		}},
	}
	if err := WriteYAML(path, record); err != nil {
		t.Fatal(err)
	}

	var got types.RunRecord
	if err := ReadYAML(path, &got); err != nil {
		t.Fatal(err)
	}
	if got.PlanID != "plan-roundtrip" || got.Status != types.RunCompleted {
		t.Fatalf("unexpected record %+v", got)
	}
	if got.Nodes[0].Outputs["message"] != "hello" {
		t.Fatalf("node outputs lost: %v", got.Nodes[0].Outputs)
	}
}

func TestWriteOverwritesWholeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	if err := WriteYAML(path, map[string]any{"status": "pending", "extra": "stale"}); err != nil {
		t.Fatal(err)
	}
	if err := WriteYAML(path, map[string]any{"status": "completed"}); err != nil {
		t.Fatal(err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(raw), "stale") {
		t.Fatal("overwrite left stale content behind")
	}
}

func TestWriteRendering(t *testing.T) {
	dir := t.TempDir()
	runPath := filepath.Join(dir, "agentflow-20250402093000.yaml")
	path, err := WriteRendering(runPath, "flow demo { a -> b }\n")
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Ext(path) != ".afl" {
		t.Fatalf("unexpected sidecar path %s", path)
	}
	raw, _ := os.ReadFile(path)
	if string(raw) != "flow demo { a -> b }\n" {
		t.Fatalf("unexpected rendering content %q", raw)
	}
}

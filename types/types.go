// Package types defines the shared data model for AgentFlow: the run record
// artifact, its nodes, evaluation payloads, and the agent gateway result.
package types

import (
	"strings"
	"time"
)

const SchemaVersion = "1.0"

// PrimaryNodeID is the node id of the direct agent invocation inside a run.
// Every synthesized or reflection node depends on it, directly or transitively.
const PrimaryNodeID = "agent_execution"

type RunStatus string

const (
	RunPending   RunStatus = "pending"
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
)

type NodeStatus string

const (
	NodeSucceeded NodeStatus = "succeeded"
	NodeFailed    NodeStatus = "failed"
)

type NodeType string

const (
	NodeTypeAgent      NodeType = "agent"
	NodeTypeReflection NodeType = "reflection"
)

// ErrorPayload carries a diagnostic message on a failed run or node.
type ErrorPayload struct {
	Message string `yaml:"message" json:"message"`
}

// Timeline records when a node was queued, started, and ended.
type Timeline struct {
	QueuedAt        *time.Time `yaml:"queued_at,omitempty" json:"queued_at,omitempty"`
	StartedAt       *time.Time `yaml:"started_at,omitempty" json:"started_at,omitempty"`
	EndedAt         *time.Time `yaml:"ended_at,omitempty" json:"ended_at,omitempty"`
	DurationSeconds float64    `yaml:"duration_seconds" json:"duration_seconds"`
}

// Attempt is one entry in a node's ordered attempt log.
type Attempt struct {
	AttemptID int        `yaml:"attempt_id" json:"attempt_id"`
	Timestamp time.Time  `yaml:"timestamp" json:"timestamp"`
	Status    NodeStatus `yaml:"status" json:"status"`
	Notes     string     `yaml:"notes,omitempty" json:"notes,omitempty"`
}

// Node is a unit of work inside a run. DependsOn only references node ids
// defined earlier in the record; the slice order is therefore a valid
// topological order by construction.
type Node struct {
	ID        string         `yaml:"id" json:"id"`
	Type      NodeType       `yaml:"type" json:"type"`
	Summary   string         `yaml:"summary" json:"summary"`
	DependsOn []string       `yaml:"depends_on" json:"depends_on"`
	Status    NodeStatus     `yaml:"status" json:"status"`
	Attempt   int            `yaml:"attempt" json:"attempt"`
	Inputs    map[string]any `yaml:"inputs" json:"inputs"`
	Outputs   map[string]any `yaml:"outputs" json:"outputs"`
	Artifacts []string       `yaml:"artifacts" json:"artifacts"`
	Metrics   map[string]any `yaml:"metrics" json:"metrics"`
	Timeline  Timeline       `yaml:"timeline" json:"timeline"`
	History   []Attempt      `yaml:"history" json:"history"`
	Error     *ErrorPayload  `yaml:"error,omitempty" json:"error,omitempty"`
}

// NodeCounts aggregates node statuses for the record rollup.
type NodeCounts struct {
	Succeeded int `yaml:"succeeded" json:"succeeded"`
	Failed    int `yaml:"failed" json:"failed"`
}

type Rollup struct {
	CompletionPercentage int        `yaml:"completion_percentage" json:"completion_percentage"`
	Counts               NodeCounts `yaml:"counts" json:"counts"`
	LastWriter           string     `yaml:"last_writer" json:"last_writer"`
}

// RunRecord is the versioned artifact of one pipeline execution. It is
// immutable once written, except for the reflection node the adaptive
// workflow loop appends after each cycle.
type RunRecord struct {
	SchemaVersion   string         `yaml:"schema_version" json:"schema_version"`
	PlanID          string         `yaml:"plan_id" json:"plan_id"`
	Name            string         `yaml:"name" json:"name"`
	Description     string         `yaml:"description" json:"description"`
	CreatedAt       time.Time      `yaml:"created_at" json:"created_at"`
	LastUpdated     time.Time      `yaml:"last_updated" json:"last_updated"`
	CreatedBy       string         `yaml:"created_by" json:"created_by"`
	Version         int            `yaml:"version" json:"version"`
	Status          RunStatus      `yaml:"status" json:"status"`
	DurationSeconds float64        `yaml:"duration_seconds" json:"duration_seconds"`
	Tags            []string       `yaml:"tags" json:"tags"`
	Context         map[string]any `yaml:"context" json:"context"`
	Nodes           []Node         `yaml:"nodes" json:"nodes"`
	Rollup          Rollup         `yaml:"rollup" json:"rollup"`
	Metadata        map[string]any `yaml:"metadata,omitempty" json:"metadata,omitempty"`
	Error           *ErrorPayload  `yaml:"error,omitempty" json:"error,omitempty"`
}

// PrimaryNode returns the direct agent invocation node, falling back to the
// first node when the well-known id is absent.
func (r *RunRecord) PrimaryNode() *Node {
	if r == nil || len(r.Nodes) == 0 {
		return nil
	}
	for i := range r.Nodes {
		if r.Nodes[i].ID == PrimaryNodeID {
			return &r.Nodes[i]
		}
	}
	return &r.Nodes[0]
}

// Evaluation is the normalized outcome of the self-evaluation stage. A
// usable score and an error are not mutually exclusive; both may be kept as
// diagnostic context.
type Evaluation struct {
	Score         *float64 `yaml:"score" json:"score"`
	Justification string   `yaml:"justification,omitempty" json:"justification,omitempty"`
	Error         string   `yaml:"error,omitempty" json:"error,omitempty"`
	RawMessage    string   `yaml:"raw_message,omitempty" json:"raw_message,omitempty"`
}

// Feedback returns the justification if present, else the error text.
func (e *Evaluation) Feedback() string {
	if e == nil {
		return ""
	}
	if strings.TrimSpace(e.Justification) != "" {
		return e.Justification
	}
	return e.Error
}

// SummaryFromPrompt derives a one-line record summary from free-form prompt
// text: first 80 characters, newlines collapsed.
func SummaryFromPrompt(prompt, fallback string) string {
	runes := []rune(prompt)
	if len(runes) > 80 {
		runes = runes[:80]
	}
	s := string(runes)
	s = strings.TrimSpace(strings.ReplaceAll(s, "\n", " "))
	if s == "" {
		return fallback
	}
	return s
}

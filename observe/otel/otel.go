// Package otel bridges the observe.Sink to OpenTelemetry tracing.
//
// Pipeline stage and workflow cycle events become OTel spans so that runs
// are visible in any OpenTelemetry-compatible backend.
package otel

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/koushik24k/AgentFlow/observe"
)

const instrumentationName = "github.com/koushik24k/AgentFlow"

// Sink implements observe.Sink by emitting OpenTelemetry spans.
type Sink struct {
	tracer trace.Tracer
}

// NewSink creates an OTel sink using the given TracerProvider.
// If tp is nil, it uses a noop tracer provider.
func NewSink(tp trace.TracerProvider) *Sink {
	if tp == nil {
		tp = noop.NewTracerProvider()
	}
	return &Sink{
		tracer: tp.Tracer(instrumentationName),
	}
}

// Emit converts an observe.Event into an OTel span.
func (s *Sink) Emit(_ context.Context, event observe.Event) error {
	event.Normalize()

	startTime := event.Timestamp
	_, span := s.tracer.Start(context.Background(), spanNameFor(event), trace.WithTimestamp(startTime))

	attrs := make([]attribute.KeyValue, 0, 8)
	if event.RunID != "" {
		attrs = append(attrs, attribute.String("agentflow.run.id", event.RunID))
	}
	if event.WorkflowID != "" {
		attrs = append(attrs, attribute.String("agentflow.workflow.id", event.WorkflowID))
	}
	if event.Stage != "" {
		attrs = append(attrs, attribute.String("agentflow.stage", event.Stage))
	}
	if event.Cycle > 0 {
		attrs = append(attrs, attribute.Int("agentflow.cycle", event.Cycle))
	}
	if event.Status != "" {
		attrs = append(attrs, attribute.String("agentflow.status", string(event.Status)))
	}
	if event.Message != "" {
		attrs = append(attrs, attribute.String("agentflow.message", truncate(event.Message, 1024)))
	}
	if event.DurationMs > 0 {
		attrs = append(attrs, attribute.Int64("agentflow.duration_ms", event.DurationMs))
	}
	for k, v := range event.Attributes {
		attrs = append(attrs, attribute.String("agentflow.attr."+k, fmt.Sprintf("%v", v)))
	}
	span.SetAttributes(attrs...)

	if event.Status == observe.StatusFailed {
		span.SetStatus(codes.Error, event.Error)
		if event.Error != "" {
			span.RecordError(fmt.Errorf("%s", event.Error))
		}
	} else if event.Status == observe.StatusCompleted {
		span.SetStatus(codes.Ok, "")
	}

	endTime := startTime
	if event.DurationMs > 0 {
		endTime = startTime.Add(time.Duration(event.DurationMs) * time.Millisecond)
	}
	span.End(trace.WithTimestamp(endTime))
	return nil
}

func spanNameFor(event observe.Event) string {
	if event.Stage != "" {
		return "agentflow.stage." + event.Stage
	}
	if event.Cycle > 0 {
		return "agentflow.cycle"
	}
	return "agentflow.event"
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

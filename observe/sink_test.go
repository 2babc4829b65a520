package observe

import (
	"context"
	"errors"
	"testing"
)

func TestMultiSinkFansOut(t *testing.T) {
	var got []string
	record := func(name string) Sink {
		return SinkFunc(func(_ context.Context, event Event) error {
			got = append(got, name+":"+event.Stage)
			return nil
		})
	}

	sink := NewMultiSink(record("a"), nil, record("b"))
	if err := sink.Emit(context.Background(), Event{Stage: "finalize"}); err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0] != "a:finalize" || got[1] != "b:finalize" {
		t.Fatalf("unexpected fan-out: %v", got)
	}
}

func TestMultiSinkStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	failing := SinkFunc(func(context.Context, Event) error { calls++; return boom })
	counting := SinkFunc(func(context.Context, Event) error { calls++; return nil })

	sink := NewMultiSink(failing, counting)
	if err := sink.Emit(context.Background(), Event{}); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected downstream sink to be skipped, calls=%d", calls)
	}
}

func TestEmptyMultiSinkIsNoop(t *testing.T) {
	sink := NewMultiSink()
	if _, ok := sink.(NoopSink); !ok {
		t.Fatalf("expected NoopSink, got %T", sink)
	}
	if err := sink.Emit(context.Background(), Event{}); err != nil {
		t.Fatal(err)
	}
}

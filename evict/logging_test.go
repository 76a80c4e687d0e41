package evict

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// LoggingOwner forwards each call once and emits one structured record.
func TestLoggingOwner_ForwardsAndLogs(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	next := &recordingOwner[string, int]{}
	owner := LoggingOwner[string, int](next, zap.New(core))

	clk := &fakeClock{}
	e := MustEntry(owner, "k", 1, 10, WithClock(clk))
	e.Evict(true)

	if calls := next.snapshot(); len(calls) != 1 || calls[0].e != e || !calls[0].cancel {
		t.Fatalf("want one forwarded call with (e, true), got %+v", calls)
	}
	entries := logs.FilterMessage("evict entry").All()
	if len(entries) != 1 {
		t.Fatalf("want 1 log record, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["trigger"] != "removal" || fields["cancel_pending"] != true || fields["overdue"] != false {
		t.Fatalf("unexpected fields: %v", fields)
	}
	obj, ok := fields["entry"].(map[string]any)
	if !ok {
		t.Fatalf("entry field must be an object, got %T", fields["entry"])
	}
	if obj["key"] != "k" || obj["evict_ms"] != int64(10) || obj["evictible"] != true {
		t.Fatalf("unexpected entry object: %v", obj)
	}
}

// Above Debug nothing is logged, but the owner is still called.
func TestLoggingOwner_LevelGate(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.InfoLevel)
	next := &recordingOwner[string, int]{}
	e := MustEntry(LoggingOwner[string, int](next, zap.New(core)), "k", 1, 0)
	e.Evict(false)

	if logs.Len() != 0 {
		t.Fatalf("no records expected at info level, got %d", logs.Len())
	}
	if len(next.snapshot()) != 1 {
		t.Fatal("owner must be called regardless of log level")
	}
}

func TestLoggingOwner_NilLogger(t *testing.T) {
	t.Parallel()

	next := &recordingOwner[string, int]{}
	e := MustEntry(LoggingOwner[string, int](next, nil), "k", 1, 0)
	e.Evict(false)
	if len(next.snapshot()) != 1 {
		t.Fatal("owner must be called with a nil logger")
	}
}

func TestLoggingOwner_PanicsOnNilNext(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Fatal("LoggingOwner(nil) must panic")
		}
	}()
	LoggingOwner[string, int](nil, zap.NewNop())
}

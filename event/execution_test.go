package event

import (
	"testing"

	"github.com/go-lincheck/lincheck/label"
)

// buildSingleWriterReader builds: T1 writes x=1. T2 reads x.
func buildSingleWriterReader(t *testing.T) (*Execution, *Event, *Event) {
	t.Helper()
	b := NewExecutionBuilder()

	if err := b.BeginThread(1); err != nil {
		t.Fatalf("BeginThread(1): %v", err)
	}
	startRsp1, err := b.AppendResponse(label.NewThreadStartResponse(1, false), b.Init())
	if err != nil {
		t.Fatalf("start thread 1: %v", err)
	}
	write, err := b.AppendSend(label.NewWrite("x", 1, label.KClassInt, false))
	if err != nil {
		t.Fatalf("append write: %v", err)
	}
	if err := b.EndThread(); err != nil {
		t.Fatalf("EndThread: %v", err)
	}

	if err := b.BeginThread(2); err != nil {
		t.Fatalf("BeginThread(2): %v", err)
	}
	if _, err := b.AppendResponse(label.NewThreadStartResponse(2, false), b.Init()); err != nil {
		t.Fatalf("start thread 2: %v", err)
	}
	req, err := b.AppendRequest(label.NewReadRequest("x", label.KClassInt, false))
	if err != nil {
		t.Fatalf("append read request: %v", err)
	}
	rsp, err := b.AppendResponse(label.NewReadResponse("x", 1, label.KClassInt, false), write)
	if err != nil {
		t.Fatalf("append read response: %v", err)
	}
	_ = req
	if err := b.EndThread(); err != nil {
		t.Fatalf("EndThread: %v", err)
	}

	exec, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return exec, startRsp1, rsp
}

func TestBuilderWellFormedExecution(t *testing.T) {
	exec, _, rsp := buildSingleWriterReader(t)

	if exec.Size(1) != 2 {
		t.Errorf("expected thread 1 to have 2 events, got %d", exec.Size(1))
	}
	if exec.Size(2) != 3 {
		t.Errorf("expected thread 2 to have 3 events, got %d", exec.Size(2))
	}
	if rsp.Source == nil || rsp.Source.ThreadID != 1 {
		t.Errorf("expected read response sourced from thread 1's write, got %v", rsp.Source)
	}
}

func TestBuilderAggregatesReadRequestResponse(t *testing.T) {
	exec, _, _ := buildSingleWriterReader(t)

	agg, members, ok := exec.GetAggregatedLabel(2, 1)
	if !ok {
		t.Fatal("expected an aggregated label at thread 2 position 1")
	}
	if len(members) != 2 {
		t.Fatalf("expected the read request+response to aggregate into 2 members, got %d", len(members))
	}
	total, ok := agg.(*label.ReadTotalLabel)
	if !ok || total.Value != 1 {
		t.Fatalf("expected Read^total with value 1, got %v", agg)
	}
}

func TestBuilderRejectsThreadNotStartingWithThreadStartResponse(t *testing.T) {
	b := NewExecutionBuilder()
	if err := b.BeginThread(1); err != nil {
		t.Fatalf("BeginThread: %v", err)
	}
	if _, err := b.AppendSend(label.NewWrite("x", 1, label.KClassInt, false)); err == nil {
		t.Fatal("expected an error when a thread's first event is not ThreadStart response")
	}
}

func TestBuilderRejectsMismatchedResponseShape(t *testing.T) {
	b := NewExecutionBuilder()
	if err := b.BeginThread(1); err != nil {
		t.Fatalf("BeginThread: %v", err)
	}
	if _, err := b.AppendResponse(label.NewThreadStartResponse(1, false), b.Init()); err != nil {
		t.Fatalf("start thread: %v", err)
	}
	if _, err := b.AppendRequest(label.NewReadRequest("x", label.KClassInt, false)); err != nil {
		t.Fatalf("append read request: %v", err)
	}
	// Exclusive response does not match a non-exclusive request's shape.
	if _, err := b.AppendResponse(label.NewReadResponse("x", 1, label.KClassInt, true), b.Init()); err == nil {
		t.Fatal("expected a shape-mismatch error between request and response")
	}
}

func TestBuilderRejectsUnsourcedResponse(t *testing.T) {
	b := NewExecutionBuilder()
	if err := b.BeginThread(1); err != nil {
		t.Fatalf("BeginThread: %v", err)
	}
	if _, err := b.AppendResponse(label.NewThreadStartResponse(1, false), nil); err == nil {
		t.Fatal("expected an error for a response without a source event")
	}
}

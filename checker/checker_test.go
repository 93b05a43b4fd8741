package checker

import (
	"testing"

	"github.com/go-lincheck/lincheck/covering"
	"github.com/go-lincheck/lincheck/event"
	"github.com/go-lincheck/lincheck/label"
)

func newChecker() *Checker {
	return New(covering.ExternalCausality{})
}

// TestSingleWriterSingleReaderIsConsistent: T1 writes x=1, T2 reads x and
// observes 1. One legal total order (T1 then T2) exists.
func TestSingleWriterSingleReaderIsConsistent(t *testing.T) {
	b := event.NewExecutionBuilder()
	must(t, b.BeginThread(1))
	_, err := b.AppendResponse(label.NewThreadStartResponse(1, false), b.Init())
	must(t, err)
	write, err := b.AppendSend(label.NewWrite("x", 1, label.KClassInt, false))
	must(t, err)
	must(t, b.EndThread())

	must(t, b.BeginThread(2))
	_, err = b.AppendResponse(label.NewThreadStartResponse(2, false), b.Init())
	must(t, err)
	_, err = b.AppendRequest(label.NewReadRequest("x", label.KClassInt, false))
	must(t, err)
	_, err = b.AppendResponse(label.NewReadResponse("x", 1, label.KClassInt, false), write)
	must(t, err)
	must(t, b.EndThread())

	exec, err := b.Build()
	must(t, err)

	if v := newChecker().Check(exec); v != nil {
		t.Fatalf("expected sequential consistency, got %v", v)
	}
}

// TestReadCanPrecedeAnUnrelatedWrite: T1 writes x=1, T2 reads x and observes
// the default 0, sourced from Initialization rather than T1's write. Nothing
// covers T2's read on T1's write, so a total order with T2 scheduled first
// exists and the checker must accept it.
func TestReadCanPrecedeAnUnrelatedWrite(t *testing.T) {
	b := event.NewExecutionBuilder()
	must(t, b.BeginThread(1))
	_, err := b.AppendResponse(label.NewThreadStartResponse(1, false), b.Init())
	must(t, err)
	_, err = b.AppendSend(label.NewWrite("x", 1, label.KClassInt, false))
	must(t, err)
	must(t, b.EndThread())

	must(t, b.BeginThread(2))
	_, err = b.AppendResponse(label.NewThreadStartResponse(2, false), b.Init())
	must(t, err)
	_, err = b.AppendRequest(label.NewReadRequest("x", label.KClassInt, false))
	must(t, err)
	_, err = b.AppendResponse(label.NewReadResponse("x", 0, label.KClassInt, false), b.Init())
	must(t, err)
	must(t, b.EndThread())

	exec, err := b.Build()
	must(t, err)

	if v := newChecker().Check(exec); v != nil {
		t.Fatalf("expected sequential consistency (read can precede the unrelated write), got %v", v)
	}
}

// TestCompareAndSetSucceedsAgainstExpectedValue models a CAS(x, 0, 1) after
// Initialization's default, which must succeed and leave x=1.
func TestCompareAndSetSucceedsAgainstExpectedValue(t *testing.T) {
	exec := buildSingleCAS(t, 0, 1)
	if v := newChecker().Check(exec); v != nil {
		t.Fatalf("expected sequential consistency, got %v", v)
	}
}

// TestCompareAndSetAgainstWrongExpectedFails models a CAS(x, 5, 1) against a
// location whose only possible value is the default 0: no total order can
// make the read-modify-write's recorded read value match, so Replay must
// reject this label under every reachable state.
func TestCompareAndSetAgainstWrongExpectedFails(t *testing.T) {
	exec := buildSingleCAS(t, 5, 1)
	v := newChecker().Check(exec)
	if v == nil {
		t.Fatal("expected a sequential consistency violation for a CAS against an unreachable expected value")
	}
}

// TestReadModifyWriteRaceAcceptsEitherOrdering models spec.md's scenario 4:
// T1 plainly writes x=2, racing T2's RMW(x, expect, new) with no
// program-order or external-causality edge between the two threads. When
// the race is recorded as the RMW winning (expect=0, the Initialization
// default), only the order with the RMW before the write realizes it; when
// it's recorded as losing to the already-applied write (expect=2), only the
// reverse order does. The checker must find whichever order the recorded
// values actually admit.
func TestReadModifyWriteRaceAcceptsEitherOrdering(t *testing.T) {
	t.Run("RMW precedes write", func(t *testing.T) {
		exec := buildWriteRace(t, 0, 1)
		if v := newChecker().Check(exec); v != nil {
			t.Fatalf("expected sequential consistency (RMW wins the race before the write), got %v", v)
		}
	})

	t.Run("RMW follows write", func(t *testing.T) {
		exec := buildWriteRace(t, 2, 3)
		if v := newChecker().Check(exec); v != nil {
			t.Fatalf("expected sequential consistency (RMW observes the write and CASes from 2), got %v", v)
		}
	})
}

func buildWriteRace(t *testing.T, expected, newValue int) *event.Execution {
	t.Helper()
	b := event.NewExecutionBuilder()

	must(t, b.BeginThread(1))
	_, err := b.AppendResponse(label.NewThreadStartResponse(1, false), b.Init())
	must(t, err)
	_, err = b.AppendSend(label.NewWrite("x", 2, label.KClassInt, false))
	must(t, err)
	must(t, b.EndThread())

	must(t, b.BeginThread(2))
	_, err = b.AppendResponse(label.NewThreadStartResponse(2, false), b.Init())
	must(t, err)
	_, err = b.AppendRequest(label.NewReadRequest("x", label.KClassInt, true))
	must(t, err)
	_, err = b.AppendResponse(label.NewReadResponse("x", expected, label.KClassInt, true), b.Init())
	must(t, err)
	_, err = b.AppendSend(label.NewWrite("x", newValue, label.KClassInt, true))
	must(t, err)
	must(t, b.EndThread())

	exec, err := b.Build()
	must(t, err)
	return exec
}

// TestStoreBufferRejectsZeroZero models spec.md's scenario 2 reading the
// textbook store-buffer outcome (v1,v2)=(0,0): T1 writes x=1 then reads y,
// T2 writes y=1 then reads x. Realizing (0,0) needs T1's read before T2's
// write (for y=0) and T2's read before T1's write (for x=0), while program
// order already forces each thread's own write before its own read - a
// cycle no total order can satisfy, so the checker must report it
// inconsistent.
func TestStoreBufferRejectsZeroZero(t *testing.T) {
	exec := buildStoreBuffer(t, 0, 0, false, false)
	if v := newChecker().Check(exec); v == nil {
		t.Fatal("expected a sequential consistency violation for the (0,0) store-buffer outcome")
	}
}

// TestStoreBufferAcceptsOneZero models the same scenario reading
// (v1,v2)=(1,0): T2's write to y is recorded as T1's read's source, so the
// only realizing order has T2's write, then T2's read of x (still 0),
// then T1's write, then T1's read of y (now 1).
func TestStoreBufferAcceptsOneZero(t *testing.T) {
	exec := buildStoreBuffer(t, 1, 0, true, false)
	if v := newChecker().Check(exec); v != nil {
		t.Fatalf("expected sequential consistency for the (1,0) store-buffer outcome, got %v", v)
	}
}

func buildStoreBuffer(t *testing.T, v1, v2 int, read1FromWrite2, read2FromWrite1 bool) *event.Execution {
	t.Helper()
	b := event.NewExecutionBuilder()

	must(t, b.BeginThread(2))
	_, err := b.AppendResponse(label.NewThreadStartResponse(2, false), b.Init())
	must(t, err)
	write2, err := b.AppendSend(label.NewWrite("y", 1, label.KClassInt, false))
	must(t, err)
	must(t, b.EndThread())

	must(t, b.BeginThread(1))
	_, err = b.AppendResponse(label.NewThreadStartResponse(1, false), b.Init())
	must(t, err)
	write1, err := b.AppendSend(label.NewWrite("x", 1, label.KClassInt, false))
	must(t, err)
	_, err = b.AppendRequest(label.NewReadRequest("y", label.KClassInt, false))
	must(t, err)
	read1Source := b.Init()
	if read1FromWrite2 {
		read1Source = write2
	}
	_, err = b.AppendResponse(label.NewReadResponse("y", v1, label.KClassInt, false), read1Source)
	must(t, err)
	must(t, b.EndThread())

	must(t, b.BeginThread(2))
	_, err = b.AppendRequest(label.NewReadRequest("x", label.KClassInt, false))
	must(t, err)
	read2Source := b.Init()
	if read2FromWrite1 {
		read2Source = write1
	}
	_, err = b.AppendResponse(label.NewReadResponse("x", v2, label.KClassInt, false), read2Source)
	must(t, err)
	must(t, b.EndThread())

	exec, err := b.Build()
	must(t, err)
	return exec
}

func buildSingleCAS(t *testing.T, expected, newValue int) *event.Execution {
	t.Helper()
	b := event.NewExecutionBuilder()
	must(t, b.BeginThread(1))
	_, err := b.AppendResponse(label.NewThreadStartResponse(1, false), b.Init())
	must(t, err)
	req, err := b.AppendRequest(label.NewReadRequest("x", label.KClassInt, true))
	must(t, err)
	_, err = b.AppendResponse(label.NewReadResponse("x", expected, label.KClassInt, true), b.Init())
	must(t, err)
	_, err = b.AppendSend(label.NewWrite("x", newValue, label.KClassInt, true))
	must(t, err)
	must(t, b.EndThread())
	_ = req

	exec, err := b.Build()
	must(t, err)
	return exec
}

// TestForkJoinOrdersStartBeforeFinish: the main thread forks T1, T1 writes
// x=1 and finishes, main joins T1 and reads x, observing 1. This exercises
// the external-causality edges fork->start and finish->join together.
func TestForkJoinOrdersStartBeforeFinish(t *testing.T) {
	b := event.NewExecutionBuilder()

	must(t, b.BeginThread(0))
	_, err := b.AppendResponse(label.NewThreadStartResponse(0, true), b.Init())
	must(t, err)
	fork, err := b.AppendSend(label.NewThreadFork(1))
	must(t, err)
	joinReq, err := b.AppendRequest(label.NewThreadJoinRequest(1))
	must(t, err)
	must(t, b.EndThread())

	must(t, b.BeginThread(1))
	_, err = b.AppendResponse(label.NewThreadStartResponse(1, false), fork)
	must(t, err)
	write, err := b.AppendSend(label.NewWrite("x", 1, label.KClassInt, false))
	must(t, err)
	finish, err := b.AppendSend(label.NewThreadFinish(1))
	must(t, err)
	must(t, b.EndThread())

	must(t, b.BeginThread(0))
	_, err = b.AppendResponse(label.NewThreadJoinResponse(), finish)
	must(t, err)
	_, err = b.AppendRequest(label.NewReadRequest("x", label.KClassInt, false))
	must(t, err)
	_, err = b.AppendResponse(label.NewReadResponse("x", 1, label.KClassInt, false), write)
	must(t, err)
	must(t, b.EndThread())
	_ = joinReq

	exec, err := b.Build()
	must(t, err)

	if v := newChecker().Check(exec); v != nil {
		t.Fatalf("expected sequential consistency, got %v", v)
	}
}

// TestLockEnforcesMutualExclusion: T1 and T2 both acquire mutex m, write to
// x, and release; T2's lock response is sourced from T1's unlock, so the
// checker must find the order that runs T1's critical section entirely
// before T2's.
func TestLockEnforcesMutualExclusion(t *testing.T) {
	b := event.NewExecutionBuilder()

	must(t, b.BeginThread(1))
	_, err := b.AppendResponse(label.NewThreadStartResponse(1, false), b.Init())
	must(t, err)
	_, err = b.AppendRequest(label.NewLockRequest("m", 1, 0))
	must(t, err)
	_, err = b.AppendResponse(label.NewLockResponse("m", 1, 0), b.Init())
	must(t, err)
	_, err = b.AppendSend(label.NewWrite("x", 1, label.KClassInt, false))
	must(t, err)
	unlock1, err := b.AppendSend(label.NewUnlock("m", 1, 0))
	must(t, err)
	must(t, b.EndThread())

	must(t, b.BeginThread(2))
	_, err = b.AppendResponse(label.NewThreadStartResponse(2, false), b.Init())
	must(t, err)
	_, err = b.AppendRequest(label.NewLockRequest("m", 1, 0))
	must(t, err)
	_, err = b.AppendResponse(label.NewLockResponse("m", 1, 0), unlock1)
	must(t, err)
	_, err = b.AppendSend(label.NewWrite("x", 2, label.KClassInt, false))
	must(t, err)
	_, err = b.AppendSend(label.NewUnlock("m", 1, 0))
	must(t, err)
	must(t, b.EndThread())

	exec, err := b.Build()
	must(t, err)

	if v := newChecker().Check(exec); v != nil {
		t.Fatalf("expected sequential consistency, got %v", v)
	}
}

// TestCheckIsDeterministic runs the same execution twice and expects the
// same verdict, since the search order is fixed (ascending thread id).
func TestCheckIsDeterministic(t *testing.T) {
	exec := buildSingleCAS(t, 0, 1)
	c := newChecker()
	first := c.Check(exec)
	second := c.Check(exec)
	if (first == nil) != (second == nil) {
		t.Fatalf("expected deterministic verdicts, got %v then %v", first, second)
	}
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

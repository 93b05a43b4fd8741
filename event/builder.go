package event

import (
	"fmt"

	"github.com/go-lincheck/lincheck/label"
)

// ExecutionBuilder records per-thread event sequences and enforces
// well-formedness: a request must be followed by a matching response (same
// shape), a response records its source event for external causality, and
// every thread begins with a ThreadStart response - the main thread's
// sourced from Initialization.
type ExecutionBuilder struct {
	exec     *Execution
	nextID   int
	current  int
	building bool
}

// NewExecutionBuilder starts a fresh builder with its own Initialization
// event, the virtual root every execution supplies defaults from.
func NewExecutionBuilder() *ExecutionBuilder {
	b := &ExecutionBuilder{}
	init := &Event{ID: 0, ThreadID: InitThreadID, ThreadPosition: 0, Label: label.NewInitialization()}
	b.exec = newExecution(init)
	b.nextID = 1
	return b
}

// Init returns the builder's Initialization event, passed as the source
// for the main thread's ThreadStart response and for the first read of any
// location.
func (b *ExecutionBuilder) Init() *Event {
	return b.exec.initEv
}

// BeginThread opens thread tid for appending. Only one thread may be open
// at a time, but a thread may be reopened after EndThread to append events
// that depend on another thread's events built in between - the join
// response that sources from a finish event appended on another thread's
// row, for instance.
func (b *ExecutionBuilder) BeginThread(tid int) error {
	if b.building {
		return fmt.Errorf("event: thread %d is still open, call EndThread first", b.current)
	}
	if tid == InitThreadID {
		return fmt.Errorf("event: thread id %d is reserved for Initialization", InitThreadID)
	}
	if _, exists := b.exec.threads[tid]; !exists {
		b.exec.threads[tid] = nil
		b.exec.order = append(b.exec.order, tid)
	}
	b.current = tid
	b.building = true
	return nil
}

// EndThread closes the currently open thread.
func (b *ExecutionBuilder) EndThread() error {
	if !b.building {
		return fmt.Errorf("event: no thread is open")
	}
	b.building = false
	return nil
}

// AppendSend appends a Send-kind label to the currently open thread.
func (b *ExecutionBuilder) AppendSend(l label.Label) (*Event, error) {
	if l.Kind() != label.Send {
		return nil, fmt.Errorf("event: AppendSend given a %s label", l.Kind())
	}
	return b.append(l, nil)
}

// AppendRequest appends a Request-kind label to the currently open thread.
func (b *ExecutionBuilder) AppendRequest(l label.Label) (*Event, error) {
	if l.Kind() != label.Request {
		return nil, fmt.Errorf("event: AppendRequest given a %s label", l.Kind())
	}
	return b.append(l, nil)
}

// AppendResponse appends a Response-kind label to the currently open
// thread, recording source as the Send (or barrier-satisfying Send) it
// synchronized from. The preceding event on this thread must be a request
// of matching shape.
func (b *ExecutionBuilder) AppendResponse(l label.Label, source *Event) (*Event, error) {
	if l.Kind() != label.Response {
		return nil, fmt.Errorf("event: AppendResponse given a %s label", l.Kind())
	}
	if source == nil {
		return nil, fmt.Errorf("event: AppendResponse requires a source event")
	}
	if !label.SynchronizedFrom(l, source.Label, label.Strict) {
		return nil, fmt.Errorf("event: %v is not a legal response to source %v", l, source.Label)
	}
	if start, ok := l.(*label.ThreadStartLabel); ok && start.IsMainThread && source.ThreadID != InitThreadID {
		return nil, fmt.Errorf("event: main thread start %v must be sourced from Initialization", l)
	}
	if !b.building {
		return nil, fmt.Errorf("event: no thread is open")
	}
	evs := b.exec.threads[b.current]
	if len(evs) == 0 {
		if _, ok := l.(*label.ThreadStartLabel); !ok {
			return nil, fmt.Errorf("event: response %v has no preceding request on thread %d", l, b.current)
		}
	} else if prev := evs[len(evs)-1]; prev.Label.Kind() != label.Request || !label.MatchesRequest(prev.Label, l) {
		return nil, fmt.Errorf("event: response %v does not match preceding request %v", l, prev.Label)
	}
	ref := &Ref{ThreadID: source.ThreadID, Position: source.ThreadPosition}
	return b.append(l, ref)
}

func (b *ExecutionBuilder) append(l label.Label, source *Ref) (*Event, error) {
	if !b.building {
		return nil, fmt.Errorf("event: no thread is open, call BeginThread first")
	}
	evs := b.exec.threads[b.current]
	pos := len(evs)
	if pos == 0 {
		start, ok := l.(*label.ThreadStartLabel)
		if !ok || start.Kind() != label.Response {
			return nil, fmt.Errorf("event: thread %d must begin with a ThreadStart response, got %v", b.current, l)
		}
	}
	ev := &Event{ID: b.nextID, ThreadID: b.current, ThreadPosition: pos, Label: l, Source: source}
	b.nextID++
	b.exec.threads[b.current] = append(evs, ev)
	return ev, nil
}

// Build finalizes the execution, validating that every thread it saw
// begins with a ThreadStart response and has no thread still open.
func (b *ExecutionBuilder) Build() (*Execution, error) {
	if b.building {
		return nil, fmt.Errorf("event: thread %d is still open, call EndThread first", b.current)
	}
	for _, tid := range b.exec.order {
		evs := b.exec.threads[tid]
		if len(evs) == 0 {
			return nil, fmt.Errorf("event: thread %d recorded no events", tid)
		}
		start, ok := evs[0].Label.(*label.ThreadStartLabel)
		if !ok || start.Kind() != label.Response {
			return nil, fmt.Errorf("event: thread %d does not begin with a ThreadStart response", tid)
		}
	}
	return b.exec, nil
}

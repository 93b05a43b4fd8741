// Package event represents concurrent executions as per-thread sequences
// of labelled events: the Event/Execution layer the checker replays, and
// the ExecutionBuilder that enforces well-formedness while recording them.
package event

import "github.com/go-lincheck/lincheck/label"

// Ref is an index-based reference to an event - (threadID, position) -
// rather than an owning pointer, so a response can cite its synchronizing
// source without the two events owning each other.
type Ref struct {
	ThreadID int
	Position int
}

// Event is a label placed at a thread position with a global id.
// ThreadPosition is the 0-based index of the event in its thread's
// sequence. Source is non-nil for Response events: it names the Send (or
// other Response) this event synchronized from, for external-causality
// covering.
type Event struct {
	ID             int
	ThreadID       int
	ThreadPosition int
	Label          label.Label
	Source         *Ref
}

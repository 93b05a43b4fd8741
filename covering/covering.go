// Package covering answers "what must be in the past of this event?" - the
// dependency set the sequential-consistency checker gates replay on.
package covering

import "github.com/go-lincheck/lincheck/event"

// Covering maps an event to the set of events that must already have been
// replayed before it may be. It must be total and acyclic over the events
// of a well-formed execution.
type Covering interface {
	Name() string
	Cover(exec *event.Execution, e *event.Event) []*event.Event
}

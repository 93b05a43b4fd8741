package covering

import "github.com/go-lincheck/lincheck/event"

// ProgramOrder covers an event with every same-thread event strictly
// before it: cov(e) = {e' in same thread with e'.position < e.position}.
type ProgramOrder struct{}

func (ProgramOrder) Name() string { return "program-order" }

func (ProgramOrder) Cover(exec *event.Execution, e *event.Event) []*event.Event {
	out := make([]*event.Event, 0, e.ThreadPosition)
	for pos := 0; pos < e.ThreadPosition; pos++ {
		out = append(out, exec.Get(e.ThreadID, pos))
	}
	return out
}

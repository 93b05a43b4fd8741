package covering

import "github.com/go-lincheck/lincheck/event"

// ExternalCausality covers an event with program order plus the one
// cross-thread edge a Response event carries explicitly: its recorded
// source (fork -> start, unlock -> lock, write -> read, notify -> wait,
// finish -> join). This is the covering the sequential-consistency
// checker uses.
type ExternalCausality struct{}

func (ExternalCausality) Name() string { return "external-causality" }

func (ExternalCausality) Cover(exec *event.Execution, e *event.Event) []*event.Event {
	out := ProgramOrder{}.Cover(exec, e)
	if e.Source == nil {
		return out
	}
	if src := exec.Resolve(e.Source); src != nil && src.ThreadID != event.InitThreadID {
		out = append(out, src)
	}
	return out
}

package event

import "github.com/go-lincheck/lincheck/label"

// InitThreadID is the sentinel thread id of the virtual Initialization
// event. No real thread may use it.
const InitThreadID = -1

// Execution is an immutable (once built) mapping threadId -> ordered
// sequence of events.
type Execution struct {
	threads  map[int][]*Event
	order    []int
	initEv   *Event
	aggCache map[[2]int]aggEntry
}

type aggEntry struct {
	label   label.Label
	members []*Event
}

func newExecution(init *Event) *Execution {
	return &Execution{
		threads:  make(map[int][]*Event),
		initEv:   init,
		aggCache: make(map[[2]int]aggEntry),
	}
}

// Threads returns the thread ids that appended at least one event, in the
// order they first appeared.
func (e *Execution) Threads() []int {
	out := make([]int, len(e.order))
	copy(out, e.order)
	return out
}

// Size returns the number of events recorded for thread tid.
func (e *Execution) Size(tid int) int {
	return len(e.threads[tid])
}

// Get returns the event at (tid, pos), or nil if out of range.
func (e *Execution) Get(tid, pos int) *Event {
	evs := e.threads[tid]
	if pos < 0 || pos >= len(evs) {
		return nil
	}
	return evs[pos]
}

// Initialization returns the virtual root event every execution carries.
func (e *Execution) Initialization() *Event {
	return e.initEv
}

// Resolve follows an event's Source reference back to the concrete event,
// or to the Initialization event when Source names InitThreadID.
func (e *Execution) Resolve(ref *Ref) *Event {
	if ref == nil {
		return nil
	}
	if ref.ThreadID == InitThreadID {
		return e.initEv
	}
	return e.Get(ref.ThreadID, ref.Position)
}

// GetAggregatedLabel returns the largest prefix starting at position that
// aggregates into a single total label, together with the component
// events, per the aggregation-alignment invariant: every thread's sequence
// partitions into maximal aggregates, and the checker advances a thread's
// counter in aggregate-sized steps. Results are memoized per (tid, pos).
func (e *Execution) GetAggregatedLabel(tid, pos int) (label.Label, []*Event, bool) {
	evs := e.threads[tid]
	if pos < 0 || pos >= len(evs) {
		return nil, nil, false
	}
	key := [2]int{tid, pos}
	if cached, ok := e.aggCache[key]; ok {
		return cached.label, cached.members, true
	}

	current := evs[pos].Label
	members := []*Event{evs[pos]}
	idx := pos + 1
	for idx < len(evs) {
		agg, err := label.Aggregate(current, evs[idx].Label)
		if err != nil || agg == nil {
			break
		}
		current = agg
		members = append(members, evs[idx])
		idx++
	}
	e.aggCache[key] = aggEntry{label: current, members: members}
	return current, members, true
}

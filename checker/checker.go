// Package checker implements the sequential-consistency replay checker: a
// depth-first search over execution interleavings deciding whether some
// total order respects program order, the covering, and the read-from
// relation realized against a memory tracker.
package checker

import (
	"sort"

	"github.com/go-lincheck/lincheck/covering"
	"github.com/go-lincheck/lincheck/event"
	"github.com/go-lincheck/lincheck/memory"
)

// Checker decides sequential consistency for a fixed covering. It is
// single-threaded and synchronous: Check performs an in-process DFS with
// no parallelism or cancellation. Callers may run distinct Checkers
// concurrently across distinct Executions, but must not share one Checker
// across goroutines.
type Checker struct {
	covering covering.Covering
}

// New returns a checker that gates replay with cov.
func New(cov covering.Covering) *Checker {
	return &Checker{covering: cov}
}

// Check decides whether exec admits a total order. It returns nil when
// exec is sequentially consistent, or a *SequentialConsistencyViolation
// describing how far the search got otherwise. The search is deterministic:
// threads are tried in ascending thread id order, and branching explores
// every thread's next move from each state.
func (c *Checker) Check(exec *event.Execution) *SequentialConsistencyViolation {
	threads := exec.Threads()
	sort.Ints(threads)
	initial := state{counters: make(map[int]int, len(threads)), mem: memory.New()}
	for _, t := range threads {
		initial.counters[t] = 0
	}

	visited := newVisitedSet()
	deepest := initial.counters

	if c.search(exec, threads, initial, visited, &deepest) {
		return nil
	}
	return &SequentialConsistencyViolation{DeepestCounters: deepest}
}

func (c *Checker) search(exec *event.Execution, threads []int, st state, visited *visitedSet, deepest *map[int]int) bool {
	if st.terminal(exec, threads) {
		return true
	}

	key := st.key(threads)
	if visited.Has(key) {
		return false
	}
	visited.Add(key)

	if st.deeperThan(*deepest, threads) {
		*deepest = cloneCounters(st.counters)
	}

	for _, t := range threads {
		agg, members, ok := exec.GetAggregatedLabel(t, st.counters[t])
		if !ok {
			continue
		}
		if !c.coverable(exec, members, st.counters) {
			continue
		}
		nextMem, ok := st.mem.Replay(agg)
		if !ok {
			continue
		}
		next := st.advance(t, len(members), nextMem)
		if c.search(exec, threads, next, visited, deepest) {
			return true
		}
	}
	return false
}

// coverable reports whether every dependency of every member event has
// already been replayed under counters or is itself a member of the same
// aggregate, which is replayed together with it as one step.
func (c *Checker) coverable(exec *event.Execution, members []*event.Event, counters map[int]int) bool {
	for _, m := range members {
		for _, dep := range c.covering.Cover(exec, m) {
			if dep.ThreadPosition < counters[dep.ThreadID] || isMember(dep, members) {
				continue
			}
			return false
		}
	}
	return true
}

func isMember(e *event.Event, members []*event.Event) bool {
	for _, m := range members {
		if m == e {
			return true
		}
	}
	return false
}

// SequentialConsistencyViolation reports that no total order was found. It
// carries the per-thread counters of the deepest state reached along any
// explored branch, to help a caller see how far the search got.
type SequentialConsistencyViolation struct {
	DeepestCounters map[int]int
}

func (v *SequentialConsistencyViolation) Error() string {
	return "sequential consistency violation: no total order reconciles this execution"
}

type state struct {
	counters map[int]int
	mem      *memory.Tracker
}

func (s state) terminal(exec *event.Execution, threads []int) bool {
	for _, t := range threads {
		if s.counters[t] != exec.Size(t) {
			return false
		}
	}
	return true
}

func (s state) advance(t, delta int, mem *memory.Tracker) state {
	next := cloneCounters(s.counters)
	next[t] += delta
	return state{counters: next, mem: mem}
}

func (s state) deeperThan(other map[int]int, threads []int) bool {
	total, otherTotal := 0, 0
	for _, t := range threads {
		total += s.counters[t]
		otherTotal += other[t]
	}
	return total > otherTotal
}

func cloneCounters(c map[int]int) map[int]int {
	next := make(map[int]int, len(c))
	for k, v := range c {
		next[k] = v
	}
	return next
}

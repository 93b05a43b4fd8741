// Package memory implements the sequentially-consistent memory tracker: a
// single global mapping location -> current value, with no per-thread
// views and no reordering buffers.
package memory

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-lincheck/lincheck/label"
)

type cell struct {
	value   interface{}
	kClass  label.KClass
	written bool
}

// Tracker is a snapshot of memory after some prefix of a total order. It is
// a value type in spirit: callers clone it with Copy before branching
// rather than mutating a shared instance.
type Tracker struct {
	cells map[string]cell
}

// New returns an empty tracker: every location reads as its kClass default
// until written.
func New() *Tracker {
	return &Tracker{cells: make(map[string]cell)}
}

// ReadValue returns the value currently stored at loc, or kc's default if
// loc was never written. threadId is accepted for API symmetry with a
// future relaxed-memory tracker; sequential consistency never consults it.
func (t *Tracker) ReadValue(threadID int, loc string, kc label.KClass) interface{} {
	if c, ok := t.cells[loc]; ok {
		return c.value
	}
	return kc.Default()
}

// WriteValue stores v at loc.
func (t *Tracker) WriteValue(threadID int, loc string, v interface{}, kc label.KClass) {
	t.cells[loc] = cell{value: v, kClass: kc, written: true}
}

// CompareAndSet atomically installs new at loc iff the current value
// equals expected, returning whether it did.
func (t *Tracker) CompareAndSet(threadID int, loc string, expected, newValue interface{}, kc label.KClass) bool {
	current := t.ReadValue(threadID, loc, kc)
	if current != expected {
		return false
	}
	t.WriteValue(threadID, loc, newValue, kc)
	return true
}

// Copy returns a deep clone: writes on the clone never affect the
// original, the property the search relies on when branching.
func (t *Tracker) Copy() *Tracker {
	clone := make(map[string]cell, len(t.cells))
	for k, v := range t.cells {
		clone[k] = v
	}
	return &Tracker{cells: clone}
}

// Replay executes a single total label against a cloned tracker, per the
// checker-facing table: a read-total must observe the value already
// stored; a write always succeeds; a read-modify-write succeeds iff its
// recorded read value still matches, installing its write value; thread
// and initialization events are memory no-ops. Returns (nil, false) when
// the label contradicts memory.
func (t *Tracker) Replay(l label.Label) (*Tracker, bool) {
	switch a := l.(type) {
	case *label.ReadTotalLabel:
		if t.ReadValue(0, a.Location, a.KClass) != a.Value {
			return nil, false
		}
		return t, true

	case *label.WriteAccessLabel:
		next := t.Copy()
		next.WriteValue(0, a.Location, a.Value, a.KClass)
		return next, true

	case *label.ReadModifyWriteLabel:
		next := t.Copy()
		if !next.CompareAndSet(0, a.Read.Location, a.Read.Value, a.Write.Value, a.Read.KClass) {
			return nil, false
		}
		return next, true

	default:
		// ThreadFork/Start/Finish/Join, Lock/Unlock, Wait/Notify, and
		// Initialization never touch tracked memory.
		return t, true
	}
}

// Digest returns a deterministic string summarizing the tracker's content,
// the multiset of (location, value) pairs the checker folds into its
// visited-state key.
func (t *Tracker) Digest() string {
	locs := make([]string, 0, len(t.cells))
	for loc := range t.cells {
		locs = append(locs, loc)
	}
	sort.Strings(locs)
	var b strings.Builder
	for _, loc := range locs {
		c := t.cells[loc]
		fmt.Fprintf(&b, "%s=%v;", loc, c.value)
	}
	return b.String()
}

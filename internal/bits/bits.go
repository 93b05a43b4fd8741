// Package bits provides a small index-set helper backed by
// github.com/xojoc/bitset, the same dependency the teacher detectors use
// to mark nodes visited during a DFS-style reachability walk (e.g.
// variable.findRaces' `visited := &bitset.BitSet{}`). Here it marks
// visited-state indices during the sequential-consistency checker's DFS;
// the checker maps each state key to its index before testing the bit.
package bits

import "github.com/xojoc/bitset"

// Set is a growable set of non-negative indices.
type Set struct {
	bs bitset.BitSet
}

// Has reports whether i was previously added.
func (s *Set) Has(i int) bool {
	return s.bs.Get(i)
}

// Add marks i as present.
func (s *Set) Add(i int) {
	s.bs.Set(i)
}

package checker

import (
	"sort"
	"strconv"
	"strings"

	"github.com/go-lincheck/lincheck/internal/bits"
)

// key renders a state as a canonical string: per-thread counters in thread
// order, plus the memory digest, so two states reach the same key iff they
// are indistinguishable to the rest of the search.
func (s state) key(threads []int) string {
	ordered := make([]int, len(threads))
	copy(ordered, threads)
	sort.Ints(ordered)

	var b strings.Builder
	for _, t := range ordered {
		b.WriteString(strconv.Itoa(t))
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(s.counters[t]))
		b.WriteByte(',')
	}
	b.WriteByte('|')
	b.WriteString(s.mem.Digest())
	return b.String()
}

// visitedSet tracks which state keys the DFS has already expanded. It
// assigns each newly-seen key the next free bitset index, the same
// lazily-grown visited-bitset pattern the teacher's detectors use to avoid
// a map[string]bool membership test per node.
type visitedSet struct {
	index map[string]int
	bs    bits.Set
	next  int
}

func newVisitedSet() *visitedSet {
	return &visitedSet{index: make(map[string]int)}
}

func (v *visitedSet) Has(key string) bool {
	idx, ok := v.index[key]
	if !ok {
		return false
	}
	return v.bs.Has(idx)
}

func (v *visitedSet) Add(key string) {
	if _, ok := v.index[key]; ok {
		return
	}
	idx := v.next
	v.next++
	v.index[key] = idx
	v.bs.Add(idx)
}

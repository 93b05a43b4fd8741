// Package report formats checker verdicts for a terminal, the way the
// teacher's race reporter colors race reports by severity.
package report

import (
	"fmt"
	"strings"
	"sync"

	"github.com/fatih/color"

	"github.com/go-lincheck/lincheck/checker"
	"github.com/go-lincheck/lincheck/event"
)

// Level names how seriously a reported violation should be taken.
type Level int

const (
	Severe Level = iota
	Normal
	Low
)

var messageCache = make(map[string]struct{})
var cacheMu sync.Mutex

// TestFunc, when set, is called instead of writing to the terminal. Tests
// substitute it to assert on reported violations without capturing stdout.
var TestFunc func(summary string, level Level)

// Reset clears the dedup cache, for tests that report across independent
// executions and don't want an earlier run's cache entries to suppress
// output.
func Reset() {
	cacheMu.Lock()
	defer cacheMu.Unlock()
	messageCache = make(map[string]struct{})
}

// Violation prints exec's sequential-consistency violation at the given
// severity, once per distinct deepest-state signature.
func Violation(exec *event.Execution, v *checker.SequentialConsistencyViolation, level Level) {
	if v == nil {
		return
	}
	summary := summarize(exec, v)

	cacheMu.Lock()
	_, seen := messageCache[summary]
	if !seen {
		messageCache[summary] = struct{}{}
	}
	cacheMu.Unlock()
	if seen {
		return
	}

	if TestFunc != nil {
		TestFunc(summary, level)
		return
	}

	switch level {
	case Severe:
		color.HiRed("\n%s\n", summary)
	case Normal:
		color.HiBlue("\n%s\n", summary)
	case Low:
		color.HiGreen("\n%s\n", summary)
	}
}

func summarize(exec *event.Execution, v *checker.SequentialConsistencyViolation) string {
	var b strings.Builder
	b.WriteString("sequential consistency violation: no total order reconciles this execution\n")
	b.WriteString("deepest reached state:\n")
	for _, tid := range exec.Threads() {
		fmt.Fprintf(&b, "  thread %d: %d/%d events replayed\n", tid, v.DeepestCounters[tid], exec.Size(tid))
	}
	return b.String()
}

// Package trace loads a flat textual execution trace and drives an
// event.ExecutionBuilder, the way the teacher's parser.ParseJTracev2 scans
// a comma-separated line format into util.Item values. It is a convenience
// loader for the CLI and for tests fed by a trace file; the builder and
// checker are unaware it exists.
package trace

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-lincheck/lincheck/event"
	"github.com/go-lincheck/lincheck/label"
)

// Load reads a trace from r and builds an Execution. Each line is
// "threadID,kind,args...", blank lines and lines starting with '#' are
// skipped. Recognized kinds:
//
//	START,isMain
//	FINISH
//	FORK,targetThreadID
//	JOIN,targetThreadID
//	WRITE,location,value,kClass
//	READREQ,location,kClass,exclusive
//	READRSP,location,value
//	LOCK,mutex
//	UNLOCK,mutex
//
// A thread's events are grouped by appearance order; Load opens, appends,
// and closes each thread's section as it first sees and then exhausts
// that thread's contiguous run of lines, reopening a thread's section
// (via ExecutionBuilder.BeginThread) if its lines recur later in the file.
func Load(r io.Reader) (*event.Execution, error) {
	b := event.NewExecutionBuilder()
	sources := newSourceTable(b)

	scanner := bufio.NewScanner(r)
	lineNo := 0
	openThread := -1
	pendingReq := make(map[int]*event.Event)

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, ",")
		if len(fields) < 2 {
			return nil, fmt.Errorf("trace: line %d: expected at least threadID,kind", lineNo)
		}
		tid, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("trace: line %d: bad thread id %q: %w", lineNo, fields[0], err)
		}

		if tid != openThread {
			if openThread != -1 {
				if err := b.EndThread(); err != nil {
					return nil, fmt.Errorf("trace: line %d: %w", lineNo, err)
				}
			}
			if err := b.BeginThread(tid); err != nil {
				return nil, fmt.Errorf("trace: line %d: %w", lineNo, err)
			}
			openThread = tid
		}

		if err := applyLine(b, sources, pendingReq, tid, fields[1], fields[2:]); err != nil {
			return nil, fmt.Errorf("trace: line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("trace: scan: %w", err)
	}
	if openThread != -1 {
		if err := b.EndThread(); err != nil {
			return nil, err
		}
	}

	return b.Build()
}

func applyLine(b *event.ExecutionBuilder, sources *sourceTable, pendingReq map[int]*event.Event, tid int, kind string, args []string) error {
	switch kind {
	case "START":
		isMain, err := strconv.ParseBool(arg(args, 0, "false"))
		if err != nil {
			return err
		}
		_, err = b.AppendResponse(label.NewThreadStartResponse(tid, isMain), sources.startSource(tid))
		return err

	case "FINISH":
		ev, err := b.AppendSend(label.NewThreadFinish(tid))
		if err != nil {
			return err
		}
		sources.recordFinish(tid, ev)
		return nil

	case "FORK":
		target, err := strconv.Atoi(arg(args, 0, ""))
		if err != nil {
			return err
		}
		ev, err := b.AppendSend(label.NewThreadFork(target))
		if err != nil {
			return err
		}
		sources.recordFork(target, ev)
		return nil

	case "JOIN":
		target, err := strconv.Atoi(arg(args, 0, ""))
		if err != nil {
			return err
		}
		if _, err := b.AppendRequest(label.NewThreadJoinRequest(target)); err != nil {
			return err
		}
		src := sources.finishSource(target)
		_, err = b.AppendResponse(label.NewThreadJoinResponse(), src)
		return err

	case "WRITE":
		loc := arg(args, 0, "")
		value, err := strconv.Atoi(arg(args, 1, "0"))
		if err != nil {
			return err
		}
		kc := parseKClass(arg(args, 2, "int"))
		ev, err := b.AppendSend(label.NewWrite(loc, value, kc, false))
		if err != nil {
			return err
		}
		sources.recordWrite(loc, ev)
		return nil

	case "READREQ":
		loc := arg(args, 0, "")
		kc := parseKClass(arg(args, 1, "int"))
		exclusive, _ := strconv.ParseBool(arg(args, 2, "false"))
		ev, err := b.AppendRequest(label.NewReadRequest(loc, kc, exclusive))
		if err != nil {
			return err
		}
		pendingReq[tid] = ev
		return nil

	case "READRSP":
		loc := arg(args, 0, "")
		value, err := strconv.Atoi(arg(args, 1, "0"))
		if err != nil {
			return err
		}
		req, ok := pendingReq[tid]
		if !ok {
			return fmt.Errorf("READRSP on thread %d with no pending READREQ", tid)
		}
		reqLabel, _ := req.Label.(*label.ReadAccessLabel)
		src := sources.writeSource(loc)
		_, err = b.AppendResponse(label.NewReadResponse(loc, value, reqLabel.KClass, reqLabel.Exclusive), src)
		delete(pendingReq, tid)
		return err

	case "LOCK":
		mutex := arg(args, 0, "")
		if _, err := b.AppendRequest(label.NewLockRequest(mutex, 1, 0)); err != nil {
			return err
		}
		_, err := b.AppendResponse(label.NewLockResponse(mutex, 1, 0), sources.lockSource(mutex))
		return err

	case "UNLOCK":
		mutex := arg(args, 0, "")
		ev, err := b.AppendSend(label.NewUnlock(mutex, 1, 0))
		if err != nil {
			return err
		}
		sources.recordUnlock(mutex, ev)
		return nil
	}
	return fmt.Errorf("unrecognized kind %q", kind)
}

func arg(args []string, i int, def string) string {
	if i < len(args) {
		return strings.TrimSpace(args[i])
	}
	return def
}

func parseKClass(s string) label.KClass {
	switch s {
	case "bool":
		return label.KClassBool
	case "string":
		return label.KClassString
	case "object":
		return label.KClassObject
	default:
		return label.KClassInt
	}
}

// sourceTable tracks the last event each pending synchronization partner
// should source its response from: the fork awaiting a matching start, the
// finish awaiting a matching join, the latest write to a location, and the
// latest unlock of a mutex (Initialization stands in when there is none).
type sourceTable struct {
	b       *event.ExecutionBuilder
	forks   map[int]*event.Event
	finish  map[int]*event.Event
	writes  map[string]*event.Event
	holders map[string]*event.Event
}

func newSourceTable(b *event.ExecutionBuilder) *sourceTable {
	return &sourceTable{
		b:       b,
		forks:   make(map[int]*event.Event),
		finish:  make(map[int]*event.Event),
		writes:  make(map[string]*event.Event),
		holders: make(map[string]*event.Event),
	}
}

func (s *sourceTable) recordFinish(tid int, ev *event.Event) {
	s.finish[tid] = ev
}

func (s *sourceTable) startSource(tid int) *event.Event {
	if ev, ok := s.forks[tid]; ok {
		return ev
	}
	return s.b.Init()
}

func (s *sourceTable) recordFork(target int, ev *event.Event) {
	s.forks[target] = ev
}

func (s *sourceTable) finishSource(target int) *event.Event {
	return s.finish[target]
}

func (s *sourceTable) recordWrite(loc string, ev *event.Event) {
	s.writes[loc] = ev
}

func (s *sourceTable) writeSource(loc string) *event.Event {
	if ev, ok := s.writes[loc]; ok {
		return ev
	}
	return s.b.Init()
}

func (s *sourceTable) lockSource(mutex string) *event.Event {
	if ev, ok := s.holders[mutex]; ok {
		return ev
	}
	return s.b.Init()
}

func (s *sourceTable) recordUnlock(mutex string, ev *event.Event) {
	s.holders[mutex] = ev
}

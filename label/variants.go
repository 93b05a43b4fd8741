package label

import (
	"fmt"
	"sort"
	"strings"
)

// EmptyLabel is the neutral element of synchronization: L ⊕ Empty = L.
type EmptyLabel struct{ base }

func NewEmpty() *EmptyLabel {
	return &EmptyLabel{base{kind: Send, syncType: Binary}}
}

func (l *EmptyLabel) String() string { return "Empty" }

// InitializationLabel is the virtual root of every execution. It supplies
// default values for first reads and starts the main thread.
type InitializationLabel struct{ base }

func NewInitialization() *InitializationLabel {
	return &InitializationLabel{base{kind: Send, syncType: Binary}}
}

func (l *InitializationLabel) String() string { return "Initialization" }

// ThreadForkLabel is emitted by Thread.start; it synchronizes with the
// ThreadStart request of any thread id in its scope.
type ThreadForkLabel struct {
	base
	ForkThreadIDs map[int]struct{}
}

func NewThreadFork(ids ...int) *ThreadForkLabel {
	return &ThreadForkLabel{base{kind: Send, syncType: Binary}, toSet(ids)}
}

func (l *ThreadForkLabel) String() string {
	return fmt.Sprintf("ThreadFork%s", formatSet(l.ForkThreadIDs))
}

// ThreadStartLabel models both the request a new thread issues on entry and
// the response that confirms it was forked (or, for the main thread,
// initialized).
type ThreadStartLabel struct {
	base
	ThreadID     int
	IsMainThread bool
}

func NewThreadStartRequest(tid int, isMain bool) *ThreadStartLabel {
	return &ThreadStartLabel{base{kind: Request, syncType: Binary}, tid, isMain}
}

func NewThreadStartResponse(tid int, isMain bool) *ThreadStartLabel {
	return &ThreadStartLabel{base{kind: Response, syncType: Binary}, tid, isMain}
}

func (l *ThreadStartLabel) String() string {
	return fmt.Sprintf("ThreadStart^%s{%d,main=%v}", l.Kind(), l.ThreadID, l.IsMainThread)
}

// ThreadStartTotalLabel is the aggregate of a ThreadStart request+response
// pair, viewed by the checker as a single atomic step.
type ThreadStartTotalLabel struct {
	base
	ThreadID     int
	IsMainThread bool
}

func (l *ThreadStartTotalLabel) String() string {
	return fmt.Sprintf("ThreadStart^total{%d,main=%v}", l.ThreadID, l.IsMainThread)
}

// ThreadFinishLabel is emitted on thread exit. It is a barrier: several
// finishing threads in the same scope aggregate into one label carrying the
// union of finished ids.
type ThreadFinishLabel struct {
	base
	FinishedThreadIDs map[int]struct{}
}

func NewThreadFinish(ids ...int) *ThreadFinishLabel {
	return &ThreadFinishLabel{base{kind: Send, syncType: Barrier, blocking: true}, toSet(ids)}
}

func (l *ThreadFinishLabel) String() string {
	return fmt.Sprintf("ThreadFinish%s", formatSet(l.FinishedThreadIDs))
}

// ThreadJoinLabel models Thread.join's request/response split. It unblocks
// once every id it waits on has appeared in a matched ThreadFinish.
type ThreadJoinLabel struct {
	base
	JoinThreadIDs map[int]struct{}
}

func NewThreadJoinRequest(ids ...int) *ThreadJoinLabel {
	s := toSet(ids)
	return &ThreadJoinLabel{base{kind: Request, syncType: Barrier, blocking: true, unblocked: len(s) == 0}, s}
}

func NewThreadJoinResponse(ids ...int) *ThreadJoinLabel {
	s := toSet(ids)
	return &ThreadJoinLabel{base{kind: Response, syncType: Barrier, blocking: true, unblocked: len(s) == 0}, s}
}

func (l *ThreadJoinLabel) String() string {
	return fmt.Sprintf("ThreadJoin^%s%s", l.Kind(), formatSet(l.JoinThreadIDs))
}

// ThreadJoinTotalLabel is the aggregate of a join request with its fully
// satisfied (empty remaining set) response.
type ThreadJoinTotalLabel struct {
	base
	JoinThreadIDs map[int]struct{}
}

func (l *ThreadJoinTotalLabel) String() string {
	return fmt.Sprintf("ThreadJoin^total%s", formatSet(l.JoinThreadIDs))
}

// ReadAccessLabel models a field read's request (value unset) and response
// (value supplied by the synchronizing write or Initialization).
type ReadAccessLabel struct {
	base
	Location  string
	Value     interface{}
	KClass    KClass
	Exclusive bool
}

func NewReadRequest(location string, kc KClass, exclusive bool) *ReadAccessLabel {
	return &ReadAccessLabel{base{kind: Request, syncType: Binary}, location, nil, kc, exclusive}
}

func NewReadResponse(location string, value interface{}, kc KClass, exclusive bool) *ReadAccessLabel {
	return &ReadAccessLabel{base{kind: Response, syncType: Binary}, location, value, kc, exclusive}
}

func (l *ReadAccessLabel) String() string {
	return fmt.Sprintf("Read^%s{%s,%v,%s,ex=%v}", l.Kind(), l.Location, l.Value, l.KClass, l.Exclusive)
}

func (l *ReadAccessLabel) shapeEqual(o *ReadAccessLabel) bool {
	return l.Kind() == o.Kind() && l.KClass == o.KClass && l.Exclusive == o.Exclusive
}

// ReadTotalLabel is the aggregate of a read request with its response.
type ReadTotalLabel struct {
	base
	Location  string
	Value     interface{}
	KClass    KClass
	Exclusive bool
}

func (l *ReadTotalLabel) String() string {
	return fmt.Sprintf("Read^total{%s,%v,%s,ex=%v}", l.Location, l.Value, l.KClass, l.Exclusive)
}

// WriteAccessLabel models a field write, always a Send.
type WriteAccessLabel struct {
	base
	Location  string
	Value     interface{}
	KClass    KClass
	Exclusive bool
}

func NewWrite(location string, value interface{}, kc KClass, exclusive bool) *WriteAccessLabel {
	return &WriteAccessLabel{base{kind: Send, syncType: Binary}, location, value, kc, exclusive}
}

func (l *WriteAccessLabel) String() string {
	return fmt.Sprintf("Write{%s,%v,%s,ex=%v}", l.Location, l.Value, l.KClass, l.Exclusive)
}

// ReadModifyWriteLabel is the aggregate of an exclusive read-total and the
// exclusive write by the same thread on the same location that follows it -
// the model of CAS and similar atomic primitives.
type ReadModifyWriteLabel struct {
	base
	Read  *ReadTotalLabel
	Write *WriteAccessLabel
}

func (l *ReadModifyWriteLabel) String() string {
	return fmt.Sprintf("ReadModifyWrite{%v -> %v}", l.Read, l.Write)
}

// LockLabel models monitorenter's request (attempt) and response (granted).
// IsAcquiring reports whether this call actually takes the lock, as opposed
// to a reentrant call that only bumps the hold count.
type LockLabel struct {
	base
	Mutex           string
	ReentranceDepth int
	ReentranceCount int
}

func NewLockRequest(mutex string, depth, count int) *LockLabel {
	return &LockLabel{base{kind: Request, syncType: Binary, blocking: true}, mutex, depth, count}
}

func NewLockResponse(mutex string, depth, count int) *LockLabel {
	return &LockLabel{base{kind: Response, syncType: Binary, blocking: true}, mutex, depth, count}
}

func (l *LockLabel) IsAcquiring() bool { return l.ReentranceCount == 0 }

func (l *LockLabel) String() string {
	return fmt.Sprintf("Lock^%s{%s,%d/%d}", l.Kind(), l.Mutex, l.ReentranceDepth, l.ReentranceCount)
}

// UnlockLabel models monitorexit, always a Send. IsReleasing reports
// whether this call actually drops the lock, as opposed to a reentrant
// unwind that only decrements the hold count.
type UnlockLabel struct {
	base
	Mutex           string
	ReentranceDepth int
	ReentranceCount int
}

func NewUnlock(mutex string, depth, count int) *UnlockLabel {
	return &UnlockLabel{base{kind: Send, syncType: Binary}, mutex, depth, count}
}

func (l *UnlockLabel) IsReleasing() bool { return l.ReentranceCount == 0 }

func (l *UnlockLabel) String() string {
	return fmt.Sprintf("Unlock{%s,%d/%d}", l.Mutex, l.ReentranceDepth, l.ReentranceCount)
}

// WaitLabel models Object.wait's request/response split.
type WaitLabel struct {
	base
	Mutex string
}

func NewWaitRequest(mutex string) *WaitLabel {
	return &WaitLabel{base{kind: Request, syncType: Binary, blocking: true}, mutex}
}

func NewWaitResponse(mutex string) *WaitLabel {
	return &WaitLabel{base{kind: Response, syncType: Binary, blocking: true}, mutex}
}

func (l *WaitLabel) String() string {
	return fmt.Sprintf("Wait^%s{%s}", l.Kind(), l.Mutex)
}

// NotifyLabel models Object.notify/notifyAll, always a Send.
type NotifyLabel struct {
	base
	Mutex     string
	Broadcast bool
}

func NewNotify(mutex string, broadcast bool) *NotifyLabel {
	return &NotifyLabel{base{kind: Send, syncType: Binary}, mutex, broadcast}
}

func (l *NotifyLabel) String() string {
	return fmt.Sprintf("Notify{%s,broadcast=%v}", l.Mutex, l.Broadcast)
}

func toSet(ids []int) map[int]struct{} {
	s := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func subset(a, b map[int]struct{}) bool {
	for id := range a {
		if _, ok := b[id]; !ok {
			return false
		}
	}
	return true
}

func union(a, b map[int]struct{}) map[int]struct{} {
	out := make(map[int]struct{}, len(a)+len(b))
	for id := range a {
		out[id] = struct{}{}
	}
	for id := range b {
		out[id] = struct{}{}
	}
	return out
}

func difference(a, b map[int]struct{}) map[int]struct{} {
	out := make(map[int]struct{})
	for id := range a {
		if _, ok := b[id]; !ok {
			out[id] = struct{}{}
		}
	}
	return out
}

func formatSet(s map[int]struct{}) string {
	ids := make([]int, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return "{" + strings.Join(parts, ",") + "}"
}

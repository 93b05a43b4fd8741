package label

import "fmt"

// EqualUpToReplay reports whether this and other share the shape Replay
// requires: same concrete variant, same access kind, same kClass and same
// exclusivity - everything except the mutable identity fields (location,
// value, mutex) that Replay rewrites, which are not compared.
func EqualUpToReplay(this, other Label) bool {
	switch a := this.(type) {
	case *ReadAccessLabel:
		b, ok := other.(*ReadAccessLabel)
		return ok && a.shapeEqual(b)
	case *WriteAccessLabel:
		b, ok := other.(*WriteAccessLabel)
		return ok && a.KClass == b.KClass && a.Exclusive == b.Exclusive
	case *LockLabel:
		b, ok := other.(*LockLabel)
		return ok && a.Kind() == b.Kind()
	case *UnlockLabel:
		_, ok := other.(*UnlockLabel)
		return ok
	case *WaitLabel:
		b, ok := other.(*WaitLabel)
		return ok && a.Kind() == b.Kind()
	case *NotifyLabel:
		b, ok := other.(*NotifyLabel)
		return ok && a.Broadcast == b.Broadcast
	default:
		return fmt.Sprintf("%T", this) == fmt.Sprintf("%T", other)
	}
}

// MatchesRequest reports whether response is a structurally valid response
// to request: same concrete variant and the same fixed (non-mutable) fields,
// ignoring Kind - a request is always Request and its response is always
// Response, so comparing Kind here would reject every legitimate pair. This
// is distinct from EqualUpToReplay, which compares two same-role labels
// (both requests, or both responses) across separate runs; MatchesRequest
// compares a request against its own response within one execution.
func MatchesRequest(request, response Label) bool {
	switch a := request.(type) {
	case *ReadAccessLabel:
		b, ok := response.(*ReadAccessLabel)
		return ok && a.KClass == b.KClass && a.Exclusive == b.Exclusive
	case *WriteAccessLabel:
		b, ok := response.(*WriteAccessLabel)
		return ok && a.KClass == b.KClass && a.Exclusive == b.Exclusive
	case *LockLabel:
		_, ok := response.(*LockLabel)
		return ok
	case *UnlockLabel:
		_, ok := response.(*UnlockLabel)
		return ok
	case *WaitLabel:
		_, ok := response.(*WaitLabel)
		return ok
	case *NotifyLabel:
		b, ok := response.(*NotifyLabel)
		return ok && a.Broadcast == b.Broadcast
	default:
		return fmt.Sprintf("%T", request) == fmt.Sprintf("%T", response)
	}
}

// Replay rewrites the mutable fields of this (location, value, mutex
// identity) from other when their shapes match, returning the rewritten
// label. It returns (nil, false), never panicking, when the shapes differ -
// object identities and memory addresses differ across runs while an
// event's shape is stable, so this never shares label instances across
// events; it always returns a fresh one.
func Replay(this, other Label) (Label, bool) {
	switch a := this.(type) {
	case *ReadAccessLabel:
		b, ok := other.(*ReadAccessLabel)
		if !ok || !a.shapeEqual(b) {
			return nil, false
		}
		return &ReadAccessLabel{a.base, b.Location, b.Value, a.KClass, a.Exclusive}, true

	case *WriteAccessLabel:
		b, ok := other.(*WriteAccessLabel)
		if !ok || a.KClass != b.KClass || a.Exclusive != b.Exclusive {
			return nil, false
		}
		return &WriteAccessLabel{a.base, b.Location, b.Value, a.KClass, a.Exclusive}, true

	case *LockLabel:
		b, ok := other.(*LockLabel)
		if !ok || a.Kind() != b.Kind() {
			return nil, false
		}
		return &LockLabel{a.base, b.Mutex, a.ReentranceDepth, a.ReentranceCount}, true

	case *UnlockLabel:
		b, ok := other.(*UnlockLabel)
		if !ok {
			return nil, false
		}
		return &UnlockLabel{a.base, b.Mutex, a.ReentranceDepth, a.ReentranceCount}, true

	case *WaitLabel:
		b, ok := other.(*WaitLabel)
		if !ok || a.Kind() != b.Kind() {
			return nil, false
		}
		return &WaitLabel{a.base, b.Mutex}, true

	case *NotifyLabel:
		b, ok := other.(*NotifyLabel)
		if !ok || a.Broadcast != b.Broadcast {
			return nil, false
		}
		return &NotifyLabel{a.base, b.Mutex, a.Broadcast}, true

	default:
		if EqualUpToReplay(this, other) {
			return this, true
		}
		return nil, false
	}
}

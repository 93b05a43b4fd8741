package label

// RelaxationPolicy threads through SynchronizedFrom the degree to which
// location equality is relaxed. Strict requires exact location equality;
// Relaxed weakens it, the way the original checker's relaxedCheck flag does
// during partial replay when object addresses differ across runs. Modeled
// as a value rather than a bare bool so the checker can name and extend the
// relaxation it applies instead of threading an unexplained boolean.
type RelaxationPolicy struct {
	RelaxLocationEquality bool
}

var (
	Strict  = RelaxationPolicy{}
	Relaxed = RelaxationPolicy{RelaxLocationEquality: true}
)

// SynchronizedFrom is the symmetric predicate validating that this is a
// legal result of synchronizing with other: it holds whenever there exists
// some X with Synchronize(other, X) == this. Consistent with Synchronize:
// if Synchronize(other, X) = this for some X, then SynchronizedFrom(this,
// other, policy) holds for every policy. The checker uses this to validate
// candidate (response, source) pairs recorded by the execution builder.
func SynchronizedFrom(this, other Label, policy RelaxationPolicy) bool {
	switch b := other.(type) {
	case *ThreadForkLabel:
		r, ok := this.(*ThreadStartLabel)
		return ok && r.Kind() == Response

	case *InitializationLabel:
		switch r := this.(type) {
		case *ThreadStartLabel:
			return r.Kind() == Response
		case *ReadAccessLabel:
			return r.Kind() == Response
		case *LockLabel:
			return r.Kind() == Response
		}

	case *ThreadFinishLabel:
		switch r := this.(type) {
		case *ThreadFinishLabel:
			return r.Kind() == Send
		case *ThreadJoinLabel:
			return r.Kind() == Response
		}

	case *WriteAccessLabel:
		r, ok := this.(*ReadAccessLabel)
		if !ok || r.Kind() != Response {
			return false
		}
		if policy.RelaxLocationEquality {
			return true
		}
		return r.Location == b.Location

	case *UnlockLabel:
		r, ok := this.(*LockLabel)
		return ok && r.Kind() == Response

	case *NotifyLabel:
		r, ok := this.(*WaitLabel)
		return ok && r.Kind() == Response

	case *ThreadStartLabel:
		r, ok := this.(*ThreadStartLabel)
		return ok && b.Kind() == Request && r.Kind() == Response && r.ThreadID == b.ThreadID
	case *ThreadJoinLabel:
		r, ok := this.(*ThreadJoinLabel)
		return ok && b.Kind() == Request && r.Kind() == Response
	case *ReadAccessLabel:
		r, ok := this.(*ReadAccessLabel)
		return ok && b.Kind() == Request && r.Kind() == Response && (policy.RelaxLocationEquality || r.Location == b.Location)
	case *LockLabel:
		r, ok := this.(*LockLabel)
		return ok && b.Kind() == Request && r.Kind() == Response && r.Mutex == b.Mutex
	case *WaitLabel:
		r, ok := this.(*WaitLabel)
		return ok && b.Kind() == Request && r.Kind() == Response && r.Mutex == b.Mutex
	}
	return false
}

package label

// Synchronize produces the event resulting from two sub-events meeting, or
// ⊥ (nil, nil) when no rule applies. It is commutative by construction: it
// tries the rules with A first, then with B first. A structurally
// impossible combination returns a non-nil *BarrierRaceError instead of ⊥.
func Synchronize(a, b Label) (Label, error) {
	if r, err := synchronizeOrdered(a, b); r != nil || err != nil {
		return r, err
	}
	return synchronizeOrdered(b, a)
}

func synchronizeOrdered(a, b Label) (Label, error) {
	if _, ok := a.(*EmptyLabel); ok {
		return b, nil
	}
	if _, ok := b.(*EmptyLabel); ok {
		return a, nil
	}

	switch x := a.(type) {
	case *ThreadForkLabel:
		if y, ok := b.(*ThreadStartLabel); ok && y.Kind() == Request {
			if _, inScope := x.ForkThreadIDs[y.ThreadID]; inScope {
				return NewThreadStartResponse(y.ThreadID, y.IsMainThread), nil
			}
		}

	case *InitializationLabel:
		switch y := b.(type) {
		case *ThreadStartLabel:
			if y.Kind() == Request && y.IsMainThread {
				return NewThreadStartResponse(y.ThreadID, true), nil
			}
		case *ReadAccessLabel:
			if y.Kind() == Request {
				return NewReadResponse(y.Location, y.KClass.Default(), y.KClass, y.Exclusive), nil
			}
		case *LockLabel:
			if y.Kind() == Request {
				return NewLockResponse(y.Mutex, y.ReentranceDepth, y.ReentranceCount), nil
			}
		}

	case *ThreadFinishLabel:
		switch y := b.(type) {
		case *ThreadFinishLabel:
			for id := range y.FinishedThreadIDs {
				if _, dup := x.FinishedThreadIDs[id]; dup {
					return nil, barrierRace("thread %d finished more than once", id)
				}
			}
			return &ThreadFinishLabel{
				base{kind: Send, syncType: Barrier, blocking: true},
				union(x.FinishedThreadIDs, y.FinishedThreadIDs),
			}, nil
		case *ThreadJoinLabel:
			if y.Kind() == Request && subset(x.FinishedThreadIDs, y.JoinThreadIDs) {
				remaining := difference(y.JoinThreadIDs, x.FinishedThreadIDs)
				return &ThreadJoinLabel{
					base{kind: Response, syncType: Barrier, blocking: true, unblocked: len(remaining) == 0},
					remaining,
				}, nil
			}
		}

	case *WriteAccessLabel:
		if y, ok := b.(*ReadAccessLabel); ok && y.Kind() == Request && y.Location == x.Location {
			return NewReadResponse(x.Location, x.Value, x.KClass, y.Exclusive), nil
		}

	case *UnlockLabel:
		if y, ok := b.(*LockLabel); ok && x.IsReleasing() && y.Kind() == Request && y.IsAcquiring() && y.Mutex == x.Mutex {
			return NewLockResponse(x.Mutex, y.ReentranceDepth, y.ReentranceCount), nil
		}

	case *NotifyLabel:
		if y, ok := b.(*WaitLabel); ok && y.Kind() == Request && y.Mutex == x.Mutex {
			return NewWaitResponse(x.Mutex), nil
		}
	}
	return nil, nil
}

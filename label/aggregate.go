package label

// Aggregate fuses two adjacent same-thread events - first strictly before
// second in thread order - into a single total label the checker treats as
// one atomic step, or ⊥ (nil, nil) if the pair does not aggregate.
// Aggregation is lossless: the result exposes every observable value
// (location, value, mutex) the pair carried.
func Aggregate(first, second Label) (Label, error) {
	switch a := first.(type) {
	case *ReadAccessLabel:
		if a.Kind() != Request {
			return nil, nil
		}
		if b, ok := second.(*ReadAccessLabel); ok && b.Kind() == Response && b.Location == a.Location {
			return &ReadTotalLabel{base{kind: Send, syncType: Binary}, b.Location, b.Value, b.KClass, b.Exclusive}, nil
		}

	case *ReadTotalLabel:
		if !a.Exclusive {
			return nil, nil
		}
		if b, ok := second.(*WriteAccessLabel); ok && b.Exclusive && b.Location == a.Location {
			return &ReadModifyWriteLabel{base{kind: Send, syncType: Binary}, a, b}, nil
		}

	case *ThreadStartLabel:
		if a.Kind() != Request {
			return nil, nil
		}
		if b, ok := second.(*ThreadStartLabel); ok && b.Kind() == Response && b.ThreadID == a.ThreadID {
			return &ThreadStartTotalLabel{base{kind: Send, syncType: Binary}, b.ThreadID, b.IsMainThread}, nil
		}

	case *ThreadJoinLabel:
		if a.Kind() != Request {
			return nil, nil
		}
		if b, ok := second.(*ThreadJoinLabel); ok && b.Kind() == Response && len(b.JoinThreadIDs) == 0 {
			return &ThreadJoinTotalLabel{base{kind: Send, syncType: Barrier}, map[int]struct{}{}}, nil
		}
	}
	return nil, nil
}

package steptrace

// Period is one constant-value interval [T0, T1) yielded by IterPeriods:
// the step function equals V for every t with T0 <= t < T1.
type Period[T any, V any] struct {
	T0, T1 T
	V      V
}

// IterPeriods walks every constant-value period intersecting [start, end),
// clipping the first and last periods to start/end, and calls yield for
// each. A nil start defaults to the series' first key; a nil end defaults
// to its last key. Iteration stops early if yield returns false.
//
// Builds the list of stored keys strictly between start and end, pairs
// each with its successor, and skips the degenerate (T0 == T1) period
// produced when start == end.
func (ts *TimeSeries[T, V]) IterPeriods(start, end *T, yield func(Period[T, V]) bool) error {
	if ts.data.Len() == 0 && start == nil && end == nil {
		return nil
	}
	var s, e T
	switch {
	case start != nil:
		s = *start
	default:
		k, ok := ts.FirstKey()
		if !ok {
			return ErrUndefinedWindow
		}
		s = k
	}
	switch {
	case end != nil:
		e = *end
	default:
		k, ok := ts.LastKey()
		if !ok {
			return ErrUndefinedWindow
		}
		e = k
	}
	if ts.less(e, s) {
		return badArgument("start,end", "start must be <= end")
	}

	var breaks []T
	ts.data.IRange(s, e, false, false, func(t T, _ V) bool {
		breaks = append(breaks, t)
		return true
	})

	t0s := make([]T, 0, len(breaks)+1)
	t1s := make([]T, 0, len(breaks)+1)
	t0s = append(t0s, s)
	t0s = append(t0s, breaks...)
	t1s = append(t1s, breaks...)
	t1s = append(t1s, e)

	for i := range t0s {
		t0, t1 := t0s[i], t1s[i]
		if ts.equal(t0, t1) {
			continue
		}
		v := ts.getPrevious(t0)
		if !yield(Period[T, V]{T0: t0, T1: t1, V: v}) {
			return nil
		}
	}
	return nil
}

// IterPeriodsFilter is IterPeriods restricted to the periods filter
// accepts: filter is consulted for every period IterPeriods would have
// emitted, and a period it rejects is simply skipped rather than ending
// the walk the way yield returning false does. filter may test the full
// (T0, T1, V) triple, e.g. via FilterEqual for "periods equal to a given
// value".
func (ts *TimeSeries[T, V]) IterPeriodsFilter(start, end *T, filter func(Period[T, V]) bool, yield func(Period[T, V]) bool) error {
	return ts.IterPeriods(start, end, func(p Period[T, V]) bool {
		if filter != nil && !filter(p) {
			return true
		}
		return yield(p)
	})
}

// FilterEqual builds an IterPeriodsFilter predicate that keeps only
// periods whose value equals v, per eq (nil falls back to ==).
func FilterEqual[T any, V any](v V, eq func(a, b V) bool) func(Period[T, V]) bool {
	return func(p Period[T, V]) bool {
		return valuesEqual(p.V, v, eq)
	}
}

// Periods is IterPeriods collected into a slice.
func (ts *TimeSeries[T, V]) Periods(start, end *T) ([]Period[T, V], error) {
	var out []Period[T, V]
	err := ts.IterPeriods(start, end, func(p Period[T, V]) bool {
		out = append(out, p)
		return true
	})
	return out, err
}

// Slice returns a new TimeSeries equal to ts restricted to (start, end]
// plus a synthetic key at start carrying ts's value at start (the value
// at the greatest stored key <= start, or Default): every stored key with start < t <= end is kept, including one
// landing exactly on end, so the sliced series is anchored by an
// explicit measurement at both endpoints.
func (ts *TimeSeries[T, V]) Slice(start, end T) (*TimeSeries[T, V], error) {
	if !ts.less(start, end) {
		return nil, badArgument("start,end", "start must be < end")
	}
	out := &TimeSeries[T, V]{
		Name:    ts.Name,
		Default: ts.Default,
		less:    ts.less,
		sub:     ts.sub,
		lerp:    ts.lerp,
		data:    newOrderedMap[T, V](ts.less),
	}
	out.data.Insert(start, ts.getPrevious(start))
	ts.data.IRange(start, end, false, true, func(t T, v V) bool {
		out.data.Insert(t, v)
		return true
	})
	return out, nil
}

package steptrace

import (
	"cmp"
	"time"

	"github.com/google/uuid"
)

// Interpolation selects how Get resolves a query time that falls strictly
// between two stored keys.
type Interpolation int

const (
	// Previous is the step-function interpretation: the value at the
	// greatest stored key <= the query time, or Default before the first
	// key.
	Previous Interpolation = iota
	// Linear interpolates between the two bracketing keys. Requires a
	// TimeSeries built with a lerp function (see NewNumeric/NewTimeNumeric).
	Linear
)

// TimeSeries is an ordered mapping from a totally-ordered time domain T to
// an arbitrary value type V, interpreted as a piecewise-constant,
// right-continuous function: the value at any query time q is the value
// stored at the greatest key <= q, or Default if no such key exists.
//
// T's ordering and (for Linear interpolation and duration-weighted
// aggregation) its notion of elapsed duration are supplied at construction time rather
// than fixed to a single type, so any linearly ordered domain (integers,
// floats, wall-clock instants) works.
type TimeSeries[T any, V any] struct {
	Name    string
	Default V

	less func(a, b T) bool
	sub  func(t1, t0 T) float64 // duration from t0 to t1, in seconds for wall-clock T
	lerp func(vLeft, vRight V, frac float64) V

	data *orderedMap[T, V]
}

// newSeries builds an empty, named TimeSeries with the given comparator,
// duration function and default. less/sub/lerp may be nil; sub is
// required by any duration-weighted aggregation or resampling call, and
// lerp is required only for Linear interpolation.
func newSeries[T any, V any](less func(a, b T) bool, sub func(t1, t0 T) float64, lerp func(vLeft, vRight V, frac float64) V, def V) *TimeSeries[T, V] {
	return &TimeSeries[T, V]{
		Name:    uuid.NewString(),
		Default: def,
		less:    less,
		sub:     sub,
		lerp:    lerp,
		data:    newOrderedMap[T, V](less),
	}
}

// NewOrdered builds a TimeSeries over an arbitrary totally-ordered domain
// T, given an explicit comparator. Duration-based aggregation is
// unavailable until sub is supplied via WithDuration; Linear interpolation
// additionally needs a lerp function supplied via WithLerp.
func NewOrdered[T any, V any](less func(a, b T) bool, def V) *TimeSeries[T, V] {
	return newSeries[T, V](less, nil, nil, def)
}

// WithDuration attaches a "duration from t0 to t1" function to ts,
// enabling distribution/mean/sample/moving_average/bin. It returns ts for
// chaining.
func (ts *TimeSeries[T, V]) WithDuration(sub func(t1, t0 T) float64) *TimeSeries[T, V] {
	ts.sub = sub
	return ts
}

// WithLerp attaches a linear-interpolation function to ts, enabling
// Get(t, Linear). It returns ts for chaining.
func (ts *TimeSeries[T, V]) WithLerp(lerp func(vLeft, vRight V, frac float64) V) *TimeSeries[T, V] {
	ts.lerp = lerp
	return ts
}

// NewNumeric builds a TimeSeries keyed and valued by ordered numeric
// types, with duration and linear interpolation wired in for free
// — the direct analogue of a TimeSeries[float64, float64].
func NewNumeric[T Number, V Number](def V) *TimeSeries[T, V] {
	return newSeries[T, V](
		func(a, b T) bool { return a < b },
		func(t1, t0 T) float64 { return float64(t1) - float64(t0) },
		func(l, r V, frac float64) V { return V(float64(l) + frac*(float64(r)-float64(l))) },
		def,
	)
}

// New builds a TimeSeries keyed by a cmp.Ordered type (int, float64,
// string, ...) and valued by an arbitrary V. Neither duration-weighted
// aggregation nor linear interpolation are available until WithDuration
// and/or WithLerp are attached (NewNumeric wires both automatically when
// T and V are both numeric).
func New[T cmp.Ordered, V any](def V) *TimeSeries[T, V] {
	return newSeries[T, V](
		func(a, b T) bool { return a < b },
		nil,
		nil,
		def,
	)
}

// NewTime builds a TimeSeries keyed by time.Time, with duration always
// expressed in seconds regardless of the key's clock resolution. No
// linear interpolation is wired in; NewTimeNumeric adds it for numeric V.
func NewTime[V any](def V) *TimeSeries[time.Time, V] {
	return newSeries[time.Time, V](
		func(a, b time.Time) bool { return a.Before(b) },
		func(t1, t0 time.Time) float64 { return t1.Sub(t0).Seconds() },
		nil,
		def,
	)
}

// NewTimeNumeric is NewTime plus linear interpolation for numeric V.
func NewTimeNumeric[V Number](def V) *TimeSeries[time.Time, V] {
	ts := NewTime[V](def)
	ts.lerp = func(l, r V, frac float64) V { return V(float64(l) + frac*(float64(r)-float64(l))) }
	return ts
}

// FromPairs builds a TimeSeries from an ordered set of (t, v) pairs built
// some other way (e.g. NewTime); duplicate keys resolve to the
// last-seen value.
func FromPairs[T any, V any](ts *TimeSeries[T, V], pairs []Pair[T, V]) *TimeSeries[T, V] {
	for _, p := range pairs {
		ts.Set(p.T, p.V, false)
	}
	return ts
}

// Pair is a (time, value) measurement, used for bulk construction and as
// the element type yielded by resampling operations.
type Pair[T any, V any] struct {
	T T
	V V
}

// IsEmpty reports whether the series has no stored measurements.
func (ts *TimeSeries[T, V]) IsEmpty() bool { return ts.data.Len() == 0 }

// NMeasurements returns the number of stored keys.
func (ts *TimeSeries[T, V]) NMeasurements() int { return ts.data.Len() }

// FirstKey returns the smallest stored key.
func (ts *TimeSeries[T, V]) FirstKey() (T, bool) {
	k, _, ok := ts.data.PeekAt(0)
	return k, ok
}

// LastKey returns the largest stored key.
func (ts *TimeSeries[T, V]) LastKey() (T, bool) {
	k, _, ok := ts.data.PeekAt(-1)
	return k, ok
}

// FirstValue returns the value at the smallest stored key.
func (ts *TimeSeries[T, V]) FirstValue() (V, bool) {
	_, v, ok := ts.data.PeekAt(0)
	return v, ok
}

// LastValue returns the value at the largest stored key.
func (ts *TimeSeries[T, V]) LastValue() (V, bool) {
	_, v, ok := ts.data.PeekAt(-1)
	return v, ok
}

// FirstItem returns the (key, value) pair at the smallest stored key.
func (ts *TimeSeries[T, V]) FirstItem() (T, V, bool) {
	return ts.data.PeekAt(0)
}

// LastItem returns the (key, value) pair at the largest stored key.
func (ts *TimeSeries[T, V]) LastItem() (T, V, bool) {
	return ts.data.PeekAt(-1)
}

// Items returns every stored (key, value) pair in ascending key order.
func (ts *TimeSeries[T, V]) Items() []Pair[T, V] {
	out := make([]Pair[T, V], 0, ts.data.Len())
	ts.data.All(func(t T, v V) bool {
		out = append(out, Pair[T, V]{T: t, V: v})
		return true
	})
	return out
}

// getPrevious implements the core step-function interpretation: the
// value at the greatest stored key <= t, or Default before the first
// key.
func (ts *TimeSeries[T, V]) getPrevious(t T) V {
	idx := ts.data.floorIndex(t)
	if idx < 0 {
		return ts.Default
	}
	_, v, _ := ts.data.PeekAt(idx)
	return v
}

// Get returns the value of the step function at t. With Previous (the
// default) that's the value at the greatest stored key <= t. With
// Linear, the value is interpolated between the bracketing keys (or
// clamped to Default/last value outside the measured range); requires a
// TimeSeries built with a lerp function.
func (ts *TimeSeries[T, V]) Get(t T, mode Interpolation) (V, error) {
	switch mode {
	case Previous:
		return ts.getPrevious(t), nil
	case Linear:
		return ts.getLinear(t)
	default:
		var zero V
		return zero, ErrInterpolationUnsupported
	}
}

func (ts *TimeSeries[T, V]) getLinear(t T) (V, error) {
	var zero V
	if ts.lerp == nil || ts.sub == nil {
		return zero, badArgument("interpolate", "linear interpolation requires a numeric value type and a duration function")
	}
	n := ts.data.Len()
	if n == 0 {
		return ts.Default, nil
	}
	rightIdx := ts.data.bisectLeft(t)
	if rightIdx == 0 {
		// at-or-before the first key: either exactly on it, or before
		// the domain starts (Default extends to -inf).
		k0, v0, _ := ts.data.PeekAt(0)
		if ts.equal(t, k0) {
			return v0, nil
		}
		return ts.Default, nil
	}
	if rightIdx >= n {
		_, vLast, _ := ts.data.PeekAt(-1)
		return vLast, nil
	}
	kl, vl, _ := ts.data.PeekAt(rightIdx - 1)
	if ts.equal(t, kl) {
		return vl, nil
	}
	kr, vr, _ := ts.data.PeekAt(rightIdx)
	span := ts.sub(kr, kl)
	if span == 0 {
		return vl, nil
	}
	frac := ts.sub(t, kl) / span
	return ts.lerp(vl, vr, frac), nil
}

func (ts *TimeSeries[T, V]) equal(a, b T) bool { return ts.data.equal(a, b) }

// valuesEqual reports whether a and b are equal, for Set's compact mode,
// Compact and FilterEqual. It uses eq when non-nil; otherwise it compares
// the values with == after boxing them as any, which panics at run time
// when V is not comparable (no reflect.DeepEqual fallback is used).
func valuesEqual[V any](a, b V, eq func(a, b V) bool) bool {
	if eq != nil {
		return eq(a, b)
	}
	return any(a) == any(b)
}

// Set stores v at time t. If compact is true and the step function
// already evaluates to v at t, the call is a no-op.
func (ts *TimeSeries[T, V]) Set(t T, v V, compact bool) {
	ts.setWithEq(t, v, compact, nil)
}

// SetCompactFunc is Set with an explicit equality function for V, for use
// when V isn't naturally comparable via ==.
func (ts *TimeSeries[T, V]) SetCompactFunc(t T, v V, compact bool, eq func(a, b V) bool) {
	ts.setWithEq(t, v, compact, eq)
}

func (ts *TimeSeries[T, V]) setWithEq(t T, v V, compact bool, eq func(a, b V) bool) {
	if ts.data.Len() == 0 || !compact {
		ts.data.Insert(t, v)
		return
	}
	cur := ts.getPrevious(t)
	if valuesEqual(cur, v, eq) {
		return
	}
	ts.data.Insert(t, v)
}

// Remove deletes the measurement stored exactly at t. Returns
// ErrNoKeyAtTime if there is none.
func (ts *TimeSeries[T, V]) Remove(t T) error {
	if !ts.data.Remove(t) {
		return ErrNoKeyAtTime
	}
	return nil
}

// RemoveInterval deletes every stored key k with start <= k < end.
// Succeeds even when no keys lie in that range.
func (ts *TimeSeries[T, V]) RemoveInterval(start, end T) error {
	if !ts.less(start, end) {
		return badArgument("start,end", "start must be < end")
	}
	ts.data.DeleteRange(start, end, true, false)
	return nil
}

// SetInterval overwrites the function to equal v on [start, end); the
// function is unchanged outside that range. Equivalent to: capture
// e = Get(end), delete every stored key strictly between start and end,
// Set(start, v), Set(end, e).
func (ts *TimeSeries[T, V]) SetInterval(start, end T, v V, compact bool) error {
	if !ts.less(start, end) {
		return badArgument("start,end", "start must be < end")
	}
	e := ts.getPrevious(end)
	ts.data.DeleteRange(start, end, false, false)
	ts.setWithEq(start, v, compact, nil)
	ts.setWithEq(end, e, compact, nil)
	return nil
}

// Compact deletes, in a single ordered pass, every stored key whose value
// equals its predecessor's. Idempotent.
func (ts *TimeSeries[T, V]) Compact() {
	ts.CompactFunc(nil)
}

// CompactFunc is Compact with an explicit equality function for V.
func (ts *TimeSeries[T, V]) CompactFunc(eq func(a, b V) bool) {
	if ts.data.Len() < 2 {
		return
	}
	var redundant []T
	havePrev := false
	var prev V
	ts.data.All(func(t T, v V) bool {
		if havePrev && valuesEqual(prev, v, eq) {
			redundant = append(redundant, t)
		}
		prev, havePrev = v, true
		return true
	})
	for _, t := range redundant {
		ts.data.Remove(t)
	}
}

// Clone returns an independent copy of ts; mutating the copy never
// affects the original.
func (ts *TimeSeries[T, V]) Clone() *TimeSeries[T, V] {
	out := &TimeSeries[T, V]{
		Name:    ts.Name,
		Default: ts.Default,
		less:    ts.less,
		sub:     ts.sub,
		lerp:    ts.lerp,
		data:    newOrderedMap[T, V](ts.less),
	}
	ts.data.All(func(t T, v V) bool {
		out.data.Insert(t, v)
		return true
	})
	return out
}

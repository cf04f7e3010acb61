package steptrace

import "time"

// SampleAt evaluates ts at each of times (which need not be sorted or
// distinct) using mode, returning one Pair per input time in the same
// order — a generic point-sampling primitive for a domain whose tick
// spacing isn't naturally time.Duration.
func SampleAt[T any, V any](ts *TimeSeries[T, V], times []T, mode Interpolation) ([]Pair[T, V], error) {
	out := make([]Pair[T, V], len(times))
	for i, t := range times {
		v, err := ts.Get(t, mode)
		if err != nil {
			return nil, err
		}
		out[i] = Pair[T, V]{T: t, V: v}
	}
	return out, nil
}

// ticks returns start, start+period, start+2*period, ... stopping at the
// last value <= end, including end exactly when the period evenly
// divides the span.
func ticks(start, end time.Time, period time.Duration) ([]time.Time, error) {
	if period <= 0 {
		return nil, badArgument("period", "must be positive")
	}
	if end.Before(start) {
		return nil, badArgument("start,end", "start must be <= end")
	}
	if period > end.Sub(start) && !start.Equal(end) {
		return nil, badArgument("period", "exceeds the requested span")
	}
	var out []time.Time
	for t := start; !t.After(end); t = t.Add(period) {
		out = append(out, t)
	}
	return out, nil
}

// Sample evaluates ts at every tick of period from start to end
// (inclusive of both ends when period evenly divides the span), using
// mode.
func Sample[V any](ts *TimeSeries[time.Time, V], start, end time.Time, period time.Duration, mode Interpolation) ([]Pair[time.Time, V], error) {
	t, err := ticks(start, end, period)
	if err != nil {
		return nil, err
	}
	return SampleAt(ts, t, mode)
}

// MovingAverage returns, for every tick of period from start to end, the
// duration-weighted Mean of ts over [tick-before, tick+after) — a
// centered or trailing moving average depending on before/after, built
// directly on Mean rather than a separate windowed-sum accumulator.
func MovingAverage[V Number](ts *TimeSeries[time.Time, V], start, end time.Time, period, before, after time.Duration) ([]Pair[time.Time, float64], error) {
	t, err := ticks(start, end, period)
	if err != nil {
		return nil, err
	}
	out := make([]Pair[time.Time, float64], len(t))
	for i, tick := range t {
		s := tick.Add(-before)
		e := tick.Add(after)
		m, err := Mean(ts, &s, &e, nil)
		if err != nil {
			return nil, err
		}
		out[i] = Pair[time.Time, float64]{T: tick, V: m}
	}
	return out, nil
}

// Bin produces a new, regularly-spaced TimeSeries with one key per
// bucket [tick, tick+period) starting at each tick of period from start,
// the last bucket clipped to end (a tick landing exactly on end starts no
// bucket), each valued by reduce applied to the duration-weighted
// Histogram of ts's values over that bucket —
// parameterized by an arbitrary reducer instead of being hardwired to a
// mean.
func Bin[V any](ts *TimeSeries[time.Time, V], start, end time.Time, period time.Duration, less func(a, b V) bool, reduce func(*Histogram[V]) V) (*TimeSeries[time.Time, V], error) {
	t, err := ticks(start, end, period)
	if err != nil {
		return nil, err
	}
	out := NewTime[V](ts.Default)
	for i := 0; i < len(t); i++ {
		binStart := t[i]
		binEnd := binStart.Add(period)
		if binEnd.After(end) {
			binEnd = end
		}
		if !binEnd.After(binStart) {
			continue
		}
		h, err := Distribution(ts, &binStart, &binEnd, nil, less)
		if err != nil {
			return nil, err
		}
		out.Set(binStart, reduce(h), false)
	}
	return out, nil
}

// ReduceMode selects how SampleInterval collapses the step function's
// constant-value periods overlapping each interval into one number.
type ReduceMode int

const (
	// ReduceMean weights each overlapping period by the portion of the
	// interval it covers: Σ v*(t1-t0) / (interval length).
	ReduceMean ReduceMode = iota
	// ReduceMax takes the greatest value among the overlapping periods,
	// regardless of how little of the interval it covers.
	ReduceMax
	// ReduceMin is ReduceMax's counterpart.
	ReduceMin
)

// SampleInterval reduces ts over a sequence of adjoining intervals, each
// either period wide (when index is nil) or bounded by consecutive
// entries of index (which must be sorted ascending and at least two
// entries long; period is ignored whenever index is given). Every
// interval's value is computed straight from IterPeriods: when an
// interval contains no stored measurement of its own, IterPeriods yields
// exactly one period spanning the whole interval at the value carried in
// from before it, so mean/max/min all resolve to that same carried value
// without any special-casing here.
func SampleInterval[V Number](ts *TimeSeries[time.Time, V], mode ReduceMode, start, end time.Time, period time.Duration, index []time.Time) ([]Pair[time.Time, float64], error) {
	var bounds []time.Time
	if len(index) > 0 {
		if len(index) < 2 {
			return nil, badArgument("index", "must have at least two entries")
		}
		for i := 1; i < len(index); i++ {
			if index[i].Before(index[i-1]) {
				return nil, badArgument("index", "must be monotonically non-decreasing")
			}
		}
		bounds = index
	} else {
		t, err := ticks(start, end, period)
		if err != nil {
			return nil, err
		}
		bounds = t
		if len(bounds) == 0 || !bounds[len(bounds)-1].Equal(end) {
			bounds = append(bounds, end)
		}
	}
	if len(bounds) < 2 {
		return nil, badArgument("index", "must describe at least one interval")
	}

	out := make([]Pair[time.Time, float64], 0, len(bounds)-1)
	for i := 0; i < len(bounds)-1; i++ {
		lo, hi := bounds[i], bounds[i+1]
		if !lo.Before(hi) {
			continue
		}
		v, err := reduceInterval(ts, mode, lo, hi)
		if err != nil {
			return nil, err
		}
		out = append(out, Pair[time.Time, float64]{T: lo, V: v})
	}
	return out, nil
}

func reduceInterval[V Number](ts *TimeSeries[time.Time, V], mode ReduceMode, lo, hi time.Time) (float64, error) {
	var (
		weightedSum, totalWeight float64
		extremum                 float64
		any_                     bool
	)
	err := ts.IterPeriods(&lo, &hi, func(p Period[time.Time, V]) bool {
		v := float64(p.V)
		weight := p.T1.Sub(p.T0).Seconds()
		weightedSum += v * weight
		totalWeight += weight
		if !any_ || (mode == ReduceMax && v > extremum) || (mode == ReduceMin && v < extremum) {
			extremum = v
			any_ = true
		}
		return true
	})
	if err != nil {
		return 0, err
	}
	if !any_ {
		return 0, ErrEmptyInput
	}
	if mode == ReduceMean {
		if totalWeight == 0 {
			return 0, ErrEmptyInput
		}
		return weightedSum / totalWeight, nil
	}
	return extremum, nil
}

// Rebin re-buckets an already-binned series onto a coarser period by
// running Bin over it: each existing key's value is weighted by the time
// until the next key (or the bucket end), like any other step function —
// useful for turning a fine Bin output into a coarser one without
// revisiting the original high-resolution series.
func Rebin[V any](ts *TimeSeries[time.Time, V], start, end time.Time, period time.Duration, less func(a, b V) bool, reduce func(*Histogram[V]) V) (*TimeSeries[time.Time, V], error) {
	return Bin(ts, start, end, period, less, reduce)
}

// BinByUnit is Bin over a calendar unit (Days/Weeks/Months/Years, via
// FloorTime/AddUnits) instead of a fixed time.Duration: start is floored
// to the nearest n-unit boundary before the first bucket is cut, so
// "bin by 1 month" lands on calendar month starts regardless of where
// start itself falls, matching spec's "floor start to the unit boundary,
// then for each (bin_start, bin_end) pair in the unit range" rule.
func BinByUnit[V any](ts *TimeSeries[time.Time, V], unit TimeUnit, nUnits int, start, end *time.Time, mask *TimeSeries[time.Time, Option[bool]], less func(a, b V) bool, reduce func(*Histogram[V]) V) (*TimeSeries[time.Time, V], error) {
	s, e, err := windowOf(ts, start, end, mask)
	if err != nil {
		return nil, err
	}
	binStart, err := FloorTime(s, unit, nUnits)
	if err != nil {
		return nil, err
	}
	out := NewTime[V](ts.Default)
	for binStart.Before(e) {
		binEnd, err := AddUnits(binStart, unit, nUnits)
		if err != nil {
			return nil, err
		}
		clippedEnd := binEnd
		if clippedEnd.After(e) {
			clippedEnd = e
		}
		h, err := Distribution(ts, &binStart, &clippedEnd, mask, less)
		if err != nil {
			return nil, err
		}
		out.Set(binStart, reduce(h), false)
		binStart = binEnd
	}
	return out, nil
}

// RebinByUnit re-buckets an already-computed finer bin map (e.g. BinByUnit's
// own output) onto a coarser n-unit period, without revisiting the
// original series: finer's keys are individually floored to the coarser
// boundary and folded together with combine in key order — the "smaller"
// cache-hint spec describes, trading one full Distribution pass over the
// source series for a single linear fold over already-reduced values.
// zero seeds each new bucket's accumulator before the first finer value
// belonging to it is folded in.
func RebinByUnit[V any](finer *TimeSeries[time.Time, V], unit TimeUnit, nUnits int, combine func(acc, v V) V, zero V) (*TimeSeries[time.Time, V], error) {
	out := NewTime[V](finer.Default)
	var (
		haveBucket bool
		bucketKey  time.Time
		acc        V
	)
	flush := func() {
		if haveBucket {
			out.Set(bucketKey, acc, false)
		}
	}
	for _, p := range finer.Items() {
		floored, err := FloorTime(p.T, unit, nUnits)
		if err != nil {
			return nil, err
		}
		if !haveBucket || !floored.Equal(bucketKey) {
			flush()
			bucketKey = floored
			acc = zero
			haveBucket = true
		}
		acc = combine(acc, p.V)
	}
	flush()
	return out, nil
}

package steptrace

import "time"

// windowOf resolves an aggregation's [start, end) from explicit bounds,
// falling back first to mask's own extent (when mask is non-nil) and
// only then to ts's own extent, failing with ErrUndefinedWindow when
// none of those is available: distribution/mean need some window to
// operate over, and an empty series with no explicit bounds and no mask
// has none. mask being consulted before ts matters when ts has
// measurements outside the span the caller actually wants masked in.
func windowOf[T any, V any](ts *TimeSeries[T, V], start, end *T, mask *TimeSeries[T, Option[bool]]) (T, T, error) {
	var s, e T
	if start != nil {
		s = *start
	} else if k, ok := firstKeyWithMaskFallback(ts, mask); ok {
		s = k
	} else {
		return s, e, ErrUndefinedWindow
	}
	if end != nil {
		e = *end
	} else if k, ok := lastKeyWithMaskFallback(ts, mask); ok {
		e = k
	} else {
		return s, e, ErrUndefinedWindow
	}
	return s, e, nil
}

func firstKeyWithMaskFallback[T any, V any](ts *TimeSeries[T, V], mask *TimeSeries[T, Option[bool]]) (T, bool) {
	if mask != nil {
		if k, ok := mask.FirstKey(); ok {
			return k, true
		}
	}
	return ts.FirstKey()
}

func lastKeyWithMaskFallback[T any, V any](ts *TimeSeries[T, V], mask *TimeSeries[T, Option[bool]]) (T, bool) {
	if mask != nil {
		if k, ok := mask.LastKey(); ok {
			return k, true
		}
	}
	return ts.LastKey()
}

// maskedWeight walks ts's periods inside [start, end), intersecting each
// with mask's true periods when mask is non-nil, and calls add(value,
// weight) for every resulting sub-period's (value, duration). Reusing
// IterPeriods per ts-period to compute the overlapping mask sub-periods
// keeps the boundary-clipping logic in exactly one place (periods.go)
// instead of duplicating an interval-intersection routine here.
func maskedWeight[T any, V any](ts *TimeSeries[T, V], start, end T, mask *TimeSeries[T, Option[bool]], add func(v V, weight float64)) error {
	return ts.IterPeriods(&start, &end, func(p Period[T, V]) bool {
		if ts.sub == nil {
			return true
		}
		if mask == nil {
			add(p.V, ts.sub(p.T1, p.T0))
			return true
		}
		t0, t1 := p.T0, p.T1
		mask.IterPeriods(&t0, &t1, func(mp Period[T, Option[bool]]) bool {
			if mp.V.Valid && mp.V.Value {
				add(p.V, ts.sub(mp.T1, mp.T0))
			}
			return true
		})
		return true
	})
}

// Distribution returns a duration-weighted Histogram of ts's values over
// [start, end) (an unset bound defaults to mask's extent when mask is
// non-nil and has keys, else to ts's own extent), restricted to the
// periods where mask is true when mask is non-nil. Requires ts to carry
// a duration function (see WithDuration/NewTime/NewNumeric).
//
// Always weights a period by its own (possibly get-previous) value; it
// does not offer the optional linear-interpolation mode (value at the
// period's midpoint) spec §4.F allows for a subset of aggregations, per
// §1's Non-goals.
func Distribution[T any, V any](ts *TimeSeries[T, V], start, end *T, mask *TimeSeries[T, Option[bool]], less func(a, b V) bool) (*Histogram[V], error) {
	if ts.sub == nil {
		return nil, badArgument("ts", "distribution requires a duration function")
	}
	s, e, err := windowOf(ts, start, end, mask)
	if err != nil {
		return nil, err
	}
	h := NewHistogram[V](less)
	err = maskedWeight(ts, s, e, mask, func(v V, weight float64) {
		if weight > 0 {
			h.Insert(v, weight)
		}
	})
	return h, err
}

// Mean returns the duration-weighted mean of a numeric ts over [start,
// end), restricted to mask's true periods when mask is non-nil.
func Mean[T any, V Number](ts *TimeSeries[T, V], start, end *T, mask *TimeSeries[T, Option[bool]]) (float64, error) {
	if ts.sub == nil {
		return 0, badArgument("ts", "mean requires a duration function")
	}
	s, e, err := windowOf(ts, start, end, mask)
	if err != nil {
		return 0, err
	}
	var weightedSum, totalWeight float64
	err = maskedWeight(ts, s, e, mask, func(v V, weight float64) {
		weightedSum += float64(v) * weight
		totalWeight += weight
	})
	if err != nil {
		return 0, err
	}
	if totalWeight == 0 {
		return 0, ErrEmptyInput
	}
	return weightedSum / totalWeight, nil
}

// NPoints returns the number of stored keys falling in [start, end).
func NPoints[T any, V any](ts *TimeSeries[T, V], start, end *T) (int, error) {
	s, e, err := windowOf(ts, start, end, nil)
	if err != nil {
		return 0, err
	}
	n := 0
	ts.data.IRange(s, e, true, false, func(T, V) bool {
		n++
		return true
	})
	return n, nil
}

// splitByHour calls emit(hour, weight) for every clock-hour-aligned
// sub-chunk of [t0, t1), so a period spanning several hours contributes
// its duration to each hour it actually overlaps instead of being
// attributed entirely to its start time's hour.
func splitByHour(t0, t1 time.Time, emit func(hour int, weight float64)) {
	t := t0
	for t.Before(t1) {
		next := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, t.Location()).Add(time.Hour)
		if next.After(t1) {
			next = t1
		}
		emit(t.Hour(), next.Sub(t).Seconds())
		t = next
	}
}

// splitByWeekday is splitByHour's calendar-day analogue, emitting one
// chunk per day boundary crossed.
func splitByWeekday(t0, t1 time.Time, emit func(weekday time.Weekday, weight float64)) {
	t := t0
	for t.Before(t1) {
		y, m, d := t.Date()
		next := time.Date(y, m, d, 0, 0, 0, 0, t.Location()).AddDate(0, 0, 1)
		if next.After(t1) {
			next = t1
		}
		emit(t.Weekday(), next.Sub(t).Seconds())
		t = next
	}
}

// byHourOrWeekday walks ts's periods in [start, end) intersected with
// mask (as maskedWeight does), but unlike maskedWeight it needs each
// sub-period's own bounds (not just its duration) in order to split it
// by clock hour or calendar weekday, so it re-does the mask
// intersection here rather than reusing maskedWeight's (value, weight)
// callback shape.
func byHourOrWeekday[V any](ts *TimeSeries[time.Time, V], start, end time.Time, mask *TimeSeries[time.Time, Option[bool]], apply func(t0, t1 time.Time, v V)) error {
	return ts.IterPeriods(&start, &end, func(p Period[time.Time, V]) bool {
		if mask == nil {
			apply(p.T0, p.T1, p.V)
			return true
		}
		t0, t1 := p.T0, p.T1
		mask.IterPeriods(&t0, &t1, func(mp Period[time.Time, Option[bool]]) bool {
			if mp.V.Valid && mp.V.Value {
				apply(mp.T0, mp.T1, p.V)
			}
			return true
		})
		return true
	})
}

// DistributionByHourOfDay returns, for each hour of the day (0-23) that
// overlaps [start, end), a duration-weighted Histogram of ts's values
// during that hour across every day in the window.
func DistributionByHourOfDay[V any](ts *TimeSeries[time.Time, V], start, end *time.Time, mask *TimeSeries[time.Time, Option[bool]], less func(a, b V) bool) (map[int]*Histogram[V], error) {
	if ts.sub == nil {
		return nil, badArgument("ts", "distribution requires a duration function")
	}
	s, e, err := windowOf(ts, start, end, mask)
	if err != nil {
		return nil, err
	}
	out := make(map[int]*Histogram[V])
	err = byHourOrWeekday(ts, s, e, mask, func(t0, t1 time.Time, v V) {
		splitByHour(t0, t1, func(hour int, weight float64) {
			if weight <= 0 {
				return
			}
			h, ok := out[hour]
			if !ok {
				h = NewHistogram[V](less)
				out[hour] = h
			}
			h.Insert(v, weight)
		})
	})
	return out, err
}

// DistributionByWeekday is DistributionByHourOfDay's calendar-day
// analogue, keyed by time.Weekday.
func DistributionByWeekday[V any](ts *TimeSeries[time.Time, V], start, end *time.Time, mask *TimeSeries[time.Time, Option[bool]], less func(a, b V) bool) (map[time.Weekday]*Histogram[V], error) {
	if ts.sub == nil {
		return nil, badArgument("ts", "distribution requires a duration function")
	}
	s, e, err := windowOf(ts, start, end, mask)
	if err != nil {
		return nil, err
	}
	out := make(map[time.Weekday]*Histogram[V])
	err = byHourOrWeekday(ts, s, e, mask, func(t0, t1 time.Time, v V) {
		splitByWeekday(t0, t1, func(wd time.Weekday, weight float64) {
			if weight <= 0 {
				return
			}
			h, ok := out[wd]
			if !ok {
				h = NewHistogram[V](less)
				out[wd] = h
			}
			h.Insert(v, weight)
		})
	})
	return out, err
}

package steptrace

import (
	"sort"

	"github.com/montanaflynn/stats"
)

// EventSeries is a sorted multiset of event occurrence times — simpler
// than TimeSeries because it carries no values, only "something happened
// at T", with repeats meaningful.
type EventSeries[T any] struct {
	less func(a, b T) bool
	sub  func(t1, t0 T) float64
	data []T
}

// NewEventSeries builds an empty EventSeries ordered by less; sub is
// needed only by IterInterEventTimes and may be nil otherwise.
func NewEventSeries[T any](less func(a, b T) bool, sub func(t1, t0 T) float64) *EventSeries[T] {
	return &EventSeries[T]{less: less, sub: sub}
}

// Len returns the number of recorded events, counting repeats.
func (es *EventSeries[T]) Len() int { return len(es.data) }

// Insert records one more event at t, preserving sort order. Unlike
// TimeSeries.Set, repeated inserts at the same t are kept, not
// overwritten — two events really did happen at the same instant.
func (es *EventSeries[T]) Insert(t T) {
	i := sort.Search(len(es.data), func(i int) bool { return !es.less(es.data[i], t) })
	es.data = append(es.data, t)
	copy(es.data[i+1:], es.data[i:])
	es.data[i] = t
}

// EventsBetween returns every recorded event with start <= t <= end, a
// closed interval at both ends so an event landing exactly on end is
// still counted.
func (es *EventSeries[T]) EventsBetween(start, end T) []T {
	lo := sort.Search(len(es.data), func(i int) bool { return !es.less(es.data[i], start) })
	hi := sort.Search(len(es.data), func(i int) bool { return es.less(end, es.data[i]) })
	if lo >= hi {
		return nil
	}
	out := make([]T, hi-lo)
	copy(out, es.data[lo:hi])
	return out
}

// IterInterEventTimes returns the gap, in seconds, between every pair of
// consecutive recorded events. Requires a duration function.
func (es *EventSeries[T]) IterInterEventTimes() ([]float64, error) {
	if es.sub == nil {
		return nil, badArgument("es", "inter-event times require a duration function")
	}
	if len(es.data) < 2 {
		return nil, nil
	}
	out := make([]float64, len(es.data)-1)
	for i := 1; i < len(es.data); i++ {
		out[i-1] = es.sub(es.data[i], es.data[i-1])
	}
	return out, nil
}

// InterEventStats summarizes IterInterEventTimes with mean and standard
// deviation, reusing a plain-slice statistics library rather than
// hand-rolling reductions EventSeries itself has no other use for.
func (es *EventSeries[T]) InterEventStats() (mean, stddev float64, err error) {
	gaps, err := es.IterInterEventTimes()
	if err != nil {
		return 0, 0, err
	}
	if len(gaps) == 0 {
		return 0, 0, ErrEmptyInput
	}
	mean, err = stats.Mean(gaps)
	if err != nil {
		return 0, 0, err
	}
	stddev, err = stats.StandardDeviation(gaps)
	if err != nil {
		return 0, 0, err
	}
	return mean, stddev, nil
}

// CumulativeSum returns a TimeSeries whose value at any t is the number
// of recorded events with event-time <= t — the running count a step
// function naturally represents, and the building block CountActive
// reduces to by subtracting one cumulative sum from another.
func (es *EventSeries[T]) CumulativeSum(less func(a, b T) bool, sub func(t1, t0 T) float64) *TimeSeries[T, int] {
	out := newSeries[T, int](less, sub, nil, 0)
	count := 0
	i := 0
	for i < len(es.data) {
		t := es.data[i]
		j := i
		for j < len(es.data) && es.equal(es.data[j], t) {
			j++
		}
		count += j - i
		out.data.Insert(t, count)
		i = j
	}
	return out
}

func (es *EventSeries[T]) equal(a, b T) bool { return !es.less(a, b) && !es.less(b, a) }

// CountActive returns a TimeSeries counting how many entities are
// "active" at any t: arrivals.CumulativeSum() minus departures.
// CumulativeSum(), i.e. how many have arrived so far minus how many have
// since departed.
func CountActive[T any](arrivals, departures *EventSeries[T], less func(a, b T) bool, sub func(t1, t0 T) float64) (*TimeSeries[T, int], error) {
	a := arrivals.CumulativeSum(less, sub)
	d := departures.CumulativeSum(less, sub)
	optA := toOptionSeries(a)
	optD := toOptionSeries(d)
	diff, err := Difference(optA, optD)
	if err != nil {
		return nil, err
	}
	out := newSeries[T, int](less, sub, nil, 0)
	diff.data.All(func(t T, v Option[int]) bool {
		if v.Valid {
			out.data.Insert(t, v.Value)
		}
		return true
	})
	return out, nil
}

func toOptionSeries[T any](ts *TimeSeries[T, int]) *TimeSeries[T, Option[int]] {
	out := newSeries[T, Option[int]](ts.less, ts.sub, nil, Some(0))
	ts.data.All(func(t T, v int) bool {
		out.data.Insert(t, Some(v))
		return true
	})
	return out
}

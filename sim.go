package steptrace

import (
	"math/rand"
	"time"
)

// GenerateRandomWalk produces a synthetic TimeSeries with one tick every
// step from start to end, each value a Gaussian random walk from
// startValue with per-step standard deviation stddev. Takes an explicit
// *rand.Rand rather than seeding a package-global generator, so callers
// (and tests) control reproducibility themselves.
func GenerateRandomWalk(rng *rand.Rand, start, end time.Time, step time.Duration, startValue, stddev float64) (*TimeSeries[time.Time, float64], error) {
	if step <= 0 {
		return nil, badArgument("step", "must be positive")
	}
	if end.Before(start) {
		return nil, badArgument("start,end", "start must be <= end")
	}
	out := NewTimeNumeric[float64](startValue)
	v := startValue
	for t := start; !t.After(end); t = t.Add(step) {
		out.Set(t, v, false)
		v += rng.NormFloat64() * stddev
	}
	return out, nil
}

// GenerateWithGaps is GenerateRandomWalk with each tick independently
// dropped with probability dropProb, producing the unevenly-spaced
// signal this library is built for instead of a regular grid.
func GenerateWithGaps(rng *rand.Rand, start, end time.Time, step time.Duration, startValue, stddev, dropProb float64) (*TimeSeries[time.Time, float64], error) {
	if dropProb < 0 || dropProb >= 1 {
		return nil, badArgument("dropProb", "must be in [0, 1)")
	}
	if step <= 0 {
		return nil, badArgument("step", "must be positive")
	}
	if end.Before(start) {
		return nil, badArgument("start,end", "start must be <= end")
	}
	out := NewTimeNumeric[float64](startValue)
	v := startValue
	for t := start; !t.After(end); t = t.Add(step) {
		if rng.Float64() >= dropProb {
			out.Set(t, v, false)
		}
		v += rng.NormFloat64() * stddev
	}
	return out, nil
}

// GenerateEvents produces an EventSeries with n events uniformly
// scattered between start and end, sorted ascending — a synthetic
// arrivals/departures stream for exercising EventSeries and CountActive.
func GenerateEvents(rng *rand.Rand, start, end time.Time, n int) (*EventSeries[time.Time], error) {
	if n < 0 {
		return nil, badArgument("n", "must be non-negative")
	}
	if end.Before(start) {
		return nil, badArgument("start,end", "start must be <= end")
	}
	span := end.Sub(start)
	es := NewEventSeries[time.Time](
		func(a, b time.Time) bool { return a.Before(b) },
		func(t1, t0 time.Time) float64 { return t1.Sub(t0).Seconds() },
	)
	for i := 0; i < n; i++ {
		offset := time.Duration(rng.Int63n(int64(span) + 1))
		es.Insert(start.Add(offset))
	}
	return es, nil
}

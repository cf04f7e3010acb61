// Package steptrace manipulates and analyzes unevenly-spaced time series:
// piecewise-constant (step) functions from a totally-ordered time domain
// (integers, floats, or wall-clock instants) into arbitrary values.
//
// Unlike most numeric libraries, steptrace treats "no measurement yet" as a
// first-class concept: every TimeSeries carries an explicit default value
// that the step function takes before its first recorded key, and every
// aggregation is defined in terms of the duration spent at each value
// rather than a simple average of samples. This makes it suitable for
// event logs, occupancy counts, device state and other signals that are
// measured only when something changes.
//
// Key features:
//
//   - A generic, ordered-map-backed TimeSeries[T, V] store with O(log n)
//     get, set/delete that binary-search a sorted slice and then shift it
//     (O(n) in the worst case, cheap when keys arrive mostly in order),
//     and duration-aware iteration over constant-value periods.
//
//   - A single-pass K-way merge engine that interleaves any number of
//     TimeSeries into one (time, state-vector) stream, the basis for every
//     binary and n-ary operation (sum, difference, boolean logic,
//     arbitrary reductions).
//
//   - Duration-weighted aggregation (distribution, mean) and resampling
//     (point sample, moving average, fixed-interval binning) built on top
//     of the period iterator.
//
//   - A Histogram type for duration- or count-weighted multisets, with
//     both empirical and piecewise-linear quantile interpolation.
//
//   - An EventSeries type for sorted multisets of event times, with
//     cumulative-count and "active population" projections into
//     TimeSeries.
//
// The library favors correctness and a small, composable surface over
// bulk numerical throughput; it has no network protocol, no persistence
// format, and no GUI of its own.
//
// Typical usage:
//
//	ts := steptrace.New[int, string]("")
//	ts.Set(1, "a", false)
//	ts.Set(5, "b", false)
//	v, _ := ts.Get(3, steptrace.Previous) // "a"
package steptrace

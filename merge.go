package steptrace

import (
	"container/heap"
	"sort"
)

// mergeKeysFlat computes the sorted, deduplicated union of every series'
// keys by concatenating all of them and sorting once — the "flat-sort"
// strategy: simple, and the better choice when the number of series is
// large or their sizes are roughly balanced.
func mergeKeysFlat[T any, V any](series []*TimeSeries[T, V], less func(a, b T) bool) []T {
	var all []T
	for _, s := range series {
		s.data.All(func(t T, _ V) bool {
			all = append(all, t)
			return true
		})
	}
	sort.Slice(all, func(i, j int) bool { return less(all[i], all[j]) })
	out := all[:0]
	for i, k := range all {
		if i == 0 || less(out[len(out)-1], k) {
			out = append(out, k)
		}
	}
	return out
}

// heapItem is one (series index, position) cursor in the k-way merge.
type heapItem[T any] struct {
	key       T
	seriesIdx int
	pos       int
}

type mergeHeap[T any] struct {
	items []heapItem[T]
	less  func(a, b T) bool
}

func (h *mergeHeap[T]) Len() int { return len(h.items) }
func (h *mergeHeap[T]) Less(i, j int) bool {
	return h.less(h.items[i].key, h.items[j].key)
}
func (h *mergeHeap[T]) Swap(i, j int) { h.items[i], h.items[j] = h.items[j], h.items[i] }
func (h *mergeHeap[T]) Push(x any)    { h.items = append(h.items, x.(heapItem[T])) }
func (h *mergeHeap[T]) Pop() any {
	old := h.items
	n := len(old)
	it := old[n-1]
	h.items = old[:n-1]
	return it
}

// mergeKeysHeap computes the same sorted, deduplicated union of keys as
// mergeKeysFlat, using a priority queue over each series' already-sorted
// key stream: O(N log k) instead of flat-sort's O(N log N) for k << N.
// Both strategies must always agree; IterMerge defaults to this one.
func mergeKeysHeap[T any, V any](series []*TimeSeries[T, V], less func(a, b T) bool) []T {
	h := &mergeHeap[T]{less: less}
	for i, s := range series {
		if s.data.Len() > 0 {
			k, _, _ := s.data.PeekAt(0)
			heap.Push(h, heapItem[T]{key: k, seriesIdx: i, pos: 0})
		}
	}
	var out []T
	equal := func(a, b T) bool { return !less(a, b) && !less(b, a) }
	for h.Len() > 0 {
		it := heap.Pop(h).(heapItem[T])
		if len(out) == 0 || !equal(out[len(out)-1], it.key) {
			out = append(out, it.key)
		}
		next := it.pos + 1
		s := series[it.seriesIdx]
		if next < s.data.Len() {
			k, _, _ := s.data.PeekAt(next)
			heap.Push(h, heapItem[T]{key: k, seriesIdx: it.seriesIdx, pos: next})
		}
	}
	return out
}

// IterMerge calls yield once per distinct key across all of series, in
// ascending order, with state[i] set to series[i]'s value at that time —
// a single pass that interleaves any number of series into one (t,
// state-vector) stream. Iteration stops early if yield returns false.
// Requires at least one series; all series must share a comparator.
func IterMerge[T any, V any](series []*TimeSeries[T, V], yield func(t T, state []V) bool) error {
	if len(series) == 0 {
		return badArgument("series", "at least one series is required")
	}
	less := series[0].less
	keys := mergeKeysHeap(series, less)
	for _, t := range keys {
		state := make([]V, len(series))
		for i, s := range series {
			state[i] = s.getPrevious(t)
		}
		if !yield(t, state) {
			return nil
		}
	}
	return nil
}

// transition is one series' own stored (key, prevValue, newValue) triple,
// the unit IterMergeTransitions sorts and replays across every series.
type transition[T any, V any] struct {
	t    T
	i    int
	prev V
	next V
}

// IterMergeTransitions calls yield once per recorded measurement across
// all of series, in ascending time order (ties broken by series index),
// with i identifying which series changed and prevV/nextV its value
// immediately before and at that measurement — unlike IterMerge, which
// replays the full state vector at every distinct key, this exposes only
// what actually changed and where, the shape alarms and changelogs over
// a group of series want. prevV is each series' own Default the first
// time it's ever mentioned. Requires at least one series; all series
// must share a comparator.
func IterMergeTransitions[T any, V any](series []*TimeSeries[T, V], yield func(t T, i int, prevV, nextV V) bool) error {
	if len(series) == 0 {
		return badArgument("series", "at least one series is required")
	}
	less := series[0].less
	var all []transition[T, V]
	for i, s := range series {
		prev := s.Default
		s.data.All(func(t T, v V) bool {
			all = append(all, transition[T, V]{t: t, i: i, prev: prev, next: v})
			prev = v
			return true
		})
	}
	sort.SliceStable(all, func(a, b int) bool {
		if less(all[a].t, all[b].t) {
			return true
		}
		if less(all[b].t, all[a].t) {
			return false
		}
		return all[a].i < all[b].i
	})
	for _, tr := range all {
		if !yield(tr.t, tr.i, tr.prev, tr.next) {
			return nil
		}
	}
	return nil
}

// Merge collapses series into a single TimeSeries[T, []V] whose value at
// every distinct key is the full state vector across all inputs: IterMerge's
// stream stored as a series, with the inputs' defaults as its Default. The
// n-ary operations (Operation and the sum/difference/boolean reducers built
// on it) reduce IterMerge's stream directly rather than going through Merge.
func Merge[T any, V any](series []*TimeSeries[T, V]) (*TimeSeries[T, []V], error) {
	if len(series) == 0 {
		return nil, badArgument("series", "at least one series is required")
	}
	defaults := make([]V, len(series))
	for i, s := range series {
		defaults[i] = s.Default
	}
	out := newSeries[T, []V](series[0].less, series[0].sub, nil, defaults)
	err := IterMerge(series, func(t T, state []V) bool {
		cp := append([]V(nil), state...)
		out.data.Insert(t, cp)
		return true
	})
	return out, err
}

package steptrace

import "sort"

// orderedMap is the key-sorted associative container every TimeSeries
// primitive reduces to: find the greatest key <= t, and walk keys in a
// half-open range. A maintained-sorted-slice backing gives true O(log n)
// bisect plus O(1) positional peek for free via sort.Search and slice
// indexing. Histogram (histogram.go) instead backs onto
// github.com/google/btree, since its access pattern — insert-or-accumulate
// plus ascending walk, never positional peek — is the case a tree suits
// better.
type orderedMap[T any, V any] struct {
	less  func(a, b T) bool
	keys  []T
	vals  []V
}

func newOrderedMap[T any, V any](less func(a, b T) bool) *orderedMap[T, V] {
	return &orderedMap[T, V]{less: less}
}

func (m *orderedMap[T, V]) Len() int { return len(m.keys) }

// bisectLeft returns the number of stored keys strictly less than k: the
// insertion point that keeps the slice sorted, preferring the left side
// of any run of keys equal to k.
func (m *orderedMap[T, V]) bisectLeft(k T) int {
	return sort.Search(len(m.keys), func(i int) bool {
		return !m.less(m.keys[i], k)
	})
}

// bisectRight returns the count of stored keys <= k: bisectRight(k)-1 is
// the index of the greatest key <= k, or -1 if none exists.
func (m *orderedMap[T, V]) bisectRight(k T) int {
	return sort.Search(len(m.keys), func(i int) bool {
		return m.less(k, m.keys[i])
	})
}

func (m *orderedMap[T, V]) equal(a, b T) bool {
	return !m.less(a, b) && !m.less(b, a)
}

// floorIndex returns the index of the greatest stored key <= k, or -1.
func (m *orderedMap[T, V]) floorIndex(k T) int {
	return m.bisectRight(k) - 1
}

// Contains reports whether k is stored exactly.
func (m *orderedMap[T, V]) Contains(k T) bool {
	i := m.bisectLeft(k)
	return i < len(m.keys) && m.equal(m.keys[i], k)
}

// Get returns the value stored exactly at k.
func (m *orderedMap[T, V]) Get(k T) (V, bool) {
	i := m.bisectLeft(k)
	if i < len(m.keys) && m.equal(m.keys[i], k) {
		return m.vals[i], true
	}
	var zero V
	return zero, false
}

// Insert stores v at k, overwriting any existing value at that key.
func (m *orderedMap[T, V]) Insert(k T, v V) {
	i := m.bisectLeft(k)
	if i < len(m.keys) && m.equal(m.keys[i], k) {
		m.vals[i] = v
		return
	}
	m.keys = append(m.keys, k)
	copy(m.keys[i+1:], m.keys[i:])
	m.keys[i] = k

	var zero V
	m.vals = append(m.vals, zero)
	copy(m.vals[i+1:], m.vals[i:])
	m.vals[i] = v
}

// Remove deletes the key stored exactly at k, reporting whether it was
// present.
func (m *orderedMap[T, V]) Remove(k T) bool {
	i := m.bisectLeft(k)
	if i >= len(m.keys) || !m.equal(m.keys[i], k) {
		return false
	}
	m.keys = append(m.keys[:i], m.keys[i+1:]...)
	m.vals = append(m.vals[:i], m.vals[i+1:]...)
	return true
}

// PeekAt returns the (key, value) pair stored at position idx, where a
// negative idx counts back from the end (-1 is the last element).
func (m *orderedMap[T, V]) PeekAt(idx int) (T, V, bool) {
	if idx < 0 {
		idx += len(m.keys)
	}
	if idx < 0 || idx >= len(m.keys) {
		var zt T
		var zv V
		return zt, zv, false
	}
	return m.keys[idx], m.vals[idx], true
}

// DeleteRange bulk-removes every stored key k with lo <= k < hi (or with
// the given inclusiveness), in a single structural rearrangement rather
// than one removal at a time.
func (m *orderedMap[T, V]) DeleteRange(lo, hi T, loInclusive, hiInclusive bool) {
	i := m.bisectLeft(lo)
	if !loInclusive {
		for i < len(m.keys) && m.equal(m.keys[i], lo) {
			i++
		}
	}
	j := m.bisectLeft(hi)
	if hiInclusive {
		for j < len(m.keys) && m.equal(m.keys[j], hi) {
			j++
		}
	}
	if i >= j {
		return
	}
	m.keys = append(m.keys[:i], m.keys[j:]...)
	m.vals = append(m.vals[:i], m.vals[j:]...)
}

// IRange calls yield for every stored (key, value) with lo <= k <= hi
// (adjusted by the inclusiveness flags), in key order. Iteration stops
// early if yield returns false.
func (m *orderedMap[T, V]) IRange(lo, hi T, loInclusive, hiInclusive bool, yield func(T, V) bool) {
	i := m.bisectLeft(lo)
	if !loInclusive {
		for i < len(m.keys) && m.equal(m.keys[i], lo) {
			i++
		}
	}
	j := m.bisectRight(hi)
	if !hiInclusive {
		for j > i && m.equal(m.keys[j-1], hi) {
			j--
		}
	}
	for k := i; k < j; k++ {
		if !yield(m.keys[k], m.vals[k]) {
			return
		}
	}
}

// All calls yield for every stored (key, value) in ascending key order.
func (m *orderedMap[T, V]) All(yield func(T, V) bool) {
	for i := range m.keys {
		if !yield(m.keys[i], m.vals[i]) {
			return
		}
	}
}

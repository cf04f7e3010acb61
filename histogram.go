package steptrace

import (
	"math"
	"sort"

	"github.com/google/btree"
)

// Histogram is a duration- or count-weighted multiset of keys, the
// projection of a TimeSeries' periods (or an EventSeries' inter-event
// gaps) onto "how much weight fell on each distinct value" rather than
// "what the value was at each moment".
//
// Backed by github.com/google/btree's generic BTreeG rather than the flat
// sorted slice ordmap.go uses for TimeSeries: a histogram's access
// pattern is insert-or-accumulate (Insert) interleaved with full
// ascending walks (Quantile, Mean, Variance), which a B-tree serves
// without the O(n) slice-insert cost a flat vector would pay on every
// new distinct key.
type Histogram[K any] struct {
	less func(a, b K) bool
	tree *btree.BTreeG[histEntry[K]]
}

type histEntry[K any] struct {
	key    K
	weight float64
}

// NewHistogram builds an empty Histogram ordered by less.
func NewHistogram[K any](less func(a, b K) bool) *Histogram[K] {
	entryLess := func(a, b histEntry[K]) bool { return less(a.key, b.key) }
	return &Histogram[K]{
		less: less,
		tree: btree.NewG(32, entryLess),
	}
}

// NewNumericHistogram builds a Histogram over a cmp.Ordered numeric key.
func NewNumericHistogram[K Number]() *Histogram[K] {
	return NewHistogram[K](func(a, b K) bool { return a < b })
}

// NewHashedHistogram builds a Histogram over a key type with no natural
// total order (e.g. a struct), ordering entries by hash(k) instead. It
// stores and accumulates weights exactly like an ordered Histogram, but
// Quantile's result over it carries no meaning beyond "first/last in
// hash order" — callers after real quantiles need a naturally ordered
// key and NewHistogram/NewNumericHistogram instead.
func NewHashedHistogram[K comparable](hash func(K) string) *Histogram[K] {
	return NewHistogram[K](func(a, b K) bool { return hash(a) < hash(b) })
}

// Insert adds weight (a duration in seconds, or a plain count) to key k.
func (h *Histogram[K]) Insert(k K, weight float64) {
	cur, found := h.tree.Get(histEntry[K]{key: k})
	if found {
		cur.weight += weight
		h.tree.ReplaceOrInsert(cur)
		return
	}
	h.tree.ReplaceOrInsert(histEntry[K]{key: k, weight: weight})
}

// NDistinct returns the number of distinct keys stored.
func (h *Histogram[K]) NDistinct() int { return h.tree.Len() }

// Total returns the sum of every key's weight.
func (h *Histogram[K]) Total() float64 {
	var total float64
	h.tree.Ascend(func(e histEntry[K]) bool {
		total += e.weight
		return true
	})
	return total
}

// Min returns the smallest stored key.
func (h *Histogram[K]) Min() (K, bool) {
	e, ok := h.tree.Min()
	return e.key, ok
}

// Max returns the largest stored key.
func (h *Histogram[K]) Max() (K, bool) {
	e, ok := h.tree.Max()
	return e.key, ok
}

// Mode returns the key with the greatest weight, breaking ties toward the
// smallest key.
func (h *Histogram[K]) Mode() (K, bool) {
	var best histEntry[K]
	found := false
	h.tree.Ascend(func(e histEntry[K]) bool {
		if !found || e.weight > best.weight {
			best, found = e, true
		}
		return true
	})
	return best.key, found
}

// Normalized returns, for every stored key in ascending order, its weight
// divided by the total weight.
func (h *Histogram[K]) Normalized() []struct {
	Key    K
	Weight float64
} {
	total := h.Total()
	var out []struct {
		Key    K
		Weight float64
	}
	h.tree.Ascend(func(e histEntry[K]) bool {
		w := 0.0
		if total > 0 {
			w = e.weight / total
		}
		out = append(out, struct {
			Key    K
			Weight float64
		}{Key: e.key, Weight: w})
		return true
	})
	return out
}

// HistogramMean returns the weighted mean of a numeric histogram's keys.
func HistogramMean[K Number](h *Histogram[K]) (float64, error) {
	total := h.Total()
	if total == 0 {
		return 0, ErrEmptyInput
	}
	var sum float64
	h.tree.Ascend(func(e histEntry[K]) bool {
		sum += float64(e.key) * e.weight
		return true
	})
	return sum / total, nil
}

// HistogramVariance returns the weighted population variance of a
// numeric histogram's keys.
func HistogramVariance[K Number](h *Histogram[K]) (float64, error) {
	total := h.Total()
	if total == 0 {
		return 0, ErrEmptyInput
	}
	mean, _ := HistogramMean(h)
	var sumSq float64
	h.tree.Ascend(func(e histEntry[K]) bool {
		d := float64(e.key) - mean
		sumSq += d * d * e.weight
		return true
	})
	return sumSq / total, nil
}

// HistogramStdDev returns the weighted population standard deviation.
func HistogramStdDev[K Number](h *Histogram[K]) (float64, error) {
	v, err := HistogramVariance(h)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(v), nil
}

// histPoint is one (key, weight) pair read out of the tree in ascending
// order, the common input both quantile modes below interpolate over.
type histPoint struct {
	key    float64
	weight float64
}

func histPoints[K Number](h *Histogram[K]) []histPoint {
	var out []histPoint
	h.tree.Ascend(func(e histEntry[K]) bool {
		out = append(out, histPoint{key: float64(e.key), weight: e.weight})
		return true
	})
	return out
}

// Quantile returns the q-quantile (q in [0, 1]) of a numeric histogram's
// keys. alpha == 0 selects the empirical-CDF inverse: q resolves to the
// smallest key whose cumulative share of the total weight is >= q,
// except that landing exactly on a jump (cumulative share == q) returns
// the average of that key and the next one, per the midpoint
// convention. alpha > 0 selects a piecewise-linear inverse CDF instead,
// interpolating between two control points per key. cMinFloor optionally
// caps the c_min used to build those control points (see
// quantileLinear); omit it to use the histogram's own smallest weight.
func Quantile[K Number](h *Histogram[K], q float64, alpha float64, cMinFloor ...float64) (float64, error) {
	if q < 0 || q > 1 {
		return 0, badArgument("q", "must be in [0, 1]")
	}
	if alpha < 0 || alpha > 1 {
		return 0, badArgument("alpha", "must be in [0, 1]")
	}
	total := h.Total()
	if total == 0 {
		return 0, ErrEmptyInput
	}
	pts := histPoints(h)
	if len(pts) == 0 {
		return 0, ErrEmptyInput
	}
	if alpha == 0 {
		return quantileEmpirical(pts, total, q), nil
	}
	return quantileLinear(pts, total, q, alpha, cMinFloor...), nil
}

// Quantiles is Quantile applied to every entry of qs, reusing one
// ascending walk of h's tree instead of re-walking it once per q.
func Quantiles[K Number](h *Histogram[K], qs []float64, alpha float64, cMinFloor ...float64) ([]float64, error) {
	for _, q := range qs {
		if q < 0 || q > 1 {
			return nil, badArgument("q", "must be in [0, 1]")
		}
	}
	if alpha < 0 || alpha > 1 {
		return nil, badArgument("alpha", "must be in [0, 1]")
	}
	total := h.Total()
	if total == 0 {
		return nil, ErrEmptyInput
	}
	pts := histPoints(h)
	if len(pts) == 0 {
		return nil, ErrEmptyInput
	}
	out := make([]float64, len(qs))
	for i, q := range qs {
		if alpha == 0 {
			out[i] = quantileEmpirical(pts, total, q)
		} else {
			out[i] = quantileLinear(pts, total, q, alpha, cMinFloor...)
		}
	}
	return out, nil
}

// quantileEmpirical is the empirical-CDF inverse with the midpoint-at-
// jump convention: each key occupies a flat plateau of the CDF equal to
// its share of the total weight, and q lands on the first plateau whose
// right edge reaches or exceeds it. When q lands exactly on a plateau's
// right edge (a jump shared by two keys), the result is the average of
// the key below the jump and the key above it, rather than either key
// alone.
func quantileEmpirical(pts []histPoint, total, q float64) float64 {
	if q <= 0 {
		return pts[0].key
	}
	if q >= 1 {
		return pts[len(pts)-1].key
	}
	cum := 0.0
	for i, p := range pts {
		cum += p.weight
		edge := cum / total
		switch {
		case q < edge:
			return p.key
		case q == edge:
			if i+1 < len(pts) {
				return (p.key + pts[i+1].key) / 2
			}
			return p.key
		}
	}
	return pts[len(pts)-1].key
}

// quantileLinear is the piecewise-linear inverse CDF: for each key of
// weight c, with cumBefore the weight accumulated strictly before it,
// two control points are inserted — (cumBefore + alpha*cMin)/total and
// (cumBefore + c - alpha*cMin)/total, both valued at that key — and q is
// linearly interpolated between whichever pair of control points
// bracket it, after being clamped into the range the control points
// cover. cMin is the smallest weight observed across the histogram,
// capped by an optional caller-supplied floor (cMinFloor), whichever is
// smaller.
func quantileLinear(pts []histPoint, total, q, alpha float64, cMinFloor ...float64) float64 {
	cMin := pts[0].weight
	for _, p := range pts[1:] {
		if p.weight < cMin {
			cMin = p.weight
		}
	}
	if len(cMinFloor) > 0 && cMinFloor[0] < cMin {
		cMin = cMinFloor[0]
	}

	type cp struct {
		pos, val float64
	}
	points := make([]cp, 0, len(pts)*2)
	cumBefore := 0.0
	for _, p := range pts {
		left := (cumBefore + alpha*cMin) / total
		right := (cumBefore + p.weight - alpha*cMin) / total
		points = append(points, cp{pos: left, val: p.key}, cp{pos: right, val: p.key})
		cumBefore += p.weight
	}
	// A key's own two control points can cross (right < left) when alpha
	// is large relative to its weight, e.g. alpha=1 on the key that sets
	// cMin itself; sorting by position keeps the interpolation below
	// well-defined regardless.
	sort.SliceStable(points, func(i, j int) bool { return points[i].pos < points[j].pos })

	qc := q
	if qc < points[0].pos {
		qc = points[0].pos
	}
	if qc > points[len(points)-1].pos {
		qc = points[len(points)-1].pos
	}
	idx := sort.Search(len(points), func(i int) bool { return points[i].pos >= qc })
	if idx == 0 {
		return points[0].val
	}
	if idx >= len(points) {
		return points[len(points)-1].val
	}
	lo, hi := points[idx-1], points[idx]
	if hi.pos == lo.pos {
		return lo.val
	}
	frac := (qc - lo.pos) / (hi.pos - lo.pos)
	return lo.val + frac*(hi.val-lo.val)
}

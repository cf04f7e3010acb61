package steptrace

// Operation merges series and evaluates reduce over the state vector at
// every distinct key, compacting the result so that consecutive
// equal-value periods collapse to one key. Every binary and n-ary
// TimeSeries operation (sum, product, logical combinators) is built on
// top of Operation with a specific reducer. All input series must share
// a comparator; the result's Default is reduce applied to every input's
// Default.
func Operation[T any, U any](series []*TimeSeries[T, Option[U]], reduce func([]Option[U]) Option[U]) (*TimeSeries[T, Option[U]], error) {
	if len(series) == 0 {
		return nil, badArgument("series", "at least one series is required")
	}
	defaults := make([]Option[U], len(series))
	for i, s := range series {
		defaults[i] = s.Default
	}
	out := newSeries[T, Option[U]](series[0].less, series[0].sub, nil, reduce(defaults))
	err := IterMerge(series, func(t T, state []Option[U]) bool {
		out.setWithEq(t, reduce(state), true, optionEqual[U])
		return true
	})
	return out, err
}

// OperationScalar is spec's "other is a constant" half of the operation
// primitive: it leaves ts's keys untouched and maps every stored value
// (and Default) through fn(v, scalar), unlike Operation/the series-pair
// form, which unions the keys of two TimeSeries via the merge engine. An
// invalid measurement stays invalid rather than being combined with
// scalar.
func OperationScalar[T any, U any](ts *TimeSeries[T, Option[U]], scalar U, fn func(v, scalar U) U) *TimeSeries[T, Option[U]] {
	out := newSeries[T, Option[U]](ts.less, ts.sub, nil, mapScalarOption(ts.Default, scalar, fn))
	ts.data.All(func(t T, v Option[U]) bool {
		out.data.Insert(t, mapScalarOption(v, scalar, fn))
		return true
	})
	return out
}

func mapScalarOption[U any](v Option[U], scalar U, fn func(a, b U) U) Option[U] {
	if !v.Valid {
		return v
	}
	return Some(fn(v.Value, scalar))
}

func optionEqual[U any](a, b Option[U]) bool {
	if a.Valid != b.Valid {
		return false
	}
	if !a.Valid {
		return true
	}
	return any(a.Value) == any(b.Value)
}

// productIgnorant multiplies every valid value in values, skipping
// invalid ones; all-invalid yields the multiplicative identity, 1 (the
// product of an empty sequence), not invalid.
func productIgnorant[V Number](values []Option[V]) Option[V] {
	var total V = 1
	for _, v := range values {
		if v.Valid {
			total *= v.Value
		}
	}
	return Some(total)
}

// productStrict multiplies values, propagating invalid on the first one.
func productStrict[V Number](values []Option[V]) Option[V] {
	var total V = 1
	for _, v := range values {
		if !v.Valid {
			return None[V]()
		}
		total *= v.Value
	}
	return Some(total)
}

// Sum reduces series into their running total. ignorant controls how a
// None in any input series is treated: true skips it, false propagates
// it to the result (strict).
func Sum[T any, V Number](ignorant bool, series []*TimeSeries[T, Option[V]]) (*TimeSeries[T, Option[V]], error) {
	reduce := sumStrict[V]
	if ignorant {
		reduce = sumIgnorant[V]
	}
	return Operation(series, reduce)
}

// Multiply reduces series into their running product, with the same
// ignorant/strict None semantics as Sum.
func Multiply[T any, V Number](ignorant bool, series []*TimeSeries[T, Option[V]]) (*TimeSeries[T, Option[V]], error) {
	reduce := productStrict[V]
	if ignorant {
		reduce = productIgnorant[V]
	}
	return Operation(series, reduce)
}

// Difference computes minuend - subtrahend at every distinct key. A None
// on either side yields None; it is always strict, since subtraction has
// no sensible ignorant interpretation.
func Difference[T any, V Number](minuend, subtrahend *TimeSeries[T, Option[V]]) (*TimeSeries[T, Option[V]], error) {
	reduce := func(values []Option[V]) Option[V] {
		a, b := values[0], values[1]
		if !a.Valid || !b.Valid {
			return None[V]()
		}
		return Some(a.Value - b.Value)
	}
	return Operation([]*TimeSeries[T, Option[V]]{minuend, subtrahend}, reduce)
}

// andIgnorant is true only if every valid input is true (invalid inputs
// are skipped, not treated as false), and invalid only when every input
// is invalid.
func andIgnorant(values []Option[bool]) Option[bool] {
	any_ := false
	for _, v := range values {
		if !v.Valid {
			continue
		}
		any_ = true
		if !v.Value {
			return Some(false)
		}
	}
	if !any_ {
		return None[bool]()
	}
	return Some(true)
}

// andStrict is true only when every input is valid and true.
func andStrict(values []Option[bool]) Option[bool] {
	for _, v := range values {
		if !v.Valid {
			return None[bool]()
		}
		if !v.Value {
			return Some(false)
		}
	}
	return Some(true)
}

// orIgnorant is true as soon as any valid input is true, false when every
// valid input is false, invalid only when every input is invalid.
func orIgnorant(values []Option[bool]) Option[bool] {
	any_ := false
	for _, v := range values {
		if !v.Valid {
			continue
		}
		any_ = true
		if v.Value {
			return Some(true)
		}
	}
	if !any_ {
		return None[bool]()
	}
	return Some(false)
}

// orStrict requires every input valid; true if any is true.
func orStrict(values []Option[bool]) Option[bool] {
	any_ := false
	for _, v := range values {
		if !v.Valid {
			return None[bool]()
		}
		any_ = any_ || v.Value
	}
	return Some(any_)
}

// xorStrict is the parity of its (all-valid) inputs.
func xorStrict(values []Option[bool]) Option[bool] {
	acc := false
	for _, v := range values {
		if !v.Valid {
			return None[bool]()
		}
		acc = acc != v.Value
	}
	return Some(acc)
}

// LogicalAnd, LogicalOr and LogicalXor combine boolean series the same
// way Sum combines numeric ones. Xor has no ignorant form here (parity
// is undefined with missing operands), so it is always strict.
func LogicalAnd[T any](ignorant bool, series []*TimeSeries[T, Option[bool]]) (*TimeSeries[T, Option[bool]], error) {
	reduce := andStrict
	if ignorant {
		reduce = andIgnorant
	}
	return Operation(series, reduce)
}

func LogicalOr[T any](ignorant bool, series []*TimeSeries[T, Option[bool]]) (*TimeSeries[T, Option[bool]], error) {
	reduce := orStrict
	if ignorant {
		reduce = orIgnorant
	}
	return Operation(series, reduce)
}

func LogicalXor[T any](series []*TimeSeries[T, Option[bool]]) (*TimeSeries[T, Option[bool]], error) {
	return Operation(series, xorStrict)
}

// ToBool maps ts through truthy, treating an invalid measurement as
// noneValue. invert flips the resulting boolean wherever truthy did
// produce a value, leaving noneValue itself untouched.
func ToBool[T any, V any](ts *TimeSeries[T, Option[V]], truthy func(V) bool, noneValue Option[bool], invert bool) *TimeSeries[T, Option[bool]] {
	out := newSeries[T, Option[bool]](ts.less, ts.sub, nil, mapOptionBool(ts.Default, truthy, noneValue, invert))
	ts.data.All(func(t T, v Option[V]) bool {
		out.data.Insert(t, mapOptionBool(v, truthy, noneValue, invert))
		return true
	})
	out.Compact()
	return out
}

func mapOptionBool[V any](v Option[V], truthy func(V) bool, noneValue Option[bool], invert bool) Option[bool] {
	if !v.Valid {
		return noneValue
	}
	b := truthy(v.Value)
	if invert {
		b = !b
	}
	return Some(b)
}

// Threshold produces a boolean series that is true wherever ts's value
// exceeds value (or meets or exceeds it, when inclusive is true), the
// basis for alarm/occupancy derivations over a raw numeric signal.
// invert flips the comparison's result, e.g. to build "below threshold"
// out of the same single constant.
func Threshold[T any, V Number](ts *TimeSeries[T, Option[V]], value V, inclusive bool, invert bool) *TimeSeries[T, Option[bool]] {
	exceeds := func(v V) bool {
		if inclusive {
			return v >= value
		}
		return v > value
	}
	return ToBool(ts, exceeds, Some(false), invert)
}

package steptrace

import "testing"

func TestIterPeriodsBasic(t *testing.T) {
	ts := New[int, string]("z")
	ts.Set(0, "a", false)
	ts.Set(5, "b", false)
	ts.Set(10, "c", false)

	periods, err := ts.Periods(nil, nil)
	if err != nil {
		t.Fatalf("Periods: %v", err)
	}
	want := []Period[int, string]{
		{T0: 0, T1: 5, V: "a"},
		{T0: 5, T1: 10, V: "b"},
	}
	if len(periods) != len(want) {
		t.Fatalf("got %d periods, want %d: %+v", len(periods), len(want), periods)
	}
	for i := range want {
		if periods[i] != want[i] {
			t.Errorf("period %d = %+v, want %+v", i, periods[i], want[i])
		}
	}
}

func TestIterPeriodsClipsToBounds(t *testing.T) {
	ts := New[int, string]("z")
	ts.Set(0, "a", false)
	ts.Set(5, "b", false)
	ts.Set(10, "c", false)

	start, end := 2, 8
	periods, err := ts.Periods(&start, &end)
	if err != nil {
		t.Fatalf("Periods: %v", err)
	}
	want := []Period[int, string]{
		{T0: 2, T1: 5, V: "a"},
		{T0: 5, T1: 8, V: "b"},
	}
	if len(periods) != len(want) {
		t.Fatalf("got %+v, want %+v", periods, want)
	}
	for i := range want {
		if periods[i] != want[i] {
			t.Errorf("period %d = %+v, want %+v", i, periods[i], want[i])
		}
	}
}

func TestIterPeriodsDegenerateSkipped(t *testing.T) {
	ts := New[int, string]("z")
	ts.Set(0, "a", false)
	ts.Set(5, "b", false)

	start, end := 0, 5
	periods, err := ts.Periods(&start, &end)
	if err != nil {
		t.Fatalf("Periods: %v", err)
	}
	if len(periods) != 1 || periods[0].V != "a" {
		t.Fatalf("got %+v, want a single period with value a", periods)
	}
}

func TestIterPeriodsFilterByValue(t *testing.T) {
	ts := New[int, string]("z")
	ts.Set(0, "a", false)
	ts.Set(5, "b", false)
	ts.Set(10, "a", false)
	ts.Set(15, "c", false)

	var got []Period[int, string]
	err := ts.IterPeriodsFilter(nil, nil, FilterEqual[int, string]("a", nil), func(p Period[int, string]) bool {
		got = append(got, p)
		return true
	})
	if err != nil {
		t.Fatalf("IterPeriodsFilter: %v", err)
	}
	want := []Period[int, string]{
		{T0: 0, T1: 5, V: "a"},
		{T0: 10, T1: 15, V: "a"},
	}
	if len(got) != len(want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("period %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestIterPeriodsFilterPredicateOnBounds(t *testing.T) {
	ts := New[int, string]("z")
	ts.Set(0, "a", false)
	ts.Set(5, "b", false)
	ts.Set(12, "c", false)

	var got []Period[int, string]
	wide := func(p Period[int, string]) bool { return p.T1-p.T0 > 6 }
	err := ts.IterPeriodsFilter(nil, nil, wide, func(p Period[int, string]) bool {
		got = append(got, p)
		return true
	})
	if err != nil {
		t.Fatalf("IterPeriodsFilter: %v", err)
	}
	if len(got) != 1 || got[0].V != "b" {
		t.Fatalf("got %+v, want a single wide period with value b", got)
	}
}

func TestSlice(t *testing.T) {
	ts := New[int, string]("z")
	ts.Set(0, "a", false)
	ts.Set(5, "b", false)
	ts.Set(10, "c", false)

	sliced, err := ts.Slice(3, 8)
	if err != nil {
		t.Fatalf("Slice: %v", err)
	}
	v, _ := sliced.Get(3, Previous)
	if v != "a" {
		t.Fatalf("Get(3) = %q, want a", v)
	}
	v, _ = sliced.Get(5, Previous)
	if v != "b" {
		t.Fatalf("Get(5) = %q, want b", v)
	}
}

func TestSliceKeepsAKeyLandingExactlyOnEnd(t *testing.T) {
	ts := New[int, string]("z")
	ts.Set(0, "a", false)
	ts.Set(5, "b", false)
	ts.Set(10, "c", false)

	sliced, err := ts.Slice(0, 10)
	if err != nil {
		t.Fatalf("Slice: %v", err)
	}
	v, ok := sliced.data.Get(10)
	if !ok || v != "c" {
		t.Fatalf("sliced key at end=10 = %q, %v, want c, true", v, ok)
	}
}

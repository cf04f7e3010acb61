package steptrace

import "testing"

func TestMergeKeysFlatAndHeapAgree(t *testing.T) {
	a := New[int, int](0)
	a.Set(1, 1, false)
	a.Set(5, 1, false)
	b := New[int, int](0)
	b.Set(2, 1, false)
	b.Set(5, 1, false)
	c := New[int, int](0)
	c.Set(0, 1, false)
	c.Set(3, 1, false)

	series := []*TimeSeries[int, int]{a, b, c}
	flat := mergeKeysFlat(series, intLess)
	heap := mergeKeysHeap(series, intLess)

	if len(flat) != len(heap) {
		t.Fatalf("flat=%v heap=%v disagree on length", flat, heap)
	}
	for i := range flat {
		if flat[i] != heap[i] {
			t.Fatalf("flat=%v heap=%v disagree at index %d", flat, heap, i)
		}
	}
	want := []int{0, 1, 2, 3, 5}
	if len(flat) != len(want) {
		t.Fatalf("got %v, want %v", flat, want)
	}
	for i := range want {
		if flat[i] != want[i] {
			t.Fatalf("got %v, want %v", flat, want)
		}
	}
}

func TestIterMergeStateVector(t *testing.T) {
	a := New[int, string]("")
	a.Set(0, "a0", false)
	a.Set(10, "a1", false)
	b := New[int, string]("")
	b.Set(5, "b0", false)

	var gotTimes []int
	var gotStates [][]string
	err := IterMerge([]*TimeSeries[int, string]{a, b}, func(t int, state []string) bool {
		gotTimes = append(gotTimes, t)
		gotStates = append(gotStates, append([]string(nil), state...))
		return true
	})
	if err != nil {
		t.Fatalf("IterMerge: %v", err)
	}
	wantTimes := []int{0, 5, 10}
	if len(gotTimes) != len(wantTimes) {
		t.Fatalf("got times %v, want %v", gotTimes, wantTimes)
	}
	for i, tm := range wantTimes {
		if gotTimes[i] != tm {
			t.Fatalf("got times %v, want %v", gotTimes, wantTimes)
		}
	}
	want := [][]string{
		{"a0", ""},
		{"a0", "b0"},
		{"a1", "b0"},
	}
	for i := range want {
		if gotStates[i][0] != want[i][0] || gotStates[i][1] != want[i][1] {
			t.Errorf("state[%d] = %v, want %v", i, gotStates[i], want[i])
		}
	}
}

func TestIterMergeTransitions(t *testing.T) {
	a := New[int, string]("")
	a.Set(0, "a0", false)
	a.Set(10, "a1", false)
	b := New[int, string]("")
	b.Set(5, "b0", false)

	type got struct {
		t    int
		i    int
		prev string
		next string
	}
	var gots []got
	err := IterMergeTransitions([]*TimeSeries[int, string]{a, b}, func(t int, i int, prevV, nextV string) bool {
		gots = append(gots, got{t, i, prevV, nextV})
		return true
	})
	if err != nil {
		t.Fatalf("IterMergeTransitions: %v", err)
	}
	want := []got{
		{0, 0, "", "a0"},
		{5, 1, "", "b0"},
		{10, 0, "a0", "a1"},
	}
	if len(gots) != len(want) {
		t.Fatalf("got %+v, want %+v", gots, want)
	}
	for i := range want {
		if gots[i] != want[i] {
			t.Fatalf("transition[%d] = %+v, want %+v", i, gots[i], want[i])
		}
	}
}

func TestIterMergeTransitionsStopsEarly(t *testing.T) {
	a := New[int, int](0)
	a.Set(1, 1, false)
	a.Set(2, 2, false)
	a.Set(3, 3, false)

	n := 0
	err := IterMergeTransitions([]*TimeSeries[int, int]{a}, func(t int, i int, prevV, nextV int) bool {
		n++
		return n < 2
	})
	if err != nil {
		t.Fatalf("IterMergeTransitions: %v", err)
	}
	if n != 2 {
		t.Fatalf("n = %d, want 2 (yield stopped early)", n)
	}
}

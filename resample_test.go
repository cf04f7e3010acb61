package steptrace

import (
	"testing"
	"time"
)

func TestSampleAtExactAndBetweenKeys(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ts := NewTimeNumeric[float64](0)
	ts.Set(base, 1, false)
	ts.Set(base.Add(2*time.Hour), 2, false)

	times := []time.Time{base, base.Add(1 * time.Hour), base.Add(2 * time.Hour)}
	got, err := SampleAt(ts, times, Previous)
	if err != nil {
		t.Fatalf("SampleAt: %v", err)
	}
	want := []float64{1, 1, 2}
	for i, w := range want {
		if got[i].V != w {
			t.Errorf("sample %d = %v, want %v", i, got[i].V, w)
		}
	}
}

func TestSampleTicks(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ts := NewTimeNumeric[float64](0)
	ts.Set(base, 5, false)

	got, err := Sample(ts, base, base.Add(2*time.Hour), time.Hour, Previous)
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d samples, want 3", len(got))
	}
	for _, p := range got {
		if p.V != 5 {
			t.Errorf("sample at %v = %v, want 5", p.T, p.V)
		}
	}
}

func TestBinReducesToMean(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ts := NewTimeNumeric[float64](0)
	ts.Set(base, 0, false)
	ts.Set(base.Add(30*time.Minute), 10, false)

	reduceMean := func(h *Histogram[float64]) float64 {
		m, err := HistogramMean(h)
		if err != nil {
			return 0
		}
		return m
	}

	binned, err := Bin(ts, base, base.Add(1*time.Hour), time.Hour, func(a, b float64) bool { return a < b }, reduceMean)
	if err != nil {
		t.Fatalf("Bin: %v", err)
	}
	v, _ := binned.Get(base, Previous)
	if v != 5.0 {
		t.Fatalf("binned mean = %v, want 5.0", v)
	}
}

func TestTicksRejectsBadInput(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if _, err := ticks(base, base.Add(time.Hour), 0); err == nil {
		t.Fatalf("ticks with non-positive period should error")
	}
	if _, err := ticks(base.Add(time.Hour), base, time.Minute); err == nil {
		t.Fatalf("ticks with end before start should error")
	}
	if _, err := ticks(base, base.Add(time.Hour), 2*time.Hour); err == nil {
		t.Fatalf("ticks with period exceeding the span should error")
	}
}

func TestSampleIntervalMeanMaxMin(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ts := NewTimeNumeric[float64](0)
	ts.Set(base, 0, false)
	ts.Set(base.Add(30*time.Minute), 10, false)

	mean, err := SampleInterval(ts, ReduceMean, base, base.Add(time.Hour), time.Hour, nil)
	if err != nil {
		t.Fatalf("SampleInterval mean: %v", err)
	}
	if len(mean) != 1 || mean[0].V != 5.0 {
		t.Fatalf("mean = %+v, want [{_, 5.0}]", mean)
	}

	max, err := SampleInterval(ts, ReduceMax, base, base.Add(time.Hour), time.Hour, nil)
	if err != nil {
		t.Fatalf("SampleInterval max: %v", err)
	}
	if len(max) != 1 || max[0].V != 10.0 {
		t.Fatalf("max = %+v, want [{_, 10.0}]", max)
	}

	min, err := SampleInterval(ts, ReduceMin, base, base.Add(time.Hour), time.Hour, nil)
	if err != nil {
		t.Fatalf("SampleInterval min: %v", err)
	}
	if len(min) != 1 || min[0].V != 0.0 {
		t.Fatalf("min = %+v, want [{_, 0.0}]", min)
	}
}

func TestSampleIntervalCarriesForwardWhenNoNewTransition(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ts := NewTimeNumeric[float64](0)
	ts.Set(base, 7, false)

	got, err := SampleInterval(ts, ReduceMean, base, base.Add(3*time.Hour), time.Hour, nil)
	if err != nil {
		t.Fatalf("SampleInterval: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d intervals, want 3", len(got))
	}
	for _, p := range got {
		if p.V != 7.0 {
			t.Errorf("interval at %v = %v, want 7.0 carried forward", p.T, p.V)
		}
	}
}

func TestBinByUnitFloorsStartToCalendarBoundary(t *testing.T) {
	start := time.Date(2024, 3, 15, 13, 0, 0, 0, time.UTC)
	end := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	ts := NewTimeNumeric[float64](0)
	ts.Set(start, 1, false)
	ts.Set(time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), 3, false)

	reduceMean := func(h *Histogram[float64]) float64 {
		m, err := HistogramMean(h)
		if err != nil {
			return 0
		}
		return m
	}

	binned, err := BinByUnit(ts, Months, 1, &start, &end, nil, func(a, b float64) bool { return a < b }, reduceMean)
	if err != nil {
		t.Fatalf("BinByUnit: %v", err)
	}
	marchStart := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	if _, ok := binned.data.Get(marchStart); !ok {
		t.Fatalf("expected a bucket floored to %v, keys=%v", marchStart, binned.Items())
	}
	aprilStart := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	v, ok := binned.data.Get(aprilStart)
	if !ok || v != 3 {
		t.Fatalf("april bucket = %v, %v; want 3, true", v, ok)
	}
}

func TestRebinByUnitSumsFinerBucketsWithoutRevisitingSource(t *testing.T) {
	fine := NewTime[float64](0)
	fine.Set(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 1, false)
	fine.Set(time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC), 2, false)
	fine.Set(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), 3, false)
	fine.Set(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), 4, false)

	coarse, err := RebinByUnit(fine, Months, 1, func(acc, v float64) float64 { return acc + v }, 0)
	if err != nil {
		t.Fatalf("RebinByUnit: %v", err)
	}
	jan := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	janV, _ := coarse.data.Get(jan)
	if janV != 6 {
		t.Fatalf("january bucket = %v, want 6 (1+2+3)", janV)
	}
	febV, _ := coarse.data.Get(feb)
	if febV != 4 {
		t.Fatalf("february bucket = %v, want 4", febV)
	}
}

func TestSampleIntervalUsesIndexBoundariesOverPeriod(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ts := NewTimeNumeric[float64](0)
	ts.Set(base, 1, false)
	ts.Set(base.Add(90*time.Minute), 9, false)

	index := []time.Time{base, base.Add(time.Hour), base.Add(2 * time.Hour)}
	got, err := SampleInterval(ts, ReduceMean, time.Time{}, time.Time{}, time.Minute, index)
	if err != nil {
		t.Fatalf("SampleInterval: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d intervals, want 2 (index length - 1)", len(got))
	}
	if got[0].V != 1.0 {
		t.Fatalf("interval[0] = %v, want 1.0 (no transition yet)", got[0].V)
	}
	if got[1].V != 5.0 {
		t.Fatalf("interval[1] = %v, want 5.0 (30min at 1, 30min at 9)", got[1].V)
	}
}

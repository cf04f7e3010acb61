package steptrace

import (
	"testing"
	"time"
)

func TestMeanWeightsByDuration(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ts := NewTimeNumeric[float64](0)
	ts.Set(base, 0, false)
	ts.Set(base.Add(1*time.Hour), 10, false)
	ts.Set(base.Add(4*time.Hour), 0, false) // value 10 lasts 3x as long as value 0

	start := base
	end := base.Add(4 * time.Hour)
	mean, err := Mean(ts, &start, &end, nil)
	if err != nil {
		t.Fatalf("Mean: %v", err)
	}
	// 1 hour at 0, 3 hours at 10 -> (0*1 + 10*3)/4 = 7.5
	if mean != 7.5 {
		t.Fatalf("Mean() = %v, want 7.5", mean)
	}
}

func TestMeanWithMask(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ts := NewTimeNumeric[float64](0)
	ts.Set(base, 0, false)
	ts.Set(base.Add(1*time.Hour), 10, false)

	mask := newSeries[time.Time, Option[bool]](
		func(a, b time.Time) bool { return a.Before(b) },
		func(t1, t0 time.Time) float64 { return t1.Sub(t0).Seconds() },
		nil, Some(false),
	)
	mask.data.Insert(base.Add(1*time.Hour), Some(true))
	mask.data.Insert(base.Add(2*time.Hour), Some(false))

	start := base
	end := base.Add(3 * time.Hour)
	mean, err := Mean(ts, &start, &end, mask)
	if err != nil {
		t.Fatalf("Mean: %v", err)
	}
	if mean != 10.0 {
		t.Fatalf("Mean() with mask = %v, want 10.0 (only the masked hour counts)", mean)
	}
}

func TestDistributionAndNPoints(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ts := NewTimeNumeric[float64](0)
	ts.Set(base, 1, false)
	ts.Set(base.Add(1*time.Hour), 2, false)
	ts.Set(base.Add(2*time.Hour), 1, false)

	start := base
	end := base.Add(3 * time.Hour)
	n, err := NPoints(ts, &start, &end)
	if err != nil {
		t.Fatalf("NPoints: %v", err)
	}
	if n != 3 {
		t.Fatalf("NPoints() = %d, want 3", n)
	}

	dist, err := Distribution(ts, &start, &end, nil, func(a, b float64) bool { return a < b })
	if err != nil {
		t.Fatalf("Distribution: %v", err)
	}
	if dist.Total() != 3*3600 {
		t.Fatalf("Distribution total = %v, want %v", dist.Total(), 3*3600)
	}
}

func TestDistributionByHourOfDay(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ts := NewTimeNumeric[float64](0)
	ts.Set(base.Add(1*time.Hour), 5, false)
	ts.Set(base.Add(2*time.Hour), 0, false)

	start := base
	end := base.Add(3 * time.Hour)
	byHour, err := DistributionByHourOfDay(ts, &start, &end, nil, func(a, b float64) bool { return a < b })
	if err != nil {
		t.Fatalf("DistributionByHourOfDay: %v", err)
	}
	h, ok := byHour[1]
	if !ok {
		t.Fatalf("missing hour 1 bucket: %+v", byHour)
	}
	if h.Total() != 3600 {
		t.Fatalf("hour 1 total = %v, want 3600", h.Total())
	}
}

func TestDistributionByWeekday(t *testing.T) {
	// 2024-01-01 is a Monday.
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ts := NewTimeNumeric[float64](0)
	ts.Set(base, 5, false)
	ts.Set(base.Add(24*time.Hour), 0, false) // value 5 holds for all of Monday

	start := base
	end := base.Add(24 * time.Hour)
	byDay, err := DistributionByWeekday(ts, &start, &end, nil, func(a, b float64) bool { return a < b })
	if err != nil {
		t.Fatalf("DistributionByWeekday: %v", err)
	}
	h, ok := byDay[time.Monday]
	if !ok {
		t.Fatalf("missing Monday bucket: %+v", byDay)
	}
	if h.Total() != 24*3600 {
		t.Fatalf("Monday total = %v, want %v", h.Total(), 24*3600)
	}
	if _, ok := byDay[time.Tuesday]; ok {
		t.Fatalf("unexpected Tuesday bucket: %+v", byDay)
	}
}

func TestWindowOfUndefined(t *testing.T) {
	ts := NewTimeNumeric[float64](0)
	if _, _, err := windowOf(ts, nil, nil, nil); err != ErrUndefinedWindow {
		t.Fatalf("windowOf on empty series = %v, want ErrUndefinedWindow", err)
	}
}

func TestWindowOfFallsBackToMask(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ts := NewTimeNumeric[float64](0)
	mask := NewTime[Option[bool]](Some(true))
	mask.Set(base, Some(true), false)
	mask.Set(base.Add(24*time.Hour), Some(false), false)

	s, e, err := windowOf(ts, nil, nil, mask)
	if err != nil {
		t.Fatalf("windowOf: %v", err)
	}
	if !s.Equal(base) || !e.Equal(base.Add(24*time.Hour)) {
		t.Fatalf("windowOf = (%v, %v), want mask's own extent (%v, %v)", s, e, base, base.Add(24*time.Hour))
	}
}

package steptrace

import "time"

// TimeUnit names a calendar or clock granularity for DurationToNumber and
// FloorTime: durations over wall-clock time are always seconds
// internally, but callers regularly want to think and bucket in other
// units.
type TimeUnit int

const (
	Seconds TimeUnit = iota
	Minutes
	Hours
	Days
	Weeks
	Months
	Years
)

// DurationToNumber converts d into a count of unit, using calendar-average
// month/year lengths (30.436875 and 365.2425 days) for Months/Years since
// a plain time.Duration carries no notion of a specific calendar date.
func DurationToNumber(d time.Duration, unit TimeUnit) float64 {
	switch unit {
	case Seconds:
		return d.Seconds()
	case Minutes:
		return d.Minutes()
	case Hours:
		return d.Hours()
	case Days:
		return d.Hours() / 24
	case Weeks:
		return d.Hours() / 24 / 7
	case Months:
		return d.Hours() / 24 / 30.436875
	case Years:
		return d.Hours() / 24 / 365.2425
	default:
		return d.Seconds()
	}
}

// floorDiv is integer division that rounds toward negative infinity
// (Go's own / truncates toward zero), needed so FloorTime floors
// correctly for dates before its calendar origin.
func floorDiv(a, n int) int {
	q := a / n
	if a%n != 0 && (a < 0) != (n < 0) {
		q--
	}
	return q
}

// FloorTime rounds t down to the nearest multiple of n units, calendar-
// aware for Weeks (weeks start Monday), Months and Years (both anchored
// at year 0), producing aligned bucket boundaries for Bin/Rebin over
// calendar units rather than fixed clock durations.
func FloorTime(t time.Time, unit TimeUnit, n int) (time.Time, error) {
	if n <= 0 {
		return time.Time{}, badArgument("n", "must be positive")
	}
	loc := t.Location()
	switch unit {
	case Seconds:
		return t.Truncate(time.Duration(n) * time.Second), nil
	case Minutes:
		return t.Truncate(time.Duration(n) * time.Minute), nil
	case Hours:
		return t.Truncate(time.Duration(n) * time.Hour), nil
	case Days:
		y, m, d := t.Date()
		dayStart := time.Date(y, m, d, 0, 0, 0, 0, loc)
		epoch := time.Date(1970, 1, 1, 0, 0, 0, 0, loc)
		days := int(dayStart.Sub(epoch).Hours() / 24)
		return epoch.AddDate(0, 0, floorDiv(days, n)*n), nil
	case Weeks:
		y, m, d := t.Date()
		dayStart := time.Date(y, m, d, 0, 0, 0, 0, loc)
		daysSinceMonday := (int(dayStart.Weekday()) + 6) % 7
		monday := dayStart.AddDate(0, 0, -daysSinceMonday)
		epochMonday := time.Date(1970, 1, 5, 0, 0, 0, 0, loc) // a Monday
		weeks := int(monday.Sub(epochMonday).Hours() / 24 / 7)
		return epochMonday.AddDate(0, 0, floorDiv(weeks, n)*7*n), nil
	case Months:
		y, m, _ := t.Date()
		totalMonths := y*12 + int(m) - 1
		floored := floorDiv(totalMonths, n) * n
		fy := floorDiv(floored, 12)
		fm := floored - fy*12
		return time.Date(fy, time.Month(fm+1), 1, 0, 0, 0, 0, loc), nil
	case Years:
		y, _, _ := t.Date()
		floored := floorDiv(y, n) * n
		return time.Date(floored, time.January, 1, 0, 0, 0, 0, loc), nil
	default:
		return time.Time{}, badArgument("unit", "unknown time unit")
	}
}

// AddUnits steps t forward by n units of unit, calendar-aware the same way
// FloorTime is (Months/Years add whole calendar months/years rather than
// an averaged Duration), so that repeatedly flooring-then-adding lands
// back on the next bin boundary exactly. n may be negative.
func AddUnits(t time.Time, unit TimeUnit, n int) (time.Time, error) {
	switch unit {
	case Seconds:
		return t.Add(time.Duration(n) * time.Second), nil
	case Minutes:
		return t.Add(time.Duration(n) * time.Minute), nil
	case Hours:
		return t.Add(time.Duration(n) * time.Hour), nil
	case Days:
		return t.AddDate(0, 0, n), nil
	case Weeks:
		return t.AddDate(0, 0, 7*n), nil
	case Months:
		return t.AddDate(0, n, 0), nil
	case Years:
		return t.AddDate(n, 0, 0), nil
	default:
		return time.Time{}, badArgument("unit", "unknown time unit")
	}
}

package steptrace

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"
)

// DefaultCSVTimeLayout is the ISO-8601-like default time format spec.md
// §6 names for CSV ingestion when no TimeParseFunc is supplied.
const DefaultCSVTimeLayout = "2006-01-02 15:04:05"

// TimeParseFunc parses one CSV field into a time.Time.
type TimeParseFunc func(field string) (time.Time, error)

// ValueParseFunc parses one CSV field into a float64.
type ValueParseFunc func(field string) (float64, error)

func defaultTimeParse(field string) (time.Time, error) {
	return time.Parse(DefaultCSVTimeLayout, field)
}

func defaultValueParse(field string) (float64, error) {
	return strconv.ParseFloat(field, 64)
}

// LoadCSVTimeSeries reads every row of r into a new TimeSeries, taking the
// time from column timeCol and the value from column valueCol (other
// columns are ignored); timeParse/valueParse default to
// DefaultCSVTimeLayout and strconv.ParseFloat when nil. Values are always
// float64: there is no default that keeps the raw field string, and a
// non-numeric value field is an error unless valueParse handles it.
// skipHeader drops the first
// row before parsing. Rows are set in file order, so a duplicate key
// resolves to its last-seen value, per Set's own semantics. Serialization
// formats sit at the library's edge rather than in its core engine, so
// stdlib encoding/csv is enough for it.
func LoadCSVTimeSeries(r io.Reader, timeCol, valueCol int, timeParse TimeParseFunc, valueParse ValueParseFunc, skipHeader bool, def float64) (*TimeSeries[time.Time, float64], error) {
	if timeCol < 0 || valueCol < 0 {
		return nil, badArgument("timeCol,valueCol", "column indices must be non-negative")
	}
	if timeParse == nil {
		timeParse = defaultTimeParse
	}
	if valueParse == nil {
		valueParse = defaultValueParse
	}
	cr := csv.NewReader(r)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if skipHeader && len(records) > 0 {
		records = records[1:]
	}
	out := NewTimeNumeric[float64](def)
	for _, rec := range records {
		if timeCol >= len(rec) || valueCol >= len(rec) {
			continue
		}
		t, err := timeParse(rec[timeCol])
		if err != nil {
			return nil, err
		}
		v, err := valueParse(rec[valueCol])
		if err != nil {
			return nil, err
		}
		out.Set(t, v, false)
	}
	return out, nil
}

// WriteCSVTimeSeries writes ts's stored measurements to w as (time, value)
// rows, formatting the time column with layout (DefaultCSVTimeLayout when
// empty) — the tabular-export collaborator spec.md §6 describes, with no
// file-format opinions of its own beyond this one convenience.
func WriteCSVTimeSeries(w io.Writer, ts *TimeSeries[time.Time, float64], layout string) error {
	if layout == "" {
		layout = DefaultCSVTimeLayout
	}
	cw := csv.NewWriter(w)
	defer cw.Flush()
	for _, p := range ts.Items() {
		if err := cw.Write([]string{p.T.Format(layout), strconv.FormatFloat(p.V, 'g', -1, 64)}); err != nil {
			return err
		}
	}
	return cw.Error()
}

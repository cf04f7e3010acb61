package steptrace

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// PrettyPrint writes ts's stored measurements to w as an aligned table,
// one row per key, via a tabwriter table generalized to an arbitrary
// (T, V) pair using fmt's default verb.
func PrettyPrint[T any, V any](w io.Writer, ts *TimeSeries[T, V]) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\n", "KEY", "VALUE")
	for _, p := range ts.Items() {
		fmt.Fprintf(tw, "%v\t%v\n", p.T, p.V)
	}
	return tw.Flush()
}

// PrintHistogram writes h's distinct keys and their normalized weights,
// ascending, as an aligned table.
func PrintHistogram[K any](w io.Writer, h *Histogram[K]) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\n", "KEY", "FRACTION")
	for _, e := range h.Normalized() {
		fmt.Fprintf(tw, "%v\t%.6g\n", e.Key, e.Weight)
	}
	return tw.Flush()
}

// Command tsdemo generates a synthetic unevenly-spaced time series and
// prints its distribution and mean, exercising the library end to end.
package main

import (
	"flag"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/usefulrisk/steptrace"
)

func main() {
	var (
		seed     = flag.Int64("seed", 1, "random seed")
		minutes  = flag.Int("minutes", 120, "span of the generated series, in minutes")
		stepSecs = flag.Int("step", 30, "tick spacing, in seconds")
		stddev   = flag.Float64("stddev", 1.0, "per-tick random walk standard deviation")
	)
	flag.Parse()

	rng := rand.New(rand.NewSource(*seed))
	start := time.Now().UTC().Truncate(time.Second)
	end := start.Add(time.Duration(*minutes) * time.Minute)
	step := time.Duration(*stepSecs) * time.Second

	ts, err := steptrace.GenerateRandomWalk(rng, start, end, step, 0, *stddev)
	if err != nil {
		log.Fatalf("generate: %v", err)
	}

	mean, err := steptrace.Mean(ts, nil, nil, nil)
	if err != nil {
		log.Fatalf("mean: %v", err)
	}
	log.Printf("generated %d measurements over %s, mean=%.4f", ts.NMeasurements(), end.Sub(start), mean)

	hist, err := steptrace.Distribution(ts, nil, nil, nil, func(a, b float64) bool { return a < b })
	if err != nil {
		log.Fatalf("distribution: %v", err)
	}
	if err := steptrace.PrintHistogram(os.Stdout, hist); err != nil {
		log.Fatalf("print: %v", err)
	}

	median, err := steptrace.Quantile(hist, 0.5, 0)
	if err != nil {
		log.Fatalf("quantile: %v", err)
	}
	log.Printf("median=%.4f", median)
}

// Package main writes a synthetic light-curve bundle with an injected transit
// and secondary eclipse.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/chrissnell/transitsearch/internal/simulate"
)

func main() {
	d := simulate.DefaultParams()

	var (
		out       = flag.String("out", "simulated.msgpack", "Output bundle path, or a directory for per-segment CSV files when -csv is set")
		asCSV     = flag.Bool("csv", false, "Write one CSV file per segment instead of a bundle")
		target    = flag.String("target", "SIM-1", "Target name stored in the bundle")
		seed      = flag.Int64("seed", time.Now().UnixNano(), "Random seed")
		segments  = flag.Int("segments", d.Segments, "Number of segments")
		points    = flag.Int("points", d.PointsPerSegment, "Samples per segment")
		cadence   = flag.Float64("cadence", d.Cadence, "Days between samples")
		start     = flag.Float64("start", d.Start, "First timestamp (BTJD)")
		gap       = flag.Float64("gap", d.Gap, "Days between segments")
		period    = flag.Float64("period", d.Period, "Orbital period (days)")
		epoch     = flag.Float64("epoch", d.Epoch, "Mid-transit time (BTJD)")
		duration  = flag.Float64("duration", d.Duration, "Transit duration (days)")
		depth     = flag.Float64("depth", d.Depth, "Primary transit depth")
		secondary = flag.Float64("secondary", d.SecondaryDepth, "Secondary eclipse depth")
		baseline  = flag.Float64("baseline", d.Baseline, "Flux of the first segment")
		noise     = flag.Float64("noise", d.Noise, "Relative Gaussian noise")
		flagged   = flag.Float64("flagged", d.FlaggedFraction, "Fraction of samples marked bad")
	)
	flag.Parse()

	p := simulate.Params{
		Segments:         *segments,
		PointsPerSegment: *points,
		Cadence:          *cadence,
		Start:            *start,
		Gap:              *gap,
		Period:           *period,
		Epoch:            *epoch,
		Duration:         *duration,
		Depth:            *depth,
		SecondaryDepth:   *secondary,
		Baseline:         *baseline,
		Noise:            *noise,
		FlaggedFraction:  *flagged,
	}

	segs, err := simulate.Generate(p, rand.New(rand.NewSource(*seed)))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *asCSV {
		err = writeCSVFiles(*out, segs)
	} else {
		err = writeBundle(*out, *target, segs)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Wrote %d segments of %d samples to %s (seed %d)\n", len(segs), p.PointsPerSegment, *out, *seed)
	fmt.Printf("  Period %.7f d, epoch %.5f BTJD, depth %.5f, secondary %.5f\n", p.Period, p.Epoch, p.Depth, p.SecondaryDepth)
}

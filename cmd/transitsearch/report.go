package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/chrissnell/transitsearch/internal/bls"
	aerr "github.com/chrissnell/transitsearch/internal/errors"
	"github.com/chrissnell/transitsearch/internal/pipeline"
	"github.com/chrissnell/transitsearch/pkg/config"
)

// printReport writes a human-readable summary of whatever stages completed
func printReport(w io.Writer, cfg *config.ConfigData, res *pipeline.Result, analysisErr error) {
	fmt.Fprintf(w, "Transit Search\n")
	fmt.Fprintf(w, "==============\n\n")

	star := cfg.Star
	a := cfg.Analysis
	fmt.Fprintf(w, "Configuration:\n")
	if star.Name != "" {
		fmt.Fprintf(w, "  Star: %s\n", star.Name)
	}
	fmt.Fprintf(w, "  R* = %.3f Rsun, Teff = %.0f K, i = %.4f rad, a = %.5f AU\n",
		star.RadiusSolar, star.TemperatureK, star.InclinationRad, star.SemiMajorAxisAU)
	fmt.Fprintf(w, "  Period grid: %.4f to %.4f d, %d periods\n", a.Grid.MinPeriod, a.Grid.MaxPeriod, a.Grid.Count)
	if a.Grid.Duration > 0 {
		fmt.Fprintf(w, "  Transit duration: %.4f d (fixed)\n", a.Grid.Duration)
	} else {
		fmt.Fprintf(w, "  Transit duration: %.3f x period\n", a.Grid.DurationFraction)
	}
	fmt.Fprintf(w, "  Quality mask: 0x%04x\n\n", a.QualityMask)

	if res != nil {
		printStages(w, res)
	}

	if analysisErr != nil {
		fmt.Fprintf(w, "\nAnalysis FAILED")
		if stage := aerr.StageOf(analysisErr); stage != "" {
			fmt.Fprintf(w, " at stage %s", stage)
		}
		fmt.Fprintf(w, ":\n  %v\n", analysisErr)
	}
}

func printStages(w io.Writer, res *pipeline.Result) {
	if len(res.Segments) > 0 {
		fmt.Fprintf(w, "Segments:\n")
		fmt.Fprintf(w, "  %-24s %8s %8s %14s\n", "Name", "Input", "Kept", "Median")
		for _, s := range res.Segments {
			if s.Skipped {
				fmt.Fprintf(w, "  %-24s %8d %8d %14s  skipped: %s\n", s.Name, s.Input, s.Kept, "-", s.Reason)
				continue
			}
			fmt.Fprintf(w, "  %-24s %8d %8d %14.3f\n", s.Name, s.Input, s.Kept, s.Median)
		}
		fmt.Fprintln(w)
	}

	if res.Curve != nil {
		fmt.Fprintf(w, "Merged curve: %d points over %.3f d (offset %.5f BTJD)\n\n", res.Curve.Len(), res.Curve.Span(), res.Curve.Offset)
	}

	if e := res.Ephemeris; e != nil {
		fmt.Fprintf(w, "Best Period:\n")
		fmt.Fprintf(w, "  Period: %.7f d\n", e.Period)
		fmt.Fprintf(w, "  Mid-transit: %.5f BTJD (%s UTC)\n", e.Epoch, e.UTC.Format("2006-01-02 15:04:05"))
		fmt.Fprintf(w, "  Power: %.4f\n", e.Power)
		if res.Search != nil && res.Search.EmptyPeriods > 0 {
			fmt.Fprintf(w, "  Periods without a valid box: %d\n", res.Search.EmptyPeriods)
		}
		fmt.Fprintln(w)
	}

	if res.Primary != nil || res.Secondary != nil {
		fmt.Fprintf(w, "Eclipse Depths:\n")
		if res.Primary != nil {
			fmt.Fprintf(w, "  Transit depth: %.5f (%.0f ppm) at phase %.3f\n", res.Primary.Depth, res.Primary.Depth*1e6, res.Primary.Phase)
		}
		if res.Secondary != nil {
			fmt.Fprintf(w, "  Secondary depth: %.6f (%.0f ppm), %d in-window / %d out-of-window samples\n",
				res.Secondary.Depth, res.Secondary.Depth*1e6, res.Secondary.InCount, res.Secondary.OutCount)
		}
		fmt.Fprintln(w)
	}

	if p := res.Planet; p != nil {
		fmt.Fprintf(w, "Planet:\n")
		if p.Radius.Solar > 0 {
			fmt.Fprintf(w, "  Radius: %.4f R* = %.4f Rsun = %.3f RJ\n", p.Radius.Stellar, p.Radius.Solar, p.Radius.Jupiter)
		}
		fmt.Fprintf(w, "  Impact parameter: %.4f\n", p.ImpactParameter)
		if p.DaysideTemperatureK > 0 {
			fmt.Fprintf(w, "  Dayside temperature: %.0f K (using Rp = %.3f RJ)\n", p.DaysideTemperatureK, p.TemperatureRadius.Jupiter)
		}
	}
}

// exportPeriodogram writes one row per candidate period
func exportPeriodogram(path string, pg []bls.PeriodPower) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := writePeriodogram(f, pg); err != nil {
		return err
	}
	return f.Close()
}

func writePeriodogram(w io.Writer, pg []bls.PeriodPower) error {
	cw := csv.NewWriter(w)
	cw.Write([]string{"period", "duration", "power", "t0", "depth", "in_count"})

	format := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	for _, p := range pg {
		cw.Write([]string{
			format(p.Period),
			format(p.Duration),
			format(p.Power),
			format(p.T0),
			format(p.Depth),
			strconv.Itoa(p.InCount),
		})
	}
	cw.Flush()
	return cw.Error()
}

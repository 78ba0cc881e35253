// Package bls implements a box least-squares search for periodic transits in a
// merged light curve.
package bls

import (
	"context"
	"fmt"
	"math"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	aerr "github.com/chrissnell/transitsearch/internal/errors"
	"github.com/chrissnell/transitsearch/internal/lightcurve"
	"github.com/chrissnell/transitsearch/internal/log"
)

// Params tunes the box scan performed at each candidate period
type Params struct {
	// MinInBox is the fewest samples a box position may hold (e.g., 3).
	// Sparser positions are skipped.
	MinInBox int

	// Oversample is the minimum number of phase bins spanned by one box
	Oversample int

	// MaxPhaseBins caps the phase resolution per period; 0 means no cap
	MaxPhaseBins int

	// Workers is the number of periods evaluated concurrently; 0 uses GOMAXPROCS
	Workers int
}

// DefaultParams returns the search parameters used by the reference analysis
func DefaultParams() Params {
	return Params{
		MinInBox:     3,
		Oversample:   3,
		MaxPhaseBins: 100000,
	}
}

// PeriodPower is the best box found at one candidate period
type PeriodPower struct {
	Period   float64
	Duration float64
	Power    float64 // fraction of flux variance removed by the box model, in [0, 1]
	BoxStart float64 // start of the best box, curve time in [0, Period)
	T0       float64 // mid-transit time of the best box
	Depth    float64 // out-of-box mean minus in-box mean
	InMean   float64
	OutMean  float64
	InCount  int
}

// Result is the outcome of a search over a full grid
type Result struct {
	Periodogram []PeriodPower
	BestIndex   int

	// EmptyPeriods counts periods without a single valid box position
	EmptyPeriods int
}

// Best returns the winning period's entry
func (r *Result) Best() PeriodPower {
	return r.Periodogram[r.BestIndex]
}

// Engine runs box least-squares searches
type Engine struct {
	params Params
	logger *zap.SugaredLogger
}

// NewEngine validates p and returns an Engine
func NewEngine(p Params, logger *zap.SugaredLogger) (*Engine, error) {
	if p.MinInBox < 1 {
		return nil, aerr.NewInvalidConfiguration(aerr.StageSearch, "search.min_in_box", "must be at least 1, got %d", p.MinInBox)
	}
	if p.Oversample < 1 {
		return nil, aerr.NewInvalidConfiguration(aerr.StageSearch, "search.oversample", "must be at least 1, got %d", p.Oversample)
	}
	if p.MaxPhaseBins < 0 {
		return nil, aerr.NewInvalidConfiguration(aerr.StageSearch, "search.max_phase_bins", "must not be negative, got %d", p.MaxPhaseBins)
	}
	if p.Workers < 0 {
		return nil, aerr.NewInvalidConfiguration(aerr.StageSearch, "search.workers", "must not be negative, got %d", p.Workers)
	}
	if p.Workers == 0 {
		p.Workers = runtime.GOMAXPROCS(0)
	}

	return &Engine{
		params: p,
		logger: log.OrNop(logger),
	}, nil
}

// curveStats holds the per-curve values shared read-only by every worker
type curveStats struct {
	time     []float64
	centered []float64 // flux minus the curve mean
	mean     float64
	ssr0     float64 // residual sum of squares of the constant model
	cadence  float64
}

// Search evaluates every period of grid against lc and returns the periodogram
// with the strongest period. Periods are spread over the engine's workers; each
// worker writes only its own periodogram entries, and the maximum is chosen
// afterwards in ascending period order so the first of equal powers wins.
func (e *Engine) Search(ctx context.Context, lc *lightcurve.LightCurve, grid *Grid) (*Result, error) {
	if lc.Len() == 0 {
		return nil, aerr.NewEmptyInput(aerr.StageSearch, "light curve has no samples")
	}
	if grid.Len() < 2 {
		return nil, aerr.NewInvalidConfiguration(aerr.StageSearch, "grid", "need at least 2 periods, got %d", grid.Len())
	}

	cs := newCurveStats(lc)
	periodogram := make([]PeriodPower, grid.Len())

	workers := e.params.Workers
	if workers > grid.Len() {
		workers = grid.Len()
	}

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		w := w
		g.Go(func() error {
			var scratch binScratch
			for i := w; i < grid.Len(); i += workers {
				if err := gctx.Err(); err != nil {
					return err
				}
				periodogram[i] = e.evaluate(cs, grid.Periods[i], grid.Durations[i], &scratch)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("box search interrupted: %w", err)
	}

	res := &Result{Periodogram: periodogram}
	for i, pp := range periodogram {
		if pp.InCount == 0 {
			res.EmptyPeriods++
		}
		if pp.Power > periodogram[res.BestIndex].Power {
			res.BestIndex = i
		}
	}

	if res.EmptyPeriods > 0 {
		e.logger.Debugw("periods without a valid box position",
			"empty_periods", res.EmptyPeriods,
			"grid_size", grid.Len(),
			"min_in_box", e.params.MinInBox)
	}

	best := res.Best()
	e.logger.Infow("box search complete",
		"periods", grid.Len(),
		"points", lc.Len(),
		"workers", workers,
		"best_period", best.Period,
		"power", best.Power,
		"depth", best.Depth)

	return res, nil
}

func newCurveStats(lc *lightcurve.LightCurve) *curveStats {
	mean, variance := stat.MeanVariance(lc.Flux, nil)

	cs := &curveStats{
		time:     lc.Time,
		centered: make([]float64, lc.Len()),
		mean:     mean,
		cadence:  lc.Cadence(),
	}
	for i, f := range lc.Flux {
		cs.centered[i] = f - mean
	}
	if n := lc.Len(); n > 1 && !math.IsNaN(variance) {
		cs.ssr0 = variance * float64(n-1)
	}
	return cs
}

// binScratch is reused by one worker across periods
type binScratch struct {
	counts []int
	sums   []float64
}

func (b *binScratch) reset(n int) {
	if cap(b.counts) < n {
		b.counts = make([]int, n)
		b.sums = make([]float64, n)
	}
	b.counts = b.counts[:n]
	b.sums = b.sums[:n]
	for i := range b.counts {
		b.counts[i] = 0
		b.sums[i] = 0
	}
}

// phaseBins picks the phase resolution for one period: no coarser than the
// sampling cadence and at least Oversample bins across one box.
func (e *Engine) phaseBins(period, duration, cadence float64) int {
	q := duration / period
	nb := int(math.Ceil(float64(e.params.Oversample) / q))
	if cadence > 0 {
		if byCadence := int(math.Ceil(period / cadence)); byCadence > nb {
			nb = byCadence
		}
	}
	if e.params.MaxPhaseBins > 0 && nb > e.params.MaxPhaseBins {
		nb = e.params.MaxPhaseBins
	}
	if nb < 2 {
		nb = 2
	}
	return nb
}

// evaluate slides the box over every phase bin of one period and keeps the
// position with the largest drop in squared residuals.
//
// With flux centered on the curve mean, a box holding n samples whose
// centered sum is s reduces the constant-model residuals by
// s²·N / (n·(N−n)). Only dips (s < 0) are accepted.
func (e *Engine) evaluate(cs *curveStats, period, duration float64, scratch *binScratch) PeriodPower {
	pp := PeriodPower{Period: period, Duration: duration}
	n := len(cs.time)
	if cs.ssr0 <= 0 || n <= e.params.MinInBox {
		return pp
	}

	nb := e.phaseBins(period, duration, cs.cadence)
	width := int(math.Round(duration / period * float64(nb)))
	if width < 1 {
		width = 1
	}
	if width >= nb {
		width = nb - 1
	}

	scratch.reset(nb)
	for i, t := range cs.time {
		idx := int(lightcurve.Phase(t, period, 0) * float64(nb))
		if idx >= nb {
			idx = nb - 1
		}
		scratch.counts[idx]++
		scratch.sums[idx] += cs.centered[i]
	}

	inCount := 0
	inSum := 0.0
	for k := 0; k < width; k++ {
		inCount += scratch.counts[k]
		inSum += scratch.sums[k]
	}

	total := float64(n)
	bestReduction := 0.0
	bestStart := -1
	bestCount := 0
	bestSum := 0.0

	for start := 0; start < nb; start++ {
		if inCount >= e.params.MinInBox && inCount < n && inSum < 0 {
			nIn := float64(inCount)
			reduction := inSum * inSum * total / (nIn * (total - nIn))
			if reduction > bestReduction {
				bestReduction = reduction
				bestStart = start
				bestCount = inCount
				bestSum = inSum
			}
		}

		// slide one bin, wrapping at phase 1
		out := start
		in := (start + width) % nb
		inCount += scratch.counts[in] - scratch.counts[out]
		inSum += scratch.sums[in] - scratch.sums[out]
	}

	if bestStart < 0 {
		return pp
	}

	nIn := float64(bestCount)
	nOut := total - nIn
	binWidth := period / float64(nb)

	pp.Power = bestReduction / cs.ssr0
	if pp.Power > 1 {
		pp.Power = 1
	}
	pp.BoxStart = float64(bestStart) * binWidth
	pp.T0 = math.Mod(pp.BoxStart+float64(width)*binWidth/2, period)
	pp.InMean = cs.mean + bestSum/nIn
	pp.OutMean = cs.mean - bestSum/nOut
	pp.Depth = pp.OutMean - pp.InMean
	pp.InCount = bestCount
	return pp
}

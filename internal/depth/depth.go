// Package depth measures primary transit and secondary eclipse depths from a
// phase-folded light curve.
package depth

import (
	"math"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"

	aerr "github.com/chrissnell/transitsearch/internal/errors"
	"github.com/chrissnell/transitsearch/internal/lightcurve"
	"github.com/chrissnell/transitsearch/internal/log"
)

// Params defines the phase binning and the windows used for the secondary eclipse.
// All values are in units of orbital phase.
type Params struct {
	// BinWidth is the width of one phase bin (e.g., 0.01 for 100 bins)
	BinWidth float64

	// PrimaryExclusion is the half-width of the window around phase 0 (and 1)
	// removed before measuring the secondary eclipse
	PrimaryExclusion float64

	// SecondaryCenter is the expected phase of the secondary eclipse (0.5 for a circular orbit)
	SecondaryCenter float64

	// SecondaryHalfWidth is the half-width of the secondary eclipse window
	SecondaryHalfWidth float64
}

// DefaultParams returns the windows used by the reference analysis
func DefaultParams() Params {
	return Params{
		BinWidth:           0.01,
		PrimaryExclusion:   0.05,
		SecondaryCenter:    0.5,
		SecondaryHalfWidth: 0.05,
	}
}

// Validate checks that the bins and windows are usable and that the
// secondary window stays clear of the primary exclusion.
func (p Params) Validate() error {
	if !(p.BinWidth > 0 && p.BinWidth <= 0.5) {
		return aerr.NewInvalidConfiguration(aerr.StageDepth, "depth.bin_width", "must be in (0, 0.5], got %v", p.BinWidth)
	}
	if !(p.PrimaryExclusion >= 0 && p.PrimaryExclusion < 0.5) {
		return aerr.NewInvalidConfiguration(aerr.StageDepth, "depth.primary_exclusion", "must be in [0, 0.5), got %v", p.PrimaryExclusion)
	}
	if !(p.SecondaryCenter > 0 && p.SecondaryCenter < 1) {
		return aerr.NewInvalidConfiguration(aerr.StageDepth, "depth.secondary_center", "must be in (0, 1), got %v", p.SecondaryCenter)
	}
	if !(p.SecondaryHalfWidth > 0 && p.SecondaryHalfWidth < 0.5) {
		return aerr.NewInvalidConfiguration(aerr.StageDepth, "depth.secondary_half_width", "must be in (0, 0.5), got %v", p.SecondaryHalfWidth)
	}
	lo := p.SecondaryCenter - p.SecondaryHalfWidth
	hi := p.SecondaryCenter + p.SecondaryHalfWidth
	if lo < p.PrimaryExclusion || hi > 1-p.PrimaryExclusion {
		return aerr.NewInvalidConfiguration(aerr.StageDepth, "depth.secondary_window",
			"window [%v, %v] overlaps the primary exclusion of ±%v", lo, hi, p.PrimaryExclusion)
	}
	return nil
}

// Estimate is a measured depth along with the samples it was computed from
type Estimate struct {
	Depth float64

	// Phase is the center of the deepest bin (primary) or of the window (secondary)
	Phase float64

	InMean   float64
	OutMean  float64
	InCount  int
	OutCount int
}

// Estimator computes depths from folded curves
type Estimator struct {
	params Params
	logger *zap.SugaredLogger
}

// NewEstimator validates p and returns an Estimator
func NewEstimator(p Params, logger *zap.SugaredLogger) (*Estimator, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Estimator{params: p, logger: log.OrNop(logger)}, nil
}

// Params returns the estimator's configuration
func (e *Estimator) Params() Params {
	return e.params
}

// Bins bins the folded curve at the estimator's bin width
func (e *Estimator) Bins(fc *lightcurve.FoldedCurve) ([]Bin, error) {
	return BinPhases(fc.Phase, fc.Flux, e.params.BinWidth)
}

// Primary returns the transit depth, 1 minus the lowest binned flux. Bins
// without data are skipped.
func (e *Estimator) Primary(fc *lightcurve.FoldedCurve) (Estimate, error) {
	bins, err := e.Bins(fc)
	if err != nil {
		return Estimate{}, err
	}

	minIdx := -1
	empty := 0
	for i, b := range bins {
		if !b.HasData() {
			empty++
			continue
		}
		if minIdx < 0 || b.Mean < bins[minIdx].Mean {
			minIdx = i
		}
	}
	if empty > 0 {
		e.logger.Debugw("skipping phase bins without data", "empty_bins", empty, "bins", len(bins))
	}
	if minIdx < 0 {
		return Estimate{}, aerr.NewInsufficientData(aerr.StageDepth, "no phase bin holds any data",
			map[string]any{"bins": len(bins)})
	}

	deepest := bins[minIdx]
	return Estimate{
		Depth:   1 - deepest.Mean,
		Phase:   deepest.Center,
		InMean:  deepest.Mean,
		InCount: deepest.Count,
	}, nil
}

// windowMembership classifies a phase for the secondary eclipse measurement
type windowMembership int

const (
	excluded windowMembership = iota
	inWindow
	outOfWindow
)

func (e *Estimator) classify(phase float64) windowMembership {
	p := e.params
	if phase < p.PrimaryExclusion || phase > 1-p.PrimaryExclusion {
		return excluded
	}
	if math.Abs(phase-p.SecondaryCenter) < p.SecondaryHalfWidth {
		return inWindow
	}
	return outOfWindow
}

// Secondary returns the occultation depth, 1 − mean(in window)/mean(out of
// window), after removing the primary transit region.
func (e *Estimator) Secondary(fc *lightcurve.FoldedCurve) (Estimate, error) {
	var in, out []float64
	for i, phase := range fc.Phase {
		switch e.classify(phase) {
		case inWindow:
			in = append(in, fc.Flux[i])
		case outOfWindow:
			out = append(out, fc.Flux[i])
		}
	}

	if len(in) == 0 || len(out) == 0 {
		return Estimate{}, aerr.NewInsufficientData(aerr.StageDepth, "secondary eclipse window or baseline is empty",
			map[string]any{"in_window": len(in), "out_of_window": len(out)})
	}

	inMean := stat.Mean(in, nil)
	outMean := stat.Mean(out, nil)
	if outMean == 0 {
		return Estimate{}, aerr.NewUndefinedMath(aerr.StageDepth, "out-of-window baseline flux is zero", nil)
	}

	return Estimate{
		Depth:    1 - inMean/outMean,
		Phase:    e.params.SecondaryCenter,
		InMean:   inMean,
		OutMean:  outMean,
		InCount:  len(in),
		OutCount: len(out),
	}, nil
}

// SecondaryBins bins the folded curve with the primary transit region removed,
// for display of the occultation.
func (e *Estimator) SecondaryBins(fc *lightcurve.FoldedCurve) ([]Bin, error) {
	var phase, flux []float64
	for i, p := range fc.Phase {
		if e.classify(p) == excluded {
			continue
		}
		phase = append(phase, p)
		flux = append(flux, fc.Flux[i])
	}
	return BinPhases(phase, flux, e.params.BinWidth)
}

// Package pipeline runs the full transit analysis: quality filtering,
// normalization, merging, the period search, folding, depth estimation and
// the derived planet parameters.
package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/chrissnell/transitsearch/internal/bls"
	"github.com/chrissnell/transitsearch/internal/depth"
	aerr "github.com/chrissnell/transitsearch/internal/errors"
	"github.com/chrissnell/transitsearch/internal/lightcurve"
	"github.com/chrissnell/transitsearch/internal/log"
	"github.com/chrissnell/transitsearch/internal/planet"
	"github.com/chrissnell/transitsearch/pkg/tesstime"
)

// SegmentReport describes what happened to one input segment
type SegmentReport struct {
	Name    string
	Input   int // samples received
	Kept    int // samples surviving the quality filter
	Median  float64
	Skipped bool
	Reason  string
}

// Ephemeris is the best period with its mid-transit reference time
type Ephemeris struct {
	Period float64 // days
	T0     float64 // mid-transit in curve time
	Epoch  float64 // mid-transit in the input time scale (BTJD)
	UTC    time.Time
	Power  float64
}

// Parameters are the derived physical quantities
type Parameters struct {
	Radius          planet.Radius
	ImpactParameter float64

	// TemperatureRadius is the planet radius used for the dayside temperature
	TemperatureRadius   planet.Radius
	DaysideTemperatureK float64
}

// Result collects every stage output. When a late stage fails, the fields of
// the stages that completed are still populated.
type Result struct {
	Segments []SegmentReport
	Curve    *lightcurve.LightCurve
	Grid     *bls.Grid
	Search   *bls.Result

	Ephemeris *Ephemeris
	Folded    *lightcurve.FoldedCurve
	Unwrapped *lightcurve.FoldedCurve

	Bins          []depth.Bin
	SecondaryBins []depth.Bin
	Primary       *depth.Estimate
	Secondary     *depth.Estimate

	Planet *Parameters
}

// Analyzer runs analyses with a fixed, validated configuration
type Analyzer struct {
	cfg       Config
	grid      *bls.Grid
	engine    *bls.Engine
	estimator *depth.Estimator
	logger    *zap.SugaredLogger
}

// NewAnalyzer validates cfg and prepares the search grid
func NewAnalyzer(cfg Config, logger *zap.SugaredLogger) (*Analyzer, error) {
	logger = log.OrNop(logger)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	grid, err := bls.NewGrid(cfg.Grid)
	if err != nil {
		return nil, err
	}
	if grid.Clamped > 0 {
		logger.Infow("transit duration clamped to the period cap",
			"clamped_periods", grid.Clamped,
			"max_duration_fraction", cfg.Grid.MaxDurationFraction)
	}

	engine, err := bls.NewEngine(cfg.Search, logger)
	if err != nil {
		return nil, err
	}

	estimator, err := depth.NewEstimator(cfg.Depth, logger)
	if err != nil {
		return nil, err
	}

	return &Analyzer{
		cfg:       cfg,
		grid:      grid,
		engine:    engine,
		estimator: estimator,
		logger:    logger,
	}, nil
}

// Config returns the analyzer's configuration
func (a *Analyzer) Config() Config {
	return a.cfg
}

// Analyze runs every stage on segments. The returned Result is non-nil
// whenever the segments were examined, even if a later stage failed.
func (a *Analyzer) Analyze(ctx context.Context, segments []lightcurve.Segment) (*Result, error) {
	res := &Result{Grid: a.grid}

	prepared := a.prepareSegments(segments, res)

	lc, err := lightcurve.Merge(prepared...)
	if err != nil {
		return res, err
	}
	res.Curve = lc
	a.logger.Infow("merged light curve",
		"points", lc.Len(),
		"segments", len(prepared),
		"span_days", lc.Span(),
		"offset", lc.Offset)

	search, err := a.engine.Search(ctx, lc, a.grid)
	if err != nil {
		return res, err
	}
	res.Search = search

	best := search.Best()
	if best.InCount == 0 {
		return res, aerr.NewInsufficientData(aerr.StageSearch, "no period produced a valid box",
			map[string]any{"periods": a.grid.Len(), "min_in_box": a.cfg.Search.MinInBox})
	}

	epoch := lc.AbsoluteTime(best.T0)
	res.Ephemeris = &Ephemeris{
		Period: best.Period,
		T0:     best.T0,
		Epoch:  epoch,
		UTC:    tesstime.ToTime(epoch),
		Power:  best.Power,
	}

	// fold on the mid-transit time so the transit sits at phase 0
	folded, err := lightcurve.Fold(lc, best.Period, best.T0)
	if err != nil {
		return res, err
	}
	res.Folded = folded
	if a.cfg.UnwrapCycles > 0 {
		res.Unwrapped = folded.Sorted().Unwrap(a.cfg.UnwrapCycles)
	}

	if err := a.estimateDepths(res); err != nil {
		return res, err
	}

	if err := a.computeParameters(res); err != nil {
		return res, err
	}

	a.logger.Infow("analysis complete",
		"period", res.Ephemeris.Period,
		"epoch_btjd", res.Ephemeris.Epoch,
		"transit_depth", res.Primary.Depth,
		"secondary_depth", res.Secondary.Depth,
		"radius_rj", res.Planet.Radius.Jupiter,
		"impact_parameter", res.Planet.ImpactParameter,
		"dayside_temperature_k", res.Planet.DaysideTemperatureK)

	return res, nil
}

// prepareSegments filters and normalizes each segment. Segments left without
// usable samples are skipped and recorded, never fatal on their own.
func (a *Analyzer) prepareSegments(segments []lightcurve.Segment, res *Result) []lightcurve.Segment {
	prepared := make([]lightcurve.Segment, 0, len(segments))
	for _, seg := range segments {
		report := SegmentReport{Name: seg.Name, Input: seg.Len()}

		filtered := lightcurve.Filter(seg, a.cfg.QualityMask)
		report.Kept = filtered.Len()

		if filtered.Len() == 0 {
			report.Skipped = true
			report.Reason = "no samples passed the quality filter"
			a.logger.Warnw("skipping segment", "segment", seg.Name, "reason", report.Reason, "input", report.Input)
			res.Segments = append(res.Segments, report)
			continue
		}

		report.Median = lightcurve.Median(filtered.Flux())
		normalized, ok := lightcurve.Normalize(filtered)
		if !ok {
			report.Skipped = true
			report.Reason = "median flux is zero"
			a.logger.Warnw("skipping segment", "segment", seg.Name, "reason", report.Reason, "kept", report.Kept)
			res.Segments = append(res.Segments, report)
			continue
		}

		a.logger.Debugw("segment prepared",
			"segment", seg.Name,
			"input", report.Input,
			"kept", report.Kept,
			"median", report.Median)
		res.Segments = append(res.Segments, report)
		prepared = append(prepared, normalized)
	}
	return prepared
}

func (a *Analyzer) estimateDepths(res *Result) error {
	bins, err := a.estimator.Bins(res.Folded)
	if err != nil {
		return err
	}
	res.Bins = bins

	primary, err := a.estimator.Primary(res.Folded)
	if err != nil {
		return err
	}
	res.Primary = &primary

	secondaryBins, err := a.estimator.SecondaryBins(res.Folded)
	if err != nil {
		return err
	}
	res.SecondaryBins = secondaryBins

	secondary, err := a.estimator.Secondary(res.Folded)
	if err != nil {
		return err
	}
	res.Secondary = &secondary

	a.logger.Debugw("depths measured",
		"primary", primary.Depth,
		"primary_phase", primary.Phase,
		"secondary", secondary.Depth,
		"secondary_in", secondary.InCount,
		"secondary_out", secondary.OutCount)
	return nil
}

func (a *Analyzer) computeParameters(res *Result) error {
	star := a.cfg.Star
	params := &Parameters{ImpactParameter: planet.ImpactParameter(star)}
	res.Planet = params

	radius, err := planet.PlanetRadius(star, res.Primary.Depth)
	if err != nil {
		return err
	}
	params.Radius = radius

	params.TemperatureRadius = radius
	if star.PlanetRadiusJupiter > 0 {
		params.TemperatureRadius = planet.RadiusFromJupiter(star, star.PlanetRadiusJupiter)
	}

	temp, err := planet.DaysideTemperature(star.TemperatureK, star.RadiusSolar, params.TemperatureRadius.Solar, res.Secondary.Depth)
	if err != nil {
		return err
	}
	params.DaysideTemperatureK = temp
	return nil
}

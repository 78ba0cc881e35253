package bls

import (
	"math"

	aerr "github.com/chrissnell/transitsearch/internal/errors"
)

// GridParams defines the candidate periods and the transit duration tried at each one
type GridParams struct {
	// MinPeriod and MaxPeriod bound the linear period grid, in days
	MinPeriod float64
	MaxPeriod float64

	// Count is the number of periods, including both bounds
	Count int

	// DurationFraction sets each candidate's duration to period × fraction (e.g., 0.05)
	DurationFraction float64

	// MaxDurationFraction caps the duration at period × fraction; must be below 1
	MaxDurationFraction float64

	// Duration, when positive, replaces DurationFraction with one fixed duration
	// in days. It is still capped by MaxDurationFraction.
	Duration float64
}

// DefaultGridParams returns the grid used by the reference WASP-18b analysis
func DefaultGridParams() GridParams {
	return GridParams{
		MinPeriod:           0.8,
		MaxPeriod:           1.2,
		Count:               10000,
		DurationFraction:    0.05,
		MaxDurationFraction: 0.9,
	}
}

// Grid is an ascending list of candidate periods, each paired with the
// transit duration evaluated at that period.
type Grid struct {
	Periods   []float64
	Durations []float64

	// Clamped counts the periods whose duration was capped
	Clamped int
}

// Len returns the number of candidate periods
func (g *Grid) Len() int {
	if g == nil {
		return 0
	}
	return len(g.Periods)
}

// Step returns the spacing between adjacent periods of a linear grid.
func (g *Grid) Step() float64 {
	if g.Len() < 2 {
		return 0
	}
	return (g.Periods[g.Len()-1] - g.Periods[0]) / float64(g.Len()-1)
}

// NewGrid builds a linearly spaced period grid from p
func NewGrid(p GridParams) (*Grid, error) {
	if p.Count < 2 {
		return nil, aerr.NewInvalidConfiguration(aerr.StageSearch, "grid.count", "must be at least 2, got %d", p.Count)
	}
	if !(p.MinPeriod > 0) || math.IsInf(p.MinPeriod, 0) {
		return nil, aerr.NewInvalidConfiguration(aerr.StageSearch, "grid.min_period", "must be positive, got %v", p.MinPeriod)
	}
	if !(p.MaxPeriod > p.MinPeriod) || math.IsInf(p.MaxPeriod, 0) {
		return nil, aerr.NewInvalidConfiguration(aerr.StageSearch, "grid.max_period", "must exceed min_period %v, got %v", p.MinPeriod, p.MaxPeriod)
	}

	step := (p.MaxPeriod - p.MinPeriod) / float64(p.Count-1)
	periods := make([]float64, p.Count)
	for i := range periods {
		periods[i] = p.MinPeriod + float64(i)*step
	}
	periods[p.Count-1] = p.MaxPeriod

	return NewGridFromPeriods(periods, p)
}

// NewGridFromPeriods pairs an explicit, strictly ascending list of periods
// with durations derived from p. MinPeriod, MaxPeriod and Count are ignored.
func NewGridFromPeriods(periods []float64, p GridParams) (*Grid, error) {
	if len(periods) < 2 {
		return nil, aerr.NewInvalidConfiguration(aerr.StageSearch, "grid.periods", "need at least 2 periods, got %d", len(periods))
	}
	if !(p.MaxDurationFraction > 0 && p.MaxDurationFraction < 1) {
		return nil, aerr.NewInvalidConfiguration(aerr.StageSearch, "grid.max_duration_fraction", "must be in (0, 1), got %v", p.MaxDurationFraction)
	}
	if p.Duration <= 0 && !(p.DurationFraction > 0) {
		return nil, aerr.NewInvalidConfiguration(aerr.StageSearch, "grid.duration_fraction", "must be positive when no fixed duration is set, got %v", p.DurationFraction)
	}

	g := &Grid{
		Periods:   append([]float64(nil), periods...),
		Durations: make([]float64, len(periods)),
	}
	for i, period := range g.Periods {
		if !(period > 0) || math.IsInf(period, 0) {
			return nil, aerr.NewInvalidConfiguration(aerr.StageSearch, "grid.periods", "period %d must be positive and finite, got %v", i, period)
		}
		if i > 0 && period <= g.Periods[i-1] {
			return nil, aerr.NewInvalidConfiguration(aerr.StageSearch, "grid.periods", "periods must be strictly ascending at index %d", i)
		}

		duration := p.Duration
		if duration <= 0 {
			duration = period * p.DurationFraction
		}
		if limit := period * p.MaxDurationFraction; duration > limit {
			duration = limit
			g.Clamped++
		}
		g.Durations[i] = duration
	}

	return g, nil
}

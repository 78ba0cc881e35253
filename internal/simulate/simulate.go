// Package simulate generates synthetic light-curve segments with an injected
// box transit and secondary eclipse.
package simulate

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/chrissnell/transitsearch/internal/lightcurve"
)

// FlaggedBit is the quality bit set on simulated bad samples. It is part of
// lightcurve.DefaultQualityMask.
const FlaggedBit = 1 << 5

// Params describes the simulated observation
type Params struct {
	Segments         int
	PointsPerSegment int
	Cadence          float64 // days between samples
	Start            float64 // first timestamp, BTJD
	Gap              float64 // days between segments

	Period         float64
	Epoch          float64 // mid-transit time, BTJD
	Duration       float64 // days
	Depth          float64 // fractional primary depth
	SecondaryDepth float64 // fractional secondary depth

	Baseline        float64 // flux of the first segment; segment i is scaled by i+1
	Noise           float64 // Gaussian sigma, relative to the baseline
	FlaggedFraction float64 // share of samples marked with FlaggedBit and corrupted
}

// DefaultParams returns a two-segment WASP-18-like system
func DefaultParams() Params {
	return Params{
		Segments:         2,
		PointsPerSegment: 9000,
		Cadence:          2.0 / 1440,
		Start:            1325.3,
		Gap:              1.0,
		Period:           0.9414526,
		Epoch:            1326.0,
		Duration:         0.09,
		Depth:            0.0100,
		SecondaryDepth:   0.0004,
		Baseline:         120000,
		Noise:            0.0004,
		FlaggedFraction:  0.01,
	}
}

// Validate checks the parameters
func (p Params) Validate() error {
	switch {
	case p.Segments < 1:
		return fmt.Errorf("segments must be at least 1, got %d", p.Segments)
	case p.PointsPerSegment < 1:
		return fmt.Errorf("points per segment must be at least 1, got %d", p.PointsPerSegment)
	case p.Cadence <= 0:
		return fmt.Errorf("cadence must be positive, got %v", p.Cadence)
	case p.Gap < 0:
		return fmt.Errorf("gap must not be negative, got %v", p.Gap)
	case p.Period <= 0:
		return fmt.Errorf("period must be positive, got %v", p.Period)
	case p.Duration <= 0 || p.Duration >= p.Period/2:
		return fmt.Errorf("duration must be in (0, period/2), got %v", p.Duration)
	case p.Depth < 0 || p.Depth >= 1 || p.SecondaryDepth < 0 || p.SecondaryDepth >= 1:
		return fmt.Errorf("depths must be in [0, 1)")
	case p.Baseline <= 0:
		return fmt.Errorf("baseline must be positive, got %v", p.Baseline)
	case p.Noise < 0:
		return fmt.Errorf("noise must not be negative, got %v", p.Noise)
	case p.FlaggedFraction < 0 || p.FlaggedFraction > 1:
		return fmt.Errorf("flagged fraction must be in [0, 1], got %v", p.FlaggedFraction)
	}
	return nil
}

// Model returns the noiseless relative flux at time t
func (p Params) Model(t float64) float64 {
	flux := 1.0

	// offset from the nearest mid-transit
	d := math.Mod(t-p.Epoch, p.Period)
	if d < 0 {
		d += p.Period
	}
	if d > p.Period/2 {
		d -= p.Period
	}
	if math.Abs(d) < p.Duration/2 {
		flux -= p.Depth
	}

	// offset from the nearest secondary eclipse, half an orbit later
	if math.Abs(math.Abs(d)-p.Period/2) < p.Duration/2 {
		flux -= p.SecondaryDepth
	}
	return flux
}

// Generate builds the segments using rng for noise and flagged samples
func Generate(p Params, rng *rand.Rand) ([]lightcurve.Segment, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	segs := make([]lightcurve.Segment, p.Segments)
	t := p.Start
	for i := range segs {
		scale := p.Baseline * float64(i+1)
		seg := lightcurve.Segment{
			Name:    fmt.Sprintf("sector-%02d", i+1),
			Samples: make([]lightcurve.Sample, p.PointsPerSegment),
		}
		for j := range seg.Samples {
			s := lightcurve.Sample{Time: t}
			s.Flux = scale * (p.Model(t) + rng.NormFloat64()*p.Noise)
			if rng.Float64() < p.FlaggedFraction {
				s.Quality = FlaggedBit
				s.Flux = scale * (0.5 + rng.Float64())
			}
			seg.Samples[j] = s
			t += p.Cadence
		}
		segs[i] = seg
		t += p.Gap
	}
	return segs, nil
}

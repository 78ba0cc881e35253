// Package lightcurve holds the photometric time-series types and the stages that
// turn raw observation segments into a single normalized light curve.
package lightcurve

import "sort"

// Sample is one photometric measurement as delivered by the ingestion layer.
type Sample struct {
	Time    float64 // days, in the mission time scale (BTJD for TESS)
	Flux    float64 // raw instrument units
	Quality uint32  // mission quality bitmask
}

// Segment is an ordered run of samples from a single observation file.
type Segment struct {
	Name    string
	Samples []Sample
}

// Len returns the number of samples in the segment
func (s Segment) Len() int {
	return len(s.Samples)
}

// Flux returns a copy of the segment's flux values
func (s Segment) Flux() []float64 {
	flux := make([]float64, len(s.Samples))
	for i, sm := range s.Samples {
		flux[i] = sm.Flux
	}
	return flux
}

// LightCurve is the merged, normalized curve. Time is shifted so that its
// minimum is zero; Offset holds the amount subtracted. A LightCurve is never
// mutated after Merge returns it.
type LightCurve struct {
	Time   []float64
	Flux   []float64
	Offset float64
}

// Len returns the number of points in the curve
func (lc *LightCurve) Len() int {
	if lc == nil {
		return 0
	}
	return len(lc.Time)
}

// AbsoluteTime converts a curve time back into the input time scale.
func (lc *LightCurve) AbsoluteTime(t float64) float64 {
	return t + lc.Offset
}

// Span returns the time between the first and last observation.
func (lc *LightCurve) Span() float64 {
	if lc.Len() == 0 {
		return 0
	}
	max := lc.Time[0]
	for _, t := range lc.Time {
		if t > max {
			max = t
		}
	}
	// min is zero by construction
	return max
}

// Cadence returns the median spacing between consecutive distinct observation
// times, or 0 when fewer than two distinct times exist. The curve does not
// need to be sorted.
func (lc *LightCurve) Cadence() float64 {
	if lc.Len() < 2 {
		return 0
	}
	sorted := append([]float64(nil), lc.Time...)
	sort.Float64s(sorted)

	steps := make([]float64, 0, len(sorted)-1)
	for i := 1; i < len(sorted); i++ {
		if dt := sorted[i] - sorted[i-1]; dt > 0 {
			steps = append(steps, dt)
		}
	}
	return Median(steps)
}

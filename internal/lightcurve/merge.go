package lightcurve

import (
	"gonum.org/v1/gonum/floats"

	aerr "github.com/chrissnell/transitsearch/internal/errors"
)

// Merge concatenates segments in the order given and shifts time so the
// earliest sample sits at zero. Segments are not sorted; empty segments
// contribute nothing. If no segment holds a sample the result is an
// EMPTY_INPUT error.
func Merge(segs ...Segment) (*LightCurve, error) {
	total := 0
	for _, seg := range segs {
		total += len(seg.Samples)
	}
	if total == 0 {
		return nil, aerr.NewEmptyInput(aerr.StageMerge, "no segment contributed any samples")
	}

	lc := &LightCurve{
		Time: make([]float64, 0, total),
		Flux: make([]float64, 0, total),
	}
	for _, seg := range segs {
		for _, s := range seg.Samples {
			lc.Time = append(lc.Time, s.Time)
			lc.Flux = append(lc.Flux, s.Flux)
		}
	}

	lc.Offset = floats.Min(lc.Time)
	floats.AddConst(-lc.Offset, lc.Time)

	return lc, nil
}

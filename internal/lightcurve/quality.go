package lightcurve

import "math"

// DefaultQualityMask rejects the TESS SPOC quality flags for attitude tweaks,
// safe mode, coarse and earth pointing, argabrightening, desaturation events,
// manual exclusion, impulsive outliers, scattered light and bad calibration.
const DefaultQualityMask uint32 = 0b0101001010111111

// Filter returns the samples of seg whose flux is a number and whose quality
// bits do not intersect mask. An empty result is valid and not an error.
func Filter(seg Segment, mask uint32) Segment {
	kept := make([]Sample, 0, len(seg.Samples))
	for _, s := range seg.Samples {
		if math.IsNaN(s.Flux) || s.Quality&mask != 0 {
			continue
		}
		kept = append(kept, s)
	}
	return Segment{Name: seg.Name, Samples: kept}
}

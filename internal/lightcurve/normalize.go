package lightcurve

import "sort"

// Median returns the median of values, averaging the two middle values when
// the length is even. It returns 0 for an empty slice. values is not modified.
func Median(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// Normalize divides every flux value of seg by the segment median so that the
// segment baseline sits at 1.0. It reports false, and leaves seg untouched,
// when the segment is empty or its median is zero.
func Normalize(seg Segment) (Segment, bool) {
	if len(seg.Samples) == 0 {
		return seg, false
	}

	median := Median(seg.Flux())
	if median == 0 {
		return seg, false
	}

	out := make([]Sample, len(seg.Samples))
	for i, s := range seg.Samples {
		out[i] = Sample{Time: s.Time, Flux: s.Flux / median, Quality: s.Quality}
	}
	return Segment{Name: seg.Name, Samples: out}, true
}

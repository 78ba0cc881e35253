package depth

import (
	"math"

	aerr "github.com/chrissnell/transitsearch/internal/errors"
)

// Bin is one equal-width slice of orbital phase. A bin with Count == 0 has no
// data and its Mean must not be used.
type Bin struct {
	Lo     float64
	Hi     float64
	Center float64
	Mean   float64
	Count  int
}

// HasData reports whether any sample fell inside the bin
func (b Bin) HasData() bool {
	return b.Count > 0
}

// BinCount returns the number of bins used for width: 1/width rounded to the
// nearest integer.
func BinCount(width float64) int {
	return int(math.Round(1 / width))
}

// BinPhases partitions [0, 1) into equal bins of roughly the given width and
// averages the flux in each. phase and flux must be the same length; phases
// outside [0, 1) are wrapped.
func BinPhases(phase, flux []float64, width float64) ([]Bin, error) {
	if !(width > 0 && width <= 0.5) {
		return nil, aerr.NewInvalidConfiguration(aerr.StageDepth, "depth.bin_width", "must be in (0, 0.5], got %v", width)
	}
	if len(phase) != len(flux) {
		return nil, aerr.NewInvalidConfiguration(aerr.StageDepth, "folded curve", "phase and flux lengths differ (%d != %d)", len(phase), len(flux))
	}

	n := BinCount(width)
	sums := make([]float64, n)
	bins := make([]Bin, n)
	for i := range bins {
		bins[i].Lo = float64(i) / float64(n)
		bins[i].Hi = float64(i+1) / float64(n)
		bins[i].Center = (float64(i) + 0.5) / float64(n)
	}

	for i, p := range phase {
		p -= math.Floor(p)
		idx := int(p * float64(n))
		if idx >= n {
			idx = n - 1
		}
		sums[idx] += flux[i]
		bins[idx].Count++
	}

	for i := range bins {
		if bins[i].Count > 0 {
			bins[i].Mean = sums[i] / float64(bins[i].Count)
		}
	}
	return bins, nil
}

package lightcurve

import (
	"math"
	"sort"

	aerr "github.com/chrissnell/transitsearch/internal/errors"
)

// FoldedCurve pairs each flux value with its orbital phase. Phase[i] and
// Flux[i] always describe the same observation.
type FoldedCurve struct {
	Period float64
	Epoch  float64
	Phase  []float64
	Flux   []float64
}

// Phase maps t to its orbital phase in [0, 1) for the given period and epoch.
func Phase(t, period, epoch float64) float64 {
	p := math.Mod(t-epoch, period) / period
	if p < 0 {
		p += 1
	}
	// rounding can land exactly on 1 for tiny negative offsets
	if p >= 1 {
		p = 0
	}
	return p
}

// Fold maps every point of lc onto orbital phase. The output keeps the
// curve's point order.
func Fold(lc *LightCurve, period, epoch float64) (*FoldedCurve, error) {
	if period <= 0 || math.IsNaN(period) || math.IsInf(period, 0) {
		return nil, aerr.NewInvalidConfiguration(aerr.StageFold, "period", "must be positive and finite, got %v", period)
	}
	if lc.Len() == 0 {
		return nil, aerr.NewEmptyInput(aerr.StageFold, "cannot fold an empty light curve")
	}

	fc := &FoldedCurve{
		Period: period,
		Epoch:  epoch,
		Phase:  make([]float64, lc.Len()),
		Flux:   make([]float64, lc.Len()),
	}
	for i, t := range lc.Time {
		fc.Phase[i] = Phase(t, period, epoch)
		fc.Flux[i] = lc.Flux[i]
	}
	return fc, nil
}

// Len returns the number of folded points
func (fc *FoldedCurve) Len() int {
	return len(fc.Phase)
}

// Sorted returns a copy ordered by phase. Ties keep their original order.
func (fc *FoldedCurve) Sorted() *FoldedCurve {
	idx := make([]int, fc.Len())
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return fc.Phase[idx[a]] < fc.Phase[idx[b]]
	})

	out := &FoldedCurve{
		Period: fc.Period,
		Epoch:  fc.Epoch,
		Phase:  make([]float64, len(idx)),
		Flux:   make([]float64, len(idx)),
	}
	for i, j := range idx {
		out.Phase[i] = fc.Phase[j]
		out.Flux[i] = fc.Flux[j]
	}
	return out
}

// Unwrap repeats the folded curve over cycles consecutive orbits, adding k to
// the phase of the k-th copy. This is a display transform only; depth
// estimation always works on the wrapped [0, 1) phases.
func (fc *FoldedCurve) Unwrap(cycles int) *FoldedCurve {
	if cycles < 1 {
		cycles = 1
	}
	n := fc.Len()
	out := &FoldedCurve{
		Period: fc.Period,
		Epoch:  fc.Epoch,
		Phase:  make([]float64, 0, n*cycles),
		Flux:   make([]float64, 0, n*cycles),
	}
	for k := 0; k < cycles; k++ {
		for i := 0; i < n; i++ {
			out.Phase = append(out.Phase, fc.Phase[i]+float64(k))
			out.Flux = append(out.Flux, fc.Flux[i])
		}
	}
	return out
}

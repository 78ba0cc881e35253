package bls

import (
	"context"
	"math"
	"testing"

	aerr "github.com/chrissnell/transitsearch/internal/errors"
	"github.com/chrissnell/transitsearch/internal/lightcurve"
)

// boxCurve samples n points uniformly over span days with flux 1 except for
// a box dip of the given depth and duration recurring every period from start.
func boxCurve(n int, span, period, start, duration, depth float64) *lightcurve.LightCurve {
	lc := &lightcurve.LightCurve{
		Time: make([]float64, n),
		Flux: make([]float64, n),
	}
	for i := 0; i < n; i++ {
		t := span * float64(i) / float64(n-1)
		lc.Time[i] = t
		lc.Flux[i] = 1.0
		if t >= start && math.Mod(t-start, period) < duration {
			lc.Flux[i] = 1.0 - depth
		}
	}
	return lc
}

func newTestEngine(t *testing.T, workers int) *Engine {
	t.Helper()
	p := DefaultParams()
	p.Workers = workers
	e, err := NewEngine(p, nil)
	if err != nil {
		t.Fatalf("NewEngine returned error: %v", err)
	}
	return e
}

func TestNewGrid(t *testing.T) {
	g, err := NewGrid(GridParams{
		MinPeriod:           0.5,
		MaxPeriod:           1.5,
		Count:               11,
		DurationFraction:    0.05,
		MaxDurationFraction: 0.9,
	})
	if err != nil {
		t.Fatalf("NewGrid returned error: %v", err)
	}

	if g.Len() != 11 {
		t.Fatalf("expected 11 periods, got %d", g.Len())
	}
	if g.Periods[0] != 0.5 || g.Periods[10] != 1.5 {
		t.Errorf("grid bounds (%v, %v), expected (0.5, 1.5)", g.Periods[0], g.Periods[10])
	}
	if math.Abs(g.Step()-0.1) > 1e-12 {
		t.Errorf("Step = %v, expected 0.1", g.Step())
	}
	for i := range g.Periods {
		if i > 0 && g.Periods[i] <= g.Periods[i-1] {
			t.Errorf("periods not ascending at %d", i)
		}
		if want := g.Periods[i] * 0.05; math.Abs(g.Durations[i]-want) > 1e-12 {
			t.Errorf("duration %d = %v, expected %v", i, g.Durations[i], want)
		}
	}
	if g.Clamped != 0 {
		t.Errorf("Clamped = %d, expected 0", g.Clamped)
	}
}

func TestNewGridClampsFixedDuration(t *testing.T) {
	g, err := NewGrid(GridParams{
		MinPeriod:           0.1,
		MaxPeriod:           1.0,
		Count:               10,
		Duration:            0.2,
		MaxDurationFraction: 0.9,
	})
	if err != nil {
		t.Fatalf("NewGrid returned error: %v", err)
	}

	for i, period := range g.Periods {
		if g.Durations[i] >= period {
			t.Errorf("period %v: duration %v not below period", period, g.Durations[i])
		}
		want := math.Min(0.2, 0.9*period)
		if math.Abs(g.Durations[i]-want) > 1e-12 {
			t.Errorf("period %v: duration %v, expected %v", period, g.Durations[i], want)
		}
	}
	// 0.1 and 0.2 are the only periods where 0.2 d reaches 0.9·P
	if g.Clamped != 2 {
		t.Errorf("Clamped = %d, expected 2", g.Clamped)
	}
}

func TestNewGridInvalid(t *testing.T) {
	base := DefaultGridParams()
	tests := []struct {
		name   string
		modify func(*GridParams)
	}{
		{"single period", func(p *GridParams) { p.Count = 1 }},
		{"zero periods", func(p *GridParams) { p.Count = 0 }},
		{"non-positive minimum", func(p *GridParams) { p.MinPeriod = 0 }},
		{"inverted bounds", func(p *GridParams) { p.MaxPeriod = p.MinPeriod }},
		{"no duration", func(p *GridParams) { p.DurationFraction = 0 }},
		{"cap reaches period", func(p *GridParams) { p.MaxDurationFraction = 1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := base
			tt.modify(&p)
			if _, err := NewGrid(p); !aerr.Is(err, aerr.ErrInvalidConfiguration) {
				t.Errorf("expected INVALID_CONFIGURATION, got %v", err)
			}
		})
	}
}

func TestNewGridFromPeriodsRejectsUnsorted(t *testing.T) {
	_, err := NewGridFromPeriods([]float64{1.0, 0.9, 1.1}, DefaultGridParams())
	if !aerr.Is(err, aerr.ErrInvalidConfiguration) {
		t.Fatalf("expected INVALID_CONFIGURATION, got %v", err)
	}
}

func TestSearchRecoversInjectedBox(t *testing.T) {
	const (
		truePeriod = 1.3
		depth      = 0.01
	)
	duration := 0.05 * truePeriod
	lc := boxCurve(2000, 10, truePeriod, 0.3, duration, depth)

	grid, err := NewGrid(GridParams{
		MinPeriod:           1.0,
		MaxPeriod:           1.6,
		Count:               601,
		DurationFraction:    0.05,
		MaxDurationFraction: 0.9,
	})
	if err != nil {
		t.Fatalf("NewGrid returned error: %v", err)
	}

	res, err := newTestEngine(t, 4).Search(context.Background(), lc, grid)
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}

	best := res.Best()
	if math.Abs(best.Period-truePeriod) > 1.5*grid.Step() {
		t.Errorf("best period %.4f, expected %.4f ± %.4f", best.Period, truePeriod, grid.Step())
	}
	if math.Abs(best.Depth-depth) > 0.002 {
		t.Errorf("in/out mean difference %.5f, expected %.5f", best.Depth, depth)
	}
	if math.Abs((best.OutMean-best.InMean)-best.Depth) > 1e-12 {
		t.Errorf("depth %v does not match out-in means (%v, %v)", best.Depth, best.OutMean, best.InMean)
	}
	if best.Power <= 0 || best.Power > 1 {
		t.Errorf("power %v outside (0, 1]", best.Power)
	}

	// mid-transit of the injected dip lies at 0.3 + D/2 modulo P
	wantT0 := math.Mod(0.3+duration/2, truePeriod)
	if diff := math.Abs(best.T0 - wantT0); diff > duration/2 {
		t.Errorf("T0 %.4f, expected near %.4f", best.T0, wantT0)
	}

	for i, pp := range res.Periodogram {
		if math.IsNaN(pp.Power) || math.IsInf(pp.Power, 0) {
			t.Fatalf("period %d has non-finite power", i)
		}
		if pp.Power > best.Power {
			t.Fatalf("period %d has power above the reported best", i)
		}
	}
}

func TestSearchReferenceScenario(t *testing.T) {
	// 1000 points over 5 days, 0.1-day dips to 0.99 every 0.94 days from day 0.02
	lc := boxCurve(1000, 5, 0.94, 0.02, 0.1, 0.01)

	grid, err := NewGrid(GridParams{
		MinPeriod:           0.8,
		MaxPeriod:           1.2,
		Count:               401,
		DurationFraction:    0.05,
		MaxDurationFraction: 0.9,
	})
	if err != nil {
		t.Fatalf("NewGrid returned error: %v", err)
	}

	res, err := newTestEngine(t, 0).Search(context.Background(), lc, grid)
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}

	// the dip is twice as long as the box, so every period whose drift keeps
	// the box inside all dips fits equally well
	best := res.Best()
	if math.Abs(best.Period-0.94) > 0.015 {
		t.Errorf("best period %.4f, expected 0.94", best.Period)
	}
	if math.Abs(best.Depth-0.01) > 0.002 {
		t.Errorf("depth %.5f, expected 0.01", best.Depth)
	}
}

func TestSearchIndependentOfWorkers(t *testing.T) {
	lc := boxCurve(800, 6, 1.1, 0.4, 0.06, 0.02)
	// a few noisy points break exact ties
	for i := 0; i < lc.Len(); i += 37 {
		lc.Flux[i] += 0.001 * math.Sin(float64(i))
	}
	grid, err := NewGrid(GridParams{MinPeriod: 0.9, MaxPeriod: 1.3, Count: 97, DurationFraction: 0.05, MaxDurationFraction: 0.9})
	if err != nil {
		t.Fatalf("NewGrid returned error: %v", err)
	}

	serial, err := newTestEngine(t, 1).Search(context.Background(), lc, grid)
	if err != nil {
		t.Fatalf("serial Search returned error: %v", err)
	}
	for _, workers := range []int{2, 3, 8, 200} {
		parallel, err := newTestEngine(t, workers).Search(context.Background(), lc, grid)
		if err != nil {
			t.Fatalf("Search with %d workers returned error: %v", workers, err)
		}
		if parallel.BestIndex != serial.BestIndex {
			t.Errorf("%d workers: best index %d, expected %d", workers, parallel.BestIndex, serial.BestIndex)
		}
		for i := range serial.Periodogram {
			if parallel.Periodogram[i] != serial.Periodogram[i] {
				t.Fatalf("%d workers: periodogram differs at %d", workers, i)
			}
		}
	}
}

func TestSearchTieBreaksOnFirstPeriod(t *testing.T) {
	// constant flux: no period explains any variance
	lc := &lightcurve.LightCurve{Time: make([]float64, 200), Flux: make([]float64, 200)}
	for i := range lc.Time {
		lc.Time[i] = float64(i) * 0.01
		lc.Flux[i] = 1.0
	}
	grid, _ := NewGrid(GridParams{MinPeriod: 0.3, MaxPeriod: 0.9, Count: 7, DurationFraction: 0.1, MaxDurationFraction: 0.9})

	res, err := newTestEngine(t, 3).Search(context.Background(), lc, grid)
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if res.BestIndex != 0 {
		t.Errorf("best index %d, expected first period", res.BestIndex)
	}
	if res.EmptyPeriods != grid.Len() {
		t.Errorf("EmptyPeriods = %d, expected %d", res.EmptyPeriods, grid.Len())
	}
	for _, pp := range res.Periodogram {
		if pp.Power != 0 {
			t.Errorf("period %v: power %v, expected 0", pp.Period, pp.Power)
		}
	}
}

func TestSearchTooFewPointsGivesZeroPower(t *testing.T) {
	lc := &lightcurve.LightCurve{Time: []float64{0, 0.5, 1.0}, Flux: []float64{1, 0.9, 1}}
	grid, _ := NewGrid(GridParams{MinPeriod: 0.5, MaxPeriod: 1.5, Count: 5, DurationFraction: 0.1, MaxDurationFraction: 0.9})

	res, err := newTestEngine(t, 1).Search(context.Background(), lc, grid)
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	for _, pp := range res.Periodogram {
		if pp.Power != 0 {
			t.Errorf("period %v: power %v, expected 0", pp.Period, pp.Power)
		}
	}
}

func TestSearchEmptyCurve(t *testing.T) {
	grid, _ := NewGrid(DefaultGridParams())
	_, err := newTestEngine(t, 1).Search(context.Background(), &lightcurve.LightCurve{}, grid)
	if !aerr.Is(err, aerr.ErrEmptyInput) {
		t.Fatalf("expected EMPTY_INPUT, got %v", err)
	}
}

func TestSearchCancelled(t *testing.T) {
	lc := boxCurve(500, 5, 1.0, 0.1, 0.05, 0.01)
	grid, _ := NewGrid(GridParams{MinPeriod: 0.5, MaxPeriod: 2, Count: 1000, DurationFraction: 0.05, MaxDurationFraction: 0.9})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := newTestEngine(t, 2).Search(ctx, lc, grid); err == nil {
		t.Fatalf("expected an error from a cancelled search")
	}
}

func TestNewEngineInvalid(t *testing.T) {
	tests := []struct {
		name   string
		params Params
	}{
		{"zero min in box", Params{MinInBox: 0, Oversample: 3}},
		{"zero oversample", Params{MinInBox: 3, Oversample: 0}},
		{"negative bins", Params{MinInBox: 3, Oversample: 3, MaxPhaseBins: -1}},
		{"negative workers", Params{MinInBox: 3, Oversample: 3, Workers: -2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewEngine(tt.params, nil); !aerr.Is(err, aerr.ErrInvalidConfiguration) {
				t.Errorf("expected INVALID_CONFIGURATION, got %v", err)
			}
		})
	}
}

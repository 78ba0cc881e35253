package simulate

import (
	"math"
	"math/rand"
	"testing"

	"github.com/chrissnell/transitsearch/internal/lightcurve"
)

func TestModel(t *testing.T) {
	p := Params{Period: 2, Epoch: 10, Duration: 0.2, Depth: 0.01, SecondaryDepth: 0.001}

	tests := []struct {
		name string
		t    float64
		want float64
	}{
		{"mid transit", 10, 0.99},
		{"earlier transit", 6.05, 0.99},
		{"transit edge outside", 10.11, 1},
		{"secondary", 11, 0.999},
		{"secondary before epoch", 9.02, 0.999},
		{"out of eclipse", 10.5, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.Model(tt.t); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Model(%v): expected %v, got %v", tt.t, tt.want, got)
			}
		})
	}
}

func TestGenerate(t *testing.T) {
	p := DefaultParams()
	p.Segments = 3
	p.PointsPerSegment = 500
	p.Noise = 0
	p.FlaggedFraction = 0.1

	segs, err := Generate(p, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(segs) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(segs))
	}

	flagged := 0
	for i, seg := range segs {
		if seg.Len() != 500 {
			t.Errorf("segment %d: expected 500 samples, got %d", i, seg.Len())
		}
		scale := p.Baseline * float64(i+1)
		for j, s := range seg.Samples {
			if j > 0 && s.Time <= seg.Samples[j-1].Time {
				t.Fatalf("segment %d: times not increasing at %d", i, j)
			}
			if s.Quality != 0 {
				flagged++
				continue
			}
			if want := scale * p.Model(s.Time); math.Abs(s.Flux-want) > 1e-9 {
				t.Fatalf("segment %d sample %d: expected %v, got %v", i, j, want, s.Flux)
			}
		}
	}
	if flagged == 0 {
		t.Error("expected some flagged samples")
	}

	// flagged samples must be removed by the default mask
	for _, seg := range segs {
		for _, s := range lightcurve.Filter(seg, lightcurve.DefaultQualityMask).Samples {
			if s.Quality&FlaggedBit != 0 {
				t.Fatal("flagged sample survived the default quality mask")
			}
		}
	}

	gap := segs[1].Samples[0].Time - segs[0].Samples[499].Time
	if math.Abs(gap-(p.Gap+p.Cadence)) > 1e-9 {
		t.Errorf("expected gap %v, got %v", p.Gap+p.Cadence, gap)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Params)
	}{
		{"no segments", func(p *Params) { p.Segments = 0 }},
		{"no points", func(p *Params) { p.PointsPerSegment = 0 }},
		{"zero cadence", func(p *Params) { p.Cadence = 0 }},
		{"zero period", func(p *Params) { p.Period = 0 }},
		{"long duration", func(p *Params) { p.Duration = p.Period }},
		{"depth of one", func(p *Params) { p.Depth = 1 }},
		{"negative noise", func(p *Params) { p.Noise = -1 }},
		{"flagged over one", func(p *Params) { p.FlaggedFraction = 2 }},
	}

	if err := DefaultParams().Validate(); err != nil {
		t.Fatalf("default params invalid: %v", err)
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.modify(&p)
			if err := p.Validate(); err == nil {
				t.Error("expected an error")
			}
			if _, err := Generate(p, rand.New(rand.NewSource(1))); err == nil {
				t.Error("Generate accepted invalid params")
			}
		})
	}
}

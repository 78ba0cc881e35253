package planet

import (
	"math"
	"testing"

	aerr "github.com/chrissnell/transitsearch/internal/errors"
)

func wasp18() Star {
	return Star{
		Name:            "WASP-18",
		RadiusSolar:     1.319,
		TemperatureK:    6400,
		InclinationRad:  1.45735,
		SemiMajorAxisAU: 0.02024,
	}
}

func TestPlanetRadius(t *testing.T) {
	r, err := PlanetRadius(wasp18(), 0.01)
	if err != nil {
		t.Fatalf("PlanetRadius: %v", err)
	}
	if math.Abs(r.Stellar-0.1) > 1e-12 {
		t.Errorf("Stellar = %v, want 0.1", r.Stellar)
	}
	if math.Abs(r.Solar-0.1319) > 1e-12 {
		t.Errorf("Solar = %v, want 0.1319", r.Solar)
	}
	if math.Abs(r.Jupiter-1.2841) > 1e-3 {
		t.Errorf("Jupiter = %v, want ~1.2841", r.Jupiter)
	}
}

func TestPlanetRadiusUndefined(t *testing.T) {
	for _, depth := range []float64{0, -0.001, math.NaN()} {
		_, err := PlanetRadius(wasp18(), depth)
		if !aerr.Is(err, aerr.ErrUndefinedMath) {
			t.Errorf("depth %v: got %v, want UndefinedMath", depth, err)
		}
	}
}

func TestImpactParameter(t *testing.T) {
	b := ImpactParameter(wasp18())
	if math.Abs(b-0.3735) > 1e-3 {
		t.Errorf("b = %v, want ~0.3735", b)
	}

	edgeOn := wasp18()
	edgeOn.InclinationRad = math.Pi / 2
	if b := ImpactParameter(edgeOn); math.Abs(b) > 1e-12 {
		t.Errorf("edge-on b = %v, want 0", b)
	}
}

func TestDaysideTemperature(t *testing.T) {
	rStar := 1.378 * SolarRadiusMeters
	rPlanet := 1.2 * JupiterRadiusMeters

	temp, err := DaysideTemperature(6400, rStar, rPlanet, 0.0011)
	if err != nil {
		t.Fatalf("DaysideTemperature: %v", err)
	}
	if math.Abs(temp-3083.8) > 0.5 {
		t.Errorf("T = %v, want ~3083.8 K", temp)
	}
}

func TestDaysideTemperatureUndefined(t *testing.T) {
	tests := []struct {
		name    string
		rPlanet float64
		depth   float64
	}{
		{"zero depth", 1, 0},
		{"negative depth", 1, -0.0004},
		{"nan depth", 1, math.NaN()},
		{"zero planet radius", 0, 0.001},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			temp, err := DaysideTemperature(6400, 10, tt.rPlanet, tt.depth)
			if !aerr.Is(err, aerr.ErrUndefinedMath) {
				t.Errorf("got %v, want UndefinedMath", err)
			}
			if temp != 0 {
				t.Errorf("temperature = %v, want 0 on error", temp)
			}
			if aerr.StageOf(err) != aerr.StagePhysics {
				t.Errorf("stage = %q, want %q", aerr.StageOf(err), aerr.StagePhysics)
			}
		})
	}
}

func TestRadiusFromJupiter(t *testing.T) {
	r := RadiusFromJupiter(wasp18(), 1.2)
	want := 1.2 * JupiterRadiusMeters / SolarRadiusMeters
	if math.Abs(r.Solar-want) > 1e-12 {
		t.Errorf("Solar = %v, want %v", r.Solar, want)
	}
	if math.Abs(r.Stellar-want/1.319) > 1e-12 {
		t.Errorf("Stellar = %v, want %v", r.Stellar, want/1.319)
	}
}

func TestStarValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(s *Star)
		wantErr bool
	}{
		{"valid", func(s *Star) {}, false},
		{"zero radius", func(s *Star) { s.RadiusSolar = 0 }, true},
		{"negative radius", func(s *Star) { s.RadiusSolar = -1 }, true},
		{"zero temperature", func(s *Star) { s.TemperatureK = 0 }, true},
		{"missing semi-major axis", func(s *Star) { s.SemiMajorAxisAU = 0 }, true},
		{"infinite inclination", func(s *Star) { s.InclinationRad = math.Inf(1) }, true},
		{"negative catalog radius", func(s *Star) { s.PlanetRadiusJupiter = -1 }, true},
		{"catalog radius", func(s *Star) { s.PlanetRadiusJupiter = 1.2 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := wasp18()
			tt.mutate(&s)
			err := s.Validate()
			if tt.wantErr && !aerr.Is(err, aerr.ErrInvalidConfiguration) {
				t.Errorf("got %v, want InvalidConfiguration", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

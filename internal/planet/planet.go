// Package planet derives physical parameters of a transiting planet from the
// measured depths and the host star's catalog values.
package planet

import (
	"math"

	aerr "github.com/chrissnell/transitsearch/internal/errors"
)

const (
	// SolarRadiusMeters is the nominal solar radius
	SolarRadiusMeters = 6.96e8

	// JupiterRadiusMeters is Jupiter's equatorial radius
	JupiterRadiusMeters = 7.1492e7

	// AUInSolarRadii converts an astronomical unit to solar radii
	AUInSolarRadii = 215.032

	daysideExponent = 6.0 / 13.0
)

// Star holds the host star's catalog parameters. None of them have defaults.
type Star struct {
	Name            string
	RadiusSolar     float64
	TemperatureK    float64
	InclinationRad  float64 // orbital inclination of the planet
	SemiMajorAxisAU float64 // planet's orbital semi-major axis

	// PlanetRadiusJupiter, when positive, is a catalog planet radius used for
	// the dayside temperature in place of the radius measured from the transit.
	PlanetRadiusJupiter float64
}

// Validate checks that every physical quantity is positive and finite
func (s Star) Validate() error {
	checks := []struct {
		field string
		value float64
	}{
		{"star.radius_solar", s.RadiusSolar},
		{"star.temperature_k", s.TemperatureK},
		{"star.semi_major_axis_au", s.SemiMajorAxisAU},
	}
	for _, c := range checks {
		if !(c.value > 0) || math.IsInf(c.value, 0) {
			return aerr.NewInvalidConfiguration(aerr.StagePhysics, c.field, "must be positive and finite, got %v", c.value)
		}
	}
	if math.IsNaN(s.InclinationRad) || math.IsInf(s.InclinationRad, 0) {
		return aerr.NewInvalidConfiguration(aerr.StagePhysics, "star.inclination_rad", "must be finite, got %v", s.InclinationRad)
	}
	if s.PlanetRadiusJupiter < 0 || math.IsNaN(s.PlanetRadiusJupiter) {
		return aerr.NewInvalidConfiguration(aerr.StagePhysics, "star.planet_radius_jupiter", "must not be negative, got %v", s.PlanetRadiusJupiter)
	}
	return nil
}

// Radius is a planet radius expressed in three units
type Radius struct {
	Stellar float64 // Rp / R★
	Solar   float64
	Jupiter float64
}

// RadiusFromJupiter expresses a radius given in Jupiter radii in all units
func RadiusFromJupiter(star Star, rj float64) Radius {
	solar := rj * JupiterRadiusMeters / SolarRadiusMeters
	return Radius{
		Stellar: solar / star.RadiusSolar,
		Solar:   solar,
		Jupiter: rj,
	}
}

// PlanetRadius returns R★ × sqrt(depth). A non-positive depth has no radius.
func PlanetRadius(star Star, transitDepth float64) (Radius, error) {
	if !(transitDepth > 0) {
		return Radius{}, aerr.NewUndefinedMath(aerr.StagePhysics, "transit depth must be positive to derive a radius",
			map[string]any{"transit_depth": transitDepth})
	}
	ratio := math.Sqrt(transitDepth)
	solar := star.RadiusSolar * ratio
	return Radius{
		Stellar: ratio,
		Solar:   solar,
		Jupiter: solar * SolarRadiusMeters / JupiterRadiusMeters,
	}, nil
}

// ImpactParameter returns b = cos(i) × a / R★
func ImpactParameter(star Star) float64 {
	a := star.SemiMajorAxisAU * AUInSolarRadii
	return math.Cos(star.InclinationRad) * a / star.RadiusSolar
}

// DaysideTemperature returns T★ × (R★/Rp) × δ^(6/13) for a secondary eclipse
// depth δ. Both radii must be in the same unit.
func DaysideTemperature(starTempK, starRadius, planetRadius, secondaryDepth float64) (float64, error) {
	if !(secondaryDepth > 0) {
		return 0, aerr.NewUndefinedMath(aerr.StagePhysics, "secondary depth must be positive for a dayside temperature",
			map[string]any{"secondary_depth": secondaryDepth})
	}
	if !(planetRadius > 0) {
		return 0, aerr.NewUndefinedMath(aerr.StagePhysics, "planet radius must be positive for a dayside temperature",
			map[string]any{"planet_radius": planetRadius})
	}
	return starTempK * (starRadius / planetRadius) * math.Pow(secondaryDepth, daysideExponent), nil
}

package storage

import (
	"errors"
	"testing"
	"time"

	"github.com/chrissnell/transitsearch/internal/depth"
	aerr "github.com/chrissnell/transitsearch/internal/errors"
	"github.com/chrissnell/transitsearch/internal/lightcurve"
	"github.com/chrissnell/transitsearch/internal/pipeline"
	"github.com/chrissnell/transitsearch/internal/planet"
)

func TestRunFromResultComplete(t *testing.T) {
	utc := time.Date(2018, 7, 25, 12, 0, 0, 0, time.UTC)
	res := &pipeline.Result{
		Segments: []pipeline.SegmentReport{{Name: "a"}, {Name: "b", Skipped: true}, {Name: "c"}},
		Curve:    &lightcurve.LightCurve{Time: []float64{0, 1, 2}, Flux: []float64{1, 1, 1}},
		Ephemeris: &pipeline.Ephemeris{
			Period: 0.94, Epoch: 1325.3, UTC: utc, Power: 0.6,
		},
		Primary:   &depth.Estimate{Depth: 0.01},
		Secondary: &depth.Estimate{Depth: 0.0004},
		Planet: &pipeline.Parameters{
			Radius:              planet.Radius{Stellar: 0.1, Solar: 0.123, Jupiter: 1.2},
			ImpactParameter:     0.37,
			DaysideTemperatureK: 3100,
		},
	}

	run := RunFromResult("WASP-18", res, nil)
	if run.Status != StatusComplete || run.Error != "" {
		t.Errorf("unexpected status: %+v", run)
	}
	if run.Segments != 2 || run.Points != 3 {
		t.Errorf("expected 2 segments and 3 points, got %d and %d", run.Segments, run.Points)
	}
	if run.Period == nil || *run.Period != 0.94 || run.EpochUTC == nil || !run.EpochUTC.Equal(utc) {
		t.Errorf("ephemeris not copied: %+v", run)
	}
	if run.RadiusJupiter == nil || *run.RadiusJupiter != 1.2 {
		t.Errorf("radius not copied: %v", run.RadiusJupiter)
	}
	if run.DaysideTemperatureK == nil || *run.DaysideTemperatureK != 3100 {
		t.Errorf("temperature not copied: %v", run.DaysideTemperatureK)
	}
}

func TestRunFromResultPartial(t *testing.T) {
	res := &pipeline.Result{
		Ephemeris: &pipeline.Ephemeris{Period: 0.948},
		Primary:   &depth.Estimate{Depth: 0.01},
		Secondary: &depth.Estimate{Depth: -0.0002},
		Planet: &pipeline.Parameters{
			Radius:          planet.Radius{Stellar: 0.1, Solar: 0.123, Jupiter: 1.2},
			ImpactParameter: 0.37,
		},
	}
	err := aerr.NewUndefinedMath(aerr.StagePhysics, "secondary depth must be positive", nil)

	run := RunFromResult("WASP-18", res, err)
	if run.Status != StatusFailed || run.FailedStage != "physics" || run.Error == "" {
		t.Errorf("unexpected failure fields: %+v", run)
	}
	if run.SecondaryDepth == nil || *run.SecondaryDepth != -0.0002 {
		t.Errorf("secondary depth should be kept: %v", run.SecondaryDepth)
	}
	if run.DaysideTemperatureK != nil {
		t.Errorf("temperature should be nil, got %v", *run.DaysideTemperatureK)
	}
	if run.ImpactParameter == nil {
		t.Error("impact parameter should be kept")
	}
}

func TestRunFromResultNil(t *testing.T) {
	run := RunFromResult("x", nil, errors.New("boom"))
	if run.Status != StatusFailed || run.FailedStage != "" || run.Period != nil {
		t.Errorf("unexpected run: %+v", run)
	}
}

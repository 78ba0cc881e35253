package storage

import (
	"time"

	aerr "github.com/chrissnell/transitsearch/internal/errors"
	"github.com/chrissnell/transitsearch/internal/pipeline"
)

// RunFromResult summarizes an analysis result. analysisErr is the error
// returned alongside res, if any; res may be nil.
func RunFromResult(target string, res *pipeline.Result, analysisErr error) *Run {
	run := &Run{
		Target:    target,
		CreatedAt: time.Now().UTC(),
		Status:    StatusComplete,
	}

	if analysisErr != nil {
		run.Status = StatusFailed
		run.Error = analysisErr.Error()
		run.FailedStage = string(aerr.StageOf(analysisErr))
	}

	if res == nil {
		return run
	}

	for _, s := range res.Segments {
		if !s.Skipped {
			run.Segments++
		}
	}
	if res.Curve != nil {
		run.Points = res.Curve.Len()
	}

	if e := res.Ephemeris; e != nil {
		run.Period = ptr(e.Period)
		run.Epoch = ptr(e.Epoch)
		utc := e.UTC
		run.EpochUTC = &utc
		run.Power = ptr(e.Power)
	}

	if res.Primary != nil {
		run.TransitDepth = ptr(res.Primary.Depth)
	}
	if res.Secondary != nil {
		run.SecondaryDepth = ptr(res.Secondary.Depth)
	}

	if p := res.Planet; p != nil {
		run.ImpactParameter = ptr(p.ImpactParameter)
		if p.Radius.Solar > 0 {
			run.RadiusJupiter = ptr(p.Radius.Jupiter)
			run.RadiusSolar = ptr(p.Radius.Solar)
		}
		if p.DaysideTemperatureK > 0 {
			run.DaysideTemperatureK = ptr(p.DaysideTemperatureK)
		}
	}

	return run
}

func ptr(v float64) *float64 {
	return &v
}

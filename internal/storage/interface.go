// Package storage defines the persisted form of analysis runs and the
// interface implemented by result stores.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/chrissnell/transitsearch/internal/bls"
)

// ErrNotFound is returned when a run ID does not exist
var ErrNotFound = errors.New("run not found")

// RunStore persists analysis runs and their periodograms
type RunStore interface {
	SaveRun(ctx context.Context, run *Run, periodogram []bls.PeriodPower) error
	GetRun(ctx context.Context, id string) (*Run, error)
	ListRuns(ctx context.Context, limit int) ([]Run, error)
	GetPeriodogram(ctx context.Context, id string) ([]bls.PeriodPower, error)
	Close() error
}

// Run statuses
const (
	StatusComplete = "complete"
	StatusFailed   = "failed"
)

// Run is the stored summary of one analysis. Values from stages that never
// ran are nil.
type Run struct {
	ID        string    `json:"id"`
	Target    string    `json:"target"`
	CreatedAt time.Time `json:"created_at"`
	Status    string    `json:"status"`

	Error       string `json:"error,omitempty"`
	FailedStage string `json:"failed_stage,omitempty"`

	Segments int `json:"segments"`
	Points   int `json:"points"`

	Period   *float64   `json:"period,omitempty"`
	Epoch    *float64   `json:"epoch_btjd,omitempty"`
	EpochUTC *time.Time `json:"epoch_utc,omitempty"`
	Power    *float64   `json:"power,omitempty"`

	TransitDepth   *float64 `json:"transit_depth,omitempty"`
	SecondaryDepth *float64 `json:"secondary_depth,omitempty"`

	RadiusJupiter       *float64 `json:"radius_rj,omitempty"`
	RadiusSolar         *float64 `json:"radius_rsun,omitempty"`
	ImpactParameter     *float64 `json:"impact_parameter,omitempty"`
	DaysideTemperatureK *float64 `json:"dayside_temperature_k,omitempty"`
}

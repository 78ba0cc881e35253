package pipeline

import (
	"github.com/chrissnell/transitsearch/internal/bls"
	"github.com/chrissnell/transitsearch/internal/depth"
	aerr "github.com/chrissnell/transitsearch/internal/errors"
	"github.com/chrissnell/transitsearch/internal/lightcurve"
	"github.com/chrissnell/transitsearch/internal/planet"
)

// Config enumerates every option of an analysis run
type Config struct {
	QualityMask uint32
	Grid        bls.GridParams
	Search      bls.Params
	Depth       depth.Params
	Star        planet.Star

	// UnwrapCycles is the number of orbits in the display fold; 0 skips it
	UnwrapCycles int
}

// DefaultConfig returns the reference analysis settings. The star is left
// empty and must be supplied by the caller.
func DefaultConfig() Config {
	return Config{
		QualityMask:  lightcurve.DefaultQualityMask,
		Grid:         bls.DefaultGridParams(),
		Search:       bls.DefaultParams(),
		Depth:        depth.DefaultParams(),
		UnwrapCycles: 3,
	}
}

// Validate reports the first invalid option as an INVALID_CONFIGURATION error
func (c Config) Validate() error {
	if _, err := bls.NewGrid(c.Grid); err != nil {
		return err
	}
	if _, err := bls.NewEngine(c.Search, nil); err != nil {
		return err
	}
	if err := c.Depth.Validate(); err != nil {
		return err
	}
	if err := c.Star.Validate(); err != nil {
		return err
	}
	if c.UnwrapCycles < 0 {
		return aerr.NewInvalidConfiguration(aerr.StageConfig, "unwrap_cycles", "must not be negative, got %d", c.UnwrapCycles)
	}
	return nil
}

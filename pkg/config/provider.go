package config

import (
	"github.com/chrissnell/transitsearch/internal/bls"
	"github.com/chrissnell/transitsearch/internal/depth"
	aerr "github.com/chrissnell/transitsearch/internal/errors"
	"github.com/chrissnell/transitsearch/internal/pipeline"
	"github.com/chrissnell/transitsearch/internal/planet"
)

// ConfigProvider defines the interface for configuration data sources
type ConfigProvider interface {
	// Load complete configuration
	LoadConfig() (*ConfigData, error)

	// Get specific configuration sections
	GetStar() (*StarData, error)
	GetAnalysis() (*AnalysisData, error)
	GetStorageConfig() (*StorageData, error)
	GetControllers() ([]ControllerData, error)

	IsReadOnly() bool
	Close() error
}

// ConfigData represents the complete configuration structure
type ConfigData struct {
	Star        StarData         `json:"star"`
	Analysis    AnalysisData     `json:"analysis"`
	Storage     StorageData      `json:"storage,omitempty"`
	Controllers []ControllerData `json:"controllers,omitempty"`
}

// StarData holds the host star's catalog values. There are no defaults.
type StarData struct {
	Name                string  `json:"name,omitempty"`
	RadiusSolar         float64 `json:"radius_solar"`
	TemperatureK        float64 `json:"temperature_k"`
	InclinationRad      float64 `json:"inclination_rad"`
	SemiMajorAxisAU     float64 `json:"semi_major_axis_au"`
	PlanetRadiusJupiter float64 `json:"planet_radius_jupiter,omitempty"`
}

// AnalysisData holds every tunable of the analysis pipeline
type AnalysisData struct {
	QualityMask  uint32     `json:"quality_mask"`
	Grid         GridData   `json:"grid"`
	Search       SearchData `json:"search"`
	Depth        DepthData  `json:"depth"`
	UnwrapCycles int        `json:"unwrap_cycles"`
}

// GridData defines the candidate periods, in days
type GridData struct {
	MinPeriod           float64 `json:"min_period"`
	MaxPeriod           float64 `json:"max_period"`
	Count               int     `json:"count"`
	DurationFraction    float64 `json:"duration_fraction"`
	MaxDurationFraction float64 `json:"max_duration_fraction"`
	Duration            float64 `json:"duration,omitempty"`
}

// SearchData tunes the box scan
type SearchData struct {
	MinInBox     int `json:"min_in_box"`
	Oversample   int `json:"oversample"`
	MaxPhaseBins int `json:"max_phase_bins"`
	Workers      int `json:"workers,omitempty"`
}

// DepthData defines the phase bins and eclipse windows
type DepthData struct {
	BinWidth           float64 `json:"bin_width"`
	PrimaryExclusion   float64 `json:"primary_exclusion"`
	SecondaryCenter    float64 `json:"secondary_center"`
	SecondaryHalfWidth float64 `json:"secondary_half_width"`
}

// StorageData holds the configuration for the result store
type StorageData struct {
	SQLite *SQLiteData `json:"sqlite,omitempty"`
}

// SQLiteData locates the SQLite result database
type SQLiteData struct {
	Path string `json:"path"`
}

// ControllerData holds the configuration for a controller backend
type ControllerData struct {
	Type       string          `json:"type,omitempty"`
	RESTServer *RESTServerData `json:"rest,omitempty"`
}

// RESTServerData configures the read-only results API
type RESTServerData struct {
	Cert       string `json:"cert,omitempty"`
	Key        string `json:"key,omitempty"`
	Port       int    `json:"port,omitempty"`
	ListenAddr string `json:"listen_addr,omitempty"`
}

// DefaultAnalysis returns the reference analysis settings
func DefaultAnalysis() AnalysisData {
	d := pipeline.DefaultConfig()
	return AnalysisData{
		QualityMask: d.QualityMask,
		Grid: GridData{
			MinPeriod:           d.Grid.MinPeriod,
			MaxPeriod:           d.Grid.MaxPeriod,
			Count:               d.Grid.Count,
			DurationFraction:    d.Grid.DurationFraction,
			MaxDurationFraction: d.Grid.MaxDurationFraction,
			Duration:            d.Grid.Duration,
		},
		Search: SearchData{
			MinInBox:     d.Search.MinInBox,
			Oversample:   d.Search.Oversample,
			MaxPhaseBins: d.Search.MaxPhaseBins,
			Workers:      d.Search.Workers,
		},
		Depth: DepthData{
			BinWidth:           d.Depth.BinWidth,
			PrimaryExclusion:   d.Depth.PrimaryExclusion,
			SecondaryCenter:    d.Depth.SecondaryCenter,
			SecondaryHalfWidth: d.Depth.SecondaryHalfWidth,
		},
		UnwrapCycles: d.UnwrapCycles,
	}
}

// PipelineConfig converts the configuration into the analyzer's parameters
func (c *ConfigData) PipelineConfig() pipeline.Config {
	a := c.Analysis
	return pipeline.Config{
		QualityMask: a.QualityMask,
		Grid: bls.GridParams{
			MinPeriod:           a.Grid.MinPeriod,
			MaxPeriod:           a.Grid.MaxPeriod,
			Count:               a.Grid.Count,
			DurationFraction:    a.Grid.DurationFraction,
			MaxDurationFraction: a.Grid.MaxDurationFraction,
			Duration:            a.Grid.Duration,
		},
		Search: bls.Params{
			MinInBox:     a.Search.MinInBox,
			Oversample:   a.Search.Oversample,
			MaxPhaseBins: a.Search.MaxPhaseBins,
			Workers:      a.Search.Workers,
		},
		Depth: depth.Params{
			BinWidth:           a.Depth.BinWidth,
			PrimaryExclusion:   a.Depth.PrimaryExclusion,
			SecondaryCenter:    a.Depth.SecondaryCenter,
			SecondaryHalfWidth: a.Depth.SecondaryHalfWidth,
		},
		Star: planet.Star{
			Name:                c.Star.Name,
			RadiusSolar:         c.Star.RadiusSolar,
			TemperatureK:        c.Star.TemperatureK,
			InclinationRad:      c.Star.InclinationRad,
			SemiMajorAxisAU:     c.Star.SemiMajorAxisAU,
			PlanetRadiusJupiter: c.Star.PlanetRadiusJupiter,
		},
		UnwrapCycles: a.UnwrapCycles,
	}
}

// Validate checks the analysis settings, the star and the controllers
func (c *ConfigData) Validate() error {
	if err := c.PipelineConfig().Validate(); err != nil {
		return err
	}
	if c.Storage.SQLite != nil && c.Storage.SQLite.Path == "" {
		return aerr.NewInvalidConfiguration(aerr.StageConfig, "storage.sqlite.path", "must not be empty")
	}
	for i, con := range c.Controllers {
		switch con.Type {
		case "rest", "restserver":
			if con.RESTServer == nil {
				return aerr.NewInvalidConfiguration(aerr.StageConfig, "controllers", "controller %d of type %q has no rest section", i, con.Type)
			}
			if con.RESTServer.Port < 0 || con.RESTServer.Port > 65535 {
				return aerr.NewInvalidConfiguration(aerr.StageConfig, "controllers.rest.port", "must be between 0 and 65535, got %d", con.RESTServer.Port)
			}
			if (con.RESTServer.Cert == "") != (con.RESTServer.Key == "") {
				return aerr.NewInvalidConfiguration(aerr.StageConfig, "controllers.rest", "cert and key must be set together")
			}
		default:
			return aerr.NewInvalidConfiguration(aerr.StageConfig, "controllers", "unknown controller type: %s", con.Type)
		}
	}
	return nil
}

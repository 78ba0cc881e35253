package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// YAMLProvider implements ConfigProvider for YAML configuration files
type YAMLProvider struct {
	filename string
	config   *ConfigData
}

// NewYAMLProvider creates a new YAML configuration provider
func NewYAMLProvider(filename string) *YAMLProvider {
	return &YAMLProvider{
		filename: filename,
	}
}

// LoadConfig loads the complete configuration from the YAML file. Analysis
// keys that are absent keep their DefaultAnalysis values; star keys have no
// defaults.
func (y *YAMLProvider) LoadConfig() (*ConfigData, error) {
	cfgFile, err := os.ReadFile(y.filename)
	if err != nil {
		return nil, err
	}

	config, err := ParseYAML(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("error parsing %s: %w", y.filename, err)
	}

	y.config = config
	return config, nil
}

// ParseYAML converts a YAML document into ConfigData
func ParseYAML(data []byte) (*ConfigData, error) {
	// Load into temporary struct with YAML tags
	var yamlConfig struct {
		Star        StarYAML         `yaml:"star"`
		Analysis    AnalysisYAML     `yaml:"analysis,omitempty"`
		Storage     StorageYAML      `yaml:"storage,omitempty"`
		Controllers []ControllerYAML `yaml:"controllers,omitempty"`
	}

	if err := yaml.Unmarshal(data, &yamlConfig); err != nil {
		return nil, err
	}

	config := &ConfigData{
		Star: StarData{
			Name:                yamlConfig.Star.Name,
			RadiusSolar:         yamlConfig.Star.RadiusSolar,
			TemperatureK:        yamlConfig.Star.TemperatureK,
			InclinationRad:      yamlConfig.Star.InclinationRad,
			SemiMajorAxisAU:     yamlConfig.Star.SemiMajorAxisAU,
			PlanetRadiusJupiter: yamlConfig.Star.PlanetRadiusJupiter,
		},
		Analysis:    DefaultAnalysis(),
		Controllers: make([]ControllerData, len(yamlConfig.Controllers)),
	}

	// Overlay analysis settings
	a := yamlConfig.Analysis
	setUint32(&config.Analysis.QualityMask, a.QualityMask)
	setInt(&config.Analysis.UnwrapCycles, a.UnwrapCycles)

	setFloat(&config.Analysis.Grid.MinPeriod, a.Grid.MinPeriod)
	setFloat(&config.Analysis.Grid.MaxPeriod, a.Grid.MaxPeriod)
	setInt(&config.Analysis.Grid.Count, a.Grid.Count)
	setFloat(&config.Analysis.Grid.DurationFraction, a.Grid.DurationFraction)
	setFloat(&config.Analysis.Grid.MaxDurationFraction, a.Grid.MaxDurationFraction)
	setFloat(&config.Analysis.Grid.Duration, a.Grid.Duration)

	setInt(&config.Analysis.Search.MinInBox, a.Search.MinInBox)
	setInt(&config.Analysis.Search.Oversample, a.Search.Oversample)
	setInt(&config.Analysis.Search.MaxPhaseBins, a.Search.MaxPhaseBins)
	setInt(&config.Analysis.Search.Workers, a.Search.Workers)

	setFloat(&config.Analysis.Depth.BinWidth, a.Depth.BinWidth)
	setFloat(&config.Analysis.Depth.PrimaryExclusion, a.Depth.PrimaryExclusion)
	setFloat(&config.Analysis.Depth.SecondaryCenter, a.Depth.SecondaryCenter)
	setFloat(&config.Analysis.Depth.SecondaryHalfWidth, a.Depth.SecondaryHalfWidth)

	// Convert storage
	if yamlConfig.Storage.SQLite != nil {
		config.Storage.SQLite = &SQLiteData{
			Path: yamlConfig.Storage.SQLite.Path,
		}
	}

	// Convert controllers
	for i, controller := range yamlConfig.Controllers {
		config.Controllers[i] = ControllerData{
			Type: controller.Type,
		}

		if controller.RESTServer != nil {
			config.Controllers[i].RESTServer = &RESTServerData{
				Cert:       controller.RESTServer.Cert,
				Key:        controller.RESTServer.Key,
				Port:       controller.RESTServer.Port,
				ListenAddr: controller.RESTServer.ListenAddr,
			}
		}
	}

	return config, nil
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setUint32(dst *uint32, v *uint32) {
	if v != nil {
		*dst = *v
	}
}

// load reads the file once and caches the result
func (y *YAMLProvider) load() (*ConfigData, error) {
	if y.config == nil {
		if _, err := y.LoadConfig(); err != nil {
			return nil, err
		}
	}
	return y.config, nil
}

// GetStar returns the host star parameters
func (y *YAMLProvider) GetStar() (*StarData, error) {
	cfg, err := y.load()
	if err != nil {
		return nil, err
	}
	return &cfg.Star, nil
}

// GetAnalysis returns the analysis settings
func (y *YAMLProvider) GetAnalysis() (*AnalysisData, error) {
	cfg, err := y.load()
	if err != nil {
		return nil, err
	}
	return &cfg.Analysis, nil
}

// GetStorageConfig returns storage configuration
func (y *YAMLProvider) GetStorageConfig() (*StorageData, error) {
	cfg, err := y.load()
	if err != nil {
		return nil, err
	}
	return &cfg.Storage, nil
}

// GetControllers returns controller configurations
func (y *YAMLProvider) GetControllers() ([]ControllerData, error) {
	cfg, err := y.load()
	if err != nil {
		return nil, err
	}
	return cfg.Controllers, nil
}

// IsReadOnly returns true since YAML files are read-only through this interface
func (y *YAMLProvider) IsReadOnly() bool {
	return true
}

// Close is a no-op for YAML provider
func (y *YAMLProvider) Close() error {
	return nil
}

// YAML-specific structs. Analysis fields are pointers so that an absent key
// can be told apart from an explicit zero.
type StarYAML struct {
	Name                string  `yaml:"name,omitempty"`
	RadiusSolar         float64 `yaml:"radius-solar"`
	TemperatureK        float64 `yaml:"temperature-k"`
	InclinationRad      float64 `yaml:"inclination-rad"`
	SemiMajorAxisAU     float64 `yaml:"semi-major-axis-au"`
	PlanetRadiusJupiter float64 `yaml:"planet-radius-jupiter,omitempty"`
}

type AnalysisYAML struct {
	QualityMask  *uint32    `yaml:"quality-mask,omitempty"`
	Grid         GridYAML   `yaml:"grid,omitempty"`
	Search       SearchYAML `yaml:"search,omitempty"`
	Depth        DepthYAML  `yaml:"depth,omitempty"`
	UnwrapCycles *int       `yaml:"unwrap-cycles,omitempty"`
}

type GridYAML struct {
	MinPeriod           *float64 `yaml:"min-period,omitempty"`
	MaxPeriod           *float64 `yaml:"max-period,omitempty"`
	Count               *int     `yaml:"count,omitempty"`
	DurationFraction    *float64 `yaml:"duration-fraction,omitempty"`
	MaxDurationFraction *float64 `yaml:"max-duration-fraction,omitempty"`
	Duration            *float64 `yaml:"duration,omitempty"`
}

type SearchYAML struct {
	MinInBox     *int `yaml:"min-in-box,omitempty"`
	Oversample   *int `yaml:"oversample,omitempty"`
	MaxPhaseBins *int `yaml:"max-phase-bins,omitempty"`
	Workers      *int `yaml:"workers,omitempty"`
}

type DepthYAML struct {
	BinWidth           *float64 `yaml:"bin-width,omitempty"`
	PrimaryExclusion   *float64 `yaml:"primary-exclusion,omitempty"`
	SecondaryCenter    *float64 `yaml:"secondary-center,omitempty"`
	SecondaryHalfWidth *float64 `yaml:"secondary-half-width,omitempty"`
}

type StorageYAML struct {
	SQLite *SQLiteYAML `yaml:"sqlite,omitempty"`
}

type SQLiteYAML struct {
	Path string `yaml:"path"`
}

type ControllerYAML struct {
	Type       string          `yaml:"type,omitempty"`
	RESTServer *RESTServerYAML `yaml:"rest,omitempty"`
}

type RESTServerYAML struct {
	Cert       string `yaml:"cert,omitempty"`
	Key        string `yaml:"key,omitempty"`
	Port       int    `yaml:"port,omitempty"`
	ListenAddr string `yaml:"listen-addr,omitempty"`
}

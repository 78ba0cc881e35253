package config

import (
	"os"
	"path/filepath"
	"testing"

	aerr "github.com/chrissnell/transitsearch/internal/errors"
	"github.com/chrissnell/transitsearch/internal/lightcurve"
)

const starYAML = `
star:
  name: WASP-18
  radius-solar: 1.319
  temperature-k: 6400
  inclination-rad: 1.45735
  semi-major-axis-au: 0.02024
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	p := NewYAMLProvider(writeConfig(t, starYAML))
	cfg, err := p.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Analysis != DefaultAnalysis() {
		t.Errorf("analysis = %+v, want defaults %+v", cfg.Analysis, DefaultAnalysis())
	}
	if cfg.Analysis.QualityMask != lightcurve.DefaultQualityMask {
		t.Errorf("quality mask = %#x, want %#x", cfg.Analysis.QualityMask, lightcurve.DefaultQualityMask)
	}
	if cfg.Star.Name != "WASP-18" || cfg.Star.RadiusSolar != 1.319 {
		t.Errorf("star = %+v", cfg.Star)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	body := starYAML + `
analysis:
  quality-mask: 0
  unwrap-cycles: 0
  grid:
    min-period: 0.5
    count: 2000
    duration: 0.1
  search:
    workers: 4
  depth:
    secondary-half-width: 0.1
storage:
  sqlite:
    path: /tmp/runs.db
controllers:
  - type: rest
    rest:
      listen-addr: 0.0.0.0
      port: 9090
`
	p := NewYAMLProvider(writeConfig(t, body))
	cfg, err := p.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	def := DefaultAnalysis()
	tests := []struct {
		name string
		got  any
		want any
	}{
		{"explicit zero mask", cfg.Analysis.QualityMask, uint32(0)},
		{"explicit zero unwrap", cfg.Analysis.UnwrapCycles, 0},
		{"min period", cfg.Analysis.Grid.MinPeriod, 0.5},
		{"max period keeps default", cfg.Analysis.Grid.MaxPeriod, def.Grid.MaxPeriod},
		{"count", cfg.Analysis.Grid.Count, 2000},
		{"fixed duration", cfg.Analysis.Grid.Duration, 0.1},
		{"workers", cfg.Analysis.Search.Workers, 4},
		{"min in box keeps default", cfg.Analysis.Search.MinInBox, def.Search.MinInBox},
		{"secondary half width", cfg.Analysis.Depth.SecondaryHalfWidth, 0.1},
		{"bin width keeps default", cfg.Analysis.Depth.BinWidth, def.Depth.BinWidth},
		{"sqlite path", cfg.Storage.SQLite.Path, "/tmp/runs.db"},
		{"controller type", cfg.Controllers[0].Type, "rest"},
		{"rest port", cfg.Controllers[0].RESTServer.Port, 9090},
		{"rest listen addr", cfg.Controllers[0].RESTServer.ListenAddr, "0.0.0.0"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}

	pc := cfg.PipelineConfig()
	if pc.Grid.Duration != 0.1 || pc.Search.Workers != 4 || pc.Star.TemperatureK != 6400 {
		t.Errorf("pipeline config not converted: %+v", pc)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestProviderSections(t *testing.T) {
	p := NewYAMLProvider(writeConfig(t, starYAML))
	defer p.Close()

	star, err := p.GetStar()
	if err != nil {
		t.Fatalf("GetStar: %v", err)
	}
	if star.TemperatureK != 6400 {
		t.Errorf("temperature = %v, want 6400", star.TemperatureK)
	}

	analysis, err := p.GetAnalysis()
	if err != nil {
		t.Fatalf("GetAnalysis: %v", err)
	}
	if analysis.Grid.Count != 10000 {
		t.Errorf("grid count = %d, want 10000", analysis.Grid.Count)
	}

	storage, err := p.GetStorageConfig()
	if err != nil {
		t.Fatalf("GetStorageConfig: %v", err)
	}
	if storage.SQLite != nil {
		t.Errorf("sqlite configured without a storage section")
	}

	controllers, err := p.GetControllers()
	if err != nil {
		t.Fatalf("GetControllers: %v", err)
	}
	if len(controllers) != 0 {
		t.Errorf("got %d controllers, want 0", len(controllers))
	}

	if !p.IsReadOnly() {
		t.Errorf("YAML provider should be read-only")
	}
}

func TestLoadConfigErrors(t *testing.T) {
	if _, err := NewYAMLProvider(filepath.Join(t.TempDir(), "missing.yaml")).LoadConfig(); err == nil {
		t.Errorf("expected error for a missing file")
	}
	if _, err := NewYAMLProvider(writeConfig(t, "star: [unclosed")).LoadConfig(); err == nil {
		t.Errorf("expected error for malformed YAML")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing star", `analysis: {unwrap-cycles: 1}`},
		{"zero stellar radius", "star:\n  radius-solar: 0\n  temperature-k: 6400\n  semi-major-axis-au: 0.02\n"},
		{"single period grid", starYAML + "analysis:\n  grid:\n    count: 1\n"},
		{"overlapping windows", starYAML + "analysis:\n  depth:\n    primary-exclusion: 0.47\n"},
		{"empty sqlite path", starYAML + "storage:\n  sqlite:\n    path: \"\"\n"},
		{"unknown controller", starYAML + "controllers:\n  - type: grpc\n"},
		{"rest without section", starYAML + "controllers:\n  - type: rest\n"},
		{"cert without key", starYAML + "controllers:\n  - type: rest\n    rest:\n      cert: a.pem\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := ParseYAML([]byte(tt.body))
			if err != nil {
				t.Fatalf("ParseYAML: %v", err)
			}
			if err := cfg.Validate(); !aerr.Is(err, aerr.ErrInvalidConfiguration) {
				t.Errorf("got %v, want InvalidConfiguration", err)
			}
		})
	}
}

func TestExampleConfig(t *testing.T) {
	cfg, err := NewYAMLProvider(filepath.Join("..", "..", "config.example.yaml")).LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("example config invalid: %v", err)
	}
	if cfg.Analysis.QualityMask != lightcurve.DefaultQualityMask {
		t.Errorf("example mask = %#x, want %#x", cfg.Analysis.QualityMask, lightcurve.DefaultQualityMask)
	}
	if cfg.Star.PlanetRadiusJupiter != 1.2 {
		t.Errorf("planet radius = %v, want 1.2", cfg.Star.PlanetRadiusJupiter)
	}
}

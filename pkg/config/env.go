package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix prefixes every environment override, e.g. TRANSITSEARCH_STORE_PATH
const EnvPrefix = "TRANSITSEARCH"

// EnvOverrides are deployment settings that may come from the environment.
// Unset variables leave the file configuration alone.
type EnvOverrides struct {
	StorePath  string `envconfig:"STORE_PATH"`
	ListenAddr string `envconfig:"LISTEN_ADDR"`
	Port       int    `envconfig:"PORT"`
	Cert       string `envconfig:"TLS_CERT"`
	Key        string `envconfig:"TLS_KEY"`
	Workers    int    `envconfig:"WORKERS"`
}

// LoadEnvOverrides reads the TRANSITSEARCH_* environment variables
func LoadEnvOverrides() (EnvOverrides, error) {
	var env EnvOverrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return env, fmt.Errorf("failed to load config from env: %w", err)
	}
	return env, nil
}

// ApplyEnv overlays the environment overrides onto c. Server settings apply
// to every rest controller.
func (c *ConfigData) ApplyEnv(env EnvOverrides) {
	if env.StorePath != "" {
		c.Storage.SQLite = &SQLiteData{Path: env.StorePath}
	}
	if env.Workers > 0 {
		c.Analysis.Search.Workers = env.Workers
	}

	for i := range c.Controllers {
		rs := c.Controllers[i].RESTServer
		if rs == nil {
			continue
		}
		if env.ListenAddr != "" {
			rs.ListenAddr = env.ListenAddr
		}
		if env.Port != 0 {
			rs.Port = env.Port
		}
		if env.Cert != "" {
			rs.Cert = env.Cert
		}
		if env.Key != "" {
			rs.Key = env.Key
		}
	}
}

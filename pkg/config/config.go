package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Prefix is the environment variable prefix, e.g. EMBEDLEGEND_PROJECT.
const Prefix = "EMBEDLEGEND"

type Config struct {
	Project      string `envconfig:"PROJECT" default:"project.yaml"`
	SettingsPath string `envconfig:"SETTINGS"`
	DestCRS      string `envconfig:"DEST_CRS" default:"EPSG:4326"`
	TimeoutSecs  int    `envconfig:"TIMEOUT" default:"30"`
	NoColor      bool   `envconfig:"NO_COLOR" default:"false"`
}

// Timeout returns the HTTP timeout for remote layers.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, err
	}
	if cfg.SettingsPath == "" {
		cfg.SettingsPath = DefaultSettingsPath()
	}
	return &cfg, nil
}

// DefaultSettingsPath returns settings.toml under the user config directory,
// or in the working directory when none is available.
func DefaultSettingsPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "embedlegend-settings.toml"
	}
	return filepath.Join(dir, "embedlegend", "settings.toml")
}

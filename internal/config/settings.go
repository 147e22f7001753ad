// Package config loads process settings from the environment and the
// optional scaffold manifest from YAML.
package config

import (
	"strings"

	"github.com/kelseyhightower/envconfig"

	"github.com/bioscout/bioscout-setup/internal/errors"
)

// EnvPrefix is the prefix of every settings variable (BIOSCOUT_LOG_LEVEL, ...).
const EnvPrefix = "BIOSCOUT"

// Settings are process-level knobs read from the environment.
type Settings struct {
	LogLevel   string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat  string `envconfig:"LOG_FORMAT" default:"console"`
	Downloader string `envconfig:"DOWNLOADER" default:"curl"`
}

// LoadSettings reads Settings from BIOSCOUT_* environment variables.
// Returns E_INVALID_CONFIG for unusable values.
func LoadSettings() (Settings, error) {
	var s Settings
	if err := envconfig.Process(EnvPrefix, &s); err != nil {
		return Settings{}, errors.Wrap(errors.EInvalidConfig, "failed to read "+EnvPrefix+"_* environment", err)
	}

	s.LogFormat = strings.ToLower(strings.TrimSpace(s.LogFormat))
	switch s.LogFormat {
	case "console", "json":
	default:
		return Settings{}, errors.New(errors.EInvalidConfig, EnvPrefix+"_LOG_FORMAT must be console or json, got "+s.LogFormat)
	}

	s.Downloader = strings.TrimSpace(s.Downloader)
	if s.Downloader == "" || strings.ContainsAny(s.Downloader, " \t") {
		return Settings{}, errors.New(errors.EInvalidConfig, EnvPrefix+"_DOWNLOADER must be a single executable name")
	}

	return s, nil
}

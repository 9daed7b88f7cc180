package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// EnvConfig holds overrides read from the environment. Nil fields are unset.
type EnvConfig struct {
	Mode     *string `env:"TYPETEST_MODE"`
	Level    *string `env:"TYPETEST_LEVEL"`
	Duration *int    `env:"TYPETEST_DURATION"`
	PoolFile *string `env:"TYPETEST_POOL_FILE"`
	DBPath   string  `env:"TYPETEST_DB"`
	LogPath  string  `env:"TYPETEST_LOG"`
}

// LoadEnv loads dotenv files (missing files are skipped) and parses the
// TYPETEST_* variables.
func LoadEnv(dotenvFiles ...string) (EnvConfig, error) {
	for _, path := range dotenvFiles {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return EnvConfig{}, fmt.Errorf("failed to load %s: %w", path, err)
		}
	}
	var cfg EnvConfig
	if err := env.Parse(&cfg); err != nil {
		return EnvConfig{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Merge overlays env values onto the file config and returns the result.
func (c FileConfig) Merge(e EnvConfig) FileConfig {
	out := c
	if e.Mode != nil {
		out.Practice.Mode = e.Mode
	}
	if e.Level != nil {
		out.Practice.Level = e.Level
	}
	if e.Duration != nil {
		out.Practice.Duration = e.Duration
	}
	if e.PoolFile != nil {
		out.Practice.PoolFile = e.PoolFile
	}
	return out
}

// Package config loads service configuration: struct defaults overridden
// by MOVIES_-prefixed environment variables. Nested keys use a double
// underscore, e.g. MOVIES_CATALOG__CSV_PATH.
package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "MOVIES_"

type Config struct {
	Addr    string        `koanf:"addr"`
	Catalog CatalogConfig `koanf:"catalog"`
	CORS    CORSConfig    `koanf:"cors"`
	Log     LogConfig     `koanf:"log"`
}

type CatalogConfig struct {
	// Source selects where the movie table comes from: csv or sqlite.
	Source     string `koanf:"source"`
	CSVPath    string `koanf:"csv_path"`
	SQLitePath string `koanf:"sqlite_path"`
}

type CORSConfig struct {
	AllowedOrigins []string `koanf:"allowed_origins"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"` // console or json
}

// Default returns the configuration used when nothing is overridden. The
// CORS origins cover the usual local dev frontends.
func Default() *Config {
	return &Config{
		Addr: ":8080",
		Catalog: CatalogConfig{
			Source:     "csv",
			CSVPath:    "./data/movies.csv",
			SQLitePath: "./movies.db",
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{
				"http://localhost:5173",
				"http://127.0.0.1:5173",
				"http://localhost:3000",
				"http://127.0.0.1:3000",
			},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load merges defaults with environment overrides and validates the
// result.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	switch cfg.Catalog.Source {
	case "csv", "sqlite":
	default:
		return nil, fmt.Errorf("unsupported catalog source: %s", cfg.Catalog.Source)
	}

	return &cfg, nil
}

// envKey maps MOVIES_CATALOG__CSV_PATH to catalog.csv_path.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

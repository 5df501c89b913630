// Package config loads sprequery's optional TOML configuration file by
// decoding it directly into a struct. Command-line flags always take
// precedence over anything set here; see cmd/sprequery.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/silvaine/sprestream/internal/spre"
)

// Config holds the settings sprequery may read from a TOML file instead of
// (or as a default for) command-line flags.
type Config struct {
	DeterminizationThreshold int    `toml:"determinization_threshold"`
	Channel                  string `toml:"channel"`
	CacheDir                 string `toml:"cache_dir"`
	ExportDir                string `toml:"export_dir"`
}

// Default returns the configuration sprequery uses when no config file is
// given.
func Default() Config {
	return Config{
		DeterminizationThreshold: spre.DefaultDeterminizationThreshold,
	}
}

// Load reads and parses the TOML file at path, starting from Default() so
// that a config file only needs to mention the fields it overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config %q: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config %q: %w", path, err)
	}

	return cfg, nil
}

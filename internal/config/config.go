// Package config holds the server settings. Values come from the
// initialization options of the client or from a JSON file, overlaid on
// the defaults.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/jdujava/texlab/internal/catalog"
)

var ErrInvalidRoot = errors.New("config: root is not a directory")

type Config struct {
	Root           string   `json:"root"`
	FileExtensions []string `json:"file_extensions"`
	ExcludeDirs    []string `json:"exclude_dirs"`
	// RescanInterval is a duration such as "5m"; empty disables rescans.
	RescanInterval string `json:"rescan_interval"`
	GraphAddr      string `json:"graph_addr"`
	// MetricsAddr serves Prometheus metrics when set.
	MetricsAddr string `json:"metrics_addr"`
	// Catalog optionally points to a YAML file replacing the builtin
	// catalog.
	Catalog string `json:"catalog"`
}

var defaultConfig = Config{
	Root:           ".",
	FileExtensions: []string{".tex", ".sty", ".cls", ".ltx", ".bib"},
	ExcludeDirs:    []string{".git", "node_modules", "build", "out"},
	RescanInterval: "5m",
	GraphAddr:      "localhost:0",
}

func Default() Config {
	cfg := defaultConfig
	cfg.FileExtensions = append([]string(nil), defaultConfig.FileExtensions...)
	cfg.ExcludeDirs = append([]string(nil), defaultConfig.ExcludeDirs...)
	return cfg
}

// Load overlays the JSON encoding of v on the defaults. Only fields
// present in v are overwritten.
func Load(v any) (Config, error) {
	cfg := Default()
	if v == nil {
		return cfg, nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return Config{}, fmt.Errorf("failed to marshal source: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal into Config: %w", err)
	}
	return cfg, nil
}

// LoadFromJSON reads JSON from r into a Config.
func LoadFromJSON(r io.Reader) (Config, error) {
	cfg := Default()
	if err := json.NewDecoder(r).Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// Validate checks that the root exists.
func (c Config) Validate() error {
	info, err := os.Stat(c.Root)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrInvalidRoot, c.Root)
	}
	return nil
}

// Interval parses RescanInterval. Zero means no periodic rescans.
func (c Config) Interval() (time.Duration, error) {
	if c.RescanInterval == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.RescanInterval)
	if err != nil {
		return 0, fmt.Errorf("invalid rescan_interval %q: %w", c.RescanInterval, err)
	}
	return d, nil
}

// HasExtension reports whether path ends in one of the configured
// extensions.
func (c Config) HasExtension(path string) bool {
	for _, ext := range c.FileExtensions {
		if strings.HasSuffix(strings.ToLower(path), strings.ToLower(ext)) {
			return true
		}
	}
	return false
}

// Excluded reports whether a directory name is skipped while scanning.
func (c Config) Excluded(name string) bool {
	for _, dir := range c.ExcludeDirs {
		if name == dir {
			return true
		}
	}
	return false
}

// LoadCatalog returns the builtin catalog or the one named by Catalog.
func (c Config) LoadCatalog() (*catalog.Catalog, error) {
	if c.Catalog == "" {
		return catalog.Default(), nil
	}
	data, err := os.ReadFile(c.Catalog)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return catalog.Load(data)
}

// Package config layers run settings from defaults, an optional TOML
// file, and environment variables. CLI flags are applied on top by
// the command layer, and only when explicitly set.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/tgstats/tgstats/internal/analyze"
)

// Config holds all application configuration.
type Config struct {
	OutputDir string
	Features  []string
	Title     string
	Parallel  bool
	TopN      int
}

// Default returns a Config with default values: reports in the
// working directory, every known feature enabled, parallel scanning
// on.
func Default() Config {
	features := analyze.Features()
	names := make([]string, len(features))
	for i, f := range features {
		names[i] = string(f)
	}
	return Config{
		OutputDir: ".",
		Features:  names,
		Parallel:  true,
		TopN:      12,
	}
}

// Load builds a Config by layering: defaults < config file < env.
func Load() (Config, error) {
	return load(DefaultConfigPath())
}

func load(path string) (Config, error) {
	cfg := Default()
	file, err := loadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("loading config file: %w", err)
	}
	file.apply(&cfg)
	cfg.loadEnv()
	return cfg, nil
}

// FileConfig represents the TOML configuration file. Pointer fields
// distinguish "absent" from zero values.
type FileConfig struct {
	Report ReportConfig `toml:"report"`
}

// ReportConfig maps report-related settings.
type ReportConfig struct {
	OutputDir *string `toml:"output-dir"`
	Features  *string `toml:"features"`
	Title     *string `toml:"title"`
	Parallel  *bool   `toml:"parallel"`
	TopN      *int    `toml:"top-n"`
}

// loadFile reads the TOML config at path. A missing file is not an
// error.
func loadFile(path string) (FileConfig, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}

func (f FileConfig) apply(cfg *Config) {
	if f.Report.OutputDir != nil {
		cfg.OutputDir = *f.Report.OutputDir
	}
	if f.Report.Features != nil {
		cfg.Features = splitFeatures(*f.Report.Features)
	}
	if f.Report.Title != nil {
		cfg.Title = *f.Report.Title
	}
	if f.Report.Parallel != nil {
		cfg.Parallel = *f.Report.Parallel
	}
	if f.Report.TopN != nil && *f.Report.TopN > 1 {
		cfg.TopN = *f.Report.TopN
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv("TGSTATS_OUTPUT_DIR"); v != "" {
		c.OutputDir = v
	}
	if v := os.Getenv("TGSTATS_FEATURES"); v != "" {
		c.Features = splitFeatures(v)
	}
}

// splitFeatures parses a comma-separated feature list, dropping
// empty entries.
func splitFeatures(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// XDGConfigHome returns the XDG config home or a default fallback.
func XDGConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".config")
}

// DefaultConfigPath returns the default TOML config path.
func DefaultConfigPath() string {
	return filepath.Join(XDGConfigHome(), "tgstats", "config.toml")
}

// Package config reads the server settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Environment variables read by Load.
const (
	EnvLogLevel     = "SYMMETRY_MCP_LOG_LEVEL"
	EnvBins         = "SYMMETRY_MCP_BINS"
	EnvWorkers      = "SYMMETRY_MCP_WORKERS"
	EnvMaxDimension = "SYMMETRY_MCP_MAX_DIMENSION"
	EnvMaxKeypoints = "SYMMETRY_MCP_MAX_KEYPOINTS"
	EnvLineColor    = "SYMMETRY_MCP_LINE_COLOR"
)

// Config holds the detection defaults. MCP tool arguments override them per
// call.
type Config struct {
	// LogLevel is "info" or "debug".
	LogLevel string

	// Bins is the number of accumulator divisions along r and along θ.
	Bins int

	// Workers is the number of goroutines used for voting and accumulation.
	Workers int

	// MaxDimension downscales larger images before feature detection.
	// Zero disables downscaling.
	MaxDimension int

	// MaxKeypoints caps the keypoints kept per image by the detector.
	MaxKeypoints int

	// LineColor is the hex colour of rendered mirror lines.
	LineColor string
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogLevel:     "info",
		Bins:         200,
		Workers:      1,
		MaxDimension: 1024,
		MaxKeypoints: 500,
		LineColor:    "#FFFFFF",
	}
}

// Debug reports whether debug logging is enabled.
func (c Config) Debug() bool {
	return c.LogLevel == "debug"
}

// Load reads the configuration from the process environment.
func Load() (Config, error) {
	return LoadFrom(os.Getenv)
}

// LoadFrom reads the configuration through getenv, starting from Default.
// Unset or empty variables keep their default.
func LoadFrom(getenv func(string) string) (Config, error) {
	cfg := Default()

	if v := strings.ToLower(strings.TrimSpace(getenv(EnvLogLevel))); v != "" {
		if v != "info" && v != "debug" {
			return cfg, fmt.Errorf("%s: unknown log level %q (want info or debug)", EnvLogLevel, v)
		}
		cfg.LogLevel = v
	}

	ints := []struct {
		name string
		dst  *int
		min  int
	}{
		{EnvBins, &cfg.Bins, 1},
		{EnvWorkers, &cfg.Workers, 1},
		{EnvMaxDimension, &cfg.MaxDimension, 0},
		{EnvMaxKeypoints, &cfg.MaxKeypoints, 1},
	}
	for _, it := range ints {
		v := strings.TrimSpace(getenv(it.name))
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", it.name, err)
		}
		if n < it.min {
			return cfg, fmt.Errorf("%s: %d is below the minimum of %d", it.name, n, it.min)
		}
		*it.dst = n
	}

	if v := strings.TrimSpace(getenv(EnvLineColor)); v != "" {
		if _, err := colorful.Hex(v); err != nil {
			return cfg, fmt.Errorf("%s: invalid color %q", EnvLineColor, v)
		}
		cfg.LineColor = v
	}

	return cfg, nil
}

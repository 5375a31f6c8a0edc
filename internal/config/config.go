// Package config loads server settings from an optional .env file and the
// process environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variable names.
const (
	EnvLogLevel  = "SEGMETRICS_LOG_LEVEL"
	EnvThreshold = "SEGMETRICS_THRESHOLD"
	EnvCubeDim   = "SEGMETRICS_CUBE_DIM"
)

// Defaults applied when a variable is unset or invalid.
const (
	DefaultLogLevel  = "info"
	DefaultThreshold = 128
	DefaultCubeDim   = 0
)

// Config holds the server settings.
type Config struct {
	// LogLevel is a zerolog level name.
	LogLevel string

	// Threshold is the default binarization level for mask images. Pixels
	// with luminance at or above it are foreground.
	Threshold uint8

	// CubeDim is the default cube edge for volume padding. Zero disables
	// padding.
	CubeDim int
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		LogLevel:  DefaultLogLevel,
		Threshold: DefaultThreshold,
		CubeDim:   DefaultCubeDim,
	}
}

// Load reads the given .env files (".env" when none are named) into the
// environment, then builds a Config from it. Variables already present in
// the environment win over file entries.
//
// Load never fails: a missing .env file is skipped silently, and unreadable
// files or invalid values produce a warning and leave the default in place.
// The warnings are returned for the caller to log.
func Load(files ...string) (*Config, []string) {
	var warnings []string

	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		warnings = append(warnings, fmt.Sprintf("failed to read env file: %v", err))
	}

	cfg := Default()

	if v, ok := lookup(EnvLogLevel); ok {
		cfg.LogLevel = strings.ToLower(v)
	}

	if v, ok := lookup(EnvThreshold); ok {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 || n > 255 {
			warnings = append(warnings, fmt.Sprintf("%s=%q is not an integer in 0..255, using %d", EnvThreshold, v, DefaultThreshold))
		} else {
			cfg.Threshold = uint8(n)
		}
	}

	if v, ok := lookup(EnvCubeDim); ok {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			warnings = append(warnings, fmt.Sprintf("%s=%q is not a non-negative integer, using %d", EnvCubeDim, v, DefaultCubeDim))
		} else {
			cfg.CubeDim = n
		}
	}

	return cfg, warnings
}

// lookup returns the trimmed value of key, treating blank values as unset.
func lookup(key string) (string, bool) {
	v := strings.TrimSpace(os.Getenv(key))
	return v, v != ""
}

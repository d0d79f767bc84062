// internal/appconfig/appconfig.go
// Package appconfig manages loading and interpreting harness configuration.
package appconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// DefaultConfigPath is the default path to the harness configuration file.
	DefaultConfigPath = "config/config.json"
	// defaultOutputDir is where exports land when the config omits a directory.
	defaultOutputDir = "test_results"
	// defaultAccumulationFile is the cross-run accumulation file name.
	defaultAccumulationFile = "water_test_results.csv"
	// defaultCaptureEveryN dumps every Nth captured frame to disk.
	defaultCaptureEveryN = 30
	// defaultFrameRingSize bounds the temporal-analysis frame ring.
	defaultFrameRingSize = 30
	// defaultCaptureSize is the simulated renderer's capture resolution.
	defaultCaptureSize = 64
)

// Config represents the top-level harness configuration.
type Config struct {
	OutputDir        string `json:"outputDir,omitempty"`
	AccumulationFile string `json:"accumulationFile,omitempty"`
	LogFile          string `json:"logFile,omitempty"`
	SuiteName        string `json:"suiteName,omitempty"`
	FastMode         bool   `json:"fastMode"`
	TotalFrames      int    `json:"totalFrames,omitempty"`
	WarmupFrames     int    `json:"warmupFrames,omitempty"`
	CaptureEveryN    int    `json:"captureEveryN,omitempty"`
	FrameRingSize    int    `json:"frameRingSize,omitempty"`
	CaptureWidth     int    `json:"captureWidth,omitempty"`
	CaptureHeight    int    `json:"captureHeight,omitempty"`
	ConfigPath       string `json:"-"`
}

// OutputDirPath returns the export directory, applying the default if unset.
func (c Config) OutputDirPath() string {
	if dir := strings.TrimSpace(c.OutputDir); dir != "" {
		return dir
	}
	return defaultOutputDir
}

// AccumulationPath returns the cross-run accumulation file path, defaulting
// to water_test_results.csv inside the output directory.
func (c Config) AccumulationPath() string {
	if path := strings.TrimSpace(c.AccumulationFile); path != "" {
		return path
	}
	return filepath.Join(c.OutputDirPath(), defaultAccumulationFile)
}

// LogFilePath returns the path to the harness log file, applying a default
// if not set.
func (c Config) LogFilePath() string {
	if path := strings.TrimSpace(c.LogFile); path != "" {
		return path
	}
	return "aquabench.log"
}

// SuiteLabel returns the suite name used in exports.
func (c Config) SuiteLabel() string {
	if name := strings.TrimSpace(c.SuiteName); name != "" {
		return name
	}
	return "water_benchmark"
}

// FrameOverrides returns the configured per-run frame-count overrides. A zero
// value means the generated preset's count stands.
func (c Config) FrameOverrides() (totalFrames, warmupFrames int) {
	return c.TotalFrames, c.WarmupFrames
}

// CaptureCadence returns how often captured frames are persisted.
func (c Config) CaptureCadence() int {
	if c.CaptureEveryN > 0 {
		return c.CaptureEveryN
	}
	return defaultCaptureEveryN
}

// RingSize returns the bound on the temporal-analysis frame ring.
func (c Config) RingSize() int {
	if c.FrameRingSize > 0 {
		return c.FrameRingSize
	}
	return defaultFrameRingSize
}

// CaptureSize returns the capture resolution for the simulated renderer.
func (c Config) CaptureSize() (width, height int) {
	width, height = c.CaptureWidth, c.CaptureHeight
	if width <= 0 {
		width = defaultCaptureSize
	}
	if height <= 0 {
		height = defaultCaptureSize
	}
	return width, height
}

// Load reads the harness configuration from the specified path. A missing
// file is not an error: defaults apply. A present but invalid file is.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := validateSchema(data); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	config.ConfigPath = path
	return config, nil
}

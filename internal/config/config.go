// Package config loads the CLI configuration file (invitepdf.yaml).
// Flag values win over config values; config wins over environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/evitely/go-invitepdf/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrInvalidConfig   = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxKeyLength  = 50   // device/quality keys
	MaxHostLength = 253  // RFC 1035
	MaxPathLength = 4096 // output directory, browser binary
)

// Config holds all CLI configuration.
type Config struct {
	Render    RenderConfig    `yaml:"render"`
	Output    OutputConfig    `yaml:"output"`
	Browser   BrowserConfig   `yaml:"browser"`
	Readiness ReadinessConfig `yaml:"readiness"`
}

// RenderConfig defines default render parameters.
type RenderConfig struct {
	Device         string   `yaml:"device"`         // Default device key (empty = library default)
	Quality        string   `yaml:"quality"`        // Default quality key (empty = library default)
	AllowedHosts   []string `yaml:"allowedHosts"`   // Empty = any host
	HiddenSections []string `yaml:"hiddenSections"` // Empty = library defaults
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default output directory (empty = current directory)
}

// BrowserConfig defines browser driver options.
type BrowserConfig struct {
	Bin string `yaml:"bin"` // Pre-installed Chrome binary (empty = managed download)
}

// ReadinessConfig overrides readiness thresholds. Zero values keep the
// library defaults; the thresholds are application-specific and tuned
// per deployment.
type ReadinessConfig struct {
	FontTimeoutMs        int     `yaml:"fontTimeoutMs"`
	ImageTimeoutMs       int     `yaml:"imageTimeoutMs"`
	BackgroundTimeoutMs  int     `yaml:"backgroundTimeoutMs"`
	HydrationTimeoutMs   int     `yaml:"hydrationTimeoutMs"`
	StablePollIntervalMs int     `yaml:"stablePollIntervalMs"`
	StablePollAttempts   int     `yaml:"stablePollAttempts"`
	StableStreak         int     `yaml:"stableStreak"`
	MinContentHeight     float64 `yaml:"minContentHeight"`
	SettleWaitMs         int     `yaml:"settleWaitMs"`
}

// Validate checks field shapes and lengths.
// Called automatically by LoadConfig, but available for consumers who
// construct Config manually.
func (c *Config) Validate() error {
	if err := validateFieldLength("render.device", c.Render.Device, MaxKeyLength); err != nil {
		return err
	}
	if err := validateFieldLength("render.quality", c.Render.Quality, MaxKeyLength); err != nil {
		return err
	}
	for i, host := range c.Render.AllowedHosts {
		field := fmt.Sprintf("render.allowedHosts[%d]", i)
		if strings.TrimSpace(host) == "" {
			return fmt.Errorf("%w: %s must not be empty", ErrInvalidConfig, field)
		}
		if err := validateFieldLength(field, host, MaxHostLength); err != nil {
			return err
		}
	}
	if err := validateFieldLength("output.defaultDir", c.Output.DefaultDir, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("browser.bin", c.Browser.Bin, MaxPathLength); err != nil {
		return err
	}

	r := c.Readiness
	for field, value := range map[string]int{
		"readiness.fontTimeoutMs":        r.FontTimeoutMs,
		"readiness.imageTimeoutMs":       r.ImageTimeoutMs,
		"readiness.backgroundTimeoutMs":  r.BackgroundTimeoutMs,
		"readiness.hydrationTimeoutMs":   r.HydrationTimeoutMs,
		"readiness.stablePollIntervalMs": r.StablePollIntervalMs,
		"readiness.stablePollAttempts":   r.StablePollAttempts,
		"readiness.stableStreak":         r.StableStreak,
		"readiness.settleWaitMs":         r.SettleWaitMs,
	} {
		if value < 0 {
			return fmt.Errorf("%w: %s must not be negative, got %d", ErrInvalidConfig, field, value)
		}
	}
	if r.MinContentHeight < 0 {
		return fmt.Errorf("%w: readiness.minContentHeight must not be negative", ErrInvalidConfig)
	}
	return nil
}

func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrInvalidConfig, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns a neutral configuration: library defaults for
// everything, no host restriction.
func DefaultConfig() *Config {
	return &Config{}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard
// locations. Returns an error if the file is not found (no silent
// fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if isFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/go-invitepdf/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "go-invitepdf", name+ext)
			if fileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/hitcheck/packages/logger"
	"gopkg.in/yaml.v3"
)

// Config represents the hitcheck configuration
type Config struct {
	RegexTimeout  int           `json:"regexTimeout,omitempty" yaml:"regexTimeout,omitempty"` // milliseconds
	Output        string        `json:"output,omitempty" yaml:"output,omitempty"`             // console, json, junit, tap
	OutputFile    string        `json:"outputFile,omitempty" yaml:"outputFile,omitempty"`
	Store         string        `json:"store,omitempty" yaml:"store,omitempty"` // SQLite history database
	WatchDebounce int           `json:"watchDebounce,omitempty" yaml:"watchDebounce,omitempty"` // milliseconds
	Verbose       *bool         `json:"verbose,omitempty" yaml:"verbose,omitempty"`
	NoColor       *bool         `json:"noColor,omitempty" yaml:"noColor,omitempty"`
	Log           logger.Config `json:"log,omitempty" yaml:"log,omitempty"`
}

// BoolPtr returns a pointer to b.
func BoolPtr(b bool) *bool {
	return &b
}

// getBool returns the value of a bool pointer, or the default if nil
func getBool(b *bool, defaultVal bool) bool {
	if b == nil {
		return defaultVal
	}
	return *b
}

// GetVerbose returns the verbose setting, defaulting to false
func (c *Config) GetVerbose() bool {
	return getBool(c.Verbose, false)
}

// GetNoColor returns the no color setting, defaulting to false
func (c *Config) GetNoColor() bool {
	return getBool(c.NoColor, false)
}

// RegexTimeoutDuration returns the regex budget as a duration.
func (c *Config) RegexTimeoutDuration() time.Duration {
	return time.Duration(c.RegexTimeout) * time.Millisecond
}

// WatchDebounceDuration returns the watch debounce as a duration.
func (c *Config) WatchDebounceDuration() time.Duration {
	return time.Duration(c.WatchDebounce) * time.Millisecond
}

// ConfigFilenames contains the possible config file names, in search order
var ConfigFilenames = []string{
	".hitcheck.json",
	"hitcheck.config.json",
	".hitcheck.yaml",
	".hitcheck.yml",
}

// LoadConfig loads configuration from the specified path or searches for config files
func LoadConfig(path string) (*Config, error) {
	if path != "" {
		return loadConfigFromFile(path)
	}
	return FindAndLoadConfig(".")
}

// FindAndLoadConfig searches for a config file in the given directory
func FindAndLoadConfig(dir string) (*Config, error) {
	for _, filename := range ConfigFilenames {
		configPath := filepath.Join(dir, filename)
		if _, err := os.Stat(configPath); err == nil {
			return loadConfigFromFile(configPath)
		}
	}

	// Return defaults if no config file found
	return DefaultConfig(), nil
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func loadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	file := &Config{}
	if isYAML(path) {
		err = yaml.Unmarshal(data, file)
	} else {
		err = json.Unmarshal(data, file)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	return DefaultConfig().Merge(file), nil
}

// Merge merges another config into this one, with other taking precedence
func (c *Config) Merge(other *Config) *Config {
	if other == nil {
		return c
	}

	result := *c // Copy

	if other.RegexTimeout > 0 {
		result.RegexTimeout = other.RegexTimeout
	}
	if other.Output != "" {
		result.Output = other.Output
	}
	if other.OutputFile != "" {
		result.OutputFile = other.OutputFile
	}
	if other.Store != "" {
		result.Store = other.Store
	}
	if other.WatchDebounce > 0 {
		result.WatchDebounce = other.WatchDebounce
	}

	// Boolean flags - only override if explicitly set in other config
	if other.Verbose != nil {
		result.Verbose = other.Verbose
	}
	if other.NoColor != nil {
		result.NoColor = other.NoColor
	}

	if other.Log.Level != "" {
		result.Log.Level = other.Log.Level
	}
	if other.Log.Format != "" {
		result.Log.Format = other.Log.Format
	}
	if other.Log.Output != "" {
		result.Log.Output = other.Log.Output
	}
	if other.Log.FilePath != "" {
		result.Log.FilePath = other.Log.FilePath
	}
	if other.Log.MaxSize > 0 {
		result.Log.MaxSize = other.Log.MaxSize
	}
	if other.Log.MaxBackups > 0 {
		result.Log.MaxBackups = other.Log.MaxBackups
	}
	if other.Log.MaxAge > 0 {
		result.Log.MaxAge = other.Log.MaxAge
	}

	return &result
}

// SaveConfig saves the configuration to a file, as YAML when the
// extension asks for it
func (c *Config) SaveConfig(path string) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

package config

import "github.com/abdul-hamid-achik/hitcheck/packages/logger"

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		RegexTimeout:  1000, // 1 second
		Output:        "console",
		WatchDebounce: 300,
		Log:           logger.DefaultConfig(),
	}
}

// IsDefault returns true if the config matches defaults
func (c *Config) IsDefault() bool {
	defaults := DefaultConfig()
	return c.RegexTimeout == defaults.RegexTimeout &&
		c.Output == defaults.Output &&
		c.OutputFile == defaults.OutputFile &&
		c.Store == defaults.Store &&
		c.WatchDebounce == defaults.WatchDebounce &&
		c.GetVerbose() == defaults.GetVerbose() &&
		c.GetNoColor() == defaults.GetNoColor() &&
		c.Log == defaults.Log
}

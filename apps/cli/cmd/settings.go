package cmd

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/abdul-hamid-achik/hitcheck/packages/core/config"
	"github.com/abdul-hamid-achik/hitcheck/packages/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// defaultStorePath is used by history when neither --store nor the config names one.
const defaultStorePath = ".hitcheck/history.db"

// Environment variable helpers
func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

// explicit reports whether a flag was set on the command line or through
// its environment variable; only those override the config file.
func explicit(cmd *cobra.Command, name, envKey string) bool {
	if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
		return true
	}
	return envKey != "" && os.Getenv(envKey) != ""
}

// loadSettings loads the config file and applies flag overrides.
func loadSettings(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadConfig(configFlag)
	if err != nil {
		return nil, exitWith(ExitConfigError, err)
	}

	overrides := &config.Config{}
	if explicit(cmd, "verbose", "HITCHECK_VERBOSE") {
		overrides.Verbose = config.BoolPtr(verboseFlag)
	}
	if explicit(cmd, "no-color", "HITCHECK_NO_COLOR") {
		overrides.NoColor = config.BoolPtr(noColorFlag)
	}
	if explicit(cmd, "output", "HITCHECK_OUTPUT") {
		overrides.Output = outputFlag
	}
	if explicit(cmd, "output-file", "HITCHECK_OUTPUT_FILE") {
		overrides.OutputFile = outputFileFlag
	}
	if explicit(cmd, "store", "HITCHECK_STORE") {
		overrides.Store = storeFlag
	}
	if explicit(cmd, "regex-timeout", "HITCHECK_REGEX_TIMEOUT") {
		overrides.RegexTimeout = regexTimeoutFlag
	}
	if explicit(cmd, "debounce", "HITCHECK_WATCH_DEBOUNCE") {
		overrides.WatchDebounce = debounceFlag
	}

	cfg = cfg.Merge(overrides)
	if cfg.GetVerbose() {
		cfg.Log.Level = "debug"
	}
	return cfg, nil
}

// setupLogger installs the global logger described by cfg.
func setupLogger(cfg *config.Config) *zap.Logger {
	return logger.Init(cfg.Log).Named("hitcheck")
}

func storePath(cfg *config.Config) string {
	if cfg.Store != "" {
		return cfg.Store
	}
	return defaultStorePath
}

// collectFiles expands directories into the assertion/snapshot documents they contain.
func collectFiles(args []string) ([]string, error) {
	var files []string

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, exitWith(ExitLoadError, err)
		}

		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && isDocument(path) && !isConfigFile(path) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, exitWith(ExitLoadError, err)
		}
	}

	return files, nil
}

func isDocument(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}

func isConfigFile(path string) bool {
	base := filepath.Base(path)
	for _, name := range config.ConfigFilenames {
		if base == name {
			return true
		}
	}
	return false
}

package internal

import (
	"github.com/ebspulse/ebspulse/core/infrastructure/config"
	"github.com/ebspulse/ebspulse/core/infrastructure/logging"
)

// Flags carries the command line values that take precedence over the configuration
type Flags struct {
	ConfigFile string
	Port       string
	LogLevel   int
	Verbose    bool
	LogTags    string
	LogFile    bool
}

// LoadConfig loads the configuration and applies command line overrides on top of it
func LoadConfig(flags Flags) (config.Config, error) {
	cfg, err := config.Load(flags.ConfigFile)
	if err != nil {
		return config.Config{}, err
	}

	cfg.Server.Port = ResolvePort(flags.Port, cfg)
	cfg.Logging.Level = ResolveLogLevel(flags.Verbose, flags.LogLevel, cfg)
	if flags.LogTags != "" {
		cfg.Logging.Tags = flags.LogTags
	}
	if flags.LogFile {
		cfg.Logging.File = true
	}

	if err := config.Validate(cfg); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// ResolvePort resolves the port from CLI flag, then the configuration.
// Environment overrides are already folded into the configuration.
func ResolvePort(cliPort string, cfg config.Config) string {
	if cliPort != "" {
		return cliPort
	}
	if cfg.Server.Port != "" {
		return cfg.Server.Port
	}
	return config.Default().Server.Port
}

// ResolveLogLevel resolves log level from CLI flags and configuration
func ResolveLogLevel(verbose bool, cliLogLevel int, cfg config.Config) int {
	if verbose {
		return logging.LogLevelDebug
	}
	if cliLogLevel > 0 {
		return cliLogLevel
	}
	if cfg.Logging.Level > 0 {
		return cfg.Logging.Level
	}
	return logging.LogLevelInfo
}

// ConfigureLogging applies the logging section to the global logger and returns the
// log file path when file streaming is enabled.
func ConfigureLogging(cfg config.LoggingConfig) (string, error) {
	logging.SetLogLevel(cfg.Level)
	logging.SetTagFilter(cfg.Tags)
	if !cfg.File {
		return "", nil
	}
	return logging.SetLogFile()
}

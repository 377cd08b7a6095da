// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

// Default values applied before the environment layer is merged on top.
const (
	// DefaultLogFilePath is used when LOG_FILE_PATH is unset or empty.
	DefaultLogFilePath = "logs/default.log"

	// DefaultLogLevel is used when LOG_LEVEL is unset or empty.
	DefaultLogLevel = "INFO"
)

// DefaultQuietLoggers lists the named loggers whose verbosity is forced down
// to WARNING once a file configuration has been applied successfully.
var DefaultQuietLoggers = []string{
	"http-client",
	"core-http",
	"url-library",
	"async-runtime",
	"genai",
}

// Logging is the configuration consumed by the logging bootstrap.
//
// Struct tags:
//   - env: environment variable name (caarlos0/env).
//   - envSeparator: separator for slice values.
type Logging struct {
	// ConfigFilePath is the optional path to an ini-style logging
	// configuration file. When empty, or when the path does not exist, the
	// bootstrap applies the basic console configuration.
	// Env: LOG_CONFIG_FILE_PATH
	ConfigFilePath string `env:"LOG_CONFIG_FILE_PATH"`

	// FilePath is the log output file. Its parent directory and the file
	// itself are created on demand. Substituted as %(LOG_FILE_PATH)s.
	// Env: LOG_FILE_PATH
	FilePath string `env:"LOG_FILE_PATH"`

	// Level is substituted into the configuration file as %(LOG_LEVEL)s.
	// It is not validated here; an unknown level makes the file
	// configuration fail and the bootstrap fall back.
	// Env: LOG_LEVEL
	Level string `env:"LOG_LEVEL"`

	// QuietLoggers are forced to WARNING after a successful file
	// configuration.
	// Env: LOG_QUIET_LOGGERS (comma separated)
	QuietLoggers []string `env:"LOG_QUIET_LOGGERS" envSeparator:","`
}

// DefaultLogging returns the configuration used when nothing is set in the
// environment.
func DefaultLogging() *Logging {
	quiet := make([]string, len(DefaultQuietLoggers))
	copy(quiet, DefaultQuietLoggers)

	return &Logging{
		FilePath:     DefaultLogFilePath,
		Level:        DefaultLogLevel,
		QuietLoggers: quiet,
	}
}

// GetLoggingConfig assembles the logging configuration in the following
// priority order (last source wins for non-zero fields):
//  1. Built-in defaults
//  2. Environment variables
//
// Returns a fully populated *Logging or an error if the environment cannot be
// parsed or the final config fails validation.
func GetLoggingConfig() (*Logging, error) {
	return newConfigBuilder().
		withDefaults().
		withEnv().
		build()
}

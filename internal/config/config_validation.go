// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"strings"
)

// validate checks that the merged [Logging] config can be handed to the
// bootstrap. The log level and config file path are deliberately left to the
// bootstrap, which degrades to the basic configuration instead of failing.
func (cfg *Logging) validate() error {
	if strings.TrimSpace(cfg.FilePath) == "" {
		return fmt.Errorf("%w: empty log file path", ErrInvalidLoggingConfigs)
	}

	for i, name := range cfg.QuietLoggers {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("%w: blank quiet logger name at position %d", ErrInvalidLoggingConfigs, i)
		}
	}

	return nil
}

// normalize treats whitespace-only values as unset and drops blank quiet
// logger names, so a stray separator in the environment does not discard the
// rest of the configuration.
func (cfg *Logging) normalize() {
	cfg.ConfigFilePath = strings.TrimSpace(cfg.ConfigFilePath)
	cfg.FilePath = strings.TrimSpace(cfg.FilePath)
	cfg.Level = strings.TrimSpace(cfg.Level)

	var quiet []string
	for _, name := range cfg.QuietLoggers {
		if name = strings.TrimSpace(name); name != "" {
			quiet = append(quiet, name)
		}
	}
	cfg.QuietLoggers = quiet
}

package config

import "errors"

// Validation errors returned by [Logging.validate].
var (
	// ErrInvalidLoggingConfigs indicates an unusable logging configuration
	// (for example, an empty log file path or a blank quiet logger name).
	ErrInvalidLoggingConfigs = errors.New("invalid logging configuration")
)

package logger

import "errors"

// Errors produced while loading a logging configuration file. They never
// leave the bootstrap: [Logging.Apply] reports them in [Result.Err] after
// falling back to the basic configuration.
var (
	// ErrReadConfig indicates that the configuration file could not be read
	// or parsed as ini.
	ErrReadConfig = errors.New("error reading logging configuration file")
	// ErrMissingSection indicates that a required section is absent.
	ErrMissingSection = errors.New("missing logging configuration section")
	// ErrUnknownLevel indicates an unrecognised level name.
	ErrUnknownLevel = errors.New("unknown log level")
	// ErrUnknownHandler indicates a logger referencing an undeclared handler,
	// or a handler with an unsupported class.
	ErrUnknownHandler = errors.New("unknown log handler")
	// ErrUnknownFormatter indicates a handler referencing an undeclared
	// formatter, or a formatter with an unsupported class.
	ErrUnknownFormatter = errors.New("unknown log formatter")
	// ErrInvalidHandler indicates a handler whose options cannot be used
	// (for example, a file handler without a filename).
	ErrInvalidHandler = errors.New("invalid log handler")
	// ErrLogFile indicates that the log file or its directory could not be
	// prepared.
	ErrLogFile = errors.New("error preparing log file")
	// ErrConfigPanic indicates a panic recovered while applying a file
	// configuration.
	ErrConfigPanic = errors.New("panic while applying logging configuration")
)

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package logger

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/MKhiriev/go-bootstrap/internal/config"
	"github.com/rs/zerolog"
)

// BootstrapLoggerName is the registry name used for the bootstrap's own
// warnings and errors.
const BootstrapLoggerName = "bootstrap"

const (
	msgConfigNotFound = "The logging configuration file was not found, using basic configuration."
	msgConfigFailed   = "Failed to load the logging configuration file, using basic configuration."
)

// Mode reports which configuration path [Logging.Apply] took.
type Mode int

const (
	// ModeFile means the configuration file was applied.
	ModeFile Mode = iota
	// ModeBasicNoFile means no configuration file was set or it does not
	// exist, and the basic configuration was applied.
	ModeBasicNoFile
	// ModeBasicOnError means the configuration file could not be applied,
	// and the basic configuration was applied instead.
	ModeBasicOnError
)

func (m Mode) String() string {
	switch m {
	case ModeFile:
		return "file"
	case ModeBasicNoFile:
		return "basic-no-file"
	case ModeBasicOnError:
		return "basic-on-error"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// Result is the outcome of one [Logging.Apply] call.
type Result struct {
	// Mode is the configuration path that was taken.
	Mode Mode
	// ConfigPath is the configuration file path that was consulted.
	ConfigPath string
	// LogFilePath is the prepared log file; empty unless Mode is ModeFile.
	LogFilePath string
	// Err is the failure that caused ModeBasicOnError; nil otherwise.
	Err error
}

// Logging owns the logger registry and every file opened on its behalf.
// It replaces ambient process-wide logging state: create it once at startup
// with [Init] and pass loggers obtained from it down explicitly.
//
// Apply is not safe for concurrent use; it is expected to run early and
// single-threaded. Loggers handed out by the registry are safe to use from
// any goroutine, including while Apply runs.
type Logging struct {
	registry *Registry
	streams  streams

	mu      sync.Mutex
	closers []io.Closer
}

// lowerGlobalLevel runs once per process: per-logger filtering is done by
// the registry, so the zerolog global level must not drop trace records.
var lowerGlobalLevel sync.Once

// Option customises a [Logging] handle.
type Option func(*Logging)

// WithConsole sends every console handler, stdout and stderr alike, to w.
func WithConsole(w io.Writer) Option {
	return func(l *Logging) {
		l.streams = streams{stdout: w, stderr: w}
	}
}

// NewLogging returns a Logging handle with a fresh registry. Nothing is written
// until a configuration is applied. The first call lowers the zerolog global
// level to Trace.
func NewLogging(opts ...Option) *Logging {
	lowerGlobalLevel.Do(func() {
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	})

	l := &Logging{
		registry: NewRegistry(),
		streams:  osStreams(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Init creates a Logging handle and applies cfg to it. It never fails: the
// returned handle always has a working configuration, and Result tells which
// one.
func Init(cfg config.Logging, opts ...Option) (*Logging, Result) {
	l := NewLogging(opts...)
	return l, l.Apply(cfg)
}

// Registry returns the registry backing this handle.
func (l *Logging) Registry() *Registry {
	return l.registry
}

// Named is a shortcut for l.Registry().Named(name).
func (l *Logging) Named(name string) *Logger {
	return l.registry.Named(name)
}

// Root is a shortcut for l.Registry().Root().
func (l *Logging) Root() *Logger {
	return l.registry.Root()
}

// Apply configures the registry from cfg.
//
// Without a configuration file, or when the file does not exist, the basic
// configuration (one console handler on stderr, INFO) is applied and a
// warning is logged. Otherwise the log file and its directory are created,
// the file is loaded with LOG_LEVEL and LOG_FILE_PATH as substitution
// defaults and installed without disabling existing loggers, and every
// cfg.QuietLoggers entry is forced to WARNING. Any failure on that path,
// panics included, falls back to the basic configuration and is logged as
// an error.
//
// Apply may be called again; a later call replaces the handlers of an
// earlier one but is not transactional across calls.
func (l *Logging) Apply(cfg config.Logging) Result {
	log := l.registry.Named(BootstrapLoggerName)

	if cfg.ConfigFilePath == "" || !pathExists(cfg.ConfigFilePath) {
		l.applyBasic()
		log.Warn().Str("config_path", cfg.ConfigFilePath).Msg(msgConfigNotFound)
		return Result{Mode: ModeBasicNoFile, ConfigPath: cfg.ConfigFilePath}
	}

	logFilePath, err := l.applyFile(cfg)
	if err != nil {
		l.applyBasic()
		log.Error().Err(err).Str("config_path", cfg.ConfigFilePath).Msg(msgConfigFailed)
		return Result{Mode: ModeBasicOnError, ConfigPath: cfg.ConfigFilePath, Err: err}
	}

	log.Debug().
		Str("config_path", cfg.ConfigFilePath).
		Str("log_file", logFilePath).
		Msg("logging configuration applied")

	return Result{Mode: ModeFile, ConfigPath: cfg.ConfigFilePath, LogFilePath: logFilePath}
}

// Close releases every file opened by file handlers. Loggers keep working
// afterwards; file handlers reopen their file on the next write.
func (l *Logging) Close() error {
	l.mu.Lock()
	closers := l.closers
	l.closers = nil
	l.mu.Unlock()

	return closeAll(closers)
}

// applyBasic replaces the root handlers with a single console handler on
// stderr at INFO. Named loggers are left as they are.
func (l *Logging) applyBasic() {
	out := l.streams.stderr
	w := newHandlerWriter(consoleWriter(out, "", isTerminal(out)), LevelNotSet)

	l.registry.root.setSink(w)
	l.registry.root.setLevel(zerolog.InfoLevel)
}

func (l *Logging) applyFile(cfg config.Logging) (logFilePath string, err error) {
	defer func() {
		if r := recover(); r != nil {
			logFilePath = ""
			err = fmt.Errorf("%w: %v", ErrConfigPanic, r)
		}
	}()

	logFilePath = cfg.FilePath
	if logFilePath == "" {
		logFilePath = config.DefaultLogFilePath
	}
	if err := ensureFile(logFilePath); err != nil {
		return "", err
	}

	level := cfg.Level
	if level == "" {
		level = config.DefaultLogLevel
	}
	defaults := map[string]string{
		DefaultKeyLogLevel:    level,
		DefaultKeyLogFilePath: logFilePath,
	}

	fc, err := loadFileConfig(cfg.ConfigFilePath, defaults, l.streams)
	if err != nil {
		return "", err
	}
	l.install(fc)

	for _, name := range cfg.QuietLoggers {
		l.registry.SetLevel(name, zerolog.WarnLevel)
	}

	return logFilePath, nil
}

// install swaps a built file configuration into the registry. Loggers the
// file does not mention are reset to inherit from the root but stay enabled.
func (l *Logging) install(fc *fileConfig) {
	r := l.registry

	r.resetNonRoot()
	r.root.setLevel(fc.root.level)
	r.root.setSink(fc.root.sink)

	for _, lc := range fc.loggers {
		e := r.lookup(lc.name)
		e.setLevel(lc.level)
		e.propagate.Store(lc.propagate)
		e.setSink(lc.sink)
	}

	l.mu.Lock()
	previous := l.closers
	l.closers = fc.closers
	l.mu.Unlock()

	if err := closeAll(previous); err != nil {
		r.Named(BootstrapLoggerName).Warn().Err(err).Msg("error closing previous log files")
	}
}

// ensureFile creates path and its parent directories when they are missing.
// An existing file is left untouched.
func ensureFile(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: create directory %s: %w", ErrLogFile, dir, err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("%w: create file %s: %w", ErrLogFile, path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: close file %s: %w", ErrLogFile, path, err)
	}

	return nil
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil || !errors.Is(err, os.ErrNotExist)
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/MKhiriev/go-bootstrap/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validConfig = `
[loggers]
keys=root,db

[handlers]
keys=console,file

[formatters]
keys=plain,json

[logger_root]
level=%(LOG_LEVEL)s
handlers=console,file

[logger_db]
level=DEBUG
handlers=
qualname=db
propagate=1

[handler_console]
class=stream
level=INFO
formatter=plain
stream=stdout

[handler_file]
class=file
level=DEBUG
formatter=json
filename=%(LOG_FILE_PATH)s

[formatter_plain]
class=console
color=false

[formatter_json]
class=json
`

// ── helpers ───────────────────────────────────────────────────────────────────

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "logging.ini")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func fileLogging(t *testing.T, configPath string) config.Logging {
	t.Helper()
	return config.Logging{
		ConfigFilePath: configPath,
		FilePath:       filepath.Join(t.TempDir(), "logs", "test.log"),
		Level:          "DEBUG",
		QuietLoggers:   []string{"genai", "http-client"},
	}
}

// ── basic configuration ───────────────────────────────────────────────────────

// TestInit_NoConfigPath verifies that an unset config path applies the basic
// configuration and warns exactly once.
func TestInit_NoConfigPath(t *testing.T) {
	var buf bytes.Buffer

	l, res := Init(config.Logging{}, WithConsole(&buf))
	t.Cleanup(func() { _ = l.Close() })

	assert.Equal(t, ModeBasicNoFile, res.Mode)
	assert.NoError(t, res.Err)
	assert.Equal(t, 1, strings.Count(buf.String(), msgConfigNotFound))
	assert.Contains(t, buf.String(), "WRN")
	assert.Equal(t, zerolog.InfoLevel, l.Registry().Level(RootName))
}

// TestInit_MissingConfigPath verifies that a non-existent path behaves like an
// unset one.
func TestInit_MissingConfigPath(t *testing.T) {
	var buf bytes.Buffer
	cfg := fileLogging(t, filepath.Join(t.TempDir(), "absent.ini"))

	l, res := Init(cfg, WithConsole(&buf))
	t.Cleanup(func() { _ = l.Close() })

	assert.Equal(t, ModeBasicNoFile, res.Mode)
	assert.Equal(t, 1, strings.Count(buf.String(), msgConfigNotFound))
	assert.NoFileExists(t, cfg.FilePath)
}

// TestInit_BasicConfigurationFiltersDebug verifies the INFO threshold of the
// basic configuration.
func TestInit_BasicConfigurationFiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	l, _ := Init(config.Logging{}, WithConsole(&buf))
	t.Cleanup(func() { _ = l.Close() })

	l.Named("app").Debug().Msg("debug-line")
	l.Named("app").Info().Msg("info-line")

	assert.NotContains(t, buf.String(), "debug-line")
	assert.Contains(t, buf.String(), "info-line")
}

// ── file configuration ────────────────────────────────────────────────────────

// TestInit_ValidConfigCreatesLogFile verifies that the log directory and file
// are created and the file handler receives records.
func TestInit_ValidConfigCreatesLogFile(t *testing.T) {
	var buf bytes.Buffer
	cfg := fileLogging(t, writeConfigFile(t, validConfig))
	require.NoDirExists(t, filepath.Dir(cfg.FilePath))

	l, res := Init(cfg, WithConsole(&buf))

	require.Equal(t, ModeFile, res.Mode, "unexpected error: %v", res.Err)
	assert.NoError(t, res.Err)
	assert.Equal(t, cfg.FilePath, res.LogFilePath)
	assert.DirExists(t, filepath.Dir(cfg.FilePath))
	assert.FileExists(t, cfg.FilePath)

	l.Named("db").Debug().Msg("db-debug")
	l.Named("app").Info().Msg("app-info")
	require.NoError(t, l.Close())

	content, err := os.ReadFile(cfg.FilePath)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"message":"db-debug"`)
	assert.Contains(t, string(content), `"message":"app-info"`)

	// console handler is INFO and uses the console formatter
	assert.NotContains(t, buf.String(), "db-debug")
	assert.Contains(t, buf.String(), "app-info")
	assert.NotContains(t, buf.String(), msgConfigNotFound)
}

// TestInit_LogLevelSubstitution verifies that LOG_LEVEL reaches the root
// logger through %(LOG_LEVEL)s.
func TestInit_LogLevelSubstitution(t *testing.T) {
	cfg := fileLogging(t, writeConfigFile(t, validConfig))
	cfg.Level = "ERROR"

	l, res := Init(cfg, WithConsole(&bytes.Buffer{}))
	t.Cleanup(func() { _ = l.Close() })

	require.Equal(t, ModeFile, res.Mode, "unexpected error: %v", res.Err)
	assert.Equal(t, zerolog.ErrorLevel, l.Registry().Level(RootName))
	assert.Equal(t, zerolog.DebugLevel, l.Registry().Level("db"))
}

// TestInit_EmptyLevelDefaultsToInfo verifies the LOG_LEVEL default.
func TestInit_EmptyLevelDefaultsToInfo(t *testing.T) {
	cfg := fileLogging(t, writeConfigFile(t, validConfig))
	cfg.Level = ""

	l, res := Init(cfg, WithConsole(&bytes.Buffer{}))
	t.Cleanup(func() { _ = l.Close() })

	require.Equal(t, ModeFile, res.Mode, "unexpected error: %v", res.Err)
	assert.Equal(t, zerolog.InfoLevel, l.Registry().Level(RootName))
}

// TestInit_QuietLoggersForcedToWarning verifies the third-party suppression.
func TestInit_QuietLoggersForcedToWarning(t *testing.T) {
	cfg := fileLogging(t, writeConfigFile(t, validConfig))

	l, res := Init(cfg, WithConsole(&bytes.Buffer{}))
	require.Equal(t, ModeFile, res.Mode, "unexpected error: %v", res.Err)

	assert.Equal(t, zerolog.WarnLevel, l.Registry().Level("genai"))
	assert.Equal(t, zerolog.WarnLevel, l.Registry().Level("http-client"))

	l.Named("genai").Info().Msg("genai-info")
	l.Named("genai").Warn().Msg("genai-warn")
	require.NoError(t, l.Close())

	content, err := os.ReadFile(cfg.FilePath)
	require.NoError(t, err)
	assert.NotContains(t, string(content), "genai-info")
	assert.Contains(t, string(content), "genai-warn")
}

// TestApply_KeepsExistingLoggersEnabled verifies that loggers created before
// the file configuration keep working and inherit the new root level.
func TestApply_KeepsExistingLoggersEnabled(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogging(WithConsole(&buf))
	t.Cleanup(func() { _ = l.Close() })

	early := l.Named("early")
	l.Registry().SetLevel("early", zerolog.ErrorLevel)

	res := l.Apply(fileLogging(t, writeConfigFile(t, validConfig)))
	require.Equal(t, ModeFile, res.Mode, "unexpected error: %v", res.Err)

	early.Info().Msg("still-here")
	assert.Contains(t, buf.String(), "still-here")
	assert.Equal(t, zerolog.DebugLevel, l.Registry().Level("early"))
}

// TestApply_DefaultSectionOverridesDefaults verifies that the file's own
// [DEFAULT] values win over the substitution defaults.
func TestApply_DefaultSectionOverridesDefaults(t *testing.T) {
	content := "[DEFAULT]\nLOG_LEVEL=WARNING\n" + validConfig
	cfg := fileLogging(t, writeConfigFile(t, content))

	l, res := Init(cfg, WithConsole(&bytes.Buffer{}))
	t.Cleanup(func() { _ = l.Close() })

	require.Equal(t, ModeFile, res.Mode, "unexpected error: %v", res.Err)
	assert.Equal(t, zerolog.WarnLevel, l.Registry().Level(RootName))
}

// TestApply_Reapply verifies that applying twice is safe and the second
// configuration wins.
func TestApply_Reapply(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogging(WithConsole(&buf))
	t.Cleanup(func() { _ = l.Close() })

	first := l.Apply(fileLogging(t, writeConfigFile(t, validConfig)))
	require.Equal(t, ModeFile, first.Mode, "unexpected error: %v", first.Err)

	second := l.Apply(config.Logging{})
	assert.Equal(t, ModeBasicNoFile, second.Mode)
	assert.Equal(t, zerolog.InfoLevel, l.Registry().Level(RootName))
}

// ── failures ──────────────────────────────────────────────────────────────────

// TestInit_FailuresFallBackToBasic verifies that every broken configuration
// degrades to the basic configuration, logs one error, and never panics.
func TestInit_FailuresFallBackToBasic(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(t *testing.T) config.Logging
		wantErr error
	}{
		{
			name: "config path is a directory",
			prepare: func(t *testing.T) config.Logging {
				return fileLogging(t, t.TempDir())
			},
			wantErr: ErrReadConfig,
		},
		{
			name: "malformed ini",
			prepare: func(t *testing.T) config.Logging {
				return fileLogging(t, writeConfigFile(t, "[loggers\nkeys=root\n"))
			},
			wantErr: ErrReadConfig,
		},
		{
			name: "missing loggers section",
			prepare: func(t *testing.T) config.Logging {
				return fileLogging(t, writeConfigFile(t, "[something]\nkey=value\n"))
			},
			wantErr: ErrMissingSection,
		},
		{
			name: "unknown level",
			prepare: func(t *testing.T) config.Logging {
				cfg := fileLogging(t, writeConfigFile(t, validConfig))
				cfg.Level = "LOUD"
				return cfg
			},
			wantErr: ErrUnknownLevel,
		},
		{
			name: "unknown handler class",
			prepare: func(t *testing.T) config.Logging {
				content := strings.Replace(validConfig, "class=stream", "class=socket", 1)
				return fileLogging(t, writeConfigFile(t, content))
			},
			wantErr: ErrUnknownHandler,
		},
		{
			name: "undeclared formatter",
			prepare: func(t *testing.T) config.Logging {
				content := strings.Replace(validConfig, "formatter=plain", "formatter=fancy", 1)
				return fileLogging(t, writeConfigFile(t, content))
			},
			wantErr: ErrUnknownFormatter,
		},
		{
			name: "log directory blocked by a file",
			prepare: func(t *testing.T) config.Logging {
				cfg := fileLogging(t, writeConfigFile(t, validConfig))
				blocker := filepath.Join(t.TempDir(), "blocker")
				require.NoError(t, os.WriteFile(blocker, nil, 0o600))
				cfg.FilePath = filepath.Join(blocker, "logs", "app.log")
				return cfg
			},
			wantErr: ErrLogFile,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			cfg := tt.prepare(t)

			var (
				l   *Logging
				res Result
			)
			require.NotPanics(t, func() {
				l, res = Init(cfg, WithConsole(&buf))
			})
			t.Cleanup(func() { _ = l.Close() })

			assert.Equal(t, ModeBasicOnError, res.Mode)
			assert.ErrorIs(t, res.Err, tt.wantErr)
			assert.Equal(t, 1, strings.Count(buf.String(), msgConfigFailed))
			assert.Equal(t, zerolog.InfoLevel, l.Registry().Level(RootName))

			l.Named("app").Info().Msg("still-logging")
			assert.Contains(t, buf.String(), "still-logging")
		})
	}
}

// TestInit_UnreadableConfig verifies the permission-denied path.
func TestInit_UnreadableConfig(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("file permissions are not enforced for root")
	}

	var buf bytes.Buffer
	path := writeConfigFile(t, validConfig)
	require.NoError(t, os.Chmod(path, 0o000))

	l, res := Init(fileLogging(t, path), WithConsole(&buf))
	t.Cleanup(func() { _ = l.Close() })

	assert.Equal(t, ModeBasicOnError, res.Mode)
	assert.ErrorIs(t, res.Err, ErrReadConfig)
	assert.Contains(t, buf.String(), msgConfigFailed)
}

// TestInit_ConfigParentIsFile verifies that a config path whose stat fails
// with something other than "not exist" takes the error path, independent of
// the user the test runs as.
func TestInit_ConfigParentIsFile(t *testing.T) {
	var buf bytes.Buffer
	parent := writeConfigFile(t, validConfig)
	path := filepath.Join(parent, "logging.ini")

	_, statErr := os.Stat(path)
	require.Error(t, statErr)
	require.NotErrorIs(t, statErr, os.ErrNotExist)

	l, res := Init(fileLogging(t, path), WithConsole(&buf))
	t.Cleanup(func() { _ = l.Close() })

	assert.Equal(t, ModeBasicOnError, res.Mode)
	assert.ErrorIs(t, res.Err, ErrReadConfig)
	assert.Equal(t, 1, strings.Count(buf.String(), msgConfigFailed))
	assert.NotContains(t, buf.String(), msgConfigNotFound)
	assert.Equal(t, zerolog.InfoLevel, l.Registry().Level(RootName))
}

// TestNewLogging_AllowsTraceRecords verifies that a handle lowers the zerolog
// global level so a trace-level logger is not filtered globally.
func TestNewLogging_AllowsTraceRecords(t *testing.T) {
	var buf bytes.Buffer
	l, _ := Init(config.Logging{}, WithConsole(&buf))
	t.Cleanup(func() { _ = l.Close() })

	assert.Equal(t, zerolog.TraceLevel, zerolog.GlobalLevel())

	l.Registry().SetLevel("tracing", zerolog.TraceLevel)
	l.Named("tracing").Trace().Msg("trace-line")
	assert.Contains(t, buf.String(), "trace-line")
}

func TestMode_String(t *testing.T) {
	assert.Equal(t, "file", ModeFile.String())
	assert.Equal(t, "basic-no-file", ModeBasicNoFile.String())
	assert.Equal(t, "basic-on-error", ModeBasicOnError.String())
	assert.Equal(t, "mode(42)", Mode(42).String())
}

// TestInit_ShippedConfig verifies that the example configuration in configs/
// loads cleanly.
func TestInit_ShippedConfig(t *testing.T) {
	path := filepath.Join("..", "..", "configs", "logging.ini")
	require.FileExists(t, path)

	l, res := Init(fileLogging(t, path), WithConsole(&bytes.Buffer{}))
	t.Cleanup(func() { _ = l.Close() })

	require.Equal(t, ModeFile, res.Mode, "unexpected error: %v", res.Err)
	assert.Equal(t, zerolog.DebugLevel, l.Registry().Level("greeter"))
}

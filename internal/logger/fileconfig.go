package logger

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/ini.v1"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Placeholders substituted into the configuration file as %(NAME)s.
const (
	DefaultKeyLogLevel    = "LOG_LEVEL"
	DefaultKeyLogFilePath = "LOG_FILE_PATH"
)

// fileConfig is a configuration file fully built into writers and levels,
// ready to be installed into a [Registry].
type fileConfig struct {
	root    loggerConfig
	loggers []loggerConfig
	closers []io.Closer
}

type loggerConfig struct {
	name      string
	level     zerolog.Level
	propagate bool
	sink      zerolog.LevelWriter
}

type formatterConfig struct {
	json       bool
	timeFormat string
	color      string
}

func (f formatterConfig) wrap(out io.Writer) io.Writer {
	if f.json {
		return out
	}

	color := isTerminal(out)
	if f.color != "" && f.color != "auto" {
		color, _ = strconv.ParseBool(f.color)
	}
	return consoleWriter(out, f.timeFormat, color)
}

// loadFileConfig reads the ini file at path and builds every formatter,
// handler and logger it declares. defaults are visible to %(NAME)s
// substitution unless the file's own [DEFAULT] section sets the same key.
//
// The file layout is:
//
//	[loggers]          keys=root,<logger>...
//	[handlers]         keys=<handler>...
//	[formatters]       keys=<formatter>...
//	[logger_root]      level, handlers
//	[logger_<logger>]  level, handlers, qualname, propagate
//	[handler_<h>]      class=stream|file|null, level, formatter,
//	                   stream (stream), filename, max_size_mb,
//	                   max_backups, max_age_days, compress (file)
//	[formatter_<f>]    class=console|json, time_format, color=auto|true|false
//
// Nothing is installed here; on error every opened file is closed again.
func loadFileConfig(path string, defaults map[string]string, out streams) (*fileConfig, error) {
	f, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrReadConfig, path, err)
	}

	def := f.Section(ini.DefaultSection)
	for k, v := range defaults {
		if def.HasKey(k) {
			continue
		}
		if _, err := def.NewKey(k, v); err != nil {
			return nil, fmt.Errorf("%w: default %s: %w", ErrReadConfig, k, err)
		}
	}

	formatters, err := parseFormatters(f)
	if err != nil {
		return nil, err
	}

	handlers, closers, err := buildHandlers(f, formatters, out)
	if err != nil {
		return nil, errors.Join(err, closeAll(closers))
	}

	fc, err := buildLoggers(f, handlers, defaults[DefaultKeyLogLevel])
	if err != nil {
		return nil, errors.Join(err, closeAll(closers))
	}
	fc.closers = closers

	return fc, nil
}

func parseFormatters(f *ini.File) (map[string]formatterConfig, error) {
	names, err := sectionKeys(f, "formatters", false)
	if err != nil {
		return nil, err
	}

	formatters := make(map[string]formatterConfig, len(names))
	for _, name := range names {
		sec, err := f.GetSection("formatter_" + name)
		if err != nil {
			return nil, fmt.Errorf("%w: [formatter_%s]", ErrMissingSection, name)
		}

		var fc formatterConfig
		switch class := strings.ToLower(valueOr(sec, "class", "console")); class {
		case "json":
			fc.json = true
		case "console", "text":
		default:
			return nil, fmt.Errorf("%w: formatter %s has class %q", ErrUnknownFormatter, name, class)
		}

		fc.timeFormat = valueOr(sec, "time_format", "")
		fc.color = strings.ToLower(valueOr(sec, "color", "auto"))
		if fc.color != "auto" {
			if _, err := strconv.ParseBool(fc.color); err != nil {
				return nil, fmt.Errorf("%w: formatter %s has color %q", ErrUnknownFormatter, name, fc.color)
			}
		}

		formatters[name] = fc
	}

	return formatters, nil
}

func buildHandlers(f *ini.File, formatters map[string]formatterConfig, out streams) (map[string]zerolog.LevelWriter, []io.Closer, error) {
	names, err := sectionKeys(f, "handlers", false)
	if err != nil {
		return nil, nil, err
	}

	handlers := make(map[string]zerolog.LevelWriter, len(names))
	var closers []io.Closer
	for _, name := range names {
		sec, err := f.GetSection("handler_" + name)
		if err != nil {
			return nil, closers, fmt.Errorf("%w: [handler_%s]", ErrMissingSection, name)
		}

		w, closer, err := buildHandler(name, sec, formatters, out)
		if err != nil {
			return nil, closers, err
		}
		if closer != nil {
			closers = append(closers, closer)
		}
		handlers[name] = w
	}

	return handlers, closers, nil
}

func buildHandler(name string, sec *ini.Section, formatters map[string]formatterConfig, out streams) (zerolog.LevelWriter, io.Closer, error) {
	level, err := ParseLevel(valueOr(sec, "level", "NOTSET"))
	if err != nil {
		return nil, nil, fmt.Errorf("handler %s: %w", name, err)
	}

	var format formatterConfig
	if fmtName := valueOr(sec, "formatter", ""); fmtName != "" {
		var ok bool
		if format, ok = formatters[fmtName]; !ok {
			return nil, nil, fmt.Errorf("%w: handler %s uses formatter %q", ErrUnknownFormatter, name, fmtName)
		}
	}

	switch class := strings.ToLower(valueOr(sec, "class", "")); class {
	case "stream", "console":
		stream := strings.ToLower(valueOr(sec, "stream", "stderr"))
		w, ok := out.get(stream)
		if !ok {
			return nil, nil, fmt.Errorf("%w: handler %s has stream %q", ErrInvalidHandler, name, stream)
		}
		return newHandlerWriter(format.wrap(w), level), nil, nil

	case "file":
		lj, err := fileHandler(name, sec)
		if err != nil {
			return nil, nil, err
		}
		return newHandlerWriter(format.wrap(lj), level), lj, nil

	case "null":
		return newHandlerWriter(io.Discard, level), nil, nil

	default:
		return nil, nil, fmt.Errorf("%w: handler %s has class %q", ErrUnknownHandler, name, class)
	}
}

func fileHandler(name string, sec *ini.Section) (*lumberjack.Logger, error) {
	filename := valueOr(sec, "filename", "")
	if strings.TrimSpace(filename) == "" {
		return nil, fmt.Errorf("%w: file handler %s has no filename", ErrInvalidHandler, name)
	}

	maxSize, err := intKey(sec, "max_size_mb", 0)
	if err != nil {
		return nil, fmt.Errorf("%w: handler %s: %w", ErrInvalidHandler, name, err)
	}
	maxBackups, err := intKey(sec, "max_backups", 0)
	if err != nil {
		return nil, fmt.Errorf("%w: handler %s: %w", ErrInvalidHandler, name, err)
	}
	maxAge, err := intKey(sec, "max_age_days", 0)
	if err != nil {
		return nil, fmt.Errorf("%w: handler %s: %w", ErrInvalidHandler, name, err)
	}
	compress := false
	if sec.HasKey("compress") {
		if compress, err = sec.Key("compress").Bool(); err != nil {
			return nil, fmt.Errorf("%w: handler %s: %w", ErrInvalidHandler, name, err)
		}
	}

	return &lumberjack.Logger{
		Filename:   filename,
		MaxSize:    maxSize,
		MaxBackups: maxBackups,
		MaxAge:     maxAge,
		Compress:   compress,
	}, nil
}

func buildLoggers(f *ini.File, handlers map[string]zerolog.LevelWriter, defaultLevel string) (*fileConfig, error) {
	names, err := sectionKeys(f, "loggers", true)
	if err != nil {
		return nil, err
	}
	if defaultLevel == "" {
		defaultLevel = "INFO"
	}

	rootSec, err := f.GetSection("logger_root")
	if err != nil {
		return nil, fmt.Errorf("%w: [logger_root]", ErrMissingSection)
	}
	root, err := buildLogger(RootName, rootSec, handlers, defaultLevel)
	if err != nil {
		return nil, err
	}

	fc := &fileConfig{root: root}
	for _, name := range names {
		if name == RootName {
			continue
		}
		sec, err := f.GetSection("logger_" + name)
		if err != nil {
			return nil, fmt.Errorf("%w: [logger_%s]", ErrMissingSection, name)
		}

		lc, err := buildLogger(valueOr(sec, "qualname", name), sec, handlers, "NOTSET")
		if err != nil {
			return nil, err
		}
		propagate, err := intKey(sec, "propagate", 1)
		if err != nil {
			return nil, fmt.Errorf("logger %s: %w", name, err)
		}
		lc.propagate = propagate != 0

		fc.loggers = append(fc.loggers, lc)
	}

	return fc, nil
}

func buildLogger(name string, sec *ini.Section, handlers map[string]zerolog.LevelWriter, defaultLevel string) (loggerConfig, error) {
	level, err := ParseLevel(valueOr(sec, "level", defaultLevel))
	if err != nil {
		return loggerConfig{}, fmt.Errorf("logger %s: %w", name, err)
	}

	var ws []zerolog.LevelWriter
	for _, h := range sec.Key("handlers").Strings(",") {
		if h == "" {
			continue
		}
		w, ok := handlers[h]
		if !ok {
			return loggerConfig{}, fmt.Errorf("%w: logger %s uses handler %q", ErrUnknownHandler, name, h)
		}
		ws = append(ws, w)
	}

	return loggerConfig{
		name:      name,
		level:     level,
		propagate: true,
		sink:      combine(ws),
	}, nil
}

// sectionKeys returns the names listed in the "keys" entry of section.
func sectionKeys(f *ini.File, section string, required bool) ([]string, error) {
	sec, err := f.GetSection(section)
	if err != nil {
		if required {
			return nil, fmt.Errorf("%w: [%s]", ErrMissingSection, section)
		}
		return nil, nil
	}

	var keys []string
	for _, k := range sec.Key("keys").Strings(",") {
		if k != "" {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

func valueOr(sec *ini.Section, key, def string) string {
	if !sec.HasKey(key) {
		return def
	}
	return strings.TrimSpace(sec.Key(key).String())
}

func intKey(sec *ini.Section, key string, def int) (int, error) {
	if !sec.HasKey(key) {
		return def, nil
	}
	return sec.Key(key).Int()
}

func closeAll(closers []io.Closer) error {
	var errs []error
	for _, c := range closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

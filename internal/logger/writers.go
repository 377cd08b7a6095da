package logger

import (
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// handlerWriter drops records below minLevel before they reach out.
type handlerWriter struct {
	out      io.Writer
	minLevel zerolog.Level
}

func newHandlerWriter(out io.Writer, minLevel zerolog.Level) *handlerWriter {
	if minLevel == LevelNotSet {
		minLevel = zerolog.TraceLevel
	}
	return &handlerWriter{out: out, minLevel: minLevel}
}

func (h *handlerWriter) Write(p []byte) (int, error) {
	return h.out.Write(p)
}

func (h *handlerWriter) WriteLevel(l zerolog.Level, p []byte) (int, error) {
	if l != zerolog.NoLevel && l < h.minLevel {
		return len(p), nil
	}
	return h.out.Write(p)
}

// combine merges handler writers into the single writer of a registry entry.
func combine(ws []zerolog.LevelWriter) zerolog.LevelWriter {
	switch len(ws) {
	case 0:
		return nil
	case 1:
		return ws[0]
	}

	writers := make([]io.Writer, len(ws))
	for i, w := range ws {
		writers[i] = w
	}
	return zerolog.MultiLevelWriter(writers...)
}

// streams resolves the stream names accepted by "stream" handlers.
type streams struct {
	stdout io.Writer
	stderr io.Writer
}

func osStreams() streams {
	return streams{stdout: os.Stdout, stderr: os.Stderr}
}

func (s streams) get(name string) (io.Writer, bool) {
	switch name {
	case "", "stderr":
		return s.stderr, true
	case "stdout":
		return s.stdout, true
	}
	return nil, false
}

// consoleWriter renders JSON records in a human friendly form on out.
func consoleWriter(out io.Writer, timeFormat string, color bool) zerolog.ConsoleWriter {
	if timeFormat == "" {
		timeFormat = time.RFC3339
	}
	return zerolog.ConsoleWriter{
		Out:        out,
		NoColor:    !color,
		TimeFormat: timeFormat,
	}
}

// isTerminal reports whether w is a terminal file descriptor.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

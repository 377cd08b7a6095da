package diagnostics

import (
	"errors"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/MKhiriev/go-bootstrap/internal/logger"
)

// ErrTracerActive is returned by StartTrace while another tracer runs.
var ErrTracerActive = errors.New("memory tracer already active")

// tracing guards the single process-wide tracer.
var tracing atomic.Bool

// MemorySample is one memory measurement in bytes.
type MemorySample struct {
	// Current is the growth of heap bytes over the scope, never negative.
	// Memory the scope allocated and released may already be reclaimed by
	// the collector at Stop, in which case Current is 0; bytes still
	// reachable at Stop are always counted.
	Current uint64
	// Peak is the number of heap bytes allocated within the scope. It bounds
	// the high-water mark from above and is never below Current.
	Peak uint64
}

// CurrentKB returns Current in kilobytes.
func (s MemorySample) CurrentKB() float64 {
	return float64(s.Current) / 1024
}

// PeakKB returns Peak in kilobytes.
func (s MemorySample) PeakKB() float64 {
	return float64(s.Peak) / 1024
}

// Tracer measures heap allocation from StartTrace until Stop.
type Tracer struct {
	log  *logger.Logger
	name string

	baseAlloc uint64
	baseTotal uint64

	once   sync.Once
	sample MemorySample
}

// StartTrace starts tracing the scope called name. It fails with
// ErrTracerActive while another tracer has not been stopped.
func StartTrace(log *logger.Logger, name string) (*Tracer, error) {
	if !tracing.CompareAndSwap(false, true) {
		return nil, ErrTracerActive
	}
	if log == nil {
		log = logger.Nop()
	}

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	return &Tracer{
		log:       log,
		name:      name,
		baseAlloc: ms.HeapAlloc,
		baseTotal: ms.TotalAlloc,
	}, nil
}

// Stop ends the measurement, releases the process-wide tracer and logs the
// current and peak usage at info level. Only the first call measures and
// logs; later calls return the same sample.
func (t *Tracer) Stop() MemorySample {
	t.once.Do(func() {
		var ms runtime.MemStats
		runtime.ReadMemStats(&ms)
		tracing.Store(false)

		var s MemorySample
		if ms.HeapAlloc > t.baseAlloc {
			s.Current = ms.HeapAlloc - t.baseAlloc
		}
		s.Peak = max(ms.TotalAlloc-t.baseTotal, s.Current)
		t.sample = s

		t.log.Info().
			Str("func", t.name).
			Float64("current_kb", s.CurrentKB()).
			Msgf("[%s] Current memory usage: %.2f KB", t.name, s.CurrentKB())
		t.log.Info().
			Str("func", t.name).
			Float64("peak_kb", s.PeakKB()).
			Msgf("[%s] Peak memory usage: %.2f KB", t.name, s.PeakKB())
	})
	return t.sample
}

// TraceMemory runs fn inside a tracer scope and returns its error unchanged.
// If another tracer is active, fn still runs, untraced, and a warning is
// logged.
func TraceMemory(log *logger.Logger, name string, fn func() error) error {
	_, err := Traced(log, name, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

// Traced runs fn inside a tracer scope and returns its results unchanged.
// If another tracer is active, fn still runs, untraced, and a warning is
// logged.
func Traced[T any](log *logger.Logger, name string, fn func() (T, error)) (T, error) {
	t, err := StartTrace(log, name)
	if err != nil {
		if log != nil {
			log.Warn().Err(err).Str("func", name).Msg("memory tracing skipped")
		}
		return fn()
	}
	defer t.Stop()

	return fn()
}

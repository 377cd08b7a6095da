package diagnostics

import (
	"sync"
	"time"

	"github.com/MKhiriev/go-bootstrap/internal/logger"
)

// TimeSample is one timing measurement.
type TimeSample struct {
	Start time.Time
	End   time.Time
}

// Elapsed returns the monotonic duration between Start and End.
func (s TimeSample) Elapsed() time.Duration {
	return s.End.Sub(s.Start)
}

// Timer measures wall-clock duration from StartTimer until Stop.
type Timer struct {
	log  *logger.Logger
	name string

	start  time.Time
	once   sync.Once
	sample TimeSample
}

// StartTimer starts timing the scope called name.
func StartTimer(log *logger.Logger, name string) *Timer {
	if log == nil {
		log = logger.Nop()
	}
	return &Timer{log: log, name: name, start: time.Now()}
}

// Stop ends the measurement and logs it at info level. Only the first call
// measures and logs; later calls return the same sample.
func (t *Timer) Stop() TimeSample {
	t.once.Do(func() {
		t.sample = TimeSample{Start: t.start, End: time.Now()}
		secs := t.sample.Elapsed().Seconds()

		t.log.Info().
			Str("func", t.name).
			Float64("elapsed_seconds", secs).
			Msgf("[%s] Execution time: %.6f seconds", t.name, secs)
	})
	return t.sample
}

// MeasureTime runs fn inside a timer scope and returns its error unchanged.
func MeasureTime(log *logger.Logger, name string, fn func() error) error {
	t := StartTimer(log, name)
	defer t.Stop()

	return fn()
}

// Timed runs fn inside a timer scope and returns its results unchanged.
func Timed[T any](log *logger.Logger, name string, fn func() (T, error)) (T, error) {
	t := StartTimer(log, name)
	defer t.Stop()

	return fn()
}

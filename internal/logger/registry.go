package logger

import (
	"errors"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// RootName is the registry name of the root logger.
const RootName = "root"

// sink is the set of handlers attached to one registry entry.
type sink struct {
	w zerolog.LevelWriter
}

// entry is the shared state behind every *Logger handed out for one name.
// Loggers keep a pointer to their entry, so level and sink changes apply to
// loggers created before the change.
type entry struct {
	name      string
	level     atomic.Int32
	propagate atomic.Bool
	sink      atomic.Pointer[sink]
	root      *entry // nil for the root entry
}

func newEntry(name string, root *entry) *entry {
	e := &entry{name: name, root: root}
	e.level.Store(int32(LevelNotSet))
	e.propagate.Store(true)
	return e
}

func (e *entry) setLevel(l zerolog.Level) {
	e.level.Store(int32(l))
}

func (e *entry) setSink(w zerolog.LevelWriter) {
	if w == nil {
		e.sink.Store(nil)
		return
	}
	e.sink.Store(&sink{w: w})
}

// effectiveLevel resolves NOTSET through the root; a NOTSET root lets
// everything through.
func (e *entry) effectiveLevel() zerolog.Level {
	l := zerolog.Level(e.level.Load())
	if l == LevelNotSet && e.root != nil {
		l = zerolog.Level(e.root.level.Load())
	}
	if l == LevelNotSet {
		return zerolog.TraceLevel
	}
	return l
}

// WriteLevel sends p to the entry's own handlers and, when propagating, to
// the root handlers.
func (e *entry) WriteLevel(l zerolog.Level, p []byte) (int, error) {
	var errs []error
	if s := e.sink.Load(); s != nil {
		if _, err := s.w.WriteLevel(l, p); err != nil {
			errs = append(errs, err)
		}
	}
	if e.root != nil && e.propagate.Load() {
		if s := e.root.sink.Load(); s != nil {
			if _, err := s.w.WriteLevel(l, p); err != nil {
				errs = append(errs, err)
			}
		}
	}

	return len(p), errors.Join(errs...)
}

func (e *entry) Write(p []byte) (int, error) {
	return e.WriteLevel(zerolog.NoLevel, p)
}

// levelHook discards events below the entry's effective level at the time
// the event is sent.
type levelHook struct {
	e *entry
}

func (h levelHook) Run(ev *zerolog.Event, l zerolog.Level, _ string) {
	if l != zerolog.NoLevel && l < h.e.effectiveLevel() {
		ev.Discard()
	}
}

// Registry hands out named loggers backed by shared, reconfigurable state.
// It plays the role of the process-wide logger hierarchy, but is owned
// explicitly by a [Logging] handle.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*entry
	root    *entry
}

// NewRegistry returns a registry whose root logger has no handlers and the
// INFO level.
func NewRegistry() *Registry {
	root := newEntry(RootName, nil)
	root.setLevel(zerolog.InfoLevel)

	return &Registry{
		entries: map[string]*entry{RootName: root},
		root:    root,
	}
}

func (r *Registry) lookup(name string) *entry {
	if name == "" {
		name = RootName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[name]
	if !ok {
		e = newEntry(name, r.root)
		r.entries[name] = e
	}
	return e
}

// Named returns a logger bound to name, registering the name on first use.
// An empty name or [RootName] returns the root logger.
func (r *Registry) Named(name string) *Logger {
	e := r.lookup(name)
	zl := zerolog.New(e).
		Level(zerolog.TraceLevel).
		With().
		Timestamp().
		Str(NameFieldName, e.name).
		Logger().
		Hook(levelHook{e: e})

	return &Logger{zl}
}

// Root returns the root logger.
func (r *Registry) Root() *Logger {
	return r.Named(RootName)
}

// SetLevel sets the level of the named logger. [LevelNotSet] makes a
// non-root logger inherit the root level.
func (r *Registry) SetLevel(name string, l zerolog.Level) {
	r.lookup(name).setLevel(l)
}

// Level returns the effective level of the named logger.
func (r *Registry) Level(name string) zerolog.Level {
	return r.lookup(name).effectiveLevel()
}

// Names returns the sorted names of all registered loggers, root included.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// resetNonRoot returns every named logger to NOTSET, no own handlers and
// propagation on. Loggers stay enabled.
func (r *Registry) resetNonRoot() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.entries {
		if e == r.root {
			continue
		}
		e.setLevel(LevelNotSet)
		e.setSink(nil)
		e.propagate.Store(true)
	}
}

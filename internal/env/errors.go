package env

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a [ConfigurationError].
type ErrorKind int

const (
	// KindUnknown is the zero kind.
	KindUnknown ErrorKind = iota
	// KindEnvVarMissing marks a required variable that is unset or empty.
	KindEnvVarMissing
)

// ErrEnvVarMissing matches, via errors.Is, every [ConfigurationError] of
// kind [KindEnvVarMissing].
var ErrEnvVarMissing = errors.New("environment variable is not set")

// ConfigurationError reports a required configuration value that could not
// be obtained. It is always returned to the caller, never recovered.
type ConfigurationError struct {
	Kind ErrorKind
	// Name is the environment variable involved.
	Name string
}

func (e *ConfigurationError) Error() string {
	switch e.Kind {
	case KindEnvVarMissing:
		return fmt.Sprintf("%s is not set in the environment variables.", e.Name)
	default:
		return fmt.Sprintf("configuration error for %s", e.Name)
	}
}

// Is reports whether target is the sentinel matching e's kind.
func (e *ConfigurationError) Is(target error) bool {
	return e.Kind == KindEnvVarMissing && target == ErrEnvVarMissing
}

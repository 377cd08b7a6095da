// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package env reads required environment variables and loads .env files.
package env

import (
	"os"

	"github.com/MKhiriev/go-bootstrap/internal/logger"
)

// OSEnv is the process environment.
type OSEnv struct{}

// LookupEnv implements [Lookuper] with os.LookupEnv.
func (OSEnv) LookupEnv(key string) (string, bool) {
	return os.LookupEnv(key)
}

// Accessor reads required variables from a [Lookuper] and reports missing
// ones both as an error and as one error log line.
type Accessor struct {
	source Lookuper
	log    *logger.Logger
}

// AccessorOption customises an [Accessor].
type AccessorOption func(*Accessor)

// WithLookuper replaces the process environment as the variable source.
func WithLookuper(l Lookuper) AccessorOption {
	return func(a *Accessor) {
		a.source = l
	}
}

// NewAccessor returns an Accessor over the process environment logging to
// log. A nil log discards output.
func NewAccessor(log *logger.Logger, opts ...AccessorOption) *Accessor {
	if log == nil {
		log = logger.Nop()
	}

	a := &Accessor{
		source: OSEnv{},
		log:    log,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Get returns the value of name exactly as stored. An unset or empty
// variable (and an empty name) yields a *ConfigurationError of kind
// [KindEnvVarMissing] after one error log line. Nothing is logged on success.
func (a *Accessor) Get(name string) (string, error) {
	value, ok := "", false
	if name != "" {
		value, ok = a.source.LookupEnv(name)
	}

	if !ok || value == "" {
		err := &ConfigurationError{Kind: KindEnvVarMissing, Name: name}
		a.log.Error().Str("var", name).Msg(err.Error())
		return "", err
	}

	return value, nil
}

// Get reads name from the process environment, see [Accessor.Get].
func Get(log *logger.Logger, name string) (string, error) {
	return NewAccessor(log).Get(name)
}

// Package config provides loading, merging, and validation of the logging
// configuration.
//
// Configuration is assembled from the following sources (later sources
// override earlier non-zero fields):
//  1. Built-in defaults ([DefaultLogging])
//  2. Environment variables
//
// The main entry point is [GetLoggingConfig].
package config

// config.go: configuration for the map
//
// Follows a zero-value-normalization pattern: Validate never returns a
// validation error, it only fills in sensible
// defaults, so callers can pass a zero-value Config{} and get a working
// map.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package nbhashmap

import "github.com/agilira/go-timecache"

const (
	// DefaultInitialSize is the size hint used when Config.InitialSize
	// is unset; matches the original's new() == new_with_size(MIN_SIZE).
	DefaultInitialSize = minSize
)

// Config holds construction-time parameters for a Map. Every field has a
// usable zero value; Validate fills in defaults for anything left unset.
type Config struct {
	// InitialSize hints at how many entries the map should hold before
	// its first resize. Rounded up to the smallest power of two >=
	// 4*InitialSize, capped at 1<<20, floored at 1<<3. A value <= 0 is
	// replaced by DefaultInitialSize, which gives a 32-slot table.
	InitialSize int

	// Logger receives structured diagnostics for resize/promotion/panic-
	// mode events. If nil, NoOpLogger is used.
	Logger Logger

	// TimeProvider supplies the clock used for the resize heuristic's
	// "within one second" burst window. If nil, a go-timecache-backed
	// provider is used.
	TimeProvider TimeProvider

	// MetricsCollector receives probe/resize/copy counters. If nil,
	// NoOpMetricsCollector is used (zero overhead).
	MetricsCollector MetricsCollector
}

// Validate normalizes zero values to their defaults. Always returns nil;
// it exists for symmetry with the rest of the ambient stack and so a
// future constraint has somewhere to report from without changing the
// Config.Validate signature.
func (c *Config) Validate() error {
	if c.InitialSize <= 0 {
		c.InitialSize = DefaultInitialSize
	}
	if c.Logger == nil {
		c.Logger = NoOpLogger{}
	}
	if c.TimeProvider == nil {
		c.TimeProvider = &systemTimeProvider{}
	}
	if c.MetricsCollector == nil {
		c.MetricsCollector = NoOpMetricsCollector{}
	}
	return nil
}

// DefaultConfig returns a Config with sensible defaults already applied.
func DefaultConfig() Config {
	cfg := Config{}
	cfg.Validate()
	return cfg
}

// systemTimeProvider is the default TimeProvider, backed by
// go-timecache's cached clock to keep the resize heuristic off the
// syscall path.
type systemTimeProvider struct{}

func (systemTimeProvider) Now() int64 {
	return timecache.CachedTimeNano()
}

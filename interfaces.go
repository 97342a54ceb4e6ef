// interfaces.go: public interfaces for the map's ambient stack
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package nbhashmap

// Logger defines a minimal logging interface with zero overhead.
// Implementations should use structured logging and be allocation-free.
type Logger interface {
	// Debug logs a debug message with optional key-value pairs.
	Debug(msg string, keyvals ...interface{})

	// Info logs an info message with optional key-value pairs.
	Info(msg string, keyvals ...interface{})

	// Warn logs a warning message with optional key-value pairs.
	Warn(msg string, keyvals ...interface{})

	// Error logs an error message with optional key-value pairs.
	Error(msg string, keyvals ...interface{})
}

// NoOpLogger is a logger that does nothing. Used as default to avoid nil checks.
type NoOpLogger struct{}

func (NoOpLogger) Debug(msg string, keyvals ...interface{}) {}
func (NoOpLogger) Info(msg string, keyvals ...interface{})  {}
func (NoOpLogger) Warn(msg string, keyvals ...interface{})  {}
func (NoOpLogger) Error(msg string, keyvals ...interface{}) {}

// TimeProvider provides current time with caching for performance.
// This interface allows injecting optimized time implementations, and lets
// tests substitute a controllable clock for the resize burst-window check.
type TimeProvider interface {
	// Now returns the current time in nanoseconds since epoch.
	// This method must be very fast and allocation-free.
	Now() int64
}

// MapStats is a point-in-time snapshot of a Map's built-in atomic counters.
type MapStats struct {
	// Gets is the number of Get calls observed.
	Gets uint64
	// Hits is the number of Get calls that found a present value.
	Hits uint64
	// Misses is the number of Get calls that found nothing.
	Misses uint64
	// Puts is the number of Put/PutIfAbsent/Replace calls that installed
	// a value.
	Puts uint64
	// Removes is the number of Remove calls that tombstoned a present
	// value.
	Removes uint64
	// Resizes is the number of successor tables published over the
	// lifetime of the map.
	Resizes uint64
	// CopiedSlots is the number of slots migrated by cooperative copy.
	CopiedSlots uint64
	// PanicModeEntries is the number of times help_copy had to fall back
	// to panic mode because the claim cursor outran the copy.
	PanicModeEntries uint64
	// Len is the live entry count of the current top-level table.
	Len int
}

// HitRatio returns the Get hit ratio as a percentage (0-100).
func (s MapStats) HitRatio() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total) * 100
}

// Package nbhashmap provides a lock-free, generic, concurrent associative
// map modeled on Cliff Click's non-blocking hash table design.
//
// # Overview
//
// A Map[K, V] supports concurrent Get/Put/Remove/PutIfAbsent/Replace with
// no mutex on the hot path: every slot transitions through a small state
// machine driven entirely by compare-and-swap, and growth is handled by
// cooperative, incremental copying into a successor table rather than a
// stop-the-world rehash. A goroutine whose operation runs into a table
// mid-resize helps with a bounded share of the copy (its own slot and one
// chunk of the rest) and then continues on the successor table, so no
// single goroutine is ever blocked waiting for another to complete a resize.
//
// # Quick start
//
//	m := nbhashmap.New[string, int]()
//	m.Put("a", 1)
//	if v, found := m.Get("a"); found {
//	    fmt.Println(v)
//	}
//
// NewWithSize pre-sizes the table for an expected entry count, avoiding
// early resizes:
//
//	m := nbhashmap.NewWithSize[string, int](10_000)
//
// # Cache-aside helper
//
// GetOrCompute and GetOrComputeWithContext dedupe concurrent computations
// for the same missing key (singleflight), installing a non-zero result on
// success:
//
//	v, err := m.GetOrCompute("user:123", func() (User, error) {
//	    return fetchUser(123)
//	})
//
// # Observability
//
// Map.Stats() returns an always-on snapshot of get/hit/miss/resize
// counters. A pluggable MetricsCollector (see the otel subpackage for an
// OpenTelemetry-backed implementation) and Logger can additionally be
// supplied via Config, and swapped at runtime with SetMetricsCollector/
// SetLogger. HotConfig can switch the MetricsCollector automatically from a
// watched file; it does not change the Logger.
//
// # Memory reclamation
//
// Unlike the Java and Rust implementations this design is modeled on,
// nbhashmap relies on the Go garbage collector to reclaim retired tables
// and tombstoned cells rather than hazard pointers or an epoch scheme: a
// goroutine that retains a pointer to an old table via m.current.Load()
// keeps that table (and only that table) alive for as long as it needs
// it, with no explicit retire/reclaim step anywhere in this package.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package nbhashmap

// metrics.go: MetricsCollector interface and built-in atomic implementation
//
// A pluggable, allocation-free observer interface plus a NoOpMetricsCollector
// default, covering the map's probe/resize/copy/promotion events alongside
// the usual get/put/remove hit and miss counters.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package nbhashmap

import "sync/atomic"

// MetricsCollector receives events from a Map's operations. Implementations
// must be safe for concurrent use and should be effectively allocation-free,
// since they sit on hot paths (every Get/Put/Remove, every probe, every
// cooperative-copy participation).
type MetricsCollector interface {
	// RecordGet is called once per Get, reporting whether it hit.
	RecordGet(hit bool)
	// RecordPut is called once per Put/PutIfAbsent/Replace that installs
	// a value.
	RecordPut()
	// RecordRemove is called once per Remove that tombstones a present
	// value.
	RecordRemove()
	// RecordProbe takes the reprobe count an operation needed to find or
	// claim its slot. Map itself never calls RecordProbe.
	RecordProbe(reprobes int)
	// RecordResize is called when a successor table is published.
	RecordResize(oldSize, newSize int)
	// RecordCopySlot is called once per slot this goroutine's own
	// compare-and-swap drove to its terminal migrated state.
	RecordCopySlot()
	// RecordPanicMode is called when help_copy falls back to panic mode
	// because the claim cursor outran the copy.
	RecordPanicMode(oldSize int)
	// RecordPromotion is called when a successor table is promoted to
	// current.
	RecordPromotion(oldSize, newSize int)
}

// NoOpMetricsCollector discards every event. Used as the default so callers
// who don't care about metrics pay nothing for them.
type NoOpMetricsCollector struct{}

func (NoOpMetricsCollector) RecordGet(hit bool)                 {}
func (NoOpMetricsCollector) RecordPut()                         {}
func (NoOpMetricsCollector) RecordRemove()                      {}
func (NoOpMetricsCollector) RecordProbe(reprobes int)           {}
func (NoOpMetricsCollector) RecordResize(oldSize, newSize int)  {}
func (NoOpMetricsCollector) RecordCopySlot()                    {}
func (NoOpMetricsCollector) RecordPanicMode(oldSize int)        {}
func (NoOpMetricsCollector) RecordPromotion(oldSize, newSize int) {}

// AtomicMetrics is the built-in, always-on counter set backing Map.Stats().
// It is distinct from the pluggable MetricsCollector returned by
// Map.collector(): AtomicMetrics always runs (Stats() would otherwise be
// empty), while the pluggable collector is opt-in and may additionally
// export to OpenTelemetry or elsewhere.
type AtomicMetrics struct {
	gets             atomic.Uint64
	hits             atomic.Uint64
	misses           atomic.Uint64
	puts             atomic.Uint64
	removes          atomic.Uint64
	resizes          atomic.Uint64
	copiedSlots      atomic.Uint64
	panicModeEntries atomic.Uint64
}

func (a *AtomicMetrics) RecordGet(hit bool) {
	a.gets.Add(1)
	if hit {
		a.hits.Add(1)
	} else {
		a.misses.Add(1)
	}
}

func (a *AtomicMetrics) RecordPut()    { a.puts.Add(1) }
func (a *AtomicMetrics) RecordRemove() { a.removes.Add(1) }

func (a *AtomicMetrics) RecordResize(oldSize, newSize int) { a.resizes.Add(1) }
func (a *AtomicMetrics) RecordCopySlot()                   { a.copiedSlots.Add(1) }
func (a *AtomicMetrics) RecordPanicMode(oldSize int)       { a.panicModeEntries.Add(1) }
func (a *AtomicMetrics) RecordPromotion(oldSize, newSize int) {}

// Snapshot returns a point-in-time copy of the counters. Len is left zero;
// callers fill it in from the live table (AtomicMetrics has no table
// reference of its own).
func (a *AtomicMetrics) Snapshot() MapStats {
	return MapStats{
		Gets:             a.gets.Load(),
		Hits:             a.hits.Load(),
		Misses:           a.misses.Load(),
		Puts:             a.puts.Load(),
		Removes:          a.removes.Load(),
		Resizes:          a.resizes.Load(),
		CopiedSlots:      a.copiedSlots.Load(),
		PanicModeEntries: a.panicModeEntries.Load(),
	}
}

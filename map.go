// map.go: the top-level concurrent map
//
// Map owns the current top-level table pointer and implements Put/Get/
// Remove by probing plus the slot state machine (slot.go), triggering a
// resize and driving cooperative copy as needed (resize.go). The probe
// loop follows the same CAS-retry-until-success shape as
// put_if_match_impl/get_impl_supply_hash in Cliff Click's non-blocking hash
// table, built out here against the richer per-slot state machine a
// generic map with incremental resize requires.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package nbhashmap

import (
	"sync"
	"sync/atomic"
)

// matchKind selects which precondition put_if_match checks before
// installing a new value.
type matchKind int8

const (
	matchAny matchKind = iota
	matchAnyNonEmpty
	matchEquals
	matchFromCopy
)

// Map is a lock-free concurrent associative map from K to V, modeled on
// Cliff Click's non-blocking hash table.
type Map[K comparable, V comparable] struct {
	current    atomic.Pointer[kvTable[K, V]]
	lastResize atomic.Int64 // nanoseconds, via TimeProvider

	hash         hasher[K]
	timeProvider TimeProvider

	loggerVal  atomic.Value // *loggerBox
	metricsVal atomic.Value // *metricsBox

	metrics AtomicMetrics

	inflightCalls sync.Map // key K -> *inflightCall[V], used by GetOrCompute
}

func (m *Map[K, V]) inflight() *sync.Map {
	return &m.inflightCalls
}

type loggerBox struct{ logger Logger }
type metricsBox struct{ collector MetricsCollector }

// New creates a map with the default configuration.
func New[K comparable, V comparable]() *Map[K, V] {
	return NewWithConfig[K, V](Config{})
}

// NewWithSize creates a map sized to hold hint entries comfortably before
// its first resize. hint is rounded up to the smallest power of two >=
// 4*hint, capped at 1<<20, floored at 1<<3. A hint <= 0 is replaced by
// DefaultInitialSize (8), which gives a 32-slot table.
func NewWithSize[K comparable, V comparable](hint int) *Map[K, V] {
	return NewWithConfig[K, V](Config{InitialSize: hint})
}

// NewWithConfig creates a map using an explicit Config, wiring the
// ambient logger/time-provider/metrics stack.
func NewWithConfig[K comparable, V comparable](cfg Config) *Map[K, V] {
	cfg.Validate()

	m := &Map[K, V]{
		hash:         newHasher[K](),
		timeProvider: cfg.TimeProvider,
	}
	m.loggerVal.Store(&loggerBox{logger: cfg.Logger})
	m.metricsVal.Store(&metricsBox{collector: cfg.MetricsCollector})

	size := tableSizeFor(cfg.InitialSize)
	m.current.Store(newKVTable[K, V](size))
	m.lastResize.Store(cfg.TimeProvider.Now())
	return m
}

func (m *Map[K, V]) logger() Logger {
	if b, ok := m.loggerVal.Load().(*loggerBox); ok && b.logger != nil {
		return b.logger
	}
	return NoOpLogger{}
}

func (m *Map[K, V]) collector() MetricsCollector {
	if b, ok := m.metricsVal.Load().(*metricsBox); ok && b.collector != nil {
		return b.collector
	}
	return NoOpMetricsCollector{}
}

// SetLogger atomically swaps the active logger. Safe to call concurrently
// with any map operation; used by HotConfig for dynamic reload.
func (m *Map[K, V]) SetLogger(l Logger) {
	if l == nil {
		l = NoOpLogger{}
	}
	m.loggerVal.Store(&loggerBox{logger: l})
}

// SetMetricsCollector atomically swaps the active metrics collector.
func (m *Map[K, V]) SetMetricsCollector(c MetricsCollector) {
	if c == nil {
		c = NoOpMetricsCollector{}
	}
	m.metricsVal.Store(&metricsBox{collector: c})
}

// Put unconditionally installs value for key, returning the previous
// value (if any).
func (m *Map[K, V]) Put(key K, value V) (previous V, hadPrevious bool) {
	prev, installed := m.putIfMatch(m.current.Load(), key, newPresentValue(value), matchAny, nil)
	if installed {
		m.metrics.RecordPut()
		m.collector().RecordPut()
	}
	return valueOrZero(prev)
}

// PutIfAbsent installs value only if key is currently absent, returning
// whatever value was present beforehand (if any).
func (m *Map[K, V]) PutIfAbsent(key K, value V) (previous V, hadPrevious bool) {
	absent := newTombstoneValue[V]()
	prev, installed := m.putIfMatch(m.current.Load(), key, newPresentValue(value), matchEquals, absent)
	if installed {
		m.metrics.RecordPut()
		m.collector().RecordPut()
	}
	return valueOrZero(prev)
}

// Replace performs a map-level compare-and-swap: newValue is installed
// only if the current value equals expected.
func (m *Map[K, V]) Replace(key K, newValue, expected V) bool {
	_, ok := m.putIfMatch(m.current.Load(), key, newPresentValue(newValue), matchEquals, newPresentValue(expected))
	if ok {
		m.metrics.RecordPut()
		m.collector().RecordPut()
	}
	return ok
}

// Remove writes a tombstone for key, returning the previous value (if
// any) and removing it from the live count.
func (m *Map[K, V]) Remove(key K) (previous V, hadPrevious bool) {
	prev, removed := m.putIfMatch(m.current.Load(), key, newTombstoneValue[V](), matchAny, nil)
	previous, hadPrevious = valueOrZero(prev)
	if removed && hadPrevious {
		m.metrics.RecordRemove()
		m.collector().RecordRemove()
	}
	return previous, hadPrevious
}

// Get looks up key, returning its value and whether it was present.
func (m *Map[K, V]) Get(key K) (value V, found bool) {
	h := m.hash.hash(key)
	cell := m.get(m.current.Load(), key, h)
	value, found = valueOrZero(cell)
	m.metrics.RecordGet(found)
	m.collector().RecordGet(found)
	return value, found
}

// Len returns the number of present entries in the top-level table.
func (m *Map[K, V]) Len() int {
	return int(m.current.Load().chm.size.Load())
}

// Stats returns a point-in-time snapshot of the built-in atomic metrics,
// with Len filled in from the live top-level table.
func (m *Map[K, V]) Stats() MapStats {
	s := m.metrics.Snapshot()
	s.Len = m.Len()
	return s
}

func valueOrZero[V comparable](c *valueCell[V]) (V, bool) {
	if c.isEmpty() || c.isTombstone() {
		var zero V
		return zero, false
	}
	return c.value, true
}

// putIfMatch is the map's put_if_match, entered at an arbitrary
// table (the map's current table for public calls, or a successor when
// recursing across a resize). It returns the observed previous value and
// whether this call's own compare-and-swap is what installed newVal. After
// a successful CAS or a keyless remove, EMPTY_V is reported as a
// tombstone; when the matcher rejects the write, the observed cell is
// returned as is, which is nil for EMPTY_V.
func (m *Map[K, V]) putIfMatch(table *kvTable[K, V], key K, newVal *valueCell[V], kind matchKind, expected *valueCell[V]) (*valueCell[V], bool) {
	if newVal.isEmpty() {
		panic("nbhashmap: put_if_match called with an empty value")
	}
	if newVal.isPrimed() {
		panic("nbhashmap: put_if_match called with a primed value")
	}
	if kind == matchEquals && expected.isPrimed() {
		panic("nbhashmap: put_if_match called with a primed expected value")
	}

	fullHash := m.hash.hash(key)
	idx, reprobes, keylessRemove, ok := m.locateOrInsertSlot(table, key, fullHash, newVal)
	if !ok {
		// Reprobe ceiling hit, or a tombstone key forced migration: a
		// successor now exists, retry there.
		newTable := m.triggerResize(table)
		if kind != matchFromCopy {
			m.helpCopyImpl(table, false)
		}
		return m.putIfMatch(newTable, key, newVal, kind, expected)
	}
	if keylessRemove {
		// Never convert EMPTY directly to a tombstone value: the key
		// slot was left untouched, so neither the matcher nor the value
		// CAS below may run.
		return newTombstoneValue[V](), false
	}

	v := table.valueAt(idx)

	if table.chm.hasNewTable() && (v.isPrimed() || (v.isTombstone() && table.tableFull(reprobes))) {
		m.triggerResize(table)
	}
	if table.chm.hasNewTable() {
		shouldHelp := kind != matchFromCopy
		newTable := m.copySlotAndCheck(table, idx, shouldHelp)
		return m.putIfMatch(newTable, key, newVal, kind, expected)
	}

	for {
		if v.isPrimed() {
			panic("nbhashmap: value became primed on the newest table")
		}

		if !matches(kind, v, expected) {
			return v, false
		}

		if table.values[idx].CompareAndSwap(v, newVal) {
			if kind != matchFromCopy {
				wasAbsent := v.isEmpty() || v.isTombstone()
				nowAbsent := newVal.isTombstone()
				switch {
				case wasAbsent && !nowAbsent:
					table.chm.size.Add(1)
				case !wasAbsent && nowAbsent:
					table.chm.size.Add(-1)
				}
			}
			if v.isEmpty() {
				return newTombstoneValue[V](), true
			}
			return v, true
		}

		v = table.valueAt(idx)
		if v.isPrimed() {
			newTable := m.copySlotAndCheck(table, idx, kind != matchFromCopy)
			return m.putIfMatch(newTable, key, newVal, kind, expected)
		}
	}
}

// matches implements the four matcher kinds put_if_match accepts.
func matches[V comparable](kind matchKind, current, expected *valueCell[V]) bool {
	switch kind {
	case matchAny:
		return true
	case matchAnyNonEmpty:
		return !(current.isEmpty() || current.isTombstone())
	case matchEquals:
		return equalValue(current, expected)
	case matchFromCopy:
		return current.isEmpty()
	default:
		return false
	}
}

// locateOrInsertSlot is find_slot for writers: probe for key's slot,
// claiming an EMPTY slot via CAS when inserting.
// Returns ok=false when probing must fall through to a resize.
func (m *Map[K, V]) locateOrInsertSlot(table *kvTable[K, V], key K, fullHash uint64, putVal *valueCell[V]) (idx int, reprobes int, keylessRemove bool, ok bool) {
	mask := table.mask()
	idx = int(fullHash & mask)
	newKey := newPresentKey(key)

	for {
		k := table.keyAt(idx)

		if k.isEmpty() {
			if putVal.isTombstone() {
				// Never convert EMPTY directly to a tombstone value.
				return idx, reprobes, true, true
			}
			if table.keys[idx].CompareAndSwap(nil, newKey) {
				table.chm.slots.Add(1)
				table.hashes[idx].Store(fullHash)
				return idx, reprobes, false, true
			}
			k = table.keyAt(idx)
		}

		if k.isPresent() && k.key == key {
			return idx, reprobes, false, true
		}

		reprobes++
		if reprobes >= reprobeLimit(table.size()) || k.isTombstone() {
			return idx, reprobes, false, false
		}
		idx = int((uint64(idx) + 1) & mask)
	}
}

// get probes table for key, following successor tables across a resize.
func (m *Map[K, V]) get(table *kvTable[K, V], key K, fullHash uint64) *valueCell[V] {
	mask := table.mask()
	idx := int(fullHash & mask)
	reprobes := 0

	for {
		k := table.keyAt(idx)
		if k.isEmpty() {
			return nil
		}
		if k.isPresent() && k.key == key {
			v := table.valueAt(idx)
			if !v.isPrimed() {
				if v.isTombstone() {
					return nil
				}
				return v
			}
			newTable := m.copySlotAndCheck(table, idx, true)
			return m.get(newTable, key, fullHash)
		}

		reprobes++
		if reprobes >= reprobeLimit(table.size()) || k.isTombstone() {
			if table.chm.hasNewTable() {
				m.helpCopyImpl(table, false)
				return m.get(table.chm.newkvs.Load(), key, fullHash)
			}
			return nil
		}
		idx = int((uint64(idx) + 1) & mask)
	}
}

// resize.go: resize trigger and cooperative incremental copy
//
// Publishing a successor table is a single winner-takes-all CAS on chm.newkvs;
// copying a table is split into bounded chunks that any number of
// participating goroutines claim via CAS on chm.copyIdx, with a "panic
// mode" fallback once copyIdx has been claimed twice over, guaranteeing
// completion even if earlier claimants stalled or exited.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package nbhashmap

import "time"

const resizeBurstWindow = int64(time.Second)

// triggerResize decides whether a table needs a successor and, if so,
// publishes one. It is idempotent: if a successor already exists, it is
// returned unchanged.
func (m *Map[K, V]) triggerResize(table *kvTable[K, V]) *kvTable[K, V] {
	if existing := table.chm.newkvs.Load(); existing != nil {
		return existing
	}

	old := table.size()
	sz := table.chm.size.Load()
	target := sz

	if sz >= int64(old)/4 {
		target = int64(old) * 2
	}
	if sz >= int64(old)/2 {
		target = int64(old) * 4
	}

	now := m.timeProvider.Now()
	recentBurst := now-m.lastResize.Load() < resizeBurstWindow
	manyTombstones := table.chm.slots.Load() >= 2*sz
	if target <= int64(old) && recentBurst && manyTombstones {
		target = int64(old) * 2
	}
	if target < int64(old) {
		target = int64(old)
	}

	newSize := nextPow2(int(target))
	candidate := newKVTable[K, V](newSize)
	// Seed the successor's live count with the table being replaced: every
	// entry live at publish time migrates via matchFromCopy, which
	// deliberately skips the size update (it is not a net new live entry
	// from the successor's point of view). Without this seed Len() would
	// undercount by exactly the number of migrated-only entries.
	candidate.chm.size.Store(sz)

	if table.chm.newkvs.CompareAndSwap(nil, candidate) {
		m.logger().Debug("resize triggered", "old_size", old, "new_size", newSize, "live", sz)
		m.collector().RecordResize(old, newSize)
		m.metrics.RecordResize(old, newSize)
		return candidate
	}
	// Lost the race to publish a successor: the candidate is simply
	// dropped, to be garbage-collected, and we adopt the winner's table.
	return table.chm.newkvs.Load()
}

// helpCopyImpl claims bounded chunks of oldTable's index space and copies
// each claimed slot, entering panic mode once the claim cursor has
// advanced past 2*oldLen.
func (m *Map[K, V]) helpCopyImpl(oldTable *kvTable[K, V], copyAll bool) {
	if !oldTable.chm.hasNewTable() {
		return
	}
	oldLen := oldTable.size()
	minCopyWork := oldLen
	if minCopyWork > copyChunk {
		minCopyWork = copyChunk
	}

	panicMode := false
	var copyIdx int64

	for oldTable.chm.copyDone.Load() < int64(oldLen) {
		if !panicMode {
			copyIdx = oldTable.chm.copyIdx.Load()
			for copyIdx < int64(oldLen)*2 {
				if oldTable.chm.copyIdx.CompareAndSwap(copyIdx, copyIdx+int64(minCopyWork)) {
					break
				}
				copyIdx = oldTable.chm.copyIdx.Load()
			}
			if copyIdx >= int64(oldLen)*2 {
				panicMode = true
				m.logger().Warn("copy panic mode entered", "old_size", oldLen)
				m.collector().RecordPanicMode(oldLen)
				m.metrics.RecordPanicMode(oldLen)
			}
		}

		for i := 0; i < minCopyWork; i++ {
			slot := int((copyIdx + int64(i)) & int64(oldLen-1))
			m.copySlotAndCheck(oldTable, slot, false)
		}
		copyIdx += int64(minCopyWork)

		if !copyAll && !panicMode {
			return
		}
	}
}

// copySlotAndCheck copies a single slot (if not already copied),
// promotes the table if that was the last slot, optionally assists with
// a bounded slice of the rest of the copy, and returns the successor
// table to retry the caller's operation on.
func (m *Map[K, V]) copySlotAndCheck(oldTable *kvTable[K, V], idx int, shouldHelp bool) *kvTable[K, V] {
	if oldTable.chm.newkvs.Load() == nil {
		panic("nbhashmap: copySlotAndCheck called without a successor table")
	}
	if m.copySlot(oldTable, idx) {
		m.copyCheckAndPromote(oldTable, 1)
		m.collector().RecordCopySlot()
		m.metrics.RecordCopySlot()
	}
	if shouldHelp {
		m.helpCopyImpl(oldTable, false)
	}
	return oldTable.chm.newkvs.Load()
}

// copyCheckAndPromote promotes oldTable's successor to current once every
// slot has been copied.
func (m *Map[K, V]) copyCheckAndPromote(oldTable *kvTable[K, V], workDone int) {
	if workDone == 0 {
		return
	}
	oldLen := oldTable.size()
	done := oldTable.chm.copyDone.Add(int64(workDone))
	if done < int64(oldLen) {
		return
	}

	newTable := oldTable.chm.newkvs.Load()
	if m.current.CompareAndSwap(oldTable, newTable) {
		m.lastResize.Store(m.timeProvider.Now())
		m.logger().Info("table promoted", "old_size", oldLen, "new_size", newTable.size())
		m.collector().RecordPromotion(oldLen, newTable.size())
	}
}

// copySlot drives the per-slot migration state machine for index idx of
// oldTable into its successor. Returns true exactly when
// this goroutine's own compare-and-swap is the one that drove the slot
// to its terminal state (avoiding double-counting copyDone when two
// goroutines race on the same slot).
func (m *Map[K, V]) copySlot(oldTable *kvTable[K, V], idx int) bool {
	key := oldTable.keyAt(idx)
	for key.isEmpty() {
		if oldTable.keys[idx].CompareAndSwap(nil, oldTable.tombstoneKey) {
			return true
		}
		key = oldTable.keyAt(idx)
	}
	if key.isTombstone() {
		return false
	}

	oldValue := oldTable.valueAt(idx)
	for !oldValue.isPrimed() {
		var target *valueCell[V]
		if oldValue.isEmpty() || oldValue.isTombstone() {
			target = newTombPrimeValue[V]()
		} else {
			target = oldValue.prime()
		}
		if oldTable.values[idx].CompareAndSwap(oldValue, target) {
			if target.isTombPrime() {
				return true
			}
			oldValue = target
			break
		}
		oldValue = oldTable.valueAt(idx)
	}

	if oldValue.isTombPrime() {
		return false
	}

	newTable := oldTable.chm.newkvs.Load()
	cleanValue := oldValue.unprime()
	m.putIfMatch(newTable, key.key, cleanValue, matchFromCopy, nil)

	for {
		current := oldTable.valueAt(idx)
		if current.isTombPrime() {
			return false
		}
		if oldTable.values[idx].CompareAndSwap(current, newTombPrimeValue[V]()) {
			return true
		}
	}
}

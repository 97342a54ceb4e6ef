// slot_test.go: unit tests for the key-cell/value-cell state machines
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package nbhashmap

import "testing"

func TestKeyCell_States(t *testing.T) {
	var empty *keyCell[string]
	if !empty.isEmpty() {
		t.Error("nil *keyCell should be EMPTY")
	}

	tomb := &keyCell[string]{state: keyStateTombstone}
	if empty.isTombstone() || !tomb.isTombstone() {
		t.Error("tombstone state mismatch")
	}

	present := newPresentKey("hello")
	if !present.isPresent() || present.key != "hello" {
		t.Error("newPresentKey should produce a PRESENT cell carrying the key")
	}
	if present.isEmpty() || present.isTombstone() {
		t.Error("a present key cell must not also report empty or tombstone")
	}
}

func TestSameKey(t *testing.T) {
	a := newPresentKey(42)
	b := newPresentKey(42)
	c := newPresentKey(43)

	if !sameKey(a, true, a) {
		t.Error("a key cell must be sameKey as itself (pointer identity)")
	}
	if !sameKey(a, true, b) {
		t.Error("two distinct cells with equal keys and matching hashes should compare equal")
	}
	if sameKey(a, false, b) {
		t.Error("sameKey must not fall back to value comparison when hashesEqual is false")
	}
	if sameKey(a, true, c) {
		t.Error("distinct keys must never compare equal")
	}

	var nilCell *keyCell[int]
	if sameKey(a, true, nilCell) || sameKey(nilCell, true, a) {
		t.Error("sameKey against a nil cell must be false")
	}
	if !sameKey(nilCell, true, nilCell) {
		t.Error("two nil pointers are pointer-identical and thus sameKey")
	}

	tomb := &keyCell[int]{state: keyStateTombstone}
	if sameKey(tomb, true, b) {
		t.Error("a tombstone cell must never be sameKey as a present one")
	}
}

func TestValueCell_States(t *testing.T) {
	var empty *valueCell[int]
	if !empty.isEmpty() {
		t.Error("nil *valueCell should be EMPTY_V")
	}

	tomb := newTombstoneValue[int]()
	if !tomb.isTombstone() || tomb.isPrimed() {
		t.Error("newTombstoneValue should be an unprimed tombstone")
	}

	tombprime := newTombPrimeValue[int]()
	if !tombprime.isTombPrime() || !tombprime.isPrimed() || !tombprime.isTombstone() {
		t.Error("newTombPrimeValue should be a primed tombstone (TOMBPRIME)")
	}

	present := newPresentValue(7)
	if !present.isPresent() || present.value != 7 {
		t.Error("newPresentValue should carry the installed value")
	}
}

func TestValueCell_PrimeUnprime(t *testing.T) {
	v := newPresentValue("x")
	primed := v.prime()
	if !primed.isPrimed() || primed.value != "x" || !primed.isPresent() {
		t.Error("prime() should preserve state/value and set the primed bit")
	}

	unprimed := primed.unprime()
	if unprimed.isPrimed() || unprimed.value != "x" {
		t.Error("unprime() should strip the primed bit and preserve the value")
	}
}

func TestValueCell_PrimeAlreadyPrimedPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("priming an already-primed value should panic")
		}
	}()
	v := newPresentValue(1).prime()
	v.prime()
}

func TestValueCell_UnprimeNonPrimedPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("unpriming a non-primed value should panic")
		}
	}()
	newPresentValue(1).unprime()
}

func TestValueCell_PrimeNilBecomesTombPrime(t *testing.T) {
	var empty *valueCell[int]
	result := empty.prime()
	if !result.isTombPrime() {
		t.Error("priming a nil (EMPTY_V) cell should produce TOMBPRIME")
	}
}

func TestEqualValue(t *testing.T) {
	if !equalValue[int](nil, newTombstoneValue[int]()) {
		t.Error("EMPTY_V and TOMBSTONE_V must compare equal (both 'not present')")
	}
	if !equalValue(newPresentValue(5), newPresentValue(5)) {
		t.Error("equal present values should compare equal")
	}
	if equalValue(newPresentValue(5), newPresentValue(6)) {
		t.Error("distinct present values must not compare equal")
	}
	if equalValue(newPresentValue(5), newTombstoneValue[int]()) {
		t.Error("a present value must never equal an absent one")
	}
}

func TestFormatValue(t *testing.T) {
	cases := []struct {
		cell *valueCell[int]
		want string
	}{
		{nil, "EMPTY"},
		{newTombstoneValue[int](), "TOMBSTONE"},
		{newTombPrimeValue[int](), "TOMBPRIME"},
		{newPresentValue(5).prime(), "Prime(5)"},
		{newPresentValue(5), "5"},
	}
	for _, c := range cases {
		if got := formatValue(c.cell); got != c.want {
			t.Errorf("formatValue(%+v) = %q, want %q", c.cell, got, c.want)
		}
	}
}

func TestFormatKey(t *testing.T) {
	if got := formatKey[string](nil); got != "EMPTY" {
		t.Errorf("formatKey(nil) = %q, want EMPTY", got)
	}
	if got := formatKey(&keyCell[string]{state: keyStateTombstone}); got != "TOMBSTONE" {
		t.Errorf("formatKey(tombstone) = %q, want TOMBSTONE", got)
	}
	if got := formatKey(newPresentKey("hi")); got != "hi" {
		t.Errorf("formatKey(present) = %q, want hi", got)
	}
}

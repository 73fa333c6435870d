// Tests for bitvec.go

package coopsched_internal

import (
	"testing"
)

func TestBitVecSingleBits(t *testing.T) {
	bv := NewBitVec(19)
	if got := bv.Len(); got != 19 {
		t.Fatalf("Len(): want 19, got %d", got)
	}

	for _, i := range []int{0, 7, 8, 18} {
		bv.SetBit(i)
		if !bv.TestBit(i) {
			t.Errorf("TestBit(%d) after SetBit: want true, got false", i)
		}
	}
	if got := bv.CountOnes(); got != 4 {
		t.Fatalf("CountOnes(): want 4, got %d", got)
	}

	bv.ClearBit(7)
	if bv.TestBit(7) {
		t.Error("TestBit(7) after ClearBit: want false, got true")
	}

	bv.ToggleBit(7)
	bv.ToggleBit(0)
	if !bv.TestBit(7) || bv.TestBit(0) {
		t.Error("ToggleBit: unexpected state")
	}

	// Out of range positions are no-ops that read as false:
	bv.SetBit(-1)
	bv.SetBit(19)
	if bv.TestBit(-1) || bv.TestBit(19) {
		t.Error("TestBit out of range: want false")
	}
	if got := bv.CountOnes(); got != 3 {
		t.Fatalf("CountOnes() after out of range ops: want 3, got %d", got)
	}
}

func TestBitVecWholeVector(t *testing.T) {
	for _, length := range []int{0, 1, 8, 9, 19, 64} {
		bv := NewBitVec(length)

		if !bv.IsAllZeros() {
			t.Errorf("len %d: fresh vector not all zeros", length)
		}

		bv.SetAll()
		if got := bv.CountOnes(); got != length {
			t.Errorf("len %d: CountOnes() after SetAll(): want %d, got %d", length, length, got)
		}
		if got := bv.CountZeros(); got != 0 {
			t.Errorf("len %d: CountZeros() after SetAll(): want 0, got %d", length, got)
		}
		if length > 0 && !bv.IsAllOnes() {
			t.Errorf("len %d: IsAllOnes() after SetAll(): want true", length)
		}

		bv.ToggleAll()
		if !bv.IsAllZeros() {
			t.Errorf("len %d: IsAllZeros() after SetAll+ToggleAll: want true", length)
		}

		bv.SetBit(0)
		bv.ClearAll()
		if !bv.IsAllZeros() {
			t.Errorf("len %d: IsAllZeros() after ClearAll(): want true", length)
		}
	}
}

func TestBitVecCountZeros(t *testing.T) {
	bv := NewBitVec(13)
	bv.SetBit(2)
	bv.SetBit(9)
	if got := bv.CountZeros(); got != 11 {
		t.Fatalf("CountZeros(): want 11, got %d", got)
	}
}

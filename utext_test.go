// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package utext

import (
	"errors"
	"testing"
)

// Scenario 1 (spec §8): UTF-16 surrogate repair.
func TestUTF16SurrogateRepair(t *testing.T) {
	buf := []uint16{0xD83B, 0xDE00, 0x0041}
	v, err := OpenUTF16(buf, len(buf), false)
	if err != nil {
		t.Fatalf("OpenUTF16: %v", err)
	}

	v.SetNativeIndex(1)
	if got := v.NativeIndex(); got != 0 {
		t.Fatalf("SetNativeIndex(1) then NativeIndex = %d, want 0", got)
	}

	v.SetNativeIndex(0)
	r, ok := v.Next32()
	if !ok || r != 0x1EE00 {
		t.Fatalf("Next32 = %#x, %v, want 0x1ee00, true", r, ok)
	}
	r, ok = v.Next32()
	if !ok || r != 0x41 {
		t.Fatalf("Next32 = %#x, %v, want 0x41, true", r, ok)
	}
}

// Scenario 2 (spec §8): UTF-8 non-ASCII iteration.
func TestUTF8NonASCIIIteration(t *testing.T) {
	buf := []byte{0xC8, 0x81, 0xE1, 0x82, 0x83, 0xF1, 0x84, 0x85, 0x86}
	v, err := OpenUTF8(buf, len(buf), false)
	if err != nil {
		t.Fatalf("OpenUTF8: %v", err)
	}

	wantScalars := []rune{0x201, 0x1083, 0x44146}
	wantIndex := []int64{2, 5, 9}
	for i, want := range wantScalars {
		r, ok := v.Next32()
		if !ok || r != want {
			t.Fatalf("Next32 #%d = %#x, %v, want %#x, true", i, r, ok, want)
		}
		if got := v.NativeIndex(); got != wantIndex[i] {
			t.Fatalf("NativeIndex after step %d = %d, want %d", i, got, wantIndex[i])
		}
	}

	v.SetNativeIndex(3)
	if got := v.NativeIndex(); got != 2 {
		t.Fatalf("SetNativeIndex(3) snapped to %d, want 2", got)
	}
}

// Scenario 3 (spec §8): UTF-32 chunk boundary.
func TestUTF32ChunkBoundary(t *testing.T) {
	buf := make([]rune, 34)
	for i := range buf {
		buf[i] = rune('a' + i%26)
	}
	buf[32] = 0x11000

	v, err := OpenUTF32(buf, len(buf), false)
	if err != nil {
		t.Fatalf("OpenUTF32: %v", err)
	}

	r, ok := v.CharAt(32)
	if !ok || r != 0x11000 {
		t.Fatalf("CharAt(32) = %#x, %v, want 0x11000, true", r, ok)
	}
	if got := v.NativeIndex(); got != 32 {
		t.Fatalf("NativeIndex after CharAt(32) = %d, want 32", got)
	}

	r, ok = v.Next32()
	if !ok || r != buf[32] {
		t.Fatalf("Next32 = %#x, %v, want %#x, true", r, ok, buf[32])
	}
	if got := v.NativeIndex(); got != 33 {
		t.Fatalf("NativeIndex after Next32 = %d, want 33", got)
	}
}

// Scenario 4 (spec §8): replace shrink.
func TestReplaceShrink(t *testing.T) {
	buf := make([]uint16, 16)
	content := []uint16{'A', 'B', 'C', 'D', 'E', 'F', 'G', 'H', 'I'}
	copy(buf, content)
	v, err := OpenUTF16(buf, len(content), true)
	if err != nil {
		t.Fatalf("OpenUTF16: %v", err)
	}

	delta, err := v.Replace(3, 6, []uint16{'X'})
	if err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if delta != -2 {
		t.Fatalf("Replace delta = %d, want -2", delta)
	}
	if got := v.NativeLength(); got != 7 {
		t.Fatalf("NativeLength = %d, want 7", got)
	}

	want := "ABCXGHI"
	dst := make([]uint16, 7)
	if _, err := v.Extract(0, 7, dst); err != nil && !errors.Is(err, ErrStringNotTerminated) {
		t.Fatalf("Extract: %v", err)
	}
	for i, c := range want {
		if dst[i] != uint16(c) {
			t.Fatalf("content[%d] = %c, want %c", i, dst[i], c)
		}
	}

	if got := v.NativeIndex(); got != 4 {
		t.Fatalf("cursor after Replace = %d, want 4", got)
	}
}

// Scenario 5 (spec §8): replace grow beyond capacity.
func TestReplaceGrowBeyondCapacity(t *testing.T) {
	buf := make([]byte, 8)
	copy(buf, "hello")
	v, err := OpenUTF8(buf, 5, true)
	if err != nil {
		t.Fatalf("OpenUTF8: %v", err)
	}

	_, err = v.Replace(5, 5, []uint16{' ', 'w', 'o', 'r', 'l', 'd'})
	if !errors.Is(err, ErrBufferOverflow) {
		t.Fatalf("Replace err = %v, want ErrBufferOverflow", err)
	}
	if string(buf[:5]) != "hello" {
		t.Fatalf("backing mutated on overflow: %q", buf[:5])
	}
}

// Scenario 6 (spec §8): copy overlap rejection.
func TestCopyOverlapRejection(t *testing.T) {
	buf := make([]uint16, 16)
	content := []uint16{'A', 'B', 'C', 'D', 'E', 'F', 'G', 'H'}
	copy(buf, content)
	v, err := OpenUTF16(buf, len(content), true)
	if err != nil {
		t.Fatalf("OpenUTF16: %v", err)
	}

	if err := v.Copy(2, 6, 4, false); !errors.Is(err, ErrIndexOutOfBounds) {
		t.Fatalf("Copy err = %v, want ErrIndexOutOfBounds", err)
	}
	for i, c := range content {
		if buf[i] != c {
			t.Fatalf("backing mutated on overlap rejection at %d: got %c want %c", i, buf[i], c)
		}
	}
}

// Scenario 7 (spec §8): freeze then mutate.
func TestFreezeThenMutate(t *testing.T) {
	buf := make([]uint16, 4)
	copy(buf, []uint16{'a'})
	v, err := OpenUTF16(buf, 1, true)
	if err != nil {
		t.Fatalf("OpenUTF16: %v", err)
	}

	v.Freeze()
	if _, err := v.Replace(0, 0, []uint16{'x'}); !errors.Is(err, ErrNoWritePermission) {
		t.Fatalf("Replace after Freeze err = %v, want ErrNoWritePermission", err)
	}

	v.SetNativeIndex(0)
	if r, ok := v.Next32(); !ok || r != 'a' {
		t.Fatalf("Next32 after freeze = %#x, %v, want 'a', true", r, ok)
	}
}

// Scenario 8 (spec §8): deep clone independence.
func TestDeepCloneIndependence(t *testing.T) {
	buf := make([]uint16, 8)
	copy(buf, []uint16{'a', 'b', 'c'})
	v, err := OpenUTF16(buf, 3, true)
	if err != nil {
		t.Fatalf("OpenUTF16: %v", err)
	}

	clone, err := v.Clone(true)
	if err != nil {
		t.Fatalf("Clone: %v", err)
	}
	defer clone.Close()

	if _, err := clone.Replace(0, 3, []uint16{'x', 'y'}); err != nil {
		t.Fatalf("Replace on clone: %v", err)
	}

	if got := v.NativeLength(); got != 3 {
		t.Fatalf("source NativeLength mutated to %d, want 3", got)
	}
	dst := make([]uint16, 3)
	if _, err := v.Extract(0, 3, dst); err != nil && !errors.Is(err, ErrStringNotTerminated) {
		t.Fatalf("Extract source: %v", err)
	}
	want := []uint16{'a', 'b', 'c'}
	for i := range want {
		if dst[i] != want[i] {
			t.Fatalf("source content[%d] = %c, want %c", i, dst[i], want[i])
		}
	}
}

// Scenario 9 (spec §8): malformed UTF-8.
func TestMalformedUTF8(t *testing.T) {
	buf := []byte{0x41, 0x81, 0x42, 0xF0, 0x81, 0x81, 0x43}
	v, err := OpenUTF8(buf, len(buf), false)
	if err != nil {
		t.Fatalf("OpenUTF8: %v", err)
	}

	want := []rune{0x41, 0xFFFD, 0x42, 0xFFFD, 0xFFFD, 0xFFFD, 0x43}
	for i, w := range want {
		r, ok := v.Next32()
		if !ok || r != w {
			t.Fatalf("Next32 #%d = %#x, %v, want %#x, true", i, r, ok, w)
		}
	}
	if _, ok := v.Next32(); ok {
		t.Fatalf("Next32 past end should report false")
	}
}

// TestCurrent32RestoresActiveBuffer covers the Open Question on current32's
// forward-then-reverse access when straddling a chunk boundary (spec §9):
// after current32 runs that dance, a subsequent next32 must still advance
// correctly rather than observing a chunk left moved.
func TestCurrent32RestoresActiveBuffer(t *testing.T) {
	buf := make([]uint16, 80)
	for i := range buf {
		buf[i] = uint16('a' + i%26)
	}
	buf[63] = 0xD800 // Unpaired lead surrogate on the last unit of the first chunk [0,64).
	v, err := OpenUTF16(buf, len(buf), false)
	if err != nil {
		t.Fatalf("OpenUTF16: %v", err)
	}

	v.SetNativeIndex(63) // Forces Current32 to straddle the chunk edge at 64.
	r, ok := v.Current32()
	if !ok || r != rune(buf[63]) {
		t.Fatalf("Current32 = %#x, %v, want %#x, true", r, ok, buf[63])
	}

	next, ok := v.Next32()
	if !ok || next != rune(buf[63]) {
		t.Fatalf("Next32 after Current32 = %#x, %v, want %#x, true", next, ok, buf[63])
	}
	next, ok = v.Next32()
	if !ok || next != rune(buf[64]) {
		t.Fatalf("Next32 = %#x, %v, want %#x, true", next, ok, buf[64])
	}
}

func TestRoundTripIteration(t *testing.T) {
	content := []uint16{'h', 'e', 'l', 'l', 'o'}
	v, err := OpenUTF16(content, len(content), false)
	if err != nil {
		t.Fatalf("OpenUTF16: %v", err)
	}
	var got []rune
	for {
		r, ok := v.Next32()
		if !ok {
			break
		}
		got = append(got, r)
	}
	if len(got) != len(content) {
		t.Fatalf("got %d scalars, want %d", len(got), len(content))
	}
	for i, c := range content {
		if got[i] != rune(c) {
			t.Fatalf("scalar %d = %#x, want %#x", i, got[i], c)
		}
	}

	v.SetNativeIndex(v.NativeLength())
	var rev []rune
	for {
		r, ok := v.Previous32()
		if !ok {
			break
		}
		rev = append(rev, r)
	}
	if len(rev) != len(got) {
		t.Fatalf("reverse scan length %d, want %d", len(rev), len(got))
	}
	for i := range rev {
		if rev[i] != got[len(got)-1-i] {
			t.Fatalf("reverse scan mismatch at %d", i)
		}
	}
}

func TestIndexCoherenceSnapsLeft(t *testing.T) {
	buf := []uint16{0xD83B, 0xDE00, 'X'}
	v, _ := OpenUTF16(buf, len(buf), false)
	for i := int64(0); i <= v.NativeLength(); i++ {
		v.SetNativeIndex(i)
		got := v.NativeIndex()
		if got > i {
			t.Fatalf("SetNativeIndex(%d) then NativeIndex = %d, snapped right", i, got)
		}
		if i == 1 && got != 0 {
			t.Fatalf("SetNativeIndex(1) should snap to 0, got %d", got)
		}
	}
}

func TestMoveIndex32Symmetry(t *testing.T) {
	buf := []uint16{'a', 'b', 0xD83B, 0xDE00, 'c'}
	v, _ := OpenUTF16(buf, len(buf), false)
	v.SetNativeIndex(0)
	if !v.MoveIndex32(2) {
		t.Fatalf("MoveIndex32(+2) should succeed")
	}
	mid := v.NativeIndex()
	if !v.MoveIndex32(-2) {
		t.Fatalf("MoveIndex32(-2) should succeed")
	}
	if got := v.NativeIndex(); got != 0 {
		t.Fatalf("round-trip MoveIndex32 landed at %d, want 0 (mid was %d)", got, mid)
	}
}

func TestReplaceNeutrality(t *testing.T) {
	buf := make([]uint16, 8)
	copy(buf, []uint16{'a', 'b', 'c'})
	v, err := OpenUTF16(buf, 3, true)
	if err != nil {
		t.Fatalf("OpenUTF16: %v", err)
	}
	delta, err := v.Replace(1, 1, nil)
	if err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if delta != 0 {
		t.Fatalf("Replace delta = %d, want 0", delta)
	}
	dst := make([]uint16, 3)
	if _, err := v.Extract(0, 3, dst); err != nil && !errors.Is(err, ErrStringNotTerminated) {
		t.Fatalf("Extract: %v", err)
	}
	want := []uint16{'a', 'b', 'c'}
	for i := range want {
		if dst[i] != want[i] {
			t.Fatalf("content[%d] = %c, want %c", i, dst[i], want[i])
		}
	}
}

func TestCopyIdempotence(t *testing.T) {
	buf := make([]uint16, 16)
	content := []uint16{'a', 'b', 'c', 'd'}
	copy(buf, content)
	v, err := OpenUTF16(buf, len(content), true)
	if err != nil {
		t.Fatalf("OpenUTF16: %v", err)
	}
	// Duplicating [0,2) at index 0 leaves the original content intact
	// and inserts a copy of it ahead of the rest: "abcd" -> "ababcd".
	if err := v.Copy(0, 2, 0, false); err != nil {
		t.Fatalf("Copy: %v", err)
	}
	if got := v.NativeLength(); got != 6 {
		t.Fatalf("NativeLength = %d, want 6", got)
	}
	dst := make([]uint16, 6)
	if _, err := v.Extract(0, 6, dst); err != nil && !errors.Is(err, ErrStringNotTerminated) {
		t.Fatalf("Extract: %v", err)
	}
	want := []uint16{'a', 'b', 'a', 'b', 'c', 'd'}
	for i := range want {
		if dst[i] != want[i] {
			t.Fatalf("content[%d] = %c, want %c", i, dst[i], want[i])
		}
	}
}

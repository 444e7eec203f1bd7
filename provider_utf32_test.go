// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package utext

import (
	"errors"
	"testing"
)

func TestUTF32ReplaceWithSurrogatePairSource(t *testing.T) {
	buf := make([]rune, 8)
	copy(buf, []rune{'a', 'b', 'c'})
	v, err := OpenUTF32(buf, 3, true)
	if err != nil {
		t.Fatalf("OpenUTF32: %v", err)
	}
	lead, trail := uint16(0xD83D), uint16(0xDE00) // U+1F600
	delta, err := v.Replace(1, 2, []uint16{lead, trail})
	if err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if delta != 0 { // one native rune replaced by one native rune.
		t.Fatalf("delta = %d, want 0", delta)
	}
	r, ok := v.CharAt(1)
	if !ok || r != 0x1F600 {
		t.Fatalf("CharAt(1) = %#x, %v, want 0x1f600, true", r, ok)
	}
}

func TestUTF32ExtractSupplementary(t *testing.T) {
	buf := []rune{'a', 0x1F600, 'b'}
	v, err := OpenUTF32(buf, len(buf), false)
	if err != nil {
		t.Fatalf("OpenUTF32: %v", err)
	}
	dst := make([]uint16, 4)
	n, err := v.Extract(0, 3, dst)
	if err != nil && !errors.Is(err, ErrStringNotTerminated) {
		t.Fatalf("Extract: %v", err)
	}
	if n != 4 {
		t.Fatalf("Extract n = %d, want 4", n)
	}
	if dst[0] != 'a' || dst[1] != 0xD83D || dst[2] != 0xDE00 || dst[3] != 'b' {
		t.Fatalf("content = %v, want [a D83D DE00 b]", dst)
	}
}

func TestUTF32CopyDuplicate(t *testing.T) {
	buf := make([]rune, 8)
	copy(buf, []rune{'a', 'b', 'c', 'd'})
	v, err := OpenUTF32(buf, 4, true)
	if err != nil {
		t.Fatalf("OpenUTF32: %v", err)
	}
	if err := v.Copy(0, 2, 4, false); err != nil {
		t.Fatalf("Copy: %v", err)
	}
	if got := v.NativeLength(); got != 6 {
		t.Fatalf("NativeLength = %d, want 6", got)
	}
	dst := make([]uint16, 6)
	if _, err := v.Extract(0, 6, dst); err != nil && !errors.Is(err, ErrStringNotTerminated) {
		t.Fatalf("Extract: %v", err)
	}
	want := "abcdab"
	for i, c := range want {
		if dst[i] != uint16(c) {
			t.Fatalf("content[%d] = %c, want %c", i, dst[i], c)
		}
	}
}

// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mmaptext

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOpenIteratesFileContents(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "sample.txt")
	if err := os.WriteFile(name, []byte("h\xc3\xa9llo"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	f, err := Open(name)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()

	want := []rune{'h', 0xe9, 'l', 'l', 'o'}
	for i, w := range want {
		r, ok := f.Next32()
		if !ok || r != w {
			t.Fatalf("Next32 #%d = %#x, %v, want %#x, true", i, r, ok, w)
		}
	}
}

func TestOpenEmptyFile(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "empty.txt")
	if err := os.WriteFile(name, nil, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	f, err := Open(name)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()

	if got := f.NativeLength(); got != 0 {
		t.Fatalf("NativeLength = %d, want 0", got)
	}
	if _, ok := f.Next32(); ok {
		t.Fatalf("Next32 on empty file should report false")
	}
}

// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mmaptext opens a text View directly over a memory-mapped file,
// for files too large to read into a []byte up front. It reuses utext's
// UTF-8 provider wholesale: mmap.MMap already satisfies []byte, so the
// only job left here is the OS-level mapping/unmapping lifecycle, grounded
// on how dolthub-dolt's noms binary-store layer opens and closes its
// table files with the same library.
package mmaptext

import (
	"os"

	"github.com/edsrzf/mmap-go"

	"golang.org/x/utext"
)

// File is a text View over a memory-mapped, read-only UTF-8 file. Close
// unmaps the file and closes the descriptor.
type File struct {
	*utext.View
	f *os.File
	m mmap.MMap
}

// Open memory-maps name read-only and returns a View over its contents,
// treated as UTF-8 with the file's on-disk size as the exact length (the
// file is not assumed to be NUL-terminated, unlike utext.OpenUTF8 with a
// negative length).
func Open(name string) (*File, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.Size() == 0 {
		f.Close()
		v, err := utext.OpenUTF8(nil, 0, false)
		if err != nil {
			return nil, err
		}
		return &File{View: v}, nil
	}
	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, err
	}
	v, err := utext.OpenUTF8([]byte(m), len(m), false)
	if err != nil {
		m.Unmap()
		f.Close()
		return nil, err
	}
	return &File{View: v, f: f, m: m}, nil
}

// Close unmaps the file and releases the descriptor. The embedded View
// must not be used afterward.
func (mf *File) Close() error {
	var mErr, fErr error
	if mf.m != nil {
		mErr = mf.m.Unmap()
	}
	vErr := mf.View.Close()
	if mf.f != nil {
		fErr = mf.f.Close()
	}
	switch {
	case mErr != nil:
		return mErr
	case vErr != nil:
		return vErr
	default:
		return fErr
	}
}

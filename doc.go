// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package utext presents arbitrary text storage, regardless of its
// underlying encoding, as a uniform stream of Unicode scalar values
// addressable by native indices: bytes for UTF-8, code units for
// UTF-16, code points for UTF-32.
//
// A View is a random-access cursor over one such backing store. It
// supports forward and backward iteration by code point, random
// access by native index, extraction into a UTF-16 buffer, and,
// where the backing Provider supports it, in-place replace and copy
// editing. Encoding conversion and chunk buffering are hidden behind
// the Provider interface, so callers never see the backing encoding
// once a View is open.
//
// This package implements the framework (View, Provider, the
// dispatcher methods) and three reference providers: UTF-16, UTF-8
// and UTF-32 over in-memory buffers. Views are opened only through this
// package's Open* constructors; no exported function accepts a Provider
// from another package. The mmaptext package builds a memory-mapped-file
// View on top of OpenUTF8.
package utext // import "golang.org/x/utext"

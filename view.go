// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package utext

// ProviderProperties are capability/behavior flags a Provider reports
// about the backing store it wraps.
type ProviderProperties uint8

const (
	// Writable means the backing store accepts Replace/Copy edits.
	Writable ProviderProperties = 1 << iota
	// OwnsText means Close releases the backing store; otherwise the
	// backing store's lifetime is the caller's responsibility and must
	// outlive the View.
	OwnsText
	// LengthIsExpensive means NativeLength has not yet been computed
	// (the common case is a NUL-terminated buffer of unknown length);
	// the first call that needs it scans the buffer once and the
	// provider then clears this flag.
	LengthIsExpensive
	// StableChunks means chunk_contents slices returned by Access
	// remain valid for the View's lifetime. All three reference
	// providers set it at open; Replace and Copy clear it, and the
	// UTF-16 provider also clears it once its lazy NUL scan has found
	// 32 or more units.
	StableChunks
	// HasMetaData means the provider can answer queries this package
	// does not define itself (reserved for custom providers).
	HasMetaData
)

// Has reports whether all of want is set.
func (p ProviderProperties) Has(want ProviderProperties) bool { return p&want == want }

// SentinelRune is returned by the scalar dispatch methods (Next32,
// Previous32, Current32, CharAt, ...) in place of a code point when
// the operation has no code point to return: iteration has run off
// either end of the text, or the View's magic word does not match
// (an uninitialized or zero-value View).
const SentinelRune rune = -1

// chunkWindow is the cached UTF-16 decoding of a native-index range of
// the backing store, plus the cursor within it. See the invariants in
// spec.md §3.
type chunkWindow struct {
	contents             []uint16
	nativeStart          int64
	nativeLimit          int64
	offset               int
	nativeIndexingLimit  int
}

func (c *chunkWindow) length() int { return len(c.contents) }

// reset clears the chunk to the empty, unpositioned state. Used after
// edits, which invalidate any cached chunk.
func (c *chunkWindow) reset() {
	c.contents = nil
	c.nativeStart = 0
	c.nativeLimit = 0
	c.offset = 0
	c.nativeIndexingLimit = 0
}

const viewMagic uint32 = 0x75746678 // ASCII-ish "utfx"; distinguishes an Open-initialized View from a zero-value one.

// View is a random-access, polymorphic cursor over a backing text
// store. It is the sole handle clients hold; all operations are
// methods on *View, dispatched through the embedded Provider. The
// zero value is not a valid View — use one of the Open* constructors.
type View struct {
	magic      uint32
	provider   Provider
	chunk      chunkWindow
	properties ProviderProperties
}

// valid reports whether v has been initialized by an Open* constructor
// and has not already been closed.
func (v *View) valid() bool {
	return v != nil && v.magic == viewMagic && v.provider != nil
}

// IsWritable reports whether mutating operations (Replace, Copy) are
// permitted on v.
func (v *View) IsWritable() bool {
	return v.valid() && v.properties.Has(Writable)
}

// NativeLength returns the total number of native units in the
// backing store. For NUL-terminated buffers of unknown length this
// scans the buffer once and caches the result.
func (v *View) NativeLength() int64 {
	if !v.valid() {
		return -1
	}
	return v.provider.NativeLength(v)
}

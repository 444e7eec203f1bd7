// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package utext

// Provider is the seam between the encoding-agnostic framework
// (dispatch.go, clone.go) and an encoding-specific backing store. Three
// reference implementations live in this package (provider_utf16.go,
// provider_utf8.go, provider_utf32.go). A Provider is attached to a View
// only by this package's Open* constructors, and its methods work on the
// View's unexported chunk fields, so other packages cannot supply their
// own; mmaptext, for example, reuses the UTF-8 provider through OpenUTF8.
//
// Replace and Copy are optional: a Provider that does not implement
// Replacer/Copier is read-only, and View.Replace/View.Copy report
// ErrNoWritePermission for it rather than requiring a no-op stub.
type Provider interface {
	// NativeLength returns the total size of the backing store in
	// native units. Implementations backed by a NUL-terminated buffer
	// of unknown length must scan for the terminator the first time
	// this is called.
	NativeLength(v *View) int64

	// Access repositions v's chunk window so that it spans the side of
	// nativeIndex indicated by forward, refilling v.chunk as needed. It
	// reports whether any data exists on that side (false at either end
	// of the text). Access never fails fatally; out-of-range indices
	// are pinned to the nearest valid chunk.
	Access(v *View, nativeIndex int64, forward bool) bool

	// Extract copies the transcoded UTF-16 form of [start, limit) into
	// dst and returns the full transcoded length (which may exceed
	// len(dst)). If dst is too small to hold the result, it returns
	// ErrBufferOverflow; if it holds the
	// result exactly but has no room for a trailing NUL, it returns
	// ErrStringNotTerminated (a warning — the returned length is still
	// correct).
	Extract(v *View, start, limit int64, dst []uint16) (int, error)

	// MapOffsetToNative returns the native index of v's cursor when
	// v.chunk.offset exceeds v.chunk.nativeIndexingLimit (i.e. direct
	// arithmetic is not valid).
	MapOffsetToNative(v *View) int64

	// MapNativeToUTF16 returns the chunk offset corresponding to a
	// native index inside the current chunk.
	MapNativeToUTF16(v *View, native int64) int

	// Clone returns an independent Provider: its own chunk-cache state
	// never aliases the receiver's, so the clone's cache misses cannot
	// corrupt the source (see DESIGN.md's note on component G). If
	// deep is true, the backing store itself is copied too (and
	// View.CloneInto sets OwnsText on the new View); otherwise the
	// backing store is shared.
	Clone(v *View, deep bool) (Provider, error)

	// Close releases provider-private state and, if the View has
	// OwnsText set, the backing store.
	Close(v *View) error
}

// Replacer is implemented by providers whose backing store supports
// in-place replacement.
type Replacer interface {
	// Replace substitutes the native range [start, limit) with src and
	// returns the length delta in native units. It resets v's chunk
	// cache. Implementations reject src slices that alias the backing
	// buffer with ErrIllegalArgument.
	Replace(v *View, start, limit int64, src []uint16) (int64, error)
}

// Copier is implemented by providers whose backing store supports
// in-place copy/move of a native range.
type Copier interface {
	// Copy duplicates (move=false) or relocates (move=true) the native
	// range [start, limit) to dest. It resets v's chunk cache.
	// Overlapping source/destination ranges are rejected with
	// ErrIndexOutOfBounds.
	Copy(v *View, start, limit, dest int64, move bool) error
}

// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package utext

// This file is a direct transliteration of utext.cpp's encoding-agnostic
// dispatcher functions (utext_next32, utext_previous32, utext_current32,
// utext_char32At, utext_next32From, utext_previous32From,
// utext_setNativeIndex, utext_getNativeIndex, utext_getPreviousNativeIndex,
// utext_moveIndex32) onto *View methods. The boundary-fixup logic —
// surrogate repair, the four set-index regimes, the fast/slow-path
// equivalence for PreviousNativeIndex — is ported branch for branch; see
// DESIGN.md's entry for component C.

func isLeadSurrogate(u uint16) bool  { return u >= 0xD800 && u <= 0xDBFF }
func isTrailSurrogate(u uint16) bool { return u >= 0xDC00 && u <= 0xDFFF }
func isSurrogateUnit(u uint16) bool  { return u >= 0xD800 && u <= 0xDFFF }

// NativeIndex returns the native index of v's current cursor position.
func (v *View) NativeIndex() int64 {
	if !v.valid() {
		return -1
	}
	if v.chunk.offset <= v.chunk.nativeIndexingLimit {
		return v.chunk.nativeStart + int64(v.chunk.offset)
	}
	return v.provider.MapOffsetToNative(v)
}

// SetNativeIndex repositions v's cursor to native. If native lands in the
// middle of a surrogate pair, the cursor snaps left to the start of that
// pair (invariant 5 in spec.md §3).
func (v *View) SetNativeIndex(native int64) {
	if !v.valid() {
		return
	}
	haveAccess := true
	switch {
	case native < v.chunk.nativeStart || native >= v.chunk.nativeLimit:
		haveAccess = v.provider.Access(v, native, true)
	case int(native-v.chunk.nativeStart) <= v.chunk.nativeIndexingLimit:
		v.chunk.offset = int(native - v.chunk.nativeStart)
	default:
		v.chunk.offset = v.provider.MapNativeToUTF16(v, native)
	}
	if !haveAccess {
		return
	}
	if v.chunk.offset >= v.chunk.length() {
		return
	}
	c := v.chunk.contents[v.chunk.offset]
	if !isTrailSurrogate(c) {
		return
	}
	if v.chunk.offset == 0 {
		haveAccess = v.provider.Access(v, v.chunk.nativeStart, false)
	}
	if haveAccess && v.chunk.offset > 0 {
		if isLeadSurrogate(v.chunk.contents[v.chunk.offset-1]) {
			v.chunk.offset--
		}
	}
}

// PreviousNativeIndex returns the native index of the code point
// preceding the cursor, without moving it.
func (v *View) PreviousNativeIndex() int64 {
	if !v.valid() {
		return 0
	}
	i := v.chunk.offset - 1
	var c uint16
	haveFastPath := false
	if i >= 0 {
		c = v.chunk.contents[i]
		if !isTrailSurrogate(c) {
			haveFastPath = true
			if i <= v.chunk.nativeIndexingLimit {
				return v.chunk.nativeStart + int64(i)
			}
			v.chunk.offset = i
			nativeIndex := v.provider.MapOffsetToNative(v)
			v.chunk.offset++
			return nativeIndex
		}
	}
	if haveFastPath {
		return v.chunk.nativeStart + int64(i)
	}
	if v.chunk.offset == 0 && v.chunk.nativeStart == 0 {
		return 0
	}
	v.Previous32()
	nativeIndex := v.NativeIndex()
	v.Next32()
	return nativeIndex
}

// MoveIndex32 steps the cursor by delta code points (negative steps
// backward). It reports whether the full delta was achieved; if an end
// of text is hit partway through, the cursor is left pinned there and
// MoveIndex32 returns false.
func (v *View) MoveIndex32(delta int) bool {
	if !v.valid() {
		return false
	}
	for delta > 0 {
		if v.chunk.offset >= v.chunk.length() && !v.provider.Access(v, v.chunk.nativeLimit, true) {
			return false
		}
		c := v.chunk.contents[v.chunk.offset]
		if isSurrogateUnit(c) {
			if _, ok := v.Next32(); !ok {
				return false
			}
		} else {
			v.chunk.offset++
		}
		delta--
	}
	for delta < 0 {
		if v.chunk.offset <= 0 && !v.provider.Access(v, v.chunk.nativeStart, false) {
			return false
		}
		c := v.chunk.contents[v.chunk.offset-1]
		if isSurrogateUnit(c) {
			if _, ok := v.Previous32(); !ok {
				return false
			}
		} else {
			v.chunk.offset--
		}
		delta++
	}
	return true
}

// Current32 returns the code point at the cursor without advancing it.
func (v *View) Current32() (rune, bool) {
	if !v.valid() {
		return SentinelRune, false
	}
	haveAccess := true
	if v.chunk.offset == v.chunk.length() {
		haveAccess = v.provider.Access(v, v.chunk.nativeLimit, true)
	}
	if !haveAccess {
		return SentinelRune, false
	}
	c := v.chunk.contents[v.chunk.offset]
	if !isLeadSurrogate(c) {
		return rune(c), true
	}
	var trail uint16
	if v.chunk.offset+1 < v.chunk.length() {
		trail = v.chunk.contents[v.chunk.offset+1]
	} else {
		nativePosition := v.chunk.nativeLimit
		if v.provider.Access(v, nativePosition, true) {
			trail = v.chunk.contents[v.chunk.offset]
		}
		// The backward access leaves the cursor at nativePosition, in
		// whichever chunk it loaded; the lead surrogate is the unit just
		// before it.
		haveAccess = v.provider.Access(v, nativePosition, false)
		if !haveAccess {
			return SentinelRune, false
		}
		v.chunk.offset--
	}
	if isTrailSurrogate(trail) {
		return combineSurrogates(c, trail), true
	}
	return rune(c), true
}

// Next32 returns the code point at the cursor and advances past it.
func (v *View) Next32() (rune, bool) {
	if !v.valid() {
		return SentinelRune, false
	}
	haveAccess := true
	if v.chunk.offset >= v.chunk.length() {
		haveAccess = v.provider.Access(v, v.chunk.nativeLimit, true)
	}
	if !haveAccess {
		return SentinelRune, false
	}
	c := v.chunk.contents[v.chunk.offset]
	v.chunk.offset++
	if !isLeadSurrogate(c) {
		return rune(c), true
	}
	if v.chunk.offset >= v.chunk.length() {
		haveAccess = v.provider.Access(v, v.chunk.nativeLimit, true)
	}
	if !haveAccess {
		// Unpaired lead surrogate at the end of the text.
		return rune(c), true
	}
	trail := v.chunk.contents[v.chunk.offset]
	if isTrailSurrogate(trail) {
		v.chunk.offset++
		return combineSurrogates(c, trail), true
	}
	return rune(c), true
}

// Previous32 steps the cursor back and returns the code point it now
// points at.
func (v *View) Previous32() (rune, bool) {
	if !v.valid() {
		return SentinelRune, false
	}
	haveAccess := true
	if v.chunk.offset <= 0 {
		haveAccess = v.provider.Access(v, v.chunk.nativeStart, false)
	}
	if !haveAccess {
		return SentinelRune, false
	}
	v.chunk.offset--
	c := v.chunk.contents[v.chunk.offset]
	if !isTrailSurrogate(c) {
		return rune(c), true
	}
	if v.chunk.offset <= 0 {
		haveAccess = v.provider.Access(v, v.chunk.nativeStart, false)
	}
	if !haveAccess {
		// Unpaired trail surrogate at the start of the text.
		return rune(c), true
	}
	lead := v.chunk.contents[v.chunk.offset-1]
	if isLeadSurrogate(lead) {
		v.chunk.offset--
		return combineSurrogates(lead, c), true
	}
	return rune(c), true
}

// Next32From jumps the cursor to native and steps one code point forward,
// returning the code point that was skipped over.
func (v *View) Next32From(native int64) (rune, bool) {
	if !v.valid() {
		return SentinelRune, false
	}
	haveAccess := true
	switch {
	case native < v.chunk.nativeStart || native >= v.chunk.nativeLimit:
		haveAccess = v.provider.Access(v, native, true)
	case int(native-v.chunk.nativeStart) <= v.chunk.nativeIndexingLimit:
		v.chunk.offset = int(native - v.chunk.nativeStart)
	default:
		v.chunk.offset = v.provider.MapNativeToUTF16(v, native)
	}
	if !haveAccess {
		return SentinelRune, false
	}
	c := v.chunk.contents[v.chunk.offset]
	v.chunk.offset++
	if isSurrogateUnit(c) {
		v.SetNativeIndex(native)
		return v.Next32()
	}
	return rune(c), true
}

// Previous32From jumps the cursor to native and returns the code point
// preceding it, leaving the cursor at the start of that code point.
func (v *View) Previous32From(native int64) (rune, bool) {
	if !v.valid() {
		return SentinelRune, false
	}
	haveAccess := true
	switch {
	case native <= v.chunk.nativeStart || native > v.chunk.nativeLimit:
		haveAccess = v.provider.Access(v, native, false)
	case int(native-v.chunk.nativeStart) <= v.chunk.nativeIndexingLimit:
		v.chunk.offset = int(native - v.chunk.nativeStart)
	default:
		v.chunk.offset = v.provider.MapNativeToUTF16(v, native)
		if v.chunk.offset == 0 {
			haveAccess = v.provider.Access(v, native, false)
		}
	}
	if !haveAccess || v.chunk.offset <= 0 {
		return SentinelRune, false
	}
	v.chunk.offset--
	c := v.chunk.contents[v.chunk.offset]
	if isSurrogateUnit(c) {
		v.SetNativeIndex(native)
		return v.Previous32()
	}
	return rune(c), true
}

// CharAt returns the code point whose native start index is the greatest
// start index <= native.
func (v *View) CharAt(native int64) (rune, bool) {
	if !v.valid() {
		return SentinelRune, false
	}
	var c uint16
	inChunk := native >= v.chunk.nativeStart && native < v.chunk.nativeStart+int64(v.chunk.nativeIndexingLimit)
	if inChunk {
		v.chunk.offset = int(native - v.chunk.nativeStart)
		c = v.chunk.contents[v.chunk.offset]
	}
	if !inChunk || isSurrogateUnit(c) {
		v.SetNativeIndex(native)
		if native >= v.chunk.nativeStart && v.chunk.offset < v.chunk.length() {
			c = v.chunk.contents[v.chunk.offset]
			if isSurrogateUnit(c) {
				return v.Current32()
			}
			return rune(c), true
		}
		return SentinelRune, false
	}
	return rune(c), true
}

func combineSurrogates(lead, trail uint16) rune {
	return rune(0x10000 + (int32(lead)-0xD800)<<10 + (int32(trail) - 0xDC00))
}

// Extract copies the UTF-16 transcoding of the native range [start, limit)
// into dst and returns the full transcoded length, which may exceed
// len(dst). See Provider.Extract.
func (v *View) Extract(start, limit int64, dst []uint16) (int, error) {
	if !v.valid() {
		return 0, ErrIllegalArgument
	}
	if start > limit {
		return 0, ErrIllegalArgument
	}
	return v.provider.Extract(v, start, limit, dst)
}

// Replace substitutes the native range [start, limit) with src and
// returns the length delta in native units. It fails with
// ErrNoWritePermission if v is not writable, or if the backing Provider
// does not implement Replacer.
func (v *View) Replace(start, limit int64, src []uint16) (int64, error) {
	if !v.valid() {
		return 0, ErrIllegalArgument
	}
	if !v.properties.Has(Writable) {
		return 0, ErrNoWritePermission
	}
	r, ok := v.provider.(Replacer)
	if !ok {
		return 0, ErrNoWritePermission
	}
	if start > limit {
		return 0, ErrIndexOutOfBounds
	}
	// Replace is responsible for resetting/resyncing v.chunk itself (it
	// knows the post-edit cursor position the original repositions to);
	// see provider_utf16.go's Replace for the pattern every provider
	// follows.
	return r.Replace(v, start, limit, src)
}

// Copy duplicates (move=false) or relocates (move=true) the native range
// [start, limit) to dest.
func (v *View) Copy(start, limit, dest int64, move bool) error {
	if !v.valid() {
		return ErrIllegalArgument
	}
	if !v.properties.Has(Writable) {
		return ErrNoWritePermission
	}
	c, ok := v.provider.(Copier)
	if !ok {
		return ErrNoWritePermission
	}
	if start > limit {
		return ErrIndexOutOfBounds
	}
	if dest > start && dest < limit {
		return ErrIndexOutOfBounds
	}
	return c.Copy(v, start, limit, dest, move)
}

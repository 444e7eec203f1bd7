// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package utext

import (
	"unicode/utf16"
	"unicode/utf8"
	"unsafe"
)

// This file is component E, grounded on utext.cpp's u8TextAccess /
// u8TextExtract / u8TextReplace / u8TextCopy. Native units are bytes, so
// unlike the UTF-16 provider every chunk carries a pair of signed delta
// maps (chunkU16ToNative / chunkNativeToU16) translating between a native
// byte offset and its chunk-content (UTF-16) offset — ported directly from
// the two int8 arrays of the same names in u8ChunkBuffer.
//
// The original decodes continuation bytes with a hand-rolled state machine
// (utf8_nextCharSafeBody) so it can run without any other ICU dependency.
// This port uses unicode/utf8.DecodeRune for that step instead — same
// trailing-byte-resync behavior (an ill-formed sequence decodes to
// utf8.RuneError / U+FFFD and consumes one byte), but expressed with the
// standard library's own UTF-8 machinery rather than reimplementing it.

const (
	u8ChunkSize      = 32
	u8ScanAhead      = 32
	u8ChunkTolerance = utf8.UTFMax // U8_CHUCK_TOLERANCE
)

// utf8Provider backs a View over a []byte buffer holding well-formed or
// possibly-malformed UTF-8. buf is the full addressable array; length is
// the logical content length in bytes.
type utf8Provider struct {
	buf           []byte
	length        int64
	lengthUnknown bool

	active, alternate u8Chunk
}

// u8Chunk mirrors u8ChunkBuffer: a decoded window plus the two delta maps
// needed to translate between native (byte) and UTF-16 (chunk) offsets
// without rescanning from the chunk start on every query.
type u8Chunk struct {
	nativeStart, nativeLimit int64
	contents                 []uint16
	u16ToNative              []int8 // indexed by chunk offset
	nativeToU16              []int8 // indexed by native offset - nativeStart
	nativeIndexingLimit      int
}

// OpenUTF8 opens a View over buf, which holds UTF-8 text. If length is
// negative, buf is treated as NUL-terminated with unknown length;
// otherwise length is the exact content length in bytes and must not
// exceed len(buf).
func OpenUTF8(buf []byte, length int, writable bool) (*View, error) {
	return OpenUTF8Into(nil, buf, length, writable)
}

// OpenUTF8Into is OpenUTF8 with reuse semantics (see OpenUTF16Into).
func OpenUTF8Into(dst *View, buf []byte, length int, writable bool) (*View, error) {
	if length >= 0 && length > len(buf) {
		return nil, ErrIllegalArgument
	}
	if writable && buf == nil {
		return nil, ErrIllegalArgument
	}
	p := &utf8Provider{buf: buf}
	if length < 0 {
		p.lengthUnknown = true
	} else {
		p.length = int64(length)
	}
	return openInto(dst, p, buildProperties(writable, p.lengthUnknown))
}

func (p *utf8Provider) NativeLength(v *View) int64 {
	if p.lengthUnknown {
		s := p.buf
		n := p.length
		for int(n) < len(s) && s[n] != 0 {
			n++
		}
		p.length = n
		p.lengthUnknown = false
		v.properties &^= LengthIsExpensive
	}
	return p.length
}

// isTrailByte reports whether b is a UTF-8 continuation byte (10xxxxxx).
func isTrailByte(b byte) bool { return b&0xC0 == 0x80 }

// setCodePointStart snaps a native byte index left to the start of the
// code point it falls within, the Go equivalent of u8SetCodePointStart's
// unsafe (scan-left) path.
func (p *utf8Provider) setCodePointStart(native int64) int64 {
	s := p.buf
	for native > 0 && int(native) < len(s) && isTrailByte(s[native]) {
		native--
	}
	return native
}

// scanLength mirrors u8ScanLength.
func (p *utf8Provider) scanLength(v *View, nativeLimit int64) int64 {
	s := p.buf
	if nativeLimit >= p.length {
		if p.lengthUnknown {
			scanLimit := nativeLimit + u8ScanAhead
			chunkLimit := p.length
			for int(chunkLimit) < len(s) && s[chunkLimit] != 0 && chunkLimit < scanLimit {
				chunkLimit++
			}
			p.length = chunkLimit
			if chunkLimit < scanLimit {
				p.lengthUnknown = false
				v.properties &^= LengthIsExpensive
				if nativeLimit > chunkLimit {
					nativeLimit = chunkLimit
				}
			}
		} else {
			nativeLimit = p.length
		}
	} else {
		nativeLimit = p.setCodePointStart(nativeLimit)
	}
	return nativeLimit
}

// decodeChunk fills chunk's contents and delta maps for the native byte
// range [start, limit), matching u8TextAccess's chunk-fill loop.
func (p *utf8Provider) decodeChunk(chunk *u8Chunk, start, limit int64) {
	s := p.buf
	size := int(limit - start)
	contents := make([]uint16, 0, size+2)
	u16ToNative := make([]int8, 0, size+2)
	nativeToU16 := make([]int8, size+1)
	nativeIndexingLimit := -1

	si := start
	for si < limit {
		b := s[si]
		if b < utf8.RuneSelf {
			di := len(contents)
			contents = append(contents, uint16(b))
			u16ToNative = append(u16ToNative, int8((si-start)-int64(di)))
			nativeToU16[si-start] = int8(int64(di) - (si - start))
			si++
			continue
		}
		if nativeIndexingLimit < 0 {
			nativeIndexingLimit = len(contents)
		}
		savedSi := si
		savedDi := len(contents)

		r, n := utf8.DecodeRune(s[si:limit])
		si += int64(n)

		if r <= 0xFFFF {
			contents = append(contents, uint16(r))
		} else {
			lead, trail := utf16.EncodeRune(r)
			contents = append(contents, uint16(lead), uint16(trail))
		}

		for i := savedDi; i < len(contents); i++ {
			u16ToNative = append(u16ToNative, int8((savedSi-start)-int64(i)))
		}
		for i := savedSi; i < si; i++ {
			nativeToU16[i-start] = int8(int64(savedDi) - (i - start))
		}
	}
	if nativeIndexingLimit < 0 {
		nativeIndexingLimit = len(contents)
	}
	// Sentinel entries one past the end, as u8TextAccess writes at [di]/[si].
	u16ToNative = append(u16ToNative, int8((si-start)-int64(len(contents))))
	nativeToU16[si-start] = int8(int64(len(contents)) - (si - start))

	chunk.nativeStart = start
	chunk.nativeLimit = limit
	chunk.contents = contents
	chunk.u16ToNative = u16ToNative
	chunk.nativeToU16 = nativeToU16
	chunk.nativeIndexingLimit = nativeIndexingLimit
}

func (p *utf8Provider) mapIndexToUTF16(native int64) int {
	nativeOffset := int(native - p.active.nativeStart)
	if nativeOffset < 0 || nativeOffset >= len(p.active.nativeToU16) {
		return len(p.active.contents)
	}
	return nativeOffset + int(p.active.nativeToU16[nativeOffset])
}

func (p *utf8Provider) Access(v *View, nativeIndex int64, forward bool) bool {
	s := p.buf
	requested := pinIndex64(nativeIndex, 1<<62)
	requested = p.scanLength(v, requested)

	prepareChunk := false
	var chunkStart, chunkLimit int64

	switch {
	case requested >= p.active.nativeStart && requested <= p.active.nativeLimit:
		if forward && requested <= p.length {
			chunkLimit = requested
			for chunkLimit < p.length && isTrailByte(s[chunkLimit]) {
				chunkLimit++
			}
			if chunkLimit == p.active.nativeLimit || chunkLimit >= p.active.nativeLimit-u8ChunkTolerance {
				var offset int64
				// NOTE: the original computes this ternary's value but never
				// assigns it to offset (a discarded-result bug in
				// u8TextAccess, kept here on purpose — see DESIGN.md's Open
				// Question on component E). offset is therefore always 0 on
				// this path.
				_ = (chunkLimit%u8ChunkSize > u8ChunkTolerance)
				chunkStart = ((chunkLimit / u8ChunkSize) + offset) * u8ChunkSize
				chunkLimit = pinIndex64(((chunkLimit/u8ChunkSize)+1+offset)*u8ChunkSize, p.length)
				prepareChunk = true
			}
		} else if !forward && requested > 0 {
			chunkStart = requested
			for chunkStart > 0 && isTrailByte(s[chunkStart]) {
				chunkStart--
			}
			if chunkStart == p.active.nativeStart || chunkStart < p.active.nativeStart+u8ChunkTolerance {
				var offset int64
				if chunkStart%u8ChunkSize > u8ChunkTolerance {
					offset = 1
				}
				chunkLimit = pinIndex64(((chunkStart/u8ChunkSize)+offset)*u8ChunkSize, p.length)
				chunkStart = pinIndex64(((chunkStart/u8ChunkSize)-1+offset)*u8ChunkSize, p.length)
				prepareChunk = true
			}
		}
	default:
		chunkStart = (requested / u8ChunkSize) * u8ChunkSize
		chunkLimit = pinIndex64(((requested/u8ChunkSize)+1)*u8ChunkSize, p.length)
		if !forward && chunkStart > 0 && chunkStart == requested {
			chunkStart--
		}
		prepareChunk = true
	}

	if prepareChunk {
		for chunkStart > 0 && isTrailByte(s[chunkStart]) {
			chunkStart--
		}
		for chunkLimit < p.length && isTrailByte(s[chunkLimit]) {
			chunkLimit++
		}
		if chunkStart != p.alternate.nativeStart || chunkLimit != p.alternate.nativeLimit {
			p.decodeChunk(&p.alternate, chunkStart, chunkLimit)
		}
	}

	if requested >= p.alternate.nativeStart && requested <= p.alternate.nativeLimit {
		p.active, p.alternate = p.alternate, p.active
		v.chunk.nativeStart = p.active.nativeStart
		v.chunk.nativeLimit = p.active.nativeLimit
		v.chunk.contents = p.active.contents
		v.chunk.nativeIndexingLimit = p.active.nativeIndexingLimit
	}

	v.chunk.offset = p.mapIndexToUTF16(requested)
	return (forward && requested < p.length) || (!forward && requested > 0)
}

func (p *utf8Provider) MapOffsetToNative(v *View) int64 {
	idx := v.chunk.offset
	if idx < 0 || idx >= len(p.active.u16ToNative) {
		return p.active.nativeLimit
	}
	return p.active.nativeStart + int64(v.chunk.offset) + int64(p.active.u16ToNative[idx])
}

func (p *utf8Provider) MapNativeToUTF16(v *View, native int64) int {
	return p.mapIndexToUTF16(native)
}

func (p *utf8Provider) Extract(v *View, start, limit int64, dst []uint16) (int, error) {
	length := p.NativeLength(v)
	start = pinIndex64(start, length)
	start = p.setCodePointStart(start)
	limit = p.scanLength(v, limit)

	s := p.buf
	di := 0
	si := start
	for si < limit {
		b := s[si]
		if b < utf8.RuneSelf {
			if di < len(dst) {
				dst[di] = uint16(b)
			}
			di++
			si++
			continue
		}
		r, n := utf8.DecodeRune(s[si:limit])
		si += int64(n)
		if r <= 0xFFFF {
			if di < len(dst) {
				dst[di] = uint16(r)
			}
			di++
		} else {
			lead, trail := utf16.EncodeRune(r)
			if di < len(dst) {
				dst[di] = uint16(lead)
			}
			di++
			if di < len(dst) {
				dst[di] = uint16(trail)
			}
			di++
		}
	}

	p.invalidateChunks()
	p.Access(v, si, true)

	var err error
	switch {
	case len(dst) < di:
		err = ErrBufferOverflow
	case di > 0 && len(dst) == di:
		err = ErrStringNotTerminated
	}
	if len(dst) > di {
		dst[di] = 0
	}
	return di, err
}

func (p *utf8Provider) invalidateChunks() {
	p.active = u8Chunk{}
	p.alternate = u8Chunk{}
}

// encodeUTF8Length returns the number of UTF-8 bytes the UTF-16 string src
// decodes to, walking surrogate pairs as single code points.
func encodeUTF8Length(src []uint16) int64 {
	var n int64
	for i := 0; i < len(src); i++ {
		u := src[i]
		switch {
		case isLeadSurrogate(u) && i+1 < len(src) && isTrailSurrogate(src[i+1]):
			r := combineSurrogates(u, src[i+1])
			n += int64(utf8.RuneLen(r))
			i++
		case isSurrogateUnit(u):
			n += int64(utf8.RuneLen(utf8.RuneError))
		default:
			n += int64(utf8.RuneLen(rune(u)))
		}
	}
	return n
}

func (p *utf8Provider) Replace(v *View, start, limit int64, src []uint16) (int64, error) {
	if u8OverlapsUTF16(p.buf, src) {
		return 0, ErrIllegalArgument
	}
	length := p.NativeLength(v)
	start = pinIndex64(start, length)
	limit = pinIndex64(limit, length)
	replLen := encodeUTF8Length(src)
	delta := replLen - (limit - start)
	if length+delta > int64(len(p.buf)) {
		return 0, ErrBufferOverflow
	}

	encoded := make([]byte, 0, replLen)
	for i := 0; i < len(src); i++ {
		u := src[i]
		switch {
		case isLeadSurrogate(u) && i+1 < len(src) && isTrailSurrogate(src[i+1]):
			encoded = utf8.AppendRune(encoded, combineSurrogates(u, src[i+1]))
			i++
		case isSurrogateUnit(u):
			encoded = utf8.AppendRune(encoded, utf8.RuneError)
		default:
			encoded = utf8.AppendRune(encoded, rune(u))
		}
	}

	if limit-start < replLen {
		for i := length + delta - 1; i >= start+replLen; i-- {
			p.buf[i] = p.buf[i-delta]
		}
		for i := start + replLen - 1; i >= start; i-- {
			p.buf[i] = encoded[i-start]
		}
	} else {
		for i := start; i < start+replLen; i++ {
			p.buf[i] = encoded[i-start]
		}
		for i := start + replLen; i < length; i++ {
			p.buf[i] = p.buf[i-delta]
		}
	}

	if replLen > 0 || limit-start > 0 {
		p.length += delta
		if int(p.length) < len(p.buf) {
			p.buf[p.length] = 0
		}
	}
	v.properties &^= StableChunks
	v.chunk.reset()
	p.invalidateChunks()
	p.Access(v, limit+delta, true)
	return delta, nil
}

func (p *utf8Provider) Copy(v *View, start, limit, dest int64, move bool) error {
	length := p.NativeLength(v)
	start = pinIndex64(start, length)
	limit = pinIndex64(limit, length)
	dest = pinIndex64(dest, length)
	blockLen := limit - start
	diff := int64(0)
	if !move {
		diff = blockLen
	}
	if dest > start && dest < limit {
		return ErrIndexOutOfBounds
	}
	if length+diff > int64(len(p.buf)) {
		return ErrBufferOverflow
	}

	segment := make([]byte, blockLen)
	copy(segment, p.buf[start:limit])

	cursor := dest + blockLen
	if move {
		switch {
		case start < dest:
			copy(p.buf[start:dest-blockLen], p.buf[limit:dest])
			copy(p.buf[dest-blockLen:dest], segment)
			cursor = dest
		case start > dest:
			copy(p.buf[dest+blockLen:start+blockLen], p.buf[dest:start])
			copy(p.buf[dest:dest+blockLen], segment)
		default:
			cursor = dest
		}
	} else {
		copy(p.buf[dest+diff:length+diff], p.buf[dest:length])
		copy(p.buf[dest:dest+diff], segment)
		p.length = length + diff
		if int(p.length) < len(p.buf) {
			p.buf[p.length] = 0
		}
	}

	v.properties &^= StableChunks
	v.chunk.reset()
	p.invalidateChunks()
	p.Access(v, cursor, true)
	return nil
}

func (p *utf8Provider) Clone(v *View, deep bool) (Provider, error) {
	clone := &utf8Provider{length: p.length, lengthUnknown: p.lengthUnknown}
	if deep {
		buf := make([]byte, len(p.buf))
		copy(buf, p.buf)
		clone.buf = buf
	} else {
		clone.buf = p.buf
	}
	return clone, nil
}

func (p *utf8Provider) Close(v *View) error {
	if v.properties.Has(OwnsText) {
		p.buf = nil
	}
	return nil
}

// u8OverlapsUTF16 reports whether a byte buffer and a UTF-16 buffer could
// possibly alias the same backing memory. The two slice element types
// differ, so this compares raw address ranges rather than reusing
// u16Overlap.
func u8OverlapsUTF16(a []byte, b []uint16) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	aStart := uintptr(unsafe.Pointer(&a[0]))
	aEnd := aStart + uintptr(len(a))
	const unitSize = unsafe.Sizeof(uint16(0))
	bStart := uintptr(unsafe.Pointer(&b[0]))
	bEnd := bStart + uintptr(len(b))*unitSize
	return aStart < bEnd && bStart < aEnd
}

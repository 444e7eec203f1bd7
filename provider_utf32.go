// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package utext

import (
	"unicode/utf16"
	"unsafe"
)

// This file is component F, grounded on utext.cpp's u32TextAccess /
// u32TextExtract / u32TextReplace / u32TextCopy. Native units are UTF-32
// code points ([]rune), so — unlike the UTF-8 provider — every native
// index is already a code point boundary; no trail-byte scanning is
// needed. The only per-offset bookkeeping left is the native<->UTF-16
// delta, since a single rune can expand to one or two UTF-16 units.
//
// The tolerance constant carries over as 1 (U32_CHUCK_TOLERANCE), not the
// 2 (UTF-16) and 4 (UTF-8) used by the other two providers — see the Open Question in
// DESIGN.md: the original uses the same value for both the "near the
// existing chunk edge, just extend it" test and the surrogate-pair-sized
// tolerance, and this port keeps that single value rather than splitting
// it into two constants the original never had.

const (
	u32ChunkSize  = 32
	u32ScanAhead  = 32
	u32Tolerance  = 1 // U32_CHUCK_TOLERANCE
)

type utf32Provider struct {
	buf           []rune
	length        int64
	lengthUnknown bool

	active, alternate u32Chunk
}

type u32Chunk struct {
	nativeStart, nativeLimit int64
	contents                 []uint16
	u16ToNative              []int8
	nativeToU16              []int8
	nativeIndexingLimit      int
}

// OpenUTF32 opens a View over buf, a sequence of UTF-32 code points. If
// length is negative, buf is treated as NUL-terminated (a rune of value 0)
// with unknown length; otherwise length is the exact content length and
// must not exceed len(buf).
func OpenUTF32(buf []rune, length int, writable bool) (*View, error) {
	return OpenUTF32Into(nil, buf, length, writable)
}

// OpenUTF32Into is OpenUTF32 with reuse semantics (see OpenUTF16Into).
func OpenUTF32Into(dst *View, buf []rune, length int, writable bool) (*View, error) {
	if length >= 0 && length > len(buf) {
		return nil, ErrIllegalArgument
	}
	if writable && buf == nil {
		return nil, ErrIllegalArgument
	}
	p := &utf32Provider{buf: buf}
	if length < 0 {
		p.lengthUnknown = true
	} else {
		p.length = int64(length)
	}
	return openInto(dst, p, buildProperties(writable, p.lengthUnknown))
}

func (p *utf32Provider) NativeLength(v *View) int64 {
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

func (p *utf32Provider) scanLength(v *View, nativeLimit int64) int64 {
	s := p.buf
	if nativeLimit < p.length {
		return nativeLimit
	}
	if p.lengthUnknown {
		scanLimit := nativeLimit + u32ScanAhead
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
		return nativeLimit
	}
	return p.length
}

func (p *utf32Provider) decodeChunk(chunk *u32Chunk, start, limit int64) {
	s := p.buf
	size := int(limit - start)
	contents := make([]uint16, 0, 2*size+2)
	u16ToNative := make([]int8, 0, 2*size+2)
	nativeToU16 := make([]int8, size+1)
	nativeIndexingLimit := -1

	for si := start; si < limit; si++ {
		di := int64(len(contents))
		r := s[si]
		if r <= 0xFFFF {
			contents = append(contents, uint16(r))
		} else {
			if nativeIndexingLimit < 0 {
				nativeIndexingLimit = len(contents)
			}
			lead, trail := utf16.EncodeRune(r)
			contents = append(contents, uint16(lead), uint16(trail))
		}
		nativeToU16[si-start] = int8(di - (si - start))
		for i := di; i < int64(len(contents)); i++ {
			u16ToNative = append(u16ToNative, int8((si-start)-i))
		}
	}
	di := int64(len(contents))
	u16ToNative = append(u16ToNative, int8((limit-start)-di))
	nativeToU16[limit-start] = int8(di - (limit - start))
	if nativeIndexingLimit < 0 {
		nativeIndexingLimit = len(contents)
	}

	chunk.nativeStart = start
	chunk.nativeLimit = limit
	chunk.contents = contents
	chunk.u16ToNative = u16ToNative
	chunk.nativeToU16 = nativeToU16
	chunk.nativeIndexingLimit = nativeIndexingLimit
}

func (p *utf32Provider) mapIndexToUTF16(native int64) int {
	nativeOffset := int(native - p.active.nativeStart)
	if nativeOffset < 0 || nativeOffset >= len(p.active.nativeToU16) {
		return len(p.active.contents)
	}
	return nativeOffset + int(p.active.nativeToU16[nativeOffset])
}

func (p *utf32Provider) Access(v *View, nativeIndex int64, forward bool) bool {
	requested := pinIndex64(nativeIndex, 1<<62)
	requested = p.scanLength(v, requested)

	prepareChunk := false
	var chunkStart, chunkLimit int64

	switch {
	case requested >= p.active.nativeStart && requested <= p.active.nativeLimit:
		if forward && requested <= p.length {
			if requested == p.active.nativeLimit || requested >= p.active.nativeLimit-u32Tolerance {
				chunkStart = (requested / u32ChunkSize) * u32ChunkSize
				chunkLimit = pinIndex64(((requested/u32ChunkSize)+1)*u32ChunkSize, p.length)
				prepareChunk = true
			}
		} else if !forward && requested > 0 {
			if requested == p.active.nativeStart || requested < p.active.nativeStart+u32Tolerance {
				chunkLimit = pinIndex64((requested/u32ChunkSize)*u32ChunkSize, p.length)
				chunkStart = ((requested / u32ChunkSize) - 1) * u32ChunkSize
				prepareChunk = true
			}
		}
	default:
		chunkStart = (requested / u32ChunkSize) * u32ChunkSize
		chunkLimit = pinIndex64(((requested/u32ChunkSize)+1)*u32ChunkSize, p.length)
		if !forward && chunkStart > 0 && chunkStart == requested {
			chunkStart--
		}
		prepareChunk = true
	}

	if chunkStart < 0 {
		chunkStart = 0
	}

	if prepareChunk && (chunkStart != p.alternate.nativeStart || chunkLimit != p.alternate.nativeLimit) {
		p.decodeChunk(&p.alternate, chunkStart, chunkLimit)
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

func (p *utf32Provider) MapOffsetToNative(v *View) int64 {
	idx := v.chunk.offset
	if idx < 0 || idx >= len(p.active.u16ToNative) {
		return p.active.nativeLimit
	}
	return p.active.nativeStart + int64(v.chunk.offset) + int64(p.active.u16ToNative[idx])
}

func (p *utf32Provider) MapNativeToUTF16(v *View, native int64) int {
	return p.mapIndexToUTF16(native)
}

func (p *utf32Provider) Extract(v *View, start, limit int64, dst []uint16) (int, error) {
	length := p.NativeLength(v)
	start = pinIndex64(start, length)
	limit = p.scanLength(v, limit)

	s := p.buf
	di := 0
	for si := start; si < limit; si++ {
		r := s[si]
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
	p.Access(v, limit, true)

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

func (p *utf32Provider) invalidateChunks() {
	p.active = u32Chunk{}
	p.alternate = u32Chunk{}
}

// decodeUTF16ToRunes converts a UTF-16 replacement source into runes,
// combining surrogate pairs and mapping lone surrogates to U+FFFD.
func decodeUTF16ToRunes(src []uint16) []rune {
	out := make([]rune, 0, len(src))
	for i := 0; i < len(src); i++ {
		u := src[i]
		switch {
		case isLeadSurrogate(u) && i+1 < len(src) && isTrailSurrogate(src[i+1]):
			out = append(out, combineSurrogates(u, src[i+1]))
			i++
		case isSurrogateUnit(u):
			out = append(out, 0xFFFD)
		default:
			out = append(out, rune(u))
		}
	}
	return out
}

func (p *utf32Provider) Replace(v *View, start, limit int64, src []uint16) (int64, error) {
	if len(p.buf) > 0 && len(src) > 0 {
		bufStart := uintptr(unsafe.Pointer(&p.buf[0]))
		bufEnd := bufStart + uintptr(len(p.buf))*unsafe.Sizeof(rune(0))
		srcStart := uintptr(unsafe.Pointer(&src[0]))
		srcEnd := srcStart + uintptr(len(src))*unsafe.Sizeof(uint16(0))
		if bufStart < srcEnd && srcStart < bufEnd {
			return 0, ErrIllegalArgument
		}
	}
	length := p.NativeLength(v)
	start = pinIndex64(start, length)
	limit = pinIndex64(limit, length)
	runes := decodeUTF16ToRunes(src)
	delta := int64(len(runes)) - (limit - start)
	if length+delta > int64(len(p.buf)) {
		return 0, ErrBufferOverflow
	}

	if limit-start < int64(len(runes)) {
		for i := length + delta - 1; i >= start+int64(len(runes)); i-- {
			p.buf[i] = p.buf[i-delta]
		}
		for i := start + int64(len(runes)) - 1; i >= start; i-- {
			p.buf[i] = runes[i-start]
		}
	} else {
		for i := start; i < start+int64(len(runes)); i++ {
			p.buf[i] = runes[i-start]
		}
		for i := start + int64(len(runes)); i < length; i++ {
			p.buf[i] = p.buf[i-delta]
		}
	}

	if len(runes) > 0 || limit-start > 0 {
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

func (p *utf32Provider) Copy(v *View, start, limit, dest int64, move bool) error {
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

	segment := make([]rune, blockLen)
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

func (p *utf32Provider) Clone(v *View, deep bool) (Provider, error) {
	clone := &utf32Provider{length: p.length, lengthUnknown: p.lengthUnknown}
	if deep {
		buf := make([]rune, len(p.buf))
		copy(buf, p.buf)
		clone.buf = buf
	} else {
		clone.buf = p.buf
	}
	return clone, nil
}

func (p *utf32Provider) Close(v *View) error {
	if v.properties.Has(OwnsText) {
		p.buf = nil
	}
	return nil
}

// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package utext

import "unsafe"

// This file is component D, grounded directly on utext.cpp's u16TextAccess
// / u16TextLength / u16TextExtract / u16TextReplace / u16TextCopy — the
// simplest of the three reference providers, since native units already
// are UTF-16 units.

const (
	u16ChunkSize  = 32
	u16ScanAhead  = 32
	u16Tolerance  = 2 // U16_MAX_LENGTH: the most UTF-16 units one code point can need.
)

// utf16Provider backs a View directly over a []uint16 buffer. buf is the
// full addressable array (its len is the provider's capacity); length is
// the logical content length, which may lag behind len(buf) while
// lengthUnknown is true (a NUL-terminated buffer not yet fully scanned).
type utf16Provider struct {
	buf           []uint16
	length        int64
	lengthUnknown bool
}

// OpenUTF16 opens a View over buf. If length is negative, buf is treated
// as NUL-terminated with unknown length (scanned lazily, up to len(buf)
// units); otherwise length is the exact content length and must not
// exceed len(buf). If writable, Replace/Copy may grow the content up to
// len(buf) units.
func OpenUTF16(buf []uint16, length int, writable bool) (*View, error) {
	return OpenUTF16Into(nil, buf, length, writable)
}

// OpenUTF16Into is OpenUTF16 with reuse semantics: dst, if non-nil and
// already open, is closed and reinitialized rather than allocating a new
// View (mirrors spec.md §4.C's setup(view?, ...)).
func OpenUTF16Into(dst *View, buf []uint16, length int, writable bool) (*View, error) {
	if length >= 0 && length > len(buf) {
		return nil, ErrIllegalArgument
	}
	if writable && buf == nil {
		return nil, ErrIllegalArgument
	}
	p := &utf16Provider{buf: buf}
	if length < 0 {
		p.lengthUnknown = true
	} else {
		p.length = int64(length)
	}
	return openInto(dst, p, buildProperties(writable, p.lengthUnknown))
}

// OpenUChars opens a read-only View over a NUL-terminated []uint16 buffer
// of unknown length (the open_uchars convenience wrapper from spec.md §6).
func OpenUChars(buf []uint16) (*View, error) {
	return OpenUTF16(buf, -1, false)
}

func buildProperties(writable, lengthUnknown bool) ProviderProperties {
	var props ProviderProperties
	if writable {
		props |= Writable
	}
	if lengthUnknown {
		props |= LengthIsExpensive
	}
	props |= StableChunks
	return props
}

// openInto is the shared tail of every Open* constructor: allocate or
// reuse dst, install the provider, and perform the initial Access that
// leaves the cursor at native index 0.
func openInto(dst *View, p Provider, props ProviderProperties) (*View, error) {
	if dst != nil && dst.valid() {
		if err := dst.Close(); err != nil {
			return nil, err
		}
	}
	if dst == nil {
		dst = &View{}
	}
	*dst = View{
		magic:      viewMagic,
		provider:   p,
		properties: props,
	}
	dst.provider.Access(dst, 0, true)
	return dst, nil
}

func pinIndex64(index, limit int64) int64 {
	if index < 0 {
		return 0
	}
	if index > limit {
		return limit
	}
	return index
}

func (p *utf16Provider) NativeLength(v *View) int64 {
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

// scanLength mirrors u16ScanLength: it advances the lazy NUL scan just
// far enough to prove nativeLimit is within the string (or finds the
// terminator first), and widens the cached chunk if the scan discovered
// more content than the chunk currently covers.
func (p *utf16Provider) scanLength(v *View, nativeLimit int64) int64 {
	s := p.buf
	if nativeLimit >= p.length {
		if p.lengthUnknown {
			scanLimit := nativeLimit + u16ScanAhead
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
			if p.length >= u16ChunkSize {
				v.properties &^= StableChunks
			}
			if v.chunk.nativeLimit < p.length && (v.chunk.nativeLimit == 0 || v.chunk.nativeLimit%u16ChunkSize > 0) {
				v.chunk.nativeLimit = pinIndex64(((v.chunk.nativeLimit/u16ChunkSize)+1)*u16ChunkSize, p.length)
				v.chunk.contents = s[v.chunk.nativeStart:v.chunk.nativeLimit]
				v.chunk.nativeIndexingLimit = v.chunk.length()
			}
		} else {
			nativeLimit = p.length
		}
	} else {
		for nativeLimit > 0 && isTrailSurrogate(s[nativeLimit]) {
			nativeLimit--
		}
	}
	return nativeLimit
}

func (p *utf16Provider) Access(v *View, nativeIndex int64, forward bool) bool {
	s := p.buf
	requested := nativeIndex
	effective := pinIndex64(nativeIndex, int64(1)<<62)
	effective = p.scanLength(v, effective)

	updateChunk := false
	switch {
	case effective >= v.chunk.nativeStart && effective <= v.chunk.nativeLimit:
		if forward && effective <= p.length {
			chunkNativeLimit := effective
			for chunkNativeLimit < p.length && isTrailSurrogate(s[chunkNativeLimit]) {
				chunkNativeLimit++
			}
			v.chunk.nativeStart = (chunkNativeLimit / u16ChunkSize) * u16ChunkSize
			v.chunk.nativeLimit = pinIndex64(((chunkNativeLimit/u16ChunkSize)+2)*u16ChunkSize, p.length)
			updateChunk = true
		} else if !forward && effective > 0 {
			chunkNativeStart := effective
			for chunkNativeStart > 0 && isTrailSurrogate(s[chunkNativeStart]) {
				chunkNativeStart--
			}
			var offset int64
			if chunkNativeStart%u16ChunkSize > u16Tolerance {
				offset = 1
			}
			v.chunk.nativeLimit = pinIndex64(((chunkNativeStart/u16ChunkSize)+1+offset)*u16ChunkSize, p.length)
			v.chunk.nativeStart = pinIndex64(((chunkNativeStart/u16ChunkSize)-1+offset)*u16ChunkSize, p.length)
			updateChunk = true
		}
	default:
		if forward {
			v.chunk.nativeStart = (effective / u16ChunkSize) * u16ChunkSize
			v.chunk.nativeLimit = pinIndex64(((effective/u16ChunkSize)+2)*u16ChunkSize, p.length)
		} else {
			v.chunk.nativeStart = pinIndex64(((effective/u16ChunkSize)-1)*u16ChunkSize, p.length)
			v.chunk.nativeLimit = pinIndex64(((effective/u16ChunkSize)+1)*u16ChunkSize, p.length)
		}
		updateChunk = true
	}

	if updateChunk {
		for v.chunk.nativeStart > 0 && isTrailSurrogate(s[v.chunk.nativeStart]) {
			v.chunk.nativeStart--
		}
		for v.chunk.nativeLimit < p.length && isTrailSurrogate(s[v.chunk.nativeLimit]) {
			v.chunk.nativeLimit++
		}
		v.chunk.contents = s[v.chunk.nativeStart:v.chunk.nativeLimit]
		v.chunk.nativeIndexingLimit = v.chunk.length()
	}

	v.chunk.offset = int(pinIndex64(requested, p.length) - v.chunk.nativeStart)
	return (forward && effective < p.length) || (!forward && effective > 0)
}

func (p *utf16Provider) MapOffsetToNative(v *View) int64 {
	return v.chunk.nativeStart + int64(v.chunk.offset)
}

func (p *utf16Provider) MapNativeToUTF16(v *View, native int64) int {
	return int(native - v.chunk.nativeStart)
}

func (p *utf16Provider) Extract(v *View, start, limit int64, dst []uint16) (int, error) {
	length := p.NativeLength(v)
	start = pinIndex64(start, length)
	limit = pinIndex64(limit, length)
	n := int(limit - start)
	var err error
	switch {
	case len(dst) < n:
		err = ErrBufferOverflow
	case n > 0 && len(dst) == n:
		err = ErrStringNotTerminated
	}
	if n > 0 && len(dst) > 0 {
		copy(dst, p.buf[start:limit])
	}
	if len(dst) > n {
		dst[n] = 0
	}
	return n, err
}

func (p *utf16Provider) Replace(v *View, start, limit int64, src []uint16) (int64, error) {
	if u16Overlap(p.buf, src) {
		return 0, ErrIllegalArgument
	}
	length := p.NativeLength(v)
	start = pinIndex64(start, length)
	limit = pinIndex64(limit, length)
	delta := int64(len(src)) - (limit - start)
	if length+delta > int64(len(p.buf)) {
		return 0, ErrBufferOverflow
	}

	if limit-start < int64(len(src)) {
		for i := length + delta - 1; i >= start+int64(len(src)); i-- {
			p.buf[i] = p.buf[i-delta]
		}
		for i := start + int64(len(src)) - 1; i >= start; i-- {
			p.buf[i] = src[i-start]
		}
	} else {
		for i := start; i < start+int64(len(src)); i++ {
			p.buf[i] = src[i-start]
		}
		for i := start + int64(len(src)); i < length; i++ {
			p.buf[i] = p.buf[i-delta]
		}
	}

	if len(src) > 0 || limit-start > 0 {
		p.length += delta
		if int(p.length) < len(p.buf) {
			p.buf[p.length] = 0
		}
	}
	v.properties &^= StableChunks
	v.chunk.reset()
	p.Access(v, limit+delta, true)
	return delta, nil
}

func (p *utf16Provider) Copy(v *View, start, limit, dest int64, move bool) error {
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

	segment := make([]uint16, blockLen)
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
	p.Access(v, cursor, true)
	return nil
}

func (p *utf16Provider) Clone(v *View, deep bool) (Provider, error) {
	clone := &utf16Provider{length: p.length, lengthUnknown: p.lengthUnknown}
	if deep {
		buf := make([]uint16, len(p.buf))
		copy(buf, p.buf)
		clone.buf = buf
	} else {
		clone.buf = p.buf
	}
	return clone, nil
}

func (p *utf16Provider) Close(v *View) error {
	if v.properties.Has(OwnsText) {
		p.buf = nil
	}
	return nil
}

// u16Overlap reports whether a and b share any backing memory, using
// pointer-range comparison rather than a value-equality scan (Replace's
// "src aliases the backing buffer" check needs identity, not content
// equality).
func u16Overlap(a, b []uint16) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	const unitSize = unsafe.Sizeof(uint16(0))
	aStart := uintptr(unsafe.Pointer(&a[0]))
	aEnd := aStart + uintptr(len(a))*unitSize
	bStart := uintptr(unsafe.Pointer(&b[0]))
	bEnd := bStart + uintptr(len(b))*unitSize
	return aStart < bEnd && bStart < aEnd
}

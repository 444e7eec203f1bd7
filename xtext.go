// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package utext

import (
	"io"
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// This file wires golang.org/x/text into the two reference providers that
// open from an arbitrary byte stream rather than an already-typed buffer.
// The providers themselves (provider_utf8.go, provider_utf16.go) stay
// encoding-library-free — unicode/utf8 and unicode/utf16 from the standard
// library do the per-code-point work — but turning an unknown-endianness,
// possibly-BOM-prefixed byte stream into a clean buffer in the first
// place is exactly the job x/text/encoding/unicode already does, so
// construction goes through it instead of a hand-rolled scan.

// OpenUTF8Safe decodes a byte stream holding possibly ill-formed UTF-8
// into a View, replacing any malformed sequence with U+FFFD rather than
// failing the open — the byte-stream counterpart to OpenUTF8, for callers
// that received the bytes from an untrusted source.
func OpenUTF8Safe(r io.Reader) (*View, error) {
	decoded, err := io.ReadAll(transform.NewReader(r, unicode.UTF8.NewDecoder()))
	if err != nil {
		return nil, err
	}
	return OpenUTF8(decoded, len(decoded), false)
}

// OpenUTF16Encoded decodes a byte stream holding UTF-16 text into a View.
// The stream is read as big-endian unless bomPolicy lets a leading
// byte-order mark decide: with unicode.UseBOM or unicode.ExpectBOM a BOM
// selects the endianness and is consumed (ExpectBOM also fails when the
// BOM is missing); with unicode.IgnoreBOM the stream is always read as
// big-endian and a leading BOM is not treated specially.
func OpenUTF16Encoded(r io.Reader, bomPolicy unicode.BOMPolicy) (*View, error) {
	enc := unicode.UTF16(unicode.BigEndian, bomPolicy)
	// The Decoder's output is UTF-8 regardless of the source's wire
	// endianness; re-expand it to UTF-16 code units so the UTF-16
	// provider gets the []uint16 it operates on directly.
	decoded, err := io.ReadAll(transform.NewReader(r, enc.NewDecoder()))
	if err != nil {
		return nil, err
	}
	units := make([]uint16, 0, len(decoded))
	for len(decoded) > 0 {
		r, size := utf8.DecodeRune(decoded)
		decoded = decoded[size:]
		if r <= 0xFFFF {
			units = append(units, uint16(r))
		} else {
			lead, trail := utf16.EncodeRune(r)
			units = append(units, uint16(lead), uint16(trail))
		}
	}
	return OpenUTF16(units, len(units), false)
}

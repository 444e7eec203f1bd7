// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package utext

import "errors"

// Error taxonomy. These are sentinel errors: callers distinguish the
// kind of failure with errors.Is, not by parsing the message.
var (
	// ErrIllegalArgument is returned for null/empty buffers paired with
	// a non-zero length, start > limit, or a replacement source that
	// aliases the backing buffer.
	ErrIllegalArgument = errors.New("utext: illegal argument")

	// ErrIndexOutOfBounds is returned when start > limit in Copy or
	// Replace, or when a Copy's source and destination ranges overlap.
	ErrIndexOutOfBounds = errors.New("utext: index out of bounds")

	// ErrBufferOverflow is returned when an edit would exceed the
	// backing store's fixed capacity, or a destination buffer passed to
	// Extract is too small to hold the full result.
	ErrBufferOverflow = errors.New("utext: buffer overflow")

	// ErrNoWritePermission is returned by any mutating operation on a
	// View that is not writable (never opened writable, or frozen).
	ErrNoWritePermission = errors.New("utext: no write permission")

	// ErrMemoryAllocation is returned when Setup/Clone cannot allocate
	// the memory a View needs.
	ErrMemoryAllocation = errors.New("utext: memory allocation failed")

	// ErrStringNotTerminated is a warning, not a failure: Extract filled
	// the destination buffer exactly full and had no room left for a
	// trailing NUL. The extracted length Extract returns is still
	// correct; only the destination's NUL-termination is missing.
	ErrStringNotTerminated = errors.New("utext: destination not NUL-terminated")
)

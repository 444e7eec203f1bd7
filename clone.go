// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package utext

// This file covers component G (clone / independence) and the
// Freeze/Close lifecycle operations from spec.md §3's Lifecycle
// paragraph and §4.C's "Clone (framework-level)" note.
//
// The original's shallow_clone copies a UText struct byte-for-byte and
// then walks four pointer slots, rebasing any that pointed into the
// source's own extra region. Go has no such raw-pointer problem: a
// slice header copy already aliases the same backing array on
// purpose, and nothing in this package's chunk cache points into a
// View's own memory the way utext.cpp's self-referential UTF-8/UTF-32
// provider state does into "extra". The adaptation (see DESIGN.md,
// component G) is to push the independence requirement onto
// Provider.Clone: it must hand back a Provider whose own chunk-cache
// fields are a fresh copy, never aliasing the receiver's, even when
// deep is false and the backing text is shared.

// Clone returns an independent View. If deep is true, the backing
// store is copied too (the clone View has OwnsText set);
// otherwise the clone shares the backing store with v, and both views
// must not be written to concurrently.
func (v *View) Clone(deep bool) (*View, error) {
	return v.CloneInto(nil, deep)
}

// CloneInto reinitializes dst (closing it first if already open) as a
// clone of v, or allocates a new View if dst is nil. This mirrors
// utext_clone's optional destination parameter and setup's "view
// already open -> close it first" rule (spec.md §4.C "Setup").
func (v *View) CloneInto(dst *View, deep bool) (*View, error) {
	if !v.valid() {
		return nil, ErrIllegalArgument
	}
	if dst != nil && dst.valid() {
		if err := dst.Close(); err != nil {
			return nil, err
		}
	}
	clonedProvider, err := v.provider.Clone(v, deep)
	if err != nil {
		return nil, err
	}
	if dst == nil {
		dst = &View{}
	}
	*dst = View{
		magic:      viewMagic,
		provider:   clonedProvider,
		properties: v.properties,
	}
	if deep {
		dst.properties |= OwnsText
	} else {
		dst.properties &^= OwnsText
	}
	// Re-synchronize the cursor at native index 0, matching the
	// original's practice of leaving a freshly cloned/accessed view
	// positioned at the start rather than inheriting a stale chunk.
	dst.provider.Access(dst, 0, true)
	return dst, nil
}

// Freeze clears the Writable property; subsequent Replace/Copy calls
// fail with ErrNoWritePermission. Freeze is irreversible for the
// lifetime of the View.
func (v *View) Freeze() {
	if !v.valid() {
		return
	}
	v.properties &^= Writable
}

// Close releases provider-private state and, if OwnsText is set, the
// backing store. After Close, v is no longer valid and all further
// operations are no-ops / sentinel returns.
func (v *View) Close() error {
	if !v.valid() {
		return nil
	}
	err := v.provider.Close(v)
	v.magic = 0
	v.provider = nil
	v.chunk.reset()
	return err
}

// buffer.go: per-goroutine access buffer for shared reads
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package atlas

// AccessBuffer is the per-goroutine scratch structure used by GetConst.
// While many goroutines read one shared Map, each records its accesses here
// instead of mutating the map: a hit on a live entry is remembered so its
// recency can be replayed later, and a hit on a compressed entry is
// decompressed into a private, address-stable copy owned by the buffer.
//
// An AccessBuffer must never be shared between goroutines while live. Its
// lifecycle is: create empty, populate through GetConst during the shared
// phase, hand it to Map.Flush exactly once, discard.
//
// Values are stored behind individual heap pointers, so a *V returned by
// GetConst stays valid even as later reads grow the buffer: only the index
// around the values ever moves, never the values themselves.
type AccessBuffer[K comparable, V any] struct {
	accesses map[K]*bufferedAccess[V]
}

// bufferedAccess records one observed key. A nil value marks a remembered
// shared-store hit; a non-nil value is a privately decompressed copy.
type bufferedAccess[V any] struct {
	value *V
}

// NewAccessBuffer creates an empty buffer for one reading session.
func NewAccessBuffer[K comparable, V any]() *AccessBuffer[K, V] {
	return &AccessBuffer[K, V]{accesses: make(map[K]*bufferedAccess[V])}
}

// Len returns the number of recorded accesses.
func (b *AccessBuffer[K, V]) Len() int {
	return len(b.accesses)
}

// rememberHit idempotently records that key was live in the shared store.
// A key already recorded as a decompressed miss keeps its value: within one
// session an entry can only be upgraded from hit to miss, never downgraded.
func (b *AccessBuffer[K, V]) rememberHit(key K) {
	if _, ok := b.accesses[key]; ok {
		return
	}
	b.accesses[key] = &bufferedAccess[V]{}
}

// getOrDecompress returns the private copy for key, materializing it through
// decompress on first need. A previously remembered hit is upgraded to a
// miss, since observing the same key in both states within one session is
// only possible in that direction.
func (b *AccessBuffer[K, V]) getOrDecompress(key K, decompress func() (V, error)) (*V, error) {
	if a, ok := b.accesses[key]; ok && a.value != nil {
		return a.value, nil
	}
	v, err := decompress()
	if err != nil {
		return nil, err
	}
	a := &bufferedAccess[V]{value: &v}
	b.accesses[key] = a
	return a.value, nil
}

// drain consumes the buffer, yielding every recorded access. value is nil
// for a remembered hit. The caller must ensure no references obtained during
// the session are still in use.
func (b *AccessBuffer[K, V]) drain(fn func(key K, value *V)) {
	for k, a := range b.accesses {
		fn(k, a.value)
	}
	b.accesses = nil
}

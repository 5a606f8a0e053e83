// lru.go: recency store with live and hollow entries
//
// The recency store is the single source of truth for which keys exist in a
// Map. Every key owns exactly one node. A live node carries the decompressed
// value and sits in a doubly linked recency list (front = most recent, back =
// least recent). A hollow node marks a value that has been moved out to the
// compressed store: it stays in the hash index so the key is still known, but
// it is excluded from the recency list and can never be picked by evictLRU or
// removeLRU.
//
// Nodes are individually heap-allocated, so a *V handed out by any accessor
// stays valid until that key's value is evicted, removed or replaced; growing
// the index only moves pointers around the nodes, never the nodes themselves.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package atlas

// entryKind tags the two states a key can be in.
type entryKind int8

const (
	entryLive entryKind = iota
	entryHollow
)

// lruNode is one entry of the recency store. prev/next are nil for hollow
// nodes and for a live node that is alone in the list only at the sentinels.
type lruNode[K comparable, V any] struct {
	key   K
	value V
	kind  entryKind
	prev  *lruNode[K, V]
	next  *lruNode[K, V]
}

// entryState is the snapshot of an entry returned by mutating operations so
// the caller can reconcile the compressed store.
type entryState[V any] struct {
	value V
	kind  entryKind
}

// recencyStore combines a hash index over all keys with an intrusive doubly
// linked recency order over the live ones. All operations are O(1) amortized.
// The zero value is not usable; use newRecencyStore.
type recencyStore[K comparable, V any] struct {
	index map[K]*lruNode[K, V]
	head  *lruNode[K, V] // most recently used live entry
	tail  *lruNode[K, V] // least recently used live entry
	live  int
}

func newRecencyStore[K comparable, V any]() *recencyStore[K, V] {
	return &recencyStore[K, V]{index: make(map[K]*lruNode[K, V])}
}

// linkFront inserts a node at the most-recent end.
func (s *recencyStore[K, V]) linkFront(n *lruNode[K, V]) {
	n.prev = nil
	n.next = s.head
	if s.head != nil {
		s.head.prev = n
	}
	s.head = n
	if s.tail == nil {
		s.tail = n
	}
}

// unlink removes a node from the recency list without touching the index.
func (s *recencyStore[K, V]) unlink(n *lruNode[K, V]) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		s.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		s.tail = n.prev
	}
	n.prev = nil
	n.next = nil
}

func (s *recencyStore[K, V]) moveFront(n *lruNode[K, V]) {
	if s.head == n {
		return
	}
	s.unlink(n)
	s.linkFront(n)
}

// insert stores value as live and most recent. If the key already existed,
// the previous entry state is returned so the caller can reconcile the
// compressed store (a hollow previous state means a compressed copy exists).
func (s *recencyStore[K, V]) insert(key K, value V) (prev entryState[V], existed bool) {
	if n, ok := s.index[key]; ok {
		prev = entryState[V]{value: n.value, kind: n.kind}
		n.value = value
		if n.kind == entryHollow {
			n.kind = entryLive
			s.live++
			s.linkFront(n)
		} else {
			s.moveFront(n)
		}
		return prev, true
	}

	n := &lruNode[K, V]{key: key, value: value, kind: entryLive}
	s.index[key] = n
	s.linkFront(n)
	s.live++
	return entryState[V]{}, false
}

// markHollow converts an entry to hollow, returning the previous live value
// if there was one. If the key does not exist, a hollow placeholder is
// created; this is how a store is seeded from externally supplied compressed
// data.
func (s *recencyStore[K, V]) markHollow(key K) (old V, wasLive bool) {
	var zero V
	n, ok := s.index[key]
	if !ok {
		s.index[key] = &lruNode[K, V]{key: key, kind: entryHollow}
		return zero, false
	}
	if n.kind == entryHollow {
		return zero, false
	}
	s.unlink(n)
	s.live--
	old = n.value
	n.value = zero
	n.kind = entryHollow
	return old, true
}

// peekLRU returns the least recently used live entry without evicting it.
func (s *recencyStore[K, V]) peekLRU() (key K, value *V, ok bool) {
	if s.tail == nil {
		var zero K
		return zero, nil, false
	}
	return s.tail.key, &s.tail.value, true
}

// evictLRU removes the least recently used live entry from the recency order
// and returns it, leaving a hollow placeholder behind for the key.
func (s *recencyStore[K, V]) evictLRU() (key K, value V, ok bool) {
	n := s.tail
	if n == nil {
		var zeroK K
		var zeroV V
		return zeroK, zeroV, false
	}
	s.unlink(n)
	s.live--
	value = n.value
	var zero V
	n.value = zero
	n.kind = entryHollow
	return n.key, value, true
}

// removeLRU is like evictLRU but deletes the key entirely, leaving no
// placeholder. Used when the caller discards the value instead of moving it
// to compressed storage.
func (s *recencyStore[K, V]) removeLRU() (key K, value V, ok bool) {
	n := s.tail
	if n == nil {
		var zeroK K
		var zeroV V
		return zeroK, zeroV, false
	}
	s.unlink(n)
	s.live--
	delete(s.index, n.key)
	return n.key, n.value, true
}

// getOrRepopulate returns the value for key, touching recency. A hollow
// entry is materialized through onHollow and promoted to live, most recent.
// An absent key yields (nil, false, nil). If onHollow fails, the entry is
// left hollow and untouched.
func (s *recencyStore[K, V]) getOrRepopulate(key K, onHollow func() (V, error)) (value *V, wasLive bool, err error) {
	n, ok := s.index[key]
	if !ok {
		return nil, false, nil
	}
	if n.kind == entryLive {
		s.moveFront(n)
		return &n.value, true, nil
	}
	v, err := onHollow()
	if err != nil {
		return nil, false, err
	}
	n.value = v
	n.kind = entryLive
	s.linkFront(n)
	s.live++
	return &n.value, false, nil
}

// getOrInsert is getOrRepopulate with an extra materializer for absent keys,
// so it always yields a value unless a materializer fails.
func (s *recencyStore[K, V]) getOrInsert(key K, onHollow, onAbsent func() (V, error)) (*V, error) {
	if _, ok := s.index[key]; ok {
		v, _, err := s.getOrRepopulate(key, onHollow)
		return v, err
	}
	v, err := onAbsent()
	if err != nil {
		return nil, err
	}
	n := &lruNode[K, V]{key: key, value: v, kind: entryLive}
	s.index[key] = n
	s.linkFront(n)
	s.live++
	return &n.value, nil
}

// peek is the read-only lookup used under shared access: it never mutates
// recency. value is nil for a hollow entry.
func (s *recencyStore[K, V]) peek(key K) (value *V, kind entryKind, ok bool) {
	n, found := s.index[key]
	if !found {
		return nil, entryLive, false
	}
	if n.kind == entryHollow {
		return nil, entryHollow, true
	}
	return &n.value, entryLive, true
}

// touch bumps recency for a key already known to be live. It refuses to
// materialize anything: hollow and absent keys return (nil, false).
func (s *recencyStore[K, V]) touch(key K) (*V, bool) {
	n, ok := s.index[key]
	if !ok || n.kind != entryLive {
		return nil, false
	}
	s.moveFront(n)
	return &n.value, true
}

// remove deletes the key's entry entirely, whatever its state.
func (s *recencyStore[K, V]) remove(key K) (st entryState[V], ok bool) {
	n, found := s.index[key]
	if !found {
		return entryState[V]{}, false
	}
	if n.kind == entryLive {
		s.unlink(n)
		s.live--
	}
	delete(s.index, key)
	return entryState[V]{value: n.value, kind: n.kind}, true
}

func (s *recencyStore[K, V]) clear() {
	s.index = make(map[K]*lruNode[K, V])
	s.head = nil
	s.tail = nil
	s.live = 0
}

// lenLive returns the number of live entries.
func (s *recencyStore[K, V]) lenLive() int {
	return s.live
}

// len returns the total number of keys, live and hollow.
func (s *recencyStore[K, V]) len() int {
	return len(s.index)
}

// keys returns every key, live and hollow, in no particular order.
func (s *recencyStore[K, V]) keys() []K {
	out := make([]K, 0, len(s.index))
	for k := range s.index {
		out = append(out, k)
	}
	return out
}

// eachLive visits every live entry from most to least recent. Returning
// false from fn stops the walk.
func (s *recencyStore[K, V]) eachLive(fn func(key K, value *V) bool) {
	for n := s.head; n != nil; n = n.next {
		if !fn(n.key, &n.value) {
			return
		}
	}
}

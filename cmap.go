// cmap.go: compressible map facade
//
// Map composes the recency store, the compressed side store and a Codec into
// one associative container. It is the only component that knows about
// compression. Writes and single-owner reads go straight through the recency
// store, promoting and demoting entries inline; concurrent read-only access
// goes through GetConst, which records everything in a per-goroutine
// AccessBuffer and leaves the shared state untouched until Flush.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package atlas

import (
	"sync/atomic"
)

// Map is a hash map that can compress its least recently used values.
// Useful when you need to keep a lot of large values in memory: the most
// recently used values stay decompressed in a strict LRU cache, and
// CompressLRU (or Compact) moves the coldest one into the compressed store.
//
// Any exclusive-mode access that hits a compressed entry decompresses and
// re-caches the value inline. Call Get to prefetch a key and avoid that
// latency on later accesses.
//
// Shared read-only access (GetConst from many goroutines) cannot update the
// map; it records accesses in an AccessBuffer that is merged back later with
// Flush. See the package documentation for the two access modes.
//
// For all keys at any quiescent point exactly one of these holds: the key is
// live in the recency store, or it is hollow with its compressed form in the
// side store, or it is absent from both. Every operation preserves this; a
// codec failure aborts before any state transition.
type Map[K comparable, V, C any] struct {
	cache      *recencyStore[K, V]
	compressed map[K]C
	codec      Codec[V, C]

	logger     Logger
	clock      TimeProvider
	metrics    MetricsCollector
	maxCached  int
	onCompress func(key interface{})
	onEvict    func(key interface{})

	// Atomic statistics counters. GetConst bumps these from many
	// goroutines at once, so even exclusive-mode operations go through
	// atomics for consistency.
	hits           int64
	misses         int64
	compressions   int64
	decompressions int64
	evictions      int64
	flushes        int64
}

// New creates an empty Map using codec for all compression and decompression.
//
// Parameters:
//   - codec: the compression capability for V (must not be nil)
//   - cfg: map configuration (Logger, MetricsCollector, MaxCached, ...)
//
// The key type K is usually given explicitly while V and C are inferred from
// the codec:
//
//	codec, _ := atlas.NewGobZstdCodec[Document](atlas.DefaultZstdLevel)
//	m, err := atlas.New[string](codec, atlas.DefaultConfig())
func New[K comparable, V, C any](codec Codec[V, C], cfg Config) (*Map[K, V, C], error) {
	if codec == nil {
		return nil, NewErrInvalidCodec("New")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Map[K, V, C]{
		cache:      newRecencyStore[K, V](),
		compressed: make(map[K]C),
		codec:      codec,
		logger:     cfg.Logger,
		clock:      cfg.TimeProvider,
		metrics:    cfg.MetricsCollector,
		maxCached:  cfg.MaxCached,
		onCompress: cfg.OnCompress,
		onEvict:    cfg.OnEvict,
	}, nil
}

// FromCompressed bulk-seeds a new Map from externally produced compressed
// entries. Every seeded key starts hollow: LenCached() is 0 and
// LenCompressed() equals len(compressed). The map takes ownership of the
// provided map; the caller must not use it afterwards.
func FromCompressed[K comparable, V, C any](codec Codec[V, C], compressed map[K]C, cfg Config) (*Map[K, V, C], error) {
	m, err := New[K](codec, cfg)
	if err != nil {
		return nil, err
	}
	if compressed == nil {
		return m, nil
	}
	for key := range compressed {
		m.cache.markHollow(key)
	}
	m.compressed = compressed
	return m, nil
}

// Codec returns the codec the map was constructed with.
func (m *Map[K, V, C]) Codec() Codec[V, C] {
	return m.codec
}

// =============================================================================
// EXCLUSIVE-MODE WRITES
// =============================================================================

// Set stores value as live and most recent, dropping any previous value for
// the key. A stale compressed copy is removed as well, so an insert can never
// be shadowed later by an old compressed value popping back up.
func (m *Map[K, V, C]) Set(key K, value V) {
	m.cache.insert(key, value)
	delete(m.compressed, key)
}

// SetCompressed directly seeds the compressed store with an externally
// produced representation, marking the key hollow. Whatever was previously
// stored for the key is returned: the old live value if the entry was cached
// (so the caller is spared a decompression), or the old compressed
// representation if it was already hollow.
func (m *Map[K, V, C]) SetCompressed(key K, compressed C) (old MaybeCompressed[V, C], existed bool) {
	oldLive, wasLive := m.cache.markHollow(key)
	oldCompressed, hadCompressed := m.compressed[key]
	m.compressed[key] = compressed

	if hadCompressed {
		return MaybeCompressed[V, C]{Compressed: oldCompressed, IsCompressed: true}, true
	}
	if wasLive {
		return MaybeCompressed[V, C]{Value: oldLive}, true
	}
	return MaybeCompressed[V, C]{}, false
}

// Replace is like Set but returns the previous value, decompressing it first
// if the entry was hollow. A decompression failure leaves the new value in
// place (the write itself has already happened) and reports the old value as
// lost.
func (m *Map[K, V, C]) Replace(key K, value V) (old V, existed bool, err error) {
	var zero V

	prev, existed := m.cache.insert(key, value)
	if !existed {
		return zero, false, nil
	}
	if prev.kind == entryLive {
		return prev.value, true, nil
	}

	c, ok := m.compressed[key]
	if !ok {
		return zero, true, newErrMissingCompressed("Replace", key)
	}
	delete(m.compressed, key)

	old, err = m.decompress(key, c)
	if err != nil {
		return zero, true, err
	}
	return old, true, nil
}

// =============================================================================
// EVICTION
// =============================================================================

// CompressLRU moves the least recently used live value into the compressed
// store. No-op when nothing is live. If the codec fails, the entry stays
// live and untouched.
func (m *Map[K, V, C]) CompressLRU() error {
	key, value, ok := m.cache.peekLRU()
	if !ok {
		return nil
	}

	start := m.clock.Now()
	c, err := m.codec.Compress(*value)
	if err != nil {
		return NewErrCompressFailed(key, err)
	}
	m.metrics.RecordCompress(m.clock.Now() - start)
	atomic.AddInt64(&m.compressions, 1)

	m.cache.evictLRU()
	m.compressed[key] = c

	atomic.AddInt64(&m.evictions, 1)
	m.metrics.RecordEviction()
	if m.onCompress != nil {
		m.onCompress(key)
	}
	return nil
}

// RemoveLRU discards the least recently used live entry entirely, bypassing
// compression. Use for permanent deletion under memory pressure. Returns
// false when nothing is live.
func (m *Map[K, V, C]) RemoveLRU() (key K, value V, ok bool) {
	key, value, ok = m.cache.removeLRU()
	if !ok {
		return key, value, false
	}

	atomic.AddInt64(&m.evictions, 1)
	m.metrics.RecordEviction()
	if m.onEvict != nil {
		m.onEvict(key)
	}
	return key, value, true
}

// Compact compresses LRU entries until the live count is within the
// configured MaxCached budget. With MaxCached 0 (unbounded) it is a no-op.
func (m *Map[K, V, C]) Compact() error {
	if m.maxCached <= 0 {
		return nil
	}
	return m.CompactTo(m.maxCached)
}

// CompactTo compresses LRU entries until at most maxCached remain live.
// maxCached <= 0 compresses everything.
func (m *Map[K, V, C]) CompactTo(maxCached int) error {
	if maxCached < 0 {
		maxCached = 0
	}

	before := m.cache.lenLive()
	for m.cache.lenLive() > maxCached {
		if err := m.CompressLRU(); err != nil {
			return err
		}
	}
	if compacted := before - m.cache.lenLive(); compacted > 0 {
		m.logger.Debug("compacted live entries",
			"compressed", compacted, "remaining", m.cache.lenLive(), "budget", maxCached)
	}
	return nil
}

// =============================================================================
// EXCLUSIVE-MODE READS
// =============================================================================

// GetMut returns a pointer to the value for key, promoting it to most
// recent. A hollow entry is decompressed, removed from the compressed store
// and re-cached inline. Returns (nil, nil) for an absent key.
//
// The pointer stays valid until the key's value is next evicted, removed or
// replaced; it must not be retained across such operations.
func (m *Map[K, V, C]) GetMut(key K) (*V, error) {
	start := m.clock.Now()

	value, wasLive, err := m.cache.getOrRepopulate(key, func() (V, error) {
		return m.takeCompressed("GetMut", key)
	})
	if err != nil {
		return nil, err
	}
	if value == nil {
		atomic.AddInt64(&m.misses, 1)
		m.metrics.RecordGet(m.clock.Now()-start, false)
		return nil, nil
	}

	m.recordHit(start, wasLive)
	return value, nil
}

// Get is GetMut with the reference downgraded for read-only use. It still
// promotes the entry, so it doubles as a prefetch into the live cache.
func (m *Map[K, V, C]) Get(key K) (*V, error) {
	return m.GetMut(key)
}

// GetOrSet returns the value for key, materializing an absent key with
// onMissing. Hollow entries are decompressed and promoted exactly like
// GetMut; only a truly absent key invokes onMissing.
func (m *Map[K, V, C]) GetOrSet(key K, onMissing func() (V, error)) (*V, error) {
	start := m.clock.Now()

	wasLive := false
	if _, kind, ok := m.cache.peek(key); ok && kind == entryLive {
		wasLive = true
	}

	value, err := m.cache.getOrInsert(key,
		func() (V, error) {
			return m.takeCompressed("GetOrSet", key)
		},
		onMissing)
	if err != nil {
		return nil, err
	}

	m.recordHit(start, wasLive)
	return value, nil
}

// GetCopy returns a copy of the value for key without promoting it to the
// live cache, decompressing if necessary without touching the stored
// representation. Intended for read-modify-write flows that will Set the
// result back anyway, where a cache promotion would be wasted.
//
// The copy is a plain assignment copy; values containing pointers or slices
// still share underlying storage with the map.
func (m *Map[K, V, C]) GetCopy(key K) (value V, found bool, err error) {
	var zero V

	ptr, kind, ok := m.cache.peek(key)
	if !ok {
		return zero, false, nil
	}
	if kind == entryLive {
		return *ptr, true, nil
	}

	c, ok := m.compressed[key]
	if !ok {
		return zero, false, newErrMissingCompressed("GetCopy", key)
	}
	value, err = m.decompress(key, c)
	if err != nil {
		return zero, false, err
	}
	return value, true, nil
}

// =============================================================================
// SHARED-MODE READS AND MERGE
// =============================================================================

// GetConst is the shared read path: many goroutines may call it concurrently
// on one map, each with its own AccessBuffer. The shared state is never
// mutated. A live hit returns a pointer into the shared store and records a
// recency touch to replay later; a compressed hit is decompressed into the
// buffer (the compressed store keeps its entry) and the buffer's private
// copy is returned. Absent keys return (nil, nil).
//
// Returned pointers stay valid for the lifetime of the buffer, even as later
// reads grow it.
func (m *Map[K, V, C]) GetConst(key K, buffer *AccessBuffer[K, V]) (*V, error) {
	start := m.clock.Now()

	value, kind, ok := m.cache.peek(key)
	if !ok {
		atomic.AddInt64(&m.misses, 1)
		m.metrics.RecordGet(m.clock.Now()-start, false)
		return nil, nil
	}

	if kind == entryLive {
		buffer.rememberHit(key)
		m.recordHit(start, true)
		return value, nil
	}

	v, err := buffer.getOrDecompress(key, func() (V, error) {
		c, found := m.compressed[key]
		if !found {
			var zero V
			return zero, newErrMissingCompressed("GetConst", key)
		}
		return m.decompress(key, c)
	})
	if err != nil {
		return nil, err
	}
	m.recordHit(start, false)
	return v, nil
}

// Flush merges an AccessBuffer back into the map, consuming it. Requires
// exclusive access. Each remembered hit replays a recency touch (silently
// skipped if the key is no longer live); each privately decompressed value
// promotes its key to live, most recent, and drops the now-redundant
// compressed copy.
//
// A buffered value is not re-validated against exclusive-mode mutations that
// happened after the shared read: flushing can resurrect a value whose
// compressed form was since replaced through SetCompressed. Under the
// intended discipline (no exclusive mutations between the shared phase and
// the flushes) this cannot occur. A key that is already live again keeps its
// current value; the buffered copy is dropped.
func (m *Map[K, V, C]) Flush(buffer *AccessBuffer[K, V]) {
	replayed := buffer.Len()

	buffer.drain(func(key K, value *V) {
		if value == nil {
			// Remembered hit: just reflect the access in recency order.
			m.cache.touch(key)
			return
		}
		// The closure only runs when the entry is still hollow, so a
		// newer live value is never clobbered.
		m.cache.getOrRepopulate(key, func() (V, error) {
			delete(m.compressed, key)
			return *value, nil
		})
	})

	atomic.AddInt64(&m.flushes, 1)
	m.metrics.RecordFlush(replayed)
}

// =============================================================================
// REMOVAL
// =============================================================================

// Drop deletes key from both stores, discarding the value in whatever state
// it is in.
func (m *Map[K, V, C]) Drop(key K) {
	m.cache.remove(key)
	delete(m.compressed, key)
}

// Remove deletes key and returns its value, decompressing it first if the
// entry was hollow. Returns found=false for an absent key. On a codec
// failure nothing is removed.
func (m *Map[K, V, C]) Remove(key K) (value V, found bool, err error) {
	var zero V

	ptr, kind, ok := m.cache.peek(key)
	if !ok {
		return zero, false, nil
	}

	if kind == entryLive {
		value = *ptr
		m.cache.remove(key)
		return value, true, nil
	}

	c, ok := m.compressed[key]
	if !ok {
		return zero, false, newErrMissingCompressed("Remove", key)
	}
	value, err = m.decompress(key, c)
	if err != nil {
		return zero, false, err
	}
	m.cache.remove(key)
	delete(m.compressed, key)
	return value, true, nil
}

// Clear removes all entries from both stores and resets statistics.
func (m *Map[K, V, C]) Clear() {
	m.cache.clear()
	m.compressed = make(map[K]C)

	atomic.StoreInt64(&m.hits, 0)
	atomic.StoreInt64(&m.misses, 0)
	atomic.StoreInt64(&m.compressions, 0)
	atomic.StoreInt64(&m.decompressions, 0)
	atomic.StoreInt64(&m.evictions, 0)
	atomic.StoreInt64(&m.flushes, 0)
}

// =============================================================================
// AGGREGATE QUERIES AND ITERATION
// =============================================================================

// Len returns the total number of keys, live and compressed.
func (m *Map[K, V, C]) Len() int {
	return m.LenCached() + m.LenCompressed()
}

// LenCached returns the number of live (decompressed) entries.
func (m *Map[K, V, C]) LenCached() int {
	return m.cache.lenLive()
}

// LenCompressed returns the number of compressed entries.
func (m *Map[K, V, C]) LenCompressed() int {
	return len(m.compressed)
}

// IsEmpty reports whether the map holds no keys at all.
func (m *Map[K, V, C]) IsEmpty() bool {
	return m.Len() == 0
}

// Keys returns every key, live and hollow, in no particular order.
func (m *Map[K, V, C]) Keys() []K {
	return m.cache.keys()
}

// Range calls fn for every entry without forcing decompression: live entries
// arrive as values, compressed ones as their representation. Returning false
// stops the walk. Recency order is not affected.
func (m *Map[K, V, C]) Range(fn func(key K, entry MaybeCompressed[V, C]) bool) {
	stopped := false
	m.cache.eachLive(func(key K, value *V) bool {
		if !fn(key, MaybeCompressed[V, C]{Value: *value}) {
			stopped = true
			return false
		}
		return true
	})
	if stopped {
		return
	}
	for key, c := range m.compressed {
		if !fn(key, MaybeCompressed[V, C]{Compressed: c, IsCompressed: true}) {
			return
		}
	}
}

// Drain is the consuming iteration: it visits every entry like Range and
// leaves the map empty afterwards, whether or not fn stopped the walk early.
func (m *Map[K, V, C]) Drain(fn func(key K, entry MaybeCompressed[V, C]) bool) {
	m.Range(fn)
	m.Clear()
}

// Stats returns a snapshot of map statistics.
func (m *Map[K, V, C]) Stats() Stats {
	return Stats{
		Hits:           uint64(atomic.LoadInt64(&m.hits)),           // #nosec G115 - stats counters are always positive
		Misses:         uint64(atomic.LoadInt64(&m.misses)),         // #nosec G115 - stats counters are always positive
		Compressions:   uint64(atomic.LoadInt64(&m.compressions)),   // #nosec G115 - stats counters are always positive
		Decompressions: uint64(atomic.LoadInt64(&m.decompressions)), // #nosec G115 - stats counters are always positive
		Evictions:      uint64(atomic.LoadInt64(&m.evictions)),      // #nosec G115 - stats counters are always positive
		Flushes:        uint64(atomic.LoadInt64(&m.flushes)),        // #nosec G115 - stats counters are always positive
		Cached:         m.LenCached(),
		Compressed:     m.LenCompressed(),
	}
}

// =============================================================================
// INTERNAL HELPERS
// =============================================================================

// decompress runs the codec with latency accounting. It never mutates the
// stores, so it is safe on the shared read path.
func (m *Map[K, V, C]) decompress(key K, c C) (V, error) {
	start := m.clock.Now()
	value, err := m.codec.Decompress(c)
	if err != nil {
		var zero V
		return zero, NewErrDecompressFailed(key, err)
	}
	m.metrics.RecordDecompress(m.clock.Now() - start)
	atomic.AddInt64(&m.decompressions, 1)
	return value, nil
}

// takeCompressed decompresses the representation for a hollow key and
// removes it from the compressed store. The removal happens only after a
// successful decompression so a failure leaves the entry intact.
func (m *Map[K, V, C]) takeCompressed(operation string, key K) (V, error) {
	c, ok := m.compressed[key]
	if !ok {
		var zero V
		return zero, newErrMissingCompressed(operation, key)
	}
	value, err := m.decompress(key, c)
	if err != nil {
		return value, err
	}
	delete(m.compressed, key)
	return value, nil
}

// recordHit accounts one successful read. live distinguishes a cache hit
// from a decompression on the miss path.
func (m *Map[K, V, C]) recordHit(start int64, live bool) {
	if live {
		atomic.AddInt64(&m.hits, 1)
	} else {
		atomic.AddInt64(&m.misses, 1)
	}
	m.metrics.RecordGet(m.clock.Now()-start, live)
}

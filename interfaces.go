// interfaces.go: public interfaces for Atlas
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package atlas

// Codec compresses values of type V into an opaque representation C and back.
// Implementations must be deterministic: compressing the same value with the
// same parameters always yields an equivalent representation, and
// Decompress(Compress(v)) == v for every well-formed v.
//
// Codec parameters (compression level, dictionary, ...) are fixed at
// construction time and must never change afterwards; a Map assumes the codec
// it was built with behaves identically for its whole lifetime.
//
// There are no retry, streaming or partial-decompression semantics: a failure
// from either method is fatal to the operation that triggered it.
type Codec[V, C any] interface {
	// Compress turns a value into its compressed representation.
	Compress(value V) (C, error)

	// Decompress is the inverse of Compress. A corrupt or truncated
	// representation is a data-integrity error, not a retryable condition.
	Decompress(compressed C) (V, error)
}

// BytesCompressor is a compression algorithm that acts directly on a slice of
// bytes. It is the building block for codecs that first serialize a value to
// bytes and then block-compress the result (see GobCodec).
type BytesCompressor interface {
	// CompressBytes compresses src into a freshly allocated slice.
	CompressBytes(src []byte) ([]byte, error)

	// DecompressBytes reverses CompressBytes.
	DecompressBytes(src []byte) ([]byte, error)
}

// Logger defines a minimal logging interface with zero overhead.
// Implementations should use structured logging and be allocation-free.
type Logger interface {
	// Debug logs a debug message with optional key-value pairs.
	Debug(msg string, keyvals ...interface{})

	// Info logs an info message with optional key-value pairs.
	Info(msg string, keyvals ...interface{})

	// Warn logs a warning message with optional key-value pairs.
	Warn(msg string, keyvals ...interface{})

	// Error logs an error message with optional key-value pairs.
	Error(msg string, keyvals ...interface{})
}

// NoOpLogger is a logger that does nothing. Used as default to avoid nil checks.
type NoOpLogger struct{}

// Debug does nothing (no-op implementation).
func (NoOpLogger) Debug(msg string, keyvals ...interface{}) {}

// Info does nothing (no-op implementation).
func (NoOpLogger) Info(msg string, keyvals ...interface{}) {}

// Warn does nothing (no-op implementation).
func (NoOpLogger) Warn(msg string, keyvals ...interface{}) {}

// Error does nothing (no-op implementation).
func (NoOpLogger) Error(msg string, keyvals ...interface{}) {}

// TimeProvider provides current time with caching for performance.
// This interface allows injecting optimized time implementations.
type TimeProvider interface {
	// Now returns the current time in nanoseconds since epoch.
	// This method must be very fast and allocation-free.
	Now() int64
}

// MetricsCollector defines an interface for collecting map operation metrics.
// Implementations can send metrics to Prometheus, DataDog, StatsD, or other
// monitoring systems. This interface is designed for zero overhead when the
// NoOp implementation is used.
//
// Thread-safety: GetConst calls these methods from many goroutines at once,
// so all methods must be safe for concurrent use.
type MetricsCollector interface {
	// RecordGet records a read operation with its latency and hit/miss result.
	// hit is true when the key was found live, false for a compressed or
	// absent key.
	RecordGet(latencyNs int64, hit bool)

	// RecordCompress records one value compression with its latency.
	RecordCompress(latencyNs int64)

	// RecordDecompress records one value decompression with its latency.
	RecordDecompress(latencyNs int64)

	// RecordEviction records an entry leaving the live cache, either into
	// the compressed store (CompressLRU) or permanently (RemoveLRU).
	RecordEviction()

	// RecordFlush records one AccessBuffer merge with the number of
	// accesses it replayed.
	RecordFlush(entries int)
}

// NoOpMetricsCollector is a metrics collector that does nothing.
// Used as default to avoid nil checks and ensure zero overhead.
type NoOpMetricsCollector struct{}

// RecordGet does nothing. Inlined by compiler.
func (NoOpMetricsCollector) RecordGet(latencyNs int64, hit bool) {}

// RecordCompress does nothing. Inlined by compiler.
func (NoOpMetricsCollector) RecordCompress(latencyNs int64) {}

// RecordDecompress does nothing. Inlined by compiler.
func (NoOpMetricsCollector) RecordDecompress(latencyNs int64) {}

// RecordEviction does nothing. Inlined by compiler.
func (NoOpMetricsCollector) RecordEviction() {}

// RecordFlush does nothing. Inlined by compiler.
func (NoOpMetricsCollector) RecordFlush(entries int) {}

// Stats provides statistics about map activity.
type Stats struct {
	// Hits is the number of reads that found a live value
	Hits uint64

	// Misses is the number of reads that found a compressed or absent value
	Misses uint64

	// Compressions is the number of values moved into the compressed store
	Compressions uint64

	// Decompressions is the number of values reconstructed from the
	// compressed store, including private decompressions done by GetConst
	Decompressions uint64

	// Evictions is the number of entries that left the live cache
	Evictions uint64

	// Flushes is the number of AccessBuffer merges applied
	Flushes uint64

	// Cached is the current number of live (decompressed) entries
	Cached int

	// Compressed is the current number of compressed entries
	Compressed int
}

// HitRatio returns the live-hit ratio as a percentage (0-100).
// Returns 0.0 if no read operations have been performed yet.
// Formula: (Hits / (Hits + Misses)) * 100
func (s Stats) HitRatio() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total) * 100
}

// CompressedRatio returns the share of entries currently compressed as a
// percentage (0-100). Returns 0.0 for an empty map.
func (s Stats) CompressedRatio() float64 {
	total := s.Cached + s.Compressed
	if total == 0 {
		return 0
	}
	return float64(s.Compressed) / float64(total) * 100
}

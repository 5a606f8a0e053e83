// Package atlas provides an in-memory map that transparently compresses its
// least recently used values.
//
// # Overview
//
// Atlas is designed for workloads that hold many large values (big buffers,
// parsed documents, decoded assets) where most values are cold most of the
// time. The most recently used values stay decompressed in a strict LRU
// cache; everything else can be moved into a compressed side store with
// CompressLRU or Compact and is decompressed again transparently on access.
//
// # Features
//
//   - Two-Tier Storage: live LRU cache plus compressed side store behind one map API
//   - Type-Safe Generics: Map[K comparable, V, C any]
//   - Pluggable Compression: Codec interface with Zstd, Snappy and gob-based backends
//   - Lock-Free Shared Reads: GetConst with per-goroutine AccessBuffer, merged back with Flush
//   - Bulk Seeding: FromCompressed builds a map directly from compressed entries
//   - Structured Errors: rich error context with error codes
//   - Metrics Collection: MetricsCollector interface for observability
//   - Hot Budget Reload: optional file-watched memory budget via Argus
//
// # Quick Start
//
// Basic usage with the gob+zstd codec:
//
//	codec, _ := atlas.NewGobZstdCodec[[]byte](atlas.DefaultZstdLevel)
//	m, _ := atlas.New[string](codec, atlas.DefaultConfig())
//
//	m.Set("blob", make([]byte, 1<<20))
//	_ = m.CompressLRU() // "blob" is now stored compressed
//
//	v, _ := m.Get("blob") // decompressed and promoted back to the cache
//	_ = v
//
// # Access Modes
//
// A Map has two access modes that must never be mixed at the same instant:
//
// Exclusive mode (one owning goroutine): Set, Get, GetMut, CompressLRU,
// RemoveLRU, Remove, Clear, Flush and friends freely mutate the map. No
// internal locking is performed; exclusivity is the caller's responsibility.
//
// Shared read-only mode (many goroutines): only GetConst and GetCopy may run
// concurrently against the same map. Each goroutine uses its own
// AccessBuffer; after the shared phase the owner merges every buffer back
// exactly once with Flush, which replays recency touches and promotes
// privately decompressed values.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package atlas

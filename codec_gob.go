// codec_gob.go: generic serialize-then-compress codec
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package atlas

import (
	"bytes"
	"encoding/gob"
)

// GobCodec is a Codec for any gob-encodable value type: the value is
// serialized with encoding/gob and the resulting bytes are run through a
// BytesCompressor. This is the portable default when you don't want to write
// a custom Codec for your value type.
//
// Determinism note: gob encoding of a given Go value is stable for a fixed
// type, which keeps the codec deterministic as Map requires.
type GobCodec[V any] struct {
	compressor BytesCompressor
}

// NewGobCodec creates a codec that serializes values with gob and compresses
// the bytes with the given compressor.
func NewGobCodec[V any](compressor BytesCompressor) (*GobCodec[V], error) {
	if compressor == nil {
		return nil, NewErrInvalidCodec("NewGobCodec")
	}
	return &GobCodec[V]{compressor: compressor}, nil
}

// NewGobZstdCodec creates a GobCodec backed by zstd at the given level.
func NewGobZstdCodec[V any](level int) (*GobCodec[V], error) {
	z, err := NewZstd(level)
	if err != nil {
		return nil, err
	}
	return &GobCodec[V]{compressor: z}, nil
}

// NewGobSnappyCodec creates a GobCodec backed by the Snappy compressor.
func NewGobSnappyCodec[V any]() *GobCodec[V] {
	return &GobCodec[V]{compressor: NewSnappy()}
}

// Compress serializes value with gob and block-compresses the bytes.
func (g *GobCodec[V]) Compress(value V) (Compressed[V], error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(&value); err != nil {
		return Compressed[V]{}, NewErrCompressFailed("gob encode", err)
	}

	out, err := g.compressor.CompressBytes(buf.Bytes())
	if err != nil {
		return Compressed[V]{}, err
	}
	return Compressed[V]{Bytes: out}, nil
}

// Decompress reverses Compress. Corrupt compressed bytes or a gob stream
// that no longer matches V are fatal, per the codec contract.
func (g *GobCodec[V]) Decompress(compressed Compressed[V]) (V, error) {
	var value V

	raw, err := g.compressor.DecompressBytes(compressed.Bytes)
	if err != nil {
		return value, err
	}

	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&value); err != nil {
		return value, NewErrCorruptedData("gob decode", err)
	}
	return value, nil
}

// codec.go: compressed value envelopes
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package atlas

// Compressed is the opaque representation produced by the bundled
// serialize-then-compress codecs. The type parameter ties a blob to the value
// type it encodes, so a Compressed[User] cannot be fed to a Map of Documents
// by accident.
type Compressed[V any] struct {
	// Bytes holds the block-compressed serialized value.
	Bytes []byte
}

// Len returns the size of the compressed representation in bytes.
func (c Compressed[V]) Len() int {
	return len(c.Bytes)
}

// MaybeCompressed is one entry as seen by Range and Drain: either a
// decompressed value or its still-compressed representation. Iteration never
// forces decompression; the caller decides whether to decompress.
type MaybeCompressed[V, C any] struct {
	// Value is set when IsCompressed is false.
	Value V

	// Compressed is set when IsCompressed is true.
	Compressed C

	// IsCompressed reports which of the two fields is meaningful.
	IsCompressed bool
}

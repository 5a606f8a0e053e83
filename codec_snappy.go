// codec_snappy.go: snappy byte compressor
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package atlas

import (
	"github.com/klauspost/compress/s2"
)

// Snappy is a BytesCompressor producing Snappy-compatible blocks via the s2
// package. It is stateless and safe for concurrent use. Compared to Zstd it
// trades compression ratio for speed; a good fit when values are accessed in
// bursts and decompression latency matters more than footprint.
type Snappy struct{}

// NewSnappy creates a snappy compressor.
func NewSnappy() Snappy {
	return Snappy{}
}

// CompressBytes compresses src as a Snappy-format block.
func (Snappy) CompressBytes(src []byte) ([]byte, error) {
	return s2.EncodeSnappy(nil, src), nil
}

// DecompressBytes reverses CompressBytes. A malformed block is reported as
// corrupted data.
func (Snappy) DecompressBytes(src []byte) ([]byte, error) {
	out, err := s2.Decode(nil, src)
	if err != nil {
		return nil, NewErrCorruptedData("snappy block", err)
	}
	return out, nil
}

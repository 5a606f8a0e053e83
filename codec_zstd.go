// codec_zstd.go: zstd byte compressor
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package atlas

import (
	"github.com/klauspost/compress/zstd"
)

// Zstd is a BytesCompressor backed by klauspost's zstd implementation.
// One Zstd instance holds a reusable encoder/decoder pair; EncodeAll and
// DecodeAll are safe for concurrent use, so a single instance can serve the
// shared read phase.
type Zstd struct {
	enc *zstd.Encoder
	dec *zstd.Decoder
}

// NewZstd creates a zstd compressor with the given level (MinZstdLevel to
// MaxZstdLevel, see DefaultZstdLevel).
func NewZstd(level int) (*Zstd, error) {
	if level < MinZstdLevel || level > MaxZstdLevel {
		return nil, NewErrInvalidZstdLevel(level)
	}

	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)))
	if err != nil {
		return nil, NewErrInternal("NewZstd", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, NewErrInternal("NewZstd", err)
	}

	return &Zstd{enc: enc, dec: dec}, nil
}

// CompressBytes compresses src as a zstd frame.
func (z *Zstd) CompressBytes(src []byte) ([]byte, error) {
	return z.enc.EncodeAll(src, nil), nil
}

// DecompressBytes reverses CompressBytes. A malformed frame is reported as
// corrupted data.
func (z *Zstd) DecompressBytes(src []byte) ([]byte, error) {
	out, err := z.dec.DecodeAll(src, nil)
	if err != nil {
		return nil, NewErrCorruptedData("zstd frame", err)
	}
	return out, nil
}

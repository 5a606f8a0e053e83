// atlas.go: version and default tunables
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package atlas

const (
	// Version of the Atlas compressible map library
	Version = "v0.1.0-dev"

	// DefaultZstdLevel is the default zstd compression level used by the
	// bundled codecs. Level 3 matches zstd's own default and is the usual
	// sweet spot between ratio and compression speed for large values.
	DefaultZstdLevel = 3

	// MinZstdLevel and MaxZstdLevel bound the accepted zstd levels.
	MinZstdLevel = 1
	MaxZstdLevel = 22

	// DefaultMaxCached is the default live-entry budget used by Compact.
	// Zero means unbounded: nothing is compressed unless the caller asks.
	DefaultMaxCached = 0
)

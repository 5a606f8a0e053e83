// errors.go: comprehensive error handling for Atlas map operations
//
// This file provides structured error types using the go-errors library,
// enabling rich error context, categorization, and standardized error codes
// for all map and codec operations.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package atlas

import (
	goerrors "errors"
	"fmt"

	"github.com/agilira/go-errors"
)

// Error codes for Atlas map operations
const (
	// Configuration errors (1xxx)
	ErrCodeInvalidConfig    errors.ErrorCode = "ATLAS_INVALID_CONFIG"
	ErrCodeInvalidCodec     errors.ErrorCode = "ATLAS_INVALID_CODEC"
	ErrCodeInvalidZstdLevel errors.ErrorCode = "ATLAS_INVALID_ZSTD_LEVEL"

	// Codec errors (2xxx)
	ErrCodeCompressFailed   errors.ErrorCode = "ATLAS_COMPRESS_FAILED"
	ErrCodeDecompressFailed errors.ErrorCode = "ATLAS_DECOMPRESS_FAILED"
	ErrCodeCorruptedData    errors.ErrorCode = "ATLAS_CORRUPTED_DATA"

	// Internal errors (5xxx)
	ErrCodeInternalError errors.ErrorCode = "ATLAS_INTERNAL_ERROR"
)

// Common error messages
const (
	msgInvalidCodec     = "codec cannot be nil"
	msgInvalidZstdLevel = "invalid zstd level"
	msgCompressFailed   = "failed to compress value"
	msgDecompressFailed = "failed to decompress value"
	msgCorruptedData    = "corrupted compressed data"
	msgInternalError    = "internal map error"
)

// =============================================================================
// CONFIGURATION ERRORS
// =============================================================================

// NewErrInvalidCodec creates an error for a nil codec.
func NewErrInvalidCodec(operation string) error {
	return errors.NewWithField(ErrCodeInvalidCodec, msgInvalidCodec, "operation", operation)
}

// NewErrInvalidZstdLevel creates an error for an out-of-range zstd level.
func NewErrInvalidZstdLevel(level int) error {
	return errors.NewWithContext(ErrCodeInvalidZstdLevel, msgInvalidZstdLevel, map[string]interface{}{
		"provided_level": level,
		"valid_range":    fmt.Sprintf("%d-%d", MinZstdLevel, MaxZstdLevel),
	})
}

// =============================================================================
// CODEC ERRORS
// =============================================================================

// NewErrCompressFailed creates an error when a codec fails to compress a value.
// Compression is assumed deterministic, so the failure is not retryable: the
// same value will fail the same way again.
func NewErrCompressFailed(key interface{}, cause error) error {
	return errors.Wrap(cause, ErrCodeCompressFailed, msgCompressFailed).
		WithContext("key", fmt.Sprintf("%v", key))
}

// NewErrDecompressFailed creates an error when a codec fails to reconstruct a
// value from its compressed representation.
func NewErrDecompressFailed(key interface{}, cause error) error {
	return errors.Wrap(cause, ErrCodeDecompressFailed, msgDecompressFailed).
		WithContext("key", fmt.Sprintf("%v", key))
}

// NewErrCorruptedData creates an error when compressed bytes cannot be decoded.
func NewErrCorruptedData(details string, cause error) error {
	if cause != nil {
		return errors.Wrap(cause, ErrCodeCorruptedData, msgCorruptedData).
			WithContext("details", details)
	}
	return errors.NewWithField(ErrCodeCorruptedData, msgCorruptedData, "details", details)
}

// =============================================================================
// INTERNAL ERRORS
// =============================================================================

// NewErrInternal creates a generic internal error
func NewErrInternal(operation string, cause error) error {
	if cause != nil {
		return errors.Wrap(cause, ErrCodeInternalError, msgInternalError).
			WithContext("operation", operation).
			WithSeverity("warning")
	}
	return errors.NewWithField(ErrCodeInternalError, msgInternalError, "operation", operation).
		WithSeverity("warning")
}

// newErrMissingCompressed reports a broken store invariant: a hollow entry
// whose compressed representation is gone. This can only happen through
// misuse of the exclusive/shared access discipline.
func newErrMissingCompressed(operation string, key interface{}) error {
	return errors.NewWithContext(ErrCodeInternalError, msgInternalError, map[string]interface{}{
		"operation": operation,
		"key":       fmt.Sprintf("%v", key),
		"details":   "hollow entry has no compressed representation",
	}).WithSeverity("critical")
}

// =============================================================================
// ERROR CHECKING HELPERS
// =============================================================================

// IsCompressError checks if error is a compression failure
func IsCompressError(err error) bool {
	return errors.HasCode(err, ErrCodeCompressFailed)
}

// IsDecompressError checks if error is a decompression failure
func IsDecompressError(err error) bool {
	return errors.HasCode(err, ErrCodeDecompressFailed)
}

// IsCorruptedData checks if error is a corrupted data error
func IsCorruptedData(err error) bool {
	return errors.HasCode(err, ErrCodeCorruptedData)
}

// IsConfigError checks if error is a configuration error
func IsConfigError(err error) bool {
	if err == nil {
		return false
	}
	var coder errors.ErrorCoder
	if goerrors.As(err, &coder) {
		code := coder.ErrorCode()
		return code == ErrCodeInvalidConfig || code == ErrCodeInvalidCodec ||
			code == ErrCodeInvalidZstdLevel
	}
	return false
}

// IsCodecError checks if error originated in a codec
func IsCodecError(err error) bool {
	if err == nil {
		return false
	}
	var coder errors.ErrorCoder
	if goerrors.As(err, &coder) {
		code := coder.ErrorCode()
		return code == ErrCodeCompressFailed || code == ErrCodeDecompressFailed ||
			code == ErrCodeCorruptedData
	}
	return false
}

// GetErrorCode extracts the error code from an error
func GetErrorCode(err error) errors.ErrorCode {
	if err == nil {
		return ""
	}
	var coder errors.ErrorCoder
	if goerrors.As(err, &coder) {
		return coder.ErrorCode()
	}
	return ""
}

// GetErrorContext extracts context from an error
func GetErrorContext(err error) map[string]interface{} {
	if err == nil {
		return nil
	}
	var atlasErr *errors.Error
	if goerrors.As(err, &atlasErr) {
		return atlasErr.Context
	}
	return nil
}

// config.go: configuration for Atlas
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package atlas

import (
	"github.com/agilira/go-timecache"
)

// Config holds configuration parameters for a Map.
//
// Compression parameters (algorithm, level, dictionary) are not part of
// Config: they belong to the Codec the map is constructed with and are
// immutable for the lifetime of the map.
type Config struct {
	// MaxCached is the live-entry budget used by Compact.
	// Zero means unbounded. Default: DefaultMaxCached.
	MaxCached int

	// Logger is used for debugging and monitoring.
	// If nil, NoOpLogger is used. Default: NoOpLogger.
	Logger Logger

	// TimeProvider provides current time for metric latencies.
	// If nil, a default implementation is used. Default: cached system time.
	TimeProvider TimeProvider

	// MetricsCollector is used for collecting operation metrics (latencies,
	// hit/miss rates, compression counts). If nil, NoOpMetricsCollector is
	// used (zero overhead). Default: NoOpMetricsCollector.
	MetricsCollector MetricsCollector

	// OnCompress is called after an entry is moved into the compressed
	// store by CompressLRU or Compact.
	// This callback must be fast and non-blocking.
	OnCompress func(key interface{})

	// OnEvict is called after an entry is permanently discarded by
	// RemoveLRU. This callback must be fast and non-blocking.
	OnEvict func(key interface{})
}

// Validate checks configuration parameters and applies sensible defaults.
// Returns nil (no actual validation errors, only normalization).
//
// This method is automatically called by New and FromCompressed, so you
// typically don't need to call it manually.
//
// Default values applied:
//   - MaxCached: DefaultMaxCached (unbounded) if < 0
//   - Logger: NoOpLogger{} if nil
//   - TimeProvider: systemTimeProvider{} if nil
//   - MetricsCollector: NoOpMetricsCollector{} if nil
func (c *Config) Validate() error {
	if c.MaxCached < 0 {
		c.MaxCached = DefaultMaxCached
	}

	if c.Logger == nil {
		c.Logger = NoOpLogger{}
	}

	if c.TimeProvider == nil {
		c.TimeProvider = &systemTimeProvider{}
	}

	if c.MetricsCollector == nil {
		c.MetricsCollector = NoOpMetricsCollector{}
	}

	return nil
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxCached:        DefaultMaxCached,
		Logger:           NoOpLogger{},
		TimeProvider:     &systemTimeProvider{},
		MetricsCollector: NoOpMetricsCollector{},
	}
}

// systemTimeProvider is the default time provider using go-timecache.
// This provides ~121x faster time access compared to time.Now() with zero allocations.
type systemTimeProvider struct{}

func (t *systemTimeProvider) Now() int64 {
	return timecache.CachedTimeNano()
}

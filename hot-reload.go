// hot-reload.go: dynamic memory budget with Argus integration
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package atlas

import (
	"fmt"
	"sync"
	"time"

	"github.com/agilira/argus"
)

// Budget holds the hot-reloadable memory tunables. It only describes a
// target; nothing is evicted until the owning goroutine applies it.
type Budget struct {
	// MaxCached is the target number of live entries. Zero means unbounded.
	MaxCached int

	// ZstdLevel is the zstd level recommended for newly built codecs.
	// Existing maps keep the codec they were constructed with.
	ZstdLevel int
}

// HotBudget watches a configuration file and keeps the most recently parsed
// Budget available. A Map is single-owner, so HotBudget never touches one
// itself: the owning goroutine reads Budget() at a convenient point and
// applies it with Map.CompactTo. That keeps eviction an explicit call even
// when the budget changes at runtime.
type HotBudget struct {
	watcher *argus.Watcher
	logger  Logger
	mu      sync.RWMutex
	budget  Budget

	// OnReload is called after a budget is successfully reloaded.
	// This callback is optional and must be fast and non-blocking.
	OnReload func(oldBudget, newBudget Budget)
}

// HotBudgetOptions configures hot reload behavior.
type HotBudgetOptions struct {
	// ConfigPath is the path to the configuration file to watch.
	// Supports JSON, YAML, TOML, HCL, INI, Properties formats.
	ConfigPath string

	// PollInterval is how often to check for configuration changes.
	// Default: 1 second. Minimum: 100ms.
	PollInterval time.Duration

	// OnReload is called after a budget is successfully reloaded.
	OnReload func(oldBudget, newBudget Budget)

	// Logger for hot reload operations.
	// If nil, NoOpLogger is used.
	Logger Logger
}

// NewHotBudget creates a hot-reloadable budget watcher.
//
// Example configuration file (YAML):
//
//	map:
//	  max_cached: 256
//	  zstd_level: 3
//
// Supported configuration keys:
//   - map.max_cached (int): target number of live entries (0 = unbounded)
//   - map.zstd_level (int): zstd level for newly built codecs (1-22)
func NewHotBudget(opts HotBudgetOptions) (*HotBudget, error) {
	if opts.ConfigPath == "" {
		return nil, fmt.Errorf("config_path is required")
	}

	if opts.PollInterval == 0 {
		opts.PollInterval = 1 * time.Second
	} else if opts.PollInterval < 100*time.Millisecond {
		opts.PollInterval = 100 * time.Millisecond
	}

	if opts.Logger == nil {
		opts.Logger = NoOpLogger{}
	}

	hb := &HotBudget{
		logger:   opts.Logger,
		OnReload: opts.OnReload,
		budget:   DefaultBudget(),
	}

	argusConfig := argus.Config{
		PollInterval: opts.PollInterval,
	}

	watcher, err := argus.UniversalConfigWatcherWithConfig(opts.ConfigPath, hb.handleConfigChange, argusConfig)
	if err != nil {
		return nil, err
	}
	hb.watcher = watcher

	return hb, nil
}

// DefaultBudget returns the budget used before the first reload.
func DefaultBudget() Budget {
	return Budget{
		MaxCached: DefaultMaxCached,
		ZstdLevel: DefaultZstdLevel,
	}
}

// Start begins watching the configuration file for changes.
// Note: The watcher monitors file changes at the configured PollInterval.
func (hb *HotBudget) Start() error {
	// Check if already running to avoid ARGUS_WATCHER_BUSY error
	if hb.watcher.IsRunning() {
		return nil // Already started
	}
	return hb.watcher.Start()
}

// Stop stops watching the configuration file.
// Returns any error from stopping the watcher.
func (hb *HotBudget) Stop() error {
	return hb.watcher.Stop()
}

// Budget returns the most recently parsed budget (thread-safe).
func (hb *HotBudget) Budget() Budget {
	hb.mu.RLock()
	defer hb.mu.RUnlock()
	return hb.budget
}

// MaxCached is a convenience accessor for the current live-entry target.
func (hb *HotBudget) MaxCached() int {
	return hb.Budget().MaxCached
}

// handleConfigChange is called by Argus when configuration changes.
func (hb *HotBudget) handleConfigChange(configData map[string]interface{}) {
	hb.mu.Lock()
	oldBudget := hb.budget
	newBudget := hb.parseBudget(configData)
	hb.budget = newBudget
	hb.mu.Unlock()

	if oldBudget != newBudget {
		hb.logger.Info("budget reloaded",
			"max_cached", newBudget.MaxCached, "zstd_level", newBudget.ZstdLevel)
	}

	if hb.OnReload != nil {
		hb.OnReload(oldBudget, newBudget)
	}
}

// parseNonNegativeInt extracts a non-negative integer from interface{} value.
// Supports both int and float64 types (YAML/JSON may vary).
func parseNonNegativeInt(value interface{}) (int, bool) {
	switch v := value.(type) {
	case int:
		if v >= 0 {
			return v, true
		}
	case float64:
		if v >= 0 {
			return int(v), true
		}
	}
	return 0, false
}

// parseIntInRange extracts an integer within the specified range [min, max].
// Supports both int and float64 types.
func parseIntInRange(value interface{}, min, max int) (int, bool) {
	switch v := value.(type) {
	case int:
		if v >= min && v <= max {
			return v, true
		}
	case float64:
		if v >= float64(min) && v <= float64(max) {
			return int(v), true
		}
	}
	return 0, false
}

// parseBudget extracts budget values from Argus config data.
func (hb *HotBudget) parseBudget(data map[string]interface{}) Budget {
	budget := DefaultBudget()

	// Extract map section - Argus might nest it or provide it directly
	mapSection, ok := data["map"].(map[string]interface{})
	if !ok {
		// Try if the whole data IS the map section
		if _, hasMaxCached := data["max_cached"]; hasMaxCached {
			mapSection = data
		} else {
			return budget
		}
	}

	if maxCached, ok := parseNonNegativeInt(mapSection["max_cached"]); ok {
		budget.MaxCached = maxCached
	}

	if level, ok := parseIntInRange(mapSection["zstd_level"], MinZstdLevel, MaxZstdLevel); ok {
		budget.ZstdLevel = level
	}

	return budget
}

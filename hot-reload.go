// hot-reload.go: dynamic logger/metrics reconfiguration with Argus
//
// Uses an Argus file watcher to apply config changes to a live Map without
// restarting it, narrowed to the fields a live Map can actually apply
// without disruption: the size of the top-level table is fixed at
// construction — growth always means publishing a whole new successor
// table, never resizing in place — so only the MetricsCollector is
// hot-swapped (driven by metrics_enabled). log_level is forwarded to
// OnReload, the Logger is never changed by a reload, and any other key in a
// reloaded file is ignored.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package nbhashmap

import (
	"time"

	"github.com/agilira/argus"
)

// ReloadableConfig is the subset of a Map's ambient stack that can be
// swapped on a live map without reconstruction.
type ReloadableConfig struct {
	// MetricsEnabled toggles between the supplied MetricsCollector and
	// NoOpMetricsCollector.
	MetricsEnabled bool
	// LogLevel is carried through to OnReload for callers whose Logger
	// implementation supports runtime level changes; the map itself does
	// not interpret it.
	LogLevel string
}

// HotConfig watches a configuration file with Argus and switches a live
// Map's MetricsCollector when it changes. It never changes the Map's Logger.
type HotConfig[K comparable, V comparable] struct {
	target  *Map[K, V]
	watcher *argus.Watcher
	config  ReloadableConfig

	metricsCollector MetricsCollector

	// OnReload is called after a configuration change has been applied.
	// Must be fast and non-blocking.
	OnReload func(old, new ReloadableConfig)
}

// HotConfigOptions configures hot reload behavior.
type HotConfigOptions struct {
	// ConfigPath is the path to the configuration file to watch. Supports
	// JSON, YAML, TOML, HCL, INI, and Properties formats (courtesy of
	// Argus's universal format detection).
	ConfigPath string

	// PollInterval is how often to check for configuration changes.
	// Default: 1 second. Minimum: 100ms.
	PollInterval time.Duration

	// MetricsCollector is swapped in when the reloaded config sets
	// metrics_enabled: true, and swapped out for NoOpMetricsCollector
	// when it is false. A reload whose file omits metrics_enabled applies
	// the last value read (false if no reload has set it). If nil,
	// metrics_enabled is ignored.
	MetricsCollector MetricsCollector

	// OnReload is called after configuration is successfully reloaded.
	OnReload func(old, new ReloadableConfig)
}

// NewHotConfig creates a hot-reloadable watcher for target and starts
// watching opts.ConfigPath immediately.
//
// Supported configuration keys:
//   - metrics_enabled (bool): enable/disable the MetricsCollector supplied
//     in HotConfigOptions
//   - log_level (string): forwarded to OnReload, not interpreted here
func NewHotConfig[K comparable, V comparable](target *Map[K, V], opts HotConfigOptions) (*HotConfig[K, V], error) {
	if opts.ConfigPath == "" {
		return nil, NewErrInvalidConfig("config_path is required")
	}

	if opts.PollInterval == 0 {
		opts.PollInterval = time.Second
	} else if opts.PollInterval < 100*time.Millisecond {
		opts.PollInterval = 100 * time.Millisecond
	}

	hc := &HotConfig[K, V]{
		target:           target,
		config:           ReloadableConfig{},
		metricsCollector: opts.MetricsCollector,
		OnReload:         opts.OnReload,
	}

	argusConfig := argus.Config{PollInterval: opts.PollInterval}
	watcher, err := argus.UniversalConfigWatcherWithConfig(opts.ConfigPath, hc.handleConfigChange, argusConfig)
	if err != nil {
		return nil, NewErrWatchFailed(opts.ConfigPath, err)
	}
	hc.watcher = watcher

	return hc, nil
}

// Start begins watching the configuration file for changes.
func (hc *HotConfig[K, V]) Start() error {
	if hc.watcher.IsRunning() {
		return nil
	}
	return hc.watcher.Start()
}

// Stop stops watching the configuration file.
func (hc *HotConfig[K, V]) Stop() error {
	return hc.watcher.Stop()
}

// GetConfig returns the last applied ReloadableConfig.
func (hc *HotConfig[K, V]) GetConfig() ReloadableConfig {
	return hc.config
}

func (hc *HotConfig[K, V]) handleConfigChange(data map[string]interface{}) {
	old := hc.config
	next := parseReloadableConfig(data, old)
	hc.config = next

	if hc.metricsCollector != nil {
		if next.MetricsEnabled {
			hc.target.SetMetricsCollector(hc.metricsCollector)
		} else {
			hc.target.SetMetricsCollector(NoOpMetricsCollector{})
		}
	}

	if hc.OnReload != nil {
		hc.OnReload(old, next)
	}
}

func parseReloadableConfig(data map[string]interface{}, fallback ReloadableConfig) ReloadableConfig {
	next := fallback
	if enabled, ok := data["metrics_enabled"].(bool); ok {
		next.MetricsEnabled = enabled
	}
	if level, ok := data["log_level"].(string); ok {
		next.LogLevel = level
	}
	return next
}

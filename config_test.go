// config_test.go: unit tests for Map configuration
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package nbhashmap

import "testing"

func TestConfig_ValidateDefaults(t *testing.T) {
	cfg := Config{}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() returned error: %v", err)
	}
	if cfg.InitialSize != DefaultInitialSize {
		t.Errorf("InitialSize = %d, want %d", cfg.InitialSize, DefaultInitialSize)
	}
	if cfg.Logger == nil {
		t.Error("Logger should default to NoOpLogger, got nil")
	}
	if _, ok := cfg.Logger.(NoOpLogger); !ok {
		t.Errorf("Logger default = %T, want NoOpLogger", cfg.Logger)
	}
	if cfg.TimeProvider == nil {
		t.Error("TimeProvider should not be nil after Validate")
	}
	if cfg.MetricsCollector == nil {
		t.Error("MetricsCollector should not be nil after Validate")
	}
	if _, ok := cfg.MetricsCollector.(NoOpMetricsCollector); !ok {
		t.Errorf("MetricsCollector default = %T, want NoOpMetricsCollector", cfg.MetricsCollector)
	}
}

func TestConfig_ValidatePreservesExplicitValues(t *testing.T) {
	cfg := Config{InitialSize: 4096}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() returned error: %v", err)
	}
	if cfg.InitialSize != 4096 {
		t.Errorf("InitialSize = %d, want 4096 (explicit value should survive)", cfg.InitialSize)
	}
}

func TestConfig_ValidateNegativeSizeFallsBackToDefault(t *testing.T) {
	cfg := Config{InitialSize: -10}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() returned error: %v", err)
	}
	if cfg.InitialSize != DefaultInitialSize {
		t.Errorf("InitialSize = %d, want default %d for a negative hint", cfg.InitialSize, DefaultInitialSize)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.InitialSize != DefaultInitialSize {
		t.Errorf("DefaultConfig().InitialSize = %d, want %d", cfg.InitialSize, DefaultInitialSize)
	}
	if cfg.TimeProvider.Now() <= 0 {
		t.Error("systemTimeProvider.Now() should return a positive nanosecond timestamp")
	}
}

// errors.go: structured error handling for map construction and hot reload
//
// The map's steady-state operations (Put/Get/Remove) never fail: their only
// failure mode is a panic against a broken internal invariant, which is a
// bug, not a recoverable condition. Errors only arise at the edges —
// hot-reload setup and plumbing, and a panic recovered inside
// GetOrCompute — so this file stays deliberately narrow, built on the same
// go-errors-based code/context/retryable/severity pattern used throughout
// the rest of this codebase.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package nbhashmap

import (
	goerrors "errors"

	"github.com/agilira/go-errors"
)

// Error codes for map construction and hot-reload operations.
const (
	// Configuration errors (1xxx)
	ErrCodeInvalidConfig      errors.ErrorCode = "NBHASH_INVALID_CONFIG"
	ErrCodeInvalidInitialSize errors.ErrorCode = "NBHASH_INVALID_INITIAL_SIZE"

	// Hot-reload errors (2xxx)
	ErrCodeHotReloadFailed errors.ErrorCode = "NBHASH_HOT_RELOAD_FAILED"
	ErrCodeWatchFailed     errors.ErrorCode = "NBHASH_WATCH_FAILED"

	// Internal errors (5xxx)
	ErrCodeInternalError  errors.ErrorCode = "NBHASH_INTERNAL_ERROR"
	ErrCodePanicRecovered errors.ErrorCode = "NBHASH_PANIC_RECOVERED"
)

const (
	msgInvalidConfig      = "invalid map configuration"
	msgInvalidInitialSize = "invalid initial size: must be non-negative"
	msgHotReloadFailed    = "failed to apply hot-reloaded configuration"
	msgWatchFailed        = "failed to start configuration watcher"
	msgInternalError      = "internal map error"
	msgPanicRecovered     = "panic recovered in map operation"
)

// NewErrInvalidConfig creates an error for a configuration that failed
// validation.
func NewErrInvalidConfig(reason string) error {
	return errors.NewWithField(ErrCodeInvalidConfig, msgInvalidConfig, "reason", reason)
}

// NewErrInvalidInitialSize creates an error describing a negative initial
// size hint. NewWithSize and NewWithConfig never return it: Config.Validate
// replaces a non-positive hint with DefaultInitialSize.
func NewErrInvalidInitialSize(size int) error {
	return errors.NewWithContext(ErrCodeInvalidInitialSize, msgInvalidInitialSize, map[string]interface{}{
		"provided_size": size,
	})
}

// NewErrHotReloadFailed creates an error when a hot-reloaded configuration
// file could not be applied to a live map.
func NewErrHotReloadFailed(path string, cause error) error {
	return errors.Wrap(cause, ErrCodeHotReloadFailed, msgHotReloadFailed).
		WithContext("path", path).
		AsRetryable()
}

// NewErrWatchFailed creates an error when argus could not start watching a
// configuration file.
func NewErrWatchFailed(path string, cause error) error {
	return errors.Wrap(cause, ErrCodeWatchFailed, msgWatchFailed).
		WithContext("path", path).
		AsRetryable()
}

// NewErrInternal creates a generic internal error.
func NewErrInternal(operation string, cause error) error {
	if cause != nil {
		return errors.Wrap(cause, ErrCodeInternalError, msgInternalError).
			WithContext("operation", operation).
			WithSeverity("warning")
	}
	return errors.NewWithField(ErrCodeInternalError, msgInternalError, "operation", operation).
		WithSeverity("warning")
}

// NewErrPanicRecovered creates an error when a panic is recovered at a
// boundary that can report failure instead of crashing (GetOrCompute and
// GetOrComputeWithContext report a panic inside compute this way).
func NewErrPanicRecovered(operation string, panicValue interface{}) error {
	return errors.NewWithContext(ErrCodePanicRecovered, msgPanicRecovered, map[string]interface{}{
		"operation":   operation,
		"panic_value": toString(panicValue),
	}).WithSeverity("critical")
}

// IsConfigError reports whether err is a configuration validation error.
func IsConfigError(err error) bool {
	if err == nil {
		return false
	}
	var coder errors.ErrorCoder
	if goerrors.As(err, &coder) {
		code := coder.ErrorCode()
		return code == ErrCodeInvalidConfig || code == ErrCodeInvalidInitialSize
	}
	return false
}

// IsHotReloadError reports whether err originated from the hot-reload path.
func IsHotReloadError(err error) bool {
	return errors.HasCode(err, ErrCodeHotReloadFailed) || errors.HasCode(err, ErrCodeWatchFailed)
}

// IsRetryable reports whether the error can be retried.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var retryable errors.Retryable
	if goerrors.As(err, &retryable) {
		return retryable.IsRetryable()
	}
	return false
}

// GetErrorCode extracts the error code from an error, if any.
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

// GetErrorContext extracts structured context from an error, if any.
func GetErrorContext(err error) map[string]interface{} {
	if err == nil {
		return nil
	}
	var nbErr *errors.Error
	if goerrors.As(err, &nbErr) {
		return nbErr.Context
	}
	return nil
}

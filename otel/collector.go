// collector.go: OpenTelemetry-backed MetricsCollector
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package otel

import (
	"context"
	"errors"

	"github.com/agilira/nbhashmap"
	"go.opentelemetry.io/otel/metric"
)

// OTelMetricsCollector implements nbhashmap.MetricsCollector using
// OpenTelemetry.
//
// Thread-safety: safe for concurrent use by multiple goroutines. The
// underlying OTEL instruments are themselves thread-safe and lock-free.
type OTelMetricsCollector struct {
	gets     metric.Int64Counter
	hits     metric.Int64Counter
	misses   metric.Int64Counter
	puts     metric.Int64Counter
	removes  metric.Int64Counter
	probeLen metric.Int64Histogram

	resizes      metric.Int64Counter
	copiedSlots  metric.Int64Counter
	panicModes   metric.Int64Counter
	promotions   metric.Int64Counter
}

// Options configures OTelMetricsCollector.
type Options struct {
	// MeterName is the name of the OpenTelemetry meter.
	// Default: "github.com/agilira/nbhashmap"
	MeterName string
}

// Option is a functional option for configuring OTelMetricsCollector.
type Option func(*Options)

// WithMeterName sets a custom meter name, useful when instrumenting
// several distinct maps in the same process.
func WithMeterName(name string) Option {
	return func(o *Options) { o.MeterName = name }
}

// NewOTelMetricsCollector creates a metrics collector bound to provider.
func NewOTelMetricsCollector(provider metric.MeterProvider, opts ...Option) (*OTelMetricsCollector, error) {
	if provider == nil {
		return nil, errors.New("meter provider cannot be nil")
	}

	options := Options{MeterName: "github.com/agilira/nbhashmap"}
	for _, opt := range opts {
		opt(&options)
	}

	meter := provider.Meter(options.MeterName)
	c := &OTelMetricsCollector{}

	var err error
	if c.gets, err = meter.Int64Counter("nbhashmap_get_total",
		metric.WithDescription("Total number of Get calls")); err != nil {
		return nil, err
	}
	if c.hits, err = meter.Int64Counter("nbhashmap_get_hits_total",
		metric.WithDescription("Total number of Get calls that found a value")); err != nil {
		return nil, err
	}
	if c.misses, err = meter.Int64Counter("nbhashmap_get_misses_total",
		metric.WithDescription("Total number of Get calls that found nothing")); err != nil {
		return nil, err
	}
	if c.puts, err = meter.Int64Counter("nbhashmap_put_total",
		metric.WithDescription("Total number of values installed")); err != nil {
		return nil, err
	}
	if c.removes, err = meter.Int64Counter("nbhashmap_remove_total",
		metric.WithDescription("Total number of values tombstoned")); err != nil {
		return nil, err
	}
	if c.probeLen, err = meter.Int64Histogram("nbhashmap_probe_length",
		metric.WithDescription("Reprobe count needed per operation")); err != nil {
		return nil, err
	}
	if c.resizes, err = meter.Int64Counter("nbhashmap_resizes_total",
		metric.WithDescription("Total number of successor tables published")); err != nil {
		return nil, err
	}
	if c.copiedSlots, err = meter.Int64Counter("nbhashmap_copied_slots_total",
		metric.WithDescription("Total number of slots migrated by cooperative copy")); err != nil {
		return nil, err
	}
	if c.panicModes, err = meter.Int64Counter("nbhashmap_panic_mode_total",
		metric.WithDescription("Total number of times help_copy entered panic mode")); err != nil {
		return nil, err
	}
	if c.promotions, err = meter.Int64Counter("nbhashmap_promotions_total",
		metric.WithDescription("Total number of successor tables promoted to current")); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *OTelMetricsCollector) RecordGet(hit bool) {
	ctx := context.Background()
	c.gets.Add(ctx, 1)
	if hit {
		c.hits.Add(ctx, 1)
	} else {
		c.misses.Add(ctx, 1)
	}
}

func (c *OTelMetricsCollector) RecordPut()    { c.puts.Add(context.Background(), 1) }
func (c *OTelMetricsCollector) RecordRemove() { c.removes.Add(context.Background(), 1) }

func (c *OTelMetricsCollector) RecordProbe(reprobes int) {
	c.probeLen.Record(context.Background(), int64(reprobes))
}

func (c *OTelMetricsCollector) RecordResize(oldSize, newSize int) {
	c.resizes.Add(context.Background(), 1)
}

func (c *OTelMetricsCollector) RecordCopySlot() {
	c.copiedSlots.Add(context.Background(), 1)
}

func (c *OTelMetricsCollector) RecordPanicMode(oldSize int) {
	c.panicModes.Add(context.Background(), 1)
}

func (c *OTelMetricsCollector) RecordPromotion(oldSize, newSize int) {
	c.promotions.Add(context.Background(), 1)
}

var _ nbhashmap.MetricsCollector = (*OTelMetricsCollector)(nil)

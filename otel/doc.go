// Package otel provides OpenTelemetry integration for nbhashmap metrics.
//
// This package implements the nbhashmap.MetricsCollector interface using
// OpenTelemetry, so a live Map's probe/resize/copy/promotion activity can
// be exported to Prometheus, Jaeger, DataDog, or any other OTEL-compatible
// backend.
//
// The package is a separate module so the core map stays free of OTEL's
// dependency tree; applications that don't need metrics don't pay for them.
//
// # Quick start
//
//	exporter, _ := prometheus.New()
//	provider := metric.NewMeterProvider(metric.WithReader(exporter))
//
//	collector, err := nbhashmapotel.NewOTelMetricsCollector(provider)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	m := nbhashmap.NewWithConfig[string, int](nbhashmap.Config{
//		MetricsCollector: collector,
//	})
//
// # Metrics exposed
//
//   - nbhashmap_get_total / nbhashmap_get_hits_total / nbhashmap_get_misses_total
//   - nbhashmap_put_total / nbhashmap_remove_total
//   - nbhashmap_probe_length: histogram of the reprobe counts passed to
//     RecordProbe (nbhashmap.Map itself never calls RecordProbe)
//   - nbhashmap_resizes_total / nbhashmap_copied_slots_total / nbhashmap_panic_mode_total
//   - nbhashmap_promotions_total
package otel

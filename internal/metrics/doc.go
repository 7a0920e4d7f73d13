// Package metrics collects request metrics for the OData adapter.
//
// A Collector consumes events from a buffered channel in its own goroutine so
// the request path never blocks on bookkeeping. It tracks:
//   - Request counts per effective method
//   - HTTP status code distribution
//   - Translated failures per error kind
//   - Latency average and percentiles (P50, P95, P99)
//
// Example usage:
//
//	collector := metrics.NewCollector(1000, logger)
//	collector.Start(ctx)
//
//	collector.Emit(metrics.MetricEvent{
//		Type:       metrics.EventResponseCompleted,
//		Method:     "GET",
//		Duration:   12 * time.Millisecond,
//		StatusCode: 200,
//	})
//
//	snapshot := collector.Snapshot()
//
// Emit drops events when the buffer is full. On shutdown the collector drains
// whatever is still buffered.
package metrics

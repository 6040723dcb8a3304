// Package metric provides Prometheus metrics for rifsredis.
//
//   - prometheus.go: registry, request/connection metrics and the HTTP handler
//   - collector.go: collector that samples the store size at scrape time
//
// Metrics are exposed at /metrics in Prometheus text format when the
// metrics endpoint is enabled.
package metric

// Package metrics provides Prometheus metrics registry and recording utilities.
//
// This package centralizes all application metrics including:
//   - HTTP request metrics (duration, count)
//   - Cache-aside pipeline metrics (hits, misses, upstream fetches, populate errors)
//   - Digest dispatch metrics (outcomes, batch and send durations)
//
// All metrics are automatically registered with the Prometheus default registry
// and exposed via the /metrics endpoint.
package metrics

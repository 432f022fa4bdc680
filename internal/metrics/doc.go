// Package metrics provides Prometheus metrics for monitoring.
//
// Key metrics:
//   - Refresh attempts by outcome and their durations
//   - Results discarded as stale or after shutdown
//   - Current refresh status
//   - Size of the last applied snapshot
package metrics

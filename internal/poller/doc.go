// Package poller implements the refresh controller behind the dashboard.
//
// The Poller:
//   - Fetches a snapshot immediately on Start, then every Interval (3s)
//   - Numbers attempts when they start; a result is applied only if it is
//     newer than the last applied one, so a slow early response never
//     overwrites a fresher one
//   - Keeps the last good snapshot across failures (Degraded)
//   - Applies nothing once Stop has returned
//
// All state transitions happen on a single owner goroutine. Readers get a
// consistent copy from State or via a StateHandler.
package poller

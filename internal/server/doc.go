// Package server exposes the dashboard over HTTP.
//
// Endpoints:
//   - GET  /health     refresh status and build info
//   - GET  /api/state  current refresh state
//   - GET  /api/board  rendered board (?mode=all|opportunities&q=...)
//   - POST /api/retry  manual refresh
//   - GET  /ws         board pushed on connect and after every state change
//
// A metrics handler is mounted at the configured path when one is provided.
package server

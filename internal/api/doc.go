// Package api is the client for the upstream price comparison service.
//
// Endpoints (relative to the configured base URL, default http://localhost:8080):
//   - GET /coins     full snapshot: firsatlar, tum_coinler, guncelleme_zamani
//   - GET /fiyatlar  legacy single-coin (BTC) comparison
//
// Failures are classified with Kind into network, response and shape errors.
package api

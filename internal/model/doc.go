// Package model defines the snapshot types shared across the dashboard.
//
// Conventions:
//   - Prices: float64 quote-currency units (USDT), never negative
//   - Spreads: float64 percent (1.25 = 1.25%), as computed upstream
//   - Snapshots are immutable once built by NewSnapshot
package model

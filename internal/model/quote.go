package model

import (
	"fmt"
	"math"
)

// Exchange identifies one of the two venues being compared.
type Exchange string

const (
	ExchangeBinance Exchange = "Binance"
	ExchangeGateIO  Exchange = "Gate.io"
)

// ParseExchange maps the upstream literal to an Exchange.
func ParseExchange(s string) (Exchange, error) {
	switch Exchange(s) {
	case ExchangeBinance, ExchangeGateIO:
		return Exchange(s), nil
	default:
		return "", fmt.Errorf("unknown exchange %q", s)
	}
}

// CoinQuote is one cross-exchange price observation for a coin.
type CoinQuote struct {
	Symbol       string   // e.g. "BTC"
	BinancePrice float64  // Price on Binance
	GateIOPrice  float64  // Price on Gate.io
	Spread       float64  // Percent difference, computed upstream
	Cheaper      Exchange // Exchange with the lower price
	Pricier      Exchange // Exchange with the higher price
	Opportunity  bool     // Upstream arbitrage flag
}

// Validate checks presence and range of the quote's fields. It does not
// re-derive the spread or check that Cheaper really is cheaper.
func (q CoinQuote) Validate() error {
	if q.Symbol == "" {
		return &ValidationError{Field: "symbol", Reason: "empty"}
	}
	if err := checkPrice("binance_price", q.BinancePrice); err != nil {
		return err
	}
	if err := checkPrice("gateio_price", q.GateIOPrice); err != nil {
		return err
	}
	if math.IsNaN(q.Spread) || math.IsInf(q.Spread, 0) {
		return &ValidationError{Field: "spread", Reason: "not a finite number"}
	}
	if q.Cheaper == "" {
		return &ValidationError{Field: "cheaper", Reason: "missing"}
	}
	if q.Pricier == "" {
		return &ValidationError{Field: "pricier", Reason: "missing"}
	}
	if q.Cheaper == q.Pricier {
		return &ValidationError{Field: "pricier", Reason: fmt.Sprintf("same as cheaper exchange %q", q.Cheaper)}
	}
	return nil
}

func checkPrice(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return &ValidationError{Field: field, Reason: "not a finite number"}
	}
	if v < 0 {
		return &ValidationError{Field: field, Reason: fmt.Sprintf("negative price %v", v)}
	}
	return nil
}

package api

import "encoding/json"

// CoinsResponse from GET /coins. The arrays are kept raw so a missing key
// can be told apart from null, which the service sends for empty lists.
type CoinsResponse struct {
	Opportunities json.RawMessage `json:"firsatlar"`
	AllCoins      json.RawMessage `json:"tum_coinler"`
	UpdatedAt     *string         `json:"guncelleme_zamani"`
}

// APIQuote is one coin comparison from the service. Pointer fields are
// nil when the key is missing or null.
type APIQuote struct {
	Symbol        *string  `json:"symbol"`
	BinancePrice  *float64 `json:"binance_fiyat"`
	GateioPrice   *float64 `json:"gateio_fiyat"`
	DiffPercent   *float64 `json:"fark_yuzde"`
	CheapExchange *string  `json:"ucuz_borsa"`
	ExpensiveEx   *string  `json:"pahali_borsa"`
	IsOpportunity *bool    `json:"arbitraj_firsati"`
}

// LegacyResponse from GET /fiyatlar: the BTC comparison without a symbol.
type LegacyResponse = APIQuote

package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rickgao/arbwatch/internal/model"
)

// legacySymbol is the only coin the legacy endpoint reports.
const legacySymbol = "BTC"

// DecodeSnapshot parses a /coins payload into a validated Snapshot. Any
// mismatch with the expected shape is a *model.ValidationError; no
// partially decoded value is ever returned.
func DecodeSnapshot(body []byte, fetchedAt time.Time) (*model.Snapshot, error) {
	var resp CoinsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, shapeError("", err)
	}

	opps, err := decodeQuotes("firsatlar", resp.Opportunities)
	if err != nil {
		return nil, err
	}
	all, err := decodeQuotes("tum_coinler", resp.AllCoins)
	if err != nil {
		return nil, err
	}
	if resp.UpdatedAt == nil {
		return nil, missing("guncelleme_zamani")
	}

	return model.NewSnapshot(opps, all, *resp.UpdatedAt, fetchedAt)
}

// decodeQuotes decodes one quote array. A missing key is an error; null
// is an empty list.
func decodeQuotes(field string, raw json.RawMessage) ([]model.CoinQuote, error) {
	if len(raw) == 0 {
		return nil, missing(field)
	}
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, nil
	}

	var items []APIQuote
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, shapeError(field, err)
	}

	quotes := make([]model.CoinQuote, 0, len(items))
	for i, item := range items {
		q, err := toQuote(fmt.Sprintf("%s[%d]", field, i), item)
		if err != nil {
			return nil, err
		}
		quotes = append(quotes, q)
	}
	return quotes, nil
}

// toQuote converts an APIQuote, requiring every field to be present.
func toQuote(path string, a APIQuote) (model.CoinQuote, error) {
	if a.Symbol == nil {
		return model.CoinQuote{}, missing(path + ".symbol")
	}
	return convertFields(path, *a.Symbol, a)
}

func convertFields(path, symbol string, a APIQuote) (model.CoinQuote, error) {
	switch {
	case a.BinancePrice == nil:
		return model.CoinQuote{}, missing(path + ".binance_fiyat")
	case a.GateioPrice == nil:
		return model.CoinQuote{}, missing(path + ".gateio_fiyat")
	case a.DiffPercent == nil:
		return model.CoinQuote{}, missing(path + ".fark_yuzde")
	case a.CheapExchange == nil:
		return model.CoinQuote{}, missing(path + ".ucuz_borsa")
	case a.ExpensiveEx == nil:
		return model.CoinQuote{}, missing(path + ".pahali_borsa")
	case a.IsOpportunity == nil:
		return model.CoinQuote{}, missing(path + ".arbitraj_firsati")
	}

	cheap, err := model.ParseExchange(*a.CheapExchange)
	if err != nil {
		return model.CoinQuote{}, &model.ValidationError{Field: path + ".ucuz_borsa", Reason: err.Error()}
	}
	pricey, err := model.ParseExchange(*a.ExpensiveEx)
	if err != nil {
		return model.CoinQuote{}, &model.ValidationError{Field: path + ".pahali_borsa", Reason: err.Error()}
	}

	return model.CoinQuote{
		Symbol:       symbol,
		BinancePrice: *a.BinancePrice,
		GateIOPrice:  *a.GateioPrice,
		Spread:       *a.DiffPercent,
		Cheaper:      cheap,
		Pricier:      pricey,
		Opportunity:  *a.IsOpportunity,
	}, nil
}

// DecodeLegacyQuote parses a /fiyatlar payload into a validated BTC quote.
func DecodeLegacyQuote(body []byte) (model.CoinQuote, error) {
	var resp LegacyResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return model.CoinQuote{}, shapeError("", err)
	}

	symbol := legacySymbol
	if resp.Symbol != nil && *resp.Symbol != "" {
		symbol = *resp.Symbol
	}
	q, err := convertFields("fiyatlar", symbol, resp)
	if err != nil {
		return model.CoinQuote{}, err
	}
	if err := q.Validate(); err != nil {
		return model.CoinQuote{}, err
	}
	return q, nil
}

func missing(field string) error {
	return &model.ValidationError{Field: field, Reason: "missing or null"}
}

// shapeError turns a JSON decoding error into a ValidationError.
func shapeError(field string, err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		f := typeErr.Field
		switch {
		case f == "":
			f = field
		case field != "":
			f = field + "." + f
		}
		return &model.ValidationError{
			Field:  f,
			Reason: fmt.Sprintf("got JSON %s, want %s", typeErr.Value, typeErr.Type),
		}
	}
	return &model.ValidationError{Field: field, Reason: "malformed JSON: " + err.Error()}
}

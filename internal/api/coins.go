package api

import (
	"context"
	"fmt"
	"time"

	"github.com/rickgao/arbwatch/internal/model"
)

// FetchSnapshot fetches and validates the current snapshot.
func (c *Client) FetchSnapshot(ctx context.Context) (*model.Snapshot, error) {
	body, err := c.doWithRetry(ctx, c.coinsPath)
	if err != nil {
		return nil, fmt.Errorf("get coins: %w", err)
	}

	s, err := DecodeSnapshot(body, time.Now())
	if err != nil {
		return nil, fmt.Errorf("decode coins: %w", err)
	}

	c.logger.Debug("snapshot fetched",
		"snapshot_id", s.ID(),
		"opportunities", s.NumOpportunities(),
		"coins", s.NumQuotes(),
	)
	return s, nil
}

// GetLegacyQuote fetches the single-coin comparison from the legacy endpoint.
func (c *Client) GetLegacyQuote(ctx context.Context) (model.CoinQuote, error) {
	body, err := c.doWithRetry(ctx, c.legacyPath)
	if err != nil {
		return model.CoinQuote{}, fmt.Errorf("get legacy quote: %w", err)
	}

	q, err := DecodeLegacyQuote(body)
	if err != nil {
		return model.CoinQuote{}, fmt.Errorf("decode legacy quote: %w", err)
	}
	return q, nil
}

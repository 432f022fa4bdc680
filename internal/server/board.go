package server

import (
	"time"

	"github.com/rickgao/arbwatch/internal/api"
	"github.com/rickgao/arbwatch/internal/format"
	"github.com/rickgao/arbwatch/internal/model"
	"github.com/rickgao/arbwatch/internal/poller"
	"github.com/rickgao/arbwatch/internal/view"
)

// Layout sizes the board sections.
type Layout struct {
	TopN    int // Opportunity cards
	TickerN int // Ticker strip entries
}

// DefaultLayout returns the dashboard's standard layout.
func DefaultLayout() Layout {
	return Layout{TopN: view.DefaultTopN, TickerN: 8}
}

// Board is the rendered dashboard.
type Board struct {
	State  StateView   `json:"state"`
	Mode   string      `json:"mode"`
	Query  string      `json:"query"`
	Stats  StatsView   `json:"stats"`
	Top    []QuoteView `json:"top"`
	Ticker []QuoteView `json:"ticker"`
	Rows   []QuoteView `json:"rows"`
}

// StateView is the JSON form of poller.State.
type StateView struct {
	Status      poller.Status `json:"status"`
	SnapshotID  string        `json:"snapshot_id,omitempty"`
	UpdatedAt   string        `json:"updated_at,omitempty"`
	Attempt     uint64        `json:"attempt"`
	CheckedAt   *time.Time    `json:"checked_at,omitempty"`
	LastSuccess *time.Time    `json:"last_success,omitempty"`
	Error       *ErrorView    `json:"error,omitempty"`
}

// ErrorView describes the latest failed attempt.
type ErrorView struct {
	Kind    api.FailureKind `json:"kind"`
	Message string          `json:"message"`
}

// StatsView carries both formatted and raw statistics.
type StatsView struct {
	OpportunityCount   int     `json:"opportunity_count"`
	TotalTrackedCoins  int     `json:"total_tracked_coins"`
	AverageSpread      string  `json:"average_spread"`
	MaxSpread          string  `json:"max_spread"`
	AverageSpreadValue float64 `json:"average_spread_value"`
	MaxSpreadValue     float64 `json:"max_spread_value"`
}

// QuoteView is one formatted row or card.
type QuoteView struct {
	Symbol       string  `json:"symbol"`
	Badge        string  `json:"badge"`
	BinancePrice string  `json:"binance_price"`
	GateIOPrice  string  `json:"gateio_price"`
	Spread       string  `json:"spread"`
	SpreadValue  float64 `json:"spread_value"`
	Cheaper      string  `json:"cheaper"`
	Pricier      string  `json:"pricier"`
	Opportunity  bool    `json:"opportunity"`
}

// NewStateView converts s for JSON output.
func NewStateView(s poller.State) StateView {
	v := StateView{
		Status:  s.Status,
		Attempt: s.Attempt,
	}
	if s.Snapshot != nil {
		v.SnapshotID = s.Snapshot.ID().String()
		v.UpdatedAt = s.Snapshot.UpdatedAt()
	}
	if !s.CheckedAt.IsZero() {
		t := s.CheckedAt
		v.CheckedAt = &t
	}
	if !s.LastSuccess.IsZero() {
		t := s.LastSuccess
		v.LastSuccess = &t
	}
	if s.LastError != nil {
		v.Error = &ErrorView{Kind: api.Kind(s.LastError), Message: s.LastError.Error()}
	}
	return v
}

// BuildBoard renders the board for s. Sections are empty, never nil, when
// no snapshot is available.
func BuildBoard(s poller.State, mode view.Mode, query string, layout Layout) Board {
	st := view.ComputeStats(s.Snapshot)
	return Board{
		State: NewStateView(s),
		Mode:  mode.String(),
		Query: query,
		Stats: StatsView{
			OpportunityCount:   st.OpportunityCount,
			TotalTrackedCoins:  st.TotalTrackedCoins,
			AverageSpread:      format.Percent(st.AverageSpread),
			MaxSpread:          format.Percent(st.MaxSpread),
			AverageSpreadValue: st.AverageSpread,
			MaxSpreadValue:     st.MaxSpread,
		},
		Top:    quoteViews(view.TopN(s.Snapshot, layout.TopN)),
		Ticker: quoteViews(view.TopN(s.Snapshot, layout.TickerN)),
		Rows:   quoteViews(view.Select(s.Snapshot, mode, query)),
	}
}

func quoteViews(quotes []model.CoinQuote) []QuoteView {
	out := make([]QuoteView, 0, len(quotes))
	for _, q := range quotes {
		out = append(out, NewQuoteView(q))
	}
	return out
}

// NewQuoteView formats q for display.
func NewQuoteView(q model.CoinQuote) QuoteView {
	return QuoteView{
		Symbol:       q.Symbol,
		Badge:        view.Badge(q.Symbol),
		BinancePrice: format.Display(q.BinancePrice),
		GateIOPrice:  format.Display(q.GateIOPrice),
		Spread:       format.Percent(q.Spread),
		SpreadValue:  q.Spread,
		Cheaper:      string(q.Cheaper),
		Pricier:      string(q.Pricier),
		Opportunity:  q.Opportunity,
	}
}

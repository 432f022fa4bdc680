// Package view derives the dashboard's lists and statistics from a snapshot.
//
// Everything here is a pure function of its inputs and is recomputed on
// every call; nothing is cached between renders.
package view

import (
	"fmt"
	"strings"

	"github.com/rickgao/arbwatch/internal/model"
)

// Mode selects which list the dashboard shows.
type Mode int

const (
	ModeAll Mode = iota
	ModeOpportunities
)

// DefaultTopN is the number of opportunity cards shown by default.
const DefaultTopN = 4

func (m Mode) String() string {
	switch m {
	case ModeAll:
		return "all"
	case ModeOpportunities:
		return "opportunities"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode accepts "all" or "opportunities"; empty means ModeAll.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return ModeAll, nil
	case "opportunities":
		return ModeOpportunities, nil
	default:
		return ModeAll, fmt.Errorf("unknown view mode %q", s)
	}
}

// Search returns the quotes whose symbol contains query, ignoring case,
// in their original order. An empty query returns quotes unchanged.
func Search(quotes []model.CoinQuote, query string) []model.CoinQuote {
	if query == "" {
		return quotes
	}
	needle := strings.ToLower(query)
	out := make([]model.CoinQuote, 0, len(quotes))
	for _, q := range quotes {
		if strings.Contains(strings.ToLower(q.Symbol), needle) {
			out = append(out, q)
		}
	}
	return out
}

// Select returns the list for mode. The query only filters ModeAll; the
// opportunities list is always the full ranking.
func Select(s *model.Snapshot, mode Mode, query string) []model.CoinQuote {
	if s == nil {
		return nil
	}
	if mode == ModeOpportunities {
		return s.Opportunities()
	}
	return Search(s.AllQuotes(), query)
}

// TopN returns the first n opportunities. The ranking is already sorted,
// so this is a prefix.
func TopN(s *model.Snapshot, n int) []model.CoinQuote {
	if s == nil || n <= 0 {
		return nil
	}
	opps := s.Opportunities()
	if n > len(opps) {
		n = len(opps)
	}
	return opps[:n]
}

// Badge is the short avatar text for a symbol: its first two characters.
func Badge(symbol string) string {
	r := []rune(symbol)
	if len(r) > 2 {
		r = r[:2]
	}
	return string(r)
}

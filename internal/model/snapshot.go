package model

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
)

// Snapshot is one fetched payload: the opportunity ranking plus the full
// coin universe. It is never modified after NewSnapshot returns; the
// accessors hand out copies.
type Snapshot struct {
	id            uuid.UUID
	opportunities []CoinQuote
	allQuotes     []CoinQuote
	updatedAt     string
	fetchedAt     time.Time
}

// NewSnapshot validates the inputs and builds an immutable Snapshot.
//
// Opportunities must arrive sorted by descending spread; an unsorted
// ranking is rejected, not re-sorted.
func NewSnapshot(opportunities, allQuotes []CoinQuote, updatedAt string, fetchedAt time.Time) (*Snapshot, error) {
	if err := validateQuotes("opportunities", opportunities); err != nil {
		return nil, err
	}
	if err := validateQuotes("all_quotes", allQuotes); err != nil {
		return nil, err
	}
	for i := 1; i < len(opportunities); i++ {
		if opportunities[i].Spread > opportunities[i-1].Spread {
			return nil, &ValidationError{
				Field:  fmt.Sprintf("opportunities[%d].spread", i),
				Reason: fmt.Sprintf("ranking not sorted: %v follows %v",
					opportunities[i].Spread, opportunities[i-1].Spread),
			}
		}
	}

	return &Snapshot{
		id:            uuid.New(),
		opportunities: slices.Clone(opportunities),
		allQuotes:     slices.Clone(allQuotes),
		updatedAt:     updatedAt,
		fetchedAt:     fetchedAt,
	}, nil
}

func validateQuotes(name string, quotes []CoinQuote) error {
	seen := make(map[string]int, len(quotes))
	for i, q := range quotes {
		path := fmt.Sprintf("%s[%d]", name, i)
		if err := q.Validate(); err != nil {
			return prefix(path, err)
		}
		if j, dup := seen[q.Symbol]; dup {
			return &ValidationError{
				Field:  path + ".symbol",
				Reason: fmt.Sprintf("duplicate symbol %q (first at index %d)", q.Symbol, j),
			}
		}
		seen[q.Symbol] = i
	}
	return nil
}

// ID uniquely identifies this snapshot.
func (s *Snapshot) ID() uuid.UUID { return s.id }

// UpdatedAt is the upstream display timestamp, passed through verbatim.
func (s *Snapshot) UpdatedAt() string { return s.updatedAt }

// FetchedAt is the local time the payload was received.
func (s *Snapshot) FetchedAt() time.Time { return s.fetchedAt }

// Opportunities returns the ranking, highest spread first.
func (s *Snapshot) Opportunities() []CoinQuote { return slices.Clone(s.opportunities) }

// AllQuotes returns every tracked coin in upstream order.
func (s *Snapshot) AllQuotes() []CoinQuote { return slices.Clone(s.allQuotes) }

// NumOpportunities returns len(Opportunities()) without copying.
func (s *Snapshot) NumOpportunities() int { return len(s.opportunities) }

// NumQuotes returns len(AllQuotes()) without copying.
func (s *Snapshot) NumQuotes() int { return len(s.allQuotes) }

// Quote looks up a coin in AllQuotes by symbol.
func (s *Snapshot) Quote(symbol string) (CoinQuote, bool) {
	for _, q := range s.allQuotes {
		if q.Symbol == symbol {
			return q, true
		}
	}
	return CoinQuote{}, false
}

package view

import "github.com/rickgao/arbwatch/internal/model"

// Stats summarizes a snapshot. Spread figures cover the opportunity
// ranking only.
type Stats struct {
	OpportunityCount  int
	AverageSpread     float64
	MaxSpread         float64
	TotalTrackedCoins int
}

// ComputeStats derives Stats from s. A nil snapshot yields zero Stats.
func ComputeStats(s *model.Snapshot) Stats {
	if s == nil {
		return Stats{}
	}

	opps := s.Opportunities()
	st := Stats{
		OpportunityCount:  len(opps),
		TotalTrackedCoins: s.NumQuotes(),
	}
	if len(opps) == 0 {
		return st
	}

	var sum float64
	for _, q := range opps {
		sum += q.Spread
	}
	st.AverageSpread = sum / float64(len(opps))
	st.MaxSpread = opps[0].Spread
	return st
}

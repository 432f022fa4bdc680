package view

import (
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/rickgao/arbwatch/internal/model"
)

func q(symbol string, spread float64) model.CoinQuote {
	return model.CoinQuote{
		Symbol:       symbol,
		BinancePrice: 10,
		GateIOPrice:  10.1,
		Spread:       spread,
		Cheaper:      model.ExchangeBinance,
		Pricier:      model.ExchangeGateIO,
		Opportunity:  spread > 0.3,
	}
}

func snapshot(t *testing.T, opps, all []model.CoinQuote) *model.Snapshot {
	t.Helper()
	s, err := model.NewSnapshot(opps, all, "12:00:00", time.Now())
	if err != nil {
		t.Fatalf("NewSnapshot failed: %v", err)
	}
	return s
}

func symbols(quotes []model.CoinQuote) []string {
	out := make([]string, len(quotes))
	for i, c := range quotes {
		out[i] = c.Symbol
	}
	return out
}

var universe = []model.CoinQuote{
	q("BTC", 1.2), q("ETH", 0.8), q("BCH", 0.2), q("ETC", 0.1), q("SHIB", 0.05), q("1INCH", 0),
}

func TestSearch(t *testing.T) {
	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"BTC", "ETH", "BCH", "ETC", "SHIB", "1INCH"}},
		{"bt", []string{"BTC"}},
		{"BC", []string{"BCH"}},
		{"c", []string{"BTC", "BCH", "ETC", "1INCH"}},
		{"Et", []string{"ETH", "ETC"}},
		{"1", []string{"1INCH"}},
		{"doge", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := symbols(Search(universe, tt.query))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Search(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestSearch_Idempotent(t *testing.T) {
	for _, query := range []string{"", "e", "ETH", "x", "In"} {
		once := Search(universe, query)
		twice := Search(once, query)
		if !reflect.DeepEqual(symbols(once), symbols(twice)) {
			t.Errorf("Search(%q) not idempotent: %v vs %v", query, symbols(once), symbols(twice))
		}
	}
}

func TestSearch_EmptyQueryPreservesInput(t *testing.T) {
	got := Search(universe, "")
	if !reflect.DeepEqual(got, universe) {
		t.Errorf("Search(\"\") = %v, want input unchanged", symbols(got))
	}
}

func TestSelect(t *testing.T) {
	s := snapshot(t, []model.CoinQuote{q("BTC", 1.2), q("ETH", 0.8)}, universe)

	t.Run("all mode filters", func(t *testing.T) {
		got := symbols(Select(s, ModeAll, "eth"))
		if !reflect.DeepEqual(got, []string{"ETH"}) {
			t.Errorf("Select(all, eth) = %v", got)
		}
	})

	t.Run("opportunities mode ignores query", func(t *testing.T) {
		want := symbols(s.Opportunities())
		for _, query := range []string{"", "eth", "zzz", "B"} {
			got := symbols(Select(s, ModeOpportunities, query))
			if !reflect.DeepEqual(got, want) {
				t.Errorf("Select(opportunities, %q) = %v, want %v", query, got, want)
			}
		}
	})

	t.Run("nil snapshot", func(t *testing.T) {
		if got := Select(nil, ModeAll, ""); got != nil {
			t.Errorf("Select(nil) = %v, want nil", got)
		}
	})
}

func TestTopN(t *testing.T) {
	opps := []model.CoinQuote{q("BTC", 2), q("ETH", 1.5), q("SOL", 1), q("XRP", 0.9), q("ADA", 0.5)}
	s := snapshot(t, opps, nil)

	tests := []struct {
		n    int
		want []string
	}{
		{DefaultTopN, []string{"BTC", "ETH", "SOL", "XRP"}},
		{1, []string{"BTC"}},
		{10, []string{"BTC", "ETH", "SOL", "XRP", "ADA"}},
		{0, nil},
	}

	for _, tt := range tests {
		got := TopN(s, tt.n)
		if tt.want == nil {
			if got != nil {
				t.Errorf("TopN(%d) = %v, want nil", tt.n, symbols(got))
			}
			continue
		}
		if !reflect.DeepEqual(symbols(got), tt.want) {
			t.Errorf("TopN(%d) = %v, want %v", tt.n, symbols(got), tt.want)
		}
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		input   string
		want    Mode
		wantErr bool
	}{
		{"", ModeAll, false},
		{"all", ModeAll, false},
		{"Opportunities", ModeOpportunities, false},
		{"top", ModeAll, true},
	}

	for _, tt := range tests {
		got, err := ParseMode(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMode(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseMode(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}

	if ModeOpportunities.String() != "opportunities" {
		t.Errorf("String() = %q", ModeOpportunities.String())
	}
}

func TestBadge(t *testing.T) {
	for input, want := range map[string]string{"BTC": "BT", "OP": "OP", "X": "X", "": ""} {
		if got := Badge(input); got != want {
			t.Errorf("Badge(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestComputeStats(t *testing.T) {
	t.Run("two opportunities", func(t *testing.T) {
		s := snapshot(t, []model.CoinQuote{q("BTC", 1.2), q("ETH", 0.8)}, universe)
		st := ComputeStats(s)

		if st.OpportunityCount != 2 {
			t.Errorf("OpportunityCount = %d, want 2", st.OpportunityCount)
		}
		if math.Abs(st.AverageSpread-1.0) > 1e-9 {
			t.Errorf("AverageSpread = %v, want 1.0", st.AverageSpread)
		}
		if st.MaxSpread != 1.2 {
			t.Errorf("MaxSpread = %v, want 1.2", st.MaxSpread)
		}
		if st.TotalTrackedCoins != len(universe) {
			t.Errorf("TotalTrackedCoins = %d, want %d", st.TotalTrackedCoins, len(universe))
		}
	})

	t.Run("no opportunities", func(t *testing.T) {
		st := ComputeStats(snapshot(t, nil, universe))
		if st.OpportunityCount != 0 || st.AverageSpread != 0 || st.MaxSpread != 0 {
			t.Errorf("ComputeStats = %+v, want zero spread stats", st)
		}
		if st.TotalTrackedCoins != len(universe) {
			t.Errorf("TotalTrackedCoins = %d, want %d", st.TotalTrackedCoins, len(universe))
		}
	})

	t.Run("mean over many", func(t *testing.T) {
		opps := []model.CoinQuote{q("A", 3), q("B", 2.5), q("C", 1), q("D", 0.5)}
		st := ComputeStats(snapshot(t, opps, nil))
		if math.Abs(st.AverageSpread-1.75) > 1e-9 {
			t.Errorf("AverageSpread = %v, want 1.75", st.AverageSpread)
		}
		if st.MaxSpread != 3 {
			t.Errorf("MaxSpread = %v, want 3", st.MaxSpread)
		}
	})

	t.Run("nil snapshot", func(t *testing.T) {
		if st := ComputeStats(nil); st != (Stats{}) {
			t.Errorf("ComputeStats(nil) = %+v", st)
		}
	})
}

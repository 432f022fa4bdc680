// Package console renders the dashboard as plain text.
package console

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"text/tabwriter"

	"github.com/rickgao/arbwatch/internal/api"
	"github.com/rickgao/arbwatch/internal/format"
	"github.com/rickgao/arbwatch/internal/model"
	"github.com/rickgao/arbwatch/internal/poller"
	"github.com/rickgao/arbwatch/internal/view"
)

// Config holds renderer settings.
type Config struct {
	TopN    int       // Cards above the table (default: 4)
	TickerN int       // Ticker strip entries (default: 8)
	Mode    view.Mode // Table contents
	Query   string    // Symbol filter for ModeAll
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{TopN: view.DefaultTopN, TickerN: 8, Mode: view.ModeAll}
}

// Renderer writes one board per applied state. It implements
// poller.StateHandler.
type Renderer struct {
	cfg    Config
	logger *slog.Logger

	mu sync.Mutex // Serializes writes to w
	w  io.Writer
}

// New creates a Renderer writing to w.
func New(w io.Writer, cfg Config, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.TopN <= 0 {
		cfg.TopN = DefaultConfig().TopN
	}
	if cfg.TickerN <= 0 {
		cfg.TickerN = DefaultConfig().TickerN
	}
	return &Renderer{cfg: cfg, logger: logger, w: w}
}

// HandleState renders s, logging write failures.
func (r *Renderer) HandleState(s poller.State) {
	if err := r.Render(s); err != nil {
		r.logger.Warn("console render failed", "error", err)
	}
}

// Render writes the board for s.
func (r *Renderer) Render(s poller.State) error {
	var buf bytes.Buffer
	r.render(&buf, s)

	r.mu.Lock()
	defer r.mu.Unlock()
	_, err := r.w.Write(buf.Bytes())
	return err
}

func (r *Renderer) render(buf *bytes.Buffer, s poller.State) {
	fmt.Fprintf(buf, "== arbwatch [%s] attempt %d", s.Status, s.Attempt)
	if s.Snapshot != nil && s.Snapshot.UpdatedAt() != "" {
		fmt.Fprintf(buf, " updated %s", s.Snapshot.UpdatedAt())
	}
	buf.WriteString(" ==\n")

	if s.LastError != nil {
		fmt.Fprintf(buf, "last refresh failed (%s): %v\n", api.Kind(s.LastError), s.LastError)
	}

	if s.Snapshot == nil {
		if s.Status == poller.StatusLoading {
			buf.WriteString("waiting for first snapshot...\n\n")
		} else {
			buf.WriteString("no data available\n\n")
		}
		return
	}

	st := view.ComputeStats(s.Snapshot)
	fmt.Fprintf(buf, "opportunities %d | avg spread %s | max spread %s | coins %d\n",
		st.OpportunityCount,
		format.Percent(st.AverageSpread),
		format.Percent(st.MaxSpread),
		st.TotalTrackedCoins,
	)

	if ticker := view.TopN(s.Snapshot, r.cfg.TickerN); len(ticker) > 0 {
		parts := make([]string, 0, len(ticker))
		for _, q := range ticker {
			parts = append(parts, q.Symbol+" "+format.Percent(q.Spread))
		}
		fmt.Fprintf(buf, "ticker: %s\n", strings.Join(parts, " | "))
	}

	if top := view.TopN(s.Snapshot, r.cfg.TopN); len(top) > 0 {
		buf.WriteString("\ntop opportunities:\n")
		for i, q := range top {
			fmt.Fprintf(buf, "  %d. [%s] %s %s: buy on %s, sell on %s\n",
				i+1, view.Badge(q.Symbol), q.Symbol, format.Percent(q.Spread), q.Cheaper, q.Pricier)
		}
	}

	buf.WriteString("\n")
	writeTable(buf, view.Select(s.Snapshot, r.cfg.Mode, r.cfg.Query))
	buf.WriteString("\n")
}

func writeTable(buf *bytes.Buffer, quotes []model.CoinQuote) {
	if len(quotes) == 0 {
		buf.WriteString("no matching coins\n")
		return
	}

	tw := tabwriter.NewWriter(buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SYMBOL\tBINANCE\tGATE.IO\tSPREAD\tCHEAPER\tPRICIER\tOPP")
	for _, q := range quotes {
		opp := ""
		if q.Opportunity {
			opp = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			q.Symbol,
			format.Display(q.BinancePrice),
			format.Display(q.GateIOPrice),
			format.Percent(q.Spread),
			q.Cheaper,
			q.Pricier,
			opp,
		)
	}
	tw.Flush()
}

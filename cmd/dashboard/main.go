package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rickgao/arbwatch/internal/api"
	"github.com/rickgao/arbwatch/internal/config"
	"github.com/rickgao/arbwatch/internal/console"
	"github.com/rickgao/arbwatch/internal/metrics"
	"github.com/rickgao/arbwatch/internal/poller"
	"github.com/rickgao/arbwatch/internal/server"
	"github.com/rickgao/arbwatch/internal/version"
	"github.com/rickgao/arbwatch/internal/view"
)

func main() {
	configPath := flag.String("config", "", "path to config file (defaults only when empty)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	// Load configuration
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Set up structured logging
	logger := newLogger(os.Stdout, cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting dashboard",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
		"api_url", cfg.API.BaseURL,
	)

	if err := run(cfg, logger); err != nil {
		logger.Error("dashboard failed", "error", err)
		os.Exit(1)
	}

	logger.Info("dashboard stopped")
}

func run(cfg *config.Config, logger *slog.Logger) error {
	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case sig := <-sigCh:
			logger.Info("received shutdown signal", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	// Create API client
	apiClient := api.NewClient(
		cfg.API.BaseURL,
		api.WithLogger(logger),
		api.WithTimeout(cfg.API.Timeout),
		api.WithRetries(cfg.API.MaxRetries, 250*time.Millisecond),
		api.WithPaths(cfg.API.CoinsPath, cfg.API.LegacyPath),
	)

	probeLegacy(ctx, apiClient, logger)

	collector := metrics.NewCollector(metrics.DefaultNamespace)

	// The server needs the poller as its controller and the poller needs the
	// server as a handler; srv is assigned before the poller starts.
	var srv *server.Server
	var handlers []poller.StateHandler
	if cfg.Console.Enabled {
		handlers = append(handlers, console.New(os.Stdout, console.Config{
			TopN:    cfg.View.TopN,
			TickerN: cfg.View.TickerN,
			Mode:    view.ModeAll,
		}, logger))
	}
	if cfg.Server.IsEnabled() {
		handlers = append(handlers, poller.StateHandlerFunc(func(s poller.State) {
			srv.HandleState(s)
		}))
	}

	p := poller.New(
		poller.Config{
			Interval: cfg.Poller.Interval,
			Timeout:  cfg.Poller.AttemptTimeout,
		},
		apiClient,
		poller.Fanout(handlers...),
		logger,
		poller.WithRecorder(collector),
	)

	if cfg.Server.IsEnabled() {
		srv = server.New(server.Config{
			Addr:        cfg.Server.Addr,
			MetricsPath: cfg.Server.MetricsPath,
			Layout: server.Layout{
				TopN:    cfg.View.TopN,
				TickerN: cfg.View.TickerN,
			},
			Hub: server.DefaultHubConfig(),
		}, p, collector.Handler(), logger)
	}

	if err := p.Start(ctx); err != nil {
		return fmt.Errorf("start poller: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	if srv != nil {
		g.Go(func() error {
			if err := srv.Run(gctx); err != nil {
				return fmt.Errorf("http server: %w", err)
			}
			return nil
		})
		logger.Info("dashboard running",
			"board_url", fmt.Sprintf("http://%s/api/board", displayAddr(cfg.Server.Addr)),
		)
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := p.Stop(shutdownCtx); err != nil {
			return fmt.Errorf("stop poller: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// probeLegacy checks the legacy single-coin endpoint once. Failure is not
// fatal: the poller reports upstream health on its own.
func probeLegacy(ctx context.Context, client *api.Client, logger *slog.Logger) {
	probeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	q, err := client.GetLegacyQuote(probeCtx)
	if err != nil {
		logger.Warn("legacy endpoint probe failed", "kind", api.Kind(err), "error", err)
		return
	}
	logger.Info("legacy endpoint reachable",
		"symbol", q.Symbol,
		"spread", q.Spread,
		"cheaper", q.Cheaper,
	)
}

// newLogger builds a slog logger from the log config. Unknown values were
// rejected by validation; anything else falls back to info/text.
func newLogger(w io.Writer, cfg config.LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}
	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func displayAddr(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "localhost" + addr
	}
	return addr
}

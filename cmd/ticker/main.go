package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/riskibarqy/livebaz/internal/config"
	"github.com/riskibarqy/livebaz/internal/livescore"
	"github.com/riskibarqy/livebaz/internal/platform/logging"
)

func main() {
	url := flag.String("url", envOr("LIVE_SCORES_URL", "http://localhost:8080/api/live-scores"), "live-scores endpoint")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.New(cfg.AppEnv, cfg.LogLevel)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fetcher := livescore.NewHTTPFetcher(livescore.HTTPFetcherConfig{URL: *url}, nil)
	poller := livescore.NewPoller(fetcher, livescore.Config{
		Interval: cfg.LiveScoresPollInterval,
		OnUpdate: func(tk livescore.Ticker) { logTicker(logger, tk) },
	}, logger)

	logTicker(logger, poller.Snapshot())
	handle := poller.Start(ctx)

	<-ctx.Done()
	handle.Stop()
	logger.Info("ticker stopped")
}

func logTicker(logger *logging.Logger, tk livescore.Ticker) {
	logger.Info("ticker snapshot", "is_live", tk.IsLive, "matches", len(tk.Matches))
	for _, m := range tk.Matches {
		logger.Info("match",
			"id", m.ID,
			"home", m.HomeTeam,
			"away", m.AwayTeam,
			"home_score", m.HomeScore,
			"away_score", m.AwayScore,
			"time", m.Time,
			"status", string(m.Status),
		)
	}
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

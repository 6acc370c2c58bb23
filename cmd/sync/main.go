package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/livebaz/internal/app"
	"github.com/riskibarqy/livebaz/internal/config"
	"github.com/riskibarqy/livebaz/internal/domain/syncrun"
	"github.com/riskibarqy/livebaz/internal/platform/logging"
)

type runOutput struct {
	RunID      string   `json:"run_id"`
	SportKey   string   `json:"sport_key"`
	Success    bool     `json:"success"`
	Created    int      `json:"created"`
	Updated    int      `json:"updated"`
	Errors     []string `json:"errors"`
	StartedAt  string   `json:"started_at"`
	FinishedAt string   `json:"finished_at,omitempty"`
}

func main() {
	listSports := flag.Bool("sports", false, "list the sport keys offered by the odds provider and exit")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [-sports] [sport_key ...]\n", os.Args[0])
		fmt.Fprintln(os.Stderr, "with no sport keys, SYNC_SPORT_KEYS is used")
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := logging.New(cfg.AppEnv, cfg.LogLevel)
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	container, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("build app", "error", err)
		os.Exit(1)
	}
	defer container.Close()

	if *listSports {
		if err := printSports(ctx, container); err != nil {
			logger.Error("list sports", "error", err)
			os.Exit(1)
		}
		return
	}

	keys := flag.Args()
	if len(keys) == 0 {
		keys = cfg.SyncSportKeys
	}

	runs, runErr := container.Runner.RunAll(ctx, keys)
	if err := printJSON(toOutput(runs)); err != nil {
		logger.Error("write output", "error", err)
	}
	if runErr != nil {
		logger.Error("sync failed", "error", runErr)
		os.Exit(1)
	}
	for _, run := range runs {
		if !run.Success {
			os.Exit(2)
		}
	}
}

func printSports(ctx context.Context, container *app.App) error {
	sports, err := container.OddsAPI.ListSports(ctx)
	if err != nil {
		return err
	}
	for _, sport := range sports {
		if !sport.Active {
			continue
		}
		fmt.Printf("%-40s %s\n", sport.Key, strings.TrimSpace(sport.Group+" / "+sport.Title))
	}
	return nil
}

func toOutput(runs []syncrun.Run) []runOutput {
	out := make([]runOutput, 0, len(runs))
	for _, run := range runs {
		if run.ID == "" {
			continue
		}
		item := runOutput{
			RunID:     run.ID,
			SportKey:  run.SportKey,
			Success:   run.Success,
			Created:   run.Created,
			Updated:   run.Updated,
			Errors:    append([]string{}, run.Errors...),
			StartedAt: run.StartedAt.UTC().Format(time.RFC3339),
		}
		if run.FinishedAt != nil {
			item.FinishedAt = run.FinishedAt.UTC().Format(time.RFC3339)
		}
		out = append(out, item)
	}
	return out
}

func printJSON(v any) error {
	raw, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(os.Stdout, string(raw))
	return err
}

package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/livebaz/external/apisports"
	"github.com/riskibarqy/livebaz/external/eventbus"
	"github.com/riskibarqy/livebaz/external/jobqueue"
	"github.com/riskibarqy/livebaz/external/oddsapi"
	"github.com/riskibarqy/livebaz/internal/config"
	"github.com/riskibarqy/livebaz/internal/interfaces/httpapi"
	basecache "github.com/riskibarqy/livebaz/internal/platform/cache"
	"github.com/riskibarqy/livebaz/internal/platform/id"
	"github.com/riskibarqy/livebaz/internal/platform/logging"
	"github.com/riskibarqy/livebaz/internal/usecase"
)

// App holds the wired services shared by the api and the one-shot binaries.
type App struct {
	Config config.Config
	Logger *logging.Logger
	DB     *sqlx.DB

	Sync         *usecase.SyncService
	Runner       *usecase.SyncRunner
	Dispatcher   *usecase.SyncDispatchService
	LiveScores   *usecase.LiveScoreService
	Diagnostics  *usecase.DiagnosticsService
	Translations *usecase.TranslationService
	Content      *usecase.ContentService
	OddsAPI      *oddsapi.Client

	closers []func() error
}

// New opens the store and cache and builds every service. Close releases what New opened.
func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	a := &App{Config: cfg, Logger: logger}

	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	a.DB = store.db
	a.closers = append(a.closers, store.close)

	backend, closeBackend, err := openCacheBackend(ctx, cfg, logger)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	a.closers = append(a.closers, closeBackend)
	store.decorate(backend, cfg.CacheTTL)

	catalog, err := config.LoadLeagueCatalog(cfg.LeagueCatalogPath)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	a.OddsAPI = oddsapi.NewClient(oddsapi.ClientConfig{
		BaseURL:        cfg.OddsAPIBaseURL,
		APIKey:         cfg.OddsAPIKey,
		Regions:        cfg.OddsAPIRegions,
		Timeout:        cfg.OddsAPITimeout,
		MaxRetries:     cfg.OddsAPIMaxRetries,
		Logger:         logger,
		CircuitBreaker: cfg.OddsAPICircuit,
	})
	fixtures := apisports.NewClient(apisports.ClientConfig{
		BaseURL:        cfg.APISportsBaseURL,
		APIKey:         cfg.APISportsKey,
		Timeout:        cfg.APISportsTimeout,
		Logger:         logger,
		CircuitBreaker: cfg.APISportsCircuit,
	})

	ids := id.NewUUIDGenerator()
	a.Translations = usecase.NewTranslationService(
		store.languages,
		store.leagues,
		store.matches,
		store.articles,
		catalog,
		ids,
		id.NewTimeSuffix(),
		logger,
	)
	a.Sync = usecase.NewSyncService(
		store.leagues,
		store.matches,
		store.predictions,
		store.languages,
		a.OddsAPI,
		usecase.NewFixtureMatcher(store.matches, cfg.SyncMatchWindow),
		a.Translations,
		ids,
		logger,
	)

	var publisher usecase.SyncEventPublisher
	if cfg.AMQPEnabled {
		amqpPublisher := eventbus.NewAMQPPublisher(eventbus.AMQPConfig{
			URL:        cfg.AMQPURL,
			Exchange:   cfg.AMQPExchange,
			RoutingKey: cfg.AMQPRoutingKey,
		}, logger)
		publisher = amqpPublisher
		a.closers = append(a.closers, amqpPublisher.Close)
	}
	a.Runner = usecase.NewSyncRunner(a.Sync, store.syncRuns, publisher, ids, usecase.SyncRunnerConfig{Workers: cfg.SyncWorkers}, logger)

	var queue usecase.JobQueue
	if cfg.QStashEnabled {
		qstash, err := jobqueue.NewQStash(jobqueue.QStashConfig{
			BaseURL:          cfg.QStashBaseURL,
			Token:            cfg.QStashToken,
			TargetBaseURL:    cfg.QStashTargetBaseURL,
			Retries:          cfg.QStashRetries,
			InternalJobToken: cfg.InternalJobToken,
			CircuitBreaker:   cfg.QStashCircuit,
		}, logger)
		if err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("build qstash client: %w", err)
		}
		queue = qstash
	}
	a.Dispatcher = usecase.NewSyncDispatchService(queue, a.Runner, store.dispatches, usecase.SyncDispatchConfig{
		SportKeys: cfg.SyncSportKeys,
		Interval:  cfg.SyncInterval,
	}, logger)

	var liveLoader *basecache.JSONLoader
	if backend != nil {
		liveLoader = basecache.NewJSONLoader(backend, cfg.LiveScoresCacheTTL)
	}
	a.LiveScores = usecase.NewLiveScoreService(a.OddsAPI, liveLoader, usecase.LiveScoreConfig{
		SportKeys: cfg.LiveScoresSportKeys,
		DaysFrom:  cfg.LiveScoresDaysFrom,
		Limit:     cfg.LiveScoresLimit,
	}, logger)

	var pinger usecase.Pinger
	if store.db != nil {
		pinger = store.db
	}
	a.Diagnostics = usecase.NewDiagnosticsService(pinger, fixtures, usecase.DiagnosticsConfig{
		Environment:         cfg.AppEnv,
		APISportsKeyPresent: cfg.APISportsKey != "",
		SportsAPIURL:        cfg.APISportsBaseURL,
	}, logger)

	a.Content = usecase.NewContentService(store.leagues, store.bookmakers)

	logger.Info("app wired",
		"store", cfg.StoreDriver,
		"cache", cacheMode(cfg),
		"qstash", cfg.QStashEnabled,
		"amqp", cfg.AMQPEnabled,
	)
	return a, nil
}

func (a *App) NewHTTPServer() (*http.Server, error) {
	if a.Config.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	handler := httpapi.NewHandler(httpapi.Services{
		LiveScores:   a.LiveScores,
		Diagnostics:  a.Diagnostics,
		Runner:       a.Runner,
		Dispatcher:   a.Dispatcher,
		Translations: a.Translations,
		Content:      a.Content,
	}, a.Config.LiveScoresPollInterval, a.Logger)

	router := httpapi.NewRouter(handler, a.Logger, httpapi.RouterConfig{
		SwaggerEnabled:     a.Config.SwaggerEnabled,
		CORSAllowedOrigins: a.Config.CORSAllowedOrigins,
		InternalJobToken:   a.Config.InternalJobToken,
	})

	return &http.Server{
		Addr:         a.Config.HTTPAddr,
		Handler:      router,
		ReadTimeout:  a.Config.ReadTimeout,
		WriteTimeout: a.Config.WriteTimeout,
	}, nil
}

// Close releases resources in reverse acquisition order.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func openCacheBackend(ctx context.Context, cfg config.Config, logger *logging.Logger) (basecache.Backend, func() error, error) {
	noop := func() error { return nil }
	if !cfg.CacheEnabled {
		return nil, noop, nil
	}
	if cfg.RedisURL == "" {
		return basecache.NewStore(), noop, nil
	}

	redisStore, err := basecache.NewRedisStore(ctx, cfg.RedisURL, cfg.ServiceName+":")
	if err != nil {
		return nil, noop, fmt.Errorf("open redis cache: %w", err)
	}
	logger.Info("redis cache connected")
	return redisStore, redisStore.Close, nil
}

func cacheMode(cfg config.Config) string {
	switch {
	case !cfg.CacheEnabled:
		return "disabled"
	case cfg.RedisURL != "":
		return "redis"
	default:
		return "memory"
	}
}

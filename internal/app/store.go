package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/riskibarqy/livebaz/internal/config"
	"github.com/riskibarqy/livebaz/internal/domain/article"
	"github.com/riskibarqy/livebaz/internal/domain/bookmaker"
	"github.com/riskibarqy/livebaz/internal/domain/jobscheduler"
	"github.com/riskibarqy/livebaz/internal/domain/language"
	"github.com/riskibarqy/livebaz/internal/domain/league"
	"github.com/riskibarqy/livebaz/internal/domain/match"
	"github.com/riskibarqy/livebaz/internal/domain/prediction"
	"github.com/riskibarqy/livebaz/internal/domain/syncrun"
	cacherepo "github.com/riskibarqy/livebaz/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/livebaz/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/livebaz/internal/infrastructure/repository/postgres"
	basecache "github.com/riskibarqy/livebaz/internal/platform/cache"
	"github.com/riskibarqy/livebaz/internal/platform/logging"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/otel/attribute"
)

const dbPingTimeout = 5 * time.Second

type store struct {
	db *sqlx.DB

	leagues     league.Repository
	matches     match.Repository
	predictions prediction.Repository
	languages   language.Repository
	articles    article.Repository
	bookmakers  bookmaker.Repository
	syncRuns    syncrun.Repository
	dispatches  jobscheduler.Repository
}

func openStore(ctx context.Context, cfg config.Config, logger *logging.Logger) (*store, error) {
	if cfg.StoreDriver == config.StoreDriverMemory {
		logger.Warn("using in-memory store, data is lost on restart")
		return newMemoryStore(), nil
	}

	db, err := otelsqlx.Open("postgres", normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
		otelsql.WithAttributes(attribute.String("db.system", "postgresql")),
	)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, dbPingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if err := postgres.BootstrapSeed(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bootstrap seed: %w", err)
	}

	return &store{
		db:          db,
		leagues:     postgres.NewLeagueRepository(db),
		matches:     postgres.NewMatchRepository(db),
		predictions: postgres.NewPredictionRepository(db),
		languages:   postgres.NewLanguageRepository(db),
		articles:    postgres.NewArticleRepository(db),
		bookmakers:  postgres.NewBookmakerRepository(db),
		syncRuns:    postgres.NewSyncRunRepository(db),
		dispatches:  postgres.NewJobDispatchRepository(db),
	}, nil
}

func newMemoryStore() *store {
	predictions := memory.NewPredictionRepository()
	return &store{
		leagues:     memory.NewLeagueRepository(nil),
		matches:     memory.NewMatchRepository(predictions, nil),
		predictions: predictions,
		languages:   memory.NewLanguageRepository(memory.SeedLanguages()),
		articles:    memory.NewArticleRepository(memory.SeedArticles()),
		bookmakers:  memory.NewBookmakerRepository(memory.SeedBookmakers()),
		syncRuns:    memory.NewSyncRunRepository(),
		dispatches:  memory.NewJobDispatchRepository(),
	}
}

// decorate puts the read-mostly repositories behind the cache. A nil backend leaves them untouched.
func (s *store) decorate(backend basecache.Backend, ttl time.Duration) {
	if backend == nil {
		return
	}
	loader := basecache.NewJSONLoader(backend, ttl)
	s.languages = cacherepo.NewLanguageRepository(s.languages, loader)
	s.bookmakers = cacherepo.NewBookmakerRepository(s.bookmakers, loader)
	s.leagues = cacherepo.NewLeagueRepository(s.leagues, loader)
}

func (s *store) close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

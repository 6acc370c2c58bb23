package cache

import (
	"context"
	"sync"

	"github.com/riskibarqy/livebaz/internal/domain/bookmaker"
	"github.com/riskibarqy/livebaz/internal/domain/language"
	"github.com/riskibarqy/livebaz/internal/domain/league"
	basecache "github.com/riskibarqy/livebaz/internal/platform/cache"
)

// LanguageRepository caches the language list, which only changes through migrations.
type LanguageRepository struct {
	next  language.Repository
	cache *basecache.JSONLoader
}

func NewLanguageRepository(next language.Repository, cache *basecache.JSONLoader) *LanguageRepository {
	return &LanguageRepository{next: next, cache: cache}
}

func (r *LanguageRepository) List(ctx context.Context) ([]language.Language, error) {
	var items []language.Language
	err := r.cache.GetOrLoad(ctx, "language:list", &items, func(ctx context.Context) (any, error) {
		return r.next.List(ctx)
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

type BookmakerRepository struct {
	next  bookmaker.Repository
	cache *basecache.JSONLoader
}

func NewBookmakerRepository(next bookmaker.Repository, cache *basecache.JSONLoader) *BookmakerRepository {
	return &BookmakerRepository{next: next, cache: cache}
}

func (r *BookmakerRepository) ListByLanguage(ctx context.Context, languageCode string) ([]bookmaker.Bookmaker, error) {
	var items []bookmaker.Bookmaker
	err := r.cache.GetOrLoad(ctx, "bookmaker:lang:"+languageCode, &items, func(ctx context.Context) (any, error) {
		return r.next.ListByLanguage(ctx, languageCode)
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// LeagueRepository caches the per-language league lists and league lookups by id.
// Writes go straight through and drop every key they can affect.
type LeagueRepository struct {
	next  league.Repository
	cache *basecache.JSONLoader

	mu   sync.Mutex
	keys map[string]struct{}
}

func NewLeagueRepository(next league.Repository, cache *basecache.JSONLoader) *LeagueRepository {
	return &LeagueRepository{next: next, cache: cache, keys: make(map[string]struct{})}
}

func (r *LeagueRepository) FindBySlugFragment(ctx context.Context, fragment string) (league.League, bool, error) {
	return r.next.FindBySlugFragment(ctx, fragment)
}

func (r *LeagueRepository) GetByID(ctx context.Context, leagueID string) (league.League, bool, error) {
	var cached cachedLeague
	key := r.track("league:id:" + leagueID)
	err := r.cache.GetOrLoad(ctx, key, &cached, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, leagueID)
		if err != nil {
			return nil, err
		}
		return cachedLeague{Value: item, Exists: exists}, nil
	})
	if err != nil {
		return league.League{}, false, err
	}
	return cached.Value, cached.Exists, nil
}

func (r *LeagueRepository) Create(ctx context.Context, item league.League) error {
	if err := r.next.Create(ctx, item); err != nil {
		return err
	}
	r.invalidateAll(ctx)
	return nil
}

func (r *LeagueRepository) ListByLanguage(ctx context.Context, languageCode string) ([]league.League, error) {
	var items []league.League
	err := r.cache.GetOrLoad(ctx, r.track("league:lang:"+languageCode), &items, func(ctx context.Context) (any, error) {
		return r.next.ListByLanguage(ctx, languageCode)
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *LeagueRepository) ListTranslations(ctx context.Context, leagueID string) ([]league.Translation, error) {
	return r.next.ListTranslations(ctx, leagueID)
}

func (r *LeagueRepository) CreateTranslation(ctx context.Context, item league.Translation) error {
	if err := r.next.CreateTranslation(ctx, item); err != nil {
		return err
	}
	_ = r.cache.Invalidate(ctx, "league:id:"+item.LeagueID, "league:lang:"+item.LanguageCode)
	return nil
}

type cachedLeague struct {
	Value  league.League
	Exists bool
}

func (r *LeagueRepository) track(key string) string {
	r.mu.Lock()
	r.keys[key] = struct{}{}
	r.mu.Unlock()
	return key
}

func (r *LeagueRepository) invalidateAll(ctx context.Context) {
	r.mu.Lock()
	keys := make([]string, 0, len(r.keys))
	for key := range r.keys {
		keys = append(keys, key)
	}
	r.mu.Unlock()
	if len(keys) > 0 {
		_ = r.cache.Invalidate(ctx, keys...)
	}
}

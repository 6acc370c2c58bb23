package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/riskibarqy/livebaz/internal/domain/league"
)

type LeagueRepository struct {
	mu           sync.RWMutex
	items        map[string]league.League
	orders       []string
	translations map[string][]league.Translation
	slugs        map[string]struct{}
}

func NewLeagueRepository(leagues []league.League) *LeagueRepository {
	r := &LeagueRepository{
		items:        make(map[string]league.League, len(leagues)),
		translations: make(map[string][]league.Translation, len(leagues)),
		slugs:        make(map[string]struct{}),
	}
	for _, l := range leagues {
		_ = r.create(l)
	}
	return r
}

func (r *LeagueRepository) FindBySlugFragment(_ context.Context, fragment string) (league.League, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if fragment == "" {
		return league.League{}, false, nil
	}
	for _, id := range r.orders {
		for _, tr := range r.translations[id] {
			if strings.Contains(tr.Slug, fragment) {
				return r.withTranslations(id), true, nil
			}
		}
	}
	return league.League{}, false, nil
}

func (r *LeagueRepository) GetByID(_ context.Context, leagueID string) (league.League, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.items[leagueID]; !ok {
		return league.League{}, false, nil
	}
	return r.withTranslations(leagueID), true, nil
}

func (r *LeagueRepository) Create(_ context.Context, item league.League) error {
	if err := item.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.create(item)
}

func (r *LeagueRepository) ListByLanguage(_ context.Context, languageCode string) ([]league.League, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]league.League, 0, len(r.orders))
	for _, id := range r.orders {
		item := r.items[id]
		item.Translations = nil
		for _, tr := range r.translations[id] {
			if tr.LanguageCode == languageCode {
				item.Translations = append(item.Translations, tr)
			}
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *LeagueRepository) ListTranslations(_ context.Context, leagueID string) ([]league.Translation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]league.Translation(nil), r.translations[leagueID]...), nil
}

func (r *LeagueRepository) CreateTranslation(_ context.Context, item league.Translation) error {
	if err := item.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[item.LeagueID]; !ok {
		return fmt.Errorf("league %s not found", item.LeagueID)
	}
	for _, tr := range r.translations[item.LeagueID] {
		if tr.LanguageCode == item.LanguageCode {
			return fmt.Errorf("league %s already has %s translation", item.LeagueID, item.LanguageCode)
		}
	}
	if _, taken := r.slugs[item.Slug]; taken {
		return fmt.Errorf("%w: %s", league.ErrSlugTaken, item.Slug)
	}
	r.slugs[item.Slug] = struct{}{}
	r.translations[item.LeagueID] = append(r.translations[item.LeagueID], item)
	return nil
}

// create must be called with the write lock held. All slugs are checked before anything is stored.
func (r *LeagueRepository) create(item league.League) error {
	if _, exists := r.items[item.ID]; exists {
		return fmt.Errorf("league %s already exists", item.ID)
	}
	for _, tr := range item.Translations {
		if _, taken := r.slugs[tr.Slug]; taken {
			return fmt.Errorf("%w: %s", league.ErrSlugTaken, tr.Slug)
		}
	}

	translations := make([]league.Translation, 0, len(item.Translations))
	for _, tr := range item.Translations {
		tr.LeagueID = item.ID
		r.slugs[tr.Slug] = struct{}{}
		translations = append(translations, tr)
	}
	item.Translations = nil
	r.items[item.ID] = item
	r.orders = append(r.orders, item.ID)
	r.translations[item.ID] = translations
	return nil
}

func (r *LeagueRepository) withTranslations(id string) league.League {
	item := r.items[id]
	item.Translations = append([]league.Translation(nil), r.translations[id]...)
	return item
}

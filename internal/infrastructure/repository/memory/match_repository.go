package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/livebaz/internal/domain/match"
)

type MatchRepository struct {
	mu           sync.RWMutex
	items        map[string]match.Match
	translations map[string][]match.Translation
	slugs        map[string]struct{}
	predictions  *PredictionRepository
}

// NewMatchRepository stores inline predictions in predictions, which may be shared with the
// prediction use cases.
func NewMatchRepository(predictions *PredictionRepository, matches []match.Match) *MatchRepository {
	if predictions == nil {
		predictions = NewPredictionRepository()
	}
	r := &MatchRepository{
		items:        make(map[string]match.Match, len(matches)),
		translations: make(map[string][]match.Translation, len(matches)),
		slugs:        make(map[string]struct{}),
		predictions:  predictions,
	}
	for _, m := range matches {
		_ = r.Create(context.Background(), m)
	}
	return r
}

func (r *MatchRepository) ListByKickoffWindow(_ context.Context, from, to time.Time) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Match, 0)
	for _, item := range r.items {
		if item.KickoffAt.Before(from) || item.KickoffAt.After(to) {
			continue
		}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].KickoffAt.Equal(out[j].KickoffAt) {
			return out[i].KickoffAt.Before(out[j].KickoffAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *MatchRepository) GetByID(ctx context.Context, matchID string) (match.Match, bool, error) {
	r.mu.RLock()
	item, ok := r.items[matchID]
	if ok {
		item.Translations = append([]match.Translation(nil), r.translations[matchID]...)
	}
	r.mu.RUnlock()
	if !ok {
		return match.Match{}, false, nil
	}

	if p, found, err := r.predictions.GetByMatchID(ctx, matchID); err == nil && found {
		item.Prediction = &p
	}
	return item, true, nil
}

func (r *MatchRepository) Create(ctx context.Context, item match.Match) error {
	if err := item.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[item.ID]; exists {
		return fmt.Errorf("match %s already exists", item.ID)
	}
	for _, tr := range item.Translations {
		if _, taken := r.slugs[tr.Slug]; taken {
			return fmt.Errorf("%w: %s", match.ErrSlugTaken, tr.Slug)
		}
	}
	if item.Prediction != nil {
		p := *item.Prediction
		p.MatchID = item.ID
		if err := r.predictions.Upsert(ctx, p); err != nil {
			return fmt.Errorf("create inline prediction: %w", err)
		}
	}

	translations := make([]match.Translation, 0, len(item.Translations))
	for _, tr := range item.Translations {
		tr.MatchID = item.ID
		r.slugs[tr.Slug] = struct{}{}
		translations = append(translations, tr)
	}
	item.Translations = nil
	item.Prediction = nil
	r.items[item.ID] = item
	r.translations[item.ID] = translations
	return nil
}

func (r *MatchRepository) ListTranslations(_ context.Context, matchID string) ([]match.Translation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]match.Translation(nil), r.translations[matchID]...), nil
}

func (r *MatchRepository) CreateTranslation(_ context.Context, item match.Translation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[item.MatchID]; !ok {
		return fmt.Errorf("match %s not found", item.MatchID)
	}
	for _, tr := range r.translations[item.MatchID] {
		if tr.LanguageCode == item.LanguageCode {
			return fmt.Errorf("match %s already has %s translation", item.MatchID, item.LanguageCode)
		}
	}
	if _, taken := r.slugs[item.Slug]; taken {
		return fmt.Errorf("%w: %s", match.ErrSlugTaken, item.Slug)
	}
	r.slugs[item.Slug] = struct{}{}
	r.translations[item.MatchID] = append(r.translations[item.MatchID], item)
	return nil
}

// Count is a test and diagnostics helper.
func (r *MatchRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

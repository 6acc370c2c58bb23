package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/riskibarqy/livebaz/internal/domain/article"
	"github.com/riskibarqy/livebaz/internal/domain/bookmaker"
	"github.com/riskibarqy/livebaz/internal/domain/language"
)

type LanguageRepository struct {
	items []language.Language
}

func NewLanguageRepository(items []language.Language) *LanguageRepository {
	return &LanguageRepository{items: append([]language.Language(nil), items...)}
}

func (r *LanguageRepository) List(_ context.Context) ([]language.Language, error) {
	return append([]language.Language(nil), r.items...), nil
}

type ArticleRepository struct {
	mu    sync.RWMutex
	items map[string]article.Article
	slugs map[string]struct{}
}

func NewArticleRepository(articles []article.Article) *ArticleRepository {
	r := &ArticleRepository{
		items: make(map[string]article.Article, len(articles)),
		slugs: make(map[string]struct{}),
	}
	for _, a := range articles {
		for _, tr := range a.Translations {
			r.slugs[tr.Slug] = struct{}{}
		}
		r.items[a.ID] = a
	}
	return r
}

func (r *ArticleRepository) GetByID(_ context.Context, articleID string) (article.Article, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[articleID]
	if !ok {
		return article.Article{}, false, nil
	}
	item.Translations = append([]article.Translation(nil), item.Translations...)
	return item, true, nil
}

func (r *ArticleRepository) ListTranslations(_ context.Context, articleID string) ([]article.Translation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]article.Translation(nil), r.items[articleID].Translations...), nil
}

func (r *ArticleRepository) CreateTranslation(_ context.Context, item article.Translation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	parent, ok := r.items[item.ArticleID]
	if !ok {
		return fmt.Errorf("article %s not found", item.ArticleID)
	}
	if _, taken := r.slugs[item.Slug]; taken {
		return fmt.Errorf("%w: %s", article.ErrSlugTaken, item.Slug)
	}
	r.slugs[item.Slug] = struct{}{}
	parent.Translations = append(parent.Translations, item)
	r.items[item.ArticleID] = parent
	return nil
}

type BookmakerRepository struct {
	items []bookmaker.Bookmaker
}

func NewBookmakerRepository(items []bookmaker.Bookmaker) *BookmakerRepository {
	return &BookmakerRepository{items: append([]bookmaker.Bookmaker(nil), items...)}
}

func (r *BookmakerRepository) ListByLanguage(_ context.Context, languageCode string) ([]bookmaker.Bookmaker, error) {
	out := make([]bookmaker.Bookmaker, 0, len(r.items))
	for _, item := range r.items {
		for _, tr := range item.Translations {
			if tr.LanguageCode == languageCode {
				item.Translations = []bookmaker.Translation{tr}
				out = append(out, item)
				break
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	return out, nil
}

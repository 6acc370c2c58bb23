package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/livebaz/internal/domain/article"
	"github.com/riskibarqy/livebaz/internal/domain/bookmaker"
	"github.com/riskibarqy/livebaz/internal/domain/language"
	"github.com/riskibarqy/livebaz/internal/domain/seo"
	qb "github.com/riskibarqy/livebaz/internal/platform/querybuilder"
)

type LanguageRepository struct {
	db *sqlx.DB
}

func NewLanguageRepository(db *sqlx.DB) *LanguageRepository {
	return &LanguageRepository{db: db}
}

func (r *LanguageRepository) List(ctx context.Context) ([]language.Language, error) {
	query, args, err := qb.Select(qb.Columns(languageTableModel{}, "")...).From("languages").
		OrderBy("code").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list languages query: %w", err)
	}

	var rows []languageTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list languages: %w", err)
	}
	out := make([]language.Language, 0, len(rows))
	for _, row := range rows {
		out = append(out, language.Language{Code: row.Code, Name: row.Name, IsVisible: row.IsVisible})
	}
	return out, nil
}

type ArticleRepository struct {
	db *sqlx.DB
}

func NewArticleRepository(db *sqlx.DB) *ArticleRepository {
	return &ArticleRepository{db: db}
}

func (r *ArticleRepository) GetByID(ctx context.Context, articleID string) (article.Article, bool, error) {
	query, args, err := qb.Select(qb.Columns(articleTableModel{}, "")...).From("articles").
		Where(qb.Eq("id", articleID)).
		ToSQL()
	if err != nil {
		return article.Article{}, false, fmt.Errorf("build get article by id query: %w", err)
	}

	var row articleTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return article.Article{}, false, nil
		}
		return article.Article{}, false, fmt.Errorf("get article by id: %w", err)
	}

	translations, err := r.ListTranslations(ctx, articleID)
	if err != nil {
		return article.Article{}, false, err
	}
	return article.Article{
		ID:               row.ID,
		Category:         row.Category,
		FeaturedImageURL: row.FeaturedImageURL,
		Published:        row.Published,
		CreatedAt:        row.CreatedAt,
		Translations:     translations,
	}, true, nil
}

func (r *ArticleRepository) ListTranslations(ctx context.Context, articleID string) ([]article.Translation, error) {
	query, args, err := qb.Select(qb.Columns(articleTranslationTableModel{}, "")...).From("article_translations").
		Where(qb.Eq("article_id", articleID)).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list article translations query: %w", err)
	}

	var rows []articleTranslationTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list article translations article_id=%s: %w", articleID, err)
	}
	out := make([]article.Translation, 0, len(rows))
	for _, row := range rows {
		out = append(out, article.Translation{
			ID:           row.ID,
			ArticleID:    row.ArticleID,
			LanguageCode: row.LanguageCode,
			Title:        row.Title,
			Slug:         row.Slug,
			Excerpt:      row.Excerpt,
			Content:      row.Content,
			SEO:          seo.Meta{Title: row.SEOTitle, Description: row.SEODescription},
		})
	}
	return out, nil
}

func (r *ArticleRepository) CreateTranslation(ctx context.Context, item article.Translation) error {
	query, args, err := qb.InsertModel("article_translations", articleTranslationTableModel{
		ID:             item.ID,
		ArticleID:      item.ArticleID,
		LanguageCode:   item.LanguageCode,
		Title:          item.Title,
		Slug:           item.Slug,
		Excerpt:        item.Excerpt,
		Content:        item.Content,
		SEOTitle:       item.SEO.Title,
		SEODescription: item.SEO.Description,
	}, "")
	if err != nil {
		return fmt.Errorf("build insert article translation query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isSlugConflict(err) {
			return fmt.Errorf("%w: %s", article.ErrSlugTaken, item.Slug)
		}
		return fmt.Errorf("insert article translation article_id=%s language=%s: %w", item.ArticleID, item.LanguageCode, err)
	}
	return nil
}

type BookmakerRepository struct {
	db *sqlx.DB
}

func NewBookmakerRepository(db *sqlx.DB) *BookmakerRepository {
	return &BookmakerRepository{db: db}
}

func (r *BookmakerRepository) ListByLanguage(ctx context.Context, languageCode string) ([]bookmaker.Bookmaker, error) {
	query, args, err := qb.Select(
		"b.id", "b.rating", "b.logo_url",
		"bt.language_code", "bt.name", "bt.affiliate_url", "bt.bonus_text",
	).From("bookmakers b").
		Join("JOIN bookmaker_translations bt ON bt.bookmaker_id = b.id").
		Where(qb.Eq("bt.language_code", languageCode)).
		OrderBy("b.rating DESC", "b.id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list bookmakers query: %w", err)
	}

	var rows []bookmakerRowModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list bookmakers language=%s: %w", languageCode, err)
	}
	out := make([]bookmaker.Bookmaker, 0, len(rows))
	for _, row := range rows {
		out = append(out, bookmaker.Bookmaker{
			ID:      row.ID,
			Rating:  row.Rating,
			LogoURL: row.LogoURL,
			Translations: []bookmaker.Translation{{
				BookmakerID:  row.ID,
				LanguageCode: row.LanguageCode,
				Name:         row.Name,
				AffiliateURL: row.AffiliateURL,
				BonusText:    row.BonusText,
			}},
		})
	}
	return out, nil
}

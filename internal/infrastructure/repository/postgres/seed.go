package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/livebaz/internal/infrastructure/repository/memory"
)

// BootstrapSeed loads languages, bookmakers and the starter articles into an empty database.
func BootstrapSeed(ctx context.Context, db *sqlx.DB) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM languages`); err != nil {
		return fmt.Errorf("count languages for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	exec := func(label, query string, arg map[string]any) error {
		sqlQuery, args, err := sqlx.Named(query, arg)
		if err != nil {
			return fmt.Errorf("bind seed %s query: %w", label, err)
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(sqlQuery), args...); err != nil {
			return fmt.Errorf("seed %s: %w", label, err)
		}
		return nil
	}

	for _, l := range memory.SeedLanguages() {
		if err := exec("language "+l.Code, `
INSERT INTO languages (code, name, is_visible)
VALUES (:code, :name, :is_visible)
ON CONFLICT (code) DO NOTHING`, map[string]any{
			"code":       l.Code,
			"name":       l.Name,
			"is_visible": l.IsVisible,
		}); err != nil {
			return err
		}
	}

	for _, b := range memory.SeedBookmakers() {
		if err := exec("bookmaker "+b.ID, `
INSERT INTO bookmakers (id, rating, logo_url)
VALUES (:id, :rating, :logo_url)
ON CONFLICT (id) DO NOTHING`, map[string]any{
			"id":       b.ID,
			"rating":   b.Rating,
			"logo_url": b.LogoURL,
		}); err != nil {
			return err
		}
		for _, tr := range b.Translations {
			if err := exec("bookmaker translation "+b.ID+"/"+tr.LanguageCode, `
INSERT INTO bookmaker_translations (bookmaker_id, language_code, name, affiliate_url, bonus_text)
VALUES (:bookmaker_id, :language_code, :name, :affiliate_url, :bonus_text)
ON CONFLICT (bookmaker_id, language_code) DO NOTHING`, map[string]any{
				"bookmaker_id":  b.ID,
				"language_code": tr.LanguageCode,
				"name":          tr.Name,
				"affiliate_url": tr.AffiliateURL,
				"bonus_text":    tr.BonusText,
			}); err != nil {
				return err
			}
		}
	}

	for _, a := range memory.SeedArticles() {
		if err := exec("article "+a.ID, `
INSERT INTO articles (id, category, featured_image_url, published, created_at)
VALUES (:id, :category, :featured_image_url, :published, :created_at)
ON CONFLICT (id) DO NOTHING`, map[string]any{
			"id":                 a.ID,
			"category":           a.Category,
			"featured_image_url": a.FeaturedImageURL,
			"published":          a.Published,
			"created_at":         a.CreatedAt.UTC(),
		}); err != nil {
			return err
		}
		for _, tr := range a.Translations {
			if err := exec("article translation "+tr.ID, `
INSERT INTO article_translations (id, article_id, language_code, title, slug, excerpt, content, seo_title, seo_description)
VALUES (:id, :article_id, :language_code, :title, :slug, :excerpt, :content, :seo_title, :seo_description)
ON CONFLICT (id) DO NOTHING`, map[string]any{
				"id":              tr.ID,
				"article_id":      a.ID,
				"language_code":   tr.LanguageCode,
				"title":           tr.Title,
				"slug":            tr.Slug,
				"excerpt":         tr.Excerpt,
				"content":         tr.Content,
				"seo_title":       tr.SEO.Title,
				"seo_description": tr.SEO.Description,
			}); err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}
	return nil
}

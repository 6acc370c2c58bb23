package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/livebaz/internal/domain/league"
	"github.com/riskibarqy/livebaz/internal/domain/seo"
	qb "github.com/riskibarqy/livebaz/internal/platform/querybuilder"
)

type LeagueRepository struct {
	db *sqlx.DB
}

func NewLeagueRepository(db *sqlx.DB) *LeagueRepository {
	return &LeagueRepository{db: db}
}

func (r *LeagueRepository) FindBySlugFragment(ctx context.Context, fragment string) (league.League, bool, error) {
	if fragment == "" {
		return league.League{}, false, nil
	}

	query, args, err := qb.Select(qb.Columns(leagueTableModel{}, "l")...).From("leagues l").
		Where(qb.Expr(`EXISTS (SELECT 1 FROM league_translations lt WHERE lt.league_id = l.id AND lt.slug LIKE ? ESCAPE '\')`,
			"%"+escapeLike(fragment)+"%")).
		OrderBy("l.created_at", "l.id").
		Limit(1).
		ToSQL()
	if err != nil {
		return league.League{}, false, fmt.Errorf("build find league by slug fragment query: %w", err)
	}

	var row leagueTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return league.League{}, false, nil
		}
		return league.League{}, false, fmt.Errorf("find league by slug fragment=%s: %w", fragment, err)
	}
	return r.withTranslations(ctx, row)
}

func (r *LeagueRepository) GetByID(ctx context.Context, leagueID string) (league.League, bool, error) {
	query, args, err := qb.Select(qb.Columns(leagueTableModel{}, "")...).From("leagues").
		Where(qb.Eq("id", leagueID)).
		ToSQL()
	if err != nil {
		return league.League{}, false, fmt.Errorf("build get league by id query: %w", err)
	}

	var row leagueTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return league.League{}, false, nil
		}
		return league.League{}, false, fmt.Errorf("get league by id: %w", err)
	}
	return r.withTranslations(ctx, row)
}

func (r *LeagueRepository) Create(ctx context.Context, item league.League) error {
	if err := item.Validate(); err != nil {
		return err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for league create: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query, args, err := qb.InsertModel("leagues", leagueInsertModel{
		ID:       item.ID,
		SportKey: item.SportKey,
		Country:  item.Country,
		LogoURL:  item.LogoURL,
	}, "")
	if err != nil {
		return fmt.Errorf("build insert league query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert league id=%s: %w", item.ID, err)
	}

	for _, tr := range item.Translations {
		tr.LeagueID = item.ID
		if err := insertLeagueTranslation(ctx, tx, tr); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit league create: %w", err)
	}
	return nil
}

func (r *LeagueRepository) ListByLanguage(ctx context.Context, languageCode string) ([]league.League, error) {
	query, args, err := qb.Select(qb.Columns(leagueTableModel{}, "")...).From("leagues").
		OrderBy("created_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list leagues query: %w", err)
	}
	var rows []leagueTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list leagues: %w", err)
	}

	trQuery, trArgs, err := qb.Select(qb.Columns(leagueTranslationTableModel{}, "")...).From("league_translations").
		Where(qb.Eq("language_code", languageCode)).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list league translations by language query: %w", err)
	}
	var trRows []leagueTranslationTableModel
	if err := r.db.SelectContext(ctx, &trRows, trQuery, trArgs...); err != nil {
		return nil, fmt.Errorf("list league translations language=%s: %w", languageCode, err)
	}
	byLeague := make(map[string][]league.Translation, len(trRows))
	for _, tr := range trRows {
		byLeague[tr.LeagueID] = append(byLeague[tr.LeagueID], leagueTranslationFromRow(tr))
	}

	out := make([]league.League, 0, len(rows))
	for _, row := range rows {
		item := leagueFromRow(row)
		item.Translations = byLeague[row.ID]
		out = append(out, item)
	}
	return out, nil
}

func (r *LeagueRepository) ListTranslations(ctx context.Context, leagueID string) ([]league.Translation, error) {
	query, args, err := qb.Select(qb.Columns(leagueTranslationTableModel{}, "")...).From("league_translations").
		Where(qb.Eq("league_id", leagueID)).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list league translations query: %w", err)
	}

	var rows []leagueTranslationTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list league translations league_id=%s: %w", leagueID, err)
	}
	out := make([]league.Translation, 0, len(rows))
	for _, row := range rows {
		out = append(out, leagueTranslationFromRow(row))
	}
	return out, nil
}

func (r *LeagueRepository) CreateTranslation(ctx context.Context, item league.Translation) error {
	if err := item.Validate(); err != nil {
		return err
	}
	return insertLeagueTranslation(ctx, r.db, item)
}

func (r *LeagueRepository) withTranslations(ctx context.Context, row leagueTableModel) (league.League, bool, error) {
	translations, err := r.ListTranslations(ctx, row.ID)
	if err != nil {
		return league.League{}, false, err
	}
	item := leagueFromRow(row)
	item.Translations = translations
	return item, true, nil
}

func insertLeagueTranslation(ctx context.Context, exec sqlx.ExecerContext, tr league.Translation) error {
	query, args, err := qb.InsertModel("league_translations", leagueTranslationTableModel{
		ID:             tr.ID,
		LeagueID:       tr.LeagueID,
		LanguageCode:   tr.LanguageCode,
		Name:           tr.Name,
		Slug:           tr.Slug,
		Description:    tr.Description,
		SEOTitle:       tr.SEO.Title,
		SEODescription: tr.SEO.Description,
	}, "")
	if err != nil {
		return fmt.Errorf("build insert league translation query: %w", err)
	}
	if _, err := exec.ExecContext(ctx, query, args...); err != nil {
		if isSlugConflict(err) {
			return fmt.Errorf("%w: %s", league.ErrSlugTaken, tr.Slug)
		}
		return fmt.Errorf("insert league translation league_id=%s language=%s: %w", tr.LeagueID, tr.LanguageCode, err)
	}
	return nil
}

func leagueFromRow(row leagueTableModel) league.League {
	return league.League{
		ID:        row.ID,
		SportKey:  row.SportKey,
		Country:   row.Country,
		LogoURL:   row.LogoURL,
		CreatedAt: row.CreatedAt,
	}
}

func leagueTranslationFromRow(row leagueTranslationTableModel) league.Translation {
	return league.Translation{
		ID:           row.ID,
		LeagueID:     row.LeagueID,
		LanguageCode: row.LanguageCode,
		Name:         row.Name,
		Slug:         row.Slug,
		Description:  row.Description,
		SEO:          seo.Meta{Title: row.SEOTitle, Description: row.SEODescription},
	}
}

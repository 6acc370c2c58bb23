package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/livebaz/internal/domain/match"
	"github.com/riskibarqy/livebaz/internal/domain/prediction"
	"github.com/riskibarqy/livebaz/internal/domain/seo"
	qb "github.com/riskibarqy/livebaz/internal/platform/querybuilder"
)

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) ListByKickoffWindow(ctx context.Context, from, to time.Time) ([]match.Match, error) {
	query, args, err := qb.Select(qb.Columns(matchTableModel{}, "")...).From("matches").
		Where(qb.Between("kickoff_at", from.UTC(), to.UTC())).
		OrderBy("kickoff_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list matches by kickoff window query: %w", err)
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list matches kickoff between %s and %s: %w", from.Format(time.RFC3339), to.Format(time.RFC3339), err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, matchFromRow(row))
	}
	return out, nil
}

func (r *MatchRepository) GetByID(ctx context.Context, matchID string) (match.Match, bool, error) {
	query, args, err := qb.Select(qb.Columns(matchTableModel{}, "")...).From("matches").
		Where(qb.Eq("id", matchID)).
		ToSQL()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build get match by id query: %w", err)
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("get match by id: %w", err)
	}

	item := matchFromRow(row)
	if item.Translations, err = r.ListTranslations(ctx, matchID); err != nil {
		return match.Match{}, false, err
	}
	p, found, err := getPrediction(ctx, r.db, matchID)
	if err != nil {
		return match.Match{}, false, err
	}
	if found {
		item.Prediction = &p
	}
	return item, true, nil
}

func (r *MatchRepository) Create(ctx context.Context, item match.Match) error {
	if err := item.Validate(); err != nil {
		return err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for match create: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	status := item.Status
	if status == "" {
		status = match.StatusScheduled
	}
	query, args, err := qb.InsertModel("matches", matchTableModel{
		ID:          item.ID,
		LeagueID:    item.LeagueID,
		KickoffAt:   item.KickoffAt.UTC(),
		HomeTeam:    item.HomeTeam,
		AwayTeam:    item.AwayTeam,
		HomeLogoURL: item.HomeLogoURL,
		AwayLogoURL: item.AwayLogoURL,
		Status:      string(status),
		HomeScore:   intPtrToNull(item.HomeScore),
		AwayScore:   intPtrToNull(item.AwayScore),
		Minute:      intPtrToNull(item.Minute),
		Lineups:     item.Lineups,
		Stats:       item.Stats,
		MainTip:     item.MainTip,
		Confidence:  intPtrToNull(item.Confidence),
	}, "")
	if err != nil {
		return fmt.Errorf("build insert match query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert match id=%s: %w", item.ID, err)
	}

	if item.Prediction != nil {
		p := *item.Prediction
		p.MatchID = item.ID
		if err := upsertPrediction(ctx, tx, p); err != nil {
			return fmt.Errorf("create inline prediction: %w", err)
		}
	}
	for _, tr := range item.Translations {
		tr.MatchID = item.ID
		if err := insertMatchTranslation(ctx, tx, tr); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit match create: %w", err)
	}
	return nil
}

func (r *MatchRepository) ListTranslations(ctx context.Context, matchID string) ([]match.Translation, error) {
	query, args, err := qb.Select(qb.Columns(matchTranslationTableModel{}, "")...).From("match_translations").
		Where(qb.Eq("match_id", matchID)).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list match translations query: %w", err)
	}

	var rows []matchTranslationTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list match translations match_id=%s: %w", matchID, err)
	}
	out := make([]match.Translation, 0, len(rows))
	for _, row := range rows {
		out = append(out, match.Translation{
			ID:           row.ID,
			MatchID:      row.MatchID,
			LanguageCode: row.LanguageCode,
			Name:         row.Name,
			Slug:         row.Slug,
			Content:      row.Content,
			SEO:          seo.Meta{Title: row.SEOTitle, Description: row.SEODescription},
		})
	}
	return out, nil
}

func (r *MatchRepository) CreateTranslation(ctx context.Context, item match.Translation) error {
	return insertMatchTranslation(ctx, r.db, item)
}

func insertMatchTranslation(ctx context.Context, exec sqlx.ExecerContext, tr match.Translation) error {
	query, args, err := qb.InsertModel("match_translations", matchTranslationTableModel{
		ID:             tr.ID,
		MatchID:        tr.MatchID,
		LanguageCode:   tr.LanguageCode,
		Name:           tr.Name,
		Slug:           tr.Slug,
		Content:        tr.Content,
		SEOTitle:       tr.SEO.Title,
		SEODescription: tr.SEO.Description,
	}, "")
	if err != nil {
		return fmt.Errorf("build insert match translation query: %w", err)
	}
	if _, err := exec.ExecContext(ctx, query, args...); err != nil {
		if isSlugConflict(err) {
			return fmt.Errorf("%w: %s", match.ErrSlugTaken, tr.Slug)
		}
		return fmt.Errorf("insert match translation match_id=%s language=%s: %w", tr.MatchID, tr.LanguageCode, err)
	}
	return nil
}

func matchFromRow(row matchTableModel) match.Match {
	return match.Match{
		ID:          row.ID,
		LeagueID:    row.LeagueID,
		KickoffAt:   row.KickoffAt.UTC(),
		HomeTeam:    row.HomeTeam,
		AwayTeam:    row.AwayTeam,
		HomeLogoURL: row.HomeLogoURL,
		AwayLogoURL: row.AwayLogoURL,
		Status:      match.NormalizeStatus(row.Status),
		HomeScore:   nullInt64ToIntPtr(row.HomeScore),
		AwayScore:   nullInt64ToIntPtr(row.AwayScore),
		Minute:      nullInt64ToIntPtr(row.Minute),
		Lineups:     row.Lineups,
		Stats:       row.Stats,
		MainTip:     row.MainTip,
		Confidence:  nullInt64ToIntPtr(row.Confidence),
	}
}

// PredictionRepository stores the one-per-match win probabilities.
type PredictionRepository struct {
	db *sqlx.DB
}

func NewPredictionRepository(db *sqlx.DB) *PredictionRepository {
	return &PredictionRepository{db: db}
}

func (r *PredictionRepository) Upsert(ctx context.Context, item prediction.Prediction) error {
	if err := item.Validate(); err != nil {
		return err
	}
	return upsertPrediction(ctx, r.db, item)
}

func (r *PredictionRepository) GetByMatchID(ctx context.Context, matchID string) (prediction.Prediction, bool, error) {
	return getPrediction(ctx, r.db, matchID)
}

func upsertPrediction(ctx context.Context, exec sqlx.ExecerContext, item prediction.Prediction) error {
	updatedAt := item.UpdatedAt.UTC()
	if item.UpdatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}
	query, args, err := qb.InsertModel("predictions", predictionTableModel{
		MatchID:     item.MatchID,
		WinProbHome: item.WinProbHome,
		WinProbDraw: item.WinProbDraw,
		WinProbAway: item.WinProbAway,
		UpdatedAt:   updatedAt,
	}, `ON CONFLICT (match_id)
DO UPDATE SET
    win_prob_home = EXCLUDED.win_prob_home,
    win_prob_draw = EXCLUDED.win_prob_draw,
    win_prob_away = EXCLUDED.win_prob_away,
    updated_at = EXCLUDED.updated_at`)
	if err != nil {
		return fmt.Errorf("build upsert prediction query: %w", err)
	}
	if _, err := exec.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert prediction match_id=%s: %w", item.MatchID, err)
	}
	return nil
}

func getPrediction(ctx context.Context, db sqlx.QueryerContext, matchID string) (prediction.Prediction, bool, error) {
	query, args, err := qb.Select(qb.Columns(predictionTableModel{}, "")...).From("predictions").
		Where(qb.Eq("match_id", matchID)).
		ToSQL()
	if err != nil {
		return prediction.Prediction{}, false, fmt.Errorf("build get prediction query: %w", err)
	}

	var row predictionTableModel
	if err := sqlx.GetContext(ctx, db, &row, query, args...); err != nil {
		if isNotFound(err) {
			return prediction.Prediction{}, false, nil
		}
		return prediction.Prediction{}, false, fmt.Errorf("get prediction match_id=%s: %w", matchID, err)
	}
	return prediction.Prediction{
		MatchID:     row.MatchID,
		WinProbHome: row.WinProbHome,
		WinProbDraw: row.WinProbDraw,
		WinProbAway: row.WinProbAway,
		UpdatedAt:   row.UpdatedAt.UTC(),
	}, true, nil
}

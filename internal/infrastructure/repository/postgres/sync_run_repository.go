package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/riskibarqy/livebaz/internal/domain/syncrun"
	qb "github.com/riskibarqy/livebaz/internal/platform/querybuilder"
)

type SyncRunRepository struct {
	db *sqlx.DB
}

func NewSyncRunRepository(db *sqlx.DB) *SyncRunRepository {
	return &SyncRunRepository{db: db}
}

func (r *SyncRunRepository) Start(ctx context.Context, run syncrun.Run) error {
	query, args, err := qb.InsertModel("sync_runs", syncRunRow(run), "ON CONFLICT (id) DO NOTHING")
	if err != nil {
		return fmt.Errorf("build insert sync run query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert sync run id=%s: %w", run.ID, err)
	}
	return nil
}

// Finish closes the run; it inserts the row when Start never landed.
func (r *SyncRunRepository) Finish(ctx context.Context, run syncrun.Run) error {
	query, args, err := qb.InsertModel("sync_runs", syncRunRow(run), `ON CONFLICT (id)
DO UPDATE SET
    finished_at = EXCLUDED.finished_at,
    success = EXCLUDED.success,
    created_count = EXCLUDED.created_count,
    updated_count = EXCLUDED.updated_count,
    errors = EXCLUDED.errors`)
	if err != nil {
		return fmt.Errorf("build finish sync run query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("finish sync run id=%s: %w", run.ID, err)
	}
	return nil
}

func (r *SyncRunRepository) GetByID(ctx context.Context, runID string) (syncrun.Run, bool, error) {
	query, args, err := qb.Select(qb.Columns(syncRunTableModel{}, "")...).From("sync_runs").
		Where(qb.Eq("id", runID)).
		ToSQL()
	if err != nil {
		return syncrun.Run{}, false, fmt.Errorf("build get sync run query: %w", err)
	}

	var row syncRunTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return syncrun.Run{}, false, nil
		}
		return syncrun.Run{}, false, fmt.Errorf("get sync run id=%s: %w", runID, err)
	}
	return syncRunFromRow(row), true, nil
}

func (r *SyncRunRepository) ListRecent(ctx context.Context, sportKey string, limit int) ([]syncrun.Run, error) {
	builder := qb.Select(qb.Columns(syncRunTableModel{}, "")...).From("sync_runs").
		OrderBy("started_at DESC", "id").
		Limit(limit)
	if sportKey != "" {
		builder = builder.Where(qb.Eq("sport_key", sportKey))
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list sync runs query: %w", err)
	}

	var rows []syncRunTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list sync runs: %w", err)
	}
	out := make([]syncrun.Run, 0, len(rows))
	for _, row := range rows {
		out = append(out, syncRunFromRow(row))
	}
	return out, nil
}

func syncRunRow(run syncrun.Run) syncRunTableModel {
	errs := run.Errors
	if errs == nil {
		errs = []string{}
	}
	return syncRunTableModel{
		ID:           run.ID,
		SportKey:     run.SportKey,
		StartedAt:    run.StartedAt.UTC(),
		FinishedAt:   run.FinishedAt,
		Success:      run.Success,
		CreatedCount: run.Created,
		UpdatedCount: run.Updated,
		Errors:       pq.StringArray(errs),
	}
}

func syncRunFromRow(row syncRunTableModel) syncrun.Run {
	return syncrun.Run{
		ID:         row.ID,
		SportKey:   row.SportKey,
		StartedAt:  row.StartedAt.UTC(),
		FinishedAt: row.FinishedAt,
		Success:    row.Success,
		Created:    row.CreatedCount,
		Updated:    row.UpdatedCount,
		Errors:     []string(row.Errors),
	}
}

package syncrun

import "context"

type Repository interface {
	Start(ctx context.Context, run Run) error
	Finish(ctx context.Context, run Run) error
	GetByID(ctx context.Context, runID string) (Run, bool, error)
	// ListRecent returns the newest runs first; an empty sportKey lists all keys.
	ListRecent(ctx context.Context, sportKey string, limit int) ([]Run, error)
}

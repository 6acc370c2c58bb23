package match

import (
	"context"
	"time"
)

type Repository interface {
	// ListByKickoffWindow returns matches whose kickoff lies in [from, to], ordered by kickoff.
	ListByKickoffWindow(ctx context.Context, from, to time.Time) ([]Match, error)
	GetByID(ctx context.Context, matchID string) (Match, bool, error)
	// Create stores the match, its inline prediction and all translations in one transaction.
	Create(ctx context.Context, item Match) error
	ListTranslations(ctx context.Context, matchID string) ([]Translation, error)
	CreateTranslation(ctx context.Context, item Translation) error
}

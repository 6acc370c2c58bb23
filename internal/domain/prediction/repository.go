package prediction

import "context"

type Repository interface {
	// Upsert creates the prediction or overwrites the win probabilities of the existing one for MatchID.
	Upsert(ctx context.Context, item Prediction) error
	GetByMatchID(ctx context.Context, matchID string) (Prediction, bool, error)
}

package article

import "context"

type Repository interface {
	GetByID(ctx context.Context, articleID string) (Article, bool, error)
	ListTranslations(ctx context.Context, articleID string) ([]Translation, error)
	CreateTranslation(ctx context.Context, item Translation) error
}

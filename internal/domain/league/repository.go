package league

import "context"

// Repository describes league persistence needs from use cases.
type Repository interface {
	// FindBySlugFragment returns the first league owning a translation whose slug contains fragment.
	FindBySlugFragment(ctx context.Context, fragment string) (League, bool, error)
	GetByID(ctx context.Context, leagueID string) (League, bool, error)
	// Create stores the league and all of its translations in one transaction.
	Create(ctx context.Context, item League) error
	// ListByLanguage returns every league with Translations narrowed to languageCode.
	ListByLanguage(ctx context.Context, languageCode string) ([]League, error)
	ListTranslations(ctx context.Context, leagueID string) ([]Translation, error)
	CreateTranslation(ctx context.Context, item Translation) error
}

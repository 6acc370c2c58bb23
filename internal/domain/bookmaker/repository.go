package bookmaker

import "context"

type Repository interface {
	// ListByLanguage returns bookmakers that have a translation in languageCode, best rated first.
	ListByLanguage(ctx context.Context, languageCode string) ([]Bookmaker, error)
}

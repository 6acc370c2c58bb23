package language

import "context"

// Repository lists configured languages. Translation completion targets every language returned by List,
// hidden ones included.
type Repository interface {
	List(ctx context.Context) ([]Language, error)
}

package seo

// Meta is the search-engine metadata owned by exactly one translation row.
type Meta struct {
	Title       string
	Description string
}

package article

import (
	"errors"
	"time"

	"github.com/riskibarqy/livebaz/internal/domain/seo"
)

// ErrSlugTaken is returned when a translation slug collides with an existing one.
var ErrSlugTaken = errors.New("article slug already taken")

type Article struct {
	ID               string
	Category         string
	FeaturedImageURL string
	Published        bool
	CreatedAt        time.Time
	Translations     []Translation
}

type Translation struct {
	ID           string
	ArticleID    string
	LanguageCode string
	Title        string
	Slug         string
	Excerpt      string
	Content      string
	SEO          seo.Meta
}

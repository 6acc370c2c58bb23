package league

import (
	"errors"
	"strings"
	"time"

	"github.com/riskibarqy/livebaz/internal/domain/seo"
)

// ErrSlugTaken is returned when a translation slug collides with an existing one.
var ErrSlugTaken = errors.New("league slug already taken")

// League is a competition; names and slugs live on its per-language translations.
type League struct {
	ID           string
	SportKey     string
	Country      string
	LogoURL      string
	CreatedAt    time.Time
	Translations []Translation
}

type Translation struct {
	ID           string
	LeagueID     string
	LanguageCode string
	Name         string
	Slug         string
	Description  string
	SEO          seo.Meta
}

func (l League) Validate() error {
	if strings.TrimSpace(l.ID) == "" {
		return errors.New("league id is required")
	}
	if strings.TrimSpace(l.Country) == "" {
		return errors.New("league country is required")
	}
	seen := make(map[string]struct{}, len(l.Translations))
	for _, tr := range l.Translations {
		if err := tr.Validate(); err != nil {
			return err
		}
		if _, dup := seen[tr.LanguageCode]; dup {
			return errors.New("league has duplicate translation for language " + tr.LanguageCode)
		}
		seen[tr.LanguageCode] = struct{}{}
	}
	return nil
}

func (t Translation) Validate() error {
	if strings.TrimSpace(t.LanguageCode) == "" {
		return errors.New("league translation language is required")
	}
	if strings.TrimSpace(t.Slug) == "" {
		return errors.New("league translation slug is required")
	}
	if strings.TrimSpace(t.Name) == "" {
		return errors.New("league translation name is required")
	}
	return nil
}

// SlugFragment is the part of a sport key that league slugs are built from, "soccer_epl" -> "epl".
func SlugFragment(sportKey string) string {
	return strings.TrimPrefix(strings.TrimSpace(sportKey), "soccer_")
}

// TranslationFor returns the translation in languageCode, if present.
func (l League) TranslationFor(languageCode string) (Translation, bool) {
	for _, tr := range l.Translations {
		if tr.LanguageCode == languageCode {
			return tr, true
		}
	}
	return Translation{}, false
}

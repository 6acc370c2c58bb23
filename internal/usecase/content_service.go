package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/livebaz/internal/domain/bookmaker"
	"github.com/riskibarqy/livebaz/internal/domain/language"
	"github.com/riskibarqy/livebaz/internal/domain/league"
)

// LocalizedLeague is a league flattened to one language.
type LocalizedLeague struct {
	ID          string `json:"id"`
	SportKey    string `json:"sport_key,omitempty"`
	Country     string `json:"country"`
	LogoURL     string `json:"logo_url,omitempty"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
}

type LocalizedBookmaker struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Rating       float64 `json:"rating"`
	LogoURL      string  `json:"logo_url,omitempty"`
	AffiliateURL string  `json:"affiliate_url"`
	BonusText    string  `json:"bonus_text,omitempty"`
}

// ContentService serves read-only localized listings.
type ContentService struct {
	leagueRepo    league.Repository
	bookmakerRepo bookmaker.Repository
}

func NewContentService(leagueRepo league.Repository, bookmakerRepo bookmaker.Repository) *ContentService {
	return &ContentService{leagueRepo: leagueRepo, bookmakerRepo: bookmakerRepo}
}

func (s *ContentService) ListLeagues(ctx context.Context, languageCode string) ([]LocalizedLeague, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ContentService.ListLeagues")
	defer span.End()

	code := language.NormalizeCode(languageCode)
	if code == "" {
		return nil, fmt.Errorf("%w: language is required", ErrInvalidInput)
	}

	leagues, err := s.leagueRepo.ListByLanguage(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("list leagues: %w", err)
	}

	out := make([]LocalizedLeague, 0, len(leagues))
	for _, item := range leagues {
		tr, ok := item.TranslationFor(code)
		if !ok {
			continue
		}
		out = append(out, LocalizedLeague{
			ID:          item.ID,
			SportKey:    item.SportKey,
			Country:     item.Country,
			LogoURL:     item.LogoURL,
			Name:        tr.Name,
			Slug:        tr.Slug,
			Description: tr.Description,
		})
	}
	return out, nil
}

func (s *ContentService) ListBookmakers(ctx context.Context, languageCode string) ([]LocalizedBookmaker, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ContentService.ListBookmakers")
	defer span.End()

	code := language.NormalizeCode(languageCode)
	if code == "" {
		return nil, fmt.Errorf("%w: language is required", ErrInvalidInput)
	}

	items, err := s.bookmakerRepo.ListByLanguage(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("list bookmakers: %w", err)
	}

	out := make([]LocalizedBookmaker, 0, len(items))
	for _, item := range items {
		for _, tr := range item.Translations {
			if tr.LanguageCode != code {
				continue
			}
			out = append(out, LocalizedBookmaker{
				ID:           item.ID,
				Name:         tr.Name,
				Rating:       item.Rating,
				LogoURL:      item.LogoURL,
				AffiliateURL: tr.AffiliateURL,
				BonusText:    tr.BonusText,
			})
			break
		}
	}
	return out, nil
}

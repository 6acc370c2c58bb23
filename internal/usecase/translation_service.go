package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/riskibarqy/livebaz/internal/domain/article"
	"github.com/riskibarqy/livebaz/internal/domain/language"
	"github.com/riskibarqy/livebaz/internal/domain/league"
	"github.com/riskibarqy/livebaz/internal/domain/match"
	"github.com/riskibarqy/livebaz/internal/domain/seo"
	"github.com/riskibarqy/livebaz/internal/platform/id"
	"github.com/riskibarqy/livebaz/internal/platform/logging"
	"github.com/riskibarqy/livebaz/internal/platform/slug"
)

const (
	EntityLeague  = "league"
	EntityMatch   = "match"
	EntityArticle = "article"

	excerptMaxRunes = 160
)

// CompletionReport lists what a backfill did for one entity. Errors that stop the whole completion come
// back with a zero report; per-language failures come back with the report filled and listed in Failed.
type CompletionReport struct {
	Entity   string   `json:"entity"`
	EntityID string   `json:"id"`
	Created  []string `json:"created"`
	Existing []string `json:"existing"`
	Failed   []string `json:"failed"`
}

// TranslationService guarantees a translation row per configured language. Every language is created
// independently: one failure is reported but never undoes the others.
type TranslationService struct {
	languageRepo language.Repository
	leagueRepo   league.Repository
	matchRepo    match.Repository
	articleRepo  article.Repository
	catalog      LeagueCatalog
	ids          id.Generator
	suffixes     id.SuffixGenerator
	logger       *logging.Logger
}

func NewTranslationService(
	languageRepo language.Repository,
	leagueRepo league.Repository,
	matchRepo match.Repository,
	articleRepo article.Repository,
	catalog LeagueCatalog,
	ids id.Generator,
	suffixes id.SuffixGenerator,
	logger *logging.Logger,
) *TranslationService {
	if logger == nil {
		logger = logging.Default()
	}
	if ids == nil {
		ids = id.NewUUIDGenerator()
	}
	if suffixes == nil {
		suffixes = id.NewTimeSuffix()
	}
	return &TranslationService{
		languageRepo: languageRepo,
		leagueRepo:   leagueRepo,
		matchRepo:    matchRepo,
		articleRepo:  articleRepo,
		catalog:      catalog,
		ids:          ids,
		suffixes:     suffixes,
		logger:       logger.Named("translation"),
	}
}

// Backfill loads the entity and completes its translations for every configured language.
func (s *TranslationService) Backfill(ctx context.Context, entity, entityID string) (CompletionReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TranslationService.Backfill")
	defer span.End()

	entity = strings.ToLower(strings.TrimSpace(entity))
	entityID = strings.TrimSpace(entityID)
	if entityID == "" {
		return CompletionReport{}, fmt.Errorf("%w: entity id is required", ErrInvalidInput)
	}

	languages, err := s.languageRepo.List(ctx)
	if err != nil {
		return CompletionReport{}, fmt.Errorf("list languages: %w", err)
	}

	switch entity {
	case EntityLeague:
		item, ok, err := s.leagueRepo.GetByID(ctx, entityID)
		if err != nil {
			return CompletionReport{}, fmt.Errorf("get league: %w", err)
		}
		if !ok {
			return CompletionReport{}, fmt.Errorf("%w: league=%s", ErrNotFound, entityID)
		}
		return s.CompleteLeague(ctx, item, languages)
	case EntityMatch:
		item, ok, err := s.matchRepo.GetByID(ctx, entityID)
		if err != nil {
			return CompletionReport{}, fmt.Errorf("get match: %w", err)
		}
		if !ok {
			return CompletionReport{}, fmt.Errorf("%w: match=%s", ErrNotFound, entityID)
		}
		return s.CompleteMatch(ctx, item, languages)
	case EntityArticle:
		item, ok, err := s.articleRepo.GetByID(ctx, entityID)
		if err != nil {
			return CompletionReport{}, fmt.Errorf("get article: %w", err)
		}
		if !ok {
			return CompletionReport{}, fmt.Errorf("%w: article=%s", ErrNotFound, entityID)
		}
		return s.CompleteArticle(ctx, item, languages)
	default:
		return CompletionReport{}, fmt.Errorf("%w: unsupported entity %q", ErrInvalidInput, entity)
	}
}

func (s *TranslationService) CompleteMatch(ctx context.Context, item match.Match, languages []language.Language) (CompletionReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TranslationService.CompleteMatch")
	defer span.End()

	existing, err := s.matchRepo.ListTranslations(ctx, item.ID)
	if err != nil {
		return CompletionReport{}, fmt.Errorf("list match translations: %w", err)
	}
	have := make(map[string]struct{}, len(existing))
	for _, tr := range existing {
		have[tr.LanguageCode] = struct{}{}
	}

	return s.complete(ctx, EntityMatch, item.ID, languages, have, func(ctx context.Context, code string) error {
		tr, err := s.MatchTranslation(item, code)
		if err != nil {
			return err
		}
		return s.matchRepo.CreateTranslation(ctx, tr)
	})
}

func (s *TranslationService) CompleteLeague(ctx context.Context, item league.League, languages []language.Language) (CompletionReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TranslationService.CompleteLeague")
	defer span.End()

	existing, err := s.leagueRepo.ListTranslations(ctx, item.ID)
	if err != nil {
		return CompletionReport{}, fmt.Errorf("list league translations: %w", err)
	}
	have := make(map[string]struct{}, len(existing))
	for _, tr := range existing {
		have[tr.LanguageCode] = struct{}{}
	}
	reference, hasReference := referenceLeagueTranslation(existing)

	return s.complete(ctx, EntityLeague, item.ID, languages, have, func(ctx context.Context, code string) error {
		var tr league.Translation
		switch {
		case item.SportKey != "":
			tr = s.LeagueTranslation(item.SportKey, code)
		case hasReference:
			tr = league.Translation{
				Name:        reference.Name,
				Slug:        slug.Join(slug.Make(reference.Name), code, s.suffixes.NewSuffix()),
				Description: reference.Description,
				SEO:         seo.Meta{Title: reference.SEO.Title, Description: reference.SEO.Description},
			}
		default:
			return errors.New("league has neither sport key nor reference translation")
		}

		trID, err := s.ids.NewID()
		if err != nil {
			return err
		}
		tr.ID = trID
		tr.LeagueID = item.ID
		tr.LanguageCode = code
		return s.leagueRepo.CreateTranslation(ctx, tr)
	})
}

func (s *TranslationService) CompleteArticle(ctx context.Context, item article.Article, languages []language.Language) (CompletionReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TranslationService.CompleteArticle")
	defer span.End()

	existing, err := s.articleRepo.ListTranslations(ctx, item.ID)
	if err != nil {
		return CompletionReport{}, fmt.Errorf("list article translations: %w", err)
	}
	have := make(map[string]struct{}, len(existing))
	for _, tr := range existing {
		have[tr.LanguageCode] = struct{}{}
	}
	if len(existing) == 0 {
		return CompletionReport{}, fmt.Errorf("%w: article %s has no translation to copy from", ErrInvalidInput, item.ID)
	}
	reference := referenceArticleTranslation(existing)
	excerpt := reference.Excerpt
	if strings.TrimSpace(excerpt) == "" {
		excerpt = ExcerptFromHTML(reference.Content, excerptMaxRunes)
	}

	return s.complete(ctx, EntityArticle, item.ID, languages, have, func(ctx context.Context, code string) error {
		trID, err := s.ids.NewID()
		if err != nil {
			return err
		}
		return s.articleRepo.CreateTranslation(ctx, article.Translation{
			ID:           trID,
			ArticleID:    item.ID,
			LanguageCode: code,
			Title:        reference.Title,
			Slug:         slug.Join(slug.Make(reference.Title), code, s.suffixes.NewSuffix()),
			Excerpt:      excerpt,
			Content:      reference.Content,
			SEO:          seo.Meta{Title: reference.Title, Description: excerpt},
		})
	})
}

// MatchTranslation synthesizes the translation a match gets in languageCode.
func (s *TranslationService) MatchTranslation(item match.Match, languageCode string) (match.Translation, error) {
	trID, err := s.ids.NewID()
	if err != nil {
		return match.Translation{}, err
	}
	name := item.DisplayName()
	return match.Translation{
		ID:           trID,
		MatchID:      item.ID,
		LanguageCode: languageCode,
		Name:         name,
		Slug:         slug.Join(slug.Make(item.HomeTeam), "vs", slug.Make(item.AwayTeam), languageCode, s.suffixes.NewSuffix()),
		SEO: seo.Meta{
			Title:       name + " - Predictions",
			Description: "Match preview, odds and predictions for " + name,
		},
	}, nil
}

// LeagueTranslation synthesizes a catalog-backed league translation. Its slug is deterministic,
// "{fragment}-{lang}", which is what league resolution searches for.
func (s *TranslationService) LeagueTranslation(sportKey, languageCode string) league.Translation {
	title := s.catalog.Title(sportKey, languageCode)
	return league.Translation{
		LanguageCode: languageCode,
		Name:         title,
		Slug:         slug.Join(league.SlugFragment(sportKey), languageCode),
		Description:  "Fixtures and predictions for " + title,
		SEO: seo.Meta{
			Title:       title,
			Description: "Live scores and predictions for " + title,
		},
	}
}

func (s *TranslationService) complete(
	ctx context.Context,
	entity, entityID string,
	languages []language.Language,
	have map[string]struct{},
	create func(ctx context.Context, code string) error,
) (CompletionReport, error) {
	report := CompletionReport{
		Entity:   entity,
		EntityID: entityID,
		Created:  []string{},
		Existing: []string{},
		Failed:   []string{},
	}
	var errs []error

	for _, lang := range languages {
		if _, ok := have[lang.Code]; ok {
			report.Existing = append(report.Existing, lang.Code)
			continue
		}
		if err := create(ctx, lang.Code); err != nil {
			report.Failed = append(report.Failed, lang.Code)
			errs = append(errs, fmt.Errorf("create %s translation for %s %s: %w", lang.Code, entity, entityID, err))
			s.logger.WarnContext(ctx, "translation backfill failed",
				"entity", entity,
				"id", entityID,
				"language", lang.Code,
				"error", err,
			)
			continue
		}
		report.Created = append(report.Created, lang.Code)
	}

	if len(report.Created) > 0 {
		s.logger.InfoContext(ctx, "translations backfilled",
			"entity", entity,
			"id", entityID,
			"languages", report.Created,
		)
	}
	return report, errors.Join(errs...)
}

// ExcerptFromHTML flattens markup to text and cuts it to at most maxRunes, ellipsis included,
// preferring a word boundary.
func ExcerptFromHTML(html string, maxRunes int) string {
	text := html
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(html)); err == nil {
		text = doc.Text()
	}
	text = strings.Join(strings.Fields(text), " ")
	if maxRunes <= 0 || utf8.RuneCountInString(text) <= maxRunes {
		return text
	}

	runes := []rune(text)[:maxRunes-1]
	cut := string(runes)
	if idx := strings.LastIndexByte(cut, ' '); idx > len(cut)/2 {
		cut = cut[:idx]
	}
	return strings.TrimSpace(cut) + "…"
}

func referenceLeagueTranslation(items []league.Translation) (league.Translation, bool) {
	for _, tr := range items {
		if tr.LanguageCode == "en" {
			return tr, true
		}
	}
	if len(items) > 0 {
		return items[0], true
	}
	return league.Translation{}, false
}

func referenceArticleTranslation(items []article.Translation) article.Translation {
	for _, tr := range items {
		if tr.LanguageCode == "en" {
			return tr
		}
	}
	return items[0]
}

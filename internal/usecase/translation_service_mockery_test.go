package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/riskibarqy/livebaz/internal/domain/article"
	"github.com/riskibarqy/livebaz/internal/domain/language"
	"github.com/riskibarqy/livebaz/internal/domain/league"
	"github.com/riskibarqy/livebaz/internal/domain/match"
	articlemock "github.com/riskibarqy/livebaz/internal/mocks/domain/article"
	languagemock "github.com/riskibarqy/livebaz/internal/mocks/domain/language"
	leaguemock "github.com/riskibarqy/livebaz/internal/mocks/domain/league"
	matchmock "github.com/riskibarqy/livebaz/internal/mocks/domain/match"
	"github.com/stretchr/testify/mock"
)

var threeLanguages = []language.Language{
	{Code: "en", Name: "English", IsVisible: true},
	{Code: "ar", Name: "Arabic", IsVisible: true},
	{Code: "fa", Name: "Persian", IsVisible: true},
}

func newTranslationServiceForTest(t *testing.T) (*TranslationService, *leaguemock.Repository, *matchmock.Repository, *articlemock.Repository, *languagemock.Repository) {
	t.Helper()
	leagueRepo := leaguemock.NewRepository(t)
	matchRepo := matchmock.NewRepository(t)
	articleRepo := articlemock.NewRepository(t)
	languageRepo := languagemock.NewRepository(t)
	svc := NewTranslationService(languageRepo, leagueRepo, matchRepo, articleRepo, staticCatalog{}, &sequentialIDs{prefix: "tr-"}, &counterSuffix{}, nil)
	return svc, leagueRepo, matchRepo, articleRepo, languageRepo
}

func TestTranslationService_CompleteMatch_CreatesOnlyMissingLanguagesUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, _, matchRepo, _, _ := newTranslationServiceForTest(t)
	item := match.Match{ID: "m-1", HomeTeam: "Manchester City", AwayTeam: "Arsenal", KickoffAt: kickoffBase}

	matchRepo.
		On("ListTranslations", mock.Anything, "m-1").
		Return([]match.Translation{{ID: "tr-en", MatchID: "m-1", LanguageCode: "en", Name: "Custom name", Slug: "custom-en"}}, nil).
		Once()

	var created []match.Translation
	matchRepo.
		On("CreateTranslation", mock.Anything, mock.MatchedBy(func(tr match.Translation) bool {
			return tr.MatchID == "m-1" && tr.LanguageCode != "en"
		})).
		Run(func(args mock.Arguments) { created = append(created, args.Get(1).(match.Translation)) }).
		Return(nil).
		Twice()

	report, err := svc.CompleteMatch(ctx, item, threeLanguages)
	if err != nil {
		t.Fatalf("complete match: %v", err)
	}
	if len(created) != 2 {
		t.Fatalf("expected 2 created translations, got %d", len(created))
	}
	if created[0].Slug == created[1].Slug {
		t.Fatalf("expected unique slugs, got %q twice", created[0].Slug)
	}
	for _, tr := range created {
		if !strings.HasPrefix(tr.Slug, "manchester-city-vs-arsenal-"+tr.LanguageCode+"-") {
			t.Fatalf("unexpected slug %q", tr.Slug)
		}
		if tr.Name != "Manchester City vs Arsenal" {
			t.Fatalf("unexpected name %q", tr.Name)
		}
		if tr.SEO.Title != "Manchester City vs Arsenal - Predictions" {
			t.Fatalf("unexpected seo title %q", tr.SEO.Title)
		}
		if tr.SEO.Description != "Match preview, odds and predictions for Manchester City vs Arsenal" {
			t.Fatalf("unexpected seo description %q", tr.SEO.Description)
		}
	}
	if len(report.Created) != 2 || report.Created[0] != "ar" || report.Created[1] != "fa" {
		t.Fatalf("unexpected created report: %+v", report.Created)
	}
	if len(report.Existing) != 1 || report.Existing[0] != "en" {
		t.Fatalf("unexpected existing report: %+v", report.Existing)
	}
}

func TestTranslationService_CompleteMatch_SlugCollisionDoesNotUndoOtherLanguagesUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, _, matchRepo, _, _ := newTranslationServiceForTest(t)
	item := match.Match{ID: "m-2", HomeTeam: "Spurs", AwayTeam: "Fulham", KickoffAt: kickoffBase}

	matchRepo.On("ListTranslations", mock.Anything, "m-2").Return([]match.Translation{}, nil).Once()
	matchRepo.
		On("CreateTranslation", mock.Anything, mock.MatchedBy(func(tr match.Translation) bool { return tr.LanguageCode == "ar" })).
		Return(match.ErrSlugTaken).
		Once()
	matchRepo.
		On("CreateTranslation", mock.Anything, mock.MatchedBy(func(tr match.Translation) bool { return tr.LanguageCode != "ar" })).
		Return(nil).
		Twice()

	report, err := svc.CompleteMatch(ctx, item, threeLanguages)
	if !errors.Is(err, match.ErrSlugTaken) {
		t.Fatalf("expected ErrSlugTaken, got %v", err)
	}
	if len(report.Created) != 2 || len(report.Failed) != 1 || report.Failed[0] != "ar" {
		t.Fatalf("unexpected report: %+v", report)
	}
}

func TestTranslationService_Backfill_LeagueUsesCatalogUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, leagueRepo, _, _, languageRepo := newTranslationServiceForTest(t)

	languageRepo.On("List", mock.Anything).Return(threeLanguages, nil).Once()
	leagueRepo.
		On("GetByID", mock.Anything, "l-epl").
		Return(league.League{ID: "l-epl", SportKey: "soccer_epl", Country: "England"}, true, nil).
		Once()
	leagueRepo.
		On("ListTranslations", mock.Anything, "l-epl").
		Return([]league.Translation{{LeagueID: "l-epl", LanguageCode: "en", Name: "Premier League", Slug: "epl-en"}}, nil).
		Once()

	var got []league.Translation
	leagueRepo.
		On("CreateTranslation", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { got = append(got, args.Get(1).(league.Translation)) }).
		Return(nil).
		Twice()

	if _, err := svc.Backfill(ctx, "league", "l-epl"); err != nil {
		t.Fatalf("backfill league: %v", err)
	}
	if len(got) != 2 || got[0].Slug != "epl-ar" || got[1].Slug != "epl-fa" {
		t.Fatalf("unexpected translations: %+v", got)
	}
	if got[1].Name != "لیگ برتر" || got[1].Description != "Fixtures and predictions for لیگ برتر" {
		t.Fatalf("unexpected fa translation: %+v", got[1])
	}
	if got[0].SEO.Description != "Live scores and predictions for الدوري الإنجليزي الممتاز" {
		t.Fatalf("unexpected ar seo: %+v", got[0].SEO)
	}
}

func TestTranslationService_Backfill_ArticleDerivesExcerptUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, _, _, articleRepo, languageRepo := newTranslationServiceForTest(t)

	languageRepo.On("List", mock.Anything).Return(threeLanguages[:2], nil).Once()
	articleRepo.On("GetByID", mock.Anything, "a-1").Return(article.Article{ID: "a-1"}, true, nil).Once()
	articleRepo.
		On("ListTranslations", mock.Anything, "a-1").
		Return([]article.Translation{{
			ArticleID:    "a-1",
			LanguageCode: "en",
			Title:        "Derby Day Preview",
			Content:      "<h1>Derby</h1>\n<p>Both sides   arrive <b>unbeaten</b>.</p>",
		}}, nil).
		Once()
	articleRepo.
		On("CreateTranslation", mock.Anything, mock.MatchedBy(func(tr article.Translation) bool {
			return tr.LanguageCode == "ar" &&
				tr.Excerpt == "Derby Both sides arrive unbeaten." &&
				strings.HasPrefix(tr.Slug, "derby-day-preview-ar-")
		})).
		Return(nil).
		Once()

	report, err := svc.Backfill(ctx, "article", "a-1")
	if err != nil {
		t.Fatalf("backfill article: %v", err)
	}
	if len(report.Created) != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}
}

func TestTranslationService_Backfill_RejectsUnknownEntityUsingMockery(t *testing.T) {
	t.Parallel()

	svc, _, _, _, languageRepo := newTranslationServiceForTest(t)
	languageRepo.On("List", mock.Anything).Return(threeLanguages, nil).Once()

	if _, err := svc.Backfill(context.Background(), "bookmaker", "b-1"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestTranslationService_Backfill_ArticleWithoutReferenceReturnsZeroReportUsingMockery(t *testing.T) {
	t.Parallel()

	svc, _, _, articleRepo, languageRepo := newTranslationServiceForTest(t)
	languageRepo.On("List", mock.Anything).Return(threeLanguages, nil).Once()
	articleRepo.On("GetByID", mock.Anything, "a-1").Return(article.Article{ID: "a-1"}, true, nil).Once()
	articleRepo.On("ListTranslations", mock.Anything, "a-1").Return([]article.Translation{}, nil).Once()

	report, err := svc.Backfill(context.Background(), "article", "a-1")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if report.Entity != "" || report.Failed != nil {
		t.Fatalf("expected zero report, got %+v", report)
	}
}

func TestTranslationService_CompleteLeague_StoreErrorReturnsZeroReportUsingMockery(t *testing.T) {
	t.Parallel()

	svc, leagueRepo, _, _, _ := newTranslationServiceForTest(t)
	leagueRepo.On("ListTranslations", mock.Anything, "l-1").Return(nil, errors.New("connection reset")).Once()

	report, err := svc.CompleteLeague(context.Background(), league.League{ID: "l-1", SportKey: "soccer_epl"}, threeLanguages)
	if err == nil {
		t.Fatalf("expected store error")
	}
	if report.Entity != "" {
		t.Fatalf("expected zero report, got %+v", report)
	}
}

func TestTranslationService_CompleteMatch_EmptyListsAreNotNilUsingMockery(t *testing.T) {
	t.Parallel()

	svc, _, matchRepo, _, _ := newTranslationServiceForTest(t)
	matchRepo.
		On("ListTranslations", mock.Anything, "m-3").
		Return([]match.Translation{{MatchID: "m-3", LanguageCode: "en"}}, nil).
		Once()

	report, err := svc.CompleteMatch(context.Background(), match.Match{ID: "m-3", HomeTeam: "A", AwayTeam: "B"}, threeLanguages[:1])
	if err != nil {
		t.Fatalf("complete match: %v", err)
	}
	if report.Created == nil || report.Failed == nil || len(report.Existing) != 1 {
		t.Fatalf("expected empty non-nil lists, got %+v", report)
	}
}

func TestExcerptFromHTML_TruncatesOnWordBoundary(t *testing.T) {
	t.Parallel()

	html := "<p>" + strings.Repeat("word ", 60) + "</p>"
	got := ExcerptFromHTML(html, 40)
	if n := len([]rune(got)); n > 40 {
		t.Fatalf("excerpt too long: %d runes", n)
	}
	if !strings.HasSuffix(got, "word…") {
		t.Fatalf("expected word boundary cut, got %q", got)
	}
}

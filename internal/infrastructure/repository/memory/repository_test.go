package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/livebaz/internal/domain/league"
	"github.com/riskibarqy/livebaz/internal/domain/match"
	"github.com/riskibarqy/livebaz/internal/domain/prediction"
)

func epl() league.League {
	return league.League{
		ID:       "lg-epl",
		SportKey: "soccer_epl",
		Country:  "England",
		Translations: []league.Translation{
			{ID: "lg-epl-en", LanguageCode: "en", Name: "Premier League", Slug: "epl-en"},
			{ID: "lg-epl-ar", LanguageCode: "ar", Name: "الدوري الإنجليزي", Slug: "epl-ar"},
		},
	}
}

func TestLeagueRepository_FindBySlugFragment(t *testing.T) {
	ctx := context.Background()
	repo := NewLeagueRepository([]league.League{epl()})

	got, found, err := repo.FindBySlugFragment(ctx, "epl")
	if err != nil || !found {
		t.Fatalf("expected league, found=%v err=%v", found, err)
	}
	if got.ID != "lg-epl" || len(got.Translations) != 2 {
		t.Fatalf("unexpected league: %+v", got)
	}

	if _, found, _ := repo.FindBySlugFragment(ctx, "spain_la_liga"); found {
		t.Fatalf("expected no match for unknown fragment")
	}
	if _, found, _ := repo.FindBySlugFragment(ctx, ""); found {
		t.Fatalf("expected empty fragment to match nothing")
	}
}

func TestLeagueRepository_SlugIsGloballyUnique(t *testing.T) {
	ctx := context.Background()
	repo := NewLeagueRepository([]league.League{epl()})

	err := repo.CreateTranslation(ctx, league.Translation{LeagueID: "lg-epl", LanguageCode: "fa", Name: "لیگ برتر", Slug: "epl-en"})
	if !errors.Is(err, league.ErrSlugTaken) {
		t.Fatalf("expected ErrSlugTaken, got %v", err)
	}

	if err := repo.CreateTranslation(ctx, league.Translation{LeagueID: "lg-epl", LanguageCode: "fa", Name: "لیگ برتر", Slug: "epl-fa"}); err != nil {
		t.Fatalf("create fa translation: %v", err)
	}

	items, err := repo.ListByLanguage(ctx, "fa")
	if err != nil {
		t.Fatalf("list by language: %v", err)
	}
	if len(items) != 1 || len(items[0].Translations) != 1 || items[0].Translations[0].Slug != "epl-fa" {
		t.Fatalf("unexpected fa listing: %+v", items)
	}
}

func TestMatchRepository_KickoffWindowIsInclusiveAndOrdered(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 5, 2, 15, 0, 0, 0, time.UTC)
	repo := NewMatchRepository(nil, []match.Match{
		{ID: "m-late", LeagueID: "lg", HomeTeam: "A", AwayTeam: "B", KickoffAt: base.Add(time.Hour)},
		{ID: "m-early", LeagueID: "lg", HomeTeam: "C", AwayTeam: "D", KickoffAt: base.Add(-time.Hour)},
		{ID: "m-out", LeagueID: "lg", HomeTeam: "E", AwayTeam: "F", KickoffAt: base.Add(3 * time.Hour)},
	})

	got, err := repo.ListByKickoffWindow(ctx, base.Add(-time.Hour), base.Add(time.Hour))
	if err != nil {
		t.Fatalf("list window: %v", err)
	}
	if len(got) != 2 || got[0].ID != "m-early" || got[1].ID != "m-late" {
		t.Fatalf("unexpected window result: %+v", got)
	}
}

func TestMatchRepository_CreateStoresInlinePrediction(t *testing.T) {
	ctx := context.Background()
	predictions := NewPredictionRepository()
	repo := NewMatchRepository(predictions, nil)

	err := repo.Create(ctx, match.Match{
		ID:         "m1",
		LeagueID:   "lg",
		HomeTeam:   "Arsenal",
		AwayTeam:   "Chelsea",
		KickoffAt:  time.Date(2026, 5, 2, 15, 0, 0, 0, time.UTC),
		Status:     match.StatusScheduled,
		Prediction: &prediction.Prediction{WinProbHome: 50, WinProbDraw: 29, WinProbAway: 21},
		Translations: []match.Translation{
			{LanguageCode: "en", Name: "Arsenal vs Chelsea", Slug: "arsenal-vs-chelsea-en-1"},
		},
	})
	if err != nil {
		t.Fatalf("create match: %v", err)
	}

	got, found, err := repo.GetByID(ctx, "m1")
	if err != nil || !found {
		t.Fatalf("get match: found=%v err=%v", found, err)
	}
	if got.Prediction == nil || got.Prediction.WinProbHome != 50 || got.Prediction.MatchID != "m1" {
		t.Fatalf("unexpected prediction: %+v", got.Prediction)
	}
	if len(got.Translations) != 1 || got.Translations[0].MatchID != "m1" {
		t.Fatalf("unexpected translations: %+v", got.Translations)
	}

	err = repo.CreateTranslation(ctx, match.Translation{MatchID: "m1", LanguageCode: "en", Slug: "other"})
	if err == nil {
		t.Fatalf("expected duplicate language to be rejected")
	}
	err = repo.CreateTranslation(ctx, match.Translation{MatchID: "m1", LanguageCode: "ar", Slug: "arsenal-vs-chelsea-en-1"})
	if !errors.Is(err, match.ErrSlugTaken) {
		t.Fatalf("expected ErrSlugTaken, got %v", err)
	}
}

func TestPredictionRepository_UpsertOverwrites(t *testing.T) {
	ctx := context.Background()
	repo := NewPredictionRepository()

	if err := repo.Upsert(ctx, prediction.Prediction{MatchID: "m1", WinProbHome: 40, WinProbDraw: 30, WinProbAway: 30}); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if err := repo.Upsert(ctx, prediction.Prediction{MatchID: "m1", WinProbHome: 60, WinProbDraw: 25, WinProbAway: 15}); err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if err := repo.Upsert(ctx, prediction.Prediction{MatchID: "m1", WinProbHome: 120}); err == nil {
		t.Fatalf("expected out-of-range probability to be rejected")
	}

	got, found, _ := repo.GetByMatchID(ctx, "m1")
	if !found || got.WinProbHome != 60 {
		t.Fatalf("expected overwritten prediction, got %+v", got)
	}
}

func TestBookmakerRepository_ListByLanguageOrdersByRating(t *testing.T) {
	repo := NewBookmakerRepository(SeedBookmakers())

	en, err := repo.ListByLanguage(context.Background(), "en")
	if err != nil {
		t.Fatalf("list en: %v", err)
	}
	if len(en) != 2 || en[0].ID != "bk-bet365" || len(en[0].Translations) != 1 {
		t.Fatalf("unexpected en listing: %+v", en)
	}

	fa, _ := repo.ListByLanguage(context.Background(), "fa")
	if len(fa) != 1 || fa[0].ID != "bk-1xbet" {
		t.Fatalf("unexpected fa listing: %+v", fa)
	}
}

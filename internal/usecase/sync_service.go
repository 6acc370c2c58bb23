package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/livebaz/internal/domain/language"
	"github.com/riskibarqy/livebaz/internal/domain/league"
	"github.com/riskibarqy/livebaz/internal/domain/match"
	"github.com/riskibarqy/livebaz/internal/domain/odds"
	"github.com/riskibarqy/livebaz/internal/domain/prediction"
	"github.com/riskibarqy/livebaz/internal/platform/id"
	"github.com/riskibarqy/livebaz/internal/platform/logging"
)

const oddsUnavailableMessage = "Could not fetch odds data"

// SyncResult is the outcome of one run. Counts stay meaningful when Errors is non-empty.
type SyncResult struct {
	Success bool     `json:"success"`
	Created int      `json:"created"`
	Updated int      `json:"updated"`
	Errors  []string `json:"errors"`
}

func (r *SyncResult) addError(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// SyncService runs one fixture and odds synchronization for a sport key. Events are processed one at a
// time in provider order; concurrent runs for the same key must be serialized by the caller.
type SyncService struct {
	leagueRepo     league.Repository
	matchRepo      match.Repository
	predictionRepo prediction.Repository
	languageRepo   language.Repository
	provider       OddsProvider
	matcher        *FixtureMatcher
	translations   *TranslationService
	ids            id.Generator
	logger         *logging.Logger
	now            func() time.Time
}

func NewSyncService(
	leagueRepo league.Repository,
	matchRepo match.Repository,
	predictionRepo prediction.Repository,
	languageRepo language.Repository,
	provider OddsProvider,
	matcher *FixtureMatcher,
	translations *TranslationService,
	ids id.Generator,
	logger *logging.Logger,
) *SyncService {
	if logger == nil {
		logger = logging.Default()
	}
	if ids == nil {
		ids = id.NewUUIDGenerator()
	}
	if matcher == nil {
		matcher = NewFixtureMatcher(matchRepo, DefaultMatchWindow)
	}
	return &SyncService{
		leagueRepo:     leagueRepo,
		matchRepo:      matchRepo,
		predictionRepo: predictionRepo,
		languageRepo:   languageRepo,
		provider:       provider,
		matcher:        matcher,
		translations:   translations,
		ids:            ids,
		logger:         logger.Named("sync"),
		now:            time.Now,
	}
}

// Sync never fails past validation: provider and store problems end up in the result. League resolution
// and event fetch failures are fatal and leave Success false; a missing odds feed only adds a warning.
func (s *SyncService) Sync(ctx context.Context, sportKey string) (SyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.Sync")
	defer span.End()

	result := SyncResult{Errors: []string{}}
	sportKey = strings.TrimSpace(sportKey)
	if sportKey == "" {
		return result, fmt.Errorf("%w: sport key is required", ErrInvalidInput)
	}

	logger := s.logger.With("sport_key", sportKey)
	started := s.now()

	languages, err := s.languageRepo.List(ctx)
	if err != nil {
		return s.fail(ctx, logger, result, fmt.Errorf("list languages: %w", err)), nil
	}

	lg, err := s.resolveLeague(ctx, sportKey, languages)
	if err != nil {
		return s.fail(ctx, logger, result, err), nil
	}

	events, err := s.provider.ListEvents(ctx, sportKey)
	if err != nil {
		return s.fail(ctx, logger, result, fmt.Errorf("fetch events: %w", err)), nil
	}

	oddsByEvent := make(map[string]odds.Event)
	oddsEvents, err := s.provider.ListOdds(ctx, sportKey)
	if err != nil {
		result.addError(oddsUnavailableMessage)
		logger.WarnContext(ctx, "odds unavailable, continuing without predictions", "error", err)
	}
	for _, ev := range oddsEvents {
		oddsByEvent[ev.ID] = ev
	}

	for _, event := range events {
		created, err := s.processEvent(ctx, lg.ID, event, oddsByEvent, languages)
		if err != nil {
			result.addError("Error processing %s vs %s: %v", event.HomeTeam, event.AwayTeam, err)
			logger.WarnContext(ctx, "sync event failed",
				"event_id", event.ID,
				"home_team", event.HomeTeam,
				"away_team", event.AwayTeam,
				"error", err,
			)
			continue
		}
		if created {
			result.Created++
		} else {
			result.Updated++
		}
	}

	result.Success = true
	logger.InfoContext(ctx, "sync finished",
		"league_id", lg.ID,
		"events", len(events),
		"created", result.Created,
		"updated", result.Updated,
		"errors", len(result.Errors),
		"duration", s.now().Sub(started),
	)
	return result, nil
}

func (s *SyncService) fail(ctx context.Context, logger *logging.Logger, result SyncResult, err error) SyncResult {
	result.Success = false
	result.addError("Sync failed: %v", err)
	logger.ErrorContext(ctx, "sync failed", "error", err)
	return result
}

// resolveLeague finds the league by slug fragment or creates it with a translation per language.
func (s *SyncService) resolveLeague(ctx context.Context, sportKey string, languages []language.Language) (league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.resolveLeague")
	defer span.End()

	fragment := league.SlugFragment(sportKey)
	found, ok, err := s.leagueRepo.FindBySlugFragment(ctx, fragment)
	if err != nil {
		return league.League{}, fmt.Errorf("find league by slug fragment %q: %w", fragment, err)
	}
	if ok {
		return found, nil
	}
	if len(languages) == 0 {
		return league.League{}, fmt.Errorf("create league %s: no languages configured", sportKey)
	}

	leagueID, err := s.ids.NewID()
	if err != nil {
		return league.League{}, fmt.Errorf("generate league id: %w", err)
	}
	item := league.League{
		ID:        leagueID,
		SportKey:  sportKey,
		Country:   s.translations.catalog.Country(sportKey, "en"),
		LogoURL:   s.translations.catalog.LogoURL(sportKey),
		CreatedAt: s.now().UTC(),
	}
	for _, lang := range languages {
		tr := s.translations.LeagueTranslation(sportKey, lang.Code)
		if tr.ID, err = s.ids.NewID(); err != nil {
			return league.League{}, fmt.Errorf("generate league translation id: %w", err)
		}
		tr.LeagueID = leagueID
		item.Translations = append(item.Translations, tr)
	}

	if err := s.leagueRepo.Create(ctx, item); err != nil {
		if !errors.Is(err, league.ErrSlugTaken) {
			return league.League{}, fmt.Errorf("create league %s: %w", sportKey, err)
		}
		// A concurrent first run created it between our lookup and insert.
		found, ok, findErr := s.leagueRepo.FindBySlugFragment(ctx, fragment)
		if findErr != nil || !ok {
			return league.League{}, fmt.Errorf("create league %s: %w", sportKey, err)
		}
		return found, nil
	}

	s.logger.InfoContext(ctx, "league created", "sport_key", sportKey, "league_id", leagueID)
	return item, nil
}

// processEvent reports created=true when the event produced a new match.
func (s *SyncService) processEvent(
	ctx context.Context,
	leagueID string,
	event ExternalEvent,
	oddsByEvent map[string]odds.Event,
	languages []language.Language,
) (bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.processEvent")
	defer span.End()

	probs, hasOdds := s.deriveOdds(ctx, event, oddsByEvent)

	existing, found, err := s.matcher.Find(ctx, event.HomeTeam, event.AwayTeam, event.CommenceTime)
	if err != nil {
		return false, err
	}

	if found {
		if hasOdds {
			if err := s.predictionRepo.Upsert(ctx, prediction.Prediction{
				MatchID:     existing.ID,
				WinProbHome: probs.Home,
				WinProbDraw: probs.Draw,
				WinProbAway: probs.Away,
				UpdatedAt:   s.now().UTC(),
			}); err != nil {
				return false, fmt.Errorf("upsert prediction: %w", err)
			}
		}
		if _, err := s.translations.CompleteMatch(ctx, existing, languages); err != nil {
			return false, err
		}
		return false, nil
	}

	matchID, err := s.ids.NewID()
	if err != nil {
		return false, fmt.Errorf("generate match id: %w", err)
	}
	item := match.Match{
		ID:        matchID,
		LeagueID:  leagueID,
		KickoffAt: event.CommenceTime.UTC(),
		HomeTeam:  event.HomeTeam,
		AwayTeam:  event.AwayTeam,
		Status:    match.StatusScheduled,
	}
	if hasOdds {
		confidence := odds.Confidence(probs)
		item.MainTip = odds.Tip(probs)
		item.Confidence = &confidence
		item.Prediction = &prediction.Prediction{
			MatchID:     matchID,
			WinProbHome: probs.Home,
			WinProbDraw: probs.Draw,
			WinProbAway: probs.Away,
			UpdatedAt:   s.now().UTC(),
		}
	}
	for _, lang := range languages {
		tr, err := s.translations.MatchTranslation(item, lang.Code)
		if err != nil {
			return false, fmt.Errorf("build %s translation: %w", lang.Code, err)
		}
		item.Translations = append(item.Translations, tr)
	}

	if err := s.matchRepo.Create(ctx, item); err != nil {
		return false, fmt.Errorf("create match: %w", err)
	}
	return true, nil
}

// deriveOdds prices the event from its odds entry. Unusable prices degrade to "no odds".
func (s *SyncService) deriveOdds(ctx context.Context, event ExternalEvent, oddsByEvent map[string]odds.Event) (odds.Probabilities, bool) {
	oddsEvent, ok := oddsByEvent[event.ID]
	if !ok {
		return odds.Probabilities{}, false
	}
	probs, ok, err := odds.Derive(oddsEvent)
	if err != nil {
		s.logger.WarnContext(ctx, "discarding invalid odds", "event_id", event.ID, "error", err)
		return odds.Probabilities{}, false
	}
	return probs, ok
}

package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/livebaz/internal/domain/match"
)

const DefaultMatchWindow = time.Hour

// FixtureMatcher decides whether an external event is already stored. Candidates come from a kickoff
// window; team names must agree exactly or by case-insensitive substring containment. Names that differ
// any other way do not match, so the caller creates a new match.
type FixtureMatcher struct {
	matchRepo match.Repository
	window    time.Duration
}

func NewFixtureMatcher(matchRepo match.Repository, window time.Duration) *FixtureMatcher {
	if window <= 0 {
		window = DefaultMatchWindow
	}
	return &FixtureMatcher{matchRepo: matchRepo, window: window}
}

// Find returns the stored match for the event. When several candidates qualify, the one with the
// closest kickoff wins.
func (m *FixtureMatcher) Find(ctx context.Context, homeTeam, awayTeam string, kickoff time.Time) (match.Match, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureMatcher.Find")
	defer span.End()

	candidates, err := m.matchRepo.ListByKickoffWindow(ctx, kickoff.Add(-m.window), kickoff.Add(m.window))
	if err != nil {
		return match.Match{}, false, fmt.Errorf("list matches in kickoff window: %w", err)
	}

	var (
		best     match.Match
		bestDist time.Duration
		found    bool
	)
	for _, candidate := range candidates {
		if !withinWindow(candidate.KickoffAt, kickoff, m.window) {
			continue
		}
		if !TeamNamesMatch(candidate.HomeTeam, homeTeam) || !TeamNamesMatch(candidate.AwayTeam, awayTeam) {
			continue
		}
		dist := absDuration(candidate.KickoffAt.Sub(kickoff))
		if !found || dist < bestDist {
			best, bestDist, found = candidate, dist, true
		}
	}

	return best, found, nil
}

// TeamNamesMatch reports whether two free-text team names denote the same side.
func TeamNamesMatch(stored, external string) bool {
	if stored == external {
		return true
	}
	a := strings.ToLower(strings.TrimSpace(stored))
	b := strings.ToLower(strings.TrimSpace(external))
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

func withinWindow(at, center time.Time, window time.Duration) bool {
	return absDuration(at.Sub(center)) <= window
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}

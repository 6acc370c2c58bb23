package usecase

import (
	"context"
	"time"

	"github.com/riskibarqy/livebaz/internal/domain/odds"
)

// OddsProvider is the external source of fixtures, prices and scores, keyed by sport key.
type OddsProvider interface {
	ListEvents(ctx context.Context, sportKey string) ([]ExternalEvent, error)
	ListOdds(ctx context.Context, sportKey string) ([]odds.Event, error)
	ListScores(ctx context.Context, sportKey string, daysFrom int) ([]ExternalScoreEvent, error)
}

type ExternalEvent struct {
	ID           string
	SportKey     string
	HomeTeam     string
	AwayTeam     string
	CommenceTime time.Time
}

type ExternalScore struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// ExternalScoreEvent is one game from the scores feed. Scores is nil before kickoff.
type ExternalScoreEvent struct {
	ID           string          `json:"id"`
	SportKey     string          `json:"sport_key,omitempty"`
	HomeTeam     string          `json:"home_team"`
	AwayTeam     string          `json:"away_team"`
	Scores       []ExternalScore `json:"scores"`
	Completed    bool            `json:"completed"`
	CommenceTime time.Time       `json:"commence_time"`
}

// LiveFixtureProvider reports fixtures currently in play; diagnostics uses it as a connectivity probe.
type LiveFixtureProvider interface {
	ListLiveFixtures(ctx context.Context) ([]ExternalLiveFixture, error)
}

type ExternalLiveFixture struct {
	ExternalID int64
	LeagueName string
	HomeTeam   string
	AwayTeam   string
	HomeGoals  *int
	AwayGoals  *int
	Status     string
	Elapsed    *int
}

// LeagueCatalog supplies presentation data for leagues created from a sport key.
type LeagueCatalog interface {
	Country(sportKey, languageCode string) string
	Title(sportKey, languageCode string) string
	LogoURL(sportKey string) string
}

// SyncEventPublisher announces finished sync runs to downstream consumers.
type SyncEventPublisher interface {
	PublishSyncCompleted(ctx context.Context, event SyncCompletedEvent) error
}

type SyncCompletedEvent struct {
	RunID      string    `json:"run_id"`
	SportKey   string    `json:"sport_key"`
	Success    bool      `json:"success"`
	Created    int       `json:"created"`
	Updated    int       `json:"updated"`
	ErrorCount int       `json:"error_count"`
	FinishedAt time.Time `json:"finished_at"`
}

// JobQueue delivers a delayed HTTP job; dedupID makes repeated enqueues idempotent.
type JobQueue interface {
	Enqueue(ctx context.Context, path string, payload any, delay time.Duration, dedupID string) error
}

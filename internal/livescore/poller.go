package livescore

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/riskibarqy/livebaz/internal/platform/logging"
	"github.com/riskibarqy/livebaz/internal/usecase"
)

const defaultPollInterval = 30 * time.Second

type Status string

const (
	StatusLive     Status = "LIVE"
	StatusHalftime Status = "HALFTIME"
	StatusFinished Status = "FINISHED"
)

// Match is one ticker row.
type Match struct {
	ID        string `json:"id"`
	HomeTeam  string `json:"home_team"`
	AwayTeam  string `json:"away_team"`
	HomeScore int    `json:"home_score"`
	AwayScore int    `json:"away_score"`
	Time      string `json:"time"`
	Status    Status `json:"status"`
}

// Ticker is what a view renders. IsLive turns true after the first non-empty fetch and never goes back.
type Ticker struct {
	Matches []Match `json:"matches"`
	IsLive  bool    `json:"is_live"`
}

// Fetcher reads the live-scores payload.
type Fetcher interface {
	Fetch(ctx context.Context) (usecase.LiveScores, error)
}

// PlaceholderMatches is shown until real data arrives.
func PlaceholderMatches() []Match {
	return []Match{
		{ID: "1", HomeTeam: "Chelsea", AwayTeam: "Arsenal", HomeScore: 1, AwayScore: 1, Time: "65'", Status: StatusLive},
		{ID: "2", HomeTeam: "Real Madrid", AwayTeam: "Barcelona", HomeScore: 2, AwayScore: 0, Time: "HT", Status: StatusHalftime},
		{ID: "3", HomeTeam: "Liverpool", AwayTeam: "Man City", HomeScore: 0, AwayScore: 0, Time: "12'", Status: StatusLive},
		{ID: "4", HomeTeam: "PSG", AwayTeam: "Marseille", HomeScore: 3, AwayScore: 1, Time: "88'", Status: StatusLive},
	}
}

type Config struct {
	Interval time.Duration
	// OnUpdate, when set, receives every snapshot that replaced the match list.
	OnUpdate func(Ticker)
}

// Poller keeps a Ticker fresh. A failed or empty fetch keeps the previous state.
type Poller struct {
	fetcher  Fetcher
	interval time.Duration
	onUpdate func(Ticker)
	logger   *logging.Logger

	mu       sync.RWMutex
	state    Ticker
	inFlight atomic.Bool
}

func NewPoller(fetcher Fetcher, cfg Config, logger *logging.Logger) *Poller {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Interval <= 0 {
		cfg.Interval = defaultPollInterval
	}
	return &Poller{
		fetcher:  fetcher,
		interval: cfg.Interval,
		onUpdate: cfg.OnUpdate,
		logger:   logger.Named("livescore"),
		state:    Ticker{Matches: PlaceholderMatches()},
	}
}

func (p *Poller) Snapshot() Ticker {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return Ticker{Matches: append([]Match(nil), p.state.Matches...), IsLive: p.state.IsLive}
}

// Handle stops a started poller. Stop is idempotent and waits for the loop to exit.
type Handle struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

func (h *Handle) Stop() {
	h.once.Do(h.cancel)
	<-h.done
}

// Done is closed once the loop has exited.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Start polls once immediately and then every interval until ctx ends or Stop is called.
func (p *Poller) Start(ctx context.Context) *Handle {
	ctx, cancel := context.WithCancel(ctx)
	h := &Handle{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(h.done)

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		p.Poll(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				p.Poll(ctx)
			}
		}
	}()
	return h
}

// Poll runs one fetch. It is a no-op while another poll is still running.
func (p *Poller) Poll(ctx context.Context) {
	if !p.inFlight.CompareAndSwap(false, true) {
		return
	}
	defer p.inFlight.Store(false)

	scores, err := p.fetcher.Fetch(ctx)
	if err != nil {
		if ctx.Err() == nil {
			p.logger.WarnContext(ctx, "fetch live scores failed, keeping previous state", "error", err)
		}
		return
	}
	if !scores.Success || len(scores.Data) == 0 {
		return
	}

	matches := make([]Match, 0, len(scores.Data))
	for _, game := range scores.Data {
		matches = append(matches, toMatch(game))
	}

	p.mu.Lock()
	p.state = Ticker{Matches: matches, IsLive: true}
	p.mu.Unlock()

	if p.onUpdate != nil {
		p.onUpdate(p.Snapshot())
	}
}

func toMatch(game usecase.ExternalScoreEvent) Match {
	out := Match{
		ID:        game.ID,
		HomeTeam:  game.HomeTeam,
		AwayTeam:  game.AwayTeam,
		HomeScore: scoreFor(game.Scores, game.HomeTeam),
		AwayScore: scoreFor(game.Scores, game.AwayTeam),
		Time:      string(StatusLive),
		Status:    StatusLive,
	}
	if game.Completed {
		out.Time = "FT"
		out.Status = StatusFinished
	}
	return out
}

func scoreFor(scores []usecase.ExternalScore, team string) int {
	for _, s := range scores {
		if s.Name == team {
			return s.Score
		}
	}
	return 0
}

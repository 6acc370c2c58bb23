package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/riskibarqy/livebaz/internal/platform/cache"
	"github.com/riskibarqy/livebaz/internal/platform/logging"
	"github.com/sourcegraph/conc/pool"
)

const liveScoresCacheKey = "live-scores:v1"

// LiveScores is the payload of the live-scores endpoint.
type LiveScores struct {
	Success bool                 `json:"success"`
	Data    []ExternalScoreEvent `json:"data"`
	Total   int                  `json:"total"`
}

type LiveScoreConfig struct {
	SportKeys []string
	DaysFrom  int
	Limit     int
}

// LiveScoreService merges in-progress games across sport keys. A failing key is skipped; only when every
// key fails does the call fail, as ErrRateLimited if any key was throttled.
type LiveScoreService struct {
	provider OddsProvider
	cache    *cache.JSONLoader
	cfg      LiveScoreConfig
	logger   *logging.Logger
}

func NewLiveScoreService(provider OddsProvider, loader *cache.JSONLoader, cfg LiveScoreConfig, logger *logging.Logger) *LiveScoreService {
	if logger == nil {
		logger = logging.Default()
	}
	if len(cfg.SportKeys) == 0 {
		cfg.SportKeys = []string{"soccer_epl", "soccer_spain_la_liga", "soccer_germany_bundesliga"}
	}
	if cfg.DaysFrom <= 0 {
		cfg.DaysFrom = 1
	}
	if cfg.Limit <= 0 {
		cfg.Limit = 10
	}
	return &LiveScoreService{
		provider: provider,
		cache:    loader,
		cfg:      cfg,
		logger:   logger.Named("live_scores"),
	}
}

func (s *LiveScoreService) Live(ctx context.Context) (LiveScores, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LiveScoreService.Live")
	defer span.End()

	var out LiveScores
	err := s.cache.GetOrLoad(ctx, liveScoresCacheKey, &out, func(ctx context.Context) (any, error) {
		return s.fetch(ctx)
	})
	if err != nil {
		return LiveScores{Success: false}, err
	}
	return out, nil
}

type sportScores struct {
	sportKey string
	events   []ExternalScoreEvent
	err      error
}

func (s *LiveScoreService) fetch(ctx context.Context) (LiveScores, error) {
	keys := uniqueKeys(s.cfg.SportKeys)

	p := pool.NewWithResults[sportScores]().WithMaxGoroutines(max(len(keys), 1))
	for _, key := range keys {
		p.Go(func() sportScores {
			events, err := s.provider.ListScores(ctx, key, s.cfg.DaysFrom)
			return sportScores{sportKey: key, events: events, err: err}
		})
	}
	results := p.Wait()

	var (
		live      []ExternalScoreEvent
		failures  []error
		throttled bool
	)
	for _, res := range results {
		if res.err != nil {
			failures = append(failures, fmt.Errorf("%s: %w", res.sportKey, res.err))
			throttled = throttled || errors.Is(res.err, ErrRateLimited)
			s.logger.WarnContext(ctx, "fetch scores failed", "sport_key", res.sportKey, "error", res.err)
			continue
		}
		for _, ev := range res.events {
			if ev.Completed || len(ev.Scores) == 0 {
				continue
			}
			if ev.SportKey == "" {
				ev.SportKey = res.sportKey
			}
			live = append(live, ev)
		}
	}

	if len(keys) > 0 && len(failures) == len(keys) {
		cause := errors.Join(failures...)
		if throttled {
			return LiveScores{}, fmt.Errorf("%w: %w", ErrRateLimited, cause)
		}
		return LiveScores{}, fmt.Errorf("%w: %w", ErrDependencyUnavailable, cause)
	}

	sort.SliceStable(live, func(i, j int) bool {
		if !live[i].CommenceTime.Equal(live[j].CommenceTime) {
			return live[i].CommenceTime.Before(live[j].CommenceTime)
		}
		return strings.Compare(live[i].ID, live[j].ID) < 0
	})

	total := len(live)
	if len(live) > s.cfg.Limit {
		live = live[:s.cfg.Limit]
	}
	if live == nil {
		live = []ExternalScoreEvent{}
	}
	return LiveScores{Success: true, Data: live, Total: total}, nil
}

// LiveScoresEqual reports whether two payloads carry the same games and scores; the stream uses it to
// skip unchanged pushes.
func LiveScoresEqual(a, b LiveScores) bool {
	if a.Total != b.Total || len(a.Data) != len(b.Data) {
		return false
	}
	for i := range a.Data {
		x, y := a.Data[i], b.Data[i]
		if x.ID != y.ID || x.Completed != y.Completed || len(x.Scores) != len(y.Scores) {
			return false
		}
		for j := range x.Scores {
			if x.Scores[j] != y.Scores[j] {
				return false
			}
		}
	}
	return true
}

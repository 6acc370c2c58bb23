package usecase

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/riskibarqy/livebaz/internal/domain/odds"
)

type sequentialIDs struct {
	prefix string
	n      atomic.Int64
}

func (g *sequentialIDs) NewID() (string, error) {
	return g.prefix + strconv.FormatInt(g.n.Add(1), 10), nil
}

type counterSuffix struct {
	n atomic.Int64
}

func (g *counterSuffix) NewSuffix() string {
	return strconv.FormatInt(1700000000000+g.n.Add(1), 10)
}

type fixedSuffix string

func (f fixedSuffix) NewSuffix() string { return string(f) }

type staticCatalog struct{}

func (staticCatalog) Country(sportKey, languageCode string) string {
	if sportKey == "soccer_epl" {
		return "England"
	}
	return "International"
}

func (staticCatalog) Title(sportKey, languageCode string) string {
	if sportKey == "soccer_epl" {
		switch languageCode {
		case "ar":
			return "الدوري الإنجليزي الممتاز"
		case "fa":
			return "لیگ برتر"
		}
		return "Premier League"
	}
	return sportKey
}

func (staticCatalog) LogoURL(sportKey string) string {
	if sportKey == "soccer_epl" {
		return "https://media.api-sports.io/football/leagues/39.png"
	}
	return ""
}

type fakeOddsProvider struct {
	mu         sync.Mutex
	events     []ExternalEvent
	eventsErr  error
	odds       []odds.Event
	oddsErr    error
	scores     map[string][]ExternalScoreEvent
	scoresErr  map[string]error
	scoreCalls atomic.Int32
	eventCalls atomic.Int32
}

func (p *fakeOddsProvider) ListEvents(_ context.Context, _ string) ([]ExternalEvent, error) {
	p.eventCalls.Add(1)
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.eventsErr != nil {
		return nil, p.eventsErr
	}
	return append([]ExternalEvent(nil), p.events...), nil
}

func (p *fakeOddsProvider) ListOdds(_ context.Context, _ string) ([]odds.Event, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.oddsErr != nil {
		return nil, p.oddsErr
	}
	return append([]odds.Event(nil), p.odds...), nil
}

func (p *fakeOddsProvider) ListScores(_ context.Context, sportKey string, _ int) ([]ExternalScoreEvent, error) {
	p.scoreCalls.Add(1)
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.scoresErr[sportKey]; err != nil {
		return nil, err
	}
	return append([]ExternalScoreEvent(nil), p.scores[sportKey]...), nil
}

func h2hOdds(eventID, home, away string, homePrice, drawPrice, awayPrice float64) odds.Event {
	return odds.Event{
		ID:       eventID,
		HomeTeam: home,
		AwayTeam: away,
		Bookmakers: []odds.Bookmaker{{
			Key: "pinnacle",
			Markets: []odds.Market{{
				Key: odds.MarketHeadToHead,
				Outcomes: []odds.Outcome{
					{Name: home, Price: homePrice},
					{Name: odds.DrawOutcome, Price: drawPrice},
					{Name: away, Price: awayPrice},
				},
			}},
		}},
	}
}

var kickoffBase = time.Date(2026, 4, 18, 14, 0, 0, 0, time.UTC)

func errProvider(msg string) error { return fmt.Errorf("provider: %s", msg) }

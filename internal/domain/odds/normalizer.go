package odds

import (
	"errors"
	"fmt"
	"math"
)

const (
	TipHomeWin = "Home Win"
	TipDraw    = "Draw"
	TipAwayWin = "Away Win"
)

var ErrInvalidPrice = errors.New("invalid decimal price")

// Normalize converts decimal prices into implied probabilities with the bookmaker margin removed.
// Each share is rounded independently, so the total may land on 99 or 101.
func Normalize(p Prices) (Probabilities, error) {
	if !validPrice(p.Home) || !validPrice(p.Away) {
		return Probabilities{}, fmt.Errorf("%w: home=%v away=%v", ErrInvalidPrice, p.Home, p.Away)
	}
	if p.Draw != 0 && !validPrice(p.Draw) {
		return Probabilities{}, fmt.Errorf("%w: draw=%v", ErrInvalidPrice, p.Draw)
	}

	home := implied(p.Home)
	away := implied(p.Away)
	draw := 0.0
	if p.Draw != 0 {
		draw = implied(p.Draw)
	}

	total := home + draw + away
	return Probabilities{
		Home: share(home, total),
		Draw: share(draw, total),
		Away: share(away, total),
	}, nil
}

// Tip names the outcome with the strictly highest share; anything tied falls back to a draw.
func Tip(p Probabilities) string {
	switch {
	case p.Home > p.Away && p.Home > p.Draw:
		return TipHomeWin
	case p.Away > p.Home && p.Away > p.Draw:
		return TipAwayWin
	default:
		return TipDraw
	}
}

func Confidence(p Probabilities) int {
	return max(p.Home, p.Draw, p.Away)
}

// ExtractHeadToHead scans bookmakers in order and prices the first h2h market that carries both
// the home and away team outcomes. It reports false when no bookmaker qualifies.
func ExtractHeadToHead(event Event) (Prices, bool) {
	for _, bm := range event.Bookmakers {
		market, ok := findMarket(bm.Markets, MarketHeadToHead)
		if !ok {
			continue
		}

		home, hasHome := findPrice(market.Outcomes, event.HomeTeam)
		away, hasAway := findPrice(market.Outcomes, event.AwayTeam)
		if !hasHome || !hasAway {
			continue
		}
		draw, _ := findPrice(market.Outcomes, DrawOutcome)
		return Prices{Home: home, Draw: draw, Away: away}, true
	}
	return Prices{}, false
}

// Derive is ExtractHeadToHead followed by Normalize.
func Derive(event Event) (Probabilities, bool, error) {
	prices, ok := ExtractHeadToHead(event)
	if !ok {
		return Probabilities{}, false, nil
	}
	probs, err := Normalize(prices)
	if err != nil {
		return Probabilities{}, false, err
	}
	return probs, true, nil
}

func findMarket(markets []Market, key string) (Market, bool) {
	for _, m := range markets {
		if m.Key == key {
			return m, true
		}
	}
	return Market{}, false
}

func findPrice(outcomes []Outcome, name string) (float64, bool) {
	for _, o := range outcomes {
		if o.Name == name {
			return o.Price, true
		}
	}
	return 0, false
}

func validPrice(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

func implied(price float64) float64 {
	return 1 / price * 100
}

func share(v, total float64) int {
	return int(math.Round(v / total * 100))
}

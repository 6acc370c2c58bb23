package odds

// MarketHeadToHead is the provider key of the three-way match-result market.
const MarketHeadToHead = "h2h"

// DrawOutcome is the outcome name providers use for the draw price.
const DrawOutcome = "Draw"

type Outcome struct {
	Name  string
	Price float64
}

type Market struct {
	Key      string
	Outcomes []Outcome
}

type Bookmaker struct {
	Key     string
	Title   string
	Markets []Market
}

// Event is one odds-provider event with its bookmaker prices.
type Event struct {
	ID         string
	HomeTeam   string
	AwayTeam   string
	Bookmakers []Bookmaker
}

// Prices is a decimal-odds triple. Draw is zero when the market has no draw outcome.
type Prices struct {
	Home float64
	Draw float64
	Away float64
}

// Probabilities is an integer percentage triple summing to 100 give or take rounding.
type Probabilities struct {
	Home int
	Draw int
	Away int
}

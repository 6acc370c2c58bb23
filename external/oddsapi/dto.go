package oddsapi

import "time"

type eventDTO struct {
	ID           string    `json:"id" validate:"required"`
	SportKey     string    `json:"sport_key"`
	SportTitle   string    `json:"sport_title"`
	CommenceTime time.Time `json:"commence_time" validate:"required"`
	HomeTeam     string    `json:"home_team" validate:"required"`
	AwayTeam     string    `json:"away_team" validate:"required"`
}

type oddsEventDTO struct {
	ID           string         `json:"id" validate:"required"`
	SportKey     string         `json:"sport_key"`
	CommenceTime time.Time      `json:"commence_time"`
	HomeTeam     string         `json:"home_team" validate:"required"`
	AwayTeam     string         `json:"away_team" validate:"required"`
	Bookmakers   []bookmakerDTO `json:"bookmakers" validate:"dive"`
}

type bookmakerDTO struct {
	Key     string      `json:"key"`
	Title   string      `json:"title"`
	Markets []marketDTO `json:"markets" validate:"dive"`
}

type marketDTO struct {
	Key      string       `json:"key" validate:"required"`
	Outcomes []outcomeDTO `json:"outcomes" validate:"dive"`
}

type outcomeDTO struct {
	Name  string  `json:"name" validate:"required"`
	Price float64 `json:"price"`
}

type scoreEventDTO struct {
	ID           string     `json:"id" validate:"required"`
	SportKey     string     `json:"sport_key"`
	CommenceTime time.Time  `json:"commence_time" validate:"required"`
	Completed    bool       `json:"completed"`
	HomeTeam     string     `json:"home_team" validate:"required"`
	AwayTeam     string     `json:"away_team" validate:"required"`
	Scores       []scoreDTO `json:"scores" validate:"omitempty,dive"`
	LastUpdate   *time.Time `json:"last_update"`
}

// scoreDTO.Score arrives as a decimal string, e.g. "2".
type scoreDTO struct {
	Name  string `json:"name" validate:"required"`
	Score string `json:"score" validate:"required,number"`
}

// Sport is one entry of the provider's sport list.
type Sport struct {
	Key          string `json:"key" validate:"required"`
	Group        string `json:"group"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Active       bool   `json:"active"`
	HasOutrights bool   `json:"has_outrights"`
}

// payload wraps a decoded list so validator can dive into its items.
type payload[T any] struct {
	Items []T `validate:"dive"`
}

package match

import (
	"errors"
	"strings"
	"time"

	"github.com/riskibarqy/livebaz/internal/domain/prediction"
	"github.com/riskibarqy/livebaz/internal/domain/seo"
)

// ErrSlugTaken is returned when a translation slug collides with an existing one.
var ErrSlugTaken = errors.New("match slug already taken")

type Status string

const (
	StatusScheduled Status = "SCHEDULED"
	StatusLive      Status = "LIVE"
	StatusFinished  Status = "FINISHED"
	StatusPostponed Status = "POSTPONED"
	StatusInPlay    Status = "IN_PLAY"
	StatusHalftime  Status = "HALFTIME"
)

func NormalizeStatus(value string) Status {
	switch s := Status(strings.ToUpper(strings.TrimSpace(value))); s {
	case StatusLive, StatusFinished, StatusPostponed, StatusInPlay, StatusHalftime:
		return s
	case "HT":
		return StatusHalftime
	case "FT":
		return StatusFinished
	default:
		return StatusScheduled
	}
}

func (s Status) IsLive() bool {
	return s == StatusLive || s == StatusInPlay || s == StatusHalftime
}

// Match is one fixture. Team names are free text as delivered by the odds provider.
type Match struct {
	ID          string
	LeagueID    string
	KickoffAt   time.Time
	HomeTeam    string
	AwayTeam    string
	HomeLogoURL string
	AwayLogoURL string
	Status      Status
	HomeScore   *int
	AwayScore   *int
	Minute      *int
	Lineups     string
	Stats       string
	MainTip     string
	Confidence  *int

	Translations []Translation
	Prediction   *prediction.Prediction
}

type Translation struct {
	ID           string
	MatchID      string
	LanguageCode string
	Name         string
	Slug         string
	Content      string
	SEO          seo.Meta
}

func (m Match) Validate() error {
	switch {
	case strings.TrimSpace(m.ID) == "":
		return errors.New("match id is required")
	case strings.TrimSpace(m.LeagueID) == "":
		return errors.New("match league id is required")
	case strings.TrimSpace(m.HomeTeam) == "" || strings.TrimSpace(m.AwayTeam) == "":
		return errors.New("match teams are required")
	case m.KickoffAt.IsZero():
		return errors.New("match kickoff is required")
	case m.Confidence != nil && (*m.Confidence < 0 || *m.Confidence > 100):
		return errors.New("match confidence must be within 0..100")
	}
	for _, tr := range m.Translations {
		if strings.TrimSpace(tr.LanguageCode) == "" || strings.TrimSpace(tr.Slug) == "" {
			return errors.New("match translation requires language and slug")
		}
	}
	return nil
}

// DisplayName is the default translated name, "{home} vs {away}".
func (m Match) DisplayName() string {
	return m.HomeTeam + " vs " + m.AwayTeam
}

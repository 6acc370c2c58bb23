package postgres

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
)

type leagueTableModel struct {
	ID        string    `db:"id"`
	SportKey  string    `db:"sport_key"`
	Country   string    `db:"country"`
	LogoURL   string    `db:"logo_url"`
	CreatedAt time.Time `db:"created_at"`
}

type leagueInsertModel struct {
	ID       string `db:"id"`
	SportKey string `db:"sport_key"`
	Country  string `db:"country"`
	LogoURL  string `db:"logo_url"`
}

type leagueTranslationTableModel struct {
	ID             string `db:"id"`
	LeagueID       string `db:"league_id"`
	LanguageCode   string `db:"language_code"`
	Name           string `db:"name"`
	Slug           string `db:"slug"`
	Description    string `db:"description"`
	SEOTitle       string `db:"seo_title"`
	SEODescription string `db:"seo_description"`
}

type matchTableModel struct {
	ID          string        `db:"id"`
	LeagueID    string        `db:"league_id"`
	KickoffAt   time.Time     `db:"kickoff_at"`
	HomeTeam    string        `db:"home_team"`
	AwayTeam    string        `db:"away_team"`
	HomeLogoURL string        `db:"home_logo_url"`
	AwayLogoURL string        `db:"away_logo_url"`
	Status      string        `db:"status"`
	HomeScore   sql.NullInt64 `db:"home_score"`
	AwayScore   sql.NullInt64 `db:"away_score"`
	Minute      sql.NullInt64 `db:"minute"`
	Lineups     string        `db:"lineups"`
	Stats       string        `db:"stats"`
	MainTip     string        `db:"main_tip"`
	Confidence  sql.NullInt64 `db:"confidence"`
}

type matchTranslationTableModel struct {
	ID             string `db:"id"`
	MatchID        string `db:"match_id"`
	LanguageCode   string `db:"language_code"`
	Name           string `db:"name"`
	Slug           string `db:"slug"`
	Content        string `db:"content"`
	SEOTitle       string `db:"seo_title"`
	SEODescription string `db:"seo_description"`
}

type predictionTableModel struct {
	MatchID     string    `db:"match_id"`
	WinProbHome int       `db:"win_prob_home"`
	WinProbDraw int       `db:"win_prob_draw"`
	WinProbAway int       `db:"win_prob_away"`
	UpdatedAt   time.Time `db:"updated_at"`
}

type languageTableModel struct {
	Code      string `db:"code"`
	Name      string `db:"name"`
	IsVisible bool   `db:"is_visible"`
}

type articleTableModel struct {
	ID               string    `db:"id"`
	Category         string    `db:"category"`
	FeaturedImageURL string    `db:"featured_image_url"`
	Published        bool      `db:"published"`
	CreatedAt        time.Time `db:"created_at"`
}

type articleTranslationTableModel struct {
	ID             string `db:"id"`
	ArticleID      string `db:"article_id"`
	LanguageCode   string `db:"language_code"`
	Title          string `db:"title"`
	Slug           string `db:"slug"`
	Excerpt        string `db:"excerpt"`
	Content        string `db:"content"`
	SEOTitle       string `db:"seo_title"`
	SEODescription string `db:"seo_description"`
}

type bookmakerRowModel struct {
	ID           string  `db:"id"`
	Rating       float64 `db:"rating"`
	LogoURL      string  `db:"logo_url"`
	LanguageCode string  `db:"language_code"`
	Name         string  `db:"name"`
	AffiliateURL string  `db:"affiliate_url"`
	BonusText    string  `db:"bonus_text"`
}

type syncRunTableModel struct {
	ID           string         `db:"id"`
	SportKey     string         `db:"sport_key"`
	StartedAt    time.Time      `db:"started_at"`
	FinishedAt   *time.Time     `db:"finished_at"`
	Success      bool           `db:"success"`
	CreatedCount int            `db:"created_count"`
	UpdatedCount int            `db:"updated_count"`
	Errors       pq.StringArray `db:"errors"`
}

type jobDispatchInsertModel struct {
	DispatchID       string     `db:"dispatch_id"`
	JobPath          string     `db:"job_path"`
	SportKey         string     `db:"sport_key"`
	Payload          string     `db:"payload"`
	Status           string     `db:"status"`
	SentAt           *time.Time `db:"sent_at"`
	CompletedAt      *time.Time `db:"completed_at"`
	FailedAt         *time.Time `db:"failed_at"`
	LastError        *string    `db:"last_error"`
	SentTraceID      *string    `db:"sent_trace_id"`
	CompletedTraceID *string    `db:"completed_trace_id"`
	FailedTraceID    *string    `db:"failed_trace_id"`
}

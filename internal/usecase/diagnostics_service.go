package usecase

import (
	"context"
	"strconv"
	"time"

	"github.com/riskibarqy/livebaz/internal/platform/logging"
)

// Pinger is satisfied by *sqlx.DB and *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type DiagnosticsConfig struct {
	Environment         string
	APISportsKeyPresent bool
	SportsAPIURL        string
	ProbeTimeout        time.Duration
}

type Diagnostics struct {
	Timestamp    time.Time               `json:"timestamp"`
	Environment  string                  `json:"environment"`
	Connectivity DiagnosticsConnectivity `json:"connectivity"`
	Services     DiagnosticsServices     `json:"services"`
}

type DiagnosticsConnectivity struct {
	Database  string `json:"database"`
	APISports string `json:"apiSports"`
}

type DiagnosticsServices struct {
	APISportsKeyPresent bool   `json:"apiSportsKeyPresent"`
	SportsAPIURL        string `json:"sportsApiUrl"`
}

// DiagnosticsService reports connectivity as human-readable strings. It never fails.
type DiagnosticsService struct {
	db       Pinger
	fixtures LiveFixtureProvider
	cfg      DiagnosticsConfig
	logger   *logging.Logger
	now      func() time.Time
}

func NewDiagnosticsService(db Pinger, fixtures LiveFixtureProvider, cfg DiagnosticsConfig, logger *logging.Logger) *DiagnosticsService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.ProbeTimeout <= 0 {
		cfg.ProbeTimeout = 5 * time.Second
	}
	if cfg.SportsAPIURL == "" {
		cfg.SportsAPIURL = "Not Set"
	}
	return &DiagnosticsService{db: db, fixtures: fixtures, cfg: cfg, logger: logger.Named("diag"), now: time.Now}
}

func (s *DiagnosticsService) Check(ctx context.Context) Diagnostics {
	ctx, span := startUsecaseSpan(ctx, "usecase.DiagnosticsService.Check")
	defer span.End()

	out := Diagnostics{
		Timestamp:   s.now().UTC(),
		Environment: s.cfg.Environment,
		Services: DiagnosticsServices{
			APISportsKeyPresent: s.cfg.APISportsKeyPresent,
			SportsAPIURL:        s.cfg.SportsAPIURL,
		},
	}

	out.Connectivity.Database = s.probeDatabase(ctx)
	out.Connectivity.APISports = s.probeAPISports(ctx)
	return out
}

func (s *DiagnosticsService) probeDatabase(ctx context.Context) string {
	if s.db == nil {
		return "Error: database not configured"
	}
	ctx, cancel := context.WithTimeout(ctx, s.cfg.ProbeTimeout)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		s.logger.WarnContext(ctx, "database probe failed", "error", err)
		return "Error: " + err.Error()
	}
	return "Connected"
}

func (s *DiagnosticsService) probeAPISports(ctx context.Context) string {
	if s.fixtures == nil {
		return "Error: api-sports client not configured"
	}
	ctx, cancel := context.WithTimeout(ctx, s.cfg.ProbeTimeout)
	defer cancel()

	fixtures, err := s.fixtures.ListLiveFixtures(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "api-sports probe failed", "error", err)
		return "Error: " + err.Error()
	}
	if len(fixtures) == 0 {
		return "No matches returned"
	}
	return "Active (" + strconv.Itoa(len(fixtures)) + " matches found)"
}

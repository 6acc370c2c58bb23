package usecase

import (
	"context"
	"errors"
	"testing"
	"time"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) PingContext(ctx context.Context) error { return f(ctx) }

type fakeLiveFixtures struct {
	items []ExternalLiveFixture
	err   error
}

func (f fakeLiveFixtures) ListLiveFixtures(context.Context) ([]ExternalLiveFixture, error) {
	return f.items, f.err
}

func TestDiagnosticsService_Check(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 4, 18, 15, 0, 0, 0, time.UTC)
	ok := pingerFunc(func(context.Context) error { return nil })
	down := pingerFunc(func(context.Context) error { return errors.New("connection refused") })

	tests := []struct {
		name      string
		db        Pinger
		fixtures  LiveFixtureProvider
		database  string
		apiSports string
	}{
		{
			name:      "healthy with live fixtures",
			db:        ok,
			fixtures:  fakeLiveFixtures{items: make([]ExternalLiveFixture, 4)},
			database:  "Connected",
			apiSports: "Active (4 matches found)",
		},
		{
			name:      "no live fixtures",
			db:        ok,
			fixtures:  fakeLiveFixtures{},
			database:  "Connected",
			apiSports: "No matches returned",
		},
		{
			name:      "everything failing",
			db:        down,
			fixtures:  fakeLiveFixtures{err: errors.New("invalid key")},
			database:  "Error: connection refused",
			apiSports: "Error: invalid key",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewDiagnosticsService(tc.db, tc.fixtures, DiagnosticsConfig{Environment: "prod", APISportsKeyPresent: true}, nil)
			svc.now = func() time.Time { return now }

			got := svc.Check(context.Background())
			if got.Connectivity.Database != tc.database {
				t.Fatalf("unexpected database status: %q", got.Connectivity.Database)
			}
			if got.Connectivity.APISports != tc.apiSports {
				t.Fatalf("unexpected api-sports status: %q", got.Connectivity.APISports)
			}
			if !got.Timestamp.Equal(now) || got.Environment != "prod" {
				t.Fatalf("unexpected header fields: %+v", got)
			}
			if !got.Services.APISportsKeyPresent || got.Services.SportsAPIURL != "Not Set" {
				t.Fatalf("unexpected services: %+v", got.Services)
			}
		})
	}
}

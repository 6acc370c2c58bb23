package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadLeagueCatalog_Embedded(t *testing.T) {
	catalog, err := LoadLeagueCatalog("")
	if err != nil {
		t.Fatalf("load embedded catalog: %v", err)
	}

	tests := []struct {
		name    string
		key     string
		lang    string
		country string
		title   string
	}{
		{name: "english", key: "soccer_epl", lang: "en", country: "England", title: "Premier League"},
		{name: "persian", key: "soccer_spain_la_liga", lang: "fa", country: "اسپانیا", title: "لالیگا"},
		{name: "arabic", key: "soccer_germany_bundesliga", lang: "ar", country: "ألمانيا", title: "الدوري الألماني"},
		{name: "unknown language falls back to english", key: "soccer_italy_serie_a", lang: "de", country: "Italy", title: "Serie A"},
		{name: "unknown key", key: "soccer_japan_j_league", lang: "en", country: "International", title: "soccer_japan_j_league"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := catalog.Country(tc.key, tc.lang); got != tc.country {
				t.Fatalf("unexpected country: %q", got)
			}
			if got := catalog.Title(tc.key, tc.lang); got != tc.title {
				t.Fatalf("unexpected title: %q", got)
			}
		})
	}

	if got := catalog.LogoURL("soccer_france_ligue_one"); got != "https://media.api-sports.io/football/leagues/61.png" {
		t.Fatalf("unexpected logo: %q", got)
	}
	if got := catalog.LogoURL("soccer_japan_j_league"); got != "" {
		t.Fatalf("expected empty logo for unknown key, got %q", got)
	}
}

func TestLoadLeagueCatalog_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leagues.yaml")
	content := "leagues:\n  soccer_netherlands_eredivisie:\n    title: {en: Eredivisie}\n    country: {en: Netherlands}\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write catalog: %v", err)
	}

	catalog, err := LoadLeagueCatalog(path)
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	if got := catalog.Title("soccer_netherlands_eredivisie", "fa"); got != "Eredivisie" {
		t.Fatalf("unexpected title: %q", got)
	}
	if got := catalog.Title("soccer_epl", "en"); got != "soccer_epl" {
		t.Fatalf("file catalog should replace the embedded one, got %q", got)
	}
}

func TestParseLeagueCatalog_RejectsEntryWithoutEnglishTitle(t *testing.T) {
	if _, err := ParseLeagueCatalog([]byte("leagues:\n  soccer_x:\n    title: {fa: x}\n")); err == nil {
		t.Fatalf("expected validation error")
	}
}

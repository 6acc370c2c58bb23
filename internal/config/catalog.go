package config

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed leagues.yaml
var defaultLeagueCatalog []byte

const (
	fallbackCountry  = "International"
	fallbackLanguage = "en"
)

// LeagueCatalog maps sport keys to country, title and logo. Lookups fall back to English, then to
// "International" for countries and the sport key itself for titles.
type LeagueCatalog struct {
	leagues map[string]catalogEntry
}

type catalogFile struct {
	Leagues map[string]catalogEntry `yaml:"leagues"`
}

type catalogEntry struct {
	LogoURL string            `yaml:"logo_url"`
	Country map[string]string `yaml:"country"`
	Title   map[string]string `yaml:"title"`
}

// LoadLeagueCatalog reads path, or the embedded catalog when path is empty.
func LoadLeagueCatalog(path string) (*LeagueCatalog, error) {
	raw := defaultLeagueCatalog
	if path = strings.TrimSpace(path); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read league catalog: %w", err)
		}
		raw = data
	}
	return ParseLeagueCatalog(raw)
}

func ParseLeagueCatalog(raw []byte) (*LeagueCatalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("decode league catalog: %w", err)
	}
	for key, entry := range file.Leagues {
		if strings.TrimSpace(entry.Title[fallbackLanguage]) == "" {
			return nil, fmt.Errorf("league catalog entry %q has no %s title", key, fallbackLanguage)
		}
	}
	if file.Leagues == nil {
		file.Leagues = map[string]catalogEntry{}
	}
	return &LeagueCatalog{leagues: file.Leagues}, nil
}

func (c *LeagueCatalog) Country(sportKey, languageCode string) string {
	if v := c.lookup(sportKey, languageCode, func(e catalogEntry) map[string]string { return e.Country }); v != "" {
		return v
	}
	return fallbackCountry
}

func (c *LeagueCatalog) Title(sportKey, languageCode string) string {
	if v := c.lookup(sportKey, languageCode, func(e catalogEntry) map[string]string { return e.Title }); v != "" {
		return v
	}
	return sportKey
}

func (c *LeagueCatalog) LogoURL(sportKey string) string {
	if c == nil {
		return ""
	}
	return c.leagues[sportKey].LogoURL
}

func (c *LeagueCatalog) lookup(sportKey, languageCode string, field func(catalogEntry) map[string]string) string {
	if c == nil {
		return ""
	}
	entry, ok := c.leagues[sportKey]
	if !ok {
		return ""
	}
	values := field(entry)
	if v := values[languageCode]; v != "" {
		return v
	}
	return values[fallbackLanguage]
}

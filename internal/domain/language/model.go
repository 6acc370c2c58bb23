package language

import (
	"errors"
	"strings"
)

// Language is one locale the site publishes content in.
type Language struct {
	Code      string
	Name      string
	IsVisible bool
}

func NormalizeCode(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

func (l Language) Validate() error {
	if NormalizeCode(l.Code) == "" {
		return errors.New("language code is required")
	}
	if strings.TrimSpace(l.Name) == "" {
		return errors.New("language name is required")
	}
	return nil
}

// Codes returns the language codes in input order.
func Codes(items []Language) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Code)
	}
	return out
}

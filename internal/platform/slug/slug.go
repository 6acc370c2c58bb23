package slug

import (
	"strings"
	"unicode"
)

// Make lowercases s, turns whitespace runs into single hyphens and drops characters that are
// not letters, digits or hyphens. Non-Latin letters are kept so translated names stay readable.
func Make(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	pendingHyphen := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsSpace(r) || r == '-' || r == '_':
			pendingHyphen = b.Len() > 0
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if pendingHyphen {
				b.WriteByte('-')
				pendingHyphen = false
			}
			b.WriteRune(r)
		}
	}

	return b.String()
}

// Join glues non-empty slug parts with hyphens.
func Join(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.Trim(part, "-"); part != "" {
			out = append(out, part)
		}
	}
	return strings.Join(out, "-")
}

package team

import "strings"

const (
	// DefaultLogoURL is stored when the upstream feed has no image for a team.
	DefaultLogoURL = "/default-team-logo.png"

	// DefaultFoundedYear is used when the founding year is unknown. All
	// current tournament franchises were founded for the 2008 season.
	DefaultFoundedYear = 2008
)

// Team is a canonical cricket franchise record.
type Team struct {
	ID          string
	Name        string
	NameKey     string
	Short       string
	LogoURL     string
	FoundedYear int
}

// NormalizeKey collapses a display name into the stable lookup key:
// internal whitespace and hyphens removed, lowercased. The key is the
// uniqueness constraint for teams; short codes are display-only.
func NormalizeKey(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range strings.TrimSpace(name) {
		if r == ' ' || r == '\t' || r == '-' {
			continue
		}
		b.WriteRune(r)
	}
	return strings.ToLower(b.String())
}

// ShortFromKey derives a fallback short code when the provider supplies
// none: the first three characters of the key, uppercased.
func ShortFromKey(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return ""
	}
	if len(key) > 3 {
		key = key[:3]
	}
	return strings.ToUpper(key)
}

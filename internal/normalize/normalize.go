// Package normalize provides value smoothing for imported metadata cells.
package normalize

import (
	"fmt"
	"strings"
	"time"
)

// Trim strips leading and trailing whitespace from a cell value.
// Internal whitespace is preserved.
func Trim(s string) string {
	return strings.TrimSpace(s)
}

// Bool smooths a Y/N-like token to a boolean. Only "Y" (case-insensitive,
// after trimming) is true; anything else, including garbage, is false.
func Bool(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), "y")
}

// FormatBool renders a boolean as a strict Y/N token.
func FormatBool(b bool) string {
	if b {
		return "Y"
	}
	return "N"
}

// ISOFormat is the layout used when round-tripping instants back to rows.
// A UTC instant renders with a +00:00 offset rather than Z.
const ISOFormat = "2006-01-02T15:04:05-07:00"

// timeLayouts are tried in order by ParseTime. Layouts without an offset
// are interpreted as UTC.
var timeLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// ParseTime parses a date or date-time string into a timezone-aware instant.
// A bare date is interpreted as noon UTC that day. A date-time without an
// offset is interpreted as UTC. An explicit offset is preserved exactly.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)

	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.Add(12 * time.Hour), nil
	}

	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}

	// RFC 3339 keeps the offset as given
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}

	return time.Time{}, fmt.Errorf("unparseable date %q", s)
}

// FormatTime renders an instant in ISO 8601 form with an explicit offset.
func FormatTime(t time.Time) string {
	return t.Format(ISOFormat)
}

// ORCIDPrefix is the canonical URL prefix for ORCID identifiers.
// ORCIDs are stored bare and re-prefixed on export.
const ORCIDPrefix = "https://orcid.org/"

// ORCID strips the URL prefix from an ORCID value, if present.
func ORCID(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, ORCIDPrefix)
	s = strings.TrimPrefix(s, "http://orcid.org/")
	return s
}

// DOIPrefix is the canonical URL prefix for DOIs.
const DOIPrefix = "https://doi.org/"

// DOI strips the URL prefix from a DOI value, if present.
func DOI(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, DOIPrefix)
	s = strings.TrimPrefix(s, "http://doi.org/")
	s = strings.TrimPrefix(s, "https://dx.doi.org/")
	return s
}

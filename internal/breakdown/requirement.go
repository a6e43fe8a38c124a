package breakdown

import (
	"regexp"
	"strings"
)

// Requirement is a covered requirement identifier.
type Requirement struct {
	ID string
}

func (r Requirement) String() string {
	return r.ID
}

var (
	referencePattern = regexp.MustCompile(`(?i)^reference\s+sd\b\s*:?\s*(.*\S)\s*$`)

	// One id at the head of the remaining text, after any separators.
	leadingIDPattern = regexp.MustCompile(`^[\s,":]*([^\s,":][^\s,"]*)`)
)

// ReferencedIDs reports whether text is a requirement reference such as
//
//	Reference SD "SD-REQ-01", "SD-REQ-02" SD-REQ-03
//
// and returns the identifiers in written order.
func ReferencedIDs(text string) ([]string, bool) {
	m := referencePattern.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return nil, false
	}
	ids := extractIDs(trimQuotes(m[1]))
	if len(ids) == 0 {
		return nil, false
	}
	return ids, true
}

func trimQuotes(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		return s[1 : len(s)-1]
	}
	return s
}

// extractIDs peels one id at a time off the front of rest. Separators are
// commas, whitespace and double quotes in any combination; a colon is
// skipped only in front of an id.
func extractIDs(rest string) []string {
	var ids []string
	for {
		loc := leadingIDPattern.FindStringSubmatchIndex(rest)
		if loc == nil {
			return ids
		}
		ids = append(ids, rest[loc[2]:loc[3]])
		rest = rest[loc[1]:]
	}
}

package tui

import (
	"strings"

	"github.com/lukietee/LifeLine/pkg/lifeline"
)

// filterState is derived from the UI controls on every render; it is never
// persisted anywhere else
type filterState struct {
	query      string
	typeFilter string
	onlyHigh   bool
}

// matches reports whether an incident passes the current filter. Inclusion
// requires the text match AND the type match AND the severity match.
func matches(i lifeline.Incident, f filterState) bool {
	return matchesQuery(i, f.query) && matchesType(i, f.typeFilter) && matchesSeverity(i, f.onlyHigh)
}

// matchesQuery is a case-insensitive substring check across summary,
// location, and category. An empty query matches everything.
func matchesQuery(i lifeline.Incident, query string) bool {
	if query == "" {
		return true
	}

	q := strings.ToLower(query)

	return strings.Contains(strings.ToLower(i.Summary), q) ||
		strings.Contains(strings.ToLower(i.Location), q) ||
		strings.Contains(strings.ToLower(i.EmergencyType), q)
}

// matchesType checks exact equality against the incident category, with the
// "all" sentinel disabling the filter. Uncategorized incidents carry the
// "other" default, so selecting "other" matches them.
func matchesType(i lifeline.Incident, typeFilter string) bool {
	if typeFilter == lifeline.TypeFilterAll {
		return true
	}
	return typeFilter == i.Type()
}

// matchesSeverity passes everything unless onlyHigh is set, in which case
// only the exact string "high" qualifies. No case normalization: "High"
// does not match.
func matchesSeverity(i lifeline.Incident, onlyHigh bool) bool {
	if !onlyHigh {
		return true
	}
	return i.Severity == lifeline.SeverityHigh
}

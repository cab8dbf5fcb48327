package tui

import (
	"testing"

	"github.com/lukietee/LifeLine/pkg/lifeline"
	"github.com/stretchr/testify/assert"
)

func TestMatchesQuery(t *testing.T) {
	incident := lifeline.Incident{
		Summary:       "Structure fire reported downtown",
		Location:      "123 Main Street",
		EmergencyType: "fire",
	}

	tests := []struct {
		name     string
		incident lifeline.Incident
		query    string
		expected bool
	}{
		{
			name:     "empty query matches everything",
			incident: incident,
			query:    "",
			expected: true,
		},
		{
			name:     "matches substring of summary case-insensitively",
			incident: incident,
			query:    "STRUCTURE",
			expected: true,
		},
		{
			name:     "matches substring of location",
			incident: incident,
			query:    "main street",
			expected: true,
		},
		{
			name:     "matches substring of emergency type",
			incident: incident,
			query:    "FIRE",
			expected: true,
		},
		{
			name:     "no match in any field",
			incident: incident,
			query:    "flood",
			expected: false,
		},
		{
			name:     "empty query matches an empty incident",
			incident: lifeline.Incident{},
			query:    "",
			expected: true,
		},
		{
			name:     "non-empty query does not match an empty incident",
			incident: lifeline.Incident{},
			query:    "fire",
			expected: false,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, matchesQuery(test.incident, test.query))
		})
	}
}

func TestMatchesType(t *testing.T) {
	tests := []struct {
		name       string
		incident   lifeline.Incident
		typeFilter string
		expected   bool
	}{
		{
			name:       "sentinel 'all' disables the filter",
			incident:   lifeline.Incident{EmergencyType: "fire"},
			typeFilter: lifeline.TypeFilterAll,
			expected:   true,
		},
		{
			name:       "exact match",
			incident:   lifeline.Incident{EmergencyType: "medical"},
			typeFilter: "medical",
			expected:   true,
		},
		{
			name:       "different category excluded",
			incident:   lifeline.Incident{EmergencyType: "crime"},
			typeFilter: "medical",
			expected:   false,
		},
		{
			name:       "missing category matches the 'other' default",
			incident:   lifeline.Incident{},
			typeFilter: "other",
			expected:   true,
		},
		{
			name:       "missing category does not match a real category",
			incident:   lifeline.Incident{},
			typeFilter: "fire",
			expected:   false,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, matchesType(test.incident, test.typeFilter))
		})
	}
}

func TestMatchesSeverity(t *testing.T) {
	tests := []struct {
		name     string
		incident lifeline.Incident
		onlyHigh bool
		expected bool
	}{
		{
			name:     "filter off passes low severity",
			incident: lifeline.Incident{Severity: lifeline.SeverityLow},
			onlyHigh: false,
			expected: true,
		},
		{
			name:     "filter off passes missing severity",
			incident: lifeline.Incident{},
			onlyHigh: false,
			expected: true,
		},
		{
			name:     "filter on passes exactly 'high'",
			incident: lifeline.Incident{Severity: lifeline.SeverityHigh},
			onlyHigh: true,
			expected: true,
		},
		{
			name:     "filter on excludes medium",
			incident: lifeline.Incident{Severity: lifeline.SeverityMedium},
			onlyHigh: true,
			expected: false,
		},
		{
			// The comparison is case-sensitive by design; no normalization
			name:     "filter on excludes 'High'",
			incident: lifeline.Incident{Severity: "High"},
			onlyHigh: true,
			expected: false,
		},
		{
			name:     "filter on excludes missing severity despite the medium display default",
			incident: lifeline.Incident{},
			onlyHigh: true,
			expected: false,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, matchesSeverity(test.incident, test.onlyHigh))
		})
	}
}

func TestMatchesRequiresAllThree(t *testing.T) {
	incident := lifeline.Incident{
		Summary:       "Apartment fire with people trapped",
		Location:      "5th and Pine",
		EmergencyType: "fire",
		Severity:      lifeline.SeverityHigh,
	}

	tests := []struct {
		name     string
		filter   filterState
		expected bool
	}{
		{
			name:     "all filters pass",
			filter:   filterState{query: "pine", typeFilter: "fire", onlyHigh: true},
			expected: true,
		},
		{
			name:     "text match fails",
			filter:   filterState{query: "oak", typeFilter: "fire", onlyHigh: true},
			expected: false,
		},
		{
			name:     "type match fails",
			filter:   filterState{query: "pine", typeFilter: "medical", onlyHigh: true},
			expected: false,
		},
		{
			name:     "severity match fails",
			filter:   filterState{query: "pine", typeFilter: "fire", onlyHigh: true},
			expected: false,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			i := incident
			if test.name == "severity match fails" {
				i.Severity = lifeline.SeverityMedium
			}
			assert.Equal(t, test.expected, matches(i, test.filter))
		})
	}
}

package tui

import (
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/lukietee/LifeLine/pkg/lifeline"
	"github.com/lukietee/LifeLine/pkg/rand"
	"github.com/stretchr/testify/assert"
)

// createTestModel creates a minimal model for testing
func createTestModel() model {
	return model{
		config: &lifeline.Config{
			Client:  &lifeline.MockIncidentService{},
			APIBase: lifeline.DefaultAPIBase,
		},
		table:         newTableWithStyles(),
		input:         newTextInput(),
		help:          newHelp(),
		spinner:       spinner.New(),
		typeFilter:    lifeline.TypeFilterAll,
		scheduledJobs: append([]*scheduledJob{}, initialScheduledJobs...),
		autoRefresh:   true,
	}
}

func intPtr(n int) *int { return &n }

func TestUpdatedIncidentListReplacesState(t *testing.T) {
	m := createTestModel()

	first := updatedIncidentListMsg{
		incidents: []lifeline.Incident{
			{ID: "2", Summary: "second"},
			{ID: "1", Summary: "first"},
		},
	}
	second := updatedIncidentListMsg{
		incidents: []lifeline.Incident{
			{ID: "3", Summary: "third"},
		},
	}

	result, _ := m.Update(first)
	m = result.(model)
	assert.Equal(t, 2, len(m.incidentList))

	// Overlapping polls are not serialized: whichever response lands last
	// replaces the list wholesale, regardless of which request went out first
	result, _ = m.Update(second)
	m = result.(model)

	assert.Equal(t, 1, len(m.incidentList), "last response should fully replace the list")
	assert.Equal(t, lifeline.ID("3"), m.incidentList[0].ID)
	assert.False(t, m.apiInProgress, "in-progress indicator should clear when a response lands")
	assert.Equal(t, "showing 1/1 incidents", m.status)
}

func TestFetchFailureKeepsLastKnownGood(t *testing.T) {
	m := createTestModel()

	loaded := updatedIncidentListMsg{
		incidents: []lifeline.Incident{
			{ID: "9", Summary: "still here"},
		},
	}
	result, _ := m.Update(loaded)
	m = result.(model)

	failed := updatedIncidentListMsg{err: &lifeline.StatusError{StatusCode: 500}}
	result, cmd := m.Update(failed)
	m = result.(model)

	assert.False(t, m.apiInProgress, "in-progress indicator should clear on failure too")
	assert.Equal(t, 1, len(m.incidentList), "previous list should be retained on failure")
	assert.Equal(t, lifeline.ID("9"), m.incidentList[0].ID)

	// The failure is surfaced through an errMsg command
	assert.NotNil(t, cmd)
	result, _ = m.Update(cmd())
	m = result.(model)

	assert.NotNil(t, m.err)
	assert.Contains(t, m.err.Error(), "500")
	assert.Equal(t, "Error: Fetch failed 500", m.status)
	assert.Equal(t, 1, len(m.incidentList), "list survives the error display")
}

func TestSuccessfulRefreshClearsError(t *testing.T) {
	m := createTestModel()
	result, _ := m.Update(errMsg{&lifeline.StatusError{StatusCode: 502}})
	m = result.(model)
	assert.NotNil(t, m.err)

	result, _ = m.Update(updatedIncidentListMsg{incidents: []lifeline.Incident{{ID: "1"}}})
	m = result.(model)
	assert.Nil(t, m.err)
}

func TestAnalyzedSampleMsgHandling(t *testing.T) {
	tests := []struct {
		name          string
		msg           analyzedSampleMsg
		expectRefresh bool
	}{
		{
			name:          "transport success triggers a follow-up refresh",
			msg:           analyzedSampleMsg{},
			expectRefresh: true,
		},
		{
			name:          "transport failure shows the error and skips the refresh",
			msg:           analyzedSampleMsg{err: lifeline.ErrMockError},
			expectRefresh: false,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			m := createTestModel()

			result, cmd := m.Update(test.msg)
			m = result.(model)

			assert.False(t, m.apiInProgress)
			assert.NotNil(t, cmd)

			followup := cmd()
			if test.expectRefresh {
				assert.Equal(t, updateIncidentListMsg("analyze"), followup)
			} else {
				assert.Equal(t, errMsg{lifeline.ErrMockError}, followup)
			}
		})
	}
}

func TestPollIncidentsMsgHandling(t *testing.T) {
	t.Run("poll tick starts a fetch and re-arms the timer", func(t *testing.T) {
		m := createTestModel()

		result, cmd := m.Update(PollIncidentsMsg{})
		m = result.(model)

		assert.True(t, m.apiInProgress)
		assert.NotNil(t, cmd)
	})

	t.Run("paused auto-refresh re-arms the timer without fetching", func(t *testing.T) {
		m := createTestModel()
		m.autoRefresh = false

		result, cmd := m.Update(PollIncidentsMsg{})
		m = result.(model)

		assert.False(t, m.apiInProgress)
		assert.NotNil(t, cmd, "timer must keep running while paused")
	})
}

func TestApplyFilter(t *testing.T) {
	incidents := []lifeline.Incident{
		{ID: "4", Summary: "House fire on Elm", EmergencyType: "fire", Severity: lifeline.SeverityHigh, Location: "12 Elm St"},
		{ID: "3", Summary: "Fender bender", EmergencyType: "traffic", Severity: lifeline.SeverityLow, Location: "Highway 9"},
		{ID: "2", Summary: "Chest pains", EmergencyType: "medical", Severity: lifeline.SeverityHigh, Location: "unknown"},
		{ID: "1", Summary: "Noise complaint"},
	}

	tests := []struct {
		name        string
		query       string
		typeFilter  string
		onlyHigh    bool
		expectedIDs []lifeline.ID
	}{
		{
			name:        "no filters shows everything in list order",
			typeFilter:  lifeline.TypeFilterAll,
			expectedIDs: []lifeline.ID{"4", "3", "2", "1"},
		},
		{
			name:        "high severity only",
			typeFilter:  lifeline.TypeFilterAll,
			onlyHigh:    true,
			expectedIDs: []lifeline.ID{"4", "2"},
		},
		{
			name:        "type filter excludes every other category",
			typeFilter:  "traffic",
			expectedIDs: []lifeline.ID{"3"},
		},
		{
			name:        "uncategorized incident matches 'other'",
			typeFilter:  "other",
			expectedIDs: []lifeline.ID{"1"},
		},
		{
			name:        "query and severity combine",
			query:       "fire",
			typeFilter:  lifeline.TypeFilterAll,
			onlyHigh:    true,
			expectedIDs: []lifeline.ID{"4"},
		},
		{
			name:        "no matches yields the empty state",
			query:       "earthquake",
			typeFilter:  lifeline.TypeFilterAll,
			expectedIDs: nil,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			m := createTestModel()
			m.incidentList = incidents
			m.input.SetValue(test.query)
			m.typeFilter = test.typeFilter
			m.onlyHigh = test.onlyHigh

			m.applyFilter()

			var ids []lifeline.ID
			for _, i := range m.filtered {
				ids = append(ids, i.ID)
			}
			assert.Equal(t, test.expectedIDs, ids)
			assert.Equal(t, len(test.expectedIDs), len(m.table.Rows()), "table rows mirror the filtered slice")
		})
	}
}

func TestEmptyStatePlaceholder(t *testing.T) {
	m := createTestModel()
	m.incidentList = []lifeline.Incident{
		{ID: "1", Summary: "Something", Severity: lifeline.SeverityLow},
	}
	m.onlyHigh = true
	m.applyFilter()

	assert.Equal(t, 0, len(m.filtered))
	assert.Contains(t, m.View(), emptyListMsg, "placeholder is visible when the filtered count is 0")

	m.onlyHigh = false
	m.applyFilter()
	assert.NotContains(t, m.View(), emptyListMsg, "placeholder is hidden when incidents match")
}

func TestCycleTypeFilter(t *testing.T) {
	m := createTestModel()

	expected := append(lifeline.EmergencyTypes, lifeline.TypeFilterAll)
	for _, want := range expected {
		m.cycleTypeFilter()
		assert.Equal(t, want, m.typeFilter)
	}
}

func TestGetHighlightedIncident(t *testing.T) {
	t.Run("returns nil when nothing is listed", func(t *testing.T) {
		m := createTestModel()
		m.applyFilter()
		assert.Nil(t, m.getHighlightedIncident())
	})

	t.Run("returns the incident under the cursor", func(t *testing.T) {
		m := createTestModel()
		id := lifeline.ID(rand.ID("I"))
		m.incidentList = []lifeline.Incident{
			{ID: id, Summary: "first row", PeopleInvolved: intPtr(2)},
			{ID: "x", Summary: "second row"},
		}
		m.applyFilter()

		i := m.getHighlightedIncident()
		assert.NotNil(t, i)
		assert.Equal(t, id, i.ID)
	})
}

package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/lukietee/LifeLine/pkg/lifeline"
)

const (
	loadingIncidentsStatus = "loading incidents..."
	analyzingStatus        = "submitting sample transcript..."
	checkingHealthStatus   = "checking service health..."
)

// SampleTranscript is the fixed demo transcript submitted by the analyze key
const SampleTranscript = "There is a fire at 123 Main Street. Two people are inside."

// PollIncidentsMsg is emitted by the repeating poll timer
type PollIncidentsMsg struct{}

type updateIncidentListMsg string
type updatedIncidentListMsg struct {
	incidents []lifeline.Incident
	err       error
}

// updateIncidentList fetches the full list and reverses it so the newest
// incident appears first. The service returns oldest-first; display order is
// always reverse(serverList). The whole list is replaced on success - no
// merge, no dedup.
func updateIncidentList(c *lifeline.Config) tea.Cmd {
	return func() tea.Msg {
		i, err := lifeline.GetIncidents(c.Client)
		if err != nil {
			return updatedIncidentListMsg{nil, err}
		}

		reverse(i)

		log.Debug("tui.updateIncidentList()", "retrieved", len(i))
		return updatedIncidentListMsg{i, nil}
	}
}

func reverse(i []lifeline.Incident) {
	for a, b := 0, len(i)-1; a < b; a, b = a+1, b-1 {
		i[a], i[b] = i[b], i[a]
	}
}

type analyzeSampleMsg string
type analyzedSampleMsg struct {
	err error
}

// analyzeSample posts the fixed sample transcript. Only a transport-level
// failure produces a non-nil err; an HTTP error status from the service goes
// unnoticed, and the follow-up refresh happens either way.
func analyzeSample(c *lifeline.Config) tea.Cmd {
	return func() tea.Msg {
		err := lifeline.Analyze(c.Client, SampleTranscript)
		return analyzedSampleMsg{err}
	}
}

type gotHealthMsg struct {
	health *lifeline.Health
	err    error
}

func getHealth(c *lifeline.Config) tea.Cmd {
	return func() tea.Msg {
		h, err := lifeline.GetHealth(c.Client)
		return gotHealthMsg{h, err}
	}
}

type renderIncidentMsg string

type renderedIncidentMsg struct {
	content string
	err     error
}

func renderIncident(m *model) tea.Cmd {
	return func() tea.Msg {
		t, err := m.template()
		if err != nil {
			return errMsg{err}
		}

		content, err := m.renderMarkdown(t)
		if err != nil {
			return errMsg{err}
		}

		return renderedIncidentMsg{content, err}
	}
}

// severityDot renders the severity column marker: "!" for high severity
// incidents, a dot otherwise
func severityDot(severity string) string {
	if severity == lifeline.SeverityHigh {
		return "!"
	}

	return dot
}

// showingStatus formats the list status line, e.g. "showing 2/5 incidents"
func showingStatus(filtered, total int) string {
	return fmt.Sprintf("showing %d/%d incidents", filtered, total)
}

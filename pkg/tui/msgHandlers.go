package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/lukietee/LifeLine/pkg/lifeline"
)

// Type and function for capturing error messages with tea.Msg
type errMsg struct{ err error }

func (e errMsg) Error() string { return e.err.Error() }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.windowSizeMsgHandler(msg)

	case tea.KeyMsg:
		return m.keyMsgHandler(msg)

	case errMsg:
		return m.errMsgHandler(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case PollIncidentsMsg:
		return m.pollIncidentsMsgHandler()

	case updateIncidentListMsg:
		m.setStatus(loadingIncidentsStatus)
		m.apiInProgress = true
		return m, updateIncidentList(m.config)

	case updatedIncidentListMsg:
		return m.updatedIncidentListMsgHandler(msg)

	case analyzeSampleMsg:
		m.setStatus(analyzingStatus)
		m.apiInProgress = true
		return m, analyzeSample(m.config)

	case analyzedSampleMsg:
		return m.analyzedSampleMsgHandler(msg)

	case gotHealthMsg:
		return m.gotHealthMsgHandler(msg)

	case renderIncidentMsg:
		if m.selectedIncident == nil {
			return m, nil
		}
		return m, renderIncident(&m)

	case renderedIncidentMsg:
		m.incidentViewer.SetContent(msg.content)
		m.viewingIncident = true
		return m, nil
	}

	return m, nil
}

// errMsgHandler surfaces the failure as visible "Error: ..." text and keeps
// the previous incident list rendered. Errors are never fatal: the poll loop
// keeps going regardless of consecutive failures.
func (m model) errMsgHandler(msg errMsg) (tea.Model, tea.Cmd) {
	log.Error("errMsgHandler", "error", msg.err)
	m.err = msg.err
	m.setStatus("Error: " + msg.Error())
	return m, nil
}

// windowSizeMsgHandler resizes the tui according to the new terminal window size
func (m model) windowSizeMsgHandler(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	log.Debug("windowSizeMsgHandler", "width", msg.Width, "height", msg.Height)
	windowSize = msg
	top, _, bottom, _ := mainStyle.GetMargin()
	eighthWindow := windowSize.Width / 8
	borderEdges := 2 + 10

	m.help.Width = windowSize.Width - borderEdges

	m.table.SetColumns([]table.Column{
		{Title: dot, Width: 2},
		{Title: "ID", Width: 6},
		{Title: "Type", Width: 10},
		{Title: "Summary", Width: eighthWindow * 4},
		{Title: "Location", Width: eighthWindow * 2},
		{Title: "People", Width: 6},
	})

	height := windowSize.Height - top - bottom - 10
	m.table.SetHeight(height)
	m.incidentViewer.Width = windowSize.Width - borderEdges
	m.incidentViewer.Height = height

	return m, nil
}

// pollIncidentsMsgHandler re-arms the poll timer and starts a fetch. There
// is deliberately no in-flight guard here: overlapping fetches race and the
// last response to land wins, which is the behavior the dashboard always had.
func (m model) pollIncidentsMsgHandler() (tea.Model, tea.Cmd) {
	if !m.autoRefresh {
		// Timer keeps running while paused so resuming picks back up
		return m, scheduleJob(m.scheduledJobs[0])
	}

	m.apiInProgress = true
	return m, tea.Batch(
		scheduleJob(m.scheduledJobs[0]),
		updateIncidentList(m.config),
	)
}

// updatedIncidentListMsgHandler lands a fetch. The in-progress indicator is
// always cleared here, success or failure. A failure keeps the last-known-good
// list; a success replaces the list wholesale and clears any prior error.
func (m model) updatedIncidentListMsgHandler(msg updatedIncidentListMsg) (tea.Model, tea.Cmd) {
	m.apiInProgress = false

	if msg.err != nil {
		return m, func() tea.Msg { return errMsg{msg.err} }
	}

	m.err = nil
	m.incidentList = msg.incidents
	m.applyFilter()
	m.setStatus(showingStatus(len(m.filtered), len(m.incidentList)))

	return m, nil
}

// analyzedSampleMsgHandler follows a completed POST /analyze. Whatever the
// service answered, a refresh follows; only a transport-level failure skips
// it and shows the error instead.
func (m model) analyzedSampleMsgHandler(msg analyzedSampleMsg) (tea.Model, tea.Cmd) {
	m.apiInProgress = false

	if msg.err != nil {
		return m, func() tea.Msg { return errMsg{msg.err} }
	}

	return m, func() tea.Msg { return updateIncidentListMsg("analyze") }
}

func (m model) gotHealthMsgHandler(msg gotHealthMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		// The health probe is informational only; a failure is logged but
		// does not block the dashboard or the poll loop
		log.Error("gotHealthMsgHandler", "error", msg.err)
		m.mode = "unreachable"
		return m, nil
	}

	m.mode = msg.health.Mode
	log.Info("gotHealthMsgHandler", "ok", msg.health.OK, "mode", msg.health.Mode)
	return m, nil
}

func (m model) keyMsgHandler(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	log.Debug("keyMsgHandler", "tea.KeyMsg", fmt.Sprint(msg))
	if key.Matches(msg, defaultKeyMap.Quit) {
		return m, tea.Quit
	}

	switch {
	case m.viewingIncident:
		return switchIncidentFocusMode(m, msg)

	case m.input.Focused():
		return switchInputFocusMode(m, msg)

	default:
		return switchTableFocusMode(m, msg)
	}
}

// tableFocusMode is the main mode for the application
func switchTableFocusMode(m model, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch {
	case key.Matches(msg, defaultKeyMap.Help):
		m.toggleHelp()

	case key.Matches(msg, defaultKeyMap.Up):
		m.table.MoveUp(1)

	case key.Matches(msg, defaultKeyMap.Down):
		m.table.MoveDown(1)

	case key.Matches(msg, defaultKeyMap.Top):
		m.table.GotoTop()

	case key.Matches(msg, defaultKeyMap.Bottom):
		m.table.GotoBottom()

	case key.Matches(msg, defaultKeyMap.Enter):
		i := m.getHighlightedIncident()
		if i == nil {
			m.setStatus(nilIncidentMsg)
			return m, nil
		}
		m.selectedIncident = i
		return m, func() tea.Msg { return renderIncidentMsg("render") }

	case key.Matches(msg, defaultKeyMap.Input):
		return m, m.input.Focus()

	case key.Matches(msg, defaultKeyMap.Type):
		m.cycleTypeFilter()
		m.applyFilter()
		m.setStatus(showingStatus(len(m.filtered), len(m.incidentList)))

	case key.Matches(msg, defaultKeyMap.High):
		m.onlyHigh = !m.onlyHigh
		m.applyFilter()
		m.setStatus(showingStatus(len(m.filtered), len(m.incidentList)))

	case key.Matches(msg, defaultKeyMap.ClearFilters):
		m.input.SetValue("")
		m.typeFilter = lifeline.TypeFilterAll
		m.onlyHigh = false
		m.applyFilter()
		m.setStatus(showingStatus(len(m.filtered), len(m.incidentList)))

	case key.Matches(msg, defaultKeyMap.Refresh):
		cmds = append(cmds, func() tea.Msg { return updateIncidentListMsg("manual") })

	case key.Matches(msg, defaultKeyMap.Analyze):
		cmds = append(cmds, func() tea.Msg { return analyzeSampleMsg("sample") })

	case key.Matches(msg, defaultKeyMap.Pause):
		m.autoRefresh = !m.autoRefresh

	case key.Matches(msg, defaultKeyMap.Back):
		m.err = nil
	}

	return m, tea.Batch(cmds...)
}

// inputFocusMode routes keystrokes to the search box; the filter re-applies
// on every keystroke, mirroring the original input-event re-render
func switchInputFocusMode(m model, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, defaultKeyMap.Back):
		m.input.Blur()
		m.table.Focus()
		return m, nil

	case key.Matches(msg, defaultKeyMap.Enter):
		m.input.Blur()
		m.table.Focus()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.applyFilter()
	m.setStatus(showingStatus(len(m.filtered), len(m.incidentList)))
	return m, cmd
}

// incidentFocusMode drives the card detail view
func switchIncidentFocusMode(m model, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch {
	case key.Matches(msg, defaultKeyMap.Help):
		m.toggleHelp()

	// This un-sets the selected incident and returns to the table view
	case key.Matches(msg, defaultKeyMap.Back):
		m.viewingIncident = false
		m.selectedIncident = nil

	case key.Matches(msg, defaultKeyMap.Refresh):
		cmds = append(cmds, func() tea.Msg { return updateIncidentListMsg("manual") })
	}

	m.incidentViewer, cmd = m.incidentViewer.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

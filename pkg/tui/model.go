package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/lukietee/LifeLine/pkg/lifeline"
)

// pollFrequency matches the dashboard's fixed-interval poll loop: one fetch
// immediately on startup, then another every 4 seconds, forever. No backoff,
// no jitter, and no overlap protection; if a fetch is slow the next tick
// still fires and whichever response lands last replaces the list.
const pollFrequency = 4 * time.Second

var initialScheduledJobs = []*scheduledJob{
	{
		jobMsg:    func() tea.Msg { return PollIncidentsMsg{} },
		frequency: pollFrequency,
	},
}

// scheduledJob is a repeating timer that re-arms itself each time it fires
type scheduledJob struct {
	jobMsg    func() tea.Msg
	frequency time.Duration
}

type model struct {
	err error

	config *lifeline.Config

	table            table.Model
	input            textinput.Model
	// This is a hack since viewport.Model doesn't have a Focused() method
	viewingIncident  bool
	incidentViewer   viewport.Model
	help             help.Model
	spinner          spinner.Model
	apiInProgress    bool
	markdownRenderer *glamour.TermRenderer

	status string
	mode   string

	// incidentList holds reverse(serverList): newest first. Replaced
	// wholesale on every successful fetch; errors keep the previous list.
	incidentList []lifeline.Incident
	// filtered mirrors the table rows after the current filter is applied
	filtered         []lifeline.Incident
	selectedIncident *lifeline.Incident

	typeFilter string
	onlyHigh   bool

	scheduledJobs []*scheduledJob

	autoRefresh bool
	debug       bool
}

func InitialModel(config *lifeline.Config, debug bool) (tea.Model, tea.Cmd) {
	s := spinner.New()
	s.Spinner = spinner.MiniDot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	// Create markdown renderer once - reusing it is much faster than creating new ones
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100), // Default width, will be adjusted on window resize
	)
	if err != nil {
		log.Error("InitialModel", "failed to create markdown renderer", err)
		// Continue without renderer - rendering will fall back to plain text
		renderer = nil
	}

	m := model{
		config:           config,
		debug:            debug,
		help:             newHelp(),
		table:            newTableWithStyles(),
		input:            newTextInput(),
		incidentViewer:   newIncidentViewer(),
		spinner:          s,
		markdownRenderer: renderer,
		apiInProgress:    false,
		status:           "",
		typeFilter:       lifeline.TypeFilterAll,
		scheduledJobs:    append([]*scheduledJob{}, initialScheduledJobs...),
		autoRefresh:      true, // Start watching for updates on startup
	}

	log.Debug("InitialModel", "api", config.APIBase)

	return m, nil
}

func (m model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.spinner.Tick,
		getHealth(m.config),
		func() tea.Msg { return updateIncidentListMsg("init") },
	}

	for _, job := range m.scheduledJobs {
		cmds = append(cmds, scheduleJob(job))
	}

	return tea.Batch(cmds...)
}

// scheduleJob arms a single tick for the job; the message handler is
// responsible for re-arming when the tick fires
func scheduleJob(job *scheduledJob) tea.Cmd {
	return tea.Tick(job.frequency, func(time.Time) tea.Msg {
		return job.jobMsg()
	})
}

// filterState returns the FilterState currently derived from the UI controls
func (m *model) filterState() filterState {
	return filterState{
		query:      m.input.Value(),
		typeFilter: m.typeFilter,
		onlyHigh:   m.onlyHigh,
	}
}

// applyFilter recomputes the filtered slice and table rows from the incident
// list and the current filter state. Filtering is stable: rows keep the
// (already reversed) list order.
func (m *model) applyFilter() {
	f := m.filterState()

	m.filtered = m.filtered[:0]
	for _, i := range m.incidentList {
		if matches(i, f) {
			m.filtered = append(m.filtered, i)
		}
	}

	var rows []table.Row
	for _, i := range m.filtered {
		rows = append(rows, table.Row{
			severityDot(i.Severity),
			i.DisplayID(),
			i.Type(),
			i.DisplaySummary(),
			i.DisplayLocation(),
			i.DisplayPeople(),
		})
	}
	m.table.SetRows(rows)
}

// getHighlightedIncident returns the incident for the currently highlighted
// table row. Rows mirror m.filtered by index, so the cursor is the lookup key.
func (m *model) getHighlightedIncident() *lifeline.Incident {
	cursor := m.table.Cursor()
	if cursor < 0 || cursor >= len(m.filtered) {
		return nil
	}
	return &m.filtered[cursor]
}

func (m *model) setStatus(msg string) {
	log.Info("setStatus", "status", msg)
	m.status = msg
}

func (m *model) toggleHelp() {
	m.help.ShowAll = !m.help.ShowAll
}

// cycleTypeFilter advances the type selector: all -> fire -> medical ->
// crime -> traffic -> other -> all
func (m *model) cycleTypeFilter() {
	order := append([]string{lifeline.TypeFilterAll}, lifeline.EmergencyTypes...)
	for n, t := range order {
		if t == m.typeFilter {
			m.typeFilter = order[(n+1)%len(order)]
			return
		}
	}
	m.typeFilter = lifeline.TypeFilterAll
}

func newTableWithStyles() table.Model {
	t := table.New(table.WithFocused(true))
	t.SetStyles(tableStyle)
	t.SetColumns(incidentTableColumns)
	return t
}

func newTextInput() textinput.Model {
	i := textinput.New()
	i.Prompt = defaultInputPrompt
	i.Placeholder = "search summary, location, type"
	i.CharLimit = 64
	i.Width = 50
	return i
}

func newHelp() help.Model {
	h := help.New()
	h.ShowAll = false
	return h
}

func newIncidentViewer() viewport.Model {
	vp := viewport.New(100, 100)
	vp.Style = incidentViewerStyle
	return vp
}

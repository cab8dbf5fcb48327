package tui

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lukietee/LifeLine/pkg/lifeline"
)

const (
	dot       = "•"
	upArrow   = "↑"
	downArrow = "↓"

	defaultInputPrompt = " / "

	nilIncidentMsg = "no incident highlighted"
	emptyListMsg   = "No incidents match the current filters."
)

var (
	white          = lipgloss.AdaptiveColor{Dark: "#ffffff", Light: "#ffffff"}
	lightBlue      = lipgloss.AdaptiveColor{Dark: "#778da9", Light: "#778da9"}
	blue           = lipgloss.AdaptiveColor{Dark: "#415a77", Light: "#415a77"}
	backgroundRed  = lipgloss.AdaptiveColor{Dark: "#a4133c", Light: "#a4133c"}
)

type pallet struct {
	text       lipgloss.AdaptiveColor
	background lipgloss.AdaptiveColor
	border     lipgloss.AdaptiveColor
}

type colorModel struct {
	normal   pallet
	notice   pallet
	warning  pallet
	selected pallet
}

var lifelinePallet = colorModel{
	normal: pallet{
		text:       lightBlue,
		background: lipgloss.AdaptiveColor{},
		border:     blue,
	},
	notice: pallet{
		text:       white,
		background: lipgloss.AdaptiveColor{},
		border:     lipgloss.AdaptiveColor{},
	},
	warning: pallet{
		text:       white,
		background: backgroundRed,
		border:     lipgloss.AdaptiveColor{},
	},
	selected: pallet{
		text:       white,
		background: blue,
		border:     blue,
	},
}

var (
	windowSize tea.WindowSizeMsg

	mainStyle = lipgloss.NewStyle().
			Width(windowSize.Width).
			Height(windowSize.Height).
			Margin(0, 0).
			Padding(0, 0).
			Foreground(lifelinePallet.normal.text).
			Background(lifelinePallet.normal.background).
			BorderForeground(lifelinePallet.normal.border).
			BorderBackground(lifelinePallet.normal.background)

	modeStringWidth = len("API mode: unreachable") + 2

	paddedStyle = mainStyle.Padding(0, 2, 0, 1)

	errorAreaStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lifelinePallet.warning.text).
			Background(lifelinePallet.warning.background)

	tableContainerStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder(), true)
	tableCellStyle      = lipgloss.NewStyle().Padding(0, 1)
	tableHeaderStyle    = lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder(), false, false, true).Foreground(lifelinePallet.notice.text).Background(lifelinePallet.notice.background)
	tableSelectedStyle  = lipgloss.NewStyle().Border(lipgloss.HiddenBorder(), false).Background(lifelinePallet.selected.background).Foreground(lifelinePallet.selected.text).Bold(true)

	tableStyle = table.Styles{
		Cell:     tableCellStyle,
		Selected: tableSelectedStyle,
		Header:   tableHeaderStyle,
	}

	emptyStyle = lipgloss.NewStyle().Padding(1, 2)

	incidentViewerStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder(), true)
)

var incidentTableColumns = []table.Column{
	{Title: dot, Width: 2},
	{Title: "ID", Width: 6},
	{Title: "Type", Width: 10},
	{Title: "Summary", Width: 56},
	{Title: "Location", Width: 24},
	{Title: "People", Width: 6},
}

func (m model) View() string {
	var s strings.Builder

	s.WriteString(m.renderHeader())

	if m.err != nil {
		s.WriteString(errorAreaStyle.Render("Error: " + m.err.Error()))
		s.WriteString("\n")
	}

	switch {
	case m.viewingIncident:
		s.WriteString(m.incidentViewer.View())

	case len(m.filtered) == 0:
		// Empty-state placeholder: shown iff the filtered count is 0
		s.WriteString(tableContainerStyle.Render(emptyStyle.Render(emptyListMsg)))

	default:
		s.WriteString(tableContainerStyle.Render(m.table.View()))
	}

	if m.input.Focused() || m.input.Value() != "" {
		s.WriteString("\n")
		s.WriteString(m.input.View())
	}

	s.WriteString("\n")
	s.WriteString(m.renderFooter())
	s.WriteString("\n")
	s.WriteString(paddedStyle.Width(windowSize.Width).Render(m.help.View(defaultKeyMap)))

	return mainStyle.Render(s.String())
}

func (m model) renderHeader() string {
	var s strings.Builder

	s.WriteString(
		lipgloss.JoinHorizontal(
			0.2,

			paddedStyle.Width(windowSize.Width-modeStringWidth-paddedStyle.GetHorizontalPadding()-paddedStyle.GetHorizontalBorderSize()).Render(statusArea(m.status, m.apiInProgress, m.spinner.View())),

			paddedStyle.Render(modeArea(m.mode)),
		),
	)

	s.WriteString("\n")
	return s.String()
}

func (m model) renderFooter() string {
	var s strings.Builder
	s.WriteString(
		lipgloss.JoinHorizontal(
			0.2,
			paddedStyle.Render(refreshArea(m.autoRefresh)),
			paddedStyle.Render(filterArea(m.filterState())),
			paddedStyle.Render(apiArea(m.config.APIBase)),
		),
	)

	return s.String()
}

func statusArea(s string, showSpinner bool, spinnerView string) string {
	if showSpinner {
		return fmt.Sprintf("%s %s", spinnerView, s)
	}

	var fstring = "> %s"
	fstring = strings.TrimSuffix(fstring, "\n")

	return fmt.Sprintf(fstring, s)
}

func modeArea(mode string) string {
	if mode == "" {
		mode = "?"
	}

	var fstring = "API mode: " + mode
	fstring = strings.TrimSuffix(fstring, "\n")

	return fstring
}

func apiArea(apiBase string) string {
	var fstring = "API: " + apiBase
	fstring = strings.TrimSuffix(fstring, "\n")

	return fstring
}

func refreshArea(autoRefresh bool) string {
	var fstring = "Watching for updates... "

	if !autoRefresh {
		fstring = fstring + " [PAUSED]"
	}

	fstring = strings.TrimSuffix(fstring, "\n")
	return fstring
}

// filterArea summarizes the active filter controls, e.g.
// `type: fire | high only | "main street"`
func filterArea(f filterState) string {
	parts := []string{"type: " + f.typeFilter}

	if f.onlyHigh {
		parts = append(parts, "high only")
	}

	if f.query != "" {
		parts = append(parts, fmt.Sprintf("%q", f.query))
	}

	return strings.Join(parts, " | ")
}

// cardSummary is the template payload for the incident card view, with the
// dashboard's display fallbacks already applied
type cardSummary struct {
	ID       string
	Type     string
	Summary  string
	Severity string
	Location string
	People   string
	Reported string
}

func summarizeIncident(i *lifeline.Incident) cardSummary {
	return cardSummary{
		ID:       i.DisplayID(),
		Type:     i.Type(),
		Summary:  i.DisplaySummary(),
		Severity: i.DisplaySeverity(),
		Location: i.DisplayLocation(),
		People:   i.DisplayPeople(),
		Reported: i.Timestamp,
	}
}

var funcMap = template.FuncMap{
	"ToUpper": strings.ToUpper,
}

// incidentCardTemplate is rendered through html/template, not text/template:
// incident fields come from an untrusted service and every interpolated value
// must be escaped before it reaches the rendered card.
const incidentCardTemplate = `
# {{ .ID }} - {{ ToUpper .Type }}

{{ .Summary }}

* Severity: {{ .Severity }}
* Location: {{ .Location }}
* People involved: {{ .People }}
{{- if .Reported }}
* Reported: {{ .Reported }}
{{- end }}
`

func (m model) template() (string, error) {
	if m.selectedIncident == nil {
		return "", fmt.Errorf("tui.template(): no incident selected")
	}

	template, err := template.New("incident").Funcs(funcMap).Parse(incidentCardTemplate)
	if err != nil {
		return "", err
	}

	o := new(bytes.Buffer)
	err = template.Execute(o, summarizeIncident(m.selectedIncident))
	if err != nil {
		return "", err
	}

	return o.String(), nil
}

func (m model) renderMarkdown(content string) (string, error) {
	if m.markdownRenderer == nil {
		// Renderer creation failed at startup; fall back to plain text
		return content, nil
	}

	return m.markdownRenderer.Render(content)
}

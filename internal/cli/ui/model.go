package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aclev/cljstyle/internal/cli/hooks"
	"github.com/aclev/cljstyle/pkg/styler"
)

// maxRecent bounds the scrolling window of recently finished entries.
const maxRecent = 12

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	cleanStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	flaggedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Model is the TUI state: a live tally of the run plus a window of the most
// recently finished entries. All mutations happen inside Update, driven by
// hook messages forwarded through the tea.Program, so no locking is needed.
type Model struct {
	spinner spinner.Model
	width   int

	discovered int
	counts     map[styler.Status]int
	recent     []recentItem

	startTime time.Time
	report    *styler.Report
	quitting  bool
	done      bool
}

type recentItem struct {
	path    string
	status  styler.Status
	message string
}

// NewModel creates the initial TUI model.
func NewModel() *Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return &Model{
		spinner:   sp,
		counts:    make(map[styler.Status]int),
		startTime: time.Now(),
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			return m, tea.Quit
		}

	case spinner.TickMsg:
		if m.done || m.quitting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case hooks.FileDiscoveredMsg:
		m.discovered++

	case hooks.FileStatusUpdateMsg:
		m.counts[msg.Status]++
		m.recent = append(m.recent, recentItem{
			path:    msg.Path,
			status:  msg.Status,
			message: msg.Message,
		})
		if len(m.recent) > maxRecent {
			m.recent = m.recent[len(m.recent)-maxRecent:]
		}

	case hooks.RunCompleteMsg:
		report := msg.Report
		m.report = &report
		m.done = true
		return m, tea.Quit
	}

	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	header := titleStyle.Render("cljstyle") + " " +
		dimStyle.Render(fmt.Sprintf("checking %d entries", m.discovered))
	if !m.done {
		header = m.spinner.View() + " " + header
	}

	body := ""
	for _, item := range m.recent {
		body += fmt.Sprintf("  %s %s\n", renderStatus(item.status), item.path)
	}

	footer := dimStyle.Render(fmt.Sprintf(
		"clean %d  flagged %d  fixed %d  skipped %d  errors %d  %s",
		m.counts[styler.StatusClean],
		m.counts[styler.StatusFlagged],
		m.counts[styler.StatusFixed],
		m.counts[styler.StatusSkipped],
		m.counts[styler.StatusError],
		time.Since(m.startTime).Round(time.Millisecond),
	))

	if m.done && m.report != nil {
		footer += "\n" + titleStyle.Render(fmt.Sprintf(
			"done: %d entries in %s", m.report.TotalVisited(), m.report.Elapsed.Round(time.Millisecond)))
	}

	return header + "\n\n" + body + "\n" + footer + "\n"
}

// Report exposes the final report once the run completes; nil before then.
func (m *Model) Report() *styler.Report {
	return m.report
}

func renderStatus(s styler.Status) string {
	label := fmt.Sprintf("%-9s", s)
	switch s {
	case styler.StatusClean, styler.StatusFixed:
		return cleanStyle.Render(label)
	case styler.StatusFlagged:
		return flaggedStyle.Render(label)
	case styler.StatusError:
		return errorStyle.Render(label)
	default:
		return dimStyle.Render(label)
	}
}

// Package tui is the full-screen front-end for labeling findings in a
// baseline. It drives an audit.Session; the session owns all state that is
// persisted.
package tui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/keyward/keyward/internal/audit"
	"github.com/keyward/keyward/internal/types"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("7")).
			Bold(true)

	contextBorderStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(lipgloss.Color("240")).
				Padding(0, 1)

	gutterStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	markerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)

	statusStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("7"))

	realStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	falseStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

// writeClipboard is replaced in tests.
var writeClipboard = clipboard.WriteAll

// savePrefs is replaced in tests.
var savePrefs = SavePrefs

type statusMsg string

// Model is the bubbletea model for one labeling session.
type Model struct {
	session *audit.Session
	keys    keyMap
	help    help.Model
	prefs   Prefs
	noColor bool

	width  int
	height int
	status string
	err    error
	real   int
	falseP int
}

// NewModel starts session and returns a model positioned on its first
// finding.
func NewModel(session *audit.Session, prefs Prefs, noColor bool) Model {
	m := Model{
		session: session,
		keys:    defaultKeys(),
		help:    help.New(),
		prefs:   prefs,
		noColor: noColor,
	}
	m.help.ShowAll = prefs.ShowFullHelp
	m.err = session.Begin()
	return m
}

// Err returns the error that ended the session, if any.
func (m Model) Err() error { return m.err }

func (m Model) Init() tea.Cmd {
	if m.done() {
		return tea.Quit
	}
	return nil
}

func (m Model) done() bool {
	return m.err != nil || m.session.State() == audit.Saved
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case statusMsg:
		m.status = string(msg)
		return m, nil

	case tea.KeyMsg:
		if m.done() {
			return m, tea.Quit
		}
		switch {
		case key.Matches(msg, m.keys.Real):
			return m.decide(audit.Real)
		case key.Matches(msg, m.keys.FalsePositive):
			return m.decide(audit.FalsePositive)
		case key.Matches(msg, m.keys.Skip):
			return m.decide(audit.Skip)
		case key.Matches(msg, m.keys.Quit):
			return m.decide(audit.Quit)
		case key.Matches(msg, m.keys.Copy):
			return m, m.copyLocation()
		case key.Matches(msg, m.keys.MoreContext):
			return m.adjustContext(+1)
		case key.Matches(msg, m.keys.LessContext):
			return m.adjustContext(-1)
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			m.prefs.ShowFullHelp = m.help.ShowAll
			_ = savePrefs(m.prefs)
			return m, nil
		}
	}
	return m, nil
}

func (m Model) decide(d audit.Decision) (tea.Model, tea.Cmd) {
	f, _ := m.session.Current()
	if err := m.session.Apply(d); err != nil {
		m.err = err
		return m, tea.Quit
	}
	switch d {
	case audit.Real:
		m.real++
		m.status = fmt.Sprintf("%s:%d marked real", f.Filename, f.LineNumber)
	case audit.FalsePositive:
		m.falseP++
		m.status = fmt.Sprintf("%s:%d marked false positive", f.Filename, f.LineNumber)
	case audit.Skip:
		m.status = "skipped"
	}
	if m.session.State() == audit.Saved {
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) adjustContext(delta int) (tea.Model, tea.Cmd) {
	m.prefs.ContextLines = clamp(m.prefs.ContextLines + delta)
	_ = savePrefs(m.prefs)
	return m, nil
}

func (m Model) copyLocation() tea.Cmd {
	f, ok := m.session.Current()
	if !ok {
		return nil
	}
	loc := fmt.Sprintf("%s:%d", f.Filename, f.LineNumber)
	return func() tea.Msg {
		if err := writeClipboard(loc); err != nil {
			return statusMsg("clipboard unavailable: " + err.Error())
		}
		return statusMsg("copied " + loc)
	}
}

func (m Model) paint(s lipgloss.Style, text string) string {
	if m.noColor {
		return text
	}
	return s.Render(text)
}

func (m Model) View() string {
	if m.done() {
		return ""
	}
	f, _ := m.session.Current()

	var b strings.Builder
	b.WriteString(m.paint(titleStyle, fmt.Sprintf("Secret %d of %d", m.session.Position()+1, m.session.Total())))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "%s %s\n", m.paint(labelStyle, "Filename:   "), f.Filename)
	fmt.Fprintf(&b, "%s %s\n", m.paint(labelStyle, "Secret type:"), f.SecretType)
	fmt.Fprintf(&b, "%s %d\n\n", m.paint(labelStyle, "Line:       "), f.LineNumber)

	context := m.renderContext(f)
	if m.noColor {
		b.WriteString(context)
	} else {
		b.WriteString(contextBorderStyle.Render(context))
	}
	b.WriteString("\n\n")

	tally := fmt.Sprintf("%s  %s",
		m.paint(realStyle, fmt.Sprintf("real: %d", m.real)),
		m.paint(falseStyle, fmt.Sprintf("false positive: %d", m.falseP)))
	status := tally
	if m.status != "" {
		status += "  |  " + m.status
	}
	b.WriteString(m.paint(statusStyle, status))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) renderContext(f types.Finding) string {
	lines, err := audit.SourceContext(f.Filename, f.LineNumber, m.prefs.ContextLines)
	if err != nil {
		return fmt.Sprintf("(source unavailable: %v)", err)
	}
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		text := l.Text
		marker := " "
		if l.Number == f.LineNumber {
			marker = m.paint(markerStyle, ">")
			if !m.noColor {
				text = highlightLine(text, f.Filename)
			}
		}
		out = append(out, fmt.Sprintf("%s%s %s", marker, m.paint(gutterStyle, fmt.Sprintf("%4d", l.Number)), text))
	}
	return strings.Join(out, "\n")
}

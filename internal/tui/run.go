package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/keyward/keyward/internal/audit"
)

// Run labels findings in a full-screen program until the session is saved.
// If the program exits early the session is still quit so labels made so
// far are kept.
func Run(session *audit.Session, noColor bool) error {
	m := NewModel(session, LoadPrefs(), noColor)
	final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if err != nil {
		if session.State() == audit.Prompt {
			_ = session.Apply(audit.Quit)
		}
		return fmt.Errorf("error running TUI: %w", err)
	}
	if fm, ok := final.(Model); ok && fm.Err() != nil {
		return fm.Err()
	}
	if session.State() == audit.Prompt {
		return session.Apply(audit.Quit)
	}
	return nil
}

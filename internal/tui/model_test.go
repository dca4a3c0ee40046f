package tui

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keyward/keyward/internal/audit"
	"github.com/keyward/keyward/internal/baseline"
	"github.com/keyward/keyward/internal/types"
)

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newSession(t *testing.T) (*audit.Session, *baseline.Baseline, *int) {
	t.Helper()
	dir := t.TempDir()
	src := filepath.Join(dir, "settings.py")
	require.NoError(t, os.WriteFile(src, []byte("DEBUG = True\nSECRET_KEY = 'abc123'\nALLOWED = []\n"), 0o644))

	b := baseline.Empty()
	b.Results.AddAll([]types.Finding{
		{Filename: src, SecretType: "Secret Keyword", LineNumber: 2, HashedSecret: "h1"},
		{Filename: src, SecretType: "Secret Keyword", LineNumber: 3, HashedSecret: "h2"},
		{Filename: src, SecretType: "Hex High Entropy String", LineNumber: 3, HashedSecret: "h3"},
	})
	saves := 0
	s := audit.NewSession(b, func(*baseline.Baseline) error { saves++; return nil })
	return s, b, &saves
}

func send(m tea.Model, keys ...string) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		m, cmd = m.Update(keyMsg(k))
	}
	return m, cmd
}

func stubPrefs(t *testing.T) *[]Prefs {
	t.Helper()
	var saved []Prefs
	orig := savePrefs
	savePrefs = func(p Prefs) error { saved = append(saved, p); return nil }
	t.Cleanup(func() { savePrefs = orig })
	return &saved
}

func TestModel_LabelsThroughSession(t *testing.T) {
	stubPrefs(t)
	s, b, saves := newSession(t)
	m := tea.Model(NewModel(s, DefaultPrefs(), true))

	m, cmd := send(m, "y")
	assert.Nil(t, cmd)
	assert.Contains(t, m.View(), "Secret 2 of 3")
	assert.Contains(t, m.View(), "marked real")

	m, cmd = send(m, "right", "n")
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.Equal(t, audit.Saved, s.State())
	assert.Equal(t, 3, *saves)

	all := b.Results.All()
	require.NotNil(t, all[0].IsSecret)
	assert.True(t, *all[0].IsSecret)
	assert.Nil(t, all[1].IsSecret)
	require.NotNil(t, all[2].IsSecret)
	assert.False(t, *all[2].IsSecret)
	assert.Empty(t, m.View())
}

func TestModel_QuitSaves(t *testing.T) {
	stubPrefs(t)
	for _, k := range []string{"q", "esc"} {
		t.Run(k, func(t *testing.T) {
			s, _, saves := newSession(t)
			m := tea.Model(NewModel(s, DefaultPrefs(), true))
			_, cmd := send(m, k)
			require.NotNil(t, cmd)
			assert.Equal(t, audit.Saved, s.State())
			assert.Equal(t, 1, *saves)
		})
	}
}

func TestModel_ViewShowsContext(t *testing.T) {
	stubPrefs(t)
	s, _, _ := newSession(t)
	m := NewModel(s, Prefs{ContextLines: 1}, true)
	m2, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	v := m2.View()
	assert.Contains(t, v, "Secret 1 of 3")
	assert.Contains(t, v, "settings.py")
	assert.Contains(t, v, ">   2 SECRET_KEY = 'abc123'")
	assert.Contains(t, v, "    1 DEBUG = True")
	assert.Contains(t, v, "real secret")
}

func TestModel_ContextAdjustPersists(t *testing.T) {
	saved := stubPrefs(t)
	s, _, _ := newSession(t)
	m := tea.Model(NewModel(s, Prefs{ContextLines: 0}, true))

	m, _ = send(m, "-")
	m, _ = send(m, "+", "+")
	require.Len(t, *saved, 3)
	assert.Equal(t, 0, (*saved)[0].ContextLines, "clamped at zero")
	assert.Equal(t, 2, (*saved)[2].ContextLines)
	assert.Contains(t, m.View(), "    1 DEBUG = True")

	m, _ = send(m, "?")
	assert.True(t, (*saved)[3].ShowFullHelp)
	assert.Contains(t, m.View(), "copy location")
}

func TestModel_CopyLocation(t *testing.T) {
	stubPrefs(t)
	var copied string
	orig := writeClipboard
	writeClipboard = func(s string) error { copied = s; return nil }
	t.Cleanup(func() { writeClipboard = orig })

	s, _, _ := newSession(t)
	m := tea.Model(NewModel(s, DefaultPrefs(), true))
	m, cmd := send(m, "c")
	require.NotNil(t, cmd)
	m, _ = m.Update(cmd())
	assert.Contains(t, copied, "settings.py:2")
	assert.Contains(t, m.View(), "copied ")

	writeClipboard = func(string) error { return errors.New("no display") }
	m, cmd = send(m, "c")
	m, _ = m.Update(cmd())
	assert.Contains(t, m.View(), "clipboard unavailable: no display")
}

func TestModel_SaveErrorEndsProgram(t *testing.T) {
	stubPrefs(t)
	b := baseline.Empty()
	b.Results.Add(types.Finding{Filename: "x", SecretType: "T", LineNumber: 1, HashedSecret: "h"})
	boom := errors.New("read-only filesystem")
	s := audit.NewSession(b, func(*baseline.Baseline) error { return boom })

	m := tea.Model(NewModel(s, DefaultPrefs(), true))
	m, cmd := send(m, "y")
	require.NotNil(t, cmd)
	assert.ErrorIs(t, m.(Model).Err(), boom)
}

func TestModel_NothingToReview(t *testing.T) {
	b := baseline.Empty()
	s := audit.NewSession(b, func(*baseline.Baseline) error { return nil })
	m := NewModel(s, DefaultPrefs(), true)
	require.NotNil(t, m.Init())
	assert.Equal(t, audit.Saved, s.State())
	assert.Empty(t, m.View())
}

func TestPrefs_RoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	assert.Equal(t, DefaultPrefs(), LoadPrefs())

	require.NoError(t, SavePrefs(Prefs{ContextLines: 99, ShowFullHelp: true}))
	got := LoadPrefs()
	assert.Equal(t, maxContext, got.ContextLines)
	assert.True(t, got.ShowFullHelp)
}

func TestHighlightLine_UnknownTypeUnchanged(t *testing.T) {
	assert.Equal(t, "plain text", highlightLine("plain text", "notes.unknownext"))
	assert.NotEmpty(t, highlightLine("x = 1", "main.py"))
}

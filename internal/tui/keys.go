package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Real          key.Binding
	FalsePositive key.Binding
	Skip          key.Binding
	Quit          key.Binding
	Copy          key.Binding
	MoreContext   key.Binding
	LessContext   key.Binding
	Help          key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Real:          key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "real secret")),
		FalsePositive: key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "false positive")),
		Skip:          key.NewBinding(key.WithKeys("s", "right"), key.WithHelp("s/→", "skip")),
		Quit:          key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "save & quit")),
		Copy:          key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "copy location")),
		MoreContext:   key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "more context")),
		LessContext:   key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "less context")),
		Help:          key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Real, k.FalsePositive, k.Skip, k.Quit, k.Help}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Real, k.FalsePositive, k.Skip, k.Quit},
		{k.Copy, k.MoreContext, k.LessContext, k.Help},
	}
}

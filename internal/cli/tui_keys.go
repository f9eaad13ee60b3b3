package cli

import "github.com/charmbracelet/bubbles/key"

// boardKeyMap lists the board view bindings. The help bar renders from it.
type boardKeyMap struct {
	Left    key.Binding
	Right   key.Binding
	Up      key.Binding
	Down    key.Binding
	Grab    key.Binding
	Drop    key.Binding
	Cancel  key.Binding
	Library key.Binding
	Add     key.Binding
	Budget  key.Binding
	Delete  key.Binding
	Reload  key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func defaultBoardKeys() boardKeyMap {
	return boardKeyMap{
		Left:    key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/l", "lanes")),
		Right:   key.NewBinding(key.WithKeys("l", "right")),
		Up:      key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("j/k", "cards")),
		Down:    key.NewBinding(key.WithKeys("j", "down")),
		Grab:    key.NewBinding(key.WithKeys("m", " "), key.WithHelp("m/space", "grab")),
		Drop:    key.NewBinding(key.WithKeys("enter", "m", " "), key.WithHelp("enter", "drop")),
		Cancel:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Library: key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "library")),
		Add:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Budget:  key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "budget")),
		Delete:  key.NewBinding(key.WithKeys("x", "d"), key.WithHelp("x", "delete")),
		Reload:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// normalHelp is shown while browsing.
type normalHelp struct{ k boardKeyMap }

func (h normalHelp) ShortHelp() []key.Binding {
	return []key.Binding{h.k.Left, h.k.Up, h.k.Grab, h.k.Library, h.k.Add, h.k.Help, h.k.Quit}
}

func (h normalHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{h.k.Left, h.k.Up, h.k.Grab},
		{h.k.Library, h.k.Add, h.k.Budget, h.k.Delete},
		{h.k.Reload, h.k.Help, h.k.Quit},
	}
}

// dragHelp is shown while a card is held.
type dragHelp struct{ k boardKeyMap }

func (h dragHelp) ShortHelp() []key.Binding {
	return []key.Binding{h.k.Left, h.k.Up, h.k.Drop, h.k.Cancel}
}

func (h dragHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{h.ShortHelp()}
}

package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	ForceQuit  key.Binding
	Quit       key.Binding
	Next       key.Binding
	Prev       key.Binding
	Left       key.Binding
	Right      key.Binding
	Enter      key.Binding
	Submit     key.Binding
	CardDown   key.Binding
	CardUp     key.Binding
	Copy       key.Binding
	CopySecond key.Binding
	Mail       key.Binding
	Export     key.Binding
	Theme      key.Binding
}

var keys = keyMap{
	ForceQuit:  key.NewBinding(key.WithKeys("ctrl+c")),
	Quit:       key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	Next:       key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("↓/tab", "next field")),
	Prev:       key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("↑", "prev field")),
	Left:       key.NewBinding(key.WithKeys("left"), key.WithHelp("←/→", "change")),
	Right:      key.NewBinding(key.WithKeys("right")),
	Enter:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "harvest")),
	Submit:     key.NewBinding(key.WithKeys("ctrl+s")),
	CardDown:   key.NewBinding(key.WithKeys("j"), key.WithHelp("j/k", "select")),
	CardUp:     key.NewBinding(key.WithKeys("k")),
	Copy:       key.NewBinding(key.WithKeys("c"), key.WithHelp("c/C", "copy email")),
	CopySecond: key.NewBinding(key.WithKeys("C")),
	Mail:       key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "mail")),
	Export:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export csv")),
	Theme:      key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
}

// helpLine renders the given bindings as "key desc" pairs.
func helpLine(bindings ...key.Binding) string {
	s := ""
	for _, b := range bindings {
		h := b.Help()
		if h.Key == "" {
			continue
		}
		if s != "" {
			s += "  "
		}
		s += h.Key + " " + h.Desc
	}
	return s
}

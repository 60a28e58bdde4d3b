package recovery

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the bindings for the recovery prompt. Left, right and
// confirm are checked in that order, so at most one action fires per key
// message.
type keyMap struct {
	Left    key.Binding
	Right   key.Binding
	Confirm key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←", "previous"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→", "next"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter", "a"),
			key.WithHelp("enter", "confirm"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

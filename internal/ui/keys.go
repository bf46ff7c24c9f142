package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the keyboard bindings of the watch view.
type keyMap struct {
	Quit key.Binding
}

// defaultKeyMap returns the default key bindings.
func defaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c", "esc"),
			key.WithHelp("q", "stop waiting"),
		),
	}
}

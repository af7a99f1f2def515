package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Quit      key.Binding
	Back      key.Binding
	NextFocus key.Binding
	PrevFocus key.Binding
	Tap       key.Binding
	LongPress key.Binding
	SwipeUp   key.Binding
	SwipeDown key.Binding
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	Search    key.Binding
	Launch    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "home")),
		NextFocus: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "focus")),
		PrevFocus: key.NewBinding(key.WithKeys("shift+tab")),
		Tap:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "tap (twice: double)")),
		LongPress: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "hold")),
		SwipeUp:   key.NewBinding(key.WithKeys("pgup", "K"), key.WithHelp("K", "swipe up")),
		SwipeDown: key.NewBinding(key.WithKeys("pgdown", "J"), key.WithHelp("J", "swipe down")),
		Up:        key.NewBinding(key.WithKeys("up", "k")),
		Down:      key.NewBinding(key.WithKeys("down", "j")),
		Left:      key.NewBinding(key.WithKeys("left", "h")),
		Right:     key.NewBinding(key.WithKeys("right", "l")),
		Search:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Launch:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "launch")),
	}
}

func helpLine(bindings ...key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		if h.Key == "" {
			continue
		}
		parts = append(parts, keyStyle.Render(h.Key)+" "+helpDescStyle.Render(h.Desc))
	}
	return strings.Join(parts, "  ")
}

package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Next    key.Binding
	Prev    key.Binding
	Press   key.Binding
	Snooze  key.Binding
	Dismiss key.Binding
	Close   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Next: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("shift+tab", "prev"),
		),
		Press: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "select"),
		),
		Snooze: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "snooze"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "dismiss"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc", "q", "ctrl+c"),
			key.WithHelp("esc", "close"),
		),
	}
}

// shortHelp lists the bindings shown in the footer for the current buttons.
func (k keyMap) shortHelp(snooze bool) []key.Binding {
	if !snooze {
		return []key.Binding{k.Next, k.Press, k.Dismiss, k.Close}
	}
	return []key.Binding{k.Next, k.Press, k.Snooze, k.Dismiss, k.Close}
}

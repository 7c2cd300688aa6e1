package ui

import (
	"strings"

	"github.com/atomicstack/tmux-reminder-popup/internal/reminder"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

const ellipsis = "…"

// View renders the popup.
func (m *Model) View() string {
	var lines []string
	switch m.phase {
	case phaseLoading:
		lines = append(lines, m.loadingLine())
	case phaseInert:
		lines = append(lines, m.titleLine())
		lines = append(lines, "", render(styles.Footer, m.help.ShortHelpView([]key.Binding{m.keys.Close})))
	default:
		lines = append(lines, m.reminderLines()...)
	}
	return render(styles.Frame, strings.Join(lines, "\n"))
}

func (m *Model) reminderLines() []string {
	var lines []string
	if m.view.ShowContact {
		lines = append(lines, m.fit(render(styles.Contact, m.view.ContactName)))
	}
	lines = append(lines, m.titleLine())
	if m.view.ShowDescription {
		lines = append(lines, m.descriptionLines()...)
	}
	lines = append(lines, m.fit(render(styles.Time, m.view.TimeText)))
	lines = append(lines, "", m.buttonRow())
	if m.loadingVisible && m.loadingText != "" {
		lines = append(lines, m.loadingLine())
	} else if m.errMsg != "" {
		lines = append(lines, m.fit(render(styles.Error, m.errMsg)))
	}
	footer := m.help.ShortHelpView(m.keys.shortHelp(m.HasButton(reminder.ActionSnooze)))
	lines = append(lines, "", m.fit(render(styles.Footer, footer)))
	return lines
}

func (m *Model) titleLine() string {
	return m.fit(render(styles.Title, m.view.Title))
}

func (m *Model) descriptionLines() []string {
	text := m.view.Description
	if w := m.contentWidth(); w > 0 {
		text = lipgloss.NewStyle().Width(w).Render(text)
	}
	return strings.Split(render(styles.Description, text), "\n")
}

func (m *Model) loadingLine() string {
	return m.fit(m.spinner.View() + " " + render(styles.Loading, m.loadingText))
}

func (m *Model) buttonRow() string {
	parts := make([]string, 0, len(m.buttons))
	for i, b := range m.buttons {
		label := "[ " + b.label + " ]"
		style := styles.Button
		switch {
		case b.disabled:
			style = styles.ButtonDisabled
		case i == m.focus:
			style = styles.ButtonFocused
		}
		parts = append(parts, render(style, label))
	}
	return m.fit(strings.Join(parts, "  "))
}

// contentWidth is the usable width inside the frame padding.
func (m *Model) contentWidth() int {
	if m.width <= 0 {
		return 0
	}
	w := m.width - 2
	if w < 1 {
		w = 1
	}
	return w
}

func (m *Model) fit(line string) string {
	w := m.contentWidth()
	if w <= 0 || ansi.StringWidth(line) <= w {
		return line
	}
	return ansi.Truncate(line, w, ellipsis)
}

func render(style *lipgloss.Style, text string) string {
	if style == nil {
		return text
	}
	return style.Render(text)
}

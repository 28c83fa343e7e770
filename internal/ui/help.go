package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// renderHelp renders the help overlay from the key map.
func (m Model) renderHelp() string {
	styles := m.theme.Styles()

	move := key.NewBinding(key.WithHelp("arrows", "Move"))
	left := []helpSection{
		{title: "Menu", bindings: []key.Binding{move, m.keys.Select, m.keys.Back, m.keys.Reload}},
		{title: "General", bindings: []key.Binding{m.keys.CycleTheme, m.keys.Logs, m.keys.Quit}},
	}
	right := []helpSection{
		{title: "Output", bindings: []key.Binding{m.keys.Save, m.keys.Copy, m.keys.Close, m.keys.NextBtn}},
	}

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.theme.Warning)).
		Width(8)
	column := func(sections []helpSection) string {
		var b strings.Builder
		for i, section := range sections {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString(styles.AccentText.Bold(true).Render(section.title))
			b.WriteString("\n")
			for _, binding := range section.bindings {
				h := binding.Help()
				b.WriteString(keyStyle.Render(h.Key))
				b.WriteString(styles.Text.Render(h.Desc))
				b.WriteString("\n")
			}
		}
		return strings.TrimRight(b.String(), "\n")
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.Text.Bold(true).Render("Keys")+styles.FaintText.Render("  tap or press 1-9"),
		lipgloss.JoinHorizontal(lipgloss.Top, column(left), "  ", column(right)),
	)

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Accent)).
		Padding(0, 1).
		Render(content)

	return lipgloss.Place(
		m.panelWidth(),
		m.panelHeight(),
		lipgloss.Center,
		lipgloss.Center,
		modal,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)),
	)
}

type helpSection struct {
	title    string
	bindings []key.Binding
}

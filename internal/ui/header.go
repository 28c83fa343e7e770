package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const breadcrumbSep = " › "

// renderHeader renders the single status line above the panel: breadcrumb on
// the left, notices and the stale menu hint on the right.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	width := m.panelWidth()
	surface := lipgloss.Color(m.theme.Surface)

	left := styles.Logo.Render("pimenu") + styles.Header.Render(" "+m.title())

	var right string
	switch {
	case m.notice != "" && m.noticeBad:
		right = styles.DangerText.Background(surface).Render(m.notice)
	case m.notice != "":
		right = styles.SuccessText.Background(surface).Render(m.notice)
	case m.snapshot.Stale():
		right = styles.WarningText.Background(surface).Render(m.staleHint())
	case m.snapshot.Degraded():
		right = styles.WarningText.Background(surface).Render("menu watch failing")
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		// The notice wins over the breadcrumb when space is short.
		right = lipgloss.NewStyle().MaxWidth(max(width-1, 0)).Render(right)
		gap = width - lipgloss.Width(left) - lipgloss.Width(right)
		if gap < 1 {
			left = lipgloss.NewStyle().MaxWidth(max(width-lipgloss.Width(right)-1, 0)).Render(left)
			gap = max(width-lipgloss.Width(left)-lipgloss.Width(right), 0)
		}
	}

	line := left + styles.Header.Render(strings.Repeat(" ", gap)) + right
	return styles.Header.Width(width).MaxWidth(width).Render(line)
}

// title describes where the user is.
func (m Model) title() string {
	switch m.mode {
	case modeExecuting:
		return "running"
	case modeOutput:
		if last, ok := m.eng.Last(); ok {
			return last.Target.Text()
		}
		return "output"
	case modeLog:
		return "log"
	}
	labels := m.eng.Labels()
	if len(labels) == 0 {
		return "Home"
	}
	return strings.Join(labels, breadcrumbSep)
}

func (m Model) staleHint() string {
	if m.eng.Depth() == 1 {
		return "menu changed, tap to reload"
	}
	return "menu changed"
}

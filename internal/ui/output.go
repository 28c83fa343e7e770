package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/pimenu/internal/executor"
)

const outputButtonHeight = 3

var outputButtons = []string{"Save", "Copy", "Close"}

const (
	buttonSave = iota
	buttonCopy
	buttonClose
)

// outcomeText is the text shown in, and saved from, the output view.
func outcomeText(o executor.Outcome) string {
	text := o.Text()
	if o.Status == executor.StatusSuccess {
		if strings.TrimSpace(text) == "" {
			text = "(no output)"
		}
		if o.ExitCode != 0 {
			text = strings.TrimRight(text, "\n") + fmt.Sprintf("\n\n[exit status %d]", o.ExitCode)
		}
	}
	return text
}

func (m Model) handleOutputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Close):
		return m.pressOutputButton(buttonClose)
	case key.Matches(msg, m.keys.Save):
		return m.pressOutputButton(buttonSave)
	case key.Matches(msg, m.keys.Copy):
		return m.pressOutputButton(buttonCopy)
	case key.Matches(msg, m.keys.NextBtn):
		m.buttonFocus = (m.buttonFocus + 1) % len(outputButtons)
		return m, nil
	case key.Matches(msg, m.keys.PrevBtn):
		m.buttonFocus = (m.buttonFocus + len(outputButtons) - 1) % len(outputButtons)
		return m, nil
	case key.Matches(msg, m.keys.Select):
		return m.pressOutputButton(m.buttonFocus)
	case key.Matches(msg, m.keys.PageUp):
		m.output.HalfViewUp()
		return m, nil
	case key.Matches(msg, m.keys.PageDown):
		m.output.HalfViewDown()
		return m, nil
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.output, cmd = m.output.Update(msg)
	return m, cmd
}

func (m Model) pressOutputButton(i int) (tea.Model, tea.Cmd) {
	last, _ := m.eng.Last()
	text := outcomeText(last.Outcome)
	switch i {
	case buttonSave:
		return m, saveCmd(m.saveDir, last.Target, text, m.now())
	case buttonCopy:
		return m, copyCmd(m.copyText, text)
	default:
		m.mode = modeMenu
		m.notice = ""
		return m, nil
	}
}

// outputButtonAt returns the output view button under (x, y), or -1.
func (m Model) outputButtonAt(x, y int) int {
	top := headerHeight + m.output.Height
	if y < top || y >= top+outputButtonHeight {
		return -1
	}
	g := layoutGrid(len(outputButtons), 0, top, m.panelWidth(), outputButtonHeight)
	return g.hit(x, y)
}

func (m Model) renderOutput() string {
	styles := m.theme.Styles()
	body := styles.Output.
		Width(m.output.Width).
		Height(m.output.Height).
		Render(m.output.View())

	g := layoutGrid(len(outputButtons), 0, 0, m.panelWidth(), outputButtonHeight)
	cells := make([]string, 0, len(outputButtons))
	for i, label := range outputButtons {
		w, h := g.cellSize(i)
		style := styles.Button.
			Background(lipgloss.Color(m.theme.Buttons.Action)).
			Width(w).
			Height(h)
		if i == m.buttonFocus {
			label = "› " + label + " ‹"
			style = style.Bold(true)
		}
		cells = append(cells, style.Render(truncate(label, w)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, body, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
}

func (m Model) renderExecuting() string {
	styles := m.theme.Styles()
	elapsed := m.now().Sub(m.started).Truncate(time.Second)
	text := fmt.Sprintf("%s Executing…\n\n%s\n%s",
		m.spinner.View(),
		truncate(m.running.Text(), max(m.panelWidth()-4, 1)),
		elapsed)
	return styles.Button.
		Background(lipgloss.Color(m.theme.Buttons.Executing)).
		Width(m.panelWidth()).
		Height(m.gridHeight()).
		Render(text)
}

func (m Model) renderLog() string {
	styles := m.theme.Styles()
	return styles.Output.
		Width(m.logView.Width).
		Height(m.logView.Height).
		Render(m.logView.View())
}

package ui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/pimenu/internal/engine"
)

// gridShape returns the row and column count for n buttons: as square as
// possible, filled row by row.
func gridShape(n int) (rows, cols int) {
	if n <= 0 {
		return 0, 0
	}
	rows = int(math.Floor(math.Sqrt(float64(n))))
	cols = int(math.Ceil(float64(n) / float64(rows)))
	return rows, cols
}

// grid is the geometry of the button area. Edges hold cumulative offsets so
// that leftover cells go to the last row and column.
type grid struct {
	n        int
	rows     int
	cols     int
	x, y     int
	colEdges []int
	rowEdges []int
}

func layoutGrid(n, x, y, width, height int) grid {
	rows, cols := gridShape(n)
	g := grid{n: n, rows: rows, cols: cols, x: x, y: y}
	if n == 0 {
		return g
	}
	g.colEdges = edges(cols, width)
	g.rowEdges = edges(rows, height)
	return g
}

func edges(parts, total int) []int {
	out := make([]int, parts+1)
	size := total / parts
	for i := 1; i < parts; i++ {
		out[i] = i * size
	}
	out[parts] = total
	return out
}

// cellSize returns the width and height of button i.
func (g grid) cellSize(i int) (int, int) {
	row, col := i/g.cols, i%g.cols
	return g.colEdges[col+1] - g.colEdges[col], g.rowEdges[row+1] - g.rowEdges[row]
}

// hit returns the button under screen cell (x, y), or -1.
func (g grid) hit(x, y int) int {
	if g.n == 0 {
		return -1
	}
	x -= g.x
	y -= g.y
	if x < 0 || y < 0 || x >= g.colEdges[g.cols] || y >= g.rowEdges[g.rows] {
		return -1
	}
	col := findEdge(g.colEdges, x)
	row := findEdge(g.rowEdges, y)
	i := row*g.cols + col
	if i >= g.n {
		return -1
	}
	return i
}

func findEdge(edges []int, v int) int {
	for i := 0; i < len(edges)-1; i++ {
		if v < edges[i+1] {
			return i
		}
	}
	return len(edges) - 2
}

// move returns the focus index after a step of (dr, dc), staying inside the
// grid and on an existing button.
func (g grid) move(from, dr, dc int) int {
	if g.n == 0 {
		return 0
	}
	row, col := from/g.cols, from%g.cols
	row = clamp(row+dr, 0, g.rows-1)
	col = clamp(col+dc, 0, g.cols-1)
	i := row*g.cols + col
	for i >= g.n && i > 0 {
		i--
	}
	return i
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// buttonColor picks the fill of a button: the item's own color, else the
// default of its kind.
func buttonColor(item engine.Selectable, p ButtonPalette) string {
	if item.Color != "" {
		return item.Color
	}
	switch item.Kind {
	case engine.KindBack:
		return p.Back
	case engine.KindGroup:
		return p.Group
	default:
		return p.Leaf
	}
}

// renderGrid draws the buttons row by row.
func (m Model) renderGrid(g grid) string {
	if g.n == 0 {
		styles := m.theme.Styles()
		return lipgloss.Place(m.panelWidth(), m.gridHeight(), lipgloss.Center, lipgloss.Center,
			styles.MutedText.Render("The menu has no items"))
	}

	rows := make([]string, 0, g.rows)
	for r := 0; r < g.rows; r++ {
		cells := make([]string, 0, g.cols)
		for c := 0; c < g.cols; c++ {
			i := r*g.cols + c
			w, h := g.cellSize(i)
			if i >= g.n {
				cells = append(cells, m.theme.Styles().Background.Width(w).Height(h).Render(""))
				continue
			}
			cells = append(cells, m.renderButton(m.items[i], w, h, i == m.focus))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// renderButton draws one button: icon art when there is room, then the caption.
func (m Model) renderButton(item engine.Selectable, width, height int, focused bool) string {
	fill := buttonColor(item, m.theme.Buttons)
	style := m.theme.Styles().Button.
		Background(lipgloss.Color(fill)).
		Width(width).
		Height(height)

	caption := item.Caption()
	labelStyle := lipgloss.NewStyle().
		Background(lipgloss.Color(fill)).
		Foreground(lipgloss.Color(m.theme.Buttons.Label))
	if focused {
		labelStyle = labelStyle.Bold(true).Underline(true)
		caption = "› " + caption + " ‹"
	}
	caption = truncate(caption, width)

	var lines []string
	if iconH := height - 2; iconH >= 2 && width >= 4 {
		iconW := min(width-2, iconH*2)
		lines = append(lines, m.icons.render(item.Icon, iconW, iconH, fill))
	}
	lines = append(lines, labelStyle.Render(caption))

	return style.Render(strings.Join(lines, "\n"))
}

func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}

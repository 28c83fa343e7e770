package ui

import (
	"fmt"
	"image/color"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/pimenu/internal/icons"
)

// upperHalf draws the top pixel in the foreground and the bottom pixel in the
// background, giving two image rows per terminal row.
const upperHalf = "▀"

// iconArt renders icon images as half-block text and caches the result per
// icon, size and fill.
type iconArt struct {
	mu    sync.Mutex
	cache map[artKey]string
}

type artKey struct {
	source string
	name   string
	w, h   int
	fill   string
}

func newIconArt() *iconArt {
	return &iconArt{cache: make(map[artKey]string)}
}

// render returns width x height cells of art for h. Transparent pixels show
// the button fill.
func (a *iconArt) render(h icons.Handle, width, height int, fill string) string {
	if h.Image == nil || width <= 0 || height <= 0 {
		return ""
	}
	key := artKey{source: h.Source, name: h.Name, w: width, h: height, fill: fill}
	if h.Source == "" {
		// built-in placeholder; the name alone does not identify the image
		key.name = icons.PlaceholderName
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if art, ok := a.cache[key]; ok {
		return art
	}

	thumb := icons.Thumbnail(h.Image, width, height*2)
	bounds := thumb.Bounds()
	lines := make([]string, 0, height)
	for y := 0; y < height; y++ {
		var b strings.Builder
		for x := 0; x < width; x++ {
			top := thumb.At(bounds.Min.X+x, bounds.Min.Y+2*y)
			bottom := thumb.At(bounds.Min.X+x, bounds.Min.Y+2*y+1)
			b.WriteString(lipgloss.NewStyle().
				Foreground(lipgloss.Color(hexOr(top, fill))).
				Background(lipgloss.Color(hexOr(bottom, fill))).
				Render(upperHalf))
		}
		lines = append(lines, b.String())
	}
	art := strings.Join(lines, "\n")
	a.cache[key] = art
	return art
}

// hexOr formats c as #rrggbb, or returns fallback for transparent pixels.
func hexOr(c color.Color, fallback string) string {
	if !icons.Opaque(c) {
		return fallback
	}
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}

// Package icons resolves icon names to decoded images with a fixed fallback
// chain. Resolution never fails: anything that cannot be loaded resolves to the
// placeholder icon.
package icons

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif" // register decoder
	_ "image/png" // register decoder
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"
)

// PlaceholderName is the icon shown when nothing better can be resolved.
const PlaceholderName = "cancel"

var extensions = []string{".png", ".gif"}

// Handle is a resolved icon.
type Handle struct {
	// Name is the requested icon name.
	Name string
	// Source is the file the image was decoded from; empty for the built-in image.
	Source string
	Image  image.Image
	// Placeholder is set when the requested icon could not be used.
	Placeholder bool
}

// Resolver looks icons up under a directory and caches the results for the
// lifetime of the process.
type Resolver struct {
	dir    string
	logger *slog.Logger

	mu      sync.Mutex
	cache   map[string]Handle
	decoded map[string]image.Image
}

// NewResolver returns a resolver reading icons from dir.
func NewResolver(dir string, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Resolver{
		dir:     dir,
		logger:  logger,
		cache:   make(map[string]Handle),
		decoded: make(map[string]image.Image),
	}
}

// DefaultName derives the icon name used for items without an explicit icon:
// "scrabble." followed by the lowercased first letter of the label.
func DefaultName(label string) string {
	r, _ := utf8.DecodeRuneInString(strings.TrimSpace(label))
	if r == utf8.RuneError {
		return "scrabble."
	}
	return "scrabble." + string(unicode.ToLower(r))
}

// Resolve returns the icon for name. The lookup order is: cache, <name>.png,
// <name>.gif, then the placeholder.
func (r *Resolver) Resolve(name string) Handle {
	r.mu.Lock()
	defer r.mu.Unlock()

	if h, ok := r.cache[name]; ok {
		return h
	}

	h := r.load(name)
	r.cache[name] = h
	return h
}

// cached reports how many names have been resolved so far.
func (r *Resolver) cached() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.cache)
}

func (r *Resolver) load(name string) Handle {
	if path, ok := r.locate(name); ok {
		img, err := r.decode(path)
		if err == nil {
			return Handle{Name: name, Source: path, Image: img}
		}
		r.logger.Debug("icon load failed, using placeholder", "icon", name, "path", path, "error", err)
	}

	h := r.placeholder()
	h.Name = name
	return h
}

func (r *Resolver) locate(name string) (string, bool) {
	if !validName(name) {
		return "", false
	}
	for _, ext := range extensions {
		path := filepath.Join(r.dir, name+ext)
		info, err := os.Stat(path)
		if err == nil && info.Mode().IsRegular() {
			return path, true
		}
	}
	return "", false
}

func (r *Resolver) placeholder() Handle {
	if path, ok := r.locate(PlaceholderName); ok {
		img, err := r.decode(path)
		if err == nil {
			return Handle{Name: PlaceholderName, Source: path, Image: img, Placeholder: true}
		}
		r.logger.Warn("placeholder icon unreadable", "path", path, "error", err)
	}
	return Handle{Name: PlaceholderName, Image: builtinPlaceholder, Placeholder: true}
}

// decode loads an image once per file path; callers hold r.mu.
func (r *Resolver) decode(path string) (image.Image, error) {
	if img, ok := r.decoded[path]; ok {
		return img, nil
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open icon: %w", err)
	}
	defer func() { _ = file.Close() }()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode icon: %w", err)
	}
	r.decoded[path] = img
	return img, nil
}

func validName(name string) bool {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" || trimmed != name {
		return false
	}
	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return false
	}
	return true
}

var builtinPlaceholder = drawCross(16)

// drawCross renders a red square with a white diagonal cross.
func drawCross(size int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	red := color.RGBA{R: 0xb9, G: 0x1d, B: 0x47, A: 0xff}
	white := color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c := red
			if x == y || x == size-1-y {
				c = white
			}
			img.Set(x, y, c)
		}
	}
	return img
}

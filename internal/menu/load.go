package menu

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrConfigMissing is returned when the menu file does not exist.
var ErrConfigMissing = errors.New("menu file not found")

// ParseError wraps a YAML decoding failure of the menu file.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse menu %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Load reads the menu file at path and builds a tree from it. The returned time
// is the file's modification time at the moment it was read.
func Load(path string) (*Tree, time.Time, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, time.Time{}, fmt.Errorf("%w: %s", ErrConfigMissing, path)
		}
		return nil, time.Time{}, fmt.Errorf("open menu: %w", err)
	}
	defer func() { _ = file.Close() }()

	info, err := file.Stat()
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("stat menu: %w", err)
	}

	bytes, err := io.ReadAll(file)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("read menu: %w", err)
	}

	items, err := Parse(bytes)
	if err != nil {
		return nil, time.Time{}, &ParseError{Path: path, Err: err}
	}

	tree, err := Build(items)
	if err != nil {
		return nil, time.Time{}, err
	}
	return tree, info.ModTime(), nil
}

// Parse decodes a menu document: a top-level list of items.
func Parse(data []byte) ([]Item, error) {
	var items []Item
	if err := yaml.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Package reload decides when the menu file must be read again.
//
// The decision itself is a modification-time comparison made on demand (Back
// pressed at the top level). Watch only produces a hint for the header so the
// user knows a reload is pending; it never reloads on its own.
package reload

import (
	"fmt"
	"os"
	"time"
)

// Policy compares the menu file's modification time against the value recorded
// at load time.
type Policy struct {
	path string
}

// NewPolicy returns a policy for the file at path.
func NewPolicy(path string) *Policy {
	return &Policy{path: path}
}

// Path is the watched file.
func (p *Policy) Path() string {
	return p.path
}

// ModTime returns the file's current modification time.
func (p *Policy) ModTime() (time.Time, error) {
	info, err := os.Stat(p.path)
	if err != nil {
		return time.Time{}, fmt.Errorf("stat menu: %w", err)
	}
	return info.ModTime(), nil
}

// HasChanged reports whether the file's modification time differs from
// lastKnown. A file that cannot be stat'ed counts as changed so the following
// rebuild surfaces the error.
func (p *Policy) HasChanged(lastKnown time.Time) bool {
	current, err := p.ModTime()
	if err != nil {
		return true
	}
	return !current.Equal(lastKnown)
}

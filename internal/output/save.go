// Package output writes captured command output to a text file on request.
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kballard/go-shellquote"
)

const (
	fallbackName    = "pimenu_output"
	timestampLayout = "2006-01-02_15-04-05"
)

// FileName builds "<name>_<timestamp>.txt" where name is the sanitized first
// word of commandText, or "pimenu_output" when there is none.
func FileName(commandText string, now time.Time) string {
	name := Sanitize(FirstToken(commandText))
	if name == "" {
		name = fallbackName
	}
	return fmt.Sprintf("%s_%s.txt", name, now.Format(timestampLayout))
}

// FirstToken returns the first shell word of commandText. Unbalanced quotes fall
// back to whitespace splitting.
func FirstToken(commandText string) string {
	words, err := shellquote.Split(commandText)
	if err != nil {
		words = strings.Fields(commandText)
	}
	for _, w := range words {
		if w != "" {
			return w
		}
	}
	return ""
}

// Sanitize replaces every rune outside [A-Za-z0-9_.-] with an underscore.
func Sanitize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '.', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// Save writes text into dir and returns the full path of the new file.
func Save(dir, commandText, text string, now time.Time) (string, error) {
	if strings.TrimSpace(dir) == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dir = home
	}
	path := filepath.Join(dir, FileName(commandText, now))
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("write output: %w", err)
	}
	return path, nil
}

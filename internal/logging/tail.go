package logging

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// Tail returns up to max of the most recent lines of the log at path whose level
// is at least min. A missing file yields no lines.
func Tail(path string, max int, min slog.Level) ([]string, error) {
	if max <= 0 {
		return nil, nil
	}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer func() { _ = file.Close() }()

	var lines []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if lineLevel(line) < min {
			continue
		}
		lines = append(lines, line)
		if len(lines) > 2*max {
			lines = append(lines[:0], lines[len(lines)-max:]...)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}
	if len(lines) > max {
		lines = lines[len(lines)-max:]
	}
	return lines, nil
}

// lineLevel reads the level=... field written by the text handler. Lines
// without one count as info.
func lineLevel(line string) slog.Level {
	idx := strings.Index(line, "level=")
	if idx < 0 {
		return slog.LevelInfo
	}
	value := line[idx+len("level="):]
	if end := strings.IndexByte(value, ' '); end >= 0 {
		value = value[:end]
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(value)); err != nil {
		return slog.LevelInfo
	}
	return level
}

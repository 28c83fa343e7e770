package ui

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/pimenu/internal/engine"
	"github.com/five82/pimenu/internal/executor"
	"github.com/five82/pimenu/internal/logging"
	"github.com/five82/pimenu/internal/output"
	"github.com/five82/pimenu/internal/state"
)

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type execDoneMsg struct {
	target  executor.Target
	outcome executor.Outcome
}

type savedMsg struct {
	path string
	err  error
}

type copiedMsg struct {
	err error
}

type logLinesMsg struct {
	lines []string
	err   error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

// runCmd executes target off the UI goroutine. The engine's stack is only
// touched again when execDoneMsg arrives in Update.
func runCmd(ctx context.Context, eng *engine.Engine, target executor.Target, running *inflight) tea.Cmd {
	return func() tea.Msg {
		if !running.start() {
			return execDoneMsg{target: target, outcome: executor.Outcome{
				Status:  executor.StatusFailed,
				Message: "Error: command cancelled.",
			}}
		}
		defer running.done()
		return execDoneMsg{target: target, outcome: eng.Execute(ctx, target)}
	}
}

// inflight tracks executions so the program can wait for them on exit. Once
// closed, no new execution starts.
type inflight struct {
	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func (f *inflight) start() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return false
	}
	f.wg.Add(1)
	return true
}

func (f *inflight) done() {
	f.wg.Done()
}

func (f *inflight) closeAndWait() {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	f.wg.Wait()
}

func saveCmd(dir string, target executor.Target, text string, now time.Time) tea.Cmd {
	return func() tea.Msg {
		path, err := output.Save(dir, target.Text(), text, now)
		return savedMsg{path: path, err: err}
	}
}

func copyCmd(write func(string) error, text string) tea.Cmd {
	return func() tea.Msg {
		return copiedMsg{err: write(text)}
	}
}

func readLogCmd(path string) tea.Cmd {
	return func() tea.Msg {
		if path == "" {
			return logLinesMsg{}
		}
		lines, err := logging.Tail(path, logTailLines, slog.LevelDebug)
		return logLinesMsg{lines: lines, err: err}
	}
}

func joinLines(lines []string, empty string) string {
	if len(lines) == 0 {
		return empty
	}
	return strings.Join(lines, "\n")
}

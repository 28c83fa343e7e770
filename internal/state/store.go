package state

import (
	"fmt"
	"sync"
	"time"
)

// Snapshot is what the UI knows about the menu file beyond the engine itself.
type Snapshot struct {
	// MenuChanged is set when the menu file changed after the last reload.
	MenuChanged bool
	ChangedAt   time.Time
	// Changes counts change notifications since the last acknowledgement.
	Changes     int
	LastError   error
	WatchErrors int
}

// Stale reports whether the menu on screen is older than the file on disk.
func (s Snapshot) Stale() bool {
	return s.MenuChanged
}

// Degraded reports whether file watching has failed repeatedly.
func (s Snapshot) Degraded() bool {
	return s.WatchErrors >= 2
}

// Store coordinates the watcher goroutine with the UI loop.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// MarkChanged records a menu file change observed at t.
func (s *Store) MarkChanged(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.MenuChanged = true
	s.snapshot.ChangedAt = t
	s.snapshot.Changes++
}

// Acknowledge clears the change flag after the UI reloaded the menu.
func (s *Store) Acknowledge() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.MenuChanged = false
	s.snapshot.Changes = 0
}

// RecordError keeps err for display. A nil err resets the failure counter.
func (s *Store) RecordError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err == nil {
		s.snapshot.LastError = nil
		s.snapshot.WatchErrors = 0
		return
	}
	s.snapshot.LastError = err
	s.snapshot.WatchErrors++
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

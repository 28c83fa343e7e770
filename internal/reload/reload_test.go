package reload

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestPolicy_HasChanged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pimenu.yaml")
	if err := os.WriteFile(path, []byte("[]"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	first := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	if err := os.Chtimes(path, first, first); err != nil {
		t.Fatalf("Chtimes: %v", err)
	}

	p := NewPolicy(path)
	recorded, err := p.ModTime()
	if err != nil {
		t.Fatalf("ModTime: %v", err)
	}
	if p.HasChanged(recorded) {
		t.Fatalf("HasChanged = true without modification")
	}
	if p.HasChanged(recorded) {
		t.Fatalf("HasChanged = true on second check without modification")
	}

	second := first.Add(time.Minute)
	if err := os.Chtimes(path, second, second); err != nil {
		t.Fatalf("Chtimes: %v", err)
	}
	if !p.HasChanged(recorded) {
		t.Fatalf("HasChanged = false after mtime changed")
	}
}

func TestPolicy_MissingFileCountsAsChanged(t *testing.T) {
	p := NewPolicy(filepath.Join(t.TempDir(), "gone.yaml"))
	if !p.HasChanged(time.Now()) {
		t.Fatalf("HasChanged = false for missing file")
	}
	if _, err := p.ModTime(); err == nil {
		t.Fatalf("ModTime returned nil error for missing file")
	}
}

func TestWatch_ReportsWritesToTheFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pimenu.yaml")
	if err := os.WriteFile(path, []byte("[]"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	done := make(chan error, 1)
	ready := make(chan struct{})
	go func() { done <- Watch(ctx, path, nil, func() { close(ready) }, func() { calls.Add(1) }) }()

	select {
	case <-ready:
	case <-time.After(5 * time.Second):
		t.Fatalf("watch never became ready")
	}
	if err := os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := os.WriteFile(path, []byte("- name: a\n  label: A\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(20 * time.Millisecond)
	}
	if calls.Load() == 0 {
		t.Fatalf("onChange was not called")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Watch returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Watch did not return after cancel")
	}
}

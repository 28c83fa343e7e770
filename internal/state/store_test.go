package state

import (
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"
)

func TestStore_MarkChangedAndAcknowledge(t *testing.T) {
	var s Store

	if s.Snapshot().Stale() {
		t.Fatal("zero store should not be stale")
	}

	at := time.Now()
	s.MarkChanged(at)
	s.MarkChanged(at.Add(time.Second))

	snap := s.Snapshot()
	if !snap.Stale() {
		t.Fatal("Stale() = false, want true after MarkChanged")
	}
	if snap.Changes != 2 {
		t.Fatalf("Changes = %d, want 2", snap.Changes)
	}
	if !snap.ChangedAt.Equal(at.Add(time.Second)) {
		t.Fatalf("ChangedAt = %v, want %v", snap.ChangedAt, at.Add(time.Second))
	}

	s.Acknowledge()
	snap = s.Snapshot()
	if snap.Stale() || snap.Changes != 0 {
		t.Fatalf("after Acknowledge: stale=%v changes=%d, want false/0", snap.Stale(), snap.Changes)
	}
}

func TestStore_RecordErrorClonesAndCounts(t *testing.T) {
	var s Store

	origErr := errors.New("boom")
	s.RecordError(origErr)

	snap := s.Snapshot()
	if snap.LastError == nil || snap.LastError.Error() != "boom" {
		t.Fatalf("LastError = %v, want boom", snap.LastError)
	}
	if reflect.ValueOf(snap.LastError).Pointer() == reflect.ValueOf(origErr).Pointer() {
		t.Fatalf("Snapshot should clone error instance")
	}
	if !errors.Is(snap.LastError, origErr) {
		t.Fatalf("cloned error should wrap the original")
	}
	if snap.Degraded() {
		t.Fatal("Degraded() = true, want false with 1 failure")
	}

	s.RecordError(errors.New("again"))
	if !s.Snapshot().Degraded() {
		t.Fatal("Degraded() = false, want true with 2 failures")
	}

	s.RecordError(nil)
	snap = s.Snapshot()
	if snap.LastError != nil || snap.WatchErrors != 0 {
		t.Fatalf("RecordError(nil) left error=%v count=%d", snap.LastError, snap.WatchErrors)
	}
}

func TestStore_ConcurrentWritersAndReaders(t *testing.T) {
	var s Store
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.MarkChanged(time.Now())
		}()
		go func() {
			defer wg.Done()
			_ = s.Snapshot()
		}()
	}
	wg.Wait()

	if got := s.Snapshot().Changes; got != 8 {
		t.Fatalf("Changes = %d, want 8", got)
	}
}

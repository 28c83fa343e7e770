// Package state shares menu file status between the watcher goroutine and the
// UI loop.
//
// # Overview
//
// The engine only rereads the menu when the user presses Back at the root. In
// the meantime a filesystem watcher notices edits to the menu file and records
// them here so the header can hint that a reload is pending:
//
//	Producer (watcher):            Consumer (UI):
//	┌────────────────────┐        ┌─────────────────────┐
//	│ fsnotify event     │        │ tick                │
//	│      ↓             │        │      ↓              │
//	│ store.MarkChanged()│───────→│ store.Snapshot()    │
//	│                    │ (mutex)│      ↓              │
//	│ watch error        │        │ render stale hint   │
//	│ store.RecordError()│        │ store.Acknowledge() │
//	└────────────────────┘        └─────────────────────┘
//
// The UI calls Acknowledge after a successful reload.
//
// # Concurrency Model
//
// Store uses a readers-writer lock. Writers hold it only to update a few
// fields; Snapshot copies the state under the read lock and clones the error
// value so callers never share it with the store.
//
// The zero Store is ready to use.
package state

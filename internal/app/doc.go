// Package app is the composition root of PiMenu.
//
// # Overview
//
// Run wires configuration, logging, the menu engine, the command executor,
// the menu file watcher and the UI together, then blocks until the user quits
// or the context is cancelled.
//
// # Startup
//
//  1. Load settings (defaults, optional config.yaml, PIMENU_* environment)
//  2. Open the log file; logging falls back to a discard logger on failure
//  3. Build the icon resolver, executor and engine
//  4. Load the menu file; a missing or malformed file ends startup with an error
//  5. Load UI preferences (theme)
//  6. Start the watcher and the UI in one errgroup
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       ├─────> config.Load()     Settings
//	       ├─────> logging.Open()    Log file
//	       ├─────> engine.New()      Initial menu load (fatal on error)
//	       ├─────> WatchMenu()       fsnotify → state.Store
//	       └─────> ui.Run()          Bubble Tea program (blocks)
//
// When the UI returns, the watcher's context is cancelled so the group winds
// down together.
//
// # Watcher
//
// The watcher only marks the menu as changed; the engine still reloads on
// Back at the root. A failing watch is restarted with exponential backoff
// starting at 2 seconds and capped at 30 seconds. Failures are recorded in
// the store so the header can report them.
package app

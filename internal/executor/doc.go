// Package executor runs the external commands behind leaf menu items.
//
// # Targets
//
// A leaf selects one of two targets:
//
//   - Raw: the item's command string, run through /bin/sh -c. Default timeout 300s.
//   - Breadcrumb: the default script (pimenu.sh next to the binary) invoked
//     directly with the item's breadcrumb as positional arguments. No shell
//     interpolation happens. Default timeout 30s.
//
// Standard output and standard error are captured into a single buffer.
//
// # Outcomes
//
// Execute always returns an Outcome, never an error:
//
//   - StatusSuccess: the process exited within its timeout, with any exit code.
//     Output holds everything captured.
//   - StatusTimedOut: the timeout expired. The process group was killed and
//     Message is the fixed TimeoutMessage; partial output is dropped so the user
//     never mistakes truncated output for a full result.
//   - StatusFailed: the process could not be started (missing executable,
//     permission denied) or the caller cancelled the context.
//
// # Process Lifetime
//
// On unix the child is placed in its own process group. Cancellation, whether
// from the timeout or from the caller, sends SIGKILL to the whole group so
// commands started by the shell do not outlive the menu item. WaitDelay bounds
// how long Execute waits for pipes held open by stray descendants.
//
// # Concurrency
//
// An Executor holds no mutable state and may be shared, but the menu only ever
// runs one command at a time: the UI ignores selections while a command is in
// flight.
package executor

// Package engine drives navigation and dispatch for the menu.
//
// The engine sits between the presentation layer and everything else. It holds
// the active menu tree, the navigation stack and the collaborators that resolve
// icons, run commands and detect menu file changes. The UI asks it for the
// visible entries, reports selections by id and receives an Action telling it
// what happened:
//
//   - a group selection pushes a frame (ActionDescend)
//   - Back pops a frame (ActionAscend), or at the root reloads a changed menu
//     file (ActionReload) and otherwise does nothing (ActionNone)
//   - a leaf selection returns ActionExecute with the target to run
//
// Execution is split in two so the UI loop never blocks on a child process:
// Execute may run on a worker goroutine, Complete must run on the UI goroutine
// once the outcome is known. Complete always returns the stack to the root.
//
// A reload that fails keeps the previous tree active; the error is returned so
// the UI can show it, but the menu stays usable.
package engine

// Package ui is the Bubble Tea front end of pimenu.
//
// # Screens
//
// The model switches between four screens:
//
//   - Menu: the visible frame as a grid of buttons, rows = floor(sqrt(n)) and
//     cols = ceil(n/rows), filled row by row
//   - Executing: a spinner over the executing color while a command runs
//   - Output: the captured output in a scrollable viewport with Save, Copy and
//     Close buttons
//   - Log: the tail of pimenu's own log file
//
// A help overlay (?) can be shown above any screen except Executing.
//
// # Input
//
// Mouse presses are hit-tested against the same grid geometry used to draw the
// buttons, so a touchscreen that reports taps as clicks drives the whole menu.
// The keyboard moves a focus marker and selects, and digits 1-9 select a
// button directly.
//
// While a command runs every input except ctrl+c is dropped. The command runs
// in a tea.Cmd; its outcome returns as a message and is handed to the engine
// from Update, so the engine is only ever touched from the program goroutine.
//
// # Sizes
//
// In fullscreen mode the grid fills the terminal. Otherwise it is drawn into a
// fixed 48x16 panel in the top-left corner. Both modes use the alternate
// screen so mouse coordinates line up with the drawing.
//
// # Themes
//
// Three themes (Nightfox, Kanagawa, Slate) color the chrome and button kinds.
// T cycles them and the choice is saved to the preferences file. A color set on
// a menu item always wins over the theme.
package ui

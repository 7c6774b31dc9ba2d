// Package tui provides the terminal dashboard for freqctl.
//
// The dashboard is a Bubble Tea program showing every bot in the fleet
// with its live container state, refreshed periodically through the
// compose tool. It follows the usual Elm-style split:
//
//   - model.go holds the state and the Init command
//   - update.go processes messages and keyboard input
//   - view.go renders the fleet table, log pane and status bar
//
// External events enter as messages: a tick drives the periodic status
// refresh, lifecycle actions run as commands reporting back on
// completion, and entries from the logging channel are pumped into the
// log pane one message at a time.
//
// Keyboard layout: ↑/k and ↓/j move the selection, s/x/r start, stop
// and restart the selected bot, S and X act on the whole fleet, y
// copies the selected bot's API endpoint to the clipboard, l toggles
// the log pane, h the help overlay and q quits.
package tui

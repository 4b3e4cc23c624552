// Copyright © 2025 Periscope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: watch/input.go
// Summary: Maps raw tcell events onto the closed navigation event set.

package watch

import "github.com/gdamore/tcell/v2"

// inputEvent is the closed set of logical events the scheduler reacts
// to. Raw key codes stop at this boundary; navigation semantics are
// decided here and nowhere else.
type inputEvent int

const (
	evNone inputEvent = iota
	evQuit
	evLineUp
	evLineDown
	evPageUp
	evPageDown
	evColLeft
	evColRight
	evBlockLeft
	evBlockRight
	evHome
	evEnd
	evResize
)

// routeEvent translates a terminal event into a logical input event.
// Resize notifications arrive through the same channel as keys, exactly
// like the key stream they share a queue with in tcell.
func routeEvent(ev tcell.Event) inputEvent {
	switch tev := ev.(type) {
	case *tcell.EventResize:
		return evResize
	case *tcell.EventKey:
		ctrl := tev.Modifiers()&tcell.ModCtrl != 0
		switch tev.Key() {
		case tcell.KeyUp:
			if ctrl {
				return evPageUp
			}
			return evLineUp
		case tcell.KeyDown:
			if ctrl {
				return evPageDown
			}
			return evLineDown
		case tcell.KeyPgUp:
			return evPageUp
		case tcell.KeyPgDn:
			return evPageDown
		case tcell.KeyLeft:
			if ctrl {
				return evBlockLeft
			}
			return evColLeft
		case tcell.KeyRight:
			if ctrl {
				return evBlockRight
			}
			return evColRight
		case tcell.KeyHome:
			return evHome
		case tcell.KeyEnd:
			return evEnd
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return evQuit
		case tcell.KeyRune:
			if tev.Rune() == 'q' {
				return evQuit
			}
		}
	}
	return evNone
}

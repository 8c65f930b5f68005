// Package input turns keyboard presses into session events.
package input

import (
	"unicode"

	"git.lost.host/meutraa/chorus/internal/session"
	"github.com/eiannone/keyboard"
)

// MenuKey returns to the menu while paused.
const MenuKey = 'm'

// Keymap binds one key per lane; everything else is fixed.
type Keymap struct {
	lanes []rune
}

func NewKeymap(lanes []rune) Keymap {
	ls := make([]rune, len(lanes))
	for i, r := range lanes {
		ls[i] = unicode.ToLower(r)
	}
	return Keymap{lanes: ls}
}

// Lane returns the lane bound to r, or -1.
func (k Keymap) Lane(r rune) int {
	r = unicode.ToLower(r)
	for i, c := range k.lanes {
		if r == c {
			return i
		}
	}
	return -1
}

// Translate maps one key press to an event. Unbound keys map to nothing.
func (k Keymap) Translate(ev keyboard.KeyEvent) (session.Event, bool) {
	if nil != ev.Err {
		return session.Event{}, false
	}
	switch ev.Key {
	case keyboard.KeyCtrlC:
		return session.Event{Kind: session.Quit}, true
	case keyboard.KeyEsc:
		return session.Event{Kind: session.Pause}, true
	case keyboard.KeyEnter:
		return session.Event{Kind: session.Confirm}, true
	case keyboard.KeyArrowUp:
		return session.Event{Kind: session.Up}, true
	case keyboard.KeyArrowDown:
		return session.Event{Kind: session.Down}, true
	case keyboard.KeyArrowLeft:
		return session.Event{Kind: session.Left}, true
	case keyboard.KeyArrowRight:
		return session.Event{Kind: session.Right}, true
	}
	if ev.Rune == 0 {
		return session.Event{}, false
	}
	if i := k.Lane(ev.Rune); i >= 0 {
		return session.Press(i), true
	}
	if unicode.ToLower(ev.Rune) == MenuKey {
		return session.Event{Kind: session.ToMenu}, true
	}
	return session.Event{}, false
}

// Drain returns the events for every key pressed since the last call,
// without blocking.
func (k Keymap) Drain(keys <-chan keyboard.KeyEvent) []session.Event {
	var events []session.Event
	for {
		select {
		case key, ok := <-keys:
			if !ok {
				return events
			}
			if ev, ok := k.Translate(key); ok {
				events = append(events, ev)
			}
		default:
			return events
		}
	}
}

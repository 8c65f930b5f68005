package session

import "fmt"

// Kind is what an input event asks the session to do.
type Kind uint8

const (
	Up Kind = iota
	Down
	Left
	Right
	Confirm
	Pause // toggles between playing and paused
	ToMenu
	Lane
	Quit
)

func (k Kind) String() string {
	switch k {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	case Confirm:
		return "confirm"
	case Pause:
		return "pause"
	case ToMenu:
		return "menu"
	case Lane:
		return "lane"
	case Quit:
		return "quit"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Event is a single key edge, already mapped to its meaning.
type Event struct {
	Kind Kind
	Lane int // only for Lane events
}

// Press is the event of striking lane i.
func Press(i int) Event {
	return Event{Kind: Lane, Lane: i}
}

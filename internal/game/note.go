package game

import "fmt"

// Status is the lifecycle stage of a note. It only ever moves forward.
type Status uint8

const (
	Falling Status = iota
	Judged
	Dissipating
	Retired
)

func (s Status) String() string {
	switch s {
	case Falling:
		return "falling"
	case Judged:
		return "judged"
	case Dissipating:
		return "dissipating"
	case Retired:
		return "retired"
	}
	return fmt.Sprintf("status(%d)", uint8(s))
}

// DissipationFrames is how many frames a judged note takes to fade out.
const DissipationFrames = 17

type Note struct {
	lane     int
	position int
	status   Status
	accuracy Accuracy
	faded    int // frames spent dissipating
}

func newNote(lane, position int) *Note {
	return &Note{lane: lane, position: position, status: Falling}
}

func (n *Note) Lane() int { return n.lane }
func (n *Note) Position() int { return n.position }
func (n *Note) Status() Status { return n.status }
func (n *Note) Accuracy() Accuracy { return n.accuracy }

// Progress is the normalized dissipation progress in [0, 1].
func (n *Note) Progress() float64 {
	return float64(n.faded) / DissipationFrames
}

// judge records the one and only judgment of the note.
func (n *Note) judge(a Accuracy) {
	if n.status != Falling {
		panic(fmt.Sprintf("game: judging a %v note in lane %d", n.status, n.lane))
	}
	n.status = Judged
	n.accuracy = a
}

// tick moves the note one frame forward and reports whether it retired.
func (n *Note) tick(speed int) bool {
	switch n.status {
	case Falling:
		n.position += speed
	case Judged:
		n.status = Dissipating
	case Dissipating:
		n.faded++
		if n.faded >= DissipationFrames {
			n.status = Retired
			return true
		}
	case Retired:
		panic(fmt.Sprintf("game: ticking a retired note in lane %d", n.lane))
	}
	return false
}

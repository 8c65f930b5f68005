package game

import "fmt"

// Accuracy is the outcome of judging a note.
type Accuracy uint8

const (
	None Accuracy = iota
	Early
	Good
	// Half is a milder success tier. Nothing in Judge produces it; it is
	// kept so the scoring table stays complete.
	Half
	Miss
)

func (a Accuracy) String() string {
	switch a {
	case None:
		return "none"
	case Early:
		return "early"
	case Good:
		return "good"
	case Half:
		return "half"
	case Miss:
		return "miss"
	}
	return fmt.Sprintf("accuracy(%d)", uint8(a))
}

// Tint is the colour a judged note dissipates in. Only renderers read it.
type Tint uint8

const (
	TintNone Tint = iota
	TintWhite
	TintGreen
	TintOrange
	TintRed
)

// Delta is the base score change for an accuracy, before the combo.
func (a Accuracy) Delta() int {
	switch a {
	case Early:
		return -2
	case Good:
		return 4
	case Half:
		return 2
	case Miss:
		return -3
	}
	panic(fmt.Sprintf("game: no delta for %v", a))
}

func (a Accuracy) Tint() Tint {
	switch a {
	case Early:
		return TintWhite
	case Good:
		return TintGreen
	case Half:
		return TintOrange
	case Miss:
		return TintRed
	}
	return TintNone
}

// Judgment is one classified note, handed to the scoring ledger.
type Judgment struct {
	Lane     int
	Position int
	Accuracy Accuracy
}

// Judge classifies a lane press against a note at position.
// ok is false when the position matches no category, which only happens
// at exactly strike+window, the frame before the note times out.
func (g Geometry) Judge(position int) (a Accuracy, ok bool) {
	switch {
	case position < g.Strike-g.Window:
		return Early, true
	case position < g.Strike+g.Window:
		return Good, true
	}
	return None, false
}

// TimedOut reports whether an unjudged note at position has passed the
// strike line by more than the window.
func (g Geometry) TimedOut(position int) bool {
	return position > g.Strike+g.Window
}

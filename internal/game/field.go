package game

import (
	"fmt"
	"math/rand"
)

// Geometry describes the play-field in field units, growing downwards.
type Geometry struct {
	Spawn  int // position a note is created at, above the visible area
	Strike int // the strike line
	Window int // half-width of the Good window around the strike line
	Speed  int // distance a falling note moves per frame
	Height int // bottom of the visible field
}

// DefaultGeometry is a 720 unit tall field with the strike zone 100 units
// above the bottom.
var DefaultGeometry = Geometry{
	Spawn:  -50,
	Strike: 620,
	Window: 50,
	Speed:  5,
	Height: 720,
}

// Spawner decides once per frame whether a note appears, and where.
type Spawner struct {
	chance int
	rng    *rand.Rand
}

// NewSpawner spawns a note with probability 1/chance each frame.
func NewSpawner(chance int, rng *rand.Rand) *Spawner {
	if chance < 1 {
		chance = 1
	}
	return &Spawner{chance: chance, rng: rng}
}

// Next returns the lane of a new note, if one is due this frame.
func (s *Spawner) Next() (int, bool) {
	if s.rng.Intn(s.chance) != 0 {
		return 0, false
	}
	return s.rng.Intn(NLanes), true
}

// Field is the set of lanes a session plays on.
type Field struct {
	Geometry Geometry

	spawner *Spawner
	lanes   [NLanes]Lane
}

func NewField(g Geometry, s *Spawner) *Field {
	f := &Field{Geometry: g, spawner: s}
	for i := range f.lanes {
		f.lanes[i].index = i
	}
	return f
}

// Lane returns lane i. Indexes outside [0, NLanes) are a programming error.
func (f *Field) Lane(i int) *Lane {
	if i < 0 || i >= NLanes {
		panic(fmt.Sprintf("game: lane %d out of range", i))
	}
	return &f.lanes[i]
}

// Add places a falling note at the top of lane i.
func (f *Field) Add(i int) *Note {
	n := newNote(i, f.Geometry.Spawn)
	f.Lane(i).push(n)
	return n
}

// Clear drops every note from every lane.
func (f *Field) Clear() {
	for i := range f.lanes {
		f.lanes[i].clear()
	}
}

// Tick runs one playing frame: spawn, advance, then time out late notes.
// The misses it forced are returned for scoring.
func (f *Field) Tick() []Judgment {
	if nil != f.spawner {
		if lane, ok := f.spawner.Next(); ok {
			f.Add(lane)
		}
	}
	for i := range f.lanes {
		f.lanes[i].tick(f.Geometry.Speed)
	}
	var misses []Judgment
	for i := range f.lanes {
		misses = f.lanes[i].timeouts(f.Geometry, misses)
	}
	return misses
}

// Hit judges a press in lane i against its next unjudged note.
// A lane with nothing to judge ignores the press.
func (f *Field) Hit(i int) (Judgment, bool) {
	n := f.Lane(i).NextUnjudged()
	if nil == n {
		return Judgment{}, false
	}
	a, ok := f.Geometry.Judge(n.position)
	if !ok {
		return Judgment{}, false
	}
	n.judge(a)
	return Judgment{Lane: i, Position: n.position, Accuracy: a}, true
}

// Notes returns every live note, lane by lane.
func (f *Field) Notes() []*Note {
	var ns []*Note
	for i := range f.lanes {
		ns = append(ns, f.lanes[i].queue...)
	}
	return ns
}

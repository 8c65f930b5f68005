package session

import (
	"time"

	"git.lost.host/meutraa/chorus/internal/catalog"
	"git.lost.host/meutraa/chorus/internal/game"
)

// NoteView is what a renderer needs to draw one note.
type NoteView struct {
	Lane     int
	Position int
	Status   game.Status
	Accuracy game.Accuracy
	Progress float64
}

// View is a read-only snapshot of the session for a single frame.
type View struct {
	Mode       Mode
	Option     Option
	Track      catalog.Track
	TrackIndex int
	TrackCount int

	Score     int
	Combo     int
	HighScore int
	Last      game.Judgment // Accuracy is game.None until something is judged

	Elapsed   time.Duration
	Remaining time.Duration

	Geometry game.Geometry
	Notes    []NoteView
	// Next holds, per lane, the note a press would judge.
	Next [game.NLanes]*NoteView
}

func (s *Session) View() View {
	v := View{
		Mode:       s.mode,
		Option:     s.option,
		Track:      s.Track(),
		TrackIndex: s.track,
		TrackCount: len(s.tracks),
		Score:      s.ledger.Score,
		Combo:      s.ledger.Combo(),
		HighScore:  s.board.Get(s.Track().ID),
		Last:       s.last,
		Elapsed:    s.elapsed,
		Remaining:  s.limit - s.elapsed,
		Geometry:   s.field.Geometry,
	}
	if v.Remaining < 0 {
		v.Remaining = 0
	}
	for i := 0; i < game.NLanes; i++ {
		lane := s.field.Lane(i)
		next := lane.NextUnjudged()
		for _, n := range lane.Notes() {
			v.Notes = append(v.Notes, NoteView{
				Lane:     n.Lane(),
				Position: n.Position(),
				Status:   n.Status(),
				Accuracy: n.Accuracy(),
				Progress: n.Progress(),
			})
			if n == next {
				nv := v.Notes[len(v.Notes)-1]
				v.Next[i] = &nv
			}
		}
	}
	return v
}

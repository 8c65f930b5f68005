package render

import (
	"bytes"
	"testing"
	"time"

	"git.lost.host/meutraa/chorus/internal/catalog"
	"git.lost.host/meutraa/chorus/internal/game"
	"git.lost.host/meutraa/chorus/internal/session"
	"git.lost.host/meutraa/chorus/internal/theme"
	"github.com/stretchr/testify/assert"
)

var _ Renderer = (*DefaultRenderer)(nil)

func draw(v session.View) string {
	var buf bytes.Buffer
	r := New(&buf, 80, 24, &theme.DefaultTheme{}, []rune("askl"))
	r.Draw(v)
	return buf.String()
}

func TestDrawMenu(t *testing.T) {
	out := draw(session.View{
		Mode:      session.Menu,
		Track:     catalog.Track{ID: "t1", Title: "Musica"},
		HighScore: 80,
	})
	assert.Contains(t, out, "Musica")
	assert.Contains(t, out, "best 80")
	// the selected option is drawn in the highlight colour
	assert.Contains(t, out, "\033[38;2;255;255;0mPlay")
	assert.Contains(t, out, "\033[38;2;255;255;255mQuit")
}

func TestDrawPlaying(t *testing.T) {
	next := session.NoteView{Lane: 1, Position: 300, Status: game.Falling}
	out := draw(session.View{
		Mode:      session.Playing,
		Score:     24,
		Combo:     3,
		Remaining: 90 * time.Second,
		Last:      game.Judgment{Lane: 0, Accuracy: game.Good},
		Geometry:  game.DefaultGeometry,
		Notes: []session.NoteView{
			next,
			{Lane: 2, Position: -20, Status: game.Falling},
			{Lane: 0, Position: 600, Status: game.Dissipating, Accuracy: game.Good, Progress: 0.5},
		},
		Next: [game.NLanes]*session.NoteView{1: &next},
	})
	assert.Contains(t, out, "Score: 24")
	assert.Contains(t, out, "Combo: 3")
	assert.Contains(t, out, "Time: 1m30s")
	assert.Contains(t, out, "GOOD")
	assert.Contains(t, out, "[s]")
	assert.Contains(t, out, "\033[38;2;0;255;0m○")
}

func TestDrawPausedAndGameOver(t *testing.T) {
	assert.Contains(t, draw(session.View{Mode: session.Paused}), "Press ESC to Resume")

	out := draw(session.View{Mode: session.GameOver, Score: 120, HighScore: 120})
	assert.Contains(t, out, "Game Over")
	assert.Contains(t, out, "Score: 120")
}

func TestRowMapping(t *testing.T) {
	r := New(&bytes.Buffer{}, 80, 25, &theme.DefaultTheme{}, nil)
	g := game.DefaultGeometry

	_, ok := r.row(g, -5)
	assert.False(t, ok)
	row, ok := r.row(g, 0)
	assert.True(t, ok)
	assert.Equal(t, 1, row)
	strike, _ := r.row(g, g.Strike)
	bottom, _ := r.row(g, g.Height-1)
	assert.Less(t, strike, bottom)
	assert.LessOrEqual(t, bottom, 25)
}

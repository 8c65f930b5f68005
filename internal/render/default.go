package render

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"git.lost.host/meutraa/chorus/internal/game"
	"git.lost.host/meutraa/chorus/internal/session"
	"git.lost.host/meutraa/chorus/internal/theme"
	"golang.org/x/term"
)

const (
	// Terminal columns between lanes
	laneSpacing  = 6
	fallbackCols = 80
	fallbackRows = 24
)

// DefaultRenderer draws sessions with ANSI escapes, buffering a whole frame
// before writing it.
type DefaultRenderer struct {
	Theme theme.Theme
	Keys  []rune

	out          io.Writer
	file         *os.File
	buffer       strings.Builder
	restoreState *term.State
	cols, rows   int
}

// NewTerminal renders to a terminal, sizing itself from it every frame.
func NewTerminal(f *os.File, th theme.Theme, keys []rune) *DefaultRenderer {
	return &DefaultRenderer{Theme: th, Keys: keys, out: f, file: f, cols: fallbackCols, rows: fallbackRows}
}

// New renders to any writer at a fixed size.
func New(w io.Writer, cols, rows int, th theme.Theme, keys []rune) *DefaultRenderer {
	return &DefaultRenderer{Theme: th, Keys: keys, out: w, cols: cols, rows: rows}
}

func (r *DefaultRenderer) isTerminal() bool {
	return nil != r.file && term.IsTerminal(int(r.file.Fd()))
}

func (r *DefaultRenderer) Init() error {
	if r.isTerminal() {
		state, err := term.MakeRaw(int(r.file.Fd()))
		if nil != err {
			return err
		}
		r.restoreState = state
	}

	fmt.Fprintf(r.out, "%s%s%s",
		"\033[?1049h", // Enable alternate buffer
		"\033[?25l",   // Make the cursor invisible
		"\033[J",      // Clear the screen
	)
	return nil
}

func (r *DefaultRenderer) Deinit() error {
	fmt.Fprintf(r.out, "%s%s",
		"\033[?1049l", // Disable alternate buffer
		"\033[?25h",   // Make the cursor visible
	)
	if nil == r.restoreState {
		return nil
	}
	return term.Restore(int(r.file.Fd()), r.restoreState)
}

// RenderLoop calls frame once per period until it returns false.
func (r *DefaultRenderer) RenderLoop(period time.Duration, frame func(now time.Time) bool) {
	for {
		now := time.Now()
		deadline := now.Add(period)
		if !frame(now) {
			return
		}
		time.Sleep(time.Until(deadline))
	}
}

func (r *DefaultRenderer) resize() {
	if !r.isTerminal() {
		return
	}
	if cols, rows, err := term.GetSize(int(r.file.Fd())); nil == err {
		r.cols, r.rows = cols, rows
	}
}

// Draw renders one frame of v.
func (r *DefaultRenderer) Draw(v session.View) {
	r.resize()
	r.buffer.WriteString("\033[2J")
	switch v.Mode {
	case session.Menu:
		r.drawMenu(v)
	case session.Playing:
		r.drawField(v)
		r.drawStats(v)
	case session.Paused:
		r.drawPaused(v)
	case session.GameOver:
		r.drawGameOver(v)
	}
	r.flush()
}

func (r *DefaultRenderer) center(row int, c color.RGBA, message string) {
	col := (r.cols - len([]rune(message))) / 2
	if col < 1 {
		col = 1
	}
	r.FillColor(row, col, c, message)
}

func (r *DefaultRenderer) drawMenu(v session.View) {
	mid := r.rows / 2
	r.center(r.rows/4, r.Theme.Text(), "Chorus")
	r.center(mid-2, r.Theme.Muted(), fmt.Sprintf("<  %s  >", v.Track.Title))
	r.center(mid-1, r.Theme.Muted(), fmt.Sprintf("best %d", v.HighScore))

	play, quit := r.Theme.Text(), r.Theme.Text()
	if v.Option == session.OptionPlay {
		play = r.Theme.Highlight()
	} else {
		quit = r.Theme.Highlight()
	}
	r.center(mid+1, play, "Play")
	r.center(mid+2, quit, "Quit")
}

func (r *DefaultRenderer) drawPaused(v session.View) {
	r.center(r.rows/4, r.Theme.Text(), "Paused")
	r.center(r.rows/2, r.Theme.Text(), "Press ESC to Resume")
	r.center(r.rows/2+1, r.Theme.Muted(), "Press M for the menu")
}

func (r *DefaultRenderer) drawGameOver(v session.View) {
	r.center(r.rows/4, r.Theme.Text(), "Game Over")
	r.center(r.rows/2, r.Theme.Text(), fmt.Sprintf("Score: %d", v.Score))
	r.center(r.rows/2+1, r.Theme.Muted(), fmt.Sprintf("Best: %d", v.HighScore))
	r.center(r.rows/2+3, r.Theme.Highlight(), "Press Enter")
}

// laneColumn returns the terminal column of lane i.
func (r *DefaultRenderer) laneColumn(i int) int {
	mid := r.cols / 2
	return mid + (2*i-(game.NLanes-1))*laneSpacing/2
}

// row maps a field position to a terminal row; ok is false off screen.
func (r *DefaultRenderer) row(g game.Geometry, position int) (int, bool) {
	if position < 0 || position >= g.Height || g.Height <= 0 {
		return 0, false
	}
	return 1 + position*(r.rows-1)/g.Height, true
}

func (r *DefaultRenderer) drawField(v session.View) {
	for i := 0; i < game.NLanes; i++ {
		col := r.laneColumn(i)
		for row := 1; row <= r.rows; row++ {
			r.FillColor(row, col, r.Theme.Muted(), r.Theme.Lane(i))
		}
	}

	strike, _ := r.row(v.Geometry, v.Geometry.Strike)
	for i := 0; i < game.NLanes; i++ {
		key := " "
		if i < len(r.Keys) {
			key = string(r.Keys[i])
		}
		c := r.Theme.Muted()
		if nil != v.Next[i] {
			c = r.Theme.Highlight()
		}
		r.FillColor(strike, r.laneColumn(i)-1, c, "["+key+"]")
	}

	for _, n := range v.Notes {
		row, ok := r.row(v.Geometry, n.Position)
		if !ok {
			continue
		}
		c, glyph := r.Theme.Note(n.Status, n.Accuracy.Tint(), n.Progress)
		r.FillColor(row, r.laneColumn(n.Lane), c, glyph)
	}
}

func (r *DefaultRenderer) drawStats(v session.View) {
	col := 2
	r.FillColor(2, col, r.Theme.Text(), fmt.Sprintf("Score: %d", v.Score))
	r.FillColor(3, col, r.Theme.Text(), fmt.Sprintf("Combo: %d", v.Combo))
	r.FillColor(4, col, r.Theme.Muted(), fmt.Sprintf(" Best: %d", v.HighScore))
	r.FillColor(5, col, r.Theme.Muted(), fmt.Sprintf(" Time: %s", v.Remaining.Round(time.Second)))
	if v.Last.Accuracy != game.None {
		r.FillColor(7, col, r.Theme.Tint(v.Last.Accuracy.Tint()), strings.ToUpper(v.Last.Accuracy.String()))
	}
}

func (r *DefaultRenderer) Fill(row, column int, message string) {
	r.buffer.WriteString("\033[")
	r.buffer.WriteString(strconv.Itoa(row))
	r.buffer.WriteString(";")
	r.buffer.WriteString(strconv.Itoa(column))
	r.buffer.WriteString("H")
	r.buffer.WriteString(message)
}

func (r *DefaultRenderer) FillColor(row, column int, c color.RGBA, message string) {
	r.buffer.WriteString("\033[")
	r.buffer.WriteString(strconv.Itoa(row))
	r.buffer.WriteString(";")
	r.buffer.WriteString(strconv.Itoa(column))
	r.buffer.WriteString("H\033[38;2;")
	r.buffer.WriteString(strconv.FormatInt(int64(c.R), 10))
	r.buffer.WriteString(";")
	r.buffer.WriteString(strconv.FormatInt(int64(c.G), 10))
	r.buffer.WriteString(";")
	r.buffer.WriteString(strconv.FormatInt(int64(c.B), 10))
	r.buffer.WriteString("m")
	r.buffer.WriteString(message)
	r.buffer.WriteString("\033[0m")
}

func (r *DefaultRenderer) flush() {
	io.WriteString(r.out, r.buffer.String())
	r.buffer.Reset()
}

package session

import (
	"io"
	"math/rand"
	"path/filepath"
	"testing"
	"time"

	"git.lost.host/meutraa/chorus/internal/catalog"
	"git.lost.host/meutraa/chorus/internal/game"
	"git.lost.host/meutraa/chorus/internal/score"
	"github.com/charmbracelet/log"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const frame = time.Second / 60

type fakeTransport struct {
	calls   []string
	playErr error
}

func (f *fakeTransport) Play(t catalog.Track) error {
	f.calls = append(f.calls, "play:"+t.ID)
	return f.playErr
}
func (f *fakeTransport) Pause()  { f.calls = append(f.calls, "pause") }
func (f *fakeTransport) Resume() { f.calls = append(f.calls, "resume") }
func (f *fakeTransport) Stop()   { f.calls = append(f.calls, "stop") }

func (f *fakeTransport) last() string {
	if len(f.calls) == 0 {
		return ""
	}
	return f.calls[len(f.calls)-1]
}

type fakeRecorder struct {
	plays []score.Play
}

func (r *fakeRecorder) Record(p score.Play) error {
	r.plays = append(r.plays, p)
	return nil
}

var tracks = []catalog.Track{
	{ID: "t1", Title: "One", Path: "one.mp3"},
	{ID: "t2", Title: "Two", Path: "two.mp3"},
}

type harness struct {
	t         *testing.T
	s         *Session
	now       time.Time
	transport *fakeTransport
	path      string
}

func newHarness(t *testing.T, cfg Config, stored map[string]int) *harness {
	path := filepath.Join(t.TempDir(), "scores.json")
	if nil != stored {
		require.NoError(t, score.NewFileStore(path).Save(stored))
	}
	return newHarnessAt(t, cfg, path)
}

func newHarnessAt(t *testing.T, cfg Config, path string) *harness {
	logger := log.New(io.Discard)
	if cfg.Geometry == (game.Geometry{}) {
		cfg.Geometry = game.DefaultGeometry
	}
	board := score.NewBoard(score.NewFileStore(path), logger, catalog.IDs(tracks)...)
	tr := &fakeTransport{}
	return &harness{
		t:         t,
		s:         New(cfg, tracks, board, tr, logger),
		now:       time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC),
		transport: tr,
		path:      path,
	}
}

// step runs a single frame with the given events.
func (h *harness) step(events ...Event) {
	h.t.Helper()
	h.now = h.now.Add(frame)
	require.NoError(h.t, h.s.Update(h.now, events))
}

func (h *harness) steps(n int) {
	h.t.Helper()
	for i := 0; i < n; i++ {
		h.step()
	}
}

func (h *harness) play() {
	h.t.Helper()
	h.step(Event{Kind: Confirm})
	require.Equal(h.t, Playing, h.s.Mode())
}

// good drops a note in lane and strikes it on the strike line.
func (h *harness) good(lane int) {
	h.t.Helper()
	n := h.s.Field().Add(lane)
	for n.Position() < h.s.Field().Geometry.Strike-20 {
		h.step()
	}
	h.step(Press(lane))
	require.Equal(h.t, game.Good, n.Accuracy())
}

// miss drops a note in lane and lets it fall past the window.
func (h *harness) miss(lane int) {
	h.t.Helper()
	n := h.s.Field().Add(lane)
	for n.Status() == game.Falling {
		h.step()
	}
	require.Equal(h.t, game.Miss, n.Accuracy())
}

func TestStartsInMenu(t *testing.T) {
	h := newHarness(t, Config{}, nil)
	assert.Equal(t, Menu, h.s.Mode())
	assert.Equal(t, OptionPlay, h.s.Option())
	assert.Equal(t, "t1", h.s.Track().ID)
	assert.False(t, h.s.Done())
}

func TestScenarioSingleGood(t *testing.T) {
	h := newHarness(t, Config{}, nil)
	h.play()
	h.good(0)
	assert.Equal(t, score.Ledger{Score: 4, Streak: 1}, h.s.Ledger())
}

func TestScenarioThreeGoods(t *testing.T) {
	h := newHarness(t, Config{}, nil)
	h.play()
	h.good(0)
	h.good(1)
	h.good(0)
	assert.Equal(t, score.Ledger{Score: 24, Streak: 3}, h.s.Ledger())
	assert.Equal(t, 3, h.s.View().Combo)
}

func TestScenarioSingleMiss(t *testing.T) {
	h := newHarness(t, Config{}, nil)
	h.play()
	h.miss(2)
	assert.Equal(t, score.Ledger{Score: -3, Streak: -1}, h.s.Ledger())
}

func TestScenarioMissesFloor(t *testing.T) {
	h := newHarness(t, Config{}, nil)
	h.play()
	for i := 0; i < 5; i++ {
		h.miss(i % game.NLanes)
	}
	assert.Equal(t, -5, h.s.Ledger().Streak)
	h.miss(0)
	assert.Equal(t, -5, h.s.Ledger().Streak)
}

func TestEarlyPress(t *testing.T) {
	h := newHarness(t, Config{}, nil)
	h.play()
	h.s.Field().Add(3)
	h.steps(10)
	h.step(Press(3))
	assert.Equal(t, score.Ledger{Score: -2, Streak: -1}, h.s.Ledger())
	assert.Equal(t, game.Early, h.s.View().Last.Accuracy)
}

func TestPressOnEmptyLaneIgnored(t *testing.T) {
	h := newHarness(t, Config{}, nil)
	h.play()
	h.step(Press(1), Press(2))
	assert.Equal(t, score.Ledger{}, h.s.Ledger())
}

func TestScenarioHighScoreOnReturnToMenu(t *testing.T) {
	h := newHarness(t, Config{}, map[string]int{"t1": 80})
	h.play()
	// 4 + 8 + 12 + 16 + 20 + 20 + 20 + 20
	for i := 0; i < 8; i++ {
		h.good(i % game.NLanes)
	}
	require.Equal(t, 120, h.s.Ledger().Score)

	h.step(Event{Kind: Pause})
	require.Equal(t, Paused, h.s.Mode())
	h.step(Event{Kind: ToMenu})
	assert.Equal(t, Menu, h.s.Mode())
	assert.Equal(t, "stop", h.transport.last())
	assert.Equal(t, 120, h.s.View().HighScore)

	stored, err := score.NewFileStore(h.path).Load()
	require.NoError(t, err)
	assert.Equal(t, 120, stored["t1"])
	assert.Equal(t, 0, stored["t2"])
}

func TestLowerScoreKeepsHighScore(t *testing.T) {
	h := newHarness(t, Config{}, map[string]int{"t1": 80})
	h.play()
	h.good(0)
	h.step(Event{Kind: Pause})
	h.step(Event{Kind: ToMenu})

	stored, err := score.NewFileStore(h.path).Load()
	require.NoError(t, err)
	assert.Equal(t, 80, stored["t1"])
}

func TestScenarioPauseFreezesNotes(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	h := newHarness(t, Config{Spawner: game.NewSpawner(1, rng)}, nil)
	h.play()
	h.steps(20)

	h.step(Event{Kind: Pause})
	require.Equal(t, Paused, h.s.Mode())
	frozen := h.s.View().Notes
	require.NotEmpty(t, frozen)

	h.steps(300)
	h.step(Press(0), Press(1), Press(2), Press(3))
	assert.Equal(t, frozen, h.s.View().Notes, "nothing moves, spawns or is judged while paused")

	h.step(Event{Kind: Pause})
	require.Equal(t, Playing, h.s.Mode())
	before, after := byLane(frozen), byLane(h.s.View().Notes)
	for lane := range before {
		for k, n := range before[lane] {
			if n.Status != game.Falling {
				continue
			}
			assert.Equal(t, n.Position+game.DefaultGeometry.Speed, after[lane][k].Position)
		}
	}
	assert.Equal(t, []string{"play:t1", "pause", "resume"}, h.transport.calls)
}

func byLane(notes []NoteView) [game.NLanes][]NoteView {
	var out [game.NLanes][]NoteView
	for _, n := range notes {
		out[n.Lane] = append(out[n.Lane], n)
	}
	return out
}

func TestGameOverAtTimeLimit(t *testing.T) {
	limit := 5 * time.Second
	h := newHarness(t, Config{TimeLimit: limit}, map[string]int{"t1": 1})
	h.play()
	h.good(0)
	require.Equal(t, Playing, h.s.Mode())

	for h.s.Mode() == Playing {
		h.step()
	}
	assert.Equal(t, GameOver, h.s.Mode())
	assert.GreaterOrEqual(t, h.s.Elapsed(), limit)
	assert.Less(t, h.s.Elapsed(), limit+frame)
	assert.Equal(t, "stop", h.transport.last())

	stored, err := score.NewFileStore(h.path).Load()
	require.NoError(t, err)
	assert.Equal(t, 4, stored["t1"])

	h.step(Press(0), Event{Kind: Pause})
	assert.Equal(t, GameOver, h.s.Mode())
	h.step(Event{Kind: Confirm})
	assert.Equal(t, Menu, h.s.Mode())
}

func TestPausedTimeDoesNotCount(t *testing.T) {
	h := newHarness(t, Config{TimeLimit: time.Second}, nil)
	h.play()
	h.steps(30)
	h.step(Event{Kind: Pause})
	h.steps(600)
	h.step(Event{Kind: Pause})
	h.steps(20)
	assert.Equal(t, Playing, h.s.Mode())
	assert.Less(t, h.s.Elapsed(), time.Second)
}

func TestMenuNavigation(t *testing.T) {
	h := newHarness(t, Config{}, nil)

	h.step(Event{Kind: Down})
	assert.Equal(t, OptionQuit, h.s.Option())
	h.step(Event{Kind: Down})
	assert.Equal(t, OptionPlay, h.s.Option())
	h.step(Event{Kind: Up})
	assert.Equal(t, OptionQuit, h.s.Option())

	h.step(Event{Kind: Right})
	assert.Equal(t, "t2", h.s.Track().ID)
	h.step(Event{Kind: Right})
	assert.Equal(t, "t1", h.s.Track().ID)
	h.step(Event{Kind: Left})
	assert.Equal(t, "t2", h.s.Track().ID)
	assert.Equal(t, Menu, h.s.Mode())
}

func TestTrackFixedWhilePlaying(t *testing.T) {
	h := newHarness(t, Config{}, nil)
	h.step(Event{Kind: Right})
	h.play()
	assert.Equal(t, "play:t2", h.transport.last())
	h.step(Event{Kind: Right}, Event{Kind: Left}, Event{Kind: Left})
	assert.Equal(t, "t2", h.s.Track().ID)
}

func TestMenuQuit(t *testing.T) {
	h := newHarness(t, Config{}, nil)
	h.step(Event{Kind: Down}, Event{Kind: Confirm})
	assert.True(t, h.s.Done())
	assert.Equal(t, "stop", h.transport.last())
}

func TestQuitWhilePlayingKeepsHighScore(t *testing.T) {
	h := newHarness(t, Config{}, nil)
	h.play()
	h.good(1)
	h.step(Event{Kind: Quit})
	assert.True(t, h.s.Done())

	stored, err := score.NewFileStore(h.path).Load()
	require.NoError(t, err)
	assert.Equal(t, 4, stored["t1"])
}

func TestStartResetsSession(t *testing.T) {
	h := newHarness(t, Config{}, nil)
	h.play()
	h.good(0)
	h.s.Field().Add(2)
	h.step(Event{Kind: Pause})
	h.step(Event{Kind: ToMenu})

	h.play()
	assert.Equal(t, score.Ledger{}, h.s.Ledger())
	assert.Empty(t, h.s.View().Notes)
}

func TestPauseOnlyFromPlaying(t *testing.T) {
	h := newHarness(t, Config{}, nil)
	h.step(Event{Kind: Pause}, Event{Kind: ToMenu})
	assert.Equal(t, Menu, h.s.Mode())

	h.play()
	h.step(Event{Kind: ToMenu})
	assert.Equal(t, Playing, h.s.Mode(), "menu is only reachable from pause")
}

func TestAdvanceOutsidePlayingPanics(t *testing.T) {
	h := newHarness(t, Config{}, nil)
	assert.Panics(t, func() { h.s.advance() })
}

func TestPlaybackFailureKeepsPlaying(t *testing.T) {
	h := newHarness(t, Config{}, nil)
	h.transport.playErr = errors.New("no audio device")
	err := h.s.Update(h.now.Add(frame), []Event{{Kind: Confirm}})
	assert.Error(t, err)
	assert.Equal(t, Playing, h.s.Mode())
}

func TestSaveFailureIsReported(t *testing.T) {
	h := newHarnessAt(t, Config{}, filepath.Join(t.TempDir(), "missing", "scores.json"))
	h.play()
	h.good(0)
	h.step(Event{Kind: Pause})

	err := h.s.Update(h.now.Add(frame), []Event{{Kind: ToMenu}})
	assert.Error(t, err)
	assert.Equal(t, Menu, h.s.Mode())
	assert.Equal(t, score.Ledger{Score: 4, Streak: 1}, h.s.Ledger())
	assert.Equal(t, 4, h.s.View().HighScore)
}

func TestRecordsPlays(t *testing.T) {
	h := newHarness(t, Config{}, nil)
	r := &fakeRecorder{}
	h.s.SetRecorder(r)
	h.play()
	h.miss(0)
	h.step(Event{Kind: Pause})
	h.step(Event{Kind: ToMenu})

	require.Len(t, r.plays, 1)
	p := r.plays[0]
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "t1", p.Track)
	assert.Equal(t, -3, p.Score)
	assert.Equal(t, -1, p.Combo)
	assert.True(t, h.now.Equal(p.EndedAt))
}

func TestViewNextUnjudged(t *testing.T) {
	h := newHarness(t, Config{}, nil)
	h.play()
	first := h.s.Field().Add(1)
	h.steps(5)
	h.s.Field().Add(1)
	h.step()

	v := h.s.View()
	require.Len(t, v.Notes, 2)
	require.NotNil(t, v.Next[1])
	assert.Equal(t, first.Position(), v.Next[1].Position)
	assert.Nil(t, v.Next[0])

	h.step(Press(1))
	v = h.s.View()
	require.NotNil(t, v.Next[1])
	assert.NotEqual(t, first.Position(), v.Next[1].Position)
	for _, nv := range v.Next {
		if nil != nv {
			assert.Equal(t, game.Falling, nv.Status)
		}
	}
}

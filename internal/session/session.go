// Package session drives a play session from the menu through to game over.
//
// All state is mutated from Update, which is expected to be called once per
// frame from a single goroutine.
package session

import (
	"fmt"
	"time"

	"git.lost.host/meutraa/chorus/internal/catalog"
	"git.lost.host/meutraa/chorus/internal/game"
	"git.lost.host/meutraa/chorus/internal/score"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

type Mode uint8

const (
	Menu Mode = iota
	Playing
	Paused
	GameOver
)

func (m Mode) String() string {
	switch m {
	case Menu:
		return "menu"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	case GameOver:
		return "game over"
	}
	return fmt.Sprintf("mode(%d)", uint8(m))
}

// Option is a menu entry.
type Option uint8

const (
	OptionPlay Option = iota
	OptionQuit
	nOptions
)

// Transport controls the backing track.
type Transport interface {
	Play(t catalog.Track) error
	Pause()
	Resume()
	Stop()
}

// DefaultTimeLimit is how long a session plays before game over.
const DefaultTimeLimit = 2 * time.Minute

type Config struct {
	TimeLimit time.Duration
	Geometry  game.Geometry
	Spawner   *game.Spawner // nil disables spawning
}

type Session struct {
	mode   Mode
	option Option
	track  int
	done   bool

	tracks    []catalog.Track
	field     *game.Field
	ledger    score.Ledger
	last      game.Judgment
	board     *score.Board
	recorder  score.Recorder
	transport Transport
	logger    *log.Logger
	limit     time.Duration

	id         string
	musicStart time.Time
	pausedAt   time.Time
	pausedFor  time.Duration
	elapsed    time.Duration
}

// New creates a session sitting in the menu. tracks must not be empty.
func New(cfg Config, tracks []catalog.Track, board *score.Board, transport Transport, logger *log.Logger) *Session {
	if len(tracks) == 0 {
		panic("session: no tracks")
	}
	if cfg.TimeLimit <= 0 {
		cfg.TimeLimit = DefaultTimeLimit
	}
	return &Session{
		mode:      Menu,
		tracks:    tracks,
		field:     game.NewField(cfg.Geometry, cfg.Spawner),
		board:     board,
		transport: transport,
		logger:    logger,
		limit:     cfg.TimeLimit,
	}
}

// SetRecorder makes every finished session get written to r.
func (s *Session) SetRecorder(r score.Recorder) {
	s.recorder = r
}

func (s *Session) Mode() Mode { return s.mode }
func (s *Session) Option() Option { return s.option }
func (s *Session) Track() catalog.Track { return s.tracks[s.track] }
func (s *Session) Ledger() score.Ledger { return s.ledger }
func (s *Session) Field() *game.Field { return s.field }
func (s *Session) Elapsed() time.Duration { return s.elapsed }

// Done reports whether the player chose to quit.
func (s *Session) Done() bool { return s.done }

// Update runs one frame: the events in order, then, while playing, the
// notes and the time limit. Errors are persistence or playback failures;
// the session carries on regardless.
func (s *Session) Update(now time.Time, events []Event) error {
	var err error
	for _, ev := range events {
		if s.done {
			break
		}
		err = multierr.Append(err, s.dispatch(now, ev))
	}
	if s.mode == Playing {
		s.advance()
		s.elapsed = now.Sub(s.musicStart) - s.pausedFor
		if s.elapsed >= s.limit {
			err = multierr.Append(err, s.end(now, GameOver))
		}
	}
	return err
}

func (s *Session) dispatch(now time.Time, ev Event) error {
	if ev.Kind == Quit {
		var err error
		if s.mode == Playing || s.mode == Paused {
			err = s.end(now, Menu)
		}
		s.quit()
		return err
	}

	switch s.mode {
	case Menu:
		switch ev.Kind {
		case Up:
			s.option = (s.option + nOptions - 1) % nOptions
		case Down:
			s.option = (s.option + 1) % nOptions
		case Left:
			s.track = (s.track + len(s.tracks) - 1) % len(s.tracks)
		case Right:
			s.track = (s.track + 1) % len(s.tracks)
		case Confirm:
			if s.option == OptionQuit {
				s.quit()
				return nil
			}
			return s.start(now)
		}
	case Playing:
		switch ev.Kind {
		case Pause:
			s.mode = Paused
			s.pausedAt = now
			s.transport.Pause()
			s.logger.Debug("paused", "session", s.id)
		case Lane:
			if j, ok := s.field.Hit(ev.Lane); ok {
				s.judge(j)
			}
		}
	case Paused:
		switch ev.Kind {
		case Pause:
			s.mode = Playing
			s.pausedFor += now.Sub(s.pausedAt)
			s.transport.Resume()
			s.logger.Debug("resumed", "session", s.id)
		case ToMenu:
			return s.end(now, Menu)
		}
	case GameOver:
		if ev.Kind == Confirm {
			s.mode = Menu
		}
	}
	return nil
}

func (s *Session) start(now time.Time) error {
	s.ledger = score.Ledger{}
	s.last = game.Judgment{}
	s.field.Clear()
	s.id = uuid.NewString()
	s.musicStart = now
	s.pausedFor = 0
	s.elapsed = 0
	s.mode = Playing

	t := s.Track()
	s.logger.Info("session started", "session", s.id, "track", t.ID)
	if err := s.transport.Play(t); nil != err {
		return errors.Wrapf(err, "unable to play %s", t.Path)
	}
	return nil
}

// end leaves a running session for next, keeping the score if it is a best.
func (s *Session) end(now time.Time, next Mode) error {
	t := s.Track()
	if next == GameOver {
		s.transport.Stop()
	}
	_, err := s.board.Submit(t.ID, s.ledger.Score)
	if next == Menu {
		s.transport.Stop()
	}
	if nil != s.recorder {
		p := score.Play{ID: s.id, Track: t.ID, Score: s.ledger.Score, Combo: s.ledger.Combo(), EndedAt: now}
		err = multierr.Append(err, s.recorder.Record(p))
	}
	s.logger.Info("session ended", "session", s.id, "track", t.ID, "score", s.ledger.Score, "next", next)
	s.mode = next
	return err
}

func (s *Session) quit() {
	s.done = true
	s.transport.Stop()
	s.logger.Info("quit")
}

// advance runs the field for one frame. The field only moves while playing.
func (s *Session) advance() {
	if s.mode != Playing {
		panic(fmt.Sprintf("session: advancing notes while %v", s.mode))
	}
	for _, j := range s.field.Tick() {
		s.judge(j)
	}
}

func (s *Session) judge(j game.Judgment) {
	s.ledger = s.ledger.Apply(j.Accuracy)
	s.last = j
	s.logger.Debug("judged", "lane", j.Lane, "position", j.Position, "accuracy", j.Accuracy, "score", s.ledger.Score, "combo", s.ledger.Combo())
}

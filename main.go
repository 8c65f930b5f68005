package main

import (
	"math/rand"
	"os"
	"time"

	"git.lost.host/meutraa/chorus/internal/audio"
	"git.lost.host/meutraa/chorus/internal/catalog"
	"git.lost.host/meutraa/chorus/internal/config"
	"git.lost.host/meutraa/chorus/internal/game"
	"git.lost.host/meutraa/chorus/internal/input"
	"git.lost.host/meutraa/chorus/internal/render"
	"git.lost.host/meutraa/chorus/internal/score"
	"git.lost.host/meutraa/chorus/internal/session"
	"git.lost.host/meutraa/chorus/internal/theme"
	"github.com/charmbracelet/log"
	"github.com/eiannone/keyboard"
	"github.com/pkg/errors"
)

func main() {
	if err := run(os.Args[1:]); nil != err {
		log.Fatal(err)
	}
}

func openStore(c *config.Config) (score.Store, score.Recorder, error) {
	switch c.StoreFormat {
	case "json":
		return score.NewFileStore(c.Store), nil, nil
	default:
		db, err := score.OpenDefault(c.Store)
		if nil != err {
			return nil, nil, err
		}
		return db, db, nil
	}
}

func run(args []string) error {
	c, err := config.Load(args)
	if nil != err {
		return err
	}

	// The terminal belongs to the renderer, so logs go to a file
	logFile, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if nil != err {
		return errors.Wrap(err, "unable to open log file")
	}
	defer logFile.Close()
	logger := log.NewWithOptions(logFile, log.Options{
		Level:           c.LogLevel,
		ReportTimestamp: true,
		Prefix:          "chorus",
	})

	tracks, err := catalog.Load(c.Directory)
	if nil != err {
		return err
	}
	logger.Info("catalog loaded", "directory", c.Directory, "tracks", len(tracks))

	store, recorder, err := openStore(c)
	if nil != err {
		return errors.Wrap(err, "unable to open high scores")
	}
	defer func() {
		if err := store.Close(); nil != err {
			logger.Error("unable to close high scores", "err", err)
		}
	}()
	board := score.NewBoard(store, logger, catalog.IDs(tracks)...)

	// Ensure our Default implementations are used as interfaces
	var transport session.Transport = audio.NewTransport(c.Volume, logger)
	if c.Mute {
		transport = audio.Silent{}
	}
	var th theme.Theme = &theme.DefaultTheme{}

	s := session.New(session.Config{
		TimeLimit: c.TimeLimit,
		Geometry:  c.Geometry(),
		Spawner:   game.NewSpawner(c.SpawnChance, rand.New(rand.NewSource(c.Seed))),
	}, tracks, board, transport, logger)
	if nil != recorder {
		s.SetRecorder(recorder)
	}

	keys, err := keyboard.GetKeys(128)
	if nil != err {
		return errors.Wrap(err, "unable to open keyboard")
	}
	defer func() {
		if err := keyboard.Close(); nil != err {
			logger.Error("unable to close keyboard", "err", err)
		}
	}()
	keymap := input.NewKeymap(c.Keys)

	var r render.Renderer = render.NewTerminal(os.Stdout, th, c.Keys)
	if err := r.Init(); nil != err {
		return errors.Wrap(err, "unable to prepare terminal")
	}
	defer func() {
		// Restore the terminal state
		if err := r.Deinit(); nil != err {
			logger.Error("unable to restore terminal", "err", err)
		}
	}()

	r.RenderLoop(c.FramePeriod(), func(now time.Time) bool {
		if err := s.Update(now, keymap.Drain(keys)); nil != err {
			logger.Error("frame", "mode", s.Mode(), "err", err)
		}
		if s.Done() {
			return false
		}
		r.Draw(s.View())
		return true
	})
	logger.Info("bye", "scores", board.Scores())
	return nil
}

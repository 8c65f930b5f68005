package score

import (
	"github.com/charmbracelet/log"
	"github.com/pkg/errors"
)

// Board is the in-memory high score table backed by a Store.
// It is loaded once and only ever raised.
type Board struct {
	store  Store
	logger *log.Logger
	scores map[string]int
}

// NewBoard loads the stored scores. An unreadable store is treated as empty,
// and every track in tracks starts at 0 unless a score was stored for it.
func NewBoard(store Store, logger *log.Logger, tracks ...string) *Board {
	b := &Board{store: store, logger: logger, scores: map[string]int{}}
	stored, err := store.Load()
	if nil != err {
		logger.Warn("unable to load high scores, starting empty", "err", err)
	}
	for _, t := range tracks {
		b.scores[t] = 0
	}
	for t, s := range stored {
		if s > b.scores[t] {
			b.scores[t] = s
		}
	}
	return b
}

// Get returns the best score for a track, 0 if it has none.
func (b *Board) Get(track string) int {
	return b.scores[track]
}

// Scores returns a copy of the whole table.
func (b *Board) Scores() map[string]int {
	m := make(map[string]int, len(b.scores))
	for t, s := range b.scores {
		m[t] = s
	}
	return m
}

// Submit raises the best score of track when score beats it, and then writes
// the whole table out. The in-memory table keeps the new score even if the
// write fails; the error is returned for the caller to report.
func (b *Board) Submit(track string, score int) (bool, error) {
	if score <= b.scores[track] {
		return false, nil
	}
	b.scores[track] = score
	if err := b.store.Save(b.Scores()); nil != err {
		return true, errors.Wrapf(err, "unable to save high score for %q", track)
	}
	b.logger.Info("new high score", "track", track, "score", score)
	return true, nil
}

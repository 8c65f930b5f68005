package score

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

// DefaultStore keeps high scores and the play history in sqlite.
type DefaultStore struct {
	db *sql.DB
}

const schema = `
create table if not exists highscores
  (
	  track text not null primary key,
	  score integer not null
  );
create table if not exists plays
  (
	  id text not null primary key,
	  track text not null,
	  score integer not null,
	  combo integer not null,
	  ended_at integer not null
  );
`

// OpenDefault opens, and creates if needed, the database at path.
func OpenDefault(path string) (*DefaultStore, error) {
	db, err := sql.Open("sqlite3", path)
	if nil != err {
		return nil, errors.Wrap(err, "unable to open score database")
	}
	if err := db.Ping(); nil != err {
		db.Close()
		return nil, errors.Wrap(err, "unable to connect to score database")
	}
	// sqlite has a single writer
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); nil != err {
		db.Close()
		return nil, errors.Wrap(err, "unable to create score tables")
	}
	return &DefaultStore{db: db}, nil
}

func (s *DefaultStore) Close() error {
	if nil == s.db {
		return nil
	}
	return s.db.Close()
}

func (s *DefaultStore) Load() (map[string]int, error) {
	scores := map[string]int{}
	rows, err := s.db.Query("select track, score from highscores")
	if nil != err {
		return scores, errors.Wrap(err, "unable to load high scores")
	}
	defer rows.Close()
	for rows.Next() {
		var track string
		var score int
		if err := rows.Scan(&track, &score); nil != err {
			return map[string]int{}, errors.Wrap(err, "unable to read high score")
		}
		scores[track] = score
	}
	if err := rows.Err(); nil != err {
		return map[string]int{}, errors.Wrap(err, "unable to read high scores")
	}
	return scores, nil
}

// Save replaces the whole table in one transaction.
func (s *DefaultStore) Save(scores map[string]int) error {
	tx, err := s.db.Begin()
	if nil != err {
		return errors.Wrap(err, "unable to begin high score write")
	}
	if _, err := tx.Exec("delete from highscores"); nil != err {
		tx.Rollback()
		return errors.Wrap(err, "unable to clear high scores")
	}
	for track, score := range scores {
		if _, err := tx.Exec("insert into highscores(track, score) values(?, ?)", track, score); nil != err {
			tx.Rollback()
			return errors.Wrapf(err, "unable to write high score for %q", track)
		}
	}
	return errors.Wrap(tx.Commit(), "unable to commit high scores")
}

func (s *DefaultStore) Record(p Play) error {
	_, err := s.db.Exec(
		"insert into plays(id, track, score, combo, ended_at) values(?, ?, ?, ?, ?)",
		p.ID, p.Track, p.Score, p.Combo, p.EndedAt.UnixNano(),
	)
	return errors.Wrap(err, "unable to record play")
}

// Plays returns the recorded sessions of a track, most recent first.
func (s *DefaultStore) Plays(track string) ([]Play, error) {
	rows, err := s.db.Query(
		"select id, track, score, combo, ended_at from plays where track = ? order by ended_at desc",
		track,
	)
	if nil != err {
		return nil, errors.Wrap(err, "unable to load plays")
	}
	defer rows.Close()
	plays := []Play{}
	for rows.Next() {
		var p Play
		var ended int64
		if err := rows.Scan(&p.ID, &p.Track, &p.Score, &p.Combo, &ended); nil != err {
			return nil, errors.Wrap(err, "unable to read play")
		}
		p.EndedAt = time.Unix(0, ended)
		plays = append(plays, p)
	}
	return plays, errors.Wrap(rows.Err(), "unable to read plays")
}

package score

import "time"

// Store persists the best score of every track.
// Save always receives the whole mapping and replaces what was stored.
type Store interface {
	Load() (map[string]int, error)
	Save(scores map[string]int) error
	Close() error
}

// Recorder keeps a history of finished sessions.
type Recorder interface {
	Record(p Play) error
}

// Play is one finished session.
type Play struct {
	ID      string
	Track   string
	Score   int
	Combo   int
	EndedAt time.Time
}

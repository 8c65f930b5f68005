package score

import "git.lost.host/meutraa/chorus/internal/game"

// MaxStreak bounds the combo streak in both directions.
const MaxStreak = 5

// Ledger accumulates the score of a single session.
//
// Streak counts consecutive successes upwards and consecutive failures
// downwards. Its magnitude multiplies every delta, so runs of misses cost
// more and more just as runs of hits earn more and more.
type Ledger struct {
	Score  int
	Streak int
}

// Combo is the multiplier shown to the player. It keeps the streak's sign.
func (l Ledger) Combo() int {
	return l.Streak
}

// Apply returns the ledger after one judgment.
func (l Ledger) Apply(a game.Accuracy) Ledger {
	delta := a.Delta()
	if delta > 0 {
		l.Streak = min(l.Streak+1, MaxStreak)
	} else {
		l.Streak = max(l.Streak-1, -MaxStreak)
	}
	l.Score += delta * abs(l.Streak)
	return l
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

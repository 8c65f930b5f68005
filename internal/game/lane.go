package game

// NLanes is the number of lanes on the play-field.
const NLanes = 4

// Lane owns the notes falling down one channel, in spawn order.
// Constant fall speed keeps spawn order and position order the same.
type Lane struct {
	index int
	queue []*Note
}

func (l *Lane) Index() int { return l.index }

// Notes returns the live notes of the lane, earliest spawned first.
func (l *Lane) Notes() []*Note {
	ns := make([]*Note, len(l.queue))
	copy(ns, l.queue)
	return ns
}

// NextUnjudged returns the earliest queued note that is still falling,
// or nil. It is the only note a press in this lane can judge.
func (l *Lane) NextUnjudged() *Note {
	for _, n := range l.queue {
		if n.status == Falling {
			return n
		}
	}
	return nil
}

func (l *Lane) push(n *Note) {
	l.queue = append(l.queue, n)
}

// tick advances every note by a frame and drops retired ones in place.
func (l *Lane) tick(speed int) {
	kept := l.queue[:0]
	for _, n := range l.queue {
		if !n.tick(speed) {
			kept = append(kept, n)
		}
	}
	for i := len(kept); i < len(l.queue); i++ {
		l.queue[i] = nil
	}
	l.queue = kept
}

// timeouts judges every falling note that has passed the window as a miss.
func (l *Lane) timeouts(g Geometry, out []Judgment) []Judgment {
	for _, n := range l.queue {
		if n.status == Falling && g.TimedOut(n.position) {
			n.judge(Miss)
			out = append(out, Judgment{Lane: l.index, Position: n.position, Accuracy: Miss})
		}
	}
	return out
}

func (l *Lane) clear() {
	for i := range l.queue {
		l.queue[i] = nil
	}
	l.queue = l.queue[:0]
}

package scheduler

import (
	"fmt"
	"time"

	"git.lost.host/meutraa/receptor/internal/game"
)

type State uint8

const (
	Spawned State = iota
	Approaching
	InWindow
	Hit
	Missed
	HoldActive
	HoldSuccess
	HoldFail
	Culled
)

var stateNames = [...]string{"spawned", "approaching", "in-window", "hit", "missed", "holding", "hold-success", "hold-fail", "culled"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

// Pending notes have not been judged at all.
func (s State) Pending() bool {
	return s <= InWindow
}

// Resolved notes have a final outcome.
func (s State) Resolved() bool {
	switch s {
	case Hit, Missed, HoldSuccess, HoldFail, Culled:
		return true
	}
	return false
}

type Kind uint8

const (
	Root Kind = iota
	Middle
	End
)

type SegmentState uint8

const (
	Waiting SegmentState = iota
	Consumed
	Dropped
)

// HoldSegment is one step of a long note. Root and End only differ in how
// they are drawn.
type HoldSegment struct {
	Index    int
	Kind     Kind
	Time     time.Duration
	Fraction float64
	State    SegmentState
}

// LiveNote is the runtime state of the note at arena index Note.
type LiveNote struct {
	Note     int
	Fraction float64
	State    State
	Rank     game.Rank
	Delta    time.Duration // note time minus press time
	HeldFrom time.Duration
	Segments []HoldSegment
}

// Regenerate rebuilds the hold segments in place: one per step boundary from
// the onset to the end of the hold.
func (l *LiveNote) Regenerate(n *game.Note, step time.Duration) {
	l.Segments = l.Segments[:0]
	if step <= 0 {
		return
	}
	count := int(n.Hold / step)
	if count <= 0 {
		return
	}
	for k := 0; k <= count; k++ {
		kind := Middle
		if k == 0 {
			kind = Root
		} else if k == count {
			kind = End
		}
		l.Segments = append(l.Segments, HoldSegment{
			Index: k,
			Kind:  kind,
			Time:  n.Time + time.Duration(k)*step,
		})
	}
}

// Drop truncates every segment that has not passed the hit bar yet.
func (l *LiveNote) Drop() {
	for i := range l.Segments {
		if l.Segments[i].State == Waiting {
			l.Segments[i].State = Dropped
		}
	}
}

// Tail is the time of the last piece of the note still on screen.
func (l *LiveNote) Tail(n *game.Note) time.Duration {
	tail := n.Time
	for i := range l.Segments {
		if l.Segments[i].State != Dropped && l.Segments[i].Time > tail {
			tail = l.Segments[i].Time
		}
	}
	return tail
}

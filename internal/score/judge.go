package score

import (
	"time"

	"git.lost.host/meutraa/receptor/internal/game"
	"git.lost.host/meutraa/receptor/internal/scheduler"
)

// HoldLeniency is how early a hold may be released and still succeed.
const HoldLeniency = 100 * time.Millisecond

type Kind uint8

const (
	Tap Kind = iota
	HoldStart
	HoldSuccess
	HoldFail
	Passive
)

var kindNames = [...]string{"tap", "hold", "hold-success", "hold-fail", "passive"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Outcome is one thing the judge decided about a note.
type Outcome struct {
	Note  int // arena index
	ID    int
	Lane  int
	Rank  game.Rank
	Delta time.Duration
	Kind  Kind
}

// Final outcomes change the accuracy aggregate, HoldStart does not.
func (o Outcome) Final() bool {
	return o.Kind != HoldStart
}

// Distance is how far before the note an input at the given time was.
// Negative is late.
func Distance(n *game.Note, at time.Duration) time.Duration {
	return n.Time - at
}

// InWindow reports whether a press delta can be judged at all.
func InWindow(delta time.Duration) bool {
	return delta <= game.EarlyWindow && delta >= -game.LateWindow
}

// Judge matches input against the scheduler's hittable set.
type Judge struct {
	sched    *scheduler.Scheduler
	windows  game.Windows
	holds    []int // Held note per lane, -1 when the lane is free
	accuracy Accuracy
	stats    Stats
}

func NewJudge(sched *scheduler.Scheduler, windows game.Windows, lanes int) *Judge {
	j := &Judge{
		sched:    sched,
		windows:  windows,
		holds:    make([]int, lanes),
		accuracy: Accuracy{Total: sched.Len()},
	}
	for i := range j.holds {
		j.holds[i] = -1
	}
	return j
}

func (j *Judge) outcome(i int, rank game.Rank, delta time.Duration, kind Kind) Outcome {
	n := j.sched.Event(i)
	return Outcome{Note: i, ID: n.ID, Lane: n.Lane, Rank: rank, Delta: delta, Kind: kind}
}

// Press judges a key-down in lane at song time at. Nothing happens when the
// lane is unmapped, already holding a note or has no note in the window.
func (j *Judge) Press(lane int, at time.Duration) (Outcome, bool) {
	if lane < 0 || lane >= len(j.holds) || j.holds[lane] >= 0 {
		return Outcome{}, false
	}

	for _, i := range j.sched.Hittable() {
		l := j.sched.Note(i)
		n := j.sched.Event(i)
		if n.Lane != lane || !l.State.Pending() {
			continue
		}
		delta := Distance(n, at)
		if !InWindow(delta) {
			continue
		}

		rank := j.windows.Classify(delta)
		l.Rank = rank
		l.Delta = delta
		j.sched.Remove(i)

		if rank == game.Miss {
			l.State = scheduler.Missed
			l.Drop()
			j.accuracy.Add(rank)
			return j.outcome(i, rank, delta, Tap), true
		}
		j.stats.Add(delta)

		if !n.IsHold() {
			l.State = scheduler.Hit
			j.accuracy.Add(rank)
			return j.outcome(i, rank, delta, Tap), true
		}

		l.State = scheduler.HoldActive
		l.HeldFrom = at
		j.holds[lane] = i
		return j.outcome(i, rank, delta, HoldStart), true
	}
	return Outcome{}, false
}

// Release ends the hold in lane, if any.
func (j *Judge) Release(lane int, at time.Duration) (Outcome, bool) {
	if lane < 0 || lane >= len(j.holds) || j.holds[lane] < 0 {
		return Outcome{}, false
	}
	i := j.holds[lane]
	j.holds[lane] = -1

	l := j.sched.Note(i)
	n := j.sched.Event(i)
	l.Drop()
	j.sched.Remove(i)

	if at-l.HeldFrom < n.Hold-HoldLeniency {
		l.State = scheduler.HoldFail
		l.Rank = game.Miss
		j.accuracy.Add(game.Miss)
		return j.outcome(i, game.Miss, l.Delta, HoldFail), true
	}
	l.State = scheduler.HoldSuccess
	j.accuracy.Add(l.Rank)
	return j.outcome(i, l.Rank, l.Delta, HoldSuccess), true
}

// Resolve scores what the scheduler decided during its last update: passive
// misses and holds kept down to their end.
func (j *Judge) Resolve(events scheduler.Events) []Outcome {
	var out []Outcome
	for _, i := range events.Missed {
		j.accuracy.Add(game.Miss)
		out = append(out, j.outcome(i, game.Miss, 0, Passive))
	}
	for _, i := range events.Completed {
		l := j.sched.Note(i)
		lane := j.sched.Event(i).Lane
		if lane >= 0 && lane < len(j.holds) && j.holds[lane] == i {
			j.holds[lane] = -1
		}
		l.State = scheduler.HoldSuccess
		l.Drop()
		j.sched.Remove(i)
		j.accuracy.Add(l.Rank)
		out = append(out, j.outcome(i, l.Rank, l.Delta, HoldSuccess))
	}
	return out
}

// Held is the note held in lane, or -1.
func (j *Judge) Held(lane int) int {
	if lane < 0 || lane >= len(j.holds) {
		return -1
	}
	return j.holds[lane]
}

func (j *Judge) Accuracy() Accuracy {
	return j.accuracy
}

func (j *Judge) Stats() Stats {
	return j.stats
}

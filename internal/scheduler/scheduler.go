package scheduler

import (
	"time"

	"git.lost.host/meutraa/receptor/internal/game"
)

// ChordTolerance groups notes this close to the next unjudged note into the
// hittable set, so every note of a chord can be pressed at once.
const ChordTolerance = 250 * time.Millisecond

// Events are what a call to Update decided on its own.
type Events struct {
	Missed    []int // Unjudged notes that scrolled past Terminal, each reported once
	Completed []int // Holds still held when their end passed the hit bar
}

// Scheduler moves every note of a chart through its states as the song
// plays. Live notes share arena indices with chart.Notes.
type Scheduler struct {
	chart     *game.Chart
	beat      time.Duration
	step      time.Duration
	lookahead float64

	notes    []LiveNote
	hittable []int
	cursor   int // First note that may still be unjudged
	elapsed  time.Duration
}

func New(chart *game.Chart, timing game.Timing, lookahead float64) *Scheduler {
	s := &Scheduler{
		chart:     chart,
		beat:      timing.Beat(),
		step:      timing.Step(),
		lookahead: lookahead,
	}
	s.Rebuild()
	return s
}

// Rebuild recreates the live notes from the chart, discarding all state, and
// positions them for the last update.
func (s *Scheduler) Rebuild() {
	n := len(s.chart.Notes)
	if cap(s.notes) < n {
		notes := make([]LiveNote, n)
		copy(notes, s.notes)
		s.notes = notes
	}
	s.notes = s.notes[:n]
	for i := range s.notes {
		segments := s.notes[i].Segments
		s.notes[i] = LiveNote{Note: i, Segments: segments}
		s.notes[i].Regenerate(&s.chart.Notes[i], s.step)
	}
	s.cursor = 0
	s.hittable = s.hittable[:0]
	s.Preview(s.elapsed)
}

// Reset rebuilds every live note as seen from elapsed.
func (s *Scheduler) Reset(elapsed time.Duration) {
	s.elapsed = elapsed
	s.Rebuild()
}

// Regenerate rebuilds the hold segments of one note after its hold changed.
func (s *Scheduler) Regenerate(i int) {
	l := &s.notes[i]
	l.Regenerate(&s.chart.Notes[l.Note], s.step)
	s.position(l)
}

func (s *Scheduler) Approach(t, elapsed time.Duration) float64 {
	return Approach(t, elapsed, s.beat, s.lookahead)
}

func (s *Scheduler) position(l *LiveNote) {
	l.Fraction = s.Approach(s.chart.Notes[l.Note].Time, s.elapsed)
	for k := range l.Segments {
		seg := &l.Segments[k]
		seg.Fraction = s.Approach(seg.Time, s.elapsed)
		if l.State == HoldActive && seg.State == Waiting && seg.Fraction > Line {
			seg.State = Consumed
		}
	}
}

// Preview positions every live note for elapsed without changing any state.
func (s *Scheduler) Preview(elapsed time.Duration) {
	s.elapsed = elapsed
	for i := range s.notes {
		s.position(&s.notes[i])
	}
}

// Update recomputes every live note for the song position elapsed.
func (s *Scheduler) Update(elapsed time.Duration) Events {
	var events Events
	s.elapsed = elapsed

	for i := range s.notes {
		l := &s.notes[i]
		if l.State == Culled {
			continue
		}
		n := &s.chart.Notes[l.Note]
		s.position(l)

		switch {
		case l.State.Pending():
			if l.Fraction > Terminal {
				l.State = Missed
				l.Rank = game.Miss
				l.Drop()
				events.Missed = append(events.Missed, i)
				continue
			}
			delta := n.Time - elapsed
			if delta <= game.EarlyWindow && delta >= -game.LateWindow {
				l.State = InWindow
			} else if l.Fraction >= 0 {
				l.State = Approaching
			} else {
				l.State = Spawned
			}
		case l.State == HoldActive:
			if elapsed >= n.End() {
				events.Completed = append(events.Completed, i)
			}
		case l.State.Resolved():
			if s.Approach(l.Tail(n), elapsed) > Terminal {
				l.State = Culled
			}
		}
	}

	s.refresh()
	return events
}

func (s *Scheduler) time(i int) time.Duration {
	return s.chart.Notes[s.notes[i].Note].Time
}

// refresh rebuilds the hittable set: held notes, the next unjudged note with
// every note of its chord, and the note after that when the player is
// falling behind.
func (s *Scheduler) refresh() {
	s.hittable = s.hittable[:0]
	for i := range s.notes {
		if s.notes[i].State == HoldActive {
			s.hittable = append(s.hittable, i)
		}
	}

	for s.cursor < len(s.notes) && !s.notes[s.cursor].State.Pending() {
		s.cursor++
	}
	if s.cursor >= len(s.notes) {
		return
	}

	head := s.time(s.cursor)
	last := s.cursor
	for j := s.cursor; j < len(s.notes); j++ {
		if s.time(j)-head > ChordTolerance {
			break
		}
		if s.notes[j].State.Pending() {
			s.hittable = append(s.hittable, j)
			last = j
		}
	}

	behind := false
	for _, i := range s.hittable {
		if s.notes[i].State.Pending() && s.time(i)-s.elapsed < -game.LateWindow {
			behind = true
			break
		}
	}
	if behind {
		for j := last + 1; j < len(s.notes); j++ {
			if s.notes[j].State.Pending() {
				s.hittable = append(s.hittable, j)
				break
			}
		}
	}
}

// Hittable is the set of notes input may be matched against, in chart order
// after any held notes. It is only valid until the next Update.
func (s *Scheduler) Hittable() []int {
	return s.hittable
}

// Remove takes a judged note out of the hittable set.
func (s *Scheduler) Remove(i int) {
	for k, j := range s.hittable {
		if j == i {
			s.hittable = append(s.hittable[:k], s.hittable[k+1:]...)
			return
		}
	}
}

func (s *Scheduler) Note(i int) *LiveNote {
	return &s.notes[i]
}

func (s *Scheduler) Event(i int) *game.Note {
	return &s.chart.Notes[s.notes[i].Note]
}

func (s *Scheduler) Notes() []LiveNote {
	return s.notes
}

func (s *Scheduler) Len() int {
	return len(s.notes)
}

func (s *Scheduler) Elapsed() time.Duration {
	return s.elapsed
}

func (s *Scheduler) Step() time.Duration {
	return s.step
}

func (s *Scheduler) Chart() *game.Chart {
	return s.chart
}

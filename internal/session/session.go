// Package session drives one chart against the clock: the conductor,
// the scheduler and the judge, ticked together from a single goroutine.
package session

import (
	"fmt"
	"log"
	"time"

	"git.lost.host/meutraa/receptor/internal/conductor"
	"git.lost.host/meutraa/receptor/internal/config"
	"git.lost.host/meutraa/receptor/internal/game"
	"git.lost.host/meutraa/receptor/internal/parser"
	"git.lost.host/meutraa/receptor/internal/scheduler"
	"git.lost.host/meutraa/receptor/internal/score"
)

// State is what a frame needs to draw the session.
type State struct {
	Conductor conductor.State
	Chart     *game.Chart
	Notes     []scheduler.LiveNote
	Hittable  []int
	Accuracy  score.Accuracy
	Score     float64
	Stats     score.Stats
}

type Session struct {
	chart     *game.Chart
	cfg       config.Session
	conductor *conductor.Conductor
	sched     *scheduler.Scheduler
	judge     *score.Judge
	parser    parser.Parser
	inputs    []game.Input
}

// LoadChart decodes a chart file for a game with the given lane count.
func LoadChart(data []byte, lanes int) (*game.Chart, error) {
	p := parser.DefaultParser{Lanes: lanes}
	return p.Parse(data)
}

// Length is how long a session of chart runs without audio: until its last
// note has scrolled off.
func Length(chart *game.Chart, cfg config.Session) time.Duration {
	tail := time.Duration(cfg.Lookahead * float64(cfg.Timing.Beat()))
	return chart.Length() + tail
}

// New starts a paused session over chart, which it takes ownership of.
// A nil device runs the session on tick timestamps alone.
func New(chart *game.Chart, cfg config.Session, device conductor.Device) (*Session, error) {
	if err := cfg.Validate(); nil != err {
		return nil, fmt.Errorf("unable to start session: %w", err)
	}
	for i := range chart.Notes {
		if err := chart.Notes[i].Validate(cfg.Lanes); nil != err {
			return nil, fmt.Errorf("unable to start session: %w", err)
		}
	}
	if len(chart.Index()) != len(chart.Notes) {
		return nil, fmt.Errorf("unable to start session: %w", game.ErrID)
	}

	length := cfg.Length
	if length == 0 {
		length = Length(chart, cfg)
	} else {
		clampHolds(chart, length)
	}

	sched := scheduler.New(chart, cfg.Timing, cfg.Lookahead)
	return &Session{
		chart:     chart,
		cfg:       cfg,
		conductor: conductor.New(cfg.Timing, cfg.GlobalOffset, length, device),
		sched:     sched,
		judge:     score.NewJudge(sched, cfg.Windows, cfg.Lanes),
		parser:    &parser.DefaultParser{Lanes: cfg.Lanes},
	}, nil
}

func clampHolds(chart *game.Chart, length time.Duration) {
	for i := range chart.Notes {
		n := &chart.Notes[i]
		if n.End() <= length {
			continue
		}
		hold := length - n.Time
		if hold < 0 {
			hold = 0
		}
		log.Printf("note %d holds past the end of the song, clamped from %v to %v", n.ID, n.Hold, hold)
		n.Hold = hold
	}
}

func (s *Session) Start(seek time.Duration) {
	s.conductor.Start(seek)
}

func (s *Session) Pause(pause bool) {
	s.conductor.Pause(pause)
}

// Tick advances the session to the frame timestamp ts and returns what was
// judged without input.
func (s *Session) Tick(ts time.Duration) []score.Outcome {
	s.conductor.Tick(ts)
	return s.judge.Resolve(s.sched.Update(s.conductor.Elapsed()))
}

// SubmitInput judges one press or release. Presses while paused and input
// on a lane the session does not have are dropped.
func (s *Session) SubmitInput(in game.Input) (score.Outcome, bool) {
	if in.Lane < 0 || in.Lane >= s.cfg.Lanes {
		return score.Outcome{}, false
	}
	// While paused only a release of a held note counts, so a hold cannot
	// outlive its key.
	if !s.conductor.Playing() && (in.Direction != game.Up || s.judge.Held(in.Lane) < 0) {
		return score.Outcome{}, false
	}
	at := s.conductor.At(in.Time)
	s.inputs = append(s.inputs, game.Input{
		Lane:      in.Lane,
		Direction: in.Direction,
		Time:      s.conductor.PositionAt(in.Time),
	})
	if in.Direction == game.Up {
		return s.judge.Release(in.Lane, at)
	}
	return s.judge.Press(in.Lane, at)
}

// Save encodes the session's chart.
func (s *Session) Save() ([]byte, error) {
	return s.parser.Write(s.chart)
}

func (s *Session) State() State {
	accuracy := s.judge.Accuracy()
	return State{
		Conductor: s.conductor.State(),
		Chart:     s.chart,
		Notes:     s.sched.Notes(),
		Hittable:  s.sched.Hittable(),
		Accuracy:  accuracy,
		Score:     accuracy.Score(),
		Stats:     s.judge.Stats(),
	}
}

// Inputs are the accepted inputs so far, stamped with playback positions.
func (s *Session) Inputs() []game.Input {
	return s.inputs
}

// Run packages the session's inputs for the replay store.
func (s *Session) Run(sum string) *score.Run {
	return &score.Run{
		Sum:       sum,
		BPM:       s.cfg.Timing.BPM,
		Offset:    s.cfg.GlobalOffset,
		Lookahead: s.cfg.Lookahead,
		Lanes:     s.cfg.Lanes,
		Inputs:    s.inputs,
	}
}

func (s *Session) Finished() bool {
	return s.conductor.Finished()
}

func (s *Session) Chart() *game.Chart {
	return s.chart
}

func (s *Session) Config() config.Session {
	return s.cfg
}

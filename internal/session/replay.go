package session

import (
	"git.lost.host/meutraa/receptor/internal/config"
	"git.lost.host/meutraa/receptor/internal/game"
	"git.lost.host/meutraa/receptor/internal/score"
)

// Replay plays inputs recorded by Inputs against chart, ticking at every
// input, and runs the session to its end.
func Replay(chart *game.Chart, cfg config.Session, inputs []game.Input) (*Session, error) {
	s, err := New(chart, cfg, nil)
	if nil != err {
		return nil, err
	}
	s.Start(0)
	s.Tick(0)
	for _, in := range inputs {
		s.Tick(in.Time)
		s.SubmitInput(in)
	}
	s.Tick(s.conductor.Length() + cfg.GlobalOffset)
	return s, nil
}

// ReplayRun replays a stored run under the settings it was played with.
// Settings the run did not record are taken from cfg.
func ReplayRun(chart *game.Chart, cfg config.Session, run *score.Run) (*Session, error) {
	cfg.Timing = game.Timing{BPM: run.BPM}
	cfg.GlobalOffset = run.Offset
	if run.Lookahead > 0 {
		cfg.Lookahead = run.Lookahead
	}
	if run.Lanes > 0 {
		cfg.Lanes = run.Lanes
	}
	return Replay(chart, cfg, run.Inputs)
}

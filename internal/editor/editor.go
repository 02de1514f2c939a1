// Package editor previews and edits a chart using the same clock and
// approach math as gameplay, without judging anything.
package editor

import (
	"errors"
	"fmt"
	"log"
	"time"

	"git.lost.host/meutraa/receptor/internal/conductor"
	"git.lost.host/meutraa/receptor/internal/config"
	"git.lost.host/meutraa/receptor/internal/game"
	"git.lost.host/meutraa/receptor/internal/parser"
	"git.lost.host/meutraa/receptor/internal/scheduler"
)

var (
	ErrLane    = fmt.Errorf("unable to place note: %w", game.ErrLane)
	ErrNote    = errors.New("no such note")
	ErrStopped = errors.New("editor is not playing")
)

type State struct {
	Conductor conductor.State
	Chart     *game.Chart
	Notes     []scheduler.LiveNote
	Selected  int // Note id, -1 when nothing is selected
	Dirty     bool
}

type Editor struct {
	chart     *game.Chart
	cfg       config.Session
	conductor *conductor.Conductor
	sched     *scheduler.Scheduler
	layout    Layout
	parser    parser.Parser
	selected  int
	dirty     bool
}

// New opens chart for editing. The editor owns chart from here on.
func New(chart *game.Chart, cfg config.Session, device conductor.Device, layout Layout) (*Editor, error) {
	if err := cfg.Validate(); nil != err {
		return nil, fmt.Errorf("unable to open editor: %w", err)
	}
	if layout.Lanes() < cfg.Lanes {
		return nil, fmt.Errorf("layout has %d of %d lanes: %w", layout.Lanes(), cfg.Lanes, config.ErrSession)
	}
	for i := range chart.Notes {
		if err := chart.Notes[i].Validate(cfg.Lanes); nil != err {
			return nil, fmt.Errorf("unable to open editor: %w", err)
		}
	}
	chart.Lanes = cfg.Lanes
	return &Editor{
		chart:     chart,
		cfg:       cfg,
		conductor: conductor.New(cfg.Timing, cfg.GlobalOffset, cfg.Length, device),
		sched:     scheduler.New(chart, cfg.Timing, cfg.Lookahead),
		layout:    layout,
		parser:    &parser.DefaultParser{Lanes: cfg.Lanes},
		selected:  -1,
	}, nil
}

func (e *Editor) reset() {
	e.sched.Reset(e.conductor.Elapsed())
}

// Toggle plays a paused editor and pauses a playing one.
func (e *Editor) Toggle() {
	e.conductor.Pause(e.conductor.Playing())
}

func (e *Editor) Playing() bool {
	return e.conductor.Playing()
}

func (e *Editor) Tick(ts time.Duration) {
	e.conductor.Tick(ts)
	e.sched.Preview(e.conductor.Elapsed())
}

// Seek moves a paused editor by whole steps.
func (e *Editor) Seek(steps int) error {
	if err := e.conductor.Seek(time.Duration(steps) * e.sched.Step()); nil != err {
		return err
	}
	e.reset()
	return nil
}

// Cell is the playback time of the grid row rows steps ahead.
func (e *Editor) Cell(row int) time.Duration {
	return e.conductor.Position() + time.Duration(row)*e.sched.Step()
}

// CellFraction is the approach fraction of grid row row, the same as a note
// inserted there.
func (e *Editor) CellFraction(row int) float64 {
	return e.sched.Approach(e.Cell(row)-e.cfg.GlobalOffset, e.conductor.Elapsed())
}

// CellPoint is where grid row row of lane is on the playfield.
func (e *Editor) CellPoint(lane, row int) Point {
	return e.layout.Position(lane, e.CellFraction(row))
}

func (e *Editor) insert(lane int, at time.Duration) (int, error) {
	if lane < 0 || lane >= e.cfg.Lanes {
		return -1, fmt.Errorf("lane %d: %w", lane, ErrLane)
	}
	i, err := e.chart.Insert(game.Note{Lane: lane, Time: at, Texture: "note"})
	if nil != err {
		return -1, err
	}
	e.dirty = true
	e.reset()
	return e.chart.Notes[i].ID, nil
}

// Insert places a tap on lane at grid row, returning its id.
func (e *Editor) Insert(lane, row int) (int, error) {
	return e.insert(lane, e.Cell(row)-e.cfg.GlobalOffset)
}

// Record places a tap on lane at the current time while the song plays.
func (e *Editor) Record(lane int) (int, error) {
	if !e.conductor.Playing() {
		return -1, ErrStopped
	}
	return e.insert(lane, e.conductor.Elapsed())
}

// hits is every visible note whose box contains p, in chart order.
func (e *Editor) hits(p Point) []int {
	var ids []int
	for _, l := range e.sched.Notes() {
		if !Visible(l.Fraction) {
			continue
		}
		n := e.sched.Event(l.Note)
		if n.Lane >= e.layout.Lanes() {
			continue
		}
		if e.layout.Bounds(n.Lane, l.Fraction).Contains(p) {
			ids = append(ids, n.ID)
		}
	}
	return ids
}

// Delete removes every visible note under p and returns their ids.
func (e *Editor) Delete(p Point) []int {
	ids := e.hits(p)
	for _, id := range ids {
		e.chart.Remove(id)
		if id == e.selected {
			e.selected = -1
		}
	}
	if len(ids) > 0 {
		e.dirty = true
		e.reset()
	}
	return ids
}

// Select picks the first visible note under p.
func (e *Editor) Select(p Point) (int, bool) {
	ids := e.hits(p)
	if len(ids) == 0 {
		e.selected = -1
		return -1, false
	}
	e.selected = ids[0]
	return e.selected, true
}

func (e *Editor) Selected() int {
	return e.selected
}

// AdjustHold lengthens (steps > 0) or shortens the hold of note id by whole
// steps. Holds never go below zero.
func (e *Editor) AdjustHold(id, steps int) error {
	i, ok := e.chart.Find(id)
	if !ok {
		return fmt.Errorf("note %d: %w", id, ErrNote)
	}
	n := &e.chart.Notes[i]
	hold := n.Hold + time.Duration(steps)*e.sched.Step()
	if hold < 0 {
		hold = 0
	}
	if hold == n.Hold {
		return nil
	}
	n.Hold = hold
	e.dirty = true
	e.sched.Regenerate(i)
	return nil
}

// Save encodes the chart and marks the editor clean.
func (e *Editor) Save() ([]byte, error) {
	data, err := e.parser.Write(e.chart)
	if nil != err {
		return nil, err
	}
	e.dirty = false
	return data, nil
}

func (e *Editor) Dirty() bool {
	return e.dirty
}

func (e *Editor) Layout() Layout {
	return e.layout
}

func (e *Editor) State() State {
	return State{
		Conductor: e.conductor.State(),
		Chart:     e.chart,
		Notes:     e.sched.Notes(),
		Selected:  e.selected,
		Dirty:     e.dirty,
	}
}

// Close warns about unsaved edits.
func (e *Editor) Close() {
	if e.dirty {
		log.Println("chart closed with unsaved changes")
	}
}

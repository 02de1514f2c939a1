package main

import (
	"fmt"
	"os"
	"time"

	"git.lost.host/meutraa/receptor/internal/conductor"
	"git.lost.host/meutraa/receptor/internal/editor"
	"git.lost.host/meutraa/receptor/internal/game"
	"git.lost.host/meutraa/receptor/internal/input"
	"git.lost.host/meutraa/receptor/internal/session"
	"github.com/dustin/go-humanize"
	"github.com/eiannone/keyboard"
)

// Grid rows drawn ahead of the playback position.
const gridRows = 64

// cursor is the grid cell edits apply to.
type cursor struct {
	lane, row int
	last      int // Id of the last placed note, -1 when none
}

func (c *cursor) move(lanes, dl, dr int) {
	c.lane += dl
	if c.lane < 0 {
		c.lane = 0
	}
	if c.lane >= lanes {
		c.lane = lanes - 1
	}
	c.row += dr
	if c.row < 0 {
		c.row = 0
	}
	if c.row >= gridRows {
		c.row = gridRows - 1
	}
}

func (p *Program) save(e *editor.Editor) {
	data, err := e.Save()
	if nil != err {
		logWarn("unable to encode chart: %v", err)
		return
	}
	if err := os.WriteFile(p.song.Chart, data, 0644); nil != err {
		logWarn("unable to write chart: %v", err)
		return
	}
	p.data = data
}

// key applies one editor key. It returns false to quit.
func (p *Program) key(e *editor.Editor, c *cursor, k input.Key) bool {
	if k.Is(keyboard.KeyEsc) {
		return false
	}
	if lane, ok := p.cfg.KeyLane(k.Rune); ok {
		var (
			id  int
			err error
		)
		if e.Playing() {
			id, err = e.Record(lane)
		} else {
			id, err = e.Insert(lane, c.row)
		}
		if nil != err {
			logWarn("unable to place note: %v", err)
			return true
		}
		c.lane, c.last = lane, id
		return true
	}

	switch {
	case k.Rune == ' ' || k.Is(keyboard.KeySpace):
		e.Toggle()
	case k.Rune == ',':
		if err := e.Seek(-1); nil != err {
			logWarn("%v", err)
		}
	case k.Rune == '.':
		if err := e.Seek(1); nil != err {
			logWarn("%v", err)
		}
	case k.Is(keyboard.KeyArrowUp):
		c.move(p.cfg.Lanes, 0, 1)
	case k.Is(keyboard.KeyArrowDown):
		c.move(p.cfg.Lanes, 0, -1)
	case k.Is(keyboard.KeyArrowLeft):
		c.move(p.cfg.Lanes, -1, 0)
	case k.Is(keyboard.KeyArrowRight):
		c.move(p.cfg.Lanes, 1, 0)
	case k.Rune == 'x':
		for _, id := range e.Delete(e.CellPoint(c.lane, c.row)) {
			if id == c.last {
				c.last = -1
			}
		}
	case k.Rune == 'v':
		e.Select(e.CellPoint(c.lane, c.row))
	case k.Rune == 'q', k.Rune == 'e':
		id := e.Selected()
		if id < 0 {
			id = c.last
		}
		steps := 1
		if k.Rune == 'q' {
			steps = -1
		}
		if err := e.AdjustHold(id, steps); nil != err {
			logWarn("%v", err)
		}
	case k.Rune == 'w':
		p.save(e)
	}
	return true
}

func (p *Program) drawGrid(e *editor.Editor, c *cursor) {
	for row := 0; row < gridRows; row++ {
		f := e.CellFraction(row)
		if f < editor.VisibleFrom {
			break
		}
		if !editor.Visible(f) {
			continue
		}
		r, ok := p.row(f)
		if !ok {
			continue
		}
		for lane, col := range p.lanes {
			p.fill(r, col, p.Theme.RenderCell(row, lane == c.lane && row == c.row))
		}
	}
}

func (p *Program) drawEditor(e *editor.Editor, c *cursor) {
	st := e.State()
	p.hud(2, "Position", clock(st.Conductor.Position)+" / "+clock(st.Conductor.Length))
	p.hud(3, "Step", humanize.Comma(int64(st.Conductor.PosInSteps)))
	p.hud(4, "Cursor", fmt.Sprintf("lane %d row %d", c.lane, c.row))
	p.hud(13, "Notes", humanize.Comma(int64(st.Chart.NoteCount())))
	p.hud(14, "Holds", humanize.Comma(int64(st.Chart.HoldCount())))

	status := "saved"
	if st.Dirty {
		status = "modified"
	}
	p.hud(16, "Chart", status)

	selected := "none"
	if i, ok := st.Chart.Find(st.Selected); ok {
		n := st.Chart.Notes[i]
		selected = fmt.Sprintf("%d lane %d %.0fms", n.ID, n.Lane, game.ToMilliseconds(n.Time))
		if n.IsHold() {
			selected += fmt.Sprintf(" hold %.0fms", game.ToMilliseconds(n.Hold))
		}
	}
	p.hud(17, "Selected", selected)
}

// Edit opens the chart in the terminal editor. The chart file is only
// written on 'w'.
func (p *Program) Edit() error {
	chart, err := session.LoadChart(p.data, p.cfg.Lanes)
	if nil != err {
		return err
	}

	var device conductor.Device
	ad, length := p.openAudio()
	if nil != ad {
		defer ad.Close()
		device = ad
	}
	e, err := editor.New(chart, p.sessionConfig(length), device, editor.DefaultLayout(p.cfg.Lanes))
	if nil != err {
		return err
	}
	defer e.Close()

	start := time.Now()
	keys, closeKeys, err := input.Keyboard(input.Since(start))
	if nil != err {
		return err
	}
	defer func() {
		if err := closeKeys(); nil != err {
			logWarn("unable to close keyboard: %v", err)
		}
	}()

	if err := p.Renderer.Init(); nil != err {
		return err
	}
	defer func() {
		if err := p.Renderer.Deinit(); nil != err {
			logWarn("unable to restore terminal: %v", err)
		}
	}()
	if err := p.resize(); nil != err {
		return err
	}

	c := &cursor{last: -1}
	p.Renderer.RenderLoop(start, p.cfg.FramePeriod, func(ts time.Duration) bool {
		e.Tick(ts)
	drain:
		for {
			select {
			case k, ok := <-keys:
				if !ok || !p.key(e, c, k) {
					return false
				}
			default:
				break drain
			}
		}

		st := e.State()
		p.erase()
		p.drawGrid(e, c)
		p.drawBar()
		p.drawNotes(st.Chart, st.Notes, editor.Visible)
		p.drawEditor(e, c)
		return true
	})
	return nil
}

package main

import (
	"fmt"
	"log"
	"math"
	"os"
	"time"

	"git.lost.host/meutraa/receptor/internal/audio"
	"git.lost.host/meutraa/receptor/internal/conductor"
	"git.lost.host/meutraa/receptor/internal/config"
	"git.lost.host/meutraa/receptor/internal/game"
	"git.lost.host/meutraa/receptor/internal/input"
	"git.lost.host/meutraa/receptor/internal/render"
	"git.lost.host/meutraa/receptor/internal/scheduler"
	"git.lost.host/meutraa/receptor/internal/score"
	"git.lost.host/meutraa/receptor/internal/session"
	"git.lost.host/meutraa/receptor/internal/theme"
	"github.com/dustin/go-humanize"
	"github.com/eiannone/keyboard"
	"github.com/hako/durafmt"
)

var shortUnits, _ = durafmt.DefaultUnitsCoder.Decode("y:y,wk:wk,d:d,h:h,m:m,s:s,ms:ms,us:us")

type cell struct {
	row, col int
}

// Program is the terminal front end shared by play and edit.
type Program struct {
	Renderer render.Renderer
	Theme    theme.Theme

	cfg  *config.Config
	song Song
	data []byte

	rows, columns int
	bar           int   // Row of the hit bar
	lanes         []int // Terminal column of each lane
	sideCol       int

	drawn     []cell // Cells filled with moving pieces last frame
	markTime  int    // Frames a judgement mark stays up
	lastRank  string
	lastDelta time.Duration
}

func NewProgram(cfg *config.Config) (*Program, error) {
	song, err := findSong(cfg.Directory, cfg.Chart)
	if nil != err {
		return nil, err
	}
	data, err := os.ReadFile(song.Chart)
	if nil != err {
		return nil, err
	}
	if cfg.FramePeriod <= 0 {
		return nil, fmt.Errorf("frame period %v: %w", cfg.FramePeriod, config.ErrSession)
	}
	p := &Program{
		Renderer: render.NewDefaultRenderer(),
		Theme:    &theme.DefaultTheme{},
		cfg:      cfg,
		song:     song,
		data:     data,
		markTime: int(time.Second / 4 / cfg.FramePeriod),
	}
	return p, nil
}

func (p *Program) resize() error {
	columns, rows, err := p.Renderer.Size()
	if nil != err {
		return fmt.Errorf("unable to get terminal size: %w", err)
	}
	p.rows, p.columns = rows, columns
	p.bar = rows - int(p.cfg.BarRow)

	mid := columns >> 1
	spacing := int(p.cfg.ColumnSpacing)
	p.lanes = p.lanes[:0]
	for i := 0; i < p.cfg.Lanes; i++ {
		p.lanes = append(p.lanes, mid+((2*i-(p.cfg.Lanes-1))*spacing)/2)
	}
	p.sideCol = p.lanes[0] - 36
	if p.sideCol < 2 {
		p.sideCol = 2
	}
	return nil
}

// openAudio returns the song device and its length, or no device when the
// song has no audio or the audio cannot be played.
func (p *Program) openAudio() (*audio.Device, time.Duration) {
	if p.song.Audio == "" {
		logWarn("no audio in song directory, following the wall clock")
		return nil, 0
	}
	log.Printf("Opening %v (%v)\n", p.song.Audio, p.song.Chart)
	device, err := audio.Open(p.song.Audio)
	if nil != err {
		logWarn("unable to open %v, following the wall clock: %v", p.song.Audio, err)
		return nil, 0
	}
	if err := device.Init(time.Second / 60); nil != err {
		logWarn("%v, following the wall clock", err)
		device.Close()
		return nil, 0
	}
	return device, device.Length()
}

// sessionConfig captures the command line for a session, with the song
// length read from the audio unless it was given.
func (p *Program) sessionConfig(length time.Duration) config.Session {
	sc := p.cfg.Session()
	if sc.Length == 0 {
		sc.Length = length
	}
	return sc
}

// row is the terminal row of approach fraction f, with the hit bar at the
// judgement line.
func (p *Program) row(f float64) (int, bool) {
	row := 1 + int(math.Round(float64(p.bar-1)*f/scheduler.Line))
	return row, row >= 1 && row <= p.rows
}

func (p *Program) fill(row, col int, s string) {
	p.Renderer.Fill(row, col, s)
	p.drawn = append(p.drawn, cell{row, col})
}

// erase blanks every moving piece drawn last frame.
func (p *Program) erase() {
	for _, c := range p.drawn {
		p.Renderer.Fill(c.row, c.col, " ")
	}
	p.drawn = p.drawn[:0]
}

func (p *Program) drawBar() {
	for lane, col := range p.lanes {
		p.Renderer.Fill(p.bar, col, p.Theme.RenderHitField(lane))
	}
}

// drawNotes draws every unjudged note and the untouched part of every hold.
// A nil visible shows everything on screen.
func (p *Program) drawNotes(chart *game.Chart, notes []scheduler.LiveNote, visible func(f float64) bool) {
	for i := range notes {
		l := &notes[i]
		if l.State == scheduler.Culled {
			continue
		}
		lane := chart.Notes[l.Note].Lane
		if lane < 0 || lane >= len(p.lanes) {
			continue
		}
		col := p.lanes[lane]
		for _, seg := range l.Segments {
			if seg.State != scheduler.Waiting || seg.Kind == scheduler.Root {
				continue
			}
			if nil != visible && !visible(seg.Fraction) {
				continue
			}
			if row, ok := p.row(seg.Fraction); ok {
				p.fill(row, col, p.Theme.RenderHold(lane, seg.Kind == scheduler.End))
			}
		}
		if !l.State.Pending() && l.State != scheduler.Missed {
			continue
		}
		if nil != visible && !visible(l.Fraction) {
			continue
		}
		if row, ok := p.row(l.Fraction); ok {
			p.fill(row, col, p.Theme.RenderNote(lane))
		}
	}
}

// mark frames the receptor of a judged lane.
func (p *Program) mark(o score.Outcome) {
	if o.Lane < 0 || o.Lane >= len(p.lanes) {
		return
	}
	col := p.lanes[o.Lane]
	corners := [4]cell{{p.bar - 1, col - 1}, {p.bar - 1, col + 1}, {p.bar + 1, col + 1}, {p.bar + 1, col - 1}}
	for i, c := range corners {
		p.Renderer.AddDecoration(c.col, c.row, p.Theme.RenderMark(o.Rank, i), p.markTime)
	}
	p.lastRank = p.Theme.RenderRank(o.Rank)
	p.lastDelta = o.Delta
}

func clock(d time.Duration) string {
	return durafmt.Parse(d.Truncate(time.Second)).LimitFirstN(2).Format(shortUnits)
}

func (p *Program) hud(row int, label, value string) {
	p.Renderer.Fill(row, p.sideCol, fmt.Sprintf("%10s:  %-24s", label, value))
}

func (p *Program) drawStats(st session.State) {
	c := st.Conductor
	p.hud(2, "Position", clock(c.Position)+" / "+clock(c.Length))
	p.hud(3, "Beat", humanize.Comma(int64(c.PosInBeats)))
	p.hud(10, "Score", fmt.Sprintf("%6.2f%%", 100*st.Score))
	p.hud(11, "Stdev", fmt.Sprintf("%6.2f ms", game.ToMilliseconds(st.Stats.StdDev())))
	p.hud(12, "Mean", fmt.Sprintf("%6.2f ms", game.ToMilliseconds(st.Stats.Mean())))
	p.hud(13, "Notes", humanize.Comma(int64(st.Chart.NoteCount())))
	p.hud(14, "Holds", humanize.Comma(int64(st.Chart.HoldCount())))
	for r, n := range st.Accuracy.Counts {
		p.Renderer.Fill(18+r, p.sideCol, fmt.Sprintf("%s:  %-8s", p.Theme.RenderRank(game.Rank(r)), humanize.Comma(int64(n))))
	}
	if p.lastRank != "" {
		p.Renderer.Fill(p.bar+3, p.lanes[0], fmt.Sprintf("%s %+7.2f ms    ", p.lastRank, game.ToMilliseconds(p.lastDelta)))
	}
}

// Play runs one session of the chart until the song ends or Esc is pressed,
// then stores the run.
func (p *Program) Play() error {
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
	s, err := session.New(chart, p.sessionConfig(length), device)
	if nil != err {
		return err
	}

	start := time.Now()
	clk := input.Since(start)
	keys, closeKeys, err := input.Keyboard(clk)
	if nil != err {
		return err
	}
	defer func() {
		if err := closeKeys(); nil != err {
			logWarn("unable to close keyboard: %v", err)
		}
	}()

	// Key codes from an input device give real releases; the terminal only
	// ever sees presses.
	events := make(chan game.Input, 128)
	fromDevice := false
	if p.cfg.Device != "" {
		dev, err := input.ReadDevice(p.cfg.Device, p.cfg.CodeLane, clk, events)
		if nil != err {
			logWarn("unable to read %v, using terminal keys: %v", p.cfg.Device, err)
		} else {
			defer dev.Close()
			fromDevice = true
		}
	}

	if err := p.Renderer.Init(); nil != err {
		return err
	}
	if err := p.resize(); nil != err {
		p.Renderer.Deinit()
		return err
	}

	submit := func(in game.Input) {
		if o, ok := s.SubmitInput(in); ok {
			p.mark(o)
		}
	}

	started, paused, quit := false, false, false
	p.Renderer.RenderLoop(start, p.cfg.FramePeriod, func(ts time.Duration) bool {
		if !started && ts >= p.cfg.Delay {
			s.Start(0)
			started = true
		}
		for _, o := range s.Tick(ts) {
			p.mark(o)
		}

	drain:
		for {
			select {
			case k, ok := <-keys:
				if !ok || k.Is(keyboard.KeyEsc) {
					quit = true
					return false
				}
				if started && (k.Rune == ' ' || k.Is(keyboard.KeySpace)) {
					paused = !paused
					s.Pause(paused)
					continue
				}
				if lane, ok := p.cfg.KeyLane(k.Rune); ok && !fromDevice {
					for _, in := range input.Tap(lane, k.Time) {
						submit(in)
					}
				}
			case in := <-events:
				submit(in)
			default:
				break drain
			}
		}

		st := s.State()
		p.erase()
		p.drawBar()
		p.drawNotes(st.Chart, st.Notes, nil)
		p.drawStats(st)
		return !s.Finished()
	})
	if err := p.Renderer.Deinit(); nil != err {
		logWarn("unable to restore terminal: %v", err)
	}

	st := s.State()
	fmt.Printf("%6.2f%%  mean %.2f ms  stdev %.2f ms\n", 100*st.Score, game.ToMilliseconds(st.Stats.Mean()), game.ToMilliseconds(st.Stats.StdDev()))
	if quit {
		return nil
	}
	return p.store(s)
}

func (p *Program) store(s *session.Session) error {
	store, err := score.OpenStore(p.cfg.Database)
	if nil != err {
		return fmt.Errorf("unable to save run: %w", err)
	}
	defer store.Close()
	return store.Save(s.Run(score.Hash(p.data)))
}

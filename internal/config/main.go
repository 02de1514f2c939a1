package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"git.lost.host/meutraa/receptor/internal/game"
	"gopkg.in/alecthomas/kingpin.v2"
)

const Version = "0.3.0"

// Config is everything read from the command line. It is built once and
// never written to afterwards.
type Config struct {
	Command       string
	Directory     string
	Chart         string
	BPM           float64
	Offset        time.Duration
	Delay         time.Duration
	ScrollSpeed   float64 // Beats shown between spawn and the hit bar
	Length        time.Duration
	Lanes         int
	Keys          string
	Codes         []uint16
	Device        string
	FramePeriod   time.Duration
	ColumnSpacing uint
	BarRow        uint
	Database      string
	Workers       int
}

// Session is the part of the configuration a session captures at start.
// Sessions never see later changes.
type Session struct {
	GlobalOffset time.Duration
	Lookahead    float64
	Timing       game.Timing
	Lanes        int
	Length       time.Duration // 0 means the chart decides
	Windows      game.Windows
}

var ErrSession = errors.New("invalid session configuration")

func DefaultSession() Session {
	return Session{
		Lookahead: 2,
		Timing:    game.Timing{BPM: 120},
		Lanes:     game.DefaultLanes,
		Windows:   game.DefaultWindows(),
	}
}

func (s Session) Validate() error {
	if s.Timing.BPM <= 0 {
		return fmt.Errorf("bpm %v: %w", s.Timing.BPM, ErrSession)
	}
	if s.Lookahead <= 0 {
		return fmt.Errorf("scroll speed %v: %w", s.Lookahead, ErrSession)
	}
	if s.Lanes <= 0 {
		return fmt.Errorf("lanes %v: %w", s.Lanes, ErrSession)
	}
	if s.Length < 0 {
		return fmt.Errorf("length %v: %w", s.Length, ErrSession)
	}
	return s.Windows.Validate()
}

func (c *Config) Session() Session {
	s := DefaultSession()
	s.GlobalOffset = c.Offset
	s.Lookahead = c.ScrollSpeed
	s.Timing = game.Timing{BPM: c.BPM}
	s.Lanes = c.Lanes
	s.Length = c.Length
	return s
}

// KeyLane maps a terminal key to its lane.
func (c *Config) KeyLane(r rune) (int, bool) {
	for i, k := range []rune(c.Keys) {
		if i >= c.Lanes {
			break
		}
		if k == r {
			return i, true
		}
	}
	return -1, false
}

// CodeLane maps a linux input event code to its lane.
func (c *Config) CodeLane(code uint16) (int, bool) {
	for i, k := range c.Codes {
		if i >= c.Lanes {
			break
		}
		if k == code {
			return i, true
		}
	}
	return -1, false
}

func parseCodes(s string) ([]uint16, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	codes := make([]uint16, 0, len(parts))
	for _, p := range parts {
		code, err := strconv.ParseUint(strings.TrimSpace(p), 10, 16)
		if nil != err {
			return nil, fmt.Errorf("key code %q: %w", p, err)
		}
		codes = append(codes, uint16(code))
	}
	return codes, nil
}

// Parse reads the command line (without the program name).
func Parse(args []string) (*Config, error) {
	var (
		c     Config
		codes string
	)

	app := kingpin.New("receptor", "Rhythm game and chart editor")
	app.Version(Version)

	app.Flag("bpm", "Song tempo").Default("120").Short('b').Float64Var(&c.BPM)
	app.Flag("offset", "Global offset").Default("0ms").Short('o').DurationVar(&c.Offset)
	app.Flag("delay", "Start delay").Default("1.5s").Short('d').DurationVar(&c.Delay)
	app.Flag("scroll-speed", "Beats shown, higher is slower").Default("2").Short('s').Float64Var(&c.ScrollSpeed)
	app.Flag("length", "Song length, read from the audio when 0").Default("0s").DurationVar(&c.Length)
	app.Flag("lanes", "Number of lanes").Default(strconv.Itoa(game.DefaultLanes)).Short('l').IntVar(&c.Lanes)
	app.Flag("keys", "Terminal keys for each lane").Default("asdfjkl;").Short('k').StringVar(&c.Keys)
	app.Flag("codes", "Linux key codes for each lane").Default("30,31,32,33,36,37,38,39").StringVar(&codes)
	app.Flag("device", "Linux input device to read key presses and releases from").StringVar(&c.Device)
	app.Flag("frame-period", "Render frame period").Default("4ms").Short('p').DurationVar(&c.FramePeriod)
	app.Flag("spacing", "Columns between lanes").Default("6").Short('S').UintVar(&c.ColumnSpacing)
	app.Flag("bar-row", "Rows between the bottom of the terminal and the hit bar").Default("4").UintVar(&c.BarRow)
	app.Flag("db", "Replay history database").Default("./scores.db").StringVar(&c.Database)
	app.Flag("chart", "Chart name inside the song directory").Short('c').StringVar(&c.Chart)

	play := app.Command("play", "Play a chart")
	play.Arg("directory", "Song/chart directory").Required().ExistingDirVar(&c.Directory)

	edit := app.Command("edit", "Edit a chart")
	edit.Arg("directory", "Song/chart directory").Required().ExistingDirVar(&c.Directory)

	check := app.Command("check", "Validate every chart in a directory")
	check.Arg("directory", "Chart directory").Required().ExistingDirVar(&c.Directory)
	check.Flag("workers", "Charts validated at once").Default("4").IntVar(&c.Workers)

	history := app.Command("history", "Re-score stored replays of a chart")
	history.Arg("directory", "Song/chart directory").Required().ExistingDirVar(&c.Directory)

	command, err := app.Parse(args)
	if nil != err {
		return nil, err
	}
	c.Command = command

	if c.Codes, err = parseCodes(codes); nil != err {
		return nil, err
	}
	if err := c.Session().Validate(); nil != err {
		return nil, err
	}
	return &c, nil
}

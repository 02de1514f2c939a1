package conductor

import (
	"errors"
	"log"
	"math"
	"time"

	"git.lost.host/meutraa/receptor/internal/game"
	"golang.org/x/time/rate"
)

var ErrPlaying = errors.New("conductor is playing")

// Device is the audio output the conductor follows while playing.
// Position must not block for longer than a frame.
type Device interface {
	Play(from time.Duration) error
	Pause() error
	Position() (time.Duration, error)
}

type State struct {
	Position   time.Duration // Playback position, global offset not applied
	Elapsed    time.Duration
	Length     time.Duration
	Beats      float64
	PosInBeats int
	PosInSteps int
	Playing    bool
	Finished   bool
}

// Conductor is the time authority of a session. Time only moves on Tick,
// and only forwards while playing.
type Conductor struct {
	timing game.Timing
	offset time.Duration
	length time.Duration
	device Device

	playing  bool
	anchored bool
	anchor   time.Duration // Tick timestamp at which playback resumed
	seek     time.Duration // Playback position playback resumed from
	position time.Duration // Playback position at the last tick
	lastTick time.Duration

	drift rate.Sometimes
}

// New creates a paused conductor. A nil device runs on tick timestamps alone.
func New(timing game.Timing, offset, length time.Duration, device Device) *Conductor {
	return &Conductor{
		timing: timing,
		offset: offset,
		length: length,
		device: device,
		drift:  rate.Sometimes{First: 1, Interval: 5 * time.Second},
	}
}

func (c *Conductor) clamp(p time.Duration) time.Duration {
	if p < 0 {
		return 0
	}
	if c.length > 0 && p > c.length {
		return c.length
	}
	return p
}

// Start begins playback from seek. Starting a running conductor does nothing.
func (c *Conductor) Start(seek time.Duration) {
	if c.playing {
		return
	}
	c.seek = c.clamp(seek)
	c.position = c.seek
	c.playing = true
	c.anchored = false
	if nil != c.device {
		if err := c.device.Play(c.seek); nil != err {
			log.Printf("audio device unavailable, following the wall clock: %v", err)
			c.device = nil
		}
	}
}

// Pause stops (true) or resumes (false) playback. Resuming rebuilds time
// from the stored seek position at the next tick.
func (c *Conductor) Pause(pause bool) {
	if !pause {
		c.Start(c.seek)
		return
	}
	if !c.playing {
		return
	}
	c.playing = false
	c.anchored = false
	c.seek = c.position
	if nil != c.device {
		if err := c.device.Pause(); nil != err {
			log.Printf("unable to pause audio device: %v", err)
		}
	}
}

// Tick samples the playback position once. ts is the caller's monotonic
// frame timestamp.
func (c *Conductor) Tick(ts time.Duration) {
	if !c.playing {
		return
	}
	if !c.anchored {
		c.anchor = ts
		c.anchored = true
		c.lastTick = ts
		return
	}

	position := c.seek + ts - c.anchor
	if nil != c.device {
		p, err := c.device.Position()
		if nil != err {
			c.drift.Do(func() {
				log.Printf("unable to read audio position, following the wall clock: %v", err)
			})
		} else {
			position = p
		}
	}
	if position > c.position {
		c.position = position
	}
	c.lastTick = ts
}

// Seek moves a paused conductor by delta, clamped to the song.
func (c *Conductor) Seek(delta time.Duration) error {
	if c.playing {
		return ErrPlaying
	}
	c.seek = c.clamp(c.seek + delta)
	c.position = c.seek
	return nil
}

// PositionAt is the playback position at ts, which may lie between ticks.
func (c *Conductor) PositionAt(ts time.Duration) time.Duration {
	if !c.playing || !c.anchored {
		return c.position
	}
	return c.position + ts - c.lastTick
}

// At is the elapsed time at ts, used to judge inputs.
func (c *Conductor) At(ts time.Duration) time.Duration {
	return c.PositionAt(ts) - c.offset
}

func (c *Conductor) Position() time.Duration {
	return c.position
}

// Elapsed is the playback position with the global offset applied.
func (c *Conductor) Elapsed() time.Duration {
	return c.position - c.offset
}

func (c *Conductor) Playing() bool {
	return c.playing
}

func (c *Conductor) Length() time.Duration {
	return c.length
}

func (c *Conductor) Timing() game.Timing {
	return c.timing
}

func (c *Conductor) Beats() float64 {
	beat := c.timing.Beat()
	if beat == 0 {
		return 0
	}
	return float64(c.Elapsed()) / float64(beat)
}

func (c *Conductor) PosInBeats() int {
	return int(math.Floor(c.Beats()))
}

func (c *Conductor) PosInSteps() int {
	step := c.timing.Step()
	if step == 0 {
		return 0
	}
	return int(math.Floor(float64(c.Elapsed()) / float64(step)))
}

// Finished reports whether the song is over. The position check covers an
// audio stream that stops at its last sample while the offset is positive.
func (c *Conductor) Finished() bool {
	return c.length > 0 && (c.Elapsed() >= c.length || c.position >= c.length)
}

func (c *Conductor) State() State {
	return State{
		Position:   c.position,
		Elapsed:    c.Elapsed(),
		Length:     c.length,
		Beats:      c.Beats(),
		PosInBeats: c.PosInBeats(),
		PosInSteps: c.PosInSteps(),
		Playing:    c.playing,
		Finished:   c.Finished(),
	}
}

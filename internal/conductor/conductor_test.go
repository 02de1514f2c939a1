package conductor

import (
	"errors"
	"testing"
	"time"

	"git.lost.host/meutraa/receptor/internal/game"
)

type fakeDevice struct {
	position time.Duration
	playErr  error
	posErr   error
	plays    []time.Duration
	pauses   int
}

func (d *fakeDevice) Play(from time.Duration) error {
	if nil != d.playErr {
		return d.playErr
	}
	d.plays = append(d.plays, from)
	d.position = from
	return nil
}

func (d *fakeDevice) Pause() error {
	d.pauses++
	return nil
}

func (d *fakeDevice) Position() (time.Duration, error) {
	return d.position, d.posErr
}

var timing = game.Timing{BPM: 120}

func TestWallClock(t *testing.T) {
	c := New(timing, 0, 0, nil)
	c.Start(time.Second)
	c.Tick(10 * time.Second) // anchors
	if c.Elapsed() != time.Second {
		t.Fatalf("elapsed %v after anchoring", c.Elapsed())
	}
	c.Tick(10*time.Second + 500*time.Millisecond)
	if c.Elapsed() != 1500*time.Millisecond {
		t.Fatalf("elapsed %v, expected 1.5s", c.Elapsed())
	}
	if c.PosInBeats() != 3 || c.PosInSteps() != 12 {
		t.Log("beats", c.PosInBeats(), "steps", c.PosInSteps())
		t.Fail()
	}
}

func TestStartIsIdempotent(t *testing.T) {
	c := New(timing, 0, 0, nil)
	c.Start(0)
	c.Tick(0)
	c.Tick(time.Second)
	c.Start(5 * time.Second)
	c.Tick(2 * time.Second)
	if c.Elapsed() != 2*time.Second {
		t.Fatalf("second start moved the clock to %v", c.Elapsed())
	}
}

func TestPauseIsIdempotent(t *testing.T) {
	d := &fakeDevice{}
	c := New(timing, 0, 0, d)
	c.Start(0)
	c.Tick(0)
	d.position = 750 * time.Millisecond
	c.Tick(time.Second)

	c.Pause(true)
	first := c.Elapsed()
	c.Pause(true)
	if c.Elapsed() != first {
		t.Fatalf("second pause changed elapsed from %v to %v", first, c.Elapsed())
	}
	if d.pauses != 1 {
		t.Fatalf("device paused %d times", d.pauses)
	}

	// Ticks while paused do nothing
	c.Tick(5 * time.Second)
	if c.Elapsed() != first {
		t.Fatalf("paused conductor moved to %v", c.Elapsed())
	}
}

func TestResumeFromSeekPosition(t *testing.T) {
	c := New(timing, 0, 0, nil)
	c.Start(0)
	c.Tick(0)
	c.Tick(time.Second)
	c.Pause(true)
	c.Pause(false)
	c.Tick(100 * time.Second) // re-anchors far in the future
	c.Tick(100*time.Second + 250*time.Millisecond)
	if c.Elapsed() != 1250*time.Millisecond {
		t.Fatalf("resumed at %v, expected 1.25s", c.Elapsed())
	}
}

func TestDevicePositionWins(t *testing.T) {
	d := &fakeDevice{}
	c := New(timing, 0, 0, d)
	c.Start(0)
	c.Tick(0)
	d.position = 900 * time.Millisecond
	c.Tick(time.Second)
	if c.Elapsed() != 900*time.Millisecond {
		t.Fatalf("elapsed %v, expected device position", c.Elapsed())
	}

	// Never backwards while playing
	d.position = 800 * time.Millisecond
	c.Tick(2 * time.Second)
	if c.Elapsed() != 900*time.Millisecond {
		t.Fatalf("conductor moved backwards to %v", c.Elapsed())
	}

	// A failed read follows the wall clock for that tick
	d.posErr = errors.New("underrun")
	c.Tick(3 * time.Second)
	if c.Elapsed() != 3*time.Second {
		t.Fatalf("elapsed %v, expected wall clock", c.Elapsed())
	}
}

func TestDeviceUnavailable(t *testing.T) {
	d := &fakeDevice{playErr: errors.New("no device")}
	c := New(timing, 0, 0, d)
	c.Start(0)
	c.Tick(0)
	c.Tick(time.Second)
	if c.Elapsed() != time.Second || !c.Playing() {
		t.Fatalf("expected wall clock fallback, elapsed %v", c.Elapsed())
	}
}

func TestOffset(t *testing.T) {
	c := New(timing, 30*time.Millisecond, 0, nil)
	c.Start(0)
	c.Tick(0)
	c.Tick(time.Second)
	if c.Elapsed() != 970*time.Millisecond {
		t.Fatalf("elapsed %v with 30ms offset", c.Elapsed())
	}
	if c.At(time.Second+10*time.Millisecond) != 980*time.Millisecond {
		t.Fatalf("input time %v", c.At(time.Second+10*time.Millisecond))
	}
}

func TestSeek(t *testing.T) {
	c := New(timing, 0, 10*time.Second, nil)
	if err := c.Seek(2 * time.Second); nil != err {
		t.Fatal(err)
	}
	if err := c.Seek(-5 * time.Second); nil != err {
		t.Fatal(err)
	}
	if c.Elapsed() != 0 {
		t.Fatalf("seek below zero left %v", c.Elapsed())
	}
	if err := c.Seek(time.Minute); nil != err {
		t.Fatal(err)
	}
	if c.Elapsed() != 10*time.Second || !c.Finished() {
		t.Fatalf("seek past the end left %v", c.Elapsed())
	}

	c.Start(0)
	if err := c.Seek(time.Second); !errors.Is(err, ErrPlaying) {
		t.Fatalf("seek while playing returned %v", err)
	}
}

func TestState(t *testing.T) {
	c := New(timing, 0, 10*time.Second, nil)
	c.Start(0)
	c.Tick(0)
	c.Tick(1300 * time.Millisecond)
	s := c.State()
	if s.Length != 10*time.Second || s.Position != 1300*time.Millisecond || !s.Playing || s.Finished {
		t.Fatalf("%+v", s)
	}
	if s.PosInBeats != int(s.Beats) || s.PosInSteps != 10 {
		t.Fatalf("%+v", s)
	}
}

package audio

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/faiface/beep"
)

// stream is a silent seekable song of n samples.
type stream struct {
	n, pos int
	err    error
	closed bool
}

func (s *stream) Stream(samples [][2]float64) (int, bool) {
	if s.pos >= s.n {
		return 0, false
	}
	k := len(samples)
	if s.n-s.pos < k {
		k = s.n - s.pos
	}
	for i := 0; i < k; i++ {
		samples[i] = [2]float64{}
	}
	s.pos += k
	return k, true
}

func (s *stream) Err() error    { return s.err }
func (s *stream) Len() int      { return s.n }
func (s *stream) Position() int { return s.pos }
func (s *stream) Close() error  { s.closed = true; return nil }

func (s *stream) Seek(p int) error {
	if p < 0 || p > s.n {
		return errors.New("seek out of range")
	}
	s.pos = p
	return nil
}

var format = beep.Format{SampleRate: 44100, NumChannels: 2, Precision: 2}

func TestLength(t *testing.T) {
	d := New(&stream{n: 44100 * 3}, format)
	if d.Length() != 3*time.Second {
		t.Fatalf("length %v", d.Length())
	}
}

func TestPlaySeeksAndClamps(t *testing.T) {
	s := &stream{n: 44100 * 3}
	d := New(s, format)
	cases := map[time.Duration]time.Duration{
		time.Second:             time.Second,
		-time.Second:            0,
		10 * time.Second:        3 * time.Second,
		1500 * time.Millisecond: 1500 * time.Millisecond,
	}
	for from, expected := range cases {
		if err := d.Play(from); nil != err {
			t.Fatal(err)
		}
		p, err := d.Position()
		if nil != err || p != expected {
			t.Errorf("play from %v: position %v %v, expected %v", from, p, err, expected)
		}
		if d.ctrl.Paused || !d.Playing() {
			t.Errorf("play from %v left the device paused", from)
		}
	}
	d.Pause()
	if !d.ctrl.Paused || d.Playing() {
		t.Fatal("pause did not pause")
	}
}

func TestPositionError(t *testing.T) {
	d := New(&stream{n: 10, err: errors.New("corrupt frame")}, format)
	if _, err := d.Position(); nil == err {
		t.Fatal("stream error hidden")
	}
}

func TestOpenRejects(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "missing.ogg")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file: %v", err)
	}
	name := filepath.Join(t.TempDir(), "song.flac")
	if err := os.WriteFile(name, []byte("fLaC"), 0644); nil != err {
		t.Fatal(err)
	}
	if _, err := Open(name); !errors.Is(err, ErrFormat) {
		t.Errorf("flac: %v", err)
	}
}

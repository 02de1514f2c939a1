// Package audio plays a song through the speaker and reports how far it has
// got, for the conductor to follow.
package audio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/vorbis"
	"github.com/faiface/beep/wav"
)

var ErrFormat = errors.New("unsupported audio format")

// Extensions are the audio files Open can decode.
var Extensions = []string{".ogg", ".mp3", ".wav"}

type Device struct {
	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	playing  bool
}

// Open decodes the song at path by its extension.
func Open(path string) (*Device, error) {
	f, err := os.Open(path)
	if nil != err {
		return nil, err
	}

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ogg":
		streamer, format, err = vorbis.Decode(f)
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".wav":
		streamer, format, err = wav.Decode(f)
	default:
		err = fmt.Errorf("%v: %w", path, ErrFormat)
	}
	if nil != err {
		f.Close()
		return nil, err
	}
	return New(streamer, format), nil
}

// New wraps an already decoded stream. It starts paused.
func New(streamer beep.StreamSeekCloser, format beep.Format) *Device {
	return &Device{
		streamer: streamer,
		format:   format,
		ctrl:     &beep.Ctrl{Streamer: streamer, Paused: true},
	}
}

// Init opens the speaker at the song's sample rate and hands it the stream.
// buffer bounds how stale Position can be.
func (d *Device) Init(buffer time.Duration) error {
	if err := speaker.Init(d.format.SampleRate, d.format.SampleRate.N(buffer)); nil != err {
		return fmt.Errorf("unable to open speaker: %w", err)
	}
	speaker.Play(d.ctrl)
	return nil
}

func (d *Device) Length() time.Duration {
	return d.format.SampleRate.D(d.streamer.Len())
}

func (d *Device) Play(from time.Duration) error {
	speaker.Lock()
	defer speaker.Unlock()

	p := d.format.SampleRate.N(from)
	if p < 0 {
		p = 0
	}
	if n := d.streamer.Len(); p > n {
		p = n
	}
	if err := d.streamer.Seek(p); nil != err {
		return fmt.Errorf("unable to seek to %v: %w", from, err)
	}
	d.ctrl.Paused = false
	d.playing = true
	return nil
}

func (d *Device) Pause() error {
	speaker.Lock()
	d.ctrl.Paused = true
	d.playing = false
	speaker.Unlock()
	return nil
}

// Position is how much of the song has been handed to the speaker.
func (d *Device) Position() (time.Duration, error) {
	speaker.Lock()
	defer speaker.Unlock()
	if err := d.streamer.Err(); nil != err {
		return 0, err
	}
	return d.format.SampleRate.D(d.streamer.Position()), nil
}

func (d *Device) Playing() bool {
	return d.playing
}

func (d *Device) Close() error {
	speaker.Clear()
	return d.streamer.Close()
}

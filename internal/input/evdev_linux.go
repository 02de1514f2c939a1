package input

import (
	"encoding/binary"
	"errors"
	"io"
	"log"
	"os"
	"sync"
	"syscall"

	"git.lost.host/meutraa/receptor/internal/game"
)

// https://github.com/torvalds/linux/blob/master/include/uapi/linux/input-event-codes.h
const (
	evKey = 0x01

	valueUp     = 0
	valueDown   = 1
	valueRepeat = 2
)

type keyEvent struct {
	Time  syscall.Timeval
	Type  uint16
	Code  uint16
	Value int32
}

// decode reads key events until r fails or done is closed, sending one input
// per press and release of a mapped key. Repeats and unmapped keys are
// dropped.
func decode(r io.Reader, lanes LaneMap, clock Clock, events chan<- game.Input, done <-chan struct{}) error {
	var ev keyEvent
	for {
		if err := binary.Read(r, binary.LittleEndian, &ev); nil != err {
			return err
		}
		if ev.Type != evKey || ev.Value == valueRepeat {
			continue
		}
		lane, ok := lanes(ev.Code)
		if !ok {
			continue
		}
		direction := game.Down
		if ev.Value == valueUp {
			direction = game.Up
		}
		select {
		case events <- game.Input{Lane: lane, Direction: direction, Time: clock()}:
		case <-done:
			return os.ErrClosed
		}
	}
}

// device stops its reader before closing the file, so a reader blocked on a
// full channel still returns.
type device struct {
	file *os.File
	done chan struct{}
	once sync.Once
}

func (d *device) Close() error {
	d.once.Do(func() { close(d.done) })
	return d.file.Close()
}

// ReadDevice reads key presses and releases from an evdev device such as
// /dev/input/event3 until the device is closed.
func ReadDevice(path string, lanes LaneMap, clock Clock, events chan<- game.Input) (io.Closer, error) {
	file, err := os.Open(path)
	if nil != err {
		return nil, err
	}
	d := &device{file: file, done: make(chan struct{})}
	go func() {
		err := decode(file, lanes, clock, events, d.done)
		if !errors.Is(err, os.ErrClosed) {
			log.Println(err, "unable to read keyboard input")
		}
	}()
	return d, nil
}

// Package input turns key presses from the terminal or a linux input
// device into lane inputs stamped on the session clock.
package input

import (
	"errors"
	"time"

	"git.lost.host/meutraa/receptor/internal/game"
)

var ErrUnsupported = errors.New("input devices are only readable on linux")

// Clock is the frame clock inputs are stamped with.
type Clock func() time.Duration

// Since is a Clock counting from start.
func Since(start time.Time) Clock {
	return func() time.Duration {
		return time.Since(start)
	}
}

// LaneMap finds the lane a key belongs to.
type LaneMap func(code uint16) (int, bool)

// Tap is a press and an immediate release, for sources that never see the
// key go up.
func Tap(lane int, at time.Duration) [2]game.Input {
	return [2]game.Input{
		{Lane: lane, Direction: game.Down, Time: at},
		{Lane: lane, Direction: game.Up, Time: at},
	}
}

package game

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrLane = errors.New("lane out of range")
	ErrHold = errors.New("negative hold duration")
	ErrID   = errors.New("duplicate note id")
)

type Note struct {
	ID      int
	Lane    int           // The receptor the note travels towards
	Time    time.Duration // The time the note should be hit, chart offset removed
	Hold    time.Duration // How long the note should be held, 0 for taps
	Texture string
	Type    string
}

func (n *Note) IsHold() bool {
	return n.Hold > 0
}

// End is the time the note should be released.
func (n *Note) End() time.Duration {
	return n.Time + n.Hold
}

func (n *Note) Validate(lanes int) error {
	if n.Lane < 0 || n.Lane >= lanes {
		return fmt.Errorf("lane %d of %d: %w", n.Lane, lanes, ErrLane)
	}
	if n.Hold < 0 {
		return fmt.Errorf("hold %v: %w", n.Hold, ErrHold)
	}
	return nil
}

package game

import "time"

type Direction uint8

const (
	Down Direction = iota
	Up
)

func (d Direction) String() string {
	if d == Up {
		return "up"
	}
	return "down"
}

type Input struct {
	Lane      int
	Direction Direction
	Time      time.Duration
}

package game

import (
	"math"
	"time"
)

// Milliseconds converts a chart millisecond value to the nearest nanosecond.
func Milliseconds(ms float64) time.Duration {
	return time.Duration(math.Round(ms * float64(time.Millisecond)))
}

func ToMilliseconds(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// Timing is the tempo of a song. A step is a quarter of a beat.
type Timing struct {
	BPM float64
}

func (t Timing) Beat() time.Duration {
	if t.BPM <= 0 {
		return 0
	}
	return time.Duration(math.Round(60 * float64(time.Second) / t.BPM))
}

func (t Timing) Step() time.Duration {
	if t.BPM <= 0 {
		return 0
	}
	return time.Duration(math.Round(15 * float64(time.Second) / t.BPM))
}

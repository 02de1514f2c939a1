package scheduler

import "time"

const (
	// Line is the approach fraction of a note sitting on the hit bar.
	Line = 0.87
	// Terminal is the fraction past which an unjudged note is missed.
	Terminal = 1.0
)

// Approach is the normalised position of something due at t when the song is
// at elapsed: 0 when it spawns lookahead beats early, Line when it is due and
// past Terminal shortly after. Gameplay and the editor both position notes
// with this and nothing else.
func Approach(t, elapsed, beat time.Duration, lookahead float64) float64 {
	window := lookahead * float64(beat)
	if window <= 0 {
		return Line
	}
	return Line * (1 + float64(elapsed-t)/window)
}

// Clamp limits a fraction to the drawable range.
func Clamp(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

package score

import (
	"crypto/sha256"
	"encoding/base64"
	"time"

	"git.lost.host/meutraa/receptor/internal/game"
)

// Store keeps the input of finished runs so they can be re-scored.
type Store interface {
	// Save a finished run under its chart sum
	Save(run *Run) error

	// Load every run of the chart identified by sum, oldest first
	Load(sum string) ([]Run, error)

	Close() error
}

// Run is everything needed to replay a session deterministically.
// Runs stored before Lookahead and Lanes were recorded load them as zero.
type Run struct {
	Sum       string
	BPM       float64
	Offset    time.Duration
	Lookahead float64
	Lanes     int
	Inputs    []game.Input
}

// Hash identifies a chart by the bytes it was loaded from.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return base64.StdEncoding.EncodeToString(sum[:])
}

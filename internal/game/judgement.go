package game

import (
	"errors"
	"fmt"
	"time"
)

type Rank uint8

const (
	Perfect Rank = iota
	Great
	Good
	Bad
	Miss
)

const RankCount = int(Miss) + 1

var rankNames = [RankCount]string{"Perfect", "Great", "Good", "Bad", "Miss"}

func (r Rank) String() string {
	if int(r) < RankCount {
		return rankNames[r]
	}
	return fmt.Sprintf("Rank(%d)", uint8(r))
}

// A note can only be judged while note.Time - now lies in [-LateWindow, EarlyWindow].
const (
	EarlyWindow = 250 * time.Millisecond
	LateWindow  = 133330 * time.Microsecond
)

var ErrWindows = errors.New("judgement windows must be strictly increasing")

type Judgement struct {
	Rank Rank
	Time time.Duration // Largest absolute distance that still earns Rank
	Name string
}

// Windows is the judgement table, ordered from the strictest rank.
type Windows []Judgement

func DefaultWindows() Windows {
	return Windows{
		{Rank: Perfect, Time: Milliseconds(50), Name: "Perfect"},
		{Rank: Great, Time: Milliseconds(100), Name: "Great"},
		{Rank: Good, Time: Milliseconds(116.67), Name: "Good"},
		{Rank: Bad, Time: Milliseconds(133.3), Name: "Bad"},
	}
}

func (w Windows) Validate() error {
	if len(w) == 0 {
		return ErrWindows
	}
	for i := 1; i < len(w); i++ {
		if w[i].Time <= w[i-1].Time {
			return fmt.Errorf("%v after %v: %w", w[i].Time, w[i-1].Time, ErrWindows)
		}
	}
	return nil
}

// Classify returns the rank of the first window the distance falls under.
func (w Windows) Classify(distance time.Duration) Rank {
	if distance < 0 {
		distance = -distance
	}
	for _, j := range w {
		if distance <= j.Time {
			return j.Rank
		}
	}
	return Miss
}

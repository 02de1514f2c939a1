package score

import (
	"math"
	"time"

	"git.lost.host/meutraa/receptor/internal/game"
)

// Accuracy is the running aggregate of a chart's judgements. Score is
// derived from Total and Counts alone.
type Accuracy struct {
	Total  int
	Counts [game.RankCount]int
}

func (a *Accuracy) Add(r game.Rank) {
	if int(r) < game.RankCount {
		a.Counts[r]++
	}
}

// Judged is the number of notes with a final rank.
func (a Accuracy) Judged() int {
	judged := 0
	for _, c := range a.Counts {
		judged += c
	}
	return judged
}

// Score weighs perfects at 300, greats 200, goods 100, bads 50, and counts
// the chart's unjudged notes as perfects so a run starts at 1.
func (a Accuracy) Score() float64 {
	n, c := a.Total, a.Counts
	den := 300 * (n + a.Judged())
	if den == 0 {
		return 1
	}
	num := 300*(n+c[game.Perfect]) + 200*c[game.Great] + 100*c[game.Good] + 50*c[game.Bad]
	return float64(num) / float64(den)
}

// Stats tracks the spread of press timing errors.
type Stats struct {
	Count int
	mean  float64
	m2    float64
}

func (s *Stats) Add(delta time.Duration) {
	s.Count++
	x := float64(delta)
	d := x - s.mean
	s.mean += d / float64(s.Count)
	s.m2 += d * (x - s.mean)
}

func (s Stats) Mean() time.Duration {
	return time.Duration(math.Round(s.mean))
}

func (s Stats) StdDev() time.Duration {
	if s.Count < 2 {
		return 0
	}
	return time.Duration(math.Round(math.Sqrt(s.m2 / float64(s.Count-1))))
}

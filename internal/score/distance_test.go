package score

import (
	"testing"
	"time"

	"git.lost.host/meutraa/receptor/internal/game"
)

var result time.Duration

func BenchmarkDistance(b *testing.B) {
	total := time.Millisecond * 0
	n := game.Note{Time: time.Millisecond * 12456}
	at := time.Millisecond * 13456
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		total += Distance(&n, at)
	}

	result = total
}

func TestDistance(t *testing.T) {
	for i := -500; i < 500; i++ {
		n := game.Note{Time: 10 * time.Second}
		at := n.Time - time.Duration(i)*time.Millisecond
		if d := Distance(&n, at); d != time.Duration(i)*time.Millisecond {
			t.Log("      note:", n.Time)
			t.Log("  hit time:", at)
			t.Log("  distance:", d)
			t.Fail()
		}
	}
}

var rankTests = map[time.Duration]game.Rank{
	0:                          game.Perfect,
	game.Milliseconds(50):      game.Perfect,
	game.Milliseconds(-50):     game.Perfect,
	game.Milliseconds(50.001):  game.Great,
	game.Milliseconds(100):     game.Great,
	game.Milliseconds(-116.67): game.Good,
	game.Milliseconds(116.68):  game.Bad,
	game.Milliseconds(133.3):   game.Bad,
	game.Milliseconds(-133.31): game.Miss,
	game.Milliseconds(200):     game.Miss,
}

func TestClassify(t *testing.T) {
	windows := game.DefaultWindows()
	for delta, expected := range rankTests {
		if rank := windows.Classify(delta); rank != expected {
			t.Log("delta   ", delta)
			t.Log("rank    ", rank)
			t.Log("expected", expected)
			t.Fail()
		}
	}
}

func TestClassifyIsMonotonic(t *testing.T) {
	windows := game.DefaultWindows()
	last := game.Perfect
	for d := time.Duration(0); d <= 300*time.Millisecond; d += 10 * time.Microsecond {
		for _, delta := range []time.Duration{d, -d} {
			rank := windows.Classify(delta)
			if rank < last {
				t.Fatalf("%v ranked %v after a closer delta ranked %v", delta, rank, last)
			}
			last = rank
		}
	}
}

func TestInWindow(t *testing.T) {
	cases := map[time.Duration]bool{
		game.EarlyWindow:     true,
		game.EarlyWindow + 1: false,
		-game.LateWindow:     true,
		-game.LateWindow - 1: false,
		0:                    true,
	}
	for delta, expected := range cases {
		if InWindow(delta) != expected {
			t.Errorf("InWindow(%v) != %v", delta, expected)
		}
	}
}

package theme

import (
	"strings"
	"testing"

	"git.lost.host/meutraa/receptor/internal/game"
)

func TestRenderNote(t *testing.T) {
	th := DefaultTheme{}
	if !strings.Contains(th.RenderNote(1), "▲") {
		t.Error("lane 1")
	}
	if th.RenderNote(9) != th.RenderNote(1) {
		t.Error("lanes do not wrap")
	}
	if !strings.Contains(th.RenderHold(2, true), holdEndSym) {
		t.Error("hold end")
	}
}

func TestRenderRank(t *testing.T) {
	th := DefaultTheme{}
	for r := game.Perfect; r <= game.Miss; r++ {
		if !strings.Contains(th.RenderRank(r), r.String()) {
			t.Errorf("%v", r)
		}
	}
	if !strings.Contains(th.RenderRank(game.Miss), "38;2;236;30;0m") {
		t.Error("miss is not red")
	}
}

func TestRenderMark(t *testing.T) {
	th := DefaultTheme{}
	if !strings.Contains(th.RenderMark(game.Great, 2), "╯") {
		t.Error("corner 2")
	}
	if th.RenderMark(game.Bad, 4) != th.RenderMark(game.Bad, 0) {
		t.Error("corners do not wrap")
	}
}

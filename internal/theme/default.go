package theme

import (
	"image/color"

	"git.lost.host/meutraa/receptor/internal/game"
	"git.lost.host/meutraa/receptor/internal/render"
)

type DefaultTheme struct {
}

func (t *DefaultTheme) RenderNote(lane int) string {
	return render.Paint(laneColor(lane), syms[lane%len(syms)])
}

func (t *DefaultTheme) RenderHold(lane int, end bool) string {
	sym := holdSym
	if end {
		sym = holdEndSym
	}
	c := laneColor(lane)
	c.R, c.G, c.B = c.R/2, c.G/2, c.B/2
	return render.Paint(c, sym)
}

func (t *DefaultTheme) RenderHitField(lane int) string {
	return barSyms[lane%len(barSyms)]
}

func (t *DefaultTheme) RenderRank(rank game.Rank) string {
	c, ok := rankColors[rank]
	if !ok {
		c = white
	}
	return render.Paint(c, rank.String())
}

func (t *DefaultTheme) RenderMark(rank game.Rank, corner int) string {
	c, ok := rankColors[rank]
	if !ok {
		c = white
	}
	return render.Paint(c, markSyms[corner&3])
}

func (t *DefaultTheme) RenderCell(row int, selected bool) string {
	if selected {
		return render.Paint(white, cellSelectedSym)
	}
	if row%4 == 0 {
		return render.Paint(grey, beatSym)
	}
	return render.Paint(grey, cellSym)
}

const (
	holdSym         = "┃"
	holdEndSym      = "╹"
	beatSym         = "┼"
	cellSym         = "·"
	cellSelectedSym = "◇"
)

var (
	white = color.RGBA{255, 255, 255, 255}
	grey  = color.RGBA{106, 106, 106, 255}

	// One per spoke, clockwise from the top left
	syms     = [...]string{"◤", "▲", "◥", "▶", "◢", "▼", "◣", "◀"}
	markSyms = [...]string{"╭", "╮", "╯", "╰"}
	barSyms  = [...]string{"-", "-", "-", "-", "-", "-", "-", "-"}

	laneColors = [...]color.RGBA{
		{236, 30, 0, 255},    // red
		{0, 118, 236, 255},   // blue
		{106, 0, 236, 255},   // purple
		{236, 195, 0, 255},   // yellow
		{236, 0, 106, 255},   // pink
		{236, 128, 0, 255},   // orange
		{173, 236, 236, 255}, // light blue
		{0, 236, 128, 255},   // green
	}

	rankColors = map[game.Rank]color.RGBA{
		game.Perfect: {173, 236, 236, 255},
		game.Great:   {0, 236, 128, 255},
		game.Good:    {236, 195, 0, 255},
		game.Bad:     {236, 128, 0, 255},
		game.Miss:    {236, 30, 0, 255},
	}
)

func laneColor(lane int) color.RGBA {
	if lane < 0 {
		return white
	}
	return laneColors[lane%len(laneColors)]
}

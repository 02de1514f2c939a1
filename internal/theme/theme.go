package theme

import "git.lost.host/meutraa/receptor/internal/game"

type Theme interface {
	RenderNote(lane int) string
	RenderHold(lane int, end bool) string
	RenderHitField(lane int) string
	RenderRank(rank game.Rank) string
	// RenderMark is one corner (0 to 3, clockwise from the top left) of the
	// frame drawn around a judged receptor
	RenderMark(rank game.Rank, corner int) string
	RenderCell(row int, selected bool) string
}

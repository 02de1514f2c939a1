package parser

import "git.lost.host/meutraa/receptor/internal/game"

type Parser interface {
	Parse(data []byte) (*game.Chart, error)
	Write(chart *game.Chart) ([]byte, error)
}

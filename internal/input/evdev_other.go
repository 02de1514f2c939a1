//go:build !linux

package input

import (
	"io"

	"git.lost.host/meutraa/receptor/internal/game"
)

func ReadDevice(path string, lanes LaneMap, clock Clock, events chan<- game.Input) (io.Closer, error) {
	return nil, ErrUnsupported
}

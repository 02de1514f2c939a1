package render

import (
	"image/color"
	"time"
)

type Renderer interface {
	Init() error
	Deinit() error
	Size() (columns, rows int, err error)
	AddDecoration(col, row int, content string, frames int)
	// RenderLoop calls render once per period with the time since start
	// until it returns false
	RenderLoop(start time.Time, period time.Duration, render func(ts time.Duration) bool)
	Fill(row, column int, message string)
	FillColor(row, column int, color color.RGBA, message string)
	Clear()
}

package testdata

import (
	"time"

	"git.lost.host/meutraa/receptor/internal/game"
)

// Data is a canonical chart file for a 120 bpm song with a 10ms offset.
const Data = `{
	"offset": 10,
	"note0": [0, 0, 1010, 0, "note", ""],
	"note1": [1, 3, 1510, 0, "note", ""],
	"note2": [2, 4, 1510, 0, "note", ""],
	"note3": [3, 1, 2010, 500, "note", ""],
	"note4": [4, 7, 3010.5, 0, "note", "curve"],
	"note5": [5, 2, 4010, 250.25, "note_alt", ""]
}
`

const BPM = 120

// GetChart is the chart Data decodes to.
func GetChart() *game.Chart {
	ms := time.Millisecond
	return &game.Chart{
		Offset: 10 * ms,
		Lanes:  game.DefaultLanes,
		Notes: []game.Note{
			{ID: 0, Lane: 0, Time: 1000 * ms, Texture: "note"},
			{ID: 1, Lane: 3, Time: 1500 * ms, Texture: "note"},
			{ID: 2, Lane: 4, Time: 1500 * ms, Texture: "note"},
			{ID: 3, Lane: 1, Time: 2000 * ms, Hold: 500 * ms, Texture: "note"},
			{ID: 4, Lane: 7, Time: 3000*ms + 500*time.Microsecond, Texture: "note", Type: "curve"},
			{ID: 5, Lane: 2, Time: 4000 * ms, Hold: 250*ms + 250*time.Microsecond, Texture: "note_alt"},
		},
	}
}

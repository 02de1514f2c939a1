package editor

type Point struct {
	X, Y float64
}

type Rect struct {
	X, Y, W, H float64
}

func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

// Layout places lanes as spokes around a centre. Notes travel from their
// lane's spawn point towards the centre.
type Layout struct {
	Center    Point
	Receptors []Point
	Spawns    []Point
	NoteSize  float64
}

// Clockwise from the top left.
var spokes = [...]Point{{-1, -1}, {0, -1}, {1, -1}, {1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}}

// DefaultLayout is the 1280x720 playfield. Lanes past the eighth reuse the
// spokes further out.
func DefaultLayout(lanes int) Layout {
	l := Layout{
		Center:   Point{1280/2 - 35, 720 / 2},
		NoteSize: 64,
	}
	for lane := 0; lane < lanes; lane++ {
		d := spokes[lane%len(spokes)]
		ring := float64(1 + lane/len(spokes))
		receptor := Point{l.Center.X + 50*ring*d.X, l.Center.Y + 50*ring*d.Y}
		l.Receptors = append(l.Receptors, receptor)
		l.Spawns = append(l.Spawns, Point{receptor.X + 650*d.X, receptor.Y + 650*d.Y})
	}
	return l
}

func (l Layout) Lanes() int {
	return len(l.Spawns)
}

// Position of something in lane at approach fraction f.
func (l Layout) Position(lane int, f float64) Point {
	s := l.Spawns[lane]
	return Point{s.X + (l.Center.X-s.X)*f, s.Y + (l.Center.Y-s.Y)*f}
}

// Bounds is the hit box of a note in lane at approach fraction f.
func (l Layout) Bounds(lane int, f float64) Rect {
	p := l.Position(lane, f)
	return Rect{p.X - l.NoteSize/2, p.Y - l.NoteSize/2, l.NoteSize, l.NoteSize}
}

// The editor draws pieces with approach fractions in this range.
const (
	VisibleFrom = 0.1
	VisibleTo   = 0.88
)

func Visible(f float64) bool {
	return f >= VisibleFrom && f <= VisibleTo
}

package game

import (
	"sort"
	"time"
)

const DefaultLanes = 8

// Chart is the arena of note events for one playable arrangement.
// Notes are kept ordered by Time, and a note is addressed by its index.
type Chart struct {
	Offset time.Duration // Applied to every note at load, re-added at save
	Lanes  int
	Notes  []Note
}

func (c *Chart) NoteCount() int {
	return len(c.Notes)
}

func (c *Chart) HoldCount() int {
	count := 0
	for i := range c.Notes {
		if c.Notes[i].IsHold() {
			count++
		}
	}
	return count
}

// Sort orders notes by time, keeping the existing order of simultaneous notes.
func (c *Chart) Sort() {
	sort.SliceStable(c.Notes, func(i, j int) bool {
		return c.Notes[i].Time < c.Notes[j].Time
	})
}

// Index builds the id to arena index lookup table.
func (c *Chart) Index() map[int]int {
	index := make(map[int]int, len(c.Notes))
	for i := range c.Notes {
		index[c.Notes[i].ID] = i
	}
	return index
}

func (c *Chart) Find(id int) (int, bool) {
	for i := range c.Notes {
		if c.Notes[i].ID == id {
			return i, true
		}
	}
	return -1, false
}

func (c *Chart) NextID() int {
	next := 0
	for i := range c.Notes {
		if c.Notes[i].ID >= next {
			next = c.Notes[i].ID + 1
		}
	}
	return next
}

// Insert validates n, gives it a fresh id and places it after every note
// at or before its time. The new arena index is returned.
func (c *Chart) Insert(n Note) (int, error) {
	if err := n.Validate(c.Lanes); nil != err {
		return -1, err
	}
	n.ID = c.NextID()
	i := sort.Search(len(c.Notes), func(i int) bool {
		return c.Notes[i].Time > n.Time
	})
	c.Notes = append(c.Notes, Note{})
	copy(c.Notes[i+1:], c.Notes[i:])
	c.Notes[i] = n
	return i, nil
}

func (c *Chart) Remove(id int) bool {
	i, ok := c.Find(id)
	if !ok {
		return false
	}
	c.Notes = append(c.Notes[:i], c.Notes[i+1:]...)
	return true
}

// Length is the time the last note is released.
func (c *Chart) Length() time.Duration {
	var end time.Duration
	for i := range c.Notes {
		if e := c.Notes[i].End(); e > end {
			end = e
		}
	}
	return end
}

func (c *Chart) Clone() *Chart {
	notes := make([]Note, len(c.Notes))
	copy(notes, c.Notes)
	return &Chart{
		Offset: c.Offset,
		Lanes:  c.Lanes,
		Notes:  notes,
	}
}

// Package playback implements the step cursor used to scrub through a trace.
package playback

import "sort"

// Cursor is the current step index of a loaded trace. It always stays within
// [0, Len()-1]; every move that would leave that range is a no-op.
type Cursor struct {
	index      int
	length     int
	collisions []int
}

// New returns a cursor over length steps positioned on the first collision,
// or on step 0 when there is none. collisions must be strictly increasing.
// It returns nil when length is not positive.
func New(length int, collisions []int) *Cursor {
	if length <= 0 {
		return nil
	}
	c := &Cursor{
		length:     length,
		collisions: append([]int(nil), collisions...),
	}
	if len(c.collisions) > 0 {
		c.index = c.collisions[0]
	}
	return c
}

func (c *Cursor) Index() int { return c.index }

func (c *Cursor) Len() int { return c.length }

// Collisions returns the collision step indices the cursor navigates.
func (c *Cursor) Collisions() []int { return c.collisions }

// Next moves one step forward and reports whether the cursor moved.
func (c *Cursor) Next() bool {
	return c.Seek(c.index+1) != -1
}

// Prev moves one step back and reports whether the cursor moved.
func (c *Cursor) Prev() bool {
	return c.Seek(c.index-1) != -1
}

// Advance moves n steps (negative for backwards), clamped to the trace.
func (c *Cursor) Advance(n int) bool {
	return c.Seek(c.index+n) != -1
}

// Seek clamps i into range and moves there. It returns the previous index,
// or -1 when the cursor did not move.
func (c *Cursor) Seek(i int) int {
	i = clamp(i, 0, c.length-1)
	if i == c.index {
		return -1
	}
	prev := c.index
	c.index = i
	return prev
}

func (c *Cursor) First() bool { return c.Seek(0) != -1 }

func (c *Cursor) Last() bool { return c.Seek(c.length-1) != -1 }

// NextCollision returns the smallest collision index strictly after the
// cursor.
func (c *Cursor) NextCollision() (int, bool) {
	i := sort.SearchInts(c.collisions, c.index+1)
	if i >= len(c.collisions) {
		return 0, false
	}
	return c.collisions[i], true
}

// PrevCollision returns the largest collision index strictly before the
// cursor.
func (c *Cursor) PrevCollision() (int, bool) {
	i := sort.SearchInts(c.collisions, c.index) - 1
	if i < 0 {
		return 0, false
	}
	return c.collisions[i], true
}

// JumpToNextCollision moves to the next collision step. With none ahead the
// cursor stays where it is.
func (c *Cursor) JumpToNextCollision() bool {
	i, ok := c.NextCollision()
	if !ok {
		return false
	}
	c.index = i
	return true
}

// JumpToPrevCollision moves to the previous collision step. With none behind
// the cursor stays where it is.
func (c *Cursor) JumpToPrevCollision() bool {
	i, ok := c.PrevCollision()
	if !ok {
		return false
	}
	c.index = i
	return true
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

package graphics

import "math"

// Point is a signed cell coordinate
type Point struct {
	X, Y int
}

// Size is a cell extent
type Size struct {
	Width, Height int
}

// Rect is an inclusive cell rectangle
type Rect struct {
	Left, Top, Right, Bottom int
}

// NewRect creates a rect from inclusive corners, swapping inverted coordinates
func NewRect(left, top, right, bottom int) Rect {
	if left > right {
		left, right = right, left
	}
	if top > bottom {
		top, bottom = bottom, top
	}
	return Rect{Left: left, Top: top, Right: right, Bottom: bottom}
}

// RectWithSize creates a rect from a corner and a size, minimum size is 1x1
func RectWithSize(x, y, width, height int) Rect {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	return Rect{Left: x, Top: y, Right: spanEnd(x, width), Bottom: spanEnd(y, height)}
}

// spanEnd is the inclusive end of length cells from start, saturating at math.MaxInt
func spanEnd(start, length int) int {
	if start > math.MaxInt-length+1 {
		return math.MaxInt
	}
	return start + length - 1
}

// Width returns the number of columns
func (r Rect) Width() int {
	return r.Right - r.Left + 1
}

// Height returns the number of rows
func (r Rect) Height() int {
	return r.Bottom - r.Top + 1
}

// Contains reports whether (x,y) lies inside r
func (r Rect) Contains(x, y int) bool {
	return x >= r.Left && x <= r.Right && y >= r.Top && y <= r.Bottom
}

// ClipArea is an inclusive rectangle that may be empty
type ClipArea struct {
	Left, Top, Right, Bottom int
	visible                  bool
}

// NewClipArea creates a clip area
func NewClipArea(left, top, right, bottom int) ClipArea {
	var c ClipArea
	c.Set(left, top, right, bottom)
	return c
}

// Set replaces the bounds and recomputes visibility
func (c *ClipArea) Set(left, top, right, bottom int) {
	c.Left = left
	c.Top = top
	c.Right = right
	c.Bottom = bottom
	c.visible = left <= right && top <= bottom
}

// Visible reports whether the area contains at least one cell
func (c ClipArea) Visible() bool {
	return c.visible
}

// Contains reports whether (x,y) lies inside a visible area
func (c ClipArea) Contains(x, y int) bool {
	return c.visible && x >= c.Left && x <= c.Right && y >= c.Top && y <= c.Bottom
}

// ContainsY reports whether row y crosses a visible area
func (c ClipArea) ContainsY(y int) bool {
	return c.visible && y >= c.Top && y <= c.Bottom
}

// IntersectWith shrinks c to its intersection with other
func (c *ClipArea) IntersectWith(other ClipArea) {
	c.Set(
		max(c.Left, other.Left),
		max(c.Top, other.Top),
		min(c.Right, other.Right),
		min(c.Bottom, other.Bottom),
	)
}

// Cursor is the caret position of a surface
type Cursor struct {
	X, Y    int
	visible bool
}

// Set moves and shows the cursor
func (c *Cursor) Set(x, y int) {
	c.X = x
	c.Y = y
	c.visible = true
}

// Hide hides the cursor, position is kept
func (c *Cursor) Hide() {
	c.visible = false
}

// Visible reports cursor visibility
func (c Cursor) Visible() bool {
	return c.visible
}

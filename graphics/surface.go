package graphics

import (
	"hash/fnv"
	"strings"
)

const (
	MaxSurfaceWidth  = 10000
	MaxSurfaceHeight = 10000
)

// Surface is an owned row-major grid of Characters
// All writes are translated by the origin and then clipped, out-of-clip writes are dropped
type Surface struct {
	width      int
	height     int
	chars      []Character
	cursor     Cursor
	origin     Point
	baseOrigin Point
	clip       ClipArea
	baseClip   ClipArea
	rightMost  int
	bottomMost int
}

// NewSurface creates a surface filled with DefaultCharacter, dimensions are clamped to [1, 10000]
func NewSurface(width, height int) *Surface {
	s := &Surface{}
	s.Resize(width, height)
	return s
}

// Resize reallocates the buffer and resets clip, origin and cursor
func (s *Surface) Resize(width, height int) {
	w := clamp(width, 1, MaxSurfaceWidth)
	h := clamp(height, 1, MaxSurfaceHeight)
	count := w * h
	if cap(s.chars) >= count {
		s.chars = s.chars[:count]
	} else {
		s.chars = make([]Character, count)
	}
	for i := range s.chars {
		s.chars[i] = DefaultCharacter
	}
	s.width = w
	s.height = h
	s.rightMost = w - 1
	s.bottomMost = h - 1
	s.baseClip = NewClipArea(0, 0, s.rightMost, s.bottomMost)
	s.clip = s.baseClip
	s.baseOrigin = Point{}
	s.origin = Point{}
	s.cursor = Cursor{}
}

// Width returns the number of columns
func (s *Surface) Width() int {
	return s.width
}

// Height returns the number of rows
func (s *Surface) Height() int {
	return s.height
}

// Size returns width and height
func (s *Surface) Size() Size {
	return Size{Width: s.width, Height: s.height}
}

// Chars exposes the backing buffer in row-major order, callers must not resize it
func (s *Surface) Chars() []Character {
	return s.chars
}

// Cursor returns the cursor in absolute surface coordinates
func (s *Surface) Cursor() Cursor {
	return s.cursor
}

// Clip returns the active clip area
func (s *Surface) Clip() ClipArea {
	return s.clip
}

// Origin returns the active translation
func (s *Surface) Origin() Point {
	return s.origin
}

// coordsToPosition translates, clips and returns the buffer index
func (s *Surface) coordsToPosition(x, y int) (int, bool) {
	x += s.origin.X
	y += s.origin.Y
	if !s.clip.Contains(x, y) {
		return 0, false
	}
	return y*s.width + x, true
}

// --- Origin and clipping ---

// SetOrigin translates subsequent writes by (x,y) relative to the base origin
func (s *Surface) SetOrigin(x, y int) {
	s.origin.X = x + s.baseOrigin.X
	s.origin.Y = y + s.baseOrigin.Y
}

// ResetOrigin returns to the base origin
func (s *Surface) ResetOrigin() {
	s.origin = s.baseOrigin
}

// SetBaseOrigin sets the origin a nested drawing context starts from
func (s *Surface) SetBaseOrigin(x, y int) {
	s.baseOrigin = Point{X: x, Y: y}
}

// SetClip restricts writes to the intersection of the rectangle with the base clip
func (s *Surface) SetClip(left, top, right, bottom int) {
	s.clip.Set(
		max(s.baseClip.Left, left),
		max(s.baseClip.Top, top),
		min(s.baseClip.Right, right),
		min(s.baseClip.Bottom, bottom),
	)
}

// ResetClip returns to the base clip
func (s *Surface) ResetClip() {
	s.clip = s.baseClip
}

// SetBaseClip sets the outer clip of a nested drawing context, bounded by the surface
func (s *Surface) SetBaseClip(left, top, right, bottom int) {
	s.baseClip.Set(
		max(0, left),
		max(0, top),
		min(s.rightMost, right),
		min(s.bottomMost, bottom),
	)
	s.clip.IntersectWith(s.baseClip)
}

// --- Cursor ---

// SetCursor moves the cursor, hiding it when the translated position is clipped
func (s *Surface) SetCursor(x, y int) {
	x += s.origin.X
	y += s.origin.Y
	if s.clip.Contains(x, y) {
		s.cursor.Set(x, y)
	} else {
		s.cursor.Hide()
	}
}

// HideCursor hides the cursor
func (s *Surface) HideCursor() {
	s.cursor.Hide()
}

// --- Cell access ---

// Set merges ch into the cell at (x,y)
func (s *Surface) Set(x, y int, ch Character) {
	if pos, ok := s.coordsToPosition(x, y); ok {
		s.chars[pos].Set(ch)
	}
}

// WriteChar is Set under the name used by drawing code
func (s *Surface) WriteChar(x, y int, ch Character) {
	s.Set(x, y, ch)
}

// Get returns the cell at (x,y) if it is inside the clip
func (s *Surface) Get(x, y int) (Character, bool) {
	pos, ok := s.coordsToPosition(x, y)
	if !ok {
		return Character{}, false
	}
	return s.chars[pos], true
}

// Clear merges ch into every cell of the clip area
func (s *Surface) Clear(ch Character) {
	if !s.clip.Visible() {
		return
	}
	if s.clip.Left == 0 && s.clip.Top == 0 && s.clip.Right == s.rightMost && s.clip.Bottom == s.bottomMost {
		for i := range s.chars {
			s.chars[i].Set(ch)
		}
		return
	}
	rowLen := s.clip.Right - s.clip.Left + 1
	pos := s.clip.Top*s.width + s.clip.Left
	for y := s.clip.Top; y <= s.clip.Bottom; y++ {
		row := s.chars[pos : pos+rowLen]
		for i := range row {
			row[i].Set(ch)
		}
		pos += s.width
	}
}

// --- Fills ---

// visibleColumns narrows [left,right] to the columns inside the clip
func (s *Surface) visibleColumns(left, right int) (int, int, bool) {
	left = max(left, s.clip.Left-s.origin.X)
	right = min(right, s.clip.Right-s.origin.X)
	return left, right, s.clip.Visible() && left <= right
}

// visibleRows narrows [top,bottom] to the rows inside the clip
func (s *Surface) visibleRows(top, bottom int) (int, int, bool) {
	top = max(top, s.clip.Top-s.origin.Y)
	bottom = min(bottom, s.clip.Bottom-s.origin.Y)
	return top, bottom, s.clip.Visible() && top <= bottom
}

// FillRect merges ch into every cell of r
func (s *Surface) FillRect(r Rect, ch Character) {
	left, right, ok := s.visibleColumns(r.Left, r.Right)
	if !ok {
		return
	}
	top, bottom, ok := s.visibleRows(r.Top, r.Bottom)
	if !ok {
		return
	}
	for y := top; y <= bottom; y++ {
		for x := left; x <= right; x++ {
			s.Set(x, y, ch)
		}
	}
}

// FillRectWithSize fills a width x height rectangle starting at (x,y)
func (s *Surface) FillRectWithSize(x, y, width, height int, ch Character) {
	if width > 0 && height > 0 {
		s.FillRect(Rect{Left: x, Top: y, Right: spanEnd(x, width), Bottom: spanEnd(y, height)}, ch)
	}
}

// FillHorizontalLine fills row y from left to right inclusive
func (s *Surface) FillHorizontalLine(left, y, right int, ch Character) {
	s.FillRect(Rect{Left: left, Top: y, Right: right, Bottom: y}, ch)
}

// FillHorizontalLineWithSize fills width cells of row y starting at x
func (s *Surface) FillHorizontalLineWithSize(x, y, width int, ch Character) {
	if width > 0 {
		s.FillHorizontalLine(x, y, spanEnd(x, width), ch)
	}
}

// FillVerticalLine fills column x from top to bottom inclusive
func (s *Surface) FillVerticalLine(x, top, bottom int, ch Character) {
	s.FillRect(Rect{Left: x, Top: top, Right: x, Bottom: bottom}, ch)
}

// FillVerticalLineWithSize fills height cells of column x starting at y
func (s *Surface) FillVerticalLineWithSize(x, y, height int, ch Character) {
	if height > 0 {
		s.FillVerticalLine(x, y, spanEnd(y, height), ch)
	}
}

// --- Lines and rectangles ---

// DrawHorizontalLine draws a line glyph from left to right inclusive
func (s *Surface) DrawHorizontalLine(left, y, right int, line LineType, attr CharAttribute) {
	s.FillHorizontalLine(left, y, right, WithAttributes(line.Horizontal(), attr))
}

// DrawHorizontalLineWithSize draws width line glyphs starting at (x,y)
func (s *Surface) DrawHorizontalLineWithSize(x, y, width int, line LineType, attr CharAttribute) {
	if width > 0 {
		s.DrawHorizontalLine(x, y, spanEnd(x, width), line, attr)
	}
}

// DrawVerticalLine draws a line glyph from top to bottom inclusive
func (s *Surface) DrawVerticalLine(x, top, bottom int, line LineType, attr CharAttribute) {
	s.FillVerticalLine(x, top, bottom, WithAttributes(line.Vertical(), attr))
}

// DrawVerticalLineWithSize draws height line glyphs starting at (x,y)
func (s *Surface) DrawVerticalLineWithSize(x, y, height int, line LineType, attr CharAttribute) {
	if height > 0 {
		s.DrawVerticalLine(x, y, spanEnd(y, height), line, attr)
	}
}

// DrawRect draws the border of r: edges first, then the four corners
func (s *Surface) DrawRect(r Rect, line LineType, attr CharAttribute) {
	if r.Left > r.Right || r.Top > r.Bottom {
		return
	}
	lc := line.chars()
	ch := WithAttributes(' ', attr)

	ch.Code = lc.top
	s.FillHorizontalLine(r.Left, r.Top, r.Right, ch)
	ch.Code = lc.bottom
	s.FillHorizontalLine(r.Left, r.Bottom, r.Right, ch)
	ch.Code = lc.left
	s.FillVerticalLine(r.Left, r.Top, r.Bottom, ch)
	ch.Code = lc.right
	s.FillVerticalLine(r.Right, r.Top, r.Bottom, ch)

	ch.Code = lc.topLeft
	s.Set(r.Left, r.Top, ch)
	ch.Code = lc.topRight
	s.Set(r.Right, r.Top, ch)
	ch.Code = lc.bottomRight
	s.Set(r.Right, r.Bottom, ch)
	ch.Code = lc.bottomLeft
	s.Set(r.Left, r.Bottom, ch)
}

// DrawRectWithSize draws a width x height border starting at (x,y)
func (s *Surface) DrawRectWithSize(x, y, width, height int, line LineType, attr CharAttribute) {
	if width > 0 && height > 0 {
		s.DrawRect(Rect{Left: x, Top: y, Right: spanEnd(x, width), Bottom: spanEnd(y, height)}, line, attr)
	}
}

// --- Compositing ---

// DrawSurface merges every cell of src into s with src's top-left at (x,y)
func (s *Surface) DrawSurface(x, y int, src *Surface) {
	if !s.clip.Visible() {
		return
	}
	idx := 0
	for sy := 0; sy < src.height; sy++ {
		for sx := 0; sx < src.width; sx++ {
			s.Set(x+sx, y+sy, src.chars[idx])
			idx++
		}
	}
}

// --- Inspection ---

// Hash returns the FNV-1a 64 hash of the buffer
// Each cell contributes code (4 bytes LE), fg, bg, flags high byte, flags low byte
func (s *Surface) Hash() uint64 {
	h := fnv.New64a()
	var buf [8]byte
	for _, ch := range s.chars {
		code := uint32(ch.Code)
		buf[0] = byte(code)
		buf[1] = byte(code >> 8)
		buf[2] = byte(code >> 16)
		buf[3] = byte(code >> 24)
		buf[4] = byte(ch.Fg)
		buf[5] = byte(ch.Bg)
		buf[6] = byte(ch.Flags >> 8)
		buf[7] = byte(ch.Flags)
		h.Write(buf[:])
	}
	return h.Sum64()
}

// Lines returns the glyphs of every row, code 0 rendered as a space
func (s *Surface) Lines() []string {
	lines := make([]string, s.height)
	var sb strings.Builder
	for y := 0; y < s.height; y++ {
		sb.Reset()
		for _, ch := range s.chars[y*s.width : (y+1)*s.width] {
			if ch.Code == 0 {
				sb.WriteByte(' ')
			} else {
				sb.WriteRune(ch.Code)
			}
		}
		lines[y] = sb.String()
	}
	return lines
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

package terminal

import (
	"unicode/utf16"

	"github.com/lixenwraith/gridterm/graphics"
)

// Console attribute bits beyond the 4-bit fg and bg nibbles
const commonLvbUnderscore = 0x8000

// charInfo has the memory layout of the Win32 CHAR_INFO structure
type charInfo struct {
	Char       uint16
	Attributes uint16
}

// charInfoBlock is a run of rows written with one WriteConsoleOutputW call
type charInfoBlock struct {
	Top    int // first screen row
	Rows   int
	Width  int // buffer width in CHAR_INFO units, exceeds the screen width by the row's surrogate count
	Offset int // index of the first unit in charInfoBuffer.cells
}

// charInfoBuffer converts surfaces to CHAR_INFO rows
// Capacity is width*height*2 so surrogate pairs never force a reallocation during a frame
type charInfoBuffer struct {
	width, height int
	cells         []charInfo
	blocks        []charInfoBlock
}

func newCharInfoBuffer(size graphics.Size) *charInfoBuffer {
	b := &charInfoBuffer{}
	b.resize(size)
	return b
}

func (b *charInfoBuffer) resize(size graphics.Size) {
	b.width, b.height = size.Width, size.Height
	b.cells = make([]charInfo, 0, size.Width*size.Height*2)
	b.blocks = b.blocks[:0]
}

// consoleAttribute packs colors and underline, Transparent maps to 0
func consoleAttribute(ch graphics.Character) uint16 {
	var attr uint16
	if ch.Fg < graphics.PaletteSize {
		attr = uint16(ch.Fg)
	}
	if ch.Bg < graphics.PaletteSize {
		attr |= uint16(ch.Bg) << 4
	}
	if ch.Flags&(graphics.Underline|graphics.DoubleUnderline|graphics.CurlyUnderline|graphics.DottedUnderline) != 0 {
		attr |= commonLvbUnderscore
	}
	return attr
}

// encode fills cells and blocks for s
// Rows without surrogate pairs are merged into shared blocks, every row that carries
// pairs becomes its own block widened by its carry count
func (b *charInfoBuffer) encode(s *graphics.Surface) {
	b.cells = b.cells[:0]
	b.blocks = b.blocks[:0]
	w, h := s.Width(), s.Height()
	chars := s.Chars()

	for y := 0; y < h; y++ {
		offset := len(b.cells)
		carry := 0
		for _, ch := range chars[y*w : (y+1)*w] {
			attr := consoleAttribute(ch)
			code := ch.Code
			if code < 0x20 {
				code = ' '
			}
			if code >= 0x10000 {
				hi, lo := utf16.EncodeRune(code)
				b.cells = append(b.cells, charInfo{uint16(hi), attr}, charInfo{uint16(lo), attr})
				carry++
				continue
			}
			b.cells = append(b.cells, charInfo{uint16(code), attr})
		}

		last := len(b.blocks) - 1
		if carry == 0 && last >= 0 && b.blocks[last].Width == w && b.blocks[last].Top+b.blocks[last].Rows == y {
			b.blocks[last].Rows++
			continue
		}
		b.blocks = append(b.blocks, charInfoBlock{Top: y, Rows: 1, Width: w + carry, Offset: offset})
	}
}

// block returns the cells of one block
func (b *charInfoBuffer) block(i int) []charInfo {
	blk := b.blocks[i]
	return b.cells[blk.Offset : blk.Offset+blk.Rows*blk.Width]
}

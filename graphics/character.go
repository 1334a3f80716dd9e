package graphics

import "strings"

// CharFlags is a bit set of glyph attributes
type CharFlags uint16

const (
	Bold CharFlags = 1 << iota
	Italic
	Underline
	StrikeThrough
	DoubleUnderline
	CurlyUnderline
	DottedUnderline

	NoFlags CharFlags = 0
)

var flagNames = []struct {
	flag CharFlags
	name string
}{
	{Bold, "Bold"},
	{Italic, "Italic"},
	{Underline, "Underline"},
	{StrikeThrough, "StrikeThrough"},
	{DoubleUnderline, "DoubleUnderline"},
	{CurlyUnderline, "CurlyUnderline"},
	{DottedUnderline, "DottedUnderline"},
}

// Contains reports whether all bits of f2 are set
func (f CharFlags) Contains(f2 CharFlags) bool {
	return f&f2 == f2
}

// String returns flag names joined by '|'
func (f CharFlags) String() string {
	if f == NoFlags {
		return "None"
	}
	var parts []string
	for _, fn := range flagNames {
		if f&fn.flag != 0 {
			parts = append(parts, fn.name)
		}
	}
	return strings.Join(parts, "|")
}

// CharAttribute groups the style part of a Character
type CharAttribute struct {
	Fg    Color
	Bg    Color
	Flags CharFlags
}

// DefaultAttribute is white on black without flags
var DefaultAttribute = CharAttribute{Fg: White, Bg: Black}

// NewAttribute creates a CharAttribute
func NewAttribute(fg, bg Color, flags CharFlags) CharAttribute {
	return CharAttribute{Fg: fg, Bg: bg, Flags: flags}
}

// AttributeWithColor creates a CharAttribute without flags
func AttributeWithColor(fg, bg Color) CharAttribute {
	return CharAttribute{Fg: fg, Bg: bg}
}

// Character is a single styled cell
// Code 0 and Transparent colors are "keep existing" markers for Set
type Character struct {
	Code  rune
	Fg    Color
	Bg    Color
	Flags CharFlags
}

// DefaultCharacter is a space, white on black
var DefaultCharacter = Character{Code: ' ', Fg: White, Bg: Black}

// NewCharacter creates a fully specified Character
func NewCharacter(code rune, fg, bg Color, flags CharFlags) Character {
	return Character{Code: code, Fg: fg, Bg: bg, Flags: flags}
}

// WithChar creates a Character that only replaces the glyph
func WithChar(code rune) Character {
	return Character{Code: code, Fg: Transparent, Bg: Transparent}
}

// WithColor creates a Character that only replaces colors
func WithColor(fg, bg Color) Character {
	return Character{Fg: fg, Bg: bg}
}

// WithAttributes creates a Character from a glyph and an attribute
func WithAttributes(code rune, attr CharAttribute) Character {
	return Character{Code: code, Fg: attr.Fg, Bg: attr.Bg, Flags: attr.Flags}
}

// Set merges ch into c
func (c *Character) Set(ch Character) {
	if ch.Code != 0 {
		c.Code = ch.Code
	}
	if ch.Fg != Transparent {
		c.Fg = ch.Fg
	}
	if ch.Bg != Transparent {
		c.Bg = ch.Bg
	}
	c.Flags = ch.Flags
}

// Attribute returns the style part of c
func (c Character) Attribute() CharAttribute {
	return CharAttribute{Fg: c.Fg, Bg: c.Bg, Flags: c.Flags}
}

// SpecialChar names glyphs used by controls and renderers
type SpecialChar uint8

const (
	BoxTopLeftCornerDoubleLine SpecialChar = iota
	BoxTopRightCornerDoubleLine
	BoxBottomRightCornerDoubleLine
	BoxBottomLeftCornerDoubleLine
	BoxHorizontalDoubleLine
	BoxVerticalDoubleLine
	BoxCrossDoubleLine

	BoxTopLeftCornerSingleLine
	BoxTopRightCornerSingleLine
	BoxBottomRightCornerSingleLine
	BoxBottomLeftCornerSingleLine
	BoxHorizontalSingleLine
	BoxVerticalSingleLine
	BoxCrossSingleLine

	ArrowUp
	ArrowDown
	ArrowLeft
	ArrowRight
	ArrowUpDown
	ArrowLeftRight

	Block0
	Block25
	Block50
	Block75
	Block100
	BlockUpperHalf
	BlockLowerHalf
	BlockLeftHalf
	BlockRightHalf
	BlockCentered

	TriangleUp
	TriangleDown
	TriangleLeft
	TriangleRight

	CircleFilled
	CircleEmpty
	CheckMark
	MenuSign
	FourPoints
	ThreePointsHorizontal

	BoxMiddleLeft
	BoxMiddleTop
	BoxMiddleRight
	BoxMiddleBottom

	specialCharCount
)

var specialChars = [specialCharCount]rune{
	'╔', '╗', '╝', '╚', '═', '║', '╬', // double line box
	'┌', '┐', '┘', '└', '─', '│', '┼', // single line box
	'↑', '↓', '←', '→', '↕', '↔', // arrows
	' ', '░', '▒', '▓', '█', '▀', '▄', '▌', '▐', '■', // blocks
	'▲', '▼', '◄', '►', // triangles
	'●', '○', '√', '≡', '⁞', '…', // symbols
	'├', '┬', '┤', '┴', // middle single line box
}

// Rune returns the glyph for s
func (s SpecialChar) Rune() rune {
	if s >= specialCharCount {
		return '?'
	}
	return specialChars[s]
}

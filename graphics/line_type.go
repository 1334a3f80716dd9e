package graphics

// LineType specifies box drawing character style
type LineType uint8

const (
	LineSingle      LineType = iota // ┌─┐│┘└
	LineDouble                      // ╔═╗║╝╚
	LineSingleThick                 // ┏━┓┃┛┗
	LineBorder                      // ▄▄▄█▀▀
	LineAscii                       // +-+|+
	LineAsciiRound                  // /-\|/\
	LineSingleRound                 // ╭─╮│╯╰
)

// lineChars holds the glyph set of one LineType
type lineChars struct {
	topLeft     rune
	top         rune
	topRight    rune
	right       rune
	bottomRight rune
	bottom      rune
	bottomLeft  rune
	left        rune
	horizontal  rune
	vertical    rune
}

var lineTypeChars = [...]lineChars{
	LineSingle:      {'┌', '─', '┐', '│', '┘', '─', '└', '│', '─', '│'},
	LineDouble:      {'╔', '═', '╗', '║', '╝', '═', '╚', '║', '═', '║'},
	LineSingleThick: {'┏', '━', '┓', '┃', '┛', '━', '┗', '┃', '━', '┃'},
	LineBorder:      {'▄', '▄', '▄', '█', '▀', '▀', '▀', '█', '█', '█'},
	LineAscii:       {'+', '-', '+', '|', '+', '-', '+', '|', '-', '|'},
	LineAsciiRound:  {'/', '-', '\\', '|', '/', '-', '\\', '|', '-', '|'},
	LineSingleRound: {'╭', '─', '╮', '│', '╯', '─', '╰', '│', '─', '│'},
}

func (l LineType) chars() *lineChars {
	if int(l) >= len(lineTypeChars) {
		l = LineSingle
	}
	return &lineTypeChars[l]
}

// Horizontal returns the glyph used for horizontal lines
func (l LineType) Horizontal() rune {
	return l.chars().horizontal
}

// Vertical returns the glyph used for vertical lines
func (l LineType) Vertical() rune {
	return l.chars().vertical
}

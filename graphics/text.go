package graphics

import (
	"strings"
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// TextAlignment positions text relative to TextFormat.X
type TextAlignment uint8

const (
	AlignLeft   TextAlignment = iota // text starts at X
	AlignCenter                      // text is centered on X
	AlignRight                       // text ends at X
)

// TextWrap selects how multi-line text is broken when Width is set
type TextWrap uint8

const (
	WrapNone TextWrap = iota
	WrapCharacter
	WrapWord
)

// TextFormat describes how WriteText lays out a string
type TextFormat struct {
	X, Y  int
	Attr  CharAttribute
	Align TextAlignment

	// HotKey highlights the rune at HotKeyPos (rune index in the text) with HotKeyAttr
	HotKey     bool
	HotKeyPos  int
	HotKeyAttr CharAttribute

	// CharsCount overrides the rune count used for alignment of single-line text, 0 means computed
	CharsCount int
	// Width limits the visible columns, 0 means unlimited
	Width int

	MultiLine bool
	Wrap      TextWrap
}

// NewTextFormat creates a left aligned single-line format
func NewTextFormat(x, y int, attr CharAttribute) TextFormat {
	return TextFormat{X: x, Y: y, Attr: attr}
}

// WriteString writes text starting at (x,y), in multi-line mode '\n' and '\r' start a new row at x
func (s *Surface) WriteString(x, y int, text string, attr CharAttribute, multiLine bool) {
	c := WithAttributes(' ', attr)
	if !multiLine {
		if !s.clip.ContainsY(y + s.origin.Y) {
			return
		}
		px := x
		for _, r := range text {
			c.Code = r
			s.Set(px, y, c)
			px++
		}
		return
	}
	px, py := x, y
	for _, r := range text {
		if r == '\n' || r == '\r' {
			py++
			px = x
			continue
		}
		c.Code = r
		s.Set(px, py, c)
		px++
	}
}

// WriteText writes text according to format
func (s *Surface) WriteText(text string, format TextFormat) {
	if !format.MultiLine {
		count := format.CharsCount
		if count <= 0 {
			count = utf8.RuneCountInString(text)
		}
		s.writeTextLine(text, format.Y, count, 0, &format)
		return
	}
	for i, ln := range layoutLines(text, format.Width, format.Wrap) {
		s.writeTextLine(ln.text, format.Y+i, utf8.RuneCountInString(ln.text), ln.start, &format)
	}
}

// writeTextLine draws one aligned line, startIndex is the rune index of the line in the full text
func (s *Surface) writeTextLine(text string, y, count, startIndex int, format *TextFormat) {
	if !s.clip.ContainsY(y + s.origin.Y) {
		return
	}
	width := count
	if format.Width > 0 && format.Width < count {
		width = format.Width
	}

	var x, leftMargin int
	switch format.Align {
	case AlignCenter:
		x = format.X - count/2
		leftMargin = format.X - width/2
	case AlignRight:
		x = format.X + 1 - count
		leftMargin = format.X + 1 - width
	default:
		x = format.X
		leftMargin = format.X
	}
	rightMargin := leftMargin + width

	c := WithAttributes(' ', format.Attr)
	idx := startIndex
	for _, r := range text {
		if x >= leftMargin && x < rightMargin {
			if format.HotKey && idx == format.HotKeyPos {
				s.Set(x, y, WithAttributes(r, format.HotKeyAttr))
			} else {
				c.Code = r
				s.Set(x, y, c)
			}
		}
		x++
		idx++
	}
}

// textLine is one laid out row and the rune index where it starts in the source text
type textLine struct {
	text  string
	start int
}

// layoutLines splits text on line breaks and wraps each paragraph to width
func layoutLines(text string, width int, wrap TextWrap) []textLine {
	var lines []textLine
	start := 0
	for {
		end := strings.IndexAny(text, "\r\n")
		para := text
		if end >= 0 {
			para = text[:end]
		}
		if width <= 0 || wrap == WrapNone {
			lines = append(lines, textLine{text: para, start: start})
		} else if wrap == WrapCharacter {
			lines = append(lines, wrapCharacters(para, width, start)...)
		} else {
			lines = append(lines, wrapWords(para, width, start)...)
		}
		if end < 0 {
			break
		}
		start += utf8.RuneCountInString(para) + 1
		text = text[end+1:]
	}
	return lines
}

// wrapCharacters cuts a paragraph every width runes
func wrapCharacters(para string, width, start int) []textLine {
	runes := []rune(para)
	if len(runes) == 0 {
		return []textLine{{start: start}}
	}
	var lines []textLine
	for i := 0; i < len(runes); i += width {
		end := min(i+width, len(runes))
		lines = append(lines, textLine{text: string(runes[i:end]), start: start + i})
	}
	return lines
}

// wrapWords breaks a paragraph at Unicode line break opportunities
// Segments wider than width are cut by character, trailing spaces of each row are dropped
func wrapWords(para string, width, start int) []textLine {
	if para == "" {
		return []textLine{{start: start}}
	}
	var lines []textLine
	var cur []rune
	curStart := start
	pos := start

	flush := func() {
		lines = append(lines, textLine{text: strings.TrimRight(string(cur), " "), start: curStart})
		cur = cur[:0]
	}

	state := -1
	rest := para
	for len(rest) > 0 {
		var segment string
		segment, rest, _, state = uniseg.FirstLineSegmentInString(rest, state)
		seg := []rune(segment)
		fit := len([]rune(strings.TrimRight(segment, " ")))

		if len(cur) > 0 && len(cur)+fit > width {
			flush()
		}
		for fit > width {
			if len(cur) > 0 {
				flush()
			}
			curStart = pos
			cur = append(cur, seg[:width]...)
			pos += width
			seg = seg[width:]
			fit -= width
			flush()
		}
		if len(cur) == 0 {
			if fit == 0 {
				// spaces left over from a cut word never start a row
				pos += len(seg)
				continue
			}
			curStart = pos
		}
		cur = append(cur, seg...)
		pos += len(seg)
	}
	if len(cur) > 0 || len(lines) == 0 {
		flush()
	}
	return lines
}

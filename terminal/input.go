package terminal

import (
	"bytes"
	"time"
	"unicode/utf8"
)

// escapeTimeout is the duration to wait after ESC to distinguish
// standalone ESC from escape sequence start
const escapeTimeout = 50 * time.Millisecond

// doubleClickInterval bounds two presses of the same button at the same cell
const doubleClickInterval = 500 * time.Millisecond

var (
	pasteStart = []byte("\x1b[200~")
	pasteEnd   = []byte("\x1b[201~")
)

// inputParser turns a raw terminal byte stream into SystemEvents
// Not safe for concurrent use, each backend owns one from its reader goroutine
type inputParser struct {
	emit func(SystemEvent)
	now  func() time.Time

	// Persistent buffer for stream assembly, holds partial sequences between reads
	buf []byte

	inPaste bool
	paste   []byte

	clicks clickTracker
}

// clickTracker turns two quick presses of the same button at the same cell into a double click
type clickTracker struct {
	x, y   int
	button MouseButton
	at     time.Time
}

// press records a button press and reports whether it completes a double click
func (c *clickTracker) press(x, y int, button MouseButton, now time.Time) bool {
	if c.button == button && c.x == x && c.y == y && !c.at.IsZero() && now.Sub(c.at) <= doubleClickInterval {
		c.at = time.Time{}
		return true
	}
	c.x, c.y, c.button, c.at = x, y, button, now
	return false
}

func newInputParser(emit func(SystemEvent)) *inputParser {
	return &inputParser{
		emit: emit,
		now:  time.Now,
		buf:  make([]byte, 0, 256),
	}
}

// feed appends data and emits every complete event
func (p *inputParser) feed(data []byte) {
	p.buf = append(p.buf, data...)
	consumed := p.parse(p.buf)
	if consumed > 0 {
		if consumed >= len(p.buf) {
			p.buf = p.buf[:0]
		} else {
			copy(p.buf, p.buf[consumed:])
			p.buf = p.buf[:len(p.buf)-consumed]
		}
	}
}

// flush is called when no input arrived within escapeTimeout
// A pending ESC becomes an Escape key press and the bytes after it are reparsed
func (p *inputParser) flush() {
	if p.inPaste || len(p.buf) == 0 || p.buf[0] != 0x1b {
		return
	}
	rest := append([]byte(nil), p.buf[1:]...)
	p.buf = p.buf[:0]
	p.emit(keyEvent(Key{Code: KeyEscape}, 0))
	if len(rest) > 0 {
		p.feed(rest)
	}
}

// pending reports whether a partial sequence is buffered
func (p *inputParser) pending() bool {
	return len(p.buf) > 0
}

// parse returns the number of bytes consumed, stopping on an incomplete sequence
func (p *inputParser) parse(data []byte) int {
	i := 0
	n := len(data)

	for i < n {
		if p.inPaste {
			consumed, done := p.collectPaste(data[i:])
			i += consumed
			if !done {
				return i
			}
			continue
		}

		b := data[i]

		// Fast path: printable ASCII
		if b >= 0x20 && b < 0x7f {
			r := rune(b)
			p.emit(keyEvent(KeyFromRune(r), r))
			i++
			continue
		}

		if b == 0x1b {
			// Need at least 2 bytes to determine sequence type
			if i+1 >= n {
				return i
			}
			consumed := p.parseEscape(data[i:])
			if consumed == 0 {
				return i
			}
			i += consumed
			continue
		}

		if b < 0x20 || b == 0x7f {
			if k := controlKey(b); k.Code != KeyNone {
				p.emit(keyEvent(k, 0))
			}
			i++
			continue
		}

		// UTF-8 multibyte
		seqLen := utf8SeqLen(b)
		if seqLen == 0 {
			// Invalid start byte, skip
			i++
			continue
		}
		if i+seqLen > n {
			return i
		}
		r, size := utf8.DecodeRune(data[i:])
		if r != utf8.RuneError {
			p.emit(keyEvent(KeyFromRune(r), r))
		}
		i += size
	}
	return i
}

// collectPaste accumulates pasted text until the end marker
func (p *inputParser) collectPaste(data []byte) (int, bool) {
	for i := 0; i < len(data); i++ {
		if data[i] != 0x1b {
			continue
		}
		rest := data[i:]
		if len(rest) < len(pasteEnd) {
			if bytes.HasPrefix(pasteEnd, rest) {
				p.paste = append(p.paste, data[:i]...)
				return i, false
			}
			continue
		}
		if bytes.HasPrefix(rest, pasteEnd) {
			p.paste = append(p.paste, data[:i]...)
			p.emit(SystemEvent{Type: EventPaste, Text: string(p.paste)})
			p.paste = p.paste[:0]
			p.inPaste = false
			return i + len(pasteEnd), true
		}
	}
	p.paste = append(p.paste, data...)
	return len(data), false
}

// utf8SeqLen returns expected UTF-8 sequence length from start byte, 0 if invalid
func utf8SeqLen(b byte) int {
	switch {
	case b < 0x80:
		return 1
	case b&0xe0 == 0xc0:
		return 2
	case b&0xf0 == 0xe0:
		return 3
	case b&0xf8 == 0xf0:
		return 4
	}
	return 0
}

// parseEscape handles one ESC-prefixed sequence, returns 0 on incomplete
func (p *inputParser) parseEscape(data []byte) int {
	switch data[1] {
	case 0x1b:
		// ESC ESC -> Alt+Escape
		p.emit(keyEvent(Key{Code: KeyEscape, Modifier: ModAlt}, 0))
		return 2
	case '[':
		return p.parseCSI(data)
	case 'O':
		return p.parseSS3(data)
	}

	// Alt+Control character (ESC + 0x00-0x1F)
	if data[1] < 0x20 || data[1] == 0x7f {
		k := controlKey(data[1])
		if k.Code != KeyNone {
			k.Modifier |= ModAlt
			p.emit(keyEvent(k, 0))
		}
		return 2
	}

	// Alt+printable, the character is dropped as on the console backend
	// unless no key code exists for it
	if data[1] < 0x7f {
		r := rune(data[1])
		k := KeyFromRune(r)
		k.Modifier |= ModAlt
		if k.Code != KeyNone {
			r = 0
		}
		p.emit(keyEvent(k, r))
		return 2
	}

	// ESC followed by UTF-8, treat as Escape then let the rune parse on its own
	p.emit(keyEvent(Key{Code: KeyEscape}, 0))
	return 1
}

// parseCSI parses a CSI sequence without allocation
func (p *inputParser) parseCSI(data []byte) int {
	if len(data) < 3 {
		return 0
	}

	// SGR mouse: ESC [ < Btn ; X ; Y M/m
	if data[2] == '<' {
		return p.parseSGRMouse(data)
	}

	end := 2
	maxScan := len(data)
	if maxScan > 32 {
		maxScan = 32
	}
	terminated := false
	for end < maxScan {
		b := data[end]
		end++
		if (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z') || b == '~' {
			terminated = true
			break
		}
		if b < 0x20 || b > 0x7e {
			// Malformed, drop the introducer
			return 2
		}
	}
	if !terminated {
		if maxScan == 32 {
			return 2
		}
		return 0
	}

	body := data[2:end]
	if bytes.Equal(data[:end], pasteStart) {
		p.inPaste = true
		p.paste = p.paste[:0]
		return end
	}

	if k, ok := lookupCSI(body); ok {
		p.emit(keyEvent(k, 0))
		return end
	}

	// Modified keys: "1;5A" or "3;5~"
	if k, ok := lookupModifiedCSI(body); ok {
		p.emit(keyEvent(k, 0))
	}
	// Unknown but valid CSI syntax is consumed silently
	return end
}

// lookupModifiedCSI strips the xterm modifier parameter and looks up the base sequence
func lookupModifiedCSI(body []byte) (Key, bool) {
	semi := -1
	for i, b := range body {
		if b == ';' {
			semi = i
			break
		}
	}
	if semi < 0 {
		return Key{}, false
	}
	final := body[len(body)-1]
	modParam, ok := atoi(body[semi+1 : len(body)-1])
	if !ok {
		return Key{}, false
	}

	var base [8]byte
	var bl int
	prefix := body[:semi]
	if final == '~' {
		if len(prefix)+1 > len(base) {
			return Key{}, false
		}
		bl = copy(base[:], prefix)
	} else if !(len(prefix) == 1 && prefix[0] == '1') {
		return Key{}, false
	}
	base[bl] = final
	bl++

	k, ok := lookupCSI(base[:bl])
	if !ok {
		return Key{}, false
	}
	k.Modifier |= xtermModifier(modParam)
	return k, true
}

// parseSS3 parses SS3 sequence without allocation, returns length even for unknown sequences
func (p *inputParser) parseSS3(data []byte) int {
	if len(data) < 3 {
		return 0
	}
	if k, ok := lookupSS3(data[2:3]); ok {
		p.emit(keyEvent(k, 0))
	}
	return 3
}

// parseSGRMouse parses mouse SGR sequences
func (p *inputParser) parseSGRMouse(data []byte) int {
	// Format: ESC [ < Btn ; X ; Y M/m
	// Minimum: ESC [ < 0 ; 1 ; 1 M = 10 bytes
	end := 3
	for end < len(data) && end < 32 {
		if data[end] == 'M' || data[end] == 'm' {
			break
		}
		end++
	}
	if end >= len(data) {
		if end >= 32 {
			return 3
		}
		return 0
	}
	if data[end] != 'M' && data[end] != 'm' {
		return 3
	}

	btn, x, y, ok := parseSGRParams(data[3:end])
	if !ok {
		return end + 1
	}
	// Convert to 0-indexed
	x--
	y--
	release := data[end] == 'm'

	// Bits 0-1: button (0=left, 1=middle, 2=right, 3=none)
	// Bit 5 (32): motion
	// Bit 6 (64): wheel
	buttonID := btn & 0x03
	isMotion := btn&32 != 0
	isWheel := btn&64 != 0

	if isWheel {
		dir := [4]MouseWheelDirection{WheelUp, WheelDown, WheelLeft, WheelRight}[buttonID]
		p.emit(wheelEvent(x, y, dir))
		return end + 1
	}

	button := [4]MouseButton{MouseButtonLeft, MouseButtonCenter, MouseButtonRight, MouseButtonNone}[buttonID]

	switch {
	case isMotion:
		p.emit(mouseEvent(EventMouseMove, x, y, button))
	case release || button == MouseButtonNone:
		p.emit(mouseEvent(EventMouseButtonUp, x, y, button))
	default:
		p.emit(mouseEvent(EventMouseButtonDown, x, y, button))
		if p.clicks.press(x, y, button, p.now()) {
			p.emit(mouseEvent(EventMouseDoubleClick, x, y, button))
		}
	}
	return end + 1
}

// parseSGRParams extracts btn, x, y from "Btn;X;Y" format
func parseSGRParams(data []byte) (btn, x, y int, ok bool) {
	state := 0 // 0=btn, 1=x, 2=y
	val := 0

	for _, b := range data {
		if b == ';' {
			switch state {
			case 0:
				btn = val
			case 1:
				x = val
			}
			state++
			val = 0
			if state > 2 {
				return 0, 0, 0, false
			}
		} else if b >= '0' && b <= '9' {
			val = val*10 + int(b-'0')
			if val > 9999 { // Sanity limit
				return 0, 0, 0, false
			}
		} else {
			return 0, 0, 0, false
		}
	}

	if state != 2 {
		return 0, 0, 0, false
	}
	y = val
	return btn, x, y, true
}

// atoi parses a short unsigned decimal without allocation
func atoi(b []byte) (int, bool) {
	if len(b) == 0 || len(b) > 4 {
		return 0, false
	}
	v := 0
	for _, c := range b {
		if c < '0' || c > '9' {
			return 0, false
		}
		v = v*10 + int(c-'0')
	}
	return v, true
}

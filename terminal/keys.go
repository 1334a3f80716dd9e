// @focus: #sys { io } #input { keys }
package terminal

// escapeSequence maps the unmodified body of an escape sequence to a key
// Key: sequence after ESC [ (e.g., "A" for up arrow)
type escapeSequence struct {
	seq  string
	code KeyCode
	mod  KeyModifier
}

// Known CSI sequences (ESC [ ...), modifiers are decoded separately
var csiSequences = []escapeSequence{
	// Arrow keys
	{"A", KeyUp, ModNone},
	{"B", KeyDown, ModNone},
	{"C", KeyRight, ModNone},
	{"D", KeyLeft, ModNone},
	{"Z", KeyTab, ModShift}, // Shift+Tab

	// Navigation
	{"H", KeyHome, ModNone},
	{"F", KeyEnd, ModNone},
	{"1~", KeyHome, ModNone},
	{"7~", KeyHome, ModNone},
	{"4~", KeyEnd, ModNone},
	{"8~", KeyEnd, ModNone},
	{"5~", KeyPageUp, ModNone},
	{"6~", KeyPageDown, ModNone},
	{"2~", KeyInsert, ModNone},
	{"3~", KeyDelete, ModNone},

	// Function keys (xterm)
	{"P", KeyF1, ModNone},
	{"Q", KeyF2, ModNone},
	{"R", KeyF3, ModNone},
	{"S", KeyF4, ModNone},
	{"11~", KeyF1, ModNone},
	{"12~", KeyF2, ModNone},
	{"13~", KeyF3, ModNone},
	{"14~", KeyF4, ModNone},
	{"15~", KeyF5, ModNone},
	{"17~", KeyF6, ModNone},
	{"18~", KeyF7, ModNone},
	{"19~", KeyF8, ModNone},
	{"20~", KeyF9, ModNone},
	{"21~", KeyF10, ModNone},
	{"23~", KeyF11, ModNone},
	{"24~", KeyF12, ModNone},

	// Function keys (linux console)
	{"[A", KeyF1, ModNone},
	{"[B", KeyF2, ModNone},
	{"[C", KeyF3, ModNone},
	{"[D", KeyF4, ModNone},
	{"[E", KeyF5, ModNone},
}

// SS3 sequences (ESC O ...)
var ss3Sequences = []escapeSequence{
	{"A", KeyUp, ModNone},
	{"B", KeyDown, ModNone},
	{"C", KeyRight, ModNone},
	{"D", KeyLeft, ModNone},
	{"H", KeyHome, ModNone},
	{"F", KeyEnd, ModNone},
	{"M", KeyEnter, ModNone}, // keypad enter
	{"P", KeyF1, ModNone},
	{"Q", KeyF2, ModNone},
	{"R", KeyF3, ModNone},
	{"S", KeyF4, ModNone},
}

var csiMap = buildSequenceMap(csiSequences)
var ss3Map = buildSequenceMap(ss3Sequences)

func buildSequenceMap(seqs []escapeSequence) map[string]escapeSequence {
	m := make(map[string]escapeSequence, len(seqs))
	for _, s := range seqs {
		m[s.seq] = s
	}
	return m
}

// lookupCSI performs zero-alloc map lookup via compiler optimization
// The string([]byte) conversion inline in map access does not allocate
func lookupCSI(seq []byte) (Key, bool) {
	if s, ok := csiMap[string(seq)]; ok {
		return Key{Code: s.code, Modifier: s.mod}, true
	}
	return Key{}, false
}

// lookupSS3 performs zero-alloc map lookup
func lookupSS3(seq []byte) (Key, bool) {
	if s, ok := ss3Map[string(seq)]; ok {
		return Key{Code: s.code, Modifier: s.mod}, true
	}
	return Key{}, false
}

// xtermModifier decodes the xterm modifier parameter (1 + bits Shift=1 Alt=2 Ctrl=4 Meta=8)
func xtermModifier(param int) KeyModifier {
	if param < 2 {
		return ModNone
	}
	bits := param - 1
	var m KeyModifier
	if bits&1 != 0 {
		m |= ModShift
	}
	if bits&(2|8) != 0 {
		m |= ModAlt
	}
	if bits&4 != 0 {
		m |= ModCtrl
	}
	return m
}

// controlKey maps C0 control bytes to keys
func controlKey(b byte) Key {
	switch b {
	case 0x00:
		return Key{Code: KeySpace, Modifier: ModCtrl}
	case 0x08, 0x7f:
		return Key{Code: KeyBackspace}
	case 0x09:
		return Key{Code: KeyTab}
	case 0x0a, 0x0d:
		return Key{Code: KeyEnter}
	case 0x1b:
		return Key{Code: KeyEscape}
	}
	if b >= 0x01 && b <= 0x1a {
		return Key{Code: KeyA + KeyCode(b-0x01), Modifier: ModCtrl}
	}
	// 0x1c-0x1f have no key code
	return Key{}
}

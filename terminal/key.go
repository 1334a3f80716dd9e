package terminal

import (
	"strings"

	"github.com/pkg/errors"
)

// KeyCode identifies a physical key independent of modifiers
type KeyCode uint8

const (
	KeyNone KeyCode = iota

	// Function keys
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12

	// Control keys
	KeyEnter
	KeyEscape
	KeyInsert
	KeyDelete
	KeyBackspace
	KeyTab

	// Navigation
	KeyLeft
	KeyUp
	KeyDown
	KeyRight
	KeyPageUp
	KeyPageDown
	KeyHome
	KeyEnd

	KeySpace

	// Letters
	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ

	// Digits
	KeyN0
	KeyN1
	KeyN2
	KeyN3
	KeyN4
	KeyN5
	KeyN6
	KeyN7
	KeyN8
	KeyN9

	keyCodeCount
)

// KeyModifier is a bit set of held modifier keys
type KeyModifier uint8

const (
	ModNone  KeyModifier = 0
	ModAlt   KeyModifier = 1 << 0
	ModCtrl  KeyModifier = 1 << 1
	ModShift KeyModifier = 1 << 2
)

// Key is a key code plus the modifiers held when it was pressed
type Key struct {
	Code     KeyCode
	Modifier KeyModifier
}

// NewKey creates a Key
func NewKey(code KeyCode, mod KeyModifier) Key {
	return Key{Code: code, Modifier: mod}
}

// keyCodeNames maps KeyCode constants to display names
var keyCodeNames = [keyCodeCount]string{
	KeyNone: "",
	KeyF1:   "F1", KeyF2: "F2", KeyF3: "F3", KeyF4: "F4", KeyF5: "F5", KeyF6: "F6",
	KeyF7: "F7", KeyF8: "F8", KeyF9: "F9", KeyF10: "F10", KeyF11: "F11", KeyF12: "F12",

	KeyEnter:     "Enter",
	KeyEscape:    "Escape",
	KeyInsert:    "Insert",
	KeyDelete:    "Delete",
	KeyBackspace: "Backspace",
	KeyTab:       "Tab",

	KeyLeft:     "Left",
	KeyUp:       "Up",
	KeyDown:     "Down",
	KeyRight:    "Right",
	KeyPageUp:   "PageUp",
	KeyPageDown: "PageDown",
	KeyHome:     "Home",
	KeyEnd:      "End",
	KeySpace:    "Space",

	KeyA: "A", KeyB: "B", KeyC: "C", KeyD: "D", KeyE: "E", KeyF: "F", KeyG: "G",
	KeyH: "H", KeyI: "I", KeyJ: "J", KeyK: "K", KeyL: "L", KeyM: "M", KeyN: "N",
	KeyO: "O", KeyP: "P", KeyQ: "Q", KeyR: "R", KeyS: "S", KeyT: "T", KeyU: "U",
	KeyV: "V", KeyW: "W", KeyX: "X", KeyY: "Y", KeyZ: "Z",

	KeyN0: "0", KeyN1: "1", KeyN2: "2", KeyN3: "3", KeyN4: "4",
	KeyN5: "5", KeyN6: "6", KeyN7: "7", KeyN8: "8", KeyN9: "9",
}

// nameToKeyCode is the case-insensitive reverse lookup, built from keyCodeNames
var nameToKeyCode map[string]KeyCode

func init() {
	nameToKeyCode = make(map[string]KeyCode, len(keyCodeNames)+8)
	for k, v := range keyCodeNames {
		if v != "" {
			nameToKeyCode[strings.ToLower(v)] = KeyCode(k)
		}
	}
	// Aliases
	nameToKeyCode["esc"] = KeyEscape
	nameToKeyCode["del"] = KeyDelete
	nameToKeyCode["ins"] = KeyInsert
	nameToKeyCode["return"] = KeyEnter
	nameToKeyCode["pgup"] = KeyPageUp
	nameToKeyCode["pgdn"] = KeyPageDown
}

// String returns the display name of the key code, empty for KeyNone
func (c KeyCode) String() string {
	if c < keyCodeCount {
		return keyCodeNames[c]
	}
	return ""
}

// String returns the modifier prefix, e.g. "Alt+Ctrl+"
func (m KeyModifier) String() string {
	var sb strings.Builder
	if m&ModAlt != 0 {
		sb.WriteString("Alt+")
	}
	if m&ModCtrl != 0 {
		sb.WriteString("Ctrl+")
	}
	if m&ModShift != 0 {
		sb.WriteString("Shift+")
	}
	return sb.String()
}

// String returns the key in "Alt+Ctrl+Shift+Code" form
func (k Key) String() string {
	return k.Modifier.String() + k.Code.String()
}

// IsZero reports whether no key code and no modifier is set
func (k Key) IsZero() bool {
	return k.Code == KeyNone && k.Modifier == ModNone
}

// ParseKey is the inverse of Key.String
// Modifiers may appear in any order and names are case-insensitive
func ParseKey(s string) (Key, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Key{}, errors.New("empty key name")
	}
	parts := strings.Split(s, "+")
	var k Key
	for i, p := range parts {
		p = strings.TrimSpace(p)
		last := i == len(parts)-1
		switch strings.ToLower(p) {
		case "alt":
			if !last {
				k.Modifier |= ModAlt
				continue
			}
		case "ctrl", "control":
			if !last {
				k.Modifier |= ModCtrl
				continue
			}
		case "shift":
			if !last {
				k.Modifier |= ModShift
				continue
			}
		}
		if !last {
			return Key{}, errors.Errorf("unknown modifier %q in key %q", p, s)
		}
		code, ok := nameToKeyCode[strings.ToLower(p)]
		if !ok {
			return Key{}, errors.Errorf("unknown key %q", s)
		}
		k.Code = code
	}
	return k, nil
}

// KeyFromRune maps a typed character to its key
// Upper case letters carry Shift, characters without a key code yield KeyNone
func KeyFromRune(r rune) Key {
	switch {
	case r >= 'a' && r <= 'z':
		return Key{Code: KeyA + KeyCode(r-'a')}
	case r >= 'A' && r <= 'Z':
		return Key{Code: KeyA + KeyCode(r-'A'), Modifier: ModShift}
	case r >= '0' && r <= '9':
		return Key{Code: KeyN0 + KeyCode(r-'0')}
	case r == ' ':
		return Key{Code: KeySpace}
	case r == '\t':
		return Key{Code: KeyTab}
	case r == '\r', r == '\n':
		return Key{Code: KeyEnter}
	}
	return Key{}
}

// hasCharacter reports whether a key press of this code carries a printable character
func (c KeyCode) hasCharacter() bool {
	return c == KeyNone || c >= KeySpace
}

package terminal

import (
	"fmt"
	"strings"
)

// maxScriptParams bounds the parameter list of one script command
const maxScriptParams = 4

// ScriptError reports a debug script line that could not be compiled
type ScriptError struct {
	Line   int
	Text   string
	Reason string
}

func (e *ScriptError) Error() string {
	return fmt.Sprintf("script line %d: %s: %q", e.Line, e.Reason, e.Text)
}

// scriptLine is one parsed command before its parameters are interpreted
type scriptLine struct {
	name   string
	params []string
}

func isCommandByte(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '.'
}

func isSpaceByte(b byte) bool {
	return b == ' ' || b == '\t'
}

// isWordByte accepts bare parameter characters: anything that is not a separator or quote
func isWordByte(b byte) bool {
	switch b {
	case ' ', '\t', ',', '(', ')', '\'', '"':
		return false
	}
	return true
}

func skipWhile(s string, pos int, f func(byte) bool) int {
	for pos < len(s) && f(s[pos]) {
		pos++
	}
	return pos
}

// parseScriptLine splits `Name(p1, "p 2", ...)` into name and parameters
// Quoted parameters accept \n \t \r \\ \' \" escapes
func parseScriptLine(text string) (scriptLine, string) {
	var line scriptLine
	pos := skipWhile(text, 0, isSpaceByte)
	if pos >= len(text) {
		return line, "Expecting a valid command (not an empty line)"
	}
	next := skipWhile(text, pos, isCommandByte)
	if next == pos {
		return line, "Expecting a valid command name"
	}
	line.name = text[pos:next]

	pos = skipWhile(text, next, isSpaceByte)
	if pos >= len(text) {
		return line, ""
	}
	if text[pos] != '(' {
		return line, "Expecting '(' after the command"
	}
	pos++

	expectParam := false
	for {
		pos = skipWhile(text, pos, isSpaceByte)
		if pos >= len(text) {
			return line, "Expecting ')' after the parameter list"
		}
		c := text[pos]
		switch {
		case c == ')':
			if expectParam {
				return line, "Expecting a parameter after ','"
			}
			pos = skipWhile(text, pos+1, isSpaceByte)
			if pos < len(text) {
				return line, "Unexpected characters after ')'"
			}
			return line, ""
		case c == ',':
			return line, "Expecting a parameter but found ',' separator"
		case c == '\'' || c == '"':
			if len(line.params) >= maxScriptParams {
				return line, fmt.Sprintf("Too many parameters (max allowed is %d)", maxScriptParams)
			}
			value, end, reason := parseQuoted(text, pos)
			if reason != "" {
				return line, reason
			}
			line.params = append(line.params, value)
			pos = end
		case isWordByte(c):
			if len(line.params) >= maxScriptParams {
				return line, fmt.Sprintf("Too many parameters (max allowed is %d)", maxScriptParams)
			}
			end := skipWhile(text, pos, isWordByte)
			line.params = append(line.params, text[pos:end])
			pos = end
		default:
			return line, "Invalid character (expecting a parameter)"
		}

		pos = skipWhile(text, pos, isSpaceByte)
		expectParam = false
		if pos < len(text) && text[pos] == ',' {
			pos++
			expectParam = true
		} else if pos < len(text) && text[pos] != ')' {
			return line, "Expecting ',' or ')' after a parameter"
		}
	}
}

// parseQuoted reads a quoted string starting at text[pos], returns the value and the index after the closing quote
func parseQuoted(text string, pos int) (string, int, string) {
	quote := text[pos]
	var sb strings.Builder
	for i := pos + 1; i < len(text); i++ {
		c := text[i]
		if c == quote {
			return sb.String(), i + 1, ""
		}
		if c != '\\' {
			sb.WriteByte(c)
			continue
		}
		i++
		if i >= len(text) {
			break
		}
		switch text[i] {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		case '\\', '\'', '"':
			sb.WriteByte(text[i])
		default:
			return "", 0, fmt.Sprintf("Invalid escape sequence '\\%c'", text[i])
		}
	}
	return "", 0, "Unterminated string parameter"
}

// isScriptComment reports lines the compiler skips
func isScriptComment(trimmed string) bool {
	return trimmed == "" || strings.HasPrefix(trimmed, ";") || strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "//")
}

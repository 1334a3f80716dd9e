//go:build !unix

package terminal

// DetectTrueColor is true for the Windows console and xterm.js
func DetectTrueColor() bool {
	return true
}

// resetTerminalMode is a no-op without termios
func resetTerminalMode() {}

// Package terminal connects a graphics.Surface to a concrete terminal.
//
// A Backend renders whole surfaces and produces SystemEvents. Implementations:
//   - WindowsConsole: Win32 console API, CHAR_INFO block writes
//   - Ncurses: tcell screen with a precomputed 16x16 color pair table
//   - Termios: raw mode via x/term, full frame ANSI output, stdin byte parser
//   - WebTerminal: xterm.js bridge for js/wasm builds
//   - Debug: headless scripted backend used by tests and the script runner
//
// Multi-threaded backends own exactly one reader goroutine that feeds the
// event channel passed to New. Single-threaded backends are polled through
// QuerySystemEvent. Session hides the difference.
package terminal

// Package terminal provides direct ANSI terminal control for the wireframe viewer.
//
// Features:
//   - True color (24-bit) and 256-color palette support
//   - Raw stdin input parsing with escape sequence and SGR mouse handling
//   - SIGWINCH resize detection
//   - Whole-frame writes: the renderer hands over one payload per frame
//   - Clean terminal restoration on exit/panic
//
// This package bypasses terminfo/termcap entirely, emitting direct ANSI sequences.
// Target environments: Linux, macOS, BSDs with xterm-compatible terminals.
package terminal

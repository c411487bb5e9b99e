package core

import (
	"sync/atomic"

	"github.com/lixenwraith/pepterm/terminal"
)

var crashTerminal atomic.Pointer[terminal.Terminal]

// SetCrashTerminal registers the terminal HandleCrash restores before printing
// Pass nil once the terminal has been finalized normally
func SetCrashTerminal(t terminal.Terminal) {
	if t == nil {
		crashTerminal.Store(nil)
		return
	}
	crashTerminal.Store(&t)
}

// Go runs a function in a new goroutine with panic recovery
// Use this instead of the 'go' keyword to ensure terminal cleanup on crash
func Go(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				HandleCrash(r)
			}
		}()
		fn()
	}()
}

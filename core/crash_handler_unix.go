//go:build unix

package core

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/lixenwraith/pepterm/terminal"
)

// HandleCrash is the unified panic handler that resets the terminal and prints the stack trace
func HandleCrash(r any) {
	if r == nil {
		return
	}

	if t := crashTerminal.Load(); t != nil {
		(*t).Fini()
	} else {
		// Panic before Init or after Fini
		terminal.EmergencyReset(os.Stdout)
	}

	fmt.Fprintf(os.Stderr, "\n\x1b[31mpepterm crashed: %v\x1b[0m\n", r)
	fmt.Fprintf(os.Stderr, "Stack Trace:\n%s\n", debug.Stack())

	os.Exit(1)
}

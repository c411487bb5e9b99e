package terminal

// Backend abstracts the platform terminal device
type Backend interface {
	// Init enters raw mode
	Init() error
	// Fini restores the saved mode and stops the resize watcher
	Fini()

	Size() (width, height int)

	// Write writes raw bytes to the terminal output
	Write(p []byte) error

	// Read blocks until input is available, the stop channel is closed, or an error occurs
	// A nil slice with nil error means poll timeout or stop
	Read(stopCh <-chan struct{}) ([]byte, error)

	// SetResizeHandler registers a callback for SIGWINCH
	SetResizeHandler(handler func(width, height int))
}

package terminal

import (
	"errors"
	"io"
	"os"
	"sync"

	"github.com/lixenwraith/pepterm/parameter"
)

// ErrFinalized is returned by Write after Fini
var ErrFinalized = errors.New("terminal finalized")

// Terminal provides raw-mode terminal access for a full-screen frame loop
type Terminal interface {
	// Init enters raw mode, alternate screen, hides cursor, enables mouse reporting
	Init() error

	// Fini restores terminal state. Safe to call multiple times
	Fini()

	// Size returns current terminal dimensions
	Size() (width, height int)

	// ColorMode returns the color capability frames should be encoded for
	ColorMode() ColorMode

	// Write sends one encoded frame in a single write
	Write(frame []byte) error

	// Events returns the merged input, resize and synthetic event stream
	Events() <-chan Event

	// PostEvent injects a synthetic event
	PostEvent(Event)
}

// termImpl implements Terminal using the Backend interface
type termImpl struct {
	backend   Backend
	colorMode ColorMode

	input   *inputReader
	eventCh chan Event
	stopCh  chan struct{}
	doneCh  chan struct{}

	mu          sync.Mutex
	initialized bool
	finalized   bool
}

// New creates a new Terminal instance, detecting the color mode when none is given
func New(colorMode ...ColorMode) Terminal {
	return newTerm(newBackend(), colorMode...)
}

func newTerm(b Backend, colorMode ...ColorMode) *termImpl {
	var c ColorMode
	if len(colorMode) == 0 {
		c = DetectColorMode()
	} else {
		c = colorMode[0]
	}
	return &termImpl{
		backend:   b,
		colorMode: c,
		eventCh:   make(chan Event, parameter.EventQueueSize),
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// Init enters raw mode and sets up terminal
func (t *termImpl) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.initialized {
		return nil
	}

	if err := t.backend.Init(); err != nil {
		return err
	}

	t.input = newInputReader(t.backend)

	t.backend.SetResizeHandler(func(w, h int) {
		t.PostEvent(Event{Type: EventResize, Width: w, Height: h})
	})

	seq := make([]byte, 0, 128)
	seq = append(seq, csiAltScreenEnter...)
	seq = append(seq, csiCursorHide...)
	// Full-width rows must not wrap or scroll at the bottom-right corner
	seq = append(seq, csiAutoWrapOff...)
	seq = append(seq, csiMouseSGROn...)
	seq = append(seq, csiMouseClickOn...)
	seq = append(seq, csiMouseDragOn...)
	seq = append(seq, csiClear...)
	if err := t.backend.Write(seq); err != nil {
		t.backend.Fini()
		return err
	}

	t.input.start()
	go t.pump()

	t.initialized = true
	return nil
}

// pump forwards reader events into the merged channel until stopped
func (t *termImpl) pump() {
	defer close(t.doneCh)
	in := t.input.events()
	for {
		select {
		case <-t.stopCh:
			return
		case ev := <-in:
			select {
			case t.eventCh <- ev:
			case <-t.stopCh:
				return
			}
			if ev.Type == EventError || ev.Type == EventClosed {
				return
			}
		}
	}
}

// Fini restores terminal state
func (t *termImpl) Fini() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.initialized || t.finalized {
		return
	}
	t.finalized = true

	close(t.stopCh)
	if t.input != nil {
		t.input.stop()
	}
	<-t.doneCh

	seq := make([]byte, 0, 128)
	seq = append(seq, csiMouseDragOff...)
	seq = append(seq, csiMouseClickOff...)
	seq = append(seq, csiMouseSGROff...)
	seq = append(seq, CSISGR0...)
	seq = append(seq, csiCursorShow...)
	seq = append(seq, csiAltScreenExit...)
	// Re-enable wrap after leaving the alternate screen so the main buffer gets it
	seq = append(seq, csiAutoWrapOn...)
	_ = t.backend.Write(seq)

	t.backend.Fini()
}

// Size returns current terminal dimensions
func (t *termImpl) Size() (int, int) {
	return t.backend.Size()
}

// ColorMode returns the configured color capability
func (t *termImpl) ColorMode() ColorMode {
	return t.colorMode
}

// Write sends a complete frame; holds the lock so Fini cannot interleave
func (t *termImpl) Write(frame []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.finalized {
		return ErrFinalized
	}
	return t.backend.Write(frame)
}

// Events returns the event channel
func (t *termImpl) Events() <-chan Event {
	return t.eventCh
}

// PostEvent injects a synthetic event, dropping it when the queue is full
func (t *termImpl) PostEvent(ev Event) {
	select {
	case t.eventCh <- ev:
	default:
	}
}

// EmergencyReset attempts to restore terminal to sane state
// Call this from panic recovery if Fini() cannot be called normally
func EmergencyReset(w io.Writer) {
	w.Write(csiMouseDragOff)
	w.Write(csiMouseClickOff)
	w.Write(csiMouseSGROff)

	w.Write(csiCursorShow)
	w.Write(csiAltScreenExit)
	w.Write(CSISGR0)
	w.Write(csiAutoWrapOn)
	w.Write(csiRIS)

	if f, ok := w.(*os.File); ok {
		f.Sync()
	}

	// Escape sequences alone don't restore termios
	resetTerminalMode()
}

package terminal

import (
	"fmt"
	"os"
	"runtime/debug"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/lixenwraith/pepterm/parameter"
)

// EventType distinguishes input event categories
type EventType uint8

const (
	EventKey EventType = iota
	EventResize
	EventMouse
	EventError  // Read error
	EventClosed // Input closed
)

// Event represents a terminal input event
type Event struct {
	Type      EventType
	Key       Key
	Rune      rune
	Modifiers Modifier
	Width     int   // For EventResize
	Height    int   // For EventResize
	Err       error // For EventError

	MouseX      int
	MouseY      int
	MouseBtn    MouseButton
	MouseAction MouseAction
}

// escapeTimeout is how long a lone ESC waits for a sequence to follow
const escapeTimeout = 50 * time.Millisecond

// inputReader turns backend reads into events on a channel
type inputReader struct {
	backend Backend
	eventCh chan Event
	stopCh  chan struct{}
	doneCh  chan struct{}
	mu      sync.Mutex
	running bool

	// Persistent buffer for stream assembly, keeps partial sequences across reads
	buf     []byte
	escSeen time.Time
}

func newInputReader(backend Backend) *inputReader {
	return &inputReader{
		backend: backend,
		eventCh: make(chan Event, parameter.EventQueueSize),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
		buf:     make([]byte, 0, 256),
	}
}

func (r *inputReader) start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		return
	}
	r.running = true
	go r.readLoop()
}

func (r *inputReader) stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	r.running = false
	r.mu.Unlock()

	close(r.stopCh)
	// Don't block forever if the read is stuck
	select {
	case <-r.doneCh:
	case <-time.After(200 * time.Millisecond):
	}
}

func (r *inputReader) events() <-chan Event {
	return r.eventCh
}

func (r *inputReader) readLoop() {
	defer close(r.doneCh)

	defer func() {
		if rec := recover(); rec != nil {
			EmergencyReset(os.Stdout)
			fmt.Fprintf(os.Stderr, "\r\n\x1b[31mINPUT READER CRASHED: %v\x1b[0m\r\n", rec)
			fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())
			os.Exit(1)
		}
	}()

	for {
		data, err := r.backend.Read(r.stopCh)
		if err != nil {
			r.sendEvent(Event{Type: EventError, Err: err})
			return
		}

		if len(data) == 0 {
			select {
			case <-r.stopCh:
				r.sendEvent(Event{Type: EventClosed})
				return
			default:
			}
			// Poll timeout: flush a standalone ESC once it has waited long enough
			if len(r.buf) == 1 && r.buf[0] == 0x1b && time.Since(r.escSeen) >= escapeTimeout {
				r.sendEvent(Event{Type: EventKey, Key: KeyEscape})
				r.buf = r.buf[:0]
			}
			continue
		}

		if len(r.buf) == 0 && data[0] == 0x1b {
			r.escSeen = time.Now()
		}
		r.buf = append(r.buf, data...)

		consumed := decodeInput(r.buf, r.sendEvent)
		if consumed > 0 {
			n := copy(r.buf, r.buf[consumed:])
			r.buf = r.buf[:n]
		}
	}
}

// sendEvent sends an event to the channel, non-blocking
func (r *inputReader) sendEvent(ev Event) {
	select {
	case r.eventCh <- ev:
	default:
		// Channel full, drop: the frame loop drains every tick
	}
}

// decodeInput parses raw bytes into events and returns the number of bytes consumed
// Stops at the first incomplete sequence so the caller can retry with more data
func decodeInput(data []byte, emit func(Event)) int {
	i := 0
	for i < len(data) {
		b := data[i]

		switch {
		case b >= 0x20 && b < 0x7f:
			emit(Event{Type: EventKey, Key: KeyRune, Rune: rune(b)})
			i++

		case b == 0x1b:
			if i+1 >= len(data) {
				return i
			}
			n, ev := decodeEscape(data[i:])
			if n == 0 {
				return i
			}
			if ev.Type != EventKey || ev.Key != KeyNone {
				emit(ev)
			}
			i += n

		case b == 0x7f || b == 0x08:
			emit(Event{Type: EventKey, Key: KeyBackspace})
			i++

		case b < 0x20:
			emit(decodeControl(b))
			i++

		default:
			if !utf8.FullRune(data[i:]) {
				return i
			}
			rn, size := utf8.DecodeRune(data[i:])
			if rn != utf8.RuneError {
				emit(Event{Type: EventKey, Key: KeyRune, Rune: rn})
			}
			i += size
		}
	}
	return i
}

// decodeControl maps C0 control bytes to keys
func decodeControl(b byte) Event {
	switch b {
	case 0x09:
		return Event{Type: EventKey, Key: KeyTab}
	case 0x0a, 0x0d:
		return Event{Type: EventKey, Key: KeyEnter}
	case 0x1b:
		return Event{Type: EventKey, Key: KeyEscape}
	}
	if b >= 0x01 && b <= 0x1a {
		return Event{Type: EventKey, Key: KeyCtrl, Rune: rune('a' + b - 1), Modifiers: ModCtrl}
	}
	return Event{Type: EventKey, Key: KeyNone}
}

// decodeEscape parses a sequence starting with ESC, returns 0 when incomplete
func decodeEscape(data []byte) (int, Event) {
	switch {
	case data[1] == 0x1b:
		return 2, Event{Type: EventKey, Key: KeyEscape, Modifiers: ModAlt}
	case data[1] == '[':
		return decodeCSI(data)
	case data[1] == 'O':
		if len(data) < 3 {
			return 0, Event{}
		}
		if key, ok := csiFinalKeys[data[2]]; ok {
			return 3, Event{Type: EventKey, Key: key}
		}
		return 3, Event{Type: EventKey, Key: KeyNone}
	case data[1] >= 0x20 && data[1] < 0x7f:
		return 2, Event{Type: EventKey, Key: KeyRune, Rune: rune(data[1]), Modifiers: ModAlt}
	case data[1] < 0x20:
		ev := decodeControl(data[1])
		ev.Modifiers |= ModAlt
		return 2, ev
	}
	return 2, Event{Type: EventKey, Key: KeyNone}
}

// decodeCSI parses ESC [ params final
func decodeCSI(data []byte) (int, Event) {
	if len(data) < 3 {
		return 0, Event{}
	}
	if data[2] == '<' {
		return decodeSGRMouse(data)
	}

	end := 2
	for end < len(data) {
		b := data[end]
		if b >= 0x40 && b <= 0x7e {
			break
		}
		if b < 0x20 || b > 0x3f {
			// Not a parameter byte: malformed, drop what we scanned
			return end, Event{Type: EventKey, Key: KeyNone}
		}
		end++
		if end-2 > 16 {
			return end, Event{Type: EventKey, Key: KeyNone}
		}
	}
	if end >= len(data) {
		return 0, Event{}
	}

	params := parseParams(data[2:end])
	final := data[end]
	n := end + 1

	if final == '~' {
		if len(params) == 0 {
			return n, Event{Type: EventKey, Key: KeyNone}
		}
		key, ok := csiTildeKeys[params[0]]
		if !ok {
			return n, Event{Type: EventKey, Key: KeyNone}
		}
		var mod Modifier
		if len(params) > 1 {
			mod = modifierFromParam(params[1])
		}
		return n, Event{Type: EventKey, Key: key, Modifiers: mod}
	}

	if key, ok := csiFinalKeys[final]; ok {
		var mod Modifier
		if len(params) > 1 {
			mod = modifierFromParam(params[1])
		}
		return n, Event{Type: EventKey, Key: key, Modifiers: mod}
	}
	return n, Event{Type: EventKey, Key: KeyNone}
}

// parseParams splits "1;5" into integers, empty fields decode as 0
func parseParams(data []byte) []int {
	if len(data) == 0 {
		return nil
	}
	params := make([]int, 0, 3)
	val := 0
	for _, b := range data {
		switch {
		case b == ';':
			params = append(params, val)
			val = 0
		case b >= '0' && b <= '9':
			if val < 100000 {
				val = val*10 + int(b-'0')
			}
		}
	}
	return append(params, val)
}

// decodeSGRMouse parses ESC [ < Btn ; X ; Y M/m
func decodeSGRMouse(data []byte) (int, Event) {
	end := 3
	for end < len(data) && data[end] != 'M' && data[end] != 'm' {
		b := data[end]
		if (b < '0' || b > '9') && b != ';' {
			return end, Event{Type: EventKey, Key: KeyNone}
		}
		end++
		if end > 32 {
			return end, Event{Type: EventKey, Key: KeyNone}
		}
	}
	if end >= len(data) {
		return 0, Event{}
	}

	params := parseParams(data[3:end])
	if len(params) != 3 {
		return end + 1, Event{Type: EventKey, Key: KeyNone}
	}
	btn, x, y := params[0], params[1], params[2]

	ev := Event{Type: EventMouse, MouseX: x - 1, MouseY: y - 1}

	// Bits 0-1 button, 2 shift, 3 alt, 4 ctrl, 5 motion, 6 wheel
	buttonID := btn & 0x03
	isMotion := btn&32 != 0
	isWheel := btn&64 != 0

	if isWheel {
		if buttonID == 0 {
			ev.MouseBtn = MouseBtnWheelUp
		} else {
			ev.MouseBtn = MouseBtnWheelDown
		}
		ev.MouseAction = MouseActionPress
	} else {
		switch buttonID {
		case 0:
			ev.MouseBtn = MouseBtnLeft
		case 1:
			ev.MouseBtn = MouseBtnMiddle
		case 2:
			ev.MouseBtn = MouseBtnRight
		}
		switch {
		case data[end] == 'm':
			ev.MouseAction = MouseActionRelease
		case isMotion && buttonID != 3:
			ev.MouseAction = MouseActionDrag
		case isMotion:
			ev.MouseAction = MouseActionMove
		default:
			ev.MouseAction = MouseActionPress
		}
	}

	if btn&4 != 0 {
		ev.Modifiers |= ModShift
	}
	if btn&8 != 0 {
		ev.Modifiers |= ModAlt
	}
	if btn&16 != 0 {
		ev.Modifiers |= ModCtrl
	}

	return end + 1, ev
}

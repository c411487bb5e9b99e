package input

import (
	"github.com/lixenwraith/pepterm/terminal"
)

// Delta is everything the view needs from one frame of input
type Delta struct {
	// DragX and DragY are the pointer displacement in cells since the frame started
	// measured at the last press or drag, DragY grows upward
	DragX, DragY int

	// Active is set when any press or drag arrived this frame
	Active bool

	// Pan is set when the last press or drag carried Shift
	Pan bool

	// Dragging is set when an unshifted drag arrived, which takes over from auto-rotate
	Dragging bool

	// Zoom counts wheel notches, positive moves the camera away
	Zoom int

	// Intents in arrival order
	Intents []IntentType

	// Resized is set when the terminal reported a size change
	Resized bool

	// Closed is set when the input stream ended or failed
	Closed bool
	Err    error
}

// Has reports whether the delta carries intent
func (d *Delta) Has(intent IntentType) bool {
	for _, it := range d.Intents {
		if it == intent {
			return true
		}
	}
	return false
}

// Reducer folds events into a Delta per frame
// The pointer position persists across frames so a drag continuing into the next frame measures from where it left off
type Reducer struct {
	keys *KeyTable

	lastX, lastY   int
	startX, startY int
	delta          Delta
}

// NewReducer returns a reducer bound to a key table, nil uses the defaults
func NewReducer(keys *KeyTable) *Reducer {
	if keys == nil {
		keys = DefaultKeyTable()
	}
	return &Reducer{keys: keys}
}

// Feed folds one event into the current frame
func (r *Reducer) Feed(ev terminal.Event) {
	switch ev.Type {
	case terminal.EventKey:
		if it := r.keys.Lookup(ev); it != IntentNone {
			r.delta.Intents = append(r.delta.Intents, it)
		}

	case terminal.EventMouse:
		r.feedMouse(ev)

	case terminal.EventResize:
		r.delta.Resized = true

	case terminal.EventClosed:
		r.delta.Closed = true

	case terminal.EventError:
		r.delta.Closed = true
		r.delta.Err = ev.Err
	}
}

func (r *Reducer) feedMouse(ev terminal.Event) {
	shift := ev.Modifiers&terminal.ModShift != 0

	switch ev.MouseBtn {
	case terminal.MouseBtnWheelUp:
		r.delta.Zoom--
		return
	case terminal.MouseBtnWheelDown:
		r.delta.Zoom++
		return
	}

	switch ev.MouseAction {
	case terminal.MouseActionPress:
		r.delta.Pan = shift
		r.lastX, r.lastY = ev.MouseX, ev.MouseY
		r.startX, r.startY = r.lastX, r.lastY
		r.delta.Active = true

	case terminal.MouseActionDrag:
		r.delta.Pan = shift
		if !shift {
			r.delta.Dragging = true
		}
		r.delta.DragX = ev.MouseX - r.startX
		r.delta.DragY = r.startY - ev.MouseY
		r.lastX, r.lastY = ev.MouseX, ev.MouseY
		r.delta.Active = true
	}
}

// Flush returns the accumulated delta and starts a new frame
func (r *Reducer) Flush() Delta {
	d := r.delta
	r.delta = Delta{}
	r.startX, r.startY = r.lastX, r.lastY
	return d
}

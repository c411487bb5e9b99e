// Package input folds raw terminal events into one per-frame delta
package input

// IntentType discriminates discrete key actions
type IntentType uint8

const (
	IntentNone IntentType = iota
	IntentQuit
	IntentReset            // restore initial orbit and re-enable auto-rotate
	IntentToggleAutoRotate
	IntentCycleScheme
)

// intentNames are the action spellings accepted in key configuration
var intentNames = map[string]IntentType{
	"none":               IntentNone, // unbind sentinel
	"quit":               IntentQuit,
	"reset":              IntentReset,
	"toggle_auto_rotate": IntentToggleAutoRotate,
	"cycle_color":        IntentCycleScheme,
}

// IntentByName resolves an action name from configuration
func IntentByName(name string) (IntentType, bool) {
	it, ok := intentNames[name]
	return it, ok
}

func (i IntentType) String() string {
	for name, it := range intentNames {
		if it == i {
			return name
		}
	}
	return "unknown"
}

package terminal

import "strings"

// Key represents a parsed input key
type Key uint16

const (
	KeyNone Key = iota
	KeyRune     // Printable character (check Event.Rune)
	KeyCtrl     // Ctrl+letter (Event.Rune holds the lowercase letter)

	KeyEscape
	KeyEnter
	KeyTab
	KeyBacktab
	KeyBackspace
	KeyDelete

	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyInsert
)

// Modifier represents keyboard modifier flags
type Modifier uint8

const (
	ModNone  Modifier = 0
	ModShift Modifier = 1 << 0
	ModAlt   Modifier = 1 << 1
	ModCtrl  Modifier = 1 << 2
)

var keyNames = map[Key]string{
	KeyNone:      "None",
	KeyRune:      "Rune",
	KeyCtrl:      "Ctrl",
	KeyEscape:    "Escape",
	KeyEnter:     "Enter",
	KeyTab:       "Tab",
	KeyBacktab:   "Backtab",
	KeyBackspace: "Backspace",
	KeyDelete:    "Delete",
	KeyUp:        "Up",
	KeyDown:      "Down",
	KeyLeft:      "Left",
	KeyRight:     "Right",
	KeyHome:      "Home",
	KeyEnd:       "End",
	KeyPageUp:    "PageUp",
	KeyPageDown:  "PageDown",
	KeyInsert:    "Insert",
}

// String returns human-readable key name
func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	return "Unknown"
}

// csiFinalKeys maps CSI final bytes (ESC [ ... X) to keys
var csiFinalKeys = map[byte]Key{
	'A': KeyUp,
	'B': KeyDown,
	'C': KeyRight,
	'D': KeyLeft,
	'H': KeyHome,
	'F': KeyEnd,
	'Z': KeyBacktab,
}

// csiTildeKeys maps ESC [ N ~ parameters to keys
var csiTildeKeys = map[int]Key{
	1: KeyHome,
	2: KeyInsert,
	3: KeyDelete,
	4: KeyEnd,
	5: KeyPageUp,
	6: KeyPageDown,
	7: KeyHome,
	8: KeyEnd,
}

// modifierFromParam decodes the xterm modifier parameter (1 + bitmask)
func modifierFromParam(p int) Modifier {
	if p < 2 {
		return ModNone
	}
	bits := p - 1
	var m Modifier
	if bits&1 != 0 {
		m |= ModShift
	}
	if bits&2 != 0 {
		m |= ModAlt
	}
	if bits&4 != 0 {
		m |= ModCtrl
	}
	return m
}

// KeyByName resolves a case-insensitive key name such as "escape" or "pageup"
// KeyRune and KeyCtrl have no standalone meaning and are not resolvable
func KeyByName(name string) (Key, bool) {
	for k, n := range keyNames {
		if k == KeyNone || k == KeyRune || k == KeyCtrl {
			continue
		}
		if strings.EqualFold(n, name) {
			return k, true
		}
	}
	return KeyNone, false
}

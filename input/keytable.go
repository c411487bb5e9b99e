package input

import (
	"maps"

	"github.com/lixenwraith/pepterm/parameter"
	"github.com/lixenwraith/pepterm/terminal"
)

// KeyTable maps keys to intents
type KeyTable struct {
	// Printable runes, matched case-sensitively
	Runes map[rune]IntentType

	// Named keys (escape, arrows, ...)
	SpecialKeys map[terminal.Key]IntentType
}

// DefaultKeyTable returns the built-in bindings
func DefaultKeyTable() *KeyTable {
	return &KeyTable{
		Runes: map[rune]IntentType{
			parameter.KeyQuit:       IntentQuit,
			parameter.KeyCycleColor: IntentCycleScheme,
			parameter.KeyAutoRotate: IntentToggleAutoRotate,
			parameter.KeyReset:      IntentReset,
		},
		SpecialKeys: map[terminal.Key]IntentType{},
	}
}

// Clone returns a deep copy
func (kt *KeyTable) Clone() *KeyTable {
	c := &KeyTable{
		Runes:       maps.Clone(kt.Runes),
		SpecialKeys: maps.Clone(kt.SpecialKeys),
	}
	if c.Runes == nil {
		c.Runes = make(map[rune]IntentType)
	}
	if c.SpecialKeys == nil {
		c.SpecialKeys = make(map[terminal.Key]IntentType)
	}
	return c
}

// Lookup returns the intent bound to a key event
// Ctrl+C always quits and cannot be rebound
func (kt *KeyTable) Lookup(ev terminal.Event) IntentType {
	switch ev.Key {
	case terminal.KeyCtrl:
		if ev.Rune == 'c' {
			return IntentQuit
		}
		return IntentNone
	case terminal.KeyRune:
		if ev.Modifiers&terminal.ModAlt != 0 {
			return IntentNone
		}
		return kt.Runes[ev.Rune]
	default:
		return kt.SpecialKeys[ev.Key]
	}
}

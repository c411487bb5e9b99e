package input

import (
	"fmt"
	"strings"

	"github.com/lixenwraith/pepterm/terminal"
)

// Rune aliases for keys that are awkward as bare YAML keys
var runeAliases = map[string]rune{
	"space":     ' ',
	"backslash": '\\',
	"colon":     ':',
	"hash":      '#',
}

// LoadKeyConfig parses key → action bindings into a sparse override table
// Keys are single characters, rune aliases, or terminal key names
// Returns error on unknown action or key names
func LoadKeyConfig(bindings map[string]string) (*KeyTable, error) {
	kt := &KeyTable{
		Runes:       make(map[rune]IntentType),
		SpecialKeys: make(map[terminal.Key]IntentType),
	}

	for keyStr, actionName := range bindings {
		intent, err := resolveAction(actionName)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", keyStr, err)
		}

		if r, ok := resolveRune(keyStr); ok {
			kt.Runes[r] = intent
			continue
		}
		if k, ok := terminal.KeyByName(keyStr); ok {
			kt.SpecialKeys[k] = intent
			continue
		}
		return nil, fmt.Errorf("invalid key %q (expected single character, alias, or key name)", keyStr)
	}

	return kt, nil
}

// resolveRune converts a config key string to a rune
func resolveRune(s string) (rune, bool) {
	if r, ok := runeAliases[strings.ToLower(s)]; ok {
		return r, true
	}
	runes := []rune(s)
	if len(runes) == 1 {
		return runes[0], true
	}
	return 0, false
}

func resolveAction(name string) (IntentType, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	it, ok := IntentByName(name)
	if !ok {
		return IntentNone, fmt.Errorf("unknown action: %q", name)
	}
	return it, nil
}

// MergeKeyTable returns base with override applied
// Override entries bound to "none" delete the key from the result
func MergeKeyTable(base, override *KeyTable) *KeyTable {
	result := base.Clone()
	if override == nil {
		return result
	}
	mergeMap(result.Runes, override.Runes)
	mergeMap(result.SpecialKeys, override.SpecialKeys)
	return result
}

func mergeMap[K comparable](base, override map[K]IntentType) {
	for k, v := range override {
		if v == IntentNone {
			delete(base, k)
		} else {
			base[k] = v
		}
	}
}

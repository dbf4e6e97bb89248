package controller

import (
	"fmt"
	"strings"

	"golang.org/x/text/width"

	"github.com/dshills/calcmvc/internal/renderer/backend"
	"github.com/dshills/calcmvc/internal/view"
)

// KeyboardPolicy decides how key presses reach the model.
type KeyboardPolicy int

const (
	// KeyboardRestricted accepts only calculator input.
	KeyboardRestricted KeyboardPolicy = iota
	// KeyboardRaw appends every key name verbatim.
	KeyboardRaw
)

// String returns the policy name.
func (p KeyboardPolicy) String() string {
	switch p {
	case KeyboardRestricted:
		return "restricted"
	case KeyboardRaw:
		return "raw"
	default:
		return "unknown"
	}
}

// ParseKeyboardPolicy parses "raw" or "restricted".
func ParseKeyboardPolicy(s string) (KeyboardPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "restricted":
		return KeyboardRestricted, nil
	case "raw":
		return KeyboardRaw, nil
	default:
		return KeyboardRestricted, fmt.Errorf("unknown keyboard policy %q", s)
	}
}

type keyAction int

const (
	actionIgnore keyAction = iota
	actionAppend
	actionCalculate
	actionClear
)

// expressionRunes are the characters accepted into the expression.
const expressionRunes = "0123456789.+-*/%()"

// glyphs maps keypad symbols to their ASCII tokens.
var glyphs = map[rune]rune{
	'×': '*',
	'÷': '/',
	'−': '-',
}

// classify maps a key press to a model action under the restricted policy.
func classify(kp view.KeyPress) (keyAction, string) {
	switch kp.Key {
	case backend.KeyEnter:
		return actionCalculate, ""
	case backend.KeyEscape, backend.KeyDelete:
		return actionClear, ""
	case backend.KeyRune:
	default:
		return actionIgnore, ""
	}

	if kp.Mod.Has(backend.ModCtrl) || kp.Mod.Has(backend.ModAlt) {
		return actionIgnore, ""
	}

	r := normalize(kp.Rune)
	switch {
	case r == '=':
		return actionCalculate, ""
	case r == 'c' || r == 'C':
		return actionClear, ""
	case strings.ContainsRune(expressionRunes, r):
		return actionAppend, string(r)
	default:
		return actionIgnore, ""
	}
}

// normalize folds fullwidth forms and keypad glyphs to ASCII.
func normalize(r rune) rune {
	if g, ok := glyphs[r]; ok {
		return g
	}
	folded := []rune(width.Narrow.String(string(r)))
	if len(folded) == 1 {
		return folded[0]
	}
	return r
}

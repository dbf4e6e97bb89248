package view

import "github.com/dshills/calcmvc/internal/renderer/core"

// Theme holds the styles used to draw the calculator.
type Theme struct {
	Title    core.Style
	Display  core.Style
	Digit    core.Style
	Operator core.Style
	Action   core.Style
	Hint     core.Style
	// PressedLighten is how far a pressed control's background is blended
	// toward white (0 disables the highlight).
	PressedLighten float64
}

// DefaultTheme returns the built-in theme.
func DefaultTheme() Theme {
	return Theme{
		Title: core.DefaultStyle().Bold(),
		Display: core.DefaultStyle().
			WithForeground(core.ColorWhite).
			WithBackground(core.ColorFromRGB(0x30, 0x30, 0x30)).
			Bold(),
		Digit: core.DefaultStyle().
			WithForeground(core.ColorWhite).
			WithBackground(core.ColorFromRGB(0x4a, 0x4a, 0x4a)),
		Operator: core.DefaultStyle().
			WithForeground(core.ColorBlack).
			WithBackground(core.ColorFromRGB(0xf5, 0x9e, 0x0b)),
		Action: core.DefaultStyle().
			WithForeground(core.ColorWhite).
			WithBackground(core.ColorFromRGB(0x25, 0x63, 0xeb)),
		Hint:           core.DefaultStyle().WithForeground(core.ColorGray),
		PressedLighten: 0.35,
	}
}

// controlStyle returns the style for a control kind.
func (t Theme) controlStyle(kind ControlKind) core.Style {
	switch kind {
	case KindDigit:
		return t.Digit
	case KindOperator:
		return t.Operator
	default:
		return t.Action
	}
}

// pressed returns s with its background highlighted.
func (t Theme) pressed(s core.Style) core.Style {
	if t.PressedLighten <= 0 {
		return s
	}
	if s.Background.IsDefault() {
		return s.Reverse()
	}
	return s.WithBackground(s.Background.Lighten(t.PressedLighten))
}

package view

import "github.com/dshills/calcmvc/internal/renderer/core"

// ControlName is the symbolic name of a keypad control.
type ControlName string

// Keypad controls.
const (
	ControlOne   ControlName = "one"
	ControlTwo   ControlName = "two"
	ControlThree ControlName = "three"
	ControlFour  ControlName = "four"
	ControlFive  ControlName = "five"
	ControlSix   ControlName = "six"
	ControlSeven ControlName = "seven"
	ControlEight ControlName = "eight"
	ControlNine  ControlName = "nine"
	ControlZero  ControlName = "zero"
	ControlDec   ControlName = "dec"
	ControlAdd   ControlName = "add"
	ControlSub   ControlName = "sub"
	ControlMul   ControlName = "mul"
	ControlDiv   ControlName = "div"
	ControlClear ControlName = "clear"
	ControlEqual ControlName = "equal"
)

// ControlKind groups controls by what activating them means.
type ControlKind int

const (
	// KindDigit appends a digit.
	KindDigit ControlKind = iota
	// KindOperator appends an operator or the decimal point.
	KindOperator
	// KindClear resets the expression.
	KindClear
	// KindEqual evaluates the expression.
	KindEqual
)

// String returns the kind name.
func (k ControlKind) String() string {
	switch k {
	case KindDigit:
		return "digit"
	case KindOperator:
		return "operator"
	case KindClear:
		return "clear"
	case KindEqual:
		return "equal"
	default:
		return "unknown"
	}
}

// Control is a keypad button.
type Control struct {
	Name  ControlName
	Kind  ControlKind
	Label string
	// Token is the text a digit or operator contributes to the expression.
	Token string
	// Row and Col are grid coordinates.
	Row, Col int

	bounds     core.ScreenRect
	onActivate func()
}

// Bounds returns the control's cells on the surface.
func (c *Control) Bounds() core.ScreenRect {
	return c.bounds
}

// keypad lists the controls on a seven column grid. Columns 3 and 4 are
// empty and collapse when laid out.
func keypad() []*Control {
	return []*Control{
		{Name: ControlOne, Kind: KindDigit, Label: "1", Token: "1", Row: 1, Col: 0},
		{Name: ControlTwo, Kind: KindDigit, Label: "2", Token: "2", Row: 1, Col: 1},
		{Name: ControlThree, Kind: KindDigit, Label: "3", Token: "3", Row: 1, Col: 2},
		{Name: ControlFour, Kind: KindDigit, Label: "4", Token: "4", Row: 2, Col: 0},
		{Name: ControlFive, Kind: KindDigit, Label: "5", Token: "5", Row: 2, Col: 1},
		{Name: ControlSix, Kind: KindDigit, Label: "6", Token: "6", Row: 2, Col: 2},
		{Name: ControlSeven, Kind: KindDigit, Label: "7", Token: "7", Row: 3, Col: 0},
		{Name: ControlEight, Kind: KindDigit, Label: "8", Token: "8", Row: 3, Col: 1},
		{Name: ControlNine, Kind: KindDigit, Label: "9", Token: "9", Row: 3, Col: 2},
		{Name: ControlZero, Kind: KindDigit, Label: "0", Token: "0", Row: 4, Col: 1},
		{Name: ControlDec, Kind: KindOperator, Label: ".", Token: ".", Row: 1, Col: 5},
		{Name: ControlAdd, Kind: KindOperator, Label: "+", Token: "+", Row: 2, Col: 5},
		{Name: ControlSub, Kind: KindOperator, Label: "−", Token: "-", Row: 3, Col: 5},
		{Name: ControlMul, Kind: KindOperator, Label: "×", Token: "*", Row: 2, Col: 6},
		{Name: ControlDiv, Kind: KindOperator, Label: "÷", Token: "/", Row: 3, Col: 6},
		{Name: ControlClear, Kind: KindClear, Label: "C", Row: 4, Col: 0},
		{Name: ControlEqual, Kind: KindEqual, Label: "=", Row: 4, Col: 2},
	}
}

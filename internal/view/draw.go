package view

import "github.com/dshills/calcmvc/internal/renderer/core"

// Layout constants, in cells.
const (
	marginLeft   = 1
	titleRow     = 0
	displayRow   = 2
	keypadTop    = 4
	buttonWidth  = 5
	buttonGap    = 1
	rowSpacing   = 2
	keypadRows   = 4
	keypadColumn = 5
)

// HintText is the key help shown under the keypad.
const HintText = "Enter = calculate  Esc = clear  Ctrl+Q = quit"

// gridColumns maps grid columns to screen columns. Columns 3 and 4 of the
// grid are always empty.
var gridColumns = map[int]int{0: 0, 1: 1, 2: 2, 5: 3, 6: 4}

// keypadWidth is the width of the display and of the button block.
const keypadWidth = keypadColumn*buttonWidth + (keypadColumn-1)*buttonGap

// hintRow is the row of the key help line.
const hintRow = keypadTop + keypadRows*rowSpacing

// layout assigns screen bounds to every control.
func (v *View) layout() {
	for _, c := range v.controls {
		col := gridColumns[c.Col]
		top := keypadTop + (c.Row-1)*rowSpacing
		left := marginLeft + col*(buttonWidth+buttonGap)
		c.bounds = core.RectFromSize(top, left, 1, buttonWidth)
	}
}

// displayRect returns the display box bounds.
func displayRect() core.ScreenRect {
	return core.RectFromSize(displayRow, marginLeft, 1, keypadWidth)
}

// draw repaints the whole surface.
func (v *View) draw() {
	v.surface.Clear()

	v.drawText(marginLeft, titleRow, Title, v.theme.Title)
	v.drawDisplay()
	for _, c := range v.controls {
		v.drawControl(c)
	}
	v.drawText(marginLeft, hintRow, HintText, v.theme.Hint)

	v.surface.Show()
	v.dirty = false
}

// drawDisplay right-aligns the display text, keeping its tail when it does
// not fit.
func (v *View) drawDisplay() {
	rect := displayRect()
	v.surface.Fill(rect, core.NewStyledCell(' ', v.theme.Display))

	inner := rect.Width() - 2
	text := core.TruncateLeft(v.display, inner)
	x := rect.Right - 1 - core.StringWidth(text)
	v.drawText(x, rect.Top, text, v.theme.Display)
}

func (v *View) drawControl(c *Control) {
	style := v.theme.controlStyle(c.Kind)
	if c.Name == v.pressed {
		style = v.theme.pressed(style)
	}

	v.surface.Fill(c.bounds, core.NewStyledCell(' ', style))
	x := c.bounds.Left + (c.bounds.Width()-core.StringWidth(c.Label))/2
	v.drawText(x, c.bounds.Top, c.Label, style)
}

// drawText writes s starting at (x, y) and returns the column after it.
func (v *View) drawText(x, y int, s string, style core.Style) int {
	for _, r := range s {
		cell := core.NewStyledCell(r, style)
		if cell.Width == 0 {
			continue
		}
		v.surface.SetCell(x, y, cell)
		x += cell.Width
	}
	return x
}

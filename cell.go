package gridcalc

// DefaultColor is the background of a fresh cell: opaque white.
const DefaultColor uint32 = 0xFFFFFFFF

// CellProperty names the cell field a notification is about.
type CellProperty int

const (
	PropertyText CellProperty = iota
	PropertyValue
	PropertyColor
)

// String returns a human-readable name for the property.
func (p CellProperty) String() string {
	switch p {
	case PropertyText:
		return "Text"
	case PropertyValue:
		return "Value"
	case PropertyColor:
		return "Color"
	default:
		return "Unknown"
	}
}

// CellListener is notified whenever a cell's text, value or color changes.
// Notifications are delivered synchronously, before the mutating call returns.
type CellListener interface {
	CellChanged(cell *Cell, prop CellProperty)
}

// CellListenerFunc adapts a function to CellListener.
type CellListenerFunc func(cell *Cell, prop CellProperty)

// CellChanged calls f(cell, prop).
func (f CellListenerFunc) CellChanged(cell *Cell, prop CellProperty) { f(cell, prop) }

// Cell is one slot of the grid. Cells are owned by a Spreadsheet and only
// mutated through it.
type Cell struct {
	ref   CellRef
	text  string
	value string
	color uint32

	publish func(*Cell, CellProperty)
}

func newCell(ref CellRef, publish func(*Cell, CellProperty)) *Cell {
	return &Cell{ref: ref, color: DefaultColor, publish: publish}
}

// Ref returns the cell's position.
func (c *Cell) Ref() CellRef { return c.ref }

// Row returns the 0-based row index.
func (c *Cell) Row() int { return c.ref.Row }

// Col returns the 0-based column index.
func (c *Cell) Col() int { return c.ref.Col }

// Text returns the raw input, e.g. "=A1+2".
func (c *Cell) Text() string { return c.text }

// Value returns the computed display value, possibly an error sentinel.
func (c *Cell) Value() string { return c.value }

// Color returns the ARGB background color.
func (c *Cell) Color() uint32 { return c.color }

// IsFormula reports whether the cell text is a formula.
func (c *Cell) IsFormula() bool {
	return len(c.text) > 0 && c.text[0] == '='
}

// IsEmpty reports whether the cell has no text and the default color.
func (c *Cell) IsEmpty() bool {
	return c.text == "" && c.color == DefaultColor
}

func (c *Cell) setText(text string) bool {
	if c.text == text {
		return false
	}
	c.text = text
	c.notify(PropertyText)
	return true
}

func (c *Cell) setValue(value string) bool {
	if c.value == value {
		return false
	}
	c.value = value
	c.notify(PropertyValue)
	return true
}

func (c *Cell) setColor(color uint32) bool {
	if c.color == color {
		return false
	}
	c.color = color
	c.notify(PropertyColor)
	return true
}

func (c *Cell) notify(prop CellProperty) {
	if c.publish != nil {
		c.publish(c, prop)
	}
}

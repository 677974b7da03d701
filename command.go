package gridcalc

import (
	"fmt"
	"io"
)

// Command titles shown by the invoker.
const (
	TitleTextChange  = "cell text change"
	TitleColorChange = "cell background color change"
	TitleLoad        = "load"
	TitleSave        = "save"
)

// Command is a reversible operation on a Spreadsheet.
type Command interface {
	Title() string
	Execute() error
	Unexecute() error
}

// TextChangeCommand sets the raw text of one cell.
type TextChangeCommand struct {
	sheet    *Spreadsheet
	ref      CellRef
	text     string
	previous string
}

// NewTextChangeCommand creates a command that sets the text at ref.
func NewTextChangeCommand(sheet *Spreadsheet, ref CellRef, text string) *TextChangeCommand {
	return &TextChangeCommand{sheet: sheet, ref: ref, text: text}
}

// Title returns TitleTextChange.
func (c *TextChangeCommand) Title() string { return TitleTextChange }

// Execute remembers the current text and applies the new one.
func (c *TextChangeCommand) Execute() error {
	cell, err := c.sheet.CellAt(c.ref)
	if err != nil {
		return err
	}
	c.previous = cell.Text()
	return c.sheet.SetText(c.ref.Row, c.ref.Col, c.text)
}

// Unexecute restores the text seen by the last Execute.
func (c *TextChangeCommand) Unexecute() error {
	return c.sheet.SetText(c.ref.Row, c.ref.Col, c.previous)
}

// ColorChangeCommand sets one background color on a batch of cells.
type ColorChangeCommand struct {
	sheet    *Spreadsheet
	refs     []CellRef
	color    uint32
	previous []uint32
}

// NewColorChangeCommand creates a command that colors every cell in refs.
func NewColorChangeCommand(sheet *Spreadsheet, refs []CellRef, color uint32) *ColorChangeCommand {
	return &ColorChangeCommand{sheet: sheet, refs: append([]CellRef(nil), refs...), color: color}
}

// Title returns TitleColorChange.
func (c *ColorChangeCommand) Title() string { return TitleColorChange }

// Execute remembers each cell's color and applies the new one. Either every
// cell changes or, when a reference is outside the grid, none does.
func (c *ColorChangeCommand) Execute() error {
	previous := make([]uint32, len(c.refs))
	for i, ref := range c.refs {
		cell, err := c.sheet.CellAt(ref)
		if err != nil {
			return fmt.Errorf("change color of %s: %w", ref, err)
		}
		previous[i] = cell.Color()
	}
	c.previous = previous
	for _, ref := range c.refs {
		if err := c.sheet.SetColor(ref.Row, ref.Col, c.color); err != nil {
			return err
		}
	}
	return nil
}

// Unexecute gives every cell back its own previous color.
func (c *ColorChangeCommand) Unexecute() error {
	for i := len(c.refs) - 1; i >= 0 && i < len(c.previous); i-- {
		ref := c.refs[i]
		if err := c.sheet.SetColor(ref.Row, ref.Col, c.previous[i]); err != nil {
			return err
		}
	}
	return nil
}

// LoadCommand replaces the sheet with an XML document. Running it through an
// Invoker clears the history; it cannot be undone.
type LoadCommand struct {
	sheet *Spreadsheet
	r     io.Reader
}

// NewLoadCommand creates a command that loads the document read from r.
func NewLoadCommand(sheet *Spreadsheet, r io.Reader) *LoadCommand {
	return &LoadCommand{sheet: sheet, r: r}
}

// Title returns TitleLoad.
func (c *LoadCommand) Title() string { return TitleLoad }

// Execute loads the document into the sheet.
func (c *LoadCommand) Execute() error { return c.sheet.Load(c.r) }

// Unexecute does nothing; a load cannot be undone.
func (c *LoadCommand) Unexecute() error { return nil }

// SaveCommand writes the sheet as an XML document. It does not modify the
// sheet and is never recorded in the history.
type SaveCommand struct {
	sheet *Spreadsheet
	w     io.Writer
}

// NewSaveCommand creates a command that saves the sheet to w.
func NewSaveCommand(sheet *Spreadsheet, w io.Writer) *SaveCommand {
	return &SaveCommand{sheet: sheet, w: w}
}

// Title returns TitleSave.
func (c *SaveCommand) Title() string { return TitleSave }

// Execute writes the sheet to the underlying writer.
func (c *SaveCommand) Execute() error { return c.sheet.Save(c.w) }

// Unexecute does nothing; saving leaves the sheet unchanged.
func (c *SaveCommand) Unexecute() error { return nil }

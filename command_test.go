package gridcalc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func colorOf(t *testing.T, s *Spreadsheet, name string) uint32 {
	t.Helper()
	ref, err := ParseCellRef(name)
	require.NoError(t, err)
	c, err := s.CellAt(ref)
	require.NoError(t, err)
	return c.Color()
}

func TestTextChangeCommand_UndoRestoresPrevious(t *testing.T) {
	s := newTestSheet(t, 3, 3)
	mustSet(t, s, "A1", "3")
	mustSet(t, s, "B1", "=A1+1")

	cmd := textCmd(t, s, "A1", "10")
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "11", valueOf(t, s, "B1"))

	require.NoError(t, cmd.Unexecute())
	assert.Equal(t, "3", valueOf(t, s, "A1"))
	assert.Equal(t, "4", valueOf(t, s, "B1"))
}

func TestTextChangeCommand_OutOfRange(t *testing.T) {
	s := newTestSheet(t, 2, 2)
	cmd := NewTextChangeCommand(s, NewCellRef(5, 5), "x")
	assert.ErrorIs(t, cmd.Execute(), ErrIndexOutOfRange)
}

func TestColorChangeCommand_Batch(t *testing.T) {
	s := newTestSheet(t, 3, 3)
	require.NoError(t, s.SetColor(0, 1, 0xFF0000FF))

	cmd := NewColorChangeCommand(s, refs(t, "A1", "B1", "C1"), 0xFFFF0000)
	assert.Equal(t, TitleColorChange, cmd.Title())
	require.NoError(t, cmd.Execute())
	for _, name := range []string{"A1", "B1", "C1"} {
		assert.Equal(t, uint32(0xFFFF0000), colorOf(t, s, name), name)
	}

	require.NoError(t, cmd.Unexecute())
	assert.Equal(t, DefaultColor, colorOf(t, s, "A1"))
	assert.Equal(t, uint32(0xFF0000FF), colorOf(t, s, "B1"))
	assert.Equal(t, DefaultColor, colorOf(t, s, "C1"))
}

func TestColorChangeCommand_OutOfRangeChangesNothing(t *testing.T) {
	s := newTestSheet(t, 2, 2)
	cmd := NewColorChangeCommand(s, []CellRef{NewCellRef(0, 0), NewCellRef(4, 4)}, 0xFF00FF00)
	assert.ErrorIs(t, cmd.Execute(), ErrIndexOutOfRange)
	assert.Equal(t, DefaultColor, colorOf(t, s, "A1"))
}

func TestColorChangeCommand_RefsCopied(t *testing.T) {
	s := newTestSheet(t, 2, 2)
	batch := refs(t, "A1")
	cmd := NewColorChangeCommand(s, batch, 0xFF00FF00)
	batch[0] = NewCellRef(1, 1)
	require.NoError(t, cmd.Execute())
	assert.Equal(t, uint32(0xFF00FF00), colorOf(t, s, "A1"))
	assert.Equal(t, DefaultColor, colorOf(t, s, "B2"))
}

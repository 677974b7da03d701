package gridcalc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCellRef_SimpleCell(t *testing.T) {
	ref, err := ParseCellRef("A1")
	require.NoError(t, err)
	assert.Equal(t, 0, ref.Row)
	assert.Equal(t, 0, ref.Col)
}

func TestParseCellRef_LowerCase(t *testing.T) {
	ref, err := ParseCellRef("b5")
	require.NoError(t, err)
	assert.Equal(t, 4, ref.Row) // 0-based
	assert.Equal(t, 1, ref.Col)
}

func TestParseCellRef_MultiLetterCol(t *testing.T) {
	ref, err := ParseCellRef("AZ10")
	require.NoError(t, err)
	assert.Equal(t, 9, ref.Row)
	assert.Equal(t, 51, ref.Col) // AZ = 26+25
}

func TestParseCellRef_Invalid(t *testing.T) {
	for _, s := range []string{"", "A", "123", "A0", "A1B", "1A", "A-1", "A99999999999"} {
		_, err := ParseCellRef(s)
		assert.Error(t, err, "ParseCellRef(%q)", s)
	}
}

func TestCellRef_String(t *testing.T) {
	assert.Equal(t, "A1", NewCellRef(0, 0).String())
	assert.Equal(t, "C10", NewCellRef(9, 2).String())
	assert.Equal(t, "AA3", NewCellRef(2, 26).String())
}

func TestColToName_RoundTrip(t *testing.T) {
	for col := 0; col < 1000; col++ {
		got, err := NameToCol(ColToName(col))
		require.NoError(t, err)
		require.Equal(t, col, got)
	}
	assert.Equal(t, "Z", ColToName(25))
	assert.Equal(t, "AA", ColToName(26))
}

func TestNameToCol_Invalid(t *testing.T) {
	_, err := NameToCol("")
	assert.Error(t, err)
	_, err = NameToCol("A1")
	assert.Error(t, err)
}

func TestIsCellName(t *testing.T) {
	assert.True(t, isCellName("A1"))
	assert.True(t, isCellName("zz99"))
	assert.False(t, isCellName("A"))
	assert.False(t, isCellName("1"))
	assert.False(t, isCellName("A1+B1"))
	assert.False(t, isCellName("A1.5"))
	assert.False(t, isCellName(""))
}

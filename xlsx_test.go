package gridcalc

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportXLSX_Cells(t *testing.T) {
	s := newTestSheet(t, 3, 3)
	mustSet(t, s, "A1", "12")
	mustSet(t, s, "B1", "=A1*2")
	mustSet(t, s, "C1", "label")
	mustSet(t, s, "A2", "007")
	require.NoError(t, s.SetColor(1, 1, 0xFF00FF00))

	var buf bytes.Buffer
	require.NoError(t, s.ExportXLSX(&buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{xlsxSheet}, f.GetSheetList())

	formula, err := f.GetCellFormula(xlsxSheet, "B1")
	require.NoError(t, err)
	assert.Equal(t, "A1*2", formula)

	v, err := f.GetCellValue(xlsxSheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "12", v)
	cellType, err := f.GetCellType(xlsxSheet, "A1")
	require.NoError(t, err)
	assert.NotEqual(t, excelize.CellTypeSharedString, cellType, "numeric literal is stored as a number")

	v, err = f.GetCellValue(xlsxSheet, "A2")
	require.NoError(t, err)
	assert.Equal(t, "007", v, "leading zeros kept as text")

	styleID, err := f.GetCellStyle(xlsxSheet, "B2")
	require.NoError(t, err)
	style, err := f.GetStyle(styleID)
	require.NoError(t, err)
	require.NotEmpty(t, style.Fill.Color)
	assert.Equal(t, "00FF00", style.Fill.Color[0][len(style.Fill.Color[0])-6:])
}

func TestExportImportXLSX_RoundTrip(t *testing.T) {
	src := newTestSheet(t, 4, 4)
	mustSet(t, src, "A1", "3")
	mustSet(t, src, "A2", "4")
	mustSet(t, src, "A3", "=A1*A2")
	mustSet(t, src, "B1", "text")
	mustSet(t, src, "C4", "=A3")
	require.NoError(t, src.SetColor(0, 1, 0xFFFF8800))

	var buf bytes.Buffer
	require.NoError(t, src.ExportXLSX(&buf))

	dst := newTestSheet(t, 4, 4)
	mustSet(t, dst, "D4", "stale")
	require.NoError(t, dst.ImportXLSX(&buf))

	assert.Equal(t, "12", valueOf(t, dst, "A3"))
	assert.Equal(t, "12", valueOf(t, dst, "C4"))
	assert.Equal(t, "text", valueOf(t, dst, "B1"))
	assert.Equal(t, "", valueOf(t, dst, "D4"))
	assert.Equal(t, uint32(0xFFFF8800), colorOf(t, dst, "B1"))
	assert.Equal(t, DefaultColor, colorOf(t, dst, "A1"))
	require.NoError(t, dst.CheckGraph())
}

func TestImportXLSX_IgnoresCellsOutsideGrid(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", 5))
	require.NoError(t, f.SetCellValue("Sheet1", "Z99", "far away"))
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	s := newTestSheet(t, 2, 2)
	require.NoError(t, s.ImportXLSX(&buf))
	assert.Equal(t, "5", valueOf(t, s, "A1"))
}

func TestImportXLSX_NotAWorkbook(t *testing.T) {
	s := newTestSheet(t, 2, 2)
	mustSet(t, s, "A1", "keep")
	assert.Error(t, s.ImportXLSX(bytes.NewReader([]byte("not a zip"))))
	assert.Equal(t, "keep", valueOf(t, s, "A1"))
}

package gridcalc

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSave_Format(t *testing.T) {
	s := newTestSheet(t, 3, 3)
	mustSet(t, s, "A1", "2")
	mustSet(t, s, "B1", "=A1*2")
	require.NoError(t, s.SetColor(2, 2, 0xFF00FF00))

	var buf bytes.Buffer
	require.NoError(t, s.Save(&buf))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, out, "<spreadsheet>")
	assert.Contains(t, out, `<cell row="0" col="0">`)
	assert.Contains(t, out, "<text>=A1*2</text>")
	assert.Contains(t, out, `<cell row="2" col="2">`)
	assert.Contains(t, out, "<bgColor>FF00FF00</bgColor>")
	assert.Equal(t, 3, strings.Count(out, "<cell "))
	assert.Equal(t, 1, strings.Count(out, "<bgColor>"), "default colors are not written")
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	src := newTestSheet(t, 4, 4)
	mustSet(t, src, "A1", "1.5")
	mustSet(t, src, "B1", "=A1*4")
	mustSet(t, src, "C1", "=B1")
	mustSet(t, src, "D4", "<tag> & \"quotes\"")
	mustSet(t, src, "A2", "=A2")
	require.NoError(t, src.SetColor(1, 1, 0x80123456))

	var buf bytes.Buffer
	require.NoError(t, src.Save(&buf))

	dst := newTestSheet(t, 4, 4)
	require.NoError(t, dst.Load(&buf))
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			want, err := src.GetCell(row, col)
			require.NoError(t, err)
			got, err := dst.GetCell(row, col)
			require.NoError(t, err)
			assert.Equal(t, want.Text(), got.Text(), want.Ref().String())
			assert.Equal(t, want.Value(), got.Value(), want.Ref().String())
			assert.Equal(t, want.Color(), got.Color(), want.Ref().String())
		}
	}
	assert.Equal(t, "6", valueOf(t, dst, "C1"))
	require.NoError(t, dst.CheckGraph())
}

func TestLoad_DependentBeforeSource(t *testing.T) {
	doc := `<?xml version="1.0"?>
<spreadsheet>
  <cell row="0" col="0"><text>=B1+1</text></cell>
  <cell row="0" col="1"><text>41</text></cell>
</spreadsheet>`
	s := newTestSheet(t, 2, 2)
	require.NoError(t, s.Load(strings.NewReader(doc)))
	assert.Equal(t, "42", valueOf(t, s, "A1"))
}

func TestLoad_ResetsAbsentCells(t *testing.T) {
	s := newTestSheet(t, 3, 3)
	mustSet(t, s, "A1", "old")
	require.NoError(t, s.SetColor(0, 0, 0xFF112233))

	doc := `<spreadsheet><cell row="2" col="0"><text>new</text><bgColor>#445566</bgColor></cell></spreadsheet>`
	require.NoError(t, s.Load(strings.NewReader(doc)))
	assert.Equal(t, "", valueOf(t, s, "A1"))
	assert.Equal(t, DefaultColor, colorOf(t, s, "A1"))
	assert.Equal(t, "new", valueOf(t, s, "A3"))
	assert.Equal(t, uint32(0xFF445566), colorOf(t, s, "A3"))
}

func TestLoad_ShortHexColor(t *testing.T) {
	s := newTestSheet(t, 2, 2)
	doc := `<spreadsheet><cell row="0" col="1"><bgColor>FF</bgColor></cell></spreadsheet>`
	require.NoError(t, s.Load(strings.NewReader(doc)))
	assert.Equal(t, uint32(0x000000FF), colorOf(t, s, "B1"))
}

func TestLoad_MalformedLeavesSheetUnchanged(t *testing.T) {
	docs := map[string]string{
		"missing row":   `<spreadsheet><cell col="0"><text>x</text></cell></spreadsheet>`,
		"bad col":       `<spreadsheet><cell row="0" col="b"><text>x</text></cell></spreadsheet>`,
		"bad color":     `<spreadsheet><cell row="0" col="0"><bgColor>red</bgColor></cell></spreadsheet>`,
		"broken markup": `<spreadsheet><cell row="0" col="0"><text>x</cell>`,
	}
	for name, doc := range docs {
		t.Run(name, func(t *testing.T) {
			s := newTestSheet(t, 2, 2)
			mustSet(t, s, "A1", "keep")
			assert.Error(t, s.Load(strings.NewReader(doc)))
			assert.Equal(t, "keep", valueOf(t, s, "A1"))
		})
	}
}

func TestLoad_OutOfRange(t *testing.T) {
	s := newTestSheet(t, 2, 2)
	doc := `<spreadsheet><cell row="5" col="0"><text>x</text></cell></spreadsheet>`
	assert.ErrorIs(t, s.Load(strings.NewReader(doc)), ErrIndexOutOfRange)
}

func TestLoad_MalformedFormulaIsLogged(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s := newTestSheet(t, 2, 2, WithLogger(logger))

	doc := `<spreadsheet><cell row="0" col="0"><text>=1+</text></cell></spreadsheet>`
	require.NoError(t, s.Load(strings.NewReader(doc)))
	assert.Equal(t, "!(BAD_REF)", valueOf(t, s, "A1"))
	assert.Contains(t, logs.String(), "malformed formula in document")
	assert.Contains(t, logs.String(), "component=spreadsheet")
	assert.Contains(t, logs.String(), "spreadsheet loaded")
}

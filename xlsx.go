package gridcalc

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"
)

// xlsxSheet is the worksheet written by ExportXLSX.
const xlsxSheet = "Sheet1"

// ExportXLSX writes the sheet as an xlsx workbook with a single worksheet.
// Formulas are stored as workbook formulas, numeric literals as numbers and
// background colors as solid fills. The alpha channel is not preserved.
func (s *Spreadsheet) ExportXLSX(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	styles := make(map[uint32]int)
	for _, c := range s.nonEmpty() {
		name := c.ref.String()
		if err := writeXLSXText(f, name, c.text); err != nil {
			return fmt.Errorf("export cell %s: %w", name, err)
		}
		if c.color == DefaultColor {
			continue
		}
		styleID, ok := styles[c.color]
		if !ok {
			var err error
			styleID, err = f.NewStyle(&excelize.Style{
				Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#" + formatColor(c.color)[2:]}},
			})
			if err != nil {
				return fmt.Errorf("export cell %s style: %w", name, err)
			}
			styles[c.color] = styleID
		}
		if err := f.SetCellStyle(xlsxSheet, name, name, styleID); err != nil {
			return fmt.Errorf("export cell %s style: %w", name, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	s.logger.Info("workbook exported", slog.Int("styles", len(styles)))
	return nil
}

func writeXLSXText(f *excelize.File, name, text string) error {
	switch {
	case text == "":
		return nil
	case strings.HasPrefix(text, "="):
		return f.SetCellFormula(xlsxSheet, name, text[1:])
	default:
		if n, ok := numericValue(text); ok && FormatNumber(n) == text {
			return f.SetCellValue(xlsxSheet, name, n)
		}
		return f.SetCellStr(xlsxSheet, name, text)
	}
}

// ImportXLSX replaces the sheet contents with the first worksheet of an xlsx
// workbook, with the same reset semantics as Load. Cells outside the grid
// are ignored.
func (s *Spreadsheet) ImportXLSX(r io.Reader) error {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return fmt.Errorf("open workbook: no worksheets")
	}
	sheet := sheets[0]

	var records []cellRecord
	for row := 0; row < s.rows; row++ {
		for col := 0; col < s.columns; col++ {
			ref := NewCellRef(row, col)
			rec, err := readXLSXCell(f, sheet, ref)
			if err != nil {
				return fmt.Errorf("import cell %s: %w", ref, err)
			}
			if rec.text != "" || rec.hasColor {
				records = append(records, rec)
			}
		}
	}

	s.apply(records)
	s.logger.Info("workbook imported", slog.String("sheet", sheet), slog.Int("cells", len(records)))
	return nil
}

func readXLSXCell(f *excelize.File, sheet string, ref CellRef) (cellRecord, error) {
	name := ref.String()
	rec := cellRecord{ref: ref}

	formula, err := f.GetCellFormula(sheet, name)
	if err != nil {
		return rec, err
	}
	if formula != "" {
		rec.text = "=" + strings.TrimPrefix(formula, "=")
	} else {
		rec.text, err = f.GetCellValue(sheet, name, excelize.Options{RawCellValue: true})
		if err != nil {
			return rec, err
		}
	}

	styleID, err := f.GetCellStyle(sheet, name)
	if err != nil || styleID == 0 {
		return rec, err
	}
	style, err := f.GetStyle(styleID)
	if err != nil {
		return rec, err
	}
	if style.Fill.Type == "pattern" && style.Fill.Pattern == 1 && len(style.Fill.Color) > 0 {
		color, err := parseColor(style.Fill.Color[0])
		if err != nil {
			return rec, err
		}
		rec.color = color | 0xFF000000
		rec.hasColor = true
	}
	return rec, nil
}

package gridcalc

import (
	"fmt"
	"strconv"
	"strings"
)

// CellRef identifies a single cell in the grid.
type CellRef struct {
	Row int // 0-based row index
	Col int // 0-based column index
}

// NewCellRef creates a CellRef from 0-based row and column indices.
func NewCellRef(row, col int) CellRef {
	return CellRef{Row: row, Col: col}
}

// ParseCellRef parses an A1-style reference like "B12" or "aa3".
// Column letters are case-insensitive and the row number is 1-based.
func ParseCellRef(s string) (CellRef, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return CellRef{}, fmt.Errorf("empty cell reference")
	}

	i := 0
	for i < len(s) && isAlpha(s[i]) {
		i++
	}
	if i == 0 || i == len(s) {
		return CellRef{}, fmt.Errorf("invalid cell reference: %q", s)
	}

	col, err := NameToCol(s[:i])
	if err != nil {
		return CellRef{}, fmt.Errorf("invalid cell reference %q: %w", s, err)
	}

	rowNum := 0
	for _, ch := range s[i:] {
		if ch < '0' || ch > '9' {
			return CellRef{}, fmt.Errorf("invalid row in cell reference: %q", s)
		}
		rowNum = rowNum*10 + int(ch-'0')
		if rowNum > 1<<24 {
			return CellRef{}, fmt.Errorf("row number too large in cell reference: %q", s)
		}
	}
	if rowNum < 1 {
		return CellRef{}, fmt.Errorf("invalid row number in cell reference: %q", s)
	}

	return CellRef{Row: rowNum - 1, Col: col}, nil
}

func isAlpha(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

// isCellName reports whether s has the exact shape <letters><digits>.
func isCellName(s string) bool {
	i := 0
	for i < len(s) && isAlpha(s[i]) {
		i++
	}
	if i == 0 || i == len(s) {
		return false
	}
	for _, ch := range s[i:] {
		if ch < '0' || ch > '9' {
			return false
		}
	}
	return true
}

// String formats the CellRef as "A1".
func (c CellRef) String() string {
	return ColToName(c.Col) + strconv.Itoa(c.Row+1)
}

// ColToName converts a 0-based column index to a column name.
// 0→"A", 25→"Z", 26→"AA"
func ColToName(col int) string {
	result := ""
	col++
	for col > 0 {
		col--
		result = string(rune('A'+col%26)) + result
		col /= 26
	}
	return result
}

// NameToCol converts a column name to a 0-based column index.
// "A"→0, "z"→25, "AA"→26
func NameToCol(name string) (int, error) {
	name = strings.ToUpper(name)
	if name == "" {
		return 0, fmt.Errorf("empty column name")
	}
	col := 0
	for _, ch := range name {
		if ch < 'A' || ch > 'Z' {
			return 0, fmt.Errorf("invalid column name: %q", name)
		}
		col = col*26 + int(ch-'A') + 1
		if col > 1<<24 {
			return 0, fmt.Errorf("column name too long: %q", name)
		}
	}
	return col - 1, nil
}

package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/javajack/gridcalc"
)

var (
	refStyle   = lipgloss.NewStyle().Bold(true).Width(6)
	textStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

// styleValue highlights error sentinels.
func styleValue(value string) string {
	if _, ok := gridcalc.ParseSentinel(value); ok {
		return errorStyle.Render(value)
	}
	return value
}

// renderCells lists non-empty cells as "REF  text  value", row-major.
func renderCells(sheet *gridcalc.Spreadsheet) string {
	var b strings.Builder
	for row := 0; row < sheet.Rows(); row++ {
		for col := 0; col < sheet.Columns(); col++ {
			cell, err := sheet.GetCell(row, col)
			if err != nil || cell.Text() == "" {
				continue
			}
			line := refStyle.Render(cell.Ref().String()) + " "
			if cell.IsFormula() {
				line += textStyle.Render(cell.Text()) + "  "
			}
			fmt.Fprintln(&b, line+styleValue(cell.Value()))
		}
	}
	return b.String()
}

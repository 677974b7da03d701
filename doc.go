// Package gridcalc is a reactive formula engine for a fixed grid of cells.
//
// Each cell holds raw text. Text starting with "=" is a formula: either a
// bare reference such as "=B2", which mirrors that cell, or an arithmetic
// expression over cell references and numbers using + - * / and
// parentheses. The Spreadsheet keeps a dependency graph between cells and
// recomputes every dependent whenever a value changes. Self references,
// circular references, references outside the grid and division by zero
// are shown in the cell as "!(SELF_REF)", "!(CIRC_REF)", "!(BAD_REF)" and
// "!(DIV_ZERO)".
//
// Edits can be wrapped in Commands and run through an Invoker, which keeps
// undo and redo history.
//
//	sheet, _ := gridcalc.New(10, 10)
//	inv := gridcalc.NewInvoker()
//	inv.Do(gridcalc.NewTextChangeCommand(sheet, gridcalc.NewCellRef(0, 0), "=B1*2"))
//	inv.Do(gridcalc.NewTextChangeCommand(sheet, gridcalc.NewCellRef(0, 1), "21"))
//	cell, _ := sheet.GetCell(0, 0) // cell.Value() == "42"
package gridcalc

package gridcalc

import "fmt"

// Severity indicates the severity of a validation issue.
type Severity int

const (
	SeverityError   Severity = iota // Cell shows an error sentinel
	SeverityWarning                 // Cell may produce unexpected results
)

// ValidationIssue represents a single problem found in the sheet.
type ValidationIssue struct {
	Severity Severity
	CellRef  CellRef
	Message  string
}

// String formats the issue as "[ERROR] A2: message" or "[WARN] ...".
func (v ValidationIssue) String() string {
	sev := "ERROR"
	if v.Severity == SeverityWarning {
		sev = "WARN"
	}
	return fmt.Sprintf("[%s] %s: %s", sev, v.CellRef, v.Message)
}

// Validate inspects every formula cell and returns the issues found, in
// row-major order. Cells showing an error sentinel are errors; expressions
// that read non-numeric text (counted as 0) are warnings.
func (s *Spreadsheet) Validate() []ValidationIssue {
	var issues []ValidationIssue
	for _, c := range s.cells {
		if !c.IsFormula() {
			continue
		}
		if kind, ok := ParseSentinel(c.value); ok {
			issues = append(issues, ValidationIssue{
				Severity: SeverityError,
				CellRef:  c.ref,
				Message:  fmt.Sprintf("formula %q evaluates to %s: %v", c.text, c.value, kind.Err()),
			})
			continue
		}
		issues = append(issues, s.validateOperands(c)...)
	}
	return issues
}

// validateOperands warns about expression operands that are not numbers.
func (s *Spreadsheet) validateOperands(c *Cell) []ValidationIssue {
	res := s.resolve(c.text)
	if res.kind != formulaExpression || res.bad {
		return nil
	}
	var issues []ValidationIssue
	for _, name := range res.tree.Variables() {
		ref := s.cells[res.vars[name]]
		if ref.value == "" {
			continue
		}
		if _, ok := numericValue(ref.value); !ok {
			issues = append(issues, ValidationIssue{
				Severity: SeverityWarning,
				CellRef:  c.ref,
				Message:  fmt.Sprintf("operand %s holds non-numeric value %q, counted as 0", ref.ref, ref.value),
			})
		}
	}
	return issues
}

package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/gofrs/flock"
	"github.com/javajack/gridcalc"
	"github.com/spf13/cobra"
)

func newEvalCmd() *cobra.Command {
	var vars []string
	cmd := &cobra.Command{
		Use:   "eval <expression>",
		Short: "Evaluate an arithmetic expression",
		Example: `  gridcalc eval "(1+2)*3"
  gridcalc eval "a1/b1" --var a1=10 --var b1=4`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := evaluate(strings.TrimPrefix(args[0], "="), vars)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), gridcalc.FormatNumber(result))
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&vars, "var", nil, "Variable binding name=value (repeatable)")
	return cmd
}

func evaluate(expression string, vars []string) (float64, error) {
	cfg, err := loadConfig()
	if err != nil {
		return 0, err
	}
	var opts []gridcalc.CompileOption
	if cfg.LenientParens {
		opts = append(opts, gridcalc.AllowUnmatchedParens())
	}

	tree, err := gridcalc.Compile(expression, opts...)
	if err != nil {
		return 0, err
	}
	for _, binding := range vars {
		name, raw, ok := strings.Cut(binding, "=")
		if !ok {
			return 0, fmt.Errorf("invalid --var %q: want name=value", binding)
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return 0, fmt.Errorf("invalid --var %q: %w", binding, err)
		}
		if err := tree.SetVariable(strings.TrimSpace(name), value); err != nil {
			return 0, err
		}
	}
	return tree.Evaluate()
}

func newShowCmd() *cobra.Command {
	var graph bool
	cmd := &cobra.Command{
		Use:   "show <file.xml>",
		Short: "Print the non-empty cells of a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sheet, err := openSheet(args[0])
			if err != nil {
				return err
			}
			if graph {
				fmt.Fprint(cmd.OutOrStdout(), sheet.Describe())
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), renderCells(sheet))
			return nil
		},
	}
	cmd.Flags().BoolVar(&graph, "graph", false, "Print dependency wiring instead of the value table")
	return cmd
}

func newSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <file.xml> <cell> <text>",
		Short: "Set the text of one cell and save the document",
		Example: `  gridcalc set budget.xml C3 "=A3*B3"
  gridcalc set budget.xml A3 12.5`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, cellName, text := args[0], args[1], args[2]
			ref, err := gridcalc.ParseCellRef(cellName)
			if err != nil {
				return err
			}

			lock := flock.New(path + ".lock")
			locked, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("lock %q: %w", path, err)
			}
			if !locked {
				return fmt.Errorf("%q is being edited by another process", path)
			}
			defer lock.Unlock()

			sheet, err := openSheet(path)
			if err != nil {
				return err
			}
			editErr := gridcalc.NewInvoker().Do(gridcalc.NewTextChangeCommand(sheet, ref, text))
			if editErr != nil && !errors.Is(editErr, gridcalc.ErrParse) {
				return editErr
			}
			if err := saveSheet(sheet, path); err != nil {
				return err
			}

			cell, err := sheet.CellAt(ref)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", ref, styleValue(cell.Value()))
			return editErr
		},
	}
}

func saveSheet(sheet *gridcalc.Spreadsheet, path string) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create %q: %w", tmp, err)
	}
	if err := gridcalc.NewInvoker().Run(gridcalc.NewSaveCommand(sheet, f)); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close %q: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace %q: %w", path, err)
	}
	return nil
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file.xml>",
		Short: "Report formula errors and suspicious operands",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sheet, err := openSheet(args[0])
			if err != nil {
				return err
			}
			errorCount := 0
			for _, issue := range sheet.Validate() {
				if issue.Severity == gridcalc.SeverityError {
					errorCount++
				}
				fmt.Fprintln(cmd.OutOrStdout(), issue)
			}
			if errorCount > 0 {
				return fmt.Errorf("%d cell(s) evaluate to an error", errorCount)
			}
			return nil
		},
	}
}

func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <file.xml> <out.xlsx>",
		Short: "Convert a document to an xlsx workbook",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sheet, err := openSheet(args[0])
			if err != nil {
				return err
			}
			out, err := os.Create(args[1])
			if err != nil {
				return fmt.Errorf("create output file %q: %w", args[1], err)
			}
			defer out.Close()
			if err := sheet.ExportXLSX(out); err != nil {
				os.Remove(args[1])
				return err
			}
			return nil
		},
	}
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <in.xlsx> <file.xml>",
		Short: "Convert the first worksheet of an xlsx workbook to a document",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sheet, err := newSheet()
			if err != nil {
				return err
			}
			in, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open %q: %w", args[0], err)
			}
			defer in.Close()
			if err := sheet.ImportXLSX(in); err != nil {
				return err
			}
			return saveSheet(sheet, args[1])
		},
	}
}

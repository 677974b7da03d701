package gridcalc

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/bits-and-blooms/bitset"
)

// Spreadsheet owns a fixed grid of cells and keeps every formula value up
// to date as cells are edited. It is not safe for concurrent use.
type Spreadsheet struct {
	rows    int
	columns int
	cells   []*Cell
	graph   *dependencyGraph
	opts    *Options
	logger  *slog.Logger
}

// New creates an empty spreadsheet with the given number of rows and columns.
func New(rows, columns int, opts ...Option) (*Spreadsheet, error) {
	if rows <= 0 || columns <= 0 {
		return nil, fmt.Errorf("rows and columns must be greater than zero (got %dx%d)", rows, columns)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	s := &Spreadsheet{
		rows:    rows,
		columns: columns,
		cells:   make([]*Cell, rows*columns),
		graph:   newDependencyGraph(rows * columns),
		opts:    o,
		logger:  o.logger.With(slog.String("component", "spreadsheet")),
	}
	for i := range s.cells {
		s.cells[i] = newCell(NewCellRef(i/columns, i%columns), s.publish)
	}
	return s, nil
}

// Rows returns the number of rows in the grid.
func (s *Spreadsheet) Rows() int { return s.rows }

// Columns returns the number of columns in the grid.
func (s *Spreadsheet) Columns() int { return s.columns }

// AddListener registers a listener for text, value and color changes.
func (s *Spreadsheet) AddListener(listener CellListener) {
	s.opts.listeners = append(s.opts.listeners, listener)
}

func (s *Spreadsheet) publish(c *Cell, prop CellProperty) {
	for _, l := range s.opts.listeners {
		l.CellChanged(c, prop)
	}
}

// GetCell returns the cell at the 0-based row and column.
func (s *Spreadsheet) GetCell(row, col int) (*Cell, error) {
	if !s.inBounds(row, col) {
		return nil, fmt.Errorf("%w: cell (%d, %d) is outside the %dx%d grid", ErrIndexOutOfRange, row, col, s.rows, s.columns)
	}
	return s.cells[row*s.columns+col], nil
}

// CellAt returns the cell identified by ref.
func (s *Spreadsheet) CellAt(ref CellRef) (*Cell, error) {
	return s.GetCell(ref.Row, ref.Col)
}

func (s *Spreadsheet) inBounds(row, col int) bool {
	return row >= 0 && row < s.rows && col >= 0 && col < s.columns
}

func (s *Spreadsheet) index(ref CellRef) uint {
	return uint(ref.Row*s.columns + ref.Col)
}

// SetText replaces a cell's raw text and recomputes it and every cell that
// depends on it. Reference and arithmetic problems are shown as sentinel
// values; only a malformed formula is reported, wrapped in ErrParse, after
// the sheet has been brought back to a consistent state.
func (s *Spreadsheet) SetText(row, col int, text string) error {
	c, err := s.GetCell(row, col)
	if err != nil {
		return err
	}
	if !c.setText(text) {
		return nil
	}
	return s.recalculate(s.index(c.ref))
}

// SetColor replaces a cell's ARGB background color.
func (s *Spreadsheet) SetColor(row, col int, color uint32) error {
	c, err := s.GetCell(row, col)
	if err != nil {
		return err
	}
	c.setColor(color)
	return nil
}

// Dependencies returns the cells that the given cell reads, in row-major order.
func (s *Spreadsheet) Dependencies(row, col int) ([]CellRef, error) {
	c, err := s.GetCell(row, col)
	if err != nil {
		return nil, err
	}
	return s.refs(s.graph.dependencies[s.index(c.ref)]), nil
}

// Dependents returns the cells that read the given cell, in row-major order.
func (s *Spreadsheet) Dependents(row, col int) ([]CellRef, error) {
	c, err := s.GetCell(row, col)
	if err != nil {
		return nil, err
	}
	return s.refs(s.graph.dependents[s.index(c.ref)]), nil
}

func (s *Spreadsheet) refs(b *bitset.BitSet) []CellRef {
	idx := members(b)
	out := make([]CellRef, len(idx))
	for i, x := range idx {
		out[i] = s.cells[x].ref
	}
	return out
}

// CheckGraph verifies the dependency graph: both adjacency directions agree
// and no cycle is wired.
func (s *Spreadsheet) CheckGraph() error {
	return s.graph.check()
}

type formulaKind int

const (
	formulaLiteral formulaKind = iota
	formulaAssignment
	formulaExpression
)

func kindOf(text string) formulaKind {
	switch {
	case !strings.HasPrefix(text, "="):
		return formulaLiteral
	case isCellName(text[1:]):
		return formulaAssignment
	default:
		return formulaExpression
	}
}

// resolution is a cell text classified and resolved against the grid.
type resolution struct {
	kind formulaKind
	refs []uint          // in-grid references, first-occurrence order
	vars map[string]uint // expression variable -> cell index
	tree *ExpressionTree
	bad  bool // at least one reference could not be resolved
	err  error
}

func (s *Spreadsheet) resolve(text string) resolution {
	res := resolution{kind: kindOf(text)}
	switch res.kind {
	case formulaAssignment:
		if i, ok := s.lookup(text[1:]); ok {
			res.refs = []uint{i}
		} else {
			res.bad = true
		}
	case formulaExpression:
		tree, err := Compile(text[1:], s.opts.compileOptions()...)
		if err != nil {
			res.bad = true
			res.err = err
			return res
		}
		res.tree = tree
		res.vars = make(map[string]uint)
		seen := make(map[uint]bool)
		for _, name := range tree.Variables() {
			i, ok := s.lookup(name)
			if !ok {
				res.bad = true
				continue
			}
			res.vars[name] = i
			if !seen[i] {
				seen[i] = true
				res.refs = append(res.refs, i)
			}
		}
	}
	return res
}

// lookup maps an A1-style name to a cell index inside the grid.
func (s *Spreadsheet) lookup(name string) (uint, bool) {
	if !isCellName(name) {
		return 0, false
	}
	ref, err := ParseCellRef(name)
	if err != nil || !s.inBounds(ref.Row, ref.Col) {
		return 0, false
	}
	return s.index(ref), true
}

// edit collects the cells whose value changed while rewiring.
type edit struct {
	changed []uint
	retried *bitset.BitSet // cells rewired or blocked during this edit
}

func (s *Spreadsheet) recalculate(i uint) error {
	e := &edit{retried: bitset.New(uint(len(s.cells)))}
	_, err := s.wire(i, e)
	s.recover(e)
	s.propagate(e.changed)
	return err
}

// wire drops the old edges of cell i, resolves its text and commits the new
// edges unless they would reference the cell itself or close a cycle. It
// reports whether the cell ended up wired.
func (s *Spreadsheet) wire(i uint, e *edit) (bool, error) {
	c := s.cells[i]
	e.retried.Set(i)
	s.graph.unlinkAll(i)
	s.graph.unblock(i)

	res := s.resolve(c.text)
	for _, r := range res.refs {
		if r == i {
			s.logger.Debug("self reference", slog.String("cell", c.ref.String()))
			s.setValue(i, KindSelfRef.Sentinel(), e)
			return false, nil
		}
	}

	if path := s.graph.cyclePath(i, res.refs); path != nil {
		proposed := bitset.New(uint(len(s.cells)))
		for _, r := range res.refs {
			proposed.Set(r)
		}
		s.graph.block(i, proposed)
		s.setValue(i, KindCircRef.Sentinel(), e)
		for _, p := range path {
			e.retried.Set(p)
			s.graph.block(p, s.graph.unlinkAll(p))
			s.setValue(p, KindCircRef.Sentinel(), e)
		}
		s.logger.Debug("circular reference",
			slog.String("cell", c.ref.String()),
			slog.Int("cycle_length", len(path)+1))
		return false, nil
	}

	for _, r := range res.refs {
		s.graph.link(i, r)
	}
	s.setValue(i, s.compute(res, c.text), e)
	if res.err != nil {
		return true, fmt.Errorf("cell %s: %w", c.ref, res.err)
	}
	return true, nil
}

// recover rewires every blocked cell whose references, withheld ones
// included, no longer lead back to it. Cells touched earlier in this edit
// wait for a later one, and each cell is retried at most once.
func (s *Spreadsheet) recover(e *edit) {
	for progress := true; progress; {
		progress = false
		for _, w := range s.graph.blockedCells() {
			if e.retried.Test(w) || s.graph.loopsBack(w) {
				continue
			}
			progress = true
			if wired, _ := s.wire(w, e); wired {
				s.logger.Debug("cycle resolved", slog.String("cell", s.cells[w].ref.String()))
			}
		}
	}
}

// propagate recomputes every transitive dependent of sources once, each
// after all of its own dependencies.
func (s *Spreadsheet) propagate(sources []uint) {
	if len(sources) == 0 {
		return
	}
	for _, x := range s.graph.calculationOrder(sources) {
		c := s.cells[x]
		s.setValue(x, s.compute(s.resolve(c.text), c.text), nil)
	}
}

func (s *Spreadsheet) setValue(i uint, value string, e *edit) {
	c := s.cells[i]
	if !c.setValue(value) {
		return
	}
	s.logger.Debug("cell recomputed", slog.String("cell", c.ref.String()), slog.String("value", value))
	if e != nil {
		e.changed = append(e.changed, i)
	}
}

// compute derives a cell's display value from its resolved text and the
// current values of the cells it references.
func (s *Spreadsheet) compute(res resolution, text string) string {
	switch res.kind {
	case formulaLiteral:
		return text
	case formulaAssignment:
		if res.bad {
			return KindBadRef.Sentinel()
		}
		return s.cells[res.refs[0]].value
	}

	if res.bad {
		return KindBadRef.Sentinel()
	}
	for _, name := range res.tree.Variables() {
		v := s.cells[res.vars[name]].value
		if _, isErr := ParseSentinel(v); isErr {
			return v
		}
		n, _ := numericValue(v)
		if err := res.tree.SetVariable(name, n); err != nil {
			return KindBadRef.Sentinel()
		}
	}
	result, err := res.tree.Evaluate()
	if errors.Is(err, ErrDivisionByZero) {
		return KindDivZero.Sentinel()
	}
	if err != nil {
		return KindBadRef.Sentinel()
	}
	return FormatNumber(result)
}

// numericValue reads a cell value as a number. Empty and non-numeric values
// count as 0.
func numericValue(v string) (float64, bool) {
	n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

// reset clears every cell to empty text and the default color and drops
// all edges.
func (s *Spreadsheet) reset() {
	for i, c := range s.cells {
		s.graph.unlinkAll(uint(i))
		s.graph.unblock(uint(i))
		c.setText("")
		c.setValue("")
		c.setColor(DefaultColor)
	}
}

// nonEmpty returns the cells with text or a non-default color, row-major.
func (s *Spreadsheet) nonEmpty() []*Cell {
	var out []*Cell
	for _, c := range s.cells {
		if !c.IsEmpty() {
			out = append(out, c)
		}
	}
	return out
}

package gridcalc

import (
	"fmt"
	"math"
	"strconv"
)

// SetVariable binds a value to a variable referenced by the expression.
func (t *ExpressionTree) SetVariable(name string, value float64) error {
	if _, ok := t.vars[name]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownVariable, name)
	}
	t.vars[name] = value
	return nil
}

// Evaluate computes the expression with the current variable bindings.
func (t *ExpressionTree) Evaluate() (float64, error) {
	return t.eval(t.root)
}

func (t *ExpressionTree) eval(n *Node) (float64, error) {
	switch n.Kind {
	case NodeConstant:
		return n.Value, nil
	case NodeVariable:
		return t.vars[n.Name], nil
	case NodeOperator:
		left, err := t.eval(n.Left)
		if err != nil {
			return 0, err
		}
		right, err := t.eval(n.Right)
		if err != nil {
			return 0, err
		}
		switch n.Op {
		case OpAdd:
			return left + right, nil
		case OpSub:
			return left - right, nil
		case OpMul:
			return left * right, nil
		case OpDiv:
			if right == 0 {
				return 0, ErrDivisionByZero
			}
			return left / right, nil
		}
		return 0, fmt.Errorf("unsupported operator %q", n.Op)
	}
	return 0, fmt.Errorf("unsupported node kind %d", n.Kind)
}

// FormatNumber renders a computed value the way cells display it.
func FormatNumber(v float64) string {
	if v == 0 {
		v = 0 // drop negative zero
	}
	if math.Abs(v) >= 1e21 {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

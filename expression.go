package gridcalc

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Operator is one of the fixed formula operator symbols.
type Operator byte

const (
	OpAdd    Operator = '+'
	OpSub    Operator = '-'
	OpMul    Operator = '*'
	OpDiv    Operator = '/'
	OpLParen Operator = '('
	OpRParen Operator = ')'
)

// Priority returns the binding strength of an arithmetic operator.
// Parentheses have priority 0 and never reach the tree.
func (op Operator) Priority() int {
	switch op {
	case OpMul, OpDiv:
		return 2
	case OpAdd, OpSub:
		return 1
	}
	return 0
}

func operatorOf(s string) (Operator, bool) {
	if len(s) != 1 {
		return 0, false
	}
	switch op := Operator(s[0]); op {
	case OpAdd, OpSub, OpMul, OpDiv, OpLParen, OpRParen:
		return op, true
	}
	return 0, false
}

// NodeKind tags the variant held by a Node.
type NodeKind uint8

const (
	NodeConstant NodeKind = iota
	NodeVariable
	NodeOperator
)

// Node is an expression tree node. Which fields are meaningful depends on Kind:
// Value for constants, Name for variables, Op/Left/Right for operators.
type Node struct {
	Kind  NodeKind
	Value float64
	Name  string
	Op    Operator
	Left  *Node
	Right *Node
}

type tokenKind uint8

const (
	tokenConstant tokenKind = iota
	tokenVariable
	tokenOperator
)

type token struct {
	kind  tokenKind
	text  string
	value float64
	op    Operator
}

// tokenize splits a formula body into raw terms. Runs of letters, digits and
// dots form one term; every other non-space character stands alone.
func tokenize(text string) []string {
	var terms []string
	var cur strings.Builder

	flush := func() {
		if cur.Len() > 0 {
			terms = append(terms, cur.String())
			cur.Reset()
		}
	}

	for _, r := range text {
		switch {
		case unicode.IsSpace(r):
			flush()
		case r < unicode.MaxASCII && (isAlpha(byte(r)) || (r >= '0' && r <= '9') || r == '.'):
			cur.WriteRune(r)
		default:
			flush()
			terms = append(terms, string(r))
		}
	}
	flush()
	return terms
}

// classify turns a raw term into a typed token.
func classify(term string) token {
	if c := term[0]; (c >= '0' && c <= '9') || c == '.' {
		if v, err := strconv.ParseFloat(term, 64); err == nil {
			return token{kind: tokenConstant, text: term, value: v}
		}
	}
	if op, ok := operatorOf(term); ok {
		return token{kind: tokenOperator, text: term, op: op}
	}
	return token{kind: tokenVariable, text: term}
}

type compileOptions struct {
	lenientParens bool
}

// CompileOption configures Compile.
type CompileOption func(*compileOptions)

// AllowUnmatchedParens makes the compiler drop an unmatched ")" and any
// dangling "(" instead of failing with ErrParse.
func AllowUnmatchedParens() CompileOption {
	return func(o *compileOptions) { o.lenientParens = true }
}

// toPostfix reorders infix tokens into postfix form (shunting-yard).
func toPostfix(tokens []token, lenient bool) ([]token, error) {
	var out []token
	var stack []token

	for _, t := range tokens {
		switch {
		case t.kind != tokenOperator:
			out = append(out, t)
		case t.op == OpLParen:
			stack = append(stack, t)
		case t.op == OpRParen:
			matched := false
			for len(stack) > 0 {
				top := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				if top.op == OpLParen {
					matched = true
					break
				}
				out = append(out, top)
			}
			if !matched && !lenient {
				return nil, fmt.Errorf("%w: unmatched %q", ErrParse, ")")
			}
		default:
			for len(stack) > 0 && stack[len(stack)-1].op.Priority() >= t.op.Priority() {
				out = append(out, stack[len(stack)-1])
				stack = stack[:len(stack)-1]
			}
			stack = append(stack, t)
		}
	}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if top.op == OpLParen {
			if !lenient {
				return nil, fmt.Errorf("%w: unmatched %q", ErrParse, "(")
			}
			continue
		}
		out = append(out, top)
	}
	return out, nil
}

// ExpressionTree is a compiled arithmetic formula with its variable bindings.
type ExpressionTree struct {
	root  *Node
	names []string           // first-occurrence order
	vars  map[string]float64 // current bindings, default 0
}

// Compile builds an expression tree from formula text such as "A1+B2*3".
// The text must not include the leading "=".
func Compile(text string, opts ...CompileOption) (*ExpressionTree, error) {
	var o compileOptions
	for _, opt := range opts {
		opt(&o)
	}

	terms := tokenize(text)
	tokens := make([]token, len(terms))
	for i, term := range terms {
		tokens[i] = classify(term)
	}

	postfix, err := toPostfix(tokens, o.lenientParens)
	if err != nil {
		return nil, fmt.Errorf("compile %q: %w", text, err)
	}

	tree := &ExpressionTree{vars: make(map[string]float64)}
	if err := tree.build(postfix); err != nil {
		return nil, fmt.Errorf("compile %q: %w", text, err)
	}
	return tree, nil
}

func (t *ExpressionTree) build(postfix []token) error {
	var stack []*Node
	for _, tok := range postfix {
		switch tok.kind {
		case tokenConstant:
			stack = append(stack, &Node{Kind: NodeConstant, Value: tok.value})
		case tokenVariable:
			if _, seen := t.vars[tok.text]; !seen {
				t.vars[tok.text] = 0
				t.names = append(t.names, tok.text)
			}
			stack = append(stack, &Node{Kind: NodeVariable, Name: tok.text})
		case tokenOperator:
			if len(stack) < 2 {
				return fmt.Errorf("%w: operator %q is missing an operand", ErrParse, tok.text)
			}
			right := stack[len(stack)-1]
			left := stack[len(stack)-2]
			stack = stack[:len(stack)-2]
			stack = append(stack, &Node{Kind: NodeOperator, Op: tok.op, Left: left, Right: right})
		}
	}

	switch len(stack) {
	case 0:
		return fmt.Errorf("%w: empty expression", ErrParse)
	case 1:
		t.root = stack[0]
		return nil
	default:
		return fmt.Errorf("%w: %d operands without an operator", ErrParse, len(stack))
	}
}

// Root returns the root node of the tree.
func (t *ExpressionTree) Root() *Node { return t.root }

// Variables returns every variable name referenced by the expression, in
// first-occurrence order and without duplicates.
func (t *ExpressionTree) Variables() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

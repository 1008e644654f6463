package expression

import (
	"fmt"
	"strconv"

	"scenario-hq/criterion/pkg/sdl/ast"
)

// Kind identifies the variant of an expression node.
type Kind string

const (
	KindEmpty     Kind = "Empty"
	KindLiteral   Kind = "Literal"
	KindAll       Kind = "All"
	KindAny       Kind = "Any"
	KindNot       Kind = "Not"
	KindProcedure Kind = "Procedure"
)

// Procedure is a bound condition or action module instance owned by a
// procedure-call node. The instance is resolved once at tree construction
// and never rebound; rebinding would lose the module's internal state
// such as a latched result.
type Procedure interface {
	// Type returns the module's declared type name (e.g. "Speed").
	Type() string

	// Name returns the module's resolved display name, empty until set
	// explicitly or auto-generated during report building.
	Name() string

	// Rename sets the module's display name.
	Rename(name string)

	// Result returns the boolean result of the last Update.
	Result() bool

	// Update advances the module by one tick and returns its result.
	Update(ctx *Context) (bool, error)
}

// node is the shared backing storage of an Expression. All copies of an
// Expression reference the same node.
type node struct {
	kind     Kind
	value    bool
	operands []Expression
	proc     Procedure
}

// Expression is a tagged-variant tree node. The zero value is the empty
// expression, which evaluates to itself and converts to false.
//
// Copying an Expression shares its backing node.
type Expression struct {
	n *node
}

// Boolean returns a literal boolean expression.
func Boolean(value bool) Expression {
	return Expression{n: &node{kind: KindLiteral, value: value}}
}

// NewAll returns an N-ary conjunction over the given operands in
// declaration order.
func NewAll(operands ...Expression) Expression {
	return Expression{n: &node{kind: KindAll, operands: operands}}
}

// NewAny returns an N-ary disjunction over the given operands in
// declaration order.
func NewAny(operands ...Expression) Expression {
	return Expression{n: &node{kind: KindAny, operands: operands}}
}

// NewNot returns the negation of a single operand.
func NewNot(operand Expression) Expression {
	return Expression{n: &node{kind: KindNot, operands: []Expression{operand}}}
}

// NewProcedure returns a procedure-call node bound to the given module
// instance.
func NewProcedure(proc Procedure) Expression {
	return Expression{n: &node{kind: KindProcedure, proc: proc}}
}

// Kind returns the node's variant.
func (e Expression) Kind() Kind {
	if e.n == nil {
		return KindEmpty
	}
	return e.n.kind
}

// Type returns the node's display type: the variant name for literals and
// combinators, the bound module's type for procedure calls.
func (e Expression) Type() string {
	if e.n == nil {
		return string(KindEmpty)
	}
	if e.n.kind == KindProcedure {
		return e.n.proc.Type()
	}
	return string(e.n.kind)
}

// Bool converts the expression to a boolean test value. Empty and
// unevaluated combinator nodes convert to false; literals convert to
// their carried value.
func (e Expression) Bool() bool {
	if e.n == nil {
		return false
	}
	if e.n.kind == KindLiteral {
		return e.n.value
	}
	return false
}

// Operands returns the node's children, sharing backing nodes.
func (e Expression) Operands() []Expression {
	if e.n == nil {
		return nil
	}
	return e.n.operands
}

// Evaluate evaluates the expression for one tick and returns the
// resulting expression, a boolean literal for combinators and procedure
// calls. Every child of a combinator is evaluated exactly once, in
// declaration order, with no short-circuiting. Errors propagate without
// being converted into a false result.
func (e Expression) Evaluate(ctx *Context) (Expression, error) {
	if e.n == nil {
		return e, nil
	}

	switch e.n.kind {
	case KindLiteral:
		return e, nil

	case KindAll:
		result := true
		for _, operand := range e.n.operands {
			r, err := operand.Evaluate(ctx)
			if err != nil {
				return Expression{}, err
			}
			result = result && r.Bool()
		}
		return Boolean(result), nil

	case KindAny:
		result := false
		for _, operand := range e.n.operands {
			r, err := operand.Evaluate(ctx)
			if err != nil {
				return Expression{}, err
			}
			result = result || r.Bool()
		}
		return Boolean(result), nil

	case KindNot:
		r, err := e.n.operands[0].Evaluate(ctx)
		if err != nil {
			return Expression{}, err
		}
		return Boolean(!r.Bool()), nil

	case KindProcedure:
		result, err := e.n.proc.Update(ctx)
		if err != nil {
			return Expression{}, fmt.Errorf("procedure %s: %w", e.n.proc.Type(), err)
		}
		return Boolean(result), nil

	default:
		return Expression{}, fmt.Errorf("unknown expression kind %q", e.n.kind)
	}
}

// Report builds the diagnostic report tree for the expression. Procedure
// leaves without an explicit name are renamed to the auto-generated form
// prefix + Type(occurrence); the name sticks for the node's lifetime.
func (e Expression) Report(prefix string, occurrence int) ast.Report {
	if e.n == nil {
		return ast.Report{}
	}

	switch e.n.kind {
	case KindAll, KindAny, KindNot:
		occurrences := make(map[string]int)
		childPrefix := prefix + string(e.n.kind) + "(" + strconv.Itoa(occurrence) + ")/"

		var children []ast.Report
		for _, operand := range e.n.operands {
			childType := operand.Type()
			report := operand.Report(childPrefix, occurrences[childType])
			occurrences[childType]++

			if report.Name != "" {
				children = append(children, report)
			} else {
				// Unnamed grouping node: splice its children.
				children = append(children, report.Children...)
			}
		}
		return ast.Group(children)

	case KindProcedure:
		if e.n.proc.Name() == "" {
			e.n.proc.Rename(prefix + e.n.proc.Type() + "(" + strconv.Itoa(occurrence) + ")")
		}
		return ast.Leaf(e.n.proc.Name(), e.n.proc.Result())

	default:
		return ast.Report{}
	}
}

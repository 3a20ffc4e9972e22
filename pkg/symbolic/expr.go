package symbolic

import (
	"fmt"
	"strconv"
	"strings"
)

// Expr is a symbolic expression node. The concrete forms are [*Dimension],
// [Int], [Sym], [*Add], [*Mul], and [*Indexed]. Expressions are immutable
// after construction.
type Expr interface {
	fmt.Stringer

	// children returns the sub-expressions in declared order.
	children() []Expr
}

func (d *Dimension) children() []Expr { return nil }

// Int is an integer literal.
type Int int

// String returns the decimal representation.
func (i Int) String() string { return strconv.Itoa(int(i)) }

func (i Int) children() []Expr { return nil }

// Sym is an opaque named symbol, such as a scalar coefficient, that is not
// a dimension. Symbols with equal names are distinct unless shared.
type Sym struct {
	name string
}

// NewSym creates a named symbol.
func NewSym(name string) *Sym { return &Sym{name: name} }

// Name returns the symbol name.
func (s *Sym) Name() string { return s.name }

// String returns the symbol name.
func (s *Sym) String() string { return s.name }

func (s *Sym) children() []Expr { return nil }

// Add is an n-ary sum. Subtraction is represented as addition of a negated
// term (an Int literal, or a Mul with a leading -1 factor).
type Add struct {
	terms []Expr
}

// AddExpr creates a sum of the given terms. Nested Add terms are flattened
// so that (a + (b + c)) and (a + b + c) are structurally identical.
func AddExpr(terms ...Expr) *Add {
	flat := make([]Expr, 0, len(terms))
	for _, t := range terms {
		if a, ok := t.(*Add); ok {
			flat = append(flat, a.terms...)
			continue
		}
		flat = append(flat, t)
	}
	return &Add{terms: flat}
}

// Terms returns the summands in declared order.
// The returned slice must not be modified.
func (a *Add) Terms() []Expr { return a.terms }

// String renders the sum, folding negative integer terms into subtractions.
func (a *Add) String() string {
	var b strings.Builder
	for i, t := range a.terms {
		if n, ok := t.(Int); ok && n < 0 && i > 0 {
			b.WriteString(" - ")
			b.WriteString(strconv.Itoa(int(-n)))
			continue
		}
		if i > 0 {
			b.WriteString(" + ")
		}
		b.WriteString(t.String())
	}
	return b.String()
}

func (a *Add) children() []Expr { return a.terms }

// Mul is an n-ary product.
type Mul struct {
	factors []Expr
}

// MulExpr creates a product of the given factors. Nested Mul factors are
// flattened.
func MulExpr(factors ...Expr) *Mul {
	flat := make([]Expr, 0, len(factors))
	for _, f := range factors {
		if m, ok := f.(*Mul); ok {
			flat = append(flat, m.factors...)
			continue
		}
		flat = append(flat, f)
	}
	return &Mul{factors: flat}
}

// Factors returns the factors in declared order.
// The returned slice must not be modified.
func (m *Mul) Factors() []Expr { return m.factors }

// String renders the product with "*" separators. Non-leaf factors are
// parenthesized.
func (m *Mul) String() string {
	parts := make([]string, len(m.factors))
	for i, f := range m.factors {
		s := f.String()
		if _, ok := f.(*Add); ok {
			s = "(" + s + ")"
		}
		parts[i] = s
	}
	return strings.Join(parts, "*")
}

func (m *Mul) children() []Expr { return m.factors }

// Function is a named array-like object declaring a fixed ordered tuple of
// dimensions as its axes. Like dimensions, functions are created once per
// model and shared by identity.
type Function struct {
	name string
	axes []*Dimension
}

// NewFunction creates a function with the given name and declared axes.
func NewFunction(name string, axes ...*Dimension) *Function {
	return &Function{name: name, axes: axes}
}

// Name returns the function name.
func (f *Function) Name() string { return f.name }

// Axes returns the declared index dimensions in order.
// The returned slice must not be modified.
func (f *Function) Axes() []*Dimension { return f.axes }

// Arity returns the number of declared axes.
func (f *Function) Arity() int { return len(f.axes) }

// At creates an indexed access with one index expression per declared axis.
// It panics if the number of indices does not match the arity; constructing
// an access with the wrong shape is a programming error, not an input error.
func (f *Function) At(indices ...Expr) *Indexed {
	if len(indices) != len(f.axes) {
		panic(fmt.Sprintf("symbolic: %s takes %d indices, got %d", f.name, len(f.axes), len(indices)))
	}
	return &Indexed{fn: f, indices: indices}
}

// Indexed is a reference to a function with an ordered list of index
// expressions, one per declared axis. Indexed accesses may appear nested
// inside another access's index expressions.
type Indexed struct {
	fn      *Function
	indices []Expr
}

// Function returns the accessed function.
func (ix *Indexed) Function() *Function { return ix.fn }

// Indices returns the index expressions in declared order.
// The returned slice must not be modified.
func (ix *Indexed) Indices() []Expr { return ix.indices }

// String renders the access as name[i0, i1, ...].
func (ix *Indexed) String() string {
	parts := make([]string, len(ix.indices))
	for i, e := range ix.indices {
		parts[i] = e.String()
	}
	return ix.fn.name + "[" + strings.Join(parts, ", ") + "]"
}

func (ix *Indexed) children() []Expr { return ix.indices }

// Equation is a left/right expression pair, optionally carrying an explicit
// subdomain ordering: an externally declared axis order that the dimension
// sort honors alongside the relations extracted from indexed accesses.
type Equation struct {
	lhs       Expr
	rhs       Expr
	subdomain []*Dimension
}

// NewEquation creates an equation from its two sides.
func NewEquation(lhs, rhs Expr) *Equation {
	return &Equation{lhs: lhs, rhs: rhs}
}

// WithSubdomain returns a copy of the equation carrying the given explicit
// axis ordering. The original equation is not modified.
func (eq *Equation) WithSubdomain(dims ...*Dimension) *Equation {
	return &Equation{lhs: eq.lhs, rhs: eq.rhs, subdomain: dims}
}

// LHS returns the left-hand side.
func (eq *Equation) LHS() Expr { return eq.lhs }

// RHS returns the right-hand side.
func (eq *Equation) RHS() Expr { return eq.rhs }

// Subdomain returns the explicit axis ordering, or nil if none was declared.
// The returned slice must not be modified.
func (eq *Equation) Subdomain() []*Dimension { return eq.subdomain }

// String renders the equation as "lhs = rhs".
func (eq *Equation) String() string {
	return eq.lhs.String() + " = " + eq.rhs.String()
}

// Package expr is a reference implementation of the expression algebra that
// the discrimination net consumes. It is scaffolding, not part of the
// matcher's core. Operation heads and symbol categories reach the core only
// through the term.Head and term.Category interfaces, which a caller's own
// types can implement; Expression itself is closed to this package, so the
// expression trees passed to flatterm, discrimnet and seqmatch are built from
// the types defined here.
package expr

import "github.com/gitrfl/discrimnet/term"

// Expression is the closed sum the core walks during flattening: a Symbol,
// a SymbolWildcard, a Wildcard, a Variable, or an Operation.
type Expression interface {
	// isExpression is unexported so the sum stays closed to this package.
	isExpression()
}

// OperationKind is an operation's identity: its name, commutativity,
// associativity, and arity. Two operations are the same kind iff their
// *OperationKind pointers are equal, mirroring the Python original's
// identity comparison of operation classes.
type OperationKind struct {
	Name          string
	IsCommutative bool
	IsAssociative bool
	ArityMin      int
	ArityFixed    bool
}

func (k *OperationKind) HeadName() string    { return k.Name }
func (k *OperationKind) Commutative() bool   { return k.IsCommutative }
func (k *OperationKind) Associative() bool   { return k.IsAssociative }
func (k *OperationKind) Arity() term.Arity {
	return term.Arity{Min: k.ArityMin, Fixed: k.ArityFixed}
}

// NewOperationKind is a convenience constructor for a non-commutative,
// non-associative, variadic (min 0) operation kind, the shape most patterns
// in this package's tests use.
func NewOperationKind(name string) *OperationKind {
	return &OperationKind{Name: name, ArityMin: 0, ArityFixed: false}
}

// Operation is a compound expression with a Kind and Operands.
type Operation struct {
	Kind     *OperationKind
	Operands []Expression
}

func (*Operation) isExpression() {}

// SymbolCategoryKind is a symbol category's identity, forming a tree of
// subcategories via Parent.
type SymbolCategoryKind struct {
	Name   string
	Parent *SymbolCategoryKind
}

func (c *SymbolCategoryKind) CategoryName() string { return c.Name }

func (c *SymbolCategoryKind) IsSubcategoryOf(other term.Category) bool {
	for p := c.Parent; p != nil; p = p.Parent {
		if term.Category(p) == other {
			return true
		}
	}
	return false
}

// Symbol is a ground leaf expression.
type Symbol struct {
	Name string
	Cat  *SymbolCategoryKind
}

func (Symbol) isExpression() {}

// Wildcard matches any contiguous run of operands (when used as an
// Operation's operand) or a single subexpression.
type Wildcard struct {
	Min   int
	Fixed bool
}

func (Wildcard) isExpression() {}

// IsStar reports whether w is an unbounded, non-fixed, min-0 wildcard — the
// shape required at the two ends of a sequence-matcher pattern.
func (w Wildcard) IsStar() bool {
	return w.Min == 0 && !w.Fixed
}

// SymbolWildcard matches any Symbol in the given category.
type SymbolWildcard struct {
	Cat *SymbolCategoryKind
}

func (SymbolWildcard) isExpression() {}

// Variable is a named holder around an inner expression. It is transparent
// during flattening: only Inner is emitted, never the variable's name.
type Variable struct {
	Name  string
	Inner Expression
}

func (Variable) isExpression() {}

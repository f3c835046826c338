// Package flatterm produces and manipulates the linearized, prefix-order
// encoding of an expression tree used throughout the discrimination net:
// the FlatTerm.
package flatterm

import (
	"strings"
	"sync"

	"github.com/gitrfl/discrimnet/expr"
	"github.com/gitrfl/discrimnet/term"
)

// FlatTerm is an immutable ordered sequence of term atoms produced from an
// expression tree by a prefix walk. It is read-only after construction;
// IsSyntactic is computed lazily and cached. FlatTerm is a small value type
// wrapping a pointer to its backing data, so it is cheap to copy and the
// syntactic-check cache is shared across copies.
type FlatTerm struct {
	data *ftData
}

type ftData struct {
	atoms       []term.Atom
	syntactic   sync.Once
	isSyntactic bool
}

// Empty returns the empty FlatTerm.
func Empty() FlatTerm {
	return FlatTerm{data: &ftData{}}
}

// FromAtoms builds a FlatTerm from a pre-validated sequence of atoms,
// fusing any consecutive plain Wildcards at the seams.
func FromAtoms(atoms []term.Atom) FlatTerm {
	return FlatTerm{data: &ftData{atoms: fuseWildcards(atoms)}}
}

// FromExpr runs the prefix walk and wildcard-fusion filter over an
// expression tree.
func FromExpr(e expr.Expression) FlatTerm {
	var atoms []term.Atom
	walk(e, &atoms)
	return FlatTerm{data: &ftData{atoms: fuseWildcards(atoms)}}
}

// Merged concatenates the given FlatTerms into a single FlatTerm, fusing
// wildcards across their seams. Required by the sequence matcher, which
// fuses a pattern's middle operands into one tape.
func Merged(terms ...FlatTerm) FlatTerm {
	var all []term.Atom
	for _, ft := range terms {
		all = append(all, ft.Atoms()...)
	}
	return FlatTerm{data: &ftData{atoms: fuseWildcards(all)}}
}

// Len returns the number of atoms on the tape.
func (f FlatTerm) Len() int {
	if f.data == nil {
		return 0
	}
	return len(f.data.atoms)
}

// At returns the atom at index i.
func (f FlatTerm) At(i int) term.Atom { return f.data.atoms[i] }

// Atoms returns the underlying atom slice. Callers must not mutate it.
func (f FlatTerm) Atoms() []term.Atom {
	if f.data == nil {
		return nil
	}
	return f.data.atoms
}

// Equal reports structural equality of the atom sequence.
func (f FlatTerm) Equal(other FlatTerm) bool {
	a, b := f.Atoms(), other.Atoms()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// IsSyntactic reports whether every Wildcard on the tape has Fixed = true
// and no OperationHead refers to a commutative or associative head.
// Syntactic terms admit a degenerate linear automaton: no self-loop, no
// backtracking.
func (f FlatTerm) IsSyntactic() bool {
	f.data.syntactic.Do(func() {
		f.data.isSyntactic = true
		for _, a := range f.data.atoms {
			if w, ok := a.(term.Wildcard); ok && !w.Fixed {
				f.data.isSyntactic = false
				return
			}
			if oh, ok := a.(term.OperationHead); ok {
				if oh.H.Commutative() || oh.H.Associative() {
					f.data.isSyntactic = false
					return
				}
			}
		}
	})
	return f.data.isSyntactic
}

func walk(e expr.Expression, out *[]term.Atom) {
	switch v := e.(type) {
	case expr.Variable:
		walk(v.Inner, out)
	case *expr.Operation:
		*out = append(*out, term.OperationHead{H: v.Kind})
		for _, operand := range v.Operands {
			walk(operand, out)
		}
		*out = append(*out, term.OperationEnd)
	case expr.SymbolWildcard:
		*out = append(*out, term.SymbolCategory{Cat: categoryOf(v.Cat)})
	case expr.Symbol:
		*out = append(*out, term.Symbol{Name: v.Name, Cat: categoryOf(v.Cat)})
	case expr.Wildcard:
		*out = append(*out, term.Wildcard{Min: v.Min, Fixed: v.Fixed})
	default:
		panic("flatterm: unreachable unless a new unsupported expression type is added")
	}
}

// categoryOf boxes cat into term.Category, keeping the interface itself nil
// (rather than a non-nil interface wrapping a nil *expr.SymbolCategoryKind)
// when cat is nil, so a downstream `s.Cat == nil` check behaves correctly
// instead of tripping over a typed nil.
func categoryOf(cat *expr.SymbolCategoryKind) term.Category {
	if cat == nil {
		return nil
	}
	return cat
}

// fuseWildcards combines consecutive plain Wildcards into a single one:
// min-counts sum, fixed-ness ANDs. SymbolCategory atoms are never fused,
// even though they are also wildcards in spirit.
func fuseWildcards(atoms []term.Atom) []term.Atom {
	out := make([]term.Atom, 0, len(atoms))
	var pending *term.Wildcard

	flush := func() {
		if pending != nil {
			out = append(out, *pending)
			pending = nil
		}
	}

	for _, a := range atoms {
		w, isPlainWildcard := a.(term.Wildcard)
		if isPlainWildcard {
			if pending != nil {
				pending = &term.Wildcard{
					Min:   pending.Min + w.Min,
					Fixed: pending.Fixed && w.Fixed,
				}
			} else {
				wc := w
				pending = &wc
			}
			continue
		}
		flush()
		out = append(out, a)
	}
	flush()
	return out
}

// String renders the tape in a human-readable, matchpy-like form, e.g.
// "f( a b )".
func (f FlatTerm) String() string {
	var b strings.Builder
	for i, a := range f.Atoms() {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(atomString(a))
	}
	return b.String()
}

func atomString(a term.Atom) string {
	switch v := a.(type) {
	case term.OperationHead:
		return v.H.HeadName() + "("
	case term.Symbol:
		return v.Name
	case term.SymbolCategory:
		return "*" + v.Cat.CategoryName()
	case term.Wildcard:
		if v.Fixed {
			if v.Min == 1 {
				return "_"
			}
			return "_[" + itoa(v.Min) + "]"
		}
		return "_[" + itoa(v.Min) + "+]"
	default:
		if a == term.OperationEnd {
			return ")"
		}
		return "?"
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	if neg {
		digits = append([]byte{'-'}, digits...)
	}
	return string(digits)
}

// Package seqmatch matches patterns of the shape f(x*, s1, ..., sn, y*)
// against a subject compound with the same outer head: x* and y* are star
// wildcards absorbing a prefix and suffix run of operands, while s1..sn are
// syntactic patterns matched against a contiguous middle run. This is C7,
// built on top of the discrimination net (C6): the middle operands of every
// registered pattern are fused into one FlatTerm and inserted into an inner
// Net, which is then slid across the subject's operand boundaries.
package seqmatch

import (
	"iter"

	"github.com/gitrfl/discrimnet/discrimnet"
	"github.com/gitrfl/discrimnet/expr"
	"github.com/gitrfl/discrimnet/flatterm"
	"github.com/gitrfl/discrimnet/subst"
)

// patternEntry is what SeqMatcher remembers about a registered pattern
// beyond its contribution to the inner net.
type patternEntry struct {
	pattern      *expr.Operation
	firstName    string
	hasFirstName bool
	lastName     string
	hasLastName  bool
}

// SeqMatcher matches many f(x*, s1..sn, y*) patterns against sequence
// subjects simultaneously. All patterns registered to one SeqMatcher must
// share the same outer, non-commutative operation kind.
type SeqMatcher struct {
	head     *expr.OperationKind
	net      *discrimnet.Net
	patterns []patternEntry
}

// New returns an empty SeqMatcher.
func New() *SeqMatcher {
	return &SeqMatcher{net: discrimnet.New()}
}

// Add registers pattern, returning its dense index. Returns a *ShapeError if
// pattern is not a non-commutative operation with at least 3 operands whose
// first and last operand are each a star wildcard (optionally wrapped in a
// Variable), or a *HeadMismatchError if an earlier pattern established a
// different outer head.
func (m *SeqMatcher) Add(pattern expr.Expression) (int, error) {
	op, ok := pattern.(*expr.Operation)
	if !ok {
		return 0, &ShapeError{Reason: "pattern must be an operation"}
	}
	if op.Kind.Commutative() {
		return 0, &ShapeError{Reason: "outer operation must be non-commutative"}
	}
	if len(op.Operands) < 3 {
		return 0, &ShapeError{Reason: "pattern must have at least 3 operands"}
	}

	if m.head != nil && m.head != op.Kind {
		return 0, &HeadMismatchError{Expected: m.head, Got: op.Kind}
	}

	firstName, hasFirst, err := starNameOf(op.Operands[0])
	if err != nil {
		return 0, err
	}
	lastName, hasLast, err := starNameOf(op.Operands[len(op.Operands)-1])
	if err != nil {
		return 0, err
	}
	if m.head == nil {
		m.head = op.Kind
	}

	idx := len(m.patterns)
	middle := op.Operands[1 : len(op.Operands)-1]
	fts := make([]flatterm.FlatTerm, len(middle))
	for i, o := range middle {
		fts[i] = flatterm.FromExpr(o)
	}
	m.net.AddFlatTerm(flatterm.Merged(fts...), idx)

	m.patterns = append(m.patterns, patternEntry{
		pattern:      op,
		firstName:    firstName,
		hasFirstName: hasFirst,
		lastName:     lastName,
		hasLastName:  hasLast,
	})
	return idx, nil
}

// starNameOf reports whether e is a star wildcard (optionally wrapped in a
// Variable), returning the variable's name and true if it was wrapped, or a
// *ShapeError if e is not of the required shape.
func starNameOf(e expr.Expression) (name string, wrapped bool, err error) {
	inner := e
	if v, ok := e.(expr.Variable); ok {
		name, wrapped = v.Name, true
		inner = v.Inner
	}
	w, ok := inner.(expr.Wildcard)
	if !ok || !w.IsStar() {
		return "", false, &ShapeError{Reason: "pattern's first and last operand must each be a star wildcard"}
	}
	return name, wrapped, nil
}

// CanMatch reports whether pattern has the shape SeqMatcher.Add requires,
// without registering it or checking it against any established head.
func CanMatch(pattern expr.Expression) bool {
	op, ok := pattern.(*expr.Operation)
	if !ok || op.Kind.Commutative() || len(op.Operands) < 3 {
		return false
	}
	if _, _, err := starNameOf(op.Operands[0]); err != nil {
		return false
	}
	_, _, err := starNameOf(op.Operands[len(op.Operands)-1])
	return err == nil
}

// Match runs subject against every registered pattern, yielding (pattern,
// substitution) for each accepted start offset. A subject whose outer head
// differs from the matcher's established head yields nothing.
func (m *SeqMatcher) Match(subject expr.Expression) iter.Seq2[expr.Expression, subst.Substitution] {
	return func(yield func(expr.Expression, subst.Substitution) bool) {
		op, ok := subject.(*expr.Operation)
		if !ok || m.head == nil || op.Kind != m.head {
			return
		}

		operandFTs := make([]flatterm.FlatTerm, len(op.Operands))
		for i, o := range op.Operands {
			operandFTs[i] = flatterm.FromExpr(o)
		}

		for i := range operandFTs {
			slid := flatterm.Merged(operandFTs[i:]...)
			indices, err := m.net.MatchFlatTermFirst(slid)
			if err != nil {
				continue
			}

			for _, netIdx := range indices {
				seqIdx, ok := m.net.Label(netIdx).(int)
				if !ok {
					continue
				}
				entry := m.patterns[seqIdx]
				middleLen := len(entry.pattern.Operands) - 2
				if i+middleLen > len(op.Operands) {
					continue
				}

				exprOperands := op.Operands[i : i+middleLen]
				pattOperands := entry.pattern.Operands[1 : len(entry.pattern.Operands)-1]

				s := subst.New()
				matched := true
				for j := range pattOperands {
					if !s.ExtractSubstitution(exprOperands[j], pattOperands[j]) {
						matched = false
						break
					}
				}
				if !matched {
					continue
				}

				if entry.hasFirstName {
					prefix := append([]expr.Expression(nil), op.Operands[:i]...)
					if !s.TryAddVariable(entry.firstName, prefix) {
						continue
					}
				}
				if entry.hasLastName {
					suffix := append([]expr.Expression(nil), op.Operands[i+middleLen:]...)
					if !s.TryAddVariable(entry.lastName, suffix) {
						continue
					}
				}

				if !yield(entry.pattern, s) {
					return
				}
			}
		}
	}
}

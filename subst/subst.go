// Package subst is a reference implementation of the substitution object
// consumed by the discrimination net: a mutable map from variable name to
// bound subterm, plus a minimal constraint combinator. Like package expr,
// this is scaffolding around the matcher's core, but it is not pluggable:
// discrimnet.Net.Match and seqmatch.SeqMatcher.Match yield this concrete
// Substitution type.
package subst

import (
	"reflect"

	"github.com/gitrfl/discrimnet/expr"
)

// Substitution binds variable names to subterms. The zero value is an
// empty substitution that can be read but not bound into (it is a nil map);
// use New for one that accepts bindings.
type Substitution map[string]any

// New returns an empty Substitution.
func New() Substitution {
	return Substitution{}
}

// TryAddVariable binds name to value. If name is already bound to a
// different value, the existing binding is left untouched and ok is false.
func (s Substitution) TryAddVariable(name string, value any) bool {
	if existing, bound := s[name]; bound {
		return reflect.DeepEqual(existing, value)
	}
	s[name] = value
	return true
}

// ExtractSubstitution walks subject and pattern in lockstep, binding every
// Variable in pattern to the corresponding part of subject (an anonymous
// Wildcard binds nothing). It
// returns false on any structural mismatch or binding conflict, in which
// case s may be partially modified and should be discarded by the caller.
func (s Substitution) ExtractSubstitution(subject, pattern expr.Expression) bool {
	switch p := pattern.(type) {
	case expr.Variable:
		if !s.ExtractSubstitution(subject, p.Inner) {
			return false
		}
		return s.TryAddVariable(p.Name, subject)

	case expr.Wildcard:
		// An anonymous wildcard (not wrapped in a Variable) binds nothing;
		// it only needs to be structurally present, which it is by virtue
		// of having been matched here at all.
		return true

	case expr.SymbolWildcard:
		sym, ok := subject.(expr.Symbol)
		if !ok {
			return false
		}
		if sym.Cat == nil || !categoryMatches(sym.Cat, p.Cat) {
			return false
		}
		return true

	case expr.Symbol:
		sym, ok := subject.(expr.Symbol)
		return ok && sym.Name == p.Name

	case *expr.Operation:
		subOp, ok := subject.(*expr.Operation)
		if !ok || subOp.Kind != p.Kind {
			return false
		}
		return s.extractOperands(subOp.Operands, p.Operands)

	default:
		return false
	}
}

// extractOperands walks a pattern's operand list against a subject's operand
// list, allowing a non-fixed (Min/Fixed other than the classic single "_")
// Wildcard operand to consume a variable-length span rather than exactly one
// subject operand, mirroring how the sequence matcher binds its prefix and
// suffix runs. An ordinary single wildcard (Min: 1, Fixed: true) still goes
// through ExtractSubstitution's own Wildcard case one operand at a time, so
// scalar bindings (Variable wrapping a plain "_") are unaffected.
func (s Substitution) extractOperands(subjectOperands, patternOperands []expr.Expression) bool {
	if len(patternOperands) == 0 {
		return len(subjectOperands) == 0
	}
	head, rest := patternOperands[0], patternOperands[1:]

	name, hasName, w, isSpan := spanWildcard(head)
	if !isSpan {
		if len(subjectOperands) == 0 {
			return false
		}
		if !s.ExtractSubstitution(subjectOperands[0], head) {
			return false
		}
		return s.extractOperands(subjectOperands[1:], rest)
	}

	if w.Fixed {
		if len(subjectOperands) < w.Min {
			return false
		}
		if hasName && !s.TryAddVariable(name, cloneSpan(subjectOperands[:w.Min])) {
			return false
		}
		return s.extractOperands(subjectOperands[w.Min:], rest)
	}

	restMin := minOperandsCost(rest)
	for length := w.Min; length+restMin <= len(subjectOperands); length++ {
		trial := s.clone()
		if hasName && !trial.TryAddVariable(name, cloneSpan(subjectOperands[:length])) {
			continue
		}
		if trial.extractOperands(subjectOperands[length:], rest) {
			for k, v := range trial {
				s[k] = v
			}
			return true
		}
	}
	return false
}

// spanWildcard reports whether head (optionally wrapped in an expr.Variable)
// is a Wildcard that must be treated as a variable-length span rather than a
// single matched operand: every non-fixed wildcard, plus any fixed wildcard
// whose Min isn't exactly 1. It returns the binding name if head is a named
// Variable.
func spanWildcard(head expr.Expression) (name string, hasName bool, w expr.Wildcard, isSpan bool) {
	inner := head
	if v, ok := head.(expr.Variable); ok {
		name, hasName = v.Name, true
		inner = v.Inner
	}
	ww, ok := inner.(expr.Wildcard)
	if !ok {
		return "", false, expr.Wildcard{}, false
	}
	if ww.Fixed && ww.Min == 1 {
		return "", false, expr.Wildcard{}, false
	}
	return name, hasName, ww, true
}

// minOperandsCost is a lower bound on how many subject operands the given
// pattern operands must consume between them: 1 per ordinary operand, Min
// per span wildcard.
func minOperandsCost(patternOperands []expr.Expression) int {
	total := 0
	for _, p := range patternOperands {
		if _, _, w, isSpan := spanWildcard(p); isSpan {
			total += w.Min
		} else {
			total++
		}
	}
	return total
}

func cloneSpan(span []expr.Expression) []expr.Expression {
	return append([]expr.Expression(nil), span...)
}

func (s Substitution) clone() Substitution {
	c := make(Substitution, len(s))
	for k, v := range s {
		c[k] = v
	}
	return c
}

func categoryMatches(sym, wc *expr.SymbolCategoryKind) bool {
	if sym == wc {
		return true
	}
	for p := sym.Parent; p != nil; p = p.Parent {
		if p == wc {
			return true
		}
	}
	return false
}

// Constraint is a user-defined predicate evaluated against a completed
// substitution.
type Constraint func(Substitution) bool

// MultiConstraint combines zero or more constraints into one that requires
// all of them to hold. It returns nil if constraints is empty, so callers
// can skip the check entirely when there is nothing to enforce.
func MultiConstraint(constraints ...Constraint) Constraint {
	nonNil := make([]Constraint, 0, len(constraints))
	for _, c := range constraints {
		if c != nil {
			nonNil = append(nonNil, c)
		}
	}
	if len(nonNil) == 0 {
		return nil
	}
	return func(s Substitution) bool {
		for _, c := range nonNil {
			if !c(s) {
				return false
			}
		}
		return true
	}
}

package subst

import (
	"testing"

	"github.com/gitrfl/discrimnet/expr"
)

var fKind = expr.NewOperationKind("f")

func sym(name string) expr.Symbol { return expr.Symbol{Name: name} }

func TestExtractSubstitutionGroundMatch(t *testing.T) {
	subject := &expr.Operation{Kind: fKind, Operands: []expr.Expression{sym("a"), sym("b")}}
	pattern := &expr.Operation{Kind: fKind, Operands: []expr.Expression{sym("a"), sym("b")}}

	s := New()
	if !s.ExtractSubstitution(subject, pattern) {
		t.Fatal("expected identical ground terms to match")
	}
}

func TestExtractSubstitutionBindsVariable(t *testing.T) {
	subject := &expr.Operation{Kind: fKind, Operands: []expr.Expression{sym("a"), sym("b")}}
	pattern := &expr.Operation{Kind: fKind, Operands: []expr.Expression{
		sym("a"),
		expr.Variable{Name: "x", Inner: expr.Wildcard{Min: 1, Fixed: true}},
	}}

	s := New()
	if !s.ExtractSubstitution(subject, pattern) {
		t.Fatal("expected pattern to match")
	}
	if bound, ok := s["x"]; !ok || bound != sym("b") {
		t.Errorf("expected x bound to b, got %v (ok=%v)", bound, ok)
	}
}

func TestExtractSubstitutionStarWildcardSpansMultipleOperands(t *testing.T) {
	subject := &expr.Operation{Kind: fKind, Operands: []expr.Expression{sym("a"), sym("b"), sym("c")}}
	pattern := &expr.Operation{Kind: fKind, Operands: []expr.Expression{
		sym("a"),
		expr.Wildcard{Min: 0, Fixed: false},
	}}

	s := New()
	if !s.ExtractSubstitution(subject, pattern) {
		t.Fatal("expected a trailing star wildcard to absorb the remaining operands")
	}
}

func TestExtractSubstitutionNamedStarWildcardBindsSpan(t *testing.T) {
	subject := &expr.Operation{Kind: fKind, Operands: []expr.Expression{sym("a"), sym("b"), sym("c")}}
	pattern := &expr.Operation{Kind: fKind, Operands: []expr.Expression{
		sym("a"),
		expr.Variable{Name: "rest", Inner: expr.Wildcard{Min: 0, Fixed: false}},
	}}

	s := New()
	if !s.ExtractSubstitution(subject, pattern) {
		t.Fatal("expected pattern to match")
	}
	bound, ok := s["rest"].([]expr.Expression)
	if !ok {
		t.Fatalf("expected rest bound to a []expr.Expression span, got %T", s["rest"])
	}
	if len(bound) != 2 || bound[0] != sym("b") || bound[1] != sym("c") {
		t.Errorf("expected rest bound to [b c], got %v", bound)
	}
}

func TestExtractSubstitutionConflict(t *testing.T) {
	subject := &expr.Operation{Kind: fKind, Operands: []expr.Expression{sym("a"), sym("b")}}
	pattern := &expr.Operation{Kind: fKind, Operands: []expr.Expression{
		expr.Variable{Name: "x", Inner: expr.Wildcard{Min: 1, Fixed: true}},
		expr.Variable{Name: "x", Inner: expr.Wildcard{Min: 1, Fixed: true}},
	}}

	s := New()
	if s.ExtractSubstitution(subject, pattern) {
		t.Fatal("expected conflicting bindings for x (a vs b) to fail")
	}
}

func TestMultiConstraintEmptyIsNil(t *testing.T) {
	if c := MultiConstraint(); c != nil {
		t.Error("MultiConstraint() with no constraints should be nil")
	}
}

func TestMultiConstraintRequiresAll(t *testing.T) {
	always := func(Substitution) bool { return true }
	never := func(Substitution) bool { return false }

	c := MultiConstraint(always, never)
	if c == nil {
		t.Fatal("expected a combined constraint")
	}
	if c(New()) {
		t.Error("expected combined constraint with a failing clause to fail")
	}
}

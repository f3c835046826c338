package seqmatch

import (
	"errors"
	"testing"

	"github.com/gitrfl/discrimnet/expr"
)

func star(name string) expr.Expression {
	return expr.Variable{Name: name, Inner: expr.Wildcard{Min: 0, Fixed: false}}
}

func TestAddRejectsTooFewOperands(t *testing.T) {
	f := &expr.OperationKind{Name: "f"}
	m := New()
	_, err := m.Add(&expr.Operation{Kind: f, Operands: []expr.Expression{star("x"), expr.Symbol{Name: "b"}}})
	if !errors.Is(err, ErrShape) {
		t.Fatalf("expected ErrShape, got %v", err)
	}
}

func TestAddRejectsCommutativeHead(t *testing.T) {
	f := &expr.OperationKind{Name: "f", IsCommutative: true}
	m := New()
	_, err := m.Add(&expr.Operation{Kind: f, Operands: []expr.Expression{
		star("x"), expr.Symbol{Name: "b"}, star("y"),
	}})
	if !errors.Is(err, ErrShape) {
		t.Fatalf("expected ErrShape, got %v", err)
	}
}

func TestAddRejectsNonStarEndpoint(t *testing.T) {
	f := &expr.OperationKind{Name: "f"}
	m := New()
	_, err := m.Add(&expr.Operation{Kind: f, Operands: []expr.Expression{
		expr.Symbol{Name: "a"}, expr.Symbol{Name: "b"}, star("y"),
	}})
	if !errors.Is(err, ErrShape) {
		t.Fatalf("expected ErrShape, got %v", err)
	}
}

func TestAddRejectsHeadMismatch(t *testing.T) {
	f := &expr.OperationKind{Name: "f"}
	g := &expr.OperationKind{Name: "g"}
	m := New()
	if _, err := m.Add(&expr.Operation{Kind: f, Operands: []expr.Expression{
		star("x"), expr.Symbol{Name: "b"}, star("y"),
	}}); err != nil {
		t.Fatalf("first Add: %v", err)
	}
	_, err := m.Add(&expr.Operation{Kind: g, Operands: []expr.Expression{
		star("x"), expr.Symbol{Name: "b"}, star("y"),
	}})
	if !errors.Is(err, ErrHeadMismatch) {
		t.Fatalf("expected ErrHeadMismatch, got %v", err)
	}
}

func TestCanMatch(t *testing.T) {
	f := &expr.OperationKind{Name: "f"}
	ok := &expr.Operation{Kind: f, Operands: []expr.Expression{star("x"), expr.Symbol{Name: "b"}, star("y")}}
	if !CanMatch(ok) {
		t.Fatalf("expected CanMatch to accept %v", ok)
	}
	tooFew := &expr.Operation{Kind: f, Operands: []expr.Expression{star("x"), expr.Symbol{Name: "b"}}}
	if CanMatch(tooFew) {
		t.Fatalf("expected CanMatch to reject %v", tooFew)
	}
}

func TestMatchBindsPrefixAndSuffix(t *testing.T) {
	f := &expr.OperationKind{Name: "f"}
	m := New()
	pattern := &expr.Operation{Kind: f, Operands: []expr.Expression{
		star("x"), expr.Symbol{Name: "b"}, star("y"),
	}}
	if _, err := m.Add(pattern); err != nil {
		t.Fatalf("Add: %v", err)
	}

	subject := &expr.Operation{Kind: f, Operands: []expr.Expression{
		expr.Symbol{Name: "a"}, expr.Symbol{Name: "b"}, expr.Symbol{Name: "c"},
	}}

	count := 0
	for p, s := range m.Match(subject) {
		if p != pattern {
			t.Fatalf("unexpected pattern %v", p)
		}
		prefix, ok := s["x"].([]expr.Expression)
		if !ok || len(prefix) != 1 || prefix[0] != (expr.Symbol{Name: "a"}) {
			t.Fatalf("expected prefix [a], got %v", s["x"])
		}
		suffix, ok := s["y"].([]expr.Expression)
		if !ok || len(suffix) != 1 || suffix[0] != (expr.Symbol{Name: "c"}) {
			t.Fatalf("expected suffix [c], got %v", s["y"])
		}
		count++
	}
	if count != 1 {
		t.Fatalf("expected exactly one match, got %d", count)
	}
}

func TestMatchRejectsDifferentHead(t *testing.T) {
	f := &expr.OperationKind{Name: "f"}
	g := &expr.OperationKind{Name: "g"}
	m := New()
	if _, err := m.Add(&expr.Operation{Kind: f, Operands: []expr.Expression{
		star("x"), expr.Symbol{Name: "b"}, star("y"),
	}}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	subject := &expr.Operation{Kind: g, Operands: []expr.Expression{
		expr.Symbol{Name: "a"}, expr.Symbol{Name: "b"}, expr.Symbol{Name: "c"},
	}}
	for range m.Match(subject) {
		t.Fatalf("expected no matches for mismatched head")
	}
}

func TestMatchNoMiddleMatchYieldsNothing(t *testing.T) {
	f := &expr.OperationKind{Name: "f"}
	m := New()
	if _, err := m.Add(&expr.Operation{Kind: f, Operands: []expr.Expression{
		star("x"), expr.Symbol{Name: "b"}, star("y"),
	}}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	subject := &expr.Operation{Kind: f, Operands: []expr.Expression{
		expr.Symbol{Name: "a"}, expr.Symbol{Name: "z"}, expr.Symbol{Name: "c"},
	}}
	for range m.Match(subject) {
		t.Fatalf("expected no matches: middle operand never matches symbol b")
	}
}

package product

import (
	"testing"

	"github.com/gitrfl/discrimnet/dfa"
	"github.com/gitrfl/discrimnet/expr"
	"github.com/gitrfl/discrimnet/flatterm"
	"github.com/gitrfl/discrimnet/internal/automaton/nfabuild"
	"github.com/gitrfl/discrimnet/internal/automaton/subset"
	"github.com/gitrfl/discrimnet/term"
)

func run(d *dfa.DFA, atoms []term.Atom) []int {
	cur := d.Start
	for _, a := range atoms {
		next, _, ok := d.Next(cur, a)
		if !ok {
			return nil
		}
		cur = next
	}
	return d.Get(cur).Payload
}

func buildNet(e expr.Expression, idx int) (*dfa.DFA, flatterm.FlatTerm) {
	ft := flatterm.FromExpr(e)
	return subset.Determinize(nfabuild.Build(ft, idx)), ft
}

func TestIntersectEitherPatternMatches(t *testing.T) {
	f := expr.NewOperationKind("f")
	d1, ft1 := buildNet(&expr.Operation{Kind: f, Operands: []expr.Expression{expr.Symbol{Name: "a"}}}, 0)
	d2, ft2 := buildNet(&expr.Operation{Kind: f, Operands: []expr.Expression{expr.Symbol{Name: "b"}}}, 1)

	combined := Intersect(d1, d2)

	if got := run(combined, ft1.Atoms()); len(got) != 1 || got[0] != 0 {
		t.Fatalf("expected pattern 0 to match f(a), got %v", got)
	}
	if got := run(combined, ft2.Atoms()); len(got) != 1 || got[0] != 1 {
		t.Fatalf("expected pattern 1 to match f(b), got %v", got)
	}

	other := flatterm.FromExpr(&expr.Operation{Kind: f, Operands: []expr.Expression{expr.Symbol{Name: "c"}}})
	if got := run(combined, other.Atoms()); got != nil {
		t.Fatalf("expected no match for f(c), got %v", got)
	}
}

func TestIntersectWildcardDoesNotSwallowSibling(t *testing.T) {
	f := expr.NewOperationKind("f")
	// Pattern 0: f(a, *) — matches f(a, anything).
	d1, _ := buildNet(&expr.Operation{Kind: f, Operands: []expr.Expression{
		expr.Symbol{Name: "a"},
		expr.Wildcard{Min: 0, Fixed: false},
	}}, 0)
	// Pattern 1: f(b, c) — a disjoint ground pattern.
	d2, _ := buildNet(&expr.Operation{Kind: f, Operands: []expr.Expression{
		expr.Symbol{Name: "b"},
		expr.Symbol{Name: "c"},
	}}, 1)

	combined := Intersect(d1, d2)

	subject1 := flatterm.FromExpr(&expr.Operation{Kind: f, Operands: []expr.Expression{
		expr.Symbol{Name: "a"}, expr.Symbol{Name: "z"},
	}})
	if got := run(combined, subject1.Atoms()); len(got) != 1 || got[0] != 0 {
		t.Fatalf("expected only pattern 0 on f(a,z), got %v", got)
	}

	subject2 := flatterm.FromExpr(&expr.Operation{Kind: f, Operands: []expr.Expression{
		expr.Symbol{Name: "b"}, expr.Symbol{Name: "c"},
	}})
	if got := run(combined, subject2.Atoms()); len(got) != 1 || got[0] != 1 {
		t.Fatalf("expected only pattern 1 on f(b,c), got %v", got)
	}
}

func TestIntersectBothMatchSameSubject(t *testing.T) {
	f := expr.NewOperationKind("f")
	d1, _ := buildNet(&expr.Operation{Kind: f, Operands: []expr.Expression{
		expr.Symbol{Name: "a"},
		expr.Wildcard{Min: 0, Fixed: false},
	}}, 0)
	d2, _ := buildNet(&expr.Operation{Kind: f, Operands: []expr.Expression{
		expr.Wildcard{Min: 0, Fixed: false},
		expr.Symbol{Name: "b"},
	}}, 1)

	combined := Intersect(d1, d2)

	subject := flatterm.FromExpr(&expr.Operation{Kind: f, Operands: []expr.Expression{
		expr.Symbol{Name: "a"}, expr.Symbol{Name: "b"},
	}})
	got := run(combined, subject.Atoms())
	if len(got) != 2 {
		t.Fatalf("expected both patterns to match f(a,b), got %v", got)
	}
	seen := map[int]bool{}
	for _, p := range got {
		seen[p] = true
	}
	if !seen[0] || !seen[1] {
		t.Fatalf("expected payload {0,1}, got %v", got)
	}
}

// TestIntersectWildcardSwallowsNestedOperation exercises the depth/fixed
// reconciliation directly: pattern 0's trailing wildcard must absorb an
// entire nested g(...) compound that pattern 1 matches structurally,
// re-synchronizing both sides once the nested operation closes.
func TestIntersectWildcardSwallowsNestedOperation(t *testing.T) {
	f := expr.NewOperationKind("f")
	g := expr.NewOperationKind("g")

	// Pattern 0: f(*, b) — wildcard then a trailing b.
	d1, _ := buildNet(&expr.Operation{Kind: f, Operands: []expr.Expression{
		expr.Wildcard{Min: 0, Fixed: false},
		expr.Symbol{Name: "b"},
	}}, 0)
	// Pattern 1: f(g(a), b) — a nested compound first operand, then b.
	d2, _ := buildNet(&expr.Operation{Kind: f, Operands: []expr.Expression{
		&expr.Operation{Kind: g, Operands: []expr.Expression{expr.Symbol{Name: "a"}}},
		expr.Symbol{Name: "b"},
	}}, 1)

	combined := Intersect(d1, d2)

	subject := flatterm.FromExpr(&expr.Operation{Kind: f, Operands: []expr.Expression{
		&expr.Operation{Kind: g, Operands: []expr.Expression{expr.Symbol{Name: "a"}}},
		expr.Symbol{Name: "b"},
	}})
	got := run(combined, subject.Atoms())
	if len(got) != 2 {
		t.Fatalf("expected both patterns to match f(g(a),b), got %v", got)
	}
	seen := map[int]bool{}
	for _, p := range got {
		seen[p] = true
	}
	if !seen[0] || !seen[1] {
		t.Fatalf("expected payload {0,1}, got %v", got)
	}

	// A subject where the nested operand has a different head should still
	// satisfy pattern 0 (wildcard swallows anything) but not pattern 1.
	other := flatterm.FromExpr(&expr.Operation{Kind: f, Operands: []expr.Expression{
		&expr.Operation{Kind: g, Operands: []expr.Expression{expr.Symbol{Name: "z"}}},
		expr.Symbol{Name: "b"},
	}})
	got2 := run(combined, other.Atoms())
	if len(got2) != 1 || got2[0] != 0 {
		t.Fatalf("expected only pattern 0 on f(g(z),b), got %v", got2)
	}
}

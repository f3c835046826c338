package expr

import "testing"

func TestOperationKindIdentity(t *testing.T) {
	f := NewOperationKind("f")
	g := NewOperationKind("f") // same name, distinct identity
	if f == g {
		t.Fatal("two separately constructed kinds with the same name must not be identical")
	}
	if f.HeadName() != "f" {
		t.Errorf("HeadName() = %q, want %q", f.HeadName(), "f")
	}
}

func TestOperationKindArity(t *testing.T) {
	k := &OperationKind{Name: "f", ArityMin: 2, ArityFixed: true}
	a := k.Arity()
	if a.Min != 2 || !a.Fixed {
		t.Errorf("Arity() = %+v, want {Min:2 Fixed:true}", a)
	}
}

func TestOperationKindCommutativeAssociative(t *testing.T) {
	k := &OperationKind{Name: "+", IsCommutative: true, IsAssociative: true}
	if !k.Commutative() {
		t.Error("expected Commutative() true")
	}
	if !k.Associative() {
		t.Error("expected Associative() true")
	}
}

func TestSymbolCategoryKindIsSubcategoryOf(t *testing.T) {
	number := &SymbolCategoryKind{Name: "Number"}
	integer := &SymbolCategoryKind{Name: "Integer", Parent: number}
	natural := &SymbolCategoryKind{Name: "Natural", Parent: integer}

	if !natural.IsSubcategoryOf(number) {
		t.Error("expected Natural to be a subcategory of Number through Integer")
	}
	if number.IsSubcategoryOf(natural) {
		t.Error("Number must not be a subcategory of its own descendant")
	}
	if natural.IsSubcategoryOf(natural) {
		t.Error("IsSubcategoryOf must be strict: a category is not its own subcategory")
	}
}

func TestWildcardIsStar(t *testing.T) {
	cases := []struct {
		w    Wildcard
		star bool
	}{
		{Wildcard{Min: 0, Fixed: false}, true},
		{Wildcard{Min: 1, Fixed: false}, false},
		{Wildcard{Min: 0, Fixed: true}, false},
	}
	for _, c := range cases {
		if got := c.w.IsStar(); got != c.star {
			t.Errorf("Wildcard%+v.IsStar() = %v, want %v", c.w, got, c.star)
		}
	}
}

func TestExpressionSumIsClosed(t *testing.T) {
	// Compile-time check, expressed as a runtime assignment: every variant
	// must satisfy Expression.
	var exprs = []Expression{
		Symbol{Name: "a"},
		Wildcard{Min: 1, Fixed: true},
		SymbolWildcard{Cat: &SymbolCategoryKind{Name: "Number"}},
		Variable{Name: "x", Inner: Wildcard{Min: 0, Fixed: false}},
		&Operation{Kind: NewOperationKind("f")},
	}
	if len(exprs) != 5 {
		t.Fatalf("expected 5 expression variants, got %d", len(exprs))
	}
}

package symbols_test

import (
	"testing"

	"kiln/internal/source"
	"kiln/internal/symbols"
)

func TestResolveWalksParentChain(t *testing.T) {
	a := symbols.NewArena()
	c := symbols.NewChain()

	outer := c.NewScope(symbols.NoScopeID)
	middle := c.NewScope(outer)
	inner := c.NewScope(middle)

	xOuter := a.New("x", source.NoSpan)
	yMiddle := a.New("y", source.NoSpan)
	c.Bind(outer, "x", xOuter)
	c.Bind(middle, "y", yMiddle)

	if sym, ok := c.Resolve(inner, "x"); !ok || sym != xOuter {
		t.Errorf("Resolve(inner, x) = %v/%v, want %v", sym, ok, xOuter)
	}
	if sym, ok := c.Resolve(inner, "y"); !ok || sym != yMiddle {
		t.Errorf("Resolve(inner, y) = %v/%v, want %v", sym, ok, yMiddle)
	}
	if _, ok := c.Resolve(inner, "z"); ok {
		t.Errorf("Resolve(inner, z) found a binding")
	}
	if _, ok := c.ResolveLocal(inner, "x"); ok {
		t.Errorf("ResolveLocal(inner, x) crossed a scope boundary")
	}
}

func TestShadowing(t *testing.T) {
	a := symbols.NewArena()
	c := symbols.NewChain()

	outer := c.NewScope(symbols.NoScopeID)
	inner := c.NewScope(outer)

	xOuter := a.New("x", source.NoSpan)
	xInner := a.New("x", source.NoSpan)
	c.Bind(outer, "x", xOuter)
	c.Bind(inner, "x", xInner)

	if sym, _ := c.Resolve(inner, "x"); sym != xInner {
		t.Errorf("inner resolution = %v, want shadowing %v", sym, xInner)
	}
	if sym, _ := c.Resolve(outer, "x"); sym != xOuter {
		t.Errorf("outer resolution = %v, want %v", sym, xOuter)
	}
}

// TestSiblingScopesDoNotLeak pins the property capture analysis relies
// on: resolution never crosses into a sibling scope, only upward.
func TestSiblingScopesDoNotLeak(t *testing.T) {
	a := symbols.NewArena()
	c := symbols.NewChain()

	root := c.NewScope(symbols.NoScopeID)
	left := c.NewScope(root)
	right := c.NewScope(root)

	c.Bind(left, "secret", a.New("secret", source.NoSpan))

	if _, ok := c.Resolve(right, "secret"); ok {
		t.Fatalf("sibling binding leaked")
	}
	if c.Encloses(left, right) {
		t.Errorf("Encloses(left, right) true for siblings")
	}
	if !c.Encloses(root, right) {
		t.Errorf("Encloses(root, right) false for an ancestor")
	}
	if !c.Encloses(right, right) {
		t.Errorf("Encloses(s, s) false")
	}
}

func TestBindingsKeepDeclarationOrder(t *testing.T) {
	a := symbols.NewArena()
	c := symbols.NewChain()
	s := c.NewScope(symbols.NoScopeID)

	names := []string{"c", "a", "b"}
	for _, n := range names {
		c.Bind(s, n, a.New(n, source.NoSpan))
	}
	bindings := c.Bindings(s)
	if len(bindings) != len(names) {
		t.Fatalf("bindings = %d, want %d", len(bindings), len(names))
	}
	for i, b := range bindings {
		if b.Name != names[i] {
			t.Errorf("binding %d = %q, want %q", i, b.Name, names[i])
		}
	}
}

func TestArenaDistinctIDsForSameName(t *testing.T) {
	a := symbols.NewArena()
	first := a.New("x", source.NoSpan)
	second := a.New("x", source.NoSpan)
	if first == second {
		t.Fatalf("two declarations share an id")
	}
	if a.Name(first) != "x" || a.Name(second) != "x" {
		t.Errorf("names lost")
	}
	if a.Name(symbols.NoSymbolID) != "?" {
		t.Errorf("invalid id did not render as ?")
	}
	if a.Len() != 2 {
		t.Errorf("Len = %d, want 2", a.Len())
	}
}

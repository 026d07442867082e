package symbols

import (
	"fmt"

	"fortio.org/safecast"
)

// Binding is one name bound in a scope. Bindings keep declaration order so
// that iteration is deterministic.
type Binding struct {
	Name string
	Sym  SymbolID
}

// Scope is one lexical scope. Scopes are immutable once lowering starts:
// the chain is built up front by whoever owns the tree, then only read.
type Scope struct {
	ID       ScopeID
	Parent   ScopeID
	bindings []Binding
	byName   map[string]SymbolID
}

// Chain is an explicit lexical scope chain. It is a value-like arena: all
// resolution walks the Parent links recorded here and nothing else, so the
// same tree always resolves the same way no matter which driver built it.
type Chain struct {
	scopes []Scope
}

// NewChain creates an empty scope chain.
func NewChain() *Chain {
	return &Chain{
		scopes: make([]Scope, 0, 16),
	}
}

// NewScope allocates a scope with the given parent (NoScopeID for the root).
func (c *Chain) NewScope(parent ScopeID) ScopeID {
	next, err := safecast.Conv[uint32](len(c.scopes) + 1)
	if err != nil {
		panic(fmt.Errorf("scope count overflow: %w", err))
	}
	id := ScopeID(next)
	c.scopes = append(c.scopes, Scope{
		ID:     id,
		Parent: parent,
		byName: make(map[string]SymbolID, 4),
	})
	return id
}

// Bind records name -> sym in the scope. Rebinding a name shadows the
// earlier binding within the same scope.
func (c *Chain) Bind(scope ScopeID, name string, sym SymbolID) {
	s := c.scope(scope)
	if s == nil {
		return
	}
	s.bindings = append(s.bindings, Binding{Name: name, Sym: sym})
	s.byName[name] = sym
}

// ResolveLocal looks a name up in exactly one scope.
func (c *Chain) ResolveLocal(scope ScopeID, name string) (SymbolID, bool) {
	s := c.scope(scope)
	if s == nil {
		return NoSymbolID, false
	}
	sym, ok := s.byName[name]
	return sym, ok
}

// Resolve walks the static parent chain from scope outward and returns the
// innermost binding for name.
func (c *Chain) Resolve(scope ScopeID, name string) (SymbolID, bool) {
	for id := scope; id.IsValid(); {
		s := c.scope(id)
		if s == nil {
			break
		}
		if sym, ok := s.byName[name]; ok {
			return sym, true
		}
		id = s.Parent
	}
	return NoSymbolID, false
}

// Parent returns the enclosing scope of scope.
func (c *Chain) Parent(scope ScopeID) ScopeID {
	s := c.scope(scope)
	if s == nil {
		return NoScopeID
	}
	return s.Parent
}

// Bindings returns the scope's bindings in declaration order. The returned
// slice aliases chain storage and must not be modified.
func (c *Chain) Bindings(scope ScopeID) []Binding {
	s := c.scope(scope)
	if s == nil {
		return nil
	}
	return s.bindings
}

// Encloses reports whether outer is scope itself or one of its ancestors.
func (c *Chain) Encloses(outer, scope ScopeID) bool {
	for id := scope; id.IsValid(); {
		if id == outer {
			return true
		}
		s := c.scope(id)
		if s == nil {
			break
		}
		id = s.Parent
	}
	return false
}

func (c *Chain) scope(id ScopeID) *Scope {
	if !id.IsValid() || int(id) > len(c.scopes) {
		return nil
	}
	return &c.scopes[id-1]
}

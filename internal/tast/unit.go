package tast

import (
	"kiln/internal/source"
	"kiln/internal/symbols"
	"kiln/internal/types"
)

// Unit is one type-checked compilation unit: the shape the front end
// hands to lowering. Scopes is the full lexical scope chain of the unit;
// capture analysis resolves free names against it, never against the
// order lowering happens to visit functions in.
type Unit struct {
	Name   string
	Types  *types.Interner
	Syms   *symbols.Arena
	Scopes *symbols.Chain

	// SymbolTypes records the declared type of every binding symbol.
	SymbolTypes map[symbols.SymbolID]types.TypeID

	Funcs []*Func
}

// NewUnit creates an empty unit backed by the given interner.
func NewUnit(name string, in *types.Interner) *Unit {
	return &Unit{
		Name:        name,
		Types:       in,
		Syms:        symbols.NewArena(),
		Scopes:      symbols.NewChain(),
		SymbolTypes: make(map[symbols.SymbolID]types.TypeID),
	}
}

// Declare adds a binding symbol with its type to the unit and binds it
// in the given scope.
func (u *Unit) Declare(scope symbols.ScopeID, name string, ty types.TypeID, span source.Span) symbols.SymbolID {
	sym := u.Syms.New(name, span)
	u.Scopes.Bind(scope, name, sym)
	u.SymbolTypes[sym] = ty
	return sym
}

// TypeOf returns the declared type of a binding symbol.
func (u *Unit) TypeOf(sym symbols.SymbolID) (types.TypeID, bool) {
	ty, ok := u.SymbolTypes[sym]
	return ty, ok
}

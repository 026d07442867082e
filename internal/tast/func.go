package tast

import (
	"kiln/internal/source"
	"kiln/internal/symbols"
	"kiln/internal/types"
)

// Param is one function or closure parameter.
type Param struct {
	Name string
	Sym  symbols.SymbolID
	Type types.TypeID
	Span source.Span
}

// Func is a type-checked, module-level function.
type Func struct {
	Name   string
	Sym    symbols.SymbolID
	Params []Param
	Result types.TypeID
	Scope  symbols.ScopeID
	Body   *Block
	Public bool
	Span   source.Span
}

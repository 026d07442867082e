package symbols

import (
	"fmt"

	"fortio.org/safecast"

	"kiln/internal/source"
)

// Symbol is one declared name: a local, a parameter, or a function.
type Symbol struct {
	ID   SymbolID
	Name string
	Span source.Span
}

// Arena allocates symbols with stable IDs. IDs start at 1; 0 is NoSymbolID.
type Arena struct {
	symbols []Symbol
}

// NewArena creates an empty symbol arena.
func NewArena() *Arena {
	return &Arena{
		symbols: make([]Symbol, 0, 64),
	}
}

// New allocates a fresh symbol. Two declarations of the same name get
// distinct IDs; shadowing is a scope concern, not an arena one.
func (a *Arena) New(name string, span source.Span) SymbolID {
	next, err := safecast.Conv[uint32](len(a.symbols) + 1)
	if err != nil {
		panic(fmt.Errorf("symbol count overflow: %w", err))
	}
	id := SymbolID(next)
	a.symbols = append(a.symbols, Symbol{ID: id, Name: name, Span: span})
	return id
}

// Get returns the symbol for an id.
func (a *Arena) Get(id SymbolID) (Symbol, bool) {
	if !id.IsValid() || int(id) > len(a.symbols) {
		return Symbol{}, false
	}
	return a.symbols[id-1], true
}

// Name returns the symbol's declared name, or "?" for an invalid id.
func (a *Arena) Name(id SymbolID) string {
	s, ok := a.Get(id)
	if !ok {
		return "?"
	}
	return s.Name
}

func (a *Arena) Len() int {
	return len(a.symbols)
}

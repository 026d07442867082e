package mir

import (
	"kiln/internal/types"
)

// Global is a module-level variable.
type Global struct {
	ID   GlobalID
	Name string
	Type types.TypeID
}

// Module owns functions, globals and named type definitions. It is the
// unit of validation and of handoff to a backend.
type Module struct {
	Name string

	Funcs      map[FuncID]*Func
	FuncByName map[string]FuncID
	Globals    map[GlobalID]*Global
	TypeDefs   map[TypeDefID]types.TypeID
}

// NewModule creates an empty module.
func NewModule(name string) *Module {
	return &Module{
		Name:       name,
		Funcs:      make(map[FuncID]*Func),
		FuncByName: make(map[string]FuncID),
		Globals:    make(map[GlobalID]*Global),
		TypeDefs:   make(map[TypeDefID]types.TypeID),
	}
}

func (m *Module) FuncCount() int {
	return len(m.Funcs)
}

func (m *Module) GlobalCount() int {
	return len(m.Globals)
}

func (m *Module) TypeDefCount() int {
	return len(m.TypeDefs)
}

// FuncNamed returns the function registered under name.
func (m *Module) FuncNamed(name string) (*Func, bool) {
	id, ok := m.FuncByName[name]
	if !ok {
		return nil, false
	}
	f, ok := m.Funcs[id]
	return f, ok
}

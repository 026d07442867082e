package mir

import (
	"kiln/internal/source"
	"kiln/internal/target"
	"kiln/internal/types"
)

// Visibility controls whether a function is visible outside its module.
type Visibility uint8

const (
	VisPrivate Visibility = iota
	VisPublic
)

func (v Visibility) String() string {
	if v == VisPublic {
		return "public"
	}
	return "private"
}

// Param is one function parameter. Value is the SSA register the parameter
// occupies inside the body; its type is seeded into the register registry
// when the function is begun.
type Param struct {
	Name  string
	Value ValueID
	Type  types.TypeID
}

// Func is either defined (non-empty CFG with an entry block) or extern
// (signature only, empty CFG, body supplied by the runtime).
type Func struct {
	ID   FuncID
	Name string
	Span source.Span

	Params     []Param
	Result     types.TypeID
	Extern     bool
	CallConv   target.CallConv
	Visibility Visibility

	// Regs is the local type registry: exactly one entry per defined
	// register, established at the point of definition.
	Regs map[ValueID]types.TypeID

	Blocks []Block
	Entry  BlockID
}

// RegType returns the registered type of a register.
func (f *Func) RegType(v ValueID) (types.TypeID, bool) {
	t, ok := f.Regs[v]
	return t, ok
}

// Block returns the block with the given id.
func (f *Func) Block(id BlockID) *Block {
	if id < 0 || int(id) >= len(f.Blocks) {
		return nil
	}
	return &f.Blocks[id]
}

// Signature returns the function-reference type of the function.
func (f *Func) Signature(in *types.Interner) types.TypeID {
	params := make([]types.TypeID, len(f.Params))
	for i, p := range f.Params {
		params[i] = p.Type
	}
	return in.RegisterFn(params, f.Result)
}

package mir

// ValueID identifies an SSA register inside one function. Registers are
// assigned exactly once and carry exactly one registered type.
type ValueID int32

// BlockID identifies a basic block inside one function.
type BlockID int32

// FuncID identifies a function inside one module.
type FuncID int32

// GlobalID identifies a global inside one module.
type GlobalID int32

// TypeDefID identifies a named type definition inside one module.
type TypeDefID int32

const (
	NoValueID   ValueID   = -1
	NoBlockID   BlockID   = -1
	NoFuncID    FuncID    = -1
	NoGlobalID  GlobalID  = -1
	NoTypeDefID TypeDefID = -1
)

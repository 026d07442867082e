package mir

import (
	"kiln/internal/source"
	"kiln/internal/types"
)

// InstrKind enumerates instruction kinds in MIR.
type InstrKind uint8

const (
	// InstrConst loads a literal into a register.
	InstrConst InstrKind = iota
	// InstrBinOp is a binary arithmetic/bitwise operation.
	InstrBinOp
	// InstrUnOp is a unary operation.
	InstrUnOp
	// InstrCmp is a comparison producing a bool register.
	InstrCmp
	// InstrCall calls a function known at compile time.
	InstrCall
	// InstrCallIndirect calls through a function-reference register.
	InstrCallIndirect
	// InstrMakeStruct builds a struct value from ordered fields.
	InstrMakeStruct
	// InstrFieldGet extracts a struct field by index.
	InstrFieldGet
	// InstrMakeUnion builds a union value from a tag and payload values.
	InstrMakeUnion
	// InstrUnionTag extracts the discriminant of a union value.
	InstrUnionTag
	// InstrUnionValue extracts one payload field of a union variant. The
	// expected tag must match the value's discriminant; a mismatch is a
	// deterministic runtime trap.
	InstrUnionValue
	// InstrPtrAdd offsets a pointer by an integer amount, typed by pointee.
	InstrPtrAdd
	// InstrAlloca reserves frame-local storage for one value and yields a
	// pointer to it. Mutable locals live in slots until a later pass
	// promotes them to registers.
	InstrAlloca
	// InstrLoad reads through a pointer register.
	InstrLoad
	// InstrStore writes through a pointer register. No destination.
	InstrStore
	// InstrUndef produces an uninitialized placeholder of a given type.
	InstrUndef
	// InstrFuncRef materializes a callable value for a function id.
	InstrFuncRef
	// InstrUnbox narrows a word-sized opaque carrier to a statically
	// resolved concrete type. Inserted by lowering at every join site.
	InstrUnbox
)

// BinOp enumerates binary operations.
type BinOp uint8

const (
	BinAdd BinOp = iota
	BinSub
	BinMul
	BinDiv
	BinRem
	BinAnd
	BinOr
	BinXor
	BinShl
	BinShr
)

// UnOp enumerates unary operations.
type UnOp uint8

const (
	UnNeg UnOp = iota
	UnNot
)

// CmpOp enumerates comparison operations.
type CmpOp uint8

const (
	CmpEq CmpOp = iota
	CmpNe
	CmpLt
	CmpLe
	CmpGt
	CmpGe
)

// ConstKind discriminates literal payloads.
type ConstKind uint8

const (
	ConstBool ConstKind = iota
	ConstInt
	ConstUint
	ConstFloat
)

// ConstValue is a literal operand.
type ConstValue struct {
	Kind  ConstKind
	Bool  bool
	Int   int64
	Uint  uint64
	Float float64
}

// Instr is one MIR instruction. Dst is the single destination register,
// NoValueID for instructions that produce no value (InstrStore).
type Instr struct {
	Kind InstrKind
	Dst  ValueID
	Span source.Span

	Const        ConstInstr
	BinOp        BinOpInstr
	UnOp         UnOpInstr
	Cmp          CmpInstr
	Call         CallInstr
	CallIndirect CallIndirectInstr
	MakeStruct   MakeStructInstr
	FieldGet     FieldGetInstr
	MakeUnion    MakeUnionInstr
	UnionTag     UnionTagInstr
	UnionValue   UnionValueInstr
	PtrAdd       PtrAddInstr
	Alloca       AllocaInstr
	Load         LoadInstr
	Store        StoreInstr
	Undef        UndefInstr
	FuncRef      FuncRefInstr
	Unbox        UnboxInstr
}

// HasDst reports whether the instruction defines a register.
func (i *Instr) HasDst() bool {
	return i.Kind != InstrStore
}

// Operands returns the register operands the instruction reads.
func (i *Instr) Operands() []ValueID {
	switch i.Kind {
	case InstrBinOp:
		return []ValueID{i.BinOp.Left, i.BinOp.Right}
	case InstrUnOp:
		return []ValueID{i.UnOp.Operand}
	case InstrCmp:
		return []ValueID{i.Cmp.Left, i.Cmp.Right}
	case InstrCall:
		return i.Call.Args
	case InstrCallIndirect:
		return append([]ValueID{i.CallIndirect.Callee}, i.CallIndirect.Args...)
	case InstrMakeStruct:
		return i.MakeStruct.Fields
	case InstrFieldGet:
		return []ValueID{i.FieldGet.Agg}
	case InstrMakeUnion:
		return i.MakeUnion.Values
	case InstrUnionTag:
		return []ValueID{i.UnionTag.Union}
	case InstrUnionValue:
		return []ValueID{i.UnionValue.Union}
	case InstrPtrAdd:
		return []ValueID{i.PtrAdd.Ptr, i.PtrAdd.Offset}
	case InstrLoad:
		return []ValueID{i.Load.Ptr}
	case InstrStore:
		return []ValueID{i.Store.Ptr, i.Store.Value}
	case InstrUnbox:
		return []ValueID{i.Unbox.Box}
	default:
		return nil
	}
}

type ConstInstr struct {
	Value ConstValue
	Type  types.TypeID
}

type BinOpInstr struct {
	Op    BinOp
	Left  ValueID
	Right ValueID
}

type UnOpInstr struct {
	Op      UnOp
	Operand ValueID
}

type CmpInstr struct {
	Op    CmpOp
	Left  ValueID
	Right ValueID
}

type CallInstr struct {
	Callee FuncID
	Args   []ValueID
}

type CallIndirectInstr struct {
	Callee ValueID
	Args   []ValueID
}

type MakeStructInstr struct {
	Type   types.TypeID
	Fields []ValueID
}

type FieldGetInstr struct {
	Agg   ValueID
	Index int
}

type MakeUnionInstr struct {
	Type   types.TypeID
	Tag    uint32
	Values []ValueID
}

type UnionTagInstr struct {
	Union ValueID
}

type UnionValueInstr struct {
	Union ValueID
	Tag   uint32
	Index int
	Type  types.TypeID
}

type PtrAddInstr struct {
	Ptr    ValueID
	Offset ValueID
}

type AllocaInstr struct {
	Type types.TypeID
}

type LoadInstr struct {
	Ptr  ValueID
	Type types.TypeID
}

type StoreInstr struct {
	Ptr   ValueID
	Value ValueID
}

type UndefInstr struct {
	Type types.TypeID
}

type FuncRefInstr struct {
	Func FuncID
}

type UnboxInstr struct {
	Box  ValueID
	Type types.TypeID
}

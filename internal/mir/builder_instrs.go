package mir

import (
	"fmt"

	"kiln/internal/source"
	"kiln/internal/types"
)

// ConstBool loads a boolean literal.
func (b *Builder) ConstBool(v bool) ValueID {
	return b.constVal(ConstValue{Kind: ConstBool, Bool: v}, b.types.Builtins().Bool)
}

// ConstInt loads a signed integer literal of the given type.
func (b *Builder) ConstInt(v int64, ty types.TypeID) ValueID {
	return b.constVal(ConstValue{Kind: ConstInt, Int: v}, ty)
}

// ConstUint loads an unsigned integer literal of the given type.
func (b *Builder) ConstUint(v uint64, ty types.TypeID) ValueID {
	return b.constVal(ConstValue{Kind: ConstUint, Uint: v}, ty)
}

// ConstFloat loads a floating-point literal of the given type.
func (b *Builder) ConstFloat(v float64, ty types.TypeID) ValueID {
	return b.constVal(ConstValue{Kind: ConstFloat, Float: v}, ty)
}

func (b *Builder) constVal(v ConstValue, ty types.TypeID) ValueID {
	dst := b.alloc(ty)
	b.emit(Instr{Kind: InstrConst, Dst: dst, Const: ConstInstr{Value: v, Type: ty}})
	return dst
}

// BinOp emits a binary operation. The result type is the left operand's
// registered type.
func (b *Builder) BinOp(op BinOp, left, right ValueID) ValueID {
	dst := b.alloc(b.regType(left))
	b.emit(Instr{Kind: InstrBinOp, Dst: dst, BinOp: BinOpInstr{Op: op, Left: left, Right: right}})
	return dst
}

// UnOp emits a unary operation typed by its operand.
func (b *Builder) UnOp(op UnOp, operand ValueID) ValueID {
	dst := b.alloc(b.regType(operand))
	b.emit(Instr{Kind: InstrUnOp, Dst: dst, UnOp: UnOpInstr{Op: op, Operand: operand}})
	return dst
}

// Cmp emits a comparison. Comparisons always produce bool.
func (b *Builder) Cmp(op CmpOp, left, right ValueID) ValueID {
	dst := b.alloc(b.types.Builtins().Bool)
	b.emit(Instr{Kind: InstrCmp, Dst: dst, Cmp: CmpInstr{Op: op, Left: left, Right: right}})
	return dst
}

// Call emits a direct call. The destination register carries the callee's
// declared result type; a void callee produces NoValueID.
func (b *Builder) Call(callee FuncID, args ...ValueID) ValueID {
	f, ok := b.findFunc(callee)
	if !ok {
		panic(fmt.Sprintf("mir: call to unknown function id %d", callee))
	}
	dst := NoValueID
	if !b.isVoid(f.Result) {
		dst = b.alloc(f.Result)
	}
	b.emit(Instr{Kind: InstrCall, Dst: dst, Call: CallInstr{Callee: callee, Args: args}})
	return dst
}

// CallIndirect emits a call through a function-reference register. The
// callee register must carry a KindFn type.
func (b *Builder) CallIndirect(callee ValueID, args ...ValueID) ValueID {
	info, ok := b.types.FnInfo(b.regType(callee))
	if !ok {
		panic(fmt.Sprintf("mir: indirect call through non-fn register r%d", callee))
	}
	dst := NoValueID
	if !b.isVoid(info.Result) {
		dst = b.alloc(info.Result)
	}
	b.emit(Instr{Kind: InstrCallIndirect, Dst: dst, CallIndirect: CallIndirectInstr{Callee: callee, Args: args}})
	return dst
}

// MakeStruct builds a struct value from ordered fields.
func (b *Builder) MakeStruct(ty types.TypeID, fields ...ValueID) ValueID {
	dst := b.alloc(ty)
	b.emit(Instr{Kind: InstrMakeStruct, Dst: dst, MakeStruct: MakeStructInstr{Type: ty, Fields: fields}})
	return dst
}

// FieldGet extracts a struct field by index, typed by the field.
func (b *Builder) FieldGet(agg ValueID, index int) ValueID {
	info, ok := b.types.StructInfo(b.regType(agg))
	if !ok {
		panic(fmt.Sprintf("mir: field access on non-struct register r%d", agg))
	}
	if index < 0 || index >= len(info.Fields) {
		panic(fmt.Sprintf("mir: field index %d out of range", index))
	}
	dst := b.alloc(info.Fields[index])
	b.emit(Instr{Kind: InstrFieldGet, Dst: dst, FieldGet: FieldGetInstr{Agg: agg, Index: index}})
	return dst
}

// MakeUnion builds a union value with the given tag and payload values.
func (b *Builder) MakeUnion(ty types.TypeID, tag uint32, values ...ValueID) ValueID {
	dst := b.alloc(ty)
	b.emit(Instr{Kind: InstrMakeUnion, Dst: dst, MakeUnion: MakeUnionInstr{Type: ty, Tag: tag, Values: values}})
	return dst
}

// UnionTag extracts the discriminant of a union value as u32.
func (b *Builder) UnionTag(union ValueID) ValueID {
	dst := b.alloc(b.types.Builtins().U32)
	b.emit(Instr{Kind: InstrUnionTag, Dst: dst, UnionTag: UnionTagInstr{Union: union}})
	return dst
}

// UnionValue extracts payload field index of the variant with the expected
// tag. If the value's discriminant differs at runtime the instruction
// traps deterministically.
func (b *Builder) UnionValue(union ValueID, tag uint32, index int) ValueID {
	info, ok := b.types.UnionInfo(b.regType(union))
	if !ok {
		panic(fmt.Sprintf("mir: union access on non-union register r%d", union))
	}
	variant, ok := info.Variant(tag)
	if !ok {
		panic(fmt.Sprintf("mir: union has no variant with tag %d", tag))
	}
	if index < 0 || index >= len(variant.Fields) {
		panic(fmt.Sprintf("mir: union variant %d has no field %d", tag, index))
	}
	ty := variant.Fields[index]
	dst := b.alloc(ty)
	b.emit(Instr{Kind: InstrUnionValue, Dst: dst, UnionValue: UnionValueInstr{Union: union, Tag: tag, Index: index, Type: ty}})
	return dst
}

// PtrAdd offsets a pointer, preserving the pointee type.
func (b *Builder) PtrAdd(ptr, offset ValueID) ValueID {
	dst := b.alloc(b.regType(ptr))
	b.emit(Instr{Kind: InstrPtrAdd, Dst: dst, PtrAdd: PtrAddInstr{Ptr: ptr, Offset: offset}})
	return dst
}

// Alloca reserves frame-local storage for one value of the given type.
// The register carries a pointer to the slot.
func (b *Builder) Alloca(ty types.TypeID) ValueID {
	dst := b.alloc(b.types.Pointer(ty))
	b.emit(Instr{Kind: InstrAlloca, Dst: dst, Alloca: AllocaInstr{Type: ty}})
	return dst
}

// Load reads a value of the pointee type through ptr.
func (b *Builder) Load(ptr ValueID) ValueID {
	tt, ok := b.types.Lookup(b.regType(ptr))
	if !ok || tt.Kind != types.KindPointer {
		panic(fmt.Sprintf("mir: load through non-pointer register r%d", ptr))
	}
	dst := b.alloc(tt.Elem)
	b.emit(Instr{Kind: InstrLoad, Dst: dst, Load: LoadInstr{Ptr: ptr, Type: tt.Elem}})
	return dst
}

// Store writes value through ptr. No destination register.
func (b *Builder) Store(ptr, value ValueID) {
	b.emit(Instr{Kind: InstrStore, Dst: NoValueID, Store: StoreInstr{Ptr: ptr, Value: value}})
}

// Undef produces an uninitialized placeholder of the given type.
func (b *Builder) Undef(ty types.TypeID) ValueID {
	dst := b.alloc(ty)
	b.emit(Instr{Kind: InstrUndef, Dst: dst, Undef: UndefInstr{Type: ty}})
	return dst
}

// FuncRef materializes a callable value for fn, typed by its signature.
func (b *Builder) FuncRef(fn FuncID) ValueID {
	f, ok := b.findFunc(fn)
	if !ok {
		panic(fmt.Sprintf("mir: funcref to unknown function id %d", fn))
	}
	dst := b.alloc(f.Signature(b.types))
	b.emit(Instr{Kind: InstrFuncRef, Dst: dst, FuncRef: FuncRefInstr{Func: fn}})
	return dst
}

// Unbox narrows a word-sized opaque carrier to the concrete type ty.
func (b *Builder) Unbox(box ValueID, ty types.TypeID) ValueID {
	dst := b.alloc(ty)
	b.emit(Instr{Kind: InstrUnbox, Dst: dst, Unbox: UnboxInstr{Box: box, Type: ty}})
	return dst
}

// --- terminators ------------------------------------------------------------

// Ret terminates the current block with a return.
func (b *Builder) Ret(value ValueID) {
	term := Terminator{Kind: TermReturn}
	if value != NoValueID {
		term.Return = ReturnTerm{HasValue: true, Value: value}
	}
	b.setTerm(term)
}

// RetVoid terminates the current block with a valueless return.
func (b *Builder) RetVoid() {
	b.setTerm(Terminator{Kind: TermReturn})
}

// Br terminates the current block with an unconditional branch.
func (b *Builder) Br(target BlockID) {
	b.setTerm(Terminator{Kind: TermBr, Br: BrTerm{Target: target}})
}

// CondBr terminates the current block with a conditional branch.
func (b *Builder) CondBr(cond ValueID, then, els BlockID) {
	b.setTerm(Terminator{Kind: TermCondBr, CondBr: CondBrTerm{Cond: cond, Then: then, Else: els}})
}

// Unreachable asserts the current block is dead code.
func (b *Builder) Unreachable() {
	b.setTerm(Terminator{Kind: TermUnreachable})
}

// Panic terminates the current invocation path with a message.
func (b *Builder) Panic(message string) {
	b.setTerm(Terminator{Kind: TermPanic, Panic: PanicTerm{Message: message}})
}

// WithSpan tags the most recently emitted instruction of the current block
// with a source position.
func (b *Builder) WithSpan(span source.Span) {
	fr := b.mustCur()
	blk := fr.f.Block(fr.curBlock)
	if blk == nil || len(blk.Instrs) == 0 {
		return
	}
	blk.Instrs[len(blk.Instrs)-1].Span = span
}

func (b *Builder) isVoid(ty types.TypeID) bool {
	tt, ok := b.types.Lookup(ty)
	return !ok || tt.Kind == types.KindVoid
}

package mir

import (
	"fmt"

	"fortio.org/safecast"

	"kiln/internal/source"
	"kiln/internal/target"
	"kiln/internal/types"
)

// Builder constructs a module one function at a time. It is sequential and
// single-writer: all side effects are confined to the builder and the
// module under construction.
//
// Functions under construction form a stack so that lowering can synthesize
// a closure function in the middle of its enclosing one: SetFunc pushes a
// frame, FinishFunc pops it and restores the enclosing insertion point.
//
// Every instruction method appends to the current block, allocates a fresh
// register and registers that register's type in the function's registry.
// The registration is not optional: a produced value without a registered
// type is exactly the class of defect validation exists to reject.
//
// Builder methods panic on structural misuse (no current function, operand
// register never defined). Those are bugs in the calling compiler stage,
// not recoverable conditions.
type Builder struct {
	types *types.Interner

	module   *Module
	frames   []*funcFrame
	nextFunc FuncID
	nextGlob GlobalID
	nextTDef TypeDefID
}

type funcFrame struct {
	f        *Func
	curBlock BlockID
	nextReg  ValueID
}

// NewBuilder creates a builder producing a module with the given name.
func NewBuilder(moduleName string, typesIn *types.Interner) *Builder {
	return &Builder{
		types:    typesIn,
		module:   NewModule(moduleName),
		nextFunc: 1,
		nextGlob: 1,
		nextTDef: 1,
	}
}

// Module returns the module under construction.
func (b *Builder) Module() *Module {
	return b.module
}

// Types returns the interner the builder registers types against.
func (b *Builder) Types() *types.Interner {
	return b.types
}

// FuncBuilder accumulates a function signature before construction starts.
type FuncBuilder struct {
	b          *Builder
	name       string
	span       source.Span
	params     []Param
	result     types.TypeID
	extern     bool
	callConv   target.CallConv
	visibility Visibility
}

// Begin starts declaring a function.
func (b *Builder) Begin(name string) *FuncBuilder {
	return &FuncBuilder{
		b:          b,
		name:       name,
		span:       source.NoSpan,
		result:     b.types.Builtins().Void,
		callConv:   target.CallConvKiln,
		visibility: VisPrivate,
	}
}

func (fb *FuncBuilder) Span(span source.Span) *FuncBuilder {
	fb.span = span
	return fb
}

func (fb *FuncBuilder) Param(name string, ty types.TypeID) *FuncBuilder {
	fb.params = append(fb.params, Param{Name: name, Type: ty})
	return fb
}

func (fb *FuncBuilder) Returns(ty types.TypeID) *FuncBuilder {
	fb.result = ty
	return fb
}

// Extern marks the function as externally implemented: signature only,
// empty CFG, C calling convention unless overridden.
func (fb *FuncBuilder) Extern() *FuncBuilder {
	fb.extern = true
	fb.callConv = target.CallConvC
	return fb
}

func (fb *FuncBuilder) CallConv(cc target.CallConv) *FuncBuilder {
	fb.callConv = cc
	return fb
}

func (fb *FuncBuilder) Visibility(v Visibility) *FuncBuilder {
	fb.visibility = v
	return fb
}

// Build allocates the function and registers it in the module right away,
// so later functions can call it before its body exists. An extern
// function is complete at this point. A defined function gets an empty
// entry block; its body is emitted between SetFunc and FinishFunc.
func (fb *FuncBuilder) Build() FuncID {
	b := fb.b
	id := b.nextFunc
	b.nextFunc++

	f := &Func{
		ID:         id,
		Name:       fb.name,
		Span:       fb.span,
		Params:     fb.params,
		Result:     fb.result,
		Extern:     fb.extern,
		CallConv:   fb.callConv,
		Visibility: fb.visibility,
		Regs:       make(map[ValueID]types.TypeID, len(fb.params)+8),
		Entry:      NoBlockID,
	}
	// Parameters occupy the first registers; their types seed the registry.
	for i := range f.Params {
		reg, err := safecast.Conv[int32](i)
		if err != nil {
			panic(fmt.Errorf("param index overflow: %w", err))
		}
		f.Params[i].Value = ValueID(reg)
		f.Regs[f.Params[i].Value] = f.Params[i].Type
	}

	if !fb.extern {
		f.Blocks = append(f.Blocks, Block{ID: 0})
		f.Entry = 0
	}
	b.append(f)
	return id
}

// SetFunc selects a declared, defined function for body construction,
// pushing a frame with the insertion point at its entry block. Nested
// SetFunc calls are allowed so that lowering can synthesize a closure
// function in the middle of its enclosing one; FinishFunc pops back.
func (b *Builder) SetFunc(id FuncID) {
	f, ok := b.module.Funcs[id]
	if !ok {
		panic(fmt.Sprintf("mir: SetFunc(%d): no such function", id))
	}
	if f.Extern {
		panic(fmt.Sprintf("mir: SetFunc(%d): %q is extern", id, f.Name))
	}
	nextReg := ValueID(0)
	for reg := range f.Regs {
		if reg >= nextReg {
			nextReg = reg + 1
		}
	}
	b.frames = append(b.frames, &funcFrame{
		f:        f,
		curBlock: f.Entry,
		nextReg:  nextReg,
	})
}

// NewBlock creates a block in the current function and returns its id
// without changing the insertion point.
func (b *Builder) NewBlock() BlockID {
	f := b.mustCur().f
	id, err := safecast.Conv[int32](len(f.Blocks))
	if err != nil {
		panic(fmt.Errorf("block count overflow: %w", err))
	}
	f.Blocks = append(f.Blocks, Block{ID: BlockID(id)})
	return BlockID(id)
}

// SetBlock moves the insertion point to the given block.
func (b *Builder) SetBlock(id BlockID) {
	fr := b.mustCur()
	if fr.f.Block(id) == nil {
		panic(fmt.Sprintf("mir: SetBlock(%d): no such block in %q", id, fr.f.Name))
	}
	fr.curBlock = id
}

// CurBlock returns the current insertion block.
func (b *Builder) CurBlock() BlockID {
	return b.mustCur().curBlock
}

// CurFunc returns the id of the function currently under construction.
func (b *Builder) CurFunc() FuncID {
	return b.mustCur().f.ID
}

// ParamValue returns the register of the i-th parameter.
func (b *Builder) ParamValue(i int) ValueID {
	f := b.mustCur().f
	if i < 0 || i >= len(f.Params) {
		panic(fmt.Sprintf("mir: parameter index %d out of range in %q", i, f.Name))
	}
	return f.Params[i].Value
}

// FinishFunc completes the current function, restoring the enclosing
// function's insertion point if any. The finished function is guaranteed
// to have a well-formed CFG: an entry block and exactly one terminator
// per block.
func (b *Builder) FinishFunc() (*Func, error) {
	fr := b.mustCur()
	f := fr.f
	if f.Entry == NoBlockID || len(f.Blocks) == 0 {
		return nil, fmt.Errorf("mir: function %q has no entry block", f.Name)
	}
	for i := range f.Blocks {
		if !f.Blocks[i].Terminated() {
			return nil, fmt.Errorf("mir: function %q: bb%d is unterminated", f.Name, i)
		}
	}
	b.frames = b.frames[:len(b.frames)-1]
	return f, nil
}

// AbandonFunc removes the current function from the module and pops its
// frame, leaving sibling functions untouched. Used when lowering of one
// function fails.
func (b *Builder) AbandonFunc() {
	if len(b.frames) == 0 {
		return
	}
	b.RemoveFunc(b.frames[len(b.frames)-1].f.ID)
	b.frames = b.frames[:len(b.frames)-1]
}

// RemoveFunc deletes a function from the module, including functions
// already finished. Lowering uses it to discard synthesized closures when
// their enclosing function is abandoned. Removing an unknown id is a
// no-op.
func (b *Builder) RemoveFunc(id FuncID) {
	f, ok := b.module.Funcs[id]
	if !ok {
		return
	}
	delete(b.module.Funcs, id)
	if b.module.FuncByName[f.Name] == id {
		delete(b.module.FuncByName, f.Name)
	}
}

// Global adds a module-level variable.
func (b *Builder) Global(name string, ty types.TypeID) GlobalID {
	id := b.nextGlob
	b.nextGlob++
	b.module.Globals[id] = &Global{ID: id, Name: name, Type: ty}
	return id
}

// TypeDef registers a named type definition on the module.
func (b *Builder) TypeDef(ty types.TypeID) TypeDefID {
	id := b.nextTDef
	b.nextTDef++
	b.module.TypeDefs[id] = ty
	return id
}

func (b *Builder) append(f *Func) {
	b.module.Funcs[f.ID] = f
	b.module.FuncByName[f.Name] = f.ID
}

func (b *Builder) mustCur() *funcFrame {
	if len(b.frames) == 0 {
		panic("mir: no current function")
	}
	return b.frames[len(b.frames)-1]
}

// findFunc resolves a FuncID against the module; declared functions are
// registered there as soon as Build runs.
func (b *Builder) findFunc(id FuncID) (*Func, bool) {
	f, ok := b.module.Funcs[id]
	return f, ok
}

// --- register plumbing ------------------------------------------------------

// alloc allocates a fresh register and registers its type. Every
// value-producing instruction goes through here, with no exceptions.
func (b *Builder) alloc(ty types.TypeID) ValueID {
	fr := b.mustCur()
	reg := fr.nextReg
	fr.nextReg++
	fr.f.Regs[reg] = ty
	return reg
}

// regType returns the registered type of v, panicking when the register
// was never defined: defaulting here would mask the defect downstream.
func (b *Builder) regType(v ValueID) types.TypeID {
	f := b.mustCur().f
	ty, ok := f.Regs[v]
	if !ok {
		panic(fmt.Sprintf("mir: register r%d has no registered type in %q", v, f.Name))
	}
	return ty
}

func (b *Builder) emit(instr Instr) {
	fr := b.mustCur()
	blk := fr.f.Block(fr.curBlock)
	if blk == nil {
		panic(fmt.Sprintf("mir: no current block in %q", fr.f.Name))
	}
	if blk.Terminated() {
		panic(fmt.Sprintf("mir: emit into terminated bb%d of %q", fr.curBlock, fr.f.Name))
	}
	blk.Instrs = append(blk.Instrs, instr)
}

func (b *Builder) setTerm(term Terminator) {
	fr := b.mustCur()
	blk := fr.f.Block(fr.curBlock)
	if blk == nil {
		panic(fmt.Sprintf("mir: no current block in %q", fr.f.Name))
	}
	if blk.Terminated() {
		panic(fmt.Sprintf("mir: bb%d of %q already terminated", fr.curBlock, fr.f.Name))
	}
	blk.Term = term
}

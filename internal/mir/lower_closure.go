package mir

import (
	"fmt"

	"kiln/internal/diag"
	"kiln/internal/rtabi"
	"kiln/internal/source"
	"kiln/internal/symbols"
	"kiln/internal/tast"
	"kiln/internal/types"
)

// capture is one free identifier of a closure body: a name referenced
// inside the closure but bound in an enclosing scope. Captures keep
// first-reference order so the synthesized environment layout depends
// only on the tree, never on the driving entry point.
type capture struct {
	Name string
	Sym  symbols.SymbolID
	Type types.TypeID
	Span source.Span
}

// lowerClosure synthesizes a function for the closure body and emits the
// construction sequence at the current insertion point: the captured
// values are packaged into a heap environment alongside a reference to
// the synthesized function.
func (fl *funcLowerer) lowerClosure(e *tast.Expr, data tast.ClosureData) (ValueID, error) {
	b := fl.l.b
	in := fl.l.unit.Types

	caps, err := fl.analyzeCaptures(data)
	if err != nil {
		return NoValueID, err
	}

	name := fmt.Sprintf("%s$closure%d", fl.fn.Name, *fl.closureSeq)
	*fl.closureSeq++

	capTypes := make([]types.TypeID, len(caps))
	for i, c := range caps {
		capTypes[i] = c.Type
	}
	envTy := in.RegisterStruct(name+"$env", capTypes)

	fb := b.Begin(name).Span(e.Span).Returns(data.Result)
	fb.Param("env", in.Pointer(envTy))
	for _, p := range data.Params {
		fb.Param(p.Name, p.Type)
	}
	id := fb.Build()
	fl.l.synth = append(fl.l.synth, id)

	// Body of the synthesized function. References to captured names are
	// rewritten to read from the environment parameter.
	b.SetFunc(id)
	inner := &funcLowerer{
		l:          fl.l,
		fn:         fl.fn,
		slots:      make(map[symbols.SymbolID]ValueID),
		closureSeq: fl.closureSeq,
	}
	env := b.Load(b.ParamValue(0))
	for i, c := range caps {
		v := b.FieldGet(env, i)
		slot := b.Alloca(c.Type)
		b.Store(slot, v)
		inner.slots[c.Sym] = slot
	}
	for i, p := range data.Params {
		slot := b.Alloca(p.Type)
		b.Store(slot, b.ParamValue(i+1))
		inner.slots[p.Sym] = slot
	}
	if err := inner.lowerBlock(data.Body); err != nil {
		return NoValueID, err
	}
	inner.sealBody(data.Result)
	if _, err := b.FinishFunc(); err != nil {
		return NoValueID, err
	}

	// Construction site, back in the enclosing function: package the
	// current values of the captures.
	capVals := make([]ValueID, len(caps))
	for i, c := range caps {
		slot, bound := fl.slots[c.Sym]
		if !bound {
			return NoValueID, fl.errorf(diag.CapUnresolved, c.Span,
				"captured name %q is not bound in the enclosing function", c.Name)
		}
		capVals[i] = b.Load(slot)
	}
	envVal := b.MakeStruct(envTy, capVals...)
	size, err := fl.l.lay.Stride(envTy)
	if err != nil {
		return NoValueID, fl.errorf(diag.LowBadTree, e.Span, "closure environment: %v", err)
	}
	sizeReg := b.ConstUint(uint64(size), in.Builtins().U64)
	envPtr := b.Call(fl.l.externs[rtabi.FnAlloc], sizeReg)
	b.Store(envPtr, envVal)
	fnRef := b.FuncRef(id)
	handle := b.Call(fl.l.externs[rtabi.FnClosureMake], fnRef, envPtr)
	b.WithSpan(e.Span)
	return handle, nil
}

// analyzeCaptures computes the closure's free identifiers in
// first-reference order. Each one is checked against the static lexical
// chain at the definition site; a name the chain cannot supply is a
// structured error, not a silent miss.
func (fl *funcLowerer) analyzeCaptures(data tast.ClosureData) ([]capture, error) {
	bound := make(map[symbols.SymbolID]bool, len(data.Params))
	for _, p := range data.Params {
		bound[p.Sym] = true
	}

	var caps []capture
	seen := make(map[symbols.SymbolID]bool)
	err := fl.walkFree(data.Body, bound, func(name string, sym symbols.SymbolID, span source.Span) error {
		if seen[sym] {
			return nil
		}
		resolved, ok := fl.l.unit.Scopes.Resolve(data.Scope, name)
		if !ok || resolved != sym {
			return fl.errorf(diag.CapUnresolved, span,
				"cannot capture %q: not reachable from the closure's scope", name)
		}
		ty, ok := fl.l.unit.TypeOf(sym)
		if !ok {
			return fl.errorf(diag.CapUnresolved, span,
				"cannot capture %q: no declared type", name)
		}
		seen[sym] = true
		caps = append(caps, capture{Name: name, Sym: sym, Type: ty, Span: span})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return caps, nil
}

// walkFree visits every identifier reference under blk in textual order,
// reporting those not bound within the closure itself. Bindings
// introduced by nested declarations and nested closure parameters join
// the bound set as the walk passes them.
func (fl *funcLowerer) walkFree(blk *tast.Block, bound map[symbols.SymbolID]bool, visit func(string, symbols.SymbolID, source.Span) error) error {
	if blk == nil {
		return nil
	}
	for i := range blk.Stmts {
		if err := fl.walkFreeStmt(&blk.Stmts[i], bound, visit); err != nil {
			return err
		}
	}
	return nil
}

func (fl *funcLowerer) walkFreeStmt(st *tast.Stmt, bound map[symbols.SymbolID]bool, visit func(string, symbols.SymbolID, source.Span) error) error {
	switch data := st.Data.(type) {
	case tast.VarData:
		if data.Value != nil {
			if err := fl.walkFreeExpr(data.Value, bound, visit); err != nil {
				return err
			}
		}
		bound[data.Sym] = true
	case tast.AssignData:
		if err := fl.walkFreeExpr(data.Value, bound, visit); err != nil {
			return err
		}
		if !bound[data.Sym] {
			if err := visit(data.Name, data.Sym, st.Span); err != nil {
				return err
			}
		}
	case tast.ExprStmtData:
		return fl.walkFreeExpr(data.Expr, bound, visit)
	case tast.ReturnData:
		if data.Value != nil {
			return fl.walkFreeExpr(data.Value, bound, visit)
		}
	case tast.IfData:
		if err := fl.walkFreeExpr(data.Cond, bound, visit); err != nil {
			return err
		}
		if err := fl.walkFree(data.Then, bound, visit); err != nil {
			return err
		}
		return fl.walkFree(data.Else, bound, visit)
	case tast.WhileData:
		if err := fl.walkFreeExpr(data.Cond, bound, visit); err != nil {
			return err
		}
		return fl.walkFree(data.Body, bound, visit)
	case tast.BlockStmtData:
		return fl.walkFree(data.Block, bound, visit)
	}
	return nil
}

func (fl *funcLowerer) walkFreeExpr(e *tast.Expr, bound map[symbols.SymbolID]bool, visit func(string, symbols.SymbolID, source.Span) error) error {
	if e == nil {
		return nil
	}
	switch data := e.Data.(type) {
	case tast.LocalData:
		if !bound[data.Sym] {
			return visit(data.Name, data.Sym, e.Span)
		}
	case tast.UnaryData:
		return fl.walkFreeExpr(data.Operand, bound, visit)
	case tast.BinaryData:
		if err := fl.walkFreeExpr(data.Left, bound, visit); err != nil {
			return err
		}
		return fl.walkFreeExpr(data.Right, bound, visit)
	case tast.CallData:
		for _, a := range data.Args {
			if err := fl.walkFreeExpr(a, bound, visit); err != nil {
				return err
			}
		}
	case tast.MethodCallData:
		if err := fl.walkFreeExpr(data.Recv, bound, visit); err != nil {
			return err
		}
		for _, a := range data.Args {
			if err := fl.walkFreeExpr(a, bound, visit); err != nil {
				return err
			}
		}
	case tast.FieldData:
		return fl.walkFreeExpr(data.Object, bound, visit)
	case tast.ClosureData:
		// A nested closure's own parameters bind inside it; whatever is
		// still free there is free here too and is captured transitively.
		for _, p := range data.Params {
			bound[p.Sym] = true
		}
		return fl.walkFree(data.Body, bound, visit)
	case tast.SpawnData:
		return fl.walkFreeExpr(data.Closure, bound, visit)
	}
	return nil
}

package mir

import (
	"errors"
	"fmt"

	"kiln/internal/diag"
	"kiln/internal/layout"
	"kiln/internal/mono"
	"kiln/internal/rtabi"
	"kiln/internal/source"
	"kiln/internal/symbols"
	"kiln/internal/tast"
	"kiln/internal/target"
	"kiln/internal/types"
)

// LowerUnit converts a type-checked unit to MIR in a single depth-first
// traversal per function. The runtime extern catalogue and every unit
// function are declared up front, so call sites resolve regardless of
// declaration order. A lowering failure abandons only the affected
// function and is reported through the returned bag; siblings are
// unaffected.
func LowerUnit(unit *tast.Unit, tgt target.Target) (*Module, *mono.Recorder, *diag.Bag) {
	bag := diag.NewBag(100)
	l := &lowerer{
		unit:    unit,
		b:       NewBuilder(unit.Name, unit.Types),
		lay:     layout.New(tgt, unit.Types),
		bag:     bag,
		rec:     mono.NewRecorder(),
		externs: make(map[string]FuncID),
		funcs:   make(map[string]FuncID),
	}

	for _, e := range rtabi.Catalogue(unit.Types) {
		fb := l.b.Begin(e.Name)
		for i, p := range e.Params {
			fb.Param(fmt.Sprintf("a%d", i), p)
		}
		l.externs[e.Name] = fb.Returns(e.Result).Extern().Build()
	}

	for _, fn := range unit.Funcs {
		fb := l.b.Begin(fn.Name).Span(fn.Span).Returns(fn.Result)
		for _, p := range fn.Params {
			fb.Param(p.Name, p.Type)
		}
		if fn.Public {
			fb.Visibility(VisPublic)
		}
		l.funcs[fn.Name] = fb.Build()
	}

	for _, fn := range unit.Funcs {
		l.lowerFunc(fn)
	}
	return l.b.Module(), l.rec, bag
}

// lowerer holds state shared by every function lowered from one unit.
type lowerer struct {
	unit    *tast.Unit
	b       *Builder
	lay     *layout.Engine
	bag     *diag.Bag
	rec     *mono.Recorder
	externs map[string]FuncID
	funcs   map[string]FuncID
	synth   []FuncID
}

// lowerError carries a structured diagnostic out of a lowering walk.
type lowerError struct {
	d diag.Diagnostic
}

func (e *lowerError) Error() string {
	return e.d.Message
}

func (l *lowerer) lowerFunc(fn *tast.Func) {
	id := l.funcs[fn.Name]
	base := len(l.b.frames)
	l.synth = l.synth[:0]
	l.b.SetFunc(id)

	seq := 0
	fl := &funcLowerer{
		l:          l,
		fn:         fn,
		slots:      make(map[symbols.SymbolID]ValueID),
		closureSeq: &seq,
	}
	err := fl.lowerTopLevel()
	if err == nil {
		_, err = l.b.FinishFunc()
	}
	if err != nil {
		for len(l.b.frames) > base {
			l.b.AbandonFunc()
		}
		// Closures finished before the failure are orphans once their
		// enclosing function is gone.
		for _, sid := range l.synth {
			l.b.RemoveFunc(sid)
		}
		var le *lowerError
		if errors.As(err, &le) {
			l.bag.Add(le.d)
		} else {
			l.bag.Add(diag.NewError(diag.LowBadTree, fn.Span, err.Error()))
		}
	}
}

// funcLowerer lowers one function body. A nested instance is created for
// each synthesized closure function; it shares the unit-wide state and
// the closure sequence counter of its top-level ancestor but owns its
// slot bindings.
type funcLowerer struct {
	l  *lowerer
	fn *tast.Func

	// slots maps each binding symbol to the register holding its stack
	// slot pointer in the frame currently under construction.
	slots map[symbols.SymbolID]ValueID

	closureSeq *int
}

func (fl *funcLowerer) lowerTopLevel() error {
	b := fl.l.b
	for i, p := range fl.fn.Params {
		slot := b.Alloca(p.Type)
		b.Store(slot, b.ParamValue(i))
		fl.slots[p.Sym] = slot
	}
	if err := fl.lowerBlock(fl.fn.Body); err != nil {
		return err
	}
	fl.sealBody(fl.fn.Result)
	return nil
}

// sealBody terminates the fall-through block. A void function returns;
// a non-void one can only fall through on a path the checker already
// proved dead, so the block is marked unreachable.
func (fl *funcLowerer) sealBody(result types.TypeID) {
	b := fl.l.b
	if fl.curBlock().Terminated() {
		return
	}
	if b.isVoid(result) {
		b.RetVoid()
		return
	}
	b.Unreachable()
}

func (fl *funcLowerer) curBlock() *Block {
	b := fl.l.b
	return b.mustCur().f.Block(b.CurBlock())
}

func (fl *funcLowerer) errorf(code diag.Code, span source.Span, format string, args ...any) error {
	return &lowerError{d: diag.NewError(code, span, fmt.Sprintf(format, args...))}
}

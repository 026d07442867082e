package mir

import (
	"errors"
	"fmt"
	"sort"

	"kiln/internal/diag"
	"kiln/internal/types"
)

// Violation is one structural problem found in a module, tagged with the
// offending function and location.
type Violation struct {
	Code    diag.Code
	Func    string
	Block   BlockID
	Message string
}

func (v Violation) String() string {
	where := v.Func
	if v.Block != NoBlockID {
		where = fmt.Sprintf("%s/bb%d", v.Func, v.Block)
	}
	return fmt.Sprintf("[%s] %s: %s", v.Code, where, v.Message)
}

// Report is the result of validating one module.
type Report struct {
	Module     string
	Violations []Violation
}

// OK reports whether validation found no violations.
func (r *Report) OK() bool {
	return len(r.Violations) == 0
}

func (r *Report) add(code diag.Code, fn string, block BlockID, format string, args ...any) {
	r.Violations = append(r.Violations, Violation{
		Code:    code,
		Func:    fn,
		Block:   block,
		Message: fmt.Sprintf(format, args...),
	})
}

// Validate checks module invariants before handoff to a backend: every
// block terminated with existing targets, SSA single definition with a
// registered type per register, no unresolved type parameters anywhere,
// extern functions exempt from CFG checks. A failed report means the
// module must not reach any backend.
func Validate(m *Module, typesIn *types.Interner) (*Report, error) {
	if m == nil {
		return &Report{}, nil
	}
	report := &Report{Module: m.Name}

	funcs := make([]*Func, 0, len(m.Funcs))
	for _, f := range m.Funcs {
		if f != nil {
			funcs = append(funcs, f)
		}
	}
	sort.Slice(funcs, func(i, j int) bool { return funcs[i].ID < funcs[j].ID })

	for _, f := range funcs {
		validateFunc(report, m, f, typesIn)
	}

	if report.OK() {
		return report, nil
	}
	errs := make([]error, len(report.Violations))
	for i, v := range report.Violations {
		errs[i] = errors.New(v.String())
	}
	return report, errors.Join(errs...)
}

func validateFunc(r *Report, m *Module, f *Func, typesIn *types.Interner) {
	validateFuncTypes(r, f, typesIn)

	if f.Extern {
		// Extern declarations carry a signature and no body; they are
		// exempt from every structural CFG check.
		if len(f.Blocks) > 0 {
			r.add(diag.ValExternWithBody, f.Name, NoBlockID,
				"extern function has %d blocks, want none", len(f.Blocks))
		}
		return
	}

	if len(f.Blocks) == 0 || f.Entry == NoBlockID {
		r.add(diag.ValMissingEntry, f.Name, NoBlockID, "missing entry block")
		return
	}
	if f.Block(f.Entry) == nil {
		r.add(diag.ValUnreachableEntry, f.Name, f.Entry,
			"entry block bb%d does not exist", f.Entry)
		return
	}

	validateTerminators(r, f)
	validateSSA(r, m, f)
}

func validateTerminators(r *Report, f *Func) {
	for i := range f.Blocks {
		blk := &f.Blocks[i]
		if !blk.Terminated() {
			r.add(diag.ValUnterminatedBlock, f.Name, blk.ID, "unterminated block")
			continue
		}
		for _, target := range blk.Term.Targets() {
			if f.Block(target) == nil {
				r.add(diag.ValBadTarget, f.Name, blk.ID,
					"terminator target bb%d does not exist", target)
			}
		}
	}
}

// validateSSA checks single definition and type registration per register,
// and that every operand refers to a defined register.
func validateSSA(r *Report, m *Module, f *Func) {
	defined := make(map[ValueID]bool, len(f.Regs))
	for _, p := range f.Params {
		defined[p.Value] = true
	}

	for i := range f.Blocks {
		blk := &f.Blocks[i]
		for j := range blk.Instrs {
			instr := &blk.Instrs[j]
			if instr.HasDst() && instr.Dst != NoValueID {
				if defined[instr.Dst] {
					r.add(diag.ValRedefinedReg, f.Name, blk.ID,
						"register r%d defined more than once", instr.Dst)
				}
				defined[instr.Dst] = true
				if ty, ok := f.Regs[instr.Dst]; !ok || ty == types.NoTypeID {
					r.add(diag.ValUnregisteredReg, f.Name, blk.ID,
						"register r%d has no registered type", instr.Dst)
				}
			}
			if instr.Kind == InstrCall {
				if _, ok := m.Funcs[instr.Call.Callee]; !ok {
					r.add(diag.ValUnknownFunctionRef, f.Name, blk.ID,
						"call references unknown function id %d", instr.Call.Callee)
				}
			}
			if instr.Kind == InstrFuncRef {
				if _, ok := m.Funcs[instr.FuncRef.Func]; !ok {
					r.add(diag.ValUnknownFunctionRef, f.Name, blk.ID,
						"funcref references unknown function id %d", instr.FuncRef.Func)
				}
			}
		}
	}

	// Uses may precede definitions across blocks only if the register is
	// defined somewhere in the function; per-block ordering is the
	// builder's concern.
	for i := range f.Blocks {
		blk := &f.Blocks[i]
		for j := range blk.Instrs {
			for _, op := range blk.Instrs[j].Operands() {
				if op == NoValueID {
					continue
				}
				if !defined[op] {
					r.add(diag.ValUndefinedRegUse, f.Name, blk.ID,
						"use of undefined register r%d", op)
				} else if _, ok := f.Regs[op]; !ok {
					r.add(diag.ValUnregisteredReg, f.Name, blk.ID,
						"operand register r%d has no registered type", op)
				}
			}
		}
		switch blk.Term.Kind {
		case TermReturn:
			if blk.Term.Return.HasValue && !defined[blk.Term.Return.Value] {
				r.add(diag.ValUndefinedRegUse, f.Name, blk.ID,
					"return of undefined register r%d", blk.Term.Return.Value)
			}
		case TermCondBr:
			if !defined[blk.Term.CondBr.Cond] {
				r.add(diag.ValUndefinedRegUse, f.Name, blk.ID,
					"branch on undefined register r%d", blk.Term.CondBr.Cond)
			}
		}
	}
}

// validateFuncTypes rejects any unresolved type parameter in the signature
// or the register registry. Placeholders must have been eliminated by
// substitution before the module is validated.
func validateFuncTypes(r *Report, f *Func, typesIn *types.Interner) {
	if typesIn == nil {
		return
	}
	check := func(ty types.TypeID, what string) {
		if ty != types.NoTypeID && typesIn.ContainsParam(ty) {
			r.add(diag.ValTypeParamInModule, f.Name, NoBlockID,
				"%s has unresolved type parameter %s", what, typesIn.String(ty))
		}
	}
	for _, p := range f.Params {
		check(p.Type, fmt.Sprintf("parameter %q", p.Name))
	}
	check(f.Result, "result")

	regs := make([]ValueID, 0, len(f.Regs))
	for reg := range f.Regs {
		regs = append(regs, reg)
	}
	sort.Slice(regs, func(i, j int) bool { return regs[i] < regs[j] })
	for _, reg := range regs {
		check(f.Regs[reg], fmt.Sprintf("register r%d", reg))
	}
}

// Package driver wires the pipeline together: lowering a type-checked
// unit into MIR, validating the result, and caching encoded modules
// between runs.
package driver

import (
	"kiln/internal/diag"
	"kiln/internal/mir"
	"kiln/internal/mono"
	"kiln/internal/target"
	"kiln/internal/tast"
	"kiln/internal/types"
)

// Result is the outcome of compiling one unit.
type Result struct {
	Module *mir.Module
	Types  *types.Interner

	// Insts lists the generic instantiations lowering resolved, in
	// deterministic order.
	Insts []*mono.InstEntry

	// Bag holds lowering diagnostics. Validation is skipped when it
	// contains errors; abandoned functions would drown the report in
	// follow-on noise.
	Bag *diag.Bag

	Report *mir.Report
}

// OK reports whether the unit lowered and validated cleanly.
func (r *Result) OK() bool {
	if r.Bag != nil && r.Bag.HasErrors() {
		return false
	}
	return r.Report == nil || r.Report.OK()
}

// Compile lowers one unit for the given target and validates the
// produced module. Lowering and validation findings are reported through
// the result; the error return is reserved for a broken target
// configuration.
func Compile(unit *tast.Unit, tgt target.Target) (*Result, error) {
	if err := tgt.Check(); err != nil {
		return nil, err
	}
	m, rec, bag := mir.LowerUnit(unit, tgt)
	res := &Result{
		Module: m,
		Types:  unit.Types,
		Insts:  rec.Entries(),
		Bag:    bag,
	}
	if bag.HasErrors() {
		return res, nil
	}
	report, _ := mir.Validate(m, unit.Types)
	res.Report = report
	return res, nil
}

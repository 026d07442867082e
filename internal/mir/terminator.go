package mir

type TermKind uint8

const (
	TermNone TermKind = iota
	TermReturn
	TermBr
	TermCondBr
	TermUnreachable
	TermPanic
)

type Terminator struct {
	Kind TermKind

	Return      ReturnTerm
	Br          BrTerm
	CondBr      CondBrTerm
	Panic       PanicTerm
	Unreachable struct{}
}

type ReturnTerm struct {
	HasValue bool
	Value    ValueID
}

type BrTerm struct {
	Target BlockID
}

type CondBrTerm struct {
	Cond ValueID
	Then BlockID
	Else BlockID
}

// PanicTerm aborts the current invocation path with a message. It does not
// return and has no successor blocks.
type PanicTerm struct {
	Message string
}

// Targets returns the successor block ids of the terminator.
func (t Terminator) Targets() []BlockID {
	switch t.Kind {
	case TermBr:
		return []BlockID{t.Br.Target}
	case TermCondBr:
		return []BlockID{t.CondBr.Then, t.CondBr.Else}
	default:
		return nil
	}
}

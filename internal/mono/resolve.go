package mono

import (
	"kiln/internal/types"
)

// ReceiverInstance is a receiver type carrying concrete type arguments,
// e.g. a task handle instantiated at i32.
type ReceiverInstance struct {
	Name       string
	TypeParams []string
	TypeArgs   []types.TypeID
}

// MethodSig is a callee signature written in terms of the receiver's named
// type parameters.
type MethodSig struct {
	Name   string
	Params []types.TypeID
	Result types.TypeID
}

// ResolvedSig is a fully concrete signature: zero type-parameter
// occurrences remain in the parameter types or the result.
type ResolvedSig struct {
	Params []types.TypeID
	Result types.TypeID
}

// ResolveCall binds the receiver's type arguments to the method's type
// parameters and substitutes through the whole signature. Every remaining
// placeholder is an error; nothing unresolved may flow past this boundary
// into lowering.
func ResolveCall(in *types.Interner, recv ReceiverInstance, sig MethodSig) (ResolvedSig, error) {
	s, err := BindReceiver(in, recv.Name, recv.TypeParams, recv.TypeArgs)
	if err != nil {
		return ResolvedSig{}, err
	}
	out := ResolvedSig{Params: make([]types.TypeID, len(sig.Params))}
	for i, p := range sig.Params {
		resolved, err := s.Resolve(p)
		if err != nil {
			return ResolvedSig{}, err
		}
		out.Params[i] = resolved
	}
	result, err := s.Resolve(sig.Result)
	if err != nil {
		return ResolvedSig{}, err
	}
	out.Result = result
	return out, nil
}

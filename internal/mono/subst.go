// Package mono resolves generic method type parameters to concrete types
// at call sites: positional binding from a receiver's type arguments, then
// recursive substitution through composite types. The engine is read-only
// with respect to the interner contents it is given - it produces new
// interned types and never mutates existing ones.
package mono

import (
	"fmt"

	"kiln/internal/types"
)

// UnresolvedError reports a type parameter that survived past the point
// where a concrete type was required.
type UnresolvedError struct {
	Param string
}

func (e *UnresolvedError) Error() string {
	return fmt.Sprintf("mono: unresolved type parameter %q", e.Param)
}

// ArityError reports a type-argument count mismatch.
type ArityError struct {
	Recv     string
	Expected int
	Actual   int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("mono: %s expects %d type arguments, got %d", e.Recv, e.Expected, e.Actual)
}

// Subst maps type-parameter names to concrete types. It is produced per
// call site and scoped to one lowering of one expression; it is never
// persisted on a type.
type Subst struct {
	types  *types.Interner
	byName map[string]types.TypeID

	cache map[types.TypeID]types.TypeID
}

// BindReceiver builds a substitution by positionally binding paramNames to
// the receiver's concrete type arguments.
func BindReceiver(in *types.Interner, recvName string, paramNames []string, typeArgs []types.TypeID) (*Subst, error) {
	if len(paramNames) != len(typeArgs) {
		return nil, &ArityError{Recv: recvName, Expected: len(paramNames), Actual: len(typeArgs)}
	}
	byName := make(map[string]types.TypeID, len(paramNames))
	for i, name := range paramNames {
		byName[name] = typeArgs[i]
	}
	return &Subst{
		types:  in,
		byName: byName,
		cache:  make(map[types.TypeID]types.TypeID, 8),
	}, nil
}

// Apply substitutes bound parameters throughout id, recursing into
// pointers, struct fields, union variants and function signatures.
// Parameters with no binding are left in place; Resolve turns those into
// errors.
func (s *Subst) Apply(id types.TypeID) types.TypeID {
	if s == nil || id == types.NoTypeID {
		return id
	}
	if out, ok := s.cache[id]; ok {
		return out
	}
	out := s.apply(id)
	s.cache[id] = out
	return out
}

func (s *Subst) apply(id types.TypeID) types.TypeID {
	tt, ok := s.types.Lookup(id)
	if !ok {
		return id
	}
	switch tt.Kind {
	case types.KindTypeParam:
		name, _ := s.types.ParamName(id)
		if concrete, ok := s.byName[name]; ok {
			return concrete
		}
		return id
	case types.KindPointer:
		elem := s.Apply(tt.Elem)
		if elem == tt.Elem {
			return id
		}
		return s.types.Pointer(elem)
	case types.KindStruct:
		info, ok := s.types.StructInfo(id)
		if !ok {
			return id
		}
		fields, changed := s.applyAll(info.Fields)
		if !changed {
			return id
		}
		return s.types.RegisterStruct(info.Name, fields)
	case types.KindUnion:
		info, ok := s.types.UnionInfo(id)
		if !ok {
			return id
		}
		changed := false
		variants := make([]types.UnionVariant, len(info.Variants))
		for i, v := range info.Variants {
			fields, c := s.applyAll(v.Fields)
			variants[i] = types.UnionVariant{Tag: v.Tag, Fields: fields}
			changed = changed || c
		}
		if !changed {
			return id
		}
		return s.types.RegisterUnion(info.Name, variants)
	case types.KindFn:
		info, ok := s.types.FnInfo(id)
		if !ok {
			return id
		}
		params, c1 := s.applyAll(info.Params)
		result := s.Apply(info.Result)
		if !c1 && result == info.Result {
			return id
		}
		return s.types.RegisterFn(params, result)
	default:
		return id
	}
}

func (s *Subst) applyAll(ids []types.TypeID) ([]types.TypeID, bool) {
	changed := false
	out := make([]types.TypeID, len(ids))
	for i, id := range ids {
		out[i] = s.Apply(id)
		changed = changed || out[i] != id
	}
	return out, changed
}

// Resolve applies the substitution and requires the result to be fully
// concrete. A surviving parameter is an UnresolvedError naming it - never
// a silent fallback to an opaque type.
func (s *Subst) Resolve(id types.TypeID) (types.TypeID, error) {
	out := s.Apply(id)
	if s.types.ContainsParam(out) {
		return types.NoTypeID, &UnresolvedError{Param: firstParamName(s.types, out)}
	}
	return out, nil
}

// firstParamName returns the name of some type parameter mentioned in id.
func firstParamName(in *types.Interner, id types.TypeID) string {
	var walk func(types.TypeID, map[types.TypeID]bool) string
	walk = func(id types.TypeID, seen map[types.TypeID]bool) string {
		if id == types.NoTypeID || seen[id] {
			return ""
		}
		seen[id] = true
		tt, ok := in.Lookup(id)
		if !ok {
			return ""
		}
		switch tt.Kind {
		case types.KindTypeParam:
			name, _ := in.ParamName(id)
			return name
		case types.KindPointer:
			return walk(tt.Elem, seen)
		case types.KindStruct:
			if info, ok := in.StructInfo(id); ok {
				for _, f := range info.Fields {
					if name := walk(f, seen); name != "" {
						return name
					}
				}
			}
		case types.KindUnion:
			if info, ok := in.UnionInfo(id); ok {
				for _, v := range info.Variants {
					for _, f := range v.Fields {
						if name := walk(f, seen); name != "" {
							return name
						}
					}
				}
			}
		case types.KindFn:
			if info, ok := in.FnInfo(id); ok {
				for _, p := range info.Params {
					if name := walk(p, seen); name != "" {
						return name
					}
				}
				return walk(info.Result, seen)
			}
		}
		return ""
	}
	return walk(id, make(map[types.TypeID]bool))
}

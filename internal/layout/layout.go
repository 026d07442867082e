// Package layout computes ABI memory layout (size, alignment, element
// stride) for interned types against a concrete target. Layout questions
// about unresolved type parameters are errors, never guesses.
package layout

import (
	"fmt"

	"kiln/internal/target"
	"kiln/internal/types"
)

// TypeLayout is the ABI layout of a type for a specific target.
type TypeLayout struct {
	Size  int
	Align int

	// Struct-only:
	FieldOffsets []int

	// Union-only, for ABI queries:
	TagSize       int
	PayloadOffset int
}

// Engine computes and caches layouts.
type Engine struct {
	Target target.Target
	Types  *types.Interner

	cache map[types.TypeID]TypeLayout
}

// New creates a layout engine for the given target.
func New(t target.Target, typesIn *types.Interner) *Engine {
	return &Engine{
		Target: t,
		Types:  typesIn,
		cache:  make(map[types.TypeID]TypeLayout, 32),
	}
}

// Of computes the layout of a type.
func (e *Engine) Of(id types.TypeID) (TypeLayout, error) {
	if l, ok := e.cache[id]; ok {
		return l, nil
	}
	l, err := e.compute(id)
	if err != nil {
		return TypeLayout{}, err
	}
	e.cache[id] = l
	return l, nil
}

// Stride returns the distance in bytes between consecutive elements of
// type id inside a container. For pointer-sized payloads this must equal
// exactly the target pointer width: the container storage contract depends
// on it.
func (e *Engine) Stride(id types.TypeID) (int, error) {
	l, err := e.Of(id)
	if err != nil {
		return 0, err
	}
	return align(l.Size, l.Align), nil
}

func (e *Engine) compute(id types.TypeID) (TypeLayout, error) {
	tt, ok := e.Types.Lookup(id)
	if !ok {
		return TypeLayout{}, fmt.Errorf("layout: unknown type %d", id)
	}
	switch tt.Kind {
	case types.KindVoid:
		return TypeLayout{Size: 0, Align: 1}, nil
	case types.KindBool:
		return TypeLayout{Size: 1, Align: 1}, nil
	case types.KindInt, types.KindUint, types.KindFloat:
		n := int(tt.Width) / 8
		return TypeLayout{Size: n, Align: n}, nil
	case types.KindPointer, types.KindFn:
		return TypeLayout{Size: e.Target.PtrSize, Align: e.Target.PtrAlign}, nil
	case types.KindStruct:
		return e.computeStruct(id)
	case types.KindUnion:
		return e.computeUnion(id)
	case types.KindTypeParam:
		name, _ := e.Types.ParamName(id)
		return TypeLayout{}, fmt.Errorf("layout: unresolved type parameter %q", name)
	default:
		return TypeLayout{}, fmt.Errorf("layout: cannot lay out %s", tt.Kind)
	}
}

func (e *Engine) computeStruct(id types.TypeID) (TypeLayout, error) {
	info, ok := e.Types.StructInfo(id)
	if !ok {
		return TypeLayout{}, fmt.Errorf("layout: missing struct info for type %d", id)
	}
	var l TypeLayout
	l.Align = 1
	offset := 0
	l.FieldOffsets = make([]int, len(info.Fields))
	for i, f := range info.Fields {
		fl, err := e.Of(f)
		if err != nil {
			return TypeLayout{}, err
		}
		offset = align(offset, fl.Align)
		l.FieldOffsets[i] = offset
		offset += fl.Size
		if fl.Align > l.Align {
			l.Align = fl.Align
		}
	}
	l.Size = align(offset, l.Align)
	return l, nil
}

func (e *Engine) computeUnion(id types.TypeID) (TypeLayout, error) {
	info, ok := e.Types.UnionInfo(id)
	if !ok {
		return TypeLayout{}, fmt.Errorf("layout: missing union info for type %d", id)
	}
	// 4-byte tag, then the largest variant payload at a common offset.
	l := TypeLayout{TagSize: 4, Align: 4}
	maxPayload := 0
	for _, v := range info.Variants {
		offset := 0
		varAlign := 1
		for _, f := range v.Fields {
			fl, err := e.Of(f)
			if err != nil {
				return TypeLayout{}, err
			}
			offset = align(offset, fl.Align)
			offset += fl.Size
			if fl.Align > varAlign {
				varAlign = fl.Align
			}
		}
		if offset > maxPayload {
			maxPayload = offset
		}
		if varAlign > l.Align {
			l.Align = varAlign
		}
	}
	l.PayloadOffset = align(l.TagSize, l.Align)
	l.Size = align(l.PayloadOffset+maxPayload, l.Align)
	return l, nil
}

func align(offset, to int) int {
	if to <= 1 {
		return offset
	}
	rem := offset % to
	if rem == 0 {
		return offset
	}
	return offset + to - rem
}

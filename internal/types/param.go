package types

import (
	"fmt"

	"fortio.org/safecast"
)

// ParamInfo stores the name of an unresolved generic type parameter.
// Values of this kind are construction-time placeholders only: they must
// be fully substituted before a module is validated or handed to a
// backend.
type ParamInfo struct {
	Name string
}

// RegisterParam creates or finds the placeholder type for a named type
// parameter. The same name always maps to the same TypeID.
func (in *Interner) RegisterParam(name string) TypeID {
	if id, ok := in.paramIndex[name]; ok {
		return id
	}
	slot := in.appendParamInfo(ParamInfo{Name: name})
	id := in.internRaw(Type{Kind: KindTypeParam, Payload: slot})
	in.paramIndex[name] = id
	return id
}

// ParamName returns the parameter name for a KindTypeParam TypeID.
func (in *Interner) ParamName(id TypeID) (string, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindTypeParam {
		return "", false
	}
	if tt.Payload == 0 || int(tt.Payload) >= len(in.params) {
		return "", false
	}
	return in.params[tt.Payload].Name, true
}

func (in *Interner) appendParamInfo(info ParamInfo) uint32 {
	in.params = append(in.params, info)
	slot, err := safecast.Conv[uint32](len(in.params) - 1)
	if err != nil {
		panic(fmt.Errorf("param info overflow: %w", err))
	}
	return slot
}

// ContainsParam reports whether id transitively mentions any unresolved
// type parameter.
func (in *Interner) ContainsParam(id TypeID) bool {
	return in.containsParam(id, make(map[TypeID]bool))
}

func (in *Interner) containsParam(id TypeID, seen map[TypeID]bool) bool {
	if id == NoTypeID || seen[id] {
		return false
	}
	seen[id] = true
	tt, ok := in.Lookup(id)
	if !ok {
		return false
	}
	switch tt.Kind {
	case KindTypeParam:
		return true
	case KindPointer:
		return in.containsParam(tt.Elem, seen)
	case KindStruct:
		info, ok := in.StructInfo(id)
		if !ok {
			return false
		}
		for _, f := range info.Fields {
			if in.containsParam(f, seen) {
				return true
			}
		}
	case KindUnion:
		info, ok := in.UnionInfo(id)
		if !ok {
			return false
		}
		for _, v := range info.Variants {
			for _, f := range v.Fields {
				if in.containsParam(f, seen) {
					return true
				}
			}
		}
	case KindFn:
		info, ok := in.FnInfo(id)
		if !ok {
			return false
		}
		for _, p := range info.Params {
			if in.containsParam(p, seen) {
				return true
			}
		}
		return in.containsParam(info.Result, seen)
	}
	return false
}

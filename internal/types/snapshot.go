package types

// Snapshot is a serializable image of an interner. TypeIDs remain valid
// across Snapshot/FromSnapshot, which is what lets an encoded module carry
// its type tables with it.
type Snapshot struct {
	Types   []Type
	Structs []StructInfo
	Unions  []UnionInfo
	Fns     []FnInfo
	Params  []ParamInfo
}

// Snapshot captures the interner state.
func (in *Interner) Snapshot() Snapshot {
	return Snapshot{
		Types:   append([]Type(nil), in.types...),
		Structs: append([]StructInfo(nil), in.structs...),
		Unions:  append([]UnionInfo(nil), in.unions...),
		Fns:     append([]FnInfo(nil), in.fns...),
		Params:  append([]ParamInfo(nil), in.params...),
	}
}

// FromSnapshot rebuilds an interner, including its lookup indexes, from a
// snapshot.
func FromSnapshot(s Snapshot) *Interner {
	in := &Interner{
		types:      append([]Type(nil), s.Types...),
		index:      make(map[typeKey]TypeID, len(s.Types)),
		structs:    append([]StructInfo(nil), s.Structs...),
		unions:     append([]UnionInfo(nil), s.Unions...),
		fns:        append([]FnInfo(nil), s.Fns...),
		params:     append([]ParamInfo(nil), s.Params...),
		paramIndex: make(map[string]TypeID, len(s.Params)),
	}
	for i, t := range in.types {
		id := TypeID(i) // #nosec G115 -- bounded by the snapshot we just copied
		in.index[typeKey(t)] = id
		if t.Kind == KindTypeParam && int(t.Payload) < len(in.params) {
			in.paramIndex[in.params[t.Payload].Name] = id
		}
	}
	in.builtins = Builtins{
		Invalid: in.Intern(Type{Kind: KindInvalid}),
		Void:    in.Intern(Type{Kind: KindVoid}),
		Bool:    in.Intern(Type{Kind: KindBool}),
		I8:      in.Intern(MakeInt(Width8)),
		I16:     in.Intern(MakeInt(Width16)),
		I32:     in.Intern(MakeInt(Width32)),
		I64:     in.Intern(MakeInt(Width64)),
		U8:      in.Intern(MakeUint(Width8)),
		U16:     in.Intern(MakeUint(Width16)),
		U32:     in.Intern(MakeUint(Width32)),
		U64:     in.Intern(MakeUint(Width64)),
		F32:     in.Intern(MakeFloat(Width32)),
		F64:     in.Intern(MakeFloat(Width64)),
	}
	return in
}

package types

import (
	"fmt"
	"slices"

	"fortio.org/safecast"
)

// StructInfo stores metadata for a struct type. Name may be empty for
// anonymous aggregates; when set it participates in deduplication, so two
// same-shaped structs with different names stay distinct.
type StructInfo struct {
	Name   string
	Fields []TypeID
}

// RegisterStruct creates or finds a struct type with the given ordered
// field types.
func (in *Interner) RegisterStruct(name string, fields []TypeID) TypeID {
	for id := TypeID(1); int(id) < len(in.types); id++ {
		tt := in.types[id]
		if tt.Kind != KindStruct {
			continue
		}
		info := in.structs[tt.Payload]
		if info.Name == name && slices.Equal(info.Fields, fields) {
			return id
		}
	}
	slot := in.appendStructInfo(StructInfo{Name: name, Fields: cloneTypeArgs(fields)})
	return in.internRaw(Type{Kind: KindStruct, Payload: slot})
}

// StructInfo returns metadata for the provided struct TypeID.
func (in *Interner) StructInfo(id TypeID) (*StructInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindStruct {
		return nil, false
	}
	if tt.Payload == 0 || int(tt.Payload) >= len(in.structs) {
		return nil, false
	}
	return &in.structs[tt.Payload], true
}

func (in *Interner) appendStructInfo(info StructInfo) uint32 {
	in.structs = append(in.structs, info)
	slot, err := safecast.Conv[uint32](len(in.structs) - 1)
	if err != nil {
		panic(fmt.Errorf("struct info overflow: %w", err))
	}
	return slot
}

package types

import (
	"fmt"
	"slices"

	"fortio.org/safecast"
)

// UnionVariant describes a single variant inside a union. A variant may
// carry more than one field (product-within-sum), which distinguishes the
// model from a simple tagged pointer.
type UnionVariant struct {
	Tag    uint32
	Fields []TypeID
}

// UnionInfo stores metadata for a union type.
type UnionInfo struct {
	Name     string
	Variants []UnionVariant
}

// RegisterUnion creates or finds a union type with the given variants.
// Variants keep declaration order; tags need not be dense but must be
// unique, which the MIR validator enforces on access.
func (in *Interner) RegisterUnion(name string, variants []UnionVariant) TypeID {
	for id := TypeID(1); int(id) < len(in.types); id++ {
		tt := in.types[id]
		if tt.Kind != KindUnion {
			continue
		}
		info := in.unions[tt.Payload]
		if info.Name == name && sameVariants(info.Variants, variants) {
			return id
		}
	}
	slot := in.appendUnionInfo(UnionInfo{Name: name, Variants: cloneVariants(variants)})
	return in.internRaw(Type{Kind: KindUnion, Payload: slot})
}

// UnionInfo returns metadata for the provided union TypeID.
func (in *Interner) UnionInfo(id TypeID) (*UnionInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindUnion {
		return nil, false
	}
	if tt.Payload == 0 || int(tt.Payload) >= len(in.unions) {
		return nil, false
	}
	return &in.unions[tt.Payload], true
}

// Variant returns the variant with the given tag.
func (info *UnionInfo) Variant(tag uint32) (UnionVariant, bool) {
	for _, v := range info.Variants {
		if v.Tag == tag {
			return v, true
		}
	}
	return UnionVariant{}, false
}

func (in *Interner) appendUnionInfo(info UnionInfo) uint32 {
	in.unions = append(in.unions, info)
	slot, err := safecast.Conv[uint32](len(in.unions) - 1)
	if err != nil {
		panic(fmt.Errorf("union info overflow: %w", err))
	}
	return slot
}

func sameVariants(a, b []UnionVariant) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Tag != b[i].Tag || !slices.Equal(a[i].Fields, b[i].Fields) {
			return false
		}
	}
	return true
}

func cloneVariants(variants []UnionVariant) []UnionVariant {
	if len(variants) == 0 {
		return nil
	}
	result := make([]UnionVariant, len(variants))
	copy(result, variants)
	for i := range result {
		result[i].Fields = cloneTypeArgs(result[i].Fields)
	}
	return result
}

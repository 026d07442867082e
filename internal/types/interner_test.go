package types_test

import (
	"testing"

	"kiln/internal/types"
)

// TestInternDedupe tests that structurally identical types share one ID.
func TestInternDedupe(t *testing.T) {
	in := types.NewInterner()
	b := in.Builtins()

	if got := in.Intern(types.MakeInt(types.Width32)); got != b.I32 {
		t.Fatalf("re-interned i32 = %d, want builtin %d", got, b.I32)
	}

	p1 := in.Pointer(b.I64)
	p2 := in.Pointer(b.I64)
	if p1 != p2 {
		t.Fatalf("pointer types not deduplicated: %d vs %d", p1, p2)
	}
	if p1 == in.Pointer(b.I32) {
		t.Fatalf("pointers to different pointees share an ID")
	}
}

func TestRegisterStructDedupe(t *testing.T) {
	in := types.NewInterner()
	b := in.Builtins()

	s1 := in.RegisterStruct("Pair", []types.TypeID{b.I32, b.I32})
	s2 := in.RegisterStruct("Pair", []types.TypeID{b.I32, b.I32})
	if s1 != s2 {
		t.Fatalf("same struct registered twice: %d vs %d", s1, s2)
	}

	// Same shape, different name is a different nominal type.
	s3 := in.RegisterStruct("Point", []types.TypeID{b.I32, b.I32})
	if s3 == s1 {
		t.Fatalf("nominal types with different names share an ID")
	}

	info, ok := in.StructInfo(s1)
	if !ok {
		t.Fatalf("StructInfo(%d) not found", s1)
	}
	if info.Name != "Pair" || len(info.Fields) != 2 {
		t.Fatalf("StructInfo = %+v, want Pair with 2 fields", info)
	}
}

func TestRegisterUnionVariants(t *testing.T) {
	in := types.NewInterner()
	b := in.Builtins()

	u := in.RegisterUnion("Option", []types.UnionVariant{
		{Tag: 0},
		{Tag: 1, Fields: []types.TypeID{b.I32}},
	})
	info, ok := in.UnionInfo(u)
	if !ok {
		t.Fatalf("UnionInfo(%d) not found", u)
	}
	some, ok := info.Variant(1)
	if !ok || len(some.Fields) != 1 || some.Fields[0] != b.I32 {
		t.Fatalf("variant 1 = %+v, want one i32 field", some)
	}
	if _, ok := info.Variant(7); ok {
		t.Fatalf("variant 7 should not exist")
	}
}

// TestRegisterParamIdentity tests that one parameter name always maps to
// one placeholder type.
func TestRegisterParamIdentity(t *testing.T) {
	in := types.NewInterner()

	p1 := in.RegisterParam("T")
	p2 := in.RegisterParam("T")
	if p1 != p2 {
		t.Fatalf("parameter %q interned twice: %d vs %d", "T", p1, p2)
	}
	if p1 == in.RegisterParam("U") {
		t.Fatalf("distinct parameter names share an ID")
	}
	name, ok := in.ParamName(p1)
	if !ok || name != "T" {
		t.Fatalf("ParamName = %q, %v; want T, true", name, ok)
	}
}

// TestContainsParamDeep tests placeholder detection through nested
// composites, the exact walk substitution relies on.
func TestContainsParamDeep(t *testing.T) {
	in := types.NewInterner()
	b := in.Builtins()
	tp := in.RegisterParam("T")

	inner := in.RegisterStruct("Box", []types.TypeID{tp})
	u := in.RegisterUnion("Either", []types.UnionVariant{
		{Tag: 0, Fields: []types.TypeID{b.I32}},
		{Tag: 1, Fields: []types.TypeID{in.Pointer(inner)}},
	})
	fn := in.RegisterFn([]types.TypeID{u}, b.Void)

	cases := []struct {
		name string
		id   types.TypeID
		want bool
	}{
		{"builtin", b.I64, false},
		{"param itself", tp, true},
		{"struct field", inner, true},
		{"union variant behind pointer", u, true},
		{"fn param", fn, true},
		{"concrete struct", in.RegisterStruct("Flat", []types.TypeID{b.F64}), false},
	}
	for _, tc := range cases {
		if got := in.ContainsParam(tc.id); got != tc.want {
			t.Errorf("%s: ContainsParam = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestTypeString(t *testing.T) {
	in := types.NewInterner()
	b := in.Builtins()
	tp := in.RegisterParam("T")

	cases := []struct {
		id   types.TypeID
		want string
	}{
		{b.I32, "i32"},
		{b.U8, "u8"},
		{b.F64, "f64"},
		{in.Pointer(b.Bool), "*bool"},
		{tp, "$T"},
		{in.RegisterFn([]types.TypeID{b.I32, b.I32}, b.Bool), "fn(i32, i32) -> bool"},
	}
	for _, tc := range cases {
		if got := in.String(tc.id); got != tc.want {
			t.Errorf("String(%d) = %q, want %q", tc.id, got, tc.want)
		}
	}
}

// TestSnapshotRoundTrip tests that a rebuilt interner resolves the same
// IDs to the same types.
func TestSnapshotRoundTrip(t *testing.T) {
	in := types.NewInterner()
	b := in.Builtins()
	tp := in.RegisterParam("T")
	s := in.RegisterStruct("Pair", []types.TypeID{b.I32, in.Pointer(b.I64)})

	out := types.FromSnapshot(in.Snapshot())
	if out.Len() != in.Len() {
		t.Fatalf("restored interner has %d types, want %d", out.Len(), in.Len())
	}
	if got := out.String(s); got != in.String(s) {
		t.Fatalf("restored String(%d) = %q, want %q", s, got, in.String(s))
	}
	if !out.ContainsParam(tp) {
		t.Fatalf("restored interner lost parameter %d", tp)
	}
	// Interning the same struct again must find the snapshot entry, not
	// append a duplicate.
	if got := out.RegisterStruct("Pair", []types.TypeID{b.I32, out.Pointer(b.I64)}); got != s {
		t.Fatalf("restored RegisterStruct = %d, want %d", got, s)
	}
}

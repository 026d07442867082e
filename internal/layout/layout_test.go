package layout_test

import (
	"strings"
	"testing"

	"kiln/internal/layout"
	"kiln/internal/target"
	"kiln/internal/types"
)

// TestScalarLayouts tests size and alignment of the builtin scalars.
func TestScalarLayouts(t *testing.T) {
	in := types.NewInterner()
	b := in.Builtins()
	e := layout.New(target.X86_64LinuxGNU(), in)

	cases := []struct {
		name  string
		id    types.TypeID
		size  int
		align int
	}{
		{"bool", b.Bool, 1, 1},
		{"i8", b.I8, 1, 1},
		{"i32", b.I32, 4, 4},
		{"i64", b.I64, 8, 8},
		{"u16", b.U16, 2, 2},
		{"f64", b.F64, 8, 8},
		{"pointer", in.Pointer(b.I32), 8, 8},
	}
	for _, tc := range cases {
		l, err := e.Of(tc.id)
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if l.Size != tc.size || l.Align != tc.align {
			t.Errorf("%s: size=%d align=%d, want %d/%d", tc.name, l.Size, l.Align, tc.size, tc.align)
		}
	}
}

func TestStructLayoutPadding(t *testing.T) {
	in := types.NewInterner()
	b := in.Builtins()
	e := layout.New(target.X86_64LinuxGNU(), in)

	// bool at 0, i64 padded to 8, bool at 16, total padded to 24.
	s := in.RegisterStruct("Mixed", []types.TypeID{b.Bool, b.I64, b.Bool})
	l, err := e.Of(s)
	if err != nil {
		t.Fatalf("Of: %v", err)
	}
	wantOffsets := []int{0, 8, 16}
	for i, want := range wantOffsets {
		if l.FieldOffsets[i] != want {
			t.Errorf("field %d offset = %d, want %d", i, l.FieldOffsets[i], want)
		}
	}
	if l.Size != 24 || l.Align != 8 {
		t.Errorf("size=%d align=%d, want 24/8", l.Size, l.Align)
	}
}

func TestUnionLayout(t *testing.T) {
	in := types.NewInterner()
	b := in.Builtins()
	e := layout.New(target.X86_64LinuxGNU(), in)

	u := in.RegisterUnion("Option", []types.UnionVariant{
		{Tag: 0},
		{Tag: 1, Fields: []types.TypeID{b.I64}},
	})
	l, err := e.Of(u)
	if err != nil {
		t.Fatalf("Of: %v", err)
	}
	if l.TagSize != 4 {
		t.Errorf("tag size = %d, want 4", l.TagSize)
	}
	if l.PayloadOffset != 8 {
		t.Errorf("payload offset = %d, want 8", l.PayloadOffset)
	}
	if l.Size != 16 {
		t.Errorf("size = %d, want 16", l.Size)
	}
}

// TestPointerStrideMatchesPtrSize tests the container storage contract:
// the stride of a pointer-sized element equals exactly the target pointer
// width, on both supported widths.
func TestPointerStrideMatchesPtrSize(t *testing.T) {
	for _, tgt := range []target.Target{
		target.X86_64LinuxGNU(),
		{Triple: "i386-linux-gnu", PtrSize: 4, PtrAlign: 4, CallConv: target.CallConvKiln},
	} {
		in := types.NewInterner()
		e := layout.New(tgt, in)
		ptr := in.Pointer(in.Builtins().Void)
		stride, err := e.Stride(ptr)
		if err != nil {
			t.Fatalf("%s: %v", tgt.Triple, err)
		}
		if stride != tgt.PtrSize {
			t.Errorf("%s: pointer stride = %d, want %d", tgt.Triple, stride, tgt.PtrSize)
		}
	}
}

// TestTypeParamLayoutFails tests that asking for the layout of an
// unresolved type parameter is an error, not a default.
func TestTypeParamLayoutFails(t *testing.T) {
	in := types.NewInterner()
	e := layout.New(target.X86_64LinuxGNU(), in)
	tp := in.RegisterParam("T")

	if _, err := e.Of(tp); err == nil {
		t.Fatalf("Of($T) succeeded, want error")
	} else if !strings.Contains(err.Error(), `"T"`) {
		t.Errorf("error %q does not name the parameter", err)
	}

	// Nested occurrences fail the same way.
	s := in.RegisterStruct("Box", []types.TypeID{tp})
	if _, err := e.Of(s); err == nil {
		t.Fatalf("Of(Box[$T]) succeeded, want error")
	}
}

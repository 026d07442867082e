package rtabi_test

import (
	"bytes"
	"encoding/binary"
	"testing"

	"kiln/internal/layout"
	"kiln/internal/rtabi"
	"kiln/internal/target"
	"kiln/internal/types"
)

func TestVecRejectsBadStride(t *testing.T) {
	for _, stride := range []int{0, -8} {
		if _, err := rtabi.NewVec(stride); err == nil {
			t.Errorf("NewVec(%d) accepted", stride)
		}
	}
}

func TestVecStorageContract(t *testing.T) {
	v, err := rtabi.NewVec(8)
	if err != nil {
		t.Fatalf("NewVec: %v", err)
	}

	elems := [][]byte{
		binary.LittleEndian.AppendUint64(nil, 10),
		binary.LittleEndian.AppendUint64(nil, 20),
		binary.LittleEndian.AppendUint64(nil, 30),
	}
	for _, e := range elems {
		if err := v.Push(e); err != nil {
			t.Fatalf("Push: %v", err)
		}
	}
	if v.Len() != 3 {
		t.Fatalf("Len = %d, want 3", v.Len())
	}

	for i, want := range elems {
		got, err := v.Get(i)
		if err != nil {
			t.Fatalf("Get(%d): %v", i, err)
		}
		if !bytes.Equal(got, want) {
			t.Errorf("Get(%d) = %x, want %x", i, got, want)
		}
	}

	repl := binary.LittleEndian.AppendUint64(nil, 99)
	if err := v.Set(1, repl); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, _ := v.Get(1)
	if !bytes.Equal(got, repl) {
		t.Errorf("Get(1) after Set = %x, want %x", got, repl)
	}

	last, ok := v.Pop()
	if !ok || !bytes.Equal(last, elems[2]) {
		t.Errorf("Pop = %x/%v, want %x/true", last, ok, elems[2])
	}
	if v.Len() != 2 {
		t.Errorf("Len after Pop = %d, want 2", v.Len())
	}
}

func TestVecRejectsMismatchedWidths(t *testing.T) {
	v, _ := rtabi.NewVec(4)
	if err := v.Push([]byte{1, 2}); err == nil {
		t.Errorf("Push of short element accepted")
	}
	if err := v.Push([]byte{1, 2, 3, 4}); err != nil {
		t.Fatalf("Push: %v", err)
	}
	if err := v.Set(0, []byte{1}); err == nil {
		t.Errorf("Set of short element accepted")
	}
	if _, err := v.Get(5); err == nil {
		t.Errorf("Get past the end accepted")
	}
}

// TestVecPointerStride checks the storage invariant generated code and
// the vector model have to agree on: a vector of pointers is indexed by
// the target's pointer stride, so element i sits at byte offset i times
// the pointer size.
func TestVecPointerStride(t *testing.T) {
	for _, tgt := range []target.Target{
		target.X86_64LinuxGNU(),
		{Triple: "i386-linux-gnu", PtrSize: 4, PtrAlign: 4, CallConv: target.CallConvC},
	} {
		in := types.NewInterner()
		lay := layout.New(tgt, in)

		stride, err := lay.Stride(rtabi.HandleType(in))
		if err != nil {
			t.Fatalf("%s: Stride: %v", tgt.Triple, err)
		}
		if int(stride) != int(tgt.PtrSize) {
			t.Fatalf("%s: pointer stride = %d, want %d", tgt.Triple, stride, tgt.PtrSize)
		}

		v, err := rtabi.NewVec(int(stride))
		if err != nil {
			t.Fatalf("%s: NewVec: %v", tgt.Triple, err)
		}
		for i := 0; i < 4; i++ {
			elem := make([]byte, stride)
			elem[0] = byte(i + 1)
			if err := v.Push(elem); err != nil {
				t.Fatalf("%s: Push: %v", tgt.Triple, err)
			}
		}
		for i := 0; i < 4; i++ {
			got, err := v.Get(i)
			if err != nil {
				t.Fatalf("%s: Get(%d): %v", tgt.Triple, i, err)
			}
			if got[0] != byte(i+1) {
				t.Errorf("%s: element %d read back %d", tgt.Triple, i, got[0])
			}
		}
	}
}

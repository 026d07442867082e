package rtabi_test

import (
	"testing"

	"kiln/internal/mono"
	"kiln/internal/rtabi"
	"kiln/internal/types"
)

// TestCatalogueMonomorphic checks the boundary contract: no extern
// signature mentions a type parameter, even after a caller has interned
// placeholders into the same interner.
func TestCatalogueMonomorphic(t *testing.T) {
	in := types.NewInterner()
	in.RegisterParam("T")
	in.RegisterParam("U")

	for _, e := range rtabi.Catalogue(in) {
		for i, p := range e.Params {
			if in.ContainsParam(p) {
				t.Errorf("%s parameter %d is generic: %s", e.Name, i, in.String(p))
			}
		}
		if in.ContainsParam(e.Result) {
			t.Errorf("%s result is generic: %s", e.Name, in.String(e.Result))
		}
	}
}

func TestCatalogueStableOrder(t *testing.T) {
	in := types.NewInterner()
	first := rtabi.Catalogue(in)
	second := rtabi.Catalogue(in)
	if len(first) != len(second) {
		t.Fatalf("catalogue size changed between calls: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Name != second[i].Name {
			t.Errorf("entry %d: %q vs %q", i, first[i].Name, second[i].Name)
		}
	}
	if first[0].Name != rtabi.FnAlloc {
		t.Errorf("catalogue starts with %q, want %q", first[0].Name, rtabi.FnAlloc)
	}
}

// TestMethodExternsExistInCatalogue cross-checks the two tables: every
// entry point a receiver method maps to must be declared in the
// catalogue.
func TestMethodExternsExistInCatalogue(t *testing.T) {
	in := types.NewInterner()
	declared := make(map[string]bool)
	for _, e := range rtabi.Catalogue(in) {
		declared[e.Name] = true
	}

	methods := map[string][]string{
		rtabi.RecvTaskHandle: {"join"},
		rtabi.RecvMutex:      {"lock", "unlock"},
		rtabi.RecvChannel:    {"send", "recv", "close"},
		rtabi.RecvVec:        {"get", "set", "push", "pop", "len"},
	}
	for recv, names := range methods {
		for _, method := range names {
			extern, ok := rtabi.MethodExtern(recv, method)
			if !ok {
				t.Errorf("%s.%s has no entry point", recv, method)
				continue
			}
			if !declared[extern] {
				t.Errorf("%s.%s maps to undeclared extern %q", recv, method, extern)
			}
			if _, ok := rtabi.Method(in, recv, method); !ok {
				t.Errorf("%s.%s has no generic signature", recv, method)
			}
		}
	}
	if _, ok := rtabi.MethodExtern(rtabi.RecvMutex, "join"); ok {
		t.Errorf("Mutex.join resolved to an entry point")
	}
}

// TestMethodSignaturesResolve pushes every receiver method through the
// substitution engine at a concrete element type and checks nothing
// generic survives.
func TestMethodSignaturesResolve(t *testing.T) {
	in := types.NewInterner()
	b := in.Builtins()

	for _, recv := range []string{rtabi.RecvTaskHandle, rtabi.RecvMutex, rtabi.RecvChannel, rtabi.RecvVec} {
		for _, method := range []string{"join", "lock", "unlock", "send", "recv", "close", "get", "set", "push", "pop", "len"} {
			sig, ok := rtabi.Method(in, recv, method)
			if !ok {
				continue
			}
			resolved, err := mono.ResolveCall(in, rtabi.Receiver(recv, b.I64), sig)
			if err != nil {
				t.Errorf("%s.%s: %v", recv, method, err)
				continue
			}
			for i, p := range resolved.Params {
				if in.ContainsParam(p) {
					t.Errorf("%s.%s parameter %d still generic: %s", recv, method, i, in.String(p))
				}
			}
			if in.ContainsParam(resolved.Result) {
				t.Errorf("%s.%s result still generic: %s", recv, method, in.String(resolved.Result))
			}
		}
	}
}

func TestTaskHandleShape(t *testing.T) {
	in := types.NewInterner()
	ty := rtabi.TaskHandleType(in)
	info, ok := in.StructInfo(ty)
	if !ok {
		t.Fatalf("task handle is not a struct: %s", in.String(ty))
	}
	if len(info.Fields) != 1 || info.Fields[0] != rtabi.HandleType(in) {
		t.Errorf("task handle fields = %v, want single raw handle", info.Fields)
	}
}

func TestOptionShape(t *testing.T) {
	in := types.NewInterner()
	b := in.Builtins()
	ty := rtabi.OptionType(in, b.I32)
	info, ok := in.UnionInfo(ty)
	if !ok {
		t.Fatalf("option is not a union: %s", in.String(ty))
	}
	if len(info.Variants) != 2 {
		t.Fatalf("option variants = %d, want 2", len(info.Variants))
	}
	if len(info.Variants[0].Fields) != 0 {
		t.Errorf("closed arm carries a payload")
	}
	if len(info.Variants[1].Fields) != 1 || info.Variants[1].Fields[0] != b.I32 {
		t.Errorf("value arm fields = %v, want [i32]", info.Variants[1].Fields)
	}
}

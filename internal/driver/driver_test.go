package driver_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"kiln/internal/driver"
	"kiln/internal/mir"
	"kiln/internal/source"
	"kiln/internal/symbols"
	"kiln/internal/tast"
	"kiln/internal/target"
	"kiln/internal/types"
)

// identityUnit builds `func id(x: i64) -> i64 { return x }`.
func identityUnit(name string) *tast.Unit {
	in := types.NewInterner()
	b := in.Builtins()
	unit := tast.NewUnit(name, in)

	rootScope := unit.Scopes.NewScope(symbols.NoScopeID)
	fnScope := unit.Scopes.NewScope(rootScope)
	xSym := unit.Declare(fnScope, "x", b.I64, source.NoSpan)

	unit.Funcs = append(unit.Funcs, &tast.Func{
		Name:   "id",
		Params: []tast.Param{{Name: "x", Sym: xSym, Type: b.I64}},
		Result: b.I64,
		Scope:  fnScope,
		Body: &tast.Block{
			Scope: fnScope,
			Stmts: []tast.Stmt{{
				Kind: tast.StmtReturn,
				Data: tast.ReturnData{Value: &tast.Expr{
					Kind: tast.ExprLocal,
					Type: b.I64,
					Data: tast.LocalData{Name: "x", Sym: xSym},
				}},
			}},
		},
	})
	return unit
}

func TestCompileOK(t *testing.T) {
	res, err := driver.Compile(identityUnit("unit"), target.X86_64LinuxGNU())
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if !res.OK() {
		t.Fatalf("result not OK: bag=%v report=%+v", res.Bag.Items(), res.Report)
	}
	if _, ok := res.Module.FuncNamed("id"); !ok {
		t.Errorf("compiled module lost the function")
	}
}

func TestCompileRejectsBrokenTarget(t *testing.T) {
	if _, err := driver.Compile(identityUnit("unit"), target.Target{}); err == nil {
		t.Fatalf("zero-value target accepted")
	}
}

func TestValidateAllPreservesOrder(t *testing.T) {
	var mods []driver.Compiled
	for _, name := range []string{"a", "b", "c", "d"} {
		res, err := driver.Compile(identityUnit(name), target.X86_64LinuxGNU())
		if err != nil || !res.OK() {
			t.Fatalf("compile %s: %v", name, err)
		}
		mods = append(mods, driver.Compiled{Module: res.Module, Types: res.Types})
	}

	reports, err := driver.ValidateAll(context.Background(), mods)
	if err != nil {
		t.Fatalf("ValidateAll: %v", err)
	}
	if len(reports) != len(mods) {
		t.Fatalf("reports = %d, want %d", len(reports), len(mods))
	}
	for i, r := range reports {
		if r.Module != mods[i].Module.Name {
			t.Errorf("report %d is for %q, want %q", i, r.Module, mods[i].Module.Name)
		}
		if !r.OK() {
			t.Errorf("module %q invalid: %+v", r.Module, r.Violations)
		}
	}
}

func TestValidateAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := driver.Compile(identityUnit("unit"), target.X86_64LinuxGNU())
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if _, err := driver.ValidateAll(ctx, []driver.Compiled{{Module: res.Module, Types: res.Types}}); err == nil {
		t.Fatalf("cancelled context produced no error")
	}
}

func TestDiskCacheRoundTrip(t *testing.T) {
	cache, err := driver.OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatalf("OpenDiskCacheAt: %v", err)
	}

	res, err := driver.Compile(identityUnit("cached"), target.X86_64LinuxGNU())
	if err != nil || !res.OK() {
		t.Fatalf("compile: %v", err)
	}

	key := driver.HashBytes([]byte("func id(x: i64) -> i64 { return x }"))
	if err := cache.StoreModule(key, res.Module, res.Types); err != nil {
		t.Fatalf("StoreModule: %v", err)
	}

	m, in, ok, err := cache.LoadModule(key)
	if err != nil || !ok {
		t.Fatalf("LoadModule: ok=%v err=%v", ok, err)
	}
	if m.Name != "cached" {
		t.Errorf("cached module name = %q", m.Name)
	}
	if want, have := mir.Print(res.Module, res.Types), mir.Print(m, in); have != want {
		t.Errorf("cached module differs:\nwant:\n%s\nhave:\n%s", want, have)
	}
}

func TestDiskCacheMiss(t *testing.T) {
	cache, err := driver.OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatalf("OpenDiskCacheAt: %v", err)
	}
	_, _, ok, err := cache.LoadModule(driver.HashBytes([]byte("never stored")))
	if err != nil {
		t.Fatalf("miss returned error: %v", err)
	}
	if ok {
		t.Fatalf("miss reported a hit")
	}
}

func TestDiskCacheTornEntryInvalidatesItself(t *testing.T) {
	dir := t.TempDir()
	cache, err := driver.OpenDiskCacheAt(dir)
	if err != nil {
		t.Fatalf("OpenDiskCacheAt: %v", err)
	}

	key := driver.HashBytes([]byte("torn"))
	path := filepath.Join(dir, "mods", key.String()+".kmod")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("garbage"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, _, ok, err := cache.LoadModule(key)
	if err != nil {
		t.Fatalf("torn entry returned error: %v", err)
	}
	if ok {
		t.Fatalf("torn entry reported a hit")
	}
}

func TestDiskCacheClear(t *testing.T) {
	cache, err := driver.OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatalf("OpenDiskCacheAt: %v", err)
	}
	res, err := driver.Compile(identityUnit("gone"), target.X86_64LinuxGNU())
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	key := driver.HashBytes([]byte("gone"))
	if err := cache.StoreModule(key, res.Module, res.Types); err != nil {
		t.Fatalf("StoreModule: %v", err)
	}
	if err := cache.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, _, ok, _ := cache.LoadModule(key); ok {
		t.Fatalf("entry survived Clear")
	}
}

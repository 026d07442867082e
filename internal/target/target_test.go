package target_test

import (
	"os"
	"path/filepath"
	"testing"

	"kiln/internal/target"
)

func TestDefaultTargetValid(t *testing.T) {
	if err := target.X86_64LinuxGNU().Check(); err != nil {
		t.Fatalf("default target invalid: %v", err)
	}
}

func TestCheckRejections(t *testing.T) {
	base := target.X86_64LinuxGNU()
	tests := []struct {
		name   string
		mutate func(*target.Target)
	}{
		{"missing triple", func(tg *target.Target) { tg.Triple = "" }},
		{"odd pointer size", func(tg *target.Target) { tg.PtrSize = 2 }},
		{"align mismatch", func(tg *target.Target) { tg.PtrAlign = 4 }},
		{"bad callconv", func(tg *target.Target) { tg.CallConv = "stdcall" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tg := base
			tt.mutate(&tg)
			if err := tg.Check(); err == nil {
				t.Fatalf("Check accepted %+v", tg)
			}
		})
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "target.toml")
	content := "triple = \"i386-linux-gnu\"\nptr_size = 4\nptr_align = 4\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	tg, err := target.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tg.Triple != "i386-linux-gnu" || tg.PtrSize != 4 || tg.PtrAlign != 4 {
		t.Errorf("loaded target = %+v", tg)
	}
	// Keys absent from the file keep the built-in defaults.
	if tg.CallConv != target.CallConvKiln {
		t.Errorf("call convention = %q, want default", tg.CallConv)
	}
}

func TestLoadRejectsUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "target.toml")
	if err := os.WriteFile(path, []byte("triple = \"x\"\nwordsize = 8\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := target.Load(path); err == nil {
		t.Fatalf("unknown key accepted")
	}
}

func TestLoadRejectsInvalidDescription(t *testing.T) {
	path := filepath.Join(t.TempDir(), "target.toml")
	if err := os.WriteFile(path, []byte("ptr_size = 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := target.Load(path); err == nil {
		t.Fatalf("unsupported pointer size accepted")
	}
}

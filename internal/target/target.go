// Package target describes the ABI target a module is lowered for:
// pointer width, alignment rules and the default calling convention.
// Descriptions may be loaded from a TOML file or taken from the built-in
// defaults.
package target

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// CallConv names a calling convention an extern function may declare.
type CallConv string

const (
	// CallConvC is the platform C calling convention. The whole runtime
	// ABI boundary uses it.
	CallConvC CallConv = "c"
	// CallConvKiln is the internal convention for defined functions.
	CallConvKiln CallConv = "kiln"
)

// Valid reports whether cc names a known convention.
func (cc CallConv) Valid() bool {
	return cc == CallConvC || cc == CallConvKiln
}

// Target describes the ABI target triple and its pointer properties.
type Target struct {
	Triple   string   `toml:"triple"`
	PtrSize  int      `toml:"ptr_size"`  // bytes
	PtrAlign int      `toml:"ptr_align"` // bytes
	CallConv CallConv `toml:"call_conv"` // default convention for defined functions
}

// X86_64LinuxGNU is the built-in default target.
func X86_64LinuxGNU() Target {
	return Target{
		Triple:   "x86_64-linux-gnu",
		PtrSize:  8,
		PtrAlign: 8,
		CallConv: CallConvKiln,
	}
}

// Load parses a target description from a TOML file.
func Load(path string) (Target, error) {
	t := X86_64LinuxGNU()
	meta, err := toml.DecodeFile(path, &t)
	if err != nil {
		return Target{}, fmt.Errorf("target: parse %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Target{}, fmt.Errorf("target: %s: unknown key %q", path, undecoded[0].String())
	}
	if err := t.Check(); err != nil {
		return Target{}, fmt.Errorf("target: %s: %w", path, err)
	}
	return t, nil
}

// Check validates the target description.
func (t Target) Check() error {
	if t.Triple == "" {
		return fmt.Errorf("missing triple")
	}
	switch t.PtrSize {
	case 4, 8:
	default:
		return fmt.Errorf("unsupported pointer size %d", t.PtrSize)
	}
	if t.PtrAlign != t.PtrSize {
		return fmt.Errorf("pointer align %d must equal pointer size %d", t.PtrAlign, t.PtrSize)
	}
	if !t.CallConv.Valid() {
		return fmt.Errorf("unknown calling convention %q", t.CallConv)
	}
	return nil
}

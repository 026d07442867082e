package mir

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"kiln/internal/types"
)

// Current schema version - increment when the container format changes.
const encodeSchemaVersion uint16 = 1

// Container is the serialized handoff artifact: a module plus the type
// tables its TypeIDs index into.
type Container struct {
	Schema uint16
	Types  types.Snapshot
	Module *Module
}

// Encode serializes a module and its type interner. Callers are expected
// to encode only validated modules; Decode re-validates regardless.
func Encode(m *Module, typesIn *types.Interner) ([]byte, error) {
	c := Container{
		Schema: encodeSchemaVersion,
		Types:  typesIn.Snapshot(),
		Module: m,
	}
	data, err := msgpack.Marshal(&c)
	if err != nil {
		return nil, fmt.Errorf("mir: encode module %q: %w", m.Name, err)
	}
	return data, nil
}

// Decode deserializes a container produced by Encode.
func Decode(data []byte) (*Module, *types.Interner, error) {
	var c Container
	if err := msgpack.Unmarshal(data, &c); err != nil {
		return nil, nil, fmt.Errorf("mir: decode module: %w", err)
	}
	if c.Schema != encodeSchemaVersion {
		return nil, nil, fmt.Errorf("mir: container schema %d, want %d", c.Schema, encodeSchemaVersion)
	}
	if c.Module == nil {
		return nil, nil, fmt.Errorf("mir: container holds no module")
	}
	return c.Module, types.FromSnapshot(c.Types), nil
}

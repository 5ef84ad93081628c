package llc

import (
	"fmt"
	"os"

	"github.com/vmihailenco/msgpack/v5"

	"luma/depm"
)

// SymbolManifest is one exported entry of a unit manifest.
type SymbolManifest struct {
	Name     string `msgpack:"name"`
	Function bool   `msgpack:"function"`
	External bool   `msgpack:"external"`
}

// UnitManifest is the binary sidecar written next to a module's
// intermediates on save-intermediates builds: the module name and its symbol
// listing, for inspection by companion tooling.
type UnitManifest struct {
	Module  string           `msgpack:"module"`
	Main    bool             `msgpack:"main"`
	Symbols []SymbolManifest `msgpack:"symbols"`
}

// BuildManifest collects a unit's manifest.
func BuildManifest(unit *depm.Unit) *UnitManifest {
	manifest := &UnitManifest{
		Module: unit.Name,
		Main:   unit.IsMain,
	}

	for _, sym := range unit.Symbols {
		manifest.Symbols = append(manifest.Symbols, SymbolManifest{
			Name:     sym.Name,
			Function: sym.IsFunction,
			External: sym.IsExternal(),
		})
	}

	return manifest
}

// WriteManifest writes a unit's manifest to path.
func WriteManifest(unit *depm.Unit, path string) error {
	data, err := msgpack.Marshal(BuildManifest(unit))
	if err != nil {
		return fmt.Errorf("failed to encode manifest for module %s: %s", unit.Name, err)
	}

	return os.WriteFile(path, data, 0o644)
}

// ReadManifest reads a unit manifest back from path.
func ReadManifest(path string) (*UnitManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	manifest := &UnitManifest{}
	if err := msgpack.Unmarshal(data, manifest); err != nil {
		return nil, fmt.Errorf("failed to decode manifest %s: %s", path, err)
	}

	return manifest, nil
}

// Package build orchestrates a whole compilation: front-end hand-off, code
// generation, parallel object emission, and linking.
package build

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml"
)

// BuildConfig carries everything the core observes of the surrounding
// tool's command line.
type BuildConfig struct {
	// Optimization level passed to the linker driver, 0 through 3.
	OptLevel int

	// Whether to keep per-module intermediates (.ll, .s, .meta) next to the
	// objects.
	SaveTemps bool

	// Base name of the produced executable.
	OutputName string

	// The module files of the program, in program order.
	Files []string

	// Whether the invocation asked for documentation generation instead of
	// a native build.
	Docs bool

	// Whether to verify modules before emission.
	Debug bool

	// Whether to display per-phase progress.
	Verbose bool
}

// OutputDir returns the directory object files are emitted into.
func (cfg *BuildConfig) OutputDir() string {
	if cfg.SaveTemps {
		return "output"
	}

	return "obj"
}

// ExecutableName returns the executable base name, defaulting to "output".
func (cfg *BuildConfig) ExecutableName() string {
	if cfg.OutputName == "" {
		return "output"
	}

	return cfg.OutputName
}

// projectFile is the on-disk shape of a luma.toml project manifest.
type projectFile struct {
	Name      string   `toml:"name"`
	OptLevel  int      `toml:"opt-level"`
	SaveTemps bool     `toml:"save-intermediates"`
	Files     []string `toml:"files"`
}

// LoadProjectConfig reads a luma.toml project manifest into a build config.
func LoadProjectConfig(path string) (BuildConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return BuildConfig{}, fmt.Errorf("failed to read project file: %s", err)
	}

	var pf projectFile
	if err := toml.Unmarshal(data, &pf); err != nil {
		return BuildConfig{}, fmt.Errorf("failed to parse project file %s: %s", path, err)
	}

	if pf.OptLevel < 0 || pf.OptLevel > 3 {
		return BuildConfig{}, fmt.Errorf("opt-level must be between 0 and 3, got %d", pf.OptLevel)
	}

	return BuildConfig{
		OptLevel:   pf.OptLevel,
		SaveTemps:  pf.SaveTemps,
		OutputName: pf.Name,
		Files:      pf.Files,
	}, nil
}

package build

import (
	"fmt"
	"path/filepath"

	"github.com/pterm/pterm"

	"luma/ast"
	"luma/codegen"
	"luma/llc"
	"luma/report"
)

// Frontend loads and type checks the given module files into a program
// tree.  The front end lives outside this core; the surrounding tool
// installs its loader here before calling Compile.
var Frontend func(files []string) (*ast.Program, error)

// Compiler holds the state of one compilation run.
type Compiler struct {
	cfg BuildConfig
	gen *codegen.Generator
}

// NewCompiler creates a compiler for the given configuration.
func NewCompiler(cfg BuildConfig) *Compiler {
	return &Compiler{
		cfg: cfg,
		gen: codegen.NewGenerator(),
	}
}

// Compile loads the configured module files through the front end and runs
// the full build.  It returns the process exit status.
func (c *Compiler) Compile() int {
	if c.cfg.Docs {
		report.ReportError("documentation generation is handled by the companion docgen tool")
		return 1
	}

	if Frontend == nil {
		report.ReportError("no front end installed: cannot load module files")
		return 1
	}

	prog, err := Frontend(c.cfg.Files)
	if err != nil {
		report.ReportError("%s", err)
		return 1
	}

	if err := c.CompileProgram(prog); err != nil {
		return 1
	}

	return 0
}

// CompileProgram runs code generation, object emission, and linking over an
// already-loaded program tree.
func (c *Compiler) CompileProgram(prog *ast.Program) error {
	defer c.gen.Close()

	err := c.phase("Generating modules", func() error {
		return c.gen.GenerateProgram(prog)
	})
	if err != nil {
		return err
	}

	if report.LogLevel() >= report.LogLevelVerbose {
		report.LogVerbose("%s", c.gen.Registry().DebugString())
	}

	outputDir := c.cfg.OutputDir()

	err = c.phase("Emitting objects", func() error {
		return llc.EmitObjects(c.gen.Registry(), outputDir, c.cfg.Debug)
	})
	if err != nil {
		report.ReportError("%s", err)
		return err
	}

	if c.cfg.SaveTemps {
		if err := c.saveIntermediates(outputDir); err != nil {
			report.ReportError("%s", err)
			return err
		}
	}

	err = c.phase("Linking", func() error {
		objs := llc.ObjectPaths(c.gen.Registry(), outputDir)
		return llc.LinkExecutable(objs, c.cfg.ExecutableName(), c.cfg.OptLevel)
	})
	if err != nil {
		report.ReportError("%s", err)
		return err
	}

	if c.cfg.Verbose {
		pterm.Success.Printfln("Build succeeded! Written to '%s'", c.cfg.ExecutableName())
	}

	return nil
}

// saveIntermediates writes the per-module .ll, .s, and .meta sidecars.
func (c *Compiler) saveIntermediates(outputDir string) error {
	for _, unit := range c.gen.Registry().Units() {
		irPath := filepath.Join(outputDir, unit.Name+".ll")
		if err := llc.WriteIRFile(unit.Mod, irPath); err != nil {
			return fmt.Errorf("failed to save IR for module %s: %s", unit.Name, err)
		}

		metaPath := filepath.Join(outputDir, unit.Name+".meta")
		if err := llc.WriteManifest(unit, metaPath); err != nil {
			return err
		}
	}

	return llc.EmitAssembly(c.gen.Registry(), outputDir)
}

// phase runs one compilation phase, with a spinner in verbose mode.
func (c *Compiler) phase(name string, fn func() error) error {
	if !c.cfg.Verbose {
		return fn()
	}

	spinner, _ := pterm.DefaultSpinner.Start(name)

	if err := fn(); err != nil {
		spinner.Fail(name)
		return err
	}

	spinner.Success(name)
	return nil
}

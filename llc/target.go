// Package llc turns populated backend modules into native artifacts: object
// files emitted in parallel through per-task target machines, and a final
// executable produced by the system linker.
package llc

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/llir/llvm/asm"
	"github.com/llir/llvm/ir"
)

// FileType selects the kind of output a target machine produces.
type FileType int

const (
	// ObjectFile emits a relocatable native object.
	ObjectFile FileType = iota

	// AssemblyFile emits textual assembly.
	AssemblyFile
)

// HostTriple returns the default target triple of the host.
func HostTriple() string {
	switch runtime.GOOS + "/" + runtime.GOARCH {
	case "linux/amd64":
		return "x86_64-unknown-linux-gnu"
	case "linux/arm64":
		return "aarch64-unknown-linux-gnu"
	case "darwin/amd64":
		return "x86_64-apple-darwin"
	case "darwin/arm64":
		return "arm64-apple-darwin"
	default:
		return fmt.Sprintf("%s-unknown-%s", runtime.GOARCH, runtime.GOOS)
	}
}

// dataLayouts holds the data layout strings of the triples we know.  For
// other triples the layout is left for the toolchain to derive.
var dataLayouts = map[string]string{
	"x86_64-unknown-linux-gnu":  "e-m:e-p270:32:32-p271:32:32-p272:64:64-i64:64-f80:128-n8:16:32:64-S128",
	"aarch64-unknown-linux-gnu": "e-m:e-i8:8:32-i16:16:32-i64:64-i128:128-n32:64-S128",
	"x86_64-apple-darwin":       "e-m:o-p270:32:32-p271:32:32-p272:64:64-i64:64-f80:128-n8:16:32:64-S128",
	"arm64-apple-darwin":        "e-m:o-i64:64-i128:128-n32:64-S128",
}

// TargetMachine drives native code emission for one triple.  Machines are
// cheap: the emitter creates one per task rather than sharing them.
type TargetMachine struct {
	// The target triple.
	Triple string

	// The target CPU and feature string.  Empty means the toolchain
	// defaults.
	CPU      string
	Features string
}

// NewHostMachine creates a target machine for the host: default triple, host
// CPU and features, position-independent code, no optimization.
func NewHostMachine() *TargetMachine {
	return &TargetMachine{Triple: HostTriple()}
}

// DataLayout returns the data layout string for the machine's triple, or
// empty when unknown.
func (tm *TargetMachine) DataLayout() string {
	return dataLayouts[tm.Triple]
}

// VerifyModule checks that a module's IR is well-formed by round-tripping
// its printed form through the IR parser.  Used in debug builds before
// emission.
func VerifyModule(mod *ir.Module) error {
	if _, err := asm.ParseString(mod.SourceFilename, mod.String()); err != nil {
		return fmt.Errorf("module verification failed: %s", err)
	}

	return nil
}

// CompileModule emits mod to outputPath as the requested file type.  The
// module's triple and data layout are set from the machine first; with
// verify set the module is verified before emission.
func (tm *TargetMachine) CompileModule(mod *ir.Module, outputPath string, fileType FileType, verify bool) error {
	mod.TargetTriple = tm.Triple
	if layout := tm.DataLayout(); layout != "" {
		mod.DataLayout = layout
	}

	if verify {
		if err := VerifyModule(mod); err != nil {
			return err
		}
	}

	clang, err := exec.LookPath("clang")
	if err != nil {
		return fmt.Errorf("cannot find clang: %s", err)
	}

	irFile, err := os.CreateTemp("", "luma-*.ll")
	if err != nil {
		return fmt.Errorf("failed to create temporary IR file: %s", err)
	}
	defer os.Remove(irFile.Name())

	if _, err := irFile.WriteString(mod.String()); err != nil {
		irFile.Close()
		return fmt.Errorf("failed to write temporary IR file: %s", err)
	}
	irFile.Close()

	args := []string{"-c"}
	if fileType == AssemblyFile {
		args = []string{"-S"}
	}

	args = append(args, "-x", "ir", irFile.Name(), "-o", outputPath, "-target", tm.Triple, "-O0", "-fPIC", "-mcmodel=small")
	if tm.CPU != "" {
		args = append(args, "-mcpu="+tm.CPU)
	}

	cmd := exec.Command(clang, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("object emission failed: %s\n%s", err, out)
	}

	return nil
}

// WriteIRFile writes the module's textual IR to path.
func WriteIRFile(mod *ir.Module, path string) error {
	return os.WriteFile(path, []byte(mod.String()), 0o644)
}

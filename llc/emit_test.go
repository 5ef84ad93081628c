package llc

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	lltypes "github.com/llir/llvm/ir/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"luma/depm"
)

func TestWorkerCountEnvOverride(t *testing.T) {
	t.Setenv("LUMA_COMPILE_THREADS", "8")
	assert.Equal(t, 8, WorkerCount(100))

	// Capped at the module count.
	assert.Equal(t, 3, WorkerCount(3))
}

func TestWorkerCountInvalidEnv(t *testing.T) {
	for _, bad := range []string{"0", "-2", "65", "lots", ""} {
		t.Setenv("LUMA_COMPILE_THREADS", bad)

		got := WorkerCount(1 << 20)
		assert.GreaterOrEqual(t, got, 1, "env %q", bad)
		assert.LessOrEqual(t, got, MaxCompileThreads, "env %q", bad)
	}
}

func TestWorkerCountBounds(t *testing.T) {
	t.Setenv("LUMA_COMPILE_THREADS", "1")
	assert.Equal(t, 1, WorkerCount(64))

	t.Setenv("LUMA_COMPILE_THREADS", "64")
	assert.Equal(t, 64, WorkerCount(1000))
}

func TestObjectPaths(t *testing.T) {
	reg := depm.NewRegistry()
	_, err := reg.NewUnit("util")
	require.NoError(t, err)
	_, err = reg.NewUnit("main")
	require.NoError(t, err)

	paths := ObjectPaths(reg, "obj")
	assert.Equal(t, []string{filepath.Join("obj", "util.o"), filepath.Join("obj", "main.o")}, paths)
}

func TestHostTriple(t *testing.T) {
	triple := HostTriple()
	assert.NotEmpty(t, triple)

	if runtime.GOOS == "linux" && runtime.GOARCH == "amd64" {
		assert.Equal(t, "x86_64-unknown-linux-gnu", triple)
	}
}

func TestVerifyModule(t *testing.T) {
	mod := ir.NewModule()
	mod.SourceFilename = "ok"

	fn := mod.NewFunc("answer", lltypes.I32)
	entry := fn.NewBlock("entry")
	entry.NewRet(constant.NewInt(lltypes.I32, 42))

	require.NoError(t, VerifyModule(mod))
}

func TestEmitObjectsNoModules(t *testing.T) {
	reg := depm.NewRegistry()

	err := EmitObjects(reg, t.TempDir(), false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no modules")
}

func TestEmitObjectsProducesPerModuleFiles(t *testing.T) {
	if _, err := exec.LookPath("clang"); err != nil {
		t.Skip("clang not available")
	}

	reg := depm.NewRegistry()

	for _, name := range []string{"alpha", "beta"} {
		unit, err := reg.NewUnit(name)
		require.NoError(t, err)

		fn := unit.Mod.NewFunc(name+"_fn", lltypes.I32)
		fn.NewBlock("entry").NewRet(constant.NewInt(lltypes.I32, 0))
	}

	outDir := filepath.Join(t.TempDir(), "obj")
	require.NoError(t, EmitObjects(reg, outDir, true))

	for _, name := range []string{"alpha", "beta"} {
		info, err := os.Stat(filepath.Join(outDir, name+".o"))
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	}
}

package llc

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"fortio.org/safecast"
	"golang.org/x/sync/errgroup"

	"luma/depm"
)

const (
	// DefaultCompileThreads is the worker count used when CPU detection
	// fails.
	DefaultCompileThreads = 4

	// MaxCompileThreads bounds the emission worker pool.
	MaxCompileThreads = 64

	// threadsEnvVar overrides the worker count when set to an integer in
	// [1, MaxCompileThreads].
	threadsEnvVar = "LUMA_COMPILE_THREADS"
)

// WorkerCount determines the emission worker count: environment override if
// valid, else detected CPU count, else the default; always capped at the
// module count.
func WorkerCount(moduleCount int) int {
	count := 0

	if env := os.Getenv(threadsEnvVar); env != "" {
		if n64, err := strconv.ParseInt(env, 10, 64); err == nil {
			if n, err := safecast.Conv[int](n64); err == nil && 1 <= n && n <= MaxCompileThreads {
				count = n
			}
		}
	}

	if count == 0 {
		if cpus := runtime.NumCPU(); cpus > 0 {
			count = cpus
		} else {
			count = DefaultCompileThreads
		}
	}

	if count > MaxCompileThreads {
		count = MaxCompileThreads
	}

	if count > moduleCount {
		count = moduleCount
	}

	return count
}

// EmitObjects lowers every unit's backend module to an object file
// `<outputDir>/<module>.o`.  Tasks run in batches of the worker count, each
// task with its own target machine; every task in a batch is joined before
// the next batch starts.  A failing task does not cancel its siblings: the
// whole set runs, and the first failure is returned.
//
// During emission the registry, the struct infos, and the caches are
// read-only; each task mutates only its own disjoint module.
func EmitObjects(reg *depm.Registry, outputDir string, debug bool) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %s", outputDir, err)
	}

	units := reg.Units()
	if len(units) == 0 {
		return fmt.Errorf("no modules to compile")
	}

	workers := WorkerCount(len(units))

	var firstErr error

	for start := 0; start < len(units); start += workers {
		end := start + workers
		if end > len(units) {
			end = len(units)
		}

		var group errgroup.Group
		for _, unit := range units[start:end] {
			unit := unit

			group.Go(func() error {
				tm := NewHostMachine()
				outputPath := filepath.Join(outputDir, unit.Name+".o")

				if err := tm.CompileModule(unit.Mod, outputPath, ObjectFile, debug); err != nil {
					return fmt.Errorf("failed to compile module %s: %s", unit.Name, err)
				}

				return nil
			})
		}

		if err := group.Wait(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}

// EmitAssembly writes `<outputDir>/<module>.s` for every unit.  Used by
// save-intermediates builds; sequential, since it shares the object
// emitter's machinery but is not on the hot path.
func EmitAssembly(reg *depm.Registry, outputDir string) error {
	for _, unit := range reg.Units() {
		tm := NewHostMachine()
		path := filepath.Join(outputDir, unit.Name+".s")

		if err := tm.CompileModule(unit.Mod, path, AssemblyFile, false); err != nil {
			return fmt.Errorf("failed to emit assembly for module %s: %s", unit.Name, err)
		}
	}

	return nil
}

// ObjectPaths returns the object file path of every unit under outputDir, in
// registry order.
func ObjectPaths(reg *depm.Registry, outputDir string) []string {
	paths := make([]string, 0, reg.Len())
	for _, unit := range reg.Units() {
		paths = append(paths, filepath.Join(outputDir, unit.Name+".o"))
	}

	return paths
}

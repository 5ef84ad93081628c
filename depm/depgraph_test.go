package depm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"luma/ast"
)

func progFromDeps(mods ...[2]interface{}) *ast.Program {
	prog := &ast.Program{}

	for _, m := range mods {
		mod := &ast.Module{Name: m[0].(string)}
		for _, dep := range m[1].([]string) {
			mod.Body = append(mod.Body, &ast.UseStmt{Module: dep})
		}

		prog.Modules = append(prog.Modules, mod)
	}

	return prog
}

func processAll(t *testing.T, prog *ast.Program) ([]string, error) {
	t.Helper()

	sched := NewScheduler(BuildDepRecords(prog))

	var order []string
	for _, mod := range prog.Modules {
		err := sched.Process(mod.Name, func(name string) error {
			order = append(order, name)
			return nil
		})
		if err != nil {
			return order, err
		}
	}

	return order, nil
}

func TestSchedulerDependencyOrder(t *testing.T) {
	prog := progFromDeps(
		[2]interface{}{"main", []string{"util", "geom"}},
		[2]interface{}{"util", []string{}},
		[2]interface{}{"geom", []string{"util"}},
	)

	order, err := processAll(t, prog)
	require.NoError(t, err)

	// Dependencies first, ties broken by program order, every module once.
	assert.Equal(t, []string{"util", "geom", "main"}, order)
}

func TestSchedulerProcessedOnce(t *testing.T) {
	prog := progFromDeps(
		[2]interface{}{"a", []string{"shared"}},
		[2]interface{}{"b", []string{"shared"}},
		[2]interface{}{"shared", []string{}},
	)

	order, err := processAll(t, prog)
	require.NoError(t, err)
	assert.Equal(t, []string{"shared", "a", "b"}, order)
}

func TestSchedulerMissingDependency(t *testing.T) {
	prog := progFromDeps(
		[2]interface{}{"main", []string{"ghost"}},
	)

	_, err := processAll(t, prog)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ghost")
}

func TestSchedulerCycleDetection(t *testing.T) {
	prog := progFromDeps(
		[2]interface{}{"a", []string{"b"}},
		[2]interface{}{"b", []string{"a"}},
	)

	order, err := processAll(t, prog)
	require.Error(t, err)

	var cycleErr *CycleError
	require.ErrorAs(t, err, &cycleErr)

	// The error names the modules on the cycle, and nothing was emitted.
	assert.Contains(t, err.Error(), "a")
	assert.Contains(t, err.Error(), "b")
	assert.GreaterOrEqual(t, len(cycleErr.Path), 2)
	assert.Empty(t, order)
}

func TestSchedulerSelfCycle(t *testing.T) {
	prog := progFromDeps(
		[2]interface{}{"a", []string{"a"}},
	)

	_, err := processAll(t, prog)
	require.Error(t, err)

	var cycleErr *CycleError
	require.ErrorAs(t, err, &cycleErr)
}

func TestBuildDepRecords(t *testing.T) {
	prog := &ast.Program{
		Modules: []*ast.Module{
			{
				Name: "main",
				Body: []ast.Stmt{
					&ast.UseStmt{Module: "util", Alias: "u"},
					&ast.FuncDecl{Name: "main"},
					&ast.UseStmt{Module: "geom"},
				},
			},
		},
	}

	records := BuildDepRecords(prog)
	require.Len(t, records, 1)
	assert.Equal(t, "main", records[0].Name)
	assert.Equal(t, []string{"util", "geom"}, records[0].Deps)
}

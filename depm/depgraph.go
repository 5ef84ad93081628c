package depm

import (
	"fmt"
	"strings"

	"luma/ast"
)

// DepRecord is the per-module dependency record used during an emission
// pass.  Records are built afresh for every full pass.
type DepRecord struct {
	// The module name.
	Name string

	// The names of the modules referenced by the module's use directives, in
	// source order.
	Deps []string

	// Whether the module's body has been fully emitted.
	processed bool

	// Whether the module is currently on the DFS stack.  A dependency edge
	// back into a visiting module is a cycle.
	visiting bool
}

// CycleError reports a cycle in the module dependency graph, naming every
// module on the cycle path.
type CycleError struct {
	Path []string
}

func (ce *CycleError) Error() string {
	return fmt.Sprintf("cycle in module dependency graph: %s", strings.Join(ce.Path, " -> "))
}

// BuildDepRecords extracts one dependency record per module from the
// program's use directives.
func BuildDepRecords(prog *ast.Program) []*DepRecord {
	records := make([]*DepRecord, 0, len(prog.Modules))

	for _, mod := range prog.Modules {
		rec := &DepRecord{Name: mod.Name}

		for _, stmt := range mod.Body {
			if use, ok := stmt.(*ast.UseStmt); ok {
				rec.Deps = append(rec.Deps, use.Module)
			}
		}

		records = append(records, rec)
	}

	return records
}

// Scheduler drives dependency-ordered processing over a set of dependency
// records.  Processing is strictly depth-first: a module's dependencies are
// processed before the module itself, with ties broken by program order.
type Scheduler struct {
	records []*DepRecord
	byName  map[string]*DepRecord
}

// NewScheduler creates a scheduler over records.
func NewScheduler(records []*DepRecord) *Scheduler {
	byName := make(map[string]*DepRecord, len(records))
	for _, rec := range records {
		byName[rec.Name] = rec
	}

	return &Scheduler{records: records, byName: byName}
}

// Process ensures that the named module and, recursively, all of its
// dependencies have been handed to emit, dependencies first.  A module is
// handed to emit exactly once per pass.  Missing dependencies and dependency
// cycles are errors.
func (s *Scheduler) Process(name string, emit func(name string) error) error {
	rec, ok := s.byName[name]
	if !ok {
		return fmt.Errorf("module %s not found in dependency info", name)
	}

	if rec.processed {
		return nil
	}

	if rec.visiting {
		return &CycleError{Path: s.cyclePath(name)}
	}

	rec.visiting = true

	for _, dep := range rec.Deps {
		if err := s.Process(dep, emit); err != nil {
			return err
		}
	}

	if err := emit(rec.Name); err != nil {
		return err
	}

	rec.visiting = false
	rec.processed = true
	return nil
}

// cyclePath collects the modules currently on the DFS stack, ending at the
// re-entered module.
func (s *Scheduler) cyclePath(reentered string) []string {
	var path []string
	for _, rec := range s.records {
		if rec.visiting {
			path = append(path, rec.Name)
		}
	}

	return append(path, reentered)
}

package codegen

import (
	"fmt"

	"luma/ast"
	"luma/depm"
	"luma/report"
)

// GenerateProgram runs the three lowering passes over the program: create
// every module compilation unit, link the use directives, then lower module
// bodies in dependency order.  The warm caches are populated between the
// link and lower passes.
func (g *Generator) GenerateProgram(prog *ast.Program) error {
	// Pass 1: create all module units.
	for _, mod := range prog.Modules {
		unit, err := g.registry.NewUnit(mod.Name)
		if err != nil {
			report.ReportModuleError(mod.Name, "%s", err)
			return err
		}

		g.SetCurrentUnit(unit)
	}

	// Pass 2: process all use directives.
	for _, mod := range prog.Modules {
		unit := g.registry.Find(mod.Name)
		g.SetCurrentUnit(unit)

		for _, stmt := range mod.Body {
			use, ok := stmt.(*ast.UseStmt)
			if !ok {
				continue
			}

			if err := g.linkUse(mod.Name, use); err != nil {
				return err
			}
		}
	}

	// The cache warm-up is the precondition for fast lookups during
	// lowering.
	g.WarmCaches()

	// Pass 3: generate code in dependency order.  Self-imports were skipped
	// during linking, so they are not dependency edges either.
	records := depm.BuildDepRecords(prog)
	for _, rec := range records {
		deps := rec.Deps[:0]
		for _, dep := range rec.Deps {
			if dep != rec.Name {
				deps = append(deps, dep)
			}
		}
		rec.Deps = deps
	}

	sched := depm.NewScheduler(records)

	byName := make(map[string]*ast.Module, len(prog.Modules))
	for _, mod := range prog.Modules {
		byName[mod.Name] = mod
	}

	for _, mod := range prog.Modules {
		err := sched.Process(mod.Name, func(name string) error {
			return g.lowerModule(byName[name])
		})
		if err != nil {
			report.ReportModuleError(mod.Name, "%s", err)
			return err
		}
	}

	// Re-warm so the caches see every symbol created during lowering.
	g.WarmCaches()

	return nil
}

// linkUse links one use directive: the referenced module must exist, and
// self-imports are skipped with a warning.
func (g *Generator) linkUse(modName string, use *ast.UseStmt) error {
	referenced := g.registry.Find(use.Module)
	if referenced == nil {
		err := fmt.Errorf("cannot import module %s: module not found", use.Module)
		report.ReportModuleError(modName, "%s", err)
		return err
	}

	if referenced == g.current {
		report.ReportModuleWarning(modName, "module %s trying to import itself - skipping", modName)
		return nil
	}

	g.ImportModuleSymbols(referenced, use.Alias)
	return nil
}

// lowerModule lowers every non-use statement of a module body into the
// module's backend unit.
func (g *Generator) lowerModule(mod *ast.Module) error {
	unit := g.registry.Find(mod.Name)
	if unit == nil {
		return fmt.Errorf("module unit not found: %s", mod.Name)
	}

	g.SetCurrentUnit(unit)

	for _, stmt := range mod.Body {
		if _, ok := stmt.(*ast.UseStmt); ok {
			continue
		}

		if err := g.lowerTopLevel(stmt); err != nil {
			report.ReportModuleError(mod.Name, "%s", err)
			return err
		}
	}

	return nil
}

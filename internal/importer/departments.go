package importer

import (
	"context"
	"fmt"

	"github.com/koltyakov/orgimport/internal/domain"
	"github.com/koltyakov/orgimport/internal/parser"
	"github.com/koltyakov/orgimport/pkg/types"
)

// ImportDepartments imports a departments CSV in two passes: every row is
// saved without its parent, then parent links are assigned once the batch is
// known to be acyclic. With UseTransaction all writes share one transaction.
func (imp *Importer) ImportDepartments(ctx context.Context, content, delimiter string, opts Options) *types.ImportResult {
	rows, err := parser.Parse(content, delimiterOr(delimiter))
	return imp.importDepartmentRows(ctx, rows, err, opts)
}

func (imp *Importer) importDepartmentRows(ctx context.Context, rows []types.Row, parseErr error, opts Options) *types.ImportResult {
	log := imp.logger.WithEntity(string(domain.KindDepartments))

	scope, err := imp.begin(ctx, opts.UseTransaction)
	if err != nil {
		return failure(err)
	}
	defer scope.finish()

	if parseErr != nil {
		log.Error("parse failed: %v", parseErr)
		return failure(parseErr)
	}
	log.Info("importing %d departments", len(rows))

	result := types.Success(0)
	saved := make(map[string]*domain.Department, len(rows))
	persisted := make([]types.Row, 0, len(rows))

	for _, row := range rows {
		dept, err := domain.DepartmentFromRow(row)
		if err != nil {
			log.Debug("row %d rejected: %v", row.Number, err)
			result.AddError(rowError(row, err))
			result.IncrementFailed()
			if !opts.SkipOnError {
				return result
			}
			continue
		}

		// ParentID is linked in the second pass
		if err := imp.deps.Departments.Save(ctx, dept); err != nil {
			log.Error("save %s failed: %v", dept.Code, err)
			return failure(err)
		}

		saved[dept.Code] = dept
		persisted = append(persisted, row)
		result.IncrementImported()
		result.IncrementCount(types.CountDepartmentsCreated)
	}

	if res := imp.validator.ValidateDepartmentHierarchy(persisted); !res.Valid() {
		log.Error("hierarchy rejected: %v", res.Errors())
		hierarchyErr := types.NewImportError(types.ErrTypeHierarchy,
			"Circular dependency detected in department hierarchy", 0,
			map[string]any{"errors": res.Errors()})
		if result.ImportedCount == 0 {
			return types.Failure(hierarchyErr)
		}
		result.AddError(hierarchyErr)
		return result
	}

	for _, row := range persisted {
		child := saved[row.Get(domain.ColCode)]
		if child.IsRoot() {
			continue
		}
		parent, found := saved[child.ParentCode]
		if !found {
			continue
		}
		if err := imp.assignParent(ctx, child, parent); err != nil {
			log.Error("link %s -> %s failed: %v", child.Code, parent.Code, err)
			result.AddError(types.NewImportError(types.ErrTypeHierarchy,
				fmt.Sprintf("Failed to set parent for %s: %s", child.Code, err.Error()), 0, nil))
		}
	}

	if err := scope.commit(); err != nil {
		return failure(err)
	}

	log.Info("departments done: %d imported, %d failed", result.ImportedCount, result.FailedCount)
	return result
}

func (imp *Importer) assignParent(ctx context.Context, child, parent *domain.Department) error {
	if err := child.SetParent(parent); err != nil {
		return err
	}
	return imp.deps.Departments.Save(ctx, child)
}

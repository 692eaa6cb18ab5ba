package importer

import (
	"context"

	"github.com/koltyakov/orgimport/internal/domain"
	"github.com/koltyakov/orgimport/internal/parser"
	"github.com/koltyakov/orgimport/pkg/types"
)

// ImportEmployees validates the whole batch against itself and the persisted
// departments and positions, then saves row by row. Any relationship error
// fails the batch before a single row is written.
func (imp *Importer) ImportEmployees(ctx context.Context, content, delimiter string, opts Options) *types.ImportResult {
	rows, err := parser.Parse(content, delimiterOr(delimiter))
	return imp.importEmployeeRows(ctx, rows, err)
}

func (imp *Importer) importEmployeeRows(ctx context.Context, rows []types.Row, parseErr error) *types.ImportResult {
	log := imp.logger.WithEntity(string(domain.KindEmployees))

	if parseErr != nil {
		log.Error("parse failed: %v", parseErr)
		return failure(parseErr)
	}

	res, err := imp.validator.ValidateEmployeeRelationships(ctx, rows)
	if err != nil {
		log.Error("relationship validation failed: %v", err)
		return failure(err)
	}
	if !res.Valid() {
		msgs := res.Errors()
		log.Error("relationships rejected: %d errors", len(msgs))
		errs := make([]types.ImportError, 0, len(msgs))
		for _, m := range msgs {
			errs = append(errs, types.NewImportError(types.ErrTypeRelationship, m, 0, nil))
		}
		return types.Failure(errs...)
	}
	log.Info("importing %d employees", len(rows))

	result := types.Success(0)
	for _, row := range rows {
		emp, err := domain.EmployeeFromRow(row)
		if err != nil {
			log.Debug("row %d rejected: %v", row.Number, err)
			result.AddError(rowError(row, err))
			result.IncrementFailed()
			continue
		}
		if err := imp.saveEmployee(ctx, emp, result); err != nil {
			log.Error("save %s failed: %v", emp.TabNumber, err)
			return failure(err)
		}
		result.IncrementImported()
	}

	log.Info("employees done: %d imported, %d failed", result.ImportedCount, result.FailedCount)
	return result
}

// saveEmployee upserts and counts the employee as created or updated
func (imp *Importer) saveEmployee(ctx context.Context, emp *domain.Employee, result *types.ImportResult) error {
	existed, err := imp.deps.Employees.ExistsByTabNumber(ctx, emp.TabNumber)
	if err != nil {
		return err
	}
	if err := imp.deps.Employees.Save(ctx, emp); err != nil {
		return err
	}
	if existed {
		result.IncrementCount(types.CountEmployeesUpdated)
	} else {
		result.IncrementCount(types.CountEmployeesCreated)
	}
	return nil
}

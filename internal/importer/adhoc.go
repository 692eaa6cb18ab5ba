package importer

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/koltyakov/orgimport/internal/domain"
	"github.com/koltyakov/orgimport/internal/parser"
	"github.com/koltyakov/orgimport/pkg/types"
)

var errForced = errors.New("Invalid employee data")

// maxAdhocCode matches the code column limit of departments and positions
const maxAdhocCode = 50

// adhocCode derives the code of a department or position named in an ad hoc
// sheet. Short names are used as is. Longer names are cut and suffixed with a
// name-based hash so distinct names sharing a prefix keep distinct codes.
func adhocCode(name string) string {
	if utf8.RuneCountInString(name) <= maxAdhocCode {
		return name
	}
	suffix := uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)).String()[:8]
	prefix := []rune(name)[:maxAdhocCode-len(suffix)-1]
	return strings.TrimSpace(string(prefix)) + "-" + suffix
}

// ImportFromFile imports an ad hoc employee sheet from a local CSV or XLSX file
func (imp *Importer) ImportFromFile(ctx context.Context, path string, opts Options) *types.ImportResult {
	src, err := parser.ReadFile(path, "")
	if err != nil {
		imp.logger.Error("read %s failed: %v", path, err)
		return failure(err)
	}
	return imp.ImportFromSource(ctx, src, opts)
}

// ImportFromSource imports an ad hoc employee sheet. Departments and positions
// named in a row are created on first sight. A failed row stops the import
// unless SkipOnError is set; errors carry the spreadsheet line number.
func (imp *Importer) ImportFromSource(ctx context.Context, src *parser.Source, opts Options) *types.ImportResult {
	log := imp.logger.WithEntity(string(domain.KindAdhoc))

	rows, err := src.Parse()
	if err != nil {
		log.Error("parse %s failed: %v", src.Name, err)
		return failure(err)
	}
	log.Info("importing %d rows from %s", len(rows), src.Name)

	result := types.Success(0)
	seenDepts := map[string]bool{}
	seenPositions := map[string]bool{}

	for _, row := range rows {
		if err := imp.importAdhocRow(ctx, row, seenDepts, seenPositions, result); err != nil {
			log.Debug("line %d rejected: %v", sheetLine(row), err)
			result.AddError(types.NewImportError(types.ErrTypeImport, err.Error(), sheetLine(row), row.Data()))
			result.IncrementFailed()
			if !opts.SkipOnError {
				break
			}
			continue
		}
		result.IncrementImported()
	}

	log.Info("ad hoc import done: %d imported, %d failed", result.ImportedCount, result.FailedCount)
	return result
}

func (imp *Importer) importAdhocRow(ctx context.Context, row types.Row, seenDepts, seenPositions map[string]bool, result *types.ImportResult) error {
	deptName := row.First(domain.AdhocDepartment...)
	if deptName != "" && !seenDepts[deptName] {
		created, err := imp.ensureDepartment(ctx, deptName)
		if err != nil {
			return err
		}
		seenDepts[deptName] = true
		if created {
			result.IncrementCount(types.CountDepartmentsCreated)
		}
	}

	posName := row.First(domain.AdhocPosition...)
	if posName != "" && !seenPositions[posName] {
		created, err := imp.ensurePosition(ctx, posName, deptName)
		if err != nil {
			return err
		}
		seenPositions[posName] = true
		if created {
			result.IncrementCount(types.CountPositionsCreated)
		}
	}

	if strings.EqualFold(row.Get(domain.ColForceError), "true") {
		return errForced
	}

	emp, err := domain.EmployeeFromRow(canonicalEmployee(row, deptName, posName))
	if err != nil {
		return err
	}
	return imp.saveEmployee(ctx, emp, result)
}

// ensureDepartment creates a root department coded after its name unless it exists
func (imp *Importer) ensureDepartment(ctx context.Context, name string) (bool, error) {
	code := adhocCode(name)
	exists, err := imp.deps.Departments.ExistsByCode(ctx, code)
	if err != nil || exists {
		return false, err
	}
	dept, err := domain.DepartmentFromRow(types.NewRow(0,
		[]string{domain.ColCode, domain.ColName},
		[]string{code, name}))
	if err != nil {
		return false, err
	}
	if err := imp.deps.Departments.Save(ctx, dept); err != nil {
		return false, err
	}
	return true, nil
}

// ensurePosition creates a position coded after its name unless it exists
func (imp *Importer) ensurePosition(ctx context.Context, name, deptName string) (bool, error) {
	code := adhocCode(name)
	exists, err := imp.deps.Positions.ExistsByCode(ctx, code)
	if err != nil || exists {
		return false, err
	}
	pos, err := domain.PositionFromRow(types.NewRow(0,
		[]string{domain.ColCode, domain.ColName, domain.ColDepartmentCode},
		[]string{code, name, adhocCode(deptName)}))
	if err != nil {
		return false, err
	}
	if err := imp.deps.Positions.Save(ctx, pos); err != nil {
		return false, err
	}
	return true, nil
}

// canonicalEmployee rewrites an ad hoc row onto the employee import columns
func canonicalEmployee(row types.Row, deptName, posName string) types.Row {
	return types.NewRow(row.Number,
		[]string{
			domain.ColTabNumber, domain.ColFullName, domain.ColDepartmentID, domain.ColPositionID,
			domain.ColManagerID, domain.ColEmail, domain.ColPhone,
		},
		[]string{
			row.First(domain.AdhocTabNumber...),
			row.First(domain.AdhocFullName...),
			adhocCode(deptName),
			adhocCode(posName),
			row.First(domain.AdhocManager...),
			row.First(domain.AdhocEmail...),
			row.First(domain.AdhocPhone...),
		})
}

// sheetLine is the 1-based line of the row in the source, header included
func sheetLine(row types.Row) int {
	return row.Number + 1
}

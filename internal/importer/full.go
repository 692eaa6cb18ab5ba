package importer

import (
	"context"

	"github.com/koltyakov/orgimport/internal/parser"
	"github.com/koltyakov/orgimport/pkg/types"
)

// Detail keys stamped on a full-structure result
const (
	DetailDepartments = "departments"
	DetailPositions   = "positions"
	DetailEmployees   = "employees"
)

// ImportFullOrgStructure imports departments, positions and employees in that
// order. The three inputs are parsed concurrently; persistence stays serial.
// A departments or positions result that is neither success nor partial
// success is returned as is and stops the run.
func (imp *Importer) ImportFullOrgStructure(ctx context.Context, deptCSV, posCSV, empCSV string, opts Options) *types.ImportResult {
	parsed := parser.ParseEach(ctx,
		parser.Input{Name: DetailDepartments, Content: deptCSV, Delimiter: delimiterOr(opts.DepartmentDelimiter)},
		parser.Input{Name: DetailPositions, Content: posCSV, Delimiter: delimiterOr(opts.PositionDelimiter)},
		parser.Input{Name: DetailEmployees, Content: empCSV, Delimiter: delimiterOr(opts.EmployeeDelimiter)},
	)

	depts := imp.importDepartmentRows(ctx, parsed[0].Rows, parsed[0].Err, opts)
	if !canProceed(depts) {
		imp.logger.Warn("departments import failed, stopping")
		return depts
	}

	positions := imp.importPositionRows(ctx, parsed[1].Rows, parsed[1].Err)
	if !canProceed(positions) {
		imp.logger.Warn("positions import failed, stopping")
		positions.Details[DetailDepartments] = depts.ImportedCount
		return positions
	}

	employees := imp.importEmployeeRows(ctx, parsed[2].Rows, parsed[2].Err)

	result := depts.Merge(positions).Merge(employees)
	result.SetDetails(map[string]any{
		DetailDepartments: depts.ImportedCount,
		DetailPositions:   positions.ImportedCount,
		DetailEmployees:   employees.ImportedCount,
	})
	return result
}

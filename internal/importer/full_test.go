package importer

import (
	"context"
	"testing"

	testutil "github.com/koltyakov/orgimport/pkg/test"
	"github.com/koltyakov/orgimport/pkg/types"
)

const positionsWithMalformedRow = "code,name,category\n" +
	"DEV,Developer,engineering\n" +
	"QA,,engineering\n"

func TestImportFullOrgStructure(t *testing.T) {
	imp, store := memoryImporter(t)

	result := imp.ImportFullOrgStructure(context.Background(),
		testutil.DepartmentsCSV, testutil.PositionsCSV, testutil.EmployeesCSV,
		Options{UseTransaction: true})

	testutil.AssertEqual(t, types.StatusSuccess, result.Status())
	testutil.AssertEqual(t, 8, result.ImportedCount)
	testutil.AssertEqual(t, 3, result.Count(types.CountDepartmentsCreated))
	testutil.AssertEqual(t, 2, result.Count(types.CountPositionsCreated))
	testutil.AssertEqual(t, 3, result.Count(types.CountEmployeesCreated))
	testutil.AssertEqual(t, 3, result.Details[DetailDepartments])
	testutil.AssertEqual(t, 2, result.Details[DetailPositions])
	testutil.AssertEqual(t, 3, result.Details[DetailEmployees])
	testutil.AssertEqual(t, 3, len(store.TabNumbers()))
}

func TestImportFullOrgStructure_MalformedPosition(t *testing.T) {
	t.Run("employees not referencing it import normally", func(t *testing.T) {
		imp, _ := memoryImporter(t)
		employees := "tab_number,full_name,department_id,position_id\n" +
			"E1,Ivanov Ivan,IT,DEV\n" +
			"E2,Petrov Petr,DEV,DEV\n"

		result := imp.ImportFullOrgStructure(context.Background(),
			testutil.DepartmentsCSV, positionsWithMalformedRow, employees, Options{})

		testutil.AssertEqual(t, types.StatusPartial, result.Status())
		testutil.AssertEqual(t, 3, result.Details[DetailDepartments])
		testutil.AssertEqual(t, 1, result.Details[DetailPositions])
		testutil.AssertEqual(t, 2, result.Details[DetailEmployees])
		testutil.AssertEqual(t, 1, result.FailedCount)
		testutil.AssertEqual(t, 2, result.Errors[0].RowNumber)
	})

	t.Run("employee referencing it surfaces position not found", func(t *testing.T) {
		imp, store := memoryImporter(t)
		employees := "tab_number,full_name,department_id,position_id\n" +
			"E1,Ivanov Ivan,IT,DEV\n" +
			"E3,Sidorova Maria,QA,QA\n"

		result := imp.ImportFullOrgStructure(context.Background(),
			testutil.DepartmentsCSV, positionsWithMalformedRow, employees, Options{})

		testutil.AssertEqual(t, types.StatusPartial, result.Status())
		testutil.AssertEqual(t, 0, result.Details[DetailEmployees])
		testutil.AssertEqual(t, 0, len(store.TabNumbers()))

		last := result.Errors[len(result.Errors)-1]
		testutil.AssertEqual(t, "Position QA not found for employee E3", last.Message)
	})
}

func TestImportFullOrgStructure_ShortCircuit(t *testing.T) {
	t.Run("departments failure stops the run", func(t *testing.T) {
		imp, m := mockImporter(t)

		result := imp.ImportFullOrgStructure(context.Background(),
			"", testutil.PositionsCSV, testutil.EmployeesCSV, Options{})

		testutil.AssertEqual(t, types.StatusFailure, result.Status())
		testutil.AssertEqual(t, 0, m.positions.SaveCalls)
		testutil.AssertEqual(t, 0, m.employees.SaveCalls)
		if _, ok := result.Details[DetailDepartments]; ok {
			t.Error("departments detail should not be stamped")
		}
	})

	t.Run("positions failure stamps departments count", func(t *testing.T) {
		imp, m := mockImporter(t)

		result := imp.ImportFullOrgStructure(context.Background(),
			testutil.DepartmentsCSV, "code,name\nDEV,\n", testutil.EmployeesCSV, Options{})

		testutil.AssertEqual(t, types.StatusFailure, result.Status())
		testutil.AssertEqual(t, 3, result.Details[DetailDepartments])
		testutil.AssertEqual(t, 0, m.employees.SaveCalls)
	})

	t.Run("partial departments proceed", func(t *testing.T) {
		imp, store := memoryImporter(t)

		result := imp.ImportFullOrgStructure(context.Background(),
			badSecondDepartment, "code,name\nDEV,Developer\n", "tab_number,full_name,department_id,position_id\nE1,A,IT,DEV\n",
			Options{})

		testutil.AssertEqual(t, types.StatusPartial, result.Status())
		testutil.AssertEqual(t, 1, result.Details[DetailDepartments])
		testutil.AssertEqual(t, 1, len(store.TabNumbers()))
	})
}

func TestImportFullOrgStructure_Delimiters(t *testing.T) {
	imp, _ := memoryImporter(t)

	result := imp.ImportFullOrgStructure(context.Background(),
		"code;name\nIT;IT\n",
		"code\tname\nDEV\tDeveloper\n",
		"tab_number,full_name,department_id,position_id\nE1,A,IT,DEV\n",
		Options{DepartmentDelimiter: ";", PositionDelimiter: "\t"})

	testutil.AssertEqual(t, types.StatusSuccess, result.Status())
	testutil.AssertEqual(t, 3, result.ImportedCount)
}

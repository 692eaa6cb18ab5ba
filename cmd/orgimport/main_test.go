package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/koltyakov/orgimport/internal/journal"
	"github.com/koltyakov/orgimport/internal/parser"
	testutil "github.com/koltyakov/orgimport/pkg/test"
	"github.com/koltyakov/orgimport/pkg/types"
)

func execute(t *testing.T, args ...string) error {
	t.Helper()
	cmd := newRootCmd()
	cmd.SetArgs(args)
	return cmd.Execute()
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, exitOK},
		{"plain error", errors.New("boom"), exitUnexpected},
		{"usage", withCode(exitUsage, errors.New("bad flag")), exitUsage},
		{"wrapped db", errors.Join(errors.New("ctx"), withCode(exitDB, errors.New("down"))), exitDB},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCode(tt.err); got != tt.want {
				t.Errorf("exitCode() = %d, want %d", got, tt.want)
			}
		})
	}

	if withCode(exitImport, nil) != nil {
		t.Error("withCode(nil) should return nil")
	}
}

func TestFullDryRun(t *testing.T) {
	dir := t.TempDir()
	journalFile := filepath.Join(dir, "journal.json")
	reportFile := filepath.Join(dir, "out", "report.csv")

	err := execute(t, "full", "--dry-run",
		"--departments", testutil.WriteFile(t, "departments.csv", testutil.DepartmentsCSV),
		"--positions", testutil.WriteFile(t, "positions.csv", testutil.PositionsCSV),
		"--employees", testutil.WriteFile(t, "employees.csv", testutil.EmployeesCSV),
		"--journal-file", journalFile,
		"--report-file", reportFile,
		"--report-format", "csv",
	)
	testutil.AssertNoError(t, err)

	if _, err := os.Stat(reportFile); err != nil {
		t.Errorf("report not written: %v", err)
	}

	j, err := journal.Load(journalFile)
	testutil.AssertNoError(t, err)
	entries := j.Entries()
	if len(entries) != 1 {
		t.Fatalf("journal entries = %d, want 1", len(entries))
	}
	testutil.AssertEqual(t, "full", entries[0].Kind)
	testutil.AssertEqual(t, types.StatusSuccess, entries[0].Status)
	testutil.AssertEqual(t, 8, entries[0].Imported)
	testutil.AssertEqual(t, true, entries[0].DryRun)
}

func TestDepartmentsCycleExitCode(t *testing.T) {
	dir := t.TempDir()
	input := testutil.WriteFile(t, "departments.csv", "code,name,parent_code\nA,Alpha,B\nB,Beta,A\n")

	err := execute(t, "departments", "--dry-run",
		"--file", input,
		"--journal-file", filepath.Join(dir, "journal.json"),
	)
	if got := exitCode(err); got != exitImport {
		t.Fatalf("exitCode() = %d, want %d (err = %v)", got, exitImport, err)
	}

	j, err := journal.Load(filepath.Join(dir, "journal.json"))
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, 1, j.Len())
	// rows were saved before the cycle was found, so the rolled back run still counts them
	testutil.AssertEqual(t, types.StatusPartial, j.Entries()[0].Status)
}

func TestMissingInputIsUsageError(t *testing.T) {
	cfg := testutil.NewTestConfig(t)
	err := execute(t, "positions", "--dry-run",
		"--file", filepath.Join(t.TempDir(), "missing.csv"),
		"--journal-file", cfg.JournalFile,
	)
	testutil.AssertError(t, err)
	if got := exitCode(err); got != exitUsage {
		t.Errorf("exitCode() = %d, want %d (err = %v)", got, exitUsage, err)
	}
}

func TestValidateCommand(t *testing.T) {
	cfg := testutil.NewTestConfig(t)

	t.Run("dry run needs no database settings", func(t *testing.T) {
		testutil.AssertNoError(t, execute(t, "validate", "--dry-run", "--test-connection",
			"--report-file", cfg.ReportFile, "--journal-file", cfg.JournalFile))
	})

	t.Run("bad report format", func(t *testing.T) {
		err := execute(t, "validate", "--dry-run", "--report-format", "pdf")
		testutil.AssertEqual(t, exitUsage, exitCode(err))
	})
}

func TestTemplateCommand(t *testing.T) {
	out := filepath.Join(t.TempDir(), "employees.csv")

	testutil.AssertNoError(t, execute(t, "template", "--kind", "employees", "--format", "csv", "--out", out))

	rows, err := parser.ParseFile(out, "")
	testutil.AssertNoError(t, err)
	if len(rows) == 0 {
		t.Error("template has no example rows")
	}

	err = execute(t, "template", "--kind", "projects", "--out", out)
	testutil.AssertEqual(t, exitUsage, exitCode(err))
}

func TestCheckCommand(t *testing.T) {
	t.Run("valid file", func(t *testing.T) {
		input := testutil.WriteFile(t, "adhoc.csv", testutil.AdhocCSV)
		testutil.AssertNoError(t, execute(t, "check", "--file", input))
	})

	t.Run("invalid rows", func(t *testing.T) {
		input := testutil.WriteFile(t, "employees.csv",
			"tab_number,full_name,department_id,position_id,email\nE1,,IT,DEV,bad\n")
		err := execute(t, "check", "--file", input, "--kind", "employees")
		testutil.AssertEqual(t, exitImport, exitCode(err))
	})

	t.Run("unknown kind", func(t *testing.T) {
		input := testutil.WriteFile(t, "adhoc.csv", testutil.AdhocCSV)
		err := execute(t, "check", "--file", input, "--kind", "projects")
		testutil.AssertEqual(t, exitUsage, exitCode(err))
	})
}

package testutil

import (
	"os"
	"path/filepath"
	"time"

	"github.com/koltyakov/orgimport/internal/config"
	"github.com/koltyakov/orgimport/pkg/types"
)

// Sample inputs shared by package tests
const (
	DepartmentsCSV = "code,name,parent_code\n" +
		"IT,Information Technology,\n" +
		"DEV,Development,IT\n" +
		"QA,Quality Assurance,IT\n"

	PositionsCSV = "code,name,category\n" +
		"DEV,Developer,engineering\n" +
		"QA,Tester,engineering\n"

	EmployeesCSV = "tab_number,full_name,department_id,position_id,manager_id,email\n" +
		"E1,Ivanov Ivan,IT,DEV,,ivanov@example.com\n" +
		"E2,Petrov Petr,DEV,DEV,E1,petrov@example.com\n" +
		"E3,Sidorova Maria,QA,QA,E1,\n"

	AdhocCSV = "ФИО,Таб.номер,Email,Телефон,Подразделение,Должность,Руководитель\n" +
		"Иванов Иван Иванович,EMP001,ivanov@company.ru,+7-123-456-7890,Отдел разработки,Старший разработчик,\n" +
		"Петров Петр Петрович,EMP002,petrov@company.ru,+7-123-456-7891,Отдел разработки,Разработчик,EMP001\n" +
		"Сидорова Мария Ивановна,EMP003,sidorova@company.ru,+7-123-456-7892,Отдел тестирования,Тестировщик,\n"
)

// TB is the interface shared by testing.T and testing.B
type TB interface {
	TempDir() string
	Cleanup(func())
	Errorf(format string, args ...interface{})
	Fatal(args ...interface{})
	Fatalf(format string, args ...interface{})
	Helper()
}

// NewTestConfig returns a dry-run configuration writing into a temporary directory
func NewTestConfig(t TB) *config.Config {
	t.Helper()
	tmpDir := t.TempDir()

	return &config.Config{
		DBUser:         "test_user",
		DBPassword:     "test_password",
		DBHost:         "localhost",
		DBPort:         1521,
		DBService:      "TEST",
		Delimiter:      config.DelimiterAuto,
		UseTransaction: true,
		DryRun:         true,
		Verbose:        true,
		ReportFile:     filepath.Join(tmpDir, "reports", "report.json"),
		ReportFormat:   config.ReportFormatJSON,
		JournalFile:    filepath.Join(tmpDir, "journal.json"),
		ConnectTimeout: 30 * time.Second,
		ImportTimeout:  5 * time.Minute,
	}
}

// WriteFile writes content into a file under a fresh temporary directory and returns its path
func WriteFile(t TB, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

// Rows builds numbered rows from a header list and cell lists
func Rows(headers []string, cells ...[]string) []types.Row {
	rows := make([]types.Row, 0, len(cells))
	for i, c := range cells {
		rows = append(rows, types.NewRow(i+1, headers, c))
	}
	return rows
}

// AssertNoError fails the test if err is not nil
func AssertNoError(t TB, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil
func AssertError(t TB, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// AssertEqual fails the test if want != got
func AssertEqual[T comparable](t TB, want, got T) {
	t.Helper()
	if want != got {
		t.Errorf("got %v, want %v", got, want)
	}
}

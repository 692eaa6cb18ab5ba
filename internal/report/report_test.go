package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/koltyakov/orgimport/internal/domain"
	"github.com/koltyakov/orgimport/internal/parser"
	apperrors "github.com/koltyakov/orgimport/pkg/errors"
	"github.com/koltyakov/orgimport/pkg/types"
)

func sampleReport() types.Report {
	r := types.NewImportResult()
	r.IncrementImported()
	r.IncrementCount(types.CountDepartmentsCreated)
	r.AddError(types.NewImportError(types.ErrTypeConstruction, "Department name cannot be empty", 2,
		map[string]any{"code": "HR", "name": ""}))
	r.IncrementFailed()
	r.AddError(types.NewImportError(types.ErrTypeHierarchy, "Circular dependency detected in department hierarchy", 0,
		map[string]any{"errors": []string{"Circular dependency detected for department A"}}))
	return r.Report()
}

func TestWrite_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")

	if err := Write(path, FormatJSON, sampleReport()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if got["status"] != string(types.StatusPartial) {
		t.Errorf("status = %v, want %v", got["status"], types.StatusPartial)
	}
	if got["departmentsCreated"] != float64(1) {
		t.Errorf("departmentsCreated = %v, want 1", got["departmentsCreated"])
	}
	if errs, _ := got["errors"].([]any); len(errs) != 2 {
		t.Errorf("errors = %v, want 2 entries", got["errors"])
	}
}

func TestWrite_CSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.csv")

	if err := Write(path, FormatCSV, sampleReport()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.HasPrefix(string(raw), utf8BOM) {
		t.Error("CSV report should start with a BOM")
	}

	rows, err := parser.Parse(string(raw), ",")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0].Get("row") != "2" || rows[0].Get("data") != "code=HR; name=" {
		t.Errorf("first row = %v", rows[0].Map())
	}
	if rows[1].Get("data") != "errors=Circular dependency detected for department A" {
		t.Errorf("second row data = %q", rows[1].Get("data"))
	}
}

func TestWrite_XLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")

	if err := Write(path, FormatXLSX, sampleReport()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile() error = %v", err)
	}
	defer f.Close()

	summary, err := f.GetRows(summarySheet)
	if err != nil {
		t.Fatalf("GetRows(%s) error = %v", summarySheet, err)
	}
	if summary[0][0] != "Status" || summary[0][1] != string(types.StatusPartial) {
		t.Errorf("summary first row = %v", summary[0])
	}

	errs, err := f.GetRows(errorsSheet)
	if err != nil {
		t.Fatalf("GetRows(%s) error = %v", errorsSheet, err)
	}
	if len(errs) != 3 {
		t.Fatalf("got %d error rows, want 3 (header + 2)", len(errs))
	}
	if errs[1][2] != "Department name cannot be empty" {
		t.Errorf("error message cell = %q", errs[1][2])
	}
}

func TestWrite_UnknownFormat(t *testing.T) {
	err := Write(filepath.Join(t.TempDir(), "r.txt"), "yaml", sampleReport())
	if !apperrors.IsType(err, apperrors.ErrorTypeConfig) {
		t.Errorf("Write() error = %v, want config error", err)
	}
}

func TestFormatData(t *testing.T) {
	tests := []struct {
		name string
		data map[string]any
		want string
	}{
		{name: "nil", data: nil, want: ""},
		{name: "sorted keys", data: map[string]any{"name": "IT", "code": "IT"}, want: "code=IT; name=IT"},
		{name: "string list", data: map[string]any{"errors": []string{"a", "b"}}, want: "errors=a | b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatData(tt.data); got != tt.want {
				t.Errorf("FormatData() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWriteTemplate(t *testing.T) {
	kinds := []domain.Kind{domain.KindDepartments, domain.KindPositions, domain.KindEmployees, domain.KindAdhoc}

	for _, kind := range kinds {
		for _, format := range []string{FormatCSV, FormatXLSX} {
			t.Run(string(kind)+"/"+format, func(t *testing.T) {
				path := filepath.Join(t.TempDir(), "template."+format)
				if err := WriteTemplate(path, kind, format); err != nil {
					t.Fatalf("WriteTemplate() error = %v", err)
				}

				rows, err := parser.ParseFile(path, "")
				if err != nil {
					t.Fatalf("ParseFile() error = %v", err)
				}
				tpl, _ := TemplateFor(kind)
				if len(rows) != len(tpl.Examples) {
					t.Errorf("got %d rows, want %d", len(rows), len(tpl.Examples))
				}
				for _, h := range domain.RequiredHeaders(kind) {
					if !rows[0].Has(h) {
						t.Errorf("template lacks required column %q", h)
					}
				}
			})
		}
	}
}

func TestTemplateExamplesAreValid(t *testing.T) {
	tpl, _ := TemplateFor(domain.KindEmployees)
	for i, ex := range tpl.Examples {
		row := types.NewRow(i+1, tpl.Headers, ex)
		if _, err := domain.EmployeeFromRow(row); err != nil {
			t.Errorf("example %d: %v", i+1, err)
		}
	}
}

func TestTemplateFor_Unknown(t *testing.T) {
	if _, err := TemplateFor("contracts"); err == nil {
		t.Error("TemplateFor() expected error for unknown kind")
	}
}

package report

import (
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/koltyakov/orgimport/internal/domain"
	apperrors "github.com/koltyakov/orgimport/pkg/errors"
)

// Template is a header row with example rows for one import kind
type Template struct {
	Kind     domain.Kind
	Headers  []string
	Examples [][]string
}

// TemplateFor returns the import template of a kind
func TemplateFor(kind domain.Kind) (Template, error) {
	switch kind {
	case domain.KindDepartments:
		return Template{
			Kind:    kind,
			Headers: []string{domain.ColCode, domain.ColName, domain.ColParentCode},
			Examples: [][]string{
				{"IT", "Information Technology", ""},
				{"DEV", "Development", "IT"},
				{"QA", "Quality Assurance", "IT"},
			},
		}, nil
	case domain.KindPositions:
		return Template{
			Kind:    kind,
			Headers: []string{domain.ColCode, domain.ColName, domain.ColCategory, domain.ColDepartmentCode},
			Examples: [][]string{
				{"SE", "Senior Developer", "engineering", "DEV"},
				{"QE", "QA Engineer", "engineering", "QA"},
			},
		}, nil
	case domain.KindEmployees:
		return Template{
			Kind: kind,
			Headers: []string{
				domain.ColTabNumber, domain.ColFullName, domain.ColDepartmentID, domain.ColPositionID,
				domain.ColManagerID, domain.ColEmail, domain.ColPhone,
			},
			Examples: [][]string{
				{"EMP001", "Ivanov Ivan", "DEV", "SE", "", "ivanov@company.ru", "+7-123-456-7890"},
				{"EMP002", "Petrov Petr", "DEV", "SE", "EMP001", "petrov@company.ru", "+7-123-456-7891"},
			},
		}, nil
	case domain.KindAdhoc:
		return Template{
			Kind: kind,
			Headers: []string{
				domain.AdhocFullName[0], domain.AdhocTabNumber[0], domain.AdhocEmail[0], domain.AdhocPhone[0],
				domain.AdhocDepartment[0], domain.AdhocPosition[0], domain.AdhocManager[0],
			},
			Examples: [][]string{
				{"Иванов Иван Иванович", "EMP001", "ivanov@company.ru", "+7-123-456-7890", "Отдел разработки", "Старший разработчик", ""},
				{"Петров Петр Петрович", "EMP002", "petrov@company.ru", "+7-123-456-7891", "Отдел разработки", "Разработчик", "EMP001"},
				{"Сидорова Мария Ивановна", "EMP003", "sidorova@company.ru", "+7-123-456-7892", "Отдел тестирования", "Тестировщик", ""},
			},
		}, nil
	}
	return Template{}, apperrors.NewInputError("report.TemplateFor", "unknown import kind: "+string(kind), nil)
}

// WriteTemplate writes the template of a kind as CSV (with BOM) or XLSX
func WriteTemplate(path string, kind domain.Kind, format string) error {
	tpl, err := TemplateFor(kind)
	if err != nil {
		return err
	}

	switch strings.ToLower(format) {
	case FormatCSV, "":
		err = tpl.writeCSV(path)
	case FormatXLSX:
		err = tpl.writeXLSX(path)
	default:
		return apperrors.NewConfigError("report.WriteTemplate", "unsupported template format: "+format, nil)
	}
	if err != nil {
		return apperrors.NewIOError("report.WriteTemplate", "failed to write template "+path, err)
	}
	return nil
}

func (t Template) writeCSV(path string) error {
	w, err := NewCSVWriter(path, true)
	if err != nil {
		return err
	}
	if err := w.WriteHeaders(t.Headers); err != nil {
		w.Close()
		return err
	}
	for _, ex := range t.Examples {
		if err := w.WriteRow(toValues(ex)); err != nil {
			w.Close()
			return err
		}
	}
	return w.Close()
}

func (t Template) writeXLSX(path string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := string(t.Kind)
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return err
	}
	rows := [][]interface{}{toValues(t.Headers)}
	for _, ex := range t.Examples {
		rows = append(rows, toValues(ex))
	}
	if err := writeRows(f, sheet, rows); err != nil {
		return err
	}
	if err := boldHeader(f, sheet, len(t.Headers)); err != nil {
		return err
	}
	return f.SaveAs(path)
}

func toValues(cells []string) []interface{} {
	out := make([]interface{}, len(cells))
	for i, c := range cells {
		out[i] = c
	}
	return out
}

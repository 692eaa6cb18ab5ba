package report

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	apperrors "github.com/koltyakov/orgimport/pkg/errors"
	"github.com/koltyakov/orgimport/pkg/types"
)

// Formats accepted by Write
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// errorColumns head the error table of CSV and XLSX reports
var errorColumns = []string{"row", "type", "message", "data"}

// Write renders the report to path in the given format
func Write(path, format string, rep types.Report) error {
	var err error
	switch strings.ToLower(format) {
	case FormatJSON, "":
		err = writeJSON(path, rep)
	case FormatCSV:
		err = writeCSV(path, rep)
	case FormatXLSX:
		err = writeXLSX(path, rep)
	default:
		return apperrors.NewConfigError("report.Write", "unsupported report format: "+format, nil)
	}
	if err != nil {
		return apperrors.NewIOError("report.Write", "failed to write report "+path, err)
	}
	return nil
}

func writeJSON(path string, rep types.Report) error {
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}

// writeCSV writes the error table only, one line per error
func writeCSV(path string, rep types.Report) error {
	w, err := NewCSVWriter(path, true)
	if err != nil {
		return err
	}
	if err := w.WriteHeaders(errorColumns); err != nil {
		w.Close()
		return err
	}
	for _, e := range rep.Errors {
		if err := w.WriteRow(errorCells(e)); err != nil {
			w.Close()
			return err
		}
	}
	return w.Close()
}

func errorCells(e types.ImportError) []interface{} {
	return []interface{}{e.RowNumber, e.Type, e.Message, FormatData(e.RowData)}
}

// FormatData flattens row data into "key=value; ..." ordered by key
func FormatData(data map[string]any) string {
	if len(data) == 0 {
		return ""
	}
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		v := data[k]
		if list, ok := v.([]string); ok {
			v = strings.Join(list, " | ")
		}
		parts = append(parts, fmt.Sprintf("%s=%v", k, v))
	}
	return strings.Join(parts, "; ")
}

// summaryRows lists the aggregate counters as label/value pairs
func summaryRows(rep types.Report) [][2]interface{} {
	return [][2]interface{}{
		{"Status", string(rep.Status)},
		{"Total processed", rep.TotalProcessed},
		{"Successful", rep.Successful},
		{"Failed", rep.Failed},
		{"Departments created", rep.DepartmentsCreated},
		{"Positions created", rep.PositionsCreated},
		{"Employees created", rep.EmployeesCreated},
		{"Employees updated", rep.EmployeesUpdated},
	}
}

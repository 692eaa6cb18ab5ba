package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

const utf8BOM = "\uFEFF"

// CSVWriter writes RFC 4180 rows to a file
type CSVWriter struct {
	writer *csv.Writer
	file   *os.File
}

// NewCSVWriter creates a new CSVWriter for the given file path.
// With bom set the file starts with a UTF-8 byte order mark so that
// spreadsheet applications pick the right encoding.
func NewCSVWriter(filePath string, bom bool) (*CSVWriter, error) {
	file, err := os.Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	if bom {
		if _, err := file.WriteString(utf8BOM); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(file)
	writer.UseCRLF = false

	return &CSVWriter{
		writer: writer,
		file:   file,
	}, nil
}

// WriteHeaders writes the CSV header row
func (w *CSVWriter) WriteHeaders(columns []string) error {
	if err := w.writer.Write(columns); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	return nil
}

// WriteRow writes a single data row
func (w *CSVWriter) WriteRow(values []interface{}) error {
	strValues := make([]string, len(values))
	for i, v := range values {
		strValues[i] = formatValue(v)
	}

	if err := w.writer.Write(strValues); err != nil {
		return fmt.Errorf("failed to write row: %w", err)
	}
	return nil
}

// formatValue converts any value to its CSV cell; nil becomes ""
func formatValue(v interface{}) string {
	if v == nil {
		return ""
	}

	switch val := v.(type) {
	case string:
		return val
	case int:
		return strconv.Itoa(val)
	case bool:
		return strconv.FormatBool(val)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprintf("%v", val)
	}
}

// Close flushes and closes the file
func (w *CSVWriter) Close() error {
	w.writer.Flush()
	if err := w.writer.Error(); err != nil {
		w.file.Close()
		return err
	}
	return w.file.Close()
}

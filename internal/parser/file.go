package parser

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/xuri/excelize/v2"

	apperrors "github.com/koltyakov/orgimport/pkg/errors"
	"github.com/koltyakov/orgimport/pkg/types"
)

// Format is the detected container of an input file
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Source is an input file normalized to UTF-8 delimited text
type Source struct {
	Name      string
	Content   string
	Delimiter string
	Encoding  Encoding
	Format    Format
	MIME      string
}

// Parse parses the source content with its resolved delimiter
func (s *Source) Parse() ([]types.Row, error) {
	return Parse(s.Content, s.Delimiter)
}

// ReadFile loads a local file. A delimiter of "" or "auto" triggers detection.
func ReadFile(path, delimiter string) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewIOError("parser.ReadFile", fmt.Sprintf("cannot read %s", path), err)
	}
	return ReadBytes(filepath.Base(path), data, delimiter)
}

// ReadBytes normalizes raw file content: XLSX workbooks are flattened from their
// first sheet, text is transcoded to UTF-8.
func ReadBytes(name string, data []byte, delimiter string) (*Source, error) {
	const op = "parser.ReadBytes"

	if len(data) == 0 {
		return nil, apperrors.NewInputError(op, fmt.Sprintf("%s is empty", name), ErrEmptyContent)
	}

	mt := mimetype.Detect(data)
	src := &Source{Name: name, MIME: mt.String()}

	switch {
	case isXLSX(mt, name):
		content, err := workbookToCSV(data)
		if err != nil {
			return nil, err
		}
		src.Format = FormatXLSX
		src.Encoding = EncodingUTF8
		src.Content = content
		src.Delimiter = DefaultDelimiter
		return src, nil
	case isText(mt):
		content, enc, err := NormalizeEncoding(data)
		if err != nil {
			return nil, err
		}
		src.Format = FormatCSV
		src.Encoding = enc
		src.Content = content
		src.Delimiter = resolveDelimiter(content, delimiter)
		return src, nil
	default:
		return nil, apperrors.NewInputError(op, fmt.Sprintf("unsupported file type %s for %s", mt.String(), name), nil)
	}
}

// ParseFile reads and parses a local file
func ParseFile(path, delimiter string) ([]types.Row, error) {
	src, err := ReadFile(path, delimiter)
	if err != nil {
		return nil, err
	}
	return src.Parse()
}

func resolveDelimiter(content, delimiter string) string {
	if delimiter == "" || delimiter == "auto" {
		return DetectDelimiter(content)
	}
	return delimiter
}

func isXLSX(mt *mimetype.MIME, name string) bool {
	if mt.Is(xlsxMIME) {
		return true
	}
	return mt.Is("application/zip") && strings.EqualFold(filepath.Ext(name), ".xlsx")
}

func isText(mt *mimetype.MIME) bool {
	for m := mt; m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return true
		}
	}
	return false
}

// workbookToCSV renders the first sheet of a workbook as comma-delimited text
func workbookToCSV(data []byte) (string, error) {
	const op = "parser.workbookToCSV"

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return "", apperrors.NewInputError(op, "cannot open workbook", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", apperrors.NewInputError(op, "workbook has no sheets", ErrEmptyContent)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return "", apperrors.NewInputError(op, fmt.Sprintf("cannot read sheet %s", sheets[0]), err)
	}
	if len(rows) == 0 {
		return "", apperrors.NewInputError(op, fmt.Sprintf("sheet %s is empty", sheets[0]), ErrEmptyContent)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return "", apperrors.NewInputError(op, "cannot render sheet", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", apperrors.NewInputError(op, "cannot render sheet", err)
	}

	return buf.String(), nil
}

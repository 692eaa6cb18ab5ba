package parser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"strings"

	apperrors "github.com/koltyakov/orgimport/pkg/errors"
	"github.com/koltyakov/orgimport/pkg/types"
)

// Sentinel causes of malformed input; match with errors.Is
var (
	ErrEmptyContent   = errors.New("empty content")
	ErrMissingHeaders = errors.New("missing headers")
)

// DefaultDelimiter is used when no delimiter is given or detection finds nothing
const DefaultDelimiter = ","

const utf8BOM = "\uFEFF"

// Parse splits delimited text into rows keyed by the header line.
// Blank lines after the header are dropped; a blank first line is rejected.
func Parse(content, delimiter string) ([]types.Row, error) {
	const op = "parser.Parse"

	if content == "" {
		return nil, apperrors.NewInputError(op, "CSV content is empty", ErrEmptyContent)
	}

	content = normalizeNewlines(strings.TrimPrefix(content, utf8BOM))
	lines := strings.Split(content, "\n")
	if strings.TrimSpace(lines[0]) == "" {
		return nil, apperrors.NewInputError(op, "CSV headers are missing", ErrMissingHeaders)
	}

	lines = dropBlank(lines)

	comma := delimiterRune(delimiter)
	headers, err := parseLine(lines[0], comma)
	if err != nil {
		return nil, apperrors.NewInputError(op, "cannot parse header line", err)
	}
	allEmpty := true
	for i := range headers {
		headers[i] = strings.TrimSpace(headers[i])
		if headers[i] != "" {
			allEmpty = false
		}
	}
	if allEmpty {
		return nil, apperrors.NewInputError(op, "CSV headers are missing", ErrMissingHeaders)
	}

	rows := make([]types.Row, 0, len(lines)-1)
	for i, line := range lines[1:] {
		cells, err := parseLine(line, comma)
		if err != nil {
			return nil, apperrors.NewInputError(op, fmt.Sprintf("cannot parse data line %d", i+1), err)
		}
		rows = append(rows, types.NewRow(i+1, headers, cells))
	}

	return rows, nil
}

// Headers returns the trimmed header cells of the content
func Headers(content, delimiter string) ([]string, error) {
	return parseHeaderOnly(content, delimiter)
}

// DetectDelimiter returns the most frequent of ',', ';' and tab, preferring ',' on ties
func DetectDelimiter(content string) string {
	counts := map[string]int{
		",":  strings.Count(content, ","),
		";":  strings.Count(content, ";"),
		"\t": strings.Count(content, "\t"),
	}

	best := DefaultDelimiter
	for _, d := range []string{";", "\t"} {
		if counts[d] > counts[best] {
			best = d
		}
	}
	return best
}

// ValidateHeaders reports whether every required header is present.
// Unparseable content yields false.
func ValidateHeaders(content string, required []string) bool {
	missing, err := MissingHeaders(content, DefaultDelimiter, required)
	return err == nil && len(missing) == 0
}

// MissingHeaders lists the required headers absent from the header line
func MissingHeaders(content, delimiter string, required []string) ([]string, error) {
	headers, err := parseHeaderOnly(content, delimiter)
	if err != nil {
		return nil, err
	}

	present := make(map[string]struct{}, len(headers))
	for _, h := range headers {
		present[h] = struct{}{}
	}

	var missing []string
	for _, r := range required {
		if _, ok := present[r]; !ok {
			missing = append(missing, r)
		}
	}
	return missing, nil
}

func parseHeaderOnly(content, delimiter string) ([]string, error) {
	if content == "" {
		return nil, apperrors.NewInputError("parser.Headers", "CSV content is empty", ErrEmptyContent)
	}
	first, _, _ := strings.Cut(normalizeNewlines(strings.TrimPrefix(content, utf8BOM)), "\n")
	if strings.TrimSpace(first) == "" {
		return nil, apperrors.NewInputError("parser.Headers", "CSV headers are missing", ErrMissingHeaders)
	}
	headers, err := parseLine(first, delimiterRune(delimiter))
	if err != nil {
		return nil, apperrors.NewInputError("parser.Headers", "cannot parse header line", err)
	}
	for i := range headers {
		headers[i] = strings.TrimSpace(headers[i])
	}
	return headers, nil
}

func parseLine(line string, comma rune) ([]string, error) {
	r := csv.NewReader(strings.NewReader(line))
	r.Comma = comma
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	return r.Read()
}

func delimiterRune(delimiter string) rune {
	switch delimiter {
	case ";":
		return ';'
	case "\t":
		return '\t'
	default:
		return ','
	}
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

func dropBlank(lines []string) []string {
	out := lines[:0]
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			out = append(out, l)
		}
	}
	return out
}

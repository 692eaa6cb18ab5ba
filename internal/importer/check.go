package importer

import (
	"fmt"

	"github.com/koltyakov/orgimport/internal/domain"
	"github.com/koltyakov/orgimport/internal/parser"
	"github.com/koltyakov/orgimport/internal/validator"
	"github.com/koltyakov/orgimport/pkg/types"
)

// RowWarning lists the problems of one source line
type RowWarning struct {
	Row    int      `json:"row"`
	Errors []string `json:"errors"`
}

// CheckSummary previews a file without writing anything
type CheckSummary struct {
	Kind           domain.Kind  `json:"kind"`
	TotalRows      int          `json:"totalRows"`
	ValidRows      int          `json:"validRows"`
	InvalidRows    int          `json:"invalidRows"`
	Departments    []string     `json:"departments"`
	Positions      []string     `json:"positions"`
	MissingHeaders []string     `json:"missingHeaders,omitempty"`
	Warnings       []RowWarning `json:"warnings"`
}

// Valid reports whether every header and row passed
func (s *CheckSummary) Valid() bool {
	return len(s.MissingHeaders) == 0 && s.InvalidRows == 0
}

// DetectKind guesses the entity kind of a file from its headers
func DetectKind(headers []string) domain.Kind {
	has := make(map[string]bool, len(headers))
	for _, h := range headers {
		has[h] = true
	}
	anyOf := func(names []string) bool {
		for _, n := range names {
			if has[n] {
				return true
			}
		}
		return false
	}

	switch {
	case has[domain.ColTabNumber]:
		return domain.KindEmployees
	case anyOf(domain.AdhocFullName) || anyOf(domain.AdhocTabNumber):
		return domain.KindAdhoc
	case has[domain.ColCategory] || has[domain.ColDepartmentCode]:
		return domain.KindPositions
	default:
		return domain.KindDepartments
	}
}

// Check previews a source: headers against the kind's required columns and
// every row against the record constraints. An empty kind is detected.
func Check(src *parser.Source, kind domain.Kind) (*CheckSummary, error) {
	rows, err := src.Parse()
	if err != nil {
		return nil, err
	}
	headers, err := parser.Headers(src.Content, src.Delimiter)
	if err != nil {
		return nil, err
	}
	if kind == "" {
		kind = DetectKind(headers)
	}

	summary := &CheckSummary{
		Kind:        kind,
		TotalRows:   len(rows),
		Departments: []string{},
		Positions:   []string{},
		Warnings:    []RowWarning{},
	}
	if res := validator.ValidateRequiredHeaders(headers, domain.RequiredHeaders(kind)); !res.Valid() {
		summary.MissingHeaders = res.Errors()
	}

	depts := newOrderedSet()
	positions := newOrderedSet()

	for _, row := range rows {
		var errs []string
		switch kind {
		case domain.KindAdhoc:
			errs = checkAdhocRow(row)
			if len(errs) == 0 {
				depts.add(row.First(domain.AdhocDepartment...))
				positions.add(row.First(domain.AdhocPosition...))
			}
		case domain.KindEmployees:
			_, err := domain.EmployeeFromRow(row)
			errs = messages(err)
			if len(errs) == 0 {
				depts.add(row.Get(domain.ColDepartmentID))
				positions.add(row.Get(domain.ColPositionID))
			}
		case domain.KindPositions:
			_, err := domain.PositionFromRow(row)
			errs = messages(err)
			if len(errs) == 0 {
				positions.add(row.Get(domain.ColCode))
			}
		default:
			_, err := domain.DepartmentFromRow(row)
			errs = messages(err)
			if len(errs) == 0 {
				depts.add(row.Get(domain.ColCode))
			}
		}

		if len(errs) > 0 {
			summary.InvalidRows++
			summary.Warnings = append(summary.Warnings, RowWarning{Row: sheetLine(row), Errors: errs})
			continue
		}
		summary.ValidRows++
	}

	summary.Departments = depts.items
	summary.Positions = positions.items
	return summary, nil
}

func checkAdhocRow(row types.Row) []string {
	var errs []string
	if row.First(domain.AdhocFullName...) == "" {
		errs = append(errs, fmt.Sprintf("%s is required", domain.AdhocFullName[0]))
	}
	if row.First(domain.AdhocTabNumber...) == "" {
		errs = append(errs, fmt.Sprintf("%s is required", domain.AdhocTabNumber[0]))
	}
	if email := row.First(domain.AdhocEmail...); email != "" && !domain.ValidEmail(email) {
		errs = append(errs, "Invalid email format")
	}
	return errs
}

func messages(err error) []string {
	if err == nil {
		return nil
	}
	return []string{err.Error()}
}

type orderedSet struct {
	seen  map[string]bool
	items []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: map[string]bool{}, items: []string{}}
}

func (s *orderedSet) add(v string) {
	if v == "" || s.seen[v] {
		return
	}
	s.seen[v] = true
	s.items = append(s.items, v)
}

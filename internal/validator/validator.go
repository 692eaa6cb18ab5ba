package validator

import (
	"context"
	"fmt"

	"github.com/koltyakov/orgimport/internal/domain"
	apperrors "github.com/koltyakov/orgimport/pkg/errors"
	"github.com/koltyakov/orgimport/pkg/types"
)

// Result holds the diagnostics of one validation call
type Result struct {
	errors []string
}

// Valid reports whether no errors were recorded
func (r *Result) Valid() bool {
	return len(r.errors) == 0
}

// Errors returns the recorded messages in detection order
func (r *Result) Errors() []string {
	out := make([]string, len(r.errors))
	copy(out, r.errors)
	return out
}

func (r *Result) addf(format string, args ...interface{}) {
	r.errors = append(r.errors, fmt.Sprintf(format, args...))
}

// Validator checks batch-wide invariants. It holds only read access to
// already persisted departments and positions.
type Validator struct {
	departments domain.DepartmentRepository
	positions   domain.PositionRepository
}

// New creates a Validator
func New(departments domain.DepartmentRepository, positions domain.PositionRepository) *Validator {
	return &Validator{
		departments: departments,
		positions:   positions,
	}
}

// ValidateDepartmentHierarchy checks dangling parents and parent cycles
func (v *Validator) ValidateDepartmentHierarchy(rows []types.Row) *Result {
	return ValidateDepartmentHierarchy(rows)
}

// ValidateDepartmentHierarchy reports every parent code that points at no row in
// the batch, then the first department whose ancestor chain loops.
func ValidateDepartmentHierarchy(rows []types.Row) *Result {
	res := &Result{}

	parents := make(map[string]string, len(rows))
	for _, r := range rows {
		if code := r.Get(domain.ColCode); code != "" {
			parents[code] = r.Get(domain.ColParentCode)
		}
	}

	for _, r := range rows {
		parent := r.Get(domain.ColParentCode)
		if parent == "" {
			continue
		}
		if _, ok := parents[parent]; !ok {
			res.addf("Parent department %s not found for department %s", parent, r.Get(domain.ColCode))
		}
	}

	limit := len(rows) + 1
	for _, r := range rows {
		code := r.Get(domain.ColCode)
		if code == "" {
			continue
		}
		if member, ok := cycleFrom(code, parents, limit); ok {
			res.addf("Circular dependency detected for department %s", member)
			break
		}
	}

	return res
}

// cycleFrom walks the ancestor chain of code with a fresh visited set and
// returns the first code seen twice, which lies on the loop itself.
// A parent missing from the batch ends the chain.
func cycleFrom(code string, parents map[string]string, limit int) (string, bool) {
	visited := map[string]struct{}{code: {}}
	cur := parents[code]
	for steps := 0; cur != ""; steps++ {
		if _, seen := visited[cur]; seen || steps >= limit {
			return cur, true
		}
		next, ok := parents[cur]
		if !ok {
			return "", false
		}
		visited[cur] = struct{}{}
		cur = next
	}
	return "", false
}

// ValidateEmployeeRelationships checks duplicate tab numbers, manager references
// and department/position references. Manager chains are not checked for cycles,
// only direct self-management.
func (v *Validator) ValidateEmployeeRelationships(ctx context.Context, rows []types.Row) (*Result, error) {
	const op = "validator.ValidateEmployeeRelationships"
	res := &Result{}

	seen := make(map[string]int, len(rows))
	for _, r := range rows {
		tab := r.Get(domain.ColTabNumber)
		if tab == "" {
			continue
		}
		seen[tab]++
		if seen[tab] == 2 {
			res.addf("Duplicate tab number: %s", tab)
		}
	}

	departments := map[string]bool{}
	positions := map[string]bool{}

	for _, r := range rows {
		tab := r.Get(domain.ColTabNumber)
		manager := r.Get(domain.ColManagerID)

		if manager != "" {
			if manager == tab {
				res.addf("Employee %s cannot be their own manager", tab)
			} else if _, ok := seen[manager]; !ok {
				res.addf("Manager with tab number %s not found for employee %s", manager, tab)
			}
		}

		if dept := r.Get(domain.ColDepartmentID); dept != "" {
			found, ok := departments[dept]
			if !ok {
				d, err := v.departments.FindByCode(ctx, dept)
				if err != nil {
					return nil, apperrors.NewSystemError(op, fmt.Sprintf("department lookup %s", dept), err)
				}
				found = d != nil
				departments[dept] = found
			}
			if !found {
				res.addf("Department %s not found for employee %s", dept, tab)
			}
		}

		if pos := r.Get(domain.ColPositionID); pos != "" {
			found, ok := positions[pos]
			if !ok {
				exists, err := v.positions.ExistsByCode(ctx, pos)
				if err != nil {
					return nil, apperrors.NewSystemError(op, fmt.Sprintf("position lookup %s", pos), err)
				}
				found = exists
				positions[pos] = found
			}
			if !found {
				res.addf("Position %s not found for employee %s", pos, tab)
			}
		}
	}

	return res, nil
}

// ValidateRequiredHeaders reports each required column missing from headers
func ValidateRequiredHeaders(headers, required []string) *Result {
	res := &Result{}
	present := make(map[string]struct{}, len(headers))
	for _, h := range headers {
		present[h] = struct{}{}
	}
	for _, r := range required {
		if _, ok := present[r]; !ok {
			res.addf("Missing required column: %s", r)
		}
	}
	return res
}

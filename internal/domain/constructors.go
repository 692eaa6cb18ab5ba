package domain

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/koltyakov/orgimport/pkg/types"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

var fieldLabels = map[string]string{
	"Code":             "code",
	"Name":             "name",
	"ParentCode":       "parent code",
	"Category":         "category",
	"DepartmentCode":   "department code",
	"TabNumber":        "tab number",
	"FullName":         "full name",
	"Email":            "email",
	"Phone":            "phone",
	"PositionCode":     "position code",
	"ManagerTabNumber": "manager tab number",
}

// DepartmentFromRow builds a Department from a departments CSV row
func DepartmentFromRow(row types.Row) (*Department, error) {
	d := &Department{
		ID:         uuid.New(),
		Code:       row.Get(ColCode),
		Name:       row.Get(ColName),
		ParentCode: row.Get(ColParentCode),
	}
	if field, msg, ok := check(d, "Department"); !ok {
		return nil, newInvalidDepartment(field, msg)
	}
	return d, nil
}

// PositionFromRow builds a Position from a positions CSV row
func PositionFromRow(row types.Row) (*Position, error) {
	p := &Position{
		ID:             uuid.New(),
		Code:           row.Get(ColCode),
		Name:           row.Get(ColName),
		Category:       row.Get(ColCategory),
		DepartmentCode: row.Get(ColDepartmentCode),
	}
	if field, msg, ok := check(p, "Position"); !ok {
		return nil, newInvalidPosition(field, msg)
	}
	return p, nil
}

// EmployeeFromRow builds an Employee from an employees CSV row
func EmployeeFromRow(row types.Row) (*Employee, error) {
	e := &Employee{
		ID:               uuid.New(),
		TabNumber:        row.Get(ColTabNumber),
		FullName:         row.Get(ColFullName),
		Email:            row.Get(ColEmail),
		Phone:            row.Get(ColPhone),
		DepartmentCode:   row.Get(ColDepartmentID),
		PositionCode:     row.Get(ColPositionID),
		ManagerTabNumber: row.Get(ColManagerID),
	}
	if field, msg, ok := check(e, "Employee"); !ok {
		return nil, newInvalidEmployee(field, msg)
	}
	return e, nil
}

// check validates a record and renders the first failure as a readable message
func check(record any, entity string) (string, string, bool) {
	err := validate.Struct(record)
	if err == nil {
		return "", "", true
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "", fmt.Sprintf("Invalid %s data: %v", entity, err), false
	}

	fe := verrs[0]
	label, ok := fieldLabels[fe.StructField()]
	if !ok {
		label = fe.Field()
	}

	switch fe.Tag() {
	case "required":
		return label, fmt.Sprintf("%s %s cannot be empty", entity, label), false
	case "max":
		return label, fmt.Sprintf("%s %s must be at most %s characters", entity, label, fe.Param()), false
	case "email":
		return label, fmt.Sprintf("Invalid email format: %v", fe.Value()), false
	default:
		return label, fmt.Sprintf("%s %s is invalid", entity, label), false
	}
}

// ValidEmail reports whether s is a well-formed email address
func ValidEmail(s string) bool {
	return validate.Var(s, "required,email") == nil
}

package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// Department is a node of the organizational hierarchy
type Department struct {
	ID         uuid.UUID
	Code       string `validate:"required,max=50"`
	Name       string `validate:"required,max=255"`
	ParentCode string `validate:"omitempty,max=50"`
	ParentID   *uuid.UUID
}

// SetParent links the department to its parent
func (d *Department) SetParent(parent *Department) error {
	if parent == nil {
		return newInvalidDepartment("parent", fmt.Sprintf("Parent department for %s is not set", d.Code))
	}
	if parent.Code == d.Code {
		return newInvalidDepartment("parent", fmt.Sprintf("Department %s cannot be its own parent", d.Code))
	}
	id := parent.ID
	d.ParentID = &id
	d.ParentCode = parent.Code
	return nil
}

// IsRoot reports whether the department has no parent
func (d *Department) IsRoot() bool {
	return d.ParentCode == ""
}

// Position is a job position
type Position struct {
	ID             uuid.UUID
	Code           string `validate:"required,max=50"`
	Name           string `validate:"required,max=255"`
	Category       string `validate:"omitempty,max=100"`
	DepartmentCode string `validate:"omitempty,max=50"`
}

// Employee is a person placed in a department on a position
type Employee struct {
	ID               uuid.UUID
	TabNumber        string `validate:"required,max=50"`
	FullName         string `validate:"required,max=255"`
	Email            string `validate:"omitempty,email,max=255"`
	Phone            string `validate:"omitempty,max=50"`
	DepartmentCode   string `validate:"required,max=50"`
	PositionCode     string `validate:"required,max=50"`
	ManagerTabNumber string `validate:"omitempty,max=50"`
}

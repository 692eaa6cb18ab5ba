package domain

// ConstructionError reports a row that cannot become a domain record
type ConstructionError struct {
	Entity  Kind
	Field   string
	Message string
}

func (e *ConstructionError) Error() string {
	return e.Message
}

// InvalidDepartmentError is returned when a department row is invalid
type InvalidDepartmentError struct {
	*ConstructionError
}

func (e *InvalidDepartmentError) Unwrap() error { return e.ConstructionError }

// InvalidPositionError is returned when a position row is invalid
type InvalidPositionError struct {
	*ConstructionError
}

func (e *InvalidPositionError) Unwrap() error { return e.ConstructionError }

// InvalidEmployeeDataError is returned when an employee row is invalid
type InvalidEmployeeDataError struct {
	*ConstructionError
}

func (e *InvalidEmployeeDataError) Unwrap() error { return e.ConstructionError }

func newInvalidDepartment(field, msg string) *InvalidDepartmentError {
	return &InvalidDepartmentError{&ConstructionError{Entity: KindDepartments, Field: field, Message: msg}}
}

func newInvalidPosition(field, msg string) *InvalidPositionError {
	return &InvalidPositionError{&ConstructionError{Entity: KindPositions, Field: field, Message: msg}}
}

func newInvalidEmployee(field, msg string) *InvalidEmployeeDataError {
	return &InvalidEmployeeDataError{&ConstructionError{Entity: KindEmployees, Field: field, Message: msg}}
}

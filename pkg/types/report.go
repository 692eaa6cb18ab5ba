package types

// Report is the flat view of an ImportResult handed to callers
type Report struct {
	Status             Status         `json:"status"`
	TotalProcessed     int            `json:"totalProcessed"`
	Successful         int            `json:"successful"`
	Failed             int            `json:"failed"`
	Errors             []ImportError  `json:"errors"`
	DepartmentsCreated int            `json:"departmentsCreated"`
	PositionsCreated   int            `json:"positionsCreated"`
	EmployeesCreated   int            `json:"employeesCreated"`
	EmployeesUpdated   int            `json:"employeesUpdated"`
	Details            map[string]any `json:"details,omitempty"`
}

// Report converts the result to its flat report form
func (r *ImportResult) Report() Report {
	errs := make([]ImportError, len(r.Errors))
	copy(errs, r.Errors)

	return Report{
		Status:             r.Status(),
		TotalProcessed:     r.TotalProcessed,
		Successful:         r.ImportedCount,
		Failed:             r.FailedCount,
		Errors:             errs,
		DepartmentsCreated: r.Count(CountDepartmentsCreated),
		PositionsCreated:   r.Count(CountPositionsCreated),
		EmployeesCreated:   r.Count(CountEmployeesCreated),
		EmployeesUpdated:   r.Count(CountEmployeesUpdated),
		Details:            r.Details,
	}
}

package domain

// Department columns
const (
	ColCode       = "code"
	ColName       = "name"
	ColParentCode = "parent_code"
)

// Position columns
const (
	ColCategory       = "category"
	ColDepartmentCode = "department_code"
)

// Employee columns. The department and position columns carry codes despite their names.
const (
	ColTabNumber    = "tab_number"
	ColFullName     = "full_name"
	ColDepartmentID = "department_id"
	ColPositionID   = "position_id"
	ColManagerID    = "manager_id"
	ColEmail        = "email"
	ColPhone        = "phone"
)

// Required headers per entity kind
var (
	DepartmentHeaders = []string{ColCode, ColName}
	PositionHeaders   = []string{ColCode, ColName}
	EmployeeHeaders   = []string{ColTabNumber, ColFullName, ColDepartmentID, ColPositionID}
)

// Kind names an importable entity kind
type Kind string

const (
	KindDepartments Kind = "departments"
	KindPositions   Kind = "positions"
	KindEmployees   Kind = "employees"

	// KindAdhoc is a single employee sheet naming departments and positions inline
	KindAdhoc Kind = "adhoc"
)

// Ad hoc sheet columns. Each accepts either of its header spellings.
var (
	AdhocFullName   = []string{"ФИО", "Full Name"}
	AdhocTabNumber  = []string{"Таб.номер", "Tab Number"}
	AdhocEmail      = []string{"Email", "Электронная почта"}
	AdhocPhone      = []string{"Телефон", "Phone"}
	AdhocDepartment = []string{"Подразделение", "Department"}
	AdhocPosition   = []string{"Должность", "Position"}
	AdhocManager    = []string{"Руководитель", "Manager"}
)

// ColForceError makes an ad hoc row fail on purpose when set to "true"
const ColForceError = "force_error"

// ParseKind maps a kind name to its Kind
func ParseKind(s string) (Kind, bool) {
	switch k := Kind(s); k {
	case KindDepartments, KindPositions, KindEmployees, KindAdhoc:
		return k, true
	}
	return "", false
}

// RequiredHeaders returns the mandatory columns for a kind; ad hoc sheets have none
func RequiredHeaders(kind Kind) []string {
	switch kind {
	case KindDepartments:
		return DepartmentHeaders
	case KindPositions:
		return PositionHeaders
	case KindEmployees:
		return EmployeeHeaders
	}
	return nil
}

package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/koltyakov/orgimport/internal/domain"
	apperrors "github.com/koltyakov/orgimport/pkg/errors"
)

const (
	mergeDepartmentSQL = `MERGE INTO org_departments d
USING (SELECT :code AS code FROM dual) s
ON (d.code = s.code)
WHEN MATCHED THEN UPDATE SET d.name = :name, d.parent_code = :parent_code, d.parent_id = :parent_id
WHEN NOT MATCHED THEN INSERT (id, code, name, parent_code, parent_id)
VALUES (:id, :code, :name, :parent_code, :parent_id)`

	selectDepartmentIDSQL = `SELECT id FROM org_departments WHERE code = :code`
	selectDepartmentSQL   = `SELECT id, code, name, parent_code, parent_id FROM org_departments WHERE code = :code`
	countDepartmentSQL    = `SELECT COUNT(1) FROM org_departments WHERE code = :code`

	mergePositionSQL = `MERGE INTO org_positions p
USING (SELECT :code AS code FROM dual) s
ON (p.code = s.code)
WHEN MATCHED THEN UPDATE SET p.name = :name, p.category = :category, p.department_code = :department_code
WHEN NOT MATCHED THEN INSERT (id, code, name, category, department_code)
VALUES (:id, :code, :name, :category, :department_code)`

	selectPositionSQL = `SELECT id, code, name, category, department_code FROM org_positions WHERE code = :code`
	countPositionSQL  = `SELECT COUNT(1) FROM org_positions WHERE code = :code`

	mergeEmployeeSQL = `MERGE INTO org_employees e
USING (SELECT :tab_number AS tab_number FROM dual) s
ON (e.tab_number = s.tab_number)
WHEN MATCHED THEN UPDATE SET e.full_name = :full_name, e.email = :email, e.phone = :phone,
  e.department_code = :department_code, e.position_code = :position_code, e.manager_tab_number = :manager_tab_number
WHEN NOT MATCHED THEN INSERT (id, tab_number, full_name, email, phone, department_code, position_code, manager_tab_number)
VALUES (:id, :tab_number, :full_name, :email, :phone, :department_code, :position_code, :manager_tab_number)`

	selectEmployeeSQL = `SELECT id, tab_number, full_name, email, phone, department_code, position_code, manager_tab_number
FROM org_employees WHERE tab_number = :tab_number`
	countEmployeeSQL = `SELECT COUNT(1) FROM org_employees WHERE tab_number = :tab_number`
)

// OracleDepartments is the Oracle-backed domain.DepartmentRepository
type OracleDepartments struct {
	store *OracleStore
}

// Save upserts a department by code. An existing row keeps its id, which is
// copied back onto d so later parent links reference the stored row.
func (r *OracleDepartments) Save(ctx context.Context, d *domain.Department) error {
	var existing sql.NullString
	err := r.store.conn().QueryRowContext(ctx, selectDepartmentIDSQL, sql.Named("code", d.Code)).Scan(&existing)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return apperrors.NewDBError("departments.Save", "failed to look up department "+d.Code, err)
	default:
		if id := parseID(existing); id != uuid.Nil {
			d.ID = id
		}
	}

	var parentID sql.NullString
	if d.ParentID != nil {
		parentID = sql.NullString{String: d.ParentID.String(), Valid: true}
	}

	_, err = r.store.conn().ExecContext(ctx, mergeDepartmentSQL,
		sql.Named("code", d.Code),
		sql.Named("name", d.Name),
		sql.Named("parent_code", nullable(d.ParentCode)),
		sql.Named("parent_id", parentID),
		sql.Named("id", d.ID.String()),
	)
	if err != nil {
		return apperrors.NewDBError("departments.Save", "failed to save department "+d.Code, err)
	}
	return nil
}

// FindByCode returns the department or nil when absent
func (r *OracleDepartments) FindByCode(ctx context.Context, code string) (*domain.Department, error) {
	var (
		id, parentCode, parentID sql.NullString
		d                        domain.Department
	)
	err := r.store.conn().QueryRowContext(ctx, selectDepartmentSQL, sql.Named("code", code)).
		Scan(&id, &d.Code, &d.Name, &parentCode, &parentID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewDBError("departments.FindByCode", "failed to load department "+code, err)
	}

	d.ID = parseID(id)
	d.ParentCode = parentCode.String
	if parentID.Valid {
		pid := parseID(parentID)
		d.ParentID = &pid
	}
	return &d, nil
}

// ExistsByCode reports whether a department with the code exists
func (r *OracleDepartments) ExistsByCode(ctx context.Context, code string) (bool, error) {
	ok, err := exists(ctx, r.store.conn(), countDepartmentSQL, sql.Named("code", code))
	if err != nil {
		return false, apperrors.NewDBError("departments.ExistsByCode", "failed to check department "+code, err)
	}
	return ok, nil
}

// OraclePositions is the Oracle-backed domain.PositionRepository
type OraclePositions struct {
	store *OracleStore
}

// Save upserts a position by code
func (r *OraclePositions) Save(ctx context.Context, p *domain.Position) error {
	_, err := r.store.conn().ExecContext(ctx, mergePositionSQL,
		sql.Named("code", p.Code),
		sql.Named("name", p.Name),
		sql.Named("category", nullable(p.Category)),
		sql.Named("department_code", nullable(p.DepartmentCode)),
		sql.Named("id", p.ID.String()),
	)
	if err != nil {
		return apperrors.NewDBError("positions.Save", "failed to save position "+p.Code, err)
	}
	return nil
}

// FindByCode returns the position or nil when absent
func (r *OraclePositions) FindByCode(ctx context.Context, code string) (*domain.Position, error) {
	var (
		id, category, deptCode sql.NullString
		p                      domain.Position
	)
	err := r.store.conn().QueryRowContext(ctx, selectPositionSQL, sql.Named("code", code)).
		Scan(&id, &p.Code, &p.Name, &category, &deptCode)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewDBError("positions.FindByCode", "failed to load position "+code, err)
	}

	p.ID = parseID(id)
	p.Category = category.String
	p.DepartmentCode = deptCode.String
	return &p, nil
}

// ExistsByCode reports whether a position with the code exists
func (r *OraclePositions) ExistsByCode(ctx context.Context, code string) (bool, error) {
	ok, err := exists(ctx, r.store.conn(), countPositionSQL, sql.Named("code", code))
	if err != nil {
		return false, apperrors.NewDBError("positions.ExistsByCode", "failed to check position "+code, err)
	}
	return ok, nil
}

// OracleEmployees is the Oracle-backed domain.EmployeeRepository
type OracleEmployees struct {
	store *OracleStore
}

// Save upserts an employee by tab number
func (r *OracleEmployees) Save(ctx context.Context, e *domain.Employee) error {
	_, err := r.store.conn().ExecContext(ctx, mergeEmployeeSQL,
		sql.Named("tab_number", e.TabNumber),
		sql.Named("full_name", e.FullName),
		sql.Named("email", nullable(e.Email)),
		sql.Named("phone", nullable(e.Phone)),
		sql.Named("department_code", e.DepartmentCode),
		sql.Named("position_code", e.PositionCode),
		sql.Named("manager_tab_number", nullable(e.ManagerTabNumber)),
		sql.Named("id", e.ID.String()),
	)
	if err != nil {
		return apperrors.NewDBError("employees.Save", "failed to save employee "+e.TabNumber, err)
	}
	return nil
}

// FindByTabNumber returns the employee or nil when absent
func (r *OracleEmployees) FindByTabNumber(ctx context.Context, tabNumber string) (*domain.Employee, error) {
	var (
		id, email, phone, manager sql.NullString
		e                         domain.Employee
	)
	err := r.store.conn().QueryRowContext(ctx, selectEmployeeSQL, sql.Named("tab_number", tabNumber)).
		Scan(&id, &e.TabNumber, &e.FullName, &email, &phone, &e.DepartmentCode, &e.PositionCode, &manager)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewDBError("employees.FindByTabNumber", "failed to load employee "+tabNumber, err)
	}

	e.ID = parseID(id)
	e.Email = email.String
	e.Phone = phone.String
	e.ManagerTabNumber = manager.String
	return &e, nil
}

// ExistsByTabNumber reports whether an employee with the tab number exists
func (r *OracleEmployees) ExistsByTabNumber(ctx context.Context, tabNumber string) (bool, error) {
	ok, err := exists(ctx, r.store.conn(), countEmployeeSQL, sql.Named("tab_number", tabNumber))
	if err != nil {
		return false, apperrors.NewDBError("employees.ExistsByTabNumber", "failed to check employee "+tabNumber, err)
	}
	return ok, nil
}

// parseID reads a stored UUID; malformed or missing values yield uuid.Nil
func parseID(s sql.NullString) uuid.UUID {
	if !s.Valid {
		return uuid.Nil
	}
	id, err := uuid.Parse(s.String)
	if err != nil {
		return uuid.Nil
	}
	return id
}

var (
	_ domain.DepartmentRepository = (*OracleDepartments)(nil)
	_ domain.PositionRepository   = (*OraclePositions)(nil)
	_ domain.EmployeeRepository   = (*OracleEmployees)(nil)
	_ domain.Transactional        = (*OracleStore)(nil)
)

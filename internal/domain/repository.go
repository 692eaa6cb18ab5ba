package domain

import "context"

// DepartmentRepository persists departments. FindByCode returns nil, nil when absent.
type DepartmentRepository interface {
	Save(ctx context.Context, d *Department) error
	FindByCode(ctx context.Context, code string) (*Department, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
}

// PositionRepository persists positions. FindByCode returns nil, nil when absent.
type PositionRepository interface {
	Save(ctx context.Context, p *Position) error
	FindByCode(ctx context.Context, code string) (*Position, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
}

// EmployeeRepository persists employees. FindByTabNumber returns nil, nil when absent.
type EmployeeRepository interface {
	Save(ctx context.Context, e *Employee) error
	FindByTabNumber(ctx context.Context, tabNumber string) (*Employee, error)
	ExistsByTabNumber(ctx context.Context, tabNumber string) (bool, error)
}

// Transactional scopes writes of a repository set into one transaction
type Transactional interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error
}

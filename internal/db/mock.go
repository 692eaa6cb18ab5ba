package db

import (
	"context"
	"sync"

	"github.com/koltyakov/orgimport/internal/domain"
)

// MockDepartments is a function-field mock of domain.DepartmentRepository.
// Nil functions fall back to recording saves and reporting nothing found.
type MockDepartments struct {
	SaveFunc         func(ctx context.Context, d *domain.Department) error
	FindByCodeFunc   func(ctx context.Context, code string) (*domain.Department, error)
	ExistsByCodeFunc func(ctx context.Context, code string) (bool, error)

	mu        sync.Mutex
	SaveCalls int
	Saved     []*domain.Department
}

func (m *MockDepartments) Save(ctx context.Context, d *domain.Department) error {
	m.mu.Lock()
	m.SaveCalls++
	m.mu.Unlock()
	if m.SaveFunc != nil {
		if err := m.SaveFunc(ctx, d); err != nil {
			return err
		}
	}
	m.mu.Lock()
	m.Saved = append(m.Saved, d)
	m.mu.Unlock()
	return nil
}

func (m *MockDepartments) FindByCode(ctx context.Context, code string) (*domain.Department, error) {
	if m.FindByCodeFunc != nil {
		return m.FindByCodeFunc(ctx, code)
	}
	return nil, nil
}

func (m *MockDepartments) ExistsByCode(ctx context.Context, code string) (bool, error) {
	if m.ExistsByCodeFunc != nil {
		return m.ExistsByCodeFunc(ctx, code)
	}
	return false, nil
}

// MockPositions is a function-field mock of domain.PositionRepository
type MockPositions struct {
	SaveFunc         func(ctx context.Context, p *domain.Position) error
	FindByCodeFunc   func(ctx context.Context, code string) (*domain.Position, error)
	ExistsByCodeFunc func(ctx context.Context, code string) (bool, error)

	mu        sync.Mutex
	SaveCalls int
	Saved     []*domain.Position
}

func (m *MockPositions) Save(ctx context.Context, p *domain.Position) error {
	m.mu.Lock()
	m.SaveCalls++
	m.mu.Unlock()
	if m.SaveFunc != nil {
		if err := m.SaveFunc(ctx, p); err != nil {
			return err
		}
	}
	m.mu.Lock()
	m.Saved = append(m.Saved, p)
	m.mu.Unlock()
	return nil
}

func (m *MockPositions) FindByCode(ctx context.Context, code string) (*domain.Position, error) {
	if m.FindByCodeFunc != nil {
		return m.FindByCodeFunc(ctx, code)
	}
	return nil, nil
}

func (m *MockPositions) ExistsByCode(ctx context.Context, code string) (bool, error) {
	if m.ExistsByCodeFunc != nil {
		return m.ExistsByCodeFunc(ctx, code)
	}
	return false, nil
}

// MockEmployees is a function-field mock of domain.EmployeeRepository
type MockEmployees struct {
	SaveFunc              func(ctx context.Context, e *domain.Employee) error
	FindByTabNumberFunc   func(ctx context.Context, tabNumber string) (*domain.Employee, error)
	ExistsByTabNumberFunc func(ctx context.Context, tabNumber string) (bool, error)

	mu        sync.Mutex
	SaveCalls int
	Saved     []*domain.Employee
}

func (m *MockEmployees) Save(ctx context.Context, e *domain.Employee) error {
	m.mu.Lock()
	m.SaveCalls++
	m.mu.Unlock()
	if m.SaveFunc != nil {
		if err := m.SaveFunc(ctx, e); err != nil {
			return err
		}
	}
	m.mu.Lock()
	m.Saved = append(m.Saved, e)
	m.mu.Unlock()
	return nil
}

func (m *MockEmployees) FindByTabNumber(ctx context.Context, tabNumber string) (*domain.Employee, error) {
	if m.FindByTabNumberFunc != nil {
		return m.FindByTabNumberFunc(ctx, tabNumber)
	}
	return nil, nil
}

func (m *MockEmployees) ExistsByTabNumber(ctx context.Context, tabNumber string) (bool, error) {
	if m.ExistsByTabNumberFunc != nil {
		return m.ExistsByTabNumberFunc(ctx, tabNumber)
	}
	return false, nil
}

// MockTx is a function-field mock of domain.Transactional with call counters
type MockTx struct {
	BeginFunc    func(ctx context.Context) error
	CommitFunc   func() error
	RollbackFunc func() error

	BeginCalls    int
	CommitCalls   int
	RollbackCalls int
}

func (m *MockTx) Begin(ctx context.Context) error {
	m.BeginCalls++
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return nil
}

func (m *MockTx) Commit() error {
	m.CommitCalls++
	if m.CommitFunc != nil {
		return m.CommitFunc()
	}
	return nil
}

func (m *MockTx) Rollback() error {
	m.RollbackCalls++
	if m.RollbackFunc != nil {
		return m.RollbackFunc()
	}
	return nil
}

var (
	_ domain.DepartmentRepository = (*MockDepartments)(nil)
	_ domain.PositionRepository   = (*MockPositions)(nil)
	_ domain.EmployeeRepository   = (*MockEmployees)(nil)
	_ domain.Transactional        = (*MockTx)(nil)
)

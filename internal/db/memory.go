package db

import (
	"context"
	"sort"
	"sync"

	"github.com/koltyakov/orgimport/internal/domain"
)

// MemoryStore keeps repositories in process memory. Begin takes a snapshot
// that Rollback restores. Used for dry runs and tests.
type MemoryStore struct {
	mu          sync.RWMutex
	departments map[string]domain.Department
	positions   map[string]domain.Position
	employees   map[string]domain.Employee
	snapshot    *memorySnapshot
}

type memorySnapshot struct {
	departments map[string]domain.Department
	positions   map[string]domain.Position
	employees   map[string]domain.Employee
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		departments: map[string]domain.Department{},
		positions:   map[string]domain.Position{},
		employees:   map[string]domain.Employee{},
	}
}

// Begin snapshots the current state
func (s *MemoryStore) Begin(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snapshot != nil {
		return ErrTransactionActive
	}
	s.snapshot = &memorySnapshot{
		departments: cloneMap(s.departments),
		positions:   cloneMap(s.positions),
		employees:   cloneMap(s.employees),
	}
	return nil
}

// Commit drops the snapshot
func (s *MemoryStore) Commit() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snapshot == nil {
		return ErrNoTransaction
	}
	s.snapshot = nil
	return nil
}

// Rollback restores the snapshot; without one it does nothing
func (s *MemoryStore) Rollback() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snapshot == nil {
		return nil
	}
	s.departments = s.snapshot.departments
	s.positions = s.snapshot.positions
	s.employees = s.snapshot.employees
	s.snapshot = nil
	return nil
}

// InTransaction reports whether a snapshot is held
func (s *MemoryStore) InTransaction() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot != nil
}

// Departments returns the department repository
func (s *MemoryStore) Departments() *MemoryDepartments {
	return &MemoryDepartments{store: s}
}

// Positions returns the position repository
func (s *MemoryStore) Positions() *MemoryPositions {
	return &MemoryPositions{store: s}
}

// Employees returns the employee repository
func (s *MemoryStore) Employees() *MemoryEmployees {
	return &MemoryEmployees{store: s}
}

// DepartmentCodes returns the stored department codes, sorted
func (s *MemoryStore) DepartmentCodes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedKeys(s.departments)
}

// PositionCodes returns the stored position codes, sorted
func (s *MemoryStore) PositionCodes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedKeys(s.positions)
}

// TabNumbers returns the stored employee tab numbers, sorted
func (s *MemoryStore) TabNumbers() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedKeys(s.employees)
}

// MemoryDepartments is the in-memory domain.DepartmentRepository
type MemoryDepartments struct {
	store *MemoryStore
}

func (r *MemoryDepartments) Save(ctx context.Context, d *domain.Department) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.departments[d.Code] = *d
	return nil
}

func (r *MemoryDepartments) FindByCode(ctx context.Context, code string) (*domain.Department, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	d, ok := r.store.departments[code]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (r *MemoryDepartments) ExistsByCode(ctx context.Context, code string) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	_, ok := r.store.departments[code]
	return ok, nil
}

// MemoryPositions is the in-memory domain.PositionRepository
type MemoryPositions struct {
	store *MemoryStore
}

func (r *MemoryPositions) Save(ctx context.Context, p *domain.Position) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.positions[p.Code] = *p
	return nil
}

func (r *MemoryPositions) FindByCode(ctx context.Context, code string) (*domain.Position, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	p, ok := r.store.positions[code]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *MemoryPositions) ExistsByCode(ctx context.Context, code string) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	_, ok := r.store.positions[code]
	return ok, nil
}

// MemoryEmployees is the in-memory domain.EmployeeRepository
type MemoryEmployees struct {
	store *MemoryStore
}

func (r *MemoryEmployees) Save(ctx context.Context, e *domain.Employee) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.employees[e.TabNumber] = *e
	return nil
}

func (r *MemoryEmployees) FindByTabNumber(ctx context.Context, tabNumber string) (*domain.Employee, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	e, ok := r.store.employees[tabNumber]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (r *MemoryEmployees) ExistsByTabNumber(ctx context.Context, tabNumber string) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	_, ok := r.store.employees[tabNumber]
	return ok, nil
}

func cloneMap[V any](m map[string]V) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

var (
	_ domain.DepartmentRepository = (*MemoryDepartments)(nil)
	_ domain.PositionRepository   = (*MemoryPositions)(nil)
	_ domain.EmployeeRepository   = (*MemoryEmployees)(nil)
	_ domain.Transactional        = (*MemoryStore)(nil)
)

package importer

import (
	"context"
	"errors"

	"github.com/koltyakov/orgimport/internal/domain"
	"github.com/koltyakov/orgimport/internal/logging"
	"github.com/koltyakov/orgimport/internal/parser"
	"github.com/koltyakov/orgimport/internal/validator"
	apperrors "github.com/koltyakov/orgimport/pkg/errors"
	"github.com/koltyakov/orgimport/pkg/types"
)

// Deps are the collaborators an Importer writes through.
// Tx is optional; without it UseTransaction has no effect.
type Deps struct {
	Departments domain.DepartmentRepository
	Positions   domain.PositionRepository
	Employees   domain.EmployeeRepository
	Tx          domain.Transactional
}

// Options control the error policy of one import call
type Options struct {
	UseTransaction bool
	SkipOnError    bool

	// Per-kind delimiters used by ImportFullOrgStructure; empty means ","
	DepartmentDelimiter string
	PositionDelimiter   string
	EmployeeDelimiter   string
}

// Importer drives parse, validate, construct and persist for each entity kind
type Importer struct {
	deps      Deps
	validator *validator.Validator
	logger    *logging.Logger
}

// New creates an Importer
func New(deps Deps, logger *logging.Logger) *Importer {
	if logger == nil {
		logger = logging.New(false)
	}
	return &Importer{
		deps:      deps,
		validator: validator.New(deps.Departments, deps.Positions),
		logger:    logger.WithPrefix("importer"),
	}
}

// txScope wraps one optional transaction. finish rolls back unless commit
// succeeded, so every early return of the owner undoes its writes.
type txScope struct {
	tx        domain.Transactional
	logger    *logging.Logger
	committed bool
}

func (imp *Importer) begin(ctx context.Context, enabled bool) (*txScope, error) {
	scope := &txScope{logger: imp.logger}
	if !enabled {
		return scope, nil
	}
	if imp.deps.Tx == nil {
		imp.logger.Debug("transaction requested but no transactional store is configured")
		return scope, nil
	}
	if err := imp.deps.Tx.Begin(ctx); err != nil {
		return nil, apperrors.NewDBError("importer.begin", "failed to begin transaction", err)
	}
	scope.tx = imp.deps.Tx
	return scope, nil
}

func (s *txScope) commit() error {
	if s.tx == nil {
		return nil
	}
	if err := s.tx.Commit(); err != nil {
		return apperrors.NewDBError("importer.commit", "failed to commit transaction", err)
	}
	s.committed = true
	return nil
}

func (s *txScope) finish() {
	if s.tx == nil || s.committed {
		return
	}
	if err := s.tx.Rollback(); err != nil {
		s.logger.Error("rollback failed: %v", err)
		return
	}
	s.logger.Debug("transaction rolled back")
}

// rowError records a row construction failure
func rowError(row types.Row, err error) types.ImportError {
	return types.NewImportError(types.ErrTypeConstruction, err.Error(), row.Number, row.Data())
}

// failure converts an aborting error into a failure-only result
func failure(err error) *types.ImportResult {
	return types.Failure(types.NewImportError(errorType(err), messageOf(err), 0, nil))
}

func errorType(err error) string {
	switch apperrors.TypeOf(err) {
	case apperrors.ErrorTypeInput, apperrors.ErrorTypeIO:
		return types.ErrTypeInput
	case apperrors.ErrorTypeRelationship:
		return types.ErrTypeRelationship
	case apperrors.ErrorTypeHierarchy:
		return types.ErrTypeHierarchy
	default:
		return types.ErrTypeSystem
	}
}

// messageOf keeps input errors readable and leaves the rest untouched
func messageOf(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && (appErr.Type == apperrors.ErrorTypeInput || appErr.Type == apperrors.ErrorTypeIO) {
		return appErr.Message
	}
	return err.Error()
}

func delimiterOr(delimiter string) string {
	if delimiter == "" {
		return parser.DefaultDelimiter
	}
	return delimiter
}

func canProceed(r *types.ImportResult) bool {
	return r.IsSuccess() || r.IsPartialSuccess()
}

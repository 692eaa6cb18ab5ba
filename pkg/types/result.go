package types

// Status is the outcome of an import run, derived from its counters
type Status string

const (
	StatusSuccess Status = "success"
	StatusPartial Status = "partial_success"
	StatusFailure Status = "failure"
)

// Entity count keys carried in ImportResult.Counts
const (
	CountDepartmentsCreated = "departmentsCreated"
	CountPositionsCreated   = "positionsCreated"
	CountEmployeesCreated   = "employeesCreated"
	CountEmployeesUpdated   = "employeesUpdated"
)

// ImportError types
const (
	ErrTypeImport       = "import"
	ErrTypeInput        = "input"
	ErrTypeConstruction = "construction"
	ErrTypeRelationship = "relationship"
	ErrTypeHierarchy    = "hierarchy"
	ErrTypeSystem       = "system"
)

// ImportError describes one failure. RowNumber 0 marks a batch-level error,
// in which case RowData carries diagnostic context instead of a source row.
type ImportError struct {
	Type      string         `json:"type"`
	Message   string         `json:"message"`
	RowNumber int            `json:"row"`
	RowData   map[string]any `json:"data,omitempty"`
}

// NewImportError creates an ImportError
func NewImportError(errType, message string, rowNumber int, data map[string]any) ImportError {
	return ImportError{
		Type:      errType,
		Message:   message,
		RowNumber: rowNumber,
		RowData:   data,
	}
}

// IsBatchLevel reports whether the error is attributed to the whole batch
func (e ImportError) IsBatchLevel() bool {
	return e.RowNumber == 0
}

// ImportResult aggregates one import run
type ImportResult struct {
	TotalProcessed int
	ImportedCount  int
	FailedCount    int
	Errors         []ImportError
	Counts         map[string]int
	Details        map[string]any
}

// NewImportResult returns an empty accumulator
func NewImportResult() *ImportResult {
	return &ImportResult{
		Errors:  []ImportError{},
		Counts:  map[string]int{},
		Details: map[string]any{},
	}
}

// Success returns a result with the given number of imported rows and no errors
func Success(imported int) *ImportResult {
	r := NewImportResult()
	r.ImportedCount = imported
	r.TotalProcessed = imported
	return r
}

// Failure returns a result made only of the given errors
func Failure(errs ...ImportError) *ImportResult {
	r := NewImportResult()
	r.Errors = append(r.Errors, errs...)
	r.FailedCount = len(errs)
	return r
}

// IncrementImported records one successfully imported row
func (r *ImportResult) IncrementImported() {
	r.ImportedCount++
	r.TotalProcessed++
}

// IncrementFailed records one failed row
func (r *ImportResult) IncrementFailed() {
	r.FailedCount++
	r.TotalProcessed++
}

// AddError appends an error, preserving encounter order
func (r *ImportResult) AddError(err ImportError) {
	r.Errors = append(r.Errors, err)
}

// IncrementCount bumps a per-kind entity counter
func (r *ImportResult) IncrementCount(key string) {
	if r.Counts == nil {
		r.Counts = map[string]int{}
	}
	r.Counts[key]++
}

// Count returns a per-kind entity counter
func (r *ImportResult) Count(key string) int {
	return r.Counts[key]
}

// SetDetails replaces the details map
func (r *ImportResult) SetDetails(details map[string]any) {
	r.Details = make(map[string]any, len(details))
	for k, v := range details {
		r.Details[k] = v
	}
}

// Merge returns a new result holding the field-wise sum of r and other.
// Errors keep their order: r's errors first, then other's.
func (r *ImportResult) Merge(other *ImportResult) *ImportResult {
	out := NewImportResult()
	for _, src := range []*ImportResult{r, other} {
		if src == nil {
			continue
		}
		out.TotalProcessed += src.TotalProcessed
		out.ImportedCount += src.ImportedCount
		out.FailedCount += src.FailedCount
		out.Errors = append(out.Errors, src.Errors...)
		for k, v := range src.Counts {
			out.Counts[k] += v
		}
		for k, v := range src.Details {
			out.Details[k] = v
		}
	}
	return out
}

// Status derives the outcome from the counters.
// A batch-level error always denies full success.
func (r *ImportResult) Status() Status {
	if r.FailedCount == 0 && !r.hasBatchErrors() {
		return StatusSuccess
	}
	if r.ImportedCount > 0 {
		return StatusPartial
	}
	return StatusFailure
}

// IsSuccess reports a full success
func (r *ImportResult) IsSuccess() bool {
	return r.Status() == StatusSuccess
}

// IsPartialSuccess reports that some rows succeeded and some failed
func (r *ImportResult) IsPartialSuccess() bool {
	return r.Status() == StatusPartial
}

// IsFailure reports that nothing was imported
func (r *ImportResult) IsFailure() bool {
	return r.Status() == StatusFailure
}

func (r *ImportResult) hasBatchErrors() bool {
	for _, e := range r.Errors {
		if e.IsBatchLevel() {
			return true
		}
	}
	return false
}

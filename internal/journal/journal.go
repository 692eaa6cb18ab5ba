package journal

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/koltyakov/orgimport/pkg/types"
)

// Entry records one import run
type Entry struct {
	RunID          string         `json:"runId"`
	Kind           string         `json:"kind"`
	Sources        []string       `json:"sources"`
	StartedAt      time.Time      `json:"startedAt"`
	FinishedAt     time.Time      `json:"finishedAt"`
	Status         types.Status   `json:"status"`
	DryRun         bool           `json:"dryRun,omitempty"`
	TotalProcessed int            `json:"totalProcessed"`
	Imported       int            `json:"imported"`
	Failed         int            `json:"failed"`
	Counts         map[string]int `json:"counts,omitempty"`
}

// Duration returns how long the run took
func (e Entry) Duration() time.Duration {
	return e.FinishedAt.Sub(e.StartedAt)
}

// NewEntry summarizes a finished run under a fresh run ID
func NewEntry(kind string, sources []string, startedAt time.Time, result *types.ImportResult) Entry {
	counts := make(map[string]int, len(result.Counts))
	for k, v := range result.Counts {
		counts[k] = v
	}
	return Entry{
		RunID:          uuid.NewString(),
		Kind:           kind,
		Sources:        append([]string(nil), sources...),
		StartedAt:      startedAt.UTC(),
		FinishedAt:     time.Now().UTC(),
		Status:         result.Status(),
		TotalProcessed: result.TotalProcessed,
		Imported:       result.ImportedCount,
		Failed:         result.FailedCount,
		Counts:         counts,
	}
}

// File manages the journal file
type File struct {
	mu      sync.RWMutex
	path    string
	entries []Entry
}

// Load reads the journal; a missing file yields an empty journal
func Load(path string) (*File, error) {
	f := &File{path: path}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return f, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read journal file: %w", err)
	}
	if len(data) == 0 {
		return f, nil
	}

	if err := json.Unmarshal(data, &f.entries); err != nil {
		return nil, fmt.Errorf("failed to parse journal file: %w", err)
	}
	return f, nil
}

// Path returns the journal file location
func (f *File) Path() string {
	return f.path
}

// Append adds an entry and rewrites the file
func (f *File) Append(e Entry) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.entries = append(f.entries, e)
	return f.save()
}

// Entries returns a copy of all entries, oldest first
func (f *File) Entries() []Entry {
	f.mu.RLock()
	defer f.mu.RUnlock()

	result := make([]Entry, len(f.entries))
	copy(result, f.entries)
	return result
}

// Recent returns up to n entries, newest first. n <= 0 means all.
func (f *File) Recent(n int) []Entry {
	entries := f.Entries()
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].StartedAt.After(entries[j].StartedAt)
	})
	if n > 0 && n < len(entries) {
		entries = entries[:n]
	}
	return entries
}

// Len returns the number of recorded runs
func (f *File) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.entries)
}

// save writes the journal to disk atomically
func (f *File) save() error {
	sorted := make([]Entry, len(f.entries))
	copy(sorted, f.entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartedAt.Before(sorted[j].StartedAt)
	})

	data, err := json.MarshalIndent(sorted, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal journal: %w", err)
	}

	tmpPath := f.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := os.Rename(tmpPath, f.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}

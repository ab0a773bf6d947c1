// Package store persists run results: which scenario ran, with what
// parameters, and the occupancy tables and summaries it produced. The CLI
// uses only the Store interface; the implementation is SQLite or
// in-memory.
package store

import (
	"errors"

	"strokesim/internal/runner"
)

// DefaultDBPath is the default relative path for the SQLite DB
// (per-workspace). Open() creates the parent dir (e.g. .strokesim).
const DefaultDBPath = ".strokesim/strokesim.db"

// ErrNotFound is returned when a requested run does not exist.
var ErrNotFound = errors.New("run not found")

// Run is one recorded simulation run (a full set of replications).
type Run struct {
	ID           int64
	Scenario     string
	NumberOfRuns int
	WarmUp       float64
	Collection   float64
	ParamsYAML   string // full parameter set, for reproducibility
	CreatedAt    string // ISO 8601 UTC
}

// UnitResult holds one unit's outputs for a run.
type UnitResult struct {
	Unit      string
	Occupancy []runner.OccupancyRow
	Summary   runner.UnitSummary
}

// Store is the persistence facade for run results.
type Store interface {
	// CreateRun records a run's metadata and returns its ID.
	CreateRun(run *Run) (int64, error)
	// SaveUnitResult stores one unit's occupancy table and summary.
	SaveUnitResult(runID int64, res *UnitResult) error
	// GetRun fetches run metadata; ErrNotFound if absent.
	GetRun(runID int64) (*Run, error)
	// ListRuns returns all runs, newest first.
	ListRuns() ([]*Run, error)
	// GetUnitResults fetches all unit results for a run.
	GetUnitResults(runID int64) ([]*UnitResult, error)
	// Close releases the underlying resources.
	Close() error
}

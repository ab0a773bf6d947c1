package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"strokesim/internal/model"
	"strokesim/internal/runner"
)

// nowUTC returns the current UTC time as an ISO 8601 string.
func nowUTC() string { return time.Now().UTC().Format(time.RFC3339) }

// SqlStore implements Store with SQLite.
type SqlStore struct {
	db *sql.DB
}

// Open opens or creates a SQLite DB at path and runs migrations. Creates
// the parent directory (e.g. .strokesim) if it does not exist.
func Open(path string) (*SqlStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	s := &SqlStore{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SqlStore) migrate() error {
	var tableCount int
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableCount)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}
	if tableCount == 0 {
		if _, err := s.db.Exec(schemaV1); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_version(version) VALUES(?)", schemaVersion1); err != nil {
			return fmt.Errorf("set schema version: %w", err)
		}
		return nil
	}

	var v int
	if err := s.db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&v); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if v != schemaVersion1 {
		return fmt.Errorf("unknown schema version %d", v)
	}
	return nil
}

// Close closes the underlying database.
func (s *SqlStore) Close() error { return s.db.Close() }

func (s *SqlStore) CreateRun(run *Run) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO runs(scenario, number_of_runs, warm_up, collection, params_yaml, created_at)
		 VALUES(?, ?, ?, ?, ?, ?)`,
		run.Scenario, run.NumberOfRuns, run.WarmUp, run.Collection, run.ParamsYAML, nowUTC())
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("run id: %w", err)
	}
	return id, nil
}

func (s *SqlStore) SaveUnitResult(runID int64, res *UnitResult) error {
	// SQLite does not enforce the FK without a pragma; check explicitly so
	// both implementations reject unknown runs the same way.
	if _, err := s.GetRun(runID); err != nil {
		return err
	}
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, row := range res.Occupancy {
		if _, err := tx.Exec(
			`INSERT INTO occupancy_rows(run_id, unit, beds, freq, pct, c_pct, prob_delay)
			 VALUES(?, ?, ?, ?, ?, ?, ?)`,
			runID, res.Unit, row.Beds, row.Freq, row.Pct, row.CPct, row.ProbDelay); err != nil {
			return fmt.Errorf("insert occupancy row: %w", err)
		}
	}
	sum := res.Summary
	if _, err := tx.Exec(
		`INSERT INTO unit_summaries(run_id, unit, mean_occupancy, sd_occupancy, ci_low, ci_high, mean_admitted)
		 VALUES(?, ?, ?, ?, ?, ?, ?)`,
		runID, res.Unit, sum.MeanOccupancy, sum.SDOccupancy, sum.CILow, sum.CIHigh, sum.MeanAdmitted); err != nil {
		return fmt.Errorf("insert summary: %w", err)
	}
	return tx.Commit()
}

func (s *SqlStore) GetRun(runID int64) (*Run, error) {
	run := &Run{}
	err := s.db.QueryRow(
		`SELECT id, scenario, number_of_runs, warm_up, collection, params_yaml, created_at
		 FROM runs WHERE id = ?`, runID).
		Scan(&run.ID, &run.Scenario, &run.NumberOfRuns, &run.WarmUp,
			&run.Collection, &run.ParamsYAML, &run.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %d: %w", runID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return run, nil
}

func (s *SqlStore) ListRuns() ([]*Run, error) {
	rows, err := s.db.Query(
		`SELECT id, scenario, number_of_runs, warm_up, collection, params_yaml, created_at
		 FROM runs ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run := &Run{}
		if err := rows.Scan(&run.ID, &run.Scenario, &run.NumberOfRuns, &run.WarmUp,
			&run.Collection, &run.ParamsYAML, &run.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (s *SqlStore) GetUnitResults(runID int64) ([]*UnitResult, error) {
	if _, err := s.GetRun(runID); err != nil {
		return nil, err
	}

	byUnit := map[string]*UnitResult{}
	order := []string{}

	occ, err := s.db.Query(
		`SELECT unit, beds, freq, pct, c_pct, prob_delay
		 FROM occupancy_rows WHERE run_id = ? ORDER BY unit, beds`, runID)
	if err != nil {
		return nil, fmt.Errorf("query occupancy: %w", err)
	}
	defer occ.Close()
	for occ.Next() {
		var unit string
		var row runner.OccupancyRow
		if err := occ.Scan(&unit, &row.Beds, &row.Freq, &row.Pct, &row.CPct, &row.ProbDelay); err != nil {
			return nil, fmt.Errorf("scan occupancy: %w", err)
		}
		res, ok := byUnit[unit]
		if !ok {
			res = &UnitResult{Unit: unit}
			byUnit[unit] = res
			order = append(order, unit)
		}
		res.Occupancy = append(res.Occupancy, row)
	}
	if err := occ.Err(); err != nil {
		return nil, err
	}

	sums, err := s.db.Query(
		`SELECT unit, mean_occupancy, sd_occupancy, ci_low, ci_high, mean_admitted
		 FROM unit_summaries WHERE run_id = ?`, runID)
	if err != nil {
		return nil, fmt.Errorf("query summaries: %w", err)
	}
	defer sums.Close()
	for sums.Next() {
		var unit string
		var sum runner.UnitSummary
		if err := sums.Scan(&unit, &sum.MeanOccupancy, &sum.SDOccupancy,
			&sum.CILow, &sum.CIHigh, &sum.MeanAdmitted); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		sum.Unit = model.Unit(unit)
		res, ok := byUnit[unit]
		if !ok {
			res = &UnitResult{Unit: unit}
			byUnit[unit] = res
			order = append(order, unit)
		}
		res.Summary = sum
	}
	if err := sums.Err(); err != nil {
		return nil, err
	}

	out := make([]*UnitResult, 0, len(order))
	for _, unit := range order {
		out = append(out, byUnit[unit])
	}
	return out, nil
}

// Package runner executes replications of the pathway model and reduces
// their audit trails into the capacity-planning outputs: per-unit
// occupancy frequency tables and cross-replication summary statistics.
package runner

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"strokesim/internal/logging"
	"strokesim/internal/model"
	"strokesim/internal/params"
)

// Result is the output of one replication.
type Result struct {
	RunNumber  int
	Audits     []model.AuditEntry
	Admissions map[model.Unit]int
}

// Runner executes replications for one parameter set.
type Runner struct {
	Param params.Param
}

// New returns a Runner for the given parameters.
func New(p params.Param) *Runner {
	return &Runner{Param: p}
}

// RunSingle executes one replication with the given run number.
func (r *Runner) RunSingle(runNumber int) (*Result, error) {
	m, err := model.New(r.Param, runNumber)
	if err != nil {
		return nil, fmt.Errorf("build model for run %d: %w", runNumber, err)
	}
	m.Run()

	admissions := map[model.Unit]int{model.ASU: 0, model.Rehab: 0}
	for _, pat := range m.Patients {
		admissions[pat.Unit]++
	}
	return &Result{
		RunNumber:  runNumber,
		Audits:     m.Audits,
		Admissions: admissions,
	}, nil
}

// RunAll executes NumberOfRuns replications, run numbers 0..n-1, using up
// to Cores workers. Results are ordered by run number regardless of
// completion order, so output is identical whether the run was serial or
// parallel.
func (r *Runner) RunAll(ctx context.Context) ([]*Result, error) {
	n := r.Param.NumberOfRuns
	logger := logging.New("runner")
	logger.Info("starting replications", "runs", n, "cores", r.Param.Cores)

	results := make([]*Result, n)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.Param.Cores)

	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := r.RunSingle(i)
			if err != nil {
				return err
			}
			results[i] = res
			logger.Debug("replication complete", "run", i, "audits", len(res.Audits))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// PoolAudits concatenates the audit trails of all replications. The
// occupancy frequency analysis treats every audited day across every
// replication as one observation.
func PoolAudits(results []*Result) []model.AuditEntry {
	var pooled []model.AuditEntry
	for _, res := range results {
		pooled = append(pooled, res.Audits...)
	}
	return pooled
}

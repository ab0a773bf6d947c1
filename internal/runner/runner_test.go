package runner_test

import (
	"context"
	"math"
	"testing"

	"strokesim/internal/model"
	"strokesim/internal/params"
	"strokesim/internal/runner"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// smallParam keeps replication tests quick.
func smallParam() params.Param {
	p := params.Defaults()
	p.WarmUpPeriod = 20
	p.DataCollectionPeriod = 100
	p.NumberOfRuns = 4
	return p
}

func TestOccupancyFrequency(t *testing.T) {
	// Audit data with occupancy 1 seen four times, 2 three times, 3
	// twice, and 4 once; rehab shifted one bed up.
	var audits []model.AuditEntry
	for _, cv := range []struct{ count, value int }{{4, 1}, {3, 2}, {2, 3}, {1, 4}} {
		for i := 0; i < cv.count; i++ {
			audits = append(audits, model.AuditEntry{
				ASUOccupancy:   cv.value,
				RehabOccupancy: cv.value + 1,
			})
		}
	}

	rows, err := runner.OccupancyFrequency(audits, model.ASU)
	if err != nil {
		t.Fatalf("OccupancyFrequency: %v", err)
	}

	want := []runner.OccupancyRow{
		{Beds: 1, Freq: 4, Pct: 0.4, CPct: 0.4, ProbDelay: 1.0},
		{Beds: 2, Freq: 3, Pct: 0.3, CPct: 0.7, ProbDelay: 0.3 / 0.7},
		{Beds: 3, Freq: 2, Pct: 0.2, CPct: 0.9, ProbDelay: 0.2 / 0.9},
		{Beds: 4, Freq: 1, Pct: 0.1, CPct: 1.0, ProbDelay: 0.1 / 1.0},
	}
	approx := cmpopts.EquateApprox(0, 1e-12)
	if diff := cmp.Diff(want, rows, approx); diff != "" {
		t.Errorf("asu frequency table mismatch:\n%s", diff)
	}

	// Rehab view of the same audits: same shape, beds shifted by one.
	rehabRows, err := runner.OccupancyFrequency(audits, model.Rehab)
	if err != nil {
		t.Fatalf("OccupancyFrequency rehab: %v", err)
	}
	for i, row := range rehabRows {
		if row.Beds != want[i].Beds+1 {
			t.Errorf("rehab row %d beds = %d, want %d", i, row.Beds, want[i].Beds+1)
		}
	}
}

func TestOccupancyFrequency_Empty(t *testing.T) {
	if _, err := runner.OccupancyFrequency(nil, model.ASU); err == nil {
		t.Fatal("expected error for empty audit list")
	}
}

func TestBedsForDelayTarget(t *testing.T) {
	rows := []runner.OccupancyRow{
		{Beds: 1, ProbDelay: 1.0},
		{Beds: 2, ProbDelay: 0.42},
		{Beds: 3, ProbDelay: 0.22},
		{Beds: 4, ProbDelay: 0.1},
	}
	if got := runner.BedsForDelayTarget(rows, 0.25); got != 3 {
		t.Errorf("BedsForDelayTarget(0.25) = %d, want 3", got)
	}
	if got := runner.BedsForDelayTarget(rows, 0.001); got != 4 {
		t.Errorf("unreachable target should return highest level, got %d", got)
	}
}

func TestRunSingle_Deterministic(t *testing.T) {
	r := runner.New(smallParam())
	a, err := r.RunSingle(3)
	if err != nil {
		t.Fatalf("RunSingle: %v", err)
	}
	b, err := r.RunSingle(3)
	if err != nil {
		t.Fatalf("RunSingle: %v", err)
	}
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("repeated run 3 differs:\n%s", diff)
	}
}

func TestRunAll_OrderedAndSeedsDistinct(t *testing.T) {
	r := runner.New(smallParam())
	results, err := r.RunAll(context.Background())
	if err != nil {
		t.Fatalf("RunAll: %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("len(results) = %d, want 4", len(results))
	}
	for i, res := range results {
		if res.RunNumber != i {
			t.Errorf("results[%d].RunNumber = %d", i, res.RunNumber)
		}
	}
	// Different run numbers must not produce identical audit trails.
	if cmp.Equal(results[0].Audits, results[1].Audits) {
		t.Error("runs 0 and 1 produced identical audits")
	}
}

func TestRunAll_ParallelMatchesSerial(t *testing.T) {
	p := smallParam()
	p.Cores = 1
	serial, err := runner.New(p).RunAll(context.Background())
	if err != nil {
		t.Fatalf("serial RunAll: %v", err)
	}

	p.Cores = 4
	parallel, err := runner.New(p).RunAll(context.Background())
	if err != nil {
		t.Fatalf("parallel RunAll: %v", err)
	}

	if diff := cmp.Diff(serial, parallel); diff != "" {
		t.Errorf("parallel results differ from serial:\n%s", diff)
	}
}

func TestRunAll_Cancelled(t *testing.T) {
	p := smallParam()
	p.NumberOfRuns = 64
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := runner.New(p).RunAll(ctx); err == nil {
		t.Fatal("expected error from cancelled context")
	}
}

func TestPoolAudits(t *testing.T) {
	a := &runner.Result{Audits: []model.AuditEntry{{Time: 1}, {Time: 2}}}
	b := &runner.Result{Audits: []model.AuditEntry{{Time: 1}}}
	pooled := runner.PoolAudits([]*runner.Result{a, b})
	if len(pooled) != 3 {
		t.Errorf("len(pooled) = %d, want 3", len(pooled))
	}
}

func TestSummarize(t *testing.T) {
	results := []*runner.Result{
		{
			RunNumber:  0,
			Audits:     []model.AuditEntry{{ASUOccupancy: 2}, {ASUOccupancy: 4}},
			Admissions: map[model.Unit]int{model.ASU: 10},
		},
		{
			RunNumber:  1,
			Audits:     []model.AuditEntry{{ASUOccupancy: 4}, {ASUOccupancy: 6}},
			Admissions: map[model.Unit]int{model.ASU: 14},
		},
	}
	s, err := runner.Summarize(results, model.ASU)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if s.MeanOccupancy != 4 {
		t.Errorf("MeanOccupancy = %v, want 4", s.MeanOccupancy)
	}
	if s.MeanAdmitted != 12 {
		t.Errorf("MeanAdmitted = %v, want 12", s.MeanAdmitted)
	}
	if !(s.CILow < 4 && s.CIHigh > 4) {
		t.Errorf("CI [%v, %v] should straddle the mean", s.CILow, s.CIHigh)
	}
	if math.IsNaN(s.SDOccupancy) || s.SDOccupancy <= 0 {
		t.Errorf("SDOccupancy = %v, want positive", s.SDOccupancy)
	}
}

func TestSummarize_SingleRunCollapsesCI(t *testing.T) {
	results := []*runner.Result{{
		Audits:     []model.AuditEntry{{RehabOccupancy: 3}},
		Admissions: map[model.Unit]int{model.Rehab: 1},
	}}
	s, err := runner.Summarize(results, model.Rehab)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if s.CILow != s.MeanOccupancy || s.CIHigh != s.MeanOccupancy {
		t.Errorf("single-run CI should collapse to the mean, got [%v, %v]", s.CILow, s.CIHigh)
	}
}

func TestSummarize_Empty(t *testing.T) {
	if _, err := runner.Summarize(nil, model.ASU); err == nil {
		t.Fatal("expected error for no results")
	}
}

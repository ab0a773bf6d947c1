package runner

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"strokesim/internal/model"
)

// UnitSummary aggregates one unit's occupancy across replications.
type UnitSummary struct {
	Unit          model.Unit
	MeanOccupancy float64 // mean of per-replication mean occupancies
	SDOccupancy   float64
	CILow         float64 // 95% CI of the mean occupancy
	CIHigh        float64
	MeanAdmitted  float64 // mean admissions per replication
}

// Summarize computes per-unit summaries across replications. At least two
// replications are needed for a confidence interval; with one, the CI
// collapses to the point estimate.
func Summarize(results []*Result, unit model.Unit) (*UnitSummary, error) {
	if len(results) == 0 {
		return nil, fmt.Errorf("no results to summarize")
	}

	means := make([]float64, 0, len(results))
	admitted := make([]float64, 0, len(results))
	for _, res := range results {
		if len(res.Audits) == 0 {
			return nil, fmt.Errorf("run %d has no audit entries", res.RunNumber)
		}
		occ := make([]float64, len(res.Audits))
		for i, a := range res.Audits {
			switch unit {
			case model.ASU:
				occ[i] = float64(a.ASUOccupancy)
			case model.Rehab:
				occ[i] = float64(a.RehabOccupancy)
			default:
				return nil, fmt.Errorf("unknown unit %q", unit)
			}
		}
		means = append(means, stat.Mean(occ, nil))
		admitted = append(admitted, float64(res.Admissions[unit]))
	}

	s := &UnitSummary{
		Unit:          unit,
		MeanOccupancy: stat.Mean(means, nil),
		MeanAdmitted:  stat.Mean(admitted, nil),
	}
	s.CILow, s.CIHigh = s.MeanOccupancy, s.MeanOccupancy
	if len(means) > 1 {
		s.SDOccupancy = stat.StdDev(means, nil)
		half := tCritical95(len(means)-1) * s.SDOccupancy / math.Sqrt(float64(len(means)))
		s.CILow = s.MeanOccupancy - half
		s.CIHigh = s.MeanOccupancy + half
	}
	return s, nil
}

// tCritical95 returns the two-sided 95% Student's t critical value.
func tCritical95(df int) float64 {
	t := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(df), Src: rand.NewSource(1)}
	return t.Quantile(0.975)
}

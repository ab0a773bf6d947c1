package runner

import (
	"fmt"
	"sort"

	"strokesim/internal/model"
)

// OccupancyRow is one line of the occupancy frequency table for a unit.
// Beds is an observed occupancy level; Freq how many audit snapshots saw
// it; Pct its share of all snapshots; CPct the cumulative share up to and
// including this level; ProbDelay the probability that a patient arriving
// when the ward is provisioned with Beds beds finds them all occupied,
// estimated as Pct/CPct.
type OccupancyRow struct {
	Beds      int
	Freq      int
	Pct       float64
	CPct      float64
	ProbDelay float64
}

// OccupancyFrequency reduces an audit trail to the frequency table for
// one unit. Rows are sorted by occupancy level ascending and cover only
// observed levels.
func OccupancyFrequency(audits []model.AuditEntry, unit model.Unit) ([]OccupancyRow, error) {
	if len(audits) == 0 {
		return nil, fmt.Errorf("no audit entries for unit %s", unit)
	}

	counts := map[int]int{}
	for _, a := range audits {
		switch unit {
		case model.ASU:
			counts[a.ASUOccupancy]++
		case model.Rehab:
			counts[a.RehabOccupancy]++
		default:
			return nil, fmt.Errorf("unknown unit %q", unit)
		}
	}

	levels := make([]int, 0, len(counts))
	for level := range counts {
		levels = append(levels, level)
	}
	sort.Ints(levels)

	total := float64(len(audits))
	rows := make([]OccupancyRow, 0, len(levels))
	cum := 0.0
	for _, level := range levels {
		pct := float64(counts[level]) / total
		cum += pct
		rows = append(rows, OccupancyRow{
			Beds:      level,
			Freq:      counts[level],
			Pct:       pct,
			CPct:      cum,
			ProbDelay: pct / cum,
		})
	}
	return rows, nil
}

// BedsForDelayTarget returns the smallest occupancy level whose delay
// probability is at or below target, or the highest observed level if
// none qualifies.
func BedsForDelayTarget(rows []OccupancyRow, target float64) int {
	for _, row := range rows {
		if row.ProbDelay <= target {
			return row.Beds
		}
	}
	return rows[len(rows)-1].Beds
}

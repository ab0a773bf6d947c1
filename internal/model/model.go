// Package model implements the stroke pathway: patients arrive at the
// acute stroke unit (ASU) or directly at the rehab unit, occupy a bed for
// a sampled length of stay, and are routed onwards. Capacity is
// unconstrained; the point of the model is the occupancy distribution,
// from which bed requirements and delay probabilities are derived.
package model

import (
	"fmt"

	"strokesim/internal/des"
	"strokesim/internal/distribution"
	"strokesim/internal/params"
)

// Unit identifies one of the two simulated wards.
type Unit string

const (
	ASU   Unit = "asu"
	Rehab Unit = "rehab"
)

// PatientType identifies a patient class.
type PatientType string

const (
	Stroke PatientType = "stroke"
	TIA    PatientType = "tia"
	Neuro  PatientType = "neuro"
	Other  PatientType = "other"
)

// Post-unit destinations.
const (
	DestRehab = "rehab"
	DestESD   = "esd"
	DestOther = "other"
)

// ASUTypes and RehabTypes list the patient classes with an external
// arrival stream into each unit, in the fixed order used for seeding.
var (
	ASUTypes   = []PatientType{Stroke, TIA, Neuro, Other}
	RehabTypes = []PatientType{Stroke, Neuro, Other}
)

// Patient is one admission recorded during the data collection period.
type Patient struct {
	Type      PatientType
	Unit      Unit    // unit first admitted to by this record
	ArrivedAt float64 // simulation day of admission
	LOS       float64 // sampled stay in that unit
	Dest      string  // sampled post-unit destination
}

// AuditEntry is one snapshot of ward occupancy.
type AuditEntry struct {
	Time           float64
	ASUOccupancy   int
	RehabOccupancy int
}

// Model is a single replication of the pathway simulation.
type Model struct {
	Param     params.Param
	RunNumber int
	Env       *des.Environment

	// ArrivalDist maps unit then patient type to its inter-arrival
	// distribution. Keys mirror ASUTypes/RehabTypes exactly.
	ArrivalDist map[Unit]map[PatientType]*distribution.Exponential

	losDist     map[Unit]map[string]*distribution.Lognormal
	routingDist map[Unit]map[PatientType]*distribution.Discrete

	occupancy map[Unit]int

	// Patients holds admissions observed during the data collection
	// period; Audits holds the occupancy snapshots over the same window.
	Patients []*Patient
	Audits   []AuditEntry
}

// New builds a model for one replication. Distributions are created in a
// fixed order from seeds spawned off runNumber, so two models with equal
// run numbers sample identically.
func New(p params.Param, runNumber int) (*Model, error) {
	m := &Model{
		Param:       p,
		RunNumber:   runNumber,
		Env:         des.NewEnvironment(),
		ArrivalDist: map[Unit]map[PatientType]*distribution.Exponential{ASU: {}, Rehab: {}},
		losDist:     map[Unit]map[string]*distribution.Lognormal{ASU: {}, Rehab: {}},
		routingDist: map[Unit]map[PatientType]*distribution.Discrete{ASU: {}, Rehab: {}},
		occupancy:   map[Unit]int{ASU: 0, Rehab: 0},
	}

	sp := distribution.NewSpawner(runNumber)
	if err := m.buildArrivals(sp); err != nil {
		return nil, err
	}
	if err := m.buildLOS(sp); err != nil {
		return nil, err
	}
	if err := m.buildRouting(sp); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Model) buildArrivals(sp *distribution.Spawner) error {
	asuMeans := map[PatientType]float64{
		Stroke: m.Param.ASUArrivals.Stroke,
		TIA:    m.Param.ASUArrivals.TIA,
		Neuro:  m.Param.ASUArrivals.Neuro,
		Other:  m.Param.ASUArrivals.Other,
	}
	for _, pt := range ASUTypes {
		d, err := distribution.NewExponential(asuMeans[pt], sp.Next())
		if err != nil {
			return fmt.Errorf("asu arrivals %s: %w", pt, err)
		}
		m.ArrivalDist[ASU][pt] = d
	}

	rehabMeans := map[PatientType]float64{
		Stroke: m.Param.RehabArrivals.Stroke,
		Neuro:  m.Param.RehabArrivals.Neuro,
		Other:  m.Param.RehabArrivals.Other,
	}
	for _, pt := range RehabTypes {
		d, err := distribution.NewExponential(rehabMeans[pt], sp.Next())
		if err != nil {
			return fmt.Errorf("rehab arrivals %s: %w", pt, err)
		}
		m.ArrivalDist[Rehab][pt] = d
	}
	return nil
}

// losKeys is the fixed seeding order for length-of-stay streams within a
// unit. Stroke is split by destination: patients leaving to early
// supported discharge have a different stay profile.
var losKeys = []string{"stroke_no_esd", "stroke_esd", "tia", "neuro", "other"}

func (m *Model) buildLOS(sp *distribution.Spawner) error {
	for _, unit := range []Unit{ASU, Rehab} {
		ul := m.Param.ASULOS
		if unit == Rehab {
			ul = m.Param.RehabLOS
		}
		byKey := map[string]params.LOS{
			"stroke_no_esd": ul.StrokeNoESD,
			"stroke_esd":    ul.StrokeESD,
			"tia":           ul.TIA,
			"neuro":         ul.Neuro,
			"other":         ul.Other,
		}
		for _, key := range losKeys {
			d, err := distribution.NewLognormal(byKey[key].Mean, byKey[key].SD, sp.Next())
			if err != nil {
				return fmt.Errorf("%s los %s: %w", unit, key, err)
			}
			m.losDist[unit][key] = d
		}
	}
	return nil
}

func (m *Model) buildRouting(sp *distribution.Spawner) error {
	asuRows := map[PatientType]params.Destinations{
		Stroke: m.Param.ASURouting.Stroke,
		TIA:    m.Param.ASURouting.TIA,
		Neuro:  m.Param.ASURouting.Neuro,
		Other:  m.Param.ASURouting.Other,
	}
	for _, pt := range ASUTypes {
		row := asuRows[pt]
		d, err := distribution.NewDiscrete(
			[]string{DestRehab, DestESD, DestOther},
			[]float64{row.Rehab, row.ESD, row.Other},
			sp.Next())
		if err != nil {
			return fmt.Errorf("asu routing %s: %w", pt, err)
		}
		m.routingDist[ASU][pt] = d
	}

	rehabRows := map[PatientType]params.RehabDestinations{
		Stroke: m.Param.RehabRouting.Stroke,
		TIA:    m.Param.RehabRouting.TIA,
		Neuro:  m.Param.RehabRouting.Neuro,
		Other:  m.Param.RehabRouting.Other,
	}
	// All four classes can pass through rehab (TIA arrives via the ASU),
	// so all four get a routing stream.
	for _, pt := range ASUTypes {
		row := rehabRows[pt]
		d, err := distribution.NewDiscrete(
			[]string{DestESD, DestOther},
			[]float64{row.ESD, row.Other},
			sp.Next())
		if err != nil {
			return fmt.Errorf("rehab routing %s: %w", pt, err)
		}
		m.routingDist[Rehab][pt] = d
	}
	return nil
}

// Run executes the replication: warm-up followed by the data collection
// period. Occupancy dynamics run throughout; patients and audits are only
// recorded once warm-up has elapsed.
func (m *Model) Run() {
	for _, pt := range ASUTypes {
		m.scheduleNextArrival(ASU, pt)
	}
	for _, pt := range RehabTypes {
		m.scheduleNextArrival(Rehab, pt)
	}

	end := m.Param.WarmUpPeriod + m.Param.DataCollectionPeriod
	if m.Param.DataCollectionPeriod > 0 {
		m.Env.Schedule(m.Param.WarmUpPeriod, m.audit)
	}
	m.Env.Run(end)
}

// Occupancy returns the current bed count in a unit. Used by tests.
func (m *Model) Occupancy(unit Unit) int {
	return m.occupancy[unit]
}

func (m *Model) scheduleNextArrival(unit Unit, pt PatientType) {
	delay := m.ArrivalDist[unit][pt].Sample()
	m.Env.Schedule(delay, func() {
		m.admit(unit, pt)
		m.scheduleNextArrival(unit, pt)
	})
}

// admit places a patient in a unit, samples destination and stay, and
// schedules the discharge. Patients routed from the ASU to rehab re-enter
// admit for the rehab leg.
func (m *Model) admit(unit Unit, pt PatientType) {
	m.occupancy[unit]++

	dest := m.routingDist[unit][pt].Sample()
	los := m.losDist[unit][m.losKey(pt, dest)].Sample()

	if m.Env.Now() >= m.Param.WarmUpPeriod && m.Param.DataCollectionPeriod > 0 {
		m.Patients = append(m.Patients, &Patient{
			Type:      pt,
			Unit:      unit,
			ArrivedAt: m.Env.Now(),
			LOS:       los,
			Dest:      dest,
		})
	}

	m.Env.Schedule(los, func() {
		m.occupancy[unit]--
		if unit == ASU && dest == DestRehab {
			m.admit(Rehab, pt)
		}
	})
}

// losKey selects the length-of-stay stream for a patient. Only stroke
// patients have destination-dependent stays.
func (m *Model) losKey(pt PatientType, dest string) string {
	if pt != Stroke {
		return string(pt)
	}
	if dest == DestESD {
		return "stroke_esd"
	}
	return "stroke_no_esd"
}

// audit snapshots ward occupancy and reschedules itself. The first audit
// fires as warm-up ends; later ones follow at the audit interval until
// the run ends.
func (m *Model) audit() {
	m.Audits = append(m.Audits, AuditEntry{
		Time:           m.Env.Now(),
		ASUOccupancy:   m.occupancy[ASU],
		RehabOccupancy: m.occupancy[Rehab],
	})
	m.Env.Schedule(m.Param.AuditInterval, m.audit)
}

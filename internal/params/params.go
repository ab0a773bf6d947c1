// Package params holds the model parameters: arrival rates, length-of-stay
// distributions, routing probabilities, and run control. Defaults are the
// base case from the published stroke pathway capacity model; overrides
// come from YAML/JSON files loaded strictly, so a misspelled key is an
// error rather than a silently ignored setting.
package params

import "fmt"

// ASUArrivals holds mean inter-arrival times (days) for admissions to the
// acute stroke unit, per patient type.
type ASUArrivals struct {
	Stroke float64 `yaml:"stroke" json:"stroke"`
	TIA    float64 `yaml:"tia" json:"tia"`
	Neuro  float64 `yaml:"neuro" json:"neuro"`
	Other  float64 `yaml:"other" json:"other"`
}

// RehabArrivals holds mean inter-arrival times (days) for patients
// admitted to the rehab unit directly, without passing through the ASU.
// TIA patients only ever reach rehab via the ASU, so there is no TIA
// external arrival stream.
type RehabArrivals struct {
	Stroke float64 `yaml:"stroke" json:"stroke"`
	Neuro  float64 `yaml:"neuro" json:"neuro"`
	Other  float64 `yaml:"other" json:"other"`
}

// LOS is one length-of-stay distribution: the observed mean and standard
// deviation in days of the lognormal stay length.
type LOS struct {
	Mean float64 `yaml:"mean" json:"mean"`
	SD   float64 `yaml:"sd" json:"sd"`
}

// UnitLOS holds the length-of-stay parameters for one unit. Stroke
// patients are split by whether they leave to early supported discharge
// (ESD), which shortens the acute stay.
type UnitLOS struct {
	StrokeNoESD LOS `yaml:"stroke_no_esd" json:"stroke_no_esd"`
	StrokeESD   LOS `yaml:"stroke_esd" json:"stroke_esd"`
	TIA         LOS `yaml:"tia" json:"tia"`
	Neuro       LOS `yaml:"neuro" json:"neuro"`
	Other       LOS `yaml:"other" json:"other"`
}

// ASURouting holds post-ASU destination probabilities per patient type.
// Each row must sum to 1.
type ASURouting struct {
	Stroke Destinations `yaml:"stroke" json:"stroke"`
	TIA    Destinations `yaml:"tia" json:"tia"`
	Neuro  Destinations `yaml:"neuro" json:"neuro"`
	Other  Destinations `yaml:"other" json:"other"`
}

// Destinations is one routing row out of the ASU.
type Destinations struct {
	Rehab float64 `yaml:"rehab" json:"rehab"`
	ESD   float64 `yaml:"esd" json:"esd"`
	Other float64 `yaml:"other" json:"other"`
}

// RehabRouting holds post-rehab destination probabilities per patient
// type. Each row must sum to 1.
type RehabRouting struct {
	Stroke RehabDestinations `yaml:"stroke" json:"stroke"`
	TIA    RehabDestinations `yaml:"tia" json:"tia"`
	Neuro  RehabDestinations `yaml:"neuro" json:"neuro"`
	Other  RehabDestinations `yaml:"other" json:"other"`
}

// RehabDestinations is one routing row out of the rehab unit.
type RehabDestinations struct {
	ESD   float64 `yaml:"esd" json:"esd"`
	Other float64 `yaml:"other" json:"other"`
}

// Param is the full parameter set for one run.
type Param struct {
	ASUArrivals   ASUArrivals   `yaml:"asu_arrivals" json:"asu_arrivals"`
	RehabArrivals RehabArrivals `yaml:"rehab_arrivals" json:"rehab_arrivals"`
	ASULOS        UnitLOS       `yaml:"asu_los" json:"asu_los"`
	RehabLOS      UnitLOS       `yaml:"rehab_los" json:"rehab_los"`
	ASURouting    ASURouting    `yaml:"asu_routing" json:"asu_routing"`
	RehabRouting  RehabRouting  `yaml:"rehab_routing" json:"rehab_routing"`

	// Run control. Periods are in days.
	WarmUpPeriod         float64 `yaml:"warm_up_period" json:"warm_up_period"`
	DataCollectionPeriod float64 `yaml:"data_collection_period" json:"data_collection_period"`
	NumberOfRuns         int     `yaml:"number_of_runs" json:"number_of_runs"`
	AuditInterval        float64 `yaml:"audit_interval" json:"audit_interval"`
	Cores                int     `yaml:"cores" json:"cores"`
}

// Defaults returns the base-case parameter set.
func Defaults() Param {
	return Param{
		ASUArrivals:   ASUArrivals{Stroke: 1.2, TIA: 9.3, Neuro: 3.6, Other: 3.2},
		RehabArrivals: RehabArrivals{Stroke: 21.8, Neuro: 31.7, Other: 28.6},
		ASULOS: UnitLOS{
			StrokeNoESD: LOS{Mean: 7.4, SD: 8.61},
			StrokeESD:   LOS{Mean: 4.6, SD: 4.8},
			TIA:         LOS{Mean: 1.8, SD: 2.3},
			Neuro:       LOS{Mean: 4.0, SD: 5.0},
			Other:       LOS{Mean: 3.8, SD: 5.2},
		},
		RehabLOS: UnitLOS{
			StrokeNoESD: LOS{Mean: 28.4, SD: 27.2},
			StrokeESD:   LOS{Mean: 30.3, SD: 23.1},
			TIA:         LOS{Mean: 18.7, SD: 23.5},
			Neuro:       LOS{Mean: 27.6, SD: 28.4},
			Other:       LOS{Mean: 16.1, SD: 14.1},
		},
		ASURouting: ASURouting{
			Stroke: Destinations{Rehab: 0.24, ESD: 0.13, Other: 0.63},
			TIA:    Destinations{Rehab: 0.01, ESD: 0.01, Other: 0.98},
			Neuro:  Destinations{Rehab: 0.11, ESD: 0.05, Other: 0.84},
			Other:  Destinations{Rehab: 0.05, ESD: 0.10, Other: 0.85},
		},
		RehabRouting: RehabRouting{
			Stroke: RehabDestinations{ESD: 0.40, Other: 0.60},
			TIA:    RehabDestinations{ESD: 0.00, Other: 1.00},
			Neuro:  RehabDestinations{ESD: 0.09, Other: 0.91},
			Other:  RehabDestinations{ESD: 0.13, Other: 0.87},
		},
		WarmUpPeriod:         1095, // 3 years
		DataCollectionPeriod: 1825, // 5 years
		NumberOfRuns:         150,
		AuditInterval:        1,
		Cores:                1,
	}
}

// Validate checks the parameter set for values the model cannot run with.
func (p *Param) Validate() error {
	arrivals := []struct {
		name string
		mean float64
	}{
		{"asu_arrivals.stroke", p.ASUArrivals.Stroke},
		{"asu_arrivals.tia", p.ASUArrivals.TIA},
		{"asu_arrivals.neuro", p.ASUArrivals.Neuro},
		{"asu_arrivals.other", p.ASUArrivals.Other},
		{"rehab_arrivals.stroke", p.RehabArrivals.Stroke},
		{"rehab_arrivals.neuro", p.RehabArrivals.Neuro},
		{"rehab_arrivals.other", p.RehabArrivals.Other},
	}
	for _, a := range arrivals {
		if a.mean <= 0 {
			return fmt.Errorf("%s: inter-arrival mean must be positive, got %v", a.name, a.mean)
		}
	}

	losRows := []struct {
		name string
		los  LOS
	}{
		{"asu_los.stroke_no_esd", p.ASULOS.StrokeNoESD},
		{"asu_los.stroke_esd", p.ASULOS.StrokeESD},
		{"asu_los.tia", p.ASULOS.TIA},
		{"asu_los.neuro", p.ASULOS.Neuro},
		{"asu_los.other", p.ASULOS.Other},
		{"rehab_los.stroke_no_esd", p.RehabLOS.StrokeNoESD},
		{"rehab_los.stroke_esd", p.RehabLOS.StrokeESD},
		{"rehab_los.tia", p.RehabLOS.TIA},
		{"rehab_los.neuro", p.RehabLOS.Neuro},
		{"rehab_los.other", p.RehabLOS.Other},
	}
	for _, r := range losRows {
		if r.los.Mean <= 0 {
			return fmt.Errorf("%s: mean must be positive, got %v", r.name, r.los.Mean)
		}
		if r.los.SD <= 0 {
			return fmt.Errorf("%s: sd must be positive, got %v", r.name, r.los.SD)
		}
	}

	asuRows := []struct {
		name string
		d    Destinations
	}{
		{"asu_routing.stroke", p.ASURouting.Stroke},
		{"asu_routing.tia", p.ASURouting.TIA},
		{"asu_routing.neuro", p.ASURouting.Neuro},
		{"asu_routing.other", p.ASURouting.Other},
	}
	for _, r := range asuRows {
		if err := checkRow(r.name, []float64{r.d.Rehab, r.d.ESD, r.d.Other}); err != nil {
			return err
		}
	}
	rehabRows := []struct {
		name string
		d    RehabDestinations
	}{
		{"rehab_routing.stroke", p.RehabRouting.Stroke},
		{"rehab_routing.tia", p.RehabRouting.TIA},
		{"rehab_routing.neuro", p.RehabRouting.Neuro},
		{"rehab_routing.other", p.RehabRouting.Other},
	}
	for _, r := range rehabRows {
		if err := checkRow(r.name, []float64{r.d.ESD, r.d.Other}); err != nil {
			return err
		}
	}

	if p.WarmUpPeriod < 0 {
		return fmt.Errorf("warm_up_period must not be negative, got %v", p.WarmUpPeriod)
	}
	if p.DataCollectionPeriod < 0 {
		return fmt.Errorf("data_collection_period must not be negative, got %v", p.DataCollectionPeriod)
	}
	if p.NumberOfRuns < 1 {
		return fmt.Errorf("number_of_runs must be at least 1, got %d", p.NumberOfRuns)
	}
	if p.AuditInterval <= 0 {
		return fmt.Errorf("audit_interval must be positive, got %v", p.AuditInterval)
	}
	if p.Cores < 1 {
		return fmt.Errorf("cores must be at least 1, got %d", p.Cores)
	}
	return nil
}

// routingTolerance bounds floating point drift in routing rows.
const routingTolerance = 1e-9

func checkRow(name string, probs []float64) error {
	sum := 0.0
	for _, p := range probs {
		if p < 0 {
			return fmt.Errorf("%s: probability is negative (%v)", name, p)
		}
		sum += p
	}
	if sum < 1-routingTolerance || sum > 1+routingTolerance {
		return fmt.Errorf("%s: probabilities sum to %v, want 1", name, sum)
	}
	return nil
}

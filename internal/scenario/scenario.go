// Package scenario defines named parameter variations for what-if
// analysis. A scenario is a labelled transform over the base parameters:
// built-ins cover the standard capacity questions, and arbitrary
// variations can be loaded from parameter files.
package scenario

import (
	"fmt"
	"sort"

	"strokesim/internal/params"
)

// Scenario is one named parameter variation.
type Scenario struct {
	Name        string
	Description string
	apply       func(*params.Param)
}

// Params returns the scenario's parameter set, built from base. The base
// is copied; applying a scenario never mutates the caller's parameters.
func (s *Scenario) Params(base params.Param) (params.Param, error) {
	p := base
	if s.apply != nil {
		s.apply(&p)
	}
	if err := p.Validate(); err != nil {
		return params.Param{}, fmt.Errorf("scenario %s: %w", s.Name, err)
	}
	return p, nil
}

// scaleAdmissions increases all external arrival rates by the given
// factor. Rates scale up by dividing the inter-arrival means.
func scaleAdmissions(p *params.Param, factor float64) {
	p.ASUArrivals.Stroke /= factor
	p.ASUArrivals.TIA /= factor
	p.ASUArrivals.Neuro /= factor
	p.ASUArrivals.Other /= factor
	p.RehabArrivals.Stroke /= factor
	p.RehabArrivals.Neuro /= factor
	p.RehabArrivals.Other /= factor
}

var builtins = map[string]*Scenario{
	"base": {
		Name:        "base",
		Description: "Published base-case parameters, unchanged",
	},
	"admissions-5pct": {
		Name:        "admissions-5pct",
		Description: "All external admissions increased by 5%",
		apply:       func(p *params.Param) { scaleAdmissions(p, 1.05) },
	},
	"admissions-10pct": {
		Name:        "admissions-10pct",
		Description: "All external admissions increased by 10%",
		apply:       func(p *params.Param) { scaleAdmissions(p, 1.10) },
	},
	"esd-expansion": {
		Name:        "esd-expansion",
		Description: "Expanded early supported discharge: more stroke patients leave the ASU to ESD instead of rehab",
		apply: func(p *params.Param) {
			p.ASURouting.Stroke = params.Destinations{Rehab: 0.16, ESD: 0.21, Other: 0.63}
		},
	},
}

// List returns the built-in scenario names, sorted.
func List() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Load returns the built-in scenario with the given name.
func Load(name string) (*Scenario, error) {
	s, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("unknown scenario %q (have: %v)", name, List())
	}
	return s, nil
}

// FromFile wraps a parameter file as a scenario named after the path. The
// file's settings replace the base parameters entirely, via the strict
// loader.
func FromFile(path string) (*Scenario, error) {
	p, err := params.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scenario file %s: %w", path, err)
	}
	return &Scenario{
		Name:        path,
		Description: "Parameter file " + path,
		apply:       func(dst *params.Param) { *dst = p },
	}, nil
}

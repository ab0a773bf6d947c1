// Package distribution wraps the gonum samplers used by the model behind
// small, seedable types. Every distribution owns an independent random
// stream so that adding or removing one process never perturbs the draws
// of another.
package distribution

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Exponential samples inter-arrival times with the given mean (in days).
type Exponential struct {
	mean float64
	dist distuv.Exponential
}

// NewExponential returns an Exponential with the given mean, drawing from
// its own stream seeded with seed.
func NewExponential(mean float64, seed uint64) (*Exponential, error) {
	if mean <= 0 {
		return nil, fmt.Errorf("exponential mean must be positive, got %v", mean)
	}
	return &Exponential{
		mean: mean,
		dist: distuv.Exponential{Rate: 1 / mean, Src: rand.NewSource(seed)},
	}, nil
}

// Mean returns the configured mean.
func (e *Exponential) Mean() float64 { return e.mean }

// Sample draws one value.
func (e *Exponential) Sample() float64 { return e.dist.Rand() }

// Lognormal samples lengths of stay. It is parameterized by the mean and
// standard deviation of the observed variable, not by mu/sigma of the
// underlying normal; the conversion happens here.
type Lognormal struct {
	mean float64
	sd   float64
	dist distuv.LogNormal
}

// NewLognormal returns a Lognormal with the given observed mean and
// standard deviation, drawing from its own stream seeded with seed.
func NewLognormal(mean, sd float64, seed uint64) (*Lognormal, error) {
	if mean <= 0 {
		return nil, fmt.Errorf("lognormal mean must be positive, got %v", mean)
	}
	if sd <= 0 {
		return nil, fmt.Errorf("lognormal sd must be positive, got %v", sd)
	}
	phi := math.Sqrt(sd*sd + mean*mean)
	mu := math.Log(mean * mean / phi)
	sigma := math.Sqrt(math.Log(phi * phi / (mean * mean)))
	return &Lognormal{
		mean: mean,
		sd:   sd,
		dist: distuv.LogNormal{Mu: mu, Sigma: sigma, Src: rand.NewSource(seed)},
	}, nil
}

// Mean returns the configured observed mean.
func (l *Lognormal) Mean() float64 { return l.mean }

// Sample draws one value.
func (l *Lognormal) Sample() float64 { return l.dist.Rand() }

// Discrete samples one of a fixed set of labels with given probabilities.
// Used for routing decisions.
type Discrete struct {
	labels []string
	dist   distuv.Categorical
}

// probTolerance bounds how far routing probabilities may drift from
// summing to exactly 1 before configuration is rejected.
const probTolerance = 1e-9

// NewDiscrete returns a Discrete over labels with matching probabilities,
// drawing from its own stream seeded with seed. Probabilities must be
// non-negative and sum to 1.
func NewDiscrete(labels []string, probs []float64, seed uint64) (*Discrete, error) {
	if len(labels) == 0 {
		return nil, fmt.Errorf("discrete distribution needs at least one label")
	}
	if len(labels) != len(probs) {
		return nil, fmt.Errorf("discrete distribution has %d labels but %d probabilities",
			len(labels), len(probs))
	}
	sum := 0.0
	for i, p := range probs {
		if p < 0 {
			return nil, fmt.Errorf("probability for %q is negative: %v", labels[i], p)
		}
		sum += p
	}
	if math.Abs(sum-1) > probTolerance {
		return nil, fmt.Errorf("probabilities sum to %v, want 1", sum)
	}
	return &Discrete{
		labels: labels,
		dist:   distuv.NewCategorical(probs, rand.NewSource(seed)),
	}, nil
}

// Sample draws one label.
func (d *Discrete) Sample() string {
	return d.labels[int(d.dist.Rand())]
}

// Labels returns the label set in declaration order.
func (d *Discrete) Labels() []string {
	out := make([]string, len(d.labels))
	copy(out, d.labels)
	return out
}

package distribution

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestExponential_SeedReproducibility(t *testing.T) {
	a, err := NewExponential(5, 42)
	if err != nil {
		t.Fatalf("NewExponential: %v", err)
	}
	b, err := NewExponential(5, 42)
	if err != nil {
		t.Fatalf("NewExponential: %v", err)
	}

	var sa, sb []float64
	for i := 0; i < 10; i++ {
		sa = append(sa, a.Sample())
		sb = append(sb, b.Sample())
	}
	if diff := cmp.Diff(sa, sb); diff != "" {
		t.Errorf("same seed produced different samples:\n%s", diff)
	}
}

func TestExponential_DifferentSeedsDiverge(t *testing.T) {
	a, _ := NewExponential(5, 1)
	b, _ := NewExponential(5, 2)
	same := true
	for i := 0; i < 10; i++ {
		if a.Sample() != b.Sample() {
			same = false
		}
	}
	if same {
		t.Error("different seeds produced identical streams")
	}
}

func TestExponential_SampleMean(t *testing.T) {
	e, _ := NewExponential(3.2, 7)
	sum := 0.0
	const n = 200000
	for i := 0; i < n; i++ {
		sum += e.Sample()
	}
	got := sum / n
	if math.Abs(got-3.2) > 0.05 {
		t.Errorf("sample mean = %v, want ~3.2", got)
	}
}

func TestExponential_RejectsNonPositiveMean(t *testing.T) {
	for _, mean := range []float64{0, -1} {
		if _, err := NewExponential(mean, 1); err == nil {
			t.Errorf("NewExponential(%v) should fail", mean)
		}
	}
}

func TestLognormal_SampleMoments(t *testing.T) {
	// The constructor converts observed mean/sd to mu/sigma of the
	// underlying normal; check the round trip via the sample moments.
	l, err := NewLognormal(7.4, 8.61, 11)
	if err != nil {
		t.Fatalf("NewLognormal: %v", err)
	}
	const n = 400000
	sum, sumSq := 0.0, 0.0
	for i := 0; i < n; i++ {
		v := l.Sample()
		if v <= 0 {
			t.Fatalf("lognormal sample %v is not positive", v)
		}
		sum += v
		sumSq += v * v
	}
	mean := sum / n
	sd := math.Sqrt(sumSq/n - mean*mean)
	if math.Abs(mean-7.4) > 0.15 {
		t.Errorf("sample mean = %v, want ~7.4", mean)
	}
	if math.Abs(sd-8.61) > 0.35 {
		t.Errorf("sample sd = %v, want ~8.61", sd)
	}
}

func TestLognormal_RejectsBadParams(t *testing.T) {
	if _, err := NewLognormal(0, 1, 1); err == nil {
		t.Error("zero mean should fail")
	}
	if _, err := NewLognormal(1, 0, 1); err == nil {
		t.Error("zero sd should fail")
	}
}

func TestDiscrete_Proportions(t *testing.T) {
	d, err := NewDiscrete([]string{"rehab", "esd", "other"}, []float64{0.24, 0.13, 0.63}, 99)
	if err != nil {
		t.Fatalf("NewDiscrete: %v", err)
	}
	counts := map[string]int{}
	const n = 100000
	for i := 0; i < n; i++ {
		counts[d.Sample()]++
	}
	for label, want := range map[string]float64{"rehab": 0.24, "esd": 0.13, "other": 0.63} {
		got := float64(counts[label]) / n
		if math.Abs(got-want) > 0.01 {
			t.Errorf("proportion of %q = %v, want ~%v", label, got, want)
		}
	}
}

func TestDiscrete_Validation(t *testing.T) {
	cases := []struct {
		name   string
		labels []string
		probs  []float64
	}{
		{"empty", nil, nil},
		{"length mismatch", []string{"a", "b"}, []float64{1}},
		{"negative", []string{"a", "b"}, []float64{-0.5, 1.5}},
		{"sum below one", []string{"a", "b"}, []float64{0.2, 0.3}},
		{"sum above one", []string{"a", "b"}, []float64{0.8, 0.8}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewDiscrete(tc.labels, tc.probs, 1); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestSpawner_Deterministic(t *testing.T) {
	a := NewSpawner(123)
	b := NewSpawner(123)
	for i := 0; i < 20; i++ {
		if sa, sb := a.Next(), b.Next(); sa != sb {
			t.Fatalf("seed %d: %d != %d", i, sa, sb)
		}
	}
}

func TestSpawner_ChildSeedsDistinct(t *testing.T) {
	seen := map[uint64]bool{}
	for run := 0; run < 50; run++ {
		s := NewSpawner(run)
		for i := 0; i < 40; i++ {
			seed := s.Next()
			if seen[seed] {
				t.Fatalf("duplicate seed %d (run %d, child %d)", seed, run, i)
			}
			seen[seed] = true
		}
	}
}

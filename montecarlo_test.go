package relkin

import (
	"strings"
	"testing"
)

func TestMCRuns(t *testing.T) {
	cfg := MonteCarloConfig{
		Trajectory: testSwarm(),
		Ks:         []int{4, 6},
		Tend:       2,
		Sigma:      0.01,
		Trials:     3,
		SeedStart:  2110,
	}
	runs, err := NewMonteCarloRuns(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if runs.Trials() != 3 {
		t.Fatal("requesting 3 trials did not generate three")
	}
	for _, k := range cfg.Ks {
		results := runs.Runs[k]
		if len(results) != 3 {
			t.Fatalf("K=%d does not have 3 trials", k)
		}
		for nn, res := range results {
			if res.K != k || res.Trial != nn {
				t.Fatalf("trial bookkeeping broken at K=%d nn=%d", k, nn)
			}
		}
		rmse, err := runs.RMSE(k)
		if err != nil {
			t.Fatal(err)
		}
		for name, v := range map[string]float64{
			"b0": rmse.Coeff0, "b1": rmse.Coeff1, "b2": rmse.Coeff2,
			"y0": rmse.Position, "y1": rmse.Velocity,
		} {
			if v <= 0 {
				t.Fatalf("K=%d rmse %s = %f, expected positive under noise", k, name, v)
			}
		}
		mean, stddev, err := runs.MeanErrorNorms(k)
		if err != nil {
			t.Fatal(err)
		}
		if mean <= 0 || stddev < 0 {
			t.Fatalf("K=%d error norm stats mean=%f stddev=%f", k, mean, stddev)
		}
	}
	if _, err = runs.RMSE(99); err == nil {
		t.Fatal("an unswept K must fail")
	}

	csv, err := runs.AsCSV()
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(csv), "\n")
	if len(lines) != len(cfg.Ks)+1 {
		t.Fatalf("unexpected number of CSV lines: %d", len(lines))
	}
	if !strings.HasPrefix(lines[0], "K,") {
		t.Fatal("CSV header missing")
	}
}

func TestMCRunsReproducible(t *testing.T) {
	cfg := MonteCarloConfig{
		Trajectory: testSwarm(),
		Ks:         []int{4},
		Tend:       2,
		Sigma:      0.05,
		Trials:     2,
		SeedStart:  7,
	}
	a, err := NewMonteCarloRuns(cfg)
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewMonteCarloRuns(cfg)
	if err != nil {
		t.Fatal(err)
	}
	ra, _ := a.RMSE(4)
	rb, _ := b.RMSE(4)
	if ra != rb {
		t.Fatal("seeded sweeps must be reproducible")
	}
}

func TestMCRunsNoiseless(t *testing.T) {
	cfg := MonteCarloConfig{
		Trajectory: testSwarm(),
		Ks:         []int{4},
		Tend:       2,
		Sigma:      0,
		Trials:     1,
	}
	runs, err := NewMonteCarloRuns(cfg)
	if err != nil {
		t.Fatal(err)
	}
	rmse, err := runs.RMSE(4)
	if err != nil {
		t.Fatal(err)
	}
	if rmse.Coeff0 > 1e-6 || rmse.Position > 1e-6 {
		t.Fatalf("noiseless sweep has nonzero RMSE: %+v", rmse)
	}
}

func TestMCRunsConfigChecks(t *testing.T) {
	base := MonteCarloConfig{Trajectory: testSwarm(), Ks: []int{4}, Tend: 2, Trials: 1}

	bad := base
	bad.Trials = 0
	if _, err := NewMonteCarloRuns(bad); err == nil {
		t.Fatal("zero trials must fail")
	}
	bad = base
	bad.Ks = nil
	if _, err := NewMonteCarloRuns(bad); err == nil {
		t.Fatal("an empty sweep must fail")
	}
	bad = base
	bad.Trajectory = ConstantVelocity{}
	if _, err := NewMonteCarloRuns(bad); err == nil {
		t.Fatal("a missing trajectory must fail")
	}
}

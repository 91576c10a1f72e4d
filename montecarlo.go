package relkin

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// MonteCarloConfig parametrizes a measurement count sweep with repeated noise
// trials.
type MonteCarloConfig struct {
	Trajectory ConstantVelocity
	Ks         []int   // Measurement count sweep: each K yields K+1 epochs.
	Tend       float64 // Epochs span [-Tend, Tend].
	Sigma      float64 // Pairwise distance noise standard deviation. Zero disables noise.
	Trials     int
	SeedStart  uint64            // Trial nn uses seed SeedStart + 10*nn.
	Solver     CoefficientSolver // Defaults to WeightedLeastSquares(Sigma), or LeastSquares when noiseless.
}

// TrialResult stores the outcome of a single noise trial.
type TrialResult struct {
	K        int
	Trial    int
	Estimate RelativeEstimate
	Errors   TrialErrors
}

// MonteCarloRuns stores MC trials for every measurement count of the sweep.
type MonteCarloRuns struct {
	trials int
	Ks     []int
	Runs   map[int][]TrialResult
}

// NewMonteCarloRuns runs the measurement count sweep.
func NewMonteCarloRuns(cfg MonteCarloConfig) (*MonteCarloRuns, error) {
	if cfg.Trials < 1 {
		return nil, fmt.Errorf("at least one trial is required")
	}
	if len(cfg.Ks) == 0 {
		return nil, fmt.Errorf("at least one measurement count is required")
	}
	if cfg.Trajectory.Y0 == nil || cfg.Trajectory.Y1 == nil {
		return nil, fmt.Errorf("a trajectory must be provided")
	}
	dim, n := cfg.Trajectory.Dims()
	solver := cfg.Solver
	if solver == nil {
		if cfg.Sigma > 0 {
			solver = NewWeightedLeastSquares(cfg.Sigma)
		} else {
			solver = LeastSquares{}
		}
	}
	estimator, err := NewEstimator(dim, solver)
	if err != nil {
		return nil, err
	}
	truth := NewGroundTruth(cfg.Trajectory)

	runs := make(map[int][]TrialResult, len(cfg.Ks))
	for _, k := range cfg.Ks {
		times := TimeGrid(cfg.Tend, k)
		pwd := make([]*mat.SymDense, len(times))
		for i, t := range times {
			pwd[i] = PairwiseDistances(cfg.Trajectory.Position(t))
		}

		results := make([]TrialResult, cfg.Trials)
		for nn := 0; nn < cfg.Trials; nn++ {
			var noise Noise
			if cfg.Sigma > 0 {
				noise = NewAWGN(n, cfg.Sigma, cfg.SeedStart+10*uint64(nn))
			} else {
				noise = NewNoiseless(n)
			}
			noisy := make([]*mat.SymDense, len(times))
			for i := range times {
				noisy[i] = PerturbDistances(pwd[i], noise, i)
			}
			est, err := estimator.Estimate(times, noisy)
			if err != nil {
				return nil, fmt.Errorf("K=%d trial=%d: %w", k, nn, err)
			}
			errs, err := truth.Error(est)
			if err != nil {
				return nil, fmt.Errorf("K=%d trial=%d: %w", k, nn, err)
			}
			results[nn] = TrialResult{K: k, Trial: nn, Estimate: est, Errors: errs}
		}
		runs[k] = results
	}
	return &MonteCarloRuns{trials: cfg.Trials, Ks: cfg.Ks, Runs: runs}, nil
}

// Trials returns the number of noise trials per measurement count.
func (mc MonteCarloRuns) Trials() int {
	return mc.trials
}

// AsCSV serializes the per-K RMSE summary. Does not include a comment header.
func (mc MonteCarloRuns) AsCSV() (string, error) {
	lines := make([]string, len(mc.Ks)+1)
	lines[0] = "K,rmse-b0,rmse-b1,rmse-b2,rmse-y0,rmse-y1"
	for i, k := range mc.Ks {
		r, err := mc.RMSE(k)
		if err != nil {
			return "", err
		}
		lines[i+1] = fmt.Sprintf("%d,%f,%f,%f,%f,%f", k, r.Coeff0, r.Coeff1, r.Coeff2, r.Position, r.Velocity)
	}
	return strings.Join(lines, "\n") + "\n", nil
}

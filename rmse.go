package relkin

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// SweepRMSE holds the per-component root mean square errors of one measurement
// count of the sweep, aggregated over all noise trials.
type SweepRMSE struct {
	Coeff0, Coeff1, Coeff2 float64
	Position, Velocity     float64
}

// RMSE aggregates the error vectors of all trials at measurement count K.
// Each figure is the RMS of a single component of the corresponding error
// vector across trials.
func (mc MonteCarloRuns) RMSE(k int) (SweepRMSE, error) {
	results, found := mc.Runs[k]
	if !found {
		return SweepRMSE{}, fmt.Errorf("no runs for K=%d", k)
	}
	var out SweepRMSE
	out.Coeff0 = rmsOver(results, func(r TrialResult) *mat.VecDense { return r.Errors.Coeff0 })
	out.Coeff1 = rmsOver(results, func(r TrialResult) *mat.VecDense { return r.Errors.Coeff1 })
	out.Coeff2 = rmsOver(results, func(r TrialResult) *mat.VecDense { return r.Errors.Coeff2 })
	out.Position = rmsOver(results, func(r TrialResult) *mat.VecDense { return r.Errors.Position })
	out.Velocity = rmsOver(results, func(r TrialResult) *mat.VecDense { return r.Errors.Velocity })
	return out, nil
}

// MeanErrorNorms returns the mean and standard deviation over trials of the
// position embedding error norm at measurement count K.
func (mc MonteCarloRuns) MeanErrorNorms(k int) (mean, stddev float64, err error) {
	results, found := mc.Runs[k]
	if !found {
		return 0, 0, fmt.Errorf("no runs for K=%d", k)
	}
	norms := make([]float64, len(results))
	for i, r := range results {
		norms[i] = mat.Norm(r.Errors.Position, 2)
	}
	return stat.Mean(norms, nil), stat.StdDev(norms, nil), nil
}

func rmsOver(results []TrialResult, pick func(TrialResult) *mat.VecDense) float64 {
	sum := 0.0
	count := 0
	for _, r := range results {
		v := pick(r)
		for i := 0; i < v.Len(); i++ {
			sum += v.AtVec(i) * v.AtVec(i)
		}
		count += v.Len()
	}
	if count == 0 {
		return 0
	}
	return math.Sqrt(sum / float64(count))
}

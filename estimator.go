package relkin

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Estimator runs the full relative localization pipeline: shape coefficient
// regression on the noisy distance time series, cMDS embeddings of B0 and B2,
// and the relative orientation estimate from B1.
type Estimator struct {
	dim    int
	solver CoefficientSolver
}

// NewEstimator creates an estimator for a swarm living in dim spatial
// dimensions, using the provided coefficient solver.
func NewEstimator(dim int, solver CoefficientSolver) (*Estimator, error) {
	if dim < 1 {
		return nil, fmt.Errorf("spatial dimension must be at least 1, got %d", dim)
	}
	if solver == nil {
		return nil, fmt.Errorf("a coefficient solver must be provided")
	}
	return &Estimator{dim: dim, solver: solver}, nil
}

// Solver returns the coefficient solver in use.
func (e *Estimator) Solver() CoefficientSolver {
	return e.solver
}

// Estimate runs the pipeline on the noisy pairwise distance matrices observed
// at the provided epochs.
func (e *Estimator) Estimate(times []float64, distances []*mat.SymDense) (RelativeEstimate, error) {
	coeffs, err := e.solver.Solve(times, distances)
	if err != nil {
		return RelativeEstimate{}, err
	}

	// Relative positions: centered, in an arbitrary orthogonal frame.
	position, err := CMDS(coeffs.B0, e.dim)
	if err != nil {
		return RelativeEstimate{}, fmt.Errorf("position embedding: %w", err)
	}
	// Relative velocities: centered, with an unknown rotation w.r.t. the
	// position frame.
	velocity, err := CMDS(coeffs.B2, e.dim)
	if err != nil {
		return RelativeEstimate{}, fmt.Errorf("velocity embedding: %w", err)
	}

	h, hRaw, err := OrientationEstimate(velocity, position, Vectorize(coeffs.B1))
	if err != nil {
		return RelativeEstimate{}, err
	}

	return RelativeEstimate{
		Coeffs:         coeffs,
		Position:       position,
		Velocity:       velocity,
		Orientation:    h,
		RawOrientation: hRaw,
	}, nil
}

// RelativeEstimate is the output of a single pipeline run.
type RelativeEstimate struct {
	Coeffs ShapeCoefficients
	// Position holds the centered relative positions (cMDS of B0), one point
	// per column, in an arbitrary orthogonal frame.
	Position *mat.Dense
	// Velocity holds the centered relative velocities (cMDS of B2), known only
	// up to a rotation of the position frame.
	Velocity *mat.Dense
	// Orientation is the orthogonal matrix aligning the velocity frame with
	// the position frame.
	Orientation *mat.Dense
	// RawOrientation is the unprojected least-squares orientation estimate.
	RawOrientation *mat.Dense
}

// AlignedVelocity returns the relative velocities rotated into the position
// frame.
func (est RelativeEstimate) AlignedVelocity() *mat.Dense {
	var out mat.Dense
	out.Mul(est.Orientation, est.Velocity)
	return &out
}

// String implements the Stringer interface.
func (est RelativeEstimate) String() string {
	return fmt.Sprintf("RelativeEstimate{\nY0=%v\nY1=%v\nH=%v\n}",
		mat.Formatted(est.Position, mat.Prefix("   ")),
		mat.Formatted(est.Velocity, mat.Prefix("   ")),
		mat.Formatted(est.Orientation, mat.Prefix("  ")))
}

package relkin

import (
	"gonum.org/v1/gonum/mat"
)

// GroundTruth computes the error of a relative estimate from the known swarm
// trajectory.
type GroundTruth struct {
	Traj   ConstantVelocity
	Coeffs ShapeCoefficients
	// Position and Velocity are the true centered frames Ȳ0 and Ȳ1.
	Position, Velocity *mat.Dense
}

// NewGroundTruth initializes the ground truth of a constant velocity swarm.
func NewGroundTruth(traj ConstantVelocity) *GroundTruth {
	bar := traj.Centered()
	return &GroundTruth{
		Traj:     traj,
		Coeffs:   traj.ShapeCoefficients(),
		Position: bar.Y0,
		Velocity: bar.Y1,
	}
}

// TrialErrors gathers the error vectors of one estimate against the truth.
type TrialErrors struct {
	// Coeff0, Coeff1 and Coeff2 are the vech errors of the shape coefficients.
	Coeff0, Coeff1, Coeff2 *mat.VecDense
	// Position and Velocity are the vectorized Procrustes residuals of the
	// embeddings against the true centered frames.
	Position, Velocity *mat.VecDense
	// PositionAlign and VelocityAlign are the orthogonal transforms used to
	// align the embeddings before taking residuals.
	PositionAlign, VelocityAlign *mat.Dense
}

// Error compares an estimate with the ground truth. Embedding errors are taken
// after the optimal orthogonal alignment since the estimated frames are only
// defined up to rotation and reflection.
func (t *GroundTruth) Error(est RelativeEstimate) (TrialErrors, error) {
	b0, b1, b2 := t.Coeffs.HalfVectorized()
	e0, e1, e2 := est.Coeffs.HalfVectorized()
	e0.SubVec(b0, e0)
	e1.SubVec(b1, e1)
	e2.SubVec(b2, e2)

	posErr, posAlign, err := ProcrustesError(est.Position, t.Position)
	if err != nil {
		return TrialErrors{}, err
	}
	velErr, velAlign, err := ProcrustesError(est.Velocity, t.Velocity)
	if err != nil {
		return TrialErrors{}, err
	}

	return TrialErrors{
		Coeff0:        e0,
		Coeff1:        e1,
		Coeff2:        e2,
		Position:      posErr,
		Velocity:      velErr,
		PositionAlign: posAlign,
		VelocityAlign: velAlign,
	}, nil
}

package relkin

import (
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestGroundTruthFrames(t *testing.T) {
	cv := testSwarm()
	truth := NewGroundTruth(cv)
	bar := cv.Centered()
	if !mat.EqualApprox(truth.Position, bar.Y0, 1e-12) {
		t.Fatal("truth position frame is not the centered Y0")
	}
	if !mat.EqualApprox(truth.Velocity, bar.Y1, 1e-12) {
		t.Fatal("truth velocity frame is not the centered Y1")
	}
}

func TestGroundTruthErrorOnRotatedEstimate(t *testing.T) {
	cv := testSwarm()
	truth := NewGroundTruth(cv)
	bar := cv.Centered()

	// A synthetic estimate with perfect coefficients and rotated frames.
	var pos, vel mat.Dense
	pos.Mul(rotation2D(0.4), bar.Y0)
	vel.Mul(rotation2D(-0.8), bar.Y1)
	est := RelativeEstimate{
		Coeffs:      cv.ShapeCoefficients(),
		Position:    &pos,
		Velocity:    &vel,
		Orientation: mat.NewDense(2, 2, []float64{1, 0, 0, 1}),
	}
	errs, err := truth.Error(est)
	if err != nil {
		t.Fatal(err)
	}
	// Coefficient errors are exactly zero; embedding errors vanish because the
	// rotation is removed by the Procrustes alignment.
	for name, v := range map[string]*mat.VecDense{
		"b0": errs.Coeff0, "b1": errs.Coeff1, "b2": errs.Coeff2,
		"y0": errs.Position, "y1": errs.Velocity,
	} {
		if norm := mat.Norm(v, 2); norm > 1e-9 {
			t.Fatalf("%s error norm %e, expected ~0", name, norm)
		}
	}
	if !mat.EqualApprox(errs.PositionAlign, rotation2D(0.4), 1e-9) {
		t.Fatal("position alignment is not the applied rotation")
	}
}

package relkin

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ConstantVelocity describes a swarm of N points moving in d dimensions with
// X(t) = Y0 + Y1·t. Both matrices are d x N with one point per column.
type ConstantVelocity struct {
	Y0, Y1 *mat.Dense
}

// NewConstantVelocity creates a constant velocity swarm from initial positions
// and velocities.
func NewConstantVelocity(y0, y1 *mat.Dense) (ConstantVelocity, error) {
	if err := checkMatDims(y0, y1, "Y0", "Y1", rowsAndcols); err != nil {
		return ConstantVelocity{}, err
	}
	return ConstantVelocity{Y0: y0, Y1: y1}, nil
}

// Dims returns the spatial dimension and the number of points.
func (cv ConstantVelocity) Dims() (dim, n int) {
	return cv.Y0.Dims()
}

// Position returns the d x N configuration at time t.
func (cv ConstantVelocity) Position(t float64) *mat.Dense {
	d, n := cv.Dims()
	x := mat.NewDense(d, n, nil)
	x.Scale(t, cv.Y1)
	x.Add(cv.Y0, x)
	return x
}

// Centered returns the swarm expressed relative to its centroid at every
// instant, i.e. both Y0 and Y1 multiplied by the centering operator C.
func (cv ConstantVelocity) Centered() ConstantVelocity {
	_, n := cv.Dims()
	c := CenteringMatrix(n)
	var y0, y1 mat.Dense
	y0.Mul(cv.Y0, c)
	y1.Mul(cv.Y1, c)
	return ConstantVelocity{Y0: &y0, Y1: &y1}
}

// ShapeCoefficients holds the quadratic-in-time Gram coefficients of a centered
// constant velocity swarm: G(t) = B0 + B1·t + B2·t².
type ShapeCoefficients struct {
	B0 *mat.SymDense // Ȳ0ᵀȲ0
	B1 *mat.SymDense // Ȳ0ᵀȲ1 + Ȳ1ᵀȲ0
	B2 *mat.SymDense // Ȳ1ᵀȲ1
}

// HalfVectorized returns vech(B0), vech(B1) and vech(B2).
func (s ShapeCoefficients) HalfVectorized() (b0, b1, b2 *mat.VecDense) {
	return HalfVectorize(s.B0), HalfVectorize(s.B1), HalfVectorize(s.B2)
}

// ShapeCoefficients computes the true Gram coefficients of the centered swarm.
func (cv ConstantVelocity) ShapeCoefficients() ShapeCoefficients {
	bar := cv.Centered()
	_, n := cv.Dims()
	var b0d, b2d, cross, crossT mat.Dense
	b0d.Mul(bar.Y0.T(), bar.Y0)
	b2d.Mul(bar.Y1.T(), bar.Y1)
	cross.Mul(bar.Y0.T(), bar.Y1)
	crossT.Mul(bar.Y1.T(), bar.Y0)

	b0 := mat.NewSymDense(n, nil)
	b1 := mat.NewSymDense(n, nil)
	b2 := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			b0.SetSym(i, j, (b0d.At(i, j)+b0d.At(j, i))/2)
			b2.SetSym(i, j, (b2d.At(i, j)+b2d.At(j, i))/2)
			b1.SetSym(i, j, (cross.At(i, j)+crossT.At(i, j)+cross.At(j, i)+crossT.At(j, i))/2)
		}
	}
	return ShapeCoefficients{B0: b0, B1: b1, B2: b2}
}

// TimeGrid returns the K+1 measurement epochs spread uniformly over
// [-tend, tend].
func TimeGrid(tend float64, k int) []float64 {
	t := make([]float64, k+1)
	if k == 0 {
		t[0] = -tend
		return t
	}
	return floats.Span(t, -tend, tend)
}

// RangeTaylorCoeffs returns the range, range rate and range acceleration
// between two constant acceleration trajectories, evaluated at time t. Each
// trajectory is described by its position, velocity and acceleration at t=0.
func RangeTaylorCoeffs(x1, v1, a1, x2, v2, a2 *mat.VecDense, t float64) ([3]float64, error) {
	if err := checkMatDims(x1, x2, "x1", "x2", rows2rows); err != nil {
		return [3]float64{}, err
	}
	n := x1.Len()
	dy0 := mat.NewVecDense(n, nil)
	dy1 := mat.NewVecDense(n, nil)
	dy2 := mat.NewVecDense(n, nil)
	dy0.SubVec(x2, x1)
	dy1.SubVec(v2, v1)
	dy2.SubVec(a2, a1)

	// Relative position, velocity and acceleration at time t.
	dx := mat.NewVecDense(n, nil)
	dx.AddScaledVec(dy0, t, dy1)
	dx.AddScaledVec(dx, 0.5*t*t, dy2)
	dv := mat.NewVecDense(n, nil)
	dv.AddScaledVec(dy1, t, dy2)
	da := dy2

	d := mat.Norm(dx, 2)
	if d == 0 {
		return [3]float64{}, fmt.Errorf("coincident trajectories at t=%f", t)
	}
	xv := mat.Dot(dx, dv)
	first := xv / d
	second := -xv*xv/(d*d*d) + (mat.Dot(dv, dv)+mat.Dot(dx, da))/d
	return [3]float64{d, first, second}, nil
}

// DistanceDerivatives returns the instantaneous range, range rate and range
// acceleration between two trajectories given their current states.
func DistanceDerivatives(x1, v1, a1, x2, v2, a2 *mat.VecDense) ([3]float64, error) {
	return RangeTaylorCoeffs(x1, v1, a1, x2, v2, a2, 0)
}

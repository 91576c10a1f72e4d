package relkin

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// testSwarm returns a 5 node swarm in 2-D whose position and velocity shapes
// are not proportional, so the relative orientation is identifiable.
func testSwarm() ConstantVelocity {
	y0 := mat.NewDense(2, 5, []float64{
		0, 4, -3, 2, -1,
		1, -2, 5, 3, -4,
	})
	y1 := mat.NewDense(2, 5, []float64{
		1, -1, 2, 0.5, -2,
		-1, 0.5, 1, -2, 1.5,
	})
	cv, err := NewConstantVelocity(y0, y1)
	if err != nil {
		panic(err)
	}
	return cv
}

func TestConstantVelocityPosition(t *testing.T) {
	cv := testSwarm()
	x := cv.Position(2)
	d, n := cv.Dims()
	for i := 0; i < d; i++ {
		for j := 0; j < n; j++ {
			expected := cv.Y0.At(i, j) + 2*cv.Y1.At(i, j)
			if x.At(i, j) != expected {
				t.Fatalf("X(2)[%d,%d] = %f, expected %f", i, j, x.At(i, j), expected)
			}
		}
	}
	if _, err := NewConstantVelocity(cv.Y0, mat.NewDense(2, 3, nil)); err == nil {
		t.Fatal("mismatched Y0 and Y1 must fail")
	}
}

func TestCenteredHasZeroCentroid(t *testing.T) {
	bar := testSwarm().Centered()
	d, n := bar.Dims()
	for i := 0; i < d; i++ {
		sum0, sum1 := 0.0, 0.0
		for j := 0; j < n; j++ {
			sum0 += bar.Y0.At(i, j)
			sum1 += bar.Y1.At(i, j)
		}
		if math.Abs(sum0) > 1e-12 || math.Abs(sum1) > 1e-12 {
			t.Fatalf("centered swarm has nonzero centroid in dimension %d", i)
		}
	}
}

func TestShapeCoefficientsMatchGramians(t *testing.T) {
	cv := testSwarm()
	coeffs := cv.ShapeCoefficients()
	bar := cv.Centered()
	// G(t) = B0 + B1 t + B2 t² must equal X̄(t)ᵀX̄(t).
	for _, tm := range []float64{-1.5, 0, 2} {
		x := bar.Y0
		_, n := cv.Dims()
		xt := mat.NewDense(2, n, nil)
		xt.Scale(tm, bar.Y1)
		xt.Add(x, xt)
		var gram mat.Dense
		gram.Mul(xt.T(), xt)

		quad := mat.NewDense(n, n, nil)
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				quad.Set(i, j, coeffs.B0.At(i, j)+coeffs.B1.At(i, j)*tm+coeffs.B2.At(i, j)*tm*tm)
			}
		}
		if !mat.EqualApprox(&gram, quad, 1e-10) {
			t.Fatalf("Gram coefficients do not reproduce G(%f)", tm)
		}
	}
}

func TestTimeGrid(t *testing.T) {
	grid := TimeGrid(5, 10)
	if len(grid) != 11 {
		t.Fatalf("expected 11 epochs, got %d", len(grid))
	}
	if grid[0] != -5 || grid[10] != 5 {
		t.Fatalf("grid endpoints are [%f, %f]", grid[0], grid[10])
	}
	if math.Abs(grid[5]) > 1e-14 {
		t.Fatal("grid must be symmetric about zero")
	}
}

func TestRangeTaylorCoeffs(t *testing.T) {
	x1 := mat.NewVecDense(2, []float64{0, 0})
	v1 := mat.NewVecDense(2, []float64{1, 0})
	a1 := mat.NewVecDense(2, nil)
	x2 := mat.NewVecDense(2, []float64{3, 4})
	v2 := mat.NewVecDense(2, []float64{0, 1})
	a2 := mat.NewVecDense(2, nil)

	coeffs, err := DistanceDerivatives(x1, v1, a1, x2, v2, a2)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(coeffs[0]-5) > 1e-12 {
		t.Fatalf("range = %f, expected 5", coeffs[0])
	}
	// Compare the rate against a central finite difference of the range.
	rangeAt := func(tm float64) float64 {
		dx := (x2.AtVec(0) + v2.AtVec(0)*tm) - (x1.AtVec(0) + v1.AtVec(0)*tm)
		dy := (x2.AtVec(1) + v2.AtVec(1)*tm) - (x1.AtVec(1) + v1.AtVec(1)*tm)
		return math.Hypot(dx, dy)
	}
	h := 1e-6
	numRate := (rangeAt(h) - rangeAt(-h)) / (2 * h)
	if math.Abs(coeffs[1]-numRate) > 1e-6 {
		t.Fatalf("range rate = %f, finite difference gives %f", coeffs[1], numRate)
	}
	numAccel := (rangeAt(h) - 2*rangeAt(0) + rangeAt(-h)) / (h * h)
	if math.Abs(coeffs[2]-numAccel) > 1e-3 {
		t.Fatalf("range acceleration = %f, finite difference gives %f", coeffs[2], numAccel)
	}

	// Coincident trajectories have no defined range derivatives.
	if _, err = DistanceDerivatives(x1, v1, a1, x1, v2, a2); err == nil {
		t.Fatal("coincident positions must fail")
	}
}

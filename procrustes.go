package relkin

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// OrthogonalProcrustes returns the orthogonal matrix H minimizing ‖A·H - B‖_F
// for two N x d point sets, together with the sum of the singular values of
// AᵀB. H may include a reflection.
func OrthogonalProcrustes(a, b mat.Matrix) (*mat.Dense, float64, error) {
	if err := checkMatDims(a, b, "A", "B", rowsAndcols); err != nil {
		return nil, 0, err
	}
	var m mat.Dense
	m.Mul(a.T(), b)
	var svd mat.SVD
	if ok := svd.Factorize(&m, mat.SVDThin); !ok {
		return nil, 0, fmt.Errorf("SVD of AᵀB failed")
	}
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	_, d := a.Dims()
	h := mat.NewDense(d, d, nil)
	h.Mul(&u, v.T())
	return h, floats.Sum(svd.Values(nil)), nil
}

// ProcrustesError aligns the estimated d x N configuration Z to the reference
// Zbar with the optimal orthogonal transform and returns the vectorized
// residual Zbar - HᵀZ along with the transform itself.
func ProcrustesError(z, zbar mat.Matrix) (*mat.VecDense, *mat.Dense, error) {
	h, _, err := OrthogonalProcrustes(z.T(), zbar.T())
	if err != nil {
		return nil, nil, err
	}
	var aligned, resid mat.Dense
	aligned.Mul(h.T(), z)
	resid.Sub(zbar, &aligned)
	return Vectorize(&resid), h, nil
}

// Reflection controls whether a Procrustes alignment may include a reflection.
type Reflection uint8

const (
	// BestReflection lets the alignment pick whichever of the two fits best.
	BestReflection Reflection = iota
	// ForceReflection requires det(H) < 0.
	ForceReflection
	// NoReflection requires det(H) > 0.
	NoReflection
)

// Transform holds the similarity transform found by Procrustes.
type Transform struct {
	Rotation    *mat.Dense
	Scale       float64
	Translation *mat.VecDense
}

// Procrustes determines the similarity transform (translation, orthogonal
// rotation, optional scaling and reflection) of the points in Y, one per row,
// that best conforms them to the points in X in the least-squares sense.
// It returns the normalized residual, the transformed Y and the transform.
func Procrustes(x, y *mat.Dense, scaling bool, reflection Reflection) (float64, *mat.Dense, Transform, error) {
	if err := checkMatDims(x, y, "X", "Y", rowsAndcols); err != nil {
		return 0, nil, Transform{}, err
	}
	n, m := x.Dims()

	muX := columnMeans(x)
	muY := columnMeans(y)
	x0 := subtractRowVector(x, muX)
	y0 := subtractRowVector(y, muY)

	normX := mat.Norm(x0, 2)
	normY := mat.Norm(y0, 2)
	if normX == 0 || normY == 0 {
		return 0, nil, Transform{}, fmt.Errorf("degenerate configuration: zero centred norm")
	}
	x0.Scale(1/normX, x0)
	y0.Scale(1/normY, y0)

	var a mat.Dense
	a.Mul(x0.T(), y0)
	var svd mat.SVD
	if ok := svd.Factorize(&a, mat.SVDThin); !ok {
		return 0, nil, Transform{}, fmt.Errorf("SVD of X₀ᵀY₀ failed")
	}
	s := svd.Values(nil)
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	t := mat.NewDense(m, m, nil)
	t.Mul(&v, u.T())

	if reflection != BestReflection {
		hasReflection := mat.Det(t) < 0
		if (reflection == ForceReflection) != hasReflection {
			// Flip the smallest singular direction to toggle the reflection.
			for i := 0; i < m; i++ {
				v.Set(i, m-1, -v.At(i, m-1))
			}
			s[m-1] = -s[m-1]
			t.Mul(&v, u.T())
		}
	}

	traceTA := floats.Sum(s)

	var d float64
	z := mat.NewDense(n, m, nil)
	var scale float64
	if scaling {
		scale = traceTA * normX / normY
		d = 1 - traceTA*traceTA
		z.Mul(y0, t)
		z.Scale(normX*traceTA, z)
	} else {
		scale = 1
		d = 1 + (normY*normY)/(normX*normX) - 2*traceTA*normY/normX
		z.Mul(y0, t)
		z.Scale(normY, z)
	}
	addRowVector(z, muX)

	trans := mat.NewVecDense(m, nil)
	trans.MulVec(t.T(), muY)
	trans.ScaleVec(-scale, trans)
	trans.AddVec(trans, muX)

	return d, z, Transform{Rotation: t, Scale: scale, Translation: trans}, nil
}

// Align moves a 2 x N configuration into a canonical frame: the first point at
// the origin and the second on the positive x-axis.
func Align(x *mat.Dense) (*mat.Dense, error) {
	d, n := x.Dims()
	if d != 2 || n < 2 {
		return nil, fmt.Errorf("alignment requires a 2xN configuration with N >= 2, got %dx%d", d, n)
	}
	a := mat.NewDense(2, n, nil)
	for j := 0; j < n; j++ {
		a.Set(0, j, x.At(0, j)-x.At(0, 0))
		a.Set(1, j, x.At(1, j)-x.At(1, 0))
	}
	theta := math.Atan2(a.At(1, 1), a.At(0, 1))
	rot := mat.NewDense(2, 2, []float64{
		math.Cos(theta), math.Sin(theta),
		-math.Sin(theta), math.Cos(theta),
	})
	var out mat.Dense
	out.Mul(rot, a)
	return &out, nil
}

func columnMeans(a *mat.Dense) *mat.VecDense {
	r, c := a.Dims()
	mu := mat.NewVecDense(c, nil)
	for j := 0; j < c; j++ {
		sum := 0.0
		for i := 0; i < r; i++ {
			sum += a.At(i, j)
		}
		mu.SetVec(j, sum/float64(r))
	}
	return mu
}

func subtractRowVector(a *mat.Dense, v *mat.VecDense) *mat.Dense {
	r, c := a.Dims()
	out := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out.Set(i, j, a.At(i, j)-v.AtVec(j))
		}
	}
	return out
}

func addRowVector(a *mat.Dense, v *mat.VecDense) {
	r, c := a.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			a.Set(i, j, a.At(i, j)+v.AtVec(j))
		}
	}
}

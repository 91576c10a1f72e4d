package relkin

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// CoefficientSolver estimates the Gram shape coefficients (B0, B1, B2) of a
// constant velocity swarm from noisy pairwise distance matrices observed at the
// provided epochs.
type CoefficientSolver interface {
	Solve(times []float64, distances []*mat.SymDense) (ShapeCoefficients, error)
	String() string
}

// LeastSquares solves the shape coefficient regression with an ordinary
// (unweighted) least-squares fit. It implements CoefficientSolver.
type LeastSquares struct{}

// Solve implements the CoefficientSolver interface.
func (LeastSquares) Solve(times []float64, distances []*mat.SymDense) (ShapeCoefficients, error) {
	t, g, _, err := shapeRegression(times, distances)
	if err != nil {
		return ShapeCoefficients{}, err
	}
	return solveShape(t, g)
}

// String implements the Stringer interface.
func (LeastSquares) String() string {
	return "LS"
}

// WeightedLeastSquares solves the shape coefficient regression with per-row
// weights derived from the first order propagation of the distance noise into
// the double-centered Gramians: for each epoch,
// Σg = M (4 diag(d) Σd diag(d)) Mᵀ with M = -½ D⁺ (C⊗C) D, and each regression
// row is scaled by 1/Σg(j,j). It implements CoefficientSolver.
type WeightedLeastSquares struct {
	sigma float64
}

// NewWeightedLeastSquares creates a weighted solver for a measurement noise of
// standard deviation sigma on each pairwise distance.
func NewWeightedLeastSquares(sigma float64) WeightedLeastSquares {
	if sigma <= 0 {
		panic("sigma must be positive")
	}
	return WeightedLeastSquares{sigma}
}

// Sigma returns the pairwise distance noise standard deviation.
func (w WeightedLeastSquares) Sigma() float64 {
	return w.sigma
}

// Solve implements the CoefficientSolver interface.
func (w WeightedLeastSquares) Solve(times []float64, distances []*mat.SymDense) (ShapeCoefficients, error) {
	t, g, n, err := shapeRegression(times, distances)
	if err != nil {
		return ShapeCoefficients{}, err
	}
	m, err := gramianPropagation(n)
	if err != nil {
		return ShapeCoefficients{}, err
	}
	nbar := n * (n + 1) / 2
	// First order, the squared distance perturbation has covariance
	// 4 diag(d) Σd diag(d) with Σd = σ²I.
	sigmaD := ScaledIdentity(nbar, 4*w.sigma*w.sigma)
	var sigmaG mat.Dense
	for k, p := range distances {
		d := HalfVectorize(p)
		dd := mat.NewDiagDense(nbar, d.RawVector().Data)
		sigmaG.Product(m, dd, sigmaD, dd, m.T())
		for j := 0; j < nbar; j++ {
			varG := sigmaG.At(j, j)
			if varG == 0 {
				return ShapeCoefficients{}, fmt.Errorf("zero Gramian variance at epoch %d row %d", k, j)
			}
			row := k*nbar + j
			scale := 1 / varG
			for c := 0; c < 3*nbar; c++ {
				t.Set(row, c, t.At(row, c)*scale)
			}
			g.SetVec(row, g.AtVec(row)*scale)
		}
	}
	return solveShape(t, g)
}

// String implements the Stringer interface.
func (w WeightedLeastSquares) String() string {
	return fmt.Sprintf("WLS{σ=%g}", w.sigma)
}

// shapeRegression builds the regression T·θ ≈ vech stack of the double-centered
// Gramians, with T = [1⊗I | t⊗I | t²⊗I].
func shapeRegression(times []float64, distances []*mat.SymDense) (*mat.Dense, *mat.VecDense, int, error) {
	if len(times) != len(distances) {
		return nil, nil, 0, fmt.Errorf("%d epochs but %d distance matrices", len(times), len(distances))
	}
	if len(times) < 3 {
		return nil, nil, 0, fmt.Errorf("at least three epochs are needed to fit a quadratic, got %d", len(times))
	}
	n := distances[0].SymmetricDim()
	if n < 2 {
		return nil, nil, 0, fmt.Errorf("a swarm requires at least two points")
	}
	nbar := n * (n + 1) / 2
	t := mat.NewDense(len(times)*nbar, 3*nbar, nil)
	g := mat.NewVecDense(len(times)*nbar, nil)
	for k, p := range distances {
		if p.SymmetricDim() != n {
			return nil, nil, 0, fmt.Errorf("distance matrix %d is %dx%d, expected %dx%d", k, p.SymmetricDim(), p.SymmetricDim(), n, n)
		}
		gram := DoubleCenter(SquaredDistances(p), CenterCentroid)
		vech := HalfVectorize(gram)
		tk := times[k]
		for j := 0; j < nbar; j++ {
			row := k*nbar + j
			t.Set(row, j, 1)
			t.Set(row, nbar+j, tk)
			t.Set(row, 2*nbar+j, tk*tk)
			g.SetVec(row, vech.AtVec(j))
		}
	}
	return t, g, n, nil
}

// solveShape runs the QR least-squares solve and splits θ into B0, B1 and B2.
func solveShape(t *mat.Dense, g *mat.VecDense) (ShapeCoefficients, error) {
	var qr mat.QR
	qr.Factorize(t)
	var theta mat.VecDense
	if err := qr.SolveVecTo(&theta, false, g); err != nil {
		return ShapeCoefficients{}, fmt.Errorf("shape coefficient solve failed: %w", err)
	}
	_, cols := t.Dims()
	nbar := cols / 3
	b0, err := HalfVectorizeInverse(theta.SliceVec(0, nbar))
	if err != nil {
		return ShapeCoefficients{}, err
	}
	b1, err := HalfVectorizeInverse(theta.SliceVec(nbar, 2*nbar))
	if err != nil {
		return ShapeCoefficients{}, err
	}
	b2, err := HalfVectorizeInverse(theta.SliceVec(2*nbar, 3*nbar))
	if err != nil {
		return ShapeCoefficients{}, err
	}
	return ShapeCoefficients{B0: b0, B1: b1, B2: b2}, nil
}

// gramianPropagation returns M = -½ D⁺ (C⊗C) D, the linear map taking the vech
// of an EDM perturbation to the vech of the induced Gramian perturbation.
func gramianPropagation(n int) (*mat.Dense, error) {
	dup := DuplicationMatrix(n)
	dupInv, err := PseudoInverse(dup)
	if err != nil {
		return nil, fmt.Errorf("duplication matrix pseudo-inverse: %w", err)
	}
	c := CenteringMatrix(n)
	var cc mat.Dense
	cc.Kronecker(c, c)
	nbar := n * (n + 1) / 2
	m := mat.NewDense(nbar, nbar, nil)
	m.Product(dupInv, &cc, dup)
	m.Scale(-0.5, m)
	return m, nil
}

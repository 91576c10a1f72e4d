package relkin

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Centering selects the reference point of a double-centered Gramian.
type Centering uint8

const (
	// CenterCentroid moves the centroid of the configuration to the origin.
	CenterCentroid Centering = iota
	// CenterFirstPoint moves the first point of the configuration to the origin.
	CenterFirstPoint
)

// PairwiseDistances returns the N x N matrix of Euclidean distances between the
// columns of the d x N configuration X.
func PairwiseDistances(x mat.Matrix) *mat.SymDense {
	d, n := x.Dims()
	p := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			sum := 0.0
			for k := 0; k < d; k++ {
				diff := x.At(k, i) - x.At(k, j)
				sum += diff * diff
			}
			p.SetSym(i, j, math.Sqrt(sum))
		}
	}
	return p
}

// EDM returns the Euclidean Distance Matrix (squared distances) of the columns
// of X, computed from the Gram matrix identity D = g1ᵀ + 1gᵀ - 2XᵀX.
func EDM(x mat.Matrix) *mat.SymDense {
	_, n := x.Dims()
	var g mat.Dense
	g.Mul(x.T(), x)
	d := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			d.SetSym(i, j, g.At(i, i)+g.At(j, j)-2*g.At(i, j))
		}
	}
	return d
}

// CenteringMatrix returns C = I - 11ᵀ/n, the geometric centering operator.
func CenteringMatrix(n int) *mat.SymDense {
	c := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			if i == j {
				c.SetSym(i, j, 1-1/float64(n))
			} else {
				c.SetSym(i, j, -1/float64(n))
			}
		}
	}
	return c
}

// DoubleCenter recovers a Gramian from an EDM: G = -½ Jᵀ D J, with J the
// centering operator selected by c. Double-centering an already centered
// Gramian leaves it unchanged.
func DoubleCenter(d mat.Matrix, c Centering) *mat.SymDense {
	_, n := d.Dims()
	j := mat.NewDense(n, n, nil)
	switch c {
	case CenterFirstPoint:
		for r := 0; r < n; r++ {
			j.Set(r, r, 1)
		}
		for col := 0; col < n; col++ {
			j.Set(0, col, j.At(0, col)-1)
		}
	default:
		for r := 0; r < n; r++ {
			for col := 0; col < n; col++ {
				if r == col {
					j.Set(r, col, 1-1/float64(n))
				} else {
					j.Set(r, col, -1/float64(n))
				}
			}
		}
	}
	var g mat.Dense
	g.Product(j.T(), d, j)
	g.Scale(-0.5, &g)
	// The product is symmetric up to rounding; symmetrize explicitly.
	s := mat.NewSymDense(n, nil)
	for r := 0; r < n; r++ {
		for col := r; col < n; col++ {
			s.SetSym(r, col, (g.At(r, col)+g.At(col, r))/2)
		}
	}
	return s
}

// SquaredDistances squares a pairwise distance matrix element-wise into an EDM.
func SquaredDistances(p mat.Symmetric) *mat.SymDense {
	n := p.SymmetricDim()
	d := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			v := p.At(i, j)
			d.SetSym(i, j, v*v)
		}
	}
	return d
}

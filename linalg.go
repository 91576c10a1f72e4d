package relkin

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Vectorize stacks the columns of A into a single vector (column-major vec operator).
func Vectorize(a mat.Matrix) *mat.VecDense {
	r, c := a.Dims()
	v := mat.NewVecDense(r*c, nil)
	for j := 0; j < c; j++ {
		for i := 0; i < r; i++ {
			v.SetVec(j*r+i, a.At(i, j))
		}
	}
	return v
}

// VectorizeInverse rebuilds an r x c matrix from its column-major vectorization.
// If rows and cols are both zero, the matrix is assumed square.
func VectorizeInverse(v mat.Vector, rows, cols int) (*mat.Dense, error) {
	n := v.Len()
	if n == 0 {
		return nil, fmt.Errorf("cannot rebuild a matrix from an empty vector")
	}
	if rows == 0 && cols == 0 {
		side := int(math.Sqrt(float64(n)))
		if side*side != n {
			return nil, fmt.Errorf("vector of length %d is not a vectorized square matrix", n)
		}
		rows, cols = side, side
	}
	if rows*cols != n {
		return nil, fmt.Errorf("vector of length %d cannot fill a %dx%d matrix", n, rows, cols)
	}
	a := mat.NewDense(rows, cols, nil)
	for j := 0; j < cols; j++ {
		for i := 0; i < rows; i++ {
			a.Set(i, j, v.AtVec(j*rows+i))
		}
	}
	return a, nil
}

// HalfVectorize returns vech(S): the upper triangle of the symmetric matrix S,
// diagonal included, read row by row.
func HalfVectorize(s mat.Symmetric) *mat.VecDense {
	n := s.SymmetricDim()
	v := mat.NewVecDense(n*(n+1)/2, nil)
	idx := 0
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			v.SetVec(idx, s.At(i, j))
			idx++
		}
	}
	return v
}

// HalfVectorizeHollow returns the strict upper triangle of S read row by row,
// i.e. vech without the diagonal.
func HalfVectorizeHollow(s mat.Symmetric) *mat.VecDense {
	n := s.SymmetricDim()
	v := mat.NewVecDense(n*(n-1)/2, nil)
	idx := 0
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			v.SetVec(idx, s.At(i, j))
			idx++
		}
	}
	return v
}

// HalfVectorizeInverse rebuilds the symmetric matrix whose vech is v.
func HalfVectorizeInverse(v mat.Vector) (*mat.SymDense, error) {
	l := v.Len()
	n := int((-1 + math.Sqrt(float64(1+8*l))) / 2)
	if l == 0 || n*(n+1)/2 != l {
		return nil, fmt.Errorf("vector of length %d is not the vech of a symmetric matrix", l)
	}
	s := mat.NewSymDense(n, nil)
	idx := 0
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			s.SetSym(i, j, v.AtVec(idx))
			idx++
		}
	}
	return s, nil
}

// HalfVectorizeInverseHollow rebuilds the zero-diagonal symmetric matrix whose
// strict upper triangle, read row by row, is v.
func HalfVectorizeInverseHollow(v mat.Vector) (*mat.SymDense, error) {
	l := v.Len()
	n := int((1 + math.Sqrt(float64(1+8*l))) / 2)
	if n*(n-1)/2 != l {
		return nil, fmt.Errorf("vector of length %d is not the hollow vech of a symmetric matrix", l)
	}
	s := mat.NewSymDense(n, nil)
	idx := 0
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			s.SetSym(i, j, v.AtVec(idx))
			idx++
		}
	}
	return s, nil
}

// vechIndex returns the position of element (i,j), i <= j, in the row-major
// upper-triangle ordering used by HalfVectorize.
func vechIndex(n, i, j int) int {
	return i*n - i*(i-1)/2 + (j - i)
}

// CommutationMatrix returns the mn x mn matrix K such that K*vec(A) = vec(Aᵀ)
// for any m x n matrix A.
func CommutationMatrix(m, n int) *mat.Dense {
	k := mat.NewDense(m*n, m*n, nil)
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			k.Set(n*i+j, m*j+i, 1)
		}
	}
	return k
}

// DuplicationMatrix returns the n² x n(n+1)/2 matrix D such that
// D*vech(S) = vec(S) for any symmetric n x n matrix S.
func DuplicationMatrix(n int) *mat.Dense {
	d := mat.NewDense(n*n, n*(n+1)/2, nil)
	for c := 0; c < n; c++ {
		for r := 0; r < n; r++ {
			i, j := r, c
			if i > j {
				i, j = j, i
			}
			d.Set(c*n+r, vechIndex(n, i, j), 1)
		}
	}
	return d
}

// PseudoInverse computes the Moore-Penrose inverse of a via a thin SVD.
// Singular values below max(r,c)*eps*σmax are treated as zero.
func PseudoInverse(a mat.Matrix) (*mat.Dense, error) {
	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDThin); !ok {
		return nil, fmt.Errorf("SVD factorization failed")
	}
	r, c := a.Dims()
	sv := svd.Values(nil)
	tol := float64(max(r, c)) * eps * sv[0]
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	// V * Σ⁺ * Uᵀ
	sInv := mat.NewDense(len(sv), len(sv), nil)
	for i, s := range sv {
		if s > tol {
			sInv.Set(i, i, 1/s)
		}
	}
	pinv := mat.NewDense(c, r, nil)
	pinv.Product(&v, sInv, u.T())
	return pinv, nil
}

const eps = 2.220446049250313e-16

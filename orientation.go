package relkin

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// OrientationEstimate recovers the relative orientation H linking the velocity
// embedding X1 to the position embedding X0 from b = vec(B1), the vectorized
// cross Gram coefficient: B1 = X0ᵀHᵀX1 + X1ᵀHX0. The linear system
// Φ·vec(H) ≈ b with Φ = (I + K)(X1ᵀ ⊗ X0ᵀ), K the commutation matrix, is
// solved in the least-squares sense and the result projected onto the
// orthogonal group via its SVD. Both the projected and the raw least-squares
// estimates are returned.
func OrientationEstimate(x1, x0 mat.Matrix, b mat.Vector) (h, hRaw *mat.Dense, err error) {
	if err = checkMatDims(x1, x0, "X1", "X0", rowsAndcols); err != nil {
		return nil, nil, err
	}
	d, n := x0.Dims()
	if b.Len() != n*n {
		return nil, nil, fmt.Errorf("vec(B1) has length %d, expected %d", b.Len(), n*n)
	}

	var kron mat.Dense
	kron.Kronecker(x1.T(), x0.T())
	comm := CommutationMatrix(n, n)
	for i := 0; i < n*n; i++ {
		comm.Set(i, i, comm.At(i, i)+1)
	}
	var phi mat.Dense
	phi.Mul(comm, &kron)

	var qr mat.QR
	qr.Factorize(&phi)
	var vecH mat.VecDense
	if err = qr.SolveVecTo(&vecH, false, b); err != nil {
		return nil, nil, fmt.Errorf("orientation solve failed: %w", err)
	}
	hRaw, err = VectorizeInverse(&vecH, d, d)
	if err != nil {
		return nil, nil, err
	}

	// Nearest orthogonal matrix.
	var svd mat.SVD
	if ok := svd.Factorize(hRaw, mat.SVDThin); !ok {
		return nil, nil, fmt.Errorf("SVD of the raw orientation estimate failed")
	}
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	h = mat.NewDense(d, d, nil)
	h.Mul(&u, v.T())
	return h, hRaw, nil
}

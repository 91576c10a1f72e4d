package relkin

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// CMDS performs classical multidimensional scaling on the Gramian G and returns
// the dim x N embedding whose rows correspond to the largest eigenvalues,
// i.e. the first dim rows of diag(√λ)Vᵀ with λ sorted in descending order.
// Negative trailing eigenvalues, which appear when G is a noisy estimate, are
// clamped to zero. If dim is zero the full N x N embedding is returned.
//
// The recovered configuration matches the original one only up to an orthogonal
// transform; use OrthogonalProcrustes to align it to a reference.
func CMDS(g mat.Symmetric, dim int) (*mat.Dense, error) {
	n := g.SymmetricDim()
	if dim < 0 || dim > n {
		return nil, fmt.Errorf("embedding dimension %d out of range for a %dx%d Gramian", dim, n, n)
	}
	if dim == 0 {
		dim = n
	}
	var es mat.EigenSym
	if ok := es.Factorize(g, true); !ok {
		return nil, fmt.Errorf("eigendecomposition of the Gramian failed")
	}
	vals := es.Values(nil)
	var vecs mat.Dense
	es.VectorsTo(&vecs)

	// Eigenvalues come out in ascending order; re-index them descending.
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return vals[order[a]] > vals[order[b]] })

	embedding := mat.NewDense(dim, n, nil)
	for r := 0; r < dim; r++ {
		ev := vals[order[r]]
		if ev < 0 {
			ev = 0
		}
		scale := math.Sqrt(ev)
		for c := 0; c < n; c++ {
			embedding.Set(r, c, scale*vecs.At(c, order[r]))
		}
	}
	return embedding, nil
}

// CMDSFromEDM double-centers the EDM at the centroid and embeds it via CMDS.
func CMDSFromEDM(d mat.Matrix, dim int) (*mat.Dense, error) {
	return CMDS(DoubleCenter(d, CenterCentroid), dim)
}

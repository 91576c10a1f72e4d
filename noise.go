package relkin

import (
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Noise perturbs the pairwise distance measurements of a swarm.
type Noise interface {
	Distances(k int) *mat.SymDense // Returns the hollow symmetric perturbation of the distance matrix at epoch k
	Sigma() float64                // Returns the standard deviation of a single pairwise measurement
	String() string                // Stringer interface implementation
}

// Noiseless is noiseless and implements the Noise interface.
type Noiseless struct {
	n int
}

// NewNoiseless creates a zero perturbation source for an n point swarm.
func NewNoiseless(n int) *Noiseless {
	if n < 2 {
		panic("a swarm requires at least two points")
	}
	return &Noiseless{n}
}

// Distances returns a zero perturbation of the correct size.
func (n Noiseless) Distances(k int) *mat.SymDense {
	return mat.NewSymDense(n.n, nil)
}

// Sigma implements the Noise interface.
func (n Noiseless) Sigma() float64 {
	return 0
}

// String implements the Stringer interface.
func (n Noiseless) String() string {
	return "Noiseless"
}

// AWGN implements the Noise interface and perturbs each pairwise distance with
// an independent zero mean Gaussian draw. The draws are reproducible from the
// seed: each call to Distances consumes N(N-1)/2 values from the same stream,
// filling the strict upper triangle row by row.
type AWGN struct {
	n    int
	dist distuv.Normal
}

// NewAWGN creates a seeded Gaussian perturbation source for an n point swarm.
func NewAWGN(n int, sigma float64, seed uint64) *AWGN {
	if n < 2 {
		panic("a swarm requires at least two points")
	}
	if sigma <= 0 {
		panic("sigma must be positive")
	}
	return &AWGN{n, distuv.Normal{Mu: 0, Sigma: sigma, Src: rand.NewSource(seed)}}
}

// Distances implements the Noise interface.
func (n *AWGN) Distances(k int) *mat.SymDense {
	eta := mat.NewSymDense(n.n, nil)
	for i := 0; i < n.n; i++ {
		for j := i + 1; j < n.n; j++ {
			eta.SetSym(i, j, n.dist.Rand())
		}
	}
	return eta
}

// Sigma implements the Noise interface.
func (n *AWGN) Sigma() float64 {
	return n.dist.Sigma
}

// String implements the Stringer interface.
func (n *AWGN) String() string {
	return fmt.Sprintf("AWGN{σ=%g}", n.dist.Sigma)
}

// BatchNoise implements the Noise interface from pre-drawn perturbations.
type BatchNoise struct {
	draws []*mat.SymDense
	sigma float64
}

// NewBatchNoise wraps pre-drawn hollow perturbation matrices.
func NewBatchNoise(draws []*mat.SymDense, sigma float64) *BatchNoise {
	if len(draws) == 0 {
		panic("at least one perturbation must be provided")
	}
	return &BatchNoise{draws, sigma}
}

// Distances implements the Noise interface.
func (n BatchNoise) Distances(k int) *mat.SymDense {
	if k >= len(n.draws) {
		panic(fmt.Errorf("no perturbation defined at epoch k=%d", k))
	}
	return n.draws[k]
}

// Sigma implements the Noise interface.
func (n BatchNoise) Sigma() float64 {
	return n.sigma
}

// String implements the Stringer interface.
func (n BatchNoise) String() string {
	return "BatchNoise"
}

// PerturbDistances adds the epoch k perturbation to the true pairwise distance
// matrix. The diagonal stays zero.
func PerturbDistances(p mat.Symmetric, noise Noise, k int) *mat.SymDense {
	eta := noise.Distances(k)
	n := p.SymmetricDim()
	out := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			out.SetSym(i, j, p.At(i, j)+eta.At(i, j))
		}
	}
	return out
}

package noise

import (
	"fmt"
	"math"
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat/distmv"
)

// Gaussian is 3-axis gaussian noise
type Gaussian struct {
	// dist is a multivariate normal distribution
	dist *distmv.Normal
	// mean is Gaussian mean
	mean r3.Vec
	// cov is Gaussian covariance
	cov mat.Symmetric
	// seed seeds dist; zero seed means time based seed
	seed uint64
}

// NewGaussian creates new Gaussian noise with given mean and 3x3 covariance.
// Non-zero seed makes the noise sequence reproducible.
// It returns error if cov is not 3x3 or not positive definite.
func NewGaussian(mean r3.Vec, cov mat.Symmetric, seed uint64) (*Gaussian, error) {
	if cov == nil || cov.SymmetricDim() != 3 {
		return nil, fmt.Errorf("invalid covariance matrix")
	}

	dist, ok := newGaussianDist(mean, cov, seed)
	if !ok {
		return nil, fmt.Errorf("failed to create new Gaussian noise")
	}

	return &Gaussian{
		dist: dist,
		mean: mean,
		cov:  cov,
		seed: seed,
	}, nil
}

// NewIsotropic creates zero mean Gaussian noise with standard deviation std on every axis.
// It returns error if std is not positive.
func NewIsotropic(std float64, seed uint64) (*Gaussian, error) {
	if std <= 0 || math.IsNaN(std) || math.IsInf(std, 0) {
		return nil, fmt.Errorf("invalid standard deviation: %v", std)
	}

	v := std * std
	cov := mat.NewSymDense(3, []float64{
		v, 0, 0,
		0, v, 0,
		0, 0, v,
	})

	return NewGaussian(r3.Vec{}, cov, seed)
}

// Sample generates a sample from Gaussian noise and returns it.
func (g *Gaussian) Sample() r3.Vec {
	r := g.dist.Rand(nil)
	return r3.Vec{X: r[0], Y: r[1], Z: r[2]}
}

// Cov returns covariance matrix of Gaussian noise.
func (g *Gaussian) Cov() mat.Symmetric {
	return g.cov
}

// Mean returns Gaussian mean.
func (g *Gaussian) Mean() r3.Vec {
	return g.mean
}

// Reset resets Gaussian noise. Seeded noise restarts its sequence.
// It returns error if it fails to reset the noise.
func (g *Gaussian) Reset() error {
	dist, ok := newGaussianDist(g.mean, g.cov, g.seed)
	if !ok {
		return fmt.Errorf("failed to reset Gaussian noise")
	}
	g.dist = dist

	return nil
}

func newGaussianDist(mean r3.Vec, cov mat.Symmetric, seed uint64) (*distmv.Normal, bool) {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	src := rand.New(rand.NewSource(seed))
	return distmv.NewNormal([]float64{mean.X, mean.Y, mean.Z}, cov, src)
}

// String implements the Stringer interface.
func (g *Gaussian) String() string {
	return fmt.Sprintf("Gaussian{\nMean=%v\nCov=%v\n}", g.mean, mat.Formatted(g.cov, mat.Prefix("    "), mat.Squeeze()))
}

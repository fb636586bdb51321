package noise

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat"
)

func TestNewGaussian(t *testing.T) {
	assert := assert.New(t)

	cov := mat.NewSymDense(3, []float64{
		1, 0.1, 0,
		0.1, 1, 0,
		0, 0, 2,
	})

	g, err := NewGaussian(r3.Vec{X: 2, Y: 3}, cov, 1)
	assert.NotNil(g)
	assert.NoError(err)
	assert.Equal(r3.Vec{X: 2, Y: 3}, g.Mean())
	assert.Equal(cov, g.Cov())

	for _, c := range []mat.Symmetric{
		nil,
		mat.NewSymDense(2, []float64{1, 0, 0, 1}),
		mat.NewSymDense(3, []float64{-1, 0, 0, 0, 1, 0, 0, 0, 1}),
	} {
		g, err := NewGaussian(r3.Vec{}, c, 1)
		assert.Nil(g)
		assert.Error(err)
	}
}

func TestNewIsotropic(t *testing.T) {
	assert := assert.New(t)

	g, err := NewIsotropic(0.5, 1)
	assert.NotNil(g)
	assert.NoError(err)
	assert.Equal(0.25, g.Cov().At(1, 1))
	assert.Equal(0.0, g.Cov().At(0, 2))

	for _, std := range []float64{0, -1} {
		g, err := NewIsotropic(std, 1)
		assert.Nil(g)
		assert.Error(err)
	}
}

func TestGaussianSample(t *testing.T) {
	assert := assert.New(t)

	g, err := NewIsotropic(2, 42)
	assert.NoError(err)

	n := 5000
	xs := make([]float64, n)
	zs := make([]float64, n)
	for i := 0; i < n; i++ {
		s := g.Sample()
		xs[i], zs[i] = s.X, s.Z
	}

	assert.InDelta(0.0, stat.Mean(xs, nil), 0.2)
	assert.InDelta(2.0, stat.StdDev(zs, nil), 0.2)
}

func TestGaussianReset(t *testing.T) {
	assert := assert.New(t)

	g, err := NewIsotropic(1, 7)
	assert.NoError(err)

	sample1 := g.Sample()
	sample2 := g.Sample()
	assert.NotEqual(sample1, sample2)

	assert.NoError(g.Reset())
	assert.Equal(sample1, g.Sample())
}

func TestGaussianString(t *testing.T) {
	assert := assert.New(t)

	g, err := NewIsotropic(1, 1)
	assert.NoError(err)

	str := g.String()
	assert.Contains(str, "Gaussian{")
	assert.Contains(str, "Mean={0 0 0}")
}

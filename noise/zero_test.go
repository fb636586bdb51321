package noise

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	_ Source = (*Zero)(nil)
	_ Source = (*Gaussian)(nil)
)

func TestZero(t *testing.T) {
	assert := assert.New(t)

	e := NewZero()
	assert.Equal(r3.Vec{}, e.Sample())

	e.Reset()
	assert.Equal(r3.Vec{}, e.Sample())
	assert.Equal("Zero{\nMean={0 0 0}\n}", e.String())
}

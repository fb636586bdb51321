package estimate

import (
	"math"
	"testing"

	"github.com/milosgajdos/go-compass/pose"
	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r3"
)

const threshold = 0.1

func TestIsValid(t *testing.T) {
	assert := assert.New(t)

	// boundary is strict
	edge := math.Sqrt(0.1)
	assert.Equal(0.1, edge*edge)
	assert.False(IsValid(r3.Vec{X: edge}, threshold))
	assert.True(IsValid(r3.Vec{X: edge, Z: 1e-6}, threshold))

	// vertical component does not count
	assert.False(IsValid(r3.Vec{Y: 100}, threshold))
	assert.False(IsValid(r3.Vec{}, threshold))
	assert.True(IsValid(r3.Vec{X: 0.3, Z: 0.3}, threshold))
}

func TestEastAngle(t *testing.T) {
	assert := assert.New(t)

	assert.InDelta(0.0, EastAngle(r3.Vec{X: 1, Y: 5}, threshold), 1e-12)
	assert.InDelta(-math.Pi/2, EastAngle(r3.Vec{Z: 1, Y: -3}, threshold), 1e-12)
	assert.InDelta(math.Pi/2, EastAngle(r3.Vec{Z: -1}, threshold), 1e-12)
	assert.InDelta(math.Pi, math.Abs(EastAngle(r3.Vec{X: -1}, threshold)), 1e-12)

	// unknown heading
	assert.Equal(0.0, EastAngle(r3.Vec{X: 0.1, Z: 0.1}, threshold))
}

func TestNewHeading(t *testing.T) {
	assert := assert.New(t)

	h, err := NewHeading(r3.Vec{X: 1, Y: 2, Z: 1}, threshold)
	assert.NotNil(h)
	assert.NoError(err)

	for _, th := range []float64{-1, math.NaN()} {
		h, err = NewHeading(r3.Vec{X: 1}, th)
		assert.Nil(h)
		assert.Error(err)
	}
}

func TestHeading(t *testing.T) {
	assert := assert.New(t)

	field := r3.Vec{X: 1, Y: -0.5, Z: 1}
	h, err := NewHeading(field, threshold)
	assert.NoError(err)

	assert.Equal(field, h.Field())
	assert.True(h.Valid())
	assert.InDelta(-math.Pi/4, h.Angle(), 1e-12)

	v := h.Val()
	assert.Equal(3, v.Len())
	assert.Equal(field.X, v.AtVec(0))
	assert.Equal(field.Y, v.AtVec(1))
	assert.Equal(field.Z, v.AtVec(2))

	// rotated X axis points along horizontal field
	east := h.Rotation().Rotate(r3.Vec{X: 1})
	exp := r3.Unit(r3.Vec{X: field.X, Z: field.Z})
	assert.InDelta(exp.X, east.X, 1e-9)
	assert.InDelta(0.0, east.Y, 1e-9)
	assert.InDelta(exp.Z, east.Z, 1e-9)

	h, err = NewHeading(r3.Vec{Y: 10}, threshold)
	assert.NoError(err)
	assert.False(h.Valid())
	assert.Equal(0.0, h.Angle())
	assert.True(pose.EqualApprox(pose.IdentityRotation, h.Rotation(), 0))
	assert.Contains(h.String(), "Valid=false")
}

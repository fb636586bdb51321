package estimate

import (
	"fmt"
	"math"

	"github.com/milosgajdos/go-compass/pose"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// IsValid returns true if horizontal (x, z) component of field is strong enough to yield heading.
// The squared horizontal magnitude must be strictly greater than threshold.
func IsValid(field r3.Vec, threshold float64) bool {
	return field.X*field.X+field.Z*field.Z > threshold
}

// EastAngle returns rotation about the world vertical axis in radians which points local X axis along the field.
// It returns 0 if the field is not valid: 0 means unknown and callers must check validity first.
func EastAngle(field r3.Vec, threshold float64) float64 {
	if !IsValid(field, threshold) {
		return 0
	}
	// negative because positive rotation about Y rotates X away from Z
	return -math.Atan2(field.Z, field.X)
}

// Heading is a heading estimate derived from a single accumulated field value
type Heading struct {
	// field is accumulated field in world coordinates
	field r3.Vec
	// valid is true if the heading can be trusted
	valid bool
	// angle is east angle
	angle float64
}

// NewHeading returns heading estimate of field using validity threshold.
// It returns error if threshold is negative or NaN.
func NewHeading(field r3.Vec, threshold float64) (*Heading, error) {
	if threshold < 0 || math.IsNaN(threshold) {
		return nil, fmt.Errorf("invalid validity threshold: %v", threshold)
	}

	return &Heading{
		field: field,
		valid: IsValid(field, threshold),
		angle: EastAngle(field, threshold),
	}, nil
}

// Field returns accumulated field
func (h *Heading) Field() r3.Vec {
	return h.field
}

// Val returns accumulated field as vector
func (h *Heading) Val() mat.Vector {
	return mat.NewVecDense(3, []float64{h.field.X, h.field.Y, h.field.Z})
}

// Valid returns true if the heading can be trusted
func (h *Heading) Valid() bool {
	return h.valid
}

// Angle returns east angle in radians
func (h *Heading) Angle() float64 {
	return h.angle
}

// Rotation returns rotation about world Y axis by east angle
func (h *Heading) Rotation() r3.Rotation {
	return pose.AxisRotation(pose.AxisY, h.angle)
}

// String implements the Stringer interface.
func (h *Heading) String() string {
	return fmt.Sprintf("Heading{\nField=%v\nValid=%t\nAngle=%.4f\n}", h.field, h.valid, h.angle)
}

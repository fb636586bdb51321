package noise

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// Zero is zero noise i.e. no noise
type Zero struct{}

// NewZero creates new zero noise and returns it
func NewZero() *Zero {
	return &Zero{}
}

// Sample returns zero vector
func (e *Zero) Sample() r3.Vec {
	return r3.Vec{}
}

// Reset does nothing: zero noise has no state.
func (e *Zero) Reset() {}

// String implements the Stringer interface.
func (e *Zero) String() string {
	return fmt.Sprintf("Zero{\nMean=%v\n}", r3.Vec{})
}

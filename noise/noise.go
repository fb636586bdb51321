// Package noise provides 3-axis sensor noise used to perturb simulated magnetometer samples.
package noise

import "gonum.org/v1/gonum/spatial/r3"

// Source generates noise samples
type Source interface {
	// Sample returns noise sample
	Sample() r3.Vec
}

// Package sensor defines typed readings delivered by hardware motion sensors.
package sensor

import (
	"fmt"
	"strings"
	"time"

	"gonum.org/v1/gonum/spatial/r3"
)

// DefaultSamplingPeriod is the reference magnetometer sampling period (5 Hz)
const DefaultSamplingPeriod = 200 * time.Millisecond

// Type is sensor type
type Type int

const (
	// Unknown is unrecognised sensor type
	Unknown Type = iota
	// MagneticField is 3-axis magnetometer measuring micro Tesla
	MagneticField
	// Accelerometer is 3-axis accelerometer measuring m/s^2
	Accelerometer
	// Gyroscope is 3-axis gyroscope measuring rad/s
	Gyroscope
)

var typeNames = map[Type]string{
	Unknown:       "unknown",
	MagneticField: "mag",
	Accelerometer: "acc",
	Gyroscope:     "gyro",
}

// String implements the Stringer interface.
func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return typeNames[Unknown]
}

// ParseType parses sensor type from its short name.
// It returns error if the name is not recognised.
func ParseType(s string) (Type, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for t, n := range typeNames {
		if t != Unknown && n == name {
			return t, nil
		}
	}
	return Unknown, fmt.Errorf("unknown sensor type: %q", s)
}

// Accuracy is the accuracy reported by a sensor for its readings
type Accuracy int

const (
	// Unreliable readings should not be trusted
	Unreliable Accuracy = iota
	// Low accuracy readings
	Low
	// Medium accuracy readings
	Medium
	// High accuracy readings
	High
)

// String implements the Stringer interface.
func (a Accuracy) String() string {
	switch a {
	case Unreliable:
		return "unreliable"
	case Low:
		return "low"
	case Medium:
		return "medium"
	case High:
		return "high"
	default:
		return fmt.Sprintf("Accuracy(%d)", int(a))
	}
}

// Reading is a single 3-axis sensor reading expressed in device coordinates
type Reading struct {
	// Type is sensor type
	Type Type
	// Values are x, y and z axis values
	Values [3]float64
	// Accuracy is reported accuracy
	Accuracy Accuracy
	// Time is reading timestamp
	Time time.Time
}

// NewReading returns new reading of type t with values v.
func NewReading(t Type, v r3.Vec) Reading {
	return Reading{
		Type:     t,
		Values:   [3]float64{v.X, v.Y, v.Z},
		Accuracy: High,
	}
}

// Vec returns reading values as vector
func (r Reading) Vec() r3.Vec {
	return r3.Vec{X: r.Values[0], Y: r.Values[1], Z: r.Values[2]}
}

// String implements the Stringer interface.
func (r Reading) String() string {
	return fmt.Sprintf("%s%v[%s]", r.Type, r.Values, r.Accuracy)
}

// Package heading estimates magnetic heading by fusing magnetometer samples with
// device to world rotations reported by a world tracking system.
//
// Every sample is rotated into world coordinates and folded into a leaky integrator:
//
//	acc = acc*DecayRate + rotated
//
// The heading is valid once the horizontal (x, z) part of the accumulator is strong enough.
// Losing tracking zeroes the accumulator; the last known rotation is kept.
package heading

import (
	"sync"

	compass "github.com/milosgajdos/go-compass"
	"github.com/milosgajdos/go-compass/estimate"
	"github.com/milosgajdos/go-compass/internal/monitoring"
	"github.com/milosgajdos/go-compass/pose"
	"github.com/milosgajdos/go-compass/sensor"
	"gonum.org/v1/gonum/spatial/r3"
)

var logf = monitoring.Prefixed("heading")

// State is estimator state
type State int

const (
	// Uninitialized means no tracking update has been received yet
	Uninitialized State = iota
	// Established means device to world rotation is known
	Established
)

// String implements the Stringer interface.
func (s State) String() string {
	switch s {
	case Uninitialized:
		return "Uninitialized"
	case Established:
		return "Established"
	default:
		return "Unknown"
	}
}

// Estimator is magnetic heading estimator.
// It is safe for concurrent use.
type Estimator struct {
	// decay is accumulator decay rate
	decay float64
	// threshold is validity threshold
	threshold float64

	mu sync.RWMutex
	// acc is accumulated field in world coordinates
	acc r3.Vec
	// deviceToWorld rotates device coordinates into world coordinates
	deviceToWorld r3.Rotation
	// hasRotation is false until the first tracking update
	hasRotation bool
	// tracking is the last reported tracking status
	tracking bool
	// accuracy is the last reported magnetometer accuracy
	accuracy sensor.Accuracy
}

// New creates new heading estimator and returns it.
// If c is nil, DefaultConfig is used. It returns error if c is invalid.
func New(c *Config) (*Estimator, error) {
	if c == nil {
		c = DefaultConfig()
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return &Estimator{
		decay:         c.DecayRate,
		threshold:     c.ValidThreshold,
		deviceToWorld: pose.IdentityRotation,
		accuracy:      sensor.High,
	}, nil
}

// OnTrackingUpdate refreshes device to world rotation from the display oriented camera pose
// composed with aux rotation. Translation is discarded.
// The accumulator is zeroed unless status is compass.Tracking.
func (e *Estimator) OnTrackingUpdate(cameraPose pose.Pose, status compass.TrackingStatus, aux r3.Rotation) {
	devicePose := pose.Compose(cameraPose, pose.FromRotation(aux)).ExtractRotation()
	tracking := status == compass.Tracking

	e.mu.Lock()
	first := !e.hasRotation
	lost := !tracking && (e.tracking || first)
	e.deviceToWorld = devicePose.Rotation
	e.hasRotation = true
	e.tracking = tracking
	if !tracking {
		e.acc = r3.Vec{}
	}
	e.mu.Unlock()

	if first {
		logf("device rotation established, tracking: %s", status)
	}
	if lost {
		logf("tracking %s, field estimate reset", status)
	}
}

// OnFrame applies tracking frame f. Display rotation d is turned into the auxiliary
// rotation about device Z axis; nil d means the display is in its natural orientation.
func (e *Estimator) OnFrame(f compass.Frame, d compass.Display) {
	turns := 0
	if d != nil {
		turns = d.Rotation()
	}

	e.OnTrackingUpdate(f.DisplayOrientedPose(), f.TrackingStatus(), pose.DisplayCorrection(turns))
}

// OnSample rotates raw field sample from device into world coordinates and folds it into the estimate.
// Samples received before the first tracking update are dropped.
func (e *Estimator) OnSample(field r3.Vec) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.hasRotation {
		return
	}

	rotated := e.deviceToWorld.Rotate(field)
	e.acc.X = e.acc.X*e.decay + rotated.X
	e.acc.Y = e.acc.Y*e.decay + rotated.Y
	e.acc.Z = e.acc.Z*e.decay + rotated.Z
}

// OnReading folds magnetometer reading r into the estimate. Other readings are ignored.
func (e *Estimator) OnReading(r sensor.Reading) {
	if r.Type != sensor.MagneticField {
		return
	}
	e.OnSample(r.Vec())
}

// OnAccuracyChanged records accuracy a reported by magnetometer.
// It never modifies the estimate. Accuracy changes of other sensors are ignored.
func (e *Estimator) OnAccuracyChanged(t sensor.Type, a sensor.Accuracy) {
	if t != sensor.MagneticField {
		return
	}

	e.mu.Lock()
	prev := e.accuracy
	e.accuracy = a
	e.mu.Unlock()

	if prev != a {
		logf("magnetometer accuracy changed: %s -> %s", prev, a)
	}
}

// Accuracy returns the last reported magnetometer accuracy
func (e *Estimator) Accuracy() sensor.Accuracy {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.accuracy
}

// FieldDirection returns accumulated field in world coordinates
func (e *Estimator) FieldDirection() r3.Vec {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.acc
}

// Valid returns true if the horizontal part of the accumulated field exceeds validity threshold
func (e *Estimator) Valid() bool {
	return estimate.IsValid(e.FieldDirection(), e.threshold)
}

// EastAngle returns the rotation about world Y axis in radians which points local X axis east.
// It returns 0 when the heading is not valid: callers must check Valid first.
func (e *Estimator) EastAngle() float64 {
	return estimate.EastAngle(e.FieldDirection(), e.threshold)
}

// EastRotation returns rotation about world Y axis by EastAngle
func (e *Estimator) EastRotation() r3.Rotation {
	return pose.AxisRotation(pose.AxisY, e.EastAngle())
}

// Snapshot returns heading estimate computed from a single accumulator value
func (e *Estimator) Snapshot() *estimate.Heading {
	// threshold is validated in New
	h, _ := estimate.NewHeading(e.FieldDirection(), e.threshold)
	return h
}

// State returns estimator state
func (e *Estimator) State() State {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if !e.hasRotation {
		return Uninitialized
	}
	return Established
}

// Reset zeroes the accumulator. Device to world rotation is kept.
func (e *Estimator) Reset() {
	e.mu.Lock()
	e.acc = r3.Vec{}
	e.mu.Unlock()
}

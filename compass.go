package compass

import (
	"github.com/milosgajdos/go-compass/estimate"
	"github.com/milosgajdos/go-compass/pose"
	"github.com/milosgajdos/go-compass/sensor"
	"gonum.org/v1/gonum/spatial/r3"
)

// TrackingStatus is the state reported by a world tracking system
type TrackingStatus int

const (
	// Tracking means the world pose estimate is reliable
	Tracking TrackingStatus = iota
	// Paused means tracking is temporarily lost
	Paused
	// Stopped means tracking has stopped and will not resume on its own
	Stopped
)

// String implements the Stringer interface.
func (s TrackingStatus) String() string {
	switch s {
	case Tracking:
		return "Tracking"
	case Paused:
		return "Paused"
	case Stopped:
		return "Stopped"
	default:
		return "Unknown"
	}
}

// Frame is a single update of a world tracking system
type Frame interface {
	// DisplayOrientedPose returns camera pose aligned with the display
	DisplayOrientedPose() pose.Pose
	// TrackingStatus returns camera tracking status
	TrackingStatus() TrackingStatus
}

// Display reports the rotation of the display relative to its natural orientation
type Display interface {
	// Rotation returns display rotation in quarter turns
	Rotation() int
}

// Heading is a source of magnetic heading estimates
type Heading interface {
	// FieldDirection returns accumulated magnetic field in world coordinates
	FieldDirection() r3.Vec
	// Valid reports whether the heading can be trusted
	Valid() bool
	// EastAngle returns the rotation about world vertical axis which points local X axis east
	EastAngle() float64
	// EastRotation returns EastAngle as rotation
	EastRotation() r3.Rotation
}

// Estimator fuses tracking updates and magnetometer samples into a heading
type Estimator interface {
	// Heading provides heading estimates
	Heading
	// OnTrackingUpdate refreshes device to world rotation
	OnTrackingUpdate(pose.Pose, TrackingStatus, r3.Rotation)
	// OnSample folds raw magnetic field sample into the estimate
	OnSample(r3.Vec)
	// OnReading folds magnetometer readings and ignores everything else
	OnReading(sensor.Reading)
}

// Tracker is heading estimator driven by tracking frames and sensor readings
type Tracker interface {
	// OnFrame applies tracking frame
	OnFrame(Frame, Display)
	// OnReading folds sensor reading into the estimate
	OnReading(sensor.Reading)
	// Snapshot returns current heading estimate
	Snapshot() *estimate.Heading
}

// Package sim simulates a handheld device which rotates in a constant world magnetic field
// while a world tracking system reports its pose.
package sim

import (
	"fmt"
	"math"
	"time"

	compass "github.com/milosgajdos/go-compass"
	"github.com/milosgajdos/go-compass/noise"
	"github.com/milosgajdos/go-compass/pose"
	"github.com/milosgajdos/go-compass/sensor"
	"gonum.org/v1/gonum/spatial/r3"
)

// Window is a range of steps [Start, End) during which tracking is lost
type Window struct {
	Start int
	End   int
}

// Contains returns true if step falls into the window
func (w Window) Contains(step int) bool {
	return step >= w.Start && step < w.End
}

// Config is simulation configuration
type Config struct {
	// Steps is the number of simulated samples
	Steps int
	// Period is sampling period
	Period time.Duration
	// Field is magnetic field in world coordinates
	Field r3.Vec
	// YawRate is device rotation rate about world vertical axis in degrees per second
	YawRate float64
	// Tilt is device tilt about its X axis in degrees
	Tilt float64
	// DisplayRotation is display rotation in quarter turns
	DisplayRotation int
	// Noise perturbs magnetometer samples; nil means no noise
	Noise noise.Source
	// TrackingLoss lists windows without tracking
	TrackingLoss []Window
	// Start is the timestamp of the first sample
	Start time.Time
}

// Validate returns error if the configuration is invalid
func (c *Config) Validate() error {
	if c.Steps <= 0 {
		return fmt.Errorf("invalid number of steps: %d", c.Steps)
	}

	if c.Period <= 0 {
		return fmt.Errorf("invalid sampling period: %s", c.Period)
	}

	for _, f := range []float64{c.Field.X, c.Field.Y, c.Field.Z, c.YawRate, c.Tilt} {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("invalid trajectory parameter: %v", f)
		}
	}

	for _, w := range c.TrackingLoss {
		if w.Start < 0 || w.End <= w.Start {
			return fmt.Errorf("invalid tracking loss window: [%d, %d)", w.Start, w.End)
		}
	}

	return nil
}

// Display is a display rotated by a fixed number of quarter turns
type Display int

// Rotation returns display rotation in quarter turns
func (d Display) Rotation() int {
	return int(d)
}

// Step is a single simulation step. It implements compass.Frame.
type Step struct {
	// Index is step index
	Index int
	// Elapsed is time since the first step
	Elapsed time.Duration
	// Device is the true device to world rotation
	Device r3.Rotation
	// Camera is display oriented camera pose reported by tracking
	Camera pose.Pose
	// Status is tracking status
	Status compass.TrackingStatus
	// Display is display rotation
	Display Display
	// Reading is magnetometer reading in device coordinates
	Reading sensor.Reading
}

// DisplayOrientedPose returns camera pose
func (s *Step) DisplayOrientedPose() pose.Pose {
	return s.Camera
}

// TrackingStatus returns tracking status
func (s *Step) TrackingStatus() compass.TrackingStatus {
	return s.Status
}

// Device is a simulated device
type Device struct {
	c     Config
	tilt  r3.Rotation
	aux   r3.Rotation
	noise noise.Source
	step  int
}

// NewDevice creates new simulated device and returns it.
// It returns error if c is invalid.
func NewDevice(c *Config) (*Device, error) {
	if c == nil {
		return nil, fmt.Errorf("invalid config: nil")
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	var src noise.Source = noise.NewZero()
	if c.Noise != nil {
		src = c.Noise
	}

	return &Device{
		c:     *c,
		tilt:  pose.AxisRotation(pose.AxisX, c.Tilt*math.Pi/180),
		aux:   pose.DisplayCorrection(c.DisplayRotation),
		noise: src,
	}, nil
}

// Next advances the device and returns the next step.
// It returns false once all steps have been generated.
func (d *Device) Next() (*Step, bool) {
	if d.step >= d.c.Steps {
		return nil, false
	}

	i := d.step
	d.step++

	elapsed := time.Duration(i) * d.c.Period
	yaw := d.c.YawRate * math.Pi / 180 * elapsed.Seconds()
	device := pose.ComposeRotations(pose.AxisRotation(pose.AxisY, yaw), d.tilt)

	// device = camera * aux
	camera := pose.FromRotation(pose.ComposeRotations(device, pose.InverseRotation(d.aux)))

	raw := r3.Add(pose.InverseRotation(device).Rotate(d.c.Field), d.noise.Sample())
	reading := sensor.NewReading(sensor.MagneticField, raw)
	reading.Time = d.c.Start.Add(elapsed)

	status := compass.Tracking
	for _, w := range d.c.TrackingLoss {
		if w.Contains(i) {
			status = compass.Paused
			break
		}
	}

	return &Step{
		Index:   i,
		Elapsed: elapsed,
		Device:  device,
		Camera:  camera,
		Status:  status,
		Display: Display(d.c.DisplayRotation),
		Reading: reading,
	}, true
}

// Reset rewinds the device to its first step
func (d *Device) Reset() {
	d.step = 0
}

// TrueAngle returns the east angle of the world field
func (d *Device) TrueAngle() float64 {
	return -math.Atan2(d.c.Field.Z, d.c.Field.X)
}

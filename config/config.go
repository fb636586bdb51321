// Package config loads go-compass YAML configuration files.
package config

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/milosgajdos/go-compass/heading"
	"github.com/milosgajdos/go-compass/noise"
	"github.com/milosgajdos/go-compass/sensor"
	"github.com/milosgajdos/go-compass/sensor/serial"
	"github.com/milosgajdos/go-compass/sim"
	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"
)

// EstimatorConfig configures heading estimator
type EstimatorConfig struct {
	DecayRate      float64 `yaml:"decay_rate"`
	ValidThreshold float64 `yaml:"valid_threshold"`
}

// SensorConfig configures magnetometer serial source
type SensorConfig struct {
	SerialPort   string  `yaml:"serial_port"`
	BaudRate     int     `yaml:"baud_rate"`
	SampleRateHz float64 `yaml:"sample_rate_hz"`
}

// FieldConfig is world magnetic field in micro Tesla
type FieldConfig struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

// WindowConfig is a range of simulation steps without tracking
type WindowConfig struct {
	Start int `yaml:"start"`
	End   int `yaml:"end"`
}

// SimulationConfig configures simulated device
type SimulationConfig struct {
	Steps           int            `yaml:"steps"`
	SampleRateHz    float64        `yaml:"sample_rate_hz"`
	YawRateDeg      float64        `yaml:"yaw_rate_deg"`
	TiltDeg         float64        `yaml:"tilt_deg"`
	DisplayRotation int            `yaml:"display_rotation"`
	NoiseStd        float64        `yaml:"noise_std"`
	Seed            uint64         `yaml:"seed"`
	Field           FieldConfig    `yaml:"field"`
	TrackingLoss    []WindowConfig `yaml:"tracking_loss"`
}

// TraceConfig configures heading trace recording
type TraceConfig struct {
	// Path is SQLite database path; empty path disables tracing
	Path string `yaml:"path"`
}

// Config is the top-level configuration
type Config struct {
	Estimator  EstimatorConfig  `yaml:"estimator"`
	Sensor     SensorConfig     `yaml:"sensor"`
	Simulation SimulationConfig `yaml:"simulation"`
	Trace      TraceConfig      `yaml:"trace"`
}

// Default returns default configuration
func Default() *Config {
	rate := float64(time.Second) / float64(sensor.DefaultSamplingPeriod)

	return &Config{
		Estimator: EstimatorConfig{
			DecayRate:      heading.DecayRate,
			ValidThreshold: heading.ValidThreshold,
		},
		Sensor: SensorConfig{
			BaudRate:     serial.DefaultOptions().BaudRate,
			SampleRateHz: rate,
		},
		Simulation: SimulationConfig{
			Steps:        100,
			SampleRateHz: rate,
			YawRateDeg:   15,
			TiltDeg:      10,
			NoiseStd:     1,
			Field:        FieldConfig{X: 20, Y: -42, Z: 5},
		},
	}
}

// Load reads configuration from YAML file at path.
// Keys missing in the file keep their default values.
// It returns error if the file can't be read or the configuration is invalid.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return c, nil
}

// Parse parses YAML configuration from data on top of Default.
// It returns error if data is malformed or the configuration is invalid.
func Parse(data []byte) (*Config, error) {
	c := Default()
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

// Validate returns error if the configuration is invalid
func (c *Config) Validate() error {
	if err := c.Heading().Validate(); err != nil {
		return fmt.Errorf("estimator: %w", err)
	}

	if c.Sensor.BaudRate <= 0 {
		return fmt.Errorf("sensor: invalid baud rate: %d", c.Sensor.BaudRate)
	}

	if !validRate(c.Sensor.SampleRateHz) {
		return fmt.Errorf("sensor: invalid sample rate: %v", c.Sensor.SampleRateHz)
	}

	if !validRate(c.Simulation.SampleRateHz) {
		return fmt.Errorf("simulation: invalid sample rate: %v", c.Simulation.SampleRateHz)
	}

	if c.Simulation.NoiseStd < 0 || math.IsNaN(c.Simulation.NoiseStd) {
		return fmt.Errorf("simulation: invalid noise std: %v", c.Simulation.NoiseStd)
	}

	if err := c.simConfig().Validate(); err != nil {
		return fmt.Errorf("simulation: %w", err)
	}

	return nil
}

// Heading returns heading estimator configuration
func (c *Config) Heading() *heading.Config {
	return &heading.Config{
		DecayRate:      c.Estimator.DecayRate,
		ValidThreshold: c.Estimator.ValidThreshold,
	}
}

// Period returns magnetometer sampling period
func (c *Config) Period() time.Duration {
	return period(c.Sensor.SampleRateHz)
}

// Serial returns serial port options
func (c *Config) Serial() *serial.Options {
	o := serial.DefaultOptions()
	o.BaudRate = c.Sensor.BaudRate
	return o
}

// Sim returns simulation configuration.
// It returns error if the simulation noise can't be created.
func (c *Config) Sim() (*sim.Config, error) {
	sc := c.simConfig()

	if c.Simulation.NoiseStd > 0 {
		src, err := noise.NewIsotropic(c.Simulation.NoiseStd, c.Simulation.Seed)
		if err != nil {
			return nil, err
		}
		sc.Noise = src
	}

	return sc, nil
}

func (c *Config) simConfig() *sim.Config {
	s := c.Simulation

	sc := &sim.Config{
		Steps:           s.Steps,
		Period:          period(s.SampleRateHz),
		Field:           r3.Vec{X: s.Field.X, Y: s.Field.Y, Z: s.Field.Z},
		YawRate:         s.YawRateDeg,
		Tilt:            s.TiltDeg,
		DisplayRotation: s.DisplayRotation,
	}

	for _, w := range s.TrackingLoss {
		sc.TrackingLoss = append(sc.TrackingLoss, sim.Window{Start: w.Start, End: w.End})
	}

	return sc
}

// validRate reports whether hz maps to a positive period representable as time.Duration
func validRate(hz float64) bool {
	if hz <= 0 || math.IsInf(hz, 0) || math.IsNaN(hz) {
		return false
	}
	p := float64(time.Second) / hz
	return p >= 1 && p < math.MaxInt64
}

func period(hz float64) time.Duration {
	if !validRate(hz) {
		return 0
	}
	return time.Duration(float64(time.Second) / hz)
}

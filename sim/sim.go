package sim

import (
	"fmt"
	"math"
	"time"

	compass "github.com/milosgajdos/go-compass"
	"github.com/milosgajdos/go-compass/estimate"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat"
)

// Observer is called after every simulation step
type Observer func(*Step, *estimate.Heading) error

// Record is the outcome of a single simulation step
type Record struct {
	// Step is step index
	Step int
	// Elapsed is time since the first step
	Elapsed time.Duration
	// Status is tracking status
	Status compass.TrackingStatus
	// Field is estimated field in world coordinates
	Field r3.Vec
	// Valid is estimate validity
	Valid bool
	// Truth is the true east angle
	Truth float64
	// Estimate is the estimated east angle
	Estimate float64
}

// Error returns heading error wrapped into [-Pi, Pi]
func (r Record) Error() float64 {
	return AngleError(r.Estimate, r.Truth)
}

// Result is simulation result
type Result struct {
	Records []Record
}

// Run drives estimator e with device d until the device runs out of steps.
// Every step delivers the tracking frame first and the magnetometer reading second.
// Observers are called after each step; Run stops and returns the first observer error.
func Run(d *Device, e compass.Tracker, observers ...Observer) (*Result, error) {
	truth := d.TrueAngle()
	res := &Result{}

	for {
		step, ok := d.Next()
		if !ok {
			break
		}

		e.OnFrame(step, step.Display)
		e.OnReading(step.Reading)

		h := e.Snapshot()
		res.Records = append(res.Records, Record{
			Step:     step.Index,
			Elapsed:  step.Elapsed,
			Status:   step.Status,
			Field:    h.Field(),
			Valid:    h.Valid(),
			Truth:    truth,
			Estimate: h.Angle(),
		})

		for _, o := range observers {
			if err := o(step, h); err != nil {
				return res, fmt.Errorf("observer failed at step %d: %w", step.Index, err)
			}
		}
	}

	return res, nil
}

// Stats are heading error statistics in radians computed over valid records
type Stats struct {
	// Count is the number of records
	Count int
	// Valid is the number of valid records
	Valid int
	// Mean is mean error
	Mean float64
	// StdDev is error standard deviation
	StdDev float64
	// RMS is root mean square error
	RMS float64
	// MaxAbs is maximum absolute error
	MaxAbs float64
}

// Stats returns heading error statistics.
func (r *Result) Stats() Stats {
	s := Stats{Count: len(r.Records)}

	var errs []float64
	for _, rec := range r.Records {
		if rec.Valid {
			errs = append(errs, rec.Error())
		}
	}

	s.Valid = len(errs)
	if s.Valid == 0 {
		return s
	}

	s.Mean, s.StdDev = stat.MeanStdDev(errs, nil)
	if s.Valid == 1 {
		s.StdDev = 0
	}
	s.RMS = floats.Norm(errs, 2) / math.Sqrt(float64(s.Valid))

	abs := make([]float64, len(errs))
	for i, e := range errs {
		abs[i] = math.Abs(e)
	}
	s.MaxAbs = floats.Max(abs)

	return s
}

// Matrix returns true and estimated headings as two column matrices of
// elapsed seconds and angle in degrees. Invalid estimates are left out.
// It returns error if no record is valid.
func (r *Result) Matrix() (truth, est *mat.Dense, err error) {
	var valid []Record
	for _, rec := range r.Records {
		if rec.Valid {
			valid = append(valid, rec)
		}
	}

	if len(valid) == 0 {
		return nil, nil, fmt.Errorf("no valid records")
	}

	truth = mat.NewDense(len(valid), 2, nil)
	est = mat.NewDense(len(valid), 2, nil)
	for i, rec := range valid {
		t := rec.Elapsed.Seconds()
		truth.SetRow(i, []float64{t, rec.Truth * 180 / math.Pi})
		est.SetRow(i, []float64{t, rec.Estimate * 180 / math.Pi})
	}

	return truth, est, nil
}

// AngleError returns angle difference a-b wrapped into [-Pi, Pi]
func AngleError(a, b float64) float64 {
	return math.Remainder(a-b, 2*math.Pi)
}

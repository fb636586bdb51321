// Package session drives a heading estimator from asynchronous tracking and sensor sources.
//
// A session runs until both sources are exhausted or its context is cancelled.
// Cancelling the context pauses delivery without touching estimator state;
// calling Run again resumes it.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	compass "github.com/milosgajdos/go-compass"
	"github.com/milosgajdos/go-compass/internal/monitoring"
	"github.com/milosgajdos/go-compass/sensor"
	"github.com/milosgajdos/go-compass/trace"
	"golang.org/x/sync/errgroup"
)

// ErrRunning is returned by Run when the session is already running
var ErrRunning = errors.New("session already running")

// AccuracyListener is notified when sensor accuracy changes.
// Estimators implementing it receive accuracy changes observed in the reading stream.
type AccuracyListener interface {
	OnAccuracyChanged(sensor.Type, sensor.Accuracy)
}

// Recorder records heading samples
type Recorder interface {
	// Record stores sample s in session id
	Record(ctx context.Context, id uuid.UUID, s trace.Sample) error
}

// Update is a single tracking update
type Update struct {
	// Frame is tracking frame
	Frame compass.Frame
	// Display is display orientation; nil means natural orientation
	Display compass.Display
}

// Config is session configuration
type Config struct {
	// Name is session name used in logs
	Name string
	// Recorder records a heading sample after every magnetometer reading; nil disables recording
	Recorder Recorder
}

// Session delivers tracking updates and sensor readings to an estimator
type Session struct {
	id   uuid.UUID
	name string
	est  compass.Tracker
	acc  AccuracyListener
	rec  Recorder
	// accuracy is the last accuracy seen per sensor type; owned by the readings goroutine
	accuracy map[sensor.Type]sensor.Accuracy

	running  atomic.Bool
	tracking atomic.Int32
	frames   atomic.Int64
	readings atomic.Int64
	seq      atomic.Int64
}

// New creates new session driving estimator e and returns it.
// If c is nil, default configuration is used. It returns error if e is nil.
func New(e compass.Tracker, c *Config) (*Session, error) {
	if e == nil {
		return nil, fmt.Errorf("invalid estimator: nil")
	}

	if c == nil {
		c = &Config{}
	}

	s := &Session{
		id:       uuid.New(),
		name:     c.Name,
		est:      e,
		rec:      c.Recorder,
		accuracy: make(map[sensor.Type]sensor.Accuracy),
	}
	if l, ok := e.(AccuracyListener); ok {
		s.acc = l
	}
	s.tracking.Store(int32(compass.Stopped))

	return s, nil
}

// ID returns session id
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Frames returns the number of tracking updates delivered so far
func (s *Session) Frames() int64 {
	return s.frames.Load()
}

// Readings returns the number of sensor readings delivered so far
func (s *Session) Readings() int64 {
	return s.readings.Load()
}

// Run delivers updates from frames and readings to the estimator, one goroutine per source.
// Nil channels are ignored. Run returns nil once all given channels are closed,
// ctx error if ctx is cancelled and ErrRunning if the session is already running.
// Recording errors stop the session.
func (s *Session) Run(ctx context.Context, frames <-chan Update, readings <-chan sensor.Reading) error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrRunning
	}
	defer s.running.Store(false)

	monitoring.Logf("session %s [%s]: started", s.name, s.id)
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)

	if frames != nil {
		g.Go(func() error {
			return s.runFrames(gctx, frames)
		})
	}

	if readings != nil {
		g.Go(func() error {
			return s.runReadings(gctx, readings)
		})
	}

	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}

	monitoring.Logf("session %s [%s]: stopped after %s, frames: %d, readings: %d, err: %v",
		s.name, s.id, time.Since(start).Round(time.Millisecond), s.Frames(), s.Readings(), err)

	return err
}

func (s *Session) runFrames(ctx context.Context, frames <-chan Update) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case u, ok := <-frames:
			if !ok {
				return nil
			}
			if u.Frame == nil {
				continue
			}
			s.est.OnFrame(u.Frame, u.Display)
			s.tracking.Store(int32(u.Frame.TrackingStatus()))
			s.frames.Add(1)
		}
	}
}

func (s *Session) runReadings(ctx context.Context, readings <-chan sensor.Reading) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case r, ok := <-readings:
			if !ok {
				return nil
			}
			if s.acc != nil {
				if prev, ok := s.accuracy[r.Type]; !ok || prev != r.Accuracy {
					s.accuracy[r.Type] = r.Accuracy
					s.acc.OnAccuracyChanged(r.Type, r.Accuracy)
				}
			}
			s.est.OnReading(r)
			s.readings.Add(1)

			if s.rec == nil || r.Type != sensor.MagneticField {
				continue
			}

			t := r.Time
			if t.IsZero() {
				t = time.Now()
			}
			sample := trace.NewSample(s.seq.Add(1)-1, t, s.est.Snapshot(), compass.TrackingStatus(s.tracking.Load()))
			if err := s.rec.Record(ctx, s.id, sample); err != nil {
				return err
			}
		}
	}
}

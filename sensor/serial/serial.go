// Package serial reads line-oriented motion sensor readings from a serial port.
//
// Every line carries one reading:
//
//	<type>,<x>,<y>,<z>[,<accuracy>]
//
// where type is one of mag, acc or gyro and the optional accuracy is either
// an integer in [0, 3] or one of unreliable, low, medium or high.
// Blank lines and lines starting with # are ignored.
package serial

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/milosgajdos/go-compass/internal/monitoring"
	"github.com/milosgajdos/go-compass/sensor"
	goserial "go.bug.st/serial"
)

var logf = monitoring.Prefixed("serial")

// Port is the minimal serial port needed by Reader
type Port interface {
	io.Reader
	io.Closer
}

// Options configure serial port
type Options struct {
	// BaudRate is port speed
	BaudRate int
	// DataBits is number of data bits
	DataBits int
	// Parity is one of N, E or O
	Parity string
	// StopBits is either 1 or 2
	StopBits int
}

// DefaultOptions returns 115200 8N1 options
func DefaultOptions() *Options {
	return &Options{
		BaudRate: 115200,
		DataBits: 8,
		Parity:   "N",
		StopBits: 1,
	}
}

// Mode converts options into go.bug.st/serial port mode.
// It returns error if any of the options is invalid.
func (o *Options) Mode() (*goserial.Mode, error) {
	if o.BaudRate <= 0 {
		return nil, fmt.Errorf("invalid baud rate: %d", o.BaudRate)
	}

	if o.DataBits < 5 || o.DataBits > 8 {
		return nil, fmt.Errorf("invalid data bits: %d", o.DataBits)
	}

	mode := &goserial.Mode{
		BaudRate: o.BaudRate,
		DataBits: o.DataBits,
	}

	switch strings.ToUpper(o.Parity) {
	case "", "N":
		mode.Parity = goserial.NoParity
	case "E":
		mode.Parity = goserial.EvenParity
	case "O":
		mode.Parity = goserial.OddParity
	default:
		return nil, fmt.Errorf("unsupported parity %q", o.Parity)
	}

	switch o.StopBits {
	case 0, 1:
		mode.StopBits = goserial.OneStopBit
	case 2:
		mode.StopBits = goserial.TwoStopBits
	default:
		return nil, fmt.Errorf("unsupported stop bits: %d", o.StopBits)
	}

	return mode, nil
}

// Reader reads sensor readings from a port
type Reader struct {
	port    Port
	now     func() time.Time
	skipped atomic.Int64
	once    sync.Once
	err     error
}

// Open opens serial port at path and returns a Reader which reads from it.
// If o is nil, DefaultOptions are used.
func Open(path string, o *Options) (*Reader, error) {
	if o == nil {
		o = DefaultOptions()
	}

	mode, err := o.Mode()
	if err != nil {
		return nil, err
	}

	port, err := goserial.Open(path, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", path, err)
	}

	return NewReader(port), nil
}

// NewReader creates new Reader which reads from port p
func NewReader(p Port) *Reader {
	return &Reader{
		port: p,
		now:  time.Now,
	}
}

// Run reads readings from the port and sends them to out until the port is exhausted
// or ctx is cancelled. Malformed lines are skipped and counted.
// Run closes the port when ctx is cancelled so that blocked reads return.
// It returns ctx error on cancellation and nil once the port reaches EOF.
func (r *Reader) Run(ctx context.Context, out chan<- sensor.Reading) error {
	done := make(chan struct{})
	defer close(done)

	go func() {
		select {
		case <-ctx.Done():
			r.Close()
		case <-done:
		}
	}()

	scanner := bufio.NewScanner(r.port)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		reading, err := ParseLine(line)
		if err != nil {
			r.skipped.Add(1)
			logf("skipping line %q: %v", line, err)
			continue
		}
		reading.Time = r.now()

		select {
		case out <- reading:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read serial port: %w", err)
	}

	return nil
}

// Skipped returns the number of malformed lines skipped so far
func (r *Reader) Skipped() int64 {
	return r.skipped.Load()
}

// Close closes the underlying port. It is safe to call Close multiple times.
func (r *Reader) Close() error {
	r.once.Do(func() {
		r.err = r.port.Close()
	})
	return r.err
}

// ParseLine parses a single reading line.
// It returns error if the line is malformed.
func ParseLine(line string) (sensor.Reading, error) {
	fields := strings.Split(line, ",")
	if len(fields) != 4 && len(fields) != 5 {
		return sensor.Reading{}, fmt.Errorf("invalid field count: %d", len(fields))
	}

	typ, err := sensor.ParseType(fields[0])
	if err != nil {
		return sensor.Reading{}, err
	}

	reading := sensor.Reading{Type: typ, Accuracy: sensor.High}
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(fields[i+1]), 64)
		if err != nil {
			return sensor.Reading{}, fmt.Errorf("invalid value %q: %w", fields[i+1], err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return sensor.Reading{}, fmt.Errorf("non-finite value %q", fields[i+1])
		}
		reading.Values[i] = v
	}

	if len(fields) == 5 {
		acc, err := parseAccuracy(fields[4])
		if err != nil {
			return sensor.Reading{}, err
		}
		reading.Accuracy = acc
	}

	return reading, nil
}

func parseAccuracy(s string) (sensor.Accuracy, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		if n < int(sensor.Unreliable) || n > int(sensor.High) {
			return sensor.Unreliable, fmt.Errorf("accuracy out of range: %d", n)
		}
		return sensor.Accuracy(n), nil
	}

	for a := sensor.Unreliable; a <= sensor.High; a++ {
		if a.String() == s {
			return a, nil
		}
	}

	return sensor.Unreliable, fmt.Errorf("invalid accuracy %q", s)
}

// Package trace records heading estimates into a SQLite database.
package trace

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	"github.com/google/uuid"
	compass "github.com/milosgajdos/go-compass"
	"github.com/milosgajdos/go-compass/estimate"
	"github.com/milosgajdos/go-compass/internal/monitoring"
	"gonum.org/v1/gonum/spatial/r3"
	_ "modernc.org/sqlite"
)

var logf = monitoring.Prefixed("trace")

//go:embed schema.sql
var schemaSQL string

// Session is a recording session
type Session struct {
	// ID is session id
	ID uuid.UUID
	// Source describes where the samples came from
	Source string
	// StartedAt is session start time
	StartedAt time.Time
}

// Sample is a recorded heading estimate
type Sample struct {
	// Seq is sample sequence number within session
	Seq int64
	// Time is sample time
	Time time.Time
	// Field is accumulated field in world coordinates
	Field r3.Vec
	// Valid is heading validity
	Valid bool
	// Angle is east angle in radians
	Angle float64
	// Status is tracking status at the time of the sample
	Status compass.TrackingStatus
}

// NewSample returns sample of heading h
func NewSample(seq int64, t time.Time, h *estimate.Heading, status compass.TrackingStatus) Sample {
	return Sample{
		Seq:    seq,
		Time:   t,
		Field:  h.Field(),
		Valid:  h.Valid(),
		Angle:  h.Angle(),
		Status: status,
	}
}

// Recorder records heading samples
type Recorder struct {
	*sql.DB
}

// Open opens recorder database at path creating its schema if needed.
func Open(path string) (*Recorder, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace database %s: %w", path, err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create trace schema: %w", err)
	}
	logf("recording to %s", path)

	return &Recorder{db}, nil
}

// StartSession creates new recording session and returns its id
func (r *Recorder) StartSession(ctx context.Context, source string, startedAt time.Time) (uuid.UUID, error) {
	id := uuid.New()
	if err := r.AddSession(ctx, Session{ID: id, Source: source, StartedAt: startedAt}); err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

// AddSession stores session s
func (r *Recorder) AddSession(ctx context.Context, s Session) error {
	_, err := r.ExecContext(ctx,
		`INSERT INTO sessions (session_id, source, started_at) VALUES (?, ?, ?)`,
		s.ID.String(), s.Source, s.StartedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to add session %s: %w", s.ID, err)
	}
	return nil
}

// Record stores sample s in session id
func (r *Recorder) Record(ctx context.Context, id uuid.UUID, s Sample) error {
	_, err := r.ExecContext(ctx, `
		INSERT INTO headings (
			session_id, seq, sample_time, field_x, field_y, field_z, valid, east_angle, status
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id.String(), s.Seq, s.Time.UnixNano(),
		s.Field.X, s.Field.Y, s.Field.Z,
		s.Valid, s.Angle, int(s.Status),
	)
	if err != nil {
		return fmt.Errorf("failed to record sample %d: %w", s.Seq, err)
	}
	return nil
}

// Sessions returns all sessions ordered by start time
func (r *Recorder) Sessions(ctx context.Context) ([]Session, error) {
	rows, err := r.QueryContext(ctx, `SELECT session_id, source, started_at FROM sessions ORDER BY started_at, session_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var (
			id      string
			s       Session
			started int64
		)
		if err := rows.Scan(&id, &s.Source, &started); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		if s.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("invalid session id %q: %w", id, err)
		}
		s.StartedAt = time.Unix(0, started).UTC()
		sessions = append(sessions, s)
	}

	return sessions, rows.Err()
}

// Samples returns samples of session id ordered by sequence number
func (r *Recorder) Samples(ctx context.Context, id uuid.UUID) ([]Sample, error) {
	rows, err := r.QueryContext(ctx, `
		SELECT seq, sample_time, field_x, field_y, field_z, valid, east_angle, status
		FROM headings WHERE session_id = ? ORDER BY seq`, id.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query samples: %w", err)
	}
	defer rows.Close()

	var samples []Sample
	for rows.Next() {
		var (
			s      Sample
			ts     int64
			status int
		)
		if err := rows.Scan(&s.Seq, &ts, &s.Field.X, &s.Field.Y, &s.Field.Z, &s.Valid, &s.Angle, &status); err != nil {
			return nil, fmt.Errorf("failed to scan sample: %w", err)
		}
		s.Time = time.Unix(0, ts).UTC()
		s.Status = compass.TrackingStatus(status)
		samples = append(samples, s)
	}

	return samples, rows.Err()
}

package trace

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	compass "github.com/milosgajdos/go-compass"
	"github.com/milosgajdos/go-compass/estimate"
	"github.com/milosgajdos/go-compass/internal/monitoring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestMain(m *testing.M) {
	monitoring.SetLogger(nil)
	os.Exit(m.Run())
}

func openRecorder(t *testing.T) *Recorder {
	r, err := Open(filepath.Join(t.TempDir(), "trace.db"))
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r
}

func TestOpen(t *testing.T) {
	assert := assert.New(t)

	path := filepath.Join(t.TempDir(), "trace.db")
	r, err := Open(path)
	assert.NotNil(r)
	assert.NoError(err)
	assert.NoError(r.Close())

	// schema creation is idempotent
	r, err = Open(path)
	assert.NotNil(r)
	assert.NoError(err)
	assert.NoError(r.Close())
}

func TestSessions(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	r := openRecorder(t)

	t0 := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	second, err := r.StartSession(ctx, "serial", t0.Add(time.Minute))
	assert.NoError(err)
	first, err := r.StartSession(ctx, "sim", t0)
	assert.NoError(err)
	assert.NotEqual(uuid.Nil, first)

	sessions, err := r.Sessions(ctx)
	assert.NoError(err)

	exp := []Session{
		{ID: first, Source: "sim", StartedAt: t0},
		{ID: second, Source: "serial", StartedAt: t0.Add(time.Minute)},
	}
	if diff := cmp.Diff(exp, sessions); diff != "" {
		t.Errorf("sessions mismatch (-want +got):\n%s", diff)
	}

	// duplicate id
	err = r.AddSession(ctx, Session{ID: first, Source: "dup", StartedAt: t0})
	assert.Error(err)
}

func TestRecordSamples(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	r := openRecorder(t)
	t0 := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	id, err := r.StartSession(ctx, "sim", t0)
	require.NoError(t, err)
	other, err := r.StartSession(ctx, "sim", t0)
	require.NoError(t, err)

	h, err := estimate.NewHeading(r3.Vec{Z: 2, Y: -1}, 0.1)
	require.NoError(t, err)

	exp := []Sample{
		NewSample(0, t0, h, compass.Tracking),
		{Seq: 1, Time: t0.Add(200 * time.Millisecond), Status: compass.Paused},
	}
	for _, s := range exp {
		assert.NoError(r.Record(ctx, id, s))
	}
	assert.NoError(r.Record(ctx, other, exp[0]))

	// sequence numbers are unique per session
	assert.Error(r.Record(ctx, id, exp[0]))

	samples, err := r.Samples(ctx, id)
	assert.NoError(err)
	if diff := cmp.Diff(exp, samples); diff != "" {
		t.Errorf("samples mismatch (-want +got):\n%s", diff)
	}

	assert.True(samples[0].Valid)
	assert.InDelta(-math.Pi/2, samples[0].Angle, 1e-12)

	samples, err = r.Samples(ctx, uuid.New())
	assert.NoError(err)
	assert.Empty(samples)
}

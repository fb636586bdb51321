package compass

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrackingStatusString(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("Tracking", Tracking.String())
	assert.Equal("Paused", Paused.String())
	assert.Equal("Stopped", Stopped.String())
	assert.Equal("Unknown", TrackingStatus(-1).String())
}

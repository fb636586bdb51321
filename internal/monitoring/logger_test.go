package monitoring

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrefixed(t *testing.T) {
	assert := assert.New(t)
	defer SetLogger(nil)

	logf := Prefixed("heading")

	var lines []string
	SetLogger(func(format string, v ...interface{}) {
		lines = append(lines, fmt.Sprintf(format, v...))
	})

	logf("accuracy %s -> %s", "low", "high")
	assert.Equal([]string{"heading: accuracy low -> high"}, lines)

	SetLogger(nil)
	logf("muted")
	assert.Len(lines, 1)
}

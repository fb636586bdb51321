package sensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestParseType(t *testing.T) {
	assert := assert.New(t)

	for _, test := range []struct {
		in  string
		exp Type
	}{
		{in: "mag", exp: MagneticField},
		{in: " MAG ", exp: MagneticField},
		{in: "acc", exp: Accelerometer},
		{in: "gyro", exp: Gyroscope},
	} {
		typ, err := ParseType(test.in)
		assert.NoError(err)
		assert.Equal(test.exp, typ)
		assert.Equal(test.exp.String(), typ.String())
	}

	for _, in := range []string{"", "unknown", "baro"} {
		typ, err := ParseType(in)
		assert.Error(err)
		assert.Equal(Unknown, typ)
	}
}

func TestTypeString(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("mag", MagneticField.String())
	assert.Equal("unknown", Type(42).String())
}

func TestAccuracyString(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("unreliable", Unreliable.String())
	assert.Equal("high", High.String())
	assert.Equal("Accuracy(7)", Accuracy(7).String())
}

func TestReading(t *testing.T) {
	assert := assert.New(t)

	v := r3.Vec{X: 1.5, Y: -2, Z: 30}
	r := NewReading(MagneticField, v)
	assert.Equal(MagneticField, r.Type)
	assert.Equal(High, r.Accuracy)
	assert.Equal([3]float64{1.5, -2, 30}, r.Values)
	assert.Equal(v, r.Vec())
	assert.Equal("mag[1.5 -2 30][high]", r.String())
}

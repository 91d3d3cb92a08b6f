package vecstats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrMeasurementPanic(t *testing.T) {
	err := &ErrMeasurementPanic{Value: errBoom}
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, "accuracy measurement panicked: boom", err.Error())

	assert.NoError(t, (&ErrMeasurementPanic{Value: "exploded"}).Unwrap())
}

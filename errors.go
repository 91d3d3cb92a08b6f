package vecstats

import (
	"errors"
	"fmt"
)

var (
	// ErrNilIndex is returned when the approximate or ground-truth index is nil.
	ErrNilIndex = errors.New("index must not be nil")

	// ErrNilRegistry is returned when no metrics registry is supplied.
	ErrNilRegistry = errors.New("metrics registry must not be nil")

	// ErrEmptyGroundTruth is reported when the ground-truth index returns no results.
	ErrEmptyGroundTruth = errors.New("ground truth returned no results")
)

// ErrInvalidSampleFrequency indicates a sample frequency that is not positive.
type ErrInvalidSampleFrequency struct {
	SampleFrequency int
}

func (e *ErrInvalidSampleFrequency) Error() string {
	return fmt.Sprintf("invalid sample frequency: %d (must be positive)", e.SampleFrequency)
}

// ErrMeasurementPanic wraps a panic recovered from a background measurement.
type ErrMeasurementPanic struct {
	Value any
}

func (e *ErrMeasurementPanic) Error() string {
	return fmt.Sprintf("accuracy measurement panicked: %v", e.Value)
}

// Unwrap returns the panic value if it is an error.
func (e *ErrMeasurementPanic) Unwrap() error {
	err, _ := e.Value.(error)
	return err
}

package feature

import (
	"errors"
	"fmt"
	"math"
)

// ErrOutOfRange is the sentinel kind for range violations; callers can match
// it with errors.Is while still reading field details via errors.As.
var ErrOutOfRange = errors.New("feature out of range")

// noUpperBound marks fields that only have a lower bound.
const noUpperBound = math.MaxFloat64

// OutOfRangeError reports the offending field, its value, and the violated
// bound.
type OutOfRangeError struct {
	Field string
	Value float64
	Min   float64
	Max   float64
}

func newOutOfRange(field string, value, min, max float64) *OutOfRangeError {
	return &OutOfRangeError{Field: field, Value: value, Min: min, Max: max}
}

func (e *OutOfRangeError) Error() string {
	if e.Max == noUpperBound {
		return fmt.Sprintf("%s out of range: got %g, want >= %g", e.Field, e.Value, e.Min)
	}
	return fmt.Sprintf("%s out of range: got %g, want [%g, %g]", e.Field, e.Value, e.Min, e.Max)
}

// Is lets errors.Is(err, ErrOutOfRange) match any range violation.
func (e *OutOfRangeError) Is(target error) bool {
	return target == ErrOutOfRange
}

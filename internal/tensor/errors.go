package tensor

import (
	"errors"
	"fmt"
)

// ErrShapeMismatch is matched by every ShapeMismatchError via errors.Is.
var ErrShapeMismatch = errors.New("shape mismatch")

// ShapeMismatchError reports two inputs that were required to share a shape
// (or a batch length) but did not. It is always a caller bug and is never
// retried.
type ShapeMismatchError struct {
	// Op names the operation that rejected its inputs, e.g. "surface loss".
	Op string

	// Want and Got are the two shapes that were compared. For batch length
	// mismatches both are single-element slices holding the lengths.
	Want []int
	Got  []int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("%s: shape mismatch %v vs %v", e.Op, e.Want, e.Got)
}

// Unwrap lets errors.Is(err, ErrShapeMismatch) succeed.
func (e *ShapeMismatchError) Unwrap() error {
	return ErrShapeMismatch
}

// CheckSameShape returns a *ShapeMismatchError naming op when a and b differ
// in shape, and nil otherwise.
func CheckSameShape(op string, a, b *Array) error {
	if a.SameShape(b) {
		return nil
	}
	return &ShapeMismatchError{Op: op, Want: a.Shape(), Got: b.Shape()}
}

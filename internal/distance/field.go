package distance

import (
	"math"

	"github.com/ironsheep/segmetrics-mcp/internal/tensor"
)

// Options configures ComputeWithOptions.
type Options struct {
	// Spacing is the physical distance between neighbouring elements along
	// each axis of the mask, e.g. voxel size in millimetres. nil means 1 on
	// every axis. When set it must have one positive value per mask axis.
	Spacing []float64
}

// Compute converts a binary mask into its signed distance field using unit
// spacing. See ComputeWithOptions.
func Compute(mask *tensor.Array) (*tensor.Array, error) {
	return ComputeWithOptions(mask, Options{})
}

// ComputeWithOptions converts a binary mask into its signed distance field.
//
// Nonzero mask values are foreground. The returned field has the mask's
// shape and holds the distance to the nearest foreground element at every
// background element, and the grid step minus the distance to the nearest
// background element at every foreground element. The grid step is 1 with
// unit spacing and otherwise the smallest spacing of any axis longer than
// one element, so foreground values are never positive.
//
// A mask with no foreground, or with no background, yields an all-zero
// field. The only error is an invalid Options.Spacing.
func ComputeWithOptions(mask *tensor.Array, opts Options) (*tensor.Array, error) {
	shape := mask.Shape()
	spacing, err := normalizeSpacing(shape, opts.Spacing)
	if err != nil {
		return nil, err
	}

	data := mask.Data()
	pos := make([]bool, len(data))
	neg := make([]bool, len(data))
	foreground := 0
	for i, v := range data {
		if v != 0 {
			pos[i] = true
			foreground++
		} else {
			neg[i] = true
		}
	}

	field := tensor.ZerosLike(mask)
	if foreground == 0 || foreground == len(data) {
		return field, nil
	}

	step := gridStep(shape, spacing)
	outside := squaredTransform(neg, shape, spacing)
	inside := squaredTransform(pos, shape, spacing)

	out := field.Data()
	for i := range out {
		if pos[i] {
			out[i] = step - math.Sqrt(inside[i])
		} else {
			out[i] = math.Sqrt(outside[i])
		}
	}
	return field, nil
}

// gridStep is the shortest distance between two distinct elements: the
// smallest spacing among axes with more than one element.
func gridStep(shape []int, spacing []float64) float64 {
	step := math.Inf(1)
	for i, n := range shape {
		if n > 1 && spacing[i] < step {
			step = spacing[i]
		}
	}
	if math.IsInf(step, 1) {
		return 1
	}
	return step
}

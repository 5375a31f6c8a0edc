package distance

import (
	"fmt"
	"math"
)

// Transform computes the exact Euclidean distance transform of a boolean
// grid stored row-major with the given shape.
//
// Parameters:
//   - input: one value per grid element. Elements set to true are measured;
//     elements set to false are the targets.
//   - shape: grid extents, last axis varying fastest. prod(shape) must equal
//     len(input).
//   - spacing: physical distance between neighbouring elements along each
//     axis. nil means 1 on every axis.
//
// Returns, for every true element, the distance to the nearest false
// element, and 0 for every false element. If input holds no false element at
// all, every true element is +Inf.
func Transform(input []bool, shape []int, spacing []float64) ([]float64, error) {
	spacing, err := normalizeSpacing(shape, spacing)
	if err != nil {
		return nil, err
	}
	if n := elements(shape); n != len(input) {
		return nil, fmt.Errorf("input length %d does not match shape %v (%d elements)", len(input), shape, n)
	}

	sq := squaredTransform(input, shape, spacing)
	for i, v := range sq {
		sq[i] = math.Sqrt(v)
	}
	return sq, nil
}

// squaredTransform returns squared distances. Inputs must already be
// validated.
func squaredTransform(input []bool, shape []int, spacing []float64) []float64 {
	// far exceeds every squared distance reachable inside the grid, so it acts
	// as infinity without producing Inf-Inf in the envelope intersections.
	far := 1.0
	for i, s := range shape {
		extent := float64(s) * spacing[i]
		far += extent * extent
	}

	f := make([]float64, len(input))
	hasTarget := false
	for i, measured := range input {
		if measured {
			f[i] = far
		} else {
			hasTarget = true
		}
	}
	if !hasTarget {
		for i := range f {
			f[i] = math.Inf(1)
		}
		return f
	}

	strides := make([]int, len(shape))
	step := 1
	longest := 1
	for i := len(shape) - 1; i >= 0; i-- {
		strides[i] = step
		step *= shape[i]
		if shape[i] > longest {
			longest = shape[i]
		}
	}

	line := make([]float64, longest)
	out := make([]float64, longest)
	v := make([]int, longest)
	z := make([]float64, longest+1)

	for axis, n := range shape {
		if n == 1 {
			continue
		}
		stride := strides[axis]
		w := spacing[axis] * spacing[axis]

		// A line starts at every element whose coordinate along axis is 0.
		for start := 0; start < len(f); start++ {
			if (start/stride)%n != 0 {
				continue
			}
			for q := 0; q < n; q++ {
				line[q] = f[start+q*stride]
			}
			lowerEnvelope(line[:n], out[:n], v, z, w)
			for q := 0; q < n; q++ {
				f[start+q*stride] = out[q]
			}
		}
	}

	return f
}

// lowerEnvelope computes d[q] = min_p (w*(q-p)^2 + f[p]) for a single line.
//
// The parabolas rooted at each sample p are merged into their lower
// envelope; v holds the roots of the envelope's parabolas and z the
// boundaries between them. v needs len(f) slots and z len(f)+1.
func lowerEnvelope(f, d []float64, v []int, z []float64, w float64) {
	n := len(f)
	k := 0
	v[0] = 0
	z[0] = math.Inf(-1)
	z[1] = math.Inf(1)

	for q := 1; q < n; q++ {
		s := intersect(f, v[k], q, w)
		for s <= z[k] {
			k--
			s = intersect(f, v[k], q, w)
		}
		k++
		v[k] = q
		z[k] = s
		z[k+1] = math.Inf(1)
	}

	k = 0
	for q := 0; q < n; q++ {
		for z[k+1] < float64(q) {
			k++
		}
		dq := float64(q - v[k])
		d[q] = w*dq*dq + f[v[k]]
	}
}

// intersect returns the abscissa where the parabolas rooted at p and q meet.
func intersect(f []float64, p, q int, w float64) float64 {
	fp, fq := float64(p), float64(q)
	return ((f[q] + w*fq*fq) - (f[p] + w*fp*fp)) / (2 * w * (fq - fp))
}

func normalizeSpacing(shape []int, spacing []float64) ([]float64, error) {
	if len(shape) == 0 {
		return nil, fmt.Errorf("shape must have at least one axis")
	}
	if spacing == nil {
		spacing = make([]float64, len(shape))
		for i := range spacing {
			spacing[i] = 1
		}
		return spacing, nil
	}
	if len(spacing) != len(shape) {
		return nil, fmt.Errorf("spacing has %d values, shape %v has %d axes", len(spacing), shape, len(shape))
	}
	for i, s := range spacing {
		if !(s > 0) || math.IsInf(s, 0) {
			return nil, fmt.Errorf("spacing[%d] = %v must be positive and finite", i, s)
		}
	}
	return spacing, nil
}

func elements(shape []int) int {
	n := 1
	for _, s := range shape {
		n *= s
	}
	return n
}

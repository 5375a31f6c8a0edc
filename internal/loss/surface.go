// Package loss implements the boundary (surface) loss used to train
// segmentation models against signed distance fields.
//
// The loss is the mean of the elementwise product of a probability map and
// the distance field produced by the distance package. Probability placed
// outside the true region is weighted by its distance to the region and
// raises the loss; probability placed inside the region meets a non-positive
// field and lowers it.
package loss

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/ironsheep/segmetrics-mcp/internal/tensor"
)

// channelAxis is the channel axis of the (batch, channel, spatial...) layout.
const channelAxis = 1

// Options configures SurfaceWithOptions and SurfaceGradientWithOptions.
type Options struct {
	// Channels restricts the reduction to the listed channel indices along
	// axis 1 of a (batch, channel, spatial...) array. nil includes every
	// element. Duplicate indices are counted once.
	Channels []int
}

// Surface returns mean(prob * dist) over every element.
//
// prob and dist must have identical shapes; otherwise the error is a
// *tensor.ShapeMismatchError.
func Surface(prob, dist *tensor.Array) (float64, error) {
	if err := tensor.CheckSameShape("surface loss", prob, dist); err != nil {
		return 0, err
	}
	return floats.Dot(prob.Data(), dist.Data()) / float64(prob.Len()), nil
}

// SurfaceGradient returns the derivative of Surface with respect to each
// element of prob, which is dist / N.
func SurfaceGradient(prob, dist *tensor.Array) (*tensor.Array, error) {
	if err := tensor.CheckSameShape("surface loss gradient", prob, dist); err != nil {
		return nil, err
	}
	grad := tensor.ZerosLike(dist)
	floats.ScaleTo(grad.Data(), 1/float64(dist.Len()), dist.Data())
	return grad, nil
}

// SurfaceWithOptions is Surface restricted to the channels named in opts.
// With no channels selected it is identical to Surface.
func SurfaceWithOptions(prob, dist *tensor.Array, opts Options) (float64, error) {
	if opts.Channels == nil {
		return Surface(prob, dist)
	}
	if err := tensor.CheckSameShape("surface loss", prob, dist); err != nil {
		return 0, err
	}
	selected, err := channelSelector(prob, opts.Channels)
	if err != nil {
		return 0, err
	}

	p, d := prob.Data(), dist.Data()
	var sum float64
	n := 0
	for i := range p {
		if selected(i) {
			sum += p[i] * d[i]
			n++
		}
	}
	return sum / float64(n), nil
}

// SurfaceGradientWithOptions is SurfaceGradient restricted to the channels
// named in opts. Elements of unselected channels have zero gradient.
func SurfaceGradientWithOptions(prob, dist *tensor.Array, opts Options) (*tensor.Array, error) {
	if opts.Channels == nil {
		return SurfaceGradient(prob, dist)
	}
	if err := tensor.CheckSameShape("surface loss gradient", prob, dist); err != nil {
		return nil, err
	}
	selected, err := channelSelector(prob, opts.Channels)
	if err != nil {
		return nil, err
	}

	n := 0
	for i := 0; i < dist.Len(); i++ {
		if selected(i) {
			n++
		}
	}

	grad := tensor.ZerosLike(dist)
	g, d := grad.Data(), dist.Data()
	for i := range d {
		if selected(i) {
			g[i] = d[i] / float64(n)
		}
	}
	return grad, nil
}

// channelSelector returns a predicate over flat offsets reporting whether the
// offset lies in one of the requested channels.
func channelSelector(a *tensor.Array, channels []int) (func(int) bool, error) {
	if a.Rank() < 2 {
		return nil, fmt.Errorf("channel selection needs a (batch, channel, ...) array, got shape %v", a.Shape())
	}
	if len(channels) == 0 {
		return nil, fmt.Errorf("channel selection is empty")
	}

	nch := a.Shape()[channelAxis]
	keep := make([]bool, nch)
	for _, c := range channels {
		if c < 0 || c >= nch {
			return nil, fmt.Errorf("channel %d out of range [0,%d)", c, nch)
		}
		keep[c] = true
	}

	stride := a.Strides()[channelAxis]
	return func(off int) bool {
		return keep[(off/stride)%nch]
	}, nil
}

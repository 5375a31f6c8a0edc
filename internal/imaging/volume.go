package imaging

import (
	"fmt"

	"github.com/ironsheep/segmetrics-mcp/internal/tensor"
)

// Stack combines equally sized 2-D slices into a (D, H, W) volume.
//
// Each slice may be (H, W) or channel-first (1, H, W), as produced by
// ToArray and Binarize. Slice i becomes depth index i.
func Stack(slices []*tensor.Array) (*tensor.Array, error) {
	if len(slices) == 0 {
		return nil, fmt.Errorf("no slices to stack")
	}

	h, w, err := planeSize(slices[0])
	if err != nil {
		return nil, fmt.Errorf("slice 0: %w", err)
	}

	vol, err := tensor.New(len(slices), h, w)
	if err != nil {
		return nil, err
	}

	plane := h * w
	data := vol.Data()
	for i, s := range slices {
		sh, sw, err := planeSize(s)
		if err != nil {
			return nil, fmt.Errorf("slice %d: %w", i, err)
		}
		if sh != h || sw != w {
			return nil, &tensor.ShapeMismatchError{Op: "stack slices", Want: []int{h, w}, Got: []int{sh, sw}}
		}
		copy(data[i*plane:(i+1)*plane], s.Data())
	}
	return vol, nil
}

func planeSize(a *tensor.Array) (int, int, error) {
	shape := a.Shape()
	switch {
	case len(shape) == 2:
		return shape[0], shape[1], nil
	case len(shape) == 3 && shape[0] == 1:
		return shape[1], shape[2], nil
	default:
		return 0, 0, fmt.Errorf("expected (H, W) or (1, H, W), got %v", shape)
	}
}

// Cubify zero-pads a rank-3 volume towards a cube of edge length cube.
//
// Each axis of extent n receives (cube-n)/2 zeros on both sides, so an odd
// difference leaves that axis one short of cube. An axis longer than cube is
// an error; cropping is left to the caller.
func Cubify(volume *tensor.Array, cube int) (*tensor.Array, error) {
	shape := volume.Shape()
	if len(shape) != 3 {
		return nil, fmt.Errorf("cubify needs a rank-3 volume, got shape %v", shape)
	}

	var pad, out [3]int
	for i, n := range shape {
		if n > cube {
			return nil, fmt.Errorf("axis %d extent %d exceeds cube dimension %d", i, n, cube)
		}
		pad[i] = (cube - n) / 2
		out[i] = n + 2*pad[i]
	}

	padded, err := tensor.New(out[0], out[1], out[2])
	if err != nil {
		return nil, err
	}

	src := volume.Data()
	dst := padded.Data()
	for z := 0; z < shape[0]; z++ {
		for y := 0; y < shape[1]; y++ {
			from := (z*shape[1] + y) * shape[2]
			to := ((z+pad[0])*out[1]+(y+pad[1]))*out[2] + pad[2]
			copy(dst[to:to+shape[2]], src[from:from+shape[2]])
		}
	}
	return padded, nil
}

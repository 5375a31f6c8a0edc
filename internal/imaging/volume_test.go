package imaging

import (
	"errors"
	"testing"

	"github.com/ironsheep/segmetrics-mcp/internal/tensor"
)

func TestStack(t *testing.T) {
	a := tensor.MustFromSlice([]float64{1, 0, 0, 0}, 2, 2)
	b := tensor.MustFromSlice([]float64{0, 1, 0, 0}, 1, 2, 2)

	vol, err := Stack([]*tensor.Array{a, b})
	if err != nil {
		t.Fatalf("Stack failed: %v", err)
	}

	shape := vol.Shape()
	if shape[0] != 2 || shape[1] != 2 || shape[2] != 2 {
		t.Fatalf("shape: got %v, want [2 2 2]", shape)
	}
	if vol.At(0, 0, 0) != 1 || vol.At(1, 0, 1) != 1 || vol.At(1, 0, 0) != 0 {
		t.Errorf("unexpected data %v", vol.Data())
	}
}

func TestStack_DoesNotAlias(t *testing.T) {
	a := tensor.MustFromSlice([]float64{1, 1}, 1, 2)

	vol, err := Stack([]*tensor.Array{a})
	if err != nil {
		t.Fatalf("Stack failed: %v", err)
	}
	vol.Data()[0] = 5
	if a.At(0, 0) != 1 {
		t.Error("Stack output shares storage with its input")
	}
}

func TestStack_Errors(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		if _, err := Stack(nil); err == nil {
			t.Error("expected error for no slices")
		}
	})

	t.Run("size mismatch", func(t *testing.T) {
		a := tensor.MustNew(2, 2)
		b := tensor.MustNew(2, 3)
		_, err := Stack([]*tensor.Array{a, b})
		if !errors.Is(err, tensor.ErrShapeMismatch) {
			t.Errorf("expected shape mismatch, got %v", err)
		}
	})

	t.Run("multi-channel slice", func(t *testing.T) {
		a := tensor.MustNew(3, 2, 2)
		if _, err := Stack([]*tensor.Array{a}); err == nil {
			t.Error("expected error for a 3-channel slice")
		}
	})
}

func TestCubify(t *testing.T) {
	vol := tensor.MustNew(2, 3, 4)
	vol.Set(1, 0, 0, 0)
	vol.Set(2, 1, 2, 3)

	cube, err := Cubify(vol, 6)
	if err != nil {
		t.Fatalf("Cubify failed: %v", err)
	}

	// Pads: depth (6-2)/2=2, height (6-3)/2=1, width (6-4)/2=1
	shape := cube.Shape()
	if shape[0] != 6 || shape[1] != 5 || shape[2] != 6 {
		t.Fatalf("shape: got %v, want [6 5 6]", shape)
	}
	if cube.At(2, 1, 1) != 1 {
		t.Errorf("first voxel: got %v, want 1", cube.At(2, 1, 1))
	}
	if cube.At(3, 3, 4) != 2 {
		t.Errorf("last voxel: got %v, want 2", cube.At(3, 3, 4))
	}

	var sum float64
	for _, v := range cube.Data() {
		sum += v
	}
	if sum != 3 {
		t.Errorf("sum: got %v, want 3", sum)
	}
}

func TestCubify_AlreadyCube(t *testing.T) {
	vol := tensor.MustNew(4, 4, 4)
	cube, err := Cubify(vol, 4)
	if err != nil {
		t.Fatalf("Cubify failed: %v", err)
	}
	if !tensor.EqualShape(cube.Shape(), []int{4, 4, 4}) {
		t.Errorf("shape: got %v", cube.Shape())
	}
}

func TestCubify_Errors(t *testing.T) {
	if _, err := Cubify(tensor.MustNew(4, 4), 8); err == nil {
		t.Error("expected error for rank-2 input")
	}
	if _, err := Cubify(tensor.MustNew(2, 9, 2), 8); err == nil {
		t.Error("expected error when an axis exceeds the cube")
	}
}

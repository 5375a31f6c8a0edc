package distance

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransform(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input []bool
		shape []int
		want  []float64
	}{
		{
			name:  "line with one target",
			input: []bool{true, true, false, true},
			shape: []int{4},
			want:  []float64{2, 1, 0, 1},
		},
		{
			name:  "targets at both ends",
			input: []bool{false, true, true, true, false},
			shape: []int{5},
			want:  []float64{0, 1, 2, 1, 0},
		},
		{
			name:  "diagonal",
			input: []bool{false, true, true, true},
			shape: []int{2, 2},
			want:  []float64{0, 1, 1, math.Sqrt2},
		},
		{
			name: "3-4-5",
			input: func() []bool {
				in := make([]bool, 5*4)
				for i := range in {
					in[i] = true
				}
				in[0] = false
				return in
			}(),
			shape: []int{5, 4},
			want: []float64{
				0, 1, 2, 3,
				1, math.Sqrt2, math.Sqrt(5), math.Sqrt(10),
				2, math.Sqrt(5), math.Sqrt(8), math.Sqrt(13),
				3, math.Sqrt(10), math.Sqrt(13), math.Sqrt(18),
				4, math.Sqrt(17), math.Sqrt(20), 5,
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Transform(tt.input, tt.shape, nil)
			require.NoError(t, err)
			assert.InDeltaSlice(t, tt.want, got, 1e-9)
		})
	}
}

func TestTransform_NoTargets(t *testing.T) {
	t.Parallel()

	got, err := Transform([]bool{true, true, true}, []int{3}, nil)
	require.NoError(t, err)

	for _, v := range got {
		assert.True(t, math.IsInf(v, 1))
	}
}

func TestTransform_AllTargets(t *testing.T) {
	t.Parallel()

	got, err := Transform([]bool{false, false}, []int{1, 2}, nil)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0}, got)
}

func TestTransform_ShapeMismatch(t *testing.T) {
	t.Parallel()

	_, err := Transform([]bool{true, false}, []int{3}, nil)
	assert.Error(t, err)

	_, err = Transform([]bool{true}, nil, nil)
	assert.Error(t, err)
}

func TestLowerEnvelope(t *testing.T) {
	t.Parallel()

	const far = 1000
	f := []float64{far, 0, far, far, 0}
	d := make([]float64, len(f))
	v := make([]int, len(f))
	z := make([]float64, len(f)+1)

	lowerEnvelope(f, d, v, z, 1)

	assert.Equal(t, []float64{1, 0, 1, 1, 0}, d)
}

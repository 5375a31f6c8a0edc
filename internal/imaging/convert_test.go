package imaging

import (
	"image"
	"image/color"
	"math"
	"testing"
)

func TestToArray(t *testing.T) {
	img := createInMemoryImage(3, 2, color.Black)
	img.Set(2, 1, color.White)
	img.Set(0, 1, color.Gray{Y: 102})

	arr, err := ToArray(img)
	if err != nil {
		t.Fatalf("ToArray failed: %v", err)
	}

	shape := arr.Shape()
	if len(shape) != 3 || shape[0] != 1 || shape[1] != 2 || shape[2] != 3 {
		t.Fatalf("shape: got %v, want [1 2 3]", shape)
	}

	tests := []struct {
		y, x int
		want float64
	}{
		{0, 0, 0},
		{1, 2, 1},
		{1, 0, 0.4},
	}
	for _, tt := range tests {
		if got := arr.At(0, tt.y, tt.x); absFloat(got-tt.want) > 1e-9 {
			t.Errorf("At(0,%d,%d): got %v, want %v", tt.y, tt.x, got, tt.want)
		}
	}
}

func TestToArray_NonZeroOrigin(t *testing.T) {
	img := image.NewGray(image.Rect(10, 20, 14, 23))
	img.SetGray(10, 20, color.Gray{Y: 255})

	arr, err := ToArray(img)
	if err != nil {
		t.Fatalf("ToArray failed: %v", err)
	}
	if arr.At(0, 0, 0) != 1 {
		t.Errorf("origin pixel: got %v, want 1", arr.At(0, 0, 0))
	}
	if arr.Shape()[1] != 3 || arr.Shape()[2] != 4 {
		t.Errorf("shape: got %v, want [1 3 4]", arr.Shape())
	}
}

func TestBinarize(t *testing.T) {
	img := createMaskImage(8, 4, 2, 1, 6, 3)

	mask, err := Binarize(img, 128)
	if err != nil {
		t.Fatalf("Binarize failed: %v", err)
	}

	for i, v := range mask.Data() {
		if v != 0 && v != 1 {
			t.Fatalf("element %d is %v, want 0 or 1", i, v)
		}
	}
	if got := mask.Count(func(v float64) bool { return v == 1 }); got != 8 {
		t.Errorf("foreground: got %d, want 8", got)
	}
	if mask.At(0, 1, 2) != 1 || mask.At(0, 0, 0) != 0 {
		t.Error("rectangle not at expected position")
	}
}

func TestBinarize_Level(t *testing.T) {
	img := createInMemoryImage(2, 2, color.Gray{Y: 100})

	tests := []struct {
		level uint8
		want  int
	}{
		{50, 4},
		{200, 0},
	}
	for _, tt := range tests {
		mask, err := Binarize(img, tt.level)
		if err != nil {
			t.Fatalf("Binarize failed: %v", err)
		}
		if got := mask.Count(func(v float64) bool { return v == 1 }); got != tt.want {
			t.Errorf("level %d: got %d foreground, want %d", tt.level, got, tt.want)
		}
	}
}

func TestBinarize_ColorMatchesLuminance(t *testing.T) {
	colors := []color.Color{
		color.RGBA{R: 0, G: 255, B: 0, A: 255},
		color.RGBA{R: 0, G: 0, B: 255, A: 255},
		color.RGBA{R: 255, G: 128, B: 0, A: 255},
		color.RGBA{R: 40, G: 200, B: 180, A: 255},
	}
	for _, c := range colors {
		img := createInMemoryImage(2, 2, c)
		arr, err := ToArray(img)
		if err != nil {
			t.Fatalf("ToArray failed: %v", err)
		}
		lum := int(math.Round(arr.At(0, 0, 0) * 255))

		for level := 1; level <= 255; level++ {
			if level == lum {
				continue
			}
			mask, err := Binarize(img, uint8(level))
			if err != nil {
				t.Fatalf("Binarize failed: %v", err)
			}
			want := 0.0
			if lum > level {
				want = 1
			}
			if got := mask.At(0, 0, 0); got != want {
				t.Errorf("color %v (luminance %d) at level %d: got %v, want %v", c, lum, level, got, want)
			}
		}
	}
}

func TestResize(t *testing.T) {
	img := createMaskImage(10, 10, 0, 0, 5, 10)

	out, err := Resize(img, 20, 4, true)
	if err != nil {
		t.Fatalf("Resize failed: %v", err)
	}
	if out.Bounds().Dx() != 20 || out.Bounds().Dy() != 4 {
		t.Fatalf("size: got %dx%d, want 20x4", out.Bounds().Dx(), out.Bounds().Dy())
	}

	// Nearest-neighbour keeps a label mask strictly two-valued
	arr, err := ToArray(out)
	if err != nil {
		t.Fatalf("ToArray failed: %v", err)
	}
	for i, v := range arr.Data() {
		if v != 0 && v != 1 {
			t.Fatalf("element %d is %v after mask resize", i, v)
		}
	}
}

func TestResize_KeepsAspect(t *testing.T) {
	img := createMaskImage(20, 10, 0, 0, 10, 10)

	tests := []struct {
		name          string
		width, height int
		wantW, wantH  int
	}{
		{"height from width", 10, 0, 10, 5},
		{"width from height", 0, 20, 40, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Resize(img, tt.width, tt.height, true)
			if err != nil {
				t.Fatalf("Resize failed: %v", err)
			}
			if out.Bounds().Dx() != tt.wantW || out.Bounds().Dy() != tt.wantH {
				t.Errorf("size: got %dx%d, want %dx%d",
					out.Bounds().Dx(), out.Bounds().Dy(), tt.wantW, tt.wantH)
			}
		})
	}
}

func TestResize_InvalidSize(t *testing.T) {
	img := createInMemoryImage(10, 10, color.White)

	tests := []struct {
		name          string
		width, height int
	}{
		{"zero width and height", 0, 0},
		{"negative width", -5, 10},
		{"negative height", 10, -5},
		{"negative with zero", 0, -5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Resize(img, tt.width, tt.height, false); err == nil {
				t.Error("expected error for invalid size")
			}
		})
	}
}

func TestCrop(t *testing.T) {
	img := createMaskImage(100, 100, 50, 50, 100, 100)

	out, err := Crop(img, 40, 40, 60, 70)
	if err != nil {
		t.Fatalf("Crop failed: %v", err)
	}

	if out.Bounds().Dx() != 20 || out.Bounds().Dy() != 30 {
		t.Errorf("dimensions: got %dx%d, want 20x30", out.Bounds().Dx(), out.Bounds().Dy())
	}

	mask, err := Binarize(out, 128)
	if err != nil {
		t.Fatalf("Binarize failed: %v", err)
	}
	// The white quadrant begins at (10,10) of the crop
	if got := mask.Count(func(v float64) bool { return v == 1 }); got != 10*20 {
		t.Errorf("foreground: got %d, want 200", got)
	}
}

func TestCrop_InvalidRegion(t *testing.T) {
	img := createInMemoryImage(100, 100, color.White)

	tests := []struct {
		name           string
		x1, y1, x2, y2 int
	}{
		{"negative x1", -10, 0, 50, 50},
		{"negative y1", 0, -10, 50, 50},
		{"x2 beyond bounds", 0, 0, 150, 50},
		{"y2 beyond bounds", 0, 0, 50, 150},
		{"x1 >= x2", 50, 0, 50, 50},
		{"y1 >= y2", 0, 50, 50, 50},
		{"inverted region", 50, 50, 25, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Crop(img, tt.x1, tt.y1, tt.x2, tt.y2); err == nil {
				t.Error("expected error for invalid region")
			}
		})
	}
}

package imaging

import (
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/segment"
	"github.com/disintegration/imaging"

	"github.com/ironsheep/segmetrics-mcp/internal/tensor"
)

// ToArray converts an image to a channel-first grayscale array of shape
// (1, H, W) with values in [0,1].
//
// Color images are reduced to luminance first. Alpha is ignored.
func ToArray(img image.Image) (*tensor.Array, error) {
	gray := imaging.Grayscale(img)
	bounds := gray.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	arr, err := tensor.New(1, height, width)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate array for %dx%d image: %w", width, height, err)
	}

	data := arr.Data()
	for y := 0; y < height; y++ {
		row := gray.Pix[y*gray.Stride:]
		for x := 0; x < width; x++ {
			// R, G and B are equal after Grayscale
			data[y*width+x] = float64(row[x*4]) / 255.0
		}
	}
	return arr, nil
}

// Binarize thresholds an image into a (1, H, W) mask: 1 where the pixel's
// luminance is at or above level, 0 elsewhere.
//
// Luminance is taken from the same grayscale conversion as ToArray, so a
// pixel is foreground exactly when its ToArray value is at least level/255.
// Label images are usually stored as 0/255; any level in 1..255 separates
// those cleanly.
func Binarize(img image.Image, level uint8) (*tensor.Array, error) {
	bin := segment.Threshold(imaging.Grayscale(img), level)
	bounds := bin.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	arr, err := tensor.New(1, height, width)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate mask for %dx%d image: %w", width, height, err)
	}

	data := arr.Data()
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if bin.GrayAt(bounds.Min.X+x, bounds.Min.Y+y).Y != 0 {
				data[y*width+x] = 1
			}
		}
	}
	return arr, nil
}

// Resize scales an image to width x height. One of the two may be 0, in
// which case it is derived from the other so the aspect ratio is kept.
//
// Label masks must use nearest-neighbour sampling so that no intermediate
// values are invented along region borders; pass mask=true for them. Other
// images are resampled with a Lanczos filter.
func Resize(img image.Image, width, height int, mask bool) (image.Image, error) {
	if width < 0 || height < 0 || (width == 0 && height == 0) {
		return nil, fmt.Errorf("invalid target size %dx%d", width, height)
	}
	filter := imaging.Lanczos
	if mask {
		filter = imaging.NearestNeighbor
	}
	return imaging.Resize(img, width, height, filter), nil
}

// Crop extracts the rectangle (x1,y1)-(x2,y2) from an image, with (x1,y1)
// inclusive and (x2,y2) exclusive.
func Crop(img image.Image, x1, y1, x2, y2 int) (image.Image, error) {
	bounds := img.Bounds()

	if x1 < bounds.Min.X || y1 < bounds.Min.Y || x2 > bounds.Max.X || y2 > bounds.Max.Y {
		return nil, fmt.Errorf("crop region (%d,%d)-(%d,%d) outside image bounds (%d,%d)-(%d,%d)",
			x1, y1, x2, y2, bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Max.Y)
	}
	if x1 >= x2 || y1 >= y2 {
		return nil, fmt.Errorf("invalid crop region: x1 must be < x2, y1 must be < y2")
	}

	return imaging.Crop(img, image.Rect(x1, y1, x2, y2)), nil
}

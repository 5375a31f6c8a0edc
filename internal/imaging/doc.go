// Package imaging turns image files into the arrays consumed by the distance,
// loss and confusion packages.
//
// This package is the I/O glue around the numeric core: it decodes images,
// converts them to channel-first grayscale arrays, binarizes label masks,
// resizes slices to a standard size and assembles 2-D slices into padded
// volumes. It never computes metrics itself.
//
// # Array Layout
//
// All arrays follow the channel-first convention:
//   - ToArray and Binarize return (1, H, W)
//   - Stack returns (D, H, W), one depth index per slice
//   - Cubify keeps rank 3 and pads each axis symmetrically
//
// Row y, column x of an image lands at index (0, y, x); the image's bounds
// origin is discarded.
//
// # Value Ranges
//
//   - ToArray: luminance scaled to [0,1] (8-bit value / 255)
//   - Binarize: exactly 0 or 1
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. The conversion functions
// are stateless and can be called concurrently on different images.
//
// # Error Handling
//
// Functions return errors for:
//   - File I/O and decode failures
//   - Invalid target sizes or crop regions
//   - Slices of differing size (a *tensor.ShapeMismatchError)
//   - Volumes larger than the requested cube
package imaging

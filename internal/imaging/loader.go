package imaging

import (
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"path/filepath"
	"sync"

	"github.com/ironsheep/segmetrics-mcp/internal/tensor"
)

// ImageCache provides thread-safe caching of decoded images to avoid
// redundant disk reads.
//
// The cache stores decoded image.Image objects keyed by their file path.
// Conversions to arrays are not cached: masks may be binarized at different
// thresholds by different callers, and the arrays handed out must be owned
// by the caller.
//
// # Memory Management
//
// Cached images remain in memory until explicitly removed via Evict() or
// Clear(). Training drivers that walk a whole dataset should evict each
// slice once its arrays have been built.
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]image.Image
}

// NewImageCache creates and initializes a new empty image cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]image.Image),
	}
}

// Load retrieves an image from the cache or decodes it from disk.
//
// Supported formats are PNG, JPEG and GIF. The image is cached under the
// exact path string provided, so relative and absolute paths to the same
// file are separate entries.
func (c *ImageCache) Load(path string) (image.Image, error) {
	c.mu.RLock()
	if img, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return img, nil
	}
	c.mu.RUnlock()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", filepath.Base(path), err)
	}

	c.mu.Lock()
	c.images[path] = img
	c.mu.Unlock()

	return img, nil
}

// Len reports how many images are cached.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// Clear removes all images from the cache.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]image.Image)
	c.mu.Unlock()
}

// Evict removes a specific image from the cache by its path. Unknown paths
// are ignored.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

// LoadMask loads a ground-truth label image and binarizes it at level,
// returning a (1, H, W) array of 0/1 values.
func (c *ImageCache) LoadMask(path string, level uint8) (*tensor.Array, error) {
	img, err := c.Load(path)
	if err != nil {
		return nil, err
	}
	return Binarize(img, level)
}

// LoadProbability loads a probability map stored as a grayscale image,
// returning a (1, H, W) array with values in [0,1].
func (c *ImageCache) LoadProbability(path string) (*tensor.Array, error) {
	img, err := c.Load(path)
	if err != nil {
		return nil, err
	}
	return ToArray(img)
}

// LoadVolume loads one mask slice per path, binarizes each at level and
// stacks them into a (D, H, W) volume in path order.
func (c *ImageCache) LoadVolume(paths []string, level uint8) (*tensor.Array, error) {
	slices := make([]*tensor.Array, 0, len(paths))
	for _, p := range paths {
		m, err := c.LoadMask(p, level)
		if err != nil {
			return nil, fmt.Errorf("failed to load slice %s: %w", p, err)
		}
		slices = append(slices, m)
	}
	return Stack(slices)
}

// MaskInfo describes a binarized mask file.
type MaskInfo struct {
	// Shape is the channel-first array shape, (1, H, W).
	Shape []int `json:"shape"`

	// Format is the detected image format: "png", "jpeg", "gif", or
	// "unknown". Detection is based on file extension, not file contents.
	Format string `json:"format"`

	// Foreground is the number of elements at or above the threshold.
	Foreground int `json:"foreground"`

	// ForegroundFraction is Foreground divided by the element count.
	ForegroundFraction float64 `json:"foreground_fraction"`

	// FileSizeBytes is the size of the file on disk.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// DescribeMask loads and binarizes a mask and reports its shape and
// foreground coverage.
func DescribeMask(cache *ImageCache, path string, level uint8) (*MaskInfo, error) {
	mask, err := cache.LoadMask(path, level)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	format := "unknown"
	switch filepath.Ext(path) {
	case ".png":
		format = "png"
	case ".jpg", ".jpeg":
		format = "jpeg"
	case ".gif":
		format = "gif"
	}

	fg := mask.Count(func(v float64) bool { return v != 0 })

	return &MaskInfo{
		Shape:              mask.Shape(),
		Format:             format,
		Foreground:         fg,
		ForegroundFraction: float64(fg) / float64(mask.Len()),
		FileSizeBytes:      stat.Size(),
	}, nil
}

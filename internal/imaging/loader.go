package imaging

import (
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
)

// MaskCache provides thread-safe caching of decoded label masks to avoid
// redundant disk reads.
//
// Masks are keyed by the exact path string given to Load. Once a mask is
// loaded, subsequent Load calls for the same path return the cached copy.
//
// # Memory Management
//
// Cached masks remain in memory until removed via Evict or Clear. Label masks
// of whole-slide images can be large, so long-running servers should evict
// masks they no longer need.
//
// # Example Usage
//
//	cache := imaging.NewMaskCache()
//	img, err := cache.Load("/path/to/labels.png")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	labels, err := imaging.DecodeLabels(img, nil, "#000000")
type MaskCache struct {
	mu    sync.RWMutex
	masks map[string]image.Image
}

// NewMaskCache creates an empty mask cache.
func NewMaskCache() *MaskCache {
	return &MaskCache{
		masks: make(map[string]image.Image),
	}
}

// Load retrieves a mask from the cache or decodes it from disk.
//
// The decoded image keeps its native type, so 16-bit grayscale PNG and TIFF
// masks load as *image.Gray16 and keep their full label range. Supported
// formats are PNG, TIFF, BMP, GIF and JPEG; JPEG is accepted but lossy
// compression corrupts label values.
//
// # Errors
//
//   - Returns error if the file does not exist or cannot be read
//   - Returns error if the file is not a valid PNG, TIFF, BMP, GIF, or JPEG image
func (c *MaskCache) Load(path string) (image.Image, error) {
	c.mu.RLock()
	if img, ok := c.masks[path]; ok {
		c.mu.RUnlock()
		return img, nil
	}
	c.mu.RUnlock()

	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load mask: %w", err)
	}

	c.mu.Lock()
	c.masks[path] = img
	c.mu.Unlock()

	return img, nil
}

// Len returns the number of cached masks.
func (c *MaskCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.masks)
}

// Clear removes all masks from the cache.
func (c *MaskCache) Clear() {
	c.mu.Lock()
	c.masks = make(map[string]image.Image)
	c.mu.Unlock()
}

// Evict removes a specific mask from the cache by its path.
// If the path is not cached, Evict does nothing.
func (c *MaskCache) Evict(path string) {
	c.mu.Lock()
	delete(c.masks, path)
	c.mu.Unlock()
}

// MaskInfo contains metadata about a label mask file.
type MaskInfo struct {
	// Width is the mask width in pixels.
	Width int `json:"width"`

	// Height is the mask height in pixels.
	Height int `json:"height"`

	// Format is the format detected from the file extension: "png", "jpeg",
	// "gif", "tiff", "bmp" or "unknown".
	Format string `json:"format"`

	// BitDepth is the depth per channel: "8-bit" or "16-bit".
	BitDepth string `json:"bit_depth"`

	// Encoding is how labels are stored: "gray16", "gray" or "color".
	Encoding string `json:"encoding"`

	// LabelCount is the number of distinct non-background labels.
	LabelCount int `json:"label_count"`

	// FileSizeBytes is the size of the mask file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadMaskInfo loads a mask into the cache and returns its metadata,
// including the number of labels it contains. background is only used for
// colour masks.
func LoadMaskInfo(cache *MaskCache, path, background string) (*MaskInfo, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	labels, err := DecodeLabels(img, nil, background)
	if err != nil {
		return nil, err
	}

	bitDepth := "8-bit"
	switch img.(type) {
	case *image.Gray16, *image.RGBA64, *image.NRGBA64:
		bitDepth = "16-bit"
	}

	bounds := img.Bounds()
	return &MaskInfo{
		Width:         bounds.Dx(),
		Height:        bounds.Dy(),
		Format:        formatFromExt(path),
		BitDepth:      bitDepth,
		Encoding:      labels.Encoding,
		LabelCount:    len(labels.Labels()),
		FileSizeBytes: stat.Size(),
	}, nil
}

func formatFromExt(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "png"
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".gif":
		return "gif"
	case ".tif", ".tiff":
		return "tiff"
	case ".bmp":
		return "bmp"
	}
	return "unknown"
}

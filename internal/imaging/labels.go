package imaging

import (
	"fmt"
	"image"
	"sort"

	"github.com/disintegration/imaging"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Label encodings reported in LabelMap.Encoding.
const (
	EncodingGray16 = "gray16"
	EncodingGray   = "gray"
	EncodingColor  = "color"
)

// Region is a rectangular analysis window in image coordinates.
//
// Coordinates follow the standard image convention:
//   - (X1, Y1) is the top-left corner (inclusive)
//   - (X2, Y2) is the bottom-right corner (exclusive)
type Region struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// resolveRegion returns the rectangle to analyse: the whole image when region
// is nil, otherwise the region after checking it lies inside bounds.
func resolveRegion(bounds image.Rectangle, region *Region) (image.Rectangle, error) {
	if region == nil {
		return bounds, nil
	}
	if region.X1 >= region.X2 || region.Y1 >= region.Y2 {
		return image.Rectangle{}, fmt.Errorf("%w: x1 must be < x2 and y1 must be < y2", ErrInvalidRegion)
	}
	r := image.Rect(region.X1, region.Y1, region.X2, region.Y2)
	if !r.In(bounds) {
		return image.Rectangle{}, fmt.Errorf("%w: (%d,%d)-(%d,%d) outside image bounds (%d,%d)-(%d,%d)",
			ErrInvalidRegion, region.X1, region.Y1, region.X2, region.Y2,
			bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Max.Y)
	}
	return r, nil
}

// LabelMap holds the decoded labels of a mask over a rectangle.
type LabelMap struct {
	// Rect is the decoded area in full-image coordinates.
	Rect image.Rectangle

	// Encoding is one of EncodingGray16, EncodingGray or EncodingColor.
	Encoding string

	// Colors maps each label of a colour mask to its hex colour. Nil for
	// grayscale masks.
	Colors map[int]string

	labels []int // row-major over Rect, 0 is background
}

// At returns the label at (x, y), or 0 outside Rect.
func (m *LabelMap) At(x, y int) int {
	if !(image.Point{X: x, Y: y}).In(m.Rect) {
		return 0
	}
	return m.labels[(y-m.Rect.Min.Y)*m.Rect.Dx()+(x-m.Rect.Min.X)]
}

// Labels returns the distinct non-background labels in ascending order.
func (m *LabelMap) Labels() []int {
	seen := make(map[int]struct{})
	for _, l := range m.labels {
		if l != 0 {
			seen[l] = struct{}{}
		}
	}
	out := make([]int, 0, len(seen))
	for l := range seen {
		out = append(out, l)
	}
	sort.Ints(out)
	return out
}

// pixelsByLabel groups the coordinates of every labelled pixel, visiting
// pixels in row-major order.
func (m *LabelMap) pixelsByLabel() map[int][]image.Point {
	groups := make(map[int][]image.Point)
	w := m.Rect.Dx()
	for i, l := range m.labels {
		if l == 0 {
			continue
		}
		groups[l] = append(groups[l], image.Point{X: m.Rect.Min.X + i%w, Y: m.Rect.Min.Y + i/w})
	}
	return groups
}

// DecodeLabels reads the label of every pixel of img inside region (the whole
// image when region is nil).
//
// Grayscale masks use the pixel value as the label. Any other image type is
// treated as a colour mask: pixels matching background (a hex colour such as
// "#000000") or fully transparent pixels are background, and every other
// colour becomes a label numbered in order of first appearance.
//
// # Errors
//
//   - ErrInvalidRegion if region is empty or outside the image
//   - ErrInvalidBackground if a colour mask is given an unparseable background
func DecodeLabels(img image.Image, region *Region, background string) (*LabelMap, error) {
	rect, err := resolveRegion(img.Bounds(), region)
	if err != nil {
		return nil, err
	}

	m := &LabelMap{
		Rect:   rect,
		labels: make([]int, 0, rect.Dx()*rect.Dy()),
	}

	switch src := img.(type) {
	case *image.Gray16:
		m.Encoding = EncodingGray16
		for y := rect.Min.Y; y < rect.Max.Y; y++ {
			for x := rect.Min.X; x < rect.Max.X; x++ {
				m.labels = append(m.labels, int(src.Gray16At(x, y).Y))
			}
		}
	case *image.Gray:
		m.Encoding = EncodingGray
		for y := rect.Min.Y; y < rect.Max.Y; y++ {
			for x := rect.Min.X; x < rect.Max.X; x++ {
				m.labels = append(m.labels, int(src.GrayAt(x, y).Y))
			}
		}
	default:
		if err := m.decodeColors(img, rect, background); err != nil {
			return nil, err
		}
	}

	return m, nil
}

func (m *LabelMap) decodeColors(img image.Image, rect image.Rectangle, background string) error {
	bg, err := colorful.Hex(background)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidBackground, background)
	}
	bgHex := bg.Hex()

	m.Encoding = EncodingColor
	m.Colors = make(map[int]string)
	ids := make(map[string]int)

	// Crop returns an NRGBA copy anchored at (0,0).
	cropped := imaging.Crop(img, rect)
	for y := 0; y < rect.Dy(); y++ {
		for x := 0; x < rect.Dx(); x++ {
			c, ok := colorful.MakeColor(cropped.NRGBAAt(x, y))
			if !ok {
				m.labels = append(m.labels, 0)
				continue
			}
			hex := c.Hex()
			if hex == bgHex {
				m.labels = append(m.labels, 0)
				continue
			}
			id, seen := ids[hex]
			if !seen {
				id = len(ids) + 1
				ids[hex] = id
				m.Colors[id] = hex
			}
			m.labels = append(m.labels, id)
		}
	}
	return nil
}

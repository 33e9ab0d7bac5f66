package imaging

import (
	"errors"
	"fmt"
	"image"
	"math"
	"sort"

	"github.com/anthonynsimon/bild/convolution"

	"github.com/ironsheep/rosette-tools-mcp/internal/rosette"
)

// Reasons reported in SkippedLabel.Reason.
const (
	SkipBelowMinArea    = "below_min_area"
	SkipAboveMaxArea    = "above_max_area"
	SkipInvalidGeometry = "invalid_geometry"
)

const (
	erosionPadding = 2

	// The cross kernel averages five taps, so a pixel with one unset
	// 4-neighbour scores 204 and a fully surrounded one 255.
	interiorCut = 230
)

// ExtractOptions holds the area limits applied while extracting cells.
type ExtractOptions struct {
	// MinArea is the smallest accepted cell area in pixels.
	MinArea float64 `json:"min_area"`

	// MaxArea is the largest accepted cell area in pixels. Zero means no limit.
	MaxArea float64 `json:"max_area"`
}

func (o ExtractOptions) validate() error {
	if o.MinArea < 0 || math.IsNaN(o.MinArea) {
		return fmt.Errorf("%w: min area must be at least 0, got %v", ErrInvalidOptions, o.MinArea)
	}
	if o.MaxArea < 0 || math.IsNaN(o.MaxArea) {
		return fmt.Errorf("%w: max area must be at least 0, got %v", ErrInvalidOptions, o.MaxArea)
	}
	if o.MaxArea > 0 && o.MaxArea < o.MinArea {
		return fmt.Errorf("%w: max area %v is below min area %v", ErrInvalidOptions, o.MaxArea, o.MinArea)
	}
	return nil
}

// SkippedLabel describes a label that was not turned into a cell.
type SkippedLabel struct {
	Label  int    `json:"label"`
	Area   int    `json:"area"`
	Reason string `json:"reason"`
}

// ExtractResult holds the cells extracted from a label map.
type ExtractResult struct {
	// Cells are sorted by ID. The ID of a cell is its label.
	Cells []rosette.Cell `json:"cells"`

	// Skipped lists rejected labels in ascending label order.
	Skipped []SkippedLabel `json:"skipped"`

	// LabelCount is the number of distinct labels examined.
	LabelCount int `json:"label_count"`

	// Shapes holds the morphology of every extracted cell, keyed by ID.
	Shapes map[int]CellShape `json:"shapes"`
}

// ExtractCells builds one rosette.Cell per label of m.
//
// Labels whose pixel area lies outside [MinArea, MaxArea] are skipped, as are
// labels whose outline has fewer than three points. The centroid of a cell is
// the mean of its pixel coordinates. Every extracted cell also gets a
// CellShape in Shapes.
func ExtractCells(m *LabelMap, opts ExtractOptions) (*ExtractResult, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	groups := m.pixelsByLabel()
	labels := make([]int, 0, len(groups))
	for l := range groups {
		labels = append(labels, l)
	}
	sort.Ints(labels)

	result := &ExtractResult{
		Cells:      make([]rosette.Cell, 0, len(labels)),
		Skipped:    []SkippedLabel{},
		LabelCount: len(labels),
		Shapes:     make(map[int]CellShape, len(labels)),
	}

	for _, label := range labels {
		pixels := groups[label]
		area := float64(len(pixels))

		switch {
		case area < opts.MinArea:
			result.Skipped = append(result.Skipped, SkippedLabel{Label: label, Area: len(pixels), Reason: SkipBelowMinArea})
			continue
		case opts.MaxArea > 0 && area > opts.MaxArea:
			result.Skipped = append(result.Skipped, SkippedLabel{Label: label, Area: len(pixels), Reason: SkipAboveMaxArea})
			continue
		}

		cell, err := cellFromPixels(label, pixels)
		if errors.Is(err, ErrInvalidCellGeometry) {
			result.Skipped = append(result.Skipped, SkippedLabel{Label: label, Area: len(pixels), Reason: SkipInvalidGeometry})
			continue
		}
		if err != nil {
			return nil, err
		}
		result.Cells = append(result.Cells, cell)
		result.Shapes[label] = describeShape(pixels, len(cell.Boundary))
	}

	return result, nil
}

// cellFromPixels computes the centroid and ordered outline of one label.
func cellFromPixels(label int, pixels []image.Point) (rosette.Cell, error) {
	var sx, sy float64
	for _, p := range pixels {
		sx += float64(p.X)
		sy += float64(p.Y)
	}
	n := float64(len(pixels))
	centroid := rosette.Point{X: sx / n, Y: sy / n}

	outline := boundaryPixels(pixels)
	if len(outline) < 3 {
		return rosette.Cell{}, fmt.Errorf("%w: label %d has %d boundary points", ErrInvalidCellGeometry, label, len(outline))
	}

	boundary := make([]rosette.Point, len(outline))
	for i, p := range outline {
		boundary[i] = rosette.Point{X: float64(p.X), Y: float64(p.Y)}
	}
	sortByAngle(boundary, centroid)

	return rosette.Cell{
		ID:       label,
		Boundary: boundary,
		Centroid: centroid,
		Area:     n,
	}, nil
}

// boundaryPixels returns the pixels of the region that do not survive an
// erosion with the 4-connected cross: every pixel with at least one
// 4-neighbour outside the region. The region is drawn into a padded binary
// mask so pixels on the image border are treated as touching background.
func boundaryPixels(pixels []image.Point) []image.Point {
	if len(pixels) == 0 {
		return nil
	}

	bbox := image.Rectangle{Min: pixels[0], Max: pixels[0].Add(image.Pt(1, 1))}
	for _, p := range pixels[1:] {
		bbox = bbox.Union(image.Rectangle{Min: p, Max: p.Add(image.Pt(1, 1))})
	}
	origin := bbox.Min.Sub(image.Pt(erosionPadding, erosionPadding))

	mask := image.NewGray(image.Rect(0, 0, bbox.Dx()+2*erosionPadding, bbox.Dy()+2*erosionPadding))
	for _, p := range pixels {
		q := p.Sub(origin)
		mask.Pix[mask.PixOffset(q.X, q.Y)] = 255
	}

	eroded := convolution.Convolve(mask, crossKernel(), &convolution.Options{})

	out := make([]image.Point, 0, len(pixels))
	for _, p := range pixels {
		q := p.Sub(origin)
		if eroded.RGBAAt(q.X, q.Y).R < interiorCut {
			out = append(out, p)
		}
	}
	return out
}

// crossKernel is the 3x3 plus-shaped structuring element with equal weights.
func crossKernel() *convolution.Kernel {
	k := convolution.NewKernel(3, 3)
	for _, i := range []int{1, 3, 4, 5, 7} {
		k.Matrix[i] = 1.0 / 5
	}
	return k
}

// sortByAngle orders points by their angle around center, breaking ties by
// distance and then row-major position.
func sortByAngle(points []rosette.Point, center rosette.Point) {
	type keyed struct {
		p     rosette.Point
		angle float64
		dist  float64
	}
	ks := make([]keyed, len(points))
	for i, p := range points {
		ks[i] = keyed{
			p:     p,
			angle: math.Atan2(p.Y-center.Y, p.X-center.X),
			dist:  p.Dist(center),
		}
	}
	sort.Slice(ks, func(i, j int) bool {
		a, b := ks[i], ks[j]
		if a.angle != b.angle {
			return a.angle < b.angle
		}
		if a.dist != b.dist {
			return a.dist < b.dist
		}
		if a.p.Y != b.p.Y {
			return a.p.Y < b.p.Y
		}
		return a.p.X < b.p.X
	})
	for i, k := range ks {
		points[i] = k.p
	}
}

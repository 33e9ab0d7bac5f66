package imaging

import (
	"image"
	"math"
)

// CellShape holds per-cell morphology derived from the label's pixels.
//
// Axis lengths, eccentricity and orientation describe the ellipse with the
// same second central moments as the region. Orientation is the angle in
// radians between the Y (row) axis and the major axis, in [-π/2, π/2],
// positive when the major axis leans toward +X as Y increases. A region
// elongated along X has orientation π/2.
type CellShape struct {
	// Perimeter is the number of pixels with at least one 4-neighbour
	// outside the label.
	Perimeter int `json:"perimeter"`

	EquivalentDiameter float64 `json:"equivalent_diameter"`
	MajorAxisLength    float64 `json:"major_axis_length"`
	MinorAxisLength    float64 `json:"minor_axis_length"`
	Eccentricity       float64 `json:"eccentricity"`
	Orientation        float64 `json:"orientation"`

	// Extent is the area divided by the bounding box area.
	Extent float64 `json:"extent"`

	// BoundingBox is the smallest region holding every pixel of the label.
	BoundingBox Region `json:"bounding_box"`
}

// describeShape computes the morphology of a label from its pixels and the
// size of its outline.
func describeShape(pixels []image.Point, perimeter int) CellShape {
	n := float64(len(pixels))
	shape := CellShape{
		Perimeter:          perimeter,
		EquivalentDiameter: math.Sqrt(4 * n / math.Pi),
	}
	if len(pixels) == 0 {
		return shape
	}

	bbox := image.Rectangle{Min: pixels[0], Max: pixels[0].Add(image.Pt(1, 1))}
	var sx, sy float64
	for _, p := range pixels {
		bbox = bbox.Union(image.Rectangle{Min: p, Max: p.Add(image.Pt(1, 1))})
		sx += float64(p.X)
		sy += float64(p.Y)
	}
	shape.BoundingBox = Region{X1: bbox.Min.X, Y1: bbox.Min.Y, X2: bbox.Max.X, Y2: bbox.Max.Y}
	shape.Extent = n / float64(bbox.Dx()*bbox.Dy())

	cx, cy := sx/n, sy/n
	var vxx, vyy, vxy float64
	for _, p := range pixels {
		dx, dy := float64(p.X)-cx, float64(p.Y)-cy
		vxx += dx * dx
		vyy += dy * dy
		vxy += dx * dy
	}
	vxx /= n
	vyy /= n
	vxy /= n

	mean := (vxx + vyy) / 2
	root := math.Sqrt(math.Pow((vxx-vyy)/2, 2) + vxy*vxy)
	major, minor := mean+root, math.Max(mean-root, 0)

	shape.MajorAxisLength = 4 * math.Sqrt(major)
	shape.MinorAxisLength = 4 * math.Sqrt(minor)
	if major > 0 {
		shape.Eccentricity = math.Sqrt(1 - minor/major)
	}

	switch {
	case vxx != vyy:
		shape.Orientation = 0.5 * math.Atan2(2*vxy, vyy-vxx)
	case vxy < 0:
		shape.Orientation = -math.Pi / 4
	default:
		shape.Orientation = math.Pi / 4
	}
	return shape
}

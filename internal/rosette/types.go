package rosette

import "math"

// Point is a position in pixel space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

func (p Point) distSq(q Point) float64 {
	dx, dy := p.X-q.X, p.Y-q.Y
	return dx*dx + dy*dy
}

// Midpoint returns the point halfway between p and q.
func Midpoint(p, q Point) Point {
	return Point{X: (p.X + q.X) / 2, Y: (p.Y + q.Y) / 2}
}

// rowMajorLess orders points top to bottom, then left to right.
func rowMajorLess(a, b Point) bool {
	if a.Y != b.Y {
		return a.Y < b.Y
	}
	return a.X < b.X
}

// Cell is one segmented cell as supplied by the boundary provider.
//
// Boundary is the closed outline in traversal order; the last point connects
// back to the first. Cells are read-only to this package.
type Cell struct {
	// ID is the cell label, unique within one detection run.
	ID int `json:"id"`

	// Boundary holds the outline points.
	Boundary []Point `json:"boundary"`

	// Centroid is the center of mass of the cell's pixels.
	Centroid Point `json:"centroid"`

	// Area is the cell's area in square pixels.
	Area float64 `json:"area"`
}

// CellPair is an unordered pair of cell IDs, stored with A < B.
type CellPair struct {
	A int `json:"a"`
	B int `json:"b"`
}

// NewCellPair returns the normalized pair for a and b.
func NewCellPair(a, b int) CellPair {
	if b < a {
		a, b = b, a
	}
	return CellPair{A: a, B: b}
}

func (p CellPair) less(q CellPair) bool {
	if p.A != q.A {
		return p.A < q.A
	}
	return p.B < q.B
}

// ContactPoint records that the boundaries of two cells come within the search
// radius of each other.
type ContactPoint struct {
	// Position is the midpoint of the closest boundary point pair.
	Position Point `json:"position"`

	// Cells is the pair of cells whose boundaries produced this contact.
	Cells CellPair `json:"cells"`

	// Distance is the minimum distance between the two boundaries.
	Distance float64 `json:"distance"`
}

// Vertex is a junction where two or more cell boundaries meet.
type Vertex struct {
	// ID is the 1-based position of the vertex in row-major order.
	ID int `json:"id"`

	// Position is the mean of the member contact point positions.
	Position Point `json:"position"`

	// Cells holds the participating cell IDs, ascending and without duplicates.
	Cells []int `json:"cells"`

	// ContactCount is the number of contact points merged into this vertex.
	ContactCount int `json:"contact_count"`

	// Spread is the largest distance from a member contact point to Position.
	Spread float64 `json:"spread"`
}

// Order returns the junction order: the number of distinct participating cells.
func (v Vertex) Order() int {
	return len(v.Cells)
}

// IsRosette reports whether v has at least minCells participating cells.
func (v Vertex) IsRosette(minCells int) bool {
	return v.Order() >= minCells
}

// HasCell reports whether the cell with the given ID participates in v.
func (v Vertex) HasCell(id int) bool {
	for _, c := range v.Cells {
		if c == id {
			return true
		}
	}
	return false
}

// Rosette is a vertex that meets the rosette threshold, tagged with its display index.
type Rosette struct {
	// Index is the 1-based display number, assigned in row-major order.
	Index int `json:"index"`

	Vertex
}

package rosette

import "math"

type gridKey struct {
	X, Y int
}

// pointGrid buckets indexed points into square cells of side size. With size
// equal to the search radius, every point within the radius of a query lies in
// the 3x3 block of buckets around the query's own bucket.
type pointGrid struct {
	size    float64
	points  []Point
	buckets map[gridKey][]int
}

func newPointGrid(size float64, capacity int) *pointGrid {
	return &pointGrid{
		size:    size,
		points:  make([]Point, 0, capacity),
		buckets: make(map[gridKey][]int),
	}
}

func (g *pointGrid) key(p Point) gridKey {
	return gridKey{
		X: int(math.Floor(p.X / g.size)),
		Y: int(math.Floor(p.Y / g.size)),
	}
}

// insert adds p and returns its index. Indices are dense and assigned in
// insertion order.
func (g *pointGrid) insert(p Point) int {
	idx := len(g.points)
	g.points = append(g.points, p)
	k := g.key(p)
	g.buckets[k] = append(g.buckets[k], idx)
	return idx
}

// near calls fn for every indexed point in the 3x3 bucket block around p.
// Buckets are visited row by row and points in insertion order, so the visit
// order is fixed for a given grid. The caller filters by exact distance.
func (g *pointGrid) near(p Point, fn func(idx int)) {
	k := g.key(p)
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			for _, idx := range g.buckets[gridKey{X: k.X + dx, Y: k.Y + dy}] {
				fn(idx)
			}
		}
	}
}

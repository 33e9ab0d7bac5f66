package rosette

import (
	"fmt"
	"math"
	"sort"
)

// ClusterContacts merges contact points into vertices.
//
// Two contact points belong to the same vertex when they lie within radius of
// each other, directly or through a chain of intermediate contact points; the
// vertices are the connected components of that proximity graph. Components are
// found with union-find, and candidate neighbours come from a grid with side
// radius, for O(C log C) work over C contact points.
//
// Each vertex is positioned at the mean of its member positions and carries
// the union of its members' cell pairs. Vertices are returned in row-major
// order with IDs 1..n. The input is not modified and its order does not affect
// the result.
//
// Distinct junctions closer than radius are merged, never split; see Spread.
func ClusterContacts(contacts []ContactPoint, radius float64) ([]Vertex, error) {
	if !(radius > 0) {
		return nil, fmt.Errorf("%w: radius must be greater than 0, got %v", ErrInvalidConfiguration, radius)
	}
	if len(contacts) == 0 {
		return []Vertex{}, nil
	}

	sorted := make([]ContactPoint, len(contacts))
	copy(sorted, contacts)
	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Cells != b.Cells {
			return a.Cells.less(b.Cells)
		}
		return rowMajorLess(a.Position, b.Position)
	})

	groups := components(sorted, radius)

	vertices := make([]Vertex, 0, len(groups))
	for _, members := range groups {
		vertices = append(vertices, buildVertex(sorted, members))
	}

	sortVertices(vertices)
	for i := range vertices {
		vertices[i].ID = i + 1
	}
	return vertices, nil
}

// components returns the connected components of the proximity graph over
// contacts as lists of indices into contacts. Members are ascending and
// components are ordered by their first member.
func components(contacts []ContactPoint, radius float64) [][]int {
	grid := newPointGrid(radius, len(contacts))
	for _, c := range contacts {
		grid.insert(c.Position)
	}

	limit := radius * radius
	uf := newUnionFind(len(contacts))
	for i, c := range contacts {
		grid.near(c.Position, func(j int) {
			if j <= i {
				return
			}
			if c.Position.distSq(grid.points[j]) <= limit {
				uf.union(i, j)
			}
		})
	}

	slot := make(map[int]int)
	var groups [][]int
	for i := range contacts {
		r := uf.find(i)
		k, ok := slot[r]
		if !ok {
			k = len(groups)
			slot[r] = k
			groups = append(groups, nil)
		}
		groups[k] = append(groups[k], i)
	}
	return groups
}

func buildVertex(contacts []ContactPoint, members []int) Vertex {
	var sumX, sumY float64
	cellSet := make(map[int]struct{})
	for _, m := range members {
		c := contacts[m]
		sumX += c.Position.X
		sumY += c.Position.Y
		cellSet[c.Cells.A] = struct{}{}
		cellSet[c.Cells.B] = struct{}{}
	}
	n := float64(len(members))
	pos := Point{X: sumX / n, Y: sumY / n}

	spread := 0.0
	for _, m := range members {
		spread = math.Max(spread, contacts[m].Position.Dist(pos))
	}

	cells := make([]int, 0, len(cellSet))
	for id := range cellSet {
		cells = append(cells, id)
	}
	sort.Ints(cells)

	return Vertex{
		Position:     pos,
		Cells:        cells,
		ContactCount: len(members),
		Spread:       spread,
	}
}

// sortVertices orders vertices row-major, breaking exact position ties by
// their cell lists.
func sortVertices(vs []Vertex) {
	sort.SliceStable(vs, func(i, j int) bool {
		a, b := vs[i], vs[j]
		if a.Position != b.Position {
			return rowMajorLess(a.Position, b.Position)
		}
		return lessInts(a.Cells, b.Cells)
	})
}

func lessInts(a, b []int) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}

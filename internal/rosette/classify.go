package rosette

import "sort"

// ClassifyRosettes returns the vertices with at least minCells participating
// cells, ordered top to bottom and then left to right, with display indices
// starting at 1. Vertices below the threshold are left out but remain valid
// junctions for TallyJunctions.
func ClassifyRosettes(vertices []Vertex, minCells int) []Rosette {
	rosettes := make([]Rosette, 0)
	for _, v := range vertices {
		if v.IsRosette(minCells) {
			rosettes = append(rosettes, Rosette{Vertex: v})
		}
	}

	sort.SliceStable(rosettes, func(i, j int) bool {
		a, b := rosettes[i], rosettes[j]
		if a.Position != b.Position {
			return rowMajorLess(a.Position, b.Position)
		}
		return a.ID < b.ID
	})
	for i := range rosettes {
		rosettes[i].Index = i + 1
	}
	return rosettes
}

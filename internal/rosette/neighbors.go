package rosette

// CountNeighbors returns, for every input cell, the number of other cells whose
// boundary comes within radius of its own. With radius 1.5 this counts
// 8-connected pixel adjacency.
//
// Each contact found by FindContacts at that radius is one neighbour relation,
// so the same grid index and worker pool serve both searches.
func CountNeighbors(cells []Cell, radius float64, workers int) (map[int]int, error) {
	contacts, err := FindContacts(cells, radius, workers)
	if err != nil {
		return nil, err
	}

	counts := make(map[int]int, len(cells))
	for _, c := range cells {
		counts[c.ID] = 0
	}
	for _, c := range contacts {
		counts[c.Cells.A]++
		counts[c.Cells.B]++
	}
	return counts, nil
}

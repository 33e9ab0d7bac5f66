package rosette

import "sort"

// Junction order buckets. Orders of 8 and above share the last bucket.
var orderLabels = [...]string{"3", "4", "5", "6", "7", "8+"}

// orderBucket maps a junction order to its bucket, or -1 for orders below 3.
func orderBucket(order int) int {
	switch {
	case order < 3:
		return -1
	case order >= 8:
		return len(orderLabels) - 1
	default:
		return order - 3
	}
}

// JunctionTally counts the junctions one cell participates in, by order.
//
// Field names follow the columns of the per-cell export table.
type JunctionTally struct {
	CellID         int `json:"cell_id"`
	Junctions3     int `json:"junctions_3_cell"`
	Junctions4     int `json:"junctions_4_cell"`
	Junctions5     int `json:"junctions_5_cell"`
	Junctions6     int `json:"junctions_6_cell"`
	Junctions7     int `json:"junctions_7_cell"`
	Junctions8Plus int `json:"junctions_8plus_cell"`
	Total          int `json:"total_junctions"`
}

func (t *JunctionTally) slot(bucket int) *int {
	switch bucket {
	case 0:
		return &t.Junctions3
	case 1:
		return &t.Junctions4
	case 2:
		return &t.Junctions5
	case 3:
		return &t.Junctions6
	case 4:
		return &t.Junctions7
	default:
		return &t.Junctions8Plus
	}
}

// add records one junction of the given order. Orders below 3 are ignored.
func (t *JunctionTally) add(order int) {
	b := orderBucket(order)
	if b < 0 {
		return
	}
	*t.slot(b)++
	t.Total++
}

// Count returns the number of junctions of the given order. Any order of 8 or
// more returns the 8+ bucket; orders below 3 return 0.
func (t JunctionTally) Count(order int) int {
	b := orderBucket(order)
	if b < 0 {
		return 0
	}
	return *t.slot(b)
}

// TallyJunctions folds vertex membership into one tally per input cell,
// sorted by cell ID. Cells in no junction get a zero tally; vertex members
// that are not among cells are ignored. Two-cell vertices are edges rather than
// junctions and are not counted.
func TallyJunctions(cells []Cell, vertices []Vertex) []JunctionTally {
	byID := make(map[int]*JunctionTally, len(cells))
	tallies := make([]JunctionTally, len(cells))
	for i, c := range cells {
		tallies[i].CellID = c.ID
	}
	sort.Slice(tallies, func(i, j int) bool { return tallies[i].CellID < tallies[j].CellID })
	for i := range tallies {
		byID[tallies[i].CellID] = &tallies[i]
	}

	for _, v := range vertices {
		for _, id := range v.Cells {
			if t, ok := byID[id]; ok {
				t.add(v.Order())
			}
		}
	}
	return tallies
}

// OrderSummary aggregates one junction order bucket across all cells.
type OrderSummary struct {
	// Order is the bucket label: "3" through "7", or "8+".
	Order string `json:"order"`

	// Participations is the sum of this bucket over all cell tallies. One
	// five-cell junction contributes five participations.
	Participations int `json:"participations"`

	// Vertices is the number of distinct vertices in this bucket.
	Vertices int `json:"vertices"`
}

// JunctionSummary is the image-wide view of the junction tallies.
type JunctionSummary struct {
	Orders             []OrderSummary `json:"orders"`
	CellsWithJunctions int            `json:"cells_with_junctions"`
	TotalCells         int            `json:"total_cells"`
}

// SummarizeJunctions reduces per-cell tallies and the vertex list to per-order
// totals.
func SummarizeJunctions(tallies []JunctionTally, vertices []Vertex) JunctionSummary {
	orders := make([]OrderSummary, len(orderLabels))
	for i, label := range orderLabels {
		orders[i].Order = label
	}

	summary := JunctionSummary{Orders: orders, TotalCells: len(tallies)}
	for _, t := range tallies {
		if t.Total > 0 {
			summary.CellsWithJunctions++
		}
		for b := range orders {
			orders[b].Participations += *t.slot(b)
		}
	}
	for _, v := range vertices {
		if b := orderBucket(v.Order()); b >= 0 {
			orders[b].Vertices++
		}
	}
	return summary
}

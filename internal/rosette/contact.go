package rosette

import (
	"fmt"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"
)

// boundaryIndex is a read-only grid over the boundary points of all cells.
type boundaryIndex struct {
	cells []Cell
	grid  *pointGrid
	owner []int // grid point index -> position in cells
}

func newBoundaryIndex(cells []Cell, radius float64) *boundaryIndex {
	total := 0
	for _, c := range cells {
		total += len(c.Boundary)
	}
	idx := &boundaryIndex{
		cells: cells,
		grid:  newPointGrid(radius, total),
		owner: make([]int, 0, total),
	}
	for ci, c := range cells {
		for _, p := range c.Boundary {
			idx.grid.insert(p)
			idx.owner = append(idx.owner, ci)
		}
	}
	return idx
}

type closestPair struct {
	p, q   Point
	distSq float64
}

// contactsFor returns the contacts between cell ci and every cell stored after
// it in the index. Each unordered pair is therefore produced by exactly one call.
func (idx *boundaryIndex) contactsFor(ci int, radius float64) []ContactPoint {
	limit := radius * radius
	best := make(map[int]*closestPair)

	for _, p := range idx.cells[ci].Boundary {
		idx.grid.near(p, func(j int) {
			cj := idx.owner[j]
			if cj <= ci {
				return
			}
			q := idx.grid.points[j]
			d := p.distSq(q)
			if d > limit {
				return
			}
			// Strict comparison keeps the first closest pair in visit order.
			if cur, ok := best[cj]; !ok || d < cur.distSq {
				best[cj] = &closestPair{p: p, q: q, distSq: d}
			}
		})
	}

	if len(best) == 0 {
		return nil
	}

	others := make([]int, 0, len(best))
	for cj := range best {
		others = append(others, cj)
	}
	sort.Ints(others)

	contacts := make([]ContactPoint, 0, len(others))
	for _, cj := range others {
		b := best[cj]
		contacts = append(contacts, ContactPoint{
			Position: Midpoint(b.p, b.q),
			Cells:    NewCellPair(idx.cells[ci].ID, idx.cells[cj].ID),
			Distance: b.p.Dist(b.q),
		})
	}
	return contacts
}

// FindContacts returns one ContactPoint for every pair of distinct cells whose
// boundaries come within radius of each other. The contact lies at the midpoint
// of the closest boundary point pair.
//
// Boundary points are bucketed into a grid with side radius, so each point is
// only compared against points in the neighbouring buckets. Cells are spread
// over at most workers goroutines (GOMAXPROCS when workers <= 0); every worker
// writes to its own slot and the slots are concatenated afterwards.
//
// The result is sorted by cell pair and does not depend on input order or
// worker count. Cells without boundary points produce no contacts.
//
// # Errors
//
//   - ErrInvalidConfiguration if radius is not positive
//   - ErrDuplicateCell if two cells share an ID
func FindContacts(cells []Cell, radius float64, workers int) ([]ContactPoint, error) {
	if !(radius > 0) {
		return nil, fmt.Errorf("%w: radius must be greater than 0, got %v", ErrInvalidConfiguration, radius)
	}
	if err := checkUniqueIDs(cells); err != nil {
		return nil, err
	}
	if len(cells) < 2 {
		return []ContactPoint{}, nil
	}

	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	// Index in ID order so tie-breaking between equally close pairs does not
	// depend on the caller's ordering.
	cells = sortedByID(cells)
	idx := newBoundaryIndex(cells, radius)
	perCell := make([][]ContactPoint, len(cells))

	var g errgroup.Group
	g.SetLimit(workers)
	for ci := range cells {
		ci := ci
		g.Go(func() error {
			perCell[ci] = idx.contactsFor(ci, radius)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, cs := range perCell {
		total += len(cs)
	}
	contacts := make([]ContactPoint, 0, total)
	for _, cs := range perCell {
		contacts = append(contacts, cs...)
	}

	sort.Slice(contacts, func(i, j int) bool {
		return contacts[i].Cells.less(contacts[j].Cells)
	})
	return contacts, nil
}

func checkUniqueIDs(cells []Cell) error {
	seen := make(map[int]struct{}, len(cells))
	for _, c := range cells {
		if _, ok := seen[c.ID]; ok {
			return fmt.Errorf("%w: %d", ErrDuplicateCell, c.ID)
		}
		seen[c.ID] = struct{}{}
	}
	return nil
}

func sortedByID(cells []Cell) []Cell {
	out := make([]Cell, len(cells))
	copy(out, cells)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

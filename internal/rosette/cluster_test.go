package rosette

import (
	"errors"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contactAt(x, y float64, a, b int) ContactPoint {
	return ContactPoint{Position: Point{X: x, Y: y}, Cells: NewCellPair(a, b)}
}

func TestClusterContacts_TransitiveChain(t *testing.T) {
	// Neighbours are 10px apart; the ends are 30px apart but linked through the chain.
	contacts := []ContactPoint{
		contactAt(0, 0, 1, 2),
		contactAt(10, 0, 2, 3),
		contactAt(20, 0, 3, 4),
		contactAt(30, 0, 4, 5),
	}

	vertices, err := ClusterContacts(contacts, 15)
	require.NoError(t, err)
	require.Len(t, vertices, 1)

	v := vertices[0]
	assert.Equal(t, 1, v.ID)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, v.Cells)
	assert.Equal(t, 4, v.ContactCount)
	assert.InDelta(t, 15.0, v.Position.X, 1e-9)
	assert.InDelta(t, 0.0, v.Position.Y, 1e-9)
	assert.InDelta(t, 15.0, v.Spread, 1e-9)
}

func TestClusterContacts_SeparateJunctions(t *testing.T) {
	contacts := []ContactPoint{
		contactAt(200, 50, 7, 8),
		contactAt(50, 50, 1, 2),
		contactAt(52, 50, 2, 3),
		contactAt(50, 10, 4, 5),
	}

	vertices, err := ClusterContacts(contacts, 15)
	require.NoError(t, err)
	require.Len(t, vertices, 3)

	// Row-major: y=10 first, then the two y=50 vertices left to right.
	assert.Equal(t, []int{4, 5}, vertices[0].Cells)
	assert.Equal(t, []int{1, 2, 3}, vertices[1].Cells)
	assert.Equal(t, []int{7, 8}, vertices[2].Cells)
	for i, v := range vertices {
		assert.Equal(t, i+1, v.ID)
	}
	assert.InDelta(t, 51.0, vertices[1].Position.X, 1e-9)
}

func TestClusterContacts_RadiusIsInclusive(t *testing.T) {
	contacts := []ContactPoint{contactAt(0, 0, 1, 2), contactAt(15, 0, 2, 3)}

	vertices, err := ClusterContacts(contacts, 15)
	require.NoError(t, err)
	assert.Len(t, vertices, 1)

	vertices, err = ClusterContacts(contacts, 14.999)
	require.NoError(t, err)
	assert.Len(t, vertices, 2)
}

func TestClusterContacts_CoarsensNearbyRosettes(t *testing.T) {
	// Two five-cell junctions 10px apart merge into one ten-cell vertex.
	var contacts []ContactPoint
	for i := 1; i <= 5; i++ {
		contacts = append(contacts, contactAt(100, 100, i, i%5+1))
		contacts = append(contacts, contactAt(110, 100, 10+i, 10+i%5+1))
	}

	vertices, err := ClusterContacts(contacts, 15)
	require.NoError(t, err)
	require.Len(t, vertices, 1)
	assert.Equal(t, 10, vertices[0].Order())
	assert.InDelta(t, 105.0, vertices[0].Position.X, 1e-9)
	assert.InDelta(t, 5.0, vertices[0].Spread, 1e-9)
}

// randomContacts scatters n contacts over a 60px square, each between two
// distinct cells out of twelve.
func randomContacts(rng *rand.Rand, n int) []ContactPoint {
	contacts := make([]ContactPoint, n)
	for i := range contacts {
		a := 1 + rng.Intn(12)
		b := 1 + (a+rng.Intn(11))%12
		contacts[i] = contactAt(rng.Float64()*60, rng.Float64()*60, a, b)
	}
	return contacts
}

// bfsComponents is the reference O(C²) breadth-first search over the
// proximity graph. Components come out ordered by their smallest index.
func bfsComponents(contacts []ContactPoint, radius float64) [][]int {
	limit := radius * radius
	seen := make([]bool, len(contacts))
	var groups [][]int
	for start := range contacts {
		if seen[start] {
			continue
		}
		seen[start] = true
		queue := []int{start}
		var members []int
		for len(queue) > 0 {
			i := queue[0]
			queue = queue[1:]
			members = append(members, i)
			for j := range contacts {
				if !seen[j] && contacts[i].Position.distSq(contacts[j].Position) <= limit {
					seen[j] = true
					queue = append(queue, j)
				}
			}
		}
		sort.Ints(members)
		groups = append(groups, members)
	}
	return groups
}

func TestClusterContacts_MatchesBreadthFirstSearch(t *testing.T) {
	for seed := int64(1); seed <= 200; seed++ {
		rng := rand.New(rand.NewSource(seed))
		contacts := randomContacts(rng, 1+rng.Intn(80))
		radius := 1 + rng.Float64()*10

		want := bfsComponents(contacts, radius)
		require.Equal(t, want, components(contacts, radius), "seed %d: partition", seed)

		// One vertex per component, carrying the union of its pairs.
		expected := make([]Vertex, 0, len(want))
		for _, members := range want {
			cellSet := make(map[int]bool)
			var sx, sy float64
			for _, m := range members {
				c := contacts[m]
				cellSet[c.Cells.A] = true
				cellSet[c.Cells.B] = true
				sx += c.Position.X
				sy += c.Position.Y
			}
			cells := make([]int, 0, len(cellSet))
			for id := range cellSet {
				cells = append(cells, id)
			}
			sort.Ints(cells)
			n := float64(len(members))
			expected = append(expected, Vertex{
				Position:     Point{X: sx / n, Y: sy / n},
				Cells:        cells,
				ContactCount: len(members),
			})
		}
		sortVertices(expected)

		vertices, err := ClusterContacts(contacts, radius)
		require.NoError(t, err)
		require.Len(t, vertices, len(expected), "seed %d", seed)
		for i, v := range vertices {
			assert.Equal(t, expected[i].Cells, v.Cells, "seed %d vertex %d", seed, v.ID)
			assert.Equal(t, expected[i].ContactCount, v.ContactCount, "seed %d vertex %d", seed, v.ID)
			assert.InDelta(t, expected[i].Position.X, v.Position.X, 1e-9)
			assert.InDelta(t, expected[i].Position.Y, v.Position.Y, 1e-9)
		}
	}
}

func TestClusterContacts_MemberCellsNearVertex(t *testing.T) {
	const radius = 10.0
	cells := randomCells(3, 80)
	contacts, err := FindContacts(cells, radius, 0)
	require.NoError(t, err)

	vertices, err := ClusterContacts(contacts, radius)
	require.NoError(t, err)

	byID := make(map[int]Cell, len(cells))
	for _, c := range cells {
		byID[c.ID] = c
	}

	// A contact sits at most radius/2 from each of its cells' boundaries, and
	// at most Spread from the vertex position.
	compact := 0
	for _, v := range vertices {
		for _, id := range v.Cells {
			d := minDistTo(byID[id], v.Position)
			assert.LessOrEqual(t, d, v.Spread+radius/2+1e-9, "vertex %d cell %d", v.ID, id)
			if v.Spread <= radius/2 {
				assert.LessOrEqual(t, d, radius, "compact vertex %d cell %d", v.ID, id)
			}
		}
		if v.Spread <= radius/2 {
			compact++
		}
	}
	require.Positive(t, compact)
}

func TestClusterContacts_OrderIndependent(t *testing.T) {
	contacts, err := FindContacts(randomCells(5, 70), 9, 0)
	require.NoError(t, err)
	require.NotEmpty(t, contacts)

	base, err := ClusterContacts(contacts, 9)
	require.NoError(t, err)

	reversed := make([]ContactPoint, len(contacts))
	for i, c := range contacts {
		reversed[len(contacts)-1-i] = c
	}
	got, err := ClusterContacts(reversed, 9)
	require.NoError(t, err)
	assert.Equal(t, base, got)
}

func TestClusterContacts_Degenerate(t *testing.T) {
	vertices, err := ClusterContacts(nil, 15)
	require.NoError(t, err)
	assert.NotNil(t, vertices)
	assert.Empty(t, vertices)

	_, err = ClusterContacts(nil, 0)
	assert.True(t, errors.Is(err, ErrInvalidConfiguration))
}

func TestUnionFind(t *testing.T) {
	uf := newUnionFind(6)
	assert.True(t, uf.union(0, 1))
	assert.True(t, uf.union(2, 3))
	assert.True(t, uf.union(1, 3))
	assert.False(t, uf.union(0, 2), "already joined")

	assert.Equal(t, uf.find(0), uf.find(3))
	assert.NotEqual(t, uf.find(0), uf.find(4))
	assert.NotEqual(t, uf.find(4), uf.find(5))
}
